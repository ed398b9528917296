package actionserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/set-night/eduassist/internal/action"
	"github.com/set-night/eduassist/internal/middleware"
)

// NewRouter wires the action server routes.
func NewRouter(dispatcher *action.Dispatcher) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)

	New(dispatcher).RegisterRoutes(r)
	return r
}
