package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/set-night/eduassist/internal/middleware"
)

// NewRouter wires the gateway routes under /api.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	h := New(deps)
	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
	})
	return r
}
