// Package telegramtest fakes the Bot API endpoints the bot relies on.
package telegramtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
)

const Token = "123456:test-token"

// Call is one recorded Bot API request.
type Call struct {
	Method string
	Params map[string]string
}

type Server struct {
	*httptest.Server

	mu    sync.Mutex
	calls []Call
	files map[string]file
}

type file struct {
	path    string
	content string
}

func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{files: make(map[string]file)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Bot returns a client pointed at the fake server.
func (s *Server) Bot(t testing.TB) *bot.Bot {
	t.Helper()
	b, err := bot.New(Token, bot.WithServerURL(s.URL), bot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("create bot: %v", err)
	}
	return b
}

// AddFile makes a file downloadable by id.
func (s *Server) AddFile(fileID, path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[fileID] = file{path: path, content: content}
}

// Calls returns the recorded requests for method, in arrival order.
func (s *Server) Calls(method string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Call
	for _, c := range s.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// Texts returns the text of every sendMessage call.
func (s *Server) Texts() []string {
	var out []string
	for _, c := range s.Calls("sendMessage") {
		out = append(out, c.Params["text"])
	}
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	if path, ok := strings.CutPrefix(r.URL.Path, "/file/bot"+Token+"/"); ok {
		s.serveFile(w, path)
		return
	}

	method, ok := strings.CutPrefix(r.URL.Path, "/bot"+Token+"/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		_ = r.ParseForm()
	}
	params := make(map[string]string, len(r.Form))
	for k, v := range r.Form {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: method, Params: params})
	f, known := s.files[params["file_id"]]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "sendMessage", "sendPhoto":
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`)
	case "getFile":
		if !known {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: invalid file_id"}`)
			return
		}
		result, _ := json.Marshal(map[string]any{
			"file_id":        params["file_id"],
			"file_unique_id": "u-" + params["file_id"],
			"file_size":      len(f.content),
			"file_path":      f.path,
		})
		fmt.Fprintf(w, `{"ok":true,"result":%s}`, result)
	default:
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	}
}

func (s *Server) serveFile(w http.ResponseWriter, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.path == path {
			fmt.Fprint(w, f.content)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}
