// Package gateway is the HTTP surface the browser UI talks to: listings,
// search feed, details, bookmarks and the Cleveland relay.
package gateway

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"musegate/internal/middleware"
	"musegate/internal/museum"
	"musegate/internal/relay"
	"musegate/internal/session"
)

type Server struct {
	Log      *logrus.Logger
	Sessions *session.Manager
	Sources  map[museum.SourceID]museum.Source
	Relay    *relay.Handler

	bookmarkPageSize int
	mux              *http.ServeMux
}

type Config struct {
	BookmarkPageSize int
}

func New(log *logrus.Logger, sessions *session.Manager, sources map[museum.SourceID]museum.Source, rl *relay.Handler, cfg Config) *Server {
	if cfg.BookmarkPageSize < 1 {
		cfg.BookmarkPageSize = 10
	}
	s := &Server{
		Log:              log,
		Sessions:         sessions,
		Sources:          sources,
		Relay:            rl,
		bookmarkPageSize: cfg.BookmarkPageSize,
		mux:              http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.Health)
	s.mux.HandleFunc("GET /api/{source}/artifacts", s.ListArtifacts)
	s.mux.HandleFunc("GET /api/{source}/artifacts/{id}", s.GetArtifact)
	s.mux.HandleFunc("POST /api/{source}/view/search", s.FeedSearch)
	s.mux.HandleFunc("POST /api/bookmarks/{source}/{id}/toggle", s.ToggleBookmark)
	s.mux.HandleFunc("GET /api/bookmarks", s.ListBookmarks)
	s.mux.HandleFunc("GET /relay/artifact", s.Relay.Artifact)
	s.mux.HandleFunc("GET /relay/artistSearch", s.Relay.ArtistSearch)
}

// Handler returns the root handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	return middleware.CORS(middleware.RequestLogger(s.Log)(s.mux))
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// source resolves the {source} path segment, writing a 404 on miss.
func (s *Server) source(w http.ResponseWriter, r *http.Request) (museum.Source, bool) {
	id, ok := museum.ParseSourceID(r.PathValue("source"))
	if !ok {
		writeErr(w, http.StatusNotFound, "unknown source")
		return nil, false
	}
	src, ok := s.Sources[id]
	if !ok {
		writeErr(w, http.StatusNotFound, "unknown source")
		return nil, false
	}
	return src, true
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
