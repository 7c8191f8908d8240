package gateway

import (
	"net/http"

	"musegate/internal/logger"
	"musegate/internal/orchestrator"
	"musegate/internal/viewstate"
)

// listingResponse is what the card grid renders from.
type listingResponse struct {
	orchestrator.Snapshot
	Page   int    `json:"page"`
	Artist string `json:"artist,omitempty"`
	Query  string `json:"query"`
}

// ListArtifacts handles GET /api/{source}/artifacts. The URL query string
// is the canonical view state; it is parsed, installed in the session's
// synchronizer and the listing refetched when anything changed. The
// response carries the canonical encoded query so the client can push it
// back into the address bar.
func (s *Server) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	src, ok := s.source(w, r)
	if !ok {
		return
	}
	defer logger.Track(r.Context(), "listing")()

	sess := s.Sessions.Get(w, r)
	view, ok := sess.View(src.ID())
	if !ok {
		writeErr(w, http.StatusNotFound, "unknown source")
		return
	}

	q := viewstate.Parse(r.URL.Query())
	select {
	case <-view.Apply(r.Context(), q):
	case <-r.Context().Done():
		writeErr(w, http.StatusGatewayTimeout, "request cancelled")
		return
	}

	snap := view.Orch.Snapshot()
	status := http.StatusOK
	if snap.State == orchestrator.Failed && snap.StatusCode >= 400 {
		status = snap.StatusCode
	}
	writeJSON(w, status, listingResponse{
		Snapshot: snap,
		Page:     snap.Query.Page,
		Artist:   snap.Query.Artist,
		Query:    snap.Query.Encode(),
	})
}

// FeedSearch handles POST /api/{source}/view/search?term=[&commit=true].
// The raw keystroke value goes through the debouncer; nothing is fetched
// until the term has been quiet for the configured window, and an
// unchanged settled term fetches nothing at all. commit=true (the Enter
// key) skips the wait and commits the term at once.
func (s *Server) FeedSearch(w http.ResponseWriter, r *http.Request) {
	src, ok := s.source(w, r)
	if !ok {
		return
	}
	sess := s.Sessions.Get(w, r)
	view, ok := sess.View(src.ID())
	if !ok {
		writeErr(w, http.StatusNotFound, "unknown source")
		return
	}

	term := r.URL.Query().Get("term")
	if r.URL.Query().Get("commit") == "true" {
		view.CommitSearch(term)
	} else {
		view.FeedSearch(term)
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"term": term})
}

// GetArtifact handles GET /api/{source}/artifacts/{id}.
func (s *Server) GetArtifact(w http.ResponseWriter, r *http.Request) {
	src, ok := s.source(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeErr(w, http.StatusBadRequest, "Missing artifact ID")
		return
	}
	defer logger.Track(r.Context(), "detail")()

	res := src.GetArtifactByID(r.Context(), id)
	if !res.OK {
		writeErr(w, res.StatusCode, res.Message)
		return
	}
	d, ok := res.First()
	if !ok {
		writeErr(w, http.StatusNotFound, "Artifact not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ToggleBookmark handles POST /api/bookmarks/{source}/{id}/toggle.
func (s *Server) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	src, ok := s.source(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeErr(w, http.StatusBadRequest, "Missing artifact ID")
		return
	}

	sess := s.Sessions.Get(w, r)
	saved := sess.Bookmarks.Toggle(src.ID(), id)
	writeJSON(w, http.StatusOK, map[string]any{
		"source": src.ID(),
		"id":     id,
		"saved":  saved,
		"total":  sess.Bookmarks.Total(),
	})
}

// ListBookmarks handles GET /api/bookmarks?page=&limit=. Failed per-id
// lookups are dropped upstream; an empty result is an empty page, never
// an error.
func (s *Server) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	sess := s.Sessions.Get(w, r)
	defer logger.Track(r.Context(), "bookmarks")()

	q := r.URL.Query()
	page := atoiDefault(q.Get("page"), 1)
	limit := atoiDefault(q.Get("limit"), s.bookmarkPageSize)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.bookmarkPageSize
	}

	items := sess.Bookmarks.Resolve(r.Context(), page, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"items":      items,
		"page":       page,
		"totalPages": sess.Bookmarks.TotalPages(limit),
		"total":      sess.Bookmarks.Total(),
	})
}
