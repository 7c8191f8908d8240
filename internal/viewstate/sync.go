package viewstate

import (
	"strings"
	"sync"

	"musegate/internal/museum"
)

// Synchronizer owns the working copy of a view's ViewQuery and applies
// the transition rules the URL alone cannot express. The one with teeth:
// when a search begins the current page is remembered and the view jumps
// to page 1; when the search is cleared the remembered page is restored,
// not simply reset.
type Synchronizer struct {
	mu               sync.Mutex
	current          ViewQuery
	pageBeforeSearch int
}

func NewSynchronizer(initial ViewQuery) *Synchronizer {
	if initial.Page < 1 {
		initial.Page = 1
	}
	return &Synchronizer{current: initial, pageBeforeSearch: initial.Page}
}

// Current returns a snapshot of the canonical state.
func (s *Synchronizer) Current() ViewQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Replace installs a fully specified state, as parsed from an incoming
// URL. Returns true when anything changed. The remembered page tracks
// along so a later search-clear restores something sensible.
func (s *Synchronizer) Replace(q ViewQuery) bool {
	if q.Page < 1 {
		q.Page = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if q == s.current {
		return false
	}
	if q.Artist == "" {
		s.pageBeforeSearch = q.Page
	}
	s.current = q
	return true
}

// SetSort changes the title order. Returns true when it changed.
func (s *Synchronizer) SetSort(dir museum.SortDir) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir != museum.SortAsc && dir != museum.SortDesc {
		return false
	}
	if s.current.TitleSort == dir {
		return false
	}
	s.current.TitleSort = dir
	return true
}

// ToggleOnView flips the on-view filter and returns the new value.
func (s *Synchronizer) ToggleOnView() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.OnView = !s.current.OnView
	return s.current.OnView
}

// SetPage moves to a page; out-of-range requests are ignored.
func (s *Synchronizer) SetPage(page int) bool {
	if page < 1 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.Page == page {
		return false
	}
	s.current.Page = page
	if s.current.Artist == "" {
		s.pageBeforeSearch = page
	}
	return true
}

// SetArtist commits a debounce-settled search term. Starting a search
// saves the current page and resets to 1; clearing it restores the saved
// page. An unchanged term is a no-op so no refetch is triggered.
func (s *Synchronizer) SetArtist(term string) bool {
	term = strings.TrimSpace(term)
	s.mu.Lock()
	defer s.mu.Unlock()

	if term == s.current.Artist {
		return false
	}
	switch {
	case term != "" && s.current.Artist == "":
		s.pageBeforeSearch = s.current.Page
		s.current.Page = 1
	case term == "" && s.current.Artist != "":
		s.current.Page = s.pageBeforeSearch
	}
	s.current.Artist = term
	return true
}
