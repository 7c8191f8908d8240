// Package bookmarks keeps a session's saved artifacts. Per-source sets
// preserve save order; resolution fetches full detail records in parallel
// and drops individual failures rather than failing the page.
package bookmarks

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"musegate/internal/logger"
	"musegate/internal/metrics"
	"musegate/internal/museum"
)

// Set is an ordered sequence of identifiers with O(1) membership.
// Duplicate adds and absent removes are no-ops.
type Set struct {
	order  []string
	member map[string]struct{}
}

func NewSet() *Set {
	return &Set{member: make(map[string]struct{})}
}

func (s *Set) Add(id string) bool {
	if _, ok := s.member[id]; ok {
		return false
	}
	s.member[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *Set) Remove(id string) bool {
	if _, ok := s.member[id]; !ok {
		return false
	}
	delete(s.member, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Set) Has(id string) bool {
	_, ok := s.member[id]
	return ok
}

func (s *Set) Len() int { return len(s.order) }

// IDs returns the identifiers in save order.
func (s *Set) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Store aggregates one session's bookmarks across sources. It is created
// empty at session start and torn down with the session; nothing is
// persisted. Sources are injected so resolution can reach each museum's
// detail endpoint.
type Store struct {
	mu      sync.Mutex
	sets    map[museum.SourceID]*Set
	sources map[museum.SourceID]museum.Source
}

func NewStore(sources ...museum.Source) *Store {
	st := &Store{
		sets:    make(map[museum.SourceID]*Set),
		sources: make(map[museum.SourceID]museum.Source),
	}
	for _, src := range sources {
		st.sets[src.ID()] = NewSet()
		st.sources[src.ID()] = src
	}
	return st
}

// Toggle flips membership for (source, id); returns true when the id is
// now saved. Toggling twice restores the original state.
func (st *Store) Toggle(source museum.SourceID, id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	set, ok := st.sets[source]
	if !ok {
		return false
	}
	if set.Has(id) {
		set.Remove(id)
		return false
	}
	set.Add(id)
	return true
}

// Has reports membership.
func (st *Store) Has(source museum.SourceID, id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	set, ok := st.sets[source]
	return ok && set.Has(id)
}

// Total counts saved ids across sources.
func (st *Store) Total() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for _, set := range st.sets {
		n += set.Len()
	}
	return n
}

// TotalPages is ceil(total / pageSize).
func (st *Store) TotalPages(pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return (st.Total() + pageSize - 1) / pageSize
}

// keys returns the merged, deduplicated identifier sequence: Cleveland
// first, then Chicago, each in save order.
func (st *Store) keys() []museum.Key {
	st.mu.Lock()
	defer st.mu.Unlock()

	var out []museum.Key
	seen := make(map[museum.Key]struct{})
	for _, source := range []museum.SourceID{museum.Cleveland, museum.Chicago} {
		set, ok := st.sets[source]
		if !ok {
			continue
		}
		for _, id := range set.IDs() {
			k := museum.Key{SourceID: source, ID: id}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	return out
}

// Resolve fetches detail records for the requested page of the merged
// sequence. Lookups for the page slice run in parallel; a failed or empty
// lookup is logged and dropped, never failing the batch. The returned
// slice preserves save order and is deduplicated by (source, id).
func (st *Store) Resolve(ctx context.Context, page, pageSize int) []museum.ArtifactDetail {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return []museum.ArtifactDetail{}
	}

	keys := st.keys()
	start := (page - 1) * pageSize
	if start >= len(keys) {
		return []museum.ArtifactDetail{}
	}
	end := start + pageSize
	if end > len(keys) {
		end = len(keys)
	}
	slice := keys[start:end]

	results := make([]*museum.ArtifactDetail, len(slice))
	var wg sync.WaitGroup
	for i, k := range slice {
		src, ok := st.sources[k.SourceID]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(i int, k museum.Key, src museum.Source) {
			defer wg.Done()
			res := src.GetArtifactByID(ctx, k.ID)
			d, ok := res.First()
			if !ok {
				logger.For(ctx).WithFields(logrus.Fields{
					"source": k.SourceID,
					"id":     k.ID,
					"status": res.StatusCode,
				}).Warn("bookmark resolve dropped")
				metrics.BookmarkResolveFailures.Inc()
				return
			}
			results[i] = &d
		}(i, k, src)
	}
	wg.Wait()

	out := make([]museum.ArtifactDetail, 0, len(slice))
	seen := make(map[museum.Key]struct{})
	for _, d := range results {
		if d == nil {
			continue
		}
		if _, dup := seen[d.Key()]; dup {
			continue
		}
		seen[d.Key()] = struct{}{}
		out = append(out, *d)
	}
	return out
}
