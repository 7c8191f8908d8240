// Package session scopes per-visitor state: one bookmark store plus one
// view (synchronizer, debouncer, orchestrator) per source. Sessions live
// in memory only, created on first contact and dropped after idle TTL.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"musegate/internal/bookmarks"
	"musegate/internal/museum"
	"musegate/internal/orchestrator"
	"musegate/internal/viewstate"
)

const CookieName = "musegate_session"

// View bundles the state machinery for one source's listing.
type View struct {
	Sync     *viewstate.Synchronizer
	Orch     *orchestrator.Orchestrator
	Debounce *viewstate.Debouncer
}

// Apply installs a URL-derived query and refetches when it changed, when
// the view has never loaded, or when the last fetch failed. A Failed
// snapshot is never treated as cacheable: a fresh request for the same
// query goes back to the upstream. The returned channel settles when the
// triggered fetch has committed or been superseded.
func (v *View) Apply(ctx context.Context, q viewstate.ViewQuery) <-chan struct{} {
	changed := v.Sync.Replace(q)
	state := v.Orch.Snapshot().State
	if changed || state == orchestrator.Idle || state == orchestrator.Failed {
		v.Orch.Apply(ctx, v.Sync.Current())
	}
	return v.Orch.Settled()
}

// FeedSearch feeds one raw keystroke value into the debouncer.
func (v *View) FeedSearch(term string) {
	v.Debounce.Put(term)
}

// CommitSearch commits a term immediately, skipping the quiescence wait.
func (v *View) CommitSearch(term string) {
	v.Debounce.Put(term)
	v.Debounce.Flush()
}

type Session struct {
	ID        string
	Bookmarks *bookmarks.Store
	views     map[museum.SourceID]*View
	lastSeen  time.Time
}

// View returns the per-source view state.
func (s *Session) View(source museum.SourceID) (*View, bool) {
	v, ok := s.views[source]
	return v, ok
}

// Manager is the in-memory session registry.
type Manager struct {
	log      *logrus.Logger
	sources  []museum.Source
	pageSize map[museum.SourceID]int
	debounce time.Duration
	ttl      time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	stop     chan struct{}
	stopOnce sync.Once
}

type ManagerConfig struct {
	Sources  []museum.Source
	PageSize map[museum.SourceID]int
	Debounce time.Duration
	TTL      time.Duration
}

func NewManager(cfg ManagerConfig, log *logrus.Logger) *Manager {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 300 * time.Millisecond
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	m := &Manager{
		log:      log,
		sources:  cfg.Sources,
		pageSize: cfg.PageSize,
		debounce: cfg.Debounce,
		ttl:      cfg.TTL,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

func (m *Manager) newSession() *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		Bookmarks: bookmarks.NewStore(m.sources...),
		views:     make(map[museum.SourceID]*View),
		lastSeen:  time.Now(),
	}
	for _, src := range m.sources {
		size := m.pageSize[src.ID()]
		orch := orchestrator.New(src, size)
		state := viewstate.NewSynchronizer(viewstate.DefaultQuery())
		view := &View{Sync: state, Orch: orch}
		// The debounced term is the sole committed search value; an
		// unchanged term does not refetch.
		view.Debounce = viewstate.NewDebouncer(m.debounce, func(term string) {
			if state.SetArtist(term) {
				orch.Apply(context.Background(), state.Current())
			}
		})
		sess.views[src.ID()] = view
	}
	return sess
}

// Get returns the request's session, creating one (and setting the
// cookie) on first contact.
func (m *Manager) Get(w http.ResponseWriter, r *http.Request) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, err := r.Cookie(CookieName); err == nil {
		if sess, ok := m.sessions[c.Value]; ok {
			sess.lastSeen = time.Now()
			return sess
		}
	}

	sess := m.newSession()
	m.sessions[sess.ID] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	m.log.WithField("session", sess.ID).Debug("session created")
	return sess
}

// Len reports the live session count.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.expire(time.Now())
		}
	}
}

// expire drops sessions idle past the TTL.
func (m *Manager) expire(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		if now.Sub(sess.lastSeen) > m.ttl {
			for _, v := range sess.views {
				v.Debounce.Stop()
			}
			delete(m.sessions, id)
			m.log.WithField("session", id).Debug("session expired")
		}
	}
}

// Close stops the sweeper.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}
