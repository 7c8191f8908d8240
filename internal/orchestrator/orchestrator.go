// Package orchestrator drives listing fetches for one view. It reacts to
// ViewQuery changes, dispatches the right adapter call, applies the
// client-side title sort, and commits a response only if no newer query
// has superseded it in the meantime.
package orchestrator

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"musegate/internal/metrics"
	"musegate/internal/museum"
	"musegate/internal/viewstate"
)

// State is the listing lifecycle.
type State string

const (
	Idle    State = "idle"
	Loading State = "loading"
	Success State = "success"
	Failed  State = "failed"
)

// Snapshot is the externally visible view state at a point in time.
type Snapshot struct {
	State      State                    `json:"state"`
	Query      viewstate.ViewQuery      `json:"-"`
	Items      []museum.ArtifactSummary `json:"items"`
	Message    string                   `json:"message,omitempty"`
	StatusCode int                      `json:"statusCode,omitempty"`
	HasPrev    bool                     `json:"hasPrev"`
	HasNext    bool                     `json:"hasNext"`
}

type Orchestrator struct {
	src      museum.Source
	pageSize int
	log      *logrus.Entry

	mu       sync.Mutex
	gen      uint64
	inflight int
	idleCh   chan struct{}
	snap     Snapshot
}

func New(src museum.Source, pageSize int) *Orchestrator {
	if pageSize < 1 {
		pageSize = 10
	}
	return &Orchestrator{
		src:      src,
		pageSize: pageSize,
		log:      logrus.WithField("source", src.ID()),
		snap:     Snapshot{State: Idle, Items: []museum.ArtifactSummary{}},
	}
}

// Snapshot returns the current view state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snap
}

// Settled returns a channel that is closed once no fetch is in flight.
func (o *Orchestrator) Settled() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inflight == 0 {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return o.idleCh
}

// Apply moves the view to Loading for the given query and starts an
// asynchronous fetch. Each call bumps the generation counter; a response
// whose generation is no longer current is discarded silently, so a stale
// response can never overwrite fresher state.
func (o *Orchestrator) Apply(ctx context.Context, q viewstate.ViewQuery) {
	o.mu.Lock()
	o.gen++
	gen := o.gen
	if o.inflight == 0 {
		o.idleCh = make(chan struct{})
	}
	o.inflight++
	o.snap.State = Loading
	o.snap.Query = q
	o.snap.Message = ""
	o.snap.StatusCode = 0
	o.mu.Unlock()

	go o.fetch(ctx, gen, q)
}

func (o *Orchestrator) fetch(ctx context.Context, gen uint64, q viewstate.ViewQuery) {
	defer o.done()

	var res museum.FetchResult[museum.ArtifactSummary]
	if q.ByArtist() {
		res = o.src.SearchByArtist(ctx, q.Artist, q.Page, o.pageSize)
	} else {
		res = o.src.ListArtifacts(ctx, museum.ListQuery{
			Sort:     q.TitleSort,
			OnView:   q.OnView,
			Page:     q.Page,
			PageSize: o.pageSize,
		})
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.gen {
		// A newer query superseded this request while it was in flight.
		o.log.WithFields(logrus.Fields{"gen": gen, "current": o.gen}).Debug("stale response discarded")
		metrics.StaleResponsesTotal.WithLabelValues(string(o.src.ID())).Inc()
		return
	}

	if !res.OK {
		o.snap = Snapshot{
			State:      Failed,
			Query:      q,
			Items:      []museum.ArtifactSummary{},
			Message:    res.Message,
			StatusCode: res.StatusCode,
			HasPrev:    q.Page > 1,
		}
		return
	}

	items := museum.SortByTitle(res.Items, q.TitleSort)
	o.snap = Snapshot{
		State:   Success,
		Query:   q,
		Items:   items,
		HasPrev: q.Page > 1,
		// Heuristic: a short page signals the last one. The museum APIs
		// do not cheaply expose totals for every query shape.
		HasNext: len(items) >= o.pageSize,
	}
}

func (o *Orchestrator) done() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inflight--
	if o.inflight == 0 {
		close(o.idleCh)
	}
}
