package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"musegate/internal/museum"
	"musegate/internal/viewstate"
)

// stubSource is a controllable museum.Source. Each call consults the
// response map keyed by page (for listings) or artist name.
type stubSource struct {
	mu          sync.Mutex
	listRes     map[int]museum.FetchResult[museum.ArtifactSummary]
	artistRes   map[string]museum.FetchResult[museum.ArtifactSummary]
	gates       map[int]chan struct{} // page blocks until its gate closes
	listCalls   int
	artistCalls int
}

func newStub() *stubSource {
	return &stubSource{
		listRes:   make(map[int]museum.FetchResult[museum.ArtifactSummary]),
		artistRes: make(map[string]museum.FetchResult[museum.ArtifactSummary]),
		gates:     make(map[int]chan struct{}),
	}
}

func (s *stubSource) ID() museum.SourceID { return museum.Cleveland }

func (s *stubSource) ListArtifacts(ctx context.Context, q museum.ListQuery) museum.FetchResult[museum.ArtifactSummary] {
	s.mu.Lock()
	gate := s.gates[q.Page]
	res, ok := s.listRes[q.Page]
	s.listCalls++
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if !ok {
		return museum.Ok([]museum.ArtifactSummary{})
	}
	return res
}

func (s *stubSource) SearchByArtist(ctx context.Context, name string, page, pageSize int) museum.FetchResult[museum.ArtifactSummary] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artistCalls++
	if res, ok := s.artistRes[name]; ok {
		return res
	}
	return museum.Ok([]museum.ArtifactSummary{})
}

func (s *stubSource) GetArtifactByID(ctx context.Context, id string) museum.FetchResult[museum.ArtifactDetail] {
	return museum.Ok([]museum.ArtifactDetail{})
}

func page(n, count int) museum.FetchResult[museum.ArtifactSummary] {
	items := make([]museum.ArtifactSummary, count)
	for i := range items {
		items[i] = museum.ArtifactSummary{
			ID:       fmt.Sprintf("p%d-%d", n, i),
			Title:    fmt.Sprintf("title %d-%02d", n, i),
			SourceID: museum.Cleveland,
		}
	}
	return museum.Ok(items)
}

func apply(o *Orchestrator, q viewstate.ViewQuery) Snapshot {
	o.Apply(context.Background(), q)
	<-o.Settled()
	return o.Snapshot()
}

func TestSuccessFlow(t *testing.T) {
	stub := newStub()
	stub.listRes[1] = page(1, 5)

	o := New(stub, 5)
	snap := apply(o, viewstate.DefaultQuery())

	if snap.State != Success {
		t.Fatalf("expected success, got %+v", snap)
	}
	if len(snap.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(snap.Items))
	}
	if snap.HasPrev {
		t.Error("prev must be disabled at page 1")
	}
	if !snap.HasNext {
		t.Error("full page must enable next")
	}
}

func TestShortPageDisablesNext(t *testing.T) {
	stub := newStub()
	stub.listRes[2] = page(2, 3)

	o := New(stub, 5)
	snap := apply(o, viewstate.ViewQuery{TitleSort: museum.SortAsc, Page: 2})

	if !snap.HasPrev {
		t.Error("prev must be enabled past page 1")
	}
	if snap.HasNext {
		t.Error("short page must disable next")
	}
}

func TestFailureCarriesMessageAndClearsItems(t *testing.T) {
	stub := newStub()
	stub.listRes[1] = museum.Fail[museum.ArtifactSummary](503, "Failed to fetch artifacts.")

	o := New(stub, 5)
	snap := apply(o, viewstate.DefaultQuery())

	if snap.State != Failed || snap.StatusCode != 503 || snap.Message == "" {
		t.Fatalf("expected failed snapshot, got %+v", snap)
	}
	if len(snap.Items) != 0 {
		t.Fatal("failed listing must be empty")
	}

	// A following success clears the error.
	stub.listRes[1] = page(1, 1)
	snap = apply(o, viewstate.ViewQuery{TitleSort: museum.SortDesc, Page: 1})
	if snap.State != Success || snap.Message != "" || snap.StatusCode != 0 {
		t.Fatalf("expected clean success, got %+v", snap)
	}
}

func TestEmptyUpstreamIsSuccessNotError(t *testing.T) {
	stub := newStub()
	stub.listRes[1] = museum.Ok([]museum.ArtifactSummary{})

	o := New(stub, 5)
	snap := apply(o, viewstate.DefaultQuery())

	if snap.State != Success || len(snap.Items) != 0 {
		t.Fatalf("empty data must render the empty state, got %+v", snap)
	}
	if snap.Items == nil {
		t.Fatal("items must be [], not nil")
	}
}

func TestClientSideSortApplied(t *testing.T) {
	stub := newStub()
	stub.listRes[1] = museum.Ok([]museum.ArtifactSummary{
		{ID: "1", Title: "b"}, {ID: "2", Title: "a"}, {ID: "3", Title: "C"},
	})

	o := New(stub, 5)
	snap := apply(o, viewstate.DefaultQuery())
	if snap.Items[0].Title != "a" {
		t.Fatalf("ascending sort not applied: %+v", snap.Items)
	}

	desc := apply(o, viewstate.ViewQuery{TitleSort: museum.SortDesc, Page: 1})
	for i := range snap.Items {
		if desc.Items[i].Title != snap.Items[len(snap.Items)-1-i].Title {
			t.Fatalf("desc is not the reverse of asc: %+v vs %+v", desc.Items, snap.Items)
		}
	}
}

func TestArtistDispatch(t *testing.T) {
	stub := newStub()
	stub.artistRes["monet"] = page(1, 2)

	o := New(stub, 5)
	snap := apply(o, viewstate.ViewQuery{TitleSort: museum.SortAsc, Page: 1, Artist: "monet"})

	if snap.State != Success || len(snap.Items) != 2 {
		t.Fatalf("got %+v", snap)
	}
	if stub.artistCalls != 1 || stub.listCalls != 0 {
		t.Fatalf("artist mode must call searchByArtist only: artist=%d list=%d", stub.artistCalls, stub.listCalls)
	}
}

func TestStaleResponseNeverOverwritesFresherState(t *testing.T) {
	stub := newStub()
	gate := make(chan struct{})
	stub.gates[1] = gate // page 1 hangs until released
	stub.listRes[1] = page(1, 5)
	stub.listRes[2] = page(2, 5)

	o := New(stub, 5)

	// Page 1 request goes out and stalls.
	o.Apply(context.Background(), viewstate.DefaultQuery())

	// User navigates to page 2 before page 1 resolves.
	o.Apply(context.Background(), viewstate.ViewQuery{TitleSort: museum.SortAsc, Page: 2})

	// Page 1 finally resolves, after page 2 has already won.
	close(gate)
	<-o.Settled()

	snap := o.Snapshot()
	if snap.State != Success || snap.Query.Page != 2 {
		t.Fatalf("expected page 2 state, got %+v", snap)
	}
	for _, it := range snap.Items {
		if it.ID[:2] != "p2" {
			t.Fatalf("stale page 1 item leaked into state: %+v", it)
		}
	}
}

func TestLoadingStateVisibleWhileInFlight(t *testing.T) {
	stub := newStub()
	gate := make(chan struct{})
	stub.gates[1] = gate

	o := New(stub, 5)
	o.Apply(context.Background(), viewstate.DefaultQuery())

	// Give the goroutine a beat to start; state must read Loading.
	time.Sleep(10 * time.Millisecond)
	if got := o.Snapshot().State; got != Loading {
		t.Fatalf("expected loading, got %v", got)
	}

	close(gate)
	<-o.Settled()
	if got := o.Snapshot().State; got != Success {
		t.Fatalf("expected success after settle, got %v", got)
	}
}
