package cleveland

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"

	"musegate/internal/museum"
)

func testClient() *museum.Client {
	return museum.NewClient(museum.ClientConfig{}, logrus.New())
}

func TestListArtifacts(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[
			{"id":1234,"title":"Twilight","creators":[{"description":"J. Turner (British)"}],
			 "images":{"web":{"url":"https://img.example/web.jpg"}},"current_location":"Gallery 101"},
			{"id":5678,"title":"Untitled"}
		]}`))
	}))
	defer ts.Close()

	a := New(testClient(), Options{BaseURL: ts.URL})
	res := a.ListArtifacts(context.Background(), museum.ListQuery{Page: 2, PageSize: 10, OnView: true})

	if !res.OK {
		t.Fatalf("expected success, got %+v", res)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(res.Items))
	}

	first := res.Items[0]
	if first.ID != "1234" || first.SourceID != museum.Cleveland {
		t.Errorf("bad identity: %+v", first)
	}
	if first.Artist != "J. Turner (British)" || first.LocationLabel != "Gallery 101" {
		t.Errorf("bad mapping: %+v", first)
	}
	if first.ThumbnailURL == nil || *first.ThumbnailURL != "https://img.example/web.jpg" {
		t.Errorf("bad thumbnail: %v", first.ThumbnailURL)
	}

	// Record without an image maps to null, never an invalid URL.
	if res.Items[1].ThumbnailURL != nil {
		t.Errorf("missing image must map to nil, got %v", *res.Items[1].ThumbnailURL)
	}

	for _, want := range []string{"limit=10", "skip=10", "has_image=1", "currently_on_view=1"} {
		if !contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestListArtifactsEmptyData(t *testing.T) {
	for _, body := range []string{`{"data":[]}`, `{}`} {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		a := New(testClient(), Options{BaseURL: ts.URL})
		res := a.ListArtifacts(context.Background(), museum.ListQuery{Page: 1, PageSize: 10})
		ts.Close()

		if !res.OK || len(res.Items) != 0 {
			t.Fatalf("body %q: expected empty success, got %+v", body, res)
		}
		if res.Items == nil {
			t.Fatalf("body %q: items must be [], not nil", body)
		}
	}
}

func TestListArtifactsUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	a := New(testClient(), Options{BaseURL: ts.URL})
	res := a.ListArtifacts(context.Background(), museum.ListQuery{Page: 1, PageSize: 10})
	if res.OK || res.StatusCode != http.StatusServiceUnavailable || res.Message != msgListFailed {
		t.Fatalf("expected 503 failure, got %+v", res)
	}
}

func TestListArtifactsTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused from here on

	a := New(testClient(), Options{BaseURL: ts.URL})
	res := a.ListArtifacts(context.Background(), museum.ListQuery{Page: 1, PageSize: 10})
	if res.OK || res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 failure, got %+v", res)
	}
}

func TestListArtifactsBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": not json`))
	}))
	defer ts.Close()

	a := New(testClient(), Options{BaseURL: ts.URL})
	res := a.ListArtifacts(context.Background(), museum.ListQuery{Page: 1, PageSize: 10})
	if res.OK || res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected decode failure, got %+v", res)
	}
}

func TestSearchByArtistBlankShortCircuits(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer ts.Close()

	a := New(testClient(), Options{BaseURL: ts.URL})
	for _, name := range []string{"", "   ", "\t\n"} {
		res := a.SearchByArtist(context.Background(), name, 1, 10)
		if !res.OK || len(res.Items) != 0 {
			t.Fatalf("blank name %q: expected empty success, got %+v", name, res)
		}
	}
	if calls.Load() != 0 {
		t.Fatalf("blank search must not hit the network, saw %d calls", calls.Load())
	}
}

func TestSearchByArtistDirect(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[{"id":9,"title":"Water Lilies"}]}`))
	}))
	defer ts.Close()

	a := New(testClient(), Options{BaseURL: ts.URL})
	res := a.SearchByArtist(context.Background(), "  monet  ", 3, 20)
	if !res.OK || len(res.Items) != 1 {
		t.Fatalf("got %+v", res)
	}
	for _, want := range []string{"q=monet", "limit=20", "skip=40", "has_image=1"} {
		if !contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestRelayRouting(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		if r.URL.Path == "/relay/artifact" {
			w.Write([]byte(`{"data":{"id":42,"title":"Cup","description":"<p>Silver cup</p>","creation_date":"1700s"}}`))
			return
		}
		w.Write([]byte(`{"data":[]}`))
	}))
	defer ts.Close()

	a := New(testClient(), Options{BaseURL: "http://unused.invalid", RelayURL: ts.URL})

	res := a.GetArtifactByID(context.Background(), "42")
	d, ok := res.First()
	if !ok {
		t.Fatalf("expected detail, got %+v", res)
	}
	if d.Description != "Silver cup" || d.DateDisplay != "1700s" {
		t.Errorf("bad detail mapping: %+v", d)
	}

	a.SearchByArtist(context.Background(), "monet", 2, 20)

	if len(paths) != 2 {
		t.Fatalf("expected 2 relay calls, got %v", paths)
	}
	if !contains(paths[0], "/relay/artifact?id=42") {
		t.Errorf("bad artifact path %q", paths[0])
	}
	if !contains(paths[1], "/relay/artistSearch?artist=monet&page=2&limit=20") {
		t.Errorf("bad search path %q", paths[1])
	}
}

func TestGetArtifactByIDMissingData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	a := New(testClient(), Options{BaseURL: ts.URL})
	res := a.GetArtifactByID(context.Background(), "1")
	if !res.OK || len(res.Items) != 0 {
		t.Fatalf("missing data must be an empty success, got %+v", res)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
