// Package viewstate keeps the canonical listing state in sync with the
// URL query string. Parsing and encoding are pure functions; the
// Synchronizer layers the transition rules (page save/restore, committed
// search term) on top.
package viewstate

import (
	"net/url"
	"strconv"
	"strings"

	"musegate/internal/museum"
)

// URL parameter names, the externally visible view-state surface.
const (
	ParamTitle  = "title"
	ParamOnView = "currently_on_view"
	ParamPage   = "page"
	ParamArtist = "artist"
)

// ViewQuery is the canonical, URL-serializable listing state. A non-empty
// Artist always overrides title/on-view listing: exactly one of the two
// listing modes is active at a time.
type ViewQuery struct {
	TitleSort museum.SortDir
	OnView    bool
	Page      int
	Artist    string
}

// DefaultQuery is the state of a fresh view.
func DefaultQuery() ViewQuery {
	return ViewQuery{TitleSort: museum.SortAsc, OnView: false, Page: 1, Artist: ""}
}

// ByArtist reports whether the artist listing mode is active.
func (q ViewQuery) ByArtist() bool { return q.Artist != "" }

// Parse builds a ViewQuery from URL values. Unrecognized or malformed
// values fall back to the defaults rather than erroring.
func Parse(values url.Values) ViewQuery {
	q := DefaultQuery()

	switch museum.SortDir(values.Get(ParamTitle)) {
	case museum.SortAsc:
		q.TitleSort = museum.SortAsc
	case museum.SortDesc:
		q.TitleSort = museum.SortDesc
	}

	if values.Get(ParamOnView) == "true" {
		q.OnView = true
	}

	if p, err := strconv.Atoi(values.Get(ParamPage)); err == nil && p >= 1 {
		q.Page = p
	}

	q.Artist = strings.TrimSpace(values.Get(ParamArtist))
	return q
}

// ParseRaw parses a raw query string ("title=desc&page=3").
func ParseRaw(raw string) ViewQuery {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return DefaultQuery()
	}
	return Parse(values)
}

// Values serializes the query back to URL values. Artist is omitted when
// empty, matching how the browser URL drops the parameter when a search
// is cleared.
func (q ViewQuery) Values() url.Values {
	v := url.Values{}
	v.Set(ParamTitle, string(q.TitleSort))
	v.Set(ParamOnView, strconv.FormatBool(q.OnView))
	v.Set(ParamPage, strconv.Itoa(q.Page))
	if q.Artist != "" {
		v.Set(ParamArtist, q.Artist)
	}
	return v
}

// Encode returns the canonical query-string form.
func (q ViewQuery) Encode() string {
	return q.Values().Encode()
}
