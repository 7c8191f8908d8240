// Package cleveland adapts the Cleveland Museum of Art open-access API
// to the uniform museum.Source contract.
package cleveland

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"musegate/internal/logger"
	"musegate/internal/museum"
)

// Fixed per-operation messages surfaced on upstream failures.
const (
	msgListFailed   = "Failed to fetch artifacts."
	msgDetailFailed = "Failed to fetch artifact"
	msgArtistFailed = "Failed to fetch artist artifacts"
)

// Options configures the adapter. When RelayURL is set, by-id and
// by-artist lookups are routed through the same-origin relay instead of
// hitting the museum API directly.
type Options struct {
	BaseURL  string
	RelayURL string
}

type Adapter struct {
	client *museum.Client
	opts   Options
}

func New(client *museum.Client, opts Options) *Adapter {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	opts.RelayURL = strings.TrimRight(opts.RelayURL, "/")
	return &Adapter{client: client, opts: opts}
}

func (a *Adapter) ID() museum.SourceID { return museum.Cleveland }

// artworkRecord is the subset of the Cleveland artwork shape the gateway
// consumes. Ids arrive as JSON numbers.
type artworkRecord struct {
	ID       json.Number `json:"id"`
	Title    string      `json:"title"`
	Creators []struct {
		Description string `json:"description"`
	} `json:"creators"`
	Images struct {
		Web struct {
			URL string `json:"url"`
		} `json:"web"`
	} `json:"images"`
	CurrentLocation string `json:"current_location"`
	CreationDate    string `json:"creation_date"`
	Description     string `json:"description"`
}

type listEnvelope struct {
	Data []artworkRecord `json:"data"`
}

type detailEnvelope struct {
	Data artworkRecord `json:"data"`
}

func (r artworkRecord) summary() museum.ArtifactSummary {
	s := museum.ArtifactSummary{
		ID:            r.ID.String(),
		Title:         r.Title,
		SourceID:      museum.Cleveland,
		LocationLabel: r.CurrentLocation,
	}
	if len(r.Creators) > 0 {
		s.Artist = r.Creators[0].Description
	}
	if u := r.Images.Web.URL; u != "" {
		s.ThumbnailURL = &u
	}
	return s
}

func (r artworkRecord) detail() museum.ArtifactDetail {
	return museum.ArtifactDetail{
		ArtifactSummary:   r.summary(),
		Description:       museum.StripHTML(r.Description),
		DateDisplay:       r.CreationDate,
		GalleryOrLocation: r.CurrentLocation,
	}
}

// ListArtifacts pages through the artworks endpoint. The title order is
// not forwarded: the API has no stable title sort, so ordering is applied
// downstream.
func (a *Adapter) ListArtifacts(ctx context.Context, q museum.ListQuery) museum.FetchResult[museum.ArtifactSummary] {
	page, size := normPage(q.Page), q.PageSize
	v := url.Values{}
	v.Set("limit", fmt.Sprint(size))
	v.Set("skip", fmt.Sprint((page-1)*size))
	v.Set("has_image", "1")
	if q.OnView {
		v.Set("currently_on_view", "1")
	}
	return a.fetchList(ctx, "list", a.opts.BaseURL+"/api/artworks?"+v.Encode(), msgListFailed)
}

// SearchByArtist passes the trimmed term through as a free-text query.
// A blank term short-circuits to an empty success without any I/O.
func (a *Adapter) SearchByArtist(ctx context.Context, name string, page, pageSize int) museum.FetchResult[museum.ArtifactSummary] {
	name = strings.TrimSpace(name)
	if name == "" {
		return museum.Ok([]museum.ArtifactSummary{})
	}
	page = normPage(page)

	var endpoint string
	if a.opts.RelayURL != "" {
		endpoint = fmt.Sprintf("%s/relay/artistSearch?artist=%s&page=%d&limit=%d",
			a.opts.RelayURL, url.QueryEscape(name), page, pageSize)
	} else {
		v := url.Values{}
		v.Set("limit", fmt.Sprint(pageSize))
		v.Set("skip", fmt.Sprint((page-1)*pageSize))
		v.Set("has_image", "1")
		v.Set("q", name)
		endpoint = a.opts.BaseURL + "/api/artworks?" + v.Encode()
	}
	return a.fetchList(ctx, "artist_search", endpoint, msgArtistFailed)
}

// GetArtifactByID resolves one record, through the relay when configured.
func (a *Adapter) GetArtifactByID(ctx context.Context, id string) museum.FetchResult[museum.ArtifactDetail] {
	endpoint := a.opts.BaseURL + "/api/artworks/" + url.PathEscape(id)
	if a.opts.RelayURL != "" {
		endpoint = a.opts.RelayURL + "/relay/artifact?id=" + url.QueryEscape(id)
	}

	data, code, err := a.client.GetJSON(ctx, endpoint)
	museum.CountUpstream(museum.Cleveland, "detail", code)
	if err != nil {
		logger.For(ctx).WithError(err).Warn("cleveland.detail.failed")
		return museum.Fail[museum.ArtifactDetail](http.StatusInternalServerError, msgDetailFailed)
	}
	if code < 200 || code > 299 {
		return museum.Fail[museum.ArtifactDetail](code, msgDetailFailed)
	}

	var env detailEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.For(ctx).WithError(err).Warn("cleveland.detail.decode_failed")
		return museum.Fail[museum.ArtifactDetail](http.StatusInternalServerError, msgDetailFailed)
	}
	// A missing data object is tolerated as an empty success.
	if env.Data.ID.String() == "" {
		return museum.Ok([]museum.ArtifactDetail{})
	}
	return museum.Ok([]museum.ArtifactDetail{env.Data.detail()})
}

func (a *Adapter) fetchList(ctx context.Context, op, endpoint, failMsg string) museum.FetchResult[museum.ArtifactSummary] {
	data, code, err := a.client.GetJSON(ctx, endpoint)
	museum.CountUpstream(museum.Cleveland, op, code)
	if err != nil {
		logger.For(ctx).WithError(err).Warnf("cleveland.%s.failed", op)
		return museum.Fail[museum.ArtifactSummary](http.StatusInternalServerError, failMsg)
	}
	if code < 200 || code > 299 {
		return museum.Fail[museum.ArtifactSummary](code, failMsg)
	}

	var env listEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.For(ctx).WithError(err).Warnf("cleveland.%s.decode_failed", op)
		return museum.Fail[museum.ArtifactSummary](http.StatusInternalServerError, failMsg)
	}

	items := make([]museum.ArtifactSummary, 0, len(env.Data))
	for _, rec := range env.Data {
		items = append(items, rec.summary())
	}
	return museum.Ok(items)
}

func normPage(p int) int {
	if p < 1 {
		return 1
	}
	return p
}
