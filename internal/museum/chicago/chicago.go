// Package chicago adapts the Art Institute of Chicago API to the uniform
// museum.Source contract.
package chicago

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

// listFields keeps upstream payloads small: only the documented fields
// the gateway actually maps are requested.
const listFields = "id,title,image_id,date_display,artist_title,gallery_title,description"

const (
	msgListFailed   = "Failed to fetch artifacts."
	msgDetailFailed = "Failed to fetch artifact"
	msgArtistFailed = "Failed to fetch artist artifacts"
)

type Options struct {
	BaseURL     string
	IIIFBaseURL string
}

type Adapter struct {
	client *museum.Client
	opts   Options
}

func New(client *museum.Client, opts Options) *Adapter {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	opts.IIIFBaseURL = strings.TrimRight(opts.IIIFBaseURL, "/")
	if opts.IIIFBaseURL == "" {
		opts.IIIFBaseURL = "https://www.artic.edu/iiif/2"
	}
	return &Adapter{client: client, opts: opts}
}

func (a *Adapter) ID() museum.SourceID { return museum.Chicago }

type artworkRecord struct {
	ID           json.Number `json:"id"`
	Title        string      `json:"title"`
	ImageID      string      `json:"image_id"`
	DateDisplay  string      `json:"date_display"`
	ArtistTitle  string      `json:"artist_title"`
	GalleryTitle string      `json:"gallery_title"`
	Description  string      `json:"description"`
}

type listEnvelope struct {
	Data []artworkRecord `json:"data"`
}

type detailEnvelope struct {
	Data artworkRecord `json:"data"`
}

// iiifURL builds the templated image URL from an image identifier.
func (a *Adapter) iiifURL(imageID string) *string {
	if imageID == "" {
		return nil
	}
	u := fmt.Sprintf("%s/%s/full/843,/0/default.jpg", a.opts.IIIFBaseURL, imageID)
	return &u
}

func (a *Adapter) summary(r artworkRecord) museum.ArtifactSummary {
	return museum.ArtifactSummary{
		ID:            r.ID.String(),
		Title:         r.Title,
		SourceID:      museum.Chicago,
		ThumbnailURL:  a.iiifURL(r.ImageID),
		Artist:        r.ArtistTitle,
		LocationLabel: r.GalleryTitle,
	}
}

func (a *Adapter) detail(r artworkRecord) museum.ArtifactDetail {
	return museum.ArtifactDetail{
		ArtifactSummary:   a.summary(r),
		Description:       museum.StripHTML(r.Description),
		DateDisplay:       r.DateDisplay,
		GalleryOrLocation: r.GalleryTitle,
	}
}

// ListArtifacts uses the search endpoint: it is the only one that exposes
// the is_on_view term filter. Title order is applied downstream.
func (a *Adapter) ListArtifacts(ctx context.Context, q museum.ListQuery) museum.FetchResult[museum.ArtifactSummary] {
	endpoint := fmt.Sprintf("%s/api/v1/artworks/search?page=%d&limit=%d&fields=%s&query[term][is_on_view]=%t",
		a.opts.BaseURL, normPage(q.Page), q.PageSize, listFields, q.OnView)
	return a.fetchList(ctx, "list", endpoint, msgListFailed)
}

// SearchByArtist rides the same search endpoint with a free-text query.
func (a *Adapter) SearchByArtist(ctx context.Context, name string, page, pageSize int) museum.FetchResult[museum.ArtifactSummary] {
	name = strings.TrimSpace(name)
	if name == "" {
		return museum.Ok([]museum.ArtifactSummary{})
	}
	endpoint := fmt.Sprintf("%s/api/v1/artworks/search?q=%s&page=%d&limit=%d&fields=%s",
		a.opts.BaseURL, url.QueryEscape(name), normPage(page), pageSize, listFields)
	return a.fetchList(ctx, "artist_search", endpoint, msgArtistFailed)
}

func (a *Adapter) GetArtifactByID(ctx context.Context, id string) museum.FetchResult[museum.ArtifactDetail] {
	endpoint := fmt.Sprintf("%s/api/v1/artworks/%s?fields=%s", a.opts.BaseURL, url.PathEscape(id), listFields)

	data, code, err := a.client.GetJSON(ctx, endpoint)
	museum.CountUpstream(museum.Chicago, "detail", code)
	if err != nil {
		logger.For(ctx).WithError(err).Warn("chicago.detail.failed")
		return museum.Fail[museum.ArtifactDetail](http.StatusInternalServerError, msgDetailFailed)
	}
	if code < 200 || code > 299 {
		return museum.Fail[museum.ArtifactDetail](code, msgDetailFailed)
	}

	var env detailEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.For(ctx).WithError(err).Warn("chicago.detail.decode_failed")
		return museum.Fail[museum.ArtifactDetail](http.StatusInternalServerError, msgDetailFailed)
	}
	if env.Data.ID.String() == "" {
		return museum.Ok([]museum.ArtifactDetail{})
	}
	return museum.Ok([]museum.ArtifactDetail{a.detail(env.Data)})
}

func (a *Adapter) fetchList(ctx context.Context, op, endpoint, failMsg string) museum.FetchResult[museum.ArtifactSummary] {
	data, code, err := a.client.GetJSON(ctx, endpoint)
	museum.CountUpstream(museum.Chicago, op, code)
	if err != nil {
		logger.For(ctx).WithError(err).Warnf("chicago.%s.failed", op)
		return museum.Fail[museum.ArtifactSummary](http.StatusInternalServerError, failMsg)
	}
	if code < 200 || code > 299 {
		return museum.Fail[museum.ArtifactSummary](code, failMsg)
	}

	var env listEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.For(ctx).WithError(err).Warnf("chicago.%s.decode_failed", op)
		return museum.Fail[museum.ArtifactSummary](http.StatusInternalServerError, failMsg)
	}

	items := make([]museum.ArtifactSummary, 0, len(env.Data))
	for _, rec := range env.Data {
		items = append(items, a.summary(rec))
	}
	return museum.Ok(items)
}

func normPage(p int) int {
	if p < 1 {
		return 1
	}
	return p
}
