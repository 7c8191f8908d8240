package museum

// SourceID names one of the museum data providers.
type SourceID string

const (
	Cleveland SourceID = "cleveland"
	Chicago   SourceID = "chicago"
)

// ParseSourceID validates a raw source name.
func ParseSourceID(s string) (SourceID, bool) {
	switch SourceID(s) {
	case Cleveland, Chicago:
		return SourceID(s), true
	}
	return "", false
}

// Key identifies an artifact across sources. Ids are unique within a
// source but not across them, so merged collections must key on this pair.
type Key struct {
	SourceID SourceID `json:"sourceId"`
	ID       string   `json:"id"`
}

// ArtifactSummary is the normalized record used for listings and cards.
// ThumbnailURL is a pointer so a missing image serializes as null rather
// than an invalid URL.
type ArtifactSummary struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	SourceID      SourceID `json:"sourceId"`
	ThumbnailURL  *string  `json:"thumbnailUrl"`
	Artist        string   `json:"artist"`
	LocationLabel string   `json:"locationLabel"`
}

// Key returns the cross-source identity of the summary.
func (a ArtifactSummary) Key() Key { return Key{SourceID: a.SourceID, ID: a.ID} }

// ArtifactDetail is the superset of ArtifactSummary used for full-page
// display and bookmark resolution. Description is plain text: any HTML
// from the upstream record is stripped during normalization.
type ArtifactDetail struct {
	ArtifactSummary
	Description       string `json:"description"`
	DateDisplay       string `json:"dateDisplay"`
	GalleryOrLocation string `json:"galleryOrLocation"`
}
