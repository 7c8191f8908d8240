package museum

import "context"

// SortDir is the listing title order. Sorting happens client-side in the
// orchestrator; adapters only pass through the fields the remote APIs
// document (offset/limit, on-view filter, free-text query).
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// ListQuery is the uniform listing request handed to an adapter.
type ListQuery struct {
	Sort     SortDir
	OnView   bool
	Page     int // 1-based
	PageSize int
}

// Source is the adapter contract, one implementation per museum. Every
// method performs at most one outbound HTTP call and always returns a
// FetchResult; a blank artist name short-circuits to an empty success
// with no network I/O at all.
type Source interface {
	ID() SourceID
	ListArtifacts(ctx context.Context, q ListQuery) FetchResult[ArtifactSummary]
	GetArtifactByID(ctx context.Context, id string) FetchResult[ArtifactDetail]
	SearchByArtist(ctx context.Context, name string, page, pageSize int) FetchResult[ArtifactSummary]
}
