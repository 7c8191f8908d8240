package museum

// FetchResult is the uniform outcome of every adapter call. Adapters never
// let a transport or decode error escape: everything is folded into the
// OK=false variant, carrying the upstream status (or 500 for failures that
// happened before a response existed).
type FetchResult[T any] struct {
	OK         bool   `json:"ok"`
	Items      []T    `json:"items,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Ok wraps items in a successful result. A nil slice becomes an empty one
// so consumers always see [] rather than null.
func Ok[T any](items []T) FetchResult[T] {
	if items == nil {
		items = []T{}
	}
	return FetchResult[T]{OK: true, Items: items}
}

// Fail builds the error variant.
func Fail[T any](statusCode int, message string) FetchResult[T] {
	return FetchResult[T]{OK: false, StatusCode: statusCode, Message: message}
}

// First returns the single item of a detail result.
func (r FetchResult[T]) First() (T, bool) {
	var zero T
	if !r.OK || len(r.Items) == 0 {
		return zero, false
	}
	return r.Items[0], true
}
