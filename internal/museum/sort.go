package museum

import (
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	collMu sync.Mutex
	coll   = collate.New(language.English, collate.Loose)
)

// compareTitles is a locale-aware string compare. Loose collation matches
// how browsers order gallery titles: case and diacritics are secondary,
// so "a" < "C" < "x".
func compareTitles(a, b string) int {
	collMu.Lock()
	defer collMu.Unlock()
	return coll.CompareString(a, b)
}

// SortByTitle returns a new slice ordered by title without mutating the
// input. Descending is the exact reverse comparator of ascending.
func SortByTitle(items []ArtifactSummary, dir SortDir) []ArtifactSummary {
	out := make([]ArtifactSummary, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		c := compareTitles(out[i].Title, out[j].Title)
		if dir == SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}
