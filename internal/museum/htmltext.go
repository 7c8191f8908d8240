package museum

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripOnce sync.Once
	stripPol  *bluemonday.Policy
)

// StripHTML reduces an upstream HTML fragment to plain text: tags removed,
// entities decoded, whitespace collapsed. Museum descriptions arrive as
// markup and the normalized records carry text only.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	stripOnce.Do(func() {
		stripPol = bluemonday.StrictPolicy()
	})
	text := html.UnescapeString(stripPol.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}
