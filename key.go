package typeahead

import (
	"net/url"
	"sort"
	"strings"
)

// Key is the composite identity of one logical query, used for caching and
// in-flight deduplication. Two requests are the same query iff their Keys
// are structurally equal, including deep equality on the parameter map.
type Key struct {
	// Namespace separates single-page from paginated query spaces.
	Namespace string
	// URL is the base URL, or the first-page URL for paginated queries.
	URL string
	// Params is the static query parameter map.
	Params map[string]string
	// Searchable records whether typed text participates in the key.
	Searchable bool
	// Search is the query text. Only meaningful when Searchable is true.
	Search string
}

// canonical renders the key as a deterministic string: params are sorted by
// key and every component percent-encoded, so structural equality of Keys is
// exactly string equality of their canonical forms.
func (k Key) canonical() string {
	var b strings.Builder
	b.WriteString(url.QueryEscape(k.Namespace))
	b.WriteByte('|')
	b.WriteString(url.QueryEscape(k.URL))
	b.WriteByte('|')

	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(k.Params[name]))
	}

	b.WriteByte('|')
	if k.Searchable {
		b.WriteString("search=")
		b.WriteString(url.QueryEscape(k.Search))
	}
	return b.String()
}

// Equal reports structural equality of two keys.
func (k Key) Equal(other Key) bool {
	return k.canonical() == other.canonical()
}
