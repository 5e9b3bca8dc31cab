// Package urlbuild composes request URLs from a base URL, a static parameter
// map, and an optional search term. It is a pure function layer with no
// network or cache access.
package urlbuild

import (
	"net/url"
	"sort"
	"strings"
)

// Build appends query parameters to base. When searchable is true and search
// is non-empty, a "search" parameter is appended first; static params follow
// in sorted key order so the result is deterministic per call. All keys and
// values are percent-encoded here. The separator is "&" when base already
// carries a query string, "?" otherwise.
func Build(base string, params map[string]string, search string, searchable bool) string {
	var pairs []string

	if searchable && search != "" {
		pairs = append(pairs, "search="+url.QueryEscape(search))
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(params[k]))
	}

	if len(pairs) == 0 {
		return base
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + strings.Join(pairs, "&")
}
