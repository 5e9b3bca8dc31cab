// Package fieldpath resolves dotted field paths through nested JSON-style
// objects. Resolution never fails: a path that cannot be traversed yields
// nil, because option shapes are caller-controlled and partial data must not
// crash the selector.
package fieldpath

import "strings"

// Lookup walks a dotted path (e.g. "company.name") through nested
// map[string]any values. At each segment, if the current value is not a map,
// the walk stops and nil is returned.
func Lookup(v any, path string) any {
	if path == "" {
		return nil
	}
	current := v
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}
