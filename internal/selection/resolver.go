// Package selection resolves an externally supplied "current value" against
// asynchronously loaded options. The value may be a scalar id, a list of
// ids, or one or more already-hydrated items; comparison is by stringified
// value field, so numeric and string ids interoperate.
package selection

import (
	"fmt"

	"github.com/veldt/typeahead/model"
)

// Extract pulls the comparable value out of an option.
type Extract func(item model.Item) any

// Resolve maps value onto the loaded options.
//
//   - nil yields nil.
//   - A scalar yields the first option whose extracted value stringifies
//     equal, or nil when none is loaded yet (not an error).
//   - A list of scalars yields the matching options in options order.
//   - A hydrated item or item list is returned as-is without lookup.
func Resolve(value any, options []model.Item, extract Extract) any {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case model.Item:
		return v
	case []model.Item:
		return v
	case []any:
		if items, ok := hydratedItems(v); ok {
			return items
		}
		return filterByValues(scalarStrings(v), options, extract)
	case []string:
		return filterByValues(v, options, extract)
	case []int:
		return filterByValues(scalarStringsInt(v), options, extract)
	default:
		want := fmt.Sprint(v)
		for _, opt := range options {
			if stringify(extract(opt)) == want {
				return opt
			}
		}
		return nil
	}
}

// Matches is the equality predicate used to highlight a selected option. A
// scalar value matches when the option's stringified value field equals it;
// a list matches when any member does. Empty values report not-equal and
// never panic.
func Matches(value any, option model.Item, extract Extract) bool {
	if value == nil || option == nil {
		return false
	}
	have := stringify(extract(option))

	switch v := value.(type) {
	case model.Item:
		return stringify(extract(v)) == have
	case []model.Item:
		for _, item := range v {
			if stringify(extract(item)) == have {
				return true
			}
		}
		return false
	case []any:
		if items, ok := hydratedItems(v); ok {
			return Matches(items, option, extract)
		}
		for _, s := range scalarStrings(v) {
			if s == have {
				return true
			}
		}
		return false
	case []string:
		for _, s := range v {
			if s == have {
				return true
			}
		}
		return false
	case []int:
		for _, s := range scalarStringsInt(v) {
			if s == have {
				return true
			}
		}
		return false
	default:
		return fmt.Sprint(v) == have
	}
}

// hydratedItems converts v to items when every element is an object.
func hydratedItems(v []any) ([]model.Item, bool) {
	if len(v) == 0 {
		return nil, false
	}
	items := make([]model.Item, 0, len(v))
	for _, elem := range v {
		m, ok := elem.(map[string]any)
		if !ok {
			return nil, false
		}
		items = append(items, m)
	}
	return items, true
}

func filterByValues(wanted []string, options []model.Item, extract Extract) []model.Item {
	if len(wanted) == 0 {
		return nil
	}
	set := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		set[w] = true
	}
	var matched []model.Item
	for _, opt := range options {
		if set[stringify(extract(opt))] {
			matched = append(matched, opt)
		}
	}
	return matched
}

func scalarStrings(v []any) []string {
	out := make([]string, 0, len(v))
	for _, elem := range v {
		out = append(out, fmt.Sprint(elem))
	}
	return out
}

func scalarStringsInt(v []int) []string {
	out := make([]string, 0, len(v))
	for _, n := range v {
		out = append(out, fmt.Sprint(n))
	}
	return out
}

// stringify renders an extracted value for comparison. Nil renders
// distinctly so a missing value field never matches a real id.
func stringify(v any) string {
	if v == nil {
		return "\x00nil"
	}
	return fmt.Sprint(v)
}
