package model

import "github.com/veldt/typeahead/internal/fieldpath"

// Extractor is a caller-supplied function that pulls a value out of a raw
// item or response body. Its result is returned verbatim, including nil.
type Extractor func(v any) any

// FieldSpec selects a value out of an item, either by a dotted field path
// (e.g. "company.name") or by an extraction function. The zero value is
// unset and resolves everything to nil.
type FieldSpec struct {
	path string
	fn   Extractor
}

// Field returns a FieldSpec that traverses the given dotted path.
func Field(path string) FieldSpec {
	return FieldSpec{path: path}
}

// FieldFunc returns a FieldSpec backed by an extraction function.
func FieldFunc(fn Extractor) FieldSpec {
	return FieldSpec{fn: fn}
}

// IsZero reports whether the spec is unset.
func (s FieldSpec) IsZero() bool {
	return s.path == "" && s.fn == nil
}

// Resolve applies the spec to v. Function specs are invoked with v and their
// result returned as-is. Path specs traverse nested maps; a path that cannot
// be followed yields nil, never an error.
func (s FieldSpec) Resolve(v any) any {
	if s.fn != nil {
		return s.fn(v)
	}
	return fieldpath.Lookup(v, s.path)
}
