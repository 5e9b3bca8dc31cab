package fieldpath

import "testing"

func TestLookup_nested(t *testing.T) {
	item := map[string]any{
		"company": map[string]any{"name": "Acme"},
	}
	got := Lookup(item, "company.name")
	if got != "Acme" {
		t.Errorf("Lookup(company.name) = %v, want Acme", got)
	}
}

func TestLookup_topLevel(t *testing.T) {
	item := map[string]any{"id": float64(7)}
	got := Lookup(item, "id")
	if got != float64(7) {
		t.Errorf("Lookup(id) = %v, want 7", got)
	}
}

func TestLookup_missingPath(t *testing.T) {
	item := map[string]any{
		"company": map[string]any{"name": "Acme"},
	}
	// "missing" resolves to nil, then ".x" walks into a non-map.
	if got := Lookup(item, "company.missing.x"); got != nil {
		t.Errorf("Lookup(company.missing.x) = %v, want nil", got)
	}
}

func TestLookup_scalarMidPath(t *testing.T) {
	item := map[string]any{"name": "Acme"}
	if got := Lookup(item, "name.length"); got != nil {
		t.Errorf("Lookup(name.length) = %v, want nil", got)
	}
}

func TestLookup_nonMapRoot(t *testing.T) {
	if got := Lookup([]any{"a"}, "anything"); got != nil {
		t.Errorf("Lookup on slice = %v, want nil", got)
	}
	if got := Lookup(nil, "a"); got != nil {
		t.Errorf("Lookup on nil = %v, want nil", got)
	}
}

func TestLookup_emptyPath(t *testing.T) {
	if got := Lookup(map[string]any{"a": 1}, ""); got != nil {
		t.Errorf("Lookup with empty path = %v, want nil", got)
	}
}
