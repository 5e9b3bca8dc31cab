package selection

import (
	"reflect"
	"testing"

	"github.com/veldt/typeahead/model"
)

func testOptions() []model.Item {
	return []model.Item{
		{"id": float64(1), "name": "a"},
		{"id": float64(2), "name": "b"},
	}
}

func extractID(item model.Item) any {
	return item["id"]
}

func TestResolve_scalar(t *testing.T) {
	got := Resolve(1, testOptions(), extractID)
	item, ok := got.(model.Item)
	if !ok {
		t.Fatalf("Resolve returned %T, want Item", got)
	}
	if item["name"] != "a" {
		t.Errorf("resolved item = %v, want id 1", item)
	}
}

func TestResolve_scalarString(t *testing.T) {
	// String "2" matches JSON number 2 via stringified comparison.
	got := Resolve("2", testOptions(), extractID)
	item, ok := got.(model.Item)
	if !ok {
		t.Fatalf("Resolve returned %T, want Item", got)
	}
	if item["name"] != "b" {
		t.Errorf("resolved item = %v, want id 2", item)
	}
}

func TestResolve_scalarAbsent(t *testing.T) {
	if got := Resolve(3, testOptions(), extractID); got != nil {
		t.Errorf("Resolve(3) = %v, want nil for not-yet-loaded value", got)
	}
}

func TestResolve_list(t *testing.T) {
	got := Resolve([]any{2, 1}, testOptions(), extractID)
	items, ok := got.([]model.Item)
	if !ok {
		t.Fatalf("Resolve returned %T, want []Item", got)
	}
	// Order follows options order, not input order.
	names := []string{items[0]["name"].(string), items[1]["name"].(string)}
	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Errorf("resolved order = %v, want [a b]", names)
	}
}

func TestResolve_listPartial(t *testing.T) {
	got := Resolve([]int{2, 9}, testOptions(), extractID)
	items := got.([]model.Item)
	if len(items) != 1 || items[0]["name"] != "b" {
		t.Errorf("Resolve([2 9]) = %v, want only id 2", items)
	}
}

func TestResolve_nil(t *testing.T) {
	if got := Resolve(nil, testOptions(), extractID); got != nil {
		t.Errorf("Resolve(nil) = %v, want nil", got)
	}
}

func TestResolve_hydratedItem(t *testing.T) {
	hydrated := model.Item{"id": 99, "name": "preloaded"}
	got := Resolve(hydrated, nil, extractID)
	if !reflect.DeepEqual(got, hydrated) {
		t.Errorf("hydrated item should pass through, got %v", got)
	}
}

func TestResolve_hydratedList(t *testing.T) {
	hydrated := []any{
		map[string]any{"id": 1, "name": "x"},
		map[string]any{"id": 2, "name": "y"},
	}
	got := Resolve(hydrated, nil, extractID)
	items, ok := got.([]model.Item)
	if !ok {
		t.Fatalf("Resolve returned %T, want []Item", got)
	}
	if len(items) != 2 || items[1]["name"] != "y" {
		t.Errorf("hydrated list should pass through, got %v", items)
	}
}

func TestMatches_scalar(t *testing.T) {
	opts := testOptions()
	if !Matches(1, opts[0], extractID) {
		t.Error("Matches(1, option id 1) = false, want true")
	}
	if Matches(1, opts[1], extractID) {
		t.Error("Matches(1, option id 2) = true, want false")
	}
}

func TestMatches_list(t *testing.T) {
	opts := testOptions()
	if !Matches([]any{1, 2}, opts[1], extractID) {
		t.Error("list membership should match")
	}
	if Matches([]string{"7"}, opts[0], extractID) {
		t.Error("non-member should not match")
	}
}

func TestMatches_emptyValueNeverPanics(t *testing.T) {
	opts := testOptions()
	if Matches(nil, opts[0], extractID) {
		t.Error("Matches(nil) = true, want false")
	}
	if Matches([]any{}, opts[0], extractID) {
		t.Error("Matches(empty list) = true, want false")
	}
}

func TestMatches_missingValueField(t *testing.T) {
	// Option without the value field must not match anything, including "".
	bare := model.Item{"name": "no id"}
	if Matches("", bare, extractID) {
		t.Error("missing value field must not equal empty string value")
	}
}
