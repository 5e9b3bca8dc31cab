package integration

import (
	"strings"
	"testing"
)

func TestSingleEndpoint_searchFlow(t *testing.T) {
	h := NewHarness(t)
	ctrl, rec := h.NewSingleController(CompanyOptions())

	// Nothing happens until the field is focused.
	ctrl.SetInput("acme")
	if len(rec.States()) > 1 {
		st := rec.Last()
		if st.Loading || len(st.Options) > 0 {
			t.Fatal("fetch ran before focus")
		}
	}

	ctrl.Focus()
	st := rec.WaitOptions(t, 1)
	if Labels(st) != "Acme Corp" {
		t.Fatalf("options = %q", Labels(st))
	}

	// Broadening the search serves a different key.
	ctrl.SetInput("corp")
	st = rec.WaitOptions(t, 3)
	if !strings.Contains(Labels(st), "Tyrell Corp") {
		t.Fatalf("options = %q", Labels(st))
	}

	// Clearing the search loads the full dataset.
	ctrl.SetInput("")
	st = rec.WaitOptions(t, 20)
	if st.HasNextPage {
		t.Error("flat endpoint must not report a next page")
	}
}

func TestSingleEndpoint_selectionRoundTrip(t *testing.T) {
	h := NewHarness(t)

	var gotValue any
	opts := CompanyOptions()
	opts.OnChange = func(value any, _ any) { gotValue = value }

	ctrl, rec := h.NewSingleController(opts)
	ctrl.Focus()
	st := rec.WaitOptions(t, 20)

	ctrl.Select(st.Options[4])
	if gotValue != float64(5) {
		t.Errorf("selected value = %v, want 5", gotValue)
	}

	// The reported value resolves back to the same option.
	item, ok := ctrl.ResolveValue(gotValue).(map[string]any)
	if !ok || item["name"] != "Hooli" {
		t.Errorf("ResolveValue(%v) = %v", gotValue, item)
	}
	if !ctrl.IsSelected(gotValue, st.Options[4]) {
		t.Error("IsSelected disagrees with the reported value")
	}
	if ctrl.IsSelected(gotValue, st.Options[0]) {
		t.Error("IsSelected matched a different option")
	}
}

func TestPagedEndpoint_scrollLoadsAllPages(t *testing.T) {
	h := NewHarness(t)
	ctrl, rec := h.NewPagedController(CompanyOptions())

	ctrl.Focus()
	st := rec.WaitOptions(t, 5)
	if !st.HasNextPage {
		t.Fatal("first of four pages must report more")
	}

	// Scroll to the bottom repeatedly until the dataset is exhausted.
	for want := 10; want <= 20; want += 5 {
		ctrl.ListScrolled(0, 100, 110)
		st = rec.WaitOptions(t, want)
	}
	if st.HasNextPage {
		t.Error("all pages loaded but HasNextPage still true")
	}
	if got := st.Options[0]["name"]; got != "Acme Corp" {
		t.Errorf("page order lost, first option = %v", got)
	}
	if got := st.Options[19]["name"]; got != "Pied Piper" {
		t.Errorf("page order lost, last option = %v", got)
	}
}

func TestPagedEndpoint_searchResetsPagination(t *testing.T) {
	h := NewHarness(t)
	ctrl, rec := h.NewPagedController(CompanyOptions())

	ctrl.Focus()
	rec.WaitOptions(t, 5)
	ctrl.ListScrolled(0, 100, 110)
	rec.WaitOptions(t, 10)

	// A new search is a new logical query starting from page one.
	ctrl.SetInput("industries")
	st := rec.WaitOptions(t, 3)
	if st.HasNextPage {
		t.Error("three matches fit one page")
	}

	// Returning to the original query restores the accumulated pages.
	ctrl.SetInput("")
	rec.WaitOptions(t, 10)
}

func TestSharedCache_acrossControllers(t *testing.T) {
	h := NewHarness(t)

	a, recA := h.NewSingleController(CompanyOptions())
	a.Focus()
	recA.WaitOptions(t, 20)

	// A second controller over the same key starts from the cached data.
	b, recB := h.NewSingleController(CompanyOptions())
	b.Focus()
	recB.WaitOptions(t, 20)
}
