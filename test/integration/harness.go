// Package integration exercises the full selector loop end to end: a real
// HTTP backend (the demo dataset), a controller with caching and pagination,
// and a recording renderer standing in for a UI.
package integration

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/veldt/typeahead"
	"github.com/veldt/typeahead/internal/demoapi"
	"github.com/veldt/typeahead/model"
)

// TestHarness wires a demo backend and a controller factory for one test.
type TestHarness struct {
	t      *testing.T
	server *httptest.Server

	// Cache is shared by every controller the harness creates.
	Cache *typeahead.Cache
}

// NewHarness starts the demo backend. The server and all controllers are
// torn down with the test.
func NewHarness(t *testing.T) *TestHarness {
	t.Helper()
	h := &TestHarness{
		t:      t,
		server: httptest.NewServer(demoapi.NewRouter()),
		Cache:  typeahead.NewCache(),
	}
	t.Cleanup(h.server.Close)
	return h
}

// URL returns the backend base URL.
func (h *TestHarness) URL() string { return h.server.URL }

// NewSingleController creates a controller against the flat endpoint.
func (h *TestHarness) NewSingleController(opts typeahead.Options) (*typeahead.Controller, *Recorder) {
	h.t.Helper()
	rec := NewRecorder()
	ctrl, err := typeahead.New(
		typeahead.SinglePageConfig{Options: opts, URL: h.server.URL + "/companies"},
		typeahead.WithCache(h.Cache),
		typeahead.WithRenderer(rec),
	)
	if err != nil {
		h.t.Fatalf("controller: %v", err)
	}
	h.t.Cleanup(ctrl.Close)
	return ctrl, rec
}

// NewPagedController creates a controller against the cursor-paginated
// endpoint.
func (h *TestHarness) NewPagedController(opts typeahead.Options) (*typeahead.Controller, *Recorder) {
	h.t.Helper()
	base := h.server.URL + "/companies/paged"
	opts.OptionsPath = model.Field("data.results")

	rec := NewRecorder()
	ctrl, err := typeahead.New(
		typeahead.PaginatedConfig{
			Options: opts,
			URLForParam: func(param model.PageParam) string {
				if param == nil {
					return base
				}
				return fmt.Sprintf("%s?cursor=%v", base, param["cursor"])
			},
			GetNextPageParam: func(last any, _ []any) model.PageParam {
				next := model.Field("data.next_cursor").Resolve(last)
				if next == nil {
					return nil
				}
				return model.PageParam{"cursor": next}
			},
		},
		typeahead.WithCache(h.Cache),
		typeahead.WithRenderer(rec),
	)
	if err != nil {
		h.t.Fatalf("controller: %v", err)
	}
	h.t.Cleanup(ctrl.Close)
	return ctrl, rec
}

// CompanyOptions returns the field wiring for the demo dataset.
func CompanyOptions() typeahead.Options {
	return typeahead.Options{
		ValueField: model.Field("id"),
		LabelField: model.Field("name"),
		Searchable: true,
	}
}

// Recorder is a ListRenderer that records every state snapshot.
type Recorder struct {
	mu     sync.Mutex
	states []model.State
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Render implements typeahead.ListRenderer.
func (r *Recorder) Render(st model.State) {
	r.mu.Lock()
	r.states = append(r.states, st)
	r.mu.Unlock()
}

// States returns a copy of all recorded snapshots.
func (r *Recorder) States() []model.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.State, len(r.states))
	copy(out, r.states)
	return out
}

// Last returns the most recent snapshot.
func (r *Recorder) Last() model.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return model.State{}
	}
	return r.states[len(r.states)-1]
}

// WaitSettled blocks until the controller is idle with no error, then
// returns the snapshot. It fails the test on timeout.
func (r *Recorder) WaitSettled(t *testing.T) model.State {
	t.Helper()
	return r.waitState(t, func(st model.State) bool {
		return st.Focused && !st.Loading && !st.FetchingNextPage && st.Err == nil
	})
}

// WaitOptions blocks until a snapshot carries exactly n options.
func (r *Recorder) WaitOptions(t *testing.T, n int) model.State {
	t.Helper()
	return r.waitState(t, func(st model.State) bool {
		return !st.Loading && !st.FetchingNextPage && len(st.Options) == n
	})
}

func (r *Recorder) waitState(t *testing.T, cond func(model.State) bool) model.State {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		st := r.Last()
		if cond(st) {
			return st
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("no settled state within deadline; last = %+v", r.Last())
	return model.State{}
}

// Labels extracts the name field of every option, joined for assertions.
func Labels(st model.State) string {
	names := make([]string, len(st.Options))
	for i, opt := range st.Options {
		names[i], _ = opt["name"].(string)
	}
	return strings.Join(names, ",")
}
