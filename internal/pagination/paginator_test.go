package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/veldt/typeahead/model"
)

// pageBody fabricates a page payload carrying its cursor for inspection.
func pageBody(cursor int) map[string]any {
	return map[string]any{"cursor": cursor}
}

// twoPagePaginator stops after the second page and counts fetches.
func twoPagePaginator(fetchCount *int) *Paginator {
	return New(Config{
		URLForParam: func(param model.PageParam) string {
			if param == nil {
				return "http://backend/items"
			}
			return fmt.Sprintf("http://backend/items?cursor=%v", param["cursor"])
		},
		Fetch: func(_ context.Context, url string) (any, error) {
			*fetchCount++
			if url == "http://backend/items" {
				return pageBody(0), nil
			}
			return pageBody(1), nil
		},
		NextParam: func(last any, all []any) model.PageParam {
			if len(all) >= 2 {
				return nil
			}
			cursor := last.(map[string]any)["cursor"].(int)
			return model.PageParam{"cursor": cursor + 1}
		},
	})
}

func TestPaginator_fetchOrder(t *testing.T) {
	fetches := 0
	p := twoPagePaginator(&fetches)
	ctx := context.Background()

	if p.HasNextPage() {
		t.Error("HasNextPage before first fetch should be false")
	}

	if err := p.FetchFirst(ctx); err != nil {
		t.Fatalf("FetchFirst error: %v", err)
	}
	if !p.HasNextPage() {
		t.Fatal("HasNextPage after page 0 should be true")
	}

	if err := p.FetchNext(ctx); err != nil {
		t.Fatalf("FetchNext error: %v", err)
	}

	pages := p.Pages()
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	for i, pg := range pages {
		if got := pg.Data.(map[string]any)["cursor"]; got != i {
			t.Errorf("pages[%d].cursor = %v, want %d", i, got, i)
		}
	}
}

func TestPaginator_terminalContinuationHaltsFetching(t *testing.T) {
	fetches := 0
	p := twoPagePaginator(&fetches)
	ctx := context.Background()

	p.FetchFirst(ctx)
	p.FetchNext(ctx)

	if p.HasNextPage() {
		t.Error("HasNextPage after terminal continuation should be false")
	}

	// Further FetchNext calls must be no-ops.
	p.FetchNext(ctx)
	p.FetchNext(ctx)
	if fetches != 2 {
		t.Errorf("fetches = %d, want 2", fetches)
	}
}

func TestPaginator_fetchFirstIdempotent(t *testing.T) {
	fetches := 0
	p := twoPagePaginator(&fetches)
	ctx := context.Background()

	p.FetchFirst(ctx)
	p.FetchFirst(ctx)
	if fetches != 1 {
		t.Errorf("fetches = %d, want 1", fetches)
	}
	if len(p.Pages()) != 1 {
		t.Errorf("pages = %d, want 1", len(p.Pages()))
	}
}

func TestPaginator_concurrentFirstFetchShared(t *testing.T) {
	var mu sync.Mutex
	fetches := 0
	release := make(chan struct{})

	p := New(Config{
		URLForParam: func(model.PageParam) string { return "http://backend/items" },
		Fetch: func(context.Context, string) (any, error) {
			mu.Lock()
			fetches++
			mu.Unlock()
			<-release
			return pageBody(0), nil
		},
		NextParam: func(any, []any) model.PageParam { return nil },
	})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.FetchFirst(context.Background())
		}()
	}
	close(release)
	wg.Wait()

	if fetches != 1 {
		t.Errorf("fetches = %d, want 1 shared in-flight request", fetches)
	}
	if len(p.Pages()) != 1 {
		t.Errorf("pages = %d, want 1", len(p.Pages()))
	}
}

func TestPaginator_noConcurrentNextFetch(t *testing.T) {
	var mu sync.Mutex
	fetches := 0
	block := make(chan struct{})

	p := New(Config{
		URLForParam: func(param model.PageParam) string {
			if param == nil {
				return "first"
			}
			return "next"
		},
		Fetch: func(_ context.Context, url string) (any, error) {
			mu.Lock()
			fetches++
			mu.Unlock()
			if url == "next" {
				<-block
			}
			return pageBody(fetches), nil
		},
		NextParam: func(any, []any) model.PageParam {
			return model.PageParam{"cursor": 1}
		},
	})

	ctx := context.Background()
	p.FetchFirst(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.FetchNext(ctx)
	}()

	// Wait until the next-page fetch is in flight, then attempt a duplicate.
	for !p.Fetching() {
		time.Sleep(time.Millisecond)
	}
	p.FetchNext(ctx) // gated no-op
	close(block)
	wg.Wait()

	if fetches != 2 {
		t.Errorf("fetches = %d, want 2 (first + one next)", fetches)
	}
}

func TestPaginator_firstFetchErrorRetriable(t *testing.T) {
	fail := true
	p := New(Config{
		URLForParam: func(model.PageParam) string { return "u" },
		Fetch: func(context.Context, string) (any, error) {
			if fail {
				return nil, errors.New("down")
			}
			return pageBody(0), nil
		},
		NextParam: func(any, []any) model.PageParam { return nil },
	})

	ctx := context.Background()
	if err := p.FetchFirst(ctx); err == nil {
		t.Fatal("expected error from first fetch")
	}
	if len(p.Pages()) != 0 {
		t.Fatal("failed fetch must not append a page")
	}

	fail = false
	if err := p.FetchFirst(ctx); err != nil {
		t.Fatalf("retry error: %v", err)
	}
	if len(p.Pages()) != 1 {
		t.Errorf("pages = %d, want 1 after retry", len(p.Pages()))
	}
}
