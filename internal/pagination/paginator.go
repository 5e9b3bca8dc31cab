// Package pagination accumulates the pages of an infinite query. Pages are
// appended strictly in fetch order and never refetched or replaced; the next
// page parameter comes from a caller-supplied continuation function.
package pagination

import (
	"context"
	"sync"

	"github.com/veldt/typeahead/model"
)

// Config wires a Paginator to its collaborators.
type Config struct {
	// URLForParam builds the request URL for a page parameter. It receives
	// the configured initial param for the first page.
	URLForParam func(param model.PageParam) string
	// Fetch performs the network read for one page URL.
	Fetch func(ctx context.Context, url string) (any, error)
	// NextParam is the continuation: given the last page's data and all
	// pages so far, it returns the param for the next page, or nil when no
	// further page exists.
	NextParam func(last any, all []any) model.PageParam
	// Initial seeds the first fetch. May be nil.
	Initial model.PageParam
}

// Paginator tracks the pages fetched so far for one stable query key.
// All methods are safe for concurrent use; page fetches are strictly
// sequential because FetchNext is gated on the fetching flag.
type Paginator struct {
	cfg Config

	mu        sync.Mutex
	pages     []model.Page
	next      model.PageParam
	started   bool
	terminal  bool
	fetching  bool
	firstDone chan struct{}
	firstErr  error
}

// New creates a Paginator. Nothing is fetched until FetchFirst.
func New(cfg Config) *Paginator {
	return &Paginator{cfg: cfg}
}

// Started reports whether page 0 has been fetched (or is being fetched).
func (p *Paginator) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// HasNextPage reports whether the continuation has not yet terminated.
// False until the first page settles.
func (p *Paginator) HasNextPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pages) > 0 && !p.terminal
}

// Fetching reports whether a page fetch is in flight.
func (p *Paginator) Fetching() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetching
}

// Pages returns a copy of the accumulated pages in fetch order.
func (p *Paginator) Pages() []model.Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Page, len(p.pages))
	copy(out, p.pages)
	return out
}

// FetchFirst fetches page 0 and computes the first continuation. Concurrent
// callers share the single in-flight request: late joiners block until it
// settles and observe its outcome. Once page 0 is obtained, FetchFirst is a
// no-op, so revisiting a cached key never refetches obtained pages.
func (p *Paginator) FetchFirst(ctx context.Context) error {
	p.mu.Lock()
	if p.started {
		done := p.firstDone
		p.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.firstErr
	}
	p.started = true
	p.fetching = true
	p.firstDone = make(chan struct{})
	done := p.firstDone
	param := p.cfg.Initial
	p.mu.Unlock()

	data, err := p.cfg.Fetch(ctx, p.cfg.URLForParam(param))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetching = false
	p.firstErr = err
	if err != nil {
		// Allow a later FetchFirst to retry.
		p.started = false
	} else {
		p.appendLocked(data, param)
	}
	close(done)
	return err
}

// FetchNext fetches the next page. It is a no-op when no next page exists or
// a fetch is already in flight, which makes duplicate concurrent page
// fetches impossible.
func (p *Paginator) FetchNext(ctx context.Context) error {
	p.mu.Lock()
	if len(p.pages) == 0 || p.terminal || p.fetching {
		p.mu.Unlock()
		return nil
	}
	p.fetching = true
	param := p.next
	p.mu.Unlock()

	data, err := p.cfg.Fetch(ctx, p.cfg.URLForParam(param))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetching = false
	if err != nil {
		return err
	}
	p.appendLocked(data, param)
	return nil
}

// appendLocked appends a settled page and recomputes the continuation.
// Must be called with mu held.
func (p *Paginator) appendLocked(data any, param model.PageParam) {
	p.pages = append(p.pages, model.Page{Data: data, Param: param})

	all := make([]any, len(p.pages))
	for i, pg := range p.pages {
		all[i] = pg.Data
	}
	p.next = p.cfg.NextParam(data, all)
	p.terminal = p.next == nil
}
