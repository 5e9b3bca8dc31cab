package typeahead

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/veldt/typeahead/internal/pagination"
)

// Cache is the keyed store shared by controller instances. It maps canonical
// query keys to settled fetch results, deduplicates concurrent identical
// requests, and holds the page accumulators of paginated queries.
//
// A Cache is typically created once per process and passed to every
// controller, so two independently mounted selectors for the same endpoint
// and parameters share cached data and in-flight requests. Entries are never
// proactively evicted; Invalidate is the forced-refresh hook.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	pagers  map[string]*pagination.Paginator
	group   singleflight.Group
}

type cacheEntry struct {
	data      any
	fetchedAt time.Time
	stale     bool
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		pagers:  make(map[string]*pagination.Paginator),
	}
}

// GetOrFetch returns the settled data cached under key, fetching it at most
// once when absent. Concurrent callers with an equal key coalesce into the
// one in-flight request. A failed fetch is not cached: the error surfaces to
// every waiter and the next call with the same key retries.
func (c *Cache) GetOrFetch(ctx context.Context, key Key, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	ck := key.canonical()
	if data, ok := c.peek(ck); ok {
		return data, nil
	}

	data, err, _ := c.group.Do(ck, func() (any, error) {
		// A racing caller may have settled the entry before we joined.
		if data, ok := c.peek(ck); ok {
			return data, nil
		}
		data, err := fetchFn(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[ck] = &cacheEntry{data: data, fetchedAt: time.Now()}
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Peek returns the settled data cached under key without fetching.
func (c *Cache) Peek(key Key) (any, bool) {
	return c.peek(key.canonical())
}

// Invalidate marks the entry for key stale so the next GetOrFetch refetches,
// and drops the page accumulator of a paginated key.
func (c *Cache) Invalidate(key Key) {
	ck := key.canonical()
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[ck]; ok {
		e.stale = true
	}
	delete(c.pagers, ck)
}

// Len returns the number of settled entries. For testing.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) peek(ck string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[ck]
	if !ok || e.stale {
		return nil, false
	}
	return e.data, true
}

// paginator returns the shared page accumulator for key, creating it on
// first use. Pages obtained for a stable key are reused by every controller
// that resolves the same key.
func (c *Cache) paginator(key Key, create func() *pagination.Paginator) *pagination.Paginator {
	ck := key.canonical()
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pagers[ck]; ok {
		return p
	}
	p := create()
	c.pagers[ck] = p
	return p
}
