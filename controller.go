package typeahead

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/veldt/typeahead/internal/fetch"
	"github.com/veldt/typeahead/internal/pagination"
	"github.com/veldt/typeahead/internal/selection"
	"github.com/veldt/typeahead/internal/urlbuild"
	"github.com/veldt/typeahead/model"
)

// nearBottomThreshold is how close to the scrollable end (in renderer
// units) a scroll position must be to trigger the next page fetch.
const nearBottomThreshold = 50

// Controller owns the input text, focus state, and loaded options of one
// selector instance, and orchestrates fetching, caching, pagination, and
// selection resolution behind a single state machine.
//
// Event methods never block: fetches run asynchronously and their results
// are applied under the controller lock, so callers may invoke events from
// any goroutine. Results arriving for a query key that is no longer active
// are discarded (last-key-wins).
type Controller struct {
	opts   Options
	single *SinglePageConfig
	paged  *PaginatedConfig

	cache      *Cache
	engine     *fetch.Engine
	httpClient *http.Client
	logger     *zap.Logger
	renderer   ListRenderer

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	focused      bool
	input        string
	loading      bool
	fetchingNext bool
	options      []model.Item
	err          error
	activeKey    string
	pager        *pagination.Paginator
}

// New creates a Controller for the given configuration. No fetch happens
// until the first Focus event.
func New(cfg Config, opts ...Option) (*Controller, error) {
	if cfg == nil {
		return nil, model.NewConfigError("config is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		opts:   cfg.options(),
		logger: zap.NewNop(),
	}
	switch v := cfg.(type) {
	case SinglePageConfig:
		c.single = &v
	case *SinglePageConfig:
		c.single = v
	case PaginatedConfig:
		c.paged = &v
	case *PaginatedConfig:
		c.paged = v
	default:
		return nil, model.NewConfigError(fmt.Sprintf("unsupported config type %T", cfg))
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewCache()
	}
	engineOpts := []fetch.Option{fetch.WithLogger(c.logger)}
	if c.httpClient != nil {
		engineOpts = append(engineOpts, fetch.WithHTTPClient(c.httpClient))
	}
	c.engine = fetch.NewEngine(engineOpts...)
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c, nil
}

// Close cancels outstanding fetches. The controller must not be used after
// Close; the shared Cache is unaffected.
func (c *Controller) Close() {
	c.cancel()
}

// State returns a snapshot of the controller state.
func (c *Controller) State() model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Focus enables fetching and issues the first fetch. Focus is one-way per
// instance: once focused, fetching stays enabled, and repeated Focus events
// are no-ops. Losing focus does not re-arm the gate.
func (c *Controller) Focus() {
	c.mu.Lock()
	if c.focused {
		c.mu.Unlock()
		return
	}
	c.focused = true
	c.startFetchLocked()
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)
}

// SetInput updates the typed text. When the selector is searchable and
// focused, the query key is recomputed; a changed key starts a new logical
// query, served from cache when already settled.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	if text == c.input {
		c.mu.Unlock()
		return
	}
	c.input = text
	if c.focused && c.opts.Searchable {
		c.startFetchLocked()
	}
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)
}

// ListScrolled reports the renderer's scroll position. In paginated mode,
// a position within nearBottomThreshold of the scrollable end triggers at
// most one next-page fetch, gated on hasNextPage and no fetch in flight.
func (c *Controller) ListScrolled(scrollTop, clientHeight, scrollHeight float64) {
	c.mu.Lock()
	if c.paged == nil || !c.focused || c.pager == nil || c.fetchingNext {
		c.mu.Unlock()
		return
	}
	if scrollHeight-(scrollTop+clientHeight) > nearBottomThreshold {
		c.mu.Unlock()
		return
	}
	pager := c.pager
	if !pager.HasNextPage() || pager.Fetching() {
		c.mu.Unlock()
		return
	}
	c.fetchingNext = true
	ck := c.activeKey
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)

	go c.runNextPage(ck, pager)
}

// Select reports the options the user picked. Values are extracted via the
// configured value field; for a multi-selection OnChange receives slices.
func (c *Controller) Select(items ...model.Item) {
	if len(items) == 0 || c.opts.OnChange == nil {
		return
	}
	if len(items) == 1 {
		c.opts.OnChange(c.extractValue(items[0]), items[0])
		return
	}
	values := make([]any, len(items))
	for i, item := range items {
		values[i] = c.extractValue(item)
	}
	c.opts.OnChange(values, items)
}

// ResolveValue maps an externally supplied current value (scalar id, list of
// ids, or hydrated item(s)) onto the loaded options. A value that is not yet
// loadable resolves to nil, not an error.
func (c *Controller) ResolveValue(value any) any {
	c.mu.Lock()
	options := c.options
	c.mu.Unlock()
	return selection.Resolve(value, options, c.extractValue)
}

// IsSelected reports whether option represents the current value. Used by
// renderers to highlight the selected option; an empty value reports false.
func (c *Controller) IsSelected(value any, option model.Item) bool {
	return selection.Matches(value, option, c.extractValue)
}

// Label renders the display string of an option.
func (c *Controller) Label(item model.Item) string {
	v := c.opts.LabelField.Resolve(item)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// --- fetch orchestration ---

// currentKeyLocked recomputes the query key from the current configuration
// and input. Must be called with mu held.
func (c *Controller) currentKeyLocked() Key {
	k := Key{
		Params:     c.opts.QueryParams,
		Searchable: c.opts.Searchable,
	}
	if c.opts.Searchable {
		k.Search = c.input
	}
	if c.single != nil {
		k.Namespace = "single"
		k.URL = c.single.URL
	} else {
		k.Namespace = "infinite"
		k.URL = c.paged.URLForParam(c.paged.InitialPageParam)
	}
	return k
}

// startFetchLocked compares the recomputed key against the active one and
// starts a fetch for a changed key. Must be called with mu held.
func (c *Controller) startFetchLocked() {
	key := c.currentKeyLocked()
	ck := key.canonical()
	if ck == c.activeKey {
		return
	}
	c.activeKey = ck
	c.err = nil
	c.loading = true
	c.fetchingNext = false

	if c.paged != nil {
		pager := c.cache.paginator(key, func() *pagination.Paginator {
			return pagination.New(c.pagerConfig(key.Search))
		})
		c.pager = pager
		go c.runFirstPage(ck, pager)
	} else {
		c.pager = nil
		go c.runSinglePage(key, ck)
	}
}

func (c *Controller) runSinglePage(key Key, ck string) {
	reqURL := urlbuild.Build(c.single.URL, c.opts.QueryParams, key.Search, c.opts.Searchable)
	data, err := c.cache.GetOrFetch(c.ctx, key, func(ctx context.Context) (any, error) {
		return c.engine.FetchPage(ctx, reqURL)
	})

	c.mu.Lock()
	if c.activeKey != ck {
		c.mu.Unlock()
		c.logger.Debug("typeahead: discarding stale response", zap.String("key", ck))
		return
	}
	c.loading = false
	if err != nil {
		c.err = err // options unchanged: stale-if-error
	} else {
		c.err = nil
		c.options = c.extractOptions(data)
	}
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)
}

func (c *Controller) runFirstPage(ck string, pager *pagination.Paginator) {
	err := pager.FetchFirst(c.ctx)

	c.mu.Lock()
	if c.activeKey != ck {
		c.mu.Unlock()
		c.logger.Debug("typeahead: discarding stale first page", zap.String("key", ck))
		return
	}
	c.loading = false
	if err != nil {
		c.err = err
	} else {
		c.err = nil
		c.options = c.flattenPages(pager)
	}
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)
}

func (c *Controller) runNextPage(ck string, pager *pagination.Paginator) {
	err := pager.FetchNext(c.ctx)

	c.mu.Lock()
	if c.activeKey != ck {
		c.fetchingNext = false
		c.mu.Unlock()
		c.logger.Debug("typeahead: discarding stale page", zap.String("key", ck))
		return
	}
	c.fetchingNext = false
	if err != nil {
		c.err = err
	} else {
		c.err = nil
		c.options = c.flattenPages(pager)
	}
	st := c.stateLocked()
	c.mu.Unlock()
	c.notify(st)
}

// pagerConfig builds the pagination wiring for one query key. The search
// text is captured per key so a pager always rebuilds the URLs it was
// created for.
func (c *Controller) pagerConfig(search string) pagination.Config {
	paged := c.paged
	params := c.opts.QueryParams
	searchable := c.opts.Searchable
	return pagination.Config{
		URLForParam: func(param model.PageParam) string {
			return urlbuild.Build(paged.URLForParam(param), params, search, searchable)
		},
		Fetch:     c.engine.FetchPage,
		NextParam: paged.GetNextPageParam,
		Initial:   paged.InitialPageParam,
	}
}

// --- option derivation ---

// extractOptions derives the option list from a raw response body: the
// configured options path is applied when set, else the body itself is the
// collection. A body that cannot be traversed yields an empty list.
func (c *Controller) extractOptions(data any) []model.Item {
	raw := data
	if !c.opts.OptionsPath.IsZero() {
		raw = c.opts.OptionsPath.Resolve(data)
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil
	}
	items := make([]model.Item, 0, len(arr))
	for _, elem := range arr {
		if m, ok := elem.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

// flattenPages derives options from every accumulated page, in page order.
func (c *Controller) flattenPages(pager *pagination.Paginator) []model.Item {
	var out []model.Item
	for _, pg := range pager.Pages() {
		out = append(out, c.extractOptions(pg.Data)...)
	}
	return out
}

func (c *Controller) extractValue(item model.Item) any {
	return c.opts.ValueField.Resolve(item)
}

func (c *Controller) stateLocked() model.State {
	options := make([]model.Item, len(c.options))
	copy(options, c.options)
	hasNext := false
	if c.pager != nil {
		hasNext = c.pager.HasNextPage()
	}
	return model.State{
		InputText:        c.input,
		Focused:          c.focused,
		Options:          options,
		Loading:          c.loading,
		HasNextPage:      hasNext,
		FetchingNextPage: c.fetchingNext,
		Err:              c.err,
	}
}

func (c *Controller) notify(st model.State) {
	if c.renderer != nil {
		c.renderer.Render(st)
	}
}
