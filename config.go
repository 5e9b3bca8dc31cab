package typeahead

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/veldt/typeahead/model"
)

// Options holds the configuration fields shared by both fetch modes.
type Options struct {
	// ValueField extracts the reported value (id) of an option.
	ValueField model.FieldSpec
	// LabelField extracts the display string of an option.
	LabelField model.FieldSpec
	// OptionsPath extracts the options array from the raw response body
	// (e.g. "data.results"). When unset, the body itself is the collection.
	OptionsPath model.FieldSpec
	// Searchable gates whether typed text becomes a "search" query
	// parameter and part of the cache key.
	Searchable bool
	// QueryParams is a static parameter map merged into every request.
	QueryParams map[string]string
	// OnChange is invoked when the user selects. For a multi-selection both
	// arguments are slices, in the order the items were passed to Select.
	OnChange func(value any, item any)
}

// Config selects the fetch mode once at construction. Exactly two variants
// exist: SinglePageConfig and PaginatedConfig. The closed set rules out
// invalid field combinations at compile time.
type Config interface {
	options() Options
	validate() error
}

// SinglePageConfig fetches the whole collection from one static URL.
type SinglePageConfig struct {
	Options
	// URL is the backend endpoint.
	URL string
}

func (c SinglePageConfig) options() Options { return c.Options }

func (c SinglePageConfig) validate() error {
	if c.URL == "" {
		return model.NewConfigError("url is required")
	}
	return nil
}

// PaginatedConfig fetches the collection page by page.
type PaginatedConfig struct {
	Options
	// URLForParam builds the page URL from an opaque page parameter. It
	// receives InitialPageParam for the first page.
	URLForParam func(param model.PageParam) string
	// GetNextPageParam is the continuation: given the last page's data and
	// all pages so far, it returns the parameter for the next page, or nil
	// when no further page exists.
	GetNextPageParam func(last any, all []any) model.PageParam
	// InitialPageParam seeds the first fetch. May be nil.
	InitialPageParam model.PageParam
}

func (c PaginatedConfig) options() Options { return c.Options }

func (c PaginatedConfig) validate() error {
	if c.URLForParam == nil {
		return model.NewConfigError("url template function is required")
	}
	if c.GetNextPageParam == nil {
		return model.NewConfigError("next page continuation is required")
	}
	return nil
}

// Option configures a Controller.
type Option func(*Controller)

// WithCache attaches a shared Cache. Controllers given the same Cache share
// cached data and in-flight deduplication. The default is a private Cache.
func WithCache(cache *Cache) Option {
	return func(c *Controller) {
		if cache != nil {
			c.cache = cache
		}
	}
}

// WithLogger attaches a logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the HTTP client used for page fetches, e.g. to
// install a RetryTransport or custom timeouts.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Controller) {
		c.httpClient = client
	}
}

// WithRenderer attaches the list renderer notified on every state change.
func WithRenderer(r ListRenderer) Option {
	return func(c *Controller) {
		c.renderer = r
	}
}
