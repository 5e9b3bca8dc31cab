// Package model holds the shared data model for the typeahead engine: items,
// field specifications, pages, and the typed errors surfaced by the fetch
// layer.
package model

// Item is one record returned by a backend. Items are opaque to the engine
// except through FieldSpec resolution, so any JSON object shape works.
type Item = map[string]any

// PageParam is the opaque cursor or offset data passed to retrieve the next
// page of a paginated query. A nil PageParam signals that no further page
// exists. Keys and values are caller-defined.
type PageParam map[string]any

// Page is one fetched page of a paginated query. Pages accumulate in fetch
// order and are never reordered.
type Page struct {
	// Data is the parsed JSON body of this page, before option extraction.
	Data any
	// Param is the PageParam that produced this page. Nil for the first
	// page unless an initial param was configured.
	Param PageParam
}

// State is the renderable snapshot of a controller. It is mutated only by
// the controller in response to user or network events.
type State struct {
	InputText        string
	Focused          bool
	Options          []Item
	Loading          bool
	HasNextPage      bool
	FetchingNextPage bool
	// Err holds the most recent fetch failure for the active query, or nil.
	// Failures never discard previously loaded options.
	Err error
}
