// Package typeahead is an embeddable search-as-you-type selector engine.
// It fetches options for a remote collection as the user types, caches
// results under composite query keys with in-flight deduplication, merges
// paginated responses in fetch order, and resolves an externally supplied
// current value against the loaded options.
//
// Rendering is out of scope: a ListRenderer collaborator receives state
// snapshots and feeds user intent back through the Controller's event
// methods (Focus, SetInput, ListScrolled, Select).
package typeahead
