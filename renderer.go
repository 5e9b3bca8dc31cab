package typeahead

import "github.com/veldt/typeahead/model"

// ListRenderer is the consumed rendering collaborator: it receives a state
// snapshot after every controller transition and is expected to feed user
// intent back through the controller's event methods.
//
// Render is called from the goroutine that completed the transition; a
// renderer that repaints asynchronously should hand the snapshot off to its
// own loop.
type ListRenderer interface {
	Render(state model.State)
}

// RenderFunc adapts a function to the ListRenderer interface.
type RenderFunc func(state model.State)

// Render implements ListRenderer.
func (f RenderFunc) Render(state model.State) { f(state) }
