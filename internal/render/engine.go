// Package render turns Mermaid source into SVG. An Engine does the
// rendering; Fit prepares the result for a scalable, pannable viewport.
package render

import (
	"context"
	"errors"
)

// TargetID is the identifier every render is issued against.
const TargetID = "graphDiv"

// ErrEmpty is returned for source that holds nothing to render.
var ErrEmpty = errors.New("render: empty diagram")

// Engine renders diagram source to an SVG document.
type Engine interface {
	Render(ctx context.Context, id, text string) (string, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, id, text string) (string, error)

func (f EngineFunc) Render(ctx context.Context, id, text string) (string, error) {
	return f(ctx, id, text)
}
