package render

import (
	"context"
	"strings"

	"github.com/xonecas/mermedit/internal/store"
)

// CachedEngine serves repeated renders from the SQLite cache. Only
// successful renders are stored.
type CachedEngine struct {
	Engine Engine
	Cache  *store.Cache
	Theme  string
}

func (e *CachedEngine) Render(ctx context.Context, id, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	if svg, ok := e.Cache.Get(e.Theme, text); ok {
		return svg, nil
	}
	svg, err := e.Engine.Render(ctx, id, text)
	if err != nil {
		return "", err
	}
	e.Cache.Put(e.Theme, text, svg)
	return svg, nil
}
