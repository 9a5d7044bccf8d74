package render

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xonecas/mermedit/internal/shell"
	"github.com/xonecas/mermedit/internal/store"
)

func newEngine(t *testing.T, command string) *CommandEngine {
	t.Helper()
	return NewCommandEngine(shell.New(t.TempDir(), shell.DefaultBlockFuncs()), command, "dark", 5*time.Second)
}

func TestCommandEngineWritesFile(t *testing.T) {
	e := newEngine(t, `echo "<svg id=\"$MERMAID_ID\" data-theme=\"$MERMAID_THEME\"></svg>" > "$MERMAID_OUT"`)
	svg, err := e.Render(context.Background(), TargetID, "graph TD\nA-->B")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(svg) != `<svg id="graphDiv" data-theme="dark"></svg>` {
		t.Fatalf("svg = %q", svg)
	}
}

func TestCommandEngineReadsInput(t *testing.T) {
	e := newEngine(t, `read -r first < "$MERMAID_IN"; echo "<svg><text>$first</text></svg>"`)
	svg, err := e.Render(context.Background(), TargetID, "flowchart LR\nA-->B")
	if err != nil {
		t.Fatal(err)
	}
	if svg != "<svg><text>flowchart LR</text></svg>" {
		t.Fatalf("svg = %q", svg)
	}
}

func TestCommandEngineStderrIsError(t *testing.T) {
	e := newEngine(t, `echo "Parse error on line 2:" >&2; echo "Expecting 'SEMI'" >&2; exit 1`)
	_, err := e.Render(context.Background(), TargetID, "graph TD\nA--")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Parse error on line 2:\nExpecting 'SEMI'" {
		t.Fatalf("err = %q", err.Error())
	}
}

func TestCommandEngineNoOutput(t *testing.T) {
	e := newEngine(t, "true")
	if _, err := e.Render(context.Background(), TargetID, "graph TD"); err == nil {
		t.Fatal("expected error when no SVG is produced")
	}
}

func TestCommandEngineEmpty(t *testing.T) {
	e := newEngine(t, "exit 1")
	if _, err := e.Render(context.Background(), TargetID, " \n\t"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v", err)
	}
}

func TestCommandEngineCancelled(t *testing.T) {
	e := newEngine(t, `echo "<svg></svg>"`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Render(ctx, TargetID, "graph TD"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestCachedEngine(t *testing.T) {
	cache, err := store.Open(filepath.Join(t.TempDir(), "cache.db"), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	var calls atomic.Int32
	inner := EngineFunc(func(ctx context.Context, id, text string) (string, error) {
		calls.Add(1)
		if strings.Contains(text, "bad") {
			return "", errors.New("Parse error")
		}
		return "<svg>" + text + "</svg>", nil
	})
	e := &CachedEngine{Engine: inner, Cache: cache, Theme: "dark"}

	for i := 0; i < 3; i++ {
		svg, err := e.Render(context.Background(), TargetID, "graph TD")
		if err != nil || svg != "<svg>graph TD</svg>" {
			t.Fatalf("render %d: %q, %v", i, svg, err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("engine called %d times, want 1", calls.Load())
	}

	for i := 0; i < 2; i++ {
		if _, err := e.Render(context.Background(), TargetID, "bad"); err == nil {
			t.Fatal("expected error")
		}
	}
	if calls.Load() != 3 {
		t.Fatalf("failures were cached: %d calls", calls.Load())
	}
}

func TestCachedEngineNilCache(t *testing.T) {
	e := &CachedEngine{Engine: EngineFunc(func(ctx context.Context, id, text string) (string, error) {
		return "<svg/>", nil
	})}
	if svg, err := e.Render(context.Background(), TargetID, "graph TD"); err != nil || svg != "<svg/>" {
		t.Fatalf("%q, %v", svg, err)
	}
}
