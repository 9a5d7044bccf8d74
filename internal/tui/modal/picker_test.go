package modal

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

var testColors = Colors{Dim: "#666", SelFg: "#fff", SelBg: "#444", Border: "#555"}

func diagrams(query string) []Item {
	all := []Item{
		{Path: "flow.mmd"},
		{Path: "docs/sequence.mmd"},
		{Path: "docs/states.mermaid"},
	}
	if query == "" {
		return all
	}
	var out []Item
	for _, it := range all {
		if strings.Contains(it.Path, query) {
			out = append(out, it)
		}
	}
	return out
}

func key(ch rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: ch, Text: string(ch)}
}

func special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestPickerEscapeCloses(t *testing.T) {
	m := NewPicker(diagrams, "Open diagram", testColors)
	a, _ := m.HandleMsg(special(tea.KeyEscape))
	if _, ok := a.(ActionClose); !ok {
		t.Fatalf("expected ActionClose, got %T", a)
	}
}

func TestPickerEnterOpensFirst(t *testing.T) {
	m := NewPicker(diagrams, "Open diagram", testColors)
	a, _ := m.HandleMsg(special(tea.KeyEnter))
	open, ok := a.(ActionOpen)
	if !ok {
		t.Fatalf("expected ActionOpen, got %T", a)
	}
	if open.Path != "flow.mmd" {
		t.Fatalf("opened %q", open.Path)
	}
}

func TestPickerDownThenEnterOpensHighlighted(t *testing.T) {
	m := NewPicker(diagrams, "Open diagram", testColors)
	m.HandleMsg(special(tea.KeyDown)) // enter list, selected=0
	m.HandleMsg(special(tea.KeyDown)) // selected=1
	m.HandleMsg(special(tea.KeyDown)) // selected=2
	m.HandleMsg(special(tea.KeyDown)) // stays at the end
	a, _ := m.HandleMsg(special(tea.KeyEnter))
	if open, _ := a.(ActionOpen); open.Path != "docs/states.mermaid" {
		t.Fatalf("got %#v", a)
	}
}

func TestPickerUpFromTopReturnsToInput(t *testing.T) {
	m := NewPicker(diagrams, "Open diagram", testColors)
	m.HandleMsg(special(tea.KeyDown))
	if !m.inList {
		t.Fatal("expected inList=true")
	}
	m.HandleMsg(special(tea.KeyUp))
	if m.inList {
		t.Fatal("expected inList=false")
	}
}

func TestPickerTypingDebouncesSearch(t *testing.T) {
	calls := 0
	search := func(q string) []Item {
		if q != "" {
			calls++
		}
		return diagrams(q)
	}
	m := NewPicker(search, "Open diagram", testColors)

	_, cmd := m.HandleMsg(key('d'))
	if cmd == nil {
		t.Fatal("expected debounce cmd")
	}
	stale := m.seq
	m.HandleMsg(key('o'))
	m.HandleMsg(debounceMsg{seq: stale})
	if calls != 0 {
		t.Fatalf("stale debounce searched %d times", calls)
	}

	m.HandleMsg(debounceMsg{seq: m.seq})
	if calls != 1 {
		t.Fatalf("search called %d times", calls)
	}
	if m.Query() != "do" || len(m.Items()) != 2 {
		t.Fatalf("query %q items %v", m.Query(), m.Items())
	}
}

func TestPickerIgnoresModifiedKeys(t *testing.T) {
	m := NewPicker(diagrams, "Open diagram", testColors)
	if _, cmd := m.HandleMsg(tea.KeyPressMsg{Code: 'x', Text: "x", Mod: tea.ModAlt}); cmd != nil {
		t.Fatal("alt+x edited the query")
	}
	if m.Query() != "" {
		t.Fatalf("query = %q", m.Query())
	}
}

func TestPickerEditing(t *testing.T) {
	m := NewPicker(diagrams, "Open diagram", testColors)
	for _, r := range "fliw" {
		m.HandleMsg(key(r))
	}
	m.HandleMsg(special(tea.KeyLeft))
	m.HandleMsg(special(tea.KeyBackspace))
	m.HandleMsg(key('o'))
	m.HandleMsg(special(tea.KeyRight))
	if m.Query() != "flow" {
		t.Fatalf("query = %q", m.Query())
	}
	m.HandleMsg(tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl})
	if m.Query() != "" {
		t.Fatalf("query after ctrl+u = %q", m.Query())
	}
}

func TestPickerEmptyResults(t *testing.T) {
	m := NewPicker(func(string) []Item { return nil }, "Open diagram", testColors)
	if a, _ := m.HandleMsg(special(tea.KeyEnter)); a != nil {
		t.Fatalf("expected nil action, got %T", a)
	}
	if v := ansi.Strip(m.View(80, 20)); !strings.Contains(v, "No diagrams found") {
		t.Fatal("empty state not shown")
	}
}

func TestPickerView(t *testing.T) {
	m := NewPicker(diagrams, "Open diagram", testColors)
	v := ansi.Strip(m.View(100, 30))
	for _, want := range []string{"Open diagram", "3 found", "flow.mmd", "docs/states.mermaid"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
	lines := strings.Split(v, "\n")
	if len(lines) != 30 {
		t.Fatalf("view has %d lines, want 30", len(lines))
	}
}
