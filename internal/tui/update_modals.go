package tui

import (
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/mermedit/internal/host"
	"github.com/xonecas/mermedit/internal/tui/modal"
)

// updateModals routes msg to the open modal. It reports false when no
// modal is open or the message should fall through.
func (m *Model) updateModals(msg tea.Msg) (Model, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyPressMsg); ok && key.Keystroke() == "ctrl+c" {
		return *m, nil, false
	}

	switch {
	case m.picker != nil:
		action, cmd := m.picker.HandleMsg(msg)
		switch a := action.(type) {
		case modal.ActionClose:
			m.picker = nil
		case modal.ActionOpen:
			m.picker = nil
			return m.openDiagram(a.Path)
		}
		return *m, cmd, true

	case m.errView != nil:
		if _, ok := msg.(tea.KeyPressMsg); !ok {
			return *m, nil, false
		}
		action, cmd := m.errView.HandleMsg(msg)
		if _, ok := action.(modal.ActionClose); ok {
			m.errView = nil
		}
		return *m, cmd, true
	}
	return *m, nil, false
}

func (m *Model) openFileModal() {
	searcher := m.searcher
	ctx := m.ctx
	searchFn := func(query string) []modal.Item {
		results, err := searcher.Diagrams(ctx, query)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("diagram search failed")
			return nil
		}
		items := make([]modal.Item, len(results))
		for i, r := range results {
			items[i] = modal.Item{Path: r.Path}
		}
		return items
	}
	md := modal.NewPicker(searchFn, "Open diagram: ", modal.ColorsFrom(m.palette))
	m.picker = &md
}

func (m *Model) openErrorView(msg string) {
	tv := modal.NewTextView("Render error", msg, modal.ColorsFrom(m.palette))
	m.errView = &tv
}

// openDiagram loads rel (relative to the search root) into the shell and
// the editor.
func (m *Model) openDiagram(rel string) (Model, tea.Cmd, bool) {
	path := rel
	if m.searcher != nil && !filepath.IsAbs(path) {
		path = filepath.Join(m.searcher.Root(), filepath.FromSlash(rel))
	}
	text, err := m.shell.LoadFile(m.ctx, path)
	if err != nil {
		if host.IsIgnorable(err) {
			return *m, nil, true
		}
		return *m, m.setStatus(err.Error(), true), true
	}
	m.editor.SetValue(text)
	return *m, m.setStatus("Opened "+rel, false), true
}
