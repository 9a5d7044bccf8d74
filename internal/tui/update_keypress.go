package tui

import (
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/mermedit/internal/host"
)

// handleKeyPress processes shortcut keys. Returns (model, cmd, true) if handled.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (Model, tea.Cmd, bool) {
	handler := m.keyPressHandlers()[msg.Keystroke()]
	if handler == nil {
		return *m, nil, false
	}
	return handler(m)
}

func (m *Model) keyPressHandlers() map[string]func(*Model) (Model, tea.Cmd, bool) {
	return map[string]func(*Model) (Model, tea.Cmd, bool){
		"ctrl+c": (*Model).handleQuit,
		"ctrl+q": (*Model).handleQuit,
		"ctrl+s": (*Model).handleCtrlS,
		"ctrl+o": (*Model).handleCtrlO,
		"ctrl+r": (*Model).handleCtrlR,
		"ctrl+e": (*Model).handleCtrlE,
	}
}

func (m *Model) handleQuit() (Model, tea.Cmd, bool) {
	if m.cancel != nil {
		m.cancel()
	}
	return *m, tea.Quit, true
}

func (m *Model) handleCtrlS() (Model, tea.Cmd, bool) {
	path, err := m.shell.Save(m.saveDir)
	if err != nil {
		log.Error().Err(err).Msg("save failed")
		return *m, m.setStatus(err.Error(), true), true
	}
	return *m, m.setStatus("Saved "+filepath.Base(path), false), true
}

func (m *Model) handleCtrlO() (Model, tea.Cmd, bool) {
	if m.searcher == nil {
		return *m, nil, false
	}
	m.openFileModal()
	return *m, nil, true
}

func (m *Model) handleCtrlR() (Model, tea.Cmd, bool) {
	if m.shell.Text() == "" {
		return *m, nil, true
	}
	m.shell.Rerender(m.ctx)
	return *m, nil, true
}

func (m *Model) handleCtrlE() (Model, tea.Cmd, bool) {
	p := m.shell.Preview()
	if p.Status != host.Failed {
		return *m, nil, true
	}
	m.openErrorView(p.Err)
	return *m, nil, true
}
