package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/xonecas/mermedit/internal/host"
	"github.com/xonecas/mermedit/internal/tui/editor"
)

// statusTTL is how long a transient status message stays visible.
const statusTTL = 4 * time.Second

// clearStatusMsg expires the status message with the same seq.
type clearStatusMsg struct{ seq int }

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// -- Window resize -------------------------------------------------------
	case tea.WindowSizeMsg:
		m.handleResize(msg)
		return m, nil

	// -- Mouse ---------------------------------------------------------------
	case tea.MouseMsg:
		return m.handleMouse(msg)

	// -- Keyboard: modal, then editor, then shortcuts ------------------------
	case tea.KeyPressMsg:
		if mdl, cmd, handled := m.updateModals(msg); handled {
			return mdl, cmd
		}
		var cmd tea.Cmd
		var handled bool
		rev := m.editor.Document().Revision()
		if m.editor, cmd, handled = m.editor.HandleKey(msg); handled {
			// The shell follows the editor before the next message; the
			// ChangedMsg in cmd may arrive out of order.
			if m.editor.Document().Revision() != rev {
				m.shell.SetText(m.ctx, m.editor.Value())
			}
			return m, cmd
		}
		if mdl, cmd, handled := m.handleKeyPress(msg); handled {
			return mdl, cmd
		}
		return m, nil

	// -- Text changed by the editor ------------------------------------------
	case editor.ChangedMsg:
		if msg.Revision != m.editor.Document().Revision() || msg.Text != m.editor.Value() {
			return m, nil
		}
		if msg.Text != m.shell.Text() {
			m.shell.SetText(m.ctx, msg.Text)
		}
		return m, nil

	// -- Render finished -----------------------------------------------------
	case host.RenderedMsg:
		m.shell.Apply(msg)
		return m, m.waitForRender()

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	// Debounce ticks belong to the picker.
	if m.picker != nil {
		mdl, cmd, _ := m.updateModals(msg)
		m = mdl
		cmds = append(cmds, cmd)
	}

	m.spinner, cmd = m.spinner.Update(msg)
	cmds = append(cmds, cmd)

	m.editor, cmd = m.editor.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleResize applies a window size change and re-derives layout.
func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height
	if m.divX == 0 {
		m.divX = m.width / 2
	}
	m.divX = clampDivider(m.width, m.divX)
	m.layout = generateLayout(m.width, m.height, m.divX)
	m.updateComponentSizes()
}

// updateComponentSizes pushes layout dimensions to sub-models.
func (m *Model) updateComponentSizes() {
	m.editor.SetWidth(m.layout.editor.Dx())
	m.editor.SetHeight(m.layout.editor.Dy())
}

// setStatus shows a transient message and schedules its expiry.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
