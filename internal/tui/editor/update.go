package editor

import (
	tea "charm.land/bubbletea/v2"
	"github.com/xonecas/mermedit/internal/document"
)

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		var cmd tea.Cmd
		m, cmd, _ = m.HandleKey(msg)
		cmds = append(cmds, cmd)

	case tea.MouseClickMsg:
		if !m.focus {
			break
		}
		if msg.Button == tea.MouseLeft {
			m.Click(msg.Y)
			cmds = append(cmds, m.cursor.Blink())
		}

	case tea.MouseWheelMsg:
		if !m.focus {
			break
		}
		if msg.Button == tea.MouseWheelUp {
			m.scroll -= 3
			m.clampScrollBounds()
		} else if msg.Button == tea.MouseWheelDown {
			m.scroll += 3
			m.clampScrollBounds()
		}
	}

	// Forward to cursor for blink handling
	var cmd tea.Cmd
	m.cursor, cmd = m.cursor.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// HandleKey applies a key press. handled is false when the key is not an
// editing key; the model is then returned unchanged so the parent can treat
// the key as a shortcut. A key that changes the text also returns a command
// delivering ChangedMsg.
func (m Model) HandleKey(msg tea.KeyPressMsg) (Model, tea.Cmd, bool) {
	m, changed, handled := m.applyKey(msg)
	if !handled {
		return m, nil, false
	}
	cmds := []tea.Cmd{m.cursor.Blink()}
	if changed != nil {
		cmds = append(cmds, func() tea.Msg { return *changed })
	}
	return m, tea.Batch(cmds...), true
}

// applyKey routes msg to the document. changed is non-nil when the text
// changed.
func (m Model) applyKey(msg tea.KeyPressMsg) (Model, *ChangedMsg, bool) {
	if !m.focus {
		return m, nil, false
	}
	intent, r, ok := Resolve(msg)
	if !ok {
		return m, nil, false
	}

	prev := m.doc.Revision()
	m.doc = document.Apply(m.doc, intent, r)
	m.clampScroll()
	if m.doc.Revision() == prev {
		return m, nil, true
	}
	return m, &ChangedMsg{Text: m.doc.Text(), Revision: m.doc.Revision()}, true
}

// Click places the cursor at the end of the line shown at row y (relative
// to the component origin). Rows below the last line select the last line.
func (m *Model) Click(y int) {
	row := m.scroll + y
	if row < 0 {
		row = 0
	}
	if row >= m.doc.LineCount() {
		row = m.doc.LineCount() - 1
	}
	m.doc = m.doc.SetCursor(row, m.doc.LineLen(row))
	m.clampScroll()
}
