package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// ---------------------------------------------------------------------------
// Mouse filter: throttle high-frequency events at program level.
// ---------------------------------------------------------------------------

var lastMouseEvent time.Time

// MouseEventFilter rate-limits wheel and motion events (15 ms).
// Pass to tea.WithFilter. Never drops clicks or releases.
func MouseEventFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	switch msg.(type) {
	case tea.MouseWheelMsg, tea.MouseMotionMsg:
		now := time.Now()
		if now.Sub(lastMouseEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseEvent = now
	}
	return msg
}

// ---------------------------------------------------------------------------
// Mouse handling: modals swallow events, then divider drag, then the
// editor. Coordinates are resolved via layout rects.
// ---------------------------------------------------------------------------

// mouseXY extracts X, Y from any mouse message via the MouseMsg interface.
func mouseXY(msg tea.MouseMsg) (int, int) {
	m := msg.Mouse()
	return m.X, m.Y
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.picker != nil || m.errView != nil {
		return m, nil
	}
	x, y := mouseXY(msg)

	if done, handled := m.handleDividerDrag(msg, x, y); handled {
		return done, nil
	}

	if inRect(x, y, m.layout.editor) {
		translated := translateMouse(msg, m.layout.editor.Min.X, m.layout.editor.Min.Y)
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(translated)
		return m, cmd
	}
	return m, nil
}

// handleDividerDrag tracks divider click/release and processes drag motion.
// Returns (model, true) if the event was consumed by the divider.
func (m *Model) handleDividerDrag(msg tea.MouseMsg, x, y int) (Model, bool) {
	switch ev := msg.(type) {
	case tea.MouseClickMsg:
		if ev.Button == tea.MouseLeft && inRect(x, y, m.layout.div) {
			m.resizingPane = true
			return *m, true
		}
	case tea.MouseReleaseMsg:
		if m.resizingPane {
			m.resizingPane = false
			return *m, true
		}
	case tea.MouseMotionMsg:
		if m.resizingPane {
			m.divX = clampDivider(m.width, x)
			m.layout = generateLayout(m.width, m.height, m.divX)
			m.updateComponentSizes()
			return *m, true
		}
	}
	return *m, false
}

// translateMouse shifts a mouse event into component-local coordinates.
func translateMouse(msg tea.MouseMsg, offX, offY int) tea.MouseMsg {
	switch ev := msg.(type) {
	case tea.MouseClickMsg:
		ev.X -= offX
		ev.Y -= offY
		return ev
	case tea.MouseReleaseMsg:
		ev.X -= offX
		ev.Y -= offY
		return ev
	case tea.MouseMotionMsg:
		ev.X -= offX
		ev.Y -= offY
		return ev
	case tea.MouseWheelMsg:
		ev.X -= offX
		ev.Y -= offY
		return ev
	}
	return msg
}
