package modal

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// TextView is a read-only scrollable modal, used for full render errors.
type TextView struct {
	title   string
	content string
	scroll  int
	colors  Colors
}

// NewTextView creates a text viewer modal.
func NewTextView(title, content string, colors Colors) TextView {
	return TextView{
		title:   title,
		content: content,
		colors:  colors,
	}
}

// HandleMsg processes key events. Returns ActionClose when the modal should close.
func (t *TextView) HandleMsg(msg tea.Msg) (Action, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.Keystroke() {
		case "esc", "q", "enter", "ctrl+e":
			return ActionClose{}, nil
		case "up", "k":
			t.scrollBy(-1)
		case "down", "j":
			t.scrollBy(1)
		case "pgup":
			t.scrollBy(-10)
		case "pgdown":
			t.scrollBy(10)
		}
	case tea.MouseWheelMsg:
		if msg.Button == tea.MouseWheelUp {
			t.scrollBy(-1)
		} else if msg.Button == tea.MouseWheelDown {
			t.scrollBy(1)
		}
	}
	return nil, nil
}

// scrollBy moves the view; View clamps the upper bound.
func (t *TextView) scrollBy(n int) {
	t.scroll += n
	if t.scroll < 0 {
		t.scroll = 0
	}
}

// View renders the modal centered in the terminal at appWidth x appHeight.
func (t *TextView) View(appWidth, appHeight int) string {
	w, h, innerW := frameSize(appWidth, appHeight)

	bg := lipgloss.Color(t.colors.Bg)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.colors.Dim)).Background(bg)
	fgStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.colors.Fg)).Background(bg)

	wrapped := strings.Split(ansi.Hardwrap(t.content, innerW, true), "\n")

	bodyH := h - 4 // border (2) + title + divider
	if bodyH < 1 {
		bodyH = 1
	}
	maxScroll := len(wrapped) - bodyH
	if maxScroll < 0 {
		maxScroll = 0
	}
	if t.scroll > maxScroll {
		t.scroll = maxScroll
	}

	hint := ""
	switch {
	case t.scroll > 0 && t.scroll < maxScroll:
		hint = "↑↓"
	case t.scroll > 0:
		hint = "↑"
	case maxScroll > 0:
		hint = "↓"
	}
	title := truncate(t.title, innerW-lipgloss.Width(hint)-1)

	var sb strings.Builder
	sb.WriteString(padRight(fgStyle.Bold(true).Render(title), innerW-lipgloss.Width(hint)))
	sb.WriteString(dimStyle.Render(hint))
	sb.WriteByte('\n')
	sb.WriteString(dimStyle.Render(strings.Repeat("─", innerW)))

	end := min(t.scroll+bodyH, len(wrapped))
	for _, l := range wrapped[t.scroll:end] {
		sb.WriteByte('\n')
		sb.WriteString(fgStyle.Render(padRight(l, innerW)))
	}
	for i := end - t.scroll; i < bodyH; i++ {
		sb.WriteByte('\n')
		sb.WriteString(fgStyle.Render(strings.Repeat(" ", innerW)))
	}

	return frame(t.colors, appWidth, appHeight, w, sb.String())
}
