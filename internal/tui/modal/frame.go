// Package modal provides the overlays drawn above the editor: a fuzzy
// diagram picker and a scrollable text viewer.
package modal

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/xonecas/mermedit/internal/highlight"
)

// Action is the result of handling a message. nil means no action.
type Action any

// ActionClose signals the modal should be dismissed.
type ActionClose struct{}

// Colors holds the theme colors for a modal.
type Colors struct {
	Fg     string
	Bg     string
	Dim    string
	SelFg  string
	SelBg  string
	Border string
}

// ColorsFrom derives modal colors from a theme palette.
func ColorsFrom(p highlight.Palette) Colors {
	return Colors{
		Fg:     p.Fg,
		Bg:     p.Bg,
		Dim:    p.Dim,
		SelFg:  p.Bg,
		SelBg:  p.Keyword,
		Border: p.Border,
	}
}

// frameSize returns the box size for an app of appWidth x appHeight and
// the width left for content.
func frameSize(appWidth, appHeight int) (w, h, innerW int) {
	w = appWidth * 80 / 100
	h = appHeight * 80 / 100
	if w < 30 {
		w = 30
	}
	if h < 8 {
		h = 8
	}
	innerW = w - 6 // border (2) + padding (2) + margin
	if innerW < 10 {
		innerW = 10
	}
	return w, h, innerW
}

// frame draws content in a rounded box centred in the app area.
func frame(c Colors, appWidth, appHeight, w int, content string) string {
	bg := lipgloss.Color(c.Bg)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(c.Border)).
		BorderBackground(bg).
		Foreground(lipgloss.Color(c.Fg)).
		Background(bg).
		Padding(0, 1).
		Width(w - 2).
		Render(content)

	return lipgloss.Place(appWidth, appHeight, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceStyle(lipgloss.NewStyle().Background(bg)))
}

func padRight(s string, w int) string {
	if sw := ansi.StringWidth(s); sw < w {
		return s + strings.Repeat(" ", w-sw)
	}
	return s
}

func truncate(s string, w int) string {
	return ansi.Truncate(s, w, "…")
}
