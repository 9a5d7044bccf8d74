package highlight

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Styles controls how spans are painted.
type Styles struct {
	Plain   lipgloss.Style
	Keyword lipgloss.Style
}

// NewStyles builds span styles from a palette. Keywords are bold and take
// the palette's keyword colour.
func NewStyles(p Palette) Styles {
	return Styles{
		Plain:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Fg)),
		Keyword: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Keyword)).Bold(true),
	}
}

// Render paints spans and concatenates them.
func Render(spans []Span, s Styles) string {
	var b strings.Builder
	for _, sp := range spans {
		if sp.Keyword {
			b.WriteString(s.Keyword.Render(sp.Text))
		} else {
			b.WriteString(s.Plain.Render(sp.Text))
		}
	}
	return b.String()
}
