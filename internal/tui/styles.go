package tui

import (
	"charm.land/lipgloss/v2"
	"github.com/xonecas/mermedit/internal/highlight"
)

// styles holds the pre-built lipgloss styles for the application chrome.
type styles struct {
	BgFill     lipgloss.Style
	Border     lipgloss.Style
	Text       lipgloss.Style
	Dim        lipgloss.Style
	Muted      lipgloss.Style
	Accent     lipgloss.Style
	Error      lipgloss.Style
	StatusText lipgloss.Style
	StatusAdd  lipgloss.Style
	StatusDel  lipgloss.Style
}

func newStyles(p highlight.Palette) styles {
	bg := lipgloss.Color(p.Bg)
	return styles{
		BgFill:     lipgloss.NewStyle().Background(bg),
		Border:     lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(p.Border)),
		Text:       lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(p.Fg)),
		Dim:        lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(p.Dim)),
		Muted:      lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(p.Muted)),
		Accent:     lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(p.Keyword)),
		Error:      lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(p.Error)),
		StatusText: lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(p.Muted)),
		StatusAdd:  lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("#3fb950")),
		StatusDel:  lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(p.Error)),
	}
}
