package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/xonecas/mermedit/internal/host"
)

// maxErrorLines caps the render error shown inline; ctrl+e shows it all.
const maxErrorLines = 8

// previewLines renders the right pane for the current preview state.
func (m Model) previewLines(width int) []string {
	p := m.shell.Preview()
	lines := []string{m.styles.Muted.Render(" Preview"), ""}

	switch p.Status {
	case host.Idle:
		lines = append(lines, m.styles.Dim.Render(" No preview available"))

	case host.Pending:
		lines = append(lines, " "+m.spinner.View()+m.styles.Text.Render(" Rendering…"))

	case host.Failed:
		lines = append(lines, m.styles.Error.Render(" Render failed"), "")
		errLines := m.wrapText(p.Err, width-2, m.styles.Error)
		if len(errLines) > maxErrorLines {
			errLines = errLines[:maxErrorLines]
			errLines = append(errLines, " "+m.styles.Dim.Render("…"))
		}
		lines = append(lines, errLines...)
		lines = append(lines, "", m.styles.Dim.Render(" ctrl+e full error"))

	case host.Ready:
		lines = append(lines,
			m.field("Revision", fmt.Sprint(p.Revision)),
			m.field("Size", fmt.Sprintf("%d bytes", len(p.SVG))),
			m.field("viewBox", p.ViewBox),
		)
		if m.previewURL != "" {
			lines = append(lines, m.field("Open", m.styles.Accent.Render(m.previewURL)))
		} else {
			lines = append(lines, m.field("Open", m.styles.Dim.Render("preview server disabled")))
		}
	}
	return lines
}

func (m Model) field(label, value string) string {
	return m.styles.Muted.Render(fmt.Sprintf(" %-9s", label)) + m.styles.Text.Render(" ") + m.styles.Text.Render(value)
}

// wrapText wraps text to width, applying style after wrapping. Each line is
// indented by one column.
func (m Model) wrapText(text string, width int, style lipgloss.Style) []string {
	if width <= 0 {
		width = 1
	}
	wrapped := ansi.Wrap(text, width, "")
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = " " + style.Render(line)
	}
	return lines
}
