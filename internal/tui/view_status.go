package tui

import (
	"path/filepath"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const keyHints = "^S save  ^O open  ^R render  ^Q quit"

// renderStatusBar writes the status separator and bar.
func (m Model) renderStatusBar(b *strings.Builder, bgFill lipgloss.Style) {
	b.WriteString(m.styles.Border.Render(strings.Repeat("─", m.width)))
	b.WriteByte('\n')

	// -- Left segments --
	var leftParts []string

	name := "[untitled]"
	if n := m.shell.Name(); n != "" {
		name = filepath.Base(n)
	}
	stat := m.shell.Changes()
	if stat.Changed() {
		name += "*"
	}
	leftParts = append(leftParts, m.styles.Text.Render(" "+name))

	cur := m.editor.Cursor()
	leftParts = append(leftParts, m.styles.StatusText.Render(
		"Ln "+strconv.Itoa(cur.Line+1)+", Col "+strconv.Itoa(cur.Offset+1)))

	if stat.Changed() {
		counts := strings.Join([]string{
			m.styles.StatusAdd.Render("+" + strconv.Itoa(stat.Added)),
			m.styles.StatusDel.Render("-" + strconv.Itoa(stat.Removed)),
		}, m.styles.StatusText.Render(" "))
		leftParts = append(leftParts, counts)
	}

	left := strings.Join(leftParts, m.styles.StatusText.Render("  "))

	// -- Right segment: transient message, else key hints --
	var right string
	switch {
	case m.status != "" && m.statusErr:
		right = m.styles.Error.Render("✗ " + m.status)
	case m.status != "":
		right = m.styles.Accent.Render(m.status)
	default:
		right = m.styles.Dim.Render(keyHints)
	}

	// -- Compose: left + gap + right + trailing space --
	leftW := lipgloss.Width(left)
	if room := m.width - leftW - 2; lipgloss.Width(right) > room {
		right = ansi.Truncate(right, max(room, 0), "…")
	}
	rightW := lipgloss.Width(right)
	gap := m.width - leftW - rightW - 1
	if gap < 0 {
		gap = 0
	}
	b.WriteString(left)
	b.WriteString(bgFill.Render(strings.Repeat(" ", gap)))
	b.WriteString(right)
	b.WriteString(bgFill.Render(" "))
}
