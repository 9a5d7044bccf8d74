package editor

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	// Show placeholder when empty
	if m.doc.IsEmpty() && m.Placeholder != "" {
		return m.placeholderView()
	}

	tw := m.textWidth()
	bg := m.Styles.Bg
	cur := m.doc.Cursor()

	var b strings.Builder
	for vi := 0; vi < m.height; vi++ {
		row := m.scroll + vi
		if vi > 0 {
			b.WriteByte('\n')
		}

		if row >= m.doc.LineCount() {
			// End-of-buffer: fill entire row with bg
			b.WriteString(bg.Render(strings.Repeat(" ", m.width)))
			continue
		}

		rowBg := bg
		if row == cur.Line {
			rowBg = m.Styles.CursorLine
		}

		// -- Gutter (line numbers) -------------------------------------------
		if m.ShowLineNumbers {
			digits := m.gutterWidth - 1
			num := fmt.Sprintf("%*d ", digits, row+1)
			b.WriteString(m.Styles.LineNum.Inherit(rowBg).Render(num))
		}

		// -- Text content ----------------------------------------------------
		cells := lineCells(cachedTokens(m.doc.Line(row), m.Keywords))
		caret := -1
		if row == cur.Line {
			caret = cur.Offset
		}
		rendered, rw := m.renderCells(cells, caret, tw, rowBg)
		b.WriteString(rendered)
		if rw < tw {
			b.WriteString(rowBg.Render(strings.Repeat(" ", tw-rw)))
		}
	}

	return b.String()
}

// renderCells paints the visible window [hoff, hoff+tw) of a line. caret is
// the rune offset of the cursor on this line, or -1. Returns the rendered
// string and its display width.
func (m Model) renderCells(cells []cell, caret, tw int, rowBg lipgloss.Style) (string, int) {
	plain := m.Styles.Text.Plain.Inherit(rowBg)
	kw := m.Styles.Text.Keyword.Inherit(rowBg)

	var b strings.Builder
	var run strings.Builder
	runKeyword := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runKeyword {
			b.WriteString(kw.Render(run.String()))
		} else {
			b.WriteString(plain.Render(run.String()))
		}
		run.Reset()
	}

	col, width := 0, 0
	for _, c := range cells {
		start := col
		col += c.width
		if start < m.hoff {
			continue
		}
		if width+c.width > tw {
			break
		}
		if c.index == caret {
			flush()
			b.WriteString(m.caretView(firstCol(c.text), c.keyword, rowBg))
			if rest := c.text[len(firstCol(c.text)):]; rest != "" {
				runKeyword = c.keyword
				run.WriteString(rest)
			}
			width += c.width
			continue
		}
		if c.keyword != runKeyword {
			flush()
			runKeyword = c.keyword
		}
		run.WriteString(c.text)
		width += c.width
	}
	flush()

	// Caret past the last rune sits on a blank cell.
	if caret >= 0 && caret >= len(cells) && col >= m.hoff && width < tw {
		b.WriteString(m.caretView(" ", false, rowBg))
		width++
	}
	return b.String(), width
}

// firstCol returns the first rune of s (an expanded tab starts with a space).
func firstCol(s string) string {
	for _, r := range s {
		return string(r)
	}
	return " "
}

// caretView renders the blinking caret over char.
func (m Model) caretView(char string, keyword bool, rowBg lipgloss.Style) string {
	text := m.Styles.Text.Plain.Inherit(rowBg)
	if keyword {
		text = m.Styles.Text.Keyword.Inherit(rowBg)
	}
	m.cursor.Style = m.Styles.Caret
	m.cursor.TextStyle = text
	m.cursor.SetChar(char)
	return m.cursor.View()
}

// ---------------------------------------------------------------------------
// Placeholder view (shown when empty)
// ---------------------------------------------------------------------------

func (m Model) placeholderView() string {
	tw := m.textWidth()
	bg := m.Styles.Bg
	rowBg := m.Styles.CursorLine

	var b strings.Builder
	if m.ShowLineNumbers {
		digits := m.gutterWidth - 1
		num := fmt.Sprintf("%*d ", digits, 1)
		b.WriteString(m.Styles.LineNum.Inherit(rowBg).Render(num))
	}

	phRunes := []rune(m.Placeholder)
	if len(phRunes) > tw {
		phRunes = phRunes[:tw]
	}
	ph := m.Styles.Placeholder.Inherit(rowBg)
	if m.focus && len(phRunes) > 0 {
		// Render cursor on first character of placeholder
		m.cursor.Style = m.Styles.Caret
		m.cursor.TextStyle = ph
		m.cursor.SetChar(string(phRunes[0]))
		b.WriteString(m.cursor.View())
		b.WriteString(ph.Render(string(phRunes[1:])))
	} else {
		b.WriteString(ph.Render(string(phRunes)))
	}
	if pw := lipgloss.Width(string(phRunes)); pw < tw {
		b.WriteString(rowBg.Render(strings.Repeat(" ", tw-pw)))
	}

	// Remaining rows: empty with bg
	for vi := 1; vi < m.height; vi++ {
		b.WriteByte('\n')
		b.WriteString(bg.Render(strings.Repeat(" ", m.width)))
	}
	return b.String()
}
