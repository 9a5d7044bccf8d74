// Package editor provides the Mermaid text editor component for bubbletea.
// It routes key presses to the document model, paints keyword-highlighted
// lines with a blinking caret, and maps mouse clicks back to the cursor.
package editor

import (
	"strconv"

	"charm.land/bubbles/v2/cursor"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/xonecas/mermedit/internal/document"
	"github.com/xonecas/mermedit/internal/highlight"
)

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// ChangedMsg reports the full document text after a mutating key press.
type ChangedMsg struct {
	Text     string
	Revision uint64
}

// Styles groups the colours used by View.
type Styles struct {
	Text        highlight.Styles
	Bg          lipgloss.Style // Base background
	CursorLine  lipgloss.Style // Background of the line holding the cursor
	LineNum     lipgloss.Style // Line number gutter
	Placeholder lipgloss.Style
	Caret       lipgloss.Style
}

// NewStyles derives editor styles from a theme palette.
func NewStyles(p highlight.Palette) Styles {
	return Styles{
		Text:        highlight.NewStyles(p),
		Bg:          lipgloss.NewStyle().Background(lipgloss.Color(p.Bg)),
		CursorLine:  lipgloss.NewStyle().Background(lipgloss.Color(p.LineBg)),
		LineNum:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.Dim)),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		Caret:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.Keyword)),
	}
}

// Model is a single-cursor, line-based editor.
type Model struct {
	// Public configuration, set before first Update/View.
	ShowLineNumbers bool
	Keywords        []string // Highlighted whole words
	Placeholder     string   // Shown when the document is empty
	Styles          Styles

	doc    document.State
	scroll int // First visible row
	hoff   int // First visible column

	width  int
	height int

	focus  bool
	cursor cursor.Model

	gutterWidth int // Width of line number gutter (0 if disabled)
}

// New creates an empty editor.
func New() Model {
	c := cursor.New()
	c.SetMode(cursor.CursorBlink)
	return Model{
		Keywords: highlight.Keywords,
		Styles:   NewStyles(highlight.ThemePalette("")),
		doc:      document.Empty(),
		cursor:   c,
	}
}

// ---------------------------------------------------------------------------
// Public methods called by parent
// ---------------------------------------------------------------------------

func (m *Model) SetWidth(w int)  { m.width = w; m.clampScroll() }
func (m *Model) SetHeight(h int) { m.height = h; m.clampScroll() }

func (m *Model) Focus() {
	m.focus = true
	m.cursor.Focus()
}

func (m *Model) Blur() {
	m.focus = false
	m.cursor.Blur()
}

func (m Model) Focused() bool { return m.focus }

// BlinkCmd starts the caret blinking. Call from Init().
func (m *Model) BlinkCmd() tea.Cmd { return m.cursor.Blink() }

// SetValue replaces the document wholesale and puts the cursor at its end.
func (m *Model) SetValue(s string) {
	m.doc = document.New(s)
	m.scroll = 0
	m.hoff = 0
	m.clampScroll()
}

// Reconcile adopts text changed outside the keyboard, clamping the cursor
// instead of resetting it.
func (m *Model) Reconcile(s string) {
	m.doc = m.doc.Reconcile(s)
	m.clampScroll()
}

func (m Model) Value() string { return m.doc.Text() }

// Document returns the current document revision.
func (m Model) Document() document.State { return m.doc }

// Cursor returns the cursor position.
func (m Model) Cursor() document.Cursor { return m.doc.Cursor() }

func (m *Model) Reset() {
	m.doc = document.Empty()
	m.scroll = 0
	m.hoff = 0
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (m *Model) clampScroll() {
	if m.height <= 0 {
		return
	}
	row := m.doc.Cursor().Line
	// Ensure cursor is visible
	if row < m.scroll {
		m.scroll = row
	}
	if row >= m.scroll+m.height {
		m.scroll = row - m.height + 1
	}
	m.clampScrollBounds()
	m.clampHorizontal()
}

// clampScrollBounds keeps scroll within content without following the cursor.
func (m *Model) clampScrollBounds() {
	maxScroll := m.doc.LineCount() - m.height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// clampHorizontal keeps the caret column inside the text area.
func (m *Model) clampHorizontal() {
	tw := m.textWidth()
	c := m.doc.Cursor()
	col := displayCol(m.doc.Line(c.Line), c.Offset)
	if col < m.hoff {
		m.hoff = col
	}
	if col >= m.hoff+tw {
		m.hoff = col - tw + 1
	}
	if m.hoff < 0 {
		m.hoff = 0
	}
}

// textWidth returns the width available for text content.
func (m *Model) textWidth() int {
	m.gutterWidth = 0
	if m.ShowLineNumbers {
		digits := len(strconv.Itoa(m.doc.LineCount()))
		if digits < 2 {
			digits = 2
		}
		m.gutterWidth = digits + 1 // digits + 1 space
	}
	w := m.width - m.gutterWidth
	if w < 1 {
		w = 1
	}
	return w
}
