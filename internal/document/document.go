// Package document holds the editor's line model: an ordered, never-empty
// sequence of lines plus a single cursor. A State is immutable; every
// operation returns a new State and leaves the receiver untouched, so a
// reader holding a State always sees a consistent lines/cursor pair.
package document

import (
	"strings"
	"unicode/utf8"
)

// IndentWidth is the number of spaces inserted by Indent.
const IndentWidth = 4

// Cursor is the insertion point. Offset counts runes, not bytes.
type Cursor struct {
	Line   int
	Offset int
}

// State is one revision of the document and its cursor.
type State struct {
	lines    []string
	cursor   Cursor
	revision uint64
}

// Empty returns a document with one empty line and the cursor at 0,0.
func Empty() State {
	return State{lines: []string{""}}
}

// New returns a document holding text with the cursor at the end of the
// last line.
func New(text string) State {
	s := State{lines: splitLines(text)}
	last := len(s.lines) - 1
	s.cursor = Cursor{Line: last, Offset: runeLen(s.lines[last])}
	return s
}

// splitLines splits on '\n' and drops a trailing '\r' from each line.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	for i, l := range raw {
		raw[i] = strings.TrimSuffix(l, "\r")
	}
	return raw
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

// splitAt splits s at rune offset off.
func splitAt(s string, off int) (string, string) {
	if off <= 0 {
		return "", s
	}
	i := 0
	for n := 0; n < off && i < len(s); n++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i], s[i:]
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Text returns the lines joined with '\n'.
func (s State) Text() string {
	if len(s.lines) == 0 {
		return ""
	}
	return strings.Join(s.lines, "\n")
}

// Lines returns a copy of the lines.
func (s State) Lines() []string {
	if len(s.lines) == 0 {
		return []string{""}
	}
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Line returns line i, or "" when i is out of range.
func (s State) Line(i int) string {
	if i < 0 || i >= len(s.lines) {
		return ""
	}
	return s.lines[i]
}

// LineCount is never less than one.
func (s State) LineCount() int {
	if len(s.lines) == 0 {
		return 1
	}
	return len(s.lines)
}

// LineLen returns the rune length of line i.
func (s State) LineLen(i int) int { return runeLen(s.Line(i)) }

func (s State) Cursor() Cursor { return s.cursor }

// Revision increases by one with every change to the text.
func (s State) Revision() uint64 { return s.revision }

// Equal reports whether both states hold the same lines, cursor and
// revision.
func (s State) Equal(o State) bool {
	if s.cursor != o.cursor || s.revision != o.revision || s.LineCount() != o.LineCount() {
		return false
	}
	for i := 0; i < s.LineCount(); i++ {
		if s.Line(i) != o.Line(i) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the document is a single empty line.
func (s State) IsEmpty() bool {
	return len(s.lines) <= 1 && s.Line(0) == ""
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// normalized guarantees the zero State behaves as Empty().
func (s State) normalized() State {
	if len(s.lines) == 0 {
		s.lines = []string{""}
	}
	return s
}

func (s State) clamp(c Cursor) Cursor {
	if c.Line < 0 {
		c.Line = 0
	}
	if c.Line >= len(s.lines) {
		c.Line = len(s.lines) - 1
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
	if n := runeLen(s.lines[c.Line]); c.Offset > n {
		c.Offset = n
	}
	return c
}

// withLines returns a copy of s with new lines and cursor, bumping the
// revision.
func (s State) withLines(lines []string, c Cursor) State {
	next := State{lines: lines, revision: s.revision + 1}
	next.cursor = next.clamp(c)
	return next
}

func (s State) withCursor(c Cursor) State {
	s.cursor = s.clamp(c)
	return s
}

// replaceLine returns a copy of lines with line i replaced by repl (which
// may be zero or more lines).
func replaceLine(lines []string, i int, repl ...string) []string {
	out := make([]string, 0, len(lines)-1+len(repl))
	out = append(out, lines[:i]...)
	out = append(out, repl...)
	out = append(out, lines[i+1:]...)
	return out
}
