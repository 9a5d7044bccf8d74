package document

import "strings"

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

// MoveUp moves to the previous line, keeping the offset where it fits. On the
// first line the cursor stays put with its offset re-clamped.
func (s State) MoveUp() State {
	s = s.normalized()
	c := s.cursor
	if c.Line > 0 {
		c.Line--
	}
	return s.withCursor(c)
}

// MoveDown moves to the next line, keeping the offset where it fits. On the
// last line the cursor stays put with its offset re-clamped.
func (s State) MoveDown() State {
	s = s.normalized()
	c := s.cursor
	if c.Line < len(s.lines)-1 {
		c.Line++
	}
	return s.withCursor(c)
}

// MoveLeft moves one rune left, wrapping to the end of the previous line.
func (s State) MoveLeft() State {
	s = s.normalized()
	c := s.clamp(s.cursor)
	switch {
	case c.Offset > 0:
		c.Offset--
	case c.Line > 0:
		c.Line--
		c.Offset = runeLen(s.lines[c.Line])
	}
	return s.withCursor(c)
}

// MoveRight moves one rune right, wrapping to the start of the next line.
func (s State) MoveRight() State {
	s = s.normalized()
	c := s.clamp(s.cursor)
	switch {
	case c.Offset < runeLen(s.lines[c.Line]):
		c.Offset++
	case c.Line < len(s.lines)-1:
		c.Line++
		c.Offset = 0
	}
	return s.withCursor(c)
}

// SetCursor places the cursor, clamping both coordinates.
func (s State) SetCursor(line, offset int) State {
	s = s.normalized()
	return s.withCursor(Cursor{Line: line, Offset: offset})
}

// ---------------------------------------------------------------------------
// Mutation
// ---------------------------------------------------------------------------

// InsertChar inserts r at the cursor and advances by one. A '\n' splits
// the line and a '\r' is dropped, so lines never hold line breaks.
func (s State) InsertChar(r rune) State {
	switch r {
	case '\n':
		return s.SplitLine()
	case '\r':
		return s.normalized()
	}
	return s.insert(string(r), 1)
}

// Indent inserts IndentWidth spaces at the cursor.
func (s State) Indent() State {
	return s.insert(strings.Repeat(" ", IndentWidth), IndentWidth)
}

func (s State) insert(text string, width int) State {
	s = s.normalized()
	c := s.clamp(s.cursor)
	before, after := splitAt(s.lines[c.Line], c.Offset)
	lines := replaceLine(s.lines, c.Line, before+text+after)
	return s.withLines(lines, Cursor{Line: c.Line, Offset: c.Offset + width})
}

// DeleteBackward removes the rune before the cursor. At the start of a line
// the line is merged into the end of the previous one. At the start of the
// document it does nothing.
func (s State) DeleteBackward() State {
	s = s.normalized()
	c := s.clamp(s.cursor)
	switch {
	case c.Offset > 0:
		before, after := splitAt(s.lines[c.Line], c.Offset)
		head, _ := splitAt(before, c.Offset-1)
		lines := replaceLine(s.lines, c.Line, head+after)
		return s.withLines(lines, Cursor{Line: c.Line, Offset: c.Offset - 1})
	case c.Line > 0:
		prev := s.lines[c.Line-1]
		merged := replaceLine(s.lines, c.Line)
		merged[c.Line-1] = prev + s.lines[c.Line]
		return s.withLines(merged, Cursor{Line: c.Line - 1, Offset: runeLen(prev)})
	}
	return s.withCursor(c)
}

// SplitLine breaks the current line at the cursor. The text after the cursor
// becomes a new line below and the cursor moves to its start.
func (s State) SplitLine() State {
	s = s.normalized()
	c := s.clamp(s.cursor)
	before, after := splitAt(s.lines[c.Line], c.Offset)
	lines := replaceLine(s.lines, c.Line, before, after)
	return s.withLines(lines, Cursor{Line: c.Line + 1, Offset: 0})
}

// Reconcile adopts text that changed outside of keyboard input. The cursor
// is clamped into the new shape; if its line no longer exists it moves to
// the end of the last line. Unchanged text returns s as is.
func (s State) Reconcile(text string) State {
	s = s.normalized()
	if text == s.Text() {
		return s
	}
	lines := splitLines(text)
	c := s.cursor
	if c.Line >= len(lines) {
		last := len(lines) - 1
		c = Cursor{Line: last, Offset: runeLen(lines[last])}
	}
	return s.withLines(lines, c)
}
