package document

import (
	"strings"
	"testing"
)

func at(text string, line, offset int) State {
	return New(text).SetCursor(line, offset)
}

func assertCursor(t *testing.T, s State, line, offset int) {
	t.Helper()
	if got := s.Cursor(); got != (Cursor{Line: line, Offset: offset}) {
		t.Fatalf("cursor = %+v, want {%d %d}", got, line, offset)
	}
}

func assertLines(t *testing.T, s State, want ...string) {
	t.Helper()
	got := s.Lines()
	if strings.Join(got, "\n") != strings.Join(want, "\n") || len(got) != len(want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
}

func TestEmptyDocumentHasOneLine(t *testing.T) {
	for _, s := range []State{Empty(), New(""), {}} {
		if s.LineCount() != 1 {
			t.Fatalf("LineCount = %d", s.LineCount())
		}
		if !s.IsEmpty() || s.Text() != "" {
			t.Fatalf("expected empty, got %q", s.Text())
		}
	}
	var zero State
	s := zero.InsertChar('x')
	assertLines(t, s, "x")
	assertCursor(t, s, 0, 1)
}

func TestNewPlacesCursorAtEnd(t *testing.T) {
	s := New("graph TD\nA-->B")
	assertCursor(t, s, 1, 5)
	s = New("a\r\nbc\r\n")
	assertLines(t, s, "a", "bc", "")
	assertCursor(t, s, 2, 0)
}

func TestInsertDeleteRoundTrip(t *testing.T) {
	cases := []struct {
		text         string
		line, offset int
	}{
		{"", 0, 0},
		{"A-->B", 0, 2},
		{"A-->B", 0, 5},
		{"graph TD\n  A-->B\nend", 1, 0},
		{"héllo\nwörld", 1, 3},
	}
	for _, tc := range cases {
		before := at(tc.text, tc.line, tc.offset)
		s := before
		for _, r := range "xÿ z" {
			s = s.InsertChar(r)
		}
		for range "xÿ z" {
			s = s.DeleteBackward()
		}
		if s.Text() != before.Text() {
			t.Errorf("%q: text = %q after round trip", tc.text, s.Text())
		}
		if s.Cursor() != before.Cursor() {
			t.Errorf("%q: cursor = %+v, want %+v", tc.text, s.Cursor(), before.Cursor())
		}
	}
}

func TestSplitLineThenDeleteBackwardRestores(t *testing.T) {
	for off := 0; off <= 5; off++ {
		before := at("A-->B", 0, off)
		split := before.SplitLine()
		assertCursor(t, split, 1, 0)
		joined := split.DeleteBackward()
		if joined.Text() != "A-->B" {
			t.Fatalf("offset %d: text = %q", off, joined.Text())
		}
		assertCursor(t, joined, 0, off)
	}
}

func TestSplitLineMiddle(t *testing.T) {
	s := at("AB", 0, 1).SplitLine()
	assertLines(t, s, "A", "B")
	assertCursor(t, s, 1, 0)
}

func TestMoveUpDownBoundaries(t *testing.T) {
	s := at("first\nsecond line\nx", 0, 3)
	up := s.MoveUp()
	assertCursor(t, up, 0, 3)
	if !up.MoveUp().Equal(up) {
		t.Fatal("MoveUp at first line is not idempotent")
	}

	down := at("first\nsecond line\nx", 2, 1).MoveDown()
	assertCursor(t, down, 2, 1)
	if !down.MoveDown().Equal(down) {
		t.Fatal("MoveDown at last line is not idempotent")
	}
}

func TestMoveUpDownClampOffset(t *testing.T) {
	s := at("ab\nlonger line\nxyz", 1, 9)
	assertCursor(t, s.MoveUp(), 0, 2)
	assertCursor(t, s.MoveDown(), 2, 3)
	// Offset is clamped, not remembered.
	assertCursor(t, s.MoveUp().MoveDown(), 1, 2)
}

func TestMoveLeftRightWrap(t *testing.T) {
	s := at("ab\ncd", 1, 0)
	assertCursor(t, s.MoveLeft(), 0, 2)
	s = at("ab\ncd", 0, 2)
	assertCursor(t, s.MoveRight(), 1, 0)

	start := at("ab\ncd", 0, 0)
	if !start.MoveLeft().Equal(start) {
		t.Fatal("MoveLeft at document start moved")
	}
	end := at("ab\ncd", 1, 2)
	if !end.MoveRight().Equal(end) {
		t.Fatal("MoveRight at document end moved")
	}
}

func TestNavigationDoesNotBumpRevision(t *testing.T) {
	s := New("ab\ncd")
	rev := s.Revision()
	s = s.MoveUp().MoveLeft().MoveRight().MoveDown().SetCursor(0, 0)
	if s.Revision() != rev {
		t.Fatalf("revision changed by navigation: %d -> %d", rev, s.Revision())
	}
	if s.InsertChar('x').Revision() != rev+1 {
		t.Fatal("insert did not bump revision")
	}
}

func TestDeleteBackward(t *testing.T) {
	s := at("abc", 0, 2).DeleteBackward()
	assertLines(t, s, "ac")
	assertCursor(t, s, 0, 1)

	s = at("graph\nTD", 1, 0).DeleteBackward()
	assertLines(t, s, "graphTD")
	assertCursor(t, s, 0, 5)

	start := at("abc\ndef", 0, 0)
	if got := start.DeleteBackward(); !got.Equal(start) {
		t.Fatalf("DeleteBackward at document start changed state: %+v", got)
	}
}

func TestIndent(t *testing.T) {
	s := at("A-->B", 0, 0).Indent()
	assertLines(t, s, "    A-->B")
	assertCursor(t, s, 0, 4)

	seq := at("A-->B", 0, 0)
	for i := 0; i < IndentWidth; i++ {
		seq = seq.InsertChar(' ')
	}
	if seq.Text() != s.Text() || seq.Cursor() != s.Cursor() {
		t.Fatal("Indent differs from four InsertChar(' ')")
	}
}

func TestInsertCharLineBreaks(t *testing.T) {
	s := at("AB", 0, 1).InsertChar('\n')
	assertLines(t, s, "A", "B")
	s = at("AB", 0, 1).InsertChar('\r')
	assertLines(t, s, "AB")
	assertCursor(t, s, 0, 1)
}

func TestSetCursorClamps(t *testing.T) {
	s := New("ab\ncdef")
	assertCursor(t, s.SetCursor(-3, -1), 0, 0)
	assertCursor(t, s.SetCursor(9, 1), 1, 1)
	assertCursor(t, s.SetCursor(0, 99), 0, 2)
}

func TestReconcile(t *testing.T) {
	s := at("one\ntwo\nthree", 2, 3)
	fewer := s.Reconcile("alpha\nbeta")
	assertLines(t, fewer, "alpha", "beta")
	assertCursor(t, fewer, 1, 4)

	shorter := at("one\ntwo\nthree", 1, 3).Reconcile("one\nt\nthree")
	assertCursor(t, shorter, 1, 1)

	kept := at("one\ntwo\nthree", 1, 1).Reconcile("ONE\nTWO\nTHREE\nFOUR")
	assertCursor(t, kept, 1, 1)

	if same := s.Reconcile(s.Text()); !same.Equal(s) {
		t.Fatal("Reconcile with identical text changed state")
	}
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	orig := at("graph TD\nA-->B", 1, 2)
	text, cur := orig.Text(), orig.Cursor()
	orig.InsertChar('x')
	orig.DeleteBackward()
	orig.SplitLine()
	orig.Indent()
	orig.Reconcile("z")
	orig.SetCursor(0, 0).DeleteBackward()
	if orig.Text() != text || orig.Cursor() != cur {
		t.Fatalf("receiver mutated: %q %+v", orig.Text(), orig.Cursor())
	}
}

func TestTypingFlowchart(t *testing.T) {
	s := Empty()
	for _, r := range "flowchart TD" {
		s = Apply(s, IntentInsertChar, r)
	}
	assertCursor(t, s, 0, 12)
	if s.Text() != "flowchart TD" {
		t.Fatalf("text = %q", s.Text())
	}
}

func TestApplyAndIntentNames(t *testing.T) {
	s := at("AB", 0, 1)
	if got := Apply(s, IntentSplitLine, 0); got.Text() != "A\nB" {
		t.Fatalf("Apply split = %q", got.Text())
	}
	if !Apply(s, IntentNone, 0).Equal(s) {
		t.Fatal("IntentNone changed state")
	}
	if IntentIndent.String() != "indent" || Intent(99).String() != "unknown" {
		t.Fatal("unexpected intent names")
	}
	if IntentMoveUp.Mutates() || !IntentDeleteBackward.Mutates() {
		t.Fatal("unexpected Mutates result")
	}
}
