package document

// Intent names a single editing operation.
type Intent int

const (
	IntentNone Intent = iota
	IntentMoveUp
	IntentMoveDown
	IntentMoveLeft
	IntentMoveRight
	IntentInsertChar
	IntentDeleteBackward
	IntentSplitLine
	IntentIndent
)

var intentNames = [...]string{
	IntentNone:           "none",
	IntentMoveUp:         "move-up",
	IntentMoveDown:       "move-down",
	IntentMoveLeft:       "move-left",
	IntentMoveRight:      "move-right",
	IntentInsertChar:     "insert-char",
	IntentDeleteBackward: "delete-backward",
	IntentSplitLine:      "split-line",
	IntentIndent:         "indent",
}

func (i Intent) String() string {
	if i < 0 || int(i) >= len(intentNames) {
		return "unknown"
	}
	return intentNames[i]
}

// Mutates reports whether the intent can change the text.
func (i Intent) Mutates() bool {
	switch i {
	case IntentInsertChar, IntentDeleteBackward, IntentSplitLine, IntentIndent:
		return true
	}
	return false
}

// Apply runs intent against s. r is only used by IntentInsertChar.
func Apply(s State, intent Intent, r rune) State {
	switch intent {
	case IntentMoveUp:
		return s.MoveUp()
	case IntentMoveDown:
		return s.MoveDown()
	case IntentMoveLeft:
		return s.MoveLeft()
	case IntentMoveRight:
		return s.MoveRight()
	case IntentInsertChar:
		return s.InsertChar(r)
	case IntentDeleteBackward:
		return s.DeleteBackward()
	case IntentSplitLine:
		return s.SplitLine()
	case IntentIndent:
		return s.Indent()
	}
	return s.normalized()
}
