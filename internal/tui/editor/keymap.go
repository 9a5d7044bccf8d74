package editor

import (
	"unicode"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	"github.com/xonecas/mermedit/internal/document"
)

// blockingMods are modifiers that turn a key into a platform shortcut.
const blockingMods = tea.ModCtrl | tea.ModAlt | tea.ModMeta | tea.ModSuper | tea.ModHyper

var keyIntents = map[string]document.Intent{
	"up":        document.IntentMoveUp,
	"down":      document.IntentMoveDown,
	"left":      document.IntentMoveLeft,
	"right":     document.IntentMoveRight,
	"backspace": document.IntentDeleteBackward,
	"enter":     document.IntentSplitLine,
	"tab":       document.IntentIndent,
}

// Resolve maps a key press to an editing intent. The rune is set for
// IntentInsertChar. ok is false for keys the editor does not handle, which
// the parent is free to treat as shortcuts.
func Resolve(msg tea.KeyPressMsg) (intent document.Intent, r rune, ok bool) {
	if in, found := keyIntents[msg.Keystroke()]; found {
		return in, 0, true
	}
	if msg.Mod&blockingMods != 0 {
		return document.IntentNone, 0, false
	}
	if r, ok := printable(msg.Text); ok {
		return document.IntentInsertChar, r, true
	}
	return document.IntentNone, 0, false
}

// printable returns the single printable rune in text.
func printable(text string) (rune, bool) {
	if text == "" || utf8.RuneCountInString(text) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError || !unicode.IsPrint(r) {
		return 0, false
	}
	return r, true
}
