package editor

import (
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/xonecas/mermedit/internal/highlight"
)

// ---------------------------------------------------------------------------
// Token cache (global, shared across instances)
// ---------------------------------------------------------------------------

var (
	tokCache   = make(map[string][]highlight.Span)
	tokCacheMu sync.RWMutex
)

// cachedTokens tokenizes line, memoising by keyword set and text.
func cachedTokens(line string, keywords []string) []highlight.Span {
	cacheKey := strings.Join(keywords, "\x00") + "\x01" + line
	tokCacheMu.RLock()
	if v, ok := tokCache[cacheKey]; ok {
		tokCacheMu.RUnlock()
		return v
	}
	tokCacheMu.RUnlock()

	spans := highlight.Tokenize(line, keywords)

	tokCacheMu.Lock()
	if len(tokCache) > 2000 {
		tokCache = make(map[string][]highlight.Span)
	}
	tokCache[cacheKey] = spans
	tokCacheMu.Unlock()
	return spans
}

const tabWidth = 4

// cell is one display column group produced from a single rune.
type cell struct {
	text    string // rune, or spaces for an expanded tab
	keyword bool
	index   int // rune offset in the buffer line
	width   int
}

// lineCells expands a tokenized line into display cells.
func lineCells(spans []highlight.Span) []cell {
	var cells []cell
	col, idx := 0, 0
	for _, sp := range spans {
		for _, r := range sp.Text {
			c := cell{keyword: sp.Keyword, index: idx}
			if r == '\t' {
				n := tabWidth - (col % tabWidth)
				c.text = strings.Repeat(" ", n)
				c.width = n
			} else {
				c.text = string(r)
				c.width = ansi.StringWidth(c.text)
			}
			col += c.width
			idx++
			cells = append(cells, c)
		}
	}
	return cells
}

// displayCol returns the display column of rune offset off in line.
func displayCol(line string, off int) int {
	col, idx := 0, 0
	for _, r := range line {
		if idx >= off {
			break
		}
		if r == '\t' {
			col += tabWidth - (col % tabWidth)
		} else {
			col += ansi.StringWidth(string(r))
		}
		idx++
	}
	return col
}
