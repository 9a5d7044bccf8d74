// Package highlight provides the keyword tokenizer used by the editor and the
// colour palette derived from a Chroma theme.
package highlight

import "strings"

// Span is a contiguous slice of a line tagged as keyword or plain text.
type Span struct {
	Text    string
	Keyword bool
}

// Keywords is the default set of Mermaid diagram keywords.
var Keywords = []string{
	"graph",
	"subgraph",
	"end",
	"classDiagram",
	"sequenceDiagram",
	"stateDiagram",
	"flowchart",
	"erDiagram",
}

// Tokenize splits line into spans covering it end to end. Keywords match
// whole words only and case-sensitively; when several keywords match at the
// same position the first one listed wins. An empty line yields no spans.
func Tokenize(line string, keywords []string) []Span {
	if line == "" {
		return nil
	}
	var spans []Span
	last := 0
	for i := 0; i < len(line); {
		if i > 0 && isWordByte(line[i-1]) {
			i++
			continue
		}
		kw := matchAt(line, i, keywords)
		if kw == "" {
			i++
			continue
		}
		if i > last {
			spans = append(spans, Span{Text: line[last:i]})
		}
		spans = append(spans, Span{Text: kw, Keyword: true})
		i += len(kw)
		last = i
	}
	if last < len(line) {
		spans = append(spans, Span{Text: line[last:]})
	}
	return spans
}

// matchAt returns the first keyword that starts at line[i] and ends on a
// word boundary, or "".
func matchAt(line string, i int, keywords []string) string {
	rest := line[i:]
	for _, kw := range keywords {
		if kw == "" || !strings.HasPrefix(rest, kw) {
			continue
		}
		end := i + len(kw)
		if end < len(line) && isWordByte(line[end]) {
			continue
		}
		return kw
	}
	return ""
}

// isWordByte reports whether b is an ASCII word character. Bytes of
// multi-byte runes are never word characters, matching a regexp \b.
func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}
