package highlight

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultAccent is the keyword colour used when a theme defines none.
const DefaultAccent = "#AF13F2"

// Palette holds UI colours derived deterministically from a Chroma theme.
// The grayscale ramp is a linear interpolation from bg to fg.
type Palette struct {
	Bg      string // Theme background
	Fg      string // Theme foreground (primary text)
	Border  string // 10% bg→fg: borders, dividers
	LineBg  string // 7% bg→fg: cursor line background
	Dim     string // 25% bg→fg: line numbers, hints
	Muted   string // 45% bg→fg: secondary text
	Keyword string // Keyword token colour, DefaultAccent if unset
	Error   string // Error token colour
}

// ThemePalette derives a palette from a Chroma theme name. Unknown themes
// fall back to a dark default.
func ThemePalette(theme string) Palette {
	sty, ok := styles.Registry[theme]
	if !ok || sty == nil {
		return defaultPalette()
	}
	entry := sty.Get(chroma.Background)
	bg := "#000000"
	fg := "#c8c8c8"
	if entry.Background.IsSet() {
		bg = entry.Background.String()
	}
	if entry.Colour.IsSet() {
		fg = entry.Colour.String()
	}

	return Palette{
		Bg:      bg,
		Fg:      fg,
		Border:  lerpHex(bg, fg, 0.10),
		LineBg:  lerpHex(bg, fg, 0.07),
		Dim:     lerpHex(bg, fg, 0.25),
		Muted:   lerpHex(bg, fg, 0.45),
		Keyword: tokenColour(sty, chroma.Keyword, DefaultAccent),
		Error:   tokenColour(sty, chroma.Error, "#e5534b"),
	}
}

func defaultPalette() Palette {
	return Palette{
		Bg: "#000000", Fg: "#c8c8c8",
		Border: "#141414", LineBg: "#0e0e0e",
		Dim: "#323232", Muted: "#5a5a5a",
		Keyword: DefaultAccent, Error: "#e5534b",
	}
}

func tokenColour(sty *chroma.Style, tt chroma.TokenType, fallback string) string {
	e := sty.Get(tt)
	if !e.Colour.IsSet() {
		return fallback
	}
	return e.Colour.String()
}

// lerpHex linearly interpolates between two hex colours at fraction t.
func lerpHex(a, b string, t float64) string {
	ar, ag, ab := hexToRGBf(a)
	br, bg, bb := hexToRGBf(b)
	return fmt.Sprintf("#%02x%02x%02x",
		clampByte(ar+(br-ar)*t),
		clampByte(ag+(bg-ag)*t),
		clampByte(ab+(bb-ab)*t),
	)
}

func hexToRGBf(hex string) (float64, float64, float64) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	return float64(hexByte(hex[1], hex[2])),
		float64(hexByte(hex[3], hex[4])),
		float64(hexByte(hex[5], hex[6]))
}

func hexByte(hi, lo byte) int {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

func clampByte(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v + 0.5)
}
