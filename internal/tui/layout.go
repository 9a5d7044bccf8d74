package tui

import "image"

const (
	statusRows   = 2  // separator + status bar
	minPaneWidth = 20 // narrowest either pane may be dragged to
)

// layout holds the screen rectangles of each region. Max is exclusive.
type layout struct {
	editor  image.Rectangle
	div     image.Rectangle
	preview image.Rectangle
}

// generateLayout splits the content area at column divX.
func generateLayout(width, height, divX int) layout {
	contentH := max(height-statusRows, 0)
	divX = clampDivider(width, divX)
	return layout{
		editor:  image.Rect(0, 0, divX, contentH),
		div:     image.Rect(divX, 0, divX+1, contentH),
		preview: image.Rect(divX+1, 0, max(width, divX+1), contentH),
	}
}

// clampDivider keeps both panes at least minPaneWidth wide when the
// terminal allows it.
func clampDivider(width, divX int) int {
	if width < 2*minPaneWidth+1 {
		return max(width/2, 0)
	}
	return min(max(divX, minPaneWidth), width-minPaneWidth-1)
}

func inRect(x, y int, r image.Rectangle) bool {
	return image.Pt(x, y).In(r)
}
