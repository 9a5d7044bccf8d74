// Package delta summarises edits made to a diagram since it was loaded or
// last saved.
package delta

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Stat counts changed lines.
type Stat struct {
	Added   int
	Removed int
}

// Changed reports whether any line differs.
func (s Stat) Changed() bool { return s.Added > 0 || s.Removed > 0 }

// String renders the stat as "+N -M", or "" when nothing changed.
func (s Stat) String() string {
	if !s.Changed() {
		return ""
	}
	return fmt.Sprintf("+%d -%d", s.Added, s.Removed)
}

// Summary computes a line diff between old and new.
func Summary(old, new string) Stat {
	if old == new {
		return Stat{}
	}
	edits := myers.ComputeEdits(span.URIFromPath("diagram.mmd"), old, new)
	unified := gotextdiff.ToUnified("a", "b", old, edits)

	var s Stat
	for _, h := range unified.Hunks {
		for _, l := range h.Lines {
			switch l.Kind {
			case gotextdiff.Insert:
				s.Added++
			case gotextdiff.Delete:
				s.Removed++
			}
		}
	}
	return s
}
