package highlight

import (
	"path/filepath"
	"strings"
)

// DiagramExtensions are the file extensions recognised as Mermaid sources.
var DiagramExtensions = []string{".mmd", ".mermaid"}

// DiagramMediaType is the media type some platforms attach to Mermaid files.
const DiagramMediaType = "text/mermaid"

// IsDiagram reports whether path has a Mermaid file extension.
func IsDiagram(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range DiagramExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
