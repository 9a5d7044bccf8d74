package filesearch

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreMatcher matches paths against gitignore patterns.
type GitignoreMatcher struct {
	rules []gitignoreRule
}

type gitignoreRule struct {
	glob     string
	negation bool
	dirOnly  bool
	anchored bool // pattern holds a slash, so it matches from the root
}

// NewGitignoreMatcher creates a new gitignore matcher from a .gitignore file.
// A missing file yields a matcher that ignores nothing.
func NewGitignoreMatcher(gitignorePath string) (*GitignoreMatcher, error) {
	matcher := &GitignoreMatcher{}

	if gitignorePath == "" {
		return matcher, nil
	}

	file, err := os.Open(gitignorePath)
	if err != nil {
		if os.IsNotExist(err) {
			return matcher, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		matcher.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return matcher, nil
}

// Add parses one .gitignore line. Blank lines, comments and invalid globs
// are skipped.
func (m *GitignoreMatcher) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	var r gitignoreRule
	if strings.HasPrefix(line, "!") {
		r.negation = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.Contains(line, "/") {
		r.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if line == "" || !doublestar.ValidatePattern(line) {
		return
	}
	r.glob = line
	m.rules = append(m.rules, r)
}

// Matches reports whether path (relative to the root) is ignored. The last
// matching rule wins.
func (m *GitignoreMatcher) Matches(path string, isDir bool) bool {
	if m == nil || len(m.rules) == 0 {
		return false
	}
	path = filepath.ToSlash(path)
	parts := strings.Split(path, "/")

	ignored := false
	for _, r := range m.rules {
		if r.match(parts, isDir) {
			ignored = !r.negation
		}
	}
	return ignored
}

// match tests the path and each of its parent directories.
func (r gitignoreRule) match(parts []string, isDir bool) bool {
	for i := len(parts); i >= 1; i-- {
		dir := isDir || i < len(parts)
		if r.dirOnly && !dir {
			continue
		}
		subject := parts[i-1]
		if r.anchored {
			subject = strings.Join(parts[:i], "/")
		}
		if ok, _ := doublestar.Match(r.glob, subject); ok {
			return true
		}
	}
	return false
}
