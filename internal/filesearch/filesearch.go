// Package filesearch finds Mermaid diagrams under a directory, honouring
// .gitignore, and ranks them against a fuzzy query.
package filesearch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
)

// DiagramGlob selects diagram files by extension.
const DiagramGlob = "**/*.{mmd,mermaid}"

// DefaultMaxResults caps Diagrams when MaxResults is zero.
const DefaultMaxResults = 50

// Result is one matching file.
type Result struct {
	Path  string // Relative path from the search root, slash separated
	Score int    // Higher is a better match; 0 for an empty query
}

// Searcher lists diagram files under a root directory.
type Searcher struct {
	root       string
	gitignore  *GitignoreMatcher
	MaxResults int
}

// NewSearcher creates a new searcher for the given root directory. An empty
// root means the working directory.
func NewSearcher(rootDir string) (*Searcher, error) {
	if rootDir == "" {
		var err error
		rootDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}
	matcher, err := NewGitignoreMatcher(filepath.Join(rootDir, ".gitignore"))
	if err != nil {
		// Non-fatal: just won't filter gitignored files
		matcher = &GitignoreMatcher{}
	}
	return &Searcher{root: rootDir, gitignore: matcher, MaxResults: DefaultMaxResults}, nil
}

// Root returns the directory searched.
func (s *Searcher) Root() string { return s.root }

// Diagrams returns the diagram files whose path fuzzily matches query,
// best match first.
func (s *Searcher) Diagrams(ctx context.Context, query string) ([]Result, error) {
	var results []Result
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == "node_modules" || s.gitignore.Matches(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.gitignore.Matches(rel, false) {
			return nil
		}
		if ok, _ := doublestar.Match(DiagramGlob, strings.ToLower(rel)); !ok {
			return nil
		}
		if score, ok := fuzzyScore(query, rel); ok {
			results = append(results, Result{Path: rel, Score: score})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if query != "" && len(a.Path) != len(b.Path) {
			return len(a.Path) < len(b.Path)
		}
		return a.Path < b.Path
	})

	limit := s.MaxResults
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// fuzzyScore matches query as a case-insensitive subsequence of path.
// Consecutive runs and hits inside the base name score higher.
func fuzzyScore(query, path string) (int, bool) {
	q := []rune(strings.ToLower(strings.TrimSpace(query)))
	if len(q) == 0 {
		return 0, true
	}
	p := []rune(strings.ToLower(path))
	base := len([]rune(path)) - len([]rune(filepath.Base(path)))

	score, qi, run := 0, 0, 0
	for i, r := range p {
		if qi == len(q) {
			break
		}
		if r != q[qi] {
			run = 0
			continue
		}
		run++
		score += run
		if i >= base {
			score += 2
		}
		if i == 0 || !unicode.IsLetter(p[i-1]) && !unicode.IsDigit(p[i-1]) {
			score += 3
		}
		qi++
	}
	if qi < len(q) {
		return 0, false
	}
	return score, true
}
