package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/mermedit/internal/highlight"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFile means nothing was selected or the file could not be read.
	ErrNoFile = errors.New("no file")
	// ErrUnsupported means the file is not a Mermaid diagram.
	ErrUnsupported = errors.New("unsupported file type")
)

type frontMatter struct {
	Title string `yaml:"title"`
}

// TitleBlock returns the front matter naming a diagram after its file: the
// base name up to its first dot.
func TitleBlock(name string) (string, error) {
	title, _, _ := strings.Cut(filepath.Base(name), ".")
	out, err := yaml.Marshal(frontMatter{Title: title})
	if err != nil {
		return "", fmt.Errorf("encode title: %w", err)
	}
	return "---\n" + string(out) + "---\n", nil
}

// Load replaces the text with data read from a file called name and
// returns the new text.
func (s *Shell) Load(ctx context.Context, name string, data []byte) (string, error) {
	if name == "" {
		return "", ErrNoFile
	}
	if !highlight.IsDiagram(name) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(name))
	}

	// The editor holds no carriage returns; neither does the shell.
	text := strings.ReplaceAll(string(data), "\r", "")
	if s.opts.TitleFrontMatter {
		block, err := TitleBlock(name)
		if err != nil {
			return "", err
		}
		text = block + text
	}

	s.mu.Lock()
	s.name = name
	s.setBaseline(text)
	s.mu.Unlock()

	s.SetText(ctx, text)
	log.Info().Str("file", name).Int("bytes", len(data)).Msg("diagram loaded")
	return text, nil
}

// LoadFile reads path and loads it. Read failures return ErrNoFile.
func (s *Shell) LoadFile(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", ErrNoFile
	}
	if !highlight.IsDiagram(path) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug().Err(err).Str("file", path).Msg("load skipped")
		return "", fmt.Errorf("%w: %v", ErrNoFile, err)
	}
	return s.Load(ctx, path, data)
}

// Save writes the current text verbatim into dir and returns the path.
func (s *Shell) Save(dir string) (string, error) {
	s.mu.Lock()
	text := s.text
	s.mu.Unlock()

	path := filepath.Join(dir, s.opts.SaveName)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("save diagram: %w", err)
	}

	s.mu.Lock()
	s.setBaseline(text)
	s.name = path
	s.mu.Unlock()
	log.Info().Str("file", path).Int("bytes", len(text)).Msg("diagram saved")
	return path, nil
}
