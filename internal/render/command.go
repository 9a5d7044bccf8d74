package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/mermedit/internal/shell"
)

// DefaultCommand renders with the Mermaid CLI.
const DefaultCommand = `mmdc -i "$MERMAID_IN" -o "$MERMAID_OUT" -t "${MERMAID_THEME:-dark}" -b transparent`

// CommandEngine renders by running an external command through the
// in-process shell. The command reads $MERMAID_IN and writes an SVG to
// $MERMAID_OUT; an SVG printed on stdout is accepted as well.
type CommandEngine struct {
	Runner  *shell.Runner
	Command string
	Theme   string
	Timeout time.Duration
}

// NewCommandEngine returns an engine running command (DefaultCommand when
// empty) through runner.
func NewCommandEngine(runner *shell.Runner, command, theme string, timeout time.Duration) *CommandEngine {
	if command == "" {
		command = DefaultCommand
	}
	return &CommandEngine{Runner: runner, Command: command, Theme: theme, Timeout: timeout}
}

func (e *CommandEngine) Render(ctx context.Context, id, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	dir, err := os.MkdirTemp("", "mermedit-render-*")
	if err != nil {
		return "", fmt.Errorf("create render dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, id+".mmd")
	out := filepath.Join(dir, id+".svg")
	if err := os.WriteFile(in, []byte(text), 0600); err != nil {
		return "", fmt.Errorf("write render input: %w", err)
	}

	start := time.Now()
	stdout, stderr, err := e.Runner.Exec(ctx, e.Command,
		"MERMAID_IN="+in,
		"MERMAID_OUT="+out,
		"MERMAID_THEME="+e.Theme,
		"MERMAID_ID="+id,
	)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return "", errors.New(msg)
		}
		return "", fmt.Errorf("render command failed (exit %d): %w", shell.ExitCode(err), err)
	}
	log.Debug().Dur("took", time.Since(start)).Int("bytes", len(text)).Msg("render command finished")

	data, err := os.ReadFile(out)
	if err == nil && len(data) > 0 {
		return string(data), nil
	}
	if s := strings.TrimSpace(stdout); strings.HasPrefix(s, "<svg") || strings.HasPrefix(s, "<?xml") {
		return s, nil
	}
	return "", fmt.Errorf("render command produced no SVG")
}
