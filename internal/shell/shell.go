package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Runner executes command strings through an in-process POSIX shell.
// Every call gets a fresh interpreter, so a Runner is safe for concurrent use.
type Runner struct {
	dir        string
	env        []string
	blockFuncs []BlockFunc
}

// New creates a Runner whose commands start in dir with the process
// environment. An empty dir means the current working directory.
func New(dir string, blockers []BlockFunc) *Runner {
	if dir == "" {
		dir, _ = os.Getwd()
	}
	return &Runner{
		dir:        dir,
		env:        os.Environ(),
		blockFuncs: blockers,
	}
}

// Dir returns the directory commands start in.
func (r *Runner) Dir() string { return r.dir }

// Exec runs command with extra KEY=VALUE pairs appended to the environment,
// returning stdout, stderr, and any error. Cancelling ctx stops the command.
func (r *Runner) Exec(ctx context.Context, command string, env ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := r.exec(ctx, command, env, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func (r *Runner) exec(ctx context.Context, command string, env []string, stdout, stderr io.Writer) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("command execution panic: %v", p)
		}
	}()

	parsed, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return fmt.Errorf("could not parse command: %w", err)
	}

	runner, err := r.newInterp(env, stdout, stderr)
	if err != nil {
		return fmt.Errorf("could not create interpreter: %w", err)
	}

	if err := runner.Run(ctx, parsed); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Runner) newInterp(extra []string, stdout, stderr io.Writer) (*interp.Runner, error) {
	env := make([]string, 0, len(r.env)+len(extra))
	env = append(env, r.env...)
	env = append(env, extra...)
	return interp.New(
		interp.StdIO(nil, stdout, stderr),
		interp.Interactive(false),
		interp.Env(expand.ListEnviron(env...)),
		interp.Dir(r.dir),
		interp.ExecHandlers(r.blockHandler()),
	)
}

func (r *Runner) blockHandler() func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return next(ctx, args)
			}
			for _, bf := range r.blockFuncs {
				if bf(args) {
					return fmt.Errorf("command blocked: %q", args[0])
				}
			}
			return next(ctx, args)
		}
	}
}

// ExitCode extracts the exit code from an interpreter error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr interp.ExitStatus
	if errors.As(err, &exitErr) {
		return int(exitErr)
	}
	return 1
}
