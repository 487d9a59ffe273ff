package bundler

import (
	"context"
	"errors"
	"fmt"

	"github.com/shinji-kodama/mk-command/internal/proc"
)

// Bundler runs one compilation.
type Bundler interface {
	Compile(ctx context.Context) (*Result, error)
}

// Result is a successful compilation.
type Result struct {
	// Warnings are the formatted compilation warnings.
	Warnings []string
}

// CompileError reports that the compilation finished with errors.
// Only the first error is kept; Total counts all of them.
type CompileError struct {
	Message string
	Total   int
}

// Error satisfies the error interface.
func (e *CompileError) Error() string {
	return e.Message
}

// Webpack runs webpack as a subprocess.
type Webpack struct {
	runner proc.Runner
	cmd    proc.Command
}

// NewWebpack creates a Bundler that runs name with args in dir. env is
// appended to the child's environment. args must make webpack print its
// stats as JSON on stdout (--json).
func NewWebpack(runner proc.Runner, name string, args []string, dir string, env []string) *Webpack {
	return &Webpack{
		runner: runner,
		cmd: proc.Command{
			Name: name,
			Args: args,
			Dir:  dir,
			Env:  env,
		},
	}
}

// Compile runs webpack once and classifies the outcome.
func (w *Webpack) Compile(ctx context.Context) (*Result, error) {
	out, runErr := w.runner.Output(ctx, w.cmd)

	// A start failure never produces stats.
	if runErr != nil {
		if _, isExit := proc.ExitCodeOf(runErr); !isExit {
			return nil, fmt.Errorf("failed to run bundler: %w", runErr)
		}
	}

	stats, parseErr := ParseStats([]byte(out))
	if parseErr != nil {
		// webpack exits non-zero with stats when the compilation has
		// errors; without stats the failure happened before compiling.
		if runErr != nil {
			return nil, fmt.Errorf("bundler failed: %w", runErr)
		}
		return nil, fmt.Errorf("bundler output unreadable: %w", parseErr)
	}

	if len(stats.Errors) > 0 {
		return nil, &CompileError{Message: stats.Errors[0], Total: len(stats.Errors)}
	}
	if runErr != nil {
		return nil, fmt.Errorf("bundler reported no errors but failed: %w", runErr)
	}
	return &Result{Warnings: stats.Warnings}, nil
}

// IsCompileError reports whether err is a compilation error.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}
