package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// Command describes a single subprocess invocation.
type Command struct {
	// Name is the executable to run, resolved through PATH.
	Name string

	// Args are the arguments passed after Name.
	Args []string

	// Dir is the working directory of the child. Empty means the
	// current directory of the mk process.
	Dir string

	// Env holds extra KEY=VALUE pairs appended to the parent environment.
	Env []string

	// Stdout and Stderr override the inherited streams when non-nil.
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logging.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner starts subprocesses and waits for them to exit.
type Runner interface {
	// Run executes the command with inherited stdio (unless overridden)
	// and blocks until it exits.
	Run(ctx context.Context, cmd Command) error

	// Output executes the command and returns its captured stdout.
	// Stderr is inherited unless cmd.Stderr is set.
	Output(ctx context.Context, cmd Command) (string, error)
}

// ExitError reports a subprocess that started but exited unsuccessfully.
type ExitError struct {
	// Command is the invocation that failed.
	Command Command

	// Code is the child's exit code, or -1 if it was killed by a signal.
	Code int

	// Err is the underlying *exec.ExitError.
	Err error
}

// Error satisfies the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command.String(), e.Code)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeOf returns the child exit code carried by err, and whether err
// was an *ExitError at all. Start failures (binary not found) return false.
func ExitCodeOf(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// ExecRunner is the Runner backed by os/exec.
type ExecRunner struct{}

// NewExecRunner creates a Runner that spawns real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command with inherited stdio.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := r.build(ctx, c)
	cmd.Stdout = os.Stdout
	if c.Stdout != nil {
		cmd.Stdout = c.Stdout
	}
	return wrapRunError(c, cmd.Run())
}

// Output executes the command and returns its stdout.
func (r *ExecRunner) Output(ctx context.Context, c Command) (string, error) {
	cmd := r.build(ctx, c)
	var stdout strings.Builder
	cmd.Stdout = &stdout
	err := cmd.Run()
	return stdout.String(), wrapRunError(c, err)
}

func (r *ExecRunner) build(ctx context.Context, c Command) *exec.Cmd {
	// #nosec G204 -- the command line comes from mk's own settings
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr
	if c.Stderr != nil {
		cmd.Stderr = c.Stderr
	}
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	return cmd
}

// wrapRunError converts an *exec.ExitError into an *ExitError and leaves
// start failures (missing binary, bad working directory) wrapped as-is.
func wrapRunError(c Command, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: c, Code: exitErr.ExitCode(), Err: err}
	}
	return fmt.Errorf("failed to start %s: %w", c.Name, err)
}

// ParseCommandLine splits a configured command string such as
// `node node_modules/webpack/bin/webpack.js --config "$MK_WEBPACK"` into a
// program name and its arguments. Variables are expanded with env; a nil
// env expands against the process environment.
func ParseCommandLine(line string, env func(string) string) (string, []string, error) {
	if env == nil {
		env = os.Getenv
	}
	fields, err := shell.Fields(line, env)
	if err != nil {
		return "", nil, fmt.Errorf("invalid command line %q: %w", line, err)
	}
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("empty command line")
	}
	return fields[0], fields[1:], nil
}
