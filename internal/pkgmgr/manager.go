// Package pkgmgr dispatches add/remove/upgrade to the system package
// manager (yarn, invoked as yarnpkg by default).
//
// Every invocation points yarn at the custom registry and at the app
// source directory with --cwd, and inherits mk's stdio so yarn's own
// progress output reaches the user unchanged.
//
// Design decisions:
//   - add always runs online and pins the exact version (--exact);
//     remove and upgrade consult the reachability check and fall back to
//     --offline when the registry cannot be resolved.
//   - An offline remove/upgrade still runs the package manager after
//     warning the user; yarn decides what it can do from its cache.
//   - The child's exit status is returned as *proc.ExitError so the CLI
//     can mirror it as its own exit code.
package pkgmgr

import (
	"context"
	"fmt"

	"github.com/shinji-kodama/mk-command/internal/model"
	"github.com/shinji-kodama/mk-command/internal/proc"
)

// OnlineChecker reports whether the registry is reachable.
// *netcheck.Checker satisfies it.
type OnlineChecker interface {
	IsOnline(ctx context.Context) bool
}

// Request is one package-manager invocation.
type Request struct {
	// Op is the operation to run.
	Op model.Operation

	// Package is the package name; required for add and remove.
	Package string
}

// Manager builds and runs package-manager command lines.
type Manager struct {
	runner   proc.Runner
	checker  OnlineChecker
	binary   string
	registry string
	dir      string

	// OnOffline is called before an operation runs in offline mode.
	OnOffline func(op model.Operation)
}

// NewManager creates a Manager running binary with the given registry in
// dir (the app source directory).
func NewManager(runner proc.Runner, checker OnlineChecker, binary, registry, dir string) *Manager {
	return &Manager{
		runner:   runner,
		checker:  checker,
		binary:   binary,
		registry: registry,
		dir:      dir,
	}
}

// Outcome reports what Run did.
type Outcome struct {
	// Command is the executed command line.
	Command proc.Command

	// Offline is true when --offline was passed.
	Offline bool
}

// Run validates the request, decides online/offline mode and runs the
// package manager. The returned Outcome is filled even on failure once
// the command line was built.
func (m *Manager) Run(ctx context.Context, req Request) (Outcome, error) {
	if !req.Op.IsValid() {
		return Outcome{}, fmt.Errorf("unsupported operation %q", req.Op)
	}
	if req.Op.NeedsPackage() && req.Package == "" {
		return Outcome{}, model.NewCLIError(model.ExitGeneralError, fmt.Sprintf("%s requires a package name", req.Op))
	}

	online := true
	if req.Op.ChecksReachability() && m.checker != nil {
		online = m.checker.IsOnline(ctx)
	}
	if !online && m.OnOffline != nil {
		m.OnOffline(req.Op)
	}

	cmd := proc.Command{
		Name: m.binary,
		Args: m.Args(req, online),
	}
	out := Outcome{Command: cmd, Offline: !online}

	if err := m.runner.Run(ctx, cmd); err != nil {
		return out, err
	}
	return out, nil
}

// Args returns the fixed argument list for req.
//
//	add:     add <pkg> --registry <url> --exact --cwd <dir>
//	remove:  remove <pkg> --registry <url> [--offline] --cwd <dir>
//	upgrade: upgrade --registry <url> [--offline] --cwd <dir>
func (m *Manager) Args(req Request, online bool) []string {
	args := []string{req.Op.String()}
	if req.Op.NeedsPackage() {
		args = append(args, req.Package)
	}
	args = append(args, "--registry", m.registry)

	switch req.Op {
	case model.OpAdd:
		args = append(args, "--exact")
	default:
		if !online {
			args = append(args, "--offline")
		}
	}

	return append(args, "--cwd", m.dir)
}
