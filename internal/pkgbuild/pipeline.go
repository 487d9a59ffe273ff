package pkgbuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/mk-command/internal/bundler"
	"github.com/shinji-kodama/mk-command/internal/model"
	"github.com/shinji-kodama/mk-command/internal/paths"
	"github.com/shinji-kodama/mk-command/internal/proc"
)

// ProductionEnv is appended to the environment of every child the
// pipeline spawns.
var ProductionEnv = []string{"BABEL_ENV=production", "NODE_ENV=production"}

// Helper scripts shipped in the mk-command scripts directory.
const (
	ScanScript       = "scan.js"
	CopyLocalScript  = "copy-local-dep.js"
	CopyRemoteScript = "copy-remote-dep.js"
)

// Reporter receives pipeline progress. Implementations decide how to
// render it; a nil Reporter discards everything.
type Reporter interface {
	// PhaseStarted is called before each phase runs.
	PhaseStarted(p model.Phase)

	// Warning is called for each non-fatal bundler warning.
	Warning(msg string)
}

// PhaseError reports the phase that aborted the pipeline.
type PhaseError struct {
	Phase model.Phase
	Err   error
}

// Error satisfies the error interface.
func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Phase.Tag(), e.Phase.Title(), e.Err)
}

// Unwrap returns the underlying error.
func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Options configures a Pipeline.
type Options struct {
	// Paths are the resolved project locations. Required.
	Paths *paths.Paths

	// Runner spawns the node helper scripts. Required.
	Runner proc.Runner

	// Bundler compiles the app in phase 2. Required.
	Bundler bundler.Bundler

	// Node is the node executable. Defaults to "node".
	Node string

	// Profile is the build profile passed to the copy scripts.
	// Defaults to "release".
	Profile string

	// Minify enables HTML minification of the generated index.html.
	Minify bool

	// Reporter receives progress; may be nil.
	Reporter Reporter
}

// Pipeline packages an app into Paths.AppPackage.
type Pipeline struct {
	opts Options
}

// New creates a Pipeline. Zero-valued optional fields get their defaults.
func New(opts Options) *Pipeline {
	if opts.Node == "" {
		opts.Node = "node"
	}
	if opts.Profile == "" {
		opts.Profile = "release"
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}
	return &Pipeline{opts: opts}
}

// CheckRequired verifies the files the pipeline cannot run without.
func (p *Pipeline) CheckRequired() error {
	return paths.CheckRequiredFiles(p.opts.Paths.AppIndexJS)
}

// Run executes the seven phases in order and returns at the first failure
// wrapped in a *PhaseError. Nothing is retried.
func (p *Pipeline) Run(ctx context.Context) error {
	steps := []struct {
		phase model.Phase
		run   func(context.Context) error
	}{
		{model.PhaseEmptyDir, p.emptyOutput},
		{model.PhaseBundle, p.compile},
		{model.PhaseCopySDK, p.copySDK},
		{model.PhaseScanDeps, p.script(ScanScript)},
		{model.PhaseCopyLocalDeps, p.script(CopyLocalScript, p.opts.Profile, p.opts.Paths.AppPackage)},
		{model.PhaseCopyRemoteDeps, p.script(CopyRemoteScript, p.opts.Profile, p.opts.Paths.AppPackage)},
		{model.PhaseRenderHTML, p.renderHTML},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return &PhaseError{Phase: s.phase, Err: err}
		}
		p.opts.Reporter.PhaseStarted(s.phase)
		if err := s.run(ctx); err != nil {
			return &PhaseError{Phase: s.phase, Err: err}
		}
	}
	return nil
}

func (p *Pipeline) emptyOutput(_ context.Context) error {
	return EmptyDir(p.opts.Paths.AppPackage)
}

func (p *Pipeline) compile(ctx context.Context) error {
	res, err := p.opts.Bundler.Compile(ctx)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		p.opts.Reporter.Warning(w)
	}
	return nil
}

func (p *Pipeline) copySDK(_ context.Context) error {
	if err := os.MkdirAll(p.opts.Paths.AppPackage, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return CopyDir(p.opts.Paths.SDKDir, p.opts.Paths.AppPackage)
}

// script returns a phase that runs a helper script with inherited stdio.
func (p *Pipeline) script(name string, args ...string) func(context.Context) error {
	return func(ctx context.Context) error {
		return p.opts.Runner.Run(ctx, proc.Command{
			Name: p.opts.Node,
			Args: append([]string{p.opts.Paths.Script(name)}, args...),
			Dir:  p.opts.Paths.AppPath,
			Env:  ProductionEnv,
		})
	}
}

func (p *Pipeline) renderHTML(_ context.Context) error {
	tmpl, err := os.ReadFile(p.opts.Paths.AppHTML)
	if err != nil {
		return fmt.Errorf("failed to read html template: %w", err)
	}

	vars, err := LoadTemplateVars(p.opts.Paths.PackageJSON, p.opts.Paths.MkJSON)
	if err != nil {
		return err
	}

	out, err := RenderHTML(string(tmpl), vars, RenderOptions{Minify: p.opts.Minify})
	if err != nil {
		return err
	}

	return WriteFile(filepath.Join(p.opts.Paths.AppPackage, "index.html"), []byte(out))
}

type nopReporter struct{}

func (nopReporter) PhaseStarted(model.Phase) {}
func (nopReporter) Warning(string)           {}
