package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/mk-command/internal/bundler"
	"github.com/shinji-kodama/mk-command/internal/model"
	"github.com/shinji-kodama/mk-command/internal/pkgbuild"
	"github.com/shinji-kodama/mk-command/internal/proc"
)

// pkgResult is the --json output of pkg.
type pkgResult struct {
	OutputDir string   `json:"outputDir"`
	Warnings  []string `json:"warnings"`
}

// NewPkgCommand creates the "pkg" cobra command.
func NewPkgCommand(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "pkg",
		Short: "Package the app for production",
		Long: `Package the app into its output directory (dist by default):

  [1/7] empty the output directory
  [2/7] compile the app with webpack
  [3/7] copy the mk SDK
  [4/7] scan dependent apps
  [5/7] copy local dependent apps
  [6/7] copy remote dependent apps
  [7/7] render index.html from the template, package.json and mk.json

The first failing step aborts the build.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPkg(cmd, deps)
		},
	}
}

func runPkg(cmd *cobra.Command, deps *Dependencies) error {
	ctx := contextOrBackground(cmd)
	prj, err := loadProject(ctx)
	if err != nil {
		return err
	}
	s := prj.settings

	name, args, err := proc.ParseCommandLine(s.Build.BundlerCommand, nil)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid bundler command", err)
	}

	// Progress goes to stderr in JSON mode so stdout carries only the result.
	progress := cmd.OutOrStdout()
	if IsJSONOutput() {
		progress = cmd.ErrOrStderr()
	}
	reporter := &pipelineReporter{out: progress}

	pipeline := pkgbuild.New(pkgbuild.Options{
		Paths:    prj.paths,
		Runner:   deps.Runner,
		Bundler:  bundler.NewWebpack(deps.Runner, name, args, prj.paths.AppPath, pkgbuild.ProductionEnv),
		Node:     s.Node,
		Profile:  s.Build.Profile,
		Minify:   s.Build.Minify,
		Reporter: reporter,
	})

	if err := pipeline.CheckRequired(); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "cannot package app", err)
	}

	_, _ = fmt.Fprintln(progress, "Packaging production site...")
	VerboseLog("bundler: %s", s.Build.BundlerCommand)

	if err := pipeline.Run(ctx); err != nil {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), failureStyle.Render("Packaging failed."))
		return pipelineError(err)
	}

	if IsJSONOutput() {
		warnings := reporter.warnings
		if warnings == nil {
			warnings = []string{}
		}
		return printJSON(cmd.OutOrStdout(), pkgResult{OutputDir: prj.paths.AppPackage, Warnings: warnings})
	}
	_, _ = fmt.Fprintln(progress, successStyle.Render("Packaged successfully, output directory: "+prj.paths.AppPackage))
	return nil
}

// pipelineError names the failed phase in the reported message.
func pipelineError(err error) error {
	var phaseErr *pkgbuild.PhaseError
	if !errors.As(err, &phaseErr) {
		return model.WrapCLIError(model.ExitGeneralError, "packaging failed", err)
	}
	message := fmt.Sprintf("%s %s", phaseErr.Phase.Tag(), phaseErr.Phase.Title())
	if bundler.IsCompileError(err) {
		message += ": failed to compile"
	}
	return model.WrapCLIError(model.ExitGeneralError, message, phaseErr.Err)
}

// pipelineReporter prints "[n/7] description" lines and bundler warnings.
type pipelineReporter struct {
	out      io.Writer
	warnings []string
}

func (r *pipelineReporter) PhaseStarted(p model.Phase) {
	_, _ = fmt.Fprintf(r.out, "%s %s...\n", stepStyle.Render(p.Tag()), p.Title())
}

func (r *pipelineReporter) Warning(msg string) {
	if len(r.warnings) == 0 {
		_, _ = fmt.Fprintln(r.out, warningStyle.Render("Compiled with warnings."))
	}
	r.warnings = append(r.warnings, msg)
	_, _ = fmt.Fprintln(r.out, warningStyle.Render(msg))
}
