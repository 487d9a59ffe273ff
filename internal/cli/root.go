// Package cli implements the cobra-based CLI commands for mk.
//
// Each subcommand (add, remove, upgrade, pkg, config) is defined in its own
// file within this package. This file defines the root command that serves as
// the parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/mk-command/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command results are formatted as JSON.
	jsonOutput bool

	// verbose enables debug logging on stderr.
	verbose bool

	// configFile forces a specific settings file instead of the project's
	// .mkrc.yaml.
	configFile string

	// appDir overrides the app directory (default: the working directory).
	appDir string
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// logger is the CLI-wide logger. Its output and level are set from the
// global flags before any subcommand runs.
var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "mk"})

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application. It wires the
// real subprocess runner and the system DNS resolver.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultDependencies())
}

// newRootCommand builds the command tree around deps. Tests pass fakes
// so no real yarn, node or DNS lookup is involved.
//
// The root command itself does not perform any action. It only provides
// help text and global flags; the work is done by the subcommands
// (add, remove, upgrade, pkg, config).
func newRootCommand(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		// Use is the one-line usage pattern shown in help output.
		Use:   "mk",
		Short: "Package manager and packaging wrapper for mk front-end apps",
		Long: `mk wraps yarn and webpack for mk front-end apps.

It adds, removes and upgrades dependent apps against the mk registry, and
packages an app with its SDK and dependent apps into a deployable directory.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// add and remove print their own usage for a missing app name.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Execute formats them (text or JSON based on --json).
		SilenceErrors: true,

		// Version is displayed when --version flag is used.
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// PersistentPreRun runs before every subcommand, after flags are
		// parsed, so the logger honors --verbose and the command's stderr.
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.SetOutput(cmd.ErrOrStderr())
			if verbose {
				logger.SetLevel(log.DebugLevel)
			} else {
				logger.SetLevel(log.InfoLevel)
			}
		},
	}

	// Command output goes through deps so tests can capture it.
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	// PersistentFlags are inherited by all subcommands. This is the cobra
	// mechanism for global flags: any flag defined here is automatically
	// available in every subcommand without re-declaration.
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Settings file (default: <app>/.mkrc.yaml)")
	rootCmd.PersistentFlags().StringVar(&appDir, "cwd", "", "App directory (default: current directory)")

	// Register subcommands. Each subcommand is defined in its own file
	// (add.go, remove.go, etc.) and returns a *cobra.Command.
	rootCmd.AddCommand(NewAddCommand(deps))
	rootCmd.AddCommand(NewRemoveCommand(deps))
	rootCmd.AddCommand(NewUpgradeCommand(deps))
	rootCmd.AddCommand(NewPkgCommand(deps))
	rootCmd.AddCommand(NewConfigCommand(deps))

	return rootCmd
}

// Execute runs the root command and exits the process with the code of
// the returned error. This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	os.Exit(run(rootCmd))
}

// run executes rootCmd, reports the error and returns the exit code.
// It is separated from Execute so tests can check the code without
// exiting the test binary.
func run(rootCmd *cobra.Command) int {
	err := rootCmd.ExecuteContext(contextOrBackground(rootCmd))
	if err == nil {
		return int(model.ExitSuccess)
	}

	stderr := rootCmd.ErrOrStderr()

	// CLIError types carry their own exit codes. errors.As also finds a
	// CLIError wrapped by a subcommand.
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		// Quiet errors were already reported (usage text, or a child
		// process writing to the inherited stderr).
		if !cliErr.Quiet {
			printError(stderr, cliErr.Message, cliErr.Err)
		}
		return int(cliErr.Code)
	}

	// Generic error (unknown command, bad flag): exit with code 1.
	printError(stderr, err.Error(), nil)
	return int(model.ExitGeneralError)
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		// JSON errors go to stderr too; stdout is reserved for
		// successful command output.
		errObj := map[string]any{
			"message": message,
		}
		if underlying != nil {
			errObj["detail"] = underlying.Error()
		}
		data, _ := json.MarshalIndent(map[string]any{"error": errObj}, "", "  ")
		_, _ = fmt.Fprintln(w, string(data))
		return
	}

	// Text format: "Error: <message>" on stderr.
	if underlying != nil {
		_, _ = fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		_, _ = fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// VerboseLog prints a debug message to stderr only when verbose mode is
// enabled.
func VerboseLog(format string, args ...any) {
	logger.Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
