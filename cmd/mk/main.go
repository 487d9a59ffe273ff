// Package main is the entry point for the mk CLI.
//
// It delegates all functionality to the internal/cli package, which defines
// the cobra commands. Build-time variables (version, commit, date) are
// injected via ldflags and default to "dev", "none", and "unknown".
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/shinji-kodama/mk-command/internal/cli"
)

// version, commit, and date are set at build time via ldflags
// (-X main.version=...). They provide binary identification for the
// --version flag output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package. This keeps
	// the build system out of the cobra command definitions.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Ctrl-C cancels the context, which kills a running yarn, webpack or
	// helper script and aborts a pending DNS lookup.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Create the root command with all subcommands registered, attach
	// the signal context, then execute it. Execute handles error
	// formatting and exit codes.
	rootCmd := cli.NewRootCommand()
	rootCmd.SetContext(ctx)
	cli.Execute(rootCmd)
}
