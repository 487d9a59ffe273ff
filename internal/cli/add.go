package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/mk-command/internal/model"
	"github.com/shinji-kodama/mk-command/internal/pkgmgr"
)

// NewAddCommand creates the "add" cobra command.
func NewAddCommand(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "add <app-name>",
		Short: "Add a dependent app",
		Long: `Add a dependent app to the app source package with yarn.

The app is pinned to the exact version the registry resolves.

Examples:
  mk add login`,
		// Exactly one positional argument (the app name) is required.
		Args: requireAppName(model.OpAdd),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDependency(contextOrBackground(cmd), cmd, deps, pkgmgr.Request{
				Op:      model.OpAdd,
				Package: args[0],
			})
		},
	}
}
