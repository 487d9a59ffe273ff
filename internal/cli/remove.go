package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/mk-command/internal/model"
	"github.com/shinji-kodama/mk-command/internal/pkgmgr"
)

// NewRemoveCommand creates the "remove" cobra command.
func NewRemoveCommand(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <app-name>",
		Short: "Remove a dependent app",
		Long: `Remove a dependent app from the app source package with yarn.

When the registry cannot be reached, yarn runs with --offline.

Examples:
  mk remove login`,
		// Exactly one positional argument (the app name) is required.
		Args: requireAppName(model.OpRemove),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDependency(contextOrBackground(cmd), cmd, deps, pkgmgr.Request{
				Op:      model.OpRemove,
				Package: args[0],
			})
		},
	}
}
