package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/mk-command/internal/model"
	"github.com/shinji-kodama/mk-command/internal/pkgmgr"
)

// NewUpgradeCommand creates the "upgrade" cobra command.
func NewUpgradeCommand(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade all dependent apps",
		Long: `Upgrade every dependency of the app source package with yarn.

When the registry cannot be reached, yarn runs with --offline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDependency(contextOrBackground(cmd), cmd, deps, pkgmgr.Request{
				Op: model.OpUpgrade,
			})
		},
	}
}
