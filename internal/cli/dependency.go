package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/mk-command/internal/model"
	"github.com/shinji-kodama/mk-command/internal/pkgmgr"
	"github.com/shinji-kodama/mk-command/internal/proc"
)

// dependencyResult is the --json output of add, remove and upgrade.
type dependencyResult struct {
	Operation string   `json:"operation"`
	Package   string   `json:"package,omitempty"`
	Offline   bool     `json:"offline"`
	Command   []string `json:"command"`
}

// requireAppName validates the single app-name argument of add and remove.
// A missing argument prints usage with an example and exits 1 without
// running anything.
func requireAppName(op model.Operation) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
			return nil
		}
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), appNameUsage(op))
		return model.QuietCLIError(model.ExitGeneralError,
			fmt.Sprintf("%s requires exactly one app name", op), nil)
	}
}

func appNameUsage(op model.Operation) string {
	return fmt.Sprintf("Please specify the app to %s:\n  %s\n\nFor example:\n  %s\n",
		op,
		exampleStyle.Render(fmt.Sprintf("mk %s <app-name>", op)),
		exampleStyle.Render(fmt.Sprintf("mk %s login", op)),
	)
}

// runDependency runs one package-manager operation for the app source
// package. The child's exit code becomes mk's exit code.
func runDependency(ctx context.Context, cmd *cobra.Command, deps *Dependencies, req pkgmgr.Request) error {
	prj, err := loadProject(ctx)
	if err != nil {
		return err
	}
	s := prj.settings

	mgr := pkgmgr.NewManager(deps.Runner, newChecker(s, deps), s.PackageManager, s.Registry, prj.paths.AppSrc)
	mgr.OnOffline = func(op model.Operation) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), warningStyle.Render(
			fmt.Sprintf("Could not reach %s, please connect to the network. Running %s offline.",
				s.Network.ReachabilityHost, op)))
	}

	VerboseLog("registry: %s", s.Registry)
	out, err := mgr.Run(ctx, req)
	if out.Command.Name != "" {
		VerboseLog("ran: %s", out.Command.String())
	}
	if err != nil {
		return packageManagerError(s.PackageManager, err)
	}

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), dependencyResult{
			Operation: req.Op.String(),
			Package:   req.Package,
			Offline:   out.Offline,
			Command:   append([]string{out.Command.Name}, out.Command.Args...),
		})
	}
	return nil
}

// packageManagerError maps a package manager failure to a CLIError. A
// child that ran and failed has already reported to the inherited stderr,
// so only its exit code is forwarded.
func packageManagerError(binary string, err error) error {
	code, ok := proc.ExitCodeOf(err)
	if !ok {
		return model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("failed to run %s", binary), err)
	}
	if code <= 0 {
		// Killed by a signal.
		return model.WrapCLIError(model.ExitGeneralError, fmt.Sprintf("%s was terminated", binary), err)
	}
	return model.QuietCLIError(model.ExitCode(code), fmt.Sprintf("%s exited with code %d", binary, code), err)
}
