package cli

import (
	"context"
	"io"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/mk-command/internal/config"
	"github.com/shinji-kodama/mk-command/internal/model"
	"github.com/shinji-kodama/mk-command/internal/netcheck"
	"github.com/shinji-kodama/mk-command/internal/paths"
	"github.com/shinji-kodama/mk-command/internal/proc"
)

// Dependencies are the collaborators the commands reach the outside
// world through.
type Dependencies struct {
	// Runner spawns yarn, node, webpack and npm.
	Runner proc.Runner

	// Resolver performs the registry reachability lookups.
	Resolver netcheck.Resolver

	// Stdout and Stderr receive the CLI's own output.
	Stdout io.Writer
	Stderr io.Writer
}

func defaultDependencies() *Dependencies {
	return &Dependencies{
		Runner:   proc.NewExecRunner(),
		Resolver: net.DefaultResolver,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// project bundles the settings and locations of the app mk runs against.
type project struct {
	settings *config.Settings
	paths    *paths.Paths
}

// loadProject resolves the app directory from --cwd (or the working
// directory), loads its settings and derives its paths.
func loadProject(ctx context.Context) (*project, error) {
	dir := appDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
		}
		dir = wd
	}

	settings, err := config.Load(ctx, config.LoadOptions{
		ConfigFilePath: configFile,
		ProjectDir:     dir,
	})
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to load settings", err)
	}

	p, err := paths.Resolve(dir, settings.Paths)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to resolve project paths", err)
	}

	VerboseLog("app directory: %s", p.AppPath)
	return &project{settings: settings, paths: p}, nil
}

// newChecker builds the registry reachability check from settings.
func newChecker(s *config.Settings, deps *Dependencies) *netcheck.Checker {
	proxies := &netcheck.EnvProxySource{}
	if s.Network.NPMProxyFallback {
		proxies.Runner = deps.Runner
	}
	return netcheck.NewChecker(s.Network.ReachabilityHost,
		netcheck.WithResolver(deps.Resolver),
		netcheck.WithProxySource(proxies),
		netcheck.WithTimeout(s.Network.LookupTimeout),
	)
}

// contextOrBackground returns the command's context, which is nil when the
// command was executed without one.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
