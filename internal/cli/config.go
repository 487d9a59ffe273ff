package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/mk-command/internal/model"
	"github.com/shinji-kodama/mk-command/internal/pkgbuild"
	"github.com/shinji-kodama/mk-command/internal/webconfig"
)

// mkJSONConfigKey is the mk.json object merged into the runtime
// configuration.
const mkJSONConfigKey = "config"

// configFlags holds the flag values for the config command.
type configFlags struct {
	// set holds repeated key=value overrides.
	set []string
}

// NewConfigCommand creates the "config" cobra command.
func NewConfigCommand(_ *Dependencies) *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the runtime configuration of the app",
		Long: `Show the runtime configuration handed to the packaged app.

The configuration starts with the default web API handle and an empty web API
map, then merges the "config" object of mk.json and every --set override, in
that order. Later values replace earlier ones key by key.

Examples:
  mk config
  mk config --set webapi=/v2/
  mk config --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(cmd, flags)
		},
	}

	cmd.Flags().StringArrayVar(&flags.set, "set", nil, "Override a configuration key (key=value, repeatable)")

	return cmd
}

func runConfig(cmd *cobra.Command, flags *configFlags) error {
	overrides, err := webconfig.ParseAssignments(flags.set)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid --set value", err)
	}

	prj, err := loadProject(contextOrBackground(cmd))
	if err != nil {
		return err
	}

	registry := webconfig.New(prj.settings.WebAPI)

	fromManifest, err := manifestConfig(prj.paths.MkJSON)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to read mk.json", err)
	}
	registry.Configure(fromManifest)
	registry.Configure(overrides)

	if IsJSONOutput() {
		return printJSON(cmd.OutOrStdout(), registry.Current())
	}

	data, err := yaml.Marshal(map[string]any(registry.Current()))
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to marshal configuration", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}

// manifestConfig returns the "config" object of mk.json. A missing mk.json
// or a missing key yields nil.
func manifestConfig(mkJSON string) (webconfig.Options, error) {
	if _, err := os.Stat(mkJSON); os.IsNotExist(err) {
		VerboseLog("no mk.json at %s", mkJSON)
		return nil, nil
	}

	manifest, err := pkgbuild.LoadManifest(mkJSON)
	if err != nil {
		return nil, err
	}

	raw, ok := manifest[mkJSONConfigKey]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%q must be an object, got %T", mkJSONConfigKey, raw)
	}
	return webconfig.Options(obj), nil
}
