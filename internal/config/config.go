package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name, also used as the env prefix.
	AppName = "mk"

	// ConfigFileName is the project-level settings file name (without extension).
	ConfigFileName = ".mkrc"

	// ConfigFileExt is the settings file extension.
	ConfigFileExt = "yaml"

	// DefaultRegistryURL is the package registry passed to yarn with --registry.
	DefaultRegistryURL = "http://localhost:4873"

	// DefaultReachabilityHost is resolved to decide whether yarn runs offline.
	DefaultReachabilityHost = "registry.yarnpkg.com"
)

// Settings holds every tunable of the mk CLI.
type Settings struct {
	// Registry is the custom registry URL for every yarn invocation.
	Registry string `mapstructure:"registry"`

	// PackageManager is the package manager executable.
	PackageManager string `mapstructure:"package_manager"`

	// Node is the node executable used to run the mk-command helper scripts.
	Node string `mapstructure:"node"`

	// Network configures the reachability check.
	Network NetworkSettings `mapstructure:"network"`

	// Paths configures the project layout, relative to the app directory.
	Paths PathSettings `mapstructure:"paths"`

	// Build configures the pkg pipeline.
	Build BuildSettings `mapstructure:"build"`

	// WebAPI is the default web API handle seeded into the runtime
	// configuration registry.
	WebAPI string `mapstructure:"webapi"`
}

// NetworkSettings configures the reachability check.
type NetworkSettings struct {
	// ReachabilityHost is the DNS name looked up to detect connectivity.
	ReachabilityHost string `mapstructure:"reachability_host"`

	// LookupTimeout bounds each DNS lookup. Zero means no timeout.
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`

	// NPMProxyFallback enables `npm config get https-proxy` when no proxy
	// is set in the environment.
	NPMProxyFallback bool `mapstructure:"npm_proxy_fallback"`
}

// PathSettings configures the project layout.
type PathSettings struct {
	// Src is the app source package directory yarn operates in (--cwd).
	Src string `mapstructure:"src"`

	// Package is the pkg output directory.
	Package string `mapstructure:"package"`

	// IndexJS is the app entry file that must exist before packaging.
	IndexJS string `mapstructure:"index_js"`

	// HTMLTemplate is the index.html template rendered in the last phase.
	HTMLTemplate string `mapstructure:"html_template"`

	// Toolkit is the installed mk-command package directory.
	Toolkit string `mapstructure:"toolkit"`
}

// BuildSettings configures the pkg pipeline.
type BuildSettings struct {
	// BundlerCommand is the bundler command line. It must print webpack
	// stats JSON on stdout (webpack --json).
	BundlerCommand string `mapstructure:"bundler_command"`

	// Minify toggles HTML/CSS/JS minification of index.html.
	Minify bool `mapstructure:"minify"`

	// Profile is the build profile passed to the dependency copy scripts.
	Profile string `mapstructure:"profile"`
}

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific settings file when set.
	// A missing file is an error.
	ConfigFilePath string

	// ProjectDir is searched for .mkrc.yaml when ConfigFilePath is empty.
	// A missing file there is not an error.
	ProjectDir string
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Registry:       DefaultRegistryURL,
		PackageManager: "yarnpkg",
		Node:           "node",
		Network: NetworkSettings{
			ReachabilityHost: DefaultReachabilityHost,
			NPMProxyFallback: true,
		},
		Paths: PathSettings{
			Src:          "src",
			Package:      "dist",
			IndexJS:      "index.js",
			HTMLTemplate: "index.html",
			Toolkit:      filepath.Join("node_modules", "mk-command"),
		},
		Build: BuildSettings{
			BundlerCommand: "node node_modules/webpack/bin/webpack.js --config node_modules/mk-command/config/webpack.config.pkg.js --json",
			Minify:         true,
			Profile:        "release",
		},
		WebAPI: "/v1/",
	}
}

// Load resolves the settings from defaults, the settings file and the
// environment.
func Load(ctx context.Context, opts LoadOptions) (*Settings, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load settings canceled: %w", ctx.Err())
	default:
	}

	v := newViper()

	switch {
	case opts.ConfigFilePath != "":
		if _, err := os.Stat(opts.ConfigFilePath); err != nil {
			return nil, fmt.Errorf("settings file not found: %s: %w", opts.ConfigFilePath, err)
		}
		v.SetConfigFile(opts.ConfigFilePath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", opts.ConfigFilePath, err)
		}
	case opts.ProjectDir != "":
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(opts.ProjectDir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read %s.%s: %w", ConfigFileName, ConfigFileExt, err)
			}
			// No project settings file: defaults and env only.
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// newViper builds a viper instance with defaults and env binding.
// Every key gets a default so AutomaticEnv can override it during Unmarshal.
func newViper() *viper.Viper {
	v := viper.New()

	d := DefaultSettings()
	v.SetDefault("registry", d.Registry)
	v.SetDefault("package_manager", d.PackageManager)
	v.SetDefault("node", d.Node)
	v.SetDefault("network.reachability_host", d.Network.ReachabilityHost)
	v.SetDefault("network.lookup_timeout", d.Network.LookupTimeout)
	v.SetDefault("network.npm_proxy_fallback", d.Network.NPMProxyFallback)
	v.SetDefault("paths.src", d.Paths.Src)
	v.SetDefault("paths.package", d.Paths.Package)
	v.SetDefault("paths.index_js", d.Paths.IndexJS)
	v.SetDefault("paths.html_template", d.Paths.HTMLTemplate)
	v.SetDefault("paths.toolkit", d.Paths.Toolkit)
	v.SetDefault("build.bundler_command", d.Build.BundlerCommand)
	v.SetDefault("build.minify", d.Build.Minify)
	v.SetDefault("build.profile", d.Build.Profile)
	v.SetDefault("webapi", d.WebAPI)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Validate rejects settings that would make every command fail later
// with a less obvious error.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Registry) == "" {
		return fmt.Errorf("invalid settings: registry must not be empty")
	}
	if strings.TrimSpace(s.PackageManager) == "" {
		return fmt.Errorf("invalid settings: package_manager must not be empty")
	}
	if strings.TrimSpace(s.Node) == "" {
		return fmt.Errorf("invalid settings: node must not be empty")
	}
	if strings.TrimSpace(s.Build.BundlerCommand) == "" {
		return fmt.Errorf("invalid settings: build.bundler_command must not be empty")
	}
	if s.Paths.Package == "" {
		return fmt.Errorf("invalid settings: paths.package must not be empty")
	}
	if s.Network.LookupTimeout < 0 {
		return fmt.Errorf("invalid settings: network.lookup_timeout must not be negative")
	}
	return nil
}
