// Package config loads the settings of the mk CLI using Viper.
//
// Settings come from three layers, lowest precedence first: built-in
// defaults, an optional .mkrc.yaml in the project directory (or the file
// passed with --config), and MK_* environment variables such as
// MK_REGISTRY or MK_PACKAGE_MANAGER. Nested keys use an underscore in the
// environment (build.bundler_command -> MK_BUILD_BUNDLER_COMMAND).
package config
