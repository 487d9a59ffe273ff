// Package model defines the domain types and value objects for the mk CLI.
//
// This package contains pure data structures with no external dependencies.
// Package-manager operations (Operation), build phases (Phase), exit codes
// (ExitCode) and the CLIError type that carries an exit code to the process
// boundary all live here so every other package can share them.
package model
