package model

import (
	"fmt"
	"strings"
)

// Operation is a package-manager subcommand that mk dispatches to yarn.
type Operation string

const (
	// OpAdd installs a single package at an exact version.
	OpAdd Operation = "add"

	// OpRemove uninstalls a single package.
	OpRemove Operation = "remove"

	// OpUpgrade upgrades every dependency of the app source package.
	OpUpgrade Operation = "upgrade"
)

// String returns the string representation of Operation.
func (o Operation) String() string {
	return string(o)
}

// IsValid checks whether the Operation value is one of the predefined
// operations.
func (o Operation) IsValid() bool {
	switch o {
	case OpAdd, OpRemove, OpUpgrade:
		return true
	default:
		return false
	}
}

// NeedsPackage reports whether the operation requires a package name
// argument. Only upgrade works on the whole dependency set.
func (o Operation) NeedsPackage() bool {
	return o == OpAdd || o == OpRemove
}

// ChecksReachability reports whether the operation consults the network
// reachability check before running. add always runs online, which mirrors
// the historic behavior of the add script.
func (o Operation) ChecksReachability() bool {
	return o == OpRemove || o == OpUpgrade
}

// ParseOperation converts a string to an Operation.
// Returns an error if the string does not match any valid operation.
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(s))
	if !op.IsValid() {
		return "", fmt.Errorf("invalid operation: %q (valid: add, remove, upgrade)", s)
	}
	return op, nil
}

// Phase identifies one step of the seven-phase pkg pipeline.
// Phases are numbered from 1 so the value doubles as the "[n/7]" step tag.
type Phase int

const (
	PhaseEmptyDir Phase = iota + 1
	PhaseBundle
	PhaseCopySDK
	PhaseScanDeps
	PhaseCopyLocalDeps
	PhaseCopyRemoteDeps
	PhaseRenderHTML
)

// PhaseCount is the number of phases in the pkg pipeline.
const PhaseCount = int(PhaseRenderHTML)

// phaseTitles holds the human-readable description of each phase.
var phaseTitles = map[Phase]string{
	PhaseEmptyDir:       "Emptying output directory",
	PhaseBundle:         "Compiling app",
	PhaseCopySDK:        "Copying SDK",
	PhaseScanDeps:       "Scanning dependent apps",
	PhaseCopyLocalDeps:  "Copying local dependent apps",
	PhaseCopyRemoteDeps: "Copying remote dependent apps",
	PhaseRenderHTML:     "Creating html file",
}

// Title returns the human-readable description of the phase.
func (p Phase) Title() string {
	if t, ok := phaseTitles[p]; ok {
		return t
	}
	return fmt.Sprintf("phase %d", int(p))
}

// Tag returns the "[n/7]" progress tag printed before each phase.
func (p Phase) Tag() string {
	return fmt.Sprintf("[%d/%d]", int(p), PhaseCount)
}

// IsValid checks whether the phase is within the pipeline range.
func (p Phase) IsValid() bool {
	return p >= PhaseEmptyDir && p <= PhaseRenderHTML
}

// ExitCode defines the CLI exit codes. A package manager child's own
// exit code is forwarded verbatim and may fall outside this set.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError covers usage errors, build failures, filesystem
	// errors and a package manager that could not be started.
	ExitGeneralError ExitCode = 1
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error

	// Quiet suppresses the "Error: ..." line. It is set when the failure
	// has already been reported to the user (usage text, a child process
	// that wrote its own diagnostics to the inherited stderr).
	Quiet bool
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// QuietCLIError creates a CLIError that only sets the exit code; the
// user has already seen the reason.
func QuietCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err, Quiet: true}
}
