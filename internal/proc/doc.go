// Package proc runs the external tools mk wraps (yarn, webpack, node).
//
// Every subprocess goes through the Runner interface so the command
// dispatchers and the pkg pipeline can be tested without spawning real
// processes. Unlike a plain exec.Command().Run(), a non-zero exit is always
// surfaced as a typed *ExitError carrying the child's exit code.
//
// Design decisions:
//   - Children inherit the parent's stdio by default; a tool like yarn
//     draws its own progress output and the user must see it unchanged.
//   - Extra environment variables are appended to os.Environ() so a child
//     sees the caller's environment plus the overrides (last value wins).
//   - Command strings from settings are split with mvdan.cc/sh so quoting
//     and $VAR expansion follow POSIX shell rules without invoking a shell.
package proc
