// Package bundler runs a single webpack compilation for the pkg pipeline.
//
// Bundling itself is left to webpack. This package only starts it with
// --json, decodes the stats it prints on stdout and classifies the result:
//   - compiler-level failure: webpack could not start, crashed, or printed
//     no stats (returned as a plain wrapped error)
//   - compilation errors: the stats list one or more errors (returned as
//     *CompileError carrying only the first message)
//   - success: warnings are returned to the caller for logging
package bundler
