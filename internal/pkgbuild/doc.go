// Package pkgbuild implements the mk pkg pipeline that packages a
// front-end app into a self-contained output directory.
//
// The pipeline runs seven phases in order and stops at the first failure:
//
//  1. Empty the output directory (creating it if absent)
//  2. Compile the app with the bundler
//  3. Copy the prebuilt SDK into the output directory
//  4. Scan dependent apps (node helper script)
//  5. Copy local dependent apps (node helper script)
//  6. Copy remote dependent apps (node helper script)
//  7. Render index.html from the template and the merged manifests
//
// Bundling and dependency resolution stay with webpack and the helper
// scripts shipped in mk-command; this package only sequences them, copies
// files and renders the HTML entry page.
//
// Manifests (package.json, mk.json) may contain JSONC comments, which are
// stripped with github.com/tidwall/jsonc before decoding.
package pkgbuild
