// Package paths computes the filesystem locations mk works with.
//
// All locations are derived once from the app directory (the directory mk
// was invoked in, or --cwd) and the path settings. A Paths value is never
// mutated after Resolve returns.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/mk-command/internal/config"
)

// Paths holds the named locations of an mk project.
type Paths struct {
	// AppPath is the absolute, symlink-resolved project directory.
	AppPath string

	// AppSrc is the directory yarn operates in (--cwd).
	AppSrc string

	// AppPackage is the pkg output directory.
	AppPackage string

	// AppIndexJS is the app entry file.
	AppIndexJS string

	// AppHTML is the index.html template.
	AppHTML string

	// PackageJSON and MkJSON are the two manifests merged for templating.
	PackageJSON string
	MkJSON      string

	// Toolkit is the installed mk-command package.
	Toolkit string

	// SDKDir is the prebuilt SDK copied into AppPackage.
	SDKDir string

	// ScriptsDir holds the node helper scripts (scan, copy-local-dep, ...).
	ScriptsDir string
}

// Resolve derives every location from appDir and the path settings.
// Relative settings are joined to the app directory; absolute ones are
// used as-is.
func Resolve(appDir string, s config.PathSettings) (*Paths, error) {
	abs, err := filepath.Abs(appDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve app directory %s: %w", appDir, err)
	}
	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve app directory %s: %w", abs, err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(root, p)
	}

	toolkit := resolve(s.Toolkit)
	p := &Paths{
		AppPath:     root,
		AppSrc:      resolve(s.Src),
		AppPackage:  resolve(s.Package),
		AppIndexJS:  resolve(s.IndexJS),
		AppHTML:     resolve(s.HTMLTemplate),
		PackageJSON: filepath.Join(root, "package.json"),
		MkJSON:      filepath.Join(root, "mk.json"),
		Toolkit:     toolkit,
		SDKDir:      filepath.Join(toolkit, "sdk", "release"),
		ScriptsDir:  filepath.Join(toolkit, "scripts"),
	}

	// pkg empties AppPackage before every build.
	for _, protected := range []string{p.AppPath, p.AppSrc, p.Toolkit} {
		if contains(p.AppPackage, protected) {
			return nil, fmt.Errorf("output directory %s must not contain %s", p.AppPackage, protected)
		}
	}
	return p, nil
}

// contains reports whether path is dir or lies below it.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Script returns the absolute path of a toolkit helper script.
func (p *Paths) Script(name string) string {
	return filepath.Join(p.ScriptsDir, name)
}

// CheckRequiredFiles returns an error naming the first file that does not
// exist. Directories do not satisfy the check.
func CheckRequiredFiles(files ...string) error {
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return fmt.Errorf("could not find a required file: %s", f)
		}
		if info.IsDir() {
			return fmt.Errorf("required file is a directory: %s", f)
		}
	}
	return nil
}
