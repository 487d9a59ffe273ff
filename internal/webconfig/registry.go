// Package webconfig holds the runtime configuration handed to the packaged
// front-end app: the default web API handle and the web API mapping.
//
// The registry is an explicit value. Callers create one with New and pass
// it to whatever needs to read or extend the configuration; there is no
// package-level instance.
package webconfig

import (
	"fmt"
	"maps"
	"strings"
)

const (
	// KeyWebAPI holds the default web API handle.
	KeyWebAPI = "webapi"

	// KeyWebAPIMap holds the web API mapping, empty by default.
	KeyWebAPIMap = "webapiMap"
)

// Options is a set of configuration keys.
type Options map[string]any

// Registry is a mutable configuration mapping. Configure merges options
// shallowly: last write wins per key, nested values are replaced whole.
type Registry struct {
	current Options
}

// New creates a registry seeded with webapi and an empty webapiMap.
func New(webapi any) *Registry {
	return &Registry{
		current: Options{
			KeyWebAPI:    webapi,
			KeyWebAPIMap: map[string]any{},
		},
	}
}

// Configure shallow-merges opts into the registry. Nil or empty opts is a
// no-op.
func (r *Registry) Configure(opts Options) {
	if len(opts) == 0 {
		return
	}
	maps.Copy(r.current, opts)
}

// Current returns the live configuration. Mutations through the returned
// map are visible to every holder of the registry.
func (r *Registry) Current() Options {
	return r.current
}

// ParseAssignments turns "key=value" strings into Options. Values are kept
// as strings; a key without "=" is an error.
func ParseAssignments(pairs []string) (Options, error) {
	opts := Options{}
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected key=value)", p)
		}
		opts[key] = value
	}
	return opts, nil
}
