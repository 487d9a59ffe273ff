package pkgbuild

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"

	"github.com/tidwall/jsonc"
)

// LoadManifest reads a JSON manifest into a generic map. JSONC comments
// and trailing commas are tolerated. The top-level value must be an
// object.
func LoadManifest(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if m == nil {
		return nil, fmt.Errorf("failed to parse manifest %s: top-level value must be an object", path)
	}
	return m, nil
}

// MergeManifests merges manifests shallowly into a new map; keys of later
// manifests override earlier ones. Inputs are not modified.
func MergeManifests(manifests ...map[string]any) map[string]any {
	merged := make(map[string]any)
	for _, m := range manifests {
		maps.Copy(merged, m)
	}
	return merged
}

// LoadTemplateVars reads package.json and mk.json and merges them, mk.json
// winning on overlapping keys.
func LoadTemplateVars(packageJSON, mkJSON string) (map[string]any, error) {
	pkg, err := LoadManifest(packageJSON)
	if err != nil {
		return nil, err
	}
	mk, err := LoadManifest(mkJSON)
	if err != nil {
		return nil, err
	}
	return MergeManifests(pkg, mk), nil
}
