// Package meta reads the mod.json project descriptor and resolves the final
// archive path.
package meta

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DescriptorName is the metadata file looked up among the collected entries
// when no explicit output path is given.
const DescriptorName = "mod.json"

// ErrNoDescriptor reports that no existing mod.json was found among the
// collected files.
var ErrNoDescriptor = errors.New("failed to find 'mod.json' in assets")

// ModInfo is the slice of mod.json this tool consumes. Any other fields in
// the descriptor are ignored.
type ModInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Load reads and parses a mod.json descriptor. Name and version are both
// required.
func Load(path string) (ModInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ModInfo{}, fmt.Errorf("read %s: %w", path, err)
	}
	var m ModInfo
	if err := json.Unmarshal(b, &m); err != nil {
		return ModInfo{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if m.Name == "" || m.Version == "" {
		return ModInfo{}, fmt.Errorf("parse %s: name and version are required", path)
	}
	return m, nil
}
