package meta

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modpack/internal/catalog"
)

// ResolveOutput returns the archive path: explicit when given, otherwise
// bin/Mod/<name>-<version>.zip synthesized from the first existing mod.json
// among the collected entries. The parent directory is created when missing;
// an empty or already-existing parent is left untouched.
func ResolveOutput(explicit string, cat *catalog.Catalog) (string, error) {
	out := explicit
	if out == "" {
		src, ok := cat.FindByName(DescriptorName)
		if !ok {
			return "", ErrNoDescriptor
		}
		m, err := Load(src)
		if err != nil {
			return "", err
		}
		out = filepath.Join("bin", "Mod", fmt.Sprintf("%s-%s.zip", m.Name, m.Version))
	}

	if parent := filepath.Dir(out); parent != "." {
		if _, err := os.Stat(parent); errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return "", fmt.Errorf("create directory %s: %w", parent, err)
			}
		}
	}
	return out, nil
}
