// Package collect implements the recursive, filter-driven collector that
// feeds asset, include, and source files into the packaging catalog.
//
// Symlinks are classified by their own metadata (Lstat) and never followed:
// a symlinked directory is treated as an opaque non-directory entry and is
// normally filtered out. This forgoes symlinked trees but cannot loop on
// self-referential links.
package collect

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modpack/internal/catalog"
)

// Filter decides whether a non-directory path is collected.
type Filter func(path string) bool

// ErrOutsideBase reports a base/root mismatch: a collected file did not live
// under the base its archive target should be computed against.
var ErrOutsideBase = errors.New("path outside base")

// Tree walks root and appends every non-directory descendant accepted by
// filter, with targets relative to base. A missing root is a silent no-op.
// Traversal order follows the platform's directory listing and is not part
// of the contract.
func Tree(cat *catalog.Catalog, root, base string, filter Filter) error {
	info, err := os.Lstat(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}

	if info.IsDir() {
		entries, err := os.ReadDir(root)
		if err != nil {
			return fmt.Errorf("read dir %s: %w", root, err)
		}
		for _, e := range entries {
			if err := Tree(cat, filepath.Join(root, e.Name()), base, filter); err != nil {
				return err
			}
		}
		return nil
	}

	if !filter(root) {
		return nil
	}
	target, err := filepath.Rel(base, root)
	if err != nil || target == ".." || strings.HasPrefix(target, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s is not under %s", ErrOutsideBase, root, base)
	}
	cat.Add(root, target)
	return nil
}

// Assets collects every file under each declared asset directory, with
// targets relative to that directory's own root. Missing directories are
// tolerated.
func Assets(cat *catalog.Catalog, dirs []string) error {
	for _, dir := range dirs {
		if err := Tree(cat, dir, dir, func(string) bool { return true }); err != nil {
			return err
		}
	}
	return nil
}

// Includes appends each include path as a single entry flattened to its base
// name. Existence is not checked here; a vanished or directory include is
// dropped by the archive writer.
func Includes(cat *catalog.Catalog, paths []string) {
	for _, p := range paths {
		cat.AddFlat(p)
	}
}

// Sources collects source files by extension from each existing source
// directory. The base is the directory's parent, so the directory's own name
// is kept as the top-level folder inside the archive.
func Sources(cat *catalog.Catalog, dirs, exts []string) error {
	filter := ExtFilter(exts)
	for _, dir := range dirs {
		if _, err := os.Lstat(dir); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := Tree(cat, dir, filepath.Dir(dir), filter); err != nil {
			return err
		}
	}
	return nil
}

// ExtFilter returns a Filter accepting files whose extension matches one of
// exts, case-insensitively. Extensions may be given with or without the
// leading dot.
func ExtFilter(exts []string) Filter {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return func(path string) bool {
		_, ok := set[strings.ToLower(filepath.Ext(path))]
		return ok
	}
}
