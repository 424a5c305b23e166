// Package zipbundle writes the final mod archive.
//
// Design goals:
//   - Deterministic output (fixed entry timestamps, catalog insertion order)
//   - Safe ZIP paths (no absolute paths, no traversal, Windows-safe)
//   - Lazy filtering: sources that vanished or turned out to be directories
//     are skipped at write time, never reported as errors
package zipbundle

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"modpack/internal/catalog"
)

// ManifestName is the archive entry holding the embedded manifest.
const ManifestName = "modpack.manifest.json"

// ManifestEntry describes one written archive entry.
type ManifestEntry struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Write creates (or truncates) the archive at path and stores every
// existing, non-directory catalog entry under its normalized target, in
// insertion order. Duplicate targets are written as-is; the zip format's
// duplicate-name handling is inherited. When manifest is set, a
// modpack.manifest.json entry describing the written files is appended last.
func Write(path string, entries []catalog.Entry, manifest bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file %s: %w", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	listed := make([]ManifestEntry, 0, len(entries))
	for _, e := range entries {
		st, err := os.Stat(e.Source)
		if err != nil || st.IsDir() {
			continue
		}
		name := SanitizePath(e.Target)
		sum, n, err := writeFileEntry(zw, name, e.Source)
		if err != nil {
			return err
		}
		listed = append(listed, ManifestEntry{Path: name, Size: n, SHA256: sum})
	}
	if manifest {
		if err := writeJSONEntry(zw, ManifestName, listed); err != nil {
			return err
		}
	}
	// A failed close means the central directory may be missing; the archive
	// must be considered corrupt.
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive %s: %w", path, err)
	}
	return nil
}

// writeFileEntry streams the file at src into the archive under name and
// returns its sha256 and size.
func writeFileEntry(zw *zip.Writer, name, src string) (string, int64, error) {
	w, err := newEntry(zw, name)
	if err != nil {
		return "", 0, err
	}
	f, err := os.Open(src)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", src, err)
	}
	defer f.Close()
	sum := sha256.New()
	n, err := io.Copy(w, io.TeeReader(f, sum))
	if err != nil {
		return "", 0, fmt.Errorf("write entry %s: %w", name, err)
	}
	return hex.EncodeToString(sum.Sum(nil)), n, nil
}
