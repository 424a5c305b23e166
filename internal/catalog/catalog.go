// Package catalog holds the ordered list of files scheduled for packaging.
//
// The catalog is an explicit accumulator owned by the top-level orchestrator
// and handed to each pipeline phase. Entries are append-only: they are never
// mutated or removed once added, and sources that have vanished by write
// time are skipped by the archive writer, not pruned here.
package catalog

import (
	"os"
	"path/filepath"
)

// Entry maps one source file to its path inside the archive.
type Entry struct {
	Source string // filesystem path, absolute or relative to the working directory
	Target string // archive-relative path, empty when the source has no file name
}

// Catalog is the append-only list of entries bound for the archive.
type Catalog struct {
	entries []Entry
}

// New returns an empty catalog.
func New() *Catalog { return &Catalog{} }

// Add appends an entry. Insertion order is preserved; when two entries share
// a target, the zip format's duplicate-name handling decides the outcome.
func (c *Catalog) Add(source, target string) {
	c.entries = append(c.entries, Entry{Source: source, Target: target})
}

// AddFlat appends source with its base file name as the target.
func (c *Catalog) AddFlat(source string) {
	c.Add(source, fileName(source))
}

// Len reports the number of entries added so far.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns the backing slice in insertion order. Callers must treat
// it as read-only.
func (c *Catalog) Entries() []Entry { return c.entries }

// FindByName returns the source of the first entry whose source exists on
// disk and whose base file name equals name.
func (c *Catalog) FindByName(name string) (string, bool) {
	for _, e := range c.entries {
		if fileName(e.Source) != name {
			continue
		}
		if _, err := os.Stat(e.Source); err == nil {
			return e.Source, true
		}
	}
	return "", false
}

// fileName is filepath.Base minus its special cases: paths with no final
// path element ("", ".", "..", a bare root) yield the empty string.
func fileName(p string) string {
	b := filepath.Base(p)
	if b == "." || b == ".." || b == "/" || b == string(filepath.Separator) {
		return ""
	}
	return b
}
