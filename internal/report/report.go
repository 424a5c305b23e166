// Package report compares a freshly packed archive against the previous
// archive at the same path and summarizes what changed.
//
// The snapshot of the previous archive is taken before the writer truncates
// it. Reporting is best-effort: a missing or unreadable previous archive is
// a silent no-op, and nothing here is ever fatal.
package report

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"github.com/pmezard/go-difflib/difflib"
)

// maxDiffBytes caps the entry size for which contents are retained and
// unified diffs printed.
const maxDiffBytes = 256 * 1024

// Snapshot holds the entries of one archive, keyed by entry name.
type Snapshot struct {
	entries map[string]entry
}

type entry struct {
	sum     string
	content []byte // nil when oversize or binary
}

// Take reads the archive at path. A missing or unreadable archive yields a
// nil snapshot, which Compare treats as "no previous version".
func Take(path string) *Snapshot {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil
	}
	defer zr.Close()

	s := &Snapshot{entries: make(map[string]entry, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			continue
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		sum := sha256.Sum256(b)
		e := entry{sum: hex.EncodeToString(sum[:])}
		if len(b) <= maxDiffBytes && isText(b) {
			e.content = b
		}
		s.entries[f.Name] = e
	}
	return s
}

// Compare prints added (A), removed (D), and changed (M) entries between
// prev and the archive now at path, with unified diffs for changed entries
// whose old and new contents are both small text. Returns the number of
// differing entries.
func Compare(w io.Writer, prev *Snapshot, path string) int {
	if prev == nil {
		return 0
	}
	curr := Take(path)
	if curr == nil {
		return 0
	}

	names := make([]string, 0, len(prev.entries)+len(curr.entries))
	for name := range prev.entries {
		names = append(names, name)
	}
	for name := range curr.entries {
		if _, ok := prev.entries[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	changed := 0
	for _, name := range names {
		p, inPrev := prev.entries[name]
		c, inCurr := curr.entries[name]
		switch {
		case !inPrev:
			fmt.Fprintf(w, "A %s\n", name)
			changed++
		case !inCurr:
			fmt.Fprintf(w, "D %s\n", name)
			changed++
		case p.sum != c.sum:
			fmt.Fprintf(w, "M %s\n", name)
			changed++
			if p.content != nil && c.content != nil {
				printDiff(w, name, p.content, c.content)
			}
		}
	}
	return changed
}

func printDiff(w io.Writer, name string, before, after []byte) {
	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "prev/" + name,
		ToFile:   name,
		Context:  3,
	}
	if text, err := difflib.GetUnifiedDiffString(u); err == nil && text != "" {
		fmt.Fprint(w, text)
	}
}

// isText is a cheap binary sniff: anything with a NUL byte is not diffed.
func isText(b []byte) bool {
	return bytes.IndexByte(b, 0) < 0
}
