// Package buildscan runs the project's build command and discovers the
// artifacts it reports producing.
//
// The dotnet toolchain family prints one line per produced file in the form
// "<project> -> <path>". The scanner echoes the child's stdout unmodified
// (the build log stays fully visible), watches each line for that marker,
// and records every path that exists on disk. The child's stderr is
// inherited so diagnostics reach the user in real time.
package buildscan

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"

	"modpack/internal/catalog"
)

// Arrow is the marker a build tool prints before each produced file path.
const Arrow = " -> "

var (
	// ErrEmptyCommand reports a build command with no words after tokenization.
	ErrEmptyCommand = errors.New("build command is empty")

	// ErrNoArtifacts reports a build whose output contained no recognizable
	// produced-file lines. A build that prints nothing useful would otherwise
	// yield an assets-only archive, so this is fatal even when the child
	// exits cleanly.
	ErrNoArtifacts = errors.New("no compiled files found")
)

// ParseArtifactLine extracts a produced-file path from one line of build
// output. A line is a produced-file record iff it contains Arrow; the path
// is everything after the last occurrence, whitespace-trimmed, and is only
// accepted if it exists on disk right now.
func ParseArtifactLine(line string) (string, bool) {
	i := strings.LastIndex(line, Arrow)
	if i < 0 {
		return "", false
	}
	path := strings.TrimSpace(line[i+len(Arrow):])
	if path == "" {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// Run tokenizes and spawns the build command, echoes its stdout line by line
// while watching for produced-file records, and appends every discovered
// artifact to cat, flattened to its file name. When pdb is set, an existing
// .pdb sibling of each artifact from this invocation is appended too.
// Returns the number of entries added; zero is ErrNoArtifacts.
//
// The child's exit status is reaped but not otherwise inspected: success is
// inferred entirely from the recognized artifacts.
func Run(build string, pdb bool, cat *catalog.Catalog) (int, error) {
	fmt.Printf("Compiling with: %s\n\n", build)

	parts, err := shlex.Split(build)
	if err != nil {
		return 0, fmt.Errorf("invalid build command %q: %w", build, err)
	}
	if len(parts) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrEmptyCommand, build)
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stderr = os.Stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("pipe build output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("execute build command %q: %w", build, err)
	}

	var artifacts []string
	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		fmt.Println(line)
		if src, ok := ParseArtifactLine(line); ok {
			cat.AddFlat(src)
			artifacts = append(artifacts, src)
		}
	}
	scanErr := sc.Err()
	_ = cmd.Wait()
	if scanErr != nil {
		return 0, fmt.Errorf("read build output: %w", scanErr)
	}

	count := len(artifacts)
	if pdb {
		for _, src := range artifacts {
			sibling := withExt(src, ".pdb")
			if _, err := os.Stat(sibling); err == nil {
				cat.AddFlat(sibling)
				count++
			}
		}
	}

	fmt.Println()
	if count == 0 {
		return 0, ErrNoArtifacts
	}
	fmt.Printf("Compiled %d files\n", count)
	return count, nil
}

// withExt swaps the extension of path for ext, appending when the file name
// has none.
func withExt(path, ext string) string {
	old := filepath.Ext(path)
	return path[:len(path)-len(old)] + ext
}
