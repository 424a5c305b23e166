// Package main provides the modpack CLI, which packages a mod project's
// build outputs, static assets, and metadata into a single distributable
// zip archive.
//
// Modes:
//   - compile : modpack -compile [flags]  run the build command and harvest
//     the artifacts it reports producing (plus .pdb companions)
//   - source  : modpack [flags]           skip the build and bundle raw
//     source files instead
//
// Key design goals:
//   - Deterministic output (fixed ZIP timestamps, catalog insertion order)
//   - Full transparency of the underlying build tool's log
//   - Clear, minimal CLI flags with sensible defaults
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"modpack/internal/buildscan"
	"modpack/internal/catalog"
	"modpack/internal/collect"
	"modpack/internal/meta"
	"modpack/internal/report"
	"modpack/internal/zipbundle"
)

// Config carries the parsed CLI flags.
type Config struct {
	assets   []string
	build    string
	compile  bool
	include  []string
	output   string
	pdb      bool
	sources  []string
	srcExts  []string
	manifest bool
	diffPrev bool
}

// splitCSV converts a comma-separated list into a slice without trimming.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, 8)
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			p := s[start:i]
			if p != "" {
				out = append(out, p)
			}
			start = i + 1
		}
	}
	return out
}

func parseFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("modpack", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}

	// Inputs
	assetsFlag := fs.String("assets", "assets",
		"comma-separated asset directories to include")
	includeFlag := fs.String("include", "Locals,LICENSE,default_config.json,icon.png,mod.json",
		"comma-separated additional files or directories to include")
	sourcesFlag := fs.String("sources", "Code,code,src",
		"comma-separated source directories (used when not compiling)")
	srcExtFlag := fs.String("src-ext", ".cs",
		"comma-separated source extensions to include (case-insensitive)")

	// Build
	buildFlag := fs.String("build", "dotnet build", "command used to build the project")
	compileFlag := fs.Bool("compile", false, "build the project and bundle the reported artifacts")
	pdbFlag := fs.Bool("pdb", true, "bundle .pdb debug symbols next to compiled artifacts")

	// Output
	outputFlag := fs.String("output", "",
		"final path of the packed zip (default bin/Mod/<name>-<version>.zip)")
	manifestFlag := fs.Bool("manifest", false,
		"embed a modpack.manifest.json entry listing the packed files")
	diffPrevFlag := fs.Bool("diff-prev", false,
		"report changes against the previous archive at the output path")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() != 0 {
		return Config{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	return Config{
		assets:   splitCSV(*assetsFlag),
		build:    *buildFlag,
		compile:  *compileFlag,
		include:  splitCSV(*includeFlag),
		output:   *outputFlag,
		pdb:      *pdbFlag,
		sources:  splitCSV(*sourcesFlag),
		srcExts:  splitCSV(*srcExtFlag),
		manifest: *manifestFlag,
		diffPrev: *diffPrevFlag,
	}, nil
}

// run drives the pipeline: collect assets and includes, resolve the output
// path, fill the catalog from the build scan or the source tree, write the
// archive, and report.
func run(cfg Config) error {
	cat := catalog.New()

	if err := collect.Assets(cat, cfg.assets); err != nil {
		return err
	}
	collect.Includes(cat, cfg.include)

	output, err := meta.ResolveOutput(cfg.output, cat)
	if err != nil {
		return err
	}

	if cfg.compile {
		if _, err := buildscan.Run(cfg.build, cfg.pdb, cat); err != nil {
			return err
		}
	} else {
		if err := collect.Sources(cat, cfg.sources, cfg.srcExts); err != nil {
			return err
		}
	}

	var prev *report.Snapshot
	if cfg.diffPrev {
		prev = report.Take(output)
	}

	if err := zipbundle.Write(output, cat.Entries(), cfg.manifest); err != nil {
		return err
	}

	if prev != nil {
		if n := report.Compare(os.Stdout, prev, output); n == 0 {
			fmt.Println("No changes since previous archive")
		}
	}

	printPackedMessage(output)
	return nil
}

// printPackedMessage prints the final confirmation naming the archive's
// absolute path, wrapped in an OSC 8 terminal hyperlink.
func printPackedMessage(output string) {
	abs := output
	if !filepath.IsAbs(abs) {
		if wd, err := os.Getwd(); err == nil {
			abs = filepath.Join(wd, output)
		}
	}
	uri := "file://" + filepath.ToSlash(abs)
	fmt.Printf("Packed mod at: \x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\\n", uri, abs)
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}
