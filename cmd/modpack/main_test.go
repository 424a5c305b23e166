package main

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"modpack/internal/buildscan"
	"modpack/internal/meta"
)

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if !reflect.DeepEqual(cfg.assets, []string{"assets"}) {
		t.Fatalf("assets got %v", cfg.assets)
	}
	if cfg.build != "dotnet build" {
		t.Fatalf("build got %q", cfg.build)
	}
	if cfg.compile {
		t.Fatalf("compile should default to false")
	}
	wantInclude := []string{"Locals", "LICENSE", "default_config.json", "icon.png", "mod.json"}
	if !reflect.DeepEqual(cfg.include, wantInclude) {
		t.Fatalf("include got %v", cfg.include)
	}
	if !cfg.pdb {
		t.Fatalf("pdb should default to true")
	}
	if !reflect.DeepEqual(cfg.sources, []string{"Code", "code", "src"}) {
		t.Fatalf("sources got %v", cfg.sources)
	}
	if !reflect.DeepEqual(cfg.srcExts, []string{".cs"}) {
		t.Fatalf("srcExts got %v", cfg.srcExts)
	}
	if cfg.output != "" || cfg.manifest || cfg.diffPrev {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseFlagsOverrides(t *testing.T) {
	args := []string{
		"-assets", "art,static", "-build", "msbuild /t:Build", "-compile",
		"-output", "out/pack.zip", "-pdb=false", "-src-ext", ".cs,.fs",
		"-manifest", "-diff-prev",
	}
	cfg, err := parseFlags(args)
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if !reflect.DeepEqual(cfg.assets, []string{"art", "static"}) {
		t.Fatalf("assets got %v", cfg.assets)
	}
	if cfg.build != "msbuild /t:Build" || !cfg.compile || cfg.pdb {
		t.Fatalf("build flags wrong: %+v", cfg)
	}
	if cfg.output != "out/pack.zip" || !cfg.manifest || !cfg.diffPrev {
		t.Fatalf("output flags wrong: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.srcExts, []string{".cs", ".fs"}) {
		t.Fatalf("srcExts got %v", cfg.srcExts)
	}
}

func TestParseFlagsRejectsPositional(t *testing.T) {
	if _, err := parseFlags([]string{"stray"}); err == nil {
		t.Fatalf("expected error for positional argument")
	}
}

// zipNames returns the set of entry names in the archive.
func zipNames(t *testing.T, path string) map[string]bool {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open zip %s: %v", path, err)
	}
	defer zr.Close()
	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}
	return names
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestRunSourceModeEndToEnd(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, filepath.Join("assets", "icon.png"), "png")
	writeFile(t, filepath.Join("assets", "mod.json"), `{"name":"Demo","version":"0.1.0"}`)
	writeFile(t, filepath.Join("Code", "A.cs"), "class A {}")
	writeFile(t, filepath.Join("Code", "notes.txt"), "scratch")

	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if err := run(cfg); err != nil {
		t.Fatalf("run error: %v", err)
	}

	out := filepath.Join("bin", "Mod", "Demo-0.1.0.zip")
	names := zipNames(t, out)
	for _, want := range []string{"icon.png", "mod.json", "Code/A.cs"} {
		if !names[want] {
			t.Fatalf("missing entry %q in %v", want, names)
		}
	}
	if names["Code/notes.txt"] {
		t.Fatalf("notes.txt should be filtered out: %v", names)
	}
	if len(names) != 3 {
		t.Fatalf("want exactly 3 entries, got %v", names)
	}
}

func TestRunCompileModeEndToEnd(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, filepath.Join("obj", "Lib.dll"), "dll")
	writeFile(t, filepath.Join("obj", "Lib.pdb"), "pdb")
	dll, err := filepath.Abs(filepath.Join("obj", "Lib.dll"))
	if err != nil {
		t.Fatalf("abs: %v", err)
	}

	cfg, err := parseFlags([]string{
		"-compile",
		"-build", fmt.Sprintf("echo \"Project -> %s\"", dll),
		"-output", filepath.Join("out", "pack.zip"),
	})
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if err := run(cfg); err != nil {
		t.Fatalf("run error: %v", err)
	}

	names := zipNames(t, filepath.Join("out", "pack.zip"))
	if !names["Lib.dll"] || !names["Lib.pdb"] {
		t.Fatalf("artifacts missing: %v", names)
	}
	if len(names) != 2 {
		t.Fatalf("want exactly 2 entries, got %v", names)
	}
}

func TestRunBuildWithoutArtifactsProducesNoArchive(t *testing.T) {
	t.Chdir(t.TempDir())
	out := filepath.Join("out", "pack.zip")
	cfg, err := parseFlags([]string{"-compile", "-build", "echo restore complete", "-output", out})
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	err = run(cfg)
	if !errors.Is(err, buildscan.ErrNoArtifacts) {
		t.Fatalf("expected ErrNoArtifacts, got %v", err)
	}
	if _, statErr := os.Stat(out); statErr == nil {
		t.Fatalf("archive must not be produced on build failure")
	}
}

func TestRunWithoutDescriptorFails(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}
	if err := run(cfg); !errors.Is(err, meta.ErrNoDescriptor) {
		t.Fatalf("expected ErrNoDescriptor, got %v", err)
	}
}

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{"a,,b", []string{"a", "b"}},
		{",a,", []string{"a"}},
	}
	for _, tc := range cases {
		if got := splitCSV(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitCSV(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
