package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "lulu.mod")

	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	return path
}

func TestParseManifest(t *testing.T) {
	path := writeManifest(t, `
module "my-app"

cfg {
  OS = "linux"
  ARCH = "amd64"
}

entry "src/main.lulu"

import mathx "vendor/mathx" manifest "vendor/mathx/manifest.json" version v1.2.3
`)

	m, err := ParseManifest(path)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}

	if m.Module != "my-app" {
		t.Fatalf("Module = %q", m.Module)
	}

	defines := m.CfgDefines()
	if defines["OS"] != "linux" || defines["ARCH"] != "amd64" {
		t.Fatalf("CfgDefines = %+v", defines)
	}

	if len(m.Entries) != 1 || m.Entries[0] != "src/main.lulu" {
		t.Fatalf("Entries = %+v", m.Entries)
	}

	if len(m.Imports) != 1 {
		t.Fatalf("expected 1 import, got %+v", m.Imports)
	}

	imp := m.Imports[0]
	if imp.Name != "mathx" || imp.Path != "vendor/mathx" || imp.Manifest != "vendor/mathx/manifest.json" {
		t.Fatalf("Import = %+v", imp)
	}

	if imp.Version == nil || imp.Version.Value != "v1.2.3" {
		t.Fatalf("Version = %+v", imp.Version)
	}
}

func TestParseManifestWithoutOptionalSections(t *testing.T) {
	path := writeManifest(t, `module "bare"`)

	m, err := ParseManifest(path)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}

	if m.Module != "bare" {
		t.Fatalf("Module = %q", m.Module)
	}

	if len(m.Cfg) != 0 || len(m.Entries) != 0 || len(m.Imports) != 0 {
		t.Fatalf("expected all-empty optional sections, got %+v", m)
	}
}

func TestParseManifestRejectsInvalidSemver(t *testing.T) {
	path := writeManifest(t, `
module "my-app"
import mathx "vendor/mathx" version not-a-version
`)

	if _, err := ParseManifest(path); err == nil {
		t.Fatalf("expected an error for an invalid semantic version")
	}
}

func TestParseManifestMissingFileIsError(t *testing.T) {
	if _, err := ParseManifest(filepath.Join(t.TempDir(), "missing.mod")); err == nil {
		t.Fatalf("expected an error opening a missing manifest file")
	}
}
