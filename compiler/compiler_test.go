package compiler

import (
	"strings"
	"testing"
)

func TestCompilePassthroughIsIdempotent(t *testing.T) {
	c := New()

	src := "local x = 1\n"

	first, err := c.Compile(src, "", nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	second, err := c.Compile(first.Text, "", nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if strings.TrimSpace(first.Text) != strings.TrimSpace(second.Text) {
		t.Fatalf("expected idempotent passthrough, got %q then %q", first.Text, second.Text)
	}
}

func TestCompileUserMacroPersistsAcrossCalls(t *testing.T) {
	c := New()

	if _, err := c.Compile(`macro { double($x) { $x + $x } }`, "", nil); err != nil {
		t.Fatalf("Compile (definition): %v", err)
	}

	out, err := c.Compile(`double!{ 5 }`, "", nil)
	if err != nil {
		t.Fatalf("Compile (call): %v", err)
	}

	if !strings.Contains(out.Text, "5 + 5") {
		t.Fatalf("expected macro defined in a prior call to still apply, got %q", out.Text)
	}
}

func TestCompileDefineCfgControlsCfgMacro(t *testing.T) {
	c := New()
	c.DefineCfg("FEATURE_X", "1")

	out, err := c.Compile(`cfg!{ FEATURE_X, print("on") }`, "", nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if !strings.Contains(out.Text, `print("on")`) {
		t.Fatalf("expected the cfg! body to be emitted, got %q", out.Text)
	}
}

func TestCompileSetCurrentTestFiltersTestMacro(t *testing.T) {
	c := New()
	c.SetEnv("test")
	name := "keep"
	c.SetCurrentTest(&name)

	out, err := c.Compile(`test!{ keep { ok() } drop { fail() } }`, "", nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if !strings.Contains(out.Text, "ok()") {
		t.Fatalf("expected the matching test! to be emitted, got %q", out.Text)
	}
	if strings.Contains(out.Text, "fail()") {
		t.Fatalf("expected the non-matching test! to be compiled away, got %q", out.Text)
	}
}

func TestCompileRecordsTopLevelManifest(t *testing.T) {
	c := New()

	if _, err := c.Compile("local x = 1\n", "main.lulu", []byte(`{"name":"main"}`)); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	imports := c.Imports()
	entry, ok := imports["main.lulu"]
	if !ok {
		t.Fatalf("expected an import-map entry for the compiled file, got %+v", imports)
	}
	if string(entry.Manifest) != `{"name":"main"}` {
		t.Fatalf("Manifest = %q", entry.Manifest)
	}
}

func TestCompileBuildsSourceMap(t *testing.T) {
	c := New()

	out, err := c.Compile("local x = 1\n", "", nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if out.SourceMap == nil || len(out.SourceMap.Entries()) == 0 {
		t.Fatalf("expected a non-empty source map, got %+v", out.SourceMap)
	}
}
