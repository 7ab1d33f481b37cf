package expand

import (
	"strings"
	"testing"
)

func TestSpreadPositionalNames(t *testing.T) {
	got := expandSource(t, `spread! args, { x, y }`)

	for _, want := range []string{
		"local x = args[1]",
		"local y = args[2]",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
}

func TestSpreadUnderscoreSkipsSlot(t *testing.T) {
	got := expandSource(t, `spread! s, { _, b }`)

	if strings.Contains(got, "s[1]") {
		t.Fatalf("expected the skipped slot to bind nothing, got %q", got)
	}
	if !strings.Contains(got, "local b = s[2]") {
		t.Fatalf("expected b bound to the second slot, got %q", got)
	}
}

func TestSpreadRestCapturesTail(t *testing.T) {
	got := expandSource(t, `spread! s, { first, ...rest }`)

	if !strings.Contains(got, "local first = s[1]") {
		t.Fatalf("expected positional head binding, got %q", got)
	}
	if !strings.Contains(got, "local rest = { unpack(s, 2, #s) }") {
		t.Fatalf("expected tail capture, got %q", got)
	}
}

func TestSpreadRestBeforeTrailingItems(t *testing.T) {
	got := expandSource(t, `spread! s, { ...mid, last }`)

	if !strings.Contains(got, "local mid = { unpack(s, 1, #s - 1) }") {
		t.Fatalf("expected bounded tail capture, got %q", got)
	}
}

func TestSpreadDottedPathAssignsWithoutLocal(t *testing.T) {
	got := expandSource(t, `spread! s, { p.x }`)

	if !strings.Contains(got, "p.x = s[1]") || strings.Contains(got, "local p.x") {
		t.Fatalf("expected targeted assignment without local, got %q", got)
	}
}

func TestSpreadColonReadsNamedField(t *testing.T) {
	got := expandSource(t, `spread! s, { id:key, pos }`)

	if !strings.Contains(got, "local id = s.key") {
		t.Fatalf("expected named field read, got %q", got)
	}
	// A named read does not consume a positional slot.
	if !strings.Contains(got, "local pos = s[1]") {
		t.Fatalf("expected pos to still bind the first slot, got %q", got)
	}
}

func TestSpreadAmpersandBindsSameNameField(t *testing.T) {
	got := expandSource(t, `spread! s, { &width }`)

	if !strings.Contains(got, "local width = s.width") {
		t.Fatalf("expected same-name field binding, got %q", got)
	}
}
