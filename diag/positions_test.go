package diag

import (
	"testing"

	"github.com/lulu-lang/lulu/sourcemap"
	"github.com/lulu-lang/lulu/token"
)

func TestToLSPPositionConvertsOneBasedToZeroBased(t *testing.T) {
	pos := ToLSPPosition(1, 1)
	if pos.Line != 0 || pos.Character != 0 {
		t.Fatalf("got %+v", pos)
	}

	pos = ToLSPPosition(3, 5)
	if pos.Line != 2 || pos.Character != 4 {
		t.Fatalf("got %+v", pos)
	}
}

func TestToLSPRangeMapsThroughSourceMap(t *testing.T) {
	sm := sourcemap.Build("local x = 1\n", "local x = 1\n")

	span := token.Span{Begin: token.Pos{File: "<test>", Line: 1, Col: 7, Offset: 6}}

	r := ToLSPRange(span, sm)

	if r.Start != r.End {
		t.Fatalf("expected a zero-width range, got %+v", r)
	}

	if r.Start.Line != 0 {
		t.Fatalf("expected LSP line 0, got %d", r.Start.Line)
	}
}

func TestToLSPLocationCarriesFileURI(t *testing.T) {
	sm := sourcemap.Build("local x = 1\n", "local x = 1\n")

	span := token.Span{Begin: token.Pos{File: "/tmp/main.lulu", Line: 1, Col: 1, Offset: 0}}

	loc := ToLSPLocation(span, sm)

	if loc.URI.Filename() != "/tmp/main.lulu" {
		t.Fatalf("URI = %q", loc.URI)
	}
	if loc.Range.Start.Line != 0 {
		t.Fatalf("expected LSP line 0, got %d", loc.Range.Start.Line)
	}
}

func TestToLSPRangeFallsBackToSpanPositionWhenUnmapped(t *testing.T) {
	sm := sourcemap.Build("x", "y")

	span := token.Span{Begin: token.Pos{File: "<test>", Line: 1, Col: 1, Offset: 0}}

	r := ToLSPRange(span, sm)

	if r.Start.Line != 0 || r.Start.Character != 0 {
		t.Fatalf("expected fallback to span's own position, got %+v", r)
	}
}
