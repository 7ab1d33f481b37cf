package sourcemap

import "testing"

func TestBuildIdenticalTextMapsOneToOne(t *testing.T) {
	src := "abc"
	m := Build(src, src)

	line, col, ok := m.LookupBToA(1, 2)
	if !ok || line != 1 || col != 2 {
		t.Fatalf("got line=%d col=%d ok=%v", line, col, ok)
	}
}

func TestBuildMultilineLookupBothDirections(t *testing.T) {
	a := "local x = 1\nlocal y = 2\n"
	b := "local x = 1\nlocal y = 2\n"

	m := Build(a, b)

	bLine, bCol, ok := m.LookupAToB(2, 7)
	if !ok || bLine != 2 {
		t.Fatalf("A->B: got line=%d col=%d ok=%v", bLine, bCol, ok)
	}

	aLine, aCol, ok := m.LookupBToA(2, 7)
	if !ok || aLine != 2 {
		t.Fatalf("B->A: got line=%d col=%d ok=%v", aLine, aCol, ok)
	}
}

func TestBuildNoMatchOnEmittedLineReportsNotFound(t *testing.T) {
	m := Build("x", "y")

	_, _, ok := m.LookupBToA(1, 1)
	if ok {
		t.Fatalf("expected no match for disjoint single-character texts")
	}
}

func TestBuildGapFillsSkippedEmittedLines(t *testing.T) {
	// B has an extra blank line between two matching lines; the
	// inserted line (2) has no character match at all, so the
	// emitted-line gap between "x" (B line 1) and "x" (B line 3)
	// must be bridged with an interpolated entry.
	a := "x\nx\n"
	b := "x\n\nx\n"

	m := Build(a, b)

	entries := m.Entries()
	sawLine2 := false

	for _, e := range entries {
		if e.BLine == 2 {
			sawLine2 = true
		}
	}

	if !sawLine2 {
		t.Fatalf("expected a gap-filled entry for emitted line 2, entries=%+v", entries)
	}
}

func TestBuildEmptyInputsProduceEmptyMap(t *testing.T) {
	m := Build("", "")
	if len(m.Entries()) != 0 {
		t.Fatalf("expected no entries for empty inputs, got %+v", m.Entries())
	}
}
