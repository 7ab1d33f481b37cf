package sourcemap

// LookupBToA finds, among entries on the given emitted (B) line, the
// one whose B-column is nearest to col, and returns the corresponding
// A-line/column. Reports ok=false if the map has no entry on that
// B-line at all.
func (m *Map) LookupBToA(line, col int) (aLine, aCol int, ok bool) {
	best := -1
	bestDiff := 0

	for i, e := range m.entries {
		if e.BLine != line {
			continue
		}

		diff := col - e.BCol
		if diff < 0 {
			diff = -diff
		}

		if best == -1 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}

	if best == -1 {
		return 0, 0, false
	}

	e := m.entries[best]

	return e.ALine, e.ACol, true
}

// LookupAToB is LookupBToA's mirror: nearest-column entry on the given
// original (A) line, returning the corresponding B-line/column.
func (m *Map) LookupAToB(line, col int) (bLine, bCol int, ok bool) {
	best := -1
	bestDiff := 0

	for i, e := range m.entries {
		if e.ALine != line {
			continue
		}

		diff := col - e.ACol
		if diff < 0 {
			diff = -diff
		}

		if best == -1 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}

	if best == -1 {
		return 0, 0, false
	}

	e := m.entries[best]

	return e.BLine, e.BCol, true
}
