// Package sourcemap implements the LCS-based position translator:
// given the original surface text and the generator's emitted text, it produces a sparse list of (a_line,
// a_col, b_line, b_col) correspondences so a diagnostic raised against
// emitted text can be reported against the user's own source.
package sourcemap

import "github.com/bits-and-blooms/bitset"

// Entry is one correspondence between a position in the original text
// (A) and a position in the emitted text (B). Lines and columns are
// one-based, matching token.Pos.
type Entry struct {
	ALine, ACol int
	BLine, BCol int
}

// Map is the sparse, gap-filled correspondence produced by Build.
type Map struct {
	entries []Entry
}

// Entries returns the underlying, B-line-ordered entry list.
func (m *Map) Entries() []Entry {
	return m.entries
}

// charPos tags a single rune with its one-based line/column.
type charPos struct {
	line, col int
	ch        rune
}

// splitChars decomposes text into a flat, line/column-tagged rune
// sequence. Newlines themselves are not included as characters — they
// only advance the line counter — mirroring the original compiler's
// line-oriented LCS input (it operates over `.lines()`, not the raw
// byte stream, so line-ending characters never participate in the
// match).
func splitChars(text string) []charPos {
	var out []charPos
	line, col := 1, 1

	for _, r := range text {
		if r == '\n' {
			line++
			col = 1

			continue
		}

		out = append(out, charPos{line: line, col: col, ch: r})
		col++
	}

	return out
}

// Build computes the source map from original text A to emitted text
// B via the longest common subsequence of their characters: an
// O(|A|·|B|) dynamic-programming table,
// backtracked into a sparse per-match entry list, then gap-filled so
// every emitted line with no exact match still resolves to something.
func Build(original, emitted string) *Map {
	a := splitChars(original)
	b := splitChars(emitted)

	entries := lcsEntries(a, b)
	filled := fillGaps(entries)

	return &Map{entries: filled}
}

// lcsEntries runs the classic LCS dynamic program over a and b and
// backtracks it into one Entry per matched character, in B order.
//
// The match predicate (is a[i-1] the same rune as b[j-1]) is
// precomputed once into a bitset rather than re-comparing runes during
// both the fill and backtrack passes — the DP table itself still needs
// integer counts (LCS length can exceed 1), so only the "is this cell
// a diagonal match" bit is worth flattening into a bit array.
func lcsEntries(a, b []charPos) []Entry {
	lenA, lenB := len(a), len(b)
	stride := lenB + 1

	matches := bitset.New(uint((lenA + 1) * stride))
	at := func(i, j int) uint { return uint(i*stride + j) }

	for i := 1; i <= lenA; i++ {
		for j := 1; j <= lenB; j++ {
			if a[i-1].ch == b[j-1].ch {
				matches.Set(at(i, j))
			}
		}
	}

	dp := make([][]int, lenA+1)
	for i := range dp {
		dp[i] = make([]int, stride)
	}

	for i := 1; i <= lenA; i++ {
		for j := 1; j <= lenB; j++ {
			switch {
			case matches.Test(at(i, j)):
				dp[i][j] = dp[i-1][j-1] + 1
			case dp[i-1][j] >= dp[i][j-1]:
				dp[i][j] = dp[i-1][j]
			default:
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	var entries []Entry

	i, j := lenA, lenB
	for i > 0 && j > 0 {
		switch {
		case matches.Test(at(i, j)):
			entries = append(entries, Entry{
				ALine: a[i-1].line, ACol: a[i-1].col,
				BLine: b[j-1].line, BCol: b[j-1].col,
			})
			i--
			j--
		case dp[i-1][j] >= dp[i][j-1]:
			i--
		default:
			j--
		}
	}

	for l, r := 0, len(entries)-1; l < r; l, r = l+1, r-1 {
		entries[l], entries[r] = entries[r], entries[l]
	}

	return entries
}

// fillGaps interpolates one entry per skipped B-line whenever adjacent
// matched entries are more than one B-line apart, associating each
// interpolated line with the next available A-line (clamped to the
// matched pair's actual A-line gap, so any excess B-lines repeat the
// final A-line rather than overshoot it).
func fillGaps(entries []Entry) []Entry {
	if len(entries) == 0 {
		return entries
	}

	filled := make([]Entry, 0, len(entries))
	prev := entries[0]

	for k, e := range entries {
		if k > 0 {
			bGap := e.BLine - prev.BLine
			aGap := e.ALine - prev.ALine

			if bGap > 1 {
				for s := 1; s < bGap; s++ {
					step := s
					if step > aGap {
						step = aGap
					}

					filled = append(filled, Entry{
						ALine: prev.ALine + step, ACol: 1,
						BLine: prev.BLine + s, BCol: 1,
					})
				}
			}
		}

		filled = append(filled, e)
		prev = e
	}

	return filled
}
