package codegen

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

var compoundOps = map[string]string{
	"+=": "+",
	"-=": "-",
	"*=": "*",
	"/=": "/",
}

// tryCompoundAssign recognizes `x += e` (and `-= *=
// /=`), expanding to `x = x + e`. The target may be a plain identifier
// or a dotted/indexed path (`a.b.c`, `a[k]`), scanned read-only so a
// non-match leaves the cursor untouched for the caller's normal
// single-token fallback.
func tryCompoundAssign(toks []token.Token, i int) (string, int, bool) {
	if toks[i].Kind() != token.KindIdentifier {
		return "", 0, false
	}

	pathEnd := scanLValue(toks, i)
	j := skipWhitespace(toks, pathEnd)

	if j >= len(toks) || toks[j].Kind() != token.KindSymbol {
		return "", 0, false
	}

	op, ok := compoundOps[toks[j].Text]
	if !ok {
		return "", 0, false
	}

	rhsStart := skipWhitespace(toks, j+1)
	rhsEnd := scanStatementEnd(toks, rhsStart)
	if rhsEnd <= rhsStart {
		return "", 0, false
	}

	target := render(trimWS(toks[i:pathEnd]))
	rhs := render(trimWS(toks[rhsStart:rhsEnd]))

	var sb strings.Builder
	sb.WriteString(target + " = " + target + " " + op + " " + rhs)

	return sb.String(), rhsEnd, true
}

// scanLValue returns the index following an identifier and any
// trailing `.name` / `[expr]` segments starting at i.
func scanLValue(toks []token.Token, i int) int {
	j := i + 1

	for {
		k := skipWhitespace(toks, j)
		if k < len(toks) && toks[k].Kind() == token.KindSymbol && toks[k].Text == "." {
			k = skipWhitespace(toks, k+1)
			if k >= len(toks) || toks[k].Kind() != token.KindIdentifier {
				return j
			}
			j = k + 1
			continue
		}

		if k < len(toks) && toks[k].Kind() == token.KindSymbol && toks[k].Text == "[" {
			// The lexer has no bracket-kind tokens for '[' beyond brace
			// strings ("[["), so a lone '[' lexes as a one-char Symbol;
			// scan to its matching ']' the same way.
			depth := 1
			m := k + 1
			for m < len(toks) && depth > 0 {
				if toks[m].Kind() == token.KindSymbol {
					switch toks[m].Text {
					case "[":
						depth++
					case "]":
						depth--
					}
				}
				m++
			}
			j = m
			continue
		}

		return j
	}
}

// scanStatementEnd returns the index of the first top-level ';' or
// newline-containing whitespace at or after start, or len(toks) if
// none occurs first.
func scanStatementEnd(toks []token.Token, start int) int {
	depth := 0

	for i := start; i < len(toks); i++ {
		t := toks[i]
		if t.Kind() == token.KindEOF {
			return i
		}

		switch t.Kind() {
		case token.KindLeftParen, token.KindLeftBrace:
			depth++
		case token.KindRightParen, token.KindRightBrace:
			depth--
		case token.KindWhitespace:
			if depth == 0 && hasNewline(t) {
				return i
			}
		case token.KindSymbol:
			if depth == 0 && t.Text == ";" {
				return i
			}
		}
	}

	return len(toks)
}
