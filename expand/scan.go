package expand

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// findMatchingBrace returns the index, within toks, of the RightBrace
// that closes the LeftBrace at openIdx, or -1 if unbalanced.
func findMatchingBrace(toks []token.Token, openIdx int) int {
	depth := 0

	for i := openIdx; i < len(toks); i++ {
		switch toks[i].Kind() {
		case token.KindLeftBrace:
			depth++
		case token.KindRightBrace:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// findMatchingParen mirrors findMatchingBrace for parentheses.
func findMatchingParen(toks []token.Token, openIdx int) int {
	depth := 0

	for i := openIdx; i < len(toks); i++ {
		switch toks[i].Kind() {
		case token.KindLeftParen:
			depth++
		case token.KindRightParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// skipWhitespace returns the index of the first non-Whitespace token
// at or after i.
func skipWhitespace(toks []token.Token, i int) int {
	for i < len(toks) && toks[i].Kind() == token.KindWhitespace {
		i++
	}

	return i
}

// trimWS strips leading and trailing Whitespace tokens.
func trimWS(toks []token.Token) []token.Token {
	start := 0
	for start < len(toks) && toks[start].Kind() == token.KindWhitespace {
		start++
	}

	end := len(toks)
	for end > start && toks[end-1].Kind() == token.KindWhitespace {
		end--
	}

	return toks[start:end]
}

// nonWS returns only the non-whitespace tokens, used for structural
// pattern matching where formatting is irrelevant.
func nonWS(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))

	for _, t := range toks {
		if t.Kind() != token.KindWhitespace {
			out = append(out, t)
		}
	}

	return out
}

// splitArgs splits toks on Comma tokens at bracket depth zero —
// commas at the current bracket depth separate arguments.
func splitArgs(toks []token.Token) [][]token.Token {
	var (
		args  [][]token.Token
		cur   []token.Token
		depth int
	)

	for _, t := range toks {
		switch t.Kind() {
		case token.KindLeftBrace, token.KindLeftParen:
			depth++
		case token.KindRightBrace, token.KindRightParen:
			depth--
		case token.KindComma:
			if depth == 0 {
				args = append(args, trimWS(cur))
				cur = nil

				continue
			}
		}

		cur = append(cur, t)
	}

	if len(trimWS(cur)) > 0 || len(args) > 0 {
		args = append(args, trimWS(cur))
	}

	return args
}

// stripOuterBraces removes one matching outer '{'/'}' pair from toks,
// if toks (after trimming whitespace) is wholly a single brace group.
// Depending on whether a macro is called in braced (`name!{a, {b}}`)
// or unbraced (`name! a, {b}`) form, splitArgs may or may not have
// already peeled an argument's own surrounding braces off; rewriters
// that expect a bare block of statements call this first so both call
// forms present the same shape.
func stripOuterBraces(toks []token.Token) []token.Token {
	t := trimWS(toks)
	if len(t) == 0 || t[0].Kind() != token.KindLeftBrace {
		return t
	}

	close := findMatchingBrace(t, 0)
	if close != len(t)-1 {
		return t
	}

	return trimWS(t[1:close])
}

// render concatenates the verbatim text of each token, used to hand a
// raw argument region to a specialized rewriter as source text (e.g.
// for re-parsing a class head).
func render(toks []token.Token) string {
	var sb strings.Builder

	for _, t := range toks {
		sb.WriteString(t.String())
	}

	return sb.String()
}

// hasNewline reports whether a Whitespace token's text contains a
// line break, used to recognize the unbraced call terminator.
func hasNewline(t token.Token) bool {
	return t.Kind() == token.KindWhitespace && strings.ContainsRune(t.Text, '\n')
}

// isSemicolon reports whether t is the ';' symbol, the other unbraced
// call terminator.
func isSemicolon(t token.Token) bool {
	return t.Kind() == token.KindSymbol && t.Text == ";"
}
