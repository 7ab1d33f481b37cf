package codegen

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// skipWhitespace returns the index of the first non-Whitespace token at
// or after i. Adapted from expand/scan.go's helper of the same name —
// codegen operates on the already macro-expanded token stream and
// needs the identical lookahead discipline.
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

// render concatenates the verbatim text of each token.
func render(toks []token.Token) string {
	var sb strings.Builder

	for _, t := range toks {
		sb.WriteString(t.String())
	}

	return sb.String()
}

func hasNewline(t token.Token) bool {
	return t.Kind() == token.KindWhitespace && strings.ContainsRune(t.Text, '\n')
}

func isSemicolon(t token.Token) bool {
	return t.Kind() == token.KindSymbol && t.Text == ";"
}

// lastSignificant returns the index of the nearest non-whitespace token
// before i, or -1 if none (used to tell prefix '&'/'*' pointer sugar
// apart from the infix bitwise-and/multiply operators they'd otherwise
// collide with).
func lastSignificant(toks []token.Token, i int) int {
	for j := i - 1; j >= 0; j-- {
		if toks[j].Kind() != token.KindWhitespace {
			return j
		}
	}

	return -1
}

// isOperandEnd reports whether t is a token that a value can end with —
// i.e. if t immediately precedes '&'/'*', that occurrence is an infix
// operator, not pointer-sugar prefix notation.
func isOperandEnd(t token.Token) bool {
	switch t.Kind() {
	case token.KindIdentifier, token.KindNumber, token.KindString, token.KindBraceString, token.KindRightParen, token.KindRightBrace:
		return true
	}

	return false
}

// openers maps a block-opening keyword/symbol to the token text that
// closes its frame (function/do/if against end; repeat pairs with
// until instead). while and for loops open their frame through their
// trailing do, so `while … do … end` balances with a single end.
var openers = map[string]string{
	"function": "end",
	"if":       "end",
	"do":       "end",
	"repeat":   "until",
	"=>":       "end",
}

// scanBlockBody scans forward from start (the index right after an
// opening keyword/symbol already consumed by the caller) and returns
// the index of the token that closes that opening construct, tracking
// nested opens/closes with a stack so an "if" or "function" nested
// inside the body doesn't prematurely match the outer "end". closer is
// the text the initial frame expects (normally "end").
func scanBlockBody(toks []token.Token, start int, closer string) (int, bool) {
	stack := []string{closer}

	for i := start; i < len(toks); i++ {
		t := toks[i]
		if t.Kind() != token.KindIdentifier && !(t.Kind() == token.KindSymbol && t.Text == "=>") {
			continue
		}

		if want, ok := openers[t.Text]; ok {
			stack = append(stack, want)
			continue
		}

		if len(stack) > 0 && t.Text == stack[len(stack)-1] {
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, true
			}
		}
	}

	return -1, false
}
