package expand

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// rewriteMatch implements match!(value, branches), where branches is
// a block of `pattern { body }` pairs.
// The literal pattern `_` is the catch-all. Any other pattern is
// compiled into a boolean test: a top-level `or` splits it into
// several predicates, a leading `not` negates a predicate, and a
// predicate not already mentioning the bound scrutinee `val` is
// wrapped `iseq(val, pattern)`. The whole thing compiles to an IIFE
// `(function(val) if ... elseif ... else ... end end)(value)` so
// match! never re-evaluates value and never splices an unbalanced
// block into the surrounding statement list; the IIFE is wrapped in
// `do...end` unless some branch body contains `return`, in which case
// the bare call already behaves like an expression-position return.
func rewriteMatch(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	if len(args) != 2 {
		return "", newSyntaxError(call.Span(), ex.text, "match! expects a value and a branches block")
	}

	value := args[0]
	branchToks := stripOuterBraces(args[1])

	var sb strings.Builder
	sb.WriteString("(function(val)\n")

	hasReturn := false
	opened := false
	i := 0

	for i < len(branchToks) {
		i = skipWhitespace(branchToks, i)
		if i >= len(branchToks) {
			break
		}

		patToks, next := captureExtraExpression(branchToks, i)
		if len(patToks) == 0 {
			return "", ex.syntaxErrAt(branchToks, i, "expected a match! pattern")
		}
		i = next

		i = skipWhitespace(branchToks, i)
		if i >= len(branchToks) || branchToks[i].Kind() != token.KindLeftBrace {
			return "", ex.syntaxErrAt(branchToks, i, "expected '{' after match! pattern")
		}

		close := findMatchingBrace(branchToks, i)
		if close == -1 {
			return "", ex.unbalancedErrAt(branchToks, i, "unterminated match! branch body")
		}
		body := branchToks[i+1 : close]
		i = skipWhitespace(branchToks, close+1)

		if !hasReturn {
			for _, bt := range body {
				if bt.Kind() == token.KindIdentifier && bt.Text == "return" {
					hasReturn = true
					break
				}
			}
		}

		if isWildcardPattern(patToks) {
			sb.WriteString("else ")
			sb.WriteString(render(body))
			sb.WriteString("\n")
			opened = true
			continue
		}

		if opened {
			sb.WriteString("elseif ")
		} else {
			sb.WriteString("if ")
			opened = true
		}

		sb.WriteString(compileMatchPattern(patToks))
		sb.WriteString(" then ")
		sb.WriteString(render(body))
		sb.WriteString("\n")
	}

	sb.WriteString("end\n")
	sb.WriteString("end)(")
	sb.WriteString(render(value))
	sb.WriteString(")")

	out := sb.String()
	if !hasReturn {
		out = "do\n" + out + "\nend"
	}

	return out, nil
}

// isWildcardPattern reports whether pattern tokens mention the bare
// identifier `_`, match!'s catch-all marker.
func isWildcardPattern(toks []token.Token) bool {
	for _, t := range toks {
		if t.Kind() == token.KindIdentifier && t.Text == "_" {
			return true
		}
	}
	return false
}

// compileMatchPattern renders a pattern into a then-condition: a
// top-level `or` splits it into several predicates, a leading `not`
// negates one, and a predicate not already mentioning `val` is wrapped
// iseq(val, ...).
func compileMatchPattern(toks []token.Token) string {
	var parts [][]token.Token

	cur := []token.Token{}
	for _, t := range toks {
		if t.Kind() == token.KindIdentifier && t.Text == "or" {
			parts = append(parts, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	parts = append(parts, cur)

	var rendered []string
	for _, part := range parts {
		part = trimWS(part)
		if len(part) == 0 {
			continue
		}
		rendered = append(rendered, compileMatchOrPart(part))
	}

	return strings.Join(rendered, " or ")
}

// compileMatchOrPart compiles a single or-separated predicate: strips
// a leading `not`, and wraps the remainder in iseq(val, ...) unless it
// already references `val` itself.
func compileMatchOrPart(part []token.Token) string {
	hasNot := false
	if part[0].Kind() == token.KindIdentifier && part[0].Text == "not" {
		hasNot = true
		part = trimWS(part[1:])
	}

	custom := false
	for _, t := range part {
		if t.Kind() == token.KindIdentifier && t.Text == "val" {
			custom = true
			break
		}
	}

	var sb strings.Builder
	if hasNot {
		sb.WriteString("not ")
	}
	if !custom {
		sb.WriteString("iseq(val, ")
		sb.WriteString(render(part))
		sb.WriteString(")")
	} else {
		sb.WriteString(render(part))
	}

	return sb.String()
}

// captureExtraExpression scans toks from start, tracking only paren
// depth, and stops (without consuming) at a bracket-depth-zero '{' or
// an unbalanced ')'; every other token (including whitespace and
// keywords like `or`/`not`) accumulates verbatim. This is match!'s
// pattern scanner: it captures a branch's pattern tokens up to the
// `{ body }` that follows.
func captureExtraExpression(toks []token.Token, start int) ([]token.Token, int) {
	var out []token.Token

	i := start
	paren := 0

	for i < len(toks) {
		switch toks[i].Kind() {
		case token.KindLeftBrace:
			if paren == 0 {
				return out, i
			}
			out = append(out, toks[i])
		case token.KindLeftParen:
			paren++
			out = append(out, toks[i])
		case token.KindRightParen:
			if paren == 0 {
				return out, i
			}
			paren--
			out = append(out, toks[i])
		default:
			out = append(out, toks[i])
		}
		i++
	}

	return out, i
}
