package codegen

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// tryInWrapper recognizes the three "expression position"
// wrappers: `in do … end`, `in if … end`, and `in local x and y … end`.
// The first two wrap an existing statement into an immediately-invoked
// function expression; the `local … and …` form captures a namespace
// with an inheritance list instead.
func tryInWrapper(toks []token.Token, i int) (string, int, bool, error) {
	t := toks[i]
	if t.Kind() != token.KindIdentifier || t.Text != "in" {
		return "", 0, false, nil
	}

	j := skipWhitespace(toks, i+1)
	if j >= len(toks) || toks[j].Kind() != token.KindIdentifier {
		return "", 0, false, nil
	}

	switch toks[j].Text {
	case "do", "if":
		return wrapBlockExpression(toks, j)
	case "local":
		return wrapNamespace(toks, j)
	default:
		return "", 0, false, nil
	}
}

// wrapBlockExpression handles `in do … end` / `in if … end`: the
// opener keyword (and its own body, already a well-formed Lua block
// ending in "end") is kept, wrapped in "(function() … end)()" — the
// source's own "end" closes the inner block, and an extra "end" closes
// the synthetic function.
func wrapBlockExpression(toks []token.Token, openerIdx int) (string, int, bool, error) {
	bodyEnd, ok := scanBlockBody(toks, openerIdx+1, "end")
	if !ok {
		return "", 0, false, nil
	}

	inner := render(toks[openerIdx : bodyEnd+1]) // opener keyword through its own "end"

	var sb strings.Builder
	sb.WriteString("(function() ")
	sb.WriteString(inner)
	sb.WriteString(" end)()")

	return sb.String(), bodyEnd + 1, true, nil
}

// wrapNamespace handles `in local Base1 and Base2 … end`: the
// and-chained identifiers after `local` become the inheritance list of
// a `namespace(ns_inherit_from(…))(function(self) … end)` expansion.
func wrapNamespace(toks []token.Token, localIdx int) (string, int, bool, error) {
	j := skipWhitespace(toks, localIdx+1)

	var bases []string

	for {
		if j >= len(toks) || toks[j].Kind() != token.KindIdentifier {
			return "", 0, false, nil
		}
		bases = append(bases, toks[j].Text)
		j = skipWhitespace(toks, j+1)

		if j < len(toks) && toks[j].Kind() == token.KindIdentifier && toks[j].Text == "and" {
			j = skipWhitespace(toks, j+1)
			continue
		}

		break
	}

	bodyEnd, ok := scanBlockBody(toks, j, "end")
	if !ok {
		return "", 0, false, nil
	}

	body := render(toks[j:bodyEnd]) // excludes the closing "end"

	var sb strings.Builder
	sb.WriteString("namespace(ns_inherit_from(" + strings.Join(bases, ", ") + "))(function(self) ")
	sb.WriteString(body)
	sb.WriteString("end)")

	return sb.String(), bodyEnd + 1, true, nil
}
