// Package codegen implements the code generator: it turns the
// macro-expander's output token stream into
// host-language text, recognizing a handful of sugar forms by
// lookahead along the way.
package codegen

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// Generate walks toks left to right, emitting host-language text and
// rewriting each recognized sugar form as it goes. Most tokens are
// simply rendered verbatim — the generator is pure textual
// concatenation with a few sugar rewrites recognized by lookahead.
func Generate(toks []token.Token) (string, error) {
	var sb strings.Builder

	i := 0
	for i < len(toks) {
		if toks[i].Kind() == token.KindEOF {
			break
		}

		text, next, matched, err := tryRewrite(toks, i)
		if err != nil {
			return "", err
		}
		if matched {
			sb.WriteString(text)
			i = next

			continue
		}

		sb.WriteString(toks[i].String())
		i++
	}

	return sb.String(), nil
}

// tryRewrite attempts each sugar form at position i in priority
// order, falling back to "no match" so
// the caller emits the single token verbatim.
func tryRewrite(toks []token.Token, i int) (string, int, bool, error) {
	if text, next, ok, err := tryArrow(toks, i); ok || err != nil {
		return text, next, ok, err
	}
	if text, next, ok := tryInterpolated(toks, i); ok {
		return text, next, true, nil
	}
	if text, next, ok, err := tryInWrapper(toks, i); ok || err != nil {
		return text, next, ok, err
	}
	if text, next, ok := tryCompoundAssign(toks, i); ok {
		return text, next, true, nil
	}
	if text, next, ok := tryInequality(toks, i); ok {
		return text, next, true, nil
	}
	if text, next, ok, err := tryPointerSugar(toks, i); ok || err != nil {
		return text, next, ok, err
	}

	return "", 0, false, nil
}

// tryInequality rewrites the surface "!=" operator to the host
// language's "~=".
func tryInequality(toks []token.Token, i int) (string, int, bool) {
	t := toks[i]
	if t.Kind() == token.KindSymbol && t.Text == "!=" {
		return "~=", i + 1, true
	}

	return "", 0, false
}
