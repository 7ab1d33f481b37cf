package codegen

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// tryInterpolated recognizes the `f"text {expr} more"`
// interpolated strings: the identifier `f`, with no whitespace in
// between, immediately followed by a string token. `{{` and `}}` are
// literal braces; any other `{...}` region is host-language expression
// text spliced into a concatenation chain.
func tryInterpolated(toks []token.Token, i int) (string, int, bool) {
	t := toks[i]
	if t.Kind() != token.KindIdentifier || t.Text != "f" {
		return "", 0, false
	}
	if i+1 >= len(toks) || toks[i+1].Kind() != token.KindString {
		return "", 0, false
	}

	return renderInterpolated(toks[i+1].Text), i + 2, true
}

// renderInterpolated splits raw (the string token's unescaped content)
// into literal and `{expr}` segments and joins them with the host
// language's concatenation operator.
func renderInterpolated(raw string) string {
	var parts []string
	var lit strings.Builder

	flushLit := func() {
		if lit.Len() > 0 {
			parts = append(parts, "\""+lit.String()+"\"")
			lit.Reset()
		}
	}

	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch r {
		case '{':
			if i+1 < len(runes) && runes[i+1] == '{' {
				lit.WriteRune('{')
				i++
				continue
			}

			flushLit()

			depth := 1
			start := i + 1
			j := start
			for j < len(runes) && depth > 0 {
				switch runes[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth > 0 {
					j++
				}
			}

			parts = append(parts, "("+strings.TrimSpace(string(runes[start:j]))+")")
			i = j

		case '}':
			if i+1 < len(runes) && runes[i+1] == '}' {
				lit.WriteRune('}')
				i++
				continue
			}
			lit.WriteRune('}')

		default:
			lit.WriteRune(r)
		}
	}

	flushLit()

	if len(parts) == 0 {
		return `""`
	}

	return strings.Join(parts, " .. ")
}
