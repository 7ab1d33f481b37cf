package expand

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// rewriteTest implements test!: the argument is a block of
// `name { body }` entries. Outside the "test" environment
// (set_env), test! produces nothing at all regardless of its body —
// test code must not reach a production build. Within the "test"
// environment, each entry becomes a protected call that prints
// success or failure; the context's CurrentTest filter
// (set_current_test), if set, selects the single matching entry and
// compiles the rest away.
func rewriteTest(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	if ex.ctx.Env != "test" {
		return "", nil
	}

	if len(args) == 0 {
		return "", newSyntaxError(call.Span(), ex.text, "test! expects a block of named entries")
	}

	toks := stripOuterBraces(args[0])

	var sb strings.Builder
	i := 0

	for i < len(toks) {
		i = skipWhitespace(toks, i)
		if i >= len(toks) {
			break
		}

		if toks[i].Kind() != token.KindIdentifier && toks[i].Kind() != token.KindString {
			return "", ex.syntaxErrAt(toks, i, "expected a test entry name")
		}
		name := toks[i].Text
		i = skipWhitespace(toks, i+1)

		if i >= len(toks) || toks[i].Kind() != token.KindLeftBrace {
			return "", ex.syntaxErrAt(toks, i, "expected '{' after test entry name")
		}
		close := findMatchingBrace(toks, i)
		if close == -1 {
			return "", ex.unbalancedErrAt(toks, i, "unterminated test entry body")
		}
		body := toks[i+1 : close]
		i = close + 1

		if ex.ctx.CurrentTest != nil && strings.ToLower(name) != *ex.ctx.CurrentTest {
			continue
		}

		sb.WriteString("local " + name + " = function()\n")
		sb.WriteString(render(body))
		sb.WriteString("\nend\n")
		sb.WriteString("local ok_" + name + ", err_" + name + " = pcall(" + name + ")\n")
		sb.WriteString("if ok_" + name + " then\n")
		sb.WriteString("  print(\"Finished test: " + name + "\")\n")
		sb.WriteString("else\n")
		sb.WriteString("  print(\"Test " + name + " failed due to:\", err_" + name + ")\n")
		sb.WriteString("end\n\n")
	}

	return sb.String(), nil
}
