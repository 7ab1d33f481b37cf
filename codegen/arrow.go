package codegen

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// wrapper is one decorator (or the bare `async` qualifier, treated as
// the innermost decorator) applied to an arrow function.
type wrapper struct {
	name string
	args string // rendered call arguments, or "" if the decorator took none
}

// tryArrow recognizes the `(args) => body` arrow-function
// sugar, optionally preceded by decorators `@D(args…)`, the `async`
// qualifier, and a name (including `parent:method`). It aborts (ok ==
// false) as soon as the expected shape fails to materialize, in which
// case the caller falls back to plain single-token emission — this
// speculative-parse-then-abort approach is necessary since nothing
// marks an arrow site in advance the way a `name!` token marks a macro
// call.
func tryArrow(toks []token.Token, i int) (string, int, bool, error) {
	j := i
	var wrappers []wrapper

	for {
		k := skipWhitespace(toks, j)
		if k >= len(toks) || toks[k].Kind() != token.KindSymbol || toks[k].Text != "@" {
			break
		}

		name, args, next, ok := parseDecorator(toks, k)
		if !ok {
			return "", 0, false, nil
		}

		wrappers = append(wrappers, wrapper{name: name, args: args})
		j = next
	}

	j = skipWhitespace(toks, j)

	async := false
	if j < len(toks) && toks[j].Kind() == token.KindIdentifier && toks[j].Text == "async" {
		// A leading `async` identifier is always taken as the qualifier,
		// never as the arrow's bound name.
		async = true
		j = skipWhitespace(toks, j+1)
	}

	name := ""
	if j < len(toks) && toks[j].Kind() == token.KindIdentifier {
		nameStart := j
		j = skipWhitespace(toks, j+1)
		if j < len(toks) && toks[j].Kind() == token.KindSymbol && toks[j].Text == ":" {
			j = skipWhitespace(toks, j+1)
			if j >= len(toks) || toks[j].Kind() != token.KindIdentifier {
				return "", 0, false, nil
			}
			name = toks[nameStart].Text + ":" + toks[j].Text
			j = skipWhitespace(toks, j+1)
		} else {
			name = toks[nameStart].Text
		}
	}

	if j >= len(toks) || toks[j].Kind() != token.KindLeftParen {
		return "", 0, false, nil
	}

	argsOpen := j
	argsClose := matchingParen(toks, argsOpen)
	if argsClose == -1 {
		return "", 0, false, nil
	}

	after := skipWhitespace(toks, argsClose+1)
	if after >= len(toks) || toks[after].Kind() != token.KindSymbol || toks[after].Text != "=>" {
		return "", 0, false, nil
	}

	bodyStart := after + 1
	bodyEnd, ok := scanBlockBody(toks, bodyStart, "end")
	if !ok {
		return "", 0, false, nil
	}

	if async {
		wrappers = append(wrappers, wrapper{name: "async"})
	}

	args := render(trimWS(toks[argsOpen+1 : argsClose]))
	body := render(toks[bodyStart:bodyEnd]) // excludes the closing "end"

	var sb strings.Builder
	for _, w := range wrappers {
		sb.WriteString(w.name)
		if w.args != "" {
			sb.WriteString("(" + w.args + ")")
		}
		sb.WriteString("(")
	}

	sb.WriteString("function" + nameSuffix(name) + "(" + args + ")")
	sb.WriteString(body)
	sb.WriteString("end")

	for range wrappers {
		sb.WriteString(")")
	}

	return sb.String(), bodyEnd + 1, true, nil
}

func nameSuffix(name string) string {
	if name == "" {
		return ""
	}
	return " " + name
}

// parseDecorator parses `@Name` or `@Name(args)` starting at the '@'
// symbol index at. Returns the decorator name, its rendered argument
// text (empty if bare), and the index following the whole decorator.
func parseDecorator(toks []token.Token, at int) (string, string, int, bool) {
	j := skipWhitespace(toks, at+1)
	if j >= len(toks) || toks[j].Kind() != token.KindIdentifier {
		return "", "", 0, false
	}
	name := toks[j].Text
	j++

	if j < len(toks) && toks[j].Kind() == token.KindLeftParen {
		close := matchingParen(toks, j)
		if close == -1 {
			return "", "", 0, false
		}
		args := render(trimWS(toks[j+1 : close]))

		return name, args, close + 1, true
	}

	return name, "", j, true
}

// matchingParen returns the index of the RightParen closing the
// LeftParen at openIdx, or -1 if unbalanced.
func matchingParen(toks []token.Token, openIdx int) int {
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
