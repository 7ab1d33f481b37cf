package expand

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// classDecl is the parsed form of a class!/enum! head: zero or more
// `@decorator(args)` prefixes, the declared name, an optional parent
// after ':', and (for class!) an optional constructor parameter list in
// a trailing paren group.
type classDecl struct {
	Decorators []string
	Name       string
	Parent     string
	CtorArgs   []token.Token
}

// parseDecorators reads a run of `@Name` / `@Name(args)` prefixes
// starting at toks[i], returning each as rendered text (name plus the
// verbatim paren group, if any) and the index of the first token after
// the run.
func parseDecorators(toks []token.Token, i int) ([]string, int) {
	var out []string

	for {
		i = skipWhitespace(toks, i)
		if i >= len(toks) || toks[i].Kind() != token.KindSymbol || toks[i].Text != "@" {
			return out, i
		}

		j := skipWhitespace(toks, i+1)
		if j >= len(toks) || toks[j].Kind() != token.KindIdentifier {
			return out, i
		}

		var sb strings.Builder
		sb.WriteString(toks[j].Text)
		j++

		if j < len(toks) && toks[j].Kind() == token.KindLeftParen {
			close := findMatchingParen(toks, j)
			if close == -1 {
				return out, i
			}
			sb.WriteString(render(toks[j : close+1]))
			j = close + 1
		}

		out = append(out, sb.String())
		i = j
	}
}

// parseClassDecl reads a full class!/enum! head: decorators, then
// `Name`, `Name : Parent`, or either form followed by a trailing
// `(params)` constructor parameter list.
func (ex *Expander) parseClassDecl(toks []token.Token) (classDecl, error) {
	d := classDecl{}

	decorators, i := parseDecorators(toks, 0)
	d.Decorators = decorators

	rest := trimWS(toks[i:])
	if len(rest) == 0 {
		return d, ex.syntaxErrAt(toks, i, "expected a name in class/enum head")
	}

	// The constructor parameter list, when present, is the head's final
	// top-level paren group.
	for k, t := range rest {
		if t.Kind() == token.KindLeftParen {
			close := findMatchingParen(rest, k)
			if close == -1 {
				return d, ex.unbalancedErrAt(rest, k, "unterminated constructor parameter list")
			}
			d.CtorArgs = rest[k+1 : close]
			rest = trimWS(rest[:k])
			break
		}
	}

	name := strings.TrimSpace(render(rest))
	if colon := strings.Index(name, ":"); colon != -1 {
		d.Parent = strings.TrimSpace(name[colon+1:])
		name = strings.TrimSpace(name[:colon])
	}

	if name == "" {
		return d, ex.syntaxErrAt(toks, i, "expected a name in class/enum head")
	}
	d.Name = name

	return d, nil
}
