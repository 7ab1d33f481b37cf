package expand

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// rewriteEnum implements enum!(head, variants, methods?). The head
// carries optional decorators and the enum name;
// the variants block is a comma-separated list of `V` or
// `V(field1, field2)` entries, each with optional decorators; the
// optional third argument attaches methods as `fname (args) { body }`
// branches bound under `E.func`.
//
// Accepted forms: the block-trailer `{ variants } -< Name`, and the
// direct `enum! Name, { variants }` / `enum! Name, { variants },
// { methods }`.
func rewriteEnum(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	if len(args) < 2 {
		return "", newSyntaxError(call.Span(), ex.text, "enum! expects a name and a variants block")
	}

	decorators, i := parseDecorators(args[0], 0)
	name := strings.TrimSpace(render(trimWS(args[0][i:])))
	if name == "" {
		return "", ex.syntaxErrAt(args[0], 0, "expected an enum name")
	}

	variants, err := ex.parseEnumVariants(stripOuterBraces(args[1]))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(name + " = make_enum(\"" + name + "\")\n")

	for _, v := range variants {
		if v.Fields == nil {
			sb.WriteString(name + "." + v.Name + " = make_enum_var(" + name + ", '" + v.Name + "')\n")
			continue
		}

		quoted := make([]string, len(v.Fields))
		for k, f := range v.Fields {
			quoted[k] = "\"" + f + "\""
		}
		sb.WriteString(name + "." + v.Name + " = make_enum_var_dyn(" + name + ", '" + v.Name + "', { " + strings.Join(quoted, ", ") + " })\n")
	}

	for _, v := range variants {
		for k := len(v.Decorators) - 1; k >= 0; k-- {
			sb.WriteString(name + "." + v.Name + " = " + v.Decorators[k] + "(" + name + ", " + name + "." + v.Name + ", \"" + v.Name + "\")\n")
		}
	}

	if len(args) > 2 {
		if err := ex.renderEnumMethods(&sb, name, stripOuterBraces(args[2])); err != nil {
			return "", err
		}
	}

	for k := len(decorators) - 1; k >= 0; k-- {
		sb.WriteString(name + " = " + decorators[k] + "(" + name + ", \"" + name + "\")\n")
	}

	return sb.String(), nil
}

// enumVariant is one parsed variants-block entry. Fields is nil for a
// bare `V` and non-nil (possibly empty) for `V(...)`, which selects
// the dynamic constructor.
type enumVariant struct {
	Name       string
	Fields     []string
	Decorators []string
}

// parseEnumVariants splits the variants block on top-level commas and
// parses each entry's decorators, name, and optional field list.
func (ex *Expander) parseEnumVariants(toks []token.Token) ([]enumVariant, error) {
	var out []enumVariant

	for _, group := range splitArgs(toks) {
		decorators, i := parseDecorators(group, 0)

		i = skipWhitespace(group, i)
		if i >= len(group) {
			continue
		}
		if group[i].Kind() != token.KindIdentifier {
			return nil, ex.syntaxErrAt(group, i, "expected a variant name")
		}

		v := enumVariant{Name: group[i].Text, Decorators: decorators}
		i = skipWhitespace(group, i+1)

		if i < len(group) && group[i].Kind() == token.KindLeftParen {
			close := findMatchingParen(group, i)
			if close == -1 {
				return nil, ex.unbalancedErrAt(group, i, "unterminated variant field list")
			}

			v.Fields = []string{}
			fields := strings.TrimSpace(render(trimWS(group[i+1 : close])))
			if fields != "" {
				for _, f := range strings.Split(fields, ",") {
					v.Fields = append(v.Fields, strings.TrimSpace(f))
				}
			}
		}

		out = append(out, v)
	}

	return out, nil
}

// renderEnumMethods walks the methods block — `fname (args) { body }`
// branches — and appends one `E.func.fname = function(args) ... end`
// per branch.
func (ex *Expander) renderEnumMethods(sb *strings.Builder, name string, toks []token.Token) error {
	i := 0
	for i < len(toks) {
		i = skipWhitespace(toks, i)
		if i >= len(toks) {
			break
		}

		headToks, next := captureExtraExpression(toks, i)
		headToks = trimWS(headToks)
		if len(headToks) == 0 {
			return ex.syntaxErrAt(toks, i, "expected an enum method declaration")
		}
		i = next

		i = skipWhitespace(toks, i)
		if i >= len(toks) || toks[i].Kind() != token.KindLeftBrace {
			return ex.syntaxErrAt(toks, i, "expected '{' for enum method body")
		}
		close := findMatchingBrace(toks, i)
		if close == -1 {
			return ex.unbalancedErrAt(toks, i, "unterminated enum method body")
		}
		body := toks[i+1 : close]
		i = close + 1

		if headToks[0].Kind() != token.KindIdentifier {
			return ex.syntaxErrAt(headToks, 0, "expected an enum method name")
		}
		mname := headToks[0].Text
		params := strings.TrimSpace(render(trimWS(headToks[1:])))
		if params == "" {
			params = "()"
		}

		sb.WriteString("\n" + name + ".func." + mname + " = function" + params + "\n")
		sb.WriteString(render(body))
		sb.WriteString("\nend\n")
	}

	return nil
}
