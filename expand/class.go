package expand

import (
	"strconv"
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// rewriteClass implements class!(head, constructor?, body?). The
// head carries optional decorators, the
// class name, an optional `: Parent`, and an optional constructor
// parameter list `(x, self.y, &z, #opt, _)`. The expansion produces
// `Name = make_class(...)`, a synthesized `__construct(is_first, ...)`
// that threads parent initialization and the `__call_init` post-init
// hook, one function per declared method, `Name.field = expr` per
// field declaration, and decorator applications for the class, its
// methods, and individual parameters.
//
// Accepted forms: the block-trailer `{ body } -> Head`, and the direct
// `class! Head, { body }` / `class! Head, { constructor }, { body }`.
func rewriteClass(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	if len(args) < 1 {
		return "", newSyntaxError(call.Span(), ex.text, "class! expects at least a name")
	}

	d, err := ex.parseClassDecl(args[0])
	if err != nil {
		return "", err
	}

	var ctorBlock, body []token.Token
	switch {
	case len(args) >= 3:
		ctorBlock = stripOuterBraces(args[1])
		body = stripOuterBraces(args[2])
	case len(args) == 2:
		body = stripOuterBraces(args[1])
	}

	assignments, err := ex.renderCtorAssignments(d.CtorArgs)
	if err != nil {
		return "", err
	}

	initLine := "{}"
	indexParent := ""
	callParent := ""
	if d.Parent != "" {
		initLine = "setmetatable({}, { __index = " + d.Parent + " })"
		indexParent = ", " + d.Parent
		if containsIdentifier(ctorBlock, "super") {
			callParent = "local super = function(...) " + d.Parent + ".__construct(self, false, ...) end"
		} else {
			callParent = d.Parent + ".__construct(self, false, ...)"
		}
	}

	ctorText := renderCtorBlock(ctorBlock)

	var sb strings.Builder
	sb.WriteString(d.Name + " = make_class(" + initLine + indexParent + ")\n\n")
	sb.WriteString("function " + d.Name + ":__construct(is_first, ...)\n")
	sb.WriteString("  local args = {...}\n")
	if callParent != "" {
		sb.WriteString("  " + callParent + "\n")
	}
	sb.WriteString(assignments)
	if ctorText != "" {
		sb.WriteString(ctorText + "\n")
	}
	sb.WriteString("  if self.__call_init and is_first then self:__call_init(...) end\n")
	sb.WriteString("end\n")

	if err := ex.renderClassMembers(&sb, d.Name, body); err != nil {
		return "", err
	}

	for k := len(d.Decorators) - 1; k >= 0; k-- {
		sb.WriteString(d.Name + " = " + d.Decorators[k] + "(" + d.Name + ", \"" + d.Name + "\")\n")
	}

	return sb.String(), nil
}

// renderCtorAssignments compiles the head's constructor parameter list
// into the `__construct` body's self-assignments, one per parameter:
// `x` binds positionally to self.x, `self.x.y` targets a nested path,
// `&x` assigns the bare name, `#x` reads field x from a trailing
// options table, and `_` consumes a positional slot without binding.
// Parameter decorators wrap the bound value.
func (ex *Expander) renderCtorAssignments(ctorArgs []token.Token) (string, error) {
	var sb strings.Builder
	argIndex := 1

	for _, group := range splitArgs(ctorArgs) {
		decorators, i := parseDecorators(group, 0)

		name := strings.TrimSpace(render(trimWS(group[i:])))
		if name == "" {
			continue
		}

		if name == "_" {
			argIndex++
			continue
		}

		var expr string
		if strings.HasPrefix(name, "#") {
			name = name[1:]
			slot := strconv.Itoa(argIndex)
			expr = "type(args[" + slot + "]) == \"table\" and args[" + slot + "]." + name + " or nil"
		} else {
			expr = "args[" + strconv.Itoa(argIndex) + "]"
			argIndex++
		}

		var target string
		switch {
		case strings.Contains(name, "."):
			target = name
		case strings.HasPrefix(name, "&"):
			target = strings.TrimPrefix(name, "&")
		default:
			target = "self." + name
		}

		for k := len(decorators) - 1; k >= 0; k-- {
			expr = decorators[k] + "(self, " + expr + ", \"" + name + "\")"
		}

		sb.WriteString("  " + target + " = " + expr + "\n")
	}

	return sb.String(), nil
}

// renderCtorBlock renders an explicit constructor block. A block
// opening with a paren group destructures the constructor's argument
// table through spread! before the remaining statements run.
func renderCtorBlock(ctorBlock []token.Token) string {
	t := trimWS(ctorBlock)
	if len(t) == 0 {
		return ""
	}

	if t[0].Kind() == token.KindLeftParen {
		close := findMatchingParen(t, 0)
		if close != -1 {
			inner := render(trimWS(t[1:close]))
			rest := render(t[close+1:])
			return "  spread! args, { " + inner + " }\n" + rest
		}
	}

	return "  " + render(t)
}

// renderClassMembers walks the class body and appends method functions
// (`name(params) { body }` pairs, with method and parameter
// decorators) and field declarations (`name = expr`) to sb.
func (ex *Expander) renderClassMembers(sb *strings.Builder, className string, body []token.Token) error {
	i := 0
	for i < len(body) {
		i = skipWhitespace(body, i)
		if i >= len(body) {
			break
		}

		decorators, next := parseDecorators(body, i)
		i = next
		i = skipWhitespace(body, i)
		if i >= len(body) {
			break
		}

		exprToks, isDecl, next := captureMemberHead(body, i)
		if len(exprToks) == 0 {
			return ex.syntaxErrAt(body, i, "expected a field or method declaration in class body")
		}
		i = next

		if isDecl {
			ws := nonWS(exprToks)
			if len(ws) == 0 || ws[0].Kind() != token.KindIdentifier {
				return ex.syntaxErrAt(exprToks, 0, "expected an identifier for field declaration")
			}
			fieldName := ws[0].Text

			valueToks, after := captureUntilComma(body, i)
			i = after
			if i < len(body) && body[i].Kind() == token.KindComma {
				i++
			}

			sb.WriteString(className + "." + fieldName + " = " + render(trimWS(valueToks)) + "\n")
			continue
		}

		i = skipWhitespace(body, i)
		if i >= len(body) || body[i].Kind() != token.KindLeftBrace {
			return ex.syntaxErrAt(body, i, "expected '{' for method body")
		}
		close := findMatchingBrace(body, i)
		if close == -1 {
			return ex.unbalancedErrAt(body, i, "unterminated method body")
		}
		methodBody := body[i+1 : close]
		i = close + 1

		ws := nonWS(exprToks)
		if ws[0].Kind() != token.KindIdentifier {
			return ex.syntaxErrAt(exprToks, 0, "expected a method name")
		}
		methodName := ws[0].Text

		params, paramDecorators := parseMethodParams(exprToks)

		sb.WriteString("\nfunction " + className + ":" + methodName + "(" + params + ")\n")
		for _, pd := range paramDecorators {
			sb.WriteString(pd.name + " = " + pd.deco + "(self, " + pd.name + ", \"" + pd.name + "\")\n")
		}
		sb.WriteString(render(methodBody))
		sb.WriteString("\nend\n")

		for k := len(decorators) - 1; k >= 0; k-- {
			sb.WriteString(className + "." + methodName + " = " + decorators[k] + "(" + className + ", " + className + "." + methodName + ", \"" + methodName + "\")\n")
		}
	}

	return nil
}

// paramDecorator is one `@D x` parameter decorator inside a method
// parameter list: a rebinding statement emitted at the top of the
// method body.
type paramDecorator struct {
	name string
	deco string
}

// parseMethodParams strips the paren group following a method's name
// and splits it into the emitted parameter list plus any parameter
// decorators.
func parseMethodParams(exprToks []token.Token) (string, []paramDecorator) {
	var inner []token.Token
	for k, t := range exprToks {
		if t.Kind() == token.KindLeftParen {
			close := findMatchingParen(exprToks, k)
			if close != -1 {
				inner = exprToks[k+1 : close]
			}
			break
		}
	}

	var (
		names      []string
		decorators []paramDecorator
	)

	for _, group := range splitArgs(inner) {
		decos, i := parseDecorators(group, 0)

		name := strings.TrimSpace(render(trimWS(group[i:])))
		if name == "" {
			continue
		}

		names = append(names, name)
		for k := len(decos) - 1; k >= 0; k-- {
			decorators = append(decorators, paramDecorator{name: name, deco: decos[k]})
		}
	}

	return strings.Join(names, ", "), decorators
}

// captureMemberHead scans a class-body member's leading tokens: it
// stops (without consuming) at a top-level '{' (a method body
// follows), or stops after a top-level '=' with isDecl set (a field
// declaration follows).
func captureMemberHead(toks []token.Token, start int) (out []token.Token, isDecl bool, next int) {
	i := start
	paren := 0

	for i < len(toks) {
		t := toks[i]
		switch t.Kind() {
		case token.KindLeftBrace:
			if paren == 0 {
				return out, false, i
			}
			out = append(out, t)
		case token.KindLeftParen:
			paren++
			out = append(out, t)
		case token.KindRightParen:
			if paren == 0 {
				return out, false, i
			}
			paren--
			out = append(out, t)
		case token.KindSymbol:
			if t.Text == "=" && paren == 0 {
				return out, true, i + 1
			}
			out = append(out, t)
		default:
			out = append(out, t)
		}
		i++
	}

	return out, false, i
}

// captureUntilComma collects tokens up to the next top-level Comma,
// tracking brace and paren depth.
func captureUntilComma(toks []token.Token, start int) ([]token.Token, int) {
	var out []token.Token

	i := start
	paren, brace := 0, 0

	for i < len(toks) {
		t := toks[i]
		switch t.Kind() {
		case token.KindLeftParen:
			paren++
		case token.KindRightParen:
			if paren == 0 {
				return out, i
			}
			paren--
		case token.KindLeftBrace:
			brace++
		case token.KindRightBrace:
			if brace == 0 {
				return out, i
			}
			brace--
		case token.KindComma:
			if paren == 0 && brace == 0 {
				return out, i
			}
		}
		out = append(out, t)
		i++
	}

	return out, i
}

// containsIdentifier reports whether toks contains the bare identifier
// name, used to detect an explicit `super` call in a constructor
// block.
func containsIdentifier(toks []token.Token, name string) bool {
	for _, t := range toks {
		if t.Kind() == token.KindIdentifier && t.Text == name {
			return true
		}
	}
	return false
}
