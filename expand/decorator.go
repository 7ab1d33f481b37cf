package expand

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// decoratorArm is one `shape { body }` branch of a decorator!
// definition, captured as rendered text.
type decoratorArm struct {
	sig  string
	body string
}

// rewriteDecorator implements decorator!(body): it defines a
// *decorator*, not an application of one — a
// callable later invoked as `@D(...)` on classes, methods, enums,
// variants, parameters, and functions. body is a sequence of
// `shape { ... }` arms: `_` (common code run for every shape),
// `(_function) { ... }`, `(_class) { ... }`, `(_class, method) { ...
// }`, `(_self, value) { ... }` (parameter decorators), `(_enum)
// { ... }`, `(_enum, variant) { ... }` (the variant body may itself
// contain `_`/"static"/"dynamic" sub-arms). The whole thing compiles
// to one runtime function that dispatches on the shape of its
// arguments (a class table has __call_init; a parameter call passes a
// third argument).
func rewriteDecorator(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	if len(args) == 0 {
		return "", newSyntaxError(call.Span(), ex.text, "decorator! expects a body")
	}

	body := stripOuterBraces(args[0])

	var (
		common      string
		classMethod decoratorArm
		classArm    decoratorArm
		enumVariant decoratorArm
		enumArm     decoratorArm
		param       decoratorArm
		functionArm decoratorArm
	)

	i := 0
	for i < len(body) {
		i = skipWhitespace(body, i)
		if i >= len(body) {
			break
		}

		sigToks, next := captureExpression(body, i)
		i = next
		i = skipWhitespace(body, i)
		if i >= len(body) {
			break
		}

		if body[i].Kind() != token.KindLeftBrace {
			return "", ex.syntaxErrAt(body, i, "expected '{' after decorator! branch signature")
		}
		close := findMatchingBrace(body, i)
		if close == -1 {
			return "", ex.unbalancedErrAt(body, i, "unterminated decorator! branch")
		}
		armBody := render(body[i+1 : close])
		i = close + 1

		sig := strings.TrimSpace(render(sigToks))

		switch {
		case sig == "_":
			common = armBody

		case strings.HasPrefix(sig, "(") && strings.HasSuffix(sig, ")"):
			inner := sig[1 : len(sig)-1]
			params := splitTrim(inner)

			switch len(params) {
			case 1:
				switch params[0] {
				case "_class":
					classArm = decoratorArm{sig: inner, body: armBody}
				case "_enum":
					enumArm = decoratorArm{sig: inner, body: armBody}
				case "_function":
					functionArm = decoratorArm{sig: inner, body: armBody}
				}
			case 2:
				switch {
				case params[0] == "_class" && params[1] == "method":
					classMethod = decoratorArm{sig: inner, body: armBody}
				case params[0] == "_enum" && params[1] == "variant":
					enumVariant = decoratorArm{sig: inner, body: armBody}
				case params[0] == "_self" && params[1] == "value":
					param = decoratorArm{sig: inner, body: armBody}
				}
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("function(...)\n    local arg1, arg2, arg3 = select(1, ...)\n local name = arg2\n if arg3 then name = arg3 end\n")

	if common != "" {
		sb.WriteString(common)
		sb.WriteString("\n")
	}

	first := true
	ifOrElseif := func() string {
		if first {
			first = false
			return "if"
		}
		return "elseif"
	}

	if param.body != "" {
		sb.WriteString("    " + ifOrElseif() + " type(arg1) == \"table\" and arg1.__class and arg3 then\n")
		sb.WriteString("      local " + param.sig + " = arg1, arg2\n")
		sb.WriteString(param.body)
	}

	if functionArm.body != "" {
		sb.WriteString("    " + ifOrElseif() + " type(arg1) == \"function\" and not arg3 then\n")
		sb.WriteString("      local " + functionArm.sig + " = arg1\n")
		sb.WriteString(functionArm.body)
	}

	if classMethod.body != "" {
		sb.WriteString("    " + ifOrElseif() + " type(arg1) == \"table\" and arg1.__call_init and arg3 then\n")
		sb.WriteString("      local " + classMethod.sig + " = arg1, arg2\n")
		sb.WriteString(classMethod.body)
	}

	if classArm.body != "" {
		sb.WriteString("    " + ifOrElseif() + " type(arg1) == \"table\" and arg1.__call_init and not arg3 then\n")
		sb.WriteString("      local " + classArm.sig + " = arg1\n")
		sb.WriteString(classArm.body)
	}

	if enumVariant.body != "" {
		common, static, dynamic := splitEnumVariantBody(enumVariant.body)

		sb.WriteString("    " + ifOrElseif() + " type(arg1) == \"table\" and arg1.__is_enum and arg3 then\n")
		sb.WriteString("      local " + enumVariant.sig + " = arg1, arg2\n")
		if common != "" {
			sb.WriteString(common)
		}
		sb.WriteString("\n      if type(arg2) == \"function\" then\n")
		sb.WriteString(dynamic)
		sb.WriteString("\n      else\n")
		sb.WriteString(static)
		sb.WriteString("\n      end\n")
	}

	if enumArm.body != "" {
		sb.WriteString("    " + ifOrElseif() + " type(arg1) == \"table\" and arg1.__is_enum and not arg3 then\n")
		sb.WriteString("      local " + enumArm.sig + " = arg1\n")
		sb.WriteString(enumArm.body)
	}

	if !first {
		sb.WriteString("    end\n")
	}
	sb.WriteString("  end")

	return sb.String(), nil
}

// splitTrim splits s on commas and trims each part.
func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// splitEnumVariantBody parses the `_`/"static"/"dynamic" sub-arms
// nested inside a `(_enum, variant) { ... }` decorator! arm, operating
// on already-rendered text: a decorator! variant body is itself a
// sequence of `sub-shape { ... }` arms, but since rewriteDecorator has
// already flattened its own arms to text by this point, the sub-arms
// are re-lexed here rather than threaded through as tokens.
func splitEnumVariantBody(body string) (common, static, dynamic string) {
	toks := token.NewLexer("<decorator-variant>", body).Tokenize()

	i := 0
	for i < len(toks) {
		i = skipWhitespace(toks, i)
		if i >= len(toks) {
			break
		}

		sigToks, next := captureExpression(toks, i)
		i = next
		i = skipWhitespace(toks, i)
		if i >= len(toks) || toks[i].Kind() != token.KindLeftBrace {
			break
		}

		close := findMatchingBrace(toks, i)
		if close == -1 {
			break
		}
		sub := render(toks[i+1 : close])
		i = close + 1

		switch strings.TrimSpace(render(sigToks)) {
		case "_":
			common = sub
		case "static":
			static = sub
		case "dynamic":
			dynamic = sub
		}
	}

	return common, static, dynamic
}

// captureExpression scans toks from start: after skipping leading
// whitespace, a '(' opens a balanced parenthesized group that is
// returned whole; a single Identifier is returned alone; anything else
// yields no tokens. decorator!'s branch-signature scanner uses this
// to tell `(_class, method)` from the bare `_` catch-all.
func captureExpression(toks []token.Token, start int) ([]token.Token, int) {
	i := skipWhitespace(toks, start)
	if i >= len(toks) {
		return nil, i
	}

	if toks[i].Kind() == token.KindLeftParen {
		close := findMatchingParen(toks, i)
		if close == -1 {
			return nil, i
		}
		return toks[i : close+1], close + 1
	}

	if toks[i].Kind() == token.KindIdentifier {
		return toks[i : i+1], i + 1
	}

	return nil, start
}
