package codegen

import "github.com/lulu-lang/lulu/token"

// tryPointerSugar recognizes the pointer sugar: `&x` ->
// `ptr_of(x)`, `*x` -> `ptr_deref(x)`, and `*x = y` -> `ptr_set(x, y)`.
// Both operators are prefix-only; `&`/`*` in infix position (`a * b`,
// a genuine multiply) must fall through untouched, so this only fires
// when the previous significant token is NOT itself operand-shaped.
func tryPointerSugar(toks []token.Token, i int) (string, int, bool, error) {
	t := toks[i]
	if t.Kind() != token.KindSymbol || (t.Text != "&" && t.Text != "*") {
		return "", 0, false, nil
	}

	if prev := lastSignificant(toks, i); prev != -1 && isOperandEnd(toks[prev]) {
		return "", 0, false, nil
	}

	operandEnd := skipWhitespace(toks, i+1)
	if operandEnd >= len(toks) {
		return "", 0, false, nil
	}

	opStart := operandEnd
	switch toks[opStart].Kind() {
	case token.KindNumber, token.KindString:
		operandEnd = opStart + 1
	case token.KindIdentifier:
		operandEnd = scanLValue(toks, opStart)
	default:
		return "", 0, false, nil
	}

	operand := render(trimWS(toks[opStart:operandEnd]))

	if t.Text == "&" {
		return "ptr_of(" + operand + ")", operandEnd, true, nil
	}

	// '*' — check for the `*x = y` set form.
	after := skipWhitespace(toks, operandEnd)
	if after < len(toks) && toks[after].Kind() == token.KindSymbol && toks[after].Text == "=" {
		rhsStart := skipWhitespace(toks, after+1)
		rhsEnd := scanStatementEnd(toks, rhsStart)
		rhs := render(trimWS(toks[rhsStart:rhsEnd]))

		return "ptr_set(" + operand + ", " + rhs + ")", rhsEnd, true, nil
	}

	return "ptr_deref(" + operand + ")", operandEnd, true, nil
}
