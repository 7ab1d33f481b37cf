package expand

import "github.com/lulu-lang/lulu/token"

// rewritePackage implements package!: records the declaring file's
// package name in the context for diagnostics and
// bundling, with no effect on the emitted code.
func rewritePackage(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	if len(args) != 1 {
		return "", newSyntaxError(call.Span(), ex.text, "package! expects a single name")
	}

	nameToks := nonWS(args[0])
	if len(nameToks) != 1 ||
		(nameToks[0].Kind() != token.KindIdentifier && nameToks[0].Kind() != token.KindString) {
		return "", ex.syntaxErrAt(nameToks, 0, "package! expects a name string")
	}

	ex.ctx.LastPackage = nameToks[0].Text

	return "", nil
}
