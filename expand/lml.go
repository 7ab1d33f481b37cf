package expand

import (
	"github.com/lulu-lang/lulu/markup"
	"github.com/lulu-lang/lulu/token"
)

// rewriteLML implements lml!: hands the call's raw source text to the
// markup compiler, which turns the JSX-like tag
// syntax into nested pragma(...) calls. Any `{expr}` attribute or
// child content is carried through verbatim, so macro calls nested
// inside an lml! block are expanded normally once the Expander relexes
// this rewriter's output.
func rewriteLML(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	if len(args) != 1 {
		return "", newSyntaxError(call.Span(), ex.text, "lml! expects a single markup tag")
	}

	src := render(args[0])

	out, err := markup.Compile(src, ex.ctx.PragmaName())
	if err != nil {
		return "", newSyntaxError(call.Span(), ex.text, err.Error())
	}

	return out, nil
}
