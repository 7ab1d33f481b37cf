// Package expand implements the macro expander: a single-pass,
// recursively re-entrant rewriter that turns a macro-call token
// stream into a macro-free token stream ready for codegen.
package expand

import (
	"github.com/lulu-lang/lulu/macro"
	"github.com/lulu-lang/lulu/token"
)

// Rewriter is the signature every built-in dispatch macro implements.
// It receives the already-split argument token groups and the span of
// the whole macro call, and returns host-language text — the
// Expander relexes and recursively re-expands that text before
// splicing it into the surrounding stream.
type Rewriter func(ex *Expander, call token.Token, args [][]token.Token) (string, error)

var builtins = map[string]Rewriter{
	"class":          rewriteClass,
	"enum":           rewriteEnum,
	"match":          rewriteMatch,
	"decorator":      rewriteDecorator,
	"cfg":            rewriteCfg,
	"test":           rewriteTest,
	"spread":         rewriteSpread,
	"collect":        rewriteCollect,
	"import":         rewriteImport,
	"include_bytes":  rewriteIncludeBytes,
	"include_string": rewriteIncludeString,
	"package":        rewritePackage,
	"lml":            rewriteLML,
}

// Expander applies one compiler Context to one source file's token
// stream. A fresh Expander is created per file by the Compiler, but
// shares the Context (and therefore the macro registry, cfg defines,
// and import map) across every file in a compilation.
type Expander struct {
	ctx  *Context
	file string
	text []rune

	// seq hands out strictly increasing sequence numbers to tokens
	// produced by relexing rewriter output, so that tokens originating
	// from nested/recursive expansion never collide with the source
	// file's own sequence numbers.
	seq int

	// depth counts nested macro-call expansions currently on the Go
	// call stack. A macro whose own expansion (directly or through a
	// chain of others) re-enters itself without ever bottoming out
	// would otherwise recurse until the process runs out of stack;
	// maxExpandDepth turns that into a reported UnbalancedError.
	depth int
}

// maxExpandDepth bounds macro re-entry depth.
const maxExpandDepth = 256

// NewExpander constructs an Expander for one source file.
func NewExpander(ctx *Context, file string, text []rune) *Expander {
	return &Expander{ctx: ctx, file: file, text: text}
}

// Expand runs the macro expander over toks: a single left-to-right
// pass that recursively re-enters itself for nested constructs and
// rewriter output.
func (ex *Expander) Expand(toks []token.Token) ([]token.Token, error) {
	return ex.expandScope(toks)
}

// expandScope performs one left-to-right pass over toks, handling
// macro definitions, macro calls, and block-trailer forms, and
// recursively expanding nested scopes and rewriter output as it goes.
func (ex *Expander) expandScope(toks []token.Token) ([]token.Token, error) {
	var out []token.Token

	for i := 0; i < len(toks); {
		t := toks[i]

		switch t.Kind() {
		case token.KindMacroKeyword:
			next, err := ex.consumeMacroDefinition(toks, i)
			if err != nil {
				return nil, err
			}
			i = next

		case token.KindMacroCall:
			produced, next, err := ex.consumeMacroCall(toks, i)
			if err != nil {
				return nil, err
			}
			out = append(out, produced...)
			i = next

		case token.KindLeftBrace:
			produced, next, err := ex.consumeBrace(toks, i)
			if err != nil {
				return nil, err
			}
			out = append(out, produced...)
			i = next

		case token.KindIdentifier:
			if t.Text == "lulib" {
				produced, next, ok, err := ex.consumeLulib(toks, i, false)
				if err != nil {
					return nil, err
				}
				if ok {
					out = append(out, produced...)
					i = next
					continue
				}
			}

			if t.Text == "using" {
				produced, next, ok, err := ex.consumeUsingLulib(toks, i)
				if err != nil {
					return nil, err
				}
				if ok {
					out = append(out, produced...)
					i = next
					continue
				}
			}

			out = append(out, t)
			i++

		default:
			out = append(out, t)
			i++
		}
	}

	return out, nil
}

// consumeMacroDefinition parses `macro { Name($p1, $p2) { body } }`
// starting at the MacroKeyword token toks[i], registers the resulting
// template in the context registry, and returns the index following
// the whole definition. Definitions emit no output tokens.
func (ex *Expander) consumeMacroDefinition(toks []token.Token, i int) (int, error) {
	j := skipWhitespace(toks, i+1)
	if j >= len(toks) || toks[j].Kind() != token.KindLeftBrace {
		return 0, ex.syntaxErrAt(toks, i, "expected '{' after 'macro'")
	}

	outerOpen := j
	outerClose := findMatchingBrace(toks, outerOpen)
	if outerClose == -1 {
		return 0, ex.unbalancedErrAt(toks, outerOpen, "unterminated macro definition")
	}

	k := skipWhitespace(toks, outerOpen+1)
	if k >= outerClose || toks[k].Kind() != token.KindIdentifier {
		return 0, ex.syntaxErrAt(toks, k, "expected macro name")
	}
	name := toks[k].Text

	k = skipWhitespace(toks, k+1)
	if k >= outerClose || toks[k].Kind() != token.KindLeftParen {
		return 0, ex.syntaxErrAt(toks, k, "expected '(' in macro definition")
	}

	parenClose := findMatchingParen(toks, k)
	if parenClose == -1 || parenClose > outerClose {
		return 0, ex.unbalancedErrAt(toks, k, "unterminated macro parameter list")
	}

	params, err := ex.parseParamList(toks[k+1 : parenClose])
	if err != nil {
		return 0, err
	}

	k = skipWhitespace(toks, parenClose+1)
	if k >= outerClose || toks[k].Kind() != token.KindLeftBrace {
		return 0, ex.syntaxErrAt(toks, k, "expected '{' for macro body")
	}

	bodyOpen := k
	bodyClose := findMatchingBrace(toks, bodyOpen)
	if bodyClose == -1 || bodyClose > outerClose {
		return 0, ex.unbalancedErrAt(toks, bodyOpen, "unterminated macro body")
	}

	body := toks[bodyOpen+1 : bodyClose]

	end := skipWhitespace(toks, bodyClose+1)
	if end != outerClose {
		return 0, ex.syntaxErrAt(toks, end, "unexpected tokens after macro body")
	}

	ex.ctx.Registry.DefineTemplate(name, params, body)

	return outerClose + 1, nil
}

func (ex *Expander) parseParamList(toks []token.Token) ([]macro.Param, error) {
	var params []macro.Param

	for _, group := range splitArgs(toks) {
		g := nonWS(group)
		if len(g) == 0 {
			continue
		}
		if len(g) != 1 || g[0].Kind() != token.KindMacroParam {
			return nil, ex.syntaxErrAt(toks, 0, "macro parameters must be $name")
		}
		params = append(params, macro.Param{Name: g[0].Text})
	}

	return params, nil
}

// consumeMacroCall parses a macro call at toks[i] (a MacroCall token),
// in either braced (`name!{args}`) or unbraced (`name! args`) form,
// dispatches to the built-in rewriter or template substitution, and
// returns the expanded output tokens plus the index following the
// call.
func (ex *Expander) consumeMacroCall(toks []token.Token, i int) ([]token.Token, int, error) {
	call := toks[i]
	name := call.Text

	def, ok := ex.ctx.Registry.Lookup(name)
	if !ok {
		return nil, 0, newUnknownMacroError(call.Span(), ex.text, name)
	}

	if ex.depth >= maxExpandDepth {
		return nil, 0, ex.unbalancedErrAt(toks, i, "macro expansion nested too deeply, possible recursive macro: "+name)
	}
	ex.depth++
	defer func() { ex.depth-- }()

	nb := skipWhitespace(toks, i+1)

	var (
		args [][]token.Token
		end  int
	)

	if nb < len(toks) && toks[nb].Kind() == token.KindLeftBrace {
		close := findMatchingBrace(toks, nb)
		if close == -1 {
			return nil, 0, ex.unbalancedErrAt(toks, nb, "unterminated macro call")
		}
		args = splitArgs(toks[nb+1 : close])
		end = close + 1
	} else {
		var scanErr error
		args, end, scanErr = ex.scanUnbracedArgs(toks, nb)
		if scanErr != nil {
			return nil, 0, scanErr
		}
	}

	switch def.Kind {
	case macro.KindBuiltin:
		rewriter, ok := builtins[def.Dispatch]
		if !ok {
			return nil, 0, ex.syntaxErrAt(toks, i, "no rewriter registered for "+def.Dispatch)
		}

		text, err := rewriter(ex, call, args)
		if err != nil {
			return nil, 0, err
		}

		produced, err := ex.relexAndExpand(text, call.Span().Begin)
		if err != nil {
			return nil, 0, err
		}

		return produced, end, nil

	default: // macro.KindTemplate
		substituted, err := ex.substituteTemplate(def, call, args)
		if err != nil {
			return nil, 0, err
		}

		produced, err := ex.expandScope(substituted)
		if err != nil {
			return nil, 0, err
		}

		return produced, end, nil
	}
}

// scanUnbracedArgs collects an unbraced macro call's arguments from
// toks[start:]: commas at depth zero separate arguments; a ';', line
// end, or the end of the enclosing scope terminates the list; and a
// brace block at depth zero is consumed as a single argument of its
// own with its delimiters dropped. After a block
// argument, a comma — even across a line break — continues the list,
// so several block arguments may follow one another.
func (ex *Expander) scanUnbracedArgs(toks []token.Token, start int) ([][]token.Token, int, error) {
	var (
		args [][]token.Token
		cur  []token.Token
	)

	flush := func() {
		if a := trimWS(cur); len(a) > 0 {
			args = append(args, a)
		}
		cur = nil
	}

	depth := 0
	i := start

	for i < len(toks) {
		t := toks[i]

		if t.Kind() == token.KindEOF {
			break
		}

		if depth == 0 {
			switch {
			case isSemicolon(t):
				flush()
				return args, i + 1, nil

			case hasNewline(t):
				flush()
				return args, i, nil

			case t.Kind() == token.KindComma:
				flush()
				i++
				continue

			case t.Kind() == token.KindLeftBrace:
				close := findMatchingBrace(toks, i)
				if close == -1 {
					return nil, 0, ex.unbalancedErrAt(toks, i, "unterminated macro call argument")
				}
				flush()
				args = append(args, trimWS(toks[i+1:close]))

				j := skipWhitespace(toks, close+1)
				if j < len(toks) && toks[j].Kind() == token.KindComma {
					i = j + 1
					continue
				}
				if j < len(toks) && isSemicolon(toks[j]) {
					return args, j + 1, nil
				}
				return args, close + 1, nil

			case t.Kind() == token.KindRightBrace || t.Kind() == token.KindRightParen:
				flush()
				return args, i, nil
			}
		}

		switch t.Kind() {
		case token.KindLeftParen:
			depth++
		case token.KindRightParen:
			depth--
		}

		cur = append(cur, t)
		i++
	}

	flush()

	return args, i, nil
}

// substituteTemplate replaces each $param reference in def.Body with
// the corresponding call argument's tokens, or an empty sequence for
// an omitted optional parameter.
func (ex *Expander) substituteTemplate(def *macro.Definition, call token.Token, args [][]token.Token) ([]token.Token, error) {
	index := make(map[string]int, len(def.Params))
	for idx, p := range def.Params {
		index[p.Name] = idx
	}

	var out []token.Token

	for _, bt := range def.Body {
		if bt.Kind() != token.KindMacroParam {
			out = append(out, bt)
			continue
		}

		paramName := bt.Text
		idx, known := index[paramName]
		if !known {
			out = append(out, bt)
			continue
		}

		param := def.Params[idx]

		if idx >= len(args) {
			if param.Optional() {
				continue
			}
			return nil, newMacroArityError(call.Span(), ex.text, def.Name, paramName)
		}

		out = append(out, args[idx]...)
	}

	return out, nil
}

// consumeBrace handles a bare `{` that is not part of a macro call: it
// finds the matching close brace, recursively expands the interior,
// and checks for a trailing `-> Head` or `-< Head` block-trailer form
// that synthesizes a class!/enum! call.
func (ex *Expander) consumeBrace(toks []token.Token, i int) ([]token.Token, int, error) {
	close := findMatchingBrace(toks, i)
	if close == -1 {
		return nil, 0, ex.unbalancedErrAt(toks, i, "unterminated block")
	}

	after := skipWhitespace(toks, close+1)
	if after < len(toks) && toks[after].Kind() == token.KindSymbol &&
		(toks[after].Text == "->" || toks[after].Text == "-<") {

		arrow := toks[after].Text

		headStart := skipWhitespace(toks, after+1)
		headEnd := headStart
		depth := 0

	headScan:
		for headEnd < len(toks) {
			tok := toks[headEnd]
			if tok.Kind() == token.KindEOF {
				break headScan
			}
			if depth == 0 && (isSemicolon(tok) || hasNewline(tok)) {
				break headScan
			}
			switch tok.Kind() {
			case token.KindLeftBrace, token.KindLeftParen:
				depth++
			case token.KindRightBrace, token.KindRightParen:
				if depth == 0 {
					break headScan
				}
				depth--
			}
			headEnd++
		}

		head := toks[headStart:headEnd]
		end := headEnd
		if end < len(toks) && isSemicolon(toks[end]) {
			end++
		}

		macroName := "class"
		if arrow == "-<" {
			macroName = "enum"
		}

		body := toks[i+1 : close]
		args := [][]token.Token{head, body}

		if ex.depth >= maxExpandDepth {
			return nil, 0, ex.unbalancedErrAt(toks, i, "macro expansion nested too deeply, possible recursive "+macroName+" trailer")
		}
		ex.depth++
		defer func() { ex.depth-- }()

		rewriter := builtins[macroName]
		call := toks[i] // block-trailer form has no literal name! token; borrow the brace's span

		text, err := rewriter(ex, call, args)
		if err != nil {
			return nil, 0, err
		}

		produced, err := ex.relexAndExpand(text, toks[i].Span().Begin)
		if err != nil {
			return nil, 0, err
		}

		return produced, end, nil
	}

	inner, err := ex.expandScope(toks[i+1 : close])
	if err != nil {
		return nil, 0, err
	}

	var out []token.Token
	out = append(out, toks[i])
	out = append(out, inner...)
	out = append(out, toks[close])

	return out, close + 1, nil
}

// relexAndExpand lexes rewriter-produced host-language text as a fresh
// token stream (offsetting sequence numbers so they never collide with
// the enclosing file's own tokens) and recursively expands it, so that
// a rewriter may itself emit further macro calls.
func (ex *Expander) relexAndExpand(text string, at token.Pos) ([]token.Token, error) {
	lex := token.NewLexer(ex.file, text)
	toks := lex.Tokenize()

	offset := ex.nextSeqBlock(len(toks))
	toks = rebase(toks, offset, at)

	return ex.expandScope(toks)
}

// nextSeqBlock reserves n sequence numbers for relexed tokens and
// returns the starting offset.
func (ex *Expander) nextSeqBlock(n int) int {
	start := ex.seq
	ex.seq += n + 1

	return start
}

// rebase rewrites each token's sequence number by adding offset, and
// anchors each token's reported position at at (rewriter output has no
// meaningful position of its own in the original source).
func rebase(toks []token.Token, offset int, at token.Pos) []token.Token {
	out := make([]token.Token, len(toks))

	for i, t := range toks {
		out[i] = t.Rebase(offset, at)
	}

	return out
}

func (ex *Expander) syntaxErrAt(toks []token.Token, i int, msg string) error {
	span := ex.spanAt(toks, i)
	return newSyntaxError(span, ex.text, msg)
}

func (ex *Expander) unbalancedErrAt(toks []token.Token, i int, msg string) error {
	span := ex.spanAt(toks, i)
	return newUnbalancedError(span, ex.text, msg)
}

func (ex *Expander) spanAt(toks []token.Token, i int) token.Span {
	if i >= 0 && i < len(toks) {
		return toks[i].Span()
	}
	if len(toks) > 0 {
		last := toks[len(toks)-1]
		return last.Span()
	}
	return token.NewSpan(0, 0, token.Pos{File: ex.file})
}
