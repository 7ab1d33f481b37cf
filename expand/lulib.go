package expand

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// consumeLulib recognizes the `lulib { Name, "path" }` shortcut: a
// bare identifier "lulib" followed by a brace group naming a binding
// and a module path. It rewrites the shortcut to a literal
// `lulib("Name", "normalized_name")` call — the runtime's
// package-manager-backed loader, a different host function from the
// require() path import! emits — and records the module in the import
// map directly, without firing the import callback. ok is false (with
// toks/i untouched) when the identifier isn't actually followed by a
// brace — i.e. "lulib" is being used as an ordinary identifier, not
// the shortcut.
func (ex *Expander) consumeLulib(toks []token.Token, i int, _ bool) ([]token.Token, int, bool, error) {
	j := skipWhitespace(toks, i+1)
	if j >= len(toks) || toks[j].Kind() != token.KindLeftBrace {
		return nil, 0, false, nil
	}

	close := findMatchingBrace(toks, j)
	if close == -1 {
		return nil, 0, true, ex.unbalancedErrAt(toks, j, "unterminated lulib shortcut")
	}

	name, path, err := ex.parseLulibArgs(toks, j, close)
	if err != nil {
		return nil, 0, true, err
	}

	text := ex.lulibCallText(name, path)

	produced, err := ex.relexAndExpand(text, toks[i].Span().Begin)
	if err != nil {
		return nil, 0, true, err
	}

	return produced, close + 1, true, nil
}

// consumeUsingLulib recognizes `using lulib { Name, "path" }`, which
// wraps the rewritten lulib(...) call in a `using { ... }` block so
// the loaded module's bindings are pulled directly into scope rather
// than bound to a namespace identifier.
func (ex *Expander) consumeUsingLulib(toks []token.Token, i int) ([]token.Token, int, bool, error) {
	j := skipWhitespace(toks, i+1)
	if j >= len(toks) || toks[j].Kind() != token.KindIdentifier || toks[j].Text != "lulib" {
		return nil, 0, false, nil
	}

	k := skipWhitespace(toks, j+1)
	if k >= len(toks) || toks[k].Kind() != token.KindLeftBrace {
		return nil, 0, false, nil
	}

	close := findMatchingBrace(toks, k)
	if close == -1 {
		return nil, 0, true, ex.unbalancedErrAt(toks, k, "unterminated lulib shortcut")
	}

	name, path, err := ex.parseLulibArgs(toks, k, close)
	if err != nil {
		return nil, 0, true, err
	}

	text := "using { " + ex.lulibCallText(name, path) + " }"

	produced, err := ex.relexAndExpand(text, toks[i].Span().Begin)
	if err != nil {
		return nil, 0, true, err
	}

	return produced, close + 1, true, nil
}

// lulibCallText builds the rewritten `lulib("Name", "normalized")`
// call and inserts the module into the import map. Unlike import!,
// the shortcut never invokes the import callback, so the entry is
// stored directly rather than through recordImport.
func (ex *Expander) lulibCallText(name, path string) string {
	key := normalizeLulibPath(path)
	ex.ctx.Imports[key] = ImportEntry{Key: key, Path: path, Parent: ex.file}

	return "lulib(\"" + name + "\", \"" + key + "\")"
}

// parseLulibArgs extracts the binding identifier and path string
// literal from the brace group toks[open+1:close].
func (ex *Expander) parseLulibArgs(toks []token.Token, open, close int) (name, path string, err error) {
	args := splitArgs(toks[open+1 : close])
	if len(args) != 2 {
		return "", "", ex.syntaxErrAt(toks, open, "lulib expects a name and a path")
	}

	nameToks := nonWS(args[0])
	if len(nameToks) != 1 || nameToks[0].Kind() != token.KindIdentifier {
		return "", "", ex.syntaxErrAt(toks, open, "lulib name must be a single identifier")
	}

	pathToks := nonWS(args[1])
	if len(pathToks) != 1 || pathToks[0].Kind() != token.KindString {
		return "", "", ex.syntaxErrAt(toks, open, "lulib path must be a string literal")
	}

	return nameToks[0].Text, pathToks[0].Text, nil
}

// normalizeLulibPath turns a slash-separated module path into the
// dash-joined module key used as the import map's key, stripping a
// trailing source extension.
func normalizeLulibPath(path string) string {
	path = strings.TrimSuffix(path, ".lulu")
	path = strings.TrimSuffix(path, ".lua")

	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	return strings.Join(parts, "-")
}
