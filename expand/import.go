package expand

import "github.com/lulu-lang/lulu/token"

// rewriteImport implements import!: records an entry in the context's
// import map (normalized path as key) and
// invokes the import callback if one is set, then emits a local
// binding to a require call the bundler/runtime resolves by that same
// normalized key.
func rewriteImport(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	name, path, err := parseImportArgs(ex, call, args)
	if err != nil {
		return "", err
	}

	key := normalizeLulibPath(path)
	ex.ctx.recordImport(ImportEntry{Key: key, Path: path, Parent: ex.file})

	return "local " + name + " = require(\"" + key + "\")\n", nil
}

// rewriteIncludeBytes implements include_bytes!: records the asset
// under a `bytes://` key in the import map so the
// bundler embeds it, and expands to a `bytes_from` call the host
// runtime resolves by that same key at load time.
func rewriteIncludeBytes(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	path, err := parseIncludePath(ex, call, args)
	if err != nil {
		return "", err
	}

	key := "bytes://" + normalizeLulibPath(path)
	ex.ctx.recordImport(ImportEntry{Key: key, Path: path, Parent: ex.file})

	return "bytes_from(\"" + key + "\")", nil
}

// rewriteIncludeString implements include_string!, identical to
// include_bytes! except the expansion views the embedded
// bytes as text at the point of use.
func rewriteIncludeString(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	path, err := parseIncludePath(ex, call, args)
	if err != nil {
		return "", err
	}

	key := "bytes://" + normalizeLulibPath(path)
	ex.ctx.recordImport(ImportEntry{Key: key, Path: path, Parent: ex.file})

	return "bytes_from(\"" + key + "\"):to_string()", nil
}

// parseIncludePath extracts the single path string literal of an
// include_bytes!/include_string! call.
func parseIncludePath(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	if len(args) != 1 {
		return "", newSyntaxError(call.Span(), ex.text, "expected a single path string")
	}

	pathToks := nonWS(args[0])
	if len(pathToks) != 1 || pathToks[0].Kind() != token.KindString {
		return "", ex.syntaxErrAt(pathToks, 0, "path must be a string literal")
	}

	return pathToks[0].Text, nil
}

// parseImportArgs extracts the binding identifier and path string
// literal shared by import!/include_bytes!/include_string!.
func parseImportArgs(ex *Expander, call token.Token, args [][]token.Token) (name, path string, err error) {
	if len(args) != 2 {
		return "", "", newSyntaxError(call.Span(), ex.text, "expected a binding name and a path string")
	}

	nameToks := nonWS(args[0])
	if len(nameToks) != 1 || nameToks[0].Kind() != token.KindIdentifier {
		return "", "", ex.syntaxErrAt(nameToks, 0, "binding name must be a single identifier")
	}

	pathToks := nonWS(args[1])
	if len(pathToks) != 1 || pathToks[0].Kind() != token.KindString {
		return "", "", ex.syntaxErrAt(pathToks, 0, "path must be a string literal")
	}

	return nameToks[0].Text, pathToks[0].Text, nil
}
