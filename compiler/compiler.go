// Package compiler ties the lexer, macro expander, and code generator
// into the single entry point an embedder calls: Text → Lexer →
// Tokens → Macro Expander → Tokens → Code Generator → Host-language
// text. It owns the Compiler context across calls (macro definitions
// live for the Compiler's lifetime) but otherwise holds no state of
// its own.
package compiler

import (
	"github.com/lulu-lang/lulu/codegen"
	"github.com/lulu-lang/lulu/expand"
	"github.com/lulu-lang/lulu/macro"
	"github.com/lulu-lang/lulu/sourcemap"
	"github.com/lulu-lang/lulu/token"
)

// Compiler holds the mutable compile-time state (macro registry, cfg
// defines, import map, test filter, env tag, import callback) and
// offers the embedder-facing API. It is not safe for concurrent use —
// serializing calls is the embedder's burden.
type Compiler struct {
	ctx *expand.Context
}

// New constructs a Compiler with a fresh Context, seeded the way
// expand.NewContext seeds one: the built-in macro table plus OS/ARCH/
// FAMILY defines.
func New() *Compiler {
	return &Compiler{ctx: expand.NewContext()}
}

// Result is one compile call's output: the emitted host-language text
// plus the source map from emitted text back to the surface source,
// built eagerly since every compile call needs it for bundling or
// diagnostics.
type Result struct {
	Text      string
	SourceMap *sourcemap.Map
}

// Compile lexes, expands, and generates text for one surface-source
// file. manifest, when non-empty, seeds this file's import entry the
// way a config.Manifest's Imports would; path names the file for
// error spans, is the key of that import entry, and is the Parent of
// any imports the file records.
//
// Compile is idempotent for inputs containing no macros or sugar, and
// otherwise depends on the macros and defines already installed on c —
// it never resets c's state between calls.
func (c *Compiler) Compile(text string, path string, manifest []byte) (Result, error) {
	if path == "" {
		path = "<input>"
	}

	lex := token.NewLexer(path, text)
	toks := lex.Tokenize()

	ex := expand.NewExpander(c.ctx, path, []rune(text))

	expanded, err := ex.Expand(toks)
	if err != nil {
		return Result{}, err
	}

	emitted, err := codegen.Generate(expanded)
	if err != nil {
		return Result{}, err
	}

	if len(manifest) > 0 {
		c.ctx.RecordManifest(path, manifest)
	}

	return Result{
		Text:      emitted,
		SourceMap: sourcemap.Build(text, emitted),
	}, nil
}

// DefineMacro registers or replaces a user macro.
func (c *Compiler) DefineMacro(name string, params []macro.Param, body []token.Token) {
	c.ctx.DefineMacro(name, params, body)
}

// DefineCfg installs a compile-time define.
func (c *Compiler) DefineCfg(key, value string) {
	c.ctx.DefineCfg(key, value)
}

// SetEnv sets the current compilation environment tag, controlling
// test! selection.
func (c *Compiler) SetEnv(tag string) {
	c.ctx.SetEnv(tag)
}

// SetCurrentTest selects (or, with nil, clears) the single test! entry
// that rewriteTest emits as a call rather than skips.
func (c *Compiler) SetCurrentTest(name *string) {
	c.ctx.SetCurrentTest(name)
}

// SetImportCallback installs the callback invoked with
// (normalized_name, path, parent, manifest) whenever import!,
// include_bytes!, or include_string! resolves a dependency
// (set_import_callback).
func (c *Compiler) SetImportCallback(cb expand.ImportCallback) {
	c.ctx.SetImportCallback(cb)
}

// SetPragma configures the host function name lml! compiles markup
// tags into; the zero value keeps the default,
// lml_create.
func (c *Compiler) SetPragma(name string) {
	c.ctx.SetPragma(name)
}

// Imports returns the import map accumulated so far: a
// snapshot, not a live view, so the embedder can inspect it without
// racing a later compile call.
func (c *Compiler) Imports() map[string]expand.ImportEntry {
	out := make(map[string]expand.ImportEntry, len(c.ctx.Imports))
	for k, v := range c.ctx.Imports {
		out[k] = v
	}

	return out
}
