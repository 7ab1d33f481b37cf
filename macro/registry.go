// Package macro implements the macro registry: a mapping from name to
// MacroDefinition, pre-populated with built-ins whose bodies are
// either token templates or a tagged dispatch-to-rewriter marker
// (KindTemplate carries a token body to substitute into, KindBuiltin
// carries a Dispatch name the expand package switches on).
package macro

import "github.com/lulu-lang/lulu/token"

// Kind distinguishes a user-defined token template from a built-in
// whose expansion is implemented in Go.
type Kind int

const (
	KindTemplate Kind = iota
	KindBuiltin
)

// Param is one formal parameter of a macro definition. A leading
// underscore in Name marks the parameter optional with an empty
// default.
type Param struct {
	Name string
}

// Optional reports whether this parameter may be omitted at the call
// site, substituting to an empty token sequence.
func (p Param) Optional() bool {
	return len(p.Name) > 0 && p.Name[0] == '_'
}

// Definition is a registered macro: either a token template with
// formal parameters, or a built-in dispatch marker.
type Definition struct {
	Name   string
	Kind   Kind
	Params []Param
	// Body holds the template token sequence for KindTemplate macros.
	Body []token.Token
	// Dispatch names the built-in rewriter for KindBuiltin macros (e.g.
	// "class", "match", "cfg" — looked up in the expand package's
	// builtins table).
	Dispatch string
}

// Registry holds macro definitions by name. Redefinition is
// last-write-wins.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry constructs a registry pre-populated with the built-in
// macro table.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]*Definition)}
	r.registerBuiltins()

	return r
}

// Define registers or replaces a macro definition.
func (r *Registry) Define(def *Definition) {
	r.defs[def.Name] = def
}

// DefineTemplate registers a user-defined template macro, as invoked
// by the Compiler API's define_macro.
func (r *Registry) DefineTemplate(name string, params []Param, body []token.Token) {
	r.Define(&Definition{Name: name, Kind: KindTemplate, Params: params, Body: body})
}

// Lookup resolves a macro by name, returning (nil, false) if
// unregistered.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Register adds an externally supplied plug-in macro (e.g. from a
// standard-module table at start-up), obeying the same last-write-wins
// binding rule as user macros.
func (r *Registry) Register(def *Definition) {
	r.Define(def)
}

// dispatchNames lists every built-in whose body is a sentinel
// dispatch marker rather than a token template. import,
// include_bytes, and include_string are dispatch built-ins rather
// than templates because they must record state in the compiler's
// import map and invoke the import callback — effects no pure token
// substitution can have.
var dispatchNames = []string{
	"class", "spread", "collect", "enum", "decorator",
	"match", "lml", "cfg", "package", "test",
	"import", "include_bytes", "include_string",
}

func (r *Registry) registerBuiltins() {
	for _, name := range dispatchNames {
		r.Define(&Definition{Name: name, Kind: KindBuiltin, Dispatch: name})
	}

	r.registerTemplate("for_each", []string{"item", "iterator", "block"}, `
for $item in ipairs($iterator) do
$block
end
`)
	r.registerTemplate("for_pairs", []string{"key", "value", "iterator", "block"}, `
for $key, $value in pairs($iterator) do
$block
end
`)
	r.registerTemplate("when", []string{"condition", "then_block", "_otherwise"}, `
if $condition then
$then_block
else
$_otherwise
end
`)
	r.registerTemplate("repeat_n", []string{"start", "times", "body"}, `
for i = $start, $times do
$body
end
`)
	r.registerTemplate("try_catch", []string{"try_block", "_catch_block"}, `
local ok, err = pcall(function()
$try_block
end)
if not ok then
$_catch_block
end
`)
	r.registerTemplate("lazy", []string{"name", "expr"}, `
local __lazy_$name
function get_$name()
if not __lazy_$name then __lazy_$name = $expr end
return __lazy_$name
end
`)
	r.registerTemplate("guard", []string{"condition", "error"}, `
if not ($condition) then $error end
`)
}

func (r *Registry) registerTemplate(name string, params []string, body string) {
	lex := token.NewLexer("<builtin:"+name+">", body)
	toks := lex.Tokenize()

	var ps []Param
	for _, p := range params {
		ps = append(ps, Param{Name: p})
	}

	r.Define(&Definition{Name: name, Kind: KindTemplate, Params: ps, Body: toks})
}
