package expand

import (
	"runtime"

	"github.com/lulu-lang/lulu/macro"
	"github.com/lulu-lang/lulu/token"
)

// ImportEntry records one resolved import!/include_bytes!/
// include_string! call.
type ImportEntry struct {
	Key      string
	Path     string
	Parent   string
	Manifest []byte
}

// ImportCallback is invoked whenever import!/include_bytes!/
// include_string! resolves a new dependency.
type ImportCallback func(entry ImportEntry)

// Context is the mutable compiler state: the macro registry, the cfg!
// defines table, the import map, the current test filter, the current
// environment tag, and an optional import callback. It is an explicit
// value threaded through every operation, never process-wide state.
type Context struct {
	Registry *macro.Registry
	// Defines holds compile-time cfg! keys, seeded with OS, ARCH,
	// FAMILY.
	Defines map[string]string
	// Imports maps a normalized module key to its resolved entry.
	Imports map[string]ImportEntry
	// Env is the current compilation environment tag (e.g. "dev",
	// "test").
	Env string
	// CurrentTest, when non-nil, is the name of the single test!
	// entry selected for execution.
	CurrentTest *string
	// LastPackage is the name most recently declared by package!,
	// side-effect only.
	LastPackage string
	// Pragma is the host function name lml! compiles tags into.
	// Empty means the default, lml_create.
	Pragma string

	importCallback ImportCallback
}

// defaultPragma is the lml! pragma function name used when Pragma is
// unset.
const defaultPragma = "lml_create"

// PragmaName returns the configured pragma function name, or
// defaultPragma if none was set.
func (c *Context) PragmaName() string {
	if c.Pragma == "" {
		return defaultPragma
	}
	return c.Pragma
}

// SetPragma configures the host function name lml! compiles tags into.
func (c *Context) SetPragma(name string) {
	c.Pragma = name
}

// NewContext constructs a fresh compiler context, seeding Defines with
// the host platform's OS/ARCH/FAMILY the way a real embedder would at
// start-up.
func NewContext() *Context {
	return &Context{
		Registry: macro.NewRegistry(),
		Defines: map[string]string{
			"OS":     runtime.GOOS,
			"ARCH":   runtime.GOARCH,
			"FAMILY": family(runtime.GOOS),
		},
		Imports: make(map[string]ImportEntry),
		Env:     "dev",
	}
}

func family(goos string) string {
	switch goos {
	case "linux", "darwin", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris", "android", "ios":
		return "unix"
	case "windows":
		return "windows"
	default:
		return "unknown"
	}
}

// DefineMacro registers or replaces a user macro.
func (c *Context) DefineMacro(name string, params []macro.Param, body []token.Token) {
	c.Registry.DefineTemplate(name, params, body)
}

// DefineCfg installs a compile-time define.
func (c *Context) DefineCfg(key, value string) {
	c.Defines[key] = value
}

// SetEnv sets the current compilation environment tag.
func (c *Context) SetEnv(tag string) {
	c.Env = tag
}

// SetCurrentTest sets or clears the test! selection filter
// (set_current_test).
func (c *Context) SetCurrentTest(name *string) {
	c.CurrentTest = name
}

// SetImportCallback installs the callback invoked by import!/
// include_bytes!/include_string!.
func (c *Context) SetImportCallback(cb ImportCallback) {
	c.importCallback = cb
}

// RecordManifest seeds the import map with path's own manifest bytes,
// the way compile(text, path, manifest) attaches a top-level module's
// manifest rather than only ever discovering one
// through a nested import!. It shares recordImport's callback-invoking
// path so an embedder sees top-level and nested manifests the same
// way.
func (c *Context) RecordManifest(path string, manifest []byte) {
	c.recordImport(ImportEntry{Key: path, Path: path, Manifest: manifest})
}

// recordImport stores an import map entry and invokes the callback if
// set.
func (c *Context) recordImport(entry ImportEntry) {
	c.Imports[entry.Key] = entry

	if c.importCallback != nil {
		c.importCallback(entry)
	}
}
