// Package config parses the project manifest: a small participle
// grammar that seeds a Compiler's cfg defines and import map from a
// file instead of one-by-one API calls.
package config

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"golang.org/x/mod/semver"
)

var lex = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "comment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_./-]*`},
	{Name: "Symbol", Pattern: `[={}]`},
	{Name: "whitespace", Pattern: `\s+`},
})

// Manifest is the parsed form of a lulu.mod file.
type Manifest struct {
	Module  string     `"module" @String`
	Cfg     []CfgEntry `("cfg" "{" @@* "}")?`
	Entries []string   `("entry" @String)*`
	Imports []Import   `@@*`
}

// CfgEntry is one `KEY = "value"` line inside a manifest's cfg block —
// seeds the same defines `define_cfg` installs one at a time.
type CfgEntry struct {
	Key   string `@Ident "="`
	Value string `@String`
}

// Import is one `import name "path" [manifest "file"] [version vX.Y.Z]`
// declaration, mirroring the (normalized_name, path, manifest) triple
// `set_import_callback` receives when `import!` resolves at compile
// time.
type Import struct {
	Name     string  `"import" @Ident`
	Path     string  `@String`
	Manifest string  `("manifest" @String)?`
	Version  *SemVer `("version" @@)?`
}

// SemVer wraps a version identifier, validated against
// golang.org/x/mod/semver on capture so a malformed version string is
// a manifest parse error rather than a silent pass-through.
type SemVer struct {
	Value string `@Ident`
}

// Capture validates the raw token text as a semantic version.
func (s *SemVer) Capture(values []string) error {
	s.Value = values[0]

	if !semver.IsValid(s.Value) {
		return fmt.Errorf("config: invalid semantic version %q", s.Value)
	}

	return nil
}

var manifestParser = participle.MustBuild[Manifest](
	participle.Lexer(lex),
	participle.Unquote("String"),
)

// ParseManifest parses the lulu.mod file at filename.
func ParseManifest(filename string) (*Manifest, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("config: unable to open manifest: %w", err)
	}
	defer file.Close()

	m, err := manifestParser.Parse(filename, file)
	if err != nil {
		return nil, fmt.Errorf("config: unable to parse manifest: %w", err)
	}

	return m, nil
}

// CfgDefines returns the manifest's cfg block as a plain map, ready to
// be installed one-by-one via define_cfg.
func (m *Manifest) CfgDefines() map[string]string {
	defines := make(map[string]string, len(m.Cfg))
	for _, entry := range m.Cfg {
		defines[entry.Key] = entry.Value
	}

	return defines
}
