package expand

import (
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// rewriteCollect implements collect!, the inverse of spread!. `collect!(pattern)` builds a table literal from a
// comma-separated list of `name = expr` entries (a bare `name` entry
// is sugar for `name = name`), plus spread forms that fold another
// value into the same table at runtime: `...x` appends x's array
// elements, `..x` merges x's keyed entries. With no spreads the result
// is a plain `{ ... }` table constructor; with at least one spread, an
// IIFE builds the table's literal entries first, then runs the spread
// loops, since those can only be expressed as statements.
func rewriteCollect(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	if len(args) == 0 {
		return "", newSyntaxError(call.Span(), ex.text, "collect! expects a pattern block")
	}

	items := extractPatternItems(stripOuterBraces(args[0]))

	hasSpreads := false
	var parts []string

	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "...") || strings.HasPrefix(trimmed, "..") {
			hasSpreads = true
			continue
		}

		if eq := strings.Index(trimmed, "="); eq != -1 {
			key := strings.TrimSpace(trimmed[:eq])
			val := strings.TrimSpace(trimmed[eq+1:])
			parts = append(parts, key+" = "+val)
		} else {
			parts = append(parts, trimmed+" = "+trimmed)
		}
	}

	if !hasSpreads {
		return "{ " + strings.Join(parts, ", ") + " }", nil
	}

	var sb strings.Builder
	sb.WriteString("(function()\n  local _tbl = {")
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString("}\n")

	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		switch {
		case strings.HasPrefix(trimmed, "..."):
			name := strings.TrimPrefix(trimmed, "...")
			sb.WriteString("  for _,v in ipairs(" + name + ") do table.insert(_tbl, v) end\n")
		case strings.HasPrefix(trimmed, ".."):
			name := strings.TrimPrefix(trimmed, "..")
			sb.WriteString("  for k,v in pairs(" + name + ") do _tbl[k] = v end\n")
		}
	}

	sb.WriteString("  return _tbl\nend)()")

	return sb.String(), nil
}
