package expand

import (
	"strconv"
	"strings"

	"github.com/lulu-lang/lulu/token"
)

// rewriteSpread implements spread!(source, pattern): destructures
// source's elements into local assignments, one per comma-separated
// pattern item:
//
//   - `...rest` takes every remaining element as a table (`{
//     unpack(source, i, j) }`); a plain trailing "." target (one
//     containing a dot) assigns without `local`, since it addresses an
//     existing table field rather than declaring a new variable.
//   - `_` skips one positional slot.
//   - `name.path` assigns `name.path = source[i]` (a targeted
//     assignment, no `local`).
//   - `name:prop` assigns `local name = source.prop` (a named field
//     read, not a positional one — it does not consume a slot).
//   - `&name` assigns `local name = source.name`.
//   - a plain `name` assigns `local name = source[i]` and advances the
//     positional index.
func rewriteSpread(ex *Expander, call token.Token, args [][]token.Token) (string, error) {
	if len(args) < 2 {
		return "", newSyntaxError(call.Span(), ex.text, "spread! expects a source and a pattern")
	}

	source := strings.TrimSpace(render(args[0]))
	items := extractPatternItems(stripOuterBraces(args[1]))

	var sb strings.Builder
	index := 1

	for i, item := range items {
		trimmed := strings.TrimSpace(item)

		switch {
		case strings.HasPrefix(trimmed, "..."):
			name := strings.TrimPrefix(trimmed, "...")
			var end string
			if i == len(items)-1 {
				end = "#" + source
			} else {
				end = "#" + source + " - " + strconv.Itoa(len(items)-(i+1))
			}

			decl := "local "
			if strings.Contains(name, ".") {
				decl = ""
			}
			sb.WriteString(decl + name + " = { unpack(" + source + ", " + strconv.Itoa(index) + ", " + end + ") }\n")
			index++

		case trimmed == "_":
			index++

		case strings.Contains(trimmed, ".") && !strings.Contains(trimmed, ":"):
			sb.WriteString(trimmed + " = " + source + "[" + strconv.Itoa(index) + "]\n")
			index++

		case strings.Contains(trimmed, ":"):
			colon := strings.Index(trimmed, ":")
			name := strings.TrimSpace(trimmed[:colon])
			prop := strings.TrimSpace(strings.TrimPrefix(trimmed[colon:], ":"))
			sb.WriteString("local " + name + " = " + source + "." + prop + "\n")

		case strings.HasPrefix(trimmed, "&"):
			name := strings.TrimPrefix(trimmed, "&")
			sb.WriteString("local " + name + " = " + source + "." + name + "\n")

		default:
			sb.WriteString("local " + trimmed + " = " + source + "[" + strconv.Itoa(index) + "]\n")
			index++
		}
	}

	return sb.String(), nil
}

// extractPatternItems splits pattern tokens on every top-level Comma,
// rendering each resulting slice to text and trimming it. Unlike
// splitArgs, this never tracks bracket depth — a pattern item is never
// itself bracketed, so a bare comma always separates items.
func extractPatternItems(toks []token.Token) []string {
	var items []string

	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			items = append(items, s)
		}
		cur.Reset()
	}

	for _, t := range toks {
		if t.Kind() == token.KindComma {
			flush()
			continue
		}
		cur.WriteString(t.String())
	}
	flush()

	return items
}
