// Package diag bridges sourcemap lookups to go.lsp.dev/protocol
// Position/Range values: an embedding language server needs LSP-shaped
// positions, not raw (line, col) pairs, and that conversion has no
// business living inside sourcemap itself.
package diag

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/lulu-lang/lulu/sourcemap"
	"github.com/lulu-lang/lulu/token"
)

// ToLSPPosition converts a one-based (line, col) pair — the
// convention used throughout token.Pos and sourcemap.Entry — into
// LSP's zero-based Position.
func ToLSPPosition(line, col int) protocol.Position {
	return protocol.Position{
		Line:      uint32(line - 1),
		Character: uint32(col - 1),
	}
}

// ToLSPRange maps span's position in the emitted host-language text
// back to its originating surface-source position via sm, returning
// it as an LSP Range. token.Span carries only its first character's
// position (Begin), not a separate end position, so the most a
// source-map lookup can produce is a zero-width point range at that
// location — if sm has no entry for the emitted line at all, the
// span's own (unmapped) position is used as a fallback rather than
// reporting nothing.
func ToLSPRange(span token.Span, sm *sourcemap.Map) protocol.Range {
	line, col := span.Begin.Line, span.Begin.Col

	if aLine, aCol, ok := sm.LookupBToA(span.Begin.Line, span.Begin.Col); ok {
		line, col = aLine, aCol
	}

	pos := ToLSPPosition(line, col)

	return protocol.Range{Start: pos, End: pos}
}

// ToLSPLocation pairs a span's mapped surface-source range with the
// surface file it came from, ready to attach to a published
// diagnostic. The span's File is the path the embedder passed to
// compile, resolved to a file URI.
func ToLSPLocation(span token.Span, sm *sourcemap.Map) protocol.Location {
	return protocol.Location{
		URI:   uri.File(span.Begin.File),
		Range: ToLSPRange(span, sm),
	}
}
