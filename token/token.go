// Copyright 2021 Torben Schinke
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package token

import "strconv"

// Kind tags the variant of a Token.
type Kind int

const (
	KindNumber Kind = iota
	KindIdentifier
	KindString
	KindBraceString
	KindSymbol
	KindWhitespace
	KindComma
	KindLeftBrace
	KindRightBrace
	KindLeftParen
	KindRightParen
	KindMacroKeyword
	KindMacroCall
	KindMacroParam
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindIdentifier:
		return "Identifier"
	case KindString:
		return "String"
	case KindBraceString:
		return "BraceString"
	case KindSymbol:
		return "Symbol"
	case KindWhitespace:
		return "Whitespace"
	case KindComma:
		return "Comma"
	case KindLeftBrace:
		return "LeftBrace"
	case KindRightBrace:
		return "RightBrace"
	case KindLeftParen:
		return "LeftParen"
	case KindRightParen:
		return "RightParen"
	case KindMacroKeyword:
		return "MacroKeyword"
	case KindMacroCall:
		return "MacroCall"
	case KindMacroParam:
		return "MacroParam"
	case KindEOF:
		return "EOF"
	}

	return "Unknown"
}

// Token is a single lexical unit. Seq is a running sequence index
// assigned by the lexer, an identity kept distinct across relexed
// token streams (see Rebase) — it carries no semantic meaning on its
// own.
type Token struct {
	kind Kind
	seq  int
	span Span
	// Text holds the variant's payload: the identifier/symbol/string
	// text, the macro name for MacroCall/MacroParam, or the decimal
	// digits for Number.
	Text string
	// Number is populated only for KindNumber.
	Number int64
	// quote records the delimiter used for a KindString token ('"' or
	// '\'').
	quote byte
}

// Kind returns this token's variant tag.
func (t Token) Kind() Kind { return t.kind }

// Seq returns the token's sequence index.
func (t Token) Seq() int { return t.seq }

// Span returns the token's source span.
func (t Token) Span() Span { return t.span }

// String renders the token the way it would be re-emitted verbatim
// (used by the code generator for the structural/symbol/whitespace
// variants it doesn't otherwise rewrite).
func (t Token) String() string {
	switch t.kind {
	case KindNumber:
		return strconv.FormatInt(t.Number, 10)
	case KindString:
		return t.quoted()
	case KindBraceString:
		return "[[" + t.Text + "]]"
	case KindComma:
		return ","
	case KindLeftBrace:
		return "{"
	case KindRightBrace:
		return "}"
	case KindLeftParen:
		return "("
	case KindRightParen:
		return ")"
	case KindMacroKeyword:
		return "macro"
	case KindMacroCall:
		return t.Text + "!"
	case KindMacroParam:
		return "$" + t.Text
	case KindEOF:
		return ""
	default:
		return t.Text
	}
}

func (t Token) quoted() string {
	// Re-emit with the quote character the lexer recorded, so a
	// single-quoted literal survives relexing unchanged.
	if t.quote == '\'' {
		return "'" + t.Text + "'"
	}
	return "\"" + t.Text + "\""
}

// IsLiteralQuote reports whether this string token was originally
// delimited by a single quote, needed only for interpolation parsing
// which must not re-split a single-quoted literal.
func (t Token) IsLiteralQuote() bool { return t.quote == '\'' }

func newToken(kind Kind, seq int, span Span, text string) Token {
	return Token{kind: kind, seq: seq, span: span, Text: text}
}

// Rebase returns a copy of t with its sequence number offset by delta
// and its span's begin position replaced by at. It is used when a
// macro rewriter's output text is relexed: the relexed tokens start
// their own sequence numbering at zero and carry positions relative to
// the synthetic snippet, neither of which is meaningful in the
// enclosing file, so the expander rebases them before splicing them
// back into the surrounding stream.
func (t Token) Rebase(delta int, at Pos) Token {
	t.seq += delta
	t.span = NewSpan(t.span.Start, t.span.End, at)

	return t
}
