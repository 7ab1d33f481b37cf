package token

import "testing"

func kinds(toks []Token) []Kind {
	out := make([]Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind())
	}

	return out
}

func assertKinds(t *testing.T, toks []Token, want ...Kind) {
	t.Helper()

	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLexerIdentifierAndMacroCall(t *testing.T) {
	toks := NewLexer("t.lulu", "x add!").Tokenize()
	assertKinds(t, toks, KindIdentifier, KindWhitespace, KindMacroCall, KindEOF)

	if toks[2].Text != "add" {
		t.Fatalf("macro call name = %q, want add", toks[2].Text)
	}
}

func TestLexerMacroKeyword(t *testing.T) {
	toks := NewLexer("t.lulu", "macro").Tokenize()
	assertKinds(t, toks, KindMacroKeyword, KindEOF)
}

func TestLexerMacroParam(t *testing.T) {
	toks := NewLexer("t.lulu", "$a").Tokenize()
	assertKinds(t, toks, KindMacroParam, KindEOF)

	if toks[0].Text != "a" {
		t.Fatalf("param name = %q, want a", toks[0].Text)
	}
}

func TestLexerNumber(t *testing.T) {
	toks := NewLexer("t.lulu", "123").Tokenize()
	assertKinds(t, toks, KindNumber, KindEOF)

	if toks[0].Number != 123 {
		t.Fatalf("number = %d, want 123", toks[0].Number)
	}
}

func TestLexerStrings(t *testing.T) {
	toks := NewLexer("t.lulu", `"hi" 'lo'`).Tokenize()
	assertKinds(t, toks, KindString, KindWhitespace, KindString, KindEOF)

	if toks[0].Text != "hi" || toks[2].Text != "lo" {
		t.Fatalf("unexpected string contents: %q %q", toks[0].Text, toks[2].Text)
	}
}

func TestLexerBraceString(t *testing.T) {
	toks := NewLexer("t.lulu", "[[raw {not} parsed]]").Tokenize()
	assertKinds(t, toks, KindBraceString, KindEOF)

	if toks[0].Text != "raw {not} parsed" {
		t.Fatalf("brace string contents = %q", toks[0].Text)
	}
}

func TestLexerLineComment(t *testing.T) {
	toks := NewLexer("t.lulu", "x -- comment\ny").Tokenize()
	assertKinds(t, toks, KindIdentifier, KindWhitespace, KindWhitespace, KindWhitespace, KindIdentifier, KindEOF)
}

func TestLexerStructuralTokens(t *testing.T) {
	toks := NewLexer("t.lulu", "{(),}").Tokenize()
	assertKinds(t, toks, KindLeftBrace, KindLeftParen, KindRightParen, KindComma, KindRightBrace, KindEOF)
}

func TestLexerCompoundSymbols(t *testing.T) {
	toks := NewLexer("t.lulu", "=> -> -<").Tokenize()
	assertKinds(t, toks, KindSymbol, KindWhitespace, KindSymbol, KindWhitespace, KindSymbol, KindEOF)

	for i, want := range []string{"=>", "->", "-<"} {
		idx := i * 2
		if toks[idx].Text != want {
			t.Fatalf("symbol %d = %q, want %q", i, toks[idx].Text, want)
		}
	}
}

func TestLexerSequenceIndicesAreMonotonic(t *testing.T) {
	toks := NewLexer("t.lulu", "a b c").Tokenize()
	for i := 1; i < len(toks); i++ {
		if toks[i].Seq() <= toks[i-1].Seq() {
			t.Fatalf("sequence indices not monotonic at %d: %d <= %d", i, toks[i].Seq(), toks[i-1].Seq())
		}
	}
}

func TestLexerNeverFails(t *testing.T) {
	// Any byte not matching a recognized form becomes a one-char Symbol
	//; the lexer has no error path at all.
	toks := NewLexer("t.lulu", "#%^&*").Tokenize()
	for _, tok := range toks[:len(toks)-1] {
		if tok.Kind() != KindSymbol {
			t.Fatalf("expected every token to be a Symbol, got %s", tok.Kind())
		}
	}
}
