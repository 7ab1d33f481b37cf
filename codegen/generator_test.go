package codegen

import (
	"strings"
	"testing"

	"github.com/lulu-lang/lulu/token"
)

func generate(t *testing.T, src string) string {
	t.Helper()

	lex := token.NewLexer("<test>", src)
	toks := lex.Tokenize()

	out, err := Generate(toks)
	if err != nil {
		t.Fatalf("Generate(%q) error: %v", src, err)
	}

	return out
}

func TestGeneratePassthrough(t *testing.T) {
	got := generate(t, "local x = 1\n")
	if !strings.Contains(got, "local x = 1") {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestGenerateArrowFunctionBare(t *testing.T) {
	got := generate(t, "(x) => print(x) end")
	if got != "function(x) print(x) end" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateArrowFunctionWithName(t *testing.T) {
	got := generate(t, "foo (x, y) => return x + y end")
	if got != "function foo(x, y) return x + y end" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateArrowFunctionWithDecorator(t *testing.T) {
	got := generate(t, "@async (x) => print(x) end")
	if got != "async(function(x) print(x) end)" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateArrowFunctionWithParentMethod(t *testing.T) {
	got := generate(t, "Shape:area (self) => return 0 end")
	if got != "function Shape:area(self) return 0 end" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateInterpolatedString(t *testing.T) {
	got := generate(t, `f"hello {name} !"`)
	if got != `"hello " .. (name) .. " !"` {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateInterpolatedStringLiteralBraces(t *testing.T) {
	got := generate(t, `f"{{lit}}"`)
	if got != `"{lit}"` {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateInDoWrapsIIFE(t *testing.T) {
	got := generate(t, "in do local y = 1 end")
	if got != "(function() do local y = 1 end end)()" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateInIfWrapsIIFE(t *testing.T) {
	got := generate(t, "in if cond then 1 end")
	if got != "(function() if cond then 1 end end)()" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateInLocalNamespace(t *testing.T) {
	got := generate(t, "in local Base1 and Base2 self.x = 1 end")
	if got != "namespace(ns_inherit_from(Base1, Base2))(function(self) self.x = 1 end)" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateCompoundAssign(t *testing.T) {
	got := generate(t, "x += 1")
	if got != "x = x + 1" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateCompoundAssignDottedPath(t *testing.T) {
	got := generate(t, "self.count -= step")
	if got != "self.count = self.count - step" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateInequality(t *testing.T) {
	got := generate(t, "x != y")
	if got != "x ~= y" {
		t.Fatalf("got %q", got)
	}
}

func TestGeneratePointerOf(t *testing.T) {
	got := generate(t, "&x")
	if got != "ptr_of(x)" {
		t.Fatalf("got %q", got)
	}
}

func TestGeneratePointerDeref(t *testing.T) {
	got := generate(t, "= *x")
	if got != "= ptr_deref(x)" {
		t.Fatalf("got %q", got)
	}
}

func TestGeneratePointerSet(t *testing.T) {
	got := generate(t, "*x = y")
	if got != "ptr_set(x, y)" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateMultiplyIsNotPointerSugar(t *testing.T) {
	got := generate(t, "a * b")
	if got != "a * b" {
		t.Fatalf("expected multiply to pass through untouched, got %q", got)
	}
}
