package macro

import "testing"

func TestNewRegistryHasBuiltins(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"class", "match", "cfg", "test", "for_each", "when", "import"} {
		def, ok := r.Lookup(name)
		if !ok {
			t.Fatalf("builtin %q not registered", name)
		}

		if name == "for_each" && def.Kind != KindTemplate {
			t.Fatalf("for_each should be a template built-in")
		}

		if name == "class" && def.Kind != KindBuiltin {
			t.Fatalf("class should be a dispatch built-in")
		}
	}
}

func TestDefineIsLastWriteWins(t *testing.T) {
	r := NewRegistry()

	r.DefineTemplate("double", []Param{{Name: "x"}}, nil)
	first, _ := r.Lookup("double")

	r.DefineTemplate("double", []Param{{Name: "x"}, {Name: "y"}}, nil)
	second, _ := r.Lookup("double")

	if len(first.Params) == len(second.Params) {
		t.Fatalf("redefinition did not replace previous definition")
	}

	if len(second.Params) != 2 {
		t.Fatalf("expected redefined macro to have 2 params, got %d", len(second.Params))
	}
}

func TestParamOptional(t *testing.T) {
	if !(Param{Name: "_opt"}).Optional() {
		t.Fatal("_opt should be optional")
	}

	if (Param{Name: "req"}).Optional() {
		t.Fatal("req should not be optional")
	}
}

func TestUnknownMacroLookupFails(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Lookup("does_not_exist"); ok {
		t.Fatal("expected lookup to fail for unregistered macro")
	}
}
