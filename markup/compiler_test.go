package markup

import "testing"

func TestCompile(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "self-closing lowercase tag",
			src:  `<div/>`,
			want: `lml_create("div", {})`,
		},
		{
			name: "uppercase component with attribute and text child",
			src:  `<Button label="ok">Click</Button>`,
			want: `lml_create(Button, {label = "ok"}, "Click")`,
		},
		{
			name: "brace attribute and brace child carried verbatim",
			src:  `<Box size={x + 1}>{render(x)}</Box>`,
			want: `lml_create(Box, {size = x + 1}, render(x))`,
		},
		{
			name: "nested tags",
			src:  `<div><span>a</span><span>b</span></div>`,
			want: `lml_create("div", {}, lml_create("span", {}, "a"), lml_create("span", {}, "b"))`,
		},
		{
			name: "boolean-shorthand attribute",
			src:  `<input disabled/>`,
			want: `lml_create("input", {disabled = true})`,
		},
		{
			name: "spread attribute merges at runtime",
			src:  `<div {...common} class="x"/>`,
			want: `lml_create("div", __lulu_merge_attrs({class = "x"}, common))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.src, "lml_create")
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.src, err)
			}
			if got != tt.want {
				t.Fatalf("Compile(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestCompileDefaultPragma(t *testing.T) {
	got, err := Compile(`<div/>`, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `lml_create("div", {})` {
		t.Fatalf("expected default pragma name, got %q", got)
	}
}

func TestCompileUnterminatedTagIsError(t *testing.T) {
	_, err := Compile(`<div>no close`, "lml_create")
	if err == nil {
		t.Fatal("expected an error for an unterminated tag")
	}
}

func TestCompileTrailingContentIsError(t *testing.T) {
	_, err := Compile(`<div/> <span/>`, "lml_create")
	if err == nil {
		t.Fatal("expected an error for more than one top-level tag")
	}
}
