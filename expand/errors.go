package expand

import (
	"fmt"

	"github.com/lulu-lang/lulu/token"
)

// UnknownMacroError is raised when a macro call refers to an
// unregistered name.
type UnknownMacroError struct {
	*token.PosError
	Name string
}

func newUnknownMacroError(span token.Span, text []rune, name string) *UnknownMacroError {
	return &UnknownMacroError{
		PosError: token.NewPosError(span, text, fmt.Sprintf("unknown macro %q", name)),
		Name:     name,
	}
}

// MacroArityError is raised when a required (non-underscore) parameter
// is absent at a call site.
type MacroArityError struct {
	*token.PosError
	Macro     string
	Parameter string
}

func newMacroArityError(span token.Span, text []rune, macroName, param string) *MacroArityError {
	return &MacroArityError{
		PosError:  token.NewPosError(span, text, fmt.Sprintf("macro %q missing required argument %q", macroName, param)),
		Macro:     macroName,
		Parameter: param,
	}
}

// UnbalancedError is raised when EOF is reached while scanning a
// brace, paren, or string.
type UnbalancedError struct {
	*token.PosError
}

func newUnbalancedError(span token.Span, text []rune, msg string) *UnbalancedError {
	return &UnbalancedError{PosError: token.NewPosError(span, text, msg)}
}

// SyntaxError is raised for malformed macro definitions, malformed
// class field declarations, and similar structural mistakes.
type SyntaxError struct {
	*token.PosError
}

func newSyntaxError(span token.Span, text []rune, msg string) *SyntaxError {
	return &SyntaxError{PosError: token.NewPosError(span, text, msg)}
}
