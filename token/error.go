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

import (
	"fmt"
	"strconv"
	"strings"
)

// PosError is a structured error retaining the span of the original
// text where it arose: a root message plus an optional hint, rendered
// with a caret pointing at the offending span.
type PosError struct {
	span Span
	msg  string
	hint string
	text []rune
}

// NewPosError constructs a PosError. text is the full source being
// compiled, used only by Explain to recover the offending line.
func NewPosError(span Span, text []rune, msg string) *PosError {
	return &PosError{span: span, msg: msg, text: text}
}

// SetHint attaches a one-line suggestion shown after the error.
func (p *PosError) SetHint(hint string) *PosError {
	p.hint = hint
	return p
}

// Span returns the span this error is reported against.
func (p *PosError) Span() Span { return p.span }

// Error implements the error interface with a single-line rendering:
// the span followed by the message, the form the CLI prints.
func (p *PosError) Error() string {
	return fmt.Sprintf("%s: %s", p.span.Begin.String(), p.msg)
}

// Explain renders a multi-line, caret-annotated explanation pointing
// at the offending source region.
func (p *PosError) Explain() string {
	sb := &strings.Builder{}
	sb.WriteString("error: ")
	sb.WriteString(p.Error())
	sb.WriteString("\n")

	line := sourceLine(p.text, p.span.Begin.Line)
	lineNoWidth := len(strconv.Itoa(p.span.Begin.Line))

	fmt.Fprintf(sb, "%*s |\n", lineNoWidth, "")
	fmt.Fprintf(sb, "%*d |%s\n", lineNoWidth, p.span.Begin.Line, line)
	fmt.Fprintf(sb, "%*s |%s^\n", lineNoWidth, "", strings.Repeat(" ", max(0, p.span.Begin.Col-1)))

	if p.hint != "" {
		fmt.Fprintf(sb, "%*s = hint: %s\n", lineNoWidth, "", p.hint)
	}

	return sb.String()
}

func sourceLine(text []rune, lineNo int) string {
	line := 1
	start := 0

	for i, r := range text {
		if line == lineNo && r == '\n' {
			return string(text[start:i])
		}

		if r == '\n' {
			line++
			start = i + 1
		}
	}

	if line == lineNo {
		return string(text[start:])
	}

	return ""
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}

// Explain renders err's PosError chain if present, else falls back to
// err.Error().
func Explain(err error) string {
	if err == nil {
		return ""
	}

	if pe, ok := err.(interface{ Explain() string }); ok {
		return pe.Explain()
	}

	return err.Error()
}
