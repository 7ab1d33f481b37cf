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

// Package token implements the surface-language lexer: it streams
// surface text into a sequence of positionally-tagged tokens.
package token

import "strconv"

// Pos describes a resolved position within a file: one-based line and
// column, plus a zero-based byte offset used by the source-map builder.
type Pos struct {
	File   string
	Line   int
	Col    int
	Offset int
}

// String renders "file:line:col".
func (p Pos) String() string {
	return p.File + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}

// Span is a contiguous run of the original text, given as a half-open
// [Start,End) pair of rune offsets into the source. Spans are also stamped
// with the Pos of their first character so errors can be reported
// without re-walking the token stream.
type Span struct {
	Start int
	End   int
	Begin Pos
}

// NewSpan constructs a span, panicking if the invariant Start<=End is
// violated.
func NewSpan(start, end int, begin Pos) Span {
	if start > end {
		panic("invalid span")
	}

	return Span{Start: start, End: end, Begin: begin}
}

// Length returns the number of runes covered by this span.
func (s Span) Length() int {
	return s.End - s.Start
}

// Node is implemented by anything carrying a source span, used to
// report syntax errors against the original text.
type Node interface {
	Span() Span
}
