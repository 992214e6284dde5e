// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package content

import (
	"io"

	"seehuhn.de/go/pdfrender"
)

// Operator is the exported name for a content-stream keyword token
// (e.g. "q", "Tj", "re"); see [pdf.Operator].
type Operator = pdf.Operator

// Scanner breaks a content stream into the tokens the byte tokenizer
// (§4.1) exposes: numbers, strings, names, arrays, dictionaries, and
// bare operator keywords.
type Scanner struct {
	s *scanner
}

// NewScanner returns a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{s: newScanner(r)}
}

// Next returns the next token, or io.EOF once r is exhausted.
func (sc *Scanner) Next() (pdf.Object, error) {
	return sc.s.Next()
}
