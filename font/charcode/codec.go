// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
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

package charcode

import (
	"errors"

	"seehuhn.de/go/pdfrender"
)

// Code represents a decoded character code as a non-negative integer.
type Code uint32

// Codec decodes and encodes character codes for a fixed [CodeSpaceRange].
type Codec struct {
	csr CodeSpaceRange
}

// NewCodec returns a Codec for the given code space range.
func NewCodec(csr CodeSpaceRange) (*Codec, error) {
	if len(csr) == 0 {
		csr = Simple
	}
	for _, r := range csr {
		if len(r.Low) != len(r.High) || len(r.Low) == 0 || len(r.Low) > 4 {
			return nil, errors.New("charcode: invalid code space range")
		}
	}
	return &Codec{csr: csr}, nil
}

// Decode decodes the first character code from s.
// It returns the code, the number of bytes consumed, and whether the
// code is valid. k is always > 0 if len(s) > 0.
func (c *Codec) Decode(s pdf.String) (code Code, k int, valid bool) {
	cc, k := c.csr.Decode(s)
	if cc < 0 {
		return 0, k, false
	}
	return Code(cc), k, true
}

// AppendCode appends the encoding of code to s.
func (c *Codec) AppendCode(s pdf.String, code Code) pdf.String {
	return c.csr.Append(s, CharCode(code))
}

// CodeSpaceRange returns the code space range used by the codec.
func (c *Codec) CodeSpaceRange() CodeSpaceRange {
	return c.csr
}
