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

package cmap

import (
	"bytes"
	"fmt"
	"iter"

	"seehuhn.de/go/pdfrender/font/charcode"
)

// ToUnicodeFile holds the character-code-to-Unicode mapping read from (or to
// be written to) a ToUnicode CMap stream, keyed by [charcode.Code] rather
// than by raw character code bytes.
type ToUnicodeFile struct {
	CodeSpaceRange charcode.CodeSpaceRange

	Singles []ToUnicodeFileSingle
	Ranges  []ToUnicodeFileRange
}

// ToUnicodeFileSingle specifies that character code Code represents the
// given unicode string.
type ToUnicodeFileSingle struct {
	Code  []byte
	Value string
}

func (s ToUnicodeFileSingle) String() string {
	return fmt.Sprintf("% 02x: %q", s.Code, s.Value)
}

// ToUnicodeFileRange describes a range of character codes which map to
// consecutive unicode strings.
type ToUnicodeFileRange struct {
	First  []byte
	Last   []byte
	Values []string
}

func (r ToUnicodeFileRange) String() string {
	return fmt.Sprintf("% 02x-% 02x: %q", r.First, r.Last, r.Values)
}

// IsEmpty reports whether the file contains no mappings at all.
func (tu *ToUnicodeFile) IsEmpty() bool {
	return tu == nil || (len(tu.Singles) == 0 && len(tu.Ranges) == 0)
}

// Lookup returns the unicode string associated with a character code,
// given as the raw bytes consumed from a PDF string.
func (tu *ToUnicodeFile) Lookup(code []byte) (string, bool) {
	if tu == nil {
		return "", false
	}

	for _, s := range tu.Singles {
		if bytes.Equal(s.Code, code) {
			return s.Value, true
		}
	}

rangesLoop:
	for _, r := range tu.Ranges {
		if len(r.First) != len(code) || len(r.Last) != len(code) {
			continue
		}

		var index int
		for i, b := range code {
			if b < r.First[i] || b > r.Last[i] {
				continue rangesLoop
			}
			index = index*int(r.Last[i]-r.First[i]+1) + int(b-r.First[i])
		}

		if len(r.Values) == 0 {
			return "", false
		}
		if index < len(r.Values) {
			return r.Values[index], true
		}
		return nextString(r.Values[0], index), true
	}

	return "", false
}

// All returns an iterator over all codes in tu which are valid according to
// codec, together with their associated unicode strings.
func (tu *ToUnicodeFile) All(codec *charcode.Codec) iter.Seq2[charcode.Code, string] {
	return func(yield func(charcode.Code, string) bool) {
		if tu == nil {
			return
		}

		for _, s := range tu.Singles {
			code, k, ok := codec.Decode(s.Code)
			if ok && k == len(s.Code) {
				if !yield(code, s.Value) {
					return
				}
			}
		}

		for _, r := range tu.Ranges {
			if !tuRangeAll(r, codec, yield) {
				return
			}
		}
	}
}

func tuRangeAll(r ToUnicodeFileRange, codec *charcode.Codec, yield func(charcode.Code, string) bool) bool {
	L := len(r.First)
	if L != len(r.Last) || L == 0 {
		return true
	}

	seq := bytes.Clone(r.First)
	offs := 0
	for {
		code, k, ok := codec.Decode(seq)
		if ok && k == len(seq) {
			var val string
			if offs < len(r.Values) {
				val = r.Values[offs]
			} else if len(r.Values) > 0 {
				val = nextString(r.Values[0], offs)
			}
			if !yield(code, val) {
				return false
			}
		}
		offs++

		pos := L - 1
		for pos >= 0 {
			if seq[pos] < r.Last[pos] {
				seq[pos]++
				break
			}
			seq[pos] = r.First[pos]
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return true
}
