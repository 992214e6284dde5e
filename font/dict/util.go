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

package dict

import (
	"seehuhn.de/go/pdfrender"
)

// moreThanTen returns true if the flattened array has more than 10 elements.
func moreThanTen(a pdf.Array) bool {
	count := 0
	for _, obj := range a {
		if a, ok := obj.(pdf.Array); ok {
			count += len(a)
		} else {
			count++
		}
		if count > 10 {
			return true
		}
	}
	return false
}
