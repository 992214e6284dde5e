// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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

package font

import (
	"seehuhn.de/go/pdfrender/font/funit"
	"seehuhn.de/go/pdfrender/font/glyph"
)

// GlyphID identifies a glyph within an sfnt font file.  It is an alias for
// [glyph.ID], kept here so that the low-level sfnt table readers (which
// predate the font/glyph package) can refer to it as font.GlyphID.
type GlyphID = glyph.ID

// Rect is a bounding box measured in font design units.  It is an alias for
// [funit.Rect], for the same reason as GlyphID above.
type Rect = funit.Rect
