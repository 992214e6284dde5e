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

// Package opentypeglyphs provides support for embedding and extracting OpenType and TrueType font data in PDF files.
//
// This package handles OpenType fonts with both CFF and glyf tables, as well as standalone TrueType fonts.
// The package supports various font types including OpenTypeCFF, OpenTypeCFFSimple, OpenTypeGlyf, and TrueType.
package opentypeglyphs
