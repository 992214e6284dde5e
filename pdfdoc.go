// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package pdf

import (
	"strings"

	"seehuhn.de/go/postscript/type1/names"

	"seehuhn.de/go/pdfrender/font/pdfenc"
)

// PDFDocDecode interprets x as a string in PDFDocEncoding (PDF 32000-1:2008,
// Annex D) and returns the corresponding Unicode string. This is the
// fallback encoding for text strings that carry neither a UTF-16BE nor a
// UTF-8 byte-order marker.
func PDFDocDecode(x String) string {
	var b strings.Builder
	for _, c := range x {
		glyph := pdfenc.PDFDoc.Encoding[c]
		if glyph == "" || glyph == ".notdef" {
			continue
		}
		b.WriteString(names.ToUnicode(glyph, false))
	}
	return b.String()
}
