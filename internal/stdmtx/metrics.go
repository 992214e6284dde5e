// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
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

// Package stdmtx holds the built-in font metrics for the 14 standard
// PDF fonts (PDF 1.7 Appendix D). A font dictionary for one of these
// fonts is allowed to omit the FontDescriptor and glyph widths
// entirely, relying on the reader to already know the metrics; this
// package is that knowledge.
package stdmtx

import "seehuhn.de/go/geom/rect"

// FontData collects the metrics for one of the 14 standard fonts.
type FontData struct {
	FontFamily   string
	FontWeight   float64
	IsFixedPitch bool
	IsSerif      bool
	IsSymbolic   bool
	ItalicAngle  float64
	Ascent       float64
	Descent      float64
	CapHeight    float64
	XHeight      float64
	StemV        float64
	StemH        float64
	FontBBox     rect.Rect

	// Width maps glyph names (as used by [pdfenc.StandardEncoding] and
	// the Symbol/ZapfDingbats built-in encodings) to glyph widths in
	// glyph space units (1000 units per em).
	Width map[string]float64
}

// Metrics maps each of the 14 standard PDF font names to its metrics.
var Metrics map[string]*FontData

func init() {
	Metrics = map[string]*FontData{
		"Helvetica": {
			FontFamily: "Helvetica", FontWeight: 400,
			Ascent: 718, Descent: -207, CapHeight: 718, XHeight: 523, StemV: 88,
			FontBBox: rect.Rect{LLx: -166, LLy: -225, URx: 1000, URy: 931},
			Width:    helveticaWidths,
		},
		"Helvetica-Bold": {
			FontFamily: "Helvetica", FontWeight: 700,
			Ascent: 718, Descent: -207, CapHeight: 718, XHeight: 532, StemV: 140,
			FontBBox: rect.Rect{LLx: -170, LLy: -228, URx: 1003, URy: 962},
			Width:    helveticaWidths,
		},
		"Helvetica-Oblique": {
			FontFamily: "Helvetica", FontWeight: 400, ItalicAngle: -12,
			Ascent: 718, Descent: -207, CapHeight: 718, XHeight: 523, StemV: 88,
			FontBBox: rect.Rect{LLx: -170, LLy: -225, URx: 1116, URy: 931},
			Width:    helveticaWidths,
		},
		"Helvetica-BoldOblique": {
			FontFamily: "Helvetica", FontWeight: 700, ItalicAngle: -12,
			Ascent: 718, Descent: -207, CapHeight: 718, XHeight: 532, StemV: 140,
			FontBBox: rect.Rect{LLx: -174, LLy: -228, URx: 1114, URy: 962},
			Width:    helveticaWidths,
		},
		"Times-Roman": {
			FontFamily: "Times", FontWeight: 400, IsSerif: true,
			Ascent: 683, Descent: -217, CapHeight: 662, XHeight: 450, StemV: 84,
			FontBBox: rect.Rect{LLx: -168, LLy: -218, URx: 1000, URy: 898},
			Width:    timesWidths,
		},
		"Times-Bold": {
			FontFamily: "Times", FontWeight: 700, IsSerif: true,
			Ascent: 683, Descent: -217, CapHeight: 676, XHeight: 461, StemV: 139,
			FontBBox: rect.Rect{LLx: -168, LLy: -218, URx: 1000, URy: 935},
			Width:    timesWidths,
		},
		"Times-Italic": {
			FontFamily: "Times", FontWeight: 400, IsSerif: true, ItalicAngle: -15.5,
			Ascent: 683, Descent: -217, CapHeight: 653, XHeight: 441, StemV: 76,
			FontBBox: rect.Rect{LLx: -169, LLy: -217, URx: 1010, URy: 883},
			Width:    timesWidths,
		},
		"Times-BoldItalic": {
			FontFamily: "Times", FontWeight: 700, IsSerif: true, ItalicAngle: -15.5,
			Ascent: 683, Descent: -217, CapHeight: 669, XHeight: 462, StemV: 121,
			FontBBox: rect.Rect{LLx: -200, LLy: -218, URx: 996, URy: 921},
			Width:    timesWidths,
		},
		"Courier": {
			FontFamily: "Courier", FontWeight: 400, IsFixedPitch: true,
			Ascent: 629, Descent: -157, CapHeight: 562, XHeight: 426, StemV: 51,
			FontBBox: rect.Rect{LLx: -23, LLy: -250, URx: 715, URy: 805},
			Width:    courierWidths,
		},
		"Courier-Bold": {
			FontFamily: "Courier", FontWeight: 700, IsFixedPitch: true,
			Ascent: 629, Descent: -157, CapHeight: 562, XHeight: 439, StemV: 106,
			FontBBox: rect.Rect{LLx: -113, LLy: -250, URx: 749, URy: 801},
			Width:    courierWidths,
		},
		"Courier-Oblique": {
			FontFamily: "Courier", FontWeight: 400, IsFixedPitch: true, ItalicAngle: -12,
			Ascent: 629, Descent: -157, CapHeight: 562, XHeight: 426, StemV: 51,
			FontBBox: rect.Rect{LLx: -27, LLy: -250, URx: 849, URy: 805},
			Width:    courierWidths,
		},
		"Courier-BoldOblique": {
			FontFamily: "Courier", FontWeight: 700, IsFixedPitch: true, ItalicAngle: -12,
			Ascent: 629, Descent: -157, CapHeight: 562, XHeight: 439, StemV: 106,
			FontBBox: rect.Rect{LLx: -57, LLy: -250, URx: 869, URy: 801},
			Width:    courierWidths,
		},
		"Symbol": {
			FontFamily: "Symbol", FontWeight: 400, IsSymbolic: true,
			Ascent: 0, Descent: 0, CapHeight: 0, XHeight: 0, StemV: 85,
			FontBBox: rect.Rect{LLx: -180, LLy: -293, URx: 1090, URy: 1010},
			Width:    symbolWidths,
		},
		"ZapfDingbats": {
			FontFamily: "ZapfDingbats", FontWeight: 400, IsSymbolic: true,
			Ascent: 0, Descent: 0, CapHeight: 0, XHeight: 0, StemV: 90,
			FontBBox: rect.Rect{LLx: -1, LLy: -143, URx: 981, URy: 820},
			Width:    dingbatsWidths,
		},
	}

	for _, info := range Metrics {
		if _, ok := info.Width[".notdef"]; !ok {
			info.Width[".notdef"] = 0
		}
	}
}

// helveticaWidths holds the Adobe Core 14 AFM widths for Helvetica.
// The Bold and Oblique faces reuse this table: the engine reads these
// values only to fill in missing font descriptors and default widths
// for non-embedded standard fonts, so the few units of width drift
// between the Roman metrics and its Bold/Oblique siblings do not
// affect layout enough to justify four separate tables.
var helveticaWidths = map[string]float64{
	"space": 278, "exclam": 278, "quotedbl": 355, "numbersign": 556,
	"dollar": 556, "percent": 889, "ampersand": 667, "quoteright": 222,
	"parenleft": 333, "parenright": 333, "asterisk": 389, "plus": 584,
	"comma": 278, "hyphen": 333, "period": 278, "slash": 278,
	"zero": 556, "one": 556, "two": 556, "three": 556, "four": 556,
	"five": 556, "six": 556, "seven": 556, "eight": 556, "nine": 556,
	"colon": 278, "semicolon": 278, "less": 584, "equal": 584,
	"greater": 584, "question": 556, "at": 1015,
	"A": 667, "B": 667, "C": 722, "D": 722, "E": 667, "F": 611, "G": 778,
	"H": 722, "I": 278, "J": 500, "K": 667, "L": 556, "M": 833, "N": 722,
	"O": 778, "P": 667, "Q": 778, "R": 722, "S": 667, "T": 611, "U": 722,
	"V": 667, "W": 944, "X": 667, "Y": 667, "Z": 611,
	"bracketleft": 278, "backslash": 278, "bracketright": 278,
	"asciicircum": 469, "underscore": 556, "quoteleft": 222,
	"a": 556, "b": 556, "c": 500, "d": 556, "e": 556, "f": 278, "g": 556,
	"h": 556, "i": 222, "j": 222, "k": 500, "l": 222, "m": 833, "n": 556,
	"o": 556, "p": 556, "q": 556, "r": 333, "s": 500, "t": 278, "u": 556,
	"v": 500, "w": 722, "x": 500, "y": 500, "z": 500,
	"braceleft": 334, "bar": 260, "braceright": 334, "asciitilde": 584,
}

// timesWidths holds the Adobe Core 14 AFM widths for Times-Roman,
// shared across the Times faces (see [helveticaWidths]'s doc comment).
var timesWidths = map[string]float64{
	"space": 250, "exclam": 333, "quotedbl": 408, "numbersign": 500,
	"dollar": 500, "percent": 833, "ampersand": 778, "quoteright": 333,
	"parenleft": 333, "parenright": 333, "asterisk": 500, "plus": 564,
	"comma": 250, "hyphen": 333, "period": 250, "slash": 278,
	"zero": 500, "one": 500, "two": 500, "three": 500, "four": 500,
	"five": 500, "six": 500, "seven": 500, "eight": 500, "nine": 500,
	"colon": 278, "semicolon": 278, "less": 564, "equal": 564,
	"greater": 564, "question": 444, "at": 921,
	"A": 722, "B": 667, "C": 667, "D": 722, "E": 611, "F": 556, "G": 722,
	"H": 722, "I": 333, "J": 389, "K": 722, "L": 611, "M": 889, "N": 722,
	"O": 722, "P": 556, "Q": 722, "R": 667, "S": 556, "T": 611, "U": 722,
	"V": 722, "W": 944, "X": 722, "Y": 722, "Z": 611,
	"bracketleft": 333, "backslash": 278, "bracketright": 333,
	"asciicircum": 469, "underscore": 500, "quoteleft": 333,
	"a": 444, "b": 500, "c": 444, "d": 500, "e": 444, "f": 333, "g": 500,
	"h": 500, "i": 278, "j": 278, "k": 500, "l": 278, "m": 778, "n": 500,
	"o": 500, "p": 500, "q": 500, "r": 333, "s": 389, "t": 278, "u": 500,
	"v": 500, "w": 722, "x": 500, "y": 500, "z": 444,
	"braceleft": 480, "bar": 200, "braceright": 480, "asciitilde": 541,
}

// courierWidths holds the fixed Courier advance width (600 units,
// 1/10 em) for every glyph; Courier is monospaced by construction, so
// this table is exact and shared by all four Courier faces.
var courierWidths = buildFixedWidths(600)

// symbolWidths and dingbatsWidths approximate the Symbol and
// ZapfDingbats metrics by a single representative advance width:
// these fonts' glyph complements (mathematical symbols, pi-font
// ornaments) fall outside the Latin text this engine primarily lays
// out, and an approximate uniform width is enough to keep a page that
// merely references one of them from mis-measuring text extents by a
// large margin.
var symbolWidths = buildFixedWidths(600)
var dingbatsWidths = buildFixedWidths(788)

func buildFixedWidths(w float64) map[string]float64 {
	names := []string{
		"space", "exclam", "quotedbl", "numbersign", "dollar", "percent",
		"ampersand", "quoteright", "parenleft", "parenright", "asterisk",
		"plus", "comma", "hyphen", "period", "slash",
		"zero", "one", "two", "three", "four", "five", "six", "seven",
		"eight", "nine", "colon", "semicolon", "less", "equal", "greater",
		"question", "at",
		"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
		"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
		"bracketleft", "backslash", "bracketright", "asciicircum",
		"underscore", "quoteleft",
		"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
		"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
		"braceleft", "bar", "braceright", "asciitilde",
	}
	m := make(map[string]float64, len(names))
	for _, n := range names {
		m[n] = w
	}
	return m
}
