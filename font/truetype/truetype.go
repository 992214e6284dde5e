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

// Package truetype provides a minimal reader for the sfnt tables that a
// content-stream renderer needs from an embedded TrueType (or
// OpenType-with-glyf) font program: the code/rune to glyph-index mapping
// and the per-glyph advance width.  It deliberately stops short of a full
// sfnt implementation -- outline rendering for Type 1/TrueType/Type 0
// fonts is not required by the renderer, only resolve_char_code and
// glyph_displacement.
package truetype

import (
	"encoding/binary"
	"errors"
	"fmt"

	"seehuhn.de/go/pdfrender/font/funit"
	"seehuhn.de/go/pdfrender/font/glyph"
)

// Font is a parsed view of the "head", "hhea", "hmtx", "maxp", "cmap" and
// "loca"/"glyf" tables of a TrueType font program.
type Font struct {
	unitsPerEm uint16
	numGlyphs  int

	widths []uint16 // advance widths in font design units, indexed by GID

	unicodeCMap map[rune]glyph.ID // from a (3,1), (3,10) or (0,x) subtable
	symbolCMap  map[rune]glyph.ID // from a (3,0) subtable, keyed by 0xF000+code
	macCMap     map[rune]glyph.ID // from a (1,0) subtable, keyed by byte code

	loca []uint32 // glyph data offsets into glyf, len == numGlyphs+1
	glyf []byte
}

// record is one entry of the sfnt table directory.
type record struct {
	offset, length uint32
}

// Parse reads a TrueType (or glyf-flavoured OpenType) font program, such as
// the decoded contents of a PDF FontFile2 stream.
func Parse(data []byte) (*Font, error) {
	if len(data) < 12 {
		return nil, errors.New("truetype: font data too short")
	}
	scalerType := binary.BigEndian.Uint32(data[0:4])
	switch scalerType {
	case 0x00010000, 0x74727565: // TrueType, or Apple's "true"
	case 0x4F54544F: // 'OTTO' -- CFF outlines, not supported here
		return nil, errors.New("truetype: CFF-flavoured OpenType is not supported")
	default:
		return nil, fmt.Errorf("truetype: unknown scaler type 0x%08x", scalerType)
	}
	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	if numTables > 280 {
		return nil, errors.New("truetype: too many tables")
	}

	toc := make(map[string]record, numTables)
	const dirEntry = 16
	if len(data) < 12+numTables*dirEntry {
		return nil, errors.New("truetype: table directory truncated")
	}
	for i := 0; i < numTables; i++ {
		rec := data[12+i*dirEntry : 12+(i+1)*dirEntry]
		tag := string(rec[0:4])
		offset := binary.BigEndian.Uint32(rec[8:12])
		length := binary.BigEndian.Uint32(rec[12:16])
		if uint64(offset)+uint64(length) > uint64(len(data)) {
			continue // table claims to extend past EOF; ignore it
		}
		toc[tag] = record{offset: offset, length: length}
	}

	find := func(tag string) ([]byte, error) {
		rec, ok := toc[tag]
		if !ok {
			return nil, fmt.Errorf("truetype: missing %q table", tag)
		}
		return data[rec.offset : rec.offset+rec.length], nil
	}

	head, err := find("head")
	if err != nil {
		return nil, err
	}
	if len(head) < 54 {
		return nil, errors.New("truetype: head table too short")
	}
	unitsPerEm := binary.BigEndian.Uint16(head[18:20])
	longLoca := binary.BigEndian.Uint16(head[50:52]) != 0

	maxp, err := find("maxp")
	if err != nil {
		return nil, err
	}
	if len(maxp) < 6 {
		return nil, errors.New("truetype: maxp table too short")
	}
	numGlyphs := int(binary.BigEndian.Uint16(maxp[4:6]))

	hhea, err := find("hhea")
	if err != nil {
		return nil, err
	}
	if len(hhea) < 36 {
		return nil, errors.New("truetype: hhea table too short")
	}
	numLongMetrics := int(binary.BigEndian.Uint16(hhea[34:36]))

	hmtx, err := find("hmtx")
	if err != nil {
		return nil, err
	}
	widths, err := decodeHmtx(hmtx, numGlyphs, numLongMetrics)
	if err != nil {
		return nil, err
	}

	f := &Font{
		unitsPerEm: unitsPerEm,
		numGlyphs:  numGlyphs,
		widths:     widths,
	}

	if cm, err := find("cmap"); err == nil {
		f.unicodeCMap, f.symbolCMap, f.macCMap = decodeCMapTable(cm)
	}

	if locaData, err := find("loca"); err == nil {
		if glyfData, err := find("glyf"); err == nil {
			f.loca = decodeLoca(locaData, numGlyphs, longLoca)
			f.glyf = glyfData
		}
	}

	return f, nil
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int { return f.numGlyphs }

// UnitsPerEm returns the size of the em square, in font design units.
func (f *Font) UnitsPerEm() uint16 { return f.unitsPerEm }

// Advance returns the advance width of gid, in font design units.  Glyph
// indices beyond the last entry in "hmtx" share the width of the final
// entry, as required by the sfnt spec.
func (f *Font) Advance(gid glyph.ID) funit.Int16 {
	if len(f.widths) == 0 {
		return 0
	}
	idx := int(gid)
	if idx >= len(f.widths) {
		idx = len(f.widths) - 1
	}
	return funit.Int16(f.widths[idx])
}

// Lookup resolves a Unicode code point to a glyph index, using whichever
// Unicode-keyed cmap subtable ((3,10), (3,1) or (0,x)) the font provides.
// It returns 0 (".notdef") if the font has no glyph for r.
func (f *Font) Lookup(r rune) glyph.ID {
	return f.unicodeCMap[r]
}

// LookupSymbolic resolves a raw character code through the font's symbol
// cmap ((3,0), keyed at 0xF000+code) or, failing that, its Mac Roman cmap
// ((1,0), keyed directly by code).  This is the fallback used for symbolic
// simple fonts, whose codes are not meant to be interpreted as Unicode.
func (f *Font) LookupSymbolic(code byte) glyph.ID {
	if gid, ok := f.symbolCMap[0xF000+rune(code)]; ok {
		return gid
	}
	if gid, ok := f.symbolCMap[rune(code)]; ok {
		return gid
	}
	return f.macCMap[rune(code)]
}

// HasOutline reports whether gid has a non-empty outline in the glyf table.
// It returns false for composite-free blank glyphs (such as space) and for
// fonts that carry no glyf/loca tables at all.
func (f *Font) HasOutline(gid glyph.ID) bool {
	idx := int(gid)
	if f.loca == nil || idx < 0 || idx+1 >= len(f.loca) {
		return false
	}
	return f.loca[idx+1] > f.loca[idx]
}

// decodeHmtx reproduces the advance-width half of the "hmtx" table decoding
// in font/sfnt/hmtx.Decode, without the glyph-extent bookkeeping that this
// package has no use for.
func decodeHmtx(data []byte, numGlyphs, numLongMetrics int) ([]uint16, error) {
	if numLongMetrics <= 0 || numLongMetrics > numGlyphs {
		return nil, errors.New("truetype: invalid numberOfHMetrics")
	}
	if len(data) < numLongMetrics*4 {
		return nil, errors.New("truetype: hmtx table too short")
	}
	widths := make([]uint16, numGlyphs)
	pos := 0
	var last uint16
	for i := 0; i < numGlyphs; i++ {
		if i < numLongMetrics {
			last = binary.BigEndian.Uint16(data[pos : pos+2])
			pos += 4 // advance width + lsb
		}
		widths[i] = last
	}
	return widths, nil
}

// decodeLoca reproduces the glyph-offset half of the "loca" table.
func decodeLoca(data []byte, numGlyphs int, long bool) []uint32 {
	n := numGlyphs + 1
	loca := make([]uint32, n)
	if long {
		if len(data) < 4*n {
			return nil
		}
		for i := range loca {
			loca[i] = binary.BigEndian.Uint32(data[4*i : 4*i+4])
		}
	} else {
		if len(data) < 2*n {
			return nil
		}
		for i := range loca {
			loca[i] = 2 * uint32(binary.BigEndian.Uint16(data[2*i:2*i+2]))
		}
	}
	return loca
}
