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

package truetype

import (
	"encoding/binary"

	"seehuhn.de/go/pdfrender/font/glyph"
)

// decodeCMapTable parses the "cmap" table and returns up to three maps:
// one built from a Unicode-keyed subtable (platform 3 encoding 1 or 10, or
// platform 0), one from the Windows symbol subtable (platform 3 encoding
// 0), and one from the legacy Mac Roman subtable (platform 1 encoding 0).
// Unrecognised or malformed subtables are skipped rather than rejected, so
// that a font with one usable subtable is not discarded over another
// broken one.
func decodeCMapTable(data []byte) (unicodeCMap, symbolCMap, macCMap map[rune]glyph.ID) {
	if len(data) < 4 {
		return nil, nil, nil
	}
	numTables := int(binary.BigEndian.Uint16(data[2:4]))
	if numTables > 100 || len(data) < 4+8*numTables {
		return nil, nil, nil
	}

	type encRec struct {
		platform, encoding uint16
		offset             uint32
	}
	var recs []encRec
	for i := 0; i < numTables; i++ {
		rec := data[4+8*i : 4+8*(i+1)]
		recs = append(recs, encRec{
			platform: binary.BigEndian.Uint16(rec[0:2]),
			encoding: binary.BigEndian.Uint16(rec[2:4]),
			offset:   binary.BigEndian.Uint32(rec[4:8]),
		})
	}

	subtable := func(platform, encoding uint16) []byte {
		for _, r := range recs {
			if r.platform == platform && r.encoding == encoding {
				if int(r.offset) >= len(data) {
					return nil
				}
				return data[r.offset:]
			}
		}
		return nil
	}

	// Unicode-keyed subtables, in order of preference.
	for _, enc := range [][2]uint16{{3, 10}, {0, 6}, {0, 4}, {3, 1}, {0, 3}, {0, 2}, {0, 1}, {0, 0}} {
		if sub := subtable(enc[0], enc[1]); sub != nil {
			if m := decodeCMapSubtable(sub, func(c int) rune { return rune(c) }); m != nil {
				unicodeCMap = m
				break
			}
		}
	}

	if sub := subtable(3, 0); sub != nil {
		symbolCMap = decodeCMapSubtable(sub, func(c int) rune { return rune(c) })
	}

	if sub := subtable(1, 0); sub != nil {
		macCMap = decodeCMapSubtable(sub, func(c int) rune { return rune(c) })
	}

	return unicodeCMap, symbolCMap, macCMap
}

// decodeCMapSubtable decodes cmap subtable formats 0, 4, 6 and 12.  The i2r
// function converts a subtable-local code into the rune used as map key;
// callers pass the identity function since this package keys symbol and Mac
// Roman subtables by raw code rather than by true Unicode value.
func decodeCMapSubtable(data []byte, i2r func(int) rune) map[rune]glyph.ID {
	if len(data) < 2 {
		return nil
	}
	format := binary.BigEndian.Uint16(data[0:2])

	m := make(map[rune]glyph.ID)

	switch format {
	case 0:
		if len(data) < 6+256 {
			return nil
		}
		for code := 0; code < 256; code++ {
			gid := glyph.ID(data[6+code])
			if gid != 0 {
				m[i2r(code)] = gid
			}
		}

	case 6:
		if len(data) < 10 {
			return nil
		}
		first := int(binary.BigEndian.Uint16(data[6:8]))
		count := int(binary.BigEndian.Uint16(data[8:10]))
		if len(data) < 10+2*count {
			return nil
		}
		for i := 0; i < count; i++ {
			gid := glyph.ID(binary.BigEndian.Uint16(data[10+2*i : 12+2*i]))
			if gid != 0 {
				m[i2r(first+i)] = gid
			}
		}

	case 4:
		if len(data) < 14 {
			return nil
		}
		segCountX2 := int(binary.BigEndian.Uint16(data[6:8]))
		if segCountX2 < 2 || segCountX2%2 != 0 {
			return nil
		}
		segCount := segCountX2 / 2
		if segCount > 100_000 {
			return nil
		}
		pos := 14
		need := func(n int) bool { return len(data) >= pos+n }

		if !need(2 * segCount) {
			return nil
		}
		endCode := data[pos : pos+2*segCount]
		pos += 2 * segCount
		pos += 2 // reservedPad
		if !need(2 * segCount) {
			return nil
		}
		startCode := data[pos : pos+2*segCount]
		pos += 2 * segCount
		if !need(2 * segCount) {
			return nil
		}
		idDelta := data[pos : pos+2*segCount]
		pos += 2 * segCount
		if !need(2 * segCount) {
			return nil
		}
		idRangeOffset := data[pos : pos+2*segCount]
		glyphIDArrayStart := pos

		u16 := func(b []byte, i int) uint16 { return binary.BigEndian.Uint16(b[2*i : 2*i+2]) }

		total := 0
		for k := 0; k < segCount; k++ {
			a := int(u16(startCode, k))
			b := int(u16(endCode, k))
			if b < a {
				continue
			}
			total += b - a + 1
			if total > 70_000 {
				return m
			}

			delta := u16(idDelta, k)
			rangeOffset := int(u16(idRangeOffset, k))
			if rangeOffset == 0 {
				for c := a; c <= b; c++ {
					gid := uint16(c) + delta
					if gid == 0 {
						continue
					}
					m[i2r(c)] = glyph.ID(gid)
				}
			} else {
				for c := a; c <= b; c++ {
					gPos := glyphIDArrayStart + 2*k + rangeOffset + 2*(c-a)
					if gPos+2 > len(data) {
						continue
					}
					gid := binary.BigEndian.Uint16(data[gPos : gPos+2])
					if gid == 0 {
						continue
					}
					if delta != 0 {
						gid = gid + delta
					}
					m[i2r(c)] = glyph.ID(gid)
				}
			}
		}

	case 12:
		if len(data) < 16 {
			return nil
		}
		numGroups := binary.BigEndian.Uint32(data[12:16])
		if numGroups > 200_000 || len(data) < 16+12*int(numGroups) {
			return nil
		}
		total := 0
		for i := 0; i < int(numGroups); i++ {
			grp := data[16+12*i : 16+12*(i+1)]
			start := binary.BigEndian.Uint32(grp[0:4])
			end := binary.BigEndian.Uint32(grp[4:8])
			startGID := binary.BigEndian.Uint32(grp[8:12])
			if end < start || end > 0x10FFFF {
				continue
			}
			total += int(end-start) + 1
			if total > 500_000 {
				return m
			}
			gid := startGID
			for c := start; c <= end; c++ {
				m[i2r(int(c))] = glyph.ID(gid)
				gid++
			}
		}

	default:
		return nil
	}

	return m
}
