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

package cmap

import (
	"fmt"
	"io"

	"seehuhn.de/go/postscript"

	"seehuhn.de/go/pdfrender"
	"seehuhn.de/go/pdfrender/font/charcode"
)

// ExtractToUnicode extracts a ToUnicode CMap from a PDF file.
// It returns nil, nil if obj does not refer to a stream.
func ExtractToUnicode(r pdf.Getter, obj pdf.Object) (*ToUnicodeFile, error) {
	stm, err := pdf.GetStream(r, obj)
	if err != nil {
		return nil, err
	} else if stm == nil {
		return nil, nil
	}
	body, err := pdf.DecodeStream(r, stm, 0)
	if err != nil {
		return nil, err
	}
	return readToUnicodeFile(body)
}

func readToUnicodeFile(r io.Reader) (*ToUnicodeFile, error) {
	raw, err := postscript.ReadCMap(r)
	if err != nil {
		return nil, err
	}

	if tp, ok := raw["CMapType"].(postscript.Integer); ok && tp != 0 && tp != 2 {
		return nil, fmt.Errorf("invalid CMapType: %v", tp)
	}
	codeMap, ok := raw["CodeMap"].(*postscript.CMapInfo)
	if !ok {
		return nil, fmt.Errorf("unsupported CMap format")
	}

	res := &ToUnicodeFile{}
	for _, entry := range codeMap.CodeSpaceRanges {
		if len(entry.Low) != len(entry.High) || len(entry.Low) == 0 {
			continue
		}
		res.CodeSpaceRange = append(res.CodeSpaceRange,
			charcode.Range{Low: entry.Low, High: entry.High})
	}

	for _, entry := range codeMap.BfChars {
		if len(entry.Src) == 0 {
			continue
		}
		rr, err := toRunes(entry.Dst)
		if err != nil {
			continue
		}
		res.Singles = append(res.Singles, ToUnicodeFileSingle{
			Code:  entry.Src,
			Value: string(rr),
		})
	}
	for _, entry := range codeMap.BfRanges {
		if len(entry.Low) != len(entry.High) || len(entry.Low) == 0 {
			continue
		}

		switch v := entry.Dst.(type) {
		case postscript.String:
			rr, err := toRunes(v)
			if err != nil {
				continue
			}
			res.Ranges = append(res.Ranges, ToUnicodeFileRange{
				First:  entry.Low,
				Last:   entry.High,
				Values: []string{string(rr)},
			})
		case postscript.Array:
			values := make([]string, 0, len(v))
			for _, elem := range v {
				rr, err := toRunes(elem)
				if err != nil {
					values = append(values, string(brokenReplacement))
					continue
				}
				values = append(values, string(rr))
			}
			res.Ranges = append(res.Ranges, ToUnicodeFileRange{
				First:  entry.Low,
				Last:   entry.High,
				Values: values,
			})
		}
	}

	return res, nil
}
