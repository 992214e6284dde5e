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
	"bytes"
	"testing"

	"seehuhn.de/go/pdfrender"
	"seehuhn.de/go/pdfrender/font/glyphdata"
	"seehuhn.de/go/pdfrender/internal/debug/memfile"
)

// TestExtractCIDFontType2 checks that a CIDFontType2 dictionary with an
// explicit CIDToGIDMap stream and an embedded TrueType font program is read
// correctly.
func TestExtractCIDFontType2(t *testing.T) {
	w, _ := memfile.NewPDFWriter(pdf.V1_7, nil)

	c2gRef := w.Alloc()
	stm, err := w.OpenStream(c2gRef, pdf.Dict{})
	if err != nil {
		t.Fatal(err)
	}
	// CID 1 -> GID 3, all other CIDs default to GID 0.
	if _, err := stm.Write([]byte{0, 0, 0, 3}); err != nil {
		t.Fatal(err)
	}
	if err := stm.Close(); err != nil {
		t.Fatal(err)
	}

	fontFileRef := w.Alloc()
	fontStm, err := w.OpenStream(fontFileRef, pdf.Dict{"Length1": pdf.Integer(0)})
	if err != nil {
		t.Fatal(err)
	}
	if err := fontStm.Close(); err != nil {
		t.Fatal(err)
	}

	cidFontDict := pdf.Dict{
		"Type":        pdf.Name("Font"),
		"Subtype":     pdf.Name("CIDFontType2"),
		"BaseFont":    pdf.Name("Gadget"),
		"W":           pdf.Array{pdf.Integer(0), pdf.Integer(2), pdf.Integer(500)},
		"DW":          pdf.Integer(1000),
		"CIDToGIDMap": c2gRef,
	}
	cidFontRef := w.Alloc()
	if err := w.Put(cidFontRef, cidFontDict); err != nil {
		t.Fatal(err)
	}

	fontDict := pdf.Dict{
		"Type":            pdf.Name("Font"),
		"Subtype":         pdf.Name("Type0"),
		"BaseFont":        pdf.Name("Gadget"),
		"Encoding":        pdf.Name("Identity-H"),
		"DescendantFonts": pdf.Array{cidFontRef},
		"FontFile2":       fontFileRef,
	}
	ref := w.Alloc()
	if err := w.Put(ref, fontDict); err != nil {
		t.Fatal(err)
	}

	d, err := ExtractCIDFontType2(w, ref)
	if err != nil {
		t.Fatal(err)
	}
	if d.PostScriptName != "Gadget" {
		t.Errorf("PostScriptName: got %q, want %q", d.PostScriptName, "Gadget")
	}
	if d.DefaultWidth != 1000 || d.Width[1] != 500 {
		t.Errorf("unexpected widths: DW=%v W[1]=%v", d.DefaultWidth, d.Width[1])
	}
	if len(d.CIDToGID) != 2 || d.CIDToGID[1] != 3 {
		t.Errorf("unexpected CIDToGID: %v", d.CIDToGID)
	}
	if d.FontType != glyphdata.TrueType {
		t.Errorf("FontType: got %v, want TrueType", d.FontType)
	}
}

func FuzzExtractCIDFontType2(f *testing.F) {
	w, buf := memfile.NewPDFWriter(pdf.V1_7, nil)

	cidFontRef := w.Alloc()
	if err := w.Put(cidFontRef, pdf.Dict{
		"Type":        pdf.Name("Font"),
		"Subtype":     pdf.Name("CIDFontType2"),
		"BaseFont":    pdf.Name("Gadget"),
		"W":           pdf.Array{pdf.Integer(0), pdf.Integer(1), pdf.Integer(500)},
		"DW":          pdf.Integer(1000),
		"CIDToGIDMap": pdf.Name("Identity"),
	}); err != nil {
		f.Fatal(err)
	}

	ref := w.Alloc()
	if err := w.Put(ref, pdf.Dict{
		"Type":            pdf.Name("Font"),
		"Subtype":         pdf.Name("Type0"),
		"BaseFont":        pdf.Name("Gadget"),
		"Encoding":        pdf.Name("Identity-H"),
		"DescendantFonts": pdf.Array{cidFontRef},
	}); err != nil {
		f.Fatal(err)
	}
	w.GetMeta().Trailer["Seeh:X"] = ref
	if err := w.Close(); err != nil {
		f.Fatal(err)
	}
	f.Add(buf.Data)

	f.Fuzz(func(t *testing.T, fileData []byte) {
		opt := &pdf.ReaderOptions{ErrorHandling: pdf.ErrorHandlingReport}
		r, err := pdf.NewReader(bytes.NewReader(fileData), opt)
		if err != nil {
			t.Skip("broken PDF: " + err.Error())
		}
		obj := r.GetMeta().Trailer["Seeh:X"]
		if obj == nil {
			t.Skip("broken reference")
		}
		// Make sure we don't panic on arbitrary input.
		_, _ = ExtractCIDFontType2(r, obj)
	})
}
