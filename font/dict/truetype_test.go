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

// TestExtractTrueType checks that a TrueType font dictionary with an
// explicit Encoding, Widths array and embedded font program is read
// correctly.
func TestExtractTrueType(t *testing.T) {
	w, _ := memfile.NewPDFWriter(pdf.V1_7, nil)

	fontFileRef := w.Alloc()
	stm, err := w.OpenStream(fontFileRef, pdf.Dict{"Length1": pdf.Integer(0)})
	if err != nil {
		t.Fatal(err)
	}
	if err := stm.Close(); err != nil {
		t.Fatal(err)
	}

	fontDict := pdf.Dict{
		"Type":      pdf.Name("Font"),
		"Subtype":   pdf.Name("TrueType"),
		"BaseFont":  pdf.Name("ABCDEF+Troubadour"),
		"FirstChar": pdf.Integer(65),
		"LastChar":  pdf.Integer(65),
		"Widths":    pdf.Array{pdf.Number(600)},
		"Encoding": pdf.Dict{
			"Differences": pdf.Array{pdf.Integer(65), pdf.Name("A")},
		},
		"FontFile2": fontFileRef,
	}
	ref := w.Alloc()
	if err := w.Put(ref, fontDict); err != nil {
		t.Fatal(err)
	}

	d, err := ExtractTrueType(w, ref)
	if err != nil {
		t.Fatal(err)
	}
	if d.PostScriptName != "Troubadour" || d.SubsetTag != "ABCDEF" {
		t.Errorf("unexpected name/tag: %q/%q", d.PostScriptName, d.SubsetTag)
	}
	if d.Width['A'] != 600 {
		t.Errorf("Width['A']: got %v, want 600", d.Width['A'])
	}
	if d.Encoding('A') != "A" {
		t.Errorf("Encoding('A'): got %q, want %q", d.Encoding('A'), "A")
	}
	if d.Text['A'] != "A" {
		t.Errorf("Text['A']: got %q, want %q", d.Text['A'], "A")
	}
	if d.FontType != glyphdata.TrueType {
		t.Errorf("FontType: got %v, want TrueType", d.FontType)
	}
}

func FuzzExtractTrueType(f *testing.F) {
	w, buf := memfile.NewPDFWriter(pdf.V1_7, nil)
	ref := w.Alloc()
	if err := w.Put(ref, pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("TrueType"),
		"BaseFont": pdf.Name("Troubadour"),
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
		_, _ = ExtractTrueType(r, obj)
	})
}
