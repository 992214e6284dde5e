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

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pdfrender"
	"seehuhn.de/go/pdfrender/internal/debug/memfile"
)

// TestExtractType3 checks that a Type 3 font dictionary with explicit
// CharProcs, FontMatrix and Resources is read correctly.
func TestExtractType3(t *testing.T) {
	w, _ := memfile.NewPDFWriter(pdf.V1_7, nil)

	procARef := w.Alloc()
	stm, err := w.OpenStream(procARef, pdf.Dict{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := stm.Write([]byte("0 0 0 0 750 750 d1\n")); err != nil {
		t.Fatal(err)
	}
	if err := stm.Close(); err != nil {
		t.Fatal(err)
	}

	fontDict := pdf.Dict{
		"Type":      pdf.Name("Font"),
		"Subtype":   pdf.Name("Type3"),
		"FirstChar": pdf.Integer(65),
		"LastChar":  pdf.Integer(65),
		"Widths":    pdf.Array{pdf.Number(750)},
		"Encoding": pdf.Dict{
			"Differences": pdf.Array{pdf.Integer(65), pdf.Name("A")},
		},
		"CharProcs": pdf.Dict{
			"A": procARef,
		},
		"FontMatrix": pdf.Array{
			pdf.Number(0.001), pdf.Number(0), pdf.Number(0), pdf.Number(0.001), pdf.Number(0), pdf.Number(0),
		},
		"FontBBox": pdf.Array{pdf.Integer(0), pdf.Integer(-100), pdf.Integer(200), pdf.Integer(300)},
		"Resources": pdf.Dict{
			"Font": pdf.Dict{},
		},
	}
	ref := w.Alloc()
	if err := w.Put(ref, fontDict); err != nil {
		t.Fatal(err)
	}

	d, err := ExtractType3(w, ref)
	if err != nil {
		t.Fatal(err)
	}
	if d.Encoding('A') != "A" {
		t.Errorf("Encoding('A'): got %q, want %q", d.Encoding('A'), "A")
	}
	if d.Width['A'] != 750 {
		t.Errorf("Width['A']: got %v, want 750", d.Width['A'])
	}
	if d.CharProcs["A"] != procARef {
		t.Errorf("CharProcs[A]: got %v, want %v", d.CharProcs["A"], procARef)
	}
	if d.FontMatrix != (matrix.Matrix{0.001, 0, 0, 0.001, 0, 0}) {
		t.Errorf("unexpected FontMatrix: %v", d.FontMatrix)
	}
	if d.Resources == nil || d.Resources.Font == nil {
		t.Errorf("expected non-nil Resources.Font")
	}
}

func FuzzExtractType3(f *testing.F) {
	w, buf := memfile.NewPDFWriter(pdf.V1_7, nil)
	ref := w.Alloc()
	if err := w.Put(ref, pdf.Dict{
		"Type":    pdf.Name("Font"),
		"Subtype": pdf.Name("Type3"),
		"CharProcs": pdf.Dict{},
		"FontMatrix": pdf.Array{
			pdf.Number(0.001), pdf.Number(0), pdf.Number(0), pdf.Number(0.001), pdf.Number(0), pdf.Number(0),
		},
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
		_, _ = ExtractType3(r, obj)
	})
}
