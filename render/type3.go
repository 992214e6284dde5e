// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

package render

import (
	"errors"
	"fmt"

	"seehuhn.de/go/pdfrender"
	"seehuhn.de/go/pdfrender/font"
	"seehuhn.de/go/pdfrender/font/dict"
	"seehuhn.de/go/pdfrender/graphics"
)

// showType3Glyph executes the content stream of a single Type 3 glyph
// (spec §4.7's seven-step algorithm):
//
//  1. compute the glyph rendering matrix Trm = CTM·Tm·P·FontMatrix;
//  2. look up the glyph name for code's character code via the
//     font's /Encoding differences;
//  3. retrieve that name's entry in /CharProcs;
//  4. push the graphics state, replace (not concatenate) the CTM
//     with Trm, and recurse into the glyph's content stream;
//  5. capture the width reported by the glyph's d0/d1 operator;
//  6. pop the graphics state, discarding anything the glyph did to
//     it other than the width capture;
//  7. advance Tm by the glyph's width, scaled by Tfs/1000 regardless
//     of the font's actual FontMatrix scale (spec's explicit
//     simplification).
func (ip *Interpreter) showType3Glyph(t3 *dict.Type3, code *font.Code) error {
	g := ip.state

	if code.CID == 0 {
		// notdef: spec's Type-3 glyph lookup has no generic notdef
		// procedure to fall back to, so codes with no Encoding entry
		// simply paint nothing.
		return nil
	}
	raw := byte(code.CID - 1)

	if t3.Encoding == nil {
		return pdf.NewError(pdf.ErrFont, "Tj", errors.New("Type 3 font has no /Encoding"))
	}
	glyphName := t3.Encoding(raw)
	if glyphName == "" {
		return nil
	}

	procRef, ok := t3.CharProcs[pdf.Name(glyphName)]
	if !ok {
		return pdf.NewError(pdf.ErrFont, "Tj", fmt.Errorf("no CharProc for glyph %q", glyphName))
	}
	stm, err := pdf.GetStream(ip.r, procRef)
	if err != nil {
		return err
	}

	p := graphics.Matrix{g.FontSize * g.Th / 100, 0, 0, g.FontSize, 0, g.Trise}
	trm := g.CTM.Mul(g.Tm).Mul(p).Mul(t3.FontMatrix)

	res := t3.Resources
	if res == nil {
		res = ip.resources
	}

	body, err := pdf.DecodeStream(ip.r, stm, 0)
	if err != nil {
		return err
	}
	defer body.Close()

	var wx float64
	savedAdvance := ip.type3Advance
	ip.type3Advance = &wx
	err = ip.runNested(body, res, &trm)
	ip.type3Advance = savedAdvance
	if err != nil {
		return err
	}

	advance := wx * g.FontSize / 1000
	g.Tm = graphics.Matrix{1, 0, 0, 1, advance, 0}.Mul(g.Tm)
	return nil
}
