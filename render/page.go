// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

package render

import (
	"bytes"

	"seehuhn.de/go/pdfrender"
	"seehuhn.de/go/pdfrender/graphics"
	"seehuhn.de/go/pdfrender/pagetree"
)

// RenderPage executes a page's content stream against canvas. It
// establishes the initial CTM by mapping the page's MediaBox (in PDF
// user space, y-axis up) onto the canvas's device space (pixels,
// y-axis down, origin top-left) and applying the page's /Rotate, then
// runs content through a fresh [Interpreter].
//
// canvas must already be sized for the rotated page: Width()/Height()
// are not consulted to derive the transform, only to bound drawing.
func RenderPage(r pdf.Getter, page *pagetree.Page, content []byte, canvas Canvas) error {
	ctm := pageCTM(page)
	ip := NewInterpreter(r, page.Resources, canvas, ctm)
	return ip.Run(bytes.NewReader(content))
}

// pageCTM builds the transform from PDF default user space (origin at
// the MediaBox's lower-left corner, y-axis up) to device space
// (origin at the rotated page's top-left corner, y-axis down, one
// unit per point), composing the MediaBox origin shift, the /Rotate
// quarter-turn, and the y-flip in that order.
func pageCTM(page *pagetree.Page) graphics.Matrix {
	box := page.MediaBox
	if page.CropBox != nil {
		box = page.CropBox
	}

	toOrigin := graphics.Matrix{1, 0, 0, 1, -box.LLx, -box.LLy}
	w, h := box.Dx(), box.Dy()

	var rotate graphics.Matrix
	outH := h
	switch page.Rotate % 360 {
	case 90:
		rotate = graphics.Matrix{0, 1, -1, 0, h, 0}
		outH = w
	case 180:
		rotate = graphics.Matrix{-1, 0, 0, -1, w, h}
	case 270:
		rotate = graphics.Matrix{0, -1, 1, 0, 0, w}
		outH = w
	default:
		rotate = graphics.IdentityMatrix
	}

	flip := graphics.Matrix{1, 0, 0, -1, 0, outH}

	return toOrigin.Mul(rotate).Mul(flip)
}
