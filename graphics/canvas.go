// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

package graphics

import (
	"image"

	"seehuhn.de/go/pdfrender"
	"seehuhn.de/go/pdfrender/color"
)

// FillRule selects the rule used by fill and clip operators to decide
// which regions of a self-intersecting path are "inside".
type FillRule int

const (
	NonZeroWinding FillRule = iota
	EvenOdd
)

// MaskMode distinguishes the two PDF soft-mask subtypes (spec §9's
// begin_mask_layer): Alpha masks use the group's accumulated alpha,
// Luminosity masks use the rendered luminosity of the group.
type MaskMode int

const (
	MaskAlpha MaskMode = iota
	MaskLuminosity
)

// ImageDescriptor carries everything [Canvas.DrawImage] needs to place
// a decoded image: its pixels, already in device space by virtue of
// the accompanying Matrix (the unit square [0,1]x[0,1] in image space
// maps to the image's placement on the page), and its image mask /
// soft mask, if any.
type ImageDescriptor struct {
	Image     image.Image
	Matrix    Matrix
	IsStencil bool // /ImageMask true: Image is 1-bit, painted in FillColor
}

// Canvas is the pluggable 2-D backend the content-stream interpreter
// draws into (spec §6, "Canvas backend contract"). Every coordinate
// a Canvas method receives is already in device space; the
// interpreter pre-composes the CTM (and, recursively, the Form/Type-3
// FontMatrix) before calling out, so a Canvas implementation never
// needs to know about user space at all.
type Canvas interface {
	// FillPath fills path (already in device space) using rule, with
	// fillColor or, if pattern is non-nil, the given pattern/shading
	// binding. blendMode is the empty name for the default (Normal)
	// blend mode.
	FillPath(path *Path, rule FillRule, fillColor color.Color, pattern Pattern, blendMode pdf.Name) error

	// StrokePath strokes path with strokeColor, the given line width
	// (already scaled into device space) and dash pattern.
	StrokePath(path *Path, strokeColor color.Color, lineWidth float64, dash []float64, dashPhase float64, blendMode pdf.Name) error

	// SetClip intersects the current clip with path under rule.
	SetClip(path *Path, rule FillRule) error

	// ResetClip restores the page's initial, unbounded clip.
	ResetClip() error

	// DrawImage paints img at its placement.
	DrawImage(img *ImageDescriptor, blendMode pdf.Name) error

	// BeginMaskLayer starts accumulating drawing commands into an
	// offscreen group that will be used as a soft mask once
	// EndMaskLayer is called; subsequent Canvas calls made by the
	// interpreter (while it recurses into the mask's content stream)
	// target this group, not the page.
	BeginMaskLayer(mode MaskMode, transform Matrix) error

	// EndMaskLayer finishes the group started by BeginMaskLayer and
	// installs it as the soft mask applied to subsequent painting
	// operators, until the enclosing graphics state is popped or
	// replaced.
	EndMaskLayer() error

	// CreateMaskSurface allocates a width x height offscreen surface
	// for use as a stencil/shading mask (distinct from the
	// BeginMaskLayer/EndMaskLayer group mechanism: this is used for
	// one-shot raster masks such as /SMask image dictionaries).
	CreateMaskSurface(width, height int) (Canvas, error)

	// Width and Height report the canvas's device-space dimensions in
	// pixels.
	Width() int
	Height() int
}

// Pattern is a resolved /Pattern resource: either a tiling pattern
// (itself a small recursive content stream, rendered repeatedly by
// the interpreter) or a shading pattern (a smooth color function
// handed to the backend directly). It is the pattern/shading? operand
// of [Canvas.FillPath]; a nil Pattern means "use the plain fillColor
// argument instead". Implementations live in package
// seehuhn.de/go/pdfrender/graphics/color, which resolves /Pattern
// resources; Canvas implementations type-switch on the concrete type
// they need to support.
type Pattern interface {
	// PatternMatrix returns the pattern's mapping from pattern space
	// to the default (initial) coordinate system of the page or Form
	// the pattern is painted into.
	PatternMatrix() Matrix
}
