// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

package graphics

import (
	"seehuhn.de/go/pdfrender"
	"seehuhn.de/go/pdfrender/color"
)

// State is the PDF graphics state (spec §3 "Graphics state"): a value
// type pushed on a stack by the `q` operator and popped by `Q`. It
// also carries the text-state fields (spec §3 "Text state") that only
// make sense between `BT` and `ET`, since PDF nests text state inside
// graphics state rather than giving it an independent stack.
type State struct {
	// CTM is the current transformation matrix, mapping user space to
	// device space.
	CTM Matrix

	// FillColor and StrokeColor hold the resolved color for the `f`/`F`
	// family and the `S`/`s` family of path-painting operators,
	// respectively.
	FillColor, StrokeColor color.Color

	// FillPattern and StrokePattern, when non-empty, name the /Pattern
	// resource bound by the most recent `scn`/`SCN` operator; a
	// pattern fill overrides FillColor/StrokeColor.
	FillPattern, StrokePattern pdf.Name

	LineWidth        float64
	LineCap          int
	LineJoin         int
	MiterLimit       float64
	DashPattern      []float64
	DashPhase        float64

	RenderingIntent pdf.Name
	Flatness        float64

	StrokeAlpha, FillAlpha float64
	BlendMode              pdf.Name
	SoftMask               pdf.Dict

	OverprintStroke, OverprintFill bool
	OverprintMode                  int
	StrokeAdjustment               bool
	AlphaSourceFlag                bool

	// ClippingPath is the current clip, in user space, or nil if the
	// page's initial (unbounded) clip is still in effect.
	ClippingPath *Path

	// Font and FontSize hold the operands of the most recent `Tf`.
	Font     pdf.Name
	FontSize float64

	// Text-state scalars (spec glossary: Tc, Tw, Th, Tl, Ts, Tmode).
	Tc    float64 // character spacing
	Tw    float64 // word spacing
	Th    float64 // horizontal scaling, percent (100 = unscaled)
	Tl    float64 // leading
	Tmode int     // text rendering mode (Tr)
	Trise float64 // text rise (Ts)

	// Tm and Tlm are the text matrix and text line matrix. Both are
	// reset to [IdentityMatrix] by `BT` and are undefined outside a
	// text object.
	Tm, Tlm Matrix

	// Resources points at the resource dictionary of the content
	// stream currently executing, so nested invocations (Form
	// XObjects, Type-3 glyphs) can swap it without disturbing the
	// enclosing interpreter's view (spec §9's "swapped
	// current_resources pointer").
	Resources *pdf.Resources
}

// NewState returns the initial graphics state for a page: an identity
// CTM (callers compose the MediaBox/y-flip transform separately before
// interpreting the page's content streams), black fill and stroke
// color, and the PDF-mandated defaults for the remaining fields.
func NewState() *State {
	return &State{
		CTM:         IdentityMatrix,
		FillColor:   color.Default,
		StrokeColor: color.Default,
		LineWidth:   1,
		MiterLimit:  10,
		Flatness:    1,
		StrokeAlpha: 1,
		FillAlpha:   1,
		Th:          100,
		Tm:          IdentityMatrix,
		Tlm:         IdentityMatrix,
	}
}

// Clone returns a deep copy of g, as required by `q`: the spec's
// graphics-state-stack invariant that "every q is a full value-copy
// (arrays and paths included)", so that mutating the clone (including
// its DashPattern slice and ClippingPath) never aliases the pushed
// state.
func (g *State) Clone() *State {
	clone := *g
	if g.DashPattern != nil {
		clone.DashPattern = append([]float64(nil), g.DashPattern...)
	}
	clone.ClippingPath = g.ClippingPath.Clone()
	return &clone
}
