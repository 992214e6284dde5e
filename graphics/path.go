// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

package graphics

// VerbKind identifies which of the five path-construction primitives a
// [Verb] represents.
type VerbKind int

const (
	MoveTo VerbKind = iota
	LineTo
	CubicTo
	QuadTo
	Close
)

// Verb is a single path-construction command. Only the coordinates
// relevant to Kind are meaningful; X1,Y1,X2,Y2 are unused by MoveTo,
// LineTo and Close, and X2,Y2 are unused by QuadTo.
type Verb struct {
	Kind           VerbKind
	X, Y           float64 // MoveTo/LineTo endpoint, or CubicTo/QuadTo final point
	X1, Y1         float64 // first control point (CubicTo, QuadTo)
	X2, Y2         float64 // second control point (CubicTo only)
}

// Path is an ordered list of path-construction verbs together with the
// current point, built up by the path-construction operators (m, l, c,
// v, y, h, re) between two path-painting operators.
//
// The first verb appended to a Path must be MoveTo; appending LineTo,
// CubicTo or QuadTo to an empty Path is a construction error (spec
// §3's Path invariant).
type Path struct {
	Verbs            []Verb
	startX, startY   float64 // subpath start, for Close
	curX, curY       float64
	hasCurrentPoint  bool
}

// errNoCurrentPoint is returned by Path methods that require a current
// point (i.e. a preceding MoveTo) when none is set.
type errNoCurrentPoint struct{ op string }

func (e *errNoCurrentPoint) Error() string {
	return "path construction error: " + e.op + " before MoveTo"
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.Verbs = append(p.Verbs, Verb{Kind: MoveTo, X: x, Y: y})
	p.startX, p.startY = x, y
	p.curX, p.curY = x, y
	p.hasCurrentPoint = true
}

// LineTo appends a straight line segment to (x, y). It panics if no
// subpath has been started; callers that parse untrusted content
// streams must check [Path.HasCurrentPoint] first.
func (p *Path) LineTo(x, y float64) error {
	if !p.hasCurrentPoint {
		return &errNoCurrentPoint{"l"}
	}
	p.Verbs = append(p.Verbs, Verb{Kind: LineTo, X: x, Y: y})
	p.curX, p.curY = x, y
	return nil
}

// CurveTo appends a cubic Bezier segment.
func (p *Path) CurveTo(x1, y1, x2, y2, x3, y3 float64) error {
	if !p.hasCurrentPoint {
		return &errNoCurrentPoint{"c"}
	}
	p.Verbs = append(p.Verbs, Verb{Kind: CubicTo, X1: x1, Y1: y1, X2: x2, Y2: y2, X: x3, Y: y3})
	p.curX, p.curY = x3, y3
	return nil
}

// QuadCurveTo appends a quadratic Bezier segment (used by some Type 2
// CharString path ops, not by PDF content-stream operators directly).
func (p *Path) QuadCurveTo(x1, y1, x2, y2 float64) error {
	if !p.hasCurrentPoint {
		return &errNoCurrentPoint{"quad"}
	}
	p.Verbs = append(p.Verbs, Verb{Kind: QuadTo, X1: x1, Y1: y1, X: x2, Y: y2})
	p.curX, p.curY = x2, y2
	return nil
}

// ClosePath closes the current subpath back to its starting point.
func (p *Path) ClosePath() error {
	if !p.hasCurrentPoint {
		return &errNoCurrentPoint{"h"}
	}
	p.Verbs = append(p.Verbs, Verb{Kind: Close})
	p.curX, p.curY = p.startX, p.startY
	return nil
}

// Rectangle appends the four-edge closed subpath for the `re` operator:
// a MoveTo to (x,y), LineTo along the three remaining corners, and a
// Close, leaving the current point back at (x, y) as PDF requires.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.Verbs = append(p.Verbs,
		Verb{Kind: LineTo, X: x + w, Y: y},
		Verb{Kind: LineTo, X: x + w, Y: y + h},
		Verb{Kind: LineTo, X: x, Y: y + h},
		Verb{Kind: Close},
	)
	p.curX, p.curY = x, y
}

// HasCurrentPoint reports whether a subpath has been started.
func (p *Path) HasCurrentPoint() bool { return p.hasCurrentPoint }

// CurrentPoint returns the path's current point.
func (p *Path) CurrentPoint() (x, y float64) { return p.curX, p.curY }

// IsEmpty reports whether the path has no verbs.
func (p *Path) IsEmpty() bool { return len(p.Verbs) == 0 }

// Transform returns a copy of p with every coordinate mapped through m,
// used to pre-compose the CTM into device-space coordinates before
// handing the path to the canvas backend (spec §6: "the core
// pre-composes all transforms").
func (p *Path) Transform(m Matrix) *Path {
	out := &Path{
		Verbs:           make([]Verb, len(p.Verbs)),
		hasCurrentPoint: p.hasCurrentPoint,
	}
	tx := func(x, y float64) (float64, float64) {
		return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
	}
	for i, v := range p.Verbs {
		nv := v
		switch v.Kind {
		case MoveTo, LineTo:
			nv.X, nv.Y = tx(v.X, v.Y)
		case CubicTo:
			nv.X1, nv.Y1 = tx(v.X1, v.Y1)
			nv.X2, nv.Y2 = tx(v.X2, v.Y2)
			nv.X, nv.Y = tx(v.X, v.Y)
		case QuadTo:
			nv.X1, nv.Y1 = tx(v.X1, v.Y1)
			nv.X, nv.Y = tx(v.X, v.Y)
		}
		out.Verbs[i] = nv
	}
	out.startX, out.startY = tx(p.startX, p.startY)
	out.curX, out.curY = tx(p.curX, p.curY)
	return out
}

// Clone returns a deep copy of p.
func (p *Path) Clone() *Path {
	if p == nil {
		return nil
	}
	out := *p
	out.Verbs = append([]Verb(nil), p.Verbs...)
	return &out
}
