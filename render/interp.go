// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

// Package render implements the content-stream interpreter (spec §4.4,
// §4.5, §9): a single type that tokenizes a content stream, maintains
// the graphics-state/text-state stack, and drives a [Canvas] backend.
// Form XObjects, Type-3 glyphs and soft-mask groups are all executed
// by the same interpreter recursing on itself with a saved state and
// a swapped resource-dictionary pointer, exactly as spec §9's design
// note calls for.
package render

import (
	"errors"
	"fmt"
	"io"

	"seehuhn.de/go/pdfrender"
	"seehuhn.de/go/pdfrender/color"
	"seehuhn.de/go/pdfrender/content"
	"seehuhn.de/go/pdfrender/font"
	"seehuhn.de/go/pdfrender/font/dict"
	"seehuhn.de/go/pdfrender/graphics"
	gcolor "seehuhn.de/go/pdfrender/graphics/color"
)

// maxRecursionDepth bounds how many times the interpreter may recurse
// into a Form XObject, Type-3 glyph or soft-mask group, guarding
// against a content stream that references itself (spec §7: a
// StructuralError, not a stack overflow).
const maxRecursionDepth = 16

// fontBinding caches the result of resolving a /Font resource name so
// repeated Tf/Tj pairs for the same font don't re-read the font
// dictionary from the file.
type fontBinding struct {
	fromFile font.FromFile
	scanner  font.Scanner
}

// Interpreter walks a content stream, maintaining the graphics-state
// stack (spec §4.5) and calling out to a [Canvas] backend for every
// path-painting, image and glyph operation.
type Interpreter struct {
	r      pdf.Getter
	canvas Canvas

	resources *pdf.Resources
	state     *graphics.State
	stack     []*graphics.State

	// path is the path under construction by m/l/c/v/y/h/re since the
	// last path-painting operator; nil between paths.
	path *graphics.Path

	// pendingClip, when non-nil, is the fill rule a preceding W/W*
	// recorded; the clip itself is only applied once the path is
	// terminated by a path-painting operator (PDF's deferred-clip
	// rule).
	pendingClip *graphics.FillRule

	fonts map[pdf.Name]*fontBinding
	depth int

	// type3Advance, when non-nil, is set by the d0/d1 capture (spec
	// §4.7 step 5) while executing a Type-3 glyph procedure, and read
	// back by the caller once the glyph's q/Q pair returns.
	type3Advance *float64
}

// NewInterpreter returns an Interpreter ready to execute content
// streams against canvas, using resources to resolve named resources
// and initialCTM as the state stack's starting CTM (spec §4.5: "a
// single state whose CTM maps PDF default user space to device
// space").
func NewInterpreter(r pdf.Getter, resources *pdf.Resources, canvas Canvas, initialCTM graphics.Matrix) *Interpreter {
	st := graphics.NewState()
	st.CTM = initialCTM
	st.Resources = resources
	return &Interpreter{
		r:         r,
		canvas:    canvas,
		resources: resources,
		state:     st,
		fonts:     make(map[pdf.Name]*fontBinding),
	}
}

// State returns the interpreter's current graphics state.
func (ip *Interpreter) State() *graphics.State { return ip.state }

// Run executes the operators of stm, which must not itself recurse
// (use [Interpreter.runNested] for Form XObjects and glyph procs).
func (ip *Interpreter) Run(stm io.Reader) error {
	seq := &operatorSeq{}
	sc := content.NewScanner(stm)
	return seq.forAllCommands(sc, func(cmd content.Operator, args []pdf.Object) error {
		if err := ip.dispatch(cmd, args); err != nil {
			return pdf.Wrap(err, string(cmd))
		}
		return nil
	})
}

// runNested executes stm as a Form XObject or glyph procedure: it
// pushes the current state, replaces the interpreter's resources with
// res (spec §9's "swapped current_resources pointer"), optionally
// installs a new CTM (for Form XObjects' /Matrix and Type-3 glyphs'
// Trm replacement), runs stm against the SAME canvas, then restores
// state and resources exactly (spec §4.5's nesting invariant).
func (ip *Interpreter) runNested(stm io.Reader, res *pdf.Resources, setCTM *graphics.Matrix) error {
	if ip.depth >= maxRecursionDepth {
		return pdf.NewError(pdf.ErrStructural, "nested content stream", errors.New("recursion too deep"))
	}
	ip.depth++
	defer func() { ip.depth-- }()

	savedResources := ip.resources
	savedState := ip.state
	savedStackDepth := len(ip.stack)
	defer func() {
		// Restore exactly, regardless of whether the nested stream
		// balanced its own q/Q (spec §4.5: "caller's state restored
		// exactly on return" even after a malformed nested stream).
		ip.state = savedState
		ip.stack = ip.stack[:savedStackDepth]
		ip.resources = savedResources
	}()

	ip.resources = res
	ip.state = ip.state.Clone()
	ip.state.Resources = res
	if setCTM != nil {
		ip.state.CTM = *setCTM
	}
	return ip.Run(stm)
}

func (ip *Interpreter) dispatch(cmd content.Operator, args []pdf.Object) error {
	g := ip.state
	r := ip.r

	switch cmd {

	// -- graphics state ---------------------------------------------

	case "q":
		ip.stack = append(ip.stack, g.Clone())
	case "Q":
		if len(ip.stack) == 0 {
			return pdf.NewError(pdf.ErrState, "Q", errors.New("graphics-state stack underflow"))
		}
		ip.state = ip.stack[len(ip.stack)-1]
		ip.stack = ip.stack[:len(ip.stack)-1]
	case "cm":
		m, err := matrixArg(r, args)
		if err != nil {
			return err
		}
		g.CTM = m.Mul(g.CTM)
	case "w":
		v, err := number1(r, args)
		if err != nil {
			return err
		}
		g.LineWidth = v
	case "J":
		v, err := integer1(r, args)
		if err != nil {
			return err
		}
		g.LineCap = v
	case "j":
		v, err := integer1(r, args)
		if err != nil {
			return err
		}
		g.LineJoin = v
	case "M":
		v, err := number1(r, args)
		if err != nil {
			return err
		}
		g.MiterLimit = v
	case "d":
		if len(args) < 2 {
			return errTooFewArgs
		}
		arr, ok := args[0].(pdf.Array)
		if !ok {
			return fmt.Errorf("unexpected type %T for dash array", args[0])
		}
		dash := make([]float64, len(arr))
		for i, a := range arr {
			v, ok := getReal(a)
			if !ok {
				return fmt.Errorf("unexpected type %T in dash array", a)
			}
			dash[i] = v
		}
		phase, err := number1(r, args[1:])
		if err != nil {
			return err
		}
		g.DashPattern = dash
		g.DashPhase = phase
	case "ri":
		name, ok := firstName(args)
		if !ok {
			return fmt.Errorf("unexpected operand for ri")
		}
		g.RenderingIntent = name
	case "i":
		v, err := number1(r, args)
		if err != nil {
			return err
		}
		g.Flatness = v
	case "gs":
		name, ok := firstName(args)
		if !ok {
			return fmt.Errorf("unexpected operand for gs")
		}
		return ip.applyExtGState(name)

	// -- path construction --------------------------------------------

	case "m":
		x, y, err := point(r, args)
		if err != nil {
			return err
		}
		ip.path = &graphics.Path{}
		ip.path.MoveTo(x, y)
	case "l":
		x, y, err := point(r, args)
		if err != nil {
			return err
		}
		if ip.path == nil {
			return pdf.NewError(pdf.ErrOperator, "l", errors.New("no current path"))
		}
		return ip.path.LineTo(x, y)
	case "c":
		vals, err := numbers(r, args, 6)
		if err != nil {
			return err
		}
		if ip.path == nil {
			return pdf.NewError(pdf.ErrOperator, "c", errors.New("no current path"))
		}
		return ip.path.CurveTo(vals[0], vals[1], vals[2], vals[3], vals[4], vals[5])
	case "v":
		vals, err := numbers(r, args, 4)
		if err != nil {
			return err
		}
		if ip.path == nil || !ip.path.HasCurrentPoint() {
			return pdf.NewError(pdf.ErrOperator, "v", errors.New("no current path"))
		}
		x0, y0 := ip.path.CurrentPoint()
		return ip.path.CurveTo(x0, y0, vals[0], vals[1], vals[2], vals[3])
	case "y":
		vals, err := numbers(r, args, 4)
		if err != nil {
			return err
		}
		if ip.path == nil {
			return pdf.NewError(pdf.ErrOperator, "y", errors.New("no current path"))
		}
		return ip.path.CurveTo(vals[0], vals[1], vals[2], vals[3], vals[2], vals[3])
	case "h":
		if ip.path == nil {
			return pdf.NewError(pdf.ErrOperator, "h", errors.New("no current path"))
		}
		return ip.path.ClosePath()
	case "re":
		vals, err := numbers(r, args, 4)
		if err != nil {
			return err
		}
		if ip.path == nil {
			ip.path = &graphics.Path{}
		}
		ip.path.Rectangle(vals[0], vals[1], vals[2], vals[3])

	// -- path painting -------------------------------------------------

	case "S":
		return ip.paintPath(false, true, graphics.NonZeroWinding)
	case "s":
		if ip.path != nil {
			ip.path.ClosePath()
		}
		return ip.paintPath(false, true, graphics.NonZeroWinding)
	case "f", "F":
		return ip.paintPath(true, false, graphics.NonZeroWinding)
	case "f*":
		return ip.paintPath(true, false, graphics.EvenOdd)
	case "B":
		return ip.paintPath(true, true, graphics.NonZeroWinding)
	case "B*":
		return ip.paintPath(true, true, graphics.EvenOdd)
	case "b":
		if ip.path != nil {
			ip.path.ClosePath()
		}
		return ip.paintPath(true, true, graphics.NonZeroWinding)
	case "b*":
		if ip.path != nil {
			ip.path.ClosePath()
		}
		return ip.paintPath(true, true, graphics.EvenOdd)
	case "n":
		return ip.paintPath(false, false, graphics.NonZeroWinding)

	// -- clipping --------------------------------------------------------

	case "W":
		rule := graphics.NonZeroWinding
		ip.pendingClip = &rule
	case "W*":
		rule := graphics.EvenOdd
		ip.pendingClip = &rule

	// -- text objects ------------------------------------------------

	case "BT":
		g.Tm = graphics.IdentityMatrix
		g.Tlm = graphics.IdentityMatrix
	case "ET":
		// nothing to restore: Tm/Tlm are simply undefined outside BT/ET

	// -- text state ------------------------------------------------------

	case "Tc":
		v, err := number1(r, args)
		if err != nil {
			return err
		}
		g.Tc = v
	case "Tw":
		v, err := number1(r, args)
		if err != nil {
			return err
		}
		g.Tw = v
	case "Tz":
		v, err := number1(r, args)
		if err != nil {
			return err
		}
		g.Th = v
	case "TL":
		v, err := number1(r, args)
		if err != nil {
			return err
		}
		g.Tl = v
	case "Tf":
		if len(args) < 2 {
			return errTooFewArgs
		}
		name, ok := args[0].(pdf.Name)
		size, ok2 := getReal(args[1])
		if !ok || !ok2 {
			return fmt.Errorf("unexpected operands for Tf: %T %T", args[0], args[1])
		}
		g.Font = name
		g.FontSize = size
	case "Tr":
		v, err := integer1(r, args)
		if err != nil {
			return err
		}
		g.Tmode = v
	case "Ts":
		v, err := number1(r, args)
		if err != nil {
			return err
		}
		g.Trise = v

	// -- text positioning --------------------------------------------

	case "Td":
		tx, ty, err := point(r, args)
		if err != nil {
			return err
		}
		g.Tlm = graphics.Matrix{1, 0, 0, 1, tx, ty}.Mul(g.Tlm)
		g.Tm = g.Tlm
	case "TD":
		tx, ty, err := point(r, args)
		if err != nil {
			return err
		}
		g.Tl = -ty
		g.Tlm = graphics.Matrix{1, 0, 0, 1, tx, ty}.Mul(g.Tlm)
		g.Tm = g.Tlm
	case "Tm":
		m, err := matrixArg(r, args)
		if err != nil {
			return err
		}
		g.Tm = m
		g.Tlm = m
	case "T*":
		g.Tlm = graphics.Matrix{1, 0, 0, 1, 0, -g.Tl}.Mul(g.Tlm)
		g.Tm = g.Tlm

	// -- text showing ------------------------------------------------

	case "Tj":
		s, ok := firstString(args)
		if !ok {
			return fmt.Errorf("unexpected operand for Tj")
		}
		return ip.showText(s)
	case "'":
		s, ok := firstString(args)
		if !ok {
			return fmt.Errorf("unexpected operand for '")
		}
		g.Tlm = graphics.Matrix{1, 0, 0, 1, 0, -g.Tl}.Mul(g.Tlm)
		g.Tm = g.Tlm
		return ip.showText(s)
	case `"`:
		if len(args) < 3 {
			return errTooFewArgs
		}
		aw, ok1 := getReal(args[0])
		ac, ok2 := getReal(args[1])
		s, ok3 := args[2].(pdf.String)
		if !ok1 || !ok2 || !ok3 {
			return fmt.Errorf(`unexpected operands for "`)
		}
		g.Tw = aw
		g.Tc = ac
		g.Tlm = graphics.Matrix{1, 0, 0, 1, 0, -g.Tl}.Mul(g.Tlm)
		g.Tm = g.Tlm
		return ip.showText(s)
	case "TJ":
		arr, ok := firstArray(args)
		if !ok {
			return fmt.Errorf("unexpected operand for TJ")
		}
		for _, frag := range arr {
			switch v := frag.(type) {
			case pdf.String:
				if err := ip.showText(v); err != nil {
					return err
				}
			case pdf.Integer, pdf.Real, pdf.Number:
				n, _ := getReal(v)
				tx := -n / 1000 * g.FontSize * g.Th / 100
				g.Tm = graphics.Matrix{1, 0, 0, 1, tx, 0}.Mul(g.Tm)
			default:
				return fmt.Errorf("unexpected type %T in TJ array", frag)
			}
		}

	// -- Type-3 char metrics -------------------------------------------

	case "d0":
		v, err := number1(r, args)
		if err != nil {
			return err
		}
		if ip.type3Advance != nil {
			*ip.type3Advance = v
		}
	case "d1":
		vals, err := numbers(r, args, 6)
		if err != nil {
			return err
		}
		if vals[1] != 0 {
			return pdf.NewError(pdf.ErrOperator, "d1", errors.New("wy must be 0 in horizontal writing mode"))
		}
		if ip.type3Advance != nil {
			*ip.type3Advance = vals[0]
		}

	// -- color -----------------------------------------------------------

	case "CS":
		name, ok := firstName(args)
		if !ok {
			return fmt.Errorf("unexpected operand for CS")
		}
		if _, err := gcolor.ResolveSpace(r, ip.resources, name); err != nil {
			return err
		}
		g.StrokeColor = color.Default
		g.StrokePattern = ""
	case "cs":
		name, ok := firstName(args)
		if !ok {
			return fmt.Errorf("unexpected operand for cs")
		}
		if _, err := gcolor.ResolveSpace(r, ip.resources, name); err != nil {
			return err
		}
		g.FillColor = color.Default
		g.FillPattern = ""
	case "SC", "SCN":
		return ip.setColor(args, true)
	case "sc", "scn":
		return ip.setColor(args, false)
	case "G":
		v, err := number1(r, args)
		if err != nil {
			return err
		}
		g.StrokeColor = color.Gray(v)
		g.StrokePattern = ""
	case "g":
		v, err := number1(r, args)
		if err != nil {
			return err
		}
		g.FillColor = color.Gray(v)
		g.FillPattern = ""
	case "RG":
		vals, err := numbers(r, args, 3)
		if err != nil {
			return err
		}
		g.StrokeColor = color.RGB(vals[0], vals[1], vals[2])
		g.StrokePattern = ""
	case "rg":
		vals, err := numbers(r, args, 3)
		if err != nil {
			return err
		}
		g.FillColor = color.RGB(vals[0], vals[1], vals[2])
		g.FillPattern = ""
	case "K":
		vals, err := numbers(r, args, 4)
		if err != nil {
			return err
		}
		g.StrokeColor = color.CMYK(vals[0], vals[1], vals[2], vals[3])
		g.StrokePattern = ""
	case "k":
		vals, err := numbers(r, args, 4)
		if err != nil {
			return err
		}
		g.FillColor = color.CMYK(vals[0], vals[1], vals[2], vals[3])
		g.FillPattern = ""

	// -- shading -----------------------------------------------------------

	case "sh":
		// A full shading rasterizer is out of scope; the interpreter
		// validates the resource reference and otherwise no-ops.
		name, ok := firstName(args)
		if !ok {
			return fmt.Errorf("unexpected operand for sh")
		}
		if ip.resources == nil || ip.resources.Shading[name] == nil {
			return pdf.NewError(pdf.ErrResource, "sh", fmt.Errorf("unknown shading %q", name))
		}

	// -- XObjects --------------------------------------------------------

	case "Do":
		name, ok := firstName(args)
		if !ok {
			return fmt.Errorf("unexpected operand for Do")
		}
		return ip.doXObject(name)

	// -- inline images -----------------------------------------------------

	case "BI", "ID", "EI":
		return pdf.NewError(pdf.ErrNotImplemented, string(cmd), errors.New("inline images are not supported"))

	// -- marked content -------------------------------------------------

	case "BMC", "BDC", "EMC", "MP", "DP":
		// marked-content structure carries no graphics-state effect

	default:
		return pdf.NewError(pdf.ErrOperator, string(cmd), fmt.Errorf("unknown operator"))
	}

	return nil
}

// paintPath finishes the path under construction: applies any pending
// clip (spec's deferred-clip rule), then fills and/or strokes it
// through the CTM, then clears the current path.
func (ip *Interpreter) paintPath(fill, stroke bool, rule graphics.FillRule) error {
	g := ip.state
	path := ip.path
	ip.path = nil

	if path != nil {
		dev := path.Transform(g.CTM)
		if fill {
			var pat graphics.Pattern
			if g.FillPattern != "" {
				p, err := gcolor.ResolvePattern(ip.r, ip.resources, g.FillPattern, g.FillColor)
				if err != nil {
					return err
				}
				pat = p
			}
			if err := ip.canvas.FillPath(dev, rule, g.FillColor, pat, g.BlendMode); err != nil {
				return err
			}
		}
		if stroke {
			lw := g.LineWidth
			if err := ip.canvas.StrokePath(dev, g.StrokeColor, lw, g.DashPattern, g.DashPhase, g.BlendMode); err != nil {
				return err
			}
		}
	}

	if ip.pendingClip != nil {
		rule := *ip.pendingClip
		ip.pendingClip = nil
		if path == nil {
			return ip.canvas.ResetClip()
		}
		dev := path.Transform(g.CTM)
		if err := ip.canvas.SetClip(dev, rule); err != nil {
			return err
		}
		merged := g.ClippingPath
		if merged == nil {
			g.ClippingPath = dev
		} else {
			merged.Verbs = append(append([]graphics.Verb(nil), merged.Verbs...), dev.Verbs...)
		}
	}

	return nil
}

func (ip *Interpreter) applyExtGState(name pdf.Name) error {
	if ip.resources == nil {
		return pdf.NewError(pdf.ErrResource, "gs", errors.New("no /ExtGState resources"))
	}
	dict, err := pdf.GetDict(ip.r, ip.resources.ExtGState[name])
	if err != nil {
		return err
	}
	g := ip.state
	r := ip.r
	for key, val := range dict {
		switch key {
		case "LW":
			v, err := pdf.GetNumber(r, val)
			if err != nil {
				return err
			}
			g.LineWidth = float64(v)
		case "LC":
			v, err := pdf.GetInteger(r, val)
			if err != nil {
				return err
			}
			g.LineCap = int(v)
		case "LJ":
			v, err := pdf.GetInteger(r, val)
			if err != nil {
				return err
			}
			g.LineJoin = int(v)
		case "ML":
			v, err := pdf.GetNumber(r, val)
			if err != nil {
				return err
			}
			g.MiterLimit = float64(v)
		case "CA":
			v, err := pdf.GetNumber(r, val)
			if err != nil {
				return err
			}
			g.StrokeAlpha = float64(v)
		case "ca":
			v, err := pdf.GetNumber(r, val)
			if err != nil {
				return err
			}
			g.FillAlpha = float64(v)
		case "BM":
			name, err := resolveBlendModeName(r, val)
			if err != nil {
				return err
			}
			g.BlendMode = name
		case "SMask":
			resolved, err := pdf.Resolve(r, val)
			if err != nil {
				return err
			}
			if resolved == pdf.Name("None") {
				g.SoftMask = nil
			} else if d, ok := resolved.(pdf.Dict); ok {
				g.SoftMask = d
			}
		case "OP":
			v, err := pdf.GetBoolean(r, val)
			if err != nil {
				return err
			}
			g.OverprintStroke = bool(v)
			if _, ok := dict["op"]; !ok {
				g.OverprintFill = bool(v)
			}
		case "op":
			v, err := pdf.GetBoolean(r, val)
			if err != nil {
				return err
			}
			g.OverprintFill = bool(v)
		case "OPM":
			v, err := pdf.GetInteger(r, val)
			if err != nil {
				return err
			}
			g.OverprintMode = int(v)
		case "SA":
			v, err := pdf.GetBoolean(r, val)
			if err != nil {
				return err
			}
			g.StrokeAdjustment = bool(v)
		case "AIS":
			v, err := pdf.GetBoolean(r, val)
			if err != nil {
				return err
			}
			g.AlphaSourceFlag = bool(v)
		case "Type", "Font":
			// not modeled
		}
	}
	return nil
}

func resolveBlendModeName(r pdf.Getter, val pdf.Object) (pdf.Name, error) {
	resolved, err := pdf.Resolve(r, val)
	if err != nil {
		return "", err
	}
	switch v := resolved.(type) {
	case pdf.Name:
		return v, nil
	case pdf.Array:
		if len(v) > 0 {
			if n, ok := v[0].(pdf.Name); ok {
				return n, nil
			}
		}
	}
	return "", nil
}

func (ip *Interpreter) setColor(args []pdf.Object, stroking bool) error {
	if len(args) == 0 {
		return errTooFewArgs
	}
	if name, ok := args[len(args)-1].(pdf.Name); ok {
		// Pattern color space: a trailing name selects the pattern;
		// any leading numbers are the uncolored-pattern's underlying
		// color components.
		comps := make([]float64, 0, len(args)-1)
		for _, a := range args[:len(args)-1] {
			v, ok := getReal(a)
			if !ok {
				return fmt.Errorf("unexpected pattern operand %T", a)
			}
			comps = append(comps, v)
		}
		var underlying color.Color
		if len(comps) > 0 {
			underlying = color.Gray(0)
			if len(comps) == 3 {
				underlying = color.RGB(comps[0], comps[1], comps[2])
			} else if len(comps) == 4 {
				underlying = color.CMYK(comps[0], comps[1], comps[2], comps[3])
			} else if len(comps) == 1 {
				underlying = color.Gray(comps[0])
			}
		}
		if stroking {
			ip.state.StrokePattern = name
			if underlying != nil {
				ip.state.StrokeColor = underlying
			}
		} else {
			ip.state.FillPattern = name
			if underlying != nil {
				ip.state.FillColor = underlying
			}
		}
		return nil
	}

	comps := make([]float64, len(args))
	for i, a := range args {
		v, ok := getReal(a)
		if !ok {
			return fmt.Errorf("unexpected color operand %T", a)
		}
		comps[i] = v
	}

	var c color.Color
	switch len(comps) {
	case 1:
		c = color.Gray(comps[0])
	case 3:
		c = color.RGB(comps[0], comps[1], comps[2])
	case 4:
		c = color.CMYK(comps[0], comps[1], comps[2], comps[3])
	default:
		return fmt.Errorf("unexpected number of color operands: %d", len(comps))
	}
	if stroking {
		ip.state.StrokeColor = c
		ip.state.StrokePattern = ""
	} else {
		ip.state.FillColor = c
		ip.state.FillPattern = ""
	}
	return nil
}

// doXObject executes a Form XObject recursively (spec §4.5's
// nesting rule), or draws an Image XObject directly.
func (ip *Interpreter) doXObject(name pdf.Name) error {
	if ip.resources == nil {
		return pdf.NewError(pdf.ErrResource, "Do", errors.New("no /XObject resources"))
	}
	obj, ok := ip.resources.XObject[name]
	if !ok {
		return pdf.NewError(pdf.ErrResource, "Do", fmt.Errorf("unknown XObject %q", name))
	}
	stm, err := pdf.GetStream(ip.r, obj)
	if err != nil {
		return err
	}
	subtype, _ := pdf.GetName(ip.r, stm.Dict["Subtype"])
	switch subtype {
	case "Form":
		return ip.doForm(stm)
	case "Image":
		return ip.doImage(stm)
	default:
		return pdf.NewError(pdf.ErrResource, "Do", fmt.Errorf("unsupported XObject subtype %q", subtype))
	}
}

func (ip *Interpreter) doForm(stm *pdf.Stream) error {
	r := ip.r
	g := ip.state

	m, err := pdf.GetMatrix(r, stm.Dict["Matrix"])
	if err != nil {
		m = graphics.IdentityMatrix
	}

	res := ip.resources
	if resDict, err := pdf.GetDict(r, stm.Dict["Resources"]); err == nil && resDict != nil {
		res = &pdf.Resources{}
		if err := pdf.DecodeDict(r, res, resDict); err != nil {
			return err
		}
	}

	body, err := pdf.DecodeStream(r, stm, 0)
	if err != nil {
		return err
	}
	defer body.Close()

	formCTM := m.Mul(g.CTM)
	return ip.runNested(body, res, &formCTM)
}

func (ip *Interpreter) doImage(stm *pdf.Stream) error {
	r := ip.r
	g := ip.state

	w, _ := pdf.GetInteger(r, stm.Dict["Width"])
	h, _ := pdf.GetInteger(r, stm.Dict["Height"])
	isMask, _ := pdf.GetBoolean(r, stm.Dict["ImageMask"])

	img, err := decodeImage(r, stm, int(w), int(h))
	if err != nil {
		return pdf.Wrap(err, "Do")
	}

	desc := &graphics.ImageDescriptor{
		Image:     img,
		Matrix:    g.CTM,
		IsStencil: bool(isMask),
	}
	return ip.canvas.DrawImage(desc, g.BlendMode)
}

func (ip *Interpreter) showText(s pdf.String) error {
	g := ip.state
	fb, err := ip.fontFor(g.Font)
	if err != nil {
		return err
	}

	for code := range fb.scanner.Codes(s) {
		if t3, ok := fb.fromFile.(*dict.Type3); ok {
			// Type-3 glyphs advance Tm themselves, from the width the
			// glyph procedure reports via d0/d1 (spec §4.7 step 7),
			// not from the font's Widths array.
			if err := ip.showType3Glyph(t3, code); err != nil {
				return err
			}
			continue
		}
		// Outline rendering for Type 1/TrueType/Type 0 glyphs is
		// optional and out of scope (spec §4.6); the interpreter
		// still advances Tm using the font's reported width so that
		// later text and glyphs are positioned correctly.

		tw := 0.0
		if code.UseWordSpacing {
			tw = g.Tw
		}
		advance := code.Width/1000*g.FontSize*g.Th/100 + g.Tc + tw
		g.Tm = graphics.Matrix{1, 0, 0, 1, advance, 0}.Mul(g.Tm)
	}
	return nil
}

func (ip *Interpreter) fontFor(name pdf.Name) (*fontBinding, error) {
	if fb, ok := ip.fonts[name]; ok {
		return fb, nil
	}
	if ip.resources == nil {
		return nil, pdf.NewError(pdf.ErrResource, "Tf", errors.New("no /Font resources"))
	}
	ref, ok := ip.resources.Font[name]
	if !ok {
		return nil, pdf.NewError(pdf.ErrResource, "Tf", fmt.Errorf("unknown font %q", name))
	}
	ff, err := font.Read(ip.r, ref)
	if err != nil {
		return nil, pdf.NewError(pdf.ErrFont, "Tf", err)
	}
	sc, err := ff.GetScanner()
	if err != nil {
		return nil, pdf.NewError(pdf.ErrFont, "Tf", err)
	}
	fb := &fontBinding{fromFile: ff, scanner: sc}
	ip.fonts[name] = fb
	return fb, nil
}

// -- small argument helpers ------------------------------------------------

var errTooFewArgs = errors.New("not enough arguments")

func getReal(x pdf.Object) (float64, bool) {
	switch x := x.(type) {
	case pdf.Real:
		return float64(x), true
	case pdf.Integer:
		return float64(x), true
	case pdf.Number:
		return float64(x), true
	default:
		return 0, false
	}
}

func number1(r pdf.Getter, args []pdf.Object) (float64, error) {
	if len(args) < 1 {
		return 0, errTooFewArgs
	}
	v, ok := getReal(args[0])
	if !ok {
		return 0, fmt.Errorf("unexpected type %T for numeric operand", args[0])
	}
	return v, nil
}

func integer1(r pdf.Getter, args []pdf.Object) (int, error) {
	v, err := number1(r, args)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func numbers(r pdf.Getter, args []pdf.Object, n int) ([]float64, error) {
	if len(args) < n {
		return nil, errTooFewArgs
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, ok := getReal(args[i])
		if !ok {
			return nil, fmt.Errorf("unexpected type %T for numeric operand", args[i])
		}
		out[i] = v
	}
	return out, nil
}

func point(r pdf.Getter, args []pdf.Object) (x, y float64, err error) {
	vals, err := numbers(r, args, 2)
	if err != nil {
		return 0, 0, err
	}
	return vals[0], vals[1], nil
}

func matrixArg(r pdf.Getter, args []pdf.Object) (graphics.Matrix, error) {
	vals, err := numbers(r, args, 6)
	if err != nil {
		return graphics.Matrix{}, err
	}
	return graphics.Matrix{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]}, nil
}

func firstName(args []pdf.Object) (pdf.Name, bool) {
	if len(args) < 1 {
		return "", false
	}
	n, ok := args[0].(pdf.Name)
	return n, ok
}

func firstString(args []pdf.Object) (pdf.String, bool) {
	if len(args) < 1 {
		return nil, false
	}
	s, ok := args[0].(pdf.String)
	return s, ok
}

func firstArray(args []pdf.Object) (pdf.Array, bool) {
	if len(args) < 1 {
		return nil, false
	}
	a, ok := args[0].(pdf.Array)
	return a, ok
}

// operatorSeq accumulates operands between operator tokens, mirroring
// the same small pattern [content.ForAllText] used before this
// package existed.
type operatorSeq struct {
	args []pdf.Object
}

func (o *operatorSeq) forAllCommands(sc *content.Scanner, yield func(cmd content.Operator, args []pdf.Object) error) error {
	for {
		obj, err := sc.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		cmd, ok := obj.(content.Operator)
		if !ok {
			o.args = append(o.args, obj)
			continue
		}
		if err := yield(cmd, o.args); err != nil {
			return err
		}
		o.args = o.args[:0]
	}
}
