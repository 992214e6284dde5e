// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

// Package rastertest provides a [render.Canvas] implementation for use
// in tests: it both rasterizes into a real image.RGBA (using
// golang.org/x/image/vector, as the teacher's converter package does
// for its image renderer) and records every call it received, so a
// test can assert on exact call sequences (spec's S3/S5/S6 scenarios)
// as well as, optionally, inspect painted pixels.
package rastertest

import (
	"image"
	"image/color"
	"math"

	ximgdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"seehuhn.de/go/pdfrender"
	gcolor "seehuhn.de/go/pdfrender/color"
	"seehuhn.de/go/pdfrender/graphics"
)

// FillCall records one [Canvas.FillPath] invocation.
type FillCall struct {
	Path      *graphics.Path
	Rule      graphics.FillRule
	R, G, B, A float64
	Pattern   graphics.Pattern
	BlendMode pdf.Name
}

// StrokeCall records one [Canvas.StrokePath] invocation.
type StrokeCall struct {
	Path                *graphics.Path
	R, G, B, A          float64
	LineWidth           float64
	Dash                []float64
	DashPhase           float64
	BlendMode           pdf.Name
}

// Canvas is a recording, rasterizing [render.Canvas] backed by an
// image.RGBA.
type Canvas struct {
	Image *image.RGBA

	Fills   []FillCall
	Strokes []StrokeCall
	Clips   int
	Resets  int
	Images  int
}

// New returns a Canvas of the given pixel dimensions, initialized to
// opaque white (PDF's implicit page background).
func New(width, height int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	ximgdraw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, ximgdraw.Src)
	return &Canvas{Image: img}
}

func (c *Canvas) Width() int  { return c.Image.Bounds().Dx() }
func (c *Canvas) Height() int { return c.Image.Bounds().Dy() }

func (c *Canvas) FillPath(path *graphics.Path, rule graphics.FillRule, fillColor gcolor.Color, pattern graphics.Pattern, blendMode pdf.Name) error {
	r, g, b, a := fillColor.RGBA()
	c.Fills = append(c.Fills, FillCall{Path: path, Rule: rule, R: r, G: g, B: b, A: a, Pattern: pattern, BlendMode: blendMode})
	if pattern == nil {
		rasterize(c.Image, path, r, g, b, a)
	}
	return nil
}

func (c *Canvas) StrokePath(path *graphics.Path, strokeColor gcolor.Color, lineWidth float64, dash []float64, dashPhase float64, blendMode pdf.Name) error {
	r, g, b, a := strokeColor.RGBA()
	c.Strokes = append(c.Strokes, StrokeCall{Path: path, R: r, G: g, B: b, A: a, LineWidth: lineWidth, Dash: dash, DashPhase: dashPhase, BlendMode: blendMode})
	rasterize(c.Image, strokeOutline(path, lineWidth), r, g, b, a)
	return nil
}

func (c *Canvas) SetClip(path *graphics.Path, rule graphics.FillRule) error {
	c.Clips++
	return nil
}

func (c *Canvas) ResetClip() error {
	c.Resets++
	return nil
}

func (c *Canvas) DrawImage(img *graphics.ImageDescriptor, blendMode pdf.Name) error {
	c.Images++
	m := img.Matrix
	bounds := c.Image.Bounds()
	corners := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		dx := m[0]*p[0] + m[2]*p[1] + m[4]
		dy := m[1]*p[0] + m[3]*p[1] + m[5]
		minX, minY = math.Min(minX, dx), math.Min(minY, dy)
		maxX, maxY = math.Max(maxX, dx), math.Max(maxY, dy)
	}
	dr := image.Rect(int(minX), int(minY), int(maxX), int(maxY)).Intersect(bounds)
	if dr.Empty() {
		return nil
	}
	ximgdraw.ApproxBiLinear.Scale(c.Image, dr, img.Image, img.Image.Bounds(), ximgdraw.Over, nil)
	return nil
}

func (c *Canvas) BeginMaskLayer(mode graphics.MaskMode, transform graphics.Matrix) error {
	return nil
}

func (c *Canvas) EndMaskLayer() error {
	return nil
}

func (c *Canvas) CreateMaskSurface(width, height int) (graphics.Canvas, error) {
	return New(width, height), nil
}

// rasterize fills path (in device pixel coordinates) into img using
// golang.org/x/image/vector, the same rasterizer the teacher's
// converter package uses for its image renderer.
func rasterize(img *image.RGBA, path *graphics.Path, r, g, b, a float64) {
	if path == nil || path.IsEmpty() {
		return
	}
	bounds := img.Bounds()
	ras := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	for _, v := range path.Verbs {
		switch v.Kind {
		case graphics.MoveTo:
			ras.MoveTo(float32(v.X), float32(v.Y))
		case graphics.LineTo:
			ras.LineTo(float32(v.X), float32(v.Y))
		case graphics.CubicTo:
			ras.CubeTo(float32(v.X1), float32(v.Y1), float32(v.X2), float32(v.Y2), float32(v.X), float32(v.Y))
		case graphics.QuadTo:
			ras.QuadTo(float32(v.X1), float32(v.Y1), float32(v.X), float32(v.Y))
		case graphics.Close:
			ras.ClosePath()
		}
	}
	col := color.NRGBA{
		R: uint8(clamp01(r) * 255),
		G: uint8(clamp01(g) * 255),
		B: uint8(clamp01(b) * 255),
		A: uint8(clamp01(a) * 255),
	}
	ras.Draw(img, bounds, image.NewUniform(col), image.Point{})
}

// strokeOutline approximates a stroked path as a fill by expanding
// each segment into a thin quadrilateral, matching the approach the
// teacher's converter package uses (curves flattened to their
// endpoint-to-endpoint line).
func strokeOutline(path *graphics.Path, lineWidth float64) *graphics.Path {
	if path == nil {
		return nil
	}
	hw := lineWidth / 2
	if hw <= 0 {
		hw = 0.5
	}
	out := &graphics.Path{}
	var curX, curY float64
	for _, v := range path.Verbs {
		var destX, destY float64
		switch v.Kind {
		case graphics.MoveTo:
			curX, curY = v.X, v.Y
			continue
		case graphics.LineTo, graphics.CubicTo, graphics.QuadTo, graphics.Close:
			destX, destY = v.X, v.Y
		}
		vx, vy := destX-curX, destY-curY
		vl := math.Hypot(vx, vy)
		if vl > 0 {
			nx, ny := -vy/vl*hw, vx/vl*hw
			out.MoveTo(curX+nx, curY+ny)
			_ = out.LineTo(destX+nx, destY+ny)
			_ = out.LineTo(destX-nx, destY-ny)
			_ = out.LineTo(curX-nx, curY-ny)
			_ = out.ClosePath()
		}
		curX, curY = destX, destY
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
