// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

// Package color resolves the /ColorSpace and /Pattern resources a
// content stream's color operators (cs, CS, sc, SCN, scn, ...) refer
// to into the values the graphics-state machine and canvas backend
// need: a [Space] that turns an operand list into a [color.Color], and
// a [graphics.Pattern] binding for the colored/uncolored pattern and
// shading-pattern cases spec §3 calls out ("each with an optional
// pattern/shading binding").
package color

import (
	"fmt"

	"seehuhn.de/go/pdfrender"
	"seehuhn.de/go/pdfrender/color"
	"seehuhn.de/go/pdfrender/graphics"
)

// Space is a resolved PDF color space: it knows how many color
// components its `sc`/`scn` operands carry and how to turn them into
// a device color.
type Space interface {
	// NumComponents is the number of numeric operands `sc`/`scn`
	// consume for this space (0 for Pattern, since pattern operands
	// are a trailing name instead).
	NumComponents() int

	// Color converts a component tuple into a device color.
	Color(comps []float64) (color.Color, error)
}

type deviceGray struct{}

func (deviceGray) NumComponents() int { return 1 }
func (deviceGray) Color(c []float64) (color.Color, error) {
	if len(c) < 1 {
		return nil, fmt.Errorf("color/DeviceGray: need 1 component, got %d", len(c))
	}
	return color.Gray(c[0]), nil
}

type deviceRGB struct{}

func (deviceRGB) NumComponents() int { return 3 }
func (deviceRGB) Color(c []float64) (color.Color, error) {
	if len(c) < 3 {
		return nil, fmt.Errorf("color/DeviceRGB: need 3 components, got %d", len(c))
	}
	return color.RGB(c[0], c[1], c[2]), nil
}

type deviceCMYK struct{}

func (deviceCMYK) NumComponents() int { return 4 }
func (deviceCMYK) Color(c []float64) (color.Color, error) {
	if len(c) < 4 {
		return nil, fmt.Errorf("color/DeviceCMYK: need 4 components, got %d", len(c))
	}
	return color.CMYK(c[0], c[1], c[2], c[3]), nil
}

var (
	DeviceGray Space = deviceGray{}
	DeviceRGB  Space = deviceRGB{}
	DeviceCMYK Space = deviceCMYK{}
)

// patternSpace implements the /Pattern color space. Colored patterns
// carry no component operands (the pattern supplies its own colors);
// uncolored patterns paint in Underlying, supplied as the leading
// operands of `scn`.
type patternSpace struct {
	Underlying Space // nil for a colored pattern
}

func (p patternSpace) NumComponents() int {
	if p.Underlying == nil {
		return 0
	}
	return p.Underlying.NumComponents()
}

func (p patternSpace) Color(c []float64) (color.Color, error) {
	if p.Underlying == nil {
		return color.Default, nil
	}
	return p.Underlying.Color(c)
}

// ResolveSpace looks up name in resources.ColorSpace (falling back to
// the device spaces and /Pattern, which are always available without
// a resource entry) and returns the corresponding [Space].
//
// Color spaces this engine does not model numerically (CalGray,
// CalRGB, Lab, ICCBased, Indexed, Separation, DeviceN) are resolved to
// their nearest device space by component count, which reproduces the
// right cs/sc arity even though it does not reproduce exact color
// reproduction; a full colorimetric pipeline is out of scope (spec's
// Non-goals exclude color management).
func ResolveSpace(r pdf.Getter, resources *pdf.Resources, name pdf.Name) (Space, error) {
	switch name {
	case "DeviceGray", "G", "CalGray":
		return DeviceGray, nil
	case "DeviceRGB", "RGB":
		return DeviceRGB, nil
	case "DeviceCMYK", "CMYK":
		return DeviceCMYK, nil
	case "Pattern":
		return patternSpace{}, nil
	}

	if resources == nil || resources.ColorSpace == nil {
		return nil, fmt.Errorf("color: unknown color space %q", name)
	}
	entry, err := pdf.Resolve(r, resources.ColorSpace[name])
	if err != nil {
		return nil, err
	}
	return decodeSpaceObject(r, entry)
}

func decodeSpaceObject(r pdf.Getter, obj pdf.Object) (Space, error) {
	switch obj := obj.(type) {
	case pdf.Name:
		switch obj {
		case "DeviceGray", "CalGray":
			return DeviceGray, nil
		case "DeviceRGB":
			return DeviceRGB, nil
		case "DeviceCMYK":
			return DeviceCMYK, nil
		default:
			return nil, fmt.Errorf("color: unsupported color space name %q", obj)
		}
	case pdf.Array:
		if len(obj) == 0 {
			return nil, fmt.Errorf("color: empty color space array")
		}
		family, err := pdf.GetName(r, obj[0])
		if err != nil {
			return nil, err
		}
		switch family {
		case "CalGray":
			return DeviceGray, nil
		case "CalRGB", "Lab":
			return DeviceRGB, nil
		case "ICCBased":
			return decodeICCBased(r, obj)
		case "Indexed":
			return DeviceRGB, nil
		case "Separation", "DeviceN":
			return DeviceGray, nil
		case "Pattern":
			var under Space
			if len(obj) > 1 {
				base, err := pdf.Resolve(r, obj[1])
				if err != nil {
					return nil, err
				}
				under, err = decodeSpaceObject(r, base)
				if err != nil {
					return nil, err
				}
			}
			return patternSpace{Underlying: under}, nil
		default:
			return nil, fmt.Errorf("color: unsupported color space family %q", family)
		}
	default:
		return nil, fmt.Errorf("color: unexpected type %T for color space", obj)
	}
}

// decodeICCBased falls back on the stream's /N component count, since
// this engine does not interpret ICC profiles (see ResolveSpace's
// doc comment).
func decodeICCBased(r pdf.Getter, obj pdf.Array) (Space, error) {
	if len(obj) < 2 {
		return nil, fmt.Errorf("color: malformed /ICCBased color space")
	}
	stm, err := pdf.GetStream(r, obj[1])
	if err != nil {
		return nil, err
	}
	n, err := pdf.GetInteger(r, stm.Dict["N"])
	if err != nil {
		return nil, err
	}
	switch n {
	case 1:
		return DeviceGray, nil
	case 4:
		return DeviceCMYK, nil
	default:
		return DeviceRGB, nil
	}
}

// tilingPattern binds the /PatternType 1 content stream a colored or
// uncolored pattern fill recursively executes, in pattern space.
type tilingPattern struct {
	Stream    *pdf.Stream
	Matrix    graphics.Matrix
	Resources *pdf.Resources
	Colored   bool
	Paint     color.Color // uncolored pattern's underlying color, else nil
}

func (t *tilingPattern) PatternMatrix() graphics.Matrix { return t.Matrix }

// shadingPattern binds a /PatternType 2 smooth-shading dictionary.
type shadingPattern struct {
	Shading pdf.Dict
	Matrix  graphics.Matrix
}

func (s *shadingPattern) PatternMatrix() graphics.Matrix { return s.Matrix }

// ResolvePattern looks up name in resources.Pattern and returns the
// tiling- or shading-pattern binding for it. paint is the resolved
// underlying color for an uncolored tiling pattern (ignored for
// colored tiling patterns and for shading patterns).
func ResolvePattern(r pdf.Getter, resources *pdf.Resources, name pdf.Name, paint color.Color) (graphics.Pattern, error) {
	if resources == nil {
		return nil, fmt.Errorf("color: no /Pattern resources")
	}
	obj, err := pdf.Resolve(r, resources.Pattern[name])
	if err != nil {
		return nil, err
	}

	var dict pdf.Dict
	var stm *pdf.Stream
	switch obj := obj.(type) {
	case *pdf.Stream:
		dict, stm = obj.Dict, obj
	case pdf.Dict:
		dict = obj
	default:
		return nil, fmt.Errorf("color: unexpected type %T for pattern %q", obj, name)
	}

	patternType, err := pdf.GetInteger(r, dict["PatternType"])
	if err != nil {
		return nil, err
	}

	m, err := pdf.GetMatrix(r, dict["Matrix"])
	if err != nil {
		m = graphics.IdentityMatrix
	}

	switch patternType {
	case 1:
		if stm == nil {
			return nil, fmt.Errorf("color: tiling pattern %q has no content stream", name)
		}
		paintType, err := pdf.GetInteger(r, dict["PaintType"])
		if err != nil {
			return nil, err
		}
		res := &pdf.Resources{}
		if resDict, err := pdf.GetDict(r, dict["Resources"]); err == nil && resDict != nil {
			_ = pdf.DecodeDict(r, res, resDict)
		}
		return &tilingPattern{
			Stream:    stm,
			Matrix:    m,
			Resources: res,
			Colored:   paintType == 1,
			Paint:     paint,
		}, nil
	case 2:
		shDict, err := pdf.GetDict(r, dict["Shading"])
		if err != nil {
			return nil, err
		}
		return &shadingPattern{Shading: shDict, Matrix: m}, nil
	default:
		return nil, fmt.Errorf("color: unknown /PatternType %d", patternType)
	}
}
