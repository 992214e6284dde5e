// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

// Package graphics implements the content-stream graphics-state and
// text-state machine (spec §4.5): the q/Q-scoped state stack, the
// five interacting matrices that place text and paths on a page, and
// the operator-driven interpreter that walks a content stream and
// drives a [Canvas] backend.
package graphics

import "seehuhn.de/go/geom/matrix"

// Matrix is an affine 3x2 transform {a, b, c, d, e, f} representing
//
//	[ a b 0 ]
//	[ c d 0 ]
//	[ e f 1 ]
//
// User-space coordinates are transformed as (x', y') = (x, y, 1) * Matrix.
type Matrix = matrix.Matrix

// IdentityMatrix is the identity transform.
var IdentityMatrix = matrix.Identity
