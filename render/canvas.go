// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

package render

import "seehuhn.de/go/pdfrender/graphics"

// Canvas is the pluggable 2-D backend the interpreter draws into; it
// is exactly [graphics.Canvas], re-exported here so render package
// consumers don't need a separate import for the one type they must
// implement to use [NewInterpreter].
type Canvas = graphics.Canvas
