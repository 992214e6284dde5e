// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

package render

import (
	"bytes"
	goimage "image"
	"image/jpeg"
	"io"

	"seehuhn.de/go/pdfrender"
)

// decodeImage turns an Image XObject's stream into a Go image.Image,
// sized w x h. /Filter DCTDecode streams are handed to the standard
// JPEG decoder; anything else is treated as raw, undelimited samples
// and unpacked according to /BitsPerComponent and the number of
// components implied by the data length (spec's image descriptor:
// "encoding tag (jpeg when /Filter = DCTDecode, otherwise raw)").
func decodeImage(r pdf.Getter, stm *pdf.Stream, w, h int) (goimage.Image, error) {
	filters, err := pdf.GetFilters(r, stm.Dict)
	if err != nil {
		return nil, err
	}

	isDCT := false
	for _, f := range filters {
		if f.Name == "DCTDecode" {
			isDCT = true
		}
	}

	body, err := pdf.DecodeStream(r, stm, 0)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	if isDCT {
		return jpeg.Decode(bytes.NewReader(data))
	}

	bpc, _ := pdf.GetInteger(r, stm.Dict["BitsPerComponent"])
	if bpc == 0 {
		bpc = 8
	}

	numComps := len(data) / maxInt(1, w*h)
	switch {
	case bpc == 8 && numComps >= 3:
		img := goimage.NewNRGBA(goimage.Rect(0, 0, w, h))
		for i := 0; i < w*h && (i+1)*3 <= len(data); i++ {
			img.Pix[i*4+0] = data[i*3+0]
			img.Pix[i*4+1] = data[i*3+1]
			img.Pix[i*4+2] = data[i*3+2]
			img.Pix[i*4+3] = 255
		}
		return img, nil
	default:
		img := goimage.NewGray(goimage.Rect(0, 0, w, h))
		n := len(data)
		if n > len(img.Pix) {
			n = len(img.Pix)
		}
		copy(img.Pix, data[:n])
		return img, nil
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
