// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

// Package pagetree walks the PDF page tree (spec §2): starting from a
// leaf /Page dictionary or the document /Catalog, it follows /Parent
// references upward (or /Kids references downward) to find every page
// and to flatten the inheritable attributes (/Resources, /MediaBox,
// /CropBox, /Rotate) each node may omit in favor of an ancestor's
// value.
package pagetree

import (
	"errors"
	"fmt"

	"seehuhn.de/go/pdfrender"
)

// maxDepth bounds the number of /Parent (or /Kids) links this package
// will follow before giving up, guarding against a cyclic page tree in
// a malformed file (spec §7: a malformed structure is a
// StructuralError, not an infinite loop).
const maxDepth = 64

// Page is a leaf /Page dictionary together with its fully resolved
// inheritable attributes.
type Page struct {
	Dict pdf.Dict

	// Resources is the resource dictionary in effect for this page's
	// content streams, decoded from the nearest ancestor (or the page
	// itself) that defines /Resources.
	Resources *pdf.Resources

	// MediaBox is the page boundary used to establish the initial
	// device-space transform. It is never nil for a well-formed page:
	// if no ancestor defines one, the PDF-mandated US Letter default
	// is used.
	MediaBox *pdf.Rectangle

	// CropBox further restricts MediaBox, or is nil if no ancestor
	// defines one (callers should then treat MediaBox as the crop).
	CropBox *pdf.Rectangle

	// Rotate is the number of degrees (a multiple of 90) the page is
	// rotated clockwise when displayed.
	Rotate int
}

// defaultMediaBox is the fallback required when neither the page nor
// any of its ancestors specifies /MediaBox: US Letter, in points.
var defaultMediaBox = &pdf.Rectangle{URx: 612, URy: 792}

// GetPage reads the /Page dictionary obj and walks its /Parent chain
// to resolve the inheritable attributes spec §2 lists. obj itself
// must resolve to a dictionary with /Type /Page (or no /Type, which
// PDF readers are required to tolerate).
func GetPage(r pdf.Getter, obj pdf.Object) (*Page, error) {
	dict, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}
	pageDict, ok := dict.(pdf.Dict)
	if !ok {
		return nil, fmt.Errorf("pagetree: expected a page dictionary, got %T", dict)
	}
	if tp, _ := pageDict["Type"].(pdf.Name); tp != "" && tp != "Page" {
		return nil, fmt.Errorf("pagetree: expected /Type /Page, got %q", tp)
	}

	var resourcesDict pdf.Dict
	var mediaBox, cropBox *pdf.Rectangle
	var rotate int
	haveResources, haveMediaBox, haveCropBox, haveRotate := false, false, false, false

	node := pageDict
	for depth := 0; ; depth++ {
		if depth > maxDepth {
			return nil, &pdf.MalformedFileError{
				Err: errors.New("pagetree: /Parent chain too long (cycle?)"),
			}
		}

		if !haveResources {
			if rd, err := pdf.GetDict(r, node["Resources"]); err == nil && rd != nil {
				resourcesDict = rd
				haveResources = true
			}
		}
		if !haveMediaBox {
			if mb, err := pdf.GetRectangle(r, node["MediaBox"]); err == nil && mb != nil {
				mediaBox = mb
				haveMediaBox = true
			}
		}
		if !haveCropBox {
			if cb, err := pdf.GetRectangle(r, node["CropBox"]); err == nil && cb != nil {
				cropBox = cb
				haveCropBox = true
			}
		}
		if !haveRotate {
			if rot, err := pdf.GetInteger(r, node["Rotate"]); err == nil {
				if _, present := node["Rotate"]; present {
					rotate = int(rot)
					haveRotate = true
				}
			}
		}

		parentObj, hasParent := node["Parent"]
		if !hasParent {
			break
		}
		parent, err := pdf.Resolve(r, parentObj)
		if err != nil {
			return nil, err
		}
		parentDict, ok := parent.(pdf.Dict)
		if !ok {
			break
		}
		node = parentDict
	}

	resources := &pdf.Resources{}
	if resourcesDict != nil {
		if err := pdf.DecodeDict(r, resources, resourcesDict); err != nil {
			return nil, pdf.Wrap(err, "Resources")
		}
	}
	if mediaBox == nil {
		mediaBox = defaultMediaBox
	}

	return &Page{
		Dict:      pageDict,
		Resources: resources,
		MediaBox:  mediaBox,
		CropBox:   cropBox,
		Rotate:    normalizeRotate(rotate),
	}, nil
}

func normalizeRotate(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	// PDF requires a multiple of 90; round towards zero for anything else
	// rather than reject the page outright.
	return (deg / 90) * 90
}

// FindPages returns the reference of every leaf /Page dictionary in r's
// document, in the order a depth-first walk of /Kids arrays visits
// them, starting from the /Catalog's /Pages entry. r must be a
// [*pdf.Collection] (or otherwise implement a FindCatalog method),
// since this engine has no cross-reference table to read /Root from
// (spec §6).
func FindPages(r pdf.Getter) ([]pdf.Reference, error) {
	cat, err := findCatalog(r)
	if err != nil {
		return nil, err
	}
	root, ok := cat["Pages"]
	if !ok {
		return nil, &pdf.MalformedFileError{Err: errors.New("pagetree: catalog has no /Pages entry")}
	}

	var refs []pdf.Reference
	var walk func(obj pdf.Object, depth int) error
	walk = func(obj pdf.Object, depth int) error {
		if depth > maxDepth {
			return &pdf.MalformedFileError{Err: errors.New("pagetree: page tree too deep (cycle?)")}
		}
		resolved, err := pdf.Resolve(r, obj)
		if err != nil {
			return err
		}
		dict, ok := resolved.(pdf.Dict)
		if !ok {
			return fmt.Errorf("pagetree: expected a dictionary, got %T", resolved)
		}
		switch tp, _ := dict["Type"].(pdf.Name); tp {
		case "Pages":
			kids, err := pdf.GetArray(r, dict["Kids"])
			if err != nil {
				return err
			}
			for _, kid := range kids {
				if err := walk(kid, depth+1); err != nil {
					return err
				}
			}
		default: // "Page", or no /Type: PDF readers must tolerate the latter
			ref, ok := obj.(pdf.Reference)
			if !ok {
				return fmt.Errorf("pagetree: page %v has no indirect reference", dict)
			}
			refs = append(refs, ref)
		}
		return nil
	}
	if err := walk(root, 0); err != nil {
		return nil, err
	}
	return refs, nil
}

type catalogFinder interface {
	FindCatalog() (pdf.Dict, error)
}

func findCatalog(r pdf.Getter) (pdf.Dict, error) {
	cf, ok := r.(catalogFinder)
	if !ok {
		return nil, fmt.Errorf("pagetree: %T cannot locate the document catalog", r)
	}
	return cf.FindCatalog()
}
