// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package pdf

import (
	"fmt"
	"reflect"
	"strings"
)

// Resources represents a PDF resource dictionary (PDF 1.7, table 33). Each
// field holds the raw (possibly indirect) entries of the corresponding
// sub-dictionary; callers resolve individual entries with [Resolve] or the
// Get* helpers as they are consulted, rather than up front.
type Resources struct {
	ExtGState  Dict  `pdf:"optional"`
	ColorSpace Dict  `pdf:"optional"`
	Pattern    Dict  `pdf:"optional"`
	Shading    Dict  `pdf:"optional"`
	XObject    Dict  `pdf:"optional"`
	Font       Dict  `pdf:"optional"`
	ProcSet    Array `pdf:"optional"`
	Properties Dict  `pdf:"optional"`
}

// DecodeDict fills the fields of a struct pointed to by ptr from dict,
// matching PDF dictionary keys to exported Go field names (or the name
// given in a `pdf:"Name"` tag). A field tagged `pdf:"optional"` (or
// `pdf:"Name,optional"`) is left at its zero value when dict has no
// matching entry; any other missing field is an error.
//
// DecodeDict only handles the field kinds actually needed by this package's
// dictionaries: Dict, Array, Name, and the Object variants that already
// implement Object directly. Unsupported field kinds are a programming
// error and cause a panic, not a returned error.
func DecodeDict(r Getter, ptr any, dict Dict) error {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		panic("pdf.DecodeDict: ptr must point to a struct")
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" { // unexported
			continue
		}

		name, optional := parseStructTag(field)
		if name == "" {
			name = field.Name
		}

		raw, present := dict[Name(name)]
		if !present {
			if optional {
				continue
			}
			return fmt.Errorf("pdf: missing required key %q", name)
		}

		obj, err := Resolve(r, raw)
		if err != nil {
			return err
		}

		fv := v.Field(i)
		if err := assignField(fv, obj); err != nil {
			return fmt.Errorf("pdf: key %q: %w", name, err)
		}
	}
	return nil
}

func parseStructTag(field reflect.StructField) (name string, optional bool) {
	tag, ok := field.Tag.Lookup("pdf")
	if !ok {
		return "", false
	}
	parts := strings.Split(tag, ",")
	for _, p := range parts[1:] {
		if p == "optional" {
			optional = true
		}
	}
	if parts[0] != "" && parts[0] != "optional" {
		name = parts[0]
	} else if parts[0] == "optional" {
		optional = true
	}
	return name, optional
}

func assignField(fv reflect.Value, obj Object) error {
	if obj == nil {
		return nil
	}

	// direct assignment when the object's dynamic type already matches
	ov := reflect.ValueOf(obj)
	if ov.Type().AssignableTo(fv.Type()) {
		fv.Set(ov)
		return nil
	}

	switch fv.Interface().(type) {
	case Dict:
		d, ok := obj.(Dict)
		if !ok {
			return fmt.Errorf("expected dictionary, got %T", obj)
		}
		fv.Set(reflect.ValueOf(d))
	case Array:
		a, ok := obj.(Array)
		if !ok {
			return fmt.Errorf("expected array, got %T", obj)
		}
		fv.Set(reflect.ValueOf(a))
	case Name:
		n, ok := obj.(Name)
		if !ok {
			return fmt.Errorf("expected name, got %T", obj)
		}
		fv.Set(reflect.ValueOf(n))
	default:
		return fmt.Errorf("unsupported field type %s for value %T", fv.Type(), obj)
	}
	return nil
}
