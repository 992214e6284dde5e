// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>

package pdf

import (
	"fmt"
	"math"
)

func asName(obj Object) (Name, error) {
	name, ok := obj.(Name)
	if !ok {
		return "", fmt.Errorf("wrong type, expected Name but got %T", obj)
	}
	return name, nil
}

func asDict(obj Object) (Dict, error) {
	if obj == nil {
		return Dict{}, nil
	}
	dict, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("wrong type, expected Dict but got %T", obj)
	}
	return dict, nil
}

// resolveAndCast resolves obj and casts it to T. A `null` object (or a
// Reference resolving to nothing) returns the zero value of T without
// error. An object of the wrong type returns a *MalformedFileError.
func resolveAndCast[T Object](r Getter, obj Object) (x T, err error) {
	resolved, err := Resolve(r, obj)
	if err != nil {
		return x, err
	}
	if resolved == nil {
		return x, nil
	}

	x, isCorrectType := resolved.(T)
	if isCorrectType {
		return x, nil
	}
	return x, &MalformedFileError{
		Err: fmt.Errorf("expected %T but got %T", x, resolved),
	}
}

// Helper functions for getting objects of a specific type. Each of these
// functions calls Resolve on the object before attempting to convert it to
// the desired type. If the object is `null`, a zero object is returned
// without error. If the object is of the wrong type, an error is returned.
var (
	GetArray   = resolveAndCast[Array]
	GetBoolean = resolveAndCast[Boolean]
	GetDict    = resolveAndCast[Dict]
	GetName    = resolveAndCast[Name]
	GetReal    = resolveAndCast[Real]
	GetStream  = resolveAndCast[*Stream]
	GetString  = resolveAndCast[String]
)

// GetInteger resolves any indirect reference and returns the object as an
// Integer. If the object is `null`, the function returns 0, nil. Integers
// are returned as is. Floating point values are silently rounded to the
// nearest integer. All other object types result in an error.
func GetInteger(r Getter, obj Object) (Integer, error) {
	resolved, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	switch x := resolved.(type) {
	case Integer:
		return x, nil
	case Real:
		return Integer(math.Round(float64(x))), nil
	case nil:
		return 0, nil
	default:
		return 0, &MalformedFileError{
			Err: fmt.Errorf("expected Integer but got %T", resolved),
		}
	}
}

// GetFloatArray resolves any indirect reference and returns the object as a
// slice of float64 values. Each array element is converted to float64 using
// GetNumber.
//
// If the object is `null`, the function returns `nil, nil`.
func GetFloatArray(r Getter, obj Object) ([]float64, error) {
	array, err := GetArray(r, obj)
	if err != nil {
		return nil, err
	}
	if array == nil {
		return nil, nil
	}

	result := make([]float64, len(array))
	for i, item := range array {
		num, err := GetNumber(r, item)
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", i, err)
		}
		result[i] = float64(num)
	}
	return result, nil
}

// GetDictTyped resolves any indirect reference and checks that the
// resulting object is a dictionary. The function also checks that the
// "Type" entry of the dictionary, if set, is equal to the given type.
//
// If the object is `null`, the function returns `nil, nil`.
func GetDictTyped(r Getter, obj Object, tp Name) (Dict, error) {
	dict, err := GetDict(r, obj)
	if dict == nil || err != nil {
		return nil, err
	}
	if err := CheckDictType(r, dict, tp); err != nil {
		return nil, err
	}
	return dict, nil
}

// CheckDictType checks that the "Type" entry of the dictionary, if present,
// is equal to the given type.
func CheckDictType(r Getter, obj Dict, wantType Name) error {
	haveType, err := GetName(r, obj["Type"])
	if err != nil {
		return err
	}
	if haveType != wantType && haveType != "" {
		return &MalformedFileError{
			Err: fmt.Errorf("expected dict type %q, got %q", wantType, haveType),
		}
	}
	return nil
}

// Optional adapts a (value, error) pair returned by one of the Get*
// functions for use where a missing or malformed optional dictionary entry
// should be silently treated as absent rather than propagated as an error.
// Any error is discarded and the zero value of T is returned in its place.
func Optional[T any](val T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, nil
	}
	return val, nil
}
