// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdf

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	errVersion     = errors.New("unsupported PDF version")
	errNoDate      = errors.New("not a valid date string")
	errNoRectangle = errors.New("not a valid PDF rectangle")
)

// ErrorKind tags an *Error with the §7 error taxonomy. Every package in
// this module returns an *Error (or a MalformedFileError, which Wrap
// classifies as ErrSyntax) instead of an ad hoc error string.
type ErrorKind int

const (
	_ ErrorKind = iota
	ErrSyntax
	ErrStructural
	ErrResolution
	ErrOperator
	ErrState
	ErrFont
	ErrResource
	ErrNotImplemented
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSyntax:
		return "syntax"
	case ErrStructural:
		return "structural"
	case ErrResolution:
		return "resolution"
	case ErrOperator:
		return "operator"
	case ErrState:
		return "state"
	case ErrFont:
		return "font"
	case ErrResource:
		return "resource"
	case ErrNotImplemented:
		return "not implemented"
	default:
		return "unknown"
	}
}

// Error is the engine-level error type. Op names the operation that
// failed (e.g. "parse object", "resolve reference", "Tj"); Pos is a
// byte offset into the input when known, or zero.
type Error struct {
	Kind ErrorKind
	Op   string
	Pos  int64
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg += " error in " + e.Op
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Pos > 0 {
		msg += fmt.Sprintf(" (at byte %d)", e.Pos)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds an *Error of the given kind for the named operation.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Wrap attaches context to err, preserving its ErrorKind if it already
// carries one (an *Error or *MalformedFileError); otherwise it is
// classified as ErrStructural. A nil err returns nil.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return &Error{Kind: e.Kind, Op: context, Err: e}
	}
	var mf *MalformedFileError
	if errors.As(err, &mf) {
		return &Error{Kind: ErrSyntax, Op: context, Err: mf}
	}
	return &Error{Kind: ErrStructural, Op: context, Err: err}
}

// IsMalformed reports whether err (or anything it wraps) indicates a
// malformed or syntactically invalid PDF file.
func IsMalformed(err error) bool {
	var mf *MalformedFileError
	if errors.As(err, &mf) {
		return true
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == ErrSyntax || e.Kind == ErrStructural
	}
	return false
}

// MalformedFileError indicates that the PDF file could not be parsed.
type MalformedFileError struct {
	Err error
	Pos int64
}

func (err *MalformedFileError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Pos > 0 {
		tail = " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return "not a valid PDF file" + middle + tail
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

// VersionError is returned when trying to use a feature in a PDF file which is
// not supported by the PDF version used.  Use [Writer.CheckVersion] to create
// VersionError objects.
type VersionError struct {
	Operation string
	Earliest  Version
}

func (err *VersionError) Error() string {
	return (err.Operation + " requires PDF version " +
		err.Earliest.String() + " or later")
}
