// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package pdf

import (
	"bytes"
	"fmt"
)

// Version represents a PDF version as used in the file header ("%PDF-M.N")
// and in the document catalog's optional /Version override.
type Version int

const (
	V1_0 Version = iota
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	V2_0
)

var versionStrings = []string{
	"1.0", "1.1", "1.2", "1.3", "1.4", "1.5", "1.6", "1.7", "2.0",
}

// ParseVersion parses a version string of the form "M.N", as it appears
// after "%PDF-" in a file header. An unrecognized string returns errVersion.
func ParseVersion(s string) (Version, error) {
	for i, vs := range versionStrings {
		if vs == s {
			return Version(i), nil
		}
	}
	return 0, errVersion
}

// ToString returns the "M.N" form of v.
func (v Version) ToString() (string, error) {
	if int(v) < 0 || int(v) >= len(versionStrings) {
		return "", errVersion
	}
	return versionStrings[v], nil
}

func (v Version) String() string {
	s, err := v.ToString()
	if err != nil {
		return "invalid"
	}
	return s
}

const headerPrefix = "%PDF-"

// ParseHeaderVersion locates and parses the "%PDF-M.N" header comment that
// must appear within the first 1024 bytes of a PDF file (PDF 32000-1:2008
// §7.5.2), tolerating leading junk bytes some producers prepend.
func ParseHeaderVersion(buf []byte) (Version, error) {
	scanLen := len(buf)
	if scanLen > 1024 {
		scanLen = 1024
	}
	idx := bytes.Index(buf[:scanLen], []byte(headerPrefix))
	if idx < 0 {
		return 0, &MalformedFileError{Err: fmt.Errorf("no %q header found", headerPrefix)}
	}
	rest := buf[idx+len(headerPrefix):]
	end := 0
	for end < len(rest) && !isWhiteSpace(rest[end]) && rest[end] != '%' {
		end++
	}
	v, err := ParseVersion(string(rest[:end]))
	if err != nil {
		return 0, &MalformedFileError{Err: err, Pos: int64(idx)}
	}
	return v, nil
}
