// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package pdf

import (
	"testing"
	"time"
)

func TestGetTextString(t *testing.T) {
	tests := []struct {
		name    string
		input   Object
		want    TextString
		wantErr bool
	}{
		{name: "ASCII string", input: String("Hello, World!"), want: "Hello, World!"},
		{
			name:  "UTF-16BE string",
			input: String("\xFE\xFF\x00H\x00e\x00l\x00l\x00o"),
			want:  "Hello",
		},
		{name: "UTF-8 string", input: String("\xEF\xBB\xBFHello"), want: "Hello"},
		{name: "Empty string", input: String(""), want: ""},
		{name: "Invalid object type", input: Integer(42), wantErr: true},
		{name: "Nil object", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetTextString(nil, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetTextString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("GetTextString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateString(t *testing.T) {
	PST := time.FixedZone("PST", -8*60*60)
	cases := []time.Time{
		time.Date(1998, 12, 23, 19, 52, 0, 0, PST),
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 12, 24, 16, 30, 12, 0, time.FixedZone("", 90*60)),
	}
	for _, test := range cases {
		enc := Date(test)
		out, err := enc.AsDate()
		if err != nil {
			t.Error(err)
		} else if !test.Equal(time.Time(out)) {
			t.Errorf("wrong time: %s != %s", out, test)
		}
	}
}

func TestDecodeDate(t *testing.T) {
	cases := []string{
		"D:19981223195200-08'00'",
		"D:20000101000000Z",
		"D:20201224163012+01'30'",
		"D:20010809191510 ", // trailing space, seen in some PDF files
	}
	for i, test := range cases {
		in := String(test)
		if _, err := in.AsDate(); err != nil {
			t.Errorf("%d %q %s\n", i, test, err)
		}
	}
}

func TestGetRectangle(t *testing.T) {
	cases := []struct {
		in  Array
		out *Rectangle
	}{
		{Array{Integer(0), Integer(0), Integer(0), Integer(0)}, &Rectangle{0, 0, 0, 0}},
		{Array{Integer(1), Integer(2), Integer(3), Integer(4)}, &Rectangle{1, 2, 3, 4}},
		{Array{Real(1.1), Real(2.2), Real(3.3), Real(4.4)}, &Rectangle{1.1, 2.2, 3.3, 4.4}},
		// corners given in reverse order are normalized
		{Array{Integer(3), Integer(4), Integer(1), Integer(2)}, &Rectangle{1, 2, 3, 4}},
	}
	for _, test := range cases {
		rect, err := asRectangle(nil, test.in)
		if err != nil {
			t.Fatalf("asRectangle(%v) returned error %v", test.in, err)
		}
		if !rect.NearlyEqual(test.out, 1e-9) {
			t.Errorf("asRectangle(%v) = %v, want %v", test.in, rect, test.out)
		}
	}
}

func TestRectangleExtend(t *testing.T) {
	r := &Rectangle{}
	r.Extend(&Rectangle{LLx: 1, LLy: 2, URx: 3, URy: 4})
	r.Extend(&Rectangle{LLx: -1, LLy: 0, URx: 2, URy: 10})
	want := Rectangle{LLx: -1, LLy: 0, URx: 3, URy: 10}
	if *r != want {
		t.Errorf("wrong extended rectangle: %v, want %v", r, want)
	}
}

func TestGetMatrix(t *testing.T) {
	a := Array{Real(2), Real(0), Real(0), Real(2), Real(10), Real(20)}
	m, err := GetMatrix(nil, a)
	if err != nil {
		t.Fatal(err)
	}
	want := [6]float64{2, 0, 0, 2, 10, 20}
	if [6]float64(m) != want {
		t.Errorf("wrong matrix: %v, want %v", m, want)
	}

	if _, err := GetMatrix(nil, Array{Integer(1), Integer(2)}); err == nil {
		t.Error("expected error for wrong-length array")
	}
}

func TestGetNumber(t *testing.T) {
	n, err := GetNumber(nil, Integer(5))
	if err != nil || n != 5 {
		t.Errorf("GetNumber(Integer(5)) = %v, %v", n, err)
	}
	n, err = GetNumber(nil, Real(1.5))
	if err != nil || n != 1.5 {
		t.Errorf("GetNumber(Real(1.5)) = %v, %v", n, err)
	}
	n, err = GetNumber(nil, nil)
	if err != nil || n != 0 {
		t.Errorf("GetNumber(nil) = %v, %v", n, err)
	}
	if _, err := GetNumber(nil, Name("x")); err == nil {
		t.Error("expected error for non-numeric object")
	}
}
