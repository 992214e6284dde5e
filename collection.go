// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>

package pdf

import (
	"bytes"
	"fmt"
)

// Getter gives read access to the indirect objects of a PDF document.
type Getter interface {
	// Get reads and returns the object with the given reference.
	Get(ref Reference) (Object, error)
}

// ReaderOptions configures [ParseDocument]. The zero value is the default:
// a reference-resolution depth of 16 and non-strict parsing (objects that
// fail to parse are skipped rather than aborting the whole document).
type ReaderOptions struct {
	// MaxRefDepth bounds how many times Resolve will follow a chain of
	// References before giving up. Zero means use the default (16).
	MaxRefDepth int

	// Strict, if set, makes Collection.Get return an error for an object
	// that fails to parse instead of recording it in SkipReport and
	// continuing.
	Strict bool
}

// SkipReport records an indirect object the collector found but could not
// parse, together with the reason, so that a caller can inspect the
// document's structural health without the library writing to stderr.
type SkipReport struct {
	Ref Reference
	Err error
}

// Collection is an in-memory index of the indirect objects of a PDF file,
// built by a single linear scan of the file's bytes (§4.3 / §6: this
// engine never reads a cross-reference table). Each object is registered
// as a byte span and parsed lazily on first Get.
type Collection struct {
	buf     []byte
	spans   map[Reference]int64 // object number/generation -> offset of "N G obj"
	cache   map[Reference]Object
	opts    ReaderOptions
	Skipped []SkipReport
}

// NewCollection scans buf for indirect objects and returns a Collection
// that can resolve references into it.
func NewCollection(buf []byte, opts ReaderOptions) *Collection {
	c := &Collection{
		buf:   buf,
		spans: map[Reference]int64{},
		cache: map[Reference]Object{},
		opts:  opts,
	}
	c.scan()
	return c
}

func (c *Collection) maxDepth() int {
	if c.opts.MaxRefDepth > 0 {
		return c.opts.MaxRefDepth
	}
	return 16
}

// scan performs the single linear pass that locates every "N G obj" span in
// the file. It does not validate or parse object bodies; a body is only
// parsed the first time it is requested through Get. Matching is done with
// the same lexer used for object parsing, so a digit sequence inside a
// stream's binary payload is never mistaken for an object header (the scan
// jumps straight from "stream" to the matching "endstream").
func (c *Collection) scan() {
	lex := newLexer(c.buf)
	for {
		tok1 := lex.next()
		if tok1.kind == tokEOF {
			return
		}
		if tok1.kind != tokNumber {
			continue
		}
		numObj, ok := parseNumberToken(tok1.raw)
		num, isInt := numObj.(Integer)
		if !ok || !isInt {
			continue
		}

		save := lex.pos
		tok2 := lex.next()
		if tok2.kind != tokNumber {
			lex.pos = save
			continue
		}
		genObj, ok := parseNumberToken(tok2.raw)
		gen, isInt := genObj.(Integer)
		if !ok || !isInt {
			lex.pos = save
			continue
		}

		save2 := lex.pos
		tok3 := lex.next()
		if !(tok3.kind == tokKeyword && string(tok3.raw) == "obj") {
			lex.pos = save2
			continue
		}

		if num < 0 || gen < 0 || num > 0xffffffff || gen > 0xffff {
			continue
		}
		ref := NewReference(uint32(num), uint16(gen))
		c.spans[ref] = tok1.start

		// skip to the matching "endobj", jumping over any stream body so
		// that binary payload bytes can never be misread as a nested
		// object header.
		c.skipToEndobj(lex)
	}
}

func (c *Collection) skipToEndobj(lex *lexer) {
	for {
		tok := lex.next()
		switch {
		case tok.kind == tokEOF:
			return
		case tok.kind == tokKeyword && string(tok.raw) == "endobj":
			return
		case tok.kind == tokKeyword && string(tok.raw) == "stream":
			idx := bytes.Index(c.buf[lex.pos:], []byte("endstream"))
			if idx < 0 {
				return
			}
			lex.pos += int64(idx) + int64(len("endstream"))
		}
	}
}

// Get implements [Getter]. The object is parsed on first access and cached.
func (c *Collection) Get(ref Reference) (Object, error) {
	if obj, ok := c.cache[ref]; ok {
		return obj, nil
	}

	offset, ok := c.spans[ref]
	if !ok {
		return nil, nil
	}

	p := newObjectParser(c.buf, c)
	p.lex.pos = offset
	obj, err := p.parseObject()
	if err != nil {
		if c.opts.Strict {
			return nil, Wrap(err, fmt.Sprintf("object %s", ref))
		}
		c.Skipped = append(c.Skipped, SkipReport{Ref: ref, Err: err})
		c.cache[ref] = nil
		return nil, nil
	}

	ind, isIndirect := obj.(IndirectObject)
	if !isIndirect {
		c.cache[ref] = obj
		return obj, nil
	}
	c.cache[ref] = ind.Object
	return ind.Object, nil
}

// FindCatalog scans the objects this Collection indexed during [NewCollection]
// for the document catalog (the one dictionary with /Type /Catalog), since
// this engine never reads a cross-reference table or trailer dictionary
// (spec §6: "linear scan not xref-based") and so has no other way to locate
// the root of the page tree. The first matching dictionary found wins; a
// well-formed PDF file has exactly one.
func (c *Collection) FindCatalog() (Dict, error) {
	for ref := range c.spans {
		obj, err := c.Get(ref)
		if err != nil {
			continue
		}
		dict, ok := obj.(Dict)
		if !ok {
			continue
		}
		if tp, _ := dict["Type"].(Name); tp == "Catalog" {
			return dict, nil
		}
	}
	return nil, &MalformedFileError{Err: fmt.Errorf("no /Catalog object found")}
}

// Resolve follows obj, if it is a Reference, to the non-Reference object it
// ultimately points to, reading from r as needed. A nil obj, or a Reference
// that does not resolve, returns nil, nil. A cycle or a chain longer than
// r's configured depth returns a *MalformedFileError.
func Resolve(r Getter, obj Object) (Object, error) {
	return resolve(r, obj, defaultMaxRefDepth(r))
}

func defaultMaxRefDepth(r Getter) int {
	if c, ok := r.(*Collection); ok {
		return c.maxDepth()
	}
	return 16
}

func resolve(r Getter, obj Object, maxDepth int) (Object, error) {
	ref, isReference := obj.(Reference)
	if !isReference {
		return obj, nil
	}
	if r == nil {
		return nil, &MalformedFileError{Err: fmt.Errorf("cannot resolve %s: no Getter", ref)}
	}

	origRef := ref
	for depth := 0; ; depth++ {
		if depth > maxDepth {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("too many levels of indirection resolving %s", origRef),
			}
		}
		next, err := r.Get(ref)
		if err != nil {
			return nil, err
		}
		nextRef, isReference := next.(Reference)
		if !isReference {
			return next, nil
		}
		ref = nextRef
	}
}
