// seehuhn.de/go/pdfrender - a library for reading and writing PDF files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>

package pdf

import (
	"bytes"
	"fmt"
	"strconv"
)

// objectParser turns a token stream into PDF objects (§4.2). get, when
// non-nil, is used to resolve a stream's /Length entry if it is an
// indirect reference to an object already registered by the collection
// that owns this parser.
type objectParser struct {
	lex *lexer
	get Getter
}

func newObjectParser(buf []byte, get Getter) *objectParser {
	return &objectParser{lex: newLexer(buf), get: get}
}

// parseObject parses a single object starting at the parser's current
// position. Numbers are parsed greedily: "12 0 R" becomes a Reference and
// "12 0 obj ... endobj" becomes an IndirectObject; a plain number with no
// such continuation is returned as Integer/Real.
func (p *objectParser) parseObject() (Object, error) {
	tok := p.lex.next()
	return p.parseFromToken(tok)
}

func (p *objectParser) parseFromToken(tok token) (Object, error) {
	switch tok.kind {
	case tokEOF:
		return nil, &MalformedFileError{Err: fmt.Errorf("unexpected end of file"), Pos: tok.start}
	case tokName:
		return decodeName(tok.raw), nil
	case tokLiteralString, tokHexString:
		return ParseString(tok.raw)
	case tokArrayStart:
		return p.parseArray()
	case tokDictStart:
		return p.parseDictOrStream()
	case tokArrayEnd, tokDictEnd:
		return nil, &MalformedFileError{Err: fmt.Errorf("unexpected %q", tok.raw), Pos: tok.start}
	case tokNumber:
		return p.parseNumberContinuation(tok)
	case tokKeyword:
		return p.parseKeyword(tok)
	default:
		return nil, &MalformedFileError{Err: fmt.Errorf("unrecognized token"), Pos: tok.start}
	}
}

func (p *objectParser) parseKeyword(tok token) (Object, error) {
	switch string(tok.raw) {
	case "true":
		return Boolean(true), nil
	case "false":
		return Boolean(false), nil
	case "null":
		return nil, nil
	default:
		return nil, &MalformedFileError{
			Err: fmt.Errorf("unexpected keyword %q", tok.raw), Pos: tok.start,
		}
	}
}

// parseNumberContinuation implements the three-way ambiguity between a bare
// number, a Reference ("N G R") and the start of an indirect object
// ("N G obj ... endobj"). Both require a second integer token to follow the
// first; if that lookahead fails to materialize, the original number is
// returned and the lexer position is rewound.
func (p *objectParser) parseNumberContinuation(first token) (Object, error) {
	num, isInt := parseNumberToken(first.raw)
	if !isInt {
		return num, nil
	}

	save := p.lex.pos
	second := p.lex.next()
	if second.kind != tokNumber {
		p.lex.pos = save
		return num, nil
	}
	genVal, genIsInt := parseNumberToken(second.raw)
	if !genIsInt {
		p.lex.pos = save
		return num, nil
	}

	save2 := p.lex.pos
	third := p.lex.next()
	switch {
	case third.kind == tokKeyword && string(third.raw) == "R":
		n := int64(num.(Integer))
		g := int64(genVal.(Integer))
		if n < 0 || g < 0 || n > 0xffffffff || g > 0xffff {
			return nil, &MalformedFileError{Err: fmt.Errorf("reference out of range"), Pos: first.start}
		}
		return NewReference(uint32(n), uint16(g)), nil
	case third.kind == tokKeyword && string(third.raw) == "obj":
		n := int64(num.(Integer))
		g := int64(genVal.(Integer))
		inner, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("endobj"); err != nil {
			return nil, err
		}
		return IndirectObject{Reference: NewReference(uint32(n), uint16(g)), Object: inner}, nil
	default:
		p.lex.pos = save2
		p.lex.pos = save
		return num, nil
	}
}

func (p *objectParser) expectKeyword(word string) error {
	tok := p.lex.next()
	if tok.kind != tokKeyword || string(tok.raw) != word {
		return &MalformedFileError{
			Err: fmt.Errorf("expected %q, got %q", word, tok.raw), Pos: tok.start,
		}
	}
	return nil
}

// parseNumberToken parses a numeric token as Integer (the bool result is
// true) when it has no decimal point and fits in an int64, or as Real
// (bool result false) otherwise. A Real result is still returned as an
// Object so the caller can use it directly when no "G R"/"G obj"
// continuation follows.
func parseNumberToken(raw []byte) (Object, bool) {
	if bytes.IndexByte(raw, '.') < 0 {
		if n, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			return Integer(n), true
		}
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return Real(0), false
	}
	return Real(f), false
}

func (p *objectParser) parseArray() (Object, error) {
	var arr Array
	for {
		save := p.lex.pos
		tok := p.lex.next()
		if tok.kind == tokArrayEnd {
			return arr, nil
		}
		if tok.kind == tokEOF {
			return nil, &MalformedFileError{Err: fmt.Errorf("unterminated array"), Pos: save}
		}
		obj, err := p.parseFromToken(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *objectParser) parseDictOrStream() (Object, error) {
	dict := Dict{}
	for {
		tok := p.lex.next()
		if tok.kind == tokDictEnd {
			break
		}
		if tok.kind != tokName {
			if tok.kind == tokEOF {
				return nil, &MalformedFileError{Err: fmt.Errorf("unterminated dictionary")}
			}
			return nil, &MalformedFileError{
				Err: fmt.Errorf("expected dictionary key, got %q", tok.raw), Pos: tok.start,
			}
		}
		key := decodeName(tok.raw)
		val, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		if val != nil {
			dict[key] = val
		}
	}

	save := p.lex.pos
	tok := p.lex.next()
	if !(tok.kind == tokKeyword && string(tok.raw) == "stream") {
		p.lex.pos = save
		return dict, nil
	}

	return p.parseStreamBody(dict)
}

func (p *objectParser) parseStreamBody(dict Dict) (Object, error) {
	// the stream keyword is followed by CRLF or LF (never a bare CR)
	if c, ok := p.lex.byteAt(p.lex.pos); ok && c == '\r' {
		p.lex.pos++
	}
	if c, ok := p.lex.byteAt(p.lex.pos); ok && c == '\n' {
		p.lex.pos++
	}
	dataStart := p.lex.pos

	length, lengthKnown := p.resolveStreamLength(dict)

	var dataEnd int64
	if lengthKnown && dataStart+length <= int64(len(p.lex.buf)) {
		dataEnd = dataStart + length
		// verify "endstream" follows (possibly after whitespace); if not,
		// the declared length is untrustworthy and we fall back to a
		// literal search, matching how real-world PDF files are read.
		rest := p.lex.buf[dataEnd:]
		trimmed := bytes.TrimLeft(rest, "\r\n\t\f ")
		if !bytes.HasPrefix(trimmed, []byte("endstream")) {
			lengthKnown = false
		}
	}
	if !lengthKnown {
		idx := bytes.Index(p.lex.buf[dataStart:], []byte("endstream"))
		if idx < 0 {
			return nil, &MalformedFileError{Err: fmt.Errorf("stream has no endstream"), Pos: dataStart}
		}
		dataEnd = dataStart + int64(idx)
		// trim the single EOL that precedes "endstream"
		for dataEnd > dataStart && (p.lex.buf[dataEnd-1] == '\n' || p.lex.buf[dataEnd-1] == '\r') {
			dataEnd--
		}
		dict["Length"] = Integer(dataEnd - dataStart)
	}

	data := p.lex.buf[dataStart:dataEnd]
	p.lex.pos = dataEnd
	if err := p.expectKeyword("endstream"); err != nil {
		return nil, err
	}

	return &Stream{Dict: dict, R: bytes.NewReader(data)}, nil
}

// resolveStreamLength resolves the dictionary's /Length entry. A direct
// Integer is used as-is. An indirect reference is resolved through get,
// which succeeds only if the referenced object has already been
// registered by the owning collection (§4.2's "must resolve before
// consuming stream bytes" requirement, bounded to objects seen so far).
func (p *objectParser) resolveStreamLength(dict Dict) (int64, bool) {
	switch l := dict["Length"].(type) {
	case Integer:
		if l >= 0 {
			return int64(l), true
		}
	case Reference:
		if p.get == nil {
			return 0, false
		}
		obj, err := p.get.Get(l)
		if err != nil {
			return 0, false
		}
		if n, ok := obj.(Integer); ok && n >= 0 {
			return int64(n), true
		}
	}
	return 0, false
}

// decodeName decodes the #HH escapes in a name token (the leading '/' is
// part of raw and is dropped). A trailing, unescaped '#' with no following
// hex digits is kept verbatim rather than rejected, matching common
// real-world PDF producers; a well-formed two-digit escape always wins
// when present.
func decodeName(raw []byte) Name {
	if len(raw) == 0 {
		return ""
	}
	body := raw[1:]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '#' && i+2 < len(body) && isHexDigit(body[i+1]) && isHexDigit(body[i+2]) {
			out = append(out, hexVal(body[i+1])<<4|hexVal(body[i+2]))
			i += 2
			continue
		}
		out = append(out, c)
	}
	return Name(out)
}
