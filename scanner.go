// OpenPDF-sub002 - a library for composing paginated PDF documents
// Copyright (C) 2025  The OpenPDF-sub002 Authors
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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInteger
	tokReal
	tokName
	tokString
	tokKeyword
	tokArrayStart
	tokArrayEnd
	tokDictStart
	tokDictEnd
)

type token struct {
	kind tokenKind
	pos  int64
	obj  Object // the value for numbers, names and strings
	word string // the keyword text
}

// scanner reads PDF objects from a byte stream.  The methods SkipWhiteSpace,
// SkipString, Peek and readN work on the raw bytes and must not be mixed
// with pending lookahead tokens.
type scanner struct {
	br  *bufio.Reader
	pos int64

	// ahead holds tokens which were read while looking for "n g R".
	ahead []token

	// getInt resolves stream lengths which are given as indirect objects.
	getInt func(Object) (Integer, error)
}

func newScanner(r io.Reader, base int64, getInt func(Object) (Integer, error)) *scanner {
	return &scanner{
		br:     bufio.NewReader(r),
		pos:    base,
		getInt: getInt,
	}
}

func (s *scanner) currentPos() int64 {
	return s.pos
}

func (s *scanner) errorf(pos int64, format string, args ...any) error {
	return &MalformedFileError{Pos: pos, Err: fmt.Errorf(format, args...)}
}

// ReadIndirectObject reads an object of the form "n g obj ... endobj".
func (s *scanner) ReadIndirectObject() (Reference, Object, error) {
	number, err := s.ReadInteger()
	if err != nil {
		return 0, nil, err
	}
	generation, err := s.ReadInteger()
	if err != nil {
		return 0, nil, err
	}
	if number < 0 || generation < 0 || generation > 0xFFFF {
		return 0, nil, s.errorf(s.pos, "invalid object id %d %d", number, generation)
	}
	if err := s.expectKeyword("obj"); err != nil {
		return 0, nil, err
	}
	obj, err := s.ReadObject()
	if err != nil {
		return 0, nil, err
	}
	if err := s.expectKeyword("endobj"); err != nil {
		return 0, nil, err
	}
	return NewReference(uint32(number), uint16(generation)), obj, nil
}

// ReadObject reads a direct object.  A dictionary which is followed by the
// keyword "stream" is read as a stream, together with its data.
func (s *scanner) ReadObject() (Object, error) {
	tok, err := s.nextToken()
	if err != nil {
		return nil, err
	}
	obj, err := s.value(tok)
	if err != nil {
		return nil, err
	}

	dict, isDict := obj.(Dict)
	if !isDict {
		return obj, nil
	}
	tok, err = s.nextToken()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokKeyword || tok.word != "stream" {
		s.unread(tok)
		return dict, nil
	}
	return s.ReadStreamData(dict)
}

// ReadInteger reads an integer.
func (s *scanner) ReadInteger() (Integer, error) {
	tok, err := s.nextToken()
	if err != nil {
		return 0, err
	}
	if tok.kind != tokInteger {
		return 0, s.errorf(tok.pos, "integer expected")
	}
	return tok.obj.(Integer), nil
}

// ReadDict reads a PDF dictionary.
func (s *scanner) ReadDict() (Dict, error) {
	tok, err := s.nextToken()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokDictStart {
		return nil, s.errorf(tok.pos, "dictionary expected")
	}
	return s.dict()
}

// value converts the token tok, together with the tokens following it,
// into an object.
func (s *scanner) value(tok token) (Object, error) {
	switch tok.kind {
	case tokInteger:
		return s.maybeReference(tok.obj.(Integer))
	case tokReal, tokName, tokString:
		return tok.obj, nil
	case tokArrayStart:
		return s.array()
	case tokDictStart:
		return s.dict()
	case tokKeyword:
		switch tok.word {
		case "null":
			return nil, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return nil, s.errorf(tok.pos, "unexpected keyword %q", tok.word)
	case tokEOF:
		return nil, &MalformedFileError{Pos: tok.pos, Err: io.ErrUnexpectedEOF}
	}
	return nil, s.errorf(tok.pos, "object expected")
}

// maybeReference checks whether the integer a starts a reference "a b R".
func (s *scanner) maybeReference(a Integer) (Object, error) {
	second, err := s.nextToken()
	if err != nil {
		return nil, err
	}
	if second.kind != tokInteger || a < 0 {
		s.unread(second)
		return a, nil
	}
	third, err := s.nextToken()
	if err != nil {
		return nil, err
	}
	b := second.obj.(Integer)
	if third.kind != tokKeyword || third.word != "R" || b < 0 || b > 0xFFFF {
		s.unread(second, third)
		return a, nil
	}
	return NewReference(uint32(a), uint16(b)), nil
}

// unread puts tokens back, to be returned before any pending ones.
func (s *scanner) unread(toks ...token) {
	s.ahead = append(toks, s.ahead...)
}

func (s *scanner) array() (Array, error) {
	res := Array{}
	for {
		tok, err := s.nextToken()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokArrayEnd {
			return res, nil
		}
		obj, err := s.value(tok)
		if err != nil {
			return nil, err
		}
		res = append(res, obj)
	}
}

func (s *scanner) dict() (Dict, error) {
	res := Dict{}
	for {
		tok, err := s.nextToken()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokDictEnd:
			return res, nil
		case tokName:
		default:
			return nil, s.errorf(tok.pos, "dictionary key expected")
		}

		valTok, err := s.nextToken()
		if err != nil {
			return nil, err
		}
		val, err := s.value(valTok)
		if err != nil {
			return nil, err
		}
		if val != nil {
			res[tok.obj.(Name)] = val
		}
	}
}

// ReadStreamData reads the data of a PDF stream, starting after the
// keyword "stream".  The data is read into memory.
func (s *scanner) ReadStreamData(dict Dict) (*Stream, error) {
	start := s.pos
	if s.getInt == nil {
		return nil, s.errorf(start, "unexpected stream")
	}
	length, err := s.getInt(dict["Length"])
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, s.errorf(start, "stream with negative length")
	}

	eol, _ := s.Peek(2)
	switch {
	case bytes.HasPrefix(eol, []byte("\r\n")):
		s.discard(2)
	case bytes.HasPrefix(eol, []byte("\n")):
		s.discard(1)
	default:
		return nil, s.errorf(s.pos, "missing end of line after \"stream\"")
	}

	data, err := s.readN(int(length))
	if err != nil {
		return nil, err
	}
	if err := s.expectKeyword("endstream"); err != nil {
		return nil, err
	}
	return &Stream{Dict: dict, R: bytes.NewReader(data)}, nil
}

func (s *scanner) expectKeyword(word string) error {
	tok, err := s.nextToken()
	if err != nil {
		return err
	}
	if tok.kind != tokKeyword || tok.word != word {
		return s.errorf(tok.pos, "expected %q", word)
	}
	return nil
}

// nextToken returns the next token, skipping white space and comments.
func (s *scanner) nextToken() (token, error) {
	if n := len(s.ahead); n > 0 {
		tok := s.ahead[0]
		s.ahead = s.ahead[1:]
		return tok, nil
	}

	err := s.SkipWhiteSpace()
	if err != nil {
		return token{}, err
	}
	tok := token{pos: s.pos}
	c, err := s.br.ReadByte()
	if err == io.EOF {
		return tok, nil
	} else if err != nil {
		return tok, err
	}
	s.pos++

	switch c {
	case '/':
		tok.kind = tokName
		tok.obj, err = s.name()
	case '(':
		tok.kind = tokString
		tok.obj, err = s.literalString()
	case '<':
		if next, _ := s.Peek(1); len(next) == 1 && next[0] == '<' {
			s.discard(1)
			tok.kind = tokDictStart
		} else {
			tok.kind = tokString
			tok.obj, err = s.hexString()
		}
	case '>':
		if next, _ := s.Peek(1); len(next) == 1 && next[0] == '>' {
			s.discard(1)
			tok.kind = tokDictEnd
		} else {
			err = s.errorf(tok.pos, "unexpected '>'")
		}
	case '[':
		tok.kind = tokArrayStart
	case ']':
		tok.kind = tokArrayEnd
	case ')', '{', '}':
		err = s.errorf(tok.pos, "unexpected %q", c)
	default:
		word := append([]byte{c}, s.regular()...)
		tok.kind, tok.obj, tok.word, err = classifyWord(word)
		if err != nil {
			err = &MalformedFileError{Pos: tok.pos, Err: err}
		}
	}
	return tok, err
}

// classifyWord distinguishes numbers from keywords.
func classifyWord(word []byte) (tokenKind, Object, string, error) {
	c := word[0]
	if !(c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
		return tokKeyword, nil, string(word), nil
	}
	if bytes.IndexByte(word, '.') >= 0 {
		x, err := strconv.ParseFloat(string(word), 64)
		if err != nil {
			return 0, nil, "", err
		}
		return tokReal, Real(x), "", nil
	}
	x, err := strconv.ParseInt(string(word), 10, 64)
	if err != nil {
		return 0, nil, "", err
	}
	return tokInteger, Integer(x), "", nil
}

// regular consumes a run of regular characters.
func (s *scanner) regular() []byte {
	var res []byte
	for {
		c, err := s.br.ReadByte()
		if err != nil {
			return res
		}
		if isSpace(c) || isDelimiter(c) {
			s.br.UnreadByte()
			return res
		}
		s.pos++
		res = append(res, c)
	}
}

func (s *scanner) name() (Name, error) {
	start := s.pos
	raw := s.regular()
	res := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '#' {
			res = append(res, raw[i])
			continue
		}
		if i+2 >= len(raw) {
			return "", s.errorf(start, "incomplete escape in name")
		}
		v, err := strconv.ParseUint(string(raw[i+1:i+3]), 16, 8)
		if err != nil {
			return "", s.errorf(start, "invalid escape in name")
		}
		res = append(res, byte(v))
		i += 2
	}
	return Name(res), nil
}

func (s *scanner) literalString() (String, error) {
	start := s.pos
	var res []byte
	depth := 1
	for {
		c, err := s.readByte()
		if err != nil {
			return nil, s.errorf(start, "unterminated string")
		}
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return String(res), nil
			}
		case '\r':
			// end-of-line markers are read as a single newline
			if next, _ := s.Peek(1); len(next) == 1 && next[0] == '\n' {
				s.discard(1)
			}
			c = '\n'
		case '\\':
			c, err = s.readByte()
			if err != nil {
				return nil, s.errorf(start, "unterminated string")
			}
			switch c {
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			case 'b':
				c = '\b'
			case 'f':
				c = '\f'
			case '\r':
				if next, _ := s.Peek(1); len(next) == 1 && next[0] == '\n' {
					s.discard(1)
				}
				continue
			case '\n':
				continue
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := c - '0'
				for k := 0; k < 2; k++ {
					next, _ := s.Peek(1)
					if len(next) == 0 || next[0] < '0' || next[0] > '7' {
						break
					}
					v = v<<3 | (next[0] - '0')
					s.discard(1)
				}
				c = v
			}
		}
		res = append(res, c)
	}
}

func (s *scanner) hexString() (String, error) {
	start := s.pos
	var res []byte
	var digits []byte
	for {
		c, err := s.readByte()
		if err != nil {
			return nil, s.errorf(start, "unterminated hex string")
		}
		if c == '>' {
			break
		}
		if isSpace(c) {
			continue
		}
		var v byte
		switch {
		case c >= '0' && c <= '9':
			v = c - '0'
		case c >= 'a' && c <= 'f':
			v = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			v = c - 'A' + 10
		default:
			return nil, s.errorf(s.pos-1, "invalid character %q in hex string", c)
		}
		digits = append(digits, v)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, 0)
	}
	for i := 0; i < len(digits); i += 2 {
		res = append(res, digits[i]<<4|digits[i+1])
	}
	return String(res), nil
}

func (s *scanner) readHeaderVersion() (Version, error) {
	buf, _ := s.Peek(16)
	if !bytes.HasPrefix(buf, []byte("%PDF-")) || len(buf) < 8 {
		return 0, &MalformedFileError{Err: errors.New("PDF header not found")}
	}
	ver, err := ParseVersion(string(buf[5:8]))
	if err != nil {
		return 0, &MalformedFileError{Pos: 5, Err: err}
	}
	return ver, nil
}

func (s *scanner) readByte() (byte, error) {
	c, err := s.br.ReadByte()
	if err == nil {
		s.pos++
	}
	return c, err
}

func (s *scanner) discard(n int) {
	k, _ := s.br.Discard(n)
	s.pos += int64(k)
}

// readN reads exactly n bytes.
func (s *scanner) readN(n int) ([]byte, error) {
	res := make([]byte, n)
	k, err := io.ReadFull(s.br, res)
	s.pos += int64(k)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, &MalformedFileError{Pos: s.pos, Err: io.ErrUnexpectedEOF}
	}
	return res, err
}

// Peek returns the next n bytes of input without consuming them.  Near the
// end of input, fewer bytes are returned without an error.
func (s *scanner) Peek(n int) ([]byte, error) {
	buf, err := s.br.Peek(n)
	if err == io.EOF || err == bufio.ErrBufferFull {
		err = nil
	}
	return buf, err
}

// SkipWhiteSpace skips white space and comments.
func (s *scanner) SkipWhiteSpace() error {
	inComment := false
	for {
		c, err := s.br.ReadByte()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		switch {
		case inComment:
			inComment = c != '\r' && c != '\n'
		case c == '%':
			inComment = true
		case !isSpace(c):
			return s.br.UnreadByte()
		}
		s.pos++
	}
}

// SkipString consumes pat, which must be the next input.
func (s *scanner) SkipString(pat string) error {
	buf, err := s.Peek(len(pat))
	if err != nil {
		return err
	}
	if string(buf) != pat {
		return s.errorf(s.pos, "expected %q but found %q", pat, buf)
	}
	s.discard(len(pat))
	return nil
}
