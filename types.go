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
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
)

// Object is one of the basic PDF object types [Array], [Bool], [Dict],
// [Integer], [Name], [Real], [Reference], [*Stream] and [String].
// A nil Object stands for the PDF null object.
type Object interface {
	// PDF writes the object in PDF syntax to w.
	PDF(w io.Writer) error
}

// Bool is a PDF boolean.
type Bool bool

// PDF implements the [Object] interface.
func (x Bool) PDF(w io.Writer) error { return writeEncoded(w, x) }

// Integer is a PDF integer.
type Integer int64

// PDF implements the [Object] interface.
func (x Integer) PDF(w io.Writer) error { return writeEncoded(w, x) }

// Real is a PDF real number.  Reals are always written with a decimal
// point, so that they are read back as reals.
type Real float64

// PDF implements the [Object] interface.
func (x Real) PDF(w io.Writer) error { return writeEncoded(w, x) }

// String is a PDF string.  The bytes are stored as they appear in the
// file, without any character encoding applied.
type String []byte

// PDF implements the [Object] interface.
func (x String) PDF(w io.Writer) error { return writeEncoded(w, x) }

// Name is a PDF name, given without the leading slash.
type Name string

// PDF implements the [Object] interface.
func (x Name) PDF(w io.Writer) error { return writeEncoded(w, x) }

// Array is a PDF array.
type Array []Object

func (x Array) String() string {
	return fmt.Sprintf("Array(%d)", len(x))
}

// PDF implements the [Object] interface.
func (x Array) PDF(w io.Writer) error { return writeEncoded(w, x) }

// Dict is a PDF dictionary.  Entries with a nil value are omitted.
// Keys are written in sorted order, so that the encoded form of a
// dictionary only depends on its contents.
type Dict map[Name]Object

func (x Dict) String() string {
	if tp, ok := x["Type"].(Name); ok {
		return fmt.Sprintf("Dict(%s, %d keys)", tp, len(x))
	}
	return fmt.Sprintf("Dict(%d keys)", len(x))
}

// PDF implements the [Object] interface.
func (x Dict) PDF(w io.Writer) error { return writeEncoded(w, x) }

// Stream is a PDF stream.  R supplies the stream data, which must
// already be encoded with the filters named in the dictionary.
type Stream struct {
	Dict
	R io.Reader
}

func (x *Stream) String() string {
	if tp, ok := x.Dict["Type"].(Name); ok {
		return fmt.Sprintf("Stream(%s)", tp)
	}
	return "Stream"
}

// PDF implements the [Object] interface.
func (x *Stream) PDF(w io.Writer) error {
	head, err := appendObject(nil, x.Dict)
	if err != nil {
		return err
	}
	head = append(head, "\nstream\n"...)
	if _, err := w.Write(head); err != nil {
		return err
	}
	if x.R != nil {
		if _, err := io.Copy(w, x.R); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "\nendstream")
	return err
}

// Reference points to an indirect object.  Bits 0 to 31 hold the object
// number, bits 32 to 47 the generation number.
type Reference uint64

// NewReference returns the reference to the given object.
func NewReference(number uint32, generation uint16) Reference {
	return Reference(number) | Reference(generation)<<32
}

// Number returns the object number.
func (x Reference) Number() uint32 {
	return uint32(x & 0xFFFFFFFF)
}

// Generation returns the generation number.
func (x Reference) Generation() uint16 {
	return uint16(x >> 32 & 0xFFFF)
}

func (x Reference) String() string {
	return strconv.FormatUint(uint64(x.Number()), 10) + " " +
		strconv.FormatUint(uint64(x.Generation()), 10) + " R"
}

// PDF implements the [Object] interface.
func (x Reference) PDF(w io.Writer) error { return writeEncoded(w, x) }

// Format returns obj in PDF syntax.
func Format(obj Object) string {
	buf, err := appendObject(nil, obj)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return string(buf)
}

func writeObject(w io.Writer, obj Object) error {
	if s, isStream := obj.(*Stream); isStream {
		return s.PDF(w)
	}
	return writeEncoded(w, obj)
}

func writeEncoded(w io.Writer, obj Object) error {
	buf, err := appendObject(nil, obj)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// appendObject appends the encoded form of obj to dst.
func appendObject(dst []byte, obj Object) ([]byte, error) {
	var err error
	switch x := obj.(type) {
	case nil:
		dst = append(dst, "null"...)
	case Bool:
		dst = strconv.AppendBool(dst, bool(x))
	case Integer:
		dst = strconv.AppendInt(dst, int64(x), 10)
	case Real:
		start := len(dst)
		dst = strconv.AppendFloat(dst, float64(x), 'f', -1, 64)
		if bytes.IndexByte(dst[start:], '.') < 0 {
			dst = append(dst, '.')
		}
	case String:
		dst = appendString(dst, x)
	case Name:
		dst = appendName(dst, x)
	case Reference:
		if x>>48 != 0 {
			return dst, fmt.Errorf("malformed reference 0x%x", uint64(x))
		}
		dst = strconv.AppendUint(dst, uint64(x.Number()), 10)
		dst = append(dst, ' ')
		dst = strconv.AppendUint(dst, uint64(x.Generation()), 10)
		dst = append(dst, " R"...)
	case Array:
		dst = append(dst, '[')
		for i, elem := range x {
			if i > 0 {
				dst = append(dst, ' ')
			}
			dst, err = appendObject(dst, elem)
			if err != nil {
				return dst, err
			}
		}
		dst = append(dst, ']')
	case Dict:
		if x == nil {
			return append(dst, "null"...), nil
		}
		dst = append(dst, "<<"...)
		for _, key := range slices.Sorted(maps.Keys(x)) {
			val := x[key]
			if val == nil {
				continue
			}
			dst = append(dst, '\n')
			dst = appendName(dst, key)
			dst = append(dst, ' ')
			dst, err = appendObject(dst, val)
			if err != nil {
				return dst, err
			}
		}
		dst = append(dst, "\n>>"...)
	default:
		buf := &bytes.Buffer{}
		err = obj.PDF(buf)
		dst = append(dst, buf.Bytes()...)
	}
	return dst, err
}

var literalEscapes = map[byte]string{
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	'\b': `\b`,
	'\f': `\f`,
	'\\': `\\`,
	'(':  `\(`,
	')':  `\)`,
}

// appendString uses literal syntax, unless more than a third of the
// bytes would need escaping, in which case hex syntax is used.
// Parentheses are only escaped if they are unbalanced.
func appendString(dst []byte, s String) []byte {
	depth := 0
	balanced := true
	for _, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth < 0 {
			balanced = false
			break
		}
	}
	balanced = balanced && depth == 0

	needsEscape := func(c byte) bool {
		if c == '(' || c == ')' {
			return !balanced
		}
		return c < ' ' || c > '~' || c == '\\'
	}
	escaped := 0
	for _, c := range s {
		if needsEscape(c) {
			escaped++
		}
	}

	if 3*escaped > len(s) {
		dst = append(dst, '<')
		for _, c := range s {
			dst = append(dst, hexDigits[c>>4], hexDigits[c&15])
		}
		return append(dst, '>')
	}

	dst = append(dst, '(')
	for _, c := range s {
		switch {
		case !needsEscape(c):
			dst = append(dst, c)
		case literalEscapes[c] != "":
			dst = append(dst, literalEscapes[c]...)
		default:
			dst = append(dst, '\\', '0'+c>>6, '0'+c>>3&7, '0'+c&7)
		}
	}
	return append(dst, ')')
}

func appendName(dst []byte, n Name) []byte {
	dst = append(dst, '/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		if c < '!' || c > '~' || c == '#' || isDelimiter(c) {
			dst = append(dst, '#', hexDigits[c>>4], hexDigits[c&15])
		} else {
			dst = append(dst, c)
		}
	}
	return dst
}

const hexDigits = "0123456789abcdef"

// isSpace reports whether c is a PDF white-space character.
func isSpace(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
