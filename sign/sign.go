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

// Package sign prepares PDF files for digital signatures.
//
// [Reserve] appends an incremental update to an existing file.  The update
// contains a signature dictionary with room for the signature value, an
// invisible signature field on the first page and the updated document
// catalog.  The caller computes the signature over the bytes returned by
// [Session.Reader] and stores it using [Session.Finalize].
package sign

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"
	"time"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/pagetree"
)

var (
	// ErrSignatureOverflow is returned when a signature does not fit
	// into the space reserved for it.
	ErrSignatureOverflow = errors.New("signature exceeds reserved space")

	// ErrFinalized is returned when a signature is stored a second time.
	ErrFinalized = errors.New("signature already stored")
)

// DefaultSize is the number of bytes reserved for the signature value,
// if no other size is given.
const DefaultSize = 8192

// Options control the signature reservation.
type Options struct {
	// Writer is passed to [pdf.Append].
	Writer *pdf.WriterOptions

	// Size is the number of bytes reserved for the signature.
	// If zero, DefaultSize is used.
	Size int

	// Time is the signing time.  If zero, the current time is used.
	Time time.Time

	// FieldName is the name of the signature field.
	// If empty, "Signature1" is used.
	FieldName string

	Name, Reason, Location, ContactInfo string

	// Filter and SubFilter identify the signature handler and the
	// signature encoding.  The defaults are Adobe.PPKLite and
	// adbe.pkcs7.detached.
	Filter, SubFilter pdf.Name
}

// Range is a half-open range of byte offsets.
type Range struct {
	Start, End int64
}

// Session is a file with a reserved signature.
type Session struct {
	r    io.ReaderAt
	size int64

	// contents is the range of the hex digits of the signature value,
	// excluding the angle brackets.
	contents Range

	finalized bool
}

// hexPlaceholder is written as a hex string of n zero bytes.
type hexPlaceholder int

func (n hexPlaceholder) PDF(w io.Writer) error {
	_, err := io.WriteString(w, "<"+strings.Repeat("0", 2*int(n))+">")
	return err
}

// byteRangeWidth is the width of a number in the ByteRange array.
const byteRangeWidth = 10

// rangePlaceholder reserves room for a ByteRange array of fixed width.
type rangePlaceholder struct{}

var rangeMarker = "[" + strings.TrimSpace(strings.Repeat(strings.Repeat("0", byteRangeWidth)+" ", 4)) + "]"

func (rangePlaceholder) PDF(w io.Writer) error {
	_, err := io.WriteString(w, rangeMarker)
	return err
}

// Reserve reads the PDF file from r, which has the given size, and writes
// the file together with an incremental update holding an empty
// signature to out.
func Reserve(r io.ReaderAt, size int64, out io.Writer, opt *Options) (*Session, error) {
	if opt == nil {
		opt = &Options{}
	}
	sigSize := opt.Size
	if sigSize == 0 {
		sigSize = DefaultSize
	}
	if sigSize < 0 {
		return nil, fmt.Errorf("invalid signature size %d", sigSize)
	}

	in, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	rootRef, ok := in.Trailer["Root"].(pdf.Reference)
	if !ok {
		return nil, &pdf.MalformedFileError{Err: errors.New("missing document catalog")}
	}
	catalog, err := in.GetDict(rootRef)
	if err != nil {
		return nil, err
	}
	pageRef, _, err := pagetree.GetPage(in, 0)
	if err != nil {
		return nil, fmt.Errorf("first page: %w", err)
	}
	page, err := in.GetDict(pageRef)
	if err != nil {
		return nil, err
	}

	tail := &bytes.Buffer{}
	w, err := pdf.Append(tail, in, opt.Writer)
	if err != nil {
		return nil, err
	}

	sigRef := w.Alloc()
	fieldRef := w.Alloc()

	signingTime := opt.Time
	if signingTime.IsZero() {
		signingTime = time.Now()
	}
	sigDict := pdf.Dict{
		"Type":      pdf.Name("Sig"),
		"Filter":    nameOr(opt.Filter, "Adobe.PPKLite"),
		"SubFilter": nameOr(opt.SubFilter, "adbe.pkcs7.detached"),
		"M":         pdf.Date(signingTime),
		"ByteRange": rangePlaceholder{},
		"Contents":  hexPlaceholder(sigSize),
	}
	for key, val := range map[pdf.Name]string{
		"Name":        opt.Name,
		"Reason":      opt.Reason,
		"Location":    opt.Location,
		"ContactInfo": opt.ContactInfo,
	} {
		if val != "" {
			sigDict[key] = pdf.TextString(val)
		}
	}
	sigStart := w.Pos()
	err = w.Put(sigRef, sigDict)
	if err != nil {
		return nil, err
	}
	sigEnd := w.Pos()

	fieldName := opt.FieldName
	if fieldName == "" {
		fieldName = "Signature1"
	}
	err = w.Put(fieldRef, pdf.Dict{
		"Type":    pdf.Name("Annot"),
		"Subtype": pdf.Name("Widget"),
		"FT":      pdf.Name("Sig"),
		"T":       pdf.TextString(fieldName),
		"V":       sigRef,
		"Rect":    pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(0), pdf.Integer(0)},
		"F":       pdf.Integer(132), // Print, Locked
		"P":       pageRef,
	})
	if err != nil {
		return nil, err
	}

	acroForm, err := updatedAcroForm(in, catalog["AcroForm"], fieldRef)
	if err != nil {
		return nil, err
	}
	acroFormRef := w.Alloc()
	err = w.Put(acroFormRef, acroForm)
	if err != nil {
		return nil, err
	}

	newCatalog := clone(catalog)
	newCatalog["AcroForm"] = acroFormRef
	err = w.Put(rootRef, newCatalog)
	if err != nil {
		return nil, err
	}

	annots, err := in.GetArray(page["Annots"])
	if err != nil {
		return nil, err
	}
	newPage := clone(page)
	newPage["Annots"] = append(append(pdf.Array{}, annots...), fieldRef)
	err = w.Put(pageRef, newPage)
	if err != nil {
		return nil, err
	}

	err = w.Close()
	if err != nil {
		return nil, err
	}

	update := tail.Bytes()
	contents, err := locate(update, size, sigStart-size, sigEnd-size, sigSize)
	if err != nil {
		return nil, err
	}

	_, err = io.Copy(out, io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, err
	}
	_, err = out.Write(update)
	if err != nil {
		return nil, err
	}

	s := &Session{
		r:        &joined{head: r, n: size, tail: update},
		size:     size + int64(len(update)),
		contents: contents,
	}
	return s, nil
}

// locate finds the placeholders within the signature dictionary, which
// occupies update[start:end], and fills in the byte range.  The update
// is appended to a file of length base.
func locate(update []byte, base, start, end int64, sigSize int) (Range, error) {
	obj := update[start:end]

	hexStart := bytes.Index(obj, []byte(hexPlaceholder(sigSize).String()))
	rangeStart := bytes.Index(obj, []byte(rangeMarker))
	if hexStart < 0 || rangeStart < 0 {
		return Range{}, errors.New("signature placeholders not found")
	}

	first := base + start + int64(hexStart) + 1
	contents := Range{Start: first, End: first + 2*int64(sigSize)}

	total := base + int64(len(update))
	values := []int64{
		0, contents.Start - 1,
		contents.End + 1, total - contents.End - 1,
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%0*d", byteRangeWidth, v)
	}
	byteRange := "[" + strings.Join(parts, " ") + "]"
	if len(byteRange) != len(rangeMarker) {
		return Range{}, fmt.Errorf("file too large for byte range %s", byteRange)
	}
	copy(obj[rangeStart:], byteRange)
	return contents, nil
}

// Open returns the session for a file written by [Reserve], so that the
// signature can be stored by a different process.  The last signature
// field of the file is used.
func Open(r io.ReaderAt, size int64) (*Session, error) {
	in, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	catalog, err := in.GetDict(in.Trailer["Root"])
	if err != nil {
		return nil, err
	}
	form, err := in.GetDict(catalog["AcroForm"])
	if err != nil {
		return nil, err
	}
	fields, err := in.GetArray(form["Fields"])
	if err != nil {
		return nil, err
	}

	var sig pdf.Dict
	for i := len(fields) - 1; i >= 0 && sig == nil; i-- {
		field, err := in.GetDict(fields[i])
		if err != nil {
			return nil, err
		}
		if ft, _ := field["FT"].(pdf.Name); ft != "Sig" {
			continue
		}
		sig, err = in.GetDict(field["V"])
		if err != nil {
			return nil, err
		}
	}
	if sig == nil {
		return nil, errors.New("no signature field found")
	}

	byteRange, err := in.GetArray(sig["ByteRange"])
	if err != nil {
		return nil, err
	}
	var br [4]int64
	if len(byteRange) == len(br) {
		for i := range br {
			x, _ := byteRange[i].(pdf.Integer)
			br[i] = int64(x)
		}
	}
	if br[0] != 0 || br[1] <= 0 || br[2] <= br[1]+2 || br[2]+br[3] != size {
		return nil, &pdf.MalformedFileError{
			Err: fmt.Errorf("invalid signature byte range %s", pdf.Format(byteRange)),
		}
	}

	s := &Session{
		r:        r,
		size:     size,
		contents: Range{Start: br[1] + 1, End: br[2] - 1},
	}

	value := make([]byte, s.contents.End-s.contents.Start+2)
	_, err = r.ReadAt(value, br[1])
	if err != nil {
		return nil, err
	}
	if value[0] != '<' || value[len(value)-1] != '>' {
		return nil, &pdf.MalformedFileError{Pos: br[1], Err: errors.New("signature value not found")}
	}
	if len(bytes.Trim(value[1:len(value)-1], "0")) > 0 {
		s.finalized = true
	}
	return s, nil
}

// joined is the concatenation of a file and the bytes appended to it.
type joined struct {
	head io.ReaderAt
	n    int64
	tail []byte
}

func (j *joined) ReadAt(p []byte, off int64) (int, error) {
	total := 0
	for len(p) > 0 {
		if off < j.n {
			k := min(int64(len(p)), j.n-off)
			m, err := j.head.ReadAt(p[:k], off)
			total += m
			if int64(m) < k {
				if err == nil {
					err = io.ErrUnexpectedEOF
				}
				return total, err
			}
			p = p[k:]
			off += k
			continue
		}
		i := off - j.n
		if i >= int64(len(j.tail)) {
			return total, io.EOF
		}
		m := copy(p, j.tail[i:])
		total += m
		p = p[m:]
		off += int64(m)
	}
	return total, nil
}

func (n hexPlaceholder) String() string {
	buf := &strings.Builder{}
	_ = n.PDF(buf)
	return buf.String()
}

// ByteRanges returns the two byte ranges covered by the signature.  These
// are all bytes of the file, except for the signature value and the
// enclosing angle brackets.
func (s *Session) ByteRanges() []Range {
	return []Range{
		{Start: 0, End: s.contents.Start - 1},
		{Start: s.contents.End + 1, End: s.size},
	}
}

// Size returns the total length of the file in bytes.
func (s *Session) Size() int64 {
	return s.size
}

// Reader returns a reader for the bytes covered by the signature.
func (s *Session) Reader() io.Reader {
	rr := s.ByteRanges()
	return io.MultiReader(
		io.NewSectionReader(s.r, rr[0].Start, rr[0].End-rr[0].Start),
		io.NewSectionReader(s.r, rr[1].Start, rr[1].End-rr[1].Start),
	)
}

// Digest hashes the bytes covered by the signature and returns the
// resulting hash value.
func (s *Session) Digest(h hash.Hash) ([]byte, error) {
	_, err := io.Copy(h, s.Reader())
	if err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// encode returns the hex digits for sig, padded with zeros to the
// reserved length.
func (s *Session) encode(sig []byte) ([]byte, error) {
	if s.finalized {
		return nil, ErrFinalized
	}
	n := s.contents.End - s.contents.Start
	if 2*int64(len(sig)) > n {
		return nil, fmt.Errorf("%w: %d bytes, %d reserved", ErrSignatureOverflow, len(sig), n/2)
	}
	digits := bytes.Repeat([]byte{'0'}, int(n))
	hex.Encode(digits, sig)
	return digits, nil
}

// Finalize writes the signature value into the file w, which holds the
// data written by [Reserve].  Only the hex digits of the signature value
// are overwritten.  A signature can be stored once.
func (s *Session) Finalize(w io.WriterAt, sig []byte) error {
	digits, err := s.encode(sig)
	if err != nil {
		return err
	}
	_, err = w.WriteAt(digits, s.contents.Start)
	if err != nil {
		return err
	}
	s.finalized = true
	return nil
}

// FinalizeBytes stores the signature value in buf, which holds the data
// written by [Reserve].
func (s *Session) FinalizeBytes(buf []byte, sig []byte) error {
	if int64(len(buf)) != s.Size() {
		return fmt.Errorf("buffer has %d bytes, file has %d", len(buf), s.Size())
	}
	digits, err := s.encode(sig)
	if err != nil {
		return err
	}
	copy(buf[s.contents.Start:], digits)
	s.finalized = true
	return nil
}

// updatedAcroForm returns a copy of the interactive form dictionary, with
// the signature field added.
func updatedAcroForm(r *pdf.Reader, obj pdf.Object, field pdf.Reference) (pdf.Dict, error) {
	orig, err := r.GetDict(obj)
	if err != nil {
		return nil, err
	}
	form := clone(orig)
	fields, err := r.GetArray(form["Fields"])
	if err != nil {
		return nil, err
	}
	form["Fields"] = append(append(pdf.Array{}, fields...), field)

	flags, _ := r.GetInt(form["SigFlags"])
	form["SigFlags"] = flags | 3 // SignaturesExist, AppendOnly
	return form, nil
}

func clone(dict pdf.Dict) pdf.Dict {
	res := make(pdf.Dict, len(dict)+1)
	for key, val := range dict {
		res[key] = val
	}
	return res
}

func nameOr(name, def pdf.Name) pdf.Name {
	if name == "" {
		return def
	}
	return name
}
