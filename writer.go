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
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
)

// WriterOptions allows to influence the way a PDF file is generated.
type WriterOptions struct {
	// Version is the PDF version written to the file header.
	// The zero value selects PDF 1.7.
	Version Version

	// ID, if set, overrides the file identifier.  It must consist of two
	// byte strings.  If ID is nil, random identifiers are generated.
	ID [][]byte

	// HumanReadable disables compression of content streams.
	HumanReadable bool
}

// Writer represents a PDF file open for writing.
// A Writer is not safe for concurrent use.
type Writer struct {
	// Version is the PDF version used for this file.
	Version Version

	// Root is the reference of the document catalog.  It must be set
	// before Close is called.
	Root Reference

	// Info, if non-zero, is the reference of the document information
	// dictionary.
	Info Reference

	w       *posWriter
	closer  io.Closer
	xref    map[uint32]*xRefEntry
	nextRef uint32
	id      [][]byte
	prev    int64

	humanReadable bool
	inStream      bool
}

// NewWriter prepares a PDF file for writing.
// The header is written to w immediately.
func NewWriter(w io.Writer, opt *WriterOptions) (*Writer, error) {
	if opt == nil {
		opt = &WriterOptions{}
	}
	ver := opt.Version
	if ver == V1_0 {
		ver = V1_7
	}
	versionString, err := ver.ToString()
	if err != nil {
		return nil, err
	}

	id, err := fileID(opt.ID, nil)
	if err != nil {
		return nil, err
	}

	pdf := &Writer{
		Version:       ver,
		w:             &posWriter{w: bufio.NewWriter(w)},
		xref:          make(map[uint32]*xRefEntry),
		nextRef:       1,
		id:            id,
		prev:          -1,
		humanReadable: opt.HumanReadable,
	}
	pdf.xref[0] = &xRefEntry{Pos: -1, Generation: 65535}

	_, err = fmt.Fprintf(pdf.w, "%%PDF-%s\n%%\x80\x80\x80\x80\n", versionString)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// Create creates the named PDF file and opens it for output.  If a previous
// file with the same name exists, it is overwritten.  After writing is
// complete, Close() must be called to write the trailer and to close the
// underlying file.
func Create(name string, opt *WriterOptions) (*Writer, error) {
	fd, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	pdf, err := NewWriter(fd, opt)
	if err != nil {
		fd.Close()
		return nil, err
	}
	pdf.closer = fd
	return pdf, nil
}

// Append prepares an incremental update of the file read by r.  The caller
// must already have copied the complete original file to w; Append does not
// write any of the original bytes.  Objects written via the returned Writer
// may reuse object numbers of the original file, in order to replace these
// objects.  On Close, a new cross-reference section is written which
// refers to the previous one.
func Append(w io.Writer, r *Reader, opt *WriterOptions) (*Writer, error) {
	if opt == nil {
		opt = &WriterOptions{}
	}
	size, ok := r.Trailer["Size"].(Integer)
	if !ok || size < 1 {
		return nil, &MalformedFileError{Err: errors.New("missing /Size in trailer")}
	}

	var orig []byte
	if ids, ok := r.Trailer["ID"].(Array); ok && len(ids) == 2 {
		if s, ok := ids[0].(String); ok {
			orig = s
		}
	}
	id, err := fileID(opt.ID, orig)
	if err != nil {
		return nil, err
	}

	root, _ := r.Trailer["Root"].(Reference)
	info, _ := r.Trailer["Info"].(Reference)

	pdf := &Writer{
		Version:       r.Version,
		Root:          root,
		Info:          info,
		w:             &posWriter{w: bufio.NewWriter(w), pos: r.size},
		xref:          make(map[uint32]*xRefEntry),
		nextRef:       uint32(size),
		id:            id,
		prev:          r.xrefPos,
		humanReadable: opt.HumanReadable,
	}

	// Separate the update from the original data, in case the file does
	// not end with an end-of-line marker.
	_, err = pdf.w.Write([]byte("\n"))
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// fileID returns the two-part file identifier for a new file or an
// update.  If orig is not nil, it is kept as the permanent identifier.
func fileID(override [][]byte, orig []byte) ([][]byte, error) {
	if override != nil {
		if len(override) != 2 {
			return nil, errors.New("file identifier must have two parts")
		}
		if orig != nil {
			return [][]byte{orig, override[1]}, nil
		}
		return override, nil
	}

	changing := make([]byte, 16)
	_, err := rand.Read(changing)
	if err != nil {
		return nil, err
	}
	if orig != nil {
		return [][]byte{orig, changing}, nil
	}
	return [][]byte{changing, changing}, nil
}

// Alloc allocates an object number for an indirect object.
func (pdf *Writer) Alloc() Reference {
	res := NewReference(pdf.nextRef, 0)
	pdf.nextRef++
	return res
}

// Pos returns the current position in the output file.
func (pdf *Writer) Pos() int64 {
	return pdf.w.pos
}

// Put writes an indirect object to the PDF file, using the given reference.
// Each reference can be written only once per writer.
func (pdf *Writer) Put(ref Reference, obj Object) error {
	if pdf.w == nil {
		return errClosed
	}
	if pdf.inStream {
		return errInStream
	}
	if _, seen := pdf.xref[ref.Number()]; seen {
		return fmt.Errorf("%s: %w", ref, errDuplicateID)
	}
	if ref.Number() >= pdf.nextRef {
		pdf.nextRef = ref.Number() + 1
	}

	pos := pdf.w.pos
	_, err := fmt.Fprintf(pdf.w, "%d %d obj\n", ref.Number(), ref.Generation())
	if err != nil {
		return err
	}
	err = writeObject(pdf.w, obj)
	if err != nil {
		return err
	}
	_, err = pdf.w.Write([]byte("\nendobj\n"))
	if err != nil {
		return err
	}

	pdf.xref[ref.Number()] = &xRefEntry{Pos: pos, Generation: ref.Generation()}
	return nil
}

// OpenStream adds a PDF stream to the file and returns an io.WriteCloser
// which can be used to add the stream's data.  No other objects can be
// added to the file until the stream is closed.  The Length entry of the
// stream dictionary is written as an indirect object after the stream data.
func (pdf *Writer) OpenStream(ref Reference, dict Dict, filters ...Filter) (io.WriteCloser, error) {
	if pdf.w == nil {
		return nil, errClosed
	}
	if pdf.inStream {
		return nil, errInStream
	}
	if _, seen := pdf.xref[ref.Number()]; seen {
		return nil, fmt.Errorf("%s: %w", ref, errDuplicateID)
	}

	streamDict := maps.Clone(dict)
	if streamDict == nil {
		streamDict = Dict{}
	}
	if pdf.humanReadable {
		filters = nil
	}
	for _, filter := range filters {
		name, parms, err := filter.Info(pdf.Version)
		if err != nil {
			return nil, err
		}
		appendFilter(streamDict, name, parms)
	}
	lengthRef := pdf.Alloc()
	streamDict["Length"] = lengthRef

	pos := pdf.w.pos
	_, err := fmt.Fprintf(pdf.w, "%d %d obj\n", ref.Number(), ref.Generation())
	if err != nil {
		return nil, err
	}
	err = streamDict.PDF(pdf.w)
	if err != nil {
		return nil, err
	}
	_, err = pdf.w.Write([]byte("\nstream\n"))
	if err != nil {
		return nil, err
	}
	pdf.xref[ref.Number()] = &xRefEntry{Pos: pos, Generation: ref.Generation()}
	pdf.inStream = true

	var w io.WriteCloser = &streamWriter{
		parent:    pdf,
		lengthRef: lengthRef,
		startPos:  pdf.w.pos,
	}
	for i := len(filters) - 1; i >= 0; i-- {
		w, err = filters[i].Encode(pdf.Version, w)
		if err != nil {
			return nil, err
		}
	}
	return w, nil
}

type streamWriter struct {
	parent    *Writer
	lengthRef Reference
	startPos  int64
}

func (w *streamWriter) Write(p []byte) (int, error) {
	return w.parent.w.Write(p)
}

func (w *streamWriter) Close() error {
	pdf := w.parent
	length := pdf.w.pos - w.startPos
	_, err := pdf.w.Write([]byte("\nendstream\nendobj\n"))
	if err != nil {
		return err
	}
	pdf.inStream = false
	return pdf.Put(w.lengthRef, Integer(length))
}

// Close writes the cross-reference table and the trailer, and flushes all
// data to the underlying io.Writer.  If the writer was created by [Create],
// the underlying file is closed.
func (pdf *Writer) Close() error {
	if pdf.w == nil {
		return errClosed
	}
	if pdf.inStream {
		return errInStream
	}
	if pdf.Root == 0 {
		return errors.New("missing /Root")
	}

	trailer := Dict{
		"Size": Integer(pdf.nextRef),
		"Root": pdf.Root,
		"ID":   Array{String(pdf.id[0]), String(pdf.id[1])},
	}
	if pdf.Info != 0 {
		trailer["Info"] = pdf.Info
	}
	if pdf.prev >= 0 {
		trailer["Prev"] = Integer(pdf.prev)
	}

	xRefPos := pdf.w.pos
	err := pdf.writeXRefTable(trailer)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(pdf.w, "\nstartxref\n%d\n%%%%EOF\n", xRefPos)
	if err != nil {
		return err
	}
	err = pdf.w.w.Flush()
	if err != nil {
		return err
	}
	pdf.w = nil

	if pdf.closer != nil {
		return pdf.closer.Close()
	}
	return nil
}

type posWriter struct {
	w   *bufio.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}
