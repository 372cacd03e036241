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
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
)

// Reader represents a PDF file opened for reading.  Only files with
// classic cross-reference tables are supported; this is enough to append
// incremental updates to files written by [Writer].
type Reader struct {
	// Version is the PDF version given in the file header.
	Version Version

	// Trailer is the most recent trailer dictionary.
	Trailer Dict

	r       io.ReaderAt
	size    int64
	xref    map[uint32]*xRefEntry
	xrefPos int64
	closer  io.Closer
}

// Open opens the named PDF file for reading.  After use, [Reader.Close]
// must be called to close the file.
func Open(fname string) (*Reader, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	fi, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, err
	}
	r, err := NewReader(fd, fi.Size())
	if err != nil {
		fd.Close()
		return nil, err
	}
	r.closer = fd
	return r, nil
}

// NewReader creates a new Reader object for the PDF data of the given size.
func NewReader(data io.ReaderAt, size int64) (*Reader, error) {
	r := &Reader{
		r:    data,
		size: size,
	}

	s := r.scannerAt(0)
	ver, err := s.readHeaderVersion()
	if err != nil {
		return nil, err
	}
	r.Version = ver

	xref, trailer, xrefPos, err := r.readXRef()
	if err != nil {
		return nil, err
	}
	r.xref = xref
	r.Trailer = trailer
	r.xrefPos = xrefPos

	if _, ok := trailer["Root"].(Reference); !ok {
		return nil, &MalformedFileError{Pos: xrefPos, Err: errors.New("missing /Root")}
	}
	return r, nil
}

// Close closes the underlying file, if the reader was created by [Open].
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Size returns the length of the PDF data in bytes.
func (r *Reader) Size() int64 {
	return r.size
}

// XRefPos returns the byte offset of the most recent cross-reference table.
func (r *Reader) XRefPos() int64 {
	return r.xrefPos
}

// XRefEntry describes one in-use object of a PDF file.
type XRefEntry struct {
	Ref Reference
	Pos int64
}

// Objects returns all in-use objects listed in the cross-reference tables,
// ordered by object number.
func (r *Reader) Objects() []XRefEntry {
	var res []XRefEntry
	for n, entry := range r.xref {
		if entry.IsFree() {
			continue
		}
		res = append(res, XRefEntry{
			Ref: NewReference(n, entry.Generation),
			Pos: entry.Pos,
		})
	}
	slices.SortFunc(res, func(a, b XRefEntry) int {
		return int(a.Ref.Number()) - int(b.Ref.Number())
	})
	return res
}

// Get reads an indirect object from the file.  Free or missing objects are
// returned as nil.
func (r *Reader) Get(ref Reference) (Object, error) {
	entry := r.xref[ref.Number()]
	if entry.IsFree() || entry.Generation != ref.Generation() {
		return nil, nil
	}
	if entry.Pos >= r.size {
		return nil, &MalformedFileError{Pos: entry.Pos, Err: fmt.Errorf("%s: offset out of range", ref)}
	}

	s := r.scannerAt(entry.Pos)
	got, obj, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	if got != ref {
		return nil, &MalformedFileError{
			Pos: entry.Pos,
			Err: fmt.Errorf("expected %s but found %s", ref, got),
		}
	}
	return obj, nil
}

// Resolve follows references until a direct object is found.
func (r *Reader) Resolve(obj Object) (Object, error) {
	seen := map[Reference]bool{}
	for {
		ref, ok := obj.(Reference)
		if !ok {
			return obj, nil
		}
		if seen[ref] {
			return nil, &MalformedFileError{Err: fmt.Errorf("%s: reference loop", ref)}
		}
		seen[ref] = true

		var err error
		obj, err = r.Get(ref)
		if err != nil {
			return nil, err
		}
	}
}

// GetDict resolves obj and checks that the result is a dictionary.
// A missing object results in a nil dictionary and no error.
func (r *Reader) GetDict(obj Object) (Dict, error) {
	obj, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}
	switch x := obj.(type) {
	case nil:
		return nil, nil
	case Dict:
		return x, nil
	case *Stream:
		return x.Dict, nil
	default:
		return nil, &MalformedFileError{Err: fmt.Errorf("expected Dict but got %T", obj)}
	}
}

// GetArray resolves obj and checks that the result is an array.
func (r *Reader) GetArray(obj Object) (Array, error) {
	obj, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}
	switch x := obj.(type) {
	case nil:
		return nil, nil
	case Array:
		return x, nil
	default:
		return nil, &MalformedFileError{Err: fmt.Errorf("expected Array but got %T", obj)}
	}
}

// GetInt resolves obj and checks that the result is an integer.
func (r *Reader) GetInt(obj Object) (Integer, error) {
	obj, err := r.Resolve(obj)
	if err != nil {
		return 0, err
	}
	x, ok := obj.(Integer)
	if !ok {
		return 0, &MalformedFileError{Err: fmt.Errorf("expected Integer but got %T", obj)}
	}
	return x, nil
}

// GetName resolves obj and checks that the result is a name.
func (r *Reader) GetName(obj Object) (Name, error) {
	obj, err := r.Resolve(obj)
	if err != nil {
		return "", err
	}
	x, ok := obj.(Name)
	if !ok {
		return "", &MalformedFileError{Err: fmt.Errorf("expected Name but got %T", obj)}
	}
	return x, nil
}

func (r *Reader) scannerAt(pos int64) *scanner {
	return newScanner(io.NewSectionReader(r.r, pos, r.size-pos), pos, r.GetInt)
}
