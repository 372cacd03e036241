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
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

type xRefEntry struct {
	Pos        int64
	Generation uint16
}

// IsFree reports whether the entry describes a free object.
func (entry *xRefEntry) IsFree() bool {
	return entry == nil || entry.Pos < 0
}

// writeXRefTable writes a classic cross-reference table followed by the
// trailer dictionary.  A new file gets a single section covering all
// allocated object numbers.  An incremental update only lists the objects
// written in this session, grouped into contiguous subsections.
func (pdf *Writer) writeXRefTable(trailer Dict) error {
	_, err := pdf.w.Write([]byte("xref\n"))
	if err != nil {
		return err
	}

	if pdf.prev < 0 {
		_, err = fmt.Fprintf(pdf.w, "0 %d\n", pdf.nextRef)
		if err != nil {
			return err
		}
		for i := uint32(0); i < pdf.nextRef; i++ {
			err = writeXRefEntry(pdf.w, pdf.xref[i])
			if err != nil {
				return err
			}
		}
	} else {
		numbers := make([]uint32, 0, len(pdf.xref))
		for n := range pdf.xref {
			numbers = append(numbers, n)
		}
		slices.Sort(numbers)

		for len(numbers) > 0 {
			k := 1
			for k < len(numbers) && numbers[k] == numbers[0]+uint32(k) {
				k++
			}
			_, err = fmt.Fprintf(pdf.w, "%d %d\n", numbers[0], k)
			if err != nil {
				return err
			}
			for _, n := range numbers[:k] {
				err = writeXRefEntry(pdf.w, pdf.xref[n])
				if err != nil {
					return err
				}
			}
			numbers = numbers[k:]
		}
	}

	_, err = pdf.w.Write([]byte("trailer\n"))
	if err != nil {
		return err
	}
	return trailer.PDF(pdf.w)
}

func writeXRefEntry(w io.Writer, entry *xRefEntry) error {
	var err error
	if !entry.IsFree() {
		_, err = fmt.Fprintf(w, "%010d %05d n\r\n", entry.Pos, entry.Generation)
	} else {
		_, err = w.Write([]byte("0000000000 65535 f\r\n"))
	}
	return err
}

func (r *Reader) findXRef() (int64, error) {
	pos, err := r.lastOccurrence("startxref")
	if err != nil {
		return 0, err
	}
	s := r.scannerAt(pos + 9)
	err = s.SkipWhiteSpace()
	if err != nil {
		return 0, err
	}
	xRefPos, err := s.ReadInteger()
	if err != nil {
		return 0, err
	}
	if xRefPos <= 0 || int64(xRefPos) >= r.size {
		return 0, &MalformedFileError{
			Pos: s.currentPos(),
			Err: errors.New("invalid xref position"),
		}
	}
	return int64(xRefPos), nil
}

func (r *Reader) lastOccurrence(pat string) (int64, error) {
	const chunkSize = 1024

	buf := make([]byte, chunkSize)
	k := int64(len(pat))
	pos := r.size
	for pos >= k {
		start := max(pos-chunkSize, 0)
		n, err := r.r.ReadAt(buf[:pos-start], start)
		if err != nil && err != io.EOF {
			return 0, err
		}

		idx := bytes.LastIndex(buf[:n], []byte(pat))
		if idx >= 0 {
			return start + int64(idx), nil
		}
		if start == 0 {
			break
		}
		pos = start + k - 1
	}
	return 0, &MalformedFileError{Err: errors.New("startxref not found")}
}

// readXRef reads the chain of cross-reference tables, starting with the
// most recent one.  Entries from newer sections take precedence.
func (r *Reader) readXRef() (map[uint32]*xRefEntry, Dict, int64, error) {
	start, err := r.findXRef()
	if err != nil {
		return nil, nil, 0, err
	}
	last := start

	xref := make(map[uint32]*xRefEntry)
	var trailer Dict
	seen := make(map[int64]bool)
	for !seen[start] {
		seen[start] = true

		s := r.scannerAt(start)
		buf, err := s.Peek(4)
		if err != nil {
			return nil, nil, 0, err
		}
		if !bytes.Equal(buf, []byte("xref")) {
			return nil, nil, 0, &MalformedFileError{
				Pos: start,
				Err: errors.New("cross-reference streams are not supported"),
			}
		}
		dict, err := readXRefTable(xref, s)
		if err != nil {
			return nil, nil, 0, err
		}
		if trailer == nil {
			trailer = dict
		}

		prev, ok := dict["Prev"]
		if !ok {
			break
		}
		prevStart, ok := prev.(Integer)
		if !ok || prevStart <= 0 || int64(prevStart) >= r.size {
			return nil, nil, 0, &MalformedFileError{
				Pos: start,
				Err: fmt.Errorf("invalid /Prev value %s", Format(prev)),
			}
		}
		start = int64(prevStart)
	}

	return xref, trailer, last, nil
}

func readXRefTable(xref map[uint32]*xRefEntry, s *scanner) (Dict, error) {
	err := s.SkipString("xref")
	if err != nil {
		return nil, err
	}
	err = s.SkipWhiteSpace()
	if err != nil {
		return nil, err
	}

	for {
		buf, err := s.Peek(1)
		if err != nil {
			return nil, err
		}
		if len(buf) == 0 || buf[0] < '0' || buf[0] > '9' {
			break
		}

		start, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
		length, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}

		err = decodeXRefSection(xref, s, uint32(start), uint32(start+length))
		if err != nil {
			return nil, err
		}
		err = s.SkipWhiteSpace()
		if err != nil {
			return nil, err
		}
	}

	err = s.SkipString("trailer")
	if err != nil {
		return nil, err
	}
	err = s.SkipWhiteSpace()
	if err != nil {
		return nil, err
	}
	return s.ReadDict()
}

func decodeXRefSection(xref map[uint32]*xRefEntry, s *scanner, start, end uint32) error {
	for i := start; i < end; i++ {
		buf, err := s.readN(20)
		if err != nil {
			return err
		}

		if xref[i] != nil {
			// already set by a newer section
			continue
		}

		a, err := strconv.ParseInt(string(buf[:10]), 10, 64)
		if err != nil {
			return &MalformedFileError{Pos: s.currentPos(), Err: err}
		}
		b, err := strconv.ParseUint(string(buf[11:16]), 10, 16)
		if err != nil {
			return &MalformedFileError{Pos: s.currentPos(), Err: err}
		}
		switch buf[17] {
		case 'f':
			xref[i] = &xRefEntry{Pos: -1, Generation: uint16(b)}
		case 'n':
			xref[i] = &xRefEntry{Pos: a, Generation: uint16(b)}
		default:
			return &MalformedFileError{
				Pos: s.currentPos(),
				Err: errors.New("malformed xref table"),
			}
		}
	}
	return nil
}
