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

// Package graphics writes PDF content streams.
//
// A [Writer] emits graphics operators to an io.Writer.  Errors are sticky:
// once an operation fails, the error is stored in Writer.Err and all
// further operations are ignored.
package graphics

import (
	"fmt"
	"io"
	"math"
	"strconv"
)

type objectType byte

// The graphics object kinds which determine which operators are allowed.
const (
	objPage objectType = 1 << iota
	objPath
	objText
)

func (o objectType) String() string {
	switch o {
	case objPage:
		return "page"
	case objPath:
		return "path"
	case objText:
		return "text"
	default:
		return "objectType(" + strconv.Itoa(int(o)) + ")"
	}
}

type pairType byte

const (
	pairTypeQ  pairType = iota + 1 // q ... Q
	pairTypeBT                     // BT ... ET
)

// Writer writes a PDF content stream.
type Writer struct {
	Content   io.Writer
	Resources *Resources
	Err       error

	currentObject objectType
	nesting       []pairType

	fillGrey *float64
}

// NewWriter allocates a new Writer object.
// If res is nil, a new resource set is allocated.
func NewWriter(out io.Writer, res *Resources) *Writer {
	if res == nil {
		res = NewResources()
	}
	return &Writer{
		Content:       out,
		Resources:     res,
		currentObject: objPage,
	}
}

// Close checks that all q/Q and BT/ET pairs are balanced.
// It returns the first error encountered by the writer.
func (w *Writer) Close() error {
	if w.Err != nil {
		return w.Err
	}
	if len(w.nesting) > 0 {
		return fmt.Errorf("graphics: %d unclosed operator pairs", len(w.nesting))
	}
	return nil
}

func (w *Writer) isValid(cmd string, ss objectType) bool {
	if w.Err != nil {
		return false
	}
	if w.currentObject&ss != 0 {
		return true
	}
	w.Err = fmt.Errorf("unexpected state %q for %q", w.currentObject, cmd)
	return false
}

func (w *Writer) coord(x float64) string {
	return format(x)
}

// format formats a number with at most three digits after the decimal
// point.
func format(x float64) string {
	x = math.Round(x*1000) / 1000
	if x == 0 {
		return "0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func nearlyEqual(a, b float64) bool {
	const ε = 1e-6
	return math.Abs(a-b) < ε
}
