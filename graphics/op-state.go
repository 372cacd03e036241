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

package graphics

import (
	"errors"
	"fmt"

	"seehuhn.de/go/geom/matrix"
)

// PushGraphicsState saves the current graphics state.
//
// This implements the PDF graphics operator "q".
func (w *Writer) PushGraphicsState() {
	if !w.isValid("PushGraphicsState", objPage) {
		return
	}
	w.nesting = append(w.nesting, pairTypeQ)
	w.fillGrey = nil

	_, w.Err = fmt.Fprintln(w.Content, "q")
}

// PopGraphicsState restores the previous graphics state.
//
// This implements the PDF graphics operator "Q".
func (w *Writer) PopGraphicsState() {
	if !w.isValid("PopGraphicsState", objPage) {
		return
	}
	if len(w.nesting) == 0 || w.nesting[len(w.nesting)-1] != pairTypeQ {
		w.Err = errors.New("PopGraphicsState: no matching PushGraphicsState")
		return
	}
	w.nesting = w.nesting[:len(w.nesting)-1]
	w.fillGrey = nil

	_, w.Err = fmt.Fprintln(w.Content, "Q")
}

// Transform applies a transformation matrix to the coordinate system.
//
// This implements the PDF graphics operator "cm".
func (w *Writer) Transform(m matrix.Matrix) {
	if !w.isValid("Transform", objPage) {
		return
	}
	_, w.Err = fmt.Fprintln(w.Content,
		w.coord(m[0]), w.coord(m[1]), w.coord(m[2]),
		w.coord(m[3]), w.coord(m[4]), w.coord(m[5]), "cm")
}

// SetLineWidth sets the line width.
//
// This implements the PDF graphics operator "w".
func (w *Writer) SetLineWidth(width float64) {
	if !w.isValid("SetLineWidth", objPage|objText) {
		return
	}
	_, w.Err = fmt.Fprintln(w.Content, w.coord(width), "w")
}

// SetFillGrey sets the fill color to a grey level between 0 (black)
// and 1 (white).
//
// This implements the PDF graphics operator "g".
func (w *Writer) SetFillGrey(g float64) {
	if !w.isValid("SetFillGrey", objPage|objText) {
		return
	}
	if w.fillGrey != nil && nearlyEqual(*w.fillGrey, g) {
		return
	}
	w.fillGrey = &g
	_, w.Err = fmt.Fprintln(w.Content, w.coord(g), "g")
}

// SetStrokeGrey sets the stroke color to a grey level.
//
// This implements the PDF graphics operator "G".
func (w *Writer) SetStrokeGrey(g float64) {
	if !w.isValid("SetStrokeGrey", objPage|objText) {
		return
	}
	_, w.Err = fmt.Fprintln(w.Content, w.coord(g), "G")
}

// SetFillRGB sets the fill color.
//
// This implements the PDF graphics operator "rg".
func (w *Writer) SetFillRGB(r, g, b float64) {
	if !w.isValid("SetFillRGB", objPage|objText) {
		return
	}
	if r == g && g == b {
		w.SetFillGrey(r)
		return
	}
	w.fillGrey = nil
	_, w.Err = fmt.Fprintln(w.Content, w.coord(r), w.coord(g), w.coord(b), "rg")
}
