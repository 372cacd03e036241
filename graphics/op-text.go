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

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
	"seehuhn.de/go/geom/matrix"
)

// TextStart starts a new text object.
//
// This implements the PDF graphics operator "BT".
func (w *Writer) TextStart() {
	if !w.isValid("TextStart", objPage) {
		return
	}
	w.currentObject = objText
	w.nesting = append(w.nesting, pairTypeBT)

	_, w.Err = fmt.Fprintln(w.Content, "BT")
}

// TextEnd ends the current text object.
//
// This implements the PDF graphics operator "ET".
func (w *Writer) TextEnd() {
	if !w.isValid("TextEnd", objText) {
		return
	}
	if len(w.nesting) == 0 || w.nesting[len(w.nesting)-1] != pairTypeBT {
		w.Err = errors.New("TextEnd: no matching TextStart")
		return
	}
	w.nesting = w.nesting[:len(w.nesting)-1]
	w.currentObject = objPage

	_, w.Err = fmt.Fprintln(w.Content, "ET")
}

// TextSetFont sets the font and font size.  The font is added to the
// resource dictionary if needed.
//
// This implements the PDF graphics operator "Tf".
func (w *Writer) TextSetFont(f *font.Font) {
	if !w.isValid("TextSetFont", objText|objPage) {
		return
	}
	name := w.Resources.FontName(f)
	err := name.PDF(w.Content)
	if err != nil {
		w.Err = err
		return
	}
	_, w.Err = fmt.Fprintln(w.Content, "", w.coord(f.Size), "Tf")
}

// TextFirstLine moves to the start of the next line, offset from the
// start of the current line.
//
// This implements the PDF graphics operator "Td".
func (w *Writer) TextFirstLine(x, y float64) {
	if !w.isValid("TextFirstLine", objText) {
		return
	}
	_, w.Err = fmt.Fprintln(w.Content, w.coord(x), w.coord(y), "Td")
}

// TextShowRaw shows an already encoded text.
//
// This implements the PDF graphics operator "Tj".
func (w *Writer) TextShowRaw(s pdf.String) {
	if !w.isValid("TextShowRaw", objText) {
		return
	}
	w.Err = s.PDF(w.Content)
	if w.Err != nil {
		return
	}
	_, w.Err = fmt.Fprintln(w.Content, "", "Tj")
}

// TextShow draws a single run of text with its baseline starting at (x, y),
// using the color of the font.
func (w *Writer) TextShow(f *font.Font, x, y float64, text string) {
	if text == "" {
		return
	}
	w.SetFillRGB(f.Color.R, f.Color.G, f.Color.B)
	w.TextStart()
	w.TextSetFont(f)
	w.TextFirstLine(x, y)
	w.TextShowRaw(pdf.String(font.Encode(text)))
	w.TextEnd()
}

// DrawImage draws an image into the rectangle with lower left corner
// (x, y).  The image is added to the resource dictionary if needed.
//
// This implements the PDF graphics operator "Do".
func (w *Writer) DrawImage(img *model.Image, x, y, width, height float64) {
	if !w.isValid("DrawImage", objPage) {
		return
	}
	name := w.Resources.ImageName(img)

	w.PushGraphicsState()
	w.Transform(matrix.Matrix{width, 0, 0, height, x, y})
	if w.Err != nil {
		return
	}
	w.Err = name.PDF(w.Content)
	if w.Err != nil {
		return
	}
	_, w.Err = fmt.Fprintln(w.Content, "", "Do")
	w.PopGraphicsState()
}
