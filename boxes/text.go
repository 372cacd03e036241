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

package boxes

import (
	"math"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/graphics"
)

// Run is a piece of text set in a single font.
type Run struct {
	Text string
	Font *font.Font
}

// fragment is a positioned piece of text within a line.
type fragment struct {
	text  string
	font  *font.Font
	x     float64
	width float64
}

// Line is a single line of text.  The reference point is on the baseline
// at the left edge of the line.
type Line struct {
	BoxExtent
	frags []fragment
}

// Text returns a single line of text, without line breaking.
func Text(m font.Metrics, runs ...Run) *Line {
	line := &Line{}
	x := 0.0
	for _, run := range runs {
		if run.Text == "" || run.Font == nil {
			continue
		}
		width := m.Width(run.Font, run.Text)
		line.frags = append(line.frags, fragment{
			text:  run.Text,
			font:  run.Font,
			x:     x,
			width: width,
		})
		x += width
	}
	line.Width = x
	line.setVertical(m)
	return line
}

func (obj *Line) setVertical(m font.Metrics) {
	for _, frag := range obj.frags {
		obj.Height = math.Max(obj.Height, m.Ascent(frag.font))
		obj.Depth = math.Max(obj.Depth, m.Descent(frag.font))
	}
	obj.WhiteSpaceOnly = len(obj.frags) == 0
}

// String returns the text shown on the line.
func (obj *Line) String() string {
	var s string
	for i, frag := range obj.frags {
		if i > 0 && frag.x > obj.frags[i-1].x+obj.frags[i-1].width+1e-6 {
			s += " "
		}
		s += frag.text
	}
	return s
}

// Draw implements the Box interface.
func (obj *Line) Draw(w *graphics.Writer, xPos, yPos float64) {
	if len(obj.frags) == 0 {
		return
	}

	w.TextStart()
	var cur *font.Font
	lastX, lastY := 0.0, 0.0
	for _, frag := range obj.frags {
		c := frag.font.Color
		w.SetFillRGB(c.R, c.G, c.B)
		if cur == nil || cur.PostScriptName() != frag.font.PostScriptName() || cur.Size != frag.font.Size {
			w.TextSetFont(frag.font)
			cur = frag.font
		}
		x := xPos + frag.x
		w.TextFirstLine(x-lastX, yPos-lastY)
		lastX, lastY = x, yPos
		w.TextShowRaw(pdf.String(font.Encode(frag.text)))
	}
	w.TextEnd()

	for _, frag := range obj.frags {
		style := frag.font.Style
		if style&(font.Underline|font.Strikethru) == 0 {
			continue
		}
		thickness := frag.font.Size / 15
		c := frag.font.Color
		w.SetFillRGB(c.R, c.G, c.B)
		if style&font.Underline != 0 {
			w.FillRect(xPos+frag.x, yPos-frag.font.Size/7-thickness/2, frag.width, thickness)
		}
		if style&font.Strikethru != 0 {
			w.FillRect(xPos+frag.x, yPos+frag.font.Size/4-thickness/2, frag.width, thickness)
		}
	}
}
