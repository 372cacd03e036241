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

package layout

import "seehuhn.de/go/geom/rect"

// Frame tracks the free space in the text area of a page.  The text area
// itself is immutable, only the position of the free space changes.
type Frame struct {
	Body rect.Rect

	top float64
}

// NewFrame returns a frame where all of body is free.
func NewFrame(body rect.Rect) *Frame {
	return &Frame{Body: body, top: body.URy}
}

// Top returns the upper edge of the free space.
func (f *Frame) Top() float64 {
	return f.top
}

// Remaining returns the height of the free space.
func (f *Frame) Remaining() float64 {
	return f.top - f.Body.LLy
}

// Take uses h units of vertical space and returns the new upper edge of
// the free space.  The free space may become negative.
func (f *Frame) Take(h float64) float64 {
	f.top -= h
	return f.top
}

// Reset marks the whole text area as free.
func (f *Frame) Reset() {
	f.top = f.Body.URy
}
