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

// Package boxes implements the layout primitives placed on pages.
//
// Boxes are positioned by their reference point on the baseline.  A box
// extends Height units above and Depth units below the baseline.  Boxes
// in the main text flow are laid out for the full width of the text area
// and handle horizontal alignment themselves.
package boxes

import (
	"github.com/justifiedsolutions/OpenPDF-sub002/graphics"
)

// Box represents marks on a page within a rectangular area of known size.
type Box interface {
	Extent() *BoxExtent
	Draw(w *graphics.Writer, xPos, yPos float64)
}

// BoxExtent gives the dimensions of a Box.
type BoxExtent struct {
	Width, Height, Depth float64
	WhiteSpaceOnly       bool
}

// Extent implements the Box interface.
func (obj BoxExtent) Extent() *BoxExtent {
	return &obj
}

// Splitter is implemented by boxes which can be broken across pages.
type Splitter interface {
	Box

	// Split divides the box so that the first part uses at most the given
	// vertical space.  If tail is nil, nothing remains for the next page.
	// If the box cannot be split usefully, ok is false.
	Split(space float64) (head, tail Box, ok bool)
}

// ForceSplitter is implemented by boxes which can be broken even where
// Split refuses.  ForceSplit ignores keep-together requests, and the first
// part holds at least one line or row, even if this exceeds space.
type ForceSplitter interface {
	Splitter
	ForceSplit(space float64) (head, tail Box, ok bool)
}

// Keeper is implemented by boxes which may ask not to be split.
type Keeper interface {
	KeepTogether() bool
}

// TotalHeight returns the vertical space used by a box.
func TotalHeight(box Box) float64 {
	ext := box.Extent()
	return ext.Height + ext.Depth
}

// KeepsTogether reports whether box asks not to be split.
func KeepsTogether(box Box) bool {
	k, ok := box.(Keeper)
	return ok && k.KeepTogether()
}

// A RuleBox is a solidly filled rectangular region on the page.
type RuleBox struct {
	BoxExtent
	Grey float64
}

// Rule returns a new rule box (a box filled solid black).
func Rule(width, height, depth float64) Box {
	return &RuleBox{
		BoxExtent: BoxExtent{
			Width:  width,
			Height: height,
			Depth:  depth,
		},
	}
}

// Draw implements the Box interface.
func (obj *RuleBox) Draw(w *graphics.Writer, xPos, yPos float64) {
	if obj.Width > 0 && obj.Depth+obj.Height > 0 {
		w.SetFillGrey(obj.Grey)
		w.FillRect(xPos, yPos-obj.Depth, obj.Width, obj.Depth+obj.Height)
	}
}

// Kern represents a fixed amount of space.
type Kern float64

// Extent implements the Box interface.
func (obj Kern) Extent() *BoxExtent {
	return &BoxExtent{
		Width:          float64(obj),
		Height:         float64(obj),
		WhiteSpaceOnly: true,
	}
}

// Draw implements the Box interface.
func (obj Kern) Draw(w *graphics.Writer, xPos, yPos float64) {}

// PageBreak forces the following boxes onto a new page.
type PageBreak struct{}

// Extent implements the Box interface.
func (PageBreak) Extent() *BoxExtent {
	return &BoxExtent{WhiteSpaceOnly: true}
}

// Draw implements the Box interface.
func (PageBreak) Draw(w *graphics.Writer, xPos, yPos float64) {}

// Marked attaches an identifier to a box.  The pagination engine reports
// the page on which a marked box is placed, which is used for outline
// destinations.
type Marked struct {
	Box
	ID int
}

// Split implements the [Splitter] interface, if the inner box can be
// split.  The mark stays with the first part.
func (obj *Marked) Split(space float64) (Box, Box, bool) {
	s, ok := obj.Box.(Splitter)
	if !ok {
		return nil, nil, false
	}
	return obj.wrap(s.Split(space))
}

// ForceSplit implements the [ForceSplitter] interface, if the inner box
// can be split.
func (obj *Marked) ForceSplit(space float64) (Box, Box, bool) {
	s, ok := obj.Box.(ForceSplitter)
	if !ok {
		return nil, nil, false
	}
	return obj.wrap(s.ForceSplit(space))
}

func (obj *Marked) wrap(head, tail Box, ok bool) (Box, Box, bool) {
	if !ok {
		return nil, nil, false
	}
	return &Marked{Box: head, ID: obj.ID}, tail, true
}

// KeepTogether implements the [Keeper] interface.
func (obj *Marked) KeepTogether() bool {
	return KeepsTogether(obj.Box)
}

// shifted moves a box to the right.
type shifted struct {
	Box
	dx float64
}

// Indent returns a box which draws box shifted dx units to the right.
func Indent(dx float64, box Box) Box {
	if dx == 0 {
		return box
	}
	return &shifted{Box: box, dx: dx}
}

func (obj *shifted) Draw(w *graphics.Writer, xPos, yPos float64) {
	obj.Box.Draw(w, xPos+obj.dx, yPos)
}

func (obj *shifted) Split(space float64) (Box, Box, bool) {
	s, ok := obj.Box.(Splitter)
	if !ok {
		return nil, nil, false
	}
	return obj.wrap(s.Split(space))
}

func (obj *shifted) ForceSplit(space float64) (Box, Box, bool) {
	s, ok := obj.Box.(ForceSplitter)
	if !ok {
		return nil, nil, false
	}
	return obj.wrap(s.ForceSplit(space))
}

func (obj *shifted) wrap(head, tail Box, ok bool) (Box, Box, bool) {
	if !ok {
		return nil, nil, false
	}
	if tail != nil {
		tail = Indent(obj.dx, tail)
	}
	return Indent(obj.dx, head), tail, true
}

func (obj *shifted) KeepTogether() bool {
	return KeepsTogether(obj.Box)
}

// vBox represents a Box which contains a column of sub-objects.
// The reference point is at the bottom left corner.
type vBox struct {
	BoxExtent
	Contents []Box
}

// VBox stacks the given boxes vertically, the first box at the top.
func VBox(children ...Box) Box {
	vbox := &vBox{Contents: children}
	for _, child := range children {
		ext := child.Extent()
		vbox.Height += ext.Height + ext.Depth
		if ext.Width > vbox.Width && !ext.WhiteSpaceOnly {
			vbox.Width = ext.Width
		}
	}
	return vbox
}

// Draw implements the Box interface.
func (obj *vBox) Draw(w *graphics.Writer, xPos, yPos float64) {
	y := yPos + obj.Height
	for _, child := range obj.Contents {
		ext := child.Extent()
		y -= ext.Height
		child.Draw(w, xPos, y)
		y -= ext.Depth
	}
}
