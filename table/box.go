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

package table

import (
	"github.com/justifiedsolutions/OpenPDF-sub002/boxes"
	"github.com/justifiedsolutions/OpenPDF-sub002/graphics"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
)

// Box is a table, or a part of a table, ready for placement on a page.
// The body rows from, ..., to-1 are shown below the first header rows.
type Box struct {
	grid *Grid

	header   int
	from, to int

	spaceBefore, spaceAfter float64
}

// Box returns the whole table as a box.
func (g *Grid) Box() *Box {
	return &Box{
		grid:        g,
		to:          len(g.Rows),
		spaceBefore: g.Table.SpacingBefore,
		spaceAfter:  g.Table.SpacingAfter,
	}
}

// Rows returns the indices of the grid rows shown by the box.
func (b *Box) Rows() []int {
	var rows []int
	for r := 0; r < b.header; r++ {
		rows = append(rows, r)
	}
	for r := b.from; r < b.to; r++ {
		rows = append(rows, r)
	}
	return rows
}

func (b *Box) rowsHeight() float64 {
	h := 0.0
	for _, r := range b.Rows() {
		h += b.grid.Rows[r]
	}
	return h
}

// Extent implements the [boxes.Box] interface.
func (b *Box) Extent() *boxes.BoxExtent {
	return &boxes.BoxExtent{
		Width:  b.grid.X + b.grid.Width,
		Height: b.spaceBefore + b.rowsHeight() + b.spaceAfter,
	}
}

// KeepTogether implements the [boxes.Keeper] interface.
func (b *Box) KeepTogether() bool {
	return b.grid.Table.KeepTogether
}

// headerRows returns the number of rows repeated on continuation pages.
func (g *Grid) headerRows() int {
	h := min(g.Table.HeaderRows, len(g.Rows))
	if h <= 0 || (h < len(g.Rows) && !g.breakable(h)) {
		return 0
	}
	return h
}

// Split implements the [boxes.Splitter] interface.  Tables are split
// between rows, but never inside a cell spanning several rows.  The
// header rows are repeated at the top of the remaining part.
func (b *Box) Split(space float64) (boxes.Box, boxes.Box, bool) {
	return b.split(space, false)
}

// ForceSplit implements the [boxes.ForceSplitter] interface.  If no row
// fits into space, the part before the first permitted break is used.
func (b *Box) ForceSplit(space float64) (boxes.Box, boxes.Box, bool) {
	return b.split(space, true)
}

func (b *Box) split(space float64, force bool) (boxes.Box, boxes.Box, bool) {
	g := b.grid
	used := b.spaceBefore
	for r := 0; r < b.header; r++ {
		used += g.Rows[r]
	}

	body := 0.0
	for r := b.from; r < b.to; r++ {
		body += g.Rows[r]
	}
	if used+body <= space+1e-6 {
		head := *b
		head.spaceAfter = 0
		return &head, nil, true
	}

	h := g.headerRows()
	best := -1
	for k := b.from + 1; k < b.to; k++ {
		used += g.Rows[k-1]
		if used > space+1e-6 && (best >= 0 || !force) {
			break
		}
		if k > h && g.breakable(k) {
			best = k
			if used > space+1e-6 {
				break
			}
		}
	}
	if best < 0 {
		return nil, nil, false
	}

	head := &Box{
		grid:        g,
		header:      b.header,
		from:        b.from,
		to:          best,
		spaceBefore: b.spaceBefore,
	}
	tail := &Box{
		grid:       g,
		header:     h,
		from:       best,
		to:         b.to,
		spaceAfter: b.spaceAfter,
	}
	return head, tail, true
}

// Draw implements the [boxes.Box] interface.
func (b *Box) Draw(w *graphics.Writer, xPos, yPos float64) {
	g := b.grid
	x0 := xPos + g.X

	top := make(map[int]float64)
	y := yPos + b.Extent().Height - b.spaceBefore
	for _, r := range b.Rows() {
		top[r] = y
		y -= g.Rows[r]
	}

	type placed struct {
		s          *Slot
		x, y, w, h float64
	}
	var cells []placed
	for _, s := range g.Slots {
		yTop, ok := top[s.Row]
		if !ok {
			continue
		}
		h := 0.0
		for r := s.Row; r < s.Row+s.Cell.RowSpan && r < len(g.Rows); r++ {
			h += g.Rows[r]
		}
		cells = append(cells, placed{s, x0 + g.columnX(s.Col), yTop, g.spanWidth(s), h})
	}

	for _, p := range cells {
		if grey := p.s.Cell.Grey; grey < 1 {
			w.SetFillGrey(grey)
			w.FillRect(p.x, p.y-p.h, p.w, p.h)
		}
	}

	for _, p := range cells {
		c := p.s.Cell
		avail := p.h - c.Padding[model.PadTop] - c.Padding[model.PadBottom]
		extra := avail - boxes.TotalHeight(p.s.box)
		contentTop := p.y - c.Padding[model.PadTop]
		switch c.VAlign {
		case model.VAlignMiddle:
			contentTop -= extra / 2
		case model.VAlignBottom:
			contentTop -= extra
		}
		p.s.box.Draw(w, p.x+c.Padding[model.PadLeft], contentTop-p.s.box.Extent().Height)
	}

	hasBorder := false
	for _, p := range cells {
		if p.s.Cell.Border != model.BorderNone && p.s.Cell.BorderWidth > 0 {
			hasBorder = true
			break
		}
	}
	if !hasBorder {
		return
	}
	w.PushGraphicsState()
	w.SetStrokeGrey(0)
	lineWidth := -1.0
	for _, p := range cells {
		c := p.s.Cell
		if c.Border == model.BorderNone || c.BorderWidth <= 0 {
			continue
		}
		if c.BorderWidth != lineWidth {
			w.SetLineWidth(c.BorderWidth)
			lineWidth = c.BorderWidth
		}
		left, right := p.x, p.x+p.w
		upper, lower := p.y, p.y-p.h
		if c.Border&model.BorderTop != 0 {
			w.Line(left, upper, right, upper)
		}
		if c.Border&model.BorderRight != 0 {
			w.Line(right, upper, right, lower)
		}
		if c.Border&model.BorderBottom != 0 {
			w.Line(left, lower, right, lower)
		}
		if c.Border&model.BorderLeft != 0 {
			w.Line(left, upper, left, lower)
		}
	}
	w.PopGraphicsState()
}
