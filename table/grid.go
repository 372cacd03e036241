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

// Package table lays out tables as boxes.
//
// Cells are placed into a grid of rows and columns in the order they were
// added to the table.  The grid is then measured, and the resulting box
// can be split between rows for pagination.
package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/justifiedsolutions/OpenPDF-sub002/boxes"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
)

// ErrInvalidSpan is returned if a cell extends past the last column, or
// overlaps a cell spanning down from an earlier row.
var ErrInvalidSpan = errors.New("table: invalid cell span")

// ContentFunc converts the text content of a cell into a box of the given
// width.  Content without an alignment of its own uses align.
type ContentFunc func(e model.Element, width float64, align model.Alignment) (boxes.Box, error)

// Options control the layout of a table.
type Options struct {
	// Content converts phrases and paragraphs.  This field is required.
	Content ContentFunc
}

// Slot is a cell placed in the grid.
type Slot struct {
	Cell     *model.Cell
	Row, Col int

	// Filler is set for empty slots added to complete the grid.
	Filler bool

	box boxes.Box
}

// Grid is a table with all cells placed and measured.
type Grid struct {
	Table *model.Table

	// Width is the width of the table, X is its offset from the left edge
	// of the available space.
	Width, X float64

	Columns []float64
	Rows    []float64
	Slots   []*Slot

	// owner[row][col] is the index of the slot covering a grid position.
	owner [][]int
}

// Layout places and measures the cells of t.  The table uses the share
// t.WidthPercentage of the available width.
func Layout(t *model.Table, width float64, opt *Options) (*Grid, error) {
	g := &Grid{Table: t}

	pct := t.WidthPercentage
	if pct <= 0 {
		pct = 100
	}
	g.Width = width * pct / 100
	switch t.Alignment {
	case model.AlignRight:
		g.X = width - g.Width
	case model.AlignCenter, model.AlignUndefined, model.AlignJustified:
		g.X = (width - g.Width) / 2
	}
	for _, w := range t.Widths() {
		g.Columns = append(g.Columns, w*g.Width)
	}

	err := g.place(t.Cells())
	if err != nil {
		return nil, err
	}
	err = g.measure(opt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// place assigns grid positions to the cells.
func (g *Grid) place(cells []*model.Cell) error {
	columns := len(g.Columns)
	row, col := 0, 0
	for i, c := range cells {
		for {
			if col >= columns {
				row++
				col = 0
			}
			if g.at(row, col) < 0 {
				break
			}
			col++
		}

		if col+c.ColSpan > columns {
			return fmt.Errorf("%w: cell %d needs columns %d-%d of %d",
				ErrInvalidSpan, i+1, col+1, col+c.ColSpan, columns)
		}
		for r := row; r < row+c.RowSpan; r++ {
			for k := col; k < col+c.ColSpan; k++ {
				if g.at(r, k) >= 0 {
					return fmt.Errorf("%w: cell %d overlaps cell %d at row %d, column %d",
						ErrInvalidSpan, i+1, g.at(r, k)+1, r+1, k+1)
				}
			}
		}
		g.claim(&Slot{Cell: c, Row: row, Col: col})
		col += c.ColSpan
	}

	// complete the grid, so that every position has exactly one owner
	for r := range g.owner {
		for k := 0; k < columns; k++ {
			if g.at(r, k) < 0 {
				filler := model.NewCell(model.NewPhrase("", nil))
				filler.Border = model.BorderNone
				g.claim(&Slot{Cell: filler, Row: r, Col: k, Filler: true})
			}
		}
	}
	return nil
}

func (g *Grid) at(row, col int) int {
	if row >= len(g.owner) {
		return -1
	}
	return g.owner[row][col]
}

func (g *Grid) claim(s *Slot) {
	idx := len(g.Slots)
	g.Slots = append(g.Slots, s)
	for r := s.Row; r < s.Row+s.Cell.RowSpan; r++ {
		for len(g.owner) <= r {
			line := make([]int, len(g.Columns))
			for k := range line {
				line[k] = -1
			}
			g.owner = append(g.owner, line)
		}
		for k := s.Col; k < s.Col+s.Cell.ColSpan; k++ {
			g.owner[r][k] = idx
		}
	}
}

// measure converts the cell contents into boxes and computes the row
// heights.
func (g *Grid) measure(opt *Options) error {
	g.Rows = make([]float64, len(g.owner))

	var spanning []*Slot
	for _, s := range g.Slots {
		c := s.Cell
		inner := g.spanWidth(s) - c.Padding[model.PadLeft] - c.Padding[model.PadRight]
		if inner < 0 {
			inner = 0
		}

		var err error
		switch content := c.Content.(type) {
		case *model.Table:
			var sub *Grid
			sub, err = Layout(content, inner, opt)
			if err == nil {
				s.box = sub.Box()
			}
		default:
			if opt == nil || opt.Content == nil {
				return errors.New("table: missing content converter")
			}
			s.box, err = opt.Content(content, inner, c.HAlign)
		}
		if err != nil {
			return err
		}

		if c.RowSpan > 1 {
			spanning = append(spanning, s)
			continue
		}
		h := s.required()
		if h > g.Rows[s.Row] {
			g.Rows[s.Row] = h
		}
	}

	// Cells spanning several rows enlarge the last row they cover.
	// Processing them by last row makes earlier enlargements visible to
	// later cells.
	for last := range g.Rows {
		for _, s := range spanning {
			if s.Row+s.Cell.RowSpan-1 != last {
				continue
			}
			have := 0.0
			for r := s.Row; r <= last; r++ {
				have += g.Rows[r]
			}
			if need := s.required(); need > have {
				g.Rows[last] += need - have
			}
		}
	}
	return nil
}

// required returns the height needed by a slot, including padding.
func (s *Slot) required() float64 {
	c := s.Cell
	h := boxes.TotalHeight(s.box)
	if c.MinHeight > h {
		h = c.MinHeight
	}
	return h + c.Padding[model.PadTop] + c.Padding[model.PadBottom]
}

func (g *Grid) spanWidth(s *Slot) float64 {
	w := 0.0
	for k := s.Col; k < s.Col+s.Cell.ColSpan; k++ {
		w += g.Columns[k]
	}
	return w
}

func (g *Grid) columnX(col int) float64 {
	x := 0.0
	for k := 0; k < col; k++ {
		x += g.Columns[k]
	}
	return x
}

// Height returns the total height of all rows.
func (g *Grid) Height() float64 {
	h := 0.0
	for _, r := range g.Rows {
		h += r
	}
	return h
}

// Owner returns the index into g.Slots of the slot covering the given
// grid position, or -1 if the position is outside the grid.
func (g *Grid) Owner(row, col int) int {
	if row < 0 || row >= len(g.owner) || col < 0 || col >= len(g.Columns) {
		return -1
	}
	return g.owner[row][col]
}

// breakable reports whether the table may be split before the given row.
func (g *Grid) breakable(row int) bool {
	if row <= 0 || row >= len(g.owner) {
		return false
	}
	for _, s := range g.Slots {
		if s.Row < row && s.Row+s.Cell.RowSpan > row {
			return false
		}
	}
	return true
}

// String shows which slot covers each grid position.
func (g *Grid) String() string {
	labels := make([]string, len(g.Slots))
	width := 1
	for i, s := range g.Slots {
		if s.Filler {
			labels[i] = "·"
		} else {
			labels[i] = strconv.Itoa(i)
		}
		width = max(width, runewidth.StringWidth(labels[i]))
	}

	b := &strings.Builder{}
	for _, line := range g.owner {
		b.WriteString("|")
		for _, idx := range line {
			label := labels[idx]
			pad := width - runewidth.StringWidth(label)
			b.WriteString(" " + strings.Repeat(" ", pad) + label + " |")
		}
		b.WriteString("\n")
	}
	return b.String()
}
