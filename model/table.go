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

package model

import "fmt"

// VAlignment gives the vertical alignment of cell content.
type VAlignment int

// These are the supported vertical alignments.
const (
	VAlignTop VAlignment = iota
	VAlignMiddle
	VAlignBottom
)

// Border is a set of cell edges.
type Border int

// These are the cell edges.
const (
	BorderTop Border = 1 << iota
	BorderRight
	BorderBottom
	BorderLeft

	BorderNone Border = 0
	BorderBox         = BorderTop | BorderRight | BorderBottom | BorderLeft
)

// Padding indices.
const (
	PadTop = iota
	PadRight
	PadBottom
	PadLeft
)

// Cell is a cell of a table.
type Cell struct {
	// Content is a [*Phrase], a [*Paragraph] or a nested [*Table].
	Content Element

	RowSpan, ColSpan int

	HAlign Alignment
	VAlign VAlignment

	// Padding gives the space between the cell edges and the content,
	// in the order top, right, bottom, left.
	Padding [4]float64

	// MinHeight is the minimal height of the content area.
	MinHeight float64

	Border      Border
	BorderWidth float64

	// Grey is the grey level used to fill the cell, from 0 (black) to
	// 1 (white).  White cells are not filled.
	Grey float64
}

// NewCell returns a cell with a single row and column, 2pt padding,
// and a thin border around all edges.
func NewCell(content Element) *Cell {
	return &Cell{
		Content:     content,
		RowSpan:     1,
		ColSpan:     1,
		HAlign:      AlignLeft,
		Padding:     [4]float64{2, 2, 2, 2},
		Border:      BorderBox,
		BorderWidth: 0.5,
		Grey:        1,
	}
}

// Table is a grid of cells.
type Table struct {
	// WidthPercentage is the share of the available width used by the
	// table, in percent.
	WidthPercentage float64

	// KeepTogether asks for the table to be moved to a new page instead
	// of being split, if it fits on a single page.
	KeepTogether bool

	// HeaderRows is the number of leading rows which are repeated at the
	// top of every page the table continues on.
	HeaderRows int

	Alignment Alignment

	SpacingBefore, SpacingAfter float64

	columns int
	widths  []float64
	cells   []*Cell
}

// NewTable returns a table with the given number of equally wide columns.
func NewTable(columns int) (*Table, error) {
	if columns < 1 {
		return nil, fmt.Errorf("%w: table needs at least one column", ErrStructuralViolation)
	}
	widths := make([]float64, columns)
	for i := range widths {
		widths[i] = 1 / float64(columns)
	}
	return &Table{
		WidthPercentage: 100,
		Alignment:       AlignCenter,
		columns:         columns,
		widths:          widths,
	}, nil
}

// Kind implements the [Element] interface.
func (t *Table) Kind() Kind { return KindBlock }

// Columns returns the number of columns.
func (t *Table) Columns() int {
	return t.columns
}

// SetWidths sets the relative column widths.  The widths are normalized
// to sum to 1.
func (t *Table) SetWidths(relative ...float64) error {
	if len(relative) != t.columns {
		return fmt.Errorf("%w: %d widths for %d columns", ErrStructuralViolation, len(relative), t.columns)
	}
	total := 0.0
	for _, w := range relative {
		if w <= 0 {
			return fmt.Errorf("%w: column width %g is not positive", ErrStructuralViolation, w)
		}
		total += w
	}
	for i, w := range relative {
		t.widths[i] = w / total
	}
	return nil
}

// Widths returns the normalized column widths.
func (t *Table) Widths() []float64 {
	return t.widths
}

// AddCell appends a cell.  Cells are placed left to right, top to bottom.
func (t *Table) AddCell(c *Cell) error {
	if c == nil {
		return fmt.Errorf("%w: nil cell", ErrStructuralViolation)
	}
	switch content := c.Content.(type) {
	case *Phrase, *Paragraph:
	case *Table:
		if content == t {
			return fmt.Errorf("%w: table cannot contain itself", ErrStructuralViolation)
		}
	default:
		return fmt.Errorf("%w: a cell cannot hold %T", ErrStructuralViolation, c.Content)
	}
	if c.RowSpan < 1 || c.ColSpan < 1 {
		return fmt.Errorf("%w: cell span %dx%d", ErrStructuralViolation, c.RowSpan, c.ColSpan)
	}
	if c.ColSpan > t.columns {
		return fmt.Errorf("%w: cell spans %d of %d columns", ErrStructuralViolation, c.ColSpan, t.columns)
	}
	if c.Grey < 0 || c.Grey > 1 {
		return fmt.Errorf("%w: grey level %g", ErrStructuralViolation, c.Grey)
	}
	t.cells = append(t.cells, c)
	return nil
}

// AddText appends a cell holding a phrase with the given text.
func (t *Table) AddText(text string) error {
	return t.AddCell(NewCell(NewPhrase(text, nil)))
}

// Cells returns the cells in the order they were added.
func (t *Table) Cells() []*Cell {
	return t.cells
}
