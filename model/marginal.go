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

import "strconv"

// Position says whether a marginal is drawn at the top or at the bottom
// of a page.
type Position int

// These are the marginal positions.
const (
	Footer Position = iota
	Header
)

// Marginal is a running header or footer.  The methods are called once
// for every page, with page numbers starting at 1.
type Marginal interface {
	// Applies reports whether the marginal is drawn on the given page.
	Applies(page int) bool

	// Render returns the text for the given page.
	Render(page int) *Phrase

	Alignment() Alignment
	Position() Position
}

// HeaderFooter is a marginal showing the page number between two phrases.
type HeaderFooter struct {
	Before, After *Phrase

	// Numbered selects whether the page number is shown.
	Numbered bool

	// ValidForFirstPage selects whether the marginal is drawn on page 1.
	ValidForFirstPage bool

	Align Alignment
	Pos   Position

	// Border selects the rules drawn around the marginal.  Only
	// BorderTop and BorderBottom are used.
	Border      Border
	BorderWidth float64
}

// NewHeaderFooter returns a new marginal, drawn on all pages.
// The page number uses the font of before.
func NewHeaderFooter(before, after *Phrase, numbered bool) *HeaderFooter {
	return &HeaderFooter{
		Before:            before,
		After:             after,
		Numbered:          numbered,
		ValidForFirstPage: true,
		BorderWidth:       0.5,
	}
}

// Applies implements the [Marginal] interface.
func (hf *HeaderFooter) Applies(page int) bool {
	return page > 1 || hf.ValidForFirstPage
}

// Render implements the [Marginal] interface.
func (hf *HeaderFooter) Render(page int) *Phrase {
	res := &Phrase{}
	if hf.Before != nil {
		res.Font = hf.Before.Font
		res.Leading = hf.Before.Leading
		res.addPhrase(hf.Before)
	}
	if hf.Numbered {
		res.Chunks = append(res.Chunks, &Chunk{Text: strconv.Itoa(page), Font: res.Font})
	}
	if hf.After != nil {
		res.addPhrase(hf.After)
	}
	return res
}

// Alignment implements the [Marginal] interface.
func (hf *HeaderFooter) Alignment() Alignment {
	return hf.Align
}

// Position implements the [Marginal] interface.
func (hf *HeaderFooter) Position() Position {
	return hf.Pos
}

// Borders returns the rules drawn above and below the marginal.
func (hf *HeaderFooter) Borders() (Border, float64) {
	return hf.Border, hf.BorderWidth
}
