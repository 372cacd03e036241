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

// Package layout breaks a sequence of boxes into pages.
//
// Each page passes through the states Empty, Accumulating, Closing and
// Finalized.  Boxes are added while the page is accumulating.  When a
// page is closed, the running headers and footers are placed, and the
// finished page is handed to a callback.  Pages are finalized strictly in
// order.
package layout

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"seehuhn.de/go/geom/rect"

	"github.com/justifiedsolutions/OpenPDF-sub002/boxes"
	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/graphics"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
	"github.com/justifiedsolutions/OpenPDF-sub002/translate"
)

// DefaultMarginalOffset is the distance between the text area and the
// running headers and footers.
const DefaultMarginalOffset = 12

const ε = 1e-6

var errClosed = errors.New("layout: paginator is closed")

// State is the state of the current page.
type State int

// These are the page states.
const (
	StateEmpty State = iota
	StateAccumulating
	StateClosing
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "Empty"
	case StateAccumulating:
		return "Accumulating"
	case StateClosing:
		return "Closing"
	case StateFinalized:
		return "Finalized"
	default:
		return "layout.State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Placed is a box at a fixed position on a page.
type Placed struct {
	Box  boxes.Box
	X, Y float64
}

// Mark records the position of a marked box.
type Mark struct {
	ID int

	// Top is the upper edge of the box.
	Top float64
}

// Page is a finalized page.
type Page struct {
	// Number is the page number, starting at 1.
	Number int

	Size      rect.Rect
	Boxes     []Placed
	Marginals []Placed
	Marks     []Mark
}

// Draw draws the contents of the page.
func (pg *Page) Draw(w *graphics.Writer) {
	for _, p := range pg.Boxes {
		p.Box.Draw(w, p.X, p.Y)
	}
	for _, p := range pg.Marginals {
		p.Box.Draw(w, p.X, p.Y)
	}
}

// Options control the pagination.
type Options struct {
	PageSize rect.Rect
	Margins  model.Margins

	Marginals []model.Marginal

	// Font is used for marginal text without an explicit font.
	Font *font.Font

	// Metrics gives the font metrics.  If nil, [font.Standard] is used.
	Metrics font.Metrics

	// MarginalOffset is the distance between the text area and the
	// marginals.  If zero, [DefaultMarginalOffset] is used.
	MarginalOffset float64

	// Logger, if set, receives a debug record for every finalized page.
	Logger *slog.Logger
}

// Paginator distributes boxes over pages.
type Paginator struct {
	opt    Options
	emit   func(*Page) error
	log    *slog.Logger
	frame  *Frame
	state  State
	page   *Page
	pageNo int
	closed bool
	err    error
}

// New returns a paginator which calls emit for every finalized page.
func New(opt *Options, emit func(*Page) error) *Paginator {
	p := &Paginator{
		opt:  *opt,
		emit: emit,
		log:  opt.Logger,
	}
	if p.opt.Metrics == nil {
		p.opt.Metrics = font.Standard
	}
	if p.opt.Font == nil {
		p.opt.Font = font.New(font.Helvetica, 12, font.Normal)
	}
	if p.opt.MarginalOffset == 0 {
		p.opt.MarginalOffset = DefaultMarginalOffset
	}
	if p.log == nil {
		p.log = slog.New(slog.DiscardHandler)
	}

	size := p.opt.PageSize
	m := p.opt.Margins
	p.frame = NewFrame(rect.Rect{
		LLx: size.LLx + m.Left,
		LLy: size.LLy + m.Bottom,
		URx: size.URx - m.Right,
		URy: size.URy - m.Top,
	})
	p.newPage()
	return p
}

// State returns the state of the current page.
func (p *Paginator) State() State {
	return p.state
}

// PageCount returns the number of finalized pages.
func (p *Paginator) PageCount() int {
	return p.pageNo
}

func (p *Paginator) newPage() {
	p.frame.Reset()
	p.page = &Page{Number: p.pageNo + 1, Size: p.opt.PageSize}
	p.state = StateEmpty
}

// Add places a box on the current page.  Boxes which do not fit into the
// remaining space are split, if possible, or moved to the next page.  On
// an empty page, boxes are split even if they ask to be kept together.
// A box which does not fit on an empty page and cannot be split at all is
// placed anyway and extends beyond the text area.
func (p *Paginator) Add(box boxes.Box) error {
	if p.closed {
		return errClosed
	}
	if p.err != nil {
		return p.err
	}

	if _, isBreak := box.(boxes.PageBreak); isBreak {
		if p.state == StateAccumulating {
			p.finishPage()
		}
		return p.err
	}

	for box != nil && p.err == nil {
		h := boxes.TotalHeight(box)
		avail := p.frame.Remaining()
		if h <= avail+ε {
			p.place(box)
			return nil
		}

		fresh := p.opt.PageSize.Dy() - p.opt.Margins.Top - p.opt.Margins.Bottom
		if boxes.KeepsTogether(box) && h <= fresh+ε && p.state == StateAccumulating {
			p.finishPage()
			continue
		}

		var head, tail boxes.Box
		split := false
		if s, ok := box.(boxes.Splitter); ok {
			head, tail, split = s.Split(avail)
		}
		if !split && p.state == StateAccumulating {
			p.finishPage()
			continue
		}
		if s, ok := box.(boxes.ForceSplitter); ok && !split {
			// the page is empty, so some progress must be made here
			head, tail, split = s.ForceSplit(avail)
		}
		if split {
			p.place(head)
			if tail == nil {
				return nil
			}
			p.finishPage()
			box = tail
			continue
		}

		p.log.Debug("box exceeds the text area",
			"page", p.page.Number, "height", h, "available", avail)
		p.place(box)
		p.finishPage()
		return p.err
	}
	return p.err
}

func (p *Paginator) place(box boxes.Box) {
	ext := box.Extent()
	top := p.frame.Top()
	y := top - ext.Height
	p.frame.Take(ext.Height + ext.Depth)

	p.page.Boxes = append(p.page.Boxes, Placed{Box: box, X: p.frame.Body.LLx, Y: y})
	if m, ok := box.(*boxes.Marked); ok {
		p.page.Marks = append(p.page.Marks, Mark{ID: m.ID, Top: top})
	}
	p.state = StateAccumulating
}

// finishPage runs the closing protocol for the current page and starts a
// new one.
func (p *Paginator) finishPage() {
	p.state = StateClosing
	p.pageNo++
	pg := p.page

	for _, m := range p.opt.Marginals {
		if !m.Applies(pg.Number) {
			continue
		}
		p.placeMarginal(m)
	}

	p.state = StateFinalized
	p.log.Debug("page finalized",
		"page", pg.Number,
		"boxes", len(pg.Boxes),
		"marginals", len(pg.Marginals))
	err := p.emit(pg)
	if err != nil {
		p.err = fmt.Errorf("page %d: %w", pg.Number, err)
		return
	}
	p.newPage()
}

func (p *Paginator) placeMarginal(m model.Marginal) {
	pg := p.page
	body := p.frame.Body
	phrase := m.Render(pg.Number)
	if phrase == nil {
		return
	}
	line := boxes.Text(p.opt.Metrics, translate.Runs(phrase, p.opt.Font)...)

	var x float64
	switch m.Alignment() {
	case model.AlignLeft:
		x = body.LLx
	case model.AlignRight:
		x = body.URx - line.Width
	default:
		x = (pg.Size.LLx+pg.Size.URx)/2 - line.Width/2
	}

	var baseline float64
	if m.Position() == model.Header {
		baseline = body.URy + p.opt.MarginalOffset + line.Depth
	} else {
		baseline = body.LLy - p.opt.MarginalOffset - line.Height
	}
	pg.Marginals = append(pg.Marginals, Placed{Box: line, X: x, Y: baseline})

	b, ok := m.(interface{ Borders() (model.Border, float64) })
	if !ok {
		return
	}
	border, width := b.Borders()
	if width <= 0 {
		return
	}
	const gap = 2
	if border&model.BorderTop != 0 {
		y := baseline + line.Height + gap
		pg.Marginals = append(pg.Marginals, Placed{Box: boxes.Rule(body.Dx(), width, 0), X: body.LLx, Y: y})
	}
	if border&model.BorderBottom != 0 {
		y := baseline - line.Depth - gap - width
		pg.Marginals = append(pg.Marginals, Placed{Box: boxes.Rule(body.Dx(), width, 0), X: body.LLx, Y: y})
	}
}

// Close finalizes the last page.  If no page was produced at all, a
// single blank page is emitted.
func (p *Paginator) Close() error {
	if p.closed {
		return errClosed
	}
	if p.err != nil {
		return p.err
	}
	if p.state == StateAccumulating || p.pageNo == 0 {
		p.finishPage()
	}
	p.state = StateFinalized
	p.closed = true
	return p.err
}
