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

// Package translate converts a document into the flat sequence of boxes
// consumed by the pagination engine.
//
// Chapters and sections are visited depth-first, in document order.  Each
// section contributes its numbered title, its body and then its
// subsections.  Fonts are inherited from the enclosing chunk, phrase,
// paragraph and document, in this order; inherited fonts are copied into
// the boxes, so that the document model is never modified.
package translate

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/justifiedsolutions/OpenPDF-sub002/boxes"
	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
	"github.com/justifiedsolutions/OpenPDF-sub002/table"
)

// ErrInvalidContent is returned for elements which cannot be placed in
// the text flow.
var ErrInvalidContent = errors.New("translate: invalid content")

// Options control the translation.
type Options struct {
	// Width is the width of the text area.  If zero, the page width minus
	// the left and right margins is used.
	Width float64

	// Metrics gives the font metrics.  If nil, [font.Standard] is used.
	Metrics font.Metrics
}

// Heading describes the title of a chapter or section.
type Heading struct {
	// ID identifies the marked title box in the box sequence.
	ID int

	// Title is the numbered title text.
	Title string

	Depth    int
	Open     bool
	Children []*Heading
}

// Result is the outcome of a translation.
type Result struct {
	Boxes []boxes.Box

	// Headings holds one entry per chapter.  Sections are found in the
	// Children fields.
	Headings []*Heading
}

type translator struct {
	doc       *model.Document
	font      *font.Font
	m         font.Metrics
	width     float64
	tableOpts *table.Options

	res    *Result
	nextID int
}

// Document translates doc into a sequence of boxes.
func Document(doc *model.Document, opt *Options) (*Result, error) {
	if opt == nil {
		opt = &Options{}
	}
	t := &translator{
		doc:   doc,
		font:  doc.Font,
		m:     opt.Metrics,
		width: opt.Width,
		res:   &Result{},
	}
	if t.m == nil {
		t.m = font.Standard
	}
	if t.font == nil {
		t.font = font.New(font.Helvetica, 12, font.Normal)
	}
	if t.width <= 0 {
		t.width = doc.PageSize.Dx() - doc.Margins.Left - doc.Margins.Right
	}
	t.tableOpts = &table.Options{Content: t.cellContent}

	for i, e := range doc.Content() {
		box, err := t.element(e, t.width)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i+1, err)
		}
		t.emit(box)
	}
	for _, chapter := range doc.Chapters() {
		h, err := t.section(&chapter.Section, 0)
		if err != nil {
			return nil, fmt.Errorf("chapter %d: %w", chapter.Number(), err)
		}
		t.res.Headings = append(t.res.Headings, h)
	}
	return t.res, nil
}

func (t *translator) emit(box boxes.Box) {
	t.res.Boxes = append(t.res.Boxes, box)
}

// section emits the boxes for s and its subsections.  The title is
// indented by titleIndent, the body by the indentation of s.
func (t *translator) section(s *model.Section, titleIndent float64) (*Heading, error) {
	if s.NewPage() {
		t.emit(boxes.PageBreak{})
	}

	title := NumberedTitle(s)
	h := &Heading{
		ID:    t.nextID,
		Title: strings.TrimSpace(title.Text()),
		Depth: s.Depth(),
		Open:  s.BookmarkOpen,
	}
	t.nextID++

	var titleBox boxes.Box = boxes.Kern(0)
	if len(title.Chunks) > 0 {
		if !hasFont(title) {
			title.Font = headingFont(s.Depth(), t.font)
		}
		titleBox = t.paragraph(title, t.width-titleIndent)
	}
	t.emit(&boxes.Marked{Box: boxes.Indent(titleIndent, titleBox), ID: h.ID})

	indent := s.Indentation
	for _, e := range s.Content() {
		box, err := t.element(e, t.width-indent)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", strings.TrimSpace(Prefix(s)), err)
		}
		t.emit(boxes.Indent(indent, box))
	}

	for _, sub := range s.Subsections() {
		child, err := t.section(sub, indent)
		if err != nil {
			return nil, err
		}
		h.Children = append(h.Children, child)
	}
	return h, nil
}

// element converts a single flow element.
func (t *translator) element(e model.Element, width float64) (boxes.Box, error) {
	switch e := e.(type) {
	case *model.Chunk:
		if e == nil {
			break
		}
		return t.paragraph(&model.Paragraph{Phrase: model.Phrase{Chunks: []*model.Chunk{e}}}, width), nil
	case *model.Phrase:
		if e == nil {
			break
		}
		return t.paragraph(&model.Paragraph{Phrase: *e}, width), nil
	case *model.Paragraph:
		if e == nil {
			break
		}
		return t.paragraph(e, width), nil
	case *model.Table:
		if e == nil {
			break
		}
		g, err := table.Layout(e, width, t.tableOpts)
		if err != nil {
			return nil, err
		}
		return g.Box(), nil
	case *model.Image:
		if e == nil {
			break
		}
		return boxes.Image(e, width), nil
	case *model.PageBreak:
		return boxes.PageBreak{}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidContent, e)
}

// cellContent converts the text content of a table cell.
func (t *translator) cellContent(e model.Element, width float64, align model.Alignment) (boxes.Box, error) {
	var p model.Paragraph
	switch e := e.(type) {
	case *model.Phrase:
		if e == nil {
			return nil, fmt.Errorf("%w: nil phrase", ErrInvalidContent)
		}
		p.Phrase = *e
	case *model.Paragraph:
		if e == nil {
			return nil, fmt.Errorf("%w: nil paragraph", ErrInvalidContent)
		}
		p = *e
	default:
		return nil, fmt.Errorf("%w: a cell cannot hold %T", ErrInvalidContent, e)
	}
	if p.Alignment == model.AlignUndefined {
		p.Alignment = align
	}
	return t.paragraph(&p, width), nil
}

func (t *translator) paragraph(p *model.Paragraph, width float64) *boxes.Paragraph {
	runs := Runs(&p.Phrase, t.font)
	opt := &boxes.ParagraphOptions{
		Width:           width,
		Leading:         leading(&p.Phrase, runs, t.font),
		IndentLeft:      p.IndentLeft,
		IndentRight:     p.IndentRight,
		FirstLineIndent: p.FirstLineIndent,
		SpaceBefore:     p.SpacingBefore,
		SpaceAfter:      p.SpacingAfter,
		Align:           p.Alignment,
		KeepTogether:    p.KeepTogether,
	}
	return boxes.NewParagraph(runs, opt, t.m)
}

// Runs resolves the fonts of the chunks of ph.  Chunks without a font use
// the font of the phrase, or def if the phrase has no font either.
func Runs(ph *model.Phrase, def *font.Font) []boxes.Run {
	inherited := def
	if ph.Font != nil {
		inherited = ph.Font
	}
	runs := make([]boxes.Run, 0, len(ph.Chunks))
	for _, c := range ph.Chunks {
		f := c.Font
		if f == nil {
			f = inherited
		}
		runs = append(runs, boxes.Run{Text: c.Text, Font: f.Clone()})
	}
	return runs
}

// leading returns the leading of ph, by default one and a half times the
// largest font size used.
func leading(ph *model.Phrase, runs []boxes.Run, def *font.Font) float64 {
	if ph.Leading > 0 {
		return ph.Leading
	}
	size := 0.0
	for _, run := range runs {
		size = math.Max(size, run.Font.Size)
	}
	if size == 0 {
		size = def.Size
		if ph.Font != nil {
			size = ph.Font.Size
		}
	}
	return 1.5 * size
}

func hasFont(p *model.Paragraph) bool {
	if p.Font != nil {
		return true
	}
	for _, c := range p.Chunks {
		if c.Font != nil {
			return true
		}
	}
	return false
}

// headingFont returns the font used for titles without an explicit font.
func headingFont(depth int, def *font.Font) *font.Font {
	f := def.Clone()
	f.Style |= font.Bold
	switch depth {
	case 1:
		f.Size = 18
	case 2:
		f.Size = 16
	case 3:
		f.Size = 14
	}
	return f
}
