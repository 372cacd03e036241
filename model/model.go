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

// Package model defines the content tree of a document.
//
// A document consists either of chapters, each with a tree of numbered
// sections, or of a flat list of elements.  Elements are text runs
// ([Chunk]), styled lines ([Phrase], [Paragraph]) and blocks ([Table],
// [Image], [PageBreak]).  Nodes are checked when they are attached to
// their parent, and a node which violates the structure of the tree is
// rejected with [ErrStructuralViolation].
package model

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"seehuhn.de/go/geom/rect"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/font"
)

// ErrStructuralViolation is returned when a change would break the
// structure of the content tree.
var ErrStructuralViolation = errors.New("structural violation")

// Kind classifies content elements.
type Kind int

// These are the element kinds.
const (
	// KindRun is a run of text in a single font.
	KindRun Kind = iota + 1

	// KindLine is styled text consisting of one or more runs.
	KindLine

	// KindBlock is a flowable block, for example a table.
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindRun:
		return "run"
	case KindLine:
		return "line"
	case KindBlock:
		return "block"
	default:
		return fmt.Sprintf("model.Kind(%d)", int(k))
	}
}

// Element is a node of the content tree.
type Element interface {
	Kind() Kind
}

// Alignment gives the horizontal alignment of text.
type Alignment int

// These are the supported alignments.
const (
	AlignUndefined Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustified
)

// Standard paper sizes, in PDF units.
var (
	A4     = rect.Rect{URx: 595.276, URy: 841.890}
	A5     = rect.Rect{URx: 419.528, URy: 595.276}
	Letter = rect.Rect{URx: 612, URy: 792}
	Legal  = rect.Rect{URx: 612, URy: 1008}
)

// Margins gives the distance between the page edges and the text area.
type Margins struct {
	Left, Right, Top, Bottom float64
}

// Document is the root of the content tree.
type Document struct {
	// PageSize is the media box used for all pages.
	PageSize rect.Rect

	Margins Margins

	// Font is the default font, used by all text without an explicit font.
	Font *font.Font

	// Info holds the document metadata.
	Info pdf.Info

	// Lang is the natural language of the document text.
	Lang language.Tag

	chapters  []*Chapter
	content   []Element
	marginals []Marginal
}

// NewDocument returns an empty document with 12pt Helvetica as the default
// font and 36pt margins.
func NewDocument(pageSize rect.Rect) *Document {
	return &Document{
		PageSize: pageSize,
		Margins:  Margins{Left: 36, Right: 36, Top: 36, Bottom: 36},
		Font:     font.New(font.Helvetica, 12, font.Normal),
	}
}

// AddChapter appends a new chapter.  The chapter number is the number of
// chapters added before it, plus one.  Documents which contain flat
// content cannot hold chapters.
func (d *Document) AddChapter(title *Paragraph) (*Chapter, error) {
	if len(d.content) > 0 {
		return nil, fmt.Errorf("%w: document already has flat content", ErrStructuralViolation)
	}
	c := &Chapter{}
	c.init(nil, len(d.chapters)+1, title)
	c.chapter = true
	c.startsNewPage = true
	d.chapters = append(d.chapters, c)
	return c, nil
}

// Add appends an element to a document without chapters.
func (d *Document) Add(e Element) error {
	if len(d.chapters) > 0 {
		return fmt.Errorf("%w: document already has chapters", ErrStructuralViolation)
	}
	err := checkFlowElement(e)
	if err != nil {
		return err
	}
	d.content = append(d.content, e)
	return nil
}

// Chapters returns the chapters of the document.
func (d *Document) Chapters() []*Chapter {
	return d.chapters
}

// Content returns the flat content of the document.
func (d *Document) Content() []Element {
	return d.content
}

// AddMarginal registers a running header or footer.
func (d *Document) AddMarginal(m Marginal) {
	d.marginals = append(d.marginals, m)
}

// Marginals returns the registered running headers and footers.
func (d *Document) Marginals() []Marginal {
	return d.marginals
}

// IsEmpty reports whether the document has neither chapters nor content.
func (d *Document) IsEmpty() bool {
	return len(d.chapters) == 0 && len(d.content) == 0
}

// checkFlowElement checks that e can be placed in the main text flow.
func checkFlowElement(e Element) error {
	if e == nil {
		return fmt.Errorf("%w: nil element", ErrStructuralViolation)
	}
	switch e.Kind() {
	case KindRun, KindLine, KindBlock:
		return nil
	default:
		return fmt.Errorf("%w: %T has unknown kind %s", ErrStructuralViolation, e, e.Kind())
	}
}
