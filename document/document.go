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

// Package document writes a content tree to a PDF file.
//
// A write session translates the content tree into boxes, distributes
// the boxes over pages and writes the pages, the page tree, the document
// outline and the document metadata to the output.
package document

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"seehuhn.de/go/geom/rect"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/layout"
	"github.com/justifiedsolutions/OpenPDF-sub002/metadata"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
	"github.com/justifiedsolutions/OpenPDF-sub002/outline"
	"github.com/justifiedsolutions/OpenPDF-sub002/translate"
)

// DefaultProducer is stored in the Producer field of the document
// information dictionary, if the document does not name a producer.
const DefaultProducer = "github.com/justifiedsolutions/OpenPDF-sub002"

// Options control a write session.
type Options struct {
	// Writer is passed to [pdf.NewWriter].
	Writer *pdf.WriterOptions

	// Metrics gives the font metrics.  If nil, [font.Standard] is used.
	Metrics font.Metrics

	// Time is used as the creation date, if the document information does
	// not give one.  If Time is zero, the current time is used.
	Time time.Time

	// Metadata adds an XMP metadata stream to the document catalog.
	Metadata bool

	// Logger, if set, receives debug records for the pages written.
	Logger *slog.Logger
}

// Stats summarizes a write session.
type Stats struct {
	Pages  int
	Fonts  int
	Images int
}

// Create writes doc to the file with the given name.
func Create(fileName string, doc *model.Document, opt *Options) (*Stats, error) {
	fd, err := os.Create(fileName)
	if err != nil {
		return nil, err
	}
	stats, err := Write(doc, fd, opt)
	if err != nil {
		fd.Close()
		return nil, err
	}
	err = fd.Close()
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Write writes doc as a complete PDF file to w.
func Write(doc *model.Document, w io.Writer, opt *Options) (*Stats, error) {
	if opt == nil {
		opt = &Options{}
	}
	if doc.PageSize.IsZero() {
		return nil, fmt.Errorf("%w: page size not set", model.ErrStructuralViolation)
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tr, err := translate.Document(doc, &translate.Options{Metrics: opt.Metrics})
	if err != nil {
		return nil, err
	}

	out, err := pdf.NewWriter(w, opt.Writer)
	if err != nil {
		return nil, err
	}
	s := newSession(out, logger)
	s.tree.Attr = pdf.Dict{"MediaBox": rectArray(doc.PageSize)}

	p := layout.New(&layout.Options{
		PageSize:  doc.PageSize,
		Margins:   doc.Margins,
		Marginals: doc.Marginals(),
		Font:      doc.Font,
		Metrics:   opt.Metrics,
		Logger:    logger,
	}, s.writePage)
	for _, box := range tr.Boxes {
		err := p.Add(box)
		if err != nil {
			return nil, err
		}
	}
	err = p.Close()
	if err != nil {
		return nil, err
	}

	pagesRef, err := s.tree.Close()
	if err != nil {
		return nil, err
	}
	cat := &pdf.Catalog{
		Pages: pagesRef,
		Lang:  doc.Lang,
	}

	o := s.outline(tr.Headings)
	cat.Outlines, err = o.Write(out)
	if err != nil {
		return nil, fmt.Errorf("outline: %w", err)
	}
	if cat.Outlines != 0 {
		cat.PageMode = "UseOutlines"
	}

	info := documentInfo(&doc.Info, opt.Time)
	out.Info = out.Alloc()
	err = out.Put(out.Info, info.AsDict())
	if err != nil {
		return nil, err
	}

	if opt.Metadata {
		stm, err := metadata.FromInfo(info, doc.Lang)
		if err != nil {
			return nil, err
		}
		cat.Metadata, err = stm.Write(out)
		if err != nil {
			return nil, err
		}
	}

	out.Root = out.Alloc()
	err = out.Put(out.Root, cat.AsDict())
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Pages:  s.tree.NumPages(),
		Fonts:  len(s.fonts),
		Images: len(s.images),
	}
	err = out.Close()
	if err != nil {
		return nil, err
	}
	logger.Debug("document written",
		"pages", stats.Pages, "fonts", stats.Fonts, "images", stats.Images)
	return stats, nil
}

// documentInfo fills in the producer and dates.
func documentInfo(orig *pdf.Info, now time.Time) *pdf.Info {
	info := *orig
	if info.Producer == "" {
		info.Producer = DefaultProducer
	}
	if info.CreationDate.IsZero() {
		if now.IsZero() {
			now = time.Now()
		}
		info.CreationDate = now
	}
	if info.ModDate.IsZero() {
		info.ModDate = info.CreationDate
	}
	return &info
}

// outline converts the chapter and section headings into outline items.
func (s *session) outline(headings []*translate.Heading) *outline.Outline {
	o := &outline.Outline{}
	var convert func(h *translate.Heading) *outline.Item
	convert = func(h *translate.Heading) *outline.Item {
		item := &outline.Item{
			Title: h.Title,
			Open:  h.Open,
			Bold:  h.Depth == 1,
			Dest:  s.marks[h.ID],
		}
		for _, child := range h.Children {
			item.Children = append(item.Children, convert(child))
		}
		return item
	}
	for _, h := range headings {
		o.Items = append(o.Items, convert(h))
	}
	return o
}

func rectArray(r rect.Rect) pdf.Array {
	return pdf.Array{pdf.Real(r.LLx), pdf.Real(r.LLy), pdf.Real(r.URx), pdf.Real(r.URy)}
}
