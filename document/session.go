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

package document

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/graphics"
	"github.com/justifiedsolutions/OpenPDF-sub002/layout"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
	"github.com/justifiedsolutions/OpenPDF-sub002/outline"
	"github.com/justifiedsolutions/OpenPDF-sub002/pagetree"
)

// session holds the objects shared between the pages of one file.
type session struct {
	out  *pdf.Writer
	tree *pagetree.Writer
	log  *slog.Logger

	fonts  map[pdf.Name]pdf.Reference
	images map[pdf.ResourceID]pdf.Reference
	marks  map[int]outline.Destination
}

func newSession(out *pdf.Writer, logger *slog.Logger) *session {
	return &session{
		out:    out,
		tree:   pagetree.NewWriter(out),
		log:    logger,
		fonts:  make(map[pdf.Name]pdf.Reference),
		images: make(map[pdf.ResourceID]pdf.Reference),
		marks:  make(map[int]outline.Destination),
	}
}

// writePage writes the content stream and the page dictionary of pg.
func (s *session) writePage(pg *layout.Page) error {
	buf := &bytes.Buffer{}
	gw := graphics.NewWriter(buf, nil)
	pg.Draw(gw)
	err := gw.Close()
	if err != nil {
		return fmt.Errorf("page %d: %w", pg.Number, err)
	}

	contentRef := s.out.Alloc()
	stm, err := s.out.OpenStream(contentRef, nil, pdf.FilterFlate{})
	if err != nil {
		return err
	}
	_, err = stm.Write(buf.Bytes())
	if err != nil {
		return err
	}
	err = stm.Close()
	if err != nil {
		return err
	}

	res, err := s.resources(gw.Resources)
	if err != nil {
		return fmt.Errorf("page %d: %w", pg.Number, err)
	}
	pageRef, err := s.tree.AppendPage(pdf.Dict{
		"Contents":  contentRef,
		"Resources": res,
	})
	if err != nil {
		return err
	}
	for _, mark := range pg.Marks {
		s.marks[mark.ID] = outline.Destination{Page: pageRef, Top: mark.Top}
	}

	s.log.Debug("page written",
		"page", pg.Number, "ref", pageRef, "content", buf.Len())
	return nil
}

// resources builds the resource dictionary of a page.  Fonts and images
// are written to the file the first time they are used.
func (s *session) resources(r *graphics.Resources) (pdf.Dict, error) {
	res := pdf.Dict{
		"ProcSet": pdf.Array{pdf.Name("PDF"), pdf.Name("Text"), pdf.Name("ImageB"), pdf.Name("ImageC")},
	}

	if names := r.FontNames(); len(names) > 0 {
		fonts := pdf.Dict{}
		for _, name := range names {
			ref, err := s.fontRef(r.Font[name])
			if err != nil {
				return nil, err
			}
			fonts[name] = ref
		}
		res["Font"] = fonts
	}

	if names := r.ImageNames(); len(names) > 0 {
		xObjects := pdf.Dict{}
		for _, name := range names {
			ref, err := s.imageRef(r.XObject[name])
			if err != nil {
				return nil, err
			}
			xObjects[name] = ref
		}
		res["XObject"] = xObjects
	}

	return res, nil
}

func (s *session) fontRef(f *font.Font) (pdf.Reference, error) {
	key := f.PostScriptName()
	if ref, ok := s.fonts[key]; ok {
		return ref, nil
	}
	ref := s.out.Alloc()
	err := s.out.Put(ref, f.Dict())
	if err != nil {
		return 0, err
	}
	s.fonts[key] = ref
	return ref, nil
}

func (s *session) imageRef(img *model.Image) (pdf.Reference, error) {
	if ref, ok := s.images[img.ID]; ok {
		return ref, nil
	}
	if img.Width <= 0 || img.Height <= 0 {
		return 0, fmt.Errorf("image %s: invalid size %dx%d", img.ID, img.Width, img.Height)
	}

	bpc := img.BitsPerComponent
	if bpc == 0 {
		bpc = 8
	}
	cs := img.ColorSpace
	if cs == "" {
		cs = "DeviceRGB"
	}
	dict := pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Integer(img.Width),
		"Height":           pdf.Integer(img.Height),
		"ColorSpace":       cs,
		"BitsPerComponent": pdf.Integer(bpc),
	}
	var filters []pdf.Filter
	if img.Filter != "" {
		dict["Filter"] = img.Filter
	} else {
		filters = append(filters, pdf.FilterFlate{})
	}

	ref := s.out.Alloc()
	stm, err := s.out.OpenStream(ref, dict, filters...)
	if err != nil {
		return 0, err
	}
	_, err = stm.Write(img.Data)
	if err != nil {
		return 0, err
	}
	err = stm.Close()
	if err != nil {
		return 0, err
	}
	s.images[img.ID] = ref
	return ref, nil
}
