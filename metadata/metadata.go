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

// Package metadata reads and writes XMP metadata streams.
package metadata

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"

	"github.com/justifiedsolutions/OpenPDF-sub002"
)

// PDF 2.0 sections: 14.3

// Stream represents an XMP metadata stream for a document.
type Stream struct {
	Data *xmp.Packet
}

// PDF is the XMP namespace for PDF metadata.
type PDF struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Keywords xmp.Text
	Producer xmp.AgentName
}

// Basic holds the document dates and the creating application.
type Basic struct {
	_           xmp.Namespace `xmp:"http://ns.adobe.com/xap/1.0/"`
	_           xmp.Prefix    `xmp:"xmp"`
	CreatorTool xmp.AgentName
	CreateDate  xmp.Date
	ModifyDate  xmp.Date
}

// FromInfo returns a metadata stream carrying the same information as the
// document information dictionary.  Localized values are stored as the
// default and, if lang is known, for lang.  At most one language entry is
// used, so that the encoded packet does not depend on map order.
func FromInfo(info *pdf.Info, lang language.Tag) (*Stream, error) {
	dc := &xmp.DublinCore{}
	setLocalized(&dc.Title, info.Title, lang)
	setLocalized(&dc.Description, info.Subject, lang)
	for _, author := range splitAuthors(info.Author) {
		dc.Creator.Append(xmp.NewProperName(author))
	}

	pdfNS := &PDF{}
	if info.Keywords != "" {
		pdfNS.Keywords = xmp.NewText(info.Keywords)
	}
	if info.Producer != "" {
		pdfNS.Producer = xmp.NewAgentName(info.Producer)
	}

	basic := &Basic{}
	if info.Creator != "" {
		basic.CreatorTool = xmp.NewAgentName(info.Creator)
	}
	if !info.CreationDate.IsZero() {
		basic.CreateDate = xmp.NewDate(info.CreationDate)
	}
	if !info.ModDate.IsZero() {
		basic.ModifyDate = xmp.NewDate(info.ModDate)
	}

	packet := xmp.NewPacket()
	err := packet.Set(dc, pdfNS, basic)
	if err != nil {
		return nil, fmt.Errorf("xmp metadata: %w", err)
	}
	return &Stream{Data: packet}, nil
}

func setLocalized(l *xmp.Localized, text string, lang language.Tag) {
	if text == "" {
		return
	}
	l.Default = xmp.NewText(text)
	if lang != language.Und {
		l.Set(lang, text)
	}
}

// splitAuthors splits a list of authors separated by semicolons.
func splitAuthors(s string) []string {
	var res []string
	for _, a := range strings.Split(s, ";") {
		if a = strings.TrimSpace(a); a != "" {
			res = append(res, a)
		}
	}
	return res
}

// Write adds the metadata stream to the PDF file and returns its reference,
// for use as the Metadata entry of the catalog.
func (s *Stream) Write(w *pdf.Writer) (pdf.Reference, error) {
	if w.Version < pdf.V1_4 {
		return 0, fmt.Errorf("XMP metadata requires PDF 1.4, file is PDF %s", w.Version)
	}
	ref := w.Alloc()

	dict := pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}
	body, err := w.OpenStream(ref, dict, pdf.FilterFlate{})
	if err != nil {
		return 0, err
	}

	err = s.Data.Write(body, nil)
	if err != nil {
		return 0, err
	}

	err = body.Close()
	if err != nil {
		return 0, err
	}

	return ref, nil
}

// Read reads a metadata stream from a PDF file.
// If ref is nil, the function returns nil.
func Read(r *pdf.Reader, ref pdf.Object) (*Stream, error) {
	if ref == nil {
		return nil, nil
	}
	obj, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	stm, ok := obj.(*pdf.Stream)
	if !ok {
		return nil, &pdf.MalformedFileError{
			Err: errors.New("metadata is not a stream"),
		}
	}
	body, err := pdf.DecodeStream(stm)
	if err != nil {
		return nil, err
	}

	packet, err := xmp.Read(body)
	if err != nil {
		return nil, err
	}

	return &Stream{Data: packet}, nil
}

// Equal reports whether s and other represent the same XMP metadata.
func (s *Stream) Equal(other *Stream) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.Data.Equal(other.Data)
}
