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

package metadata

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/text/language"
	"seehuhn.de/go/xmp"

	"github.com/justifiedsolutions/OpenPDF-sub002"
)

func TestRoundTrip(t *testing.T) {
	info := &pdf.Info{
		Title:        "Test Document",
		Author:       "Test Author; Second Author",
		Subject:      "A short description.",
		Keywords:     "test, XMP",
		Producer:     "pdfbook",
		CreationDate: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	original, err := FromInfo(info, language.German)
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	w, err := pdf.NewWriter(buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	ref, err := original.Write(w)
	if err != nil {
		t.Fatalf("failed to write metadata: %v", err)
	}
	pages := w.Alloc()
	err = w.Put(pages, pdf.Dict{"Type": pdf.Name("Pages"), "Kids": pdf.Array{}, "Count": pdf.Integer(0)})
	if err != nil {
		t.Fatal(err)
	}
	w.Root = w.Alloc()
	err = w.Put(w.Root, (&pdf.Catalog{Pages: pages, Metadata: ref}).AsDict())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	cat, err := r.GetDict(r.Trailer["Root"])
	if err != nil {
		t.Fatal(err)
	}
	extracted, err := Read(r, cat["Metadata"])
	if err != nil {
		t.Fatalf("failed to read metadata: %v", err)
	}

	var originalDC, extractedDC xmp.DublinCore
	original.Data.Get(&originalDC)
	extracted.Data.Get(&extractedDC)
	if diff := cmp.Diff(extractedDC, originalDC, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip failed (-got +want):\n%s", diff)
	}

	var originalPDF, extractedPDF PDF
	original.Data.Get(&originalPDF)
	extracted.Data.Get(&extractedPDF)
	if diff := cmp.Diff(extractedPDF, originalPDF); diff != "" {
		t.Errorf("pdf namespace differs (-got +want):\n%s", diff)
	}
	if extractedPDF.Keywords.V != "test, XMP" {
		t.Errorf("keywords: %q", extractedPDF.Keywords.V)
	}
}

func TestLocalized(t *testing.T) {
	info := &pdf.Info{Title: "Titel", Subject: "Beschreibung"}
	s, err := FromInfo(info, language.German)
	if err != nil {
		t.Fatal(err)
	}
	var dc xmp.DublinCore
	s.Data.Get(&dc)
	for name, l := range map[string]xmp.Localized{"title": dc.Title, "description": dc.Description} {
		if l.Default.V == "" {
			t.Errorf("%s has no default value", name)
		}
		if len(l.V) > 1 {
			t.Errorf("%s has %d language entries", name, len(l.V))
		}
	}
}

func TestDeterministic(t *testing.T) {
	info := &pdf.Info{
		Title:   "Ein Titel",
		Subject: "Eine Beschreibung",
		Author:  "A; B; C",
	}
	var first []byte
	for i := 0; i < 20; i++ {
		s, err := FromInfo(info, language.German)
		if err != nil {
			t.Fatal(err)
		}
		buf := &bytes.Buffer{}
		err = s.Data.Write(buf, nil)
		if err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			first = buf.Bytes()
		} else if !bytes.Equal(first, buf.Bytes()) {
			t.Fatalf("run %d differs from the first run", i+1)
		}
	}
}

func TestVersion(t *testing.T) {
	w, err := pdf.NewWriter(&bytes.Buffer{}, &pdf.WriterOptions{Version: pdf.V1_3})
	if err != nil {
		t.Fatal(err)
	}
	s, err := FromInfo(&pdf.Info{Title: "x"}, language.Und)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Write(w); err == nil {
		t.Error("XMP metadata accepted for PDF 1.3")
	}
}

func TestSplitAuthors(t *testing.T) {
	got := splitAuthors(" A. Writer ;; B. Writer ")
	want := []string{"A. Writer", "B. Writer"}
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
	if splitAuthors("") != nil {
		t.Error("empty author list")
	}
}
