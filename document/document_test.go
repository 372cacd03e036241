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
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lpdf "github.com/ledongthuc/pdf"
	"golang.org/x/text/language"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/metadata"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
	"github.com/justifiedsolutions/OpenPDF-sub002/outline"
	"github.com/justifiedsolutions/OpenPDF-sub002/pagetree"
)

var testTime = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func testOptions() *Options {
	return &Options{
		Writer: &pdf.WriterOptions{
			ID: [][]byte{[]byte("0123456789abcdef"), []byte("0123456789abcdef")},
		},
		Time:     testTime,
		Metadata: true,
	}
}

// testDocument returns a document with two chapters, a table, an image
// used twice and a page footer.
func testDocument(t *testing.T) *model.Document {
	t.Helper()
	doc := model.NewDocument(model.A5)
	doc.Info.Title = "Test Book"
	doc.Info.Author = "A. Writer"
	doc.Lang = language.English

	footer := model.NewHeaderFooter(model.NewPhrase("page ", nil), nil, true)
	footer.Align = model.AlignCenter
	doc.AddMarginal(footer)

	img := model.NewImage(nil, 2, 2, "DeviceGray", []byte{0, 255, 255, 0})
	img.ScaledWidth, img.ScaledHeight = 50, 50

	c1, err := doc.AddChapter(model.NewParagraph("Hello", nil))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		err := c1.Add(model.NewParagraph("Lorem ipsum dolor sit amet, consectetur adipiscing elit.", nil))
		if err != nil {
			t.Fatal(err)
		}
	}
	s11 := c1.AddSection(model.NewParagraph("Details", nil))
	if err := s11.Add(img); err != nil {
		t.Fatal(err)
	}

	c2, err := doc.AddChapter(model.NewParagraph("Tables", nil))
	if err != nil {
		t.Fatal(err)
	}
	tab, err := model.NewTable(3)
	if err != nil {
		t.Fatal(err)
	}
	tab.HeaderRows = 1
	for i := 0; i < 12; i++ {
		if err := tab.AddText("cell"); err != nil {
			t.Fatal(err)
		}
	}
	if err := c2.Add(tab); err != nil {
		t.Fatal(err)
	}
	if err := c2.Add(img); err != nil {
		t.Fatal(err)
	}
	return doc
}

func writeTest(t *testing.T, doc *model.Document) ([]byte, *Stats) {
	t.Helper()
	buf := &bytes.Buffer{}
	stats, err := Write(doc, buf, testOptions())
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes(), stats
}

// walk calls fn for every reference contained in obj.
func walk(obj pdf.Object, fn func(pdf.Reference)) {
	switch obj := obj.(type) {
	case pdf.Reference:
		fn(obj)
	case pdf.Array:
		for _, elem := range obj {
			walk(elem, fn)
		}
	case pdf.Dict:
		for _, val := range obj {
			walk(val, fn)
		}
	case *pdf.Stream:
		walk(obj.Dict, fn)
	}
}

func TestReferencesResolve(t *testing.T) {
	data, stats := writeTest(t, testDocument(t))

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}

	n := 0
	check := func(ref pdf.Reference) {
		obj, err := r.Get(ref)
		if err != nil {
			t.Errorf("%s: %v", ref, err)
		} else if obj == nil {
			t.Errorf("%s does not resolve", ref)
		}
		n++
	}
	walk(r.Trailer, check)
	for _, entry := range r.Objects() {
		obj, err := r.Get(entry.Ref)
		if err != nil {
			t.Fatalf("%s: %v", entry.Ref, err)
		}
		walk(obj, check)
	}
	if n == 0 {
		t.Fatal("no references found")
	}

	numPages, err := pagetree.NumPages(r)
	if err != nil {
		t.Fatal(err)
	}
	if numPages != stats.Pages || numPages < 3 {
		t.Errorf("page tree has %d pages, session wrote %d", numPages, stats.Pages)
	}
	if stats.Images != 1 {
		t.Errorf("image stored %d times", stats.Images)
	}
}

func TestIndependentReader(t *testing.T) {
	data, stats := writeTest(t, testDocument(t))

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.NumPage(); got != stats.Pages {
		t.Errorf("reader found %d pages, expected %d", got, stats.Pages)
	}
	text, err := r.Page(1).GetPlainText(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "Hello") {
		t.Errorf("chapter title missing from first page: %q", text)
	}
}

func TestDeterministic(t *testing.T) {
	first, _ := writeTest(t, testDocument(t))
	for i := 0; i < 3; i++ {
		again, _ := writeTest(t, testDocument(t))
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d differs from the first run", i+2)
		}
	}
}

func TestOutline(t *testing.T) {
	data, _ := writeTest(t, testDocument(t))
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	o, err := outline.Read(r)
	if err != nil {
		t.Fatal(err)
	}

	var titles []string
	var visit func(items []*outline.Item)
	visit = func(items []*outline.Item) {
		for _, item := range items {
			titles = append(titles, item.Title)
			if item.Dest.Page == 0 {
				t.Errorf("%q has no destination", item.Title)
			}
			visit(item.Children)
		}
	}
	visit(o.Items)
	want := []string{"1 Hello", "1.1 Details", "2 Tables"}
	if d := cmp.Diff(want, titles); d != "" {
		t.Errorf("outline titles (-want +got):\n%s", d)
	}

	p1, _, err := pagetree.GetPage(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if o.Items[0].Dest.Page != p1 {
		t.Errorf("chapter 1 points to %s, first page is %s", o.Items[0].Dest.Page, p1)
	}
	if o.Items[1].Dest.Page == p1 {
		t.Error("chapter 2 does not start on a new page")
	}
}

func TestCatalog(t *testing.T) {
	data, _ := writeTest(t, testDocument(t))
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	cat, err := r.GetDict(r.Trailer["Root"])
	if err != nil {
		t.Fatal(err)
	}
	if lang, _ := cat["Lang"].(pdf.String); lang.AsTextString() != "en" {
		t.Errorf("wrong language %q", lang)
	}

	info, err := r.GetDict(r.Trailer["Info"])
	if err != nil {
		t.Fatal(err)
	}
	if title, _ := info["Title"].(pdf.String); title.AsTextString() != "Test Book" {
		t.Errorf("wrong title %q", title)
	}
	if producer, _ := info["Producer"].(pdf.String); producer.AsTextString() != DefaultProducer {
		t.Errorf("wrong producer %q", producer)
	}
	date, _ := info["CreationDate"].(pdf.String)
	created, err := date.AsDate()
	if err != nil {
		t.Fatal(err)
	}
	if !created.Equal(testTime) {
		t.Errorf("creation date %s, expected %s", created, testTime)
	}

	stm, err := metadata.Read(r, cat["Metadata"])
	if err != nil {
		t.Fatal(err)
	}
	if stm == nil {
		t.Fatal("metadata stream missing")
	}
}

func TestEmptyDocument(t *testing.T) {
	data, stats := writeTest(t, model.NewDocument(model.A4))
	if stats.Pages != 1 {
		t.Errorf("empty document has %d pages", stats.Pages)
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	cat, err := r.GetDict(r.Trailer["Root"])
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cat["Outlines"]; ok {
		t.Error("empty document has an outline")
	}
}

func TestMissingPageSize(t *testing.T) {
	doc := &model.Document{}
	_, err := Write(doc, &bytes.Buffer{}, nil)
	if err == nil {
		t.Error("document without page size accepted")
	}
}
