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

package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
)

func convert(t *testing.T, dir, src string) *model.Document {
	t.Helper()
	cfg := defaultConfig()
	doc, err := cfg.document()
	if err != nil {
		t.Fatal(err)
	}
	err = convertMarkdown([]byte(src), doc, cfg, newImageLoader(dir, &pdf.Registry{}))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func paragraphText(t *testing.T, e model.Element) string {
	t.Helper()
	p, ok := e.(*model.Paragraph)
	if !ok {
		t.Fatalf("expected a paragraph, got %T", e)
	}
	return p.Text()
}

const book = `Intro text.

# First

Body *em* and **strong**.

## Sub

- one
- two

1. a
2. b

# Second

---

| A | B |
|---|--:|
| 1 | 2 |
`

func TestChapters(t *testing.T) {
	doc := convert(t, t.TempDir(), book)

	chapters := doc.Chapters()
	if len(chapters) != 2 {
		t.Fatalf("%d chapters", len(chapters))
	}
	first, second := chapters[0], chapters[1]
	if first.Title.Text() != "First" || second.Title.Text() != "Second" {
		t.Errorf("titles %q, %q", first.Title.Text(), second.Title.Text())
	}

	body := first.Content()
	if len(body) != 2 {
		t.Fatalf("%d elements in the first chapter", len(body))
	}
	if text := paragraphText(t, body[0]); text != "Intro text." {
		t.Errorf("leading content %q", text)
	}

	p := body[1].(*model.Paragraph)
	var got []string
	var styles []font.Style
	for _, c := range p.Chunks {
		got = append(got, c.Text)
		style := font.Normal
		if c.Font != nil {
			style = c.Font.Style
		}
		styles = append(styles, style)
	}
	if d := cmp.Diff([]string{"Body ", "em", " and ", "strong", "."}, got); d != "" {
		t.Errorf("chunks (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]font.Style{font.Normal, font.Italic, font.Normal, font.Bold, font.Normal}, styles); d != "" {
		t.Errorf("styles (-want +got):\n%s", d)
	}

	subs := first.Subsections()
	if len(subs) != 1 || subs[0].Title.Text() != "Sub" {
		t.Fatalf("subsections %v", subs)
	}
	var items []string
	for _, e := range subs[0].Content() {
		items = append(items, paragraphText(t, e))
	}
	if d := cmp.Diff([]string{"• one", "• two", "1. a", "2. b"}, items); d != "" {
		t.Errorf("list items (-want +got):\n%s", d)
	}
	if item := subs[0].Content()[0].(*model.Paragraph); item.FirstLineIndent >= 0 {
		t.Errorf("list item without hanging indent: %g", item.FirstLineIndent)
	}

	rest := second.Content()
	if len(rest) != 2 {
		t.Fatalf("%d elements in the second chapter", len(rest))
	}
	if _, ok := rest[0].(*model.PageBreak); !ok {
		t.Errorf("thematic break gave %T", rest[0])
	}
	table, ok := rest[1].(*model.Table)
	if !ok {
		t.Fatalf("expected a table, got %T", rest[1])
	}
	if table.Columns() != 2 || table.HeaderRows != 1 || len(table.Cells()) != 4 {
		t.Fatalf("table %d columns, %d header rows, %d cells",
			table.Columns(), table.HeaderRows, len(table.Cells()))
	}
	head := table.Cells()[0]
	if head.Grey != 0.9 {
		t.Errorf("header grey %g", head.Grey)
	}
	ph := head.Content.(*model.Phrase)
	if ph.Text() != "A" || ph.Chunks[0].Font == nil || ph.Chunks[0].Font.Style != font.Bold {
		t.Errorf("header cell %q", ph.Text())
	}
	if table.Cells()[3].HAlign != model.AlignRight {
		t.Errorf("right column alignment %d", table.Cells()[3].HAlign)
	}
}

func TestHeadingLevels(t *testing.T) {
	doc := convert(t, t.TempDir(), "## A\n\n### B\n\n#### C\n\n## D\n")

	chapters := doc.Chapters()
	if len(chapters) != 2 {
		t.Fatalf("%d chapters", len(chapters))
	}
	b := chapters[0].Subsections()
	if len(b) != 1 || b[0].Title.Text() != "B" {
		t.Fatalf("subsections of A: %v", b)
	}
	c := b[0].Subsections()
	if len(c) != 1 || c[0].Title.Text() != "C" {
		t.Fatalf("subsections of B: %v", c)
	}
	if d := cmp.Diff([]int{1, 1, 1}, c[0].Numbers()); d != "" {
		t.Errorf("numbers (-want +got):\n%s", d)
	}
}

func TestHeadingBeforeChapter(t *testing.T) {
	cfg := defaultConfig()
	doc, err := cfg.document()
	if err != nil {
		t.Fatal(err)
	}
	err = convertMarkdown([]byte("## Sub\n\n# Chapter\n"), doc, cfg, newImageLoader(".", nil))
	if err == nil {
		t.Error("section before the first chapter was accepted")
	}
}

func TestFlatContent(t *testing.T) {
	doc := convert(t, t.TempDir(), "one\ntwo\n\nthree\n")

	if len(doc.Chapters()) != 0 {
		t.Errorf("%d chapters", len(doc.Chapters()))
	}
	var got []string
	for _, e := range doc.Content() {
		got = append(got, paragraphText(t, e))
	}
	if d := cmp.Diff([]string{"one two", "three"}, got); d != "" {
		t.Errorf("content (-want +got):\n%s", d)
	}
}

func TestCodeBlock(t *testing.T) {
	doc := convert(t, t.TempDir(), "# Code\n\n```\nx := 1\ny := 2\n```\n")

	content := doc.Chapters()[0].Content()
	if len(content) != 1 {
		t.Fatalf("%d elements", len(content))
	}
	p := content[0].(*model.Paragraph)
	if p.Font == nil || p.Font.Family != font.Courier {
		t.Errorf("code font %v", p.Font)
	}
	if p.Text() != "x := 1\ny := 2" {
		t.Errorf("code text %q", p.Text())
	}
}

func TestImages(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 2, 3))
	img.Pix[0] = 0x80
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "pic.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	doc := convert(t, dir, "![first](pic.png)\n\n![again](pic.png)\n")

	content := doc.Content()
	if len(content) != 2 {
		t.Fatalf("%d elements", len(content))
	}
	a, ok := content[0].(*model.Image)
	if !ok {
		t.Fatalf("expected an image, got %T", content[0])
	}
	if content[1] != model.Element(a) {
		t.Error("repeated image was loaded twice")
	}
	if a.Width != 2 || a.Height != 3 || a.ColorSpace != "DeviceGray" {
		t.Errorf("image %dx%d %s", a.Width, a.Height, a.ColorSpace)
	}
	if len(a.Data) != 6 || a.Data[0] != 0x80 {
		t.Errorf("samples %x", a.Data)
	}
	if a.Alignment != model.AlignCenter {
		t.Errorf("alignment %d", a.Alignment)
	}
}
