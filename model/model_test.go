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

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChapterNewPage(t *testing.T) {
	doc := NewDocument(A4)
	c, err := doc.AddChapter(NewParagraph("One", nil))
	if err != nil {
		t.Fatal(err)
	}
	if !c.NewPage() {
		t.Error("chapter does not start on a new page")
	}
	err = c.SetNewPage(false)
	if !errors.Is(err, ErrStructuralViolation) {
		t.Errorf("expected ErrStructuralViolation, got %v", err)
	}
	if !c.NewPage() {
		t.Error("failed SetNewPage changed the chapter")
	}
	if err := c.SetNewPage(true); err != nil {
		t.Errorf("SetNewPage(true) on a chapter: %v", err)
	}

	s := c.AddSection(NewParagraph("One.One", nil))
	if s.NewPage() {
		t.Error("sections must not start on a new page by default")
	}
	if err := s.SetNewPage(true); err != nil {
		t.Fatal(err)
	}
	if err := s.SetNewPage(false); err != nil {
		t.Errorf("SetNewPage(false) on a section: %v", err)
	}
	if s.NewPage() {
		t.Error("SetNewPage(false) had no effect")
	}
}

func TestChaptersExcludeContent(t *testing.T) {
	doc := NewDocument(A4)
	if err := doc.Add(NewParagraph("text", nil)); err != nil {
		t.Fatal(err)
	}
	_, err := doc.AddChapter(NewParagraph("Chapter", nil))
	if !errors.Is(err, ErrStructuralViolation) {
		t.Errorf("expected ErrStructuralViolation, got %v", err)
	}

	doc = NewDocument(A4)
	if _, err := doc.AddChapter(NewParagraph("Chapter", nil)); err != nil {
		t.Fatal(err)
	}
	err = doc.Add(NewParagraph("text", nil))
	if !errors.Is(err, ErrStructuralViolation) {
		t.Errorf("expected ErrStructuralViolation, got %v", err)
	}
	if len(doc.Content()) != 0 {
		t.Error("rejected content was stored")
	}
}

func TestSectionNumbers(t *testing.T) {
	doc := NewDocument(A4)
	c1, _ := doc.AddChapter(nil)
	c2, _ := doc.AddChapter(nil)
	s21 := c2.AddSection(nil)
	s22 := c2.AddSection(nil)
	s221 := s22.AddSection(nil)
	s11 := c1.AddSection(nil)

	cases := []struct {
		s    *Section
		want []int
	}{
		{&c1.Section, []int{1}},
		{&c2.Section, []int{2}},
		{s21, []int{2, 1}},
		{s22, []int{2, 2}},
		{s221, []int{2, 2, 1}},
		{s11, []int{1, 1}},
	}
	for _, c := range cases {
		if d := cmp.Diff(c.want, c.s.Numbers()); d != "" {
			t.Errorf("wrong numbers (-want +got):\n%s", d)
		}
		if c.s.Depth() != len(c.want) {
			t.Errorf("%v: wrong depth %d", c.want, c.s.Depth())
		}
	}
	if !c1.IsChapter() || s11.IsChapter() {
		t.Error("wrong IsChapter")
	}
}

type note struct{}

func (note) Kind() Kind { return 0 }

func TestCapabilityCheck(t *testing.T) {
	p := NewPhrase("a", nil)
	if err := p.Add(NewChunk("b", nil)); err != nil {
		t.Fatal(err)
	}
	tab, _ := NewTable(2)
	if err := p.Add(tab); !errors.Is(err, ErrStructuralViolation) {
		t.Errorf("phrase accepted a table: %v", err)
	}
	if got := p.Text(); got != "ab" {
		t.Errorf("wrong text %q", got)
	}

	doc := NewDocument(A4)
	if err := doc.Add(nil); !errors.Is(err, ErrStructuralViolation) {
		t.Errorf("document accepted nil: %v", err)
	}
	if err := doc.Add(note{}); !errors.Is(err, ErrStructuralViolation) {
		t.Errorf("document accepted an element of unknown kind: %v", err)
	}
}

func TestPhraseAddCopiesFont(t *testing.T) {
	inner := NewPhrase("x", NewDocument(A4).Font)
	outer := &Phrase{}
	if err := outer.Add(inner); err != nil {
		t.Fatal(err)
	}
	if outer.Chunks[0].Font != inner.Font {
		t.Error("font not resolved when adding a phrase")
	}
	if outer.Chunks[0] == inner.Chunks[0] {
		t.Error("chunk was not copied")
	}
}

func TestTableChecks(t *testing.T) {
	if _, err := NewTable(0); !errors.Is(err, ErrStructuralViolation) {
		t.Errorf("NewTable(0): %v", err)
	}
	tab, _ := NewTable(3)
	if err := tab.SetWidths(1, 2); !errors.Is(err, ErrStructuralViolation) {
		t.Errorf("wrong number of widths: %v", err)
	}
	if err := tab.SetWidths(1, 2, 1); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]float64{0.25, 0.5, 0.25}, tab.Widths()); d != "" {
		t.Errorf("widths not normalized (-want +got):\n%s", d)
	}

	wide := NewCell(NewPhrase("x", nil))
	wide.ColSpan = 4
	if err := tab.AddCell(wide); !errors.Is(err, ErrStructuralViolation) {
		t.Errorf("cell wider than the table: %v", err)
	}
	if err := tab.AddCell(NewCell(NewChunk("x", nil))); !errors.Is(err, ErrStructuralViolation) {
		t.Errorf("cell holding a chunk: %v", err)
	}
	if err := tab.AddCell(NewCell(tab)); !errors.Is(err, ErrStructuralViolation) {
		t.Errorf("table inside itself: %v", err)
	}
	if err := tab.AddText("ok"); err != nil {
		t.Error(err)
	}
	if len(tab.Cells()) != 1 {
		t.Errorf("expected one cell, got %d", len(tab.Cells()))
	}
}

func TestHeaderFooter(t *testing.T) {
	hf := NewHeaderFooter(NewPhrase("page ", nil), NewPhrase(" of the book", nil), true)
	if got := hf.Render(7).Text(); got != "page 7 of the book" {
		t.Errorf("wrong text %q", got)
	}

	hf.ValidForFirstPage = false
	if hf.Applies(1) || !hf.Applies(2) {
		t.Error("ValidForFirstPage=false ignored")
	}
	hf.ValidForFirstPage = true
	if !hf.Applies(1) {
		t.Error("ValidForFirstPage=true ignored")
	}
}

func TestImageIDs(t *testing.T) {
	a := NewImage(nil, 1, 1, "DeviceGray", []byte{0})
	b := NewImage(nil, 1, 1, "DeviceGray", []byte{0})
	if a.ID == b.ID {
		t.Error("images share an identity")
	}
	w, h := a.Size()
	if w != 1 || h != 1 {
		t.Errorf("wrong size %gx%g", w, h)
	}
}
