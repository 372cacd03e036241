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

package layout

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/geom/rect"

	"github.com/justifiedsolutions/OpenPDF-sub002/boxes"
	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/graphics"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
	"github.com/justifiedsolutions/OpenPDF-sub002/table"
)

var courier = font.New(font.Courier, 10, font.Normal)

// The text area is 160 units wide and 260 units high.
func testOptions(marginals ...model.Marginal) *Options {
	return &Options{
		PageSize:  rect.Rect{URx: 200, URy: 300},
		Margins:   model.Margins{Left: 20, Right: 20, Top: 20, Bottom: 20},
		Marginals: marginals,
		Font:      courier,
	}
}

type collector struct {
	pages  []*Page
	states []State
	p      *Paginator
}

func (c *collector) emit(pg *Page) error {
	c.pages = append(c.pages, pg)
	c.states = append(c.states, c.p.State())
	return nil
}

func paginate(t *testing.T, opt *Options, bb ...boxes.Box) *collector {
	t.Helper()
	c := &collector{}
	c.p = New(opt, c.emit)
	for _, box := range bb {
		if err := c.p.Add(box); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.p.Close(); err != nil {
		t.Fatal(err)
	}
	return c
}

func marginalText(pg *Page) []string {
	var res []string
	for _, p := range pg.Marginals {
		if line, ok := p.Box.(*boxes.Line); ok {
			res = append(res, line.String())
		}
	}
	return res
}

func TestFooterFirstPage(t *testing.T) {
	for _, first := range []bool{false, true} {
		footer := model.NewHeaderFooter(model.NewPhrase("Page ", nil), nil, true)
		footer.ValidForFirstPage = first
		c := paginate(t, testOptions(footer),
			boxes.Kern(10), boxes.PageBreak{},
			boxes.Kern(10), boxes.PageBreak{},
			boxes.Kern(10))

		if len(c.pages) != 3 {
			t.Fatalf("got %d pages", len(c.pages))
		}
		var got [][]string
		for _, pg := range c.pages {
			got = append(got, marginalText(pg))
		}
		want := [][]string{nil, {"Page 2"}, {"Page 3"}}
		if first {
			want[0] = []string{"Page 1"}
		}
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("ValidForFirstPage=%t (-want +got):\n%s", first, d)
		}
	}
}

func TestMarginalPosition(t *testing.T) {
	left := model.NewHeaderFooter(model.NewPhrase("ab", nil), nil, false)
	left.Align = model.AlignLeft
	left.Pos = model.Header
	right := model.NewHeaderFooter(model.NewPhrase("ab", nil), nil, false)
	right.Align = model.AlignRight
	center := model.NewHeaderFooter(model.NewPhrase("ab", nil), nil, false)
	center.Align = model.AlignJustified

	c := paginate(t, testOptions(left, right, center), boxes.Kern(10))
	m := c.pages[0].Marginals
	if len(m) != 3 {
		t.Fatalf("got %d marginals", len(m))
	}
	// "ab" is 12 units wide
	var xs []float64
	for _, p := range m {
		xs = append(xs, p.X)
	}
	if d := cmp.Diff([]float64{20, 168, 94}, xs); d != "" {
		t.Errorf("wrong positions (-want +got):\n%s", d)
	}
	line := m[0].Box.(*boxes.Line)
	if math.Abs(m[0].Y-line.Depth-(280+DefaultMarginalOffset)) > 1e-9 {
		t.Errorf("header at %g", m[0].Y)
	}
	line = m[1].Box.(*boxes.Line)
	if math.Abs(m[1].Y+line.Height-(20-DefaultMarginalOffset)) > 1e-9 {
		t.Errorf("footer at %g", m[1].Y)
	}
}

func TestSplitting(t *testing.T) {
	var text string
	for i := 0; i < 60; i++ {
		text += "word "
	}
	// 160 units hold 5 words per line; 12 lines of 12 units
	opt := &boxes.ParagraphOptions{Width: 160, Leading: 12}
	par := boxes.NewParagraph([]boxes.Run{{Text: text, Font: courier}}, opt, font.Standard)
	if len(par.Lines()) != 12 {
		t.Fatalf("paragraph has %d lines", len(par.Lines()))
	}

	c := paginate(t, testOptions(), boxes.Kern(200), par)
	if len(c.pages) != 2 {
		t.Fatalf("got %d pages", len(c.pages))
	}
	// 60 units remain on the first page, for 5 lines
	first := c.pages[0].Boxes[1].Box.(*boxes.Paragraph)
	second := c.pages[1].Boxes[0].Box.(*boxes.Paragraph)
	if len(first.Lines()) != 5 || len(second.Lines()) != 7 {
		t.Errorf("split %d + %d lines", len(first.Lines()), len(second.Lines()))
	}
	if y := c.pages[1].Boxes[0].Y; y != 280-84 {
		t.Errorf("continuation at %g", y)
	}
}

func TestKeepTogether(t *testing.T) {
	opt := &boxes.ParagraphOptions{Width: 160, Leading: 12, KeepTogether: true}
	par := boxes.NewParagraph([]boxes.Run{{Text: "a\nb\nc", Font: courier}}, opt, font.Standard)

	c := paginate(t, testOptions(), boxes.Kern(240), par)
	if len(c.pages) != 2 || len(c.pages[1].Boxes) != 1 {
		t.Fatalf("keep-together paragraph was not moved")
	}
	if len(c.pages[1].Boxes[0].Box.(*boxes.Paragraph).Lines()) != 3 {
		t.Error("keep-together paragraph was split")
	}
}

func TestKeepTogetherTallerThanPage(t *testing.T) {
	var lines []string
	for i := range 100 {
		lines = append(lines, fmt.Sprint("line ", i))
	}
	opt := &boxes.ParagraphOptions{Width: 160, Leading: 12, KeepTogether: true}
	par := boxes.NewParagraph([]boxes.Run{{Text: strings.Join(lines, "\n"), Font: courier}}, opt, font.Standard)
	if boxes.TotalHeight(par) != 1200 {
		t.Fatalf("paragraph height %g", boxes.TotalHeight(par))
	}

	// the paragraph starts on a fresh page and fills 21 lines per page
	c := paginate(t, testOptions(), boxes.Kern(10), par)
	var got []int
	for _, pg := range c.pages[1:] {
		if len(pg.Boxes) != 1 {
			t.Fatalf("page %d has %d boxes", pg.Number, len(pg.Boxes))
		}
		got = append(got, len(pg.Boxes[0].Box.(*boxes.Paragraph).Lines()))
	}
	if d := cmp.Diff([]int{21, 21, 21, 21, 16}, got); d != "" {
		t.Errorf("lines per page (-want +got):\n%s", d)
	}
}

func TestOversizedTableRow(t *testing.T) {
	tab, err := model.NewTable(1)
	if err != nil {
		t.Fatal(err)
	}
	tall := model.NewCell(model.NewPhrase("tall", nil))
	tall.MinHeight = 400
	if err := tab.AddCell(tall); err != nil {
		t.Fatal(err)
	}
	for range 40 {
		if err := tab.AddCell(model.NewCell(model.NewPhrase("row", nil))); err != nil {
			t.Fatal(err)
		}
	}
	content := func(e model.Element, width float64, align model.Alignment) (boxes.Box, error) {
		opt := &boxes.ParagraphOptions{Width: width, Leading: 12, Align: align}
		return boxes.NewParagraph([]boxes.Run{{Text: e.(*model.Phrase).Text(), Font: courier}}, opt, font.Standard), nil
	}
	g, err := table.Layout(tab, 160, &table.Options{Content: content})
	if err != nil {
		t.Fatal(err)
	}

	// the tall row overflows its own page, the others are 16 units high
	c := paginate(t, testOptions(), g.Box())
	var got []int
	for _, pg := range c.pages {
		if len(pg.Boxes) != 1 {
			t.Fatalf("page %d has %d boxes", pg.Number, len(pg.Boxes))
		}
		got = append(got, len(pg.Boxes[0].Box.(*table.Box).Rows()))
	}
	if d := cmp.Diff([]int{1, 16, 16, 8}, got); d != "" {
		t.Errorf("rows per page (-want +got):\n%s", d)
	}
}

func TestOverflow(t *testing.T) {
	tall := boxes.Rule(10, 500, 0)
	c := paginate(t, testOptions(), boxes.Kern(10), tall, boxes.Kern(10))
	if len(c.pages) != 3 {
		t.Fatalf("got %d pages", len(c.pages))
	}
	if len(c.pages[1].Boxes) != 1 || c.pages[1].Boxes[0].Box != tall {
		t.Error("oversized box was not emitted on a page of its own")
	}
}

func TestEmptyDocument(t *testing.T) {
	c := paginate(t, testOptions())
	if len(c.pages) != 1 || len(c.pages[0].Boxes) != 0 {
		t.Errorf("got %d pages", len(c.pages))
	}

	// page breaks never produce empty pages
	c = paginate(t, testOptions(), boxes.PageBreak{}, boxes.Kern(5), boxes.PageBreak{}, boxes.PageBreak{})
	if len(c.pages) != 1 {
		t.Errorf("got %d pages", len(c.pages))
	}
}

func TestStates(t *testing.T) {
	c := &collector{}
	c.p = New(testOptions(), c.emit)
	if c.p.State() != StateEmpty {
		t.Errorf("initial state %s", c.p.State())
	}
	c.p.Add(boxes.Kern(5))
	if c.p.State() != StateAccumulating {
		t.Errorf("state after Add: %s", c.p.State())
	}
	c.p.Add(boxes.PageBreak{})
	if c.p.State() != StateEmpty {
		t.Errorf("state after page break: %s", c.p.State())
	}
	if err := c.p.Close(); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]State{StateFinalized}, c.states); d != "" {
		t.Error(d)
	}
	if err := c.p.Add(boxes.Kern(1)); !errors.Is(err, errClosed) {
		t.Errorf("Add after Close: %v", err)
	}
}

func TestMarks(t *testing.T) {
	c := paginate(t, testOptions(),
		boxes.Kern(100),
		&boxes.Marked{Box: boxes.Kern(10), ID: 3},
		boxes.PageBreak{},
		&boxes.Marked{Box: boxes.Kern(10), ID: 4})
	if d := cmp.Diff([]Mark{{ID: 3, Top: 180}}, c.pages[0].Marks); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff([]Mark{{ID: 4, Top: 280}}, c.pages[1].Marks); d != "" {
		t.Error(d)
	}
}

func TestDraw(t *testing.T) {
	footer := model.NewHeaderFooter(model.NewPhrase("p", nil), nil, true)
	footer.Border = model.BorderTop
	c := paginate(t, testOptions(footer), boxes.Text(font.Standard, boxes.Run{Text: "x", Font: courier}))

	buf := &bytes.Buffer{}
	w := graphics.NewWriter(buf, nil)
	c.pages[0].Draw(w)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("(x) Tj")) || !bytes.Contains(buf.Bytes(), []byte("(1) Tj")) {
		t.Errorf("missing text in\n%s", buf.Bytes())
	}
	if !bytes.Contains(buf.Bytes(), []byte(" re\nf\n")) {
		t.Errorf("missing border rule in\n%s", buf.Bytes())
	}
}
