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

package boxes

import (
	"math"
	"unicode"

	"github.com/justifiedsolutions/OpenPDF-sub002/dijkstra"
	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/graphics"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
)

// overfullCost is the cost of a line which holds a single word too wide
// for the available space.
const overfullCost = 1e8

// ParagraphOptions control how a paragraph is broken into lines.
type ParagraphOptions struct {
	// Width is the width of the text area.
	Width float64

	// Leading is the distance between consecutive baselines.  Lines
	// containing text larger than the leading get more space.
	Leading float64

	IndentLeft, IndentRight, FirstLineIndent float64
	SpaceBefore, SpaceAfter                  float64

	// Align gives the horizontal alignment.  AlignUndefined is treated
	// like AlignLeft.
	Align model.Alignment

	KeepTogether bool
}

// Paragraph is a block of text broken into lines.  The reference point is
// at the bottom left corner.
type Paragraph struct {
	BoxExtent

	lines       []*Line
	slots       []float64
	spaceBefore float64
	spaceAfter  float64
	keep        bool
}

type word struct {
	frags []fragment
	width float64
	space float64
}

// NewParagraph breaks the given runs into lines.  Line breaks occur at
// white space and at newline characters.  Words may span several runs.
func NewParagraph(runs []Run, opt *ParagraphOptions, m font.Metrics) *Paragraph {
	p := &Paragraph{
		BoxExtent:   BoxExtent{Width: opt.Width},
		spaceBefore: opt.SpaceBefore,
		spaceAfter:  opt.SpaceAfter,
		keep:        opt.KeepTogether,
	}

	avail := opt.Width - opt.IndentLeft - opt.IndentRight
	first := true
	for _, words := range splitWords(runs, m) {
		firstWidth := avail
		firstIndent := opt.IndentLeft
		if first {
			firstWidth -= opt.FirstLineIndent
			firstIndent += opt.FirstLineIndent
		}
		breaks := breakLines(words, firstWidth, avail)
		if len(breaks) < 2 {
			p.addLine(&Line{BoxExtent: BoxExtent{Width: opt.Width, WhiteSpaceOnly: true}}, opt.Leading)
		}
		for k := 1; k < len(breaks); k++ {
			width, indent := avail, opt.IndentLeft
			if k == 1 {
				width, indent = firstWidth, firstIndent
			}
			i, j := breaks[k-1], breaks[k]
			line := setLine(words[i:j], indent, width, opt.Align, j == len(words))
			line.Width = opt.Width
			line.setVertical(m)
			p.addLine(line, opt.Leading)
		}
		first = false
	}

	p.Height = p.spaceBefore + p.spaceAfter
	for _, slot := range p.slots {
		p.Height += slot
	}
	return p
}

func (p *Paragraph) addLine(line *Line, leading float64) {
	p.lines = append(p.lines, line)
	p.slots = append(p.slots, math.Max(leading, line.Height+line.Depth))
}

// Lines returns the lines of the paragraph.
func (p *Paragraph) Lines() []*Line {
	return p.lines
}

// KeepTogether implements the [Keeper] interface.
func (p *Paragraph) KeepTogether() bool {
	return p.keep
}

// Draw implements the Box interface.
func (p *Paragraph) Draw(w *graphics.Writer, xPos, yPos float64) {
	y := yPos + p.Height - p.spaceBefore
	for i, line := range p.lines {
		slot := p.slots[i]
		// center the glyphs vertically within the slot
		base := y - slot + (slot-line.Height-line.Depth)/2 + line.Depth
		line.Draw(w, xPos, base)
		y -= slot
	}
}

// Split implements the [Splitter] interface.  Paragraphs are split
// between lines.
func (p *Paragraph) Split(space float64) (Box, Box, bool) {
	if p.keep {
		return nil, nil, false
	}
	return p.split(space, false)
}

// ForceSplit implements the [ForceSplitter] interface.  At least one line
// goes into the first part.
func (p *Paragraph) ForceSplit(space float64) (Box, Box, bool) {
	return p.split(space, true)
}

func (p *Paragraph) split(space float64, force bool) (Box, Box, bool) {
	used := p.spaceBefore
	k := 0
	for k < len(p.lines) && used+p.slots[k] <= space+1e-6 {
		used += p.slots[k]
		k++
	}
	if k == 0 {
		if !force || len(p.lines) == 0 {
			return nil, nil, false
		}
		used += p.slots[0]
		k = 1
	}

	head := &Paragraph{
		BoxExtent:   BoxExtent{Width: p.Width, Height: used},
		lines:       p.lines[:k],
		slots:       p.slots[:k],
		spaceBefore: p.spaceBefore,
	}
	if k == len(p.lines) {
		return head, nil, true
	}
	tail := &Paragraph{
		BoxExtent:  BoxExtent{Width: p.Width, Height: p.Height - used},
		lines:      p.lines[k:],
		slots:      p.slots[k:],
		spaceAfter: p.spaceAfter,
	}
	return head, tail, true
}

// splitWords divides the text into segments separated by newline
// characters, and each segment into words.
func splitWords(runs []Run, m font.Metrics) [][]word {
	var segments [][]word
	var seg []word
	var cur *word
	var text []rune
	var curFont *font.Font

	flushFragment := func() {
		if len(text) == 0 {
			return
		}
		s := string(text)
		width := m.Width(curFont, s)
		cur.frags = append(cur.frags, fragment{text: s, font: curFont, x: cur.width, width: width})
		cur.width += width
		text = text[:0]
	}
	endWord := func() {
		if cur == nil {
			return
		}
		flushFragment()
		seg = append(seg, *cur)
		cur = nil
	}

	for _, run := range runs {
		if run.Font == nil {
			continue
		}
		curFont = run.Font
		for _, c := range run.Text {
			switch {
			case c == '\n':
				endWord()
				segments = append(segments, seg)
				seg = nil
			case unicode.IsSpace(c):
				endWord()
				if len(seg) > 0 {
					seg[len(seg)-1].space += m.Width(run.Font, " ")
				}
			default:
				if cur == nil {
					cur = &word{}
				}
				text = append(text, c)
			}
		}
		if cur != nil {
			flushFragment()
		}
	}
	endWord()
	segments = append(segments, seg)
	return segments
}

// breakLines returns the positions of the line breaks, starting with 0 and
// ending with len(words).  Breaks are chosen to minimize the sum of the
// squared unused space over all lines except the last.  A single word
// wider than the line is placed on a line of its own.
func breakLines(words []word, firstWidth, width float64) []int {
	n := len(words)
	if n == 0 {
		return nil
	}

	sumWidth := make([]float64, n+1)
	sumSpace := make([]float64, n+1)
	for i, w := range words {
		sumWidth[i+1] = sumWidth[i] + w.width
		sumSpace[i+1] = sumSpace[i] + w.space
	}

	cost := func(i, j int) float64 {
		avail := width
		if i == 0 {
			avail = firstWidth
		}
		natural := sumWidth[j] - sumWidth[i] + sumSpace[j-1] - sumSpace[i]
		if natural > avail+1e-6 {
			if j == i+1 {
				return overfullCost
			}
			return math.Inf(1)
		}
		if j == n {
			return 0
		}
		slack := avail - natural
		return slack * slack
	}

	_, breaks := dijkstra.ShortestPath(cost, n)
	return breaks
}

// setLine positions the given words on a line.
func setLine(words []word, indent, width float64, align model.Alignment, last bool) *Line {
	natural := 0.0
	for i, w := range words {
		natural += w.width
		if i < len(words)-1 {
			natural += w.space
		}
	}
	extra := width - natural

	offset, stretch := 0.0, 0.0
	switch align {
	case model.AlignRight:
		offset = extra
	case model.AlignCenter:
		offset = extra / 2
	case model.AlignJustified:
		if !last && extra > 0 && len(words) > 1 {
			stretch = extra / float64(len(words)-1)
		}
	}
	if offset < 0 {
		offset = 0
	}

	line := &Line{}
	x := indent + offset
	for i, w := range words {
		for _, frag := range w.frags {
			frag.x += x
			line.frags = append(line.frags, frag)
		}
		x += w.width
		if i < len(words)-1 {
			x += w.space + stretch
		}
	}
	return line
}
