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
	"fmt"

	"github.com/justifiedsolutions/OpenPDF-sub002/font"
)

// Chunk is a run of text.  If Font is nil, the font of the enclosing
// phrase is used.
type Chunk struct {
	Text string
	Font *font.Font
}

// NewChunk returns a new chunk.
func NewChunk(text string, f *font.Font) *Chunk {
	return &Chunk{Text: text, Font: f}
}

// Kind implements the [Element] interface.
func (c *Chunk) Kind() Kind { return KindRun }

// Phrase is a sequence of chunks.
type Phrase struct {
	Chunks []*Chunk

	// Font is used for chunks without a font.  If nil, the font of the
	// enclosing element is used.
	Font *font.Font

	// Leading is the distance between baselines.  If zero,
	// 1.5 times the font size is used.
	Leading float64
}

// NewPhrase returns a phrase holding text as its only chunk.
// If text is empty, the phrase has no chunks.
func NewPhrase(text string, f *font.Font) *Phrase {
	p := &Phrase{Font: f}
	if text != "" {
		p.Chunks = append(p.Chunks, &Chunk{Text: text})
	}
	return p
}

// Kind implements the [Element] interface.
func (p *Phrase) Kind() Kind { return KindLine }

// Add appends a chunk or the chunks of another phrase.  Chunks taken from
// another phrase are copied, and their font is fixed to the font they
// have in that phrase.
func (p *Phrase) Add(e Element) error {
	switch e := e.(type) {
	case *Chunk:
		if e == nil {
			break
		}
		p.Chunks = append(p.Chunks, e)
		return nil
	case *Phrase:
		if e == nil {
			break
		}
		p.addPhrase(e)
		return nil
	case *Paragraph:
		if e == nil {
			break
		}
		p.addPhrase(&e.Phrase)
		return nil
	}
	return fmt.Errorf("%w: a phrase cannot hold %T", ErrStructuralViolation, e)
}

func (p *Phrase) addPhrase(other *Phrase) {
	for _, c := range other.Chunks {
		f := c.Font
		if f == nil {
			f = other.Font
		}
		p.Chunks = append(p.Chunks, &Chunk{Text: c.Text, Font: f})
	}
}

// Text returns the concatenated text of all chunks.
func (p *Phrase) Text() string {
	var s string
	for _, c := range p.Chunks {
		s += c.Text
	}
	return s
}

// Paragraph is a phrase which forms a block of text.
type Paragraph struct {
	Phrase

	Alignment Alignment

	// IndentLeft and IndentRight reduce the width of all lines,
	// FirstLineIndent additionally indents the first line.
	IndentLeft, IndentRight, FirstLineIndent float64

	SpacingBefore, SpacingAfter float64

	// KeepTogether asks for the paragraph not to be split across pages.
	KeepTogether bool
}

// NewParagraph returns a paragraph holding text as its only chunk.
func NewParagraph(text string, f *font.Font) *Paragraph {
	return &Paragraph{Phrase: *NewPhrase(text, f)}
}

// Kind implements the [Element] interface.
func (p *Paragraph) Kind() Kind { return KindLine }

// PageBreak forces the following content to start on a new page.
type PageBreak struct{}

// Kind implements the [Element] interface.
func (*PageBreak) Kind() Kind { return KindBlock }
