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
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
)

// container is a document or a section, which both hold flow elements.
type container interface {
	Add(model.Element) error
}

// converter builds a content tree from a markdown document.
type converter struct {
	src    []byte
	doc    *model.Document
	cfg    *config
	images *imageLoader

	// chapterLevel is the heading level used for chapters.
	chapterLevel int

	// sections holds the open sections, starting with the chapter.
	sections []*model.Section

	// pending holds the content before the first chapter.
	pending []model.Element
}

// convertMarkdown adds the content of a markdown document to doc.
// Headings of the highest level present start chapters, lower levels
// start sections.  Content before the first heading is placed at the
// start of the first chapter.
func convertMarkdown(src []byte, doc *model.Document, cfg *config, images *imageLoader) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))
	root := md.Parser().Parse(text.NewReader(src))

	c := &converter{
		src:    src,
		doc:    doc,
		cfg:    cfg,
		images: images,
	}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && (c.chapterLevel == 0 || h.Level < c.chapterLevel) {
			c.chapterLevel = h.Level
		}
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		err := c.block(n, 0)
		if err != nil {
			line := 0
			if lines := n.Lines(); lines != nil && lines.Len() > 0 {
				line = strings.Count(string(src[:lines.At(0).Start]), "\n") + 1
			}
			return fmt.Errorf("line %d: %w", line, err)
		}
	}

	if len(c.sections) == 0 {
		for _, e := range c.pending {
			if err := doc.Add(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// target returns the container for the next flow element.
func (c *converter) target() container {
	if len(c.sections) == 0 {
		return pendingList{c}
	}
	return c.sections[len(c.sections)-1]
}

type pendingList struct{ c *converter }

func (p pendingList) Add(e model.Element) error {
	p.c.pending = append(p.c.pending, e)
	return nil
}

func (c *converter) font(style font.Style) *font.Font {
	f := c.doc.Font.Clone()
	f.Style = style
	return f
}

func (c *converter) heading(h *ast.Heading) error {
	title := model.NewParagraph("", nil)
	c.inline(&title.Phrase, h, font.Normal)

	depth := h.Level - c.chapterLevel
	if depth == 0 {
		ch, err := c.doc.AddChapter(title)
		if err != nil {
			return err
		}
		if c.cfg.NumberDepth > 0 {
			ch.SetNumberDepth(c.cfg.NumberDepth)
		}
		ch.Indentation = c.cfg.Indentation
		c.sections = []*model.Section{&ch.Section}
		for _, e := range c.pending {
			if err := ch.Add(e); err != nil {
				return err
			}
		}
		c.pending = nil
		return nil
	}

	if len(c.sections) == 0 {
		return fmt.Errorf("heading %q before the first chapter", title.Text())
	}
	if depth > len(c.sections) {
		depth = len(c.sections)
	}
	c.sections = c.sections[:depth]
	s := c.sections[depth-1].AddSection(title)
	s.Indentation = c.cfg.Indentation
	c.sections = append(c.sections, s)
	return nil
}

// block converts a block level node.  Indent is the left indentation
// caused by enclosing lists and quotes.
func (c *converter) block(n ast.Node, indent float64) error {
	switch n := n.(type) {
	case *ast.Heading:
		return c.heading(n)

	case *ast.Paragraph, *ast.TextBlock:
		if img, ok := soleImage(n); ok {
			image, err := c.images.load(string(img.Destination))
			if err != nil {
				return err
			}
			return c.target().Add(image)
		}
		p := c.paragraph(indent)
		c.inline(&p.Phrase, n, font.Normal)
		return c.target().Add(p)

	case *ast.Blockquote:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			err := c.block(child, indent+18)
			if err != nil {
				return err
			}
		}
		return nil

	case *ast.List:
		return c.list(n, indent)

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var lines []string
		for i := 0; i < n.Lines().Len(); i++ {
			line := n.Lines().At(i)
			lines = append(lines, strings.TrimRight(string(line.Value(c.src)), "\r\n"))
		}
		p := c.paragraph(indent + 12)
		p.Alignment = model.AlignLeft
		p.Font = font.New(font.Courier, c.doc.Font.Size*0.9, font.Normal)
		if len(lines) > 0 {
			p.Chunks = []*model.Chunk{model.NewChunk(strings.Join(lines, "\n"), nil)}
		}
		return c.target().Add(p)

	case *ast.ThematicBreak:
		return c.target().Add(&model.PageBreak{})

	case *east.Table:
		t, err := c.table(n)
		if err != nil {
			return err
		}
		return c.target().Add(t)

	case *ast.HTMLBlock:
		return nil
	}
	return fmt.Errorf("unsupported markdown element %s", n.Kind())
}

func (c *converter) paragraph(indent float64) *model.Paragraph {
	p := model.NewParagraph("", nil)
	p.IndentLeft = indent
	p.SpacingAfter = c.doc.Font.Size / 2
	if c.cfg.Justify {
		p.Alignment = model.AlignJustified
	}
	return p
}

func (c *converter) list(l *ast.List, indent float64) error {
	number := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if l.IsOrdered() {
			marker = strconv.Itoa(number) + ". "
			number++
		}
		first := true
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			_, isText := child.(*ast.TextBlock)
			_, isPara := child.(*ast.Paragraph)
			if !first || !(isText || isPara) {
				err := c.block(child, indent+18)
				if err != nil {
					return err
				}
				continue
			}
			first = false

			p := c.paragraph(indent + 18)
			p.FirstLineIndent = -c.doc.Font.Size
			p.SpacingAfter = 0
			p.Chunks = append(p.Chunks, model.NewChunk(marker, nil))
			c.inline(&p.Phrase, child, font.Normal)
			err := c.target().Add(p)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *converter) table(n *east.Table) (*model.Table, error) {
	t, err := model.NewTable(len(n.Alignments))
	if err != nil {
		return nil, err
	}
	t.SpacingAfter = c.doc.Font.Size / 2
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		_, isHeader := row.(*east.TableHeader)
		if isHeader {
			t.HeaderRows = 1
		}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			style := font.Normal
			if isHeader {
				style = font.Bold
			}
			ph := model.NewPhrase("", nil)
			c.inline(ph, cell, style)

			mc := model.NewCell(ph)
			if tc, ok := cell.(*east.TableCell); ok {
				switch tc.Alignment {
				case east.AlignCenter:
					mc.HAlign = model.AlignCenter
				case east.AlignRight:
					mc.HAlign = model.AlignRight
				}
			}
			if isHeader {
				mc.Grey = 0.9
			}
			err := t.AddCell(mc)
			if err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// inline appends the inline content of n to ph.
func (c *converter) inline(ph *model.Phrase, n ast.Node, style font.Style) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child := child.(type) {
		case *ast.Text:
			s := string(child.Value(c.src))
			if child.HardLineBreak() {
				s += "\n"
			} else if child.SoftLineBreak() {
				s += " "
			}
			c.addText(ph, s, style)
		case *ast.String:
			c.addText(ph, string(child.Value), style)
		case *ast.Emphasis:
			s := style | font.Italic
			if child.Level >= 2 {
				s = style | font.Bold
			}
			c.inline(ph, child, s)
		case *east.Strikethrough:
			c.inline(ph, child, style|font.Strikethru)
		case *ast.CodeSpan:
			var buf strings.Builder
			for t := child.FirstChild(); t != nil; t = t.NextSibling() {
				if t, ok := t.(*ast.Text); ok {
					buf.Write(t.Value(c.src))
				}
			}
			f := font.New(font.Courier, c.doc.Font.Size, style&^(font.Bold|font.Italic))
			ph.Chunks = append(ph.Chunks, model.NewChunk(buf.String(), f))
		case *ast.Link:
			c.inline(ph, child, style|font.Underline)
		case *ast.AutoLink:
			c.addText(ph, string(child.Label(c.src)), style|font.Underline)
		case *ast.Image:
			c.inline(ph, child, style)
		}
	}
}

func (c *converter) addText(ph *model.Phrase, s string, style font.Style) {
	if s == "" {
		return
	}
	var f *font.Font
	if style != font.Normal {
		f = c.font(style)
	}
	if k := len(ph.Chunks); k > 0 && ph.Chunks[k-1].Font == f {
		ph.Chunks[k-1].Text += s
		return
	}
	ph.Chunks = append(ph.Chunks, model.NewChunk(s, f))
}

// soleImage checks whether a paragraph consists of a single image.
func soleImage(n ast.Node) (*ast.Image, bool) {
	if n.ChildCount() != 1 {
		return nil, false
	}
	img, ok := n.FirstChild().(*ast.Image)
	return img, ok
}
