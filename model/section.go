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

import "fmt"

// Section is a numbered part of a chapter.
//
// The number of a section is fixed when the section is created: it is one
// more than the number of sections which the parent already held.
type Section struct {
	// Title is the heading of the section, or nil.
	Title *Paragraph

	// Indentation is the extra left indentation of the section content.
	Indentation float64

	// BookmarkOpen controls whether the outline entry for the section
	// is initially expanded.
	BookmarkOpen bool

	number      int
	parent      *Section
	content     []Element
	subsections []*Section

	chapter       bool
	startsNewPage bool
	showNumber    bool
	numberDepth   int
}

// Chapter is a top-level section.  A chapter always starts on a new page.
type Chapter struct {
	Section
}

func (s *Section) init(parent *Section, number int, title *Paragraph) {
	s.Title = title
	s.number = number
	s.parent = parent
	s.showNumber = true
	s.BookmarkOpen = true
}

// AddSection appends a new subsection.
func (s *Section) AddSection(title *Paragraph) *Section {
	sub := &Section{}
	sub.init(s, len(s.subsections)+1, title)
	sub.numberDepth = s.numberDepth
	sub.Indentation = s.Indentation
	s.subsections = append(s.subsections, sub)
	return sub
}

// Add appends an element to the body of the section.  The body is placed
// after the title and before all subsections.
func (s *Section) Add(e Element) error {
	err := checkFlowElement(e)
	if err != nil {
		return err
	}
	s.content = append(s.content, e)
	return nil
}

// Number returns the number of the section among its siblings.
func (s *Section) Number() int {
	return s.number
}

// Numbers returns the numbers of all ancestors, starting with the
// chapter number and ending with the number of s.
func (s *Section) Numbers() []int {
	var res []int
	for p := s; p != nil; p = p.parent {
		res = append(res, p.number)
	}
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res
}

// Depth returns the nesting level of s.  Chapters have depth 1.
func (s *Section) Depth() int {
	depth := 0
	for p := s; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Parent returns the enclosing section, or nil for chapters.
func (s *Section) Parent() *Section {
	return s.parent
}

// Content returns the body elements of s.
func (s *Section) Content() []Element {
	return s.content
}

// Subsections returns the subsections of s.
func (s *Section) Subsections() []*Section {
	return s.subsections
}

// IsChapter reports whether s is the root section of a chapter.
func (s *Section) IsChapter() bool {
	return s.chapter
}

// SetNewPage sets whether the section starts on a new page.  Chapters
// always start on a new page, and trying to change this fails.
func (s *Section) SetNewPage(newPage bool) error {
	if s.chapter && !newPage {
		return fmt.Errorf("%w: chapter %d must start on a new page", ErrStructuralViolation, s.number)
	}
	s.startsNewPage = newPage
	return nil
}

// NewPage reports whether the section starts on a new page.
func (s *Section) NewPage() bool {
	return s.startsNewPage
}

// SetShowNumber sets whether the section number is shown in the title.
func (s *Section) SetShowNumber(show bool) {
	s.showNumber = show
}

// ShowNumber reports whether the section number is shown in the title.
func (s *Section) ShowNumber() bool {
	return s.showNumber
}

// SetNumberDepth limits the number of levels shown in the numbering of
// the title to the innermost depth levels.  Zero shows all levels.
// Subsections created afterwards inherit the setting.
func (s *Section) SetNumberDepth(depth int) {
	s.numberDepth = max(depth, 0)
}

// NumberDepth returns the number depth set with SetNumberDepth.
func (s *Section) NumberDepth() int {
	return s.numberDepth
}
