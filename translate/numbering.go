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

package translate

import (
	"strconv"
	"strings"

	"github.com/justifiedsolutions/OpenPDF-sub002/model"
)

// Prefix returns the number shown in front of the title of s, including
// the trailing space.  The prefix consists of the dot-separated numbers
// of all ancestors, limited to the innermost levels if a number depth is
// set.  If numbers are switched off for s, the prefix is empty.
func Prefix(s *model.Section) string {
	if !s.ShowNumber() {
		return ""
	}
	numbers := s.Numbers()
	if depth := s.NumberDepth(); depth > 0 && depth < len(numbers) {
		numbers = numbers[len(numbers)-depth:]
	}
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".") + " "
}

// NumberedTitle returns a copy of the title of s with the number prefix
// prepended.  The prefix uses the font of the last chunk of the title.
// If the title has no chunks, the prefix becomes the only chunk, and it
// has no explicit font.  The section is not modified.
func NumberedTitle(s *model.Section) *model.Paragraph {
	title := &model.Paragraph{}
	if s.Title != nil {
		*title = *s.Title
	}
	title.Chunks = nil

	var orig []*model.Chunk
	if s.Title != nil {
		orig = s.Title.Chunks
	}
	if prefix := Prefix(s); prefix != "" {
		chunk := &model.Chunk{Text: prefix}
		if len(orig) > 0 {
			chunk.Font = orig[len(orig)-1].Font
		}
		title.Chunks = append(title.Chunks, chunk)
	}
	for _, c := range orig {
		copied := *c
		title.Chunks = append(title.Chunks, &copied)
	}
	return title
}
