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

package graphics

import (
	"slices"
	"strconv"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
)

// Resources records the fonts and images used by a content stream,
// together with the names under which they are referenced.
type Resources struct {
	Font    map[pdf.Name]*font.Font
	XObject map[pdf.Name]*model.Image

	fontNames  map[pdf.Name]pdf.Name
	imageNames map[pdf.ResourceID]pdf.Name
}

// NewResources returns an empty resource set.
func NewResources() *Resources {
	return &Resources{
		Font:       make(map[pdf.Name]*font.Font),
		XObject:    make(map[pdf.Name]*model.Image),
		fontNames:  make(map[pdf.Name]pdf.Name),
		imageNames: make(map[pdf.ResourceID]pdf.Name),
	}
}

// FontName returns the resource name for the standard font used by f.
// All fonts with the same PostScript name share a resource name.
func (r *Resources) FontName(f *font.Font) pdf.Name {
	key := f.PostScriptName()
	if name, ok := r.fontNames[key]; ok {
		return name
	}
	name := pdf.Name("F" + strconv.Itoa(len(r.fontNames)+1))
	r.fontNames[key] = name
	r.Font[name] = f
	return name
}

// ImageName returns the resource name for an image.
func (r *Resources) ImageName(img *model.Image) pdf.Name {
	if name, ok := r.imageNames[img.ID]; ok {
		return name
	}
	name := pdf.Name("Im" + strconv.Itoa(len(r.imageNames)+1))
	r.imageNames[img.ID] = name
	r.XObject[name] = img
	return name
}

// FontNames returns the font resource names in sorted order.
func (r *Resources) FontNames() []pdf.Name {
	return sortedKeys(r.Font)
}

// ImageNames returns the image resource names in sorted order.
func (r *Resources) ImageNames() []pdf.Name {
	return sortedKeys(r.XObject)
}

func sortedKeys[T any](m map[pdf.Name]T) []pdf.Name {
	keys := make([]pdf.Name, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
