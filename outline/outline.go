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

// Package outline implements document outlines (bookmarks).
package outline

import (
	"errors"
	"fmt"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/font"
)

// Outline represents the root of a document outline.
type Outline struct {
	// Items contains the top-level outline items.
	Items []*Item
}

// Item represents an outline item.  Items form a tree structure via the
// Children field.
type Item struct {
	// Title is the text displayed for this outline item.
	Title string

	// Color specifies the color for the text of the entry.
	// The zero value is black.
	Color font.Color

	Bold, Italic bool

	// Dest is the position shown when the item is activated.
	Dest Destination

	Children []*Item

	// Open indicates whether the item is initially expanded.
	Open bool
}

// Destination is a position on a page.  The page is shown with the given
// vertical coordinate at the top of the window.
type Destination struct {
	Page pdf.Reference
	Top  float64
}

func (d Destination) array() pdf.Array {
	return pdf.Array{d.Page, pdf.Name("XYZ"), nil, pdf.Real(d.Top), nil}
}

// AddItem appends a new top-level item with the given title and returns it.
func (o *Outline) AddItem(title string) *Item {
	item := &Item{Title: title}
	o.Items = append(o.Items, item)
	return item
}

// AddChild appends a new child item with the given title and returns it.
func (item *Item) AddChild(title string) *Item {
	child := &Item{Title: title}
	item.Children = append(item.Children, child)
	return child
}

// Write writes the outline to the PDF file and returns the reference of
// the outline dictionary, for use in the document catalog.  If the outline
// is empty, nothing is written and 0 is returned.
func (o *Outline) Write(w *pdf.Writer) (pdf.Reference, error) {
	if o == nil || len(o.Items) == 0 {
		return 0, nil
	}

	ww := &writer{
		w:     w,
		count: map[*Item]int{},
	}

	var rootCount int
	for _, item := range o.Items {
		rootCount += ww.getCount(item)
	}

	rootRef := w.Alloc()
	first := w.Alloc()
	last := first
	if len(o.Items) > 1 {
		last = w.Alloc()
	}
	rootDict := pdf.Dict{
		"Type":  pdf.Name("Outlines"),
		"First": first,
		"Last":  last,
	}
	if ww.hasOpen {
		rootDict["Count"] = pdf.Integer(rootCount)
	}
	err := w.Put(rootRef, rootDict)
	if err != nil {
		return 0, err
	}

	err = ww.writeChildren(rootRef, first, last, o.Items)
	if err != nil {
		return 0, err
	}
	return rootRef, nil
}

type writer struct {
	w       *pdf.Writer
	count   map[*Item]int
	hasOpen bool
}

// getCount computes the Count value for an item.
// Returns positive count if item is open, negative if closed.
func (ww *writer) getCount(item *Item) int {
	if item == nil || len(item.Children) == 0 {
		return 1
	}

	total := 1
	for _, child := range item.Children {
		childCount := ww.getCount(child)
		if childCount > 0 {
			total += childCount
		} else {
			total++ // closed child counts as 1
		}
	}

	descendantCount := total - 1
	if item.Open {
		ww.hasOpen = true
		ww.count[item] = descendantCount
	} else if descendantCount > 0 {
		ww.count[item] = -descendantCount
	}

	if item.Open {
		return total
	}
	return 1
}

func (ww *writer) writeItem(ref pdf.Reference, dict pdf.Dict, item *Item) error {
	dict["Title"] = pdf.TextString(item.Title)

	if item.Color != (font.Color{}) {
		c := item.Color
		for i, x := range []float64{c.R, c.G, c.B} {
			if x < 0 || x > 1 {
				return fmt.Errorf("outline item color component %d out of range: %g", i, x)
			}
		}
		dict["C"] = pdf.Array{pdf.Real(c.R), pdf.Real(c.G), pdf.Real(c.B)}
	}

	var flags int
	if item.Italic {
		flags |= 1
	}
	if item.Bold {
		flags |= 2
	}
	if flags != 0 {
		dict["F"] = pdf.Integer(flags)
	}

	if item.Dest.Page != 0 {
		dict["Dest"] = item.Dest.array()
	}

	if len(item.Children) == 0 {
		return ww.w.Put(ref, dict)
	}

	first := ww.w.Alloc()
	last := first
	if len(item.Children) > 1 {
		last = ww.w.Alloc()
	}
	dict["First"] = first
	dict["Last"] = last
	if count, ok := ww.count[item]; ok {
		dict["Count"] = pdf.Integer(count)
	}
	err := ww.w.Put(ref, dict)
	if err != nil {
		return err
	}
	return ww.writeChildren(ref, first, last, item.Children)
}

func (ww *writer) writeChildren(parent, first, last pdf.Reference, items []*Item) error {
	refs := make([]pdf.Reference, len(items))
	for i := range items {
		if i == 0 {
			refs[i] = first
		} else if i == len(items)-1 {
			refs[i] = last
		} else {
			refs[i] = ww.w.Alloc()
		}
	}

	for i, item := range items {
		dict := pdf.Dict{
			"Parent": parent,
		}
		if i > 0 {
			dict["Prev"] = refs[i-1]
		}
		if i < len(items)-1 {
			dict["Next"] = refs[i+1]
		}
		err := ww.writeItem(refs[i], dict, item)
		if err != nil {
			return err
		}
	}
	return nil
}

// Read reads the document outline from a PDF file.
// Returns nil if the document has no outline.
func Read(r *pdf.Reader) (*Outline, error) {
	catalog, err := r.GetDict(r.Trailer["Root"])
	if err != nil {
		return nil, err
	}
	rootRef, _ := catalog["Outlines"].(pdf.Reference)
	if rootRef == 0 {
		return nil, nil
	}

	seen := map[pdf.Reference]bool{rootRef: true}
	rootDict, err := r.GetDict(rootRef)
	if err != nil {
		return nil, err
	}

	firstRef, _ := rootDict["First"].(pdf.Reference)
	items, err := readChildren(r, seen, firstRef)
	if err != nil {
		return nil, err
	}
	return &Outline{Items: items}, nil
}

func readItem(r *pdf.Reader, seen map[pdf.Reference]bool, ref pdf.Reference) (*Item, pdf.Dict, error) {
	if seen[ref] {
		return nil, nil, &pdf.MalformedFileError{Err: errors.New("outline tree contains a loop")}
	}
	seen[ref] = true
	if len(seen) > 65536 {
		return nil, nil, errors.New("outline too large")
	}

	dict, err := r.GetDict(ref)
	if err != nil {
		return nil, nil, err
	}

	item := &Item{}
	if title, ok := dict["Title"].(pdf.String); ok {
		item.Title = title.AsTextString()
	}
	count, _ := dict["Count"].(pdf.Integer)
	item.Open = count > 0

	if f, _ := dict["F"].(pdf.Integer); f != 0 {
		item.Italic = f&1 != 0
		item.Bold = f&2 != 0
	}
	if dest, _ := r.GetArray(dict["Dest"]); len(dest) >= 4 {
		item.Dest.Page, _ = dest[0].(pdf.Reference)
		switch top := dest[3].(type) {
		case pdf.Real:
			item.Dest.Top = float64(top)
		case pdf.Integer:
			item.Dest.Top = float64(top)
		}
	}

	firstRef, _ := dict["First"].(pdf.Reference)
	children, err := readChildren(r, seen, firstRef)
	if err != nil {
		return nil, nil, err
	}
	item.Children = children

	return item, dict, nil
}

func readChildren(r *pdf.Reader, seen map[pdf.Reference]bool, ref pdf.Reference) ([]*Item, error) {
	var res []*Item
	for ref != 0 {
		item, dict, err := readItem(r, seen, ref)
		if err != nil {
			return nil, err
		}
		res = append(res, item)
		ref, _ = dict["Next"].(pdf.Reference)
	}
	return res, nil
}
