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
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/outline"
	"github.com/justifiedsolutions/OpenPDF-sub002/pagetree"
)

func inspect(w io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: inspect needs one file", errUsage)
	}
	r, err := pdf.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()
	return describe(w, r)
}

// describe prints a summary of the file read by r.
func describe(w io.Writer, r *pdf.Reader) error {
	numPages, err := pagetree.NumPages(r)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "PDF %s, %d bytes, %d pages\n", r.Version, r.Size(), numPages)

	info, err := r.GetDict(r.Trailer["Info"])
	if err != nil {
		return err
	}
	for _, key := range []pdf.Name{"Title", "Author", "Subject", "Keywords", "Creator", "Producer", "CreationDate"} {
		if s, ok := info[key].(pdf.String); ok {
			fmt.Fprintf(w, "%-13s %s\n", string(key)+":", s.AsTextString())
		}
	}

	o, err := outline.Read(r)
	if err != nil {
		return err
	}
	if o != nil {
		fmt.Fprintln(w, "\noutline:")
		var show func(items []*outline.Item, depth int)
		show = func(items []*outline.Item, depth int) {
			for _, item := range items {
				fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth+1), item.Title)
				show(item.Children, depth+1)
			}
		}
		show(o.Items, 0)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"Object", "Offset", "Type"})
	for _, entry := range r.Objects() {
		obj, err := r.Get(entry.Ref)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{entry.Ref, entry.Pos, objectType(obj)})
	}
	t.AppendFooter(table.Row{"", "xref", r.XRefPos()})
	fmt.Fprintln(w)
	t.Render()
	return nil
}

// objectType returns a short description of an object.
func objectType(obj pdf.Object) string {
	switch obj := obj.(type) {
	case pdf.Dict:
		if tp, ok := obj["Type"].(pdf.Name); ok {
			return string(tp)
		}
		if _, ok := obj["FT"]; ok {
			return "Field"
		}
		return "Dict"
	case *pdf.Stream:
		desc := "Stream"
		if tp, ok := obj.Dict["Type"].(pdf.Name); ok {
			desc = string(tp) + " stream"
			if sub, ok := obj.Dict["Subtype"].(pdf.Name); ok {
				desc += " (" + string(sub) + ")"
			}
		}
		return desc
	case pdf.Array:
		return fmt.Sprintf("Array[%d]", len(obj))
	case pdf.Integer:
		return "Integer " + pdf.Format(obj)
	case nil:
		return "null"
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", obj), "pdf.")
	}
}
