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
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/document"
)

func TestDescribe(t *testing.T) {
	cfg := defaultConfig()
	cfg.Info.Title = "Inspection"
	doc, err := cfg.document()
	if err != nil {
		t.Fatal(err)
	}
	err = convertMarkdown([]byte("# Hello\n\nSome text.\n\n# World\n\nMore text.\n"),
		doc, cfg, newImageLoader(".", nil))
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	opt := &document.Options{Time: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	_, err = document.Write(doc, buf, opt)
	if err != nil {
		t.Fatal(err)
	}
	r, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}

	out := &strings.Builder{}
	err = describe(out, r)
	if err != nil {
		t.Fatal(err)
	}
	text := out.String()
	for _, want := range []string{"2 pages", "Inspection", "1 Hello", "2 World", "Catalog", "Pages", "xref"} {
		if !strings.Contains(text, want) {
			t.Errorf("output does not contain %q:\n%s", want, text)
		}
	}
}

func TestObjectType(t *testing.T) {
	cases := []struct {
		obj  pdf.Object
		want string
	}{
		{pdf.Dict{"Type": pdf.Name("Page")}, "Page"},
		{pdf.Dict{"FT": pdf.Name("Sig")}, "Field"},
		{pdf.Dict{}, "Dict"},
		{&pdf.Stream{Dict: pdf.Dict{"Type": pdf.Name("XObject"), "Subtype": pdf.Name("Image")}}, "XObject stream (Image)"},
		{&pdf.Stream{Dict: pdf.Dict{}}, "Stream"},
		{pdf.Array{pdf.Integer(1), pdf.Integer(2)}, "Array[2]"},
		{pdf.Integer(7), "Integer 7"},
		{nil, "null"},
	}
	for _, c := range cases {
		if got := objectType(c.obj); got != c.want {
			t.Errorf("objectType(%v) = %q, want %q", c.obj, got, c.want)
		}
	}
}
