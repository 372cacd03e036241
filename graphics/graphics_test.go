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
	"bytes"
	"strings"
	"testing"

	"github.com/justifiedsolutions/OpenPDF-sub002/font"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
)

func TestTextShow(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf, nil)
	f := font.New(font.Times, 10, font.Bold)
	w.TextShow(f, 72, 700.5, "Grüße (1)")
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	want := "0 g\nBT\n/F1 10 Tf\n72 700.5 Td\n(Gr\\374\\337e (1)) Tj\nET\n"
	if got := buf.String(); got != want {
		t.Errorf("wrong content stream:\n%s\nexpected:\n%s", got, want)
	}
	if w.Resources.Font["F1"] != f {
		t.Error("font not registered")
	}
}

func TestResourceNames(t *testing.T) {
	res := NewResources()
	a := res.FontName(font.New(font.Helvetica, 10, font.Normal))
	b := res.FontName(font.New(font.Helvetica, 20, font.Underline))
	c := res.FontName(font.New(font.Helvetica, 10, font.Bold))
	if a != b {
		t.Errorf("same font got names %s and %s", a, b)
	}
	if a == c {
		t.Error("different fonts share a name")
	}

	img := model.NewImage(nil, 2, 2, "DeviceGray", []byte{0, 1, 2, 3})
	if res.ImageName(img) != res.ImageName(img) {
		t.Error("image names differ")
	}
	if len(res.ImageNames()) != 1 || len(res.FontNames()) != 2 {
		t.Errorf("wrong resource counts %d %d", len(res.ImageNames()), len(res.FontNames()))
	}
}

func TestStickyError(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf, nil)
	w.LineTo(1, 1) // no current path
	if w.Err == nil {
		t.Fatal("missing error")
	}
	w.FillRect(0, 0, 10, 10)
	if buf.Len() != 0 {
		t.Errorf("output after error: %q", buf.String())
	}

	w = NewWriter(&bytes.Buffer{}, nil)
	w.PushGraphicsState()
	if err := w.Close(); err == nil || !strings.Contains(err.Error(), "unclosed") {
		t.Errorf("unbalanced q not detected: %v", err)
	}
}

func TestDrawImage(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewWriter(buf, nil)
	img := model.NewImage(nil, 2, 2, "DeviceGray", []byte{0, 1, 2, 3})
	w.DrawImage(img, 10, 20, 30, 40)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	want := "q\n30 0 0 40 10 20 cm\n/Im1 Do\nQ\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, expected %q", got, want)
	}
}
