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

package pdf

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testID = [][]byte{[]byte("0123456789abcdef"), []byte("fedcba9876543210")}

func writeTestFile(t *testing.T) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, &WriterOptions{ID: testID})
	if err != nil {
		t.Fatal(err)
	}

	catRef := w.Alloc()
	pagesRef := w.Alloc()
	pageRef := w.Alloc()
	contentRef := w.Alloc()

	err = w.Put(catRef, Dict{"Type": Name("Catalog"), "Pages": pagesRef})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(pagesRef, Dict{
		"Type":  Name("Pages"),
		"Kids":  Array{pageRef},
		"Count": Integer(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(pageRef, Dict{
		"Type":     Name("Page"),
		"Parent":   pagesRef,
		"MediaBox": Array{Integer(0), Integer(0), Integer(200), Integer(200)},
		"Contents": contentRef,
	})
	if err != nil {
		t.Fatal(err)
	}
	stm, err := w.OpenStream(contentRef, nil, FilterFlate{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = stm.Write([]byte("0 0 m 100 100 l S\n"))
	if err != nil {
		t.Fatal(err)
	}
	err = stm.Close()
	if err != nil {
		t.Fatal(err)
	}

	w.Root = catRef
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestWriteRead(t *testing.T) {
	data := writeTestFile(t)
	if !bytes.HasPrefix(data, []byte("%PDF-1.7\n")) {
		t.Errorf("wrong header %q", data[:10])
	}
	if !bytes.HasSuffix(data, []byte("%%EOF\n")) {
		t.Error("missing end-of-file marker")
	}

	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if r.Version != V1_7 {
		t.Errorf("wrong version %s", r.Version)
	}

	// four objects plus the stream length
	objs := r.Objects()
	if len(objs) != 5 {
		t.Errorf("expected 5 objects, got %d", len(objs))
	}
	for _, entry := range objs {
		obj, err := r.Get(entry.Ref)
		if err != nil {
			t.Errorf("%s: %v", entry.Ref, err)
		}
		if obj == nil {
			t.Errorf("%s: missing", entry.Ref)
		}
	}

	cat, err := r.GetDict(r.Trailer["Root"])
	if err != nil {
		t.Fatal(err)
	}
	pages, err := r.GetDict(cat["Pages"])
	if err != nil {
		t.Fatal(err)
	}
	if pages["Count"] != Integer(1) {
		t.Errorf("wrong page count %v", pages["Count"])
	}

	page, err := r.GetDict(pages["Kids"].(Array)[0])
	if err != nil {
		t.Fatal(err)
	}
	content, err := r.Resolve(page["Contents"])
	if err != nil {
		t.Fatal(err)
	}
	stm, ok := content.(*Stream)
	if !ok {
		t.Fatalf("expected stream, got %T", content)
	}
	body, err := DecodeStream(stm)
	if err != nil {
		t.Fatal(err)
	}
	text, err := io.ReadAll(body)
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "0 0 m 100 100 l S\n" {
		t.Errorf("wrong content %q", text)
	}

	id, _ := r.Trailer["ID"].(Array)
	if d := cmp.Diff(Array{String(testID[0]), String(testID[1])}, id); d != "" {
		t.Errorf("wrong ID (-want +got):\n%s", d)
	}
}

func TestDeterministic(t *testing.T) {
	a := writeTestFile(t)
	b := writeTestFile(t)
	if !bytes.Equal(a, b) {
		t.Error("output differs between runs")
	}
}

func TestDuplicatePut(t *testing.T) {
	w, err := NewWriter(io.Discard, nil)
	if err != nil {
		t.Fatal(err)
	}
	ref := w.Alloc()
	err = w.Put(ref, Integer(1))
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(ref, Integer(2))
	if !errors.Is(err, errDuplicateID) {
		t.Errorf("expected duplicate error, got %v", err)
	}
}

func TestPutWhileStreamOpen(t *testing.T) {
	w, err := NewWriter(io.Discard, nil)
	if err != nil {
		t.Fatal(err)
	}
	stm, err := w.OpenStream(w.Alloc(), nil)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Put(w.Alloc(), Integer(1))
	if err != errInStream {
		t.Errorf("expected errInStream, got %v", err)
	}
	err = stm.Close()
	if err != nil {
		t.Fatal(err)
	}
}

func TestAppend(t *testing.T) {
	orig := writeTestFile(t)
	r, err := NewReader(bytes.NewReader(orig), int64(len(orig)))
	if err != nil {
		t.Fatal(err)
	}
	catRef := r.Trailer["Root"].(Reference)
	cat, err := r.GetDict(catRef)
	if err != nil {
		t.Fatal(err)
	}

	buf := bytes.NewBuffer(append([]byte{}, orig...))
	w, err := Append(buf, r, &WriterOptions{ID: testID})
	if err != nil {
		t.Fatal(err)
	}
	extra := w.Alloc()
	if extra.Number() != 6 {
		t.Errorf("expected object number 6, got %d", extra.Number())
	}
	err = w.Put(extra, TextString("appended"))
	if err != nil {
		t.Fatal(err)
	}
	cat["Extra"] = extra
	err = w.Put(catRef, cat)
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}

	data := buf.Bytes()
	if !bytes.Equal(data[:len(orig)], orig) {
		t.Fatal("original bytes were modified")
	}

	r2, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	if prev := r2.Trailer["Prev"]; prev != Integer(r.XRefPos()) {
		t.Errorf("wrong /Prev %v, expected %d", prev, r.XRefPos())
	}
	if size := r2.Trailer["Size"]; size != Integer(7) {
		t.Errorf("wrong /Size %v", size)
	}
	cat2, err := r2.GetDict(r2.Trailer["Root"])
	if err != nil {
		t.Fatal(err)
	}
	val, err := r2.Resolve(cat2["Extra"])
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(String("appended"), val); d != "" {
		t.Errorf("wrong appended object (-want +got):\n%s", d)
	}
	if len(r2.Objects()) != 6 {
		t.Errorf("expected 6 objects, got %d", len(r2.Objects()))
	}
}
