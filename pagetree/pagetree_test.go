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

package pagetree

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/justifiedsolutions/OpenPDF-sub002"
)

func writeTree(t *testing.T, numPages int) *pdf.Reader {
	t.Helper()

	buf := &bytes.Buffer{}
	out, err := pdf.NewWriter(buf, &pdf.WriterOptions{ID: [][]byte{[]byte("id0"), []byte("id1")}})
	if err != nil {
		t.Fatal(err)
	}
	tree := NewWriter(out)
	tree.Attr = pdf.Dict{
		"MediaBox": pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Integer(200), pdf.Integer(300)},
	}
	for i := 0; i < numPages; i++ {
		_, err := tree.AppendPage(pdf.Dict{"PageNo": pdf.Integer(i)})
		if err != nil {
			t.Fatal(err)
		}
	}
	if tree.NumPages() != numPages {
		t.Errorf("NumPages = %d", tree.NumPages())
	}
	root, err := tree.Close()
	if err != nil {
		t.Fatal(err)
	}

	cat := out.Alloc()
	err = out.Put(cat, (&pdf.Catalog{Pages: root}).AsDict())
	if err != nil {
		t.Fatal(err)
	}
	out.Root = cat
	err = out.Close()
	if err != nil {
		t.Fatal(err)
	}

	r, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestBalance(t *testing.T) {
	for _, numPages := range []int{1, 15, 16, 17, 256, 300} {
		t.Run(fmt.Sprint(numPages), func(t *testing.T) {
			r := writeTree(t, numPages)

			pages := 0
			maxDepth := 0
			var walk func(obj pdf.Object, parent pdf.Reference, depth int) (int, error)
			walk = func(obj pdf.Object, parent pdf.Reference, depth int) (int, error) {
				node, err := r.GetDict(obj)
				if err != nil {
					return 0, err
				}
				if parent != 0 && node["Parent"] != parent {
					return 0, fmt.Errorf("%s: wrong parent", obj)
				}
				switch node["Type"] {
				case pdf.Name("Page"):
					if node["PageNo"] != pdf.Integer(pages) {
						return 0, fmt.Errorf("page %d out of order", pages)
					}
					pages++
					maxDepth = max(maxDepth, depth)
					return 1, nil
				case pdf.Name("Pages"):
					kids := node["Kids"].(pdf.Array)
					if len(kids) > maxDegree {
						return 0, fmt.Errorf("%s has %d kids", obj, len(kids))
					}
					total := 0
					for _, kid := range kids {
						n, err := walk(kid, obj.(pdf.Reference), depth+1)
						if err != nil {
							return 0, err
						}
						total += n
					}
					if node["Count"] != pdf.Integer(total) {
						return 0, fmt.Errorf("%s: Count %v, expected %d", obj, node["Count"], total)
					}
					return total, nil
				}
				return 0, fmt.Errorf("%s: unexpected node type %v", obj, node["Type"])
			}

			cat, err := r.GetDict(r.Trailer["Root"])
			if err != nil {
				t.Fatal(err)
			}
			_, err = walk(cat["Pages"], 0, 0)
			if err != nil {
				t.Fatal(err)
			}
			if pages != numPages {
				t.Errorf("found %d pages, expected %d", pages, numPages)
			}

			wantDepth := 1
			for n := maxDegree; n < numPages; n *= maxDegree {
				wantDepth++
			}
			if maxDepth != wantDepth {
				t.Errorf("tree depth %d, expected %d", maxDepth, wantDepth)
			}
		})
	}
}

func TestGetPage(t *testing.T) {
	r := writeTree(t, 40)

	n, err := NumPages(r)
	if err != nil {
		t.Fatal(err)
	}
	if n != 40 {
		t.Fatalf("NumPages = %d", n)
	}

	for _, i := range []int{0, 15, 16, 39} {
		ref, page, err := GetPage(r, i)
		if err != nil {
			t.Fatal(err)
		}
		if page["PageNo"] != pdf.Integer(i) {
			t.Errorf("GetPage(%d) returned page %v", i, page["PageNo"])
		}
		if _, ok := page["MediaBox"]; !ok {
			t.Errorf("page %d did not inherit the MediaBox", i)
		}
		if ref == 0 {
			t.Errorf("page %d has no reference", i)
		}
	}

	if _, _, err := GetPage(r, 40); err == nil {
		t.Error("missing page found")
	}
}

func TestEmptyTree(t *testing.T) {
	out, err := pdf.NewWriter(&bytes.Buffer{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewWriter(out).Close(); err == nil {
		t.Error("closing an empty tree succeeded")
	}
}
