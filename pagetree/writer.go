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

// Package pagetree implements PDF page trees.
//
// Pages are grouped into a balanced tree.  No node of the tree has more
// than 16 children.
package pagetree

import (
	"errors"
	"fmt"

	"github.com/justifiedsolutions/OpenPDF-sub002"
)

const maxDegree = 16

// Writer writes a page tree to a PDF file.
type Writer struct {
	Out *pdf.Writer

	// Attr holds inheritable page attributes, for example the MediaBox.
	// They are stored in the root node.
	Attr pdf.Dict

	isClosed bool
	err      error

	// Tail contains completed subtrees, in page order.  The depth of the
	// subtrees is weakly decreasing, and for every depth there are at most
	// maxDegree-1 subtrees of this depth.
	tail []*nodeInfo

	numPages int
}

type nodeInfo struct {
	dict      pdf.Dict // a /Page or /Pages object
	ref       pdf.Reference
	pageCount pdf.Integer
	depth     int
}

// NewWriter creates a new page tree which adds pages to the PDF file w.
func NewWriter(w *pdf.Writer) *Writer {
	return &Writer{Out: w}
}

// AppendPage adds a new page to the page tree and returns the reference
// of the page dictionary.  The Type and Parent fields of dict are set
// automatically.  The dictionary is written once its parent is known.
func (w *Writer) AppendPage(dict pdf.Dict) (pdf.Reference, error) {
	ref := w.Out.Alloc()
	err := w.AppendPageRef(ref, dict)
	if err != nil {
		return 0, err
	}
	return ref, nil
}

// AppendPageRef adds a new page to the page tree, using the given reference
// for the page dictionary.
func (w *Writer) AppendPageRef(ref pdf.Reference, dict pdf.Dict) error {
	if w.err != nil {
		return w.err
	}
	if w.isClosed {
		return errors.New("page tree is closed")
	}

	dict["Type"] = pdf.Name("Page")
	w.tail = append(w.tail, &nodeInfo{
		dict:      dict,
		ref:       ref,
		pageCount: 1,
	})
	w.numPages++

	for {
		n := len(w.tail)
		if n < maxDegree || w.tail[n-1].depth != w.tail[n-maxDegree].depth {
			break
		}
		w.tail = w.mergeNodes(w.tail, n-maxDegree, n)
	}
	return w.err
}

// NumPages returns the number of pages added so far.
func (w *Writer) NumPages() int {
	return w.numPages
}

// Close writes all remaining nodes of the tree and returns the reference
// of the root node.  After a tree has been closed, no more pages can be
// added.
func (w *Writer) Close() (pdf.Reference, error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.isClosed {
		return 0, errors.New("page tree is closed")
	}
	w.isClosed = true

	if len(w.tail) == 0 {
		return 0, errors.New("no pages in document")
	}
	w.collapse()

	root := w.tail[0]
	w.tail = nil
	if root.depth == 0 {
		// the root node cannot be a leaf
		w.tail = []*nodeInfo{root}
		root = w.mergeNodes(w.tail, 0, 1)[0]
	}
	if w.err != nil {
		return 0, w.err
	}

	for key, val := range w.Attr {
		root.dict[key] = val
	}
	err := w.Out.Put(root.ref, root.dict)
	if err != nil {
		return 0, fmt.Errorf("page tree root: %w", err)
	}
	return root.ref, nil
}

// collapse reduces the tail to (at most) one node.
func (w *Writer) collapse() {
	for len(w.tail) > 1 {
		start := len(w.tail) - maxDegree
		if start < 0 {
			start = 0
		}
		for start > 0 && w.tail[start-1].depth == w.tail[start].depth {
			start++
		}
		w.tail = w.mergeNodes(w.tail, start, len(w.tail))
	}
}

// mergeNodes collapses nodes a, ..., b-1 into a new internal node.
// The child nodes are written to the file.
func (w *Writer) mergeNodes(nodes []*nodeInfo, a, b int) []*nodeInfo {
	childNodes := nodes[a:b]

	kids := make(pdf.Array, len(childNodes))
	parentRef := w.Out.Alloc()
	var pageCount pdf.Integer
	maxDepth := 0
	for i, node := range childNodes {
		node.dict["Parent"] = parentRef
		kids[i] = node.ref

		if w.err == nil {
			w.err = w.Out.Put(node.ref, node.dict)
		}

		pageCount += node.pageCount
		if node.depth > maxDepth {
			maxDepth = node.depth
		}
	}

	parentNode := &nodeInfo{
		dict: pdf.Dict{
			"Type":  pdf.Name("Pages"),
			"Kids":  kids,
			"Count": pageCount,
		},
		ref:       parentRef,
		pageCount: pageCount,
		depth:     maxDepth + 1,
	}

	nodes[a] = parentNode
	nodes = append(nodes[:a+1], nodes[b:]...)
	return nodes
}
