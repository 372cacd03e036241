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
	"errors"
	"math"

	"github.com/justifiedsolutions/OpenPDF-sub002"
)

var errInvalidPageTree = errors.New("invalid page tree")

func rootNode(r *pdf.Reader) (pdf.Object, error) {
	catalog, err := r.GetDict(r.Trailer["Root"])
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, errors.New("missing document catalog")
	}
	return catalog["Pages"], nil
}

// NumPages returns the number of pages in the document.
func NumPages(r *pdf.Reader) (int, error) {
	pages, err := rootNode(r)
	if err != nil {
		return 0, err
	}
	pageTreeNode, err := r.GetDict(pages)
	if err != nil {
		return 0, err
	}

	count, err := r.GetInt(pageTreeNode["Count"])
	if err != nil {
		return 0, err
	}
	if count < 0 || count > math.MaxInt32 {
		return 0, errInvalidPageTree
	}
	return int(count), nil
}

// GetPage returns the reference and dictionary of a page.  Pages are
// numbered starting from 0.  Inherited attributes are copied into the
// returned dictionary.
func GetPage(r *pdf.Reader, pageNo int) (pdf.Reference, pdf.Dict, error) {
	if pageNo < 0 {
		return 0, nil, errors.New("invalid page number")
	}

	inheritable := []pdf.Name{"Resources", "MediaBox", "CropBox", "Rotate"}
	inherited := pdf.Dict{}

	skip := pdf.Integer(pageNo)

	pages, err := rootNode(r)
	if err != nil {
		return 0, nil, err
	}
	kids := pdf.Array{pages}

	seen := map[pdf.Reference]bool{}
	for len(kids) > 0 {
		obj := kids[0]
		kids = kids[1:]

		ref, isRef := obj.(pdf.Reference)
		if isRef {
			if seen[ref] {
				return 0, nil, errInvalidPageTree
			}
			seen[ref] = true
		}
		pageTreeNode, err := r.GetDict(obj)
		if err != nil {
			return 0, nil, err
		}

		tp, err := r.GetName(pageTreeNode["Type"])
		if err != nil {
			return 0, nil, err
		}
		switch tp {
		case "Page":
			if skip > 0 {
				skip--
				break
			}

			res := pdf.Dict{}
			for key, val := range pageTreeNode {
				res[key] = val
			}
			for _, name := range inheritable {
				if _, ok := res[name]; !ok {
					if val, ok := inherited[name]; ok {
						res[name] = val
					}
				}
			}
			return ref, res, nil

		case "Pages":
			count, err := r.GetInt(pageTreeNode["Count"])
			if err != nil {
				return 0, nil, err
			}
			if count < 0 {
				return 0, nil, errInvalidPageTree
			} else if skip < count {
				for _, name := range inheritable {
					if tmp, ok := pageTreeNode[name]; ok {
						inherited[name] = tmp
					}
				}

				kids, err = r.GetArray(pageTreeNode["Kids"])
				if err != nil {
					return 0, nil, err
				}
			} else {
				// skip to next kid
				skip -= count
			}

		default:
			return 0, nil, errInvalidPageTree
		}
	}

	return 0, nil, errors.New("page not found")
}
