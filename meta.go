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
	"strconv"

	"golang.org/x/text/language"
)

// Version represent the version of PDF standard used in a file.
type Version int

// Constants for all PDF versions this package can write.
const (
	V1_0 Version = iota
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	tooHighVersion
)

// ParseVersion parses a PDF version string of the form "1.x".
func ParseVersion(verString string) (Version, error) {
	if len(verString) != 3 || verString[0] != '1' || verString[1] != '.' {
		return -1, errVersion
	}
	x := Version(verString[2] - '0')
	if x < V1_0 || x >= tooHighVersion {
		return -1, errVersion
	}
	return x, nil
}

// ToString returns the string representation of ver, e.g. "1.7".
// If ver does not correspond to a supported PDF version, an error is
// returned.
func (ver Version) ToString() (string, error) {
	if ver < V1_0 || ver >= tooHighVersion {
		return "", errVersion
	}
	return "1." + strconv.Itoa(int(ver)), nil
}

func (ver Version) String() string {
	s, err := ver.ToString()
	if err != nil {
		return "pdf.Version(" + strconv.Itoa(int(ver)) + ")"
	}
	return s
}

// Catalog represents the document catalog, the root of the object graph.
type Catalog struct {
	Pages    Reference
	Outlines Reference
	AcroForm Object
	Metadata Reference
	Lang     language.Tag

	// PageMode specifies how the document is displayed when opened.
	// If empty, the field is omitted.
	PageMode Name
}

// AsDict returns the catalog as a PDF dictionary.
func (cat *Catalog) AsDict() Dict {
	dict := Dict{
		"Type":  Name("Catalog"),
		"Pages": cat.Pages,
	}
	if cat.Outlines != 0 {
		dict["Outlines"] = cat.Outlines
	}
	if cat.AcroForm != nil {
		dict["AcroForm"] = cat.AcroForm
	}
	if cat.Metadata != 0 {
		dict["Metadata"] = cat.Metadata
	}
	if cat.Lang != language.Und {
		dict["Lang"] = TextString(cat.Lang.String())
	}
	if cat.PageMode != "" {
		dict["PageMode"] = cat.PageMode
	}
	return dict
}
