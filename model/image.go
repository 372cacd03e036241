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

package model

import "github.com/justifiedsolutions/OpenPDF-sub002"

// Image is a pre-decoded raster image.  Decoding of image file formats
// is left to the caller, who supplies the sample data in a form which
// can be stored in a PDF image XObject.
type Image struct {
	// ID identifies the image data.  Inserting the same image twice
	// stores the data only once.
	ID pdf.ResourceID

	Width, Height    int
	ColorSpace       pdf.Name
	BitsPerComponent int

	// Filter is the PDF filter the data is encoded with, for example
	// "DCTDecode" for JPEG data.  If empty, the data consists of the raw
	// samples.
	Filter pdf.Name

	Data []byte

	// ScaledWidth and ScaledHeight give the size of the image on the
	// page.  If zero, one pixel is drawn as one PDF unit.
	ScaledWidth, ScaledHeight float64

	Alignment Alignment
}

// NewImage returns a new image with an identity from reg.
// If reg is nil, [pdf.DefaultRegistry] is used.
func NewImage(reg *pdf.Registry, width, height int, colorSpace pdf.Name, data []byte) *Image {
	if reg == nil {
		reg = pdf.DefaultRegistry
	}
	return &Image{
		ID:               reg.NewID(),
		Width:            width,
		Height:           height,
		ColorSpace:       colorSpace,
		BitsPerComponent: 8,
		Data:             data,
		Alignment:        AlignLeft,
	}
}

// Kind implements the [Element] interface.
func (img *Image) Kind() Kind { return KindBlock }

// Size returns the size of the image on the page.
func (img *Image) Size() (float64, float64) {
	w, h := img.ScaledWidth, img.ScaledHeight
	if w <= 0 {
		w = float64(img.Width)
	}
	if h <= 0 {
		h = float64(img.Height)
	}
	return w, h
}
