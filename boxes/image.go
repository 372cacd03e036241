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

package boxes

import (
	"github.com/justifiedsolutions/OpenPDF-sub002/graphics"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
)

// ImageBox places an image within the text area.
type ImageBox struct {
	BoxExtent
	Image *model.Image

	x, w, h float64
}

// Image returns a box of the given width which shows img.  Images wider
// than the box are scaled down, keeping the aspect ratio.
func Image(img *model.Image, width float64) *ImageBox {
	w, h := img.Size()
	if w > width && w > 0 {
		h *= width / w
		w = width
	}
	var x float64
	switch img.Alignment {
	case model.AlignRight:
		x = width - w
	case model.AlignCenter:
		x = (width - w) / 2
	}
	return &ImageBox{
		BoxExtent: BoxExtent{Width: width, Height: h},
		Image:     img,
		x:         x,
		w:         w,
		h:         h,
	}
}

// Draw implements the Box interface.
func (obj *ImageBox) Draw(w *graphics.Writer, xPos, yPos float64) {
	w.DrawImage(obj.Image, xPos+obj.x, yPos, obj.w, obj.h)
}
