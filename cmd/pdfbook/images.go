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
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/justifiedsolutions/OpenPDF-sub002"
	"github.com/justifiedsolutions/OpenPDF-sub002/model"
)

// imageLoader reads image files referenced from a markdown document.
// Every file is read once, so that repeated uses share the image data.
type imageLoader struct {
	dir   string
	reg   *pdf.Registry
	cache map[string]*model.Image
}

func newImageLoader(dir string, reg *pdf.Registry) *imageLoader {
	return &imageLoader{
		dir:   dir,
		reg:   reg,
		cache: make(map[string]*model.Image),
	}
}

func (l *imageLoader) load(name string) (*model.Image, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(l.dir, name)
	}
	if img, ok := l.cache[name]; ok {
		return img, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	img, err := decodeImage(l.reg, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	img.Alignment = model.AlignCenter
	l.cache[name] = img
	return img, nil
}

// decodeImage converts JPEG or PNG data into an image.  JPEG data is
// stored unchanged, PNG images are stored as raw samples.
func decodeImage(reg *pdf.Registry, data []byte) (*model.Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	switch format {
	case "jpeg":
		var cs pdf.Name
		switch cfg.ColorModel {
		case color.GrayModel:
			cs = "DeviceGray"
		case color.CMYKModel:
			cs = "DeviceCMYK"
		default:
			cs = "DeviceRGB"
		}
		img := model.NewImage(reg, cfg.Width, cfg.Height, cs, data)
		img.Filter = "DCTDecode"
		return img, nil

	case "png":
		src, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		b := src.Bounds()
		if gray, ok := src.(*image.Gray); ok {
			samples := make([]byte, 0, b.Dx()*b.Dy())
			for y := b.Min.Y; y < b.Max.Y; y++ {
				row := gray.Pix[gray.PixOffset(b.Min.X, y):]
				samples = append(samples, row[:b.Dx()]...)
			}
			return model.NewImage(reg, b.Dx(), b.Dy(), "DeviceGray", samples), nil
		}
		samples := make([]byte, 0, 3*b.Dx()*b.Dy())
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				// transparent pixels are composed onto white
				c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
				a := int(c.A)
				blend := func(v uint8) byte {
					return byte((int(v)*a + 255*(255-a)) / 255)
				}
				samples = append(samples, blend(c.R), blend(c.G), blend(c.B))
			}
		}
		return model.NewImage(reg, b.Dx(), b.Dy(), "DeviceRGB", samples), nil
	}
	return nil, fmt.Errorf("unsupported image format %q", format)
}
