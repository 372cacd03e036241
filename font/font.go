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

// Package font describes the fonts used for text in generated documents.
//
// Only the standard 14 PDF fonts are supported.  These fonts are not
// embedded, and text is encoded using WinAnsiEncoding.  Glyph metrics are
// taken from built-in tables.
package font

import (
	"strconv"

	"golang.org/x/text/encoding/charmap"

	"github.com/justifiedsolutions/OpenPDF-sub002"
)

// Family selects one of the standard font families.
type Family int

// These are the supported font families.
const (
	Helvetica Family = iota
	Times
	Courier
)

func (f Family) String() string {
	switch f {
	case Helvetica:
		return "Helvetica"
	case Times:
		return "Times"
	case Courier:
		return "Courier"
	default:
		return "font.Family(" + strconv.Itoa(int(f)) + ")"
	}
}

// Style is a set of style flags.
type Style int

// These are the supported style flags.  Bold and Italic select a font
// variant, Underline and Strikethru are drawn as rules.
const (
	Bold Style = 1 << iota
	Italic
	Underline
	Strikethru

	Normal Style = 0
)

// Color is an RGB color with components in the range [0, 1].
// The zero value is black.
type Color struct {
	R, G, B float64
}

// Font describes the font used for a run of text.
type Font struct {
	Family Family
	Size   float64
	Style  Style
	Color  Color
}

// New returns a new font description.
func New(family Family, size float64, style Style) *Font {
	return &Font{
		Family: family,
		Size:   size,
		Style:  style,
	}
}

// Clone returns a copy of f.
func (f *Font) Clone() *Font {
	c := *f
	return &c
}

// PostScriptName returns the name of the standard font which
// implements the family and the Bold/Italic flags of f.
func (f *Font) PostScriptName() pdf.Name {
	bold := f.Style&Bold != 0
	italic := f.Style&Italic != 0
	switch f.Family {
	case Times:
		switch {
		case bold && italic:
			return "Times-BoldItalic"
		case bold:
			return "Times-Bold"
		case italic:
			return "Times-Italic"
		default:
			return "Times-Roman"
		}
	case Courier:
		return pdf.Name("Courier" + variant(bold, italic, "Oblique"))
	default:
		return pdf.Name("Helvetica" + variant(bold, italic, "Oblique"))
	}
}

func variant(bold, italic bool, slant string) string {
	switch {
	case bold && italic:
		return "-Bold" + slant
	case bold:
		return "-Bold"
	case italic:
		return "-" + slant
	default:
		return ""
	}
}

// Dict returns the font dictionary for the standard font used by f.
func (f *Font) Dict() pdf.Dict {
	return pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": f.PostScriptName(),
		"Encoding": pdf.Name("WinAnsiEncoding"),
	}
}

// Encode converts a string to WinAnsiEncoding.  Characters which cannot
// be represented are replaced by a question mark.
func Encode(s string) []byte {
	res := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		res = append(res, b)
	}
	return res
}

// Metrics provides glyph metrics for fonts.
type Metrics interface {
	// Width returns the advance width of s, in PDF units.
	Width(f *Font, s string) float64

	// Ascent returns the height of the font above the baseline.
	Ascent(f *Font) float64

	// Descent returns the depth of the font below the baseline,
	// as a positive number.
	Descent(f *Font) float64
}

// Standard provides the metrics of the standard 14 fonts.
var Standard Metrics = standardMetrics{}

type standardMetrics struct{}

func (standardMetrics) Width(f *Font, s string) float64 {
	widths := widthTable(f)
	fallback := widths['n'-firstChar]
	total := 0
	for _, c := range Encode(s) {
		if c >= firstChar && int(c) < firstChar+len(widths) {
			total += int(widths[c-firstChar])
		} else {
			total += int(fallback)
		}
	}
	return float64(total) * f.Size / 1000
}

func (standardMetrics) Ascent(f *Font) float64 {
	return float64(familyMetrics[f.Family].ascent) * f.Size / 1000
}

func (standardMetrics) Descent(f *Font) float64 {
	return float64(-familyMetrics[f.Family].descent) * f.Size / 1000
}

func widthTable(f *Font) []int16 {
	if f.Family == Courier {
		return courierWidths[:]
	}
	bold := f.Style&Bold != 0
	switch {
	case f.Family == Times && bold:
		return timesBoldWidths[:]
	case f.Family == Times:
		return timesRomanWidths[:]
	case bold:
		return helveticaBoldWidths[:]
	default:
		return helveticaWidths[:]
	}
}
