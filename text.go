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
	"strings"
	"time"
	"unicode/utf16"
)

// TextString creates a String object using the "text string" encoding,
// i.e. using either UTF-16BE encoding (with a BOM) or plain ASCII.
func TextString(s string) String {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x7f || c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
			return utf16Encode(s)
		}
	}
	return String(s)
}

func utf16Encode(s string) String {
	u := utf16.Encode([]rune(s))
	res := make(String, 2+2*len(u))
	res[0] = 0xFE
	res[1] = 0xFF
	for i, c := range u {
		res[2+2*i] = byte(c >> 8)
		res[3+2*i] = byte(c)
	}
	return res
}

// AsTextString interprets x as a PDF "text string" and returns
// the corresponding utf-8 encoded string.
func (x String) AsTextString() string {
	if len(x) >= 2 && x[0] == 0xFE && x[1] == 0xFF {
		var u []uint16
		for i := 2; i < len(x)-1; i += 2 {
			u = append(u, uint16(x[i])<<8|uint16(x[i+1]))
		}
		return string(utf16.Decode(u))
	}
	return string(x)
}

// Date creates a PDF String object encoding the given date and time,
// in the form D:YYYYMMDDHHmmSS+HH'mm'.
func Date(t time.Time) String {
	s := t.Format("D:20060102150405-0700")
	k := len(s) - 2
	s = s[:k] + "'" + s[k:] + "'"
	return String(s)
}

// AsDate converts a PDF date string to a time.Time object.
func (x String) AsDate() (time.Time, error) {
	s := strings.ReplaceAll(x.AsTextString(), "'", "")
	formats := []string{
		"D:20060102150405-0700",
		"D:20060102150405Z0000",
		"D:20060102150405Z",
		"D:20060102150405",
		"D:20060102",
	}
	var err error
	for _, format := range formats {
		var t time.Time
		t, err = time.Parse(format, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
