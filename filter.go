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
	"compress/zlib"
	"io"
)

// Filter represents a PDF stream filter.
type Filter interface {
	// Info returns the name and parameters of the filter,
	// as they should be written to the stream dictionary.
	Info(ver Version) (Name, Dict, error)

	// Encode returns a writer which encodes data written to it and
	// writes the result to w.  Closing the returned writer closes w.
	Encode(ver Version, w io.WriteCloser) (io.WriteCloser, error)
}

// FilterFlate is the FlateDecode filter.
// No predictors are used when encoding.
type FilterFlate struct{}

// Info implements the [Filter] interface.
func (FilterFlate) Info(Version) (Name, Dict, error) {
	return "FlateDecode", nil, nil
}

// Encode implements the [Filter] interface.
func (FilterFlate) Encode(_ Version, w io.WriteCloser) (io.WriteCloser, error) {
	zw, err := zlib.NewWriterLevel(w, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	return &flateWriter{Writer: zw, w: w}, nil
}

type flateWriter struct {
	*zlib.Writer
	w io.WriteCloser
}

func (fw *flateWriter) Close() error {
	err := fw.Writer.Close()
	if err != nil {
		return err
	}
	return fw.w.Close()
}

func appendFilter(dict Dict, name Name, parms Dict) {
	switch filter := dict["Filter"].(type) {
	case nil:
		dict["Filter"] = name
		if parms != nil {
			dict["DecodeParms"] = parms
		}
	case Name:
		dict["Filter"] = Array{filter, name}
		var p0 Object
		if p, ok := dict["DecodeParms"].(Dict); ok {
			p0 = p
		}
		if p0 != nil || parms != nil {
			dict["DecodeParms"] = Array{p0, parms}
		}
	case Array:
		dict["Filter"] = append(filter, name)
		if p, ok := dict["DecodeParms"].(Array); ok {
			dict["DecodeParms"] = append(p, parms)
		} else if parms != nil {
			p := make(Array, len(filter)+1)
			p[len(filter)] = parms
			dict["DecodeParms"] = p
		}
	}
}

// DecodeStream returns a reader for the decoded contents of a stream
// which uses no filter or the FlateDecode filter.
func DecodeStream(s *Stream) (io.Reader, error) {
	switch f := s.Dict["Filter"].(type) {
	case nil:
		return s.R, nil
	case Name:
		if f == "FlateDecode" {
			return zlib.NewReader(s.R)
		}
	}
	return nil, &MalformedFileError{Err: errUnsupportedFilter}
}
