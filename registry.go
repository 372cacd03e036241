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
	"sync/atomic"
)

// ResourceID identifies a binary resource, for example an image, across
// all documents written by a process.  Two insertions of a resource with
// the same ResourceID are written to a file only once.
type ResourceID uint64

func (id ResourceID) String() string {
	return "res" + strconv.FormatUint(uint64(id), 10)
}

// Registry hands out resource identities.  A Registry is safe for
// concurrent use by multiple write sessions.
type Registry struct {
	last atomic.Uint64
}

// NewID returns a new, previously unused resource identity.
func (r *Registry) NewID() ResourceID {
	return ResourceID(r.last.Add(1))
}

// DefaultRegistry is the process-wide registry, used when no other
// registry is given.
var DefaultRegistry = &Registry{}
