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

package dijkstra

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestShortestPath(t *testing.T) {
	// vertices 0..4, only short hops allowed
	cost := func(i, j int) float64 {
		if j-i > 2 {
			return math.Inf(1)
		}
		return float64((j - i) * (j - i))
	}
	length, path := ShortestPath(cost, 4)
	if length != 4 {
		t.Errorf("expected length 4, got %g", length)
	}
	if d := cmp.Diff([]int{0, 1, 2, 3, 4}, path); d != "" {
		t.Errorf("wrong path (-want +got):\n%s", d)
	}
}

func TestUnreachable(t *testing.T) {
	cost := func(i, j int) float64 {
		if j == 3 {
			return math.Inf(1)
		}
		return 1
	}
	length, path := ShortestPath(cost, 3)
	if !math.IsInf(length, 1) || path != nil {
		t.Errorf("expected no path, got %g %v", length, path)
	}
}

func TestSingleVertex(t *testing.T) {
	length, path := ShortestPath(func(i, j int) float64 { return 1 }, 0)
	if length != 0 {
		t.Errorf("wrong length %g", length)
	}
	if d := cmp.Diff([]int{0}, path); d != "" {
		t.Errorf("wrong path (-want +got):\n%s", d)
	}
}
