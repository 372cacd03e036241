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

// Package dijkstra finds shortest paths in graphs where the vertices are
// numbered 0, 1, ..., n and edges only lead from lower to higher numbers.
package dijkstra

import "math"

// ShortestPath implements Dijkstra's algorithm for the graph with vertices
// 0, 1, ..., n and edges (i, j) with 0 <= i < j <= n.  The path starts at 0
// and ends at n.  The function cost gives the length of an edge; missing
// edges have length +Inf.
//
// The function returns the length of the shortest path together with the
// list of vertices along the path, starting with 0 and ending with n.  If n
// cannot be reached, the length is +Inf and the path is nil.
func ShortestPath(cost func(i, j int) float64, n int) (float64, []int) {
	inf := math.Inf(1)

	// dist[i] is the length of the best known path from i to n.
	dist := make([]float64, n+1)
	next := make([]int, n+1)
	done := make([]bool, n+1)
	for i := range dist {
		dist[i] = inf
		next[i] = -1
	}
	dist[n] = 0

	for {
		best := -1
		for i := n; i >= 0; i-- {
			if !done[i] && (best < 0 || dist[i] < dist[best]) {
				best = i
			}
		}
		if best < 0 || math.IsInf(dist[best], 1) {
			break
		}
		done[best] = true
		if best == 0 {
			break
		}

		for i := best - 1; i >= 0; i-- {
			if done[i] {
				continue
			}
			c := cost(i, best)
			if math.IsInf(c, 1) {
				continue
			}
			if alt := dist[best] + c; alt < dist[i] {
				dist[i] = alt
				next[i] = best
			}
		}
	}

	if math.IsInf(dist[0], 1) {
		return inf, nil
	}
	res := []int{0}
	for pos := 0; pos < n; {
		pos = next[pos]
		res = append(res, pos)
	}
	return dist[0], res
}
