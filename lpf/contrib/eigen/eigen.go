// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package eigen solves small symmetric eigen-problems in closed form.
package eigen

import "math"

// SolveSymmetric22 returns the eigenvalues and eigenvectors of the symmetric
// matrix [[a11, a12], [a12, a22]].
//
// Eigenvalues are sorted so that d[0] >= d[1]; v[0] is the unit eigenvector
// for d[0] and v[1] = (-v[0][1], v[0][0]) the one for d[1]. When the matrix
// is a multiple of the identity every vector is an eigenvector and v[0] is
// (1, 0).
func SolveSymmetric22(a11, a12, a22 float64) (d [2]float64, v [2][2]float64) {
	half := 0.5 * (a11 + a22)
	diff := 0.5 * (a11 - a22)
	r := math.Hypot(diff, a12)
	d[0] = half + r
	d[1] = half - r

	if r == 0 {
		v[0] = [2]float64{1, 0}
		v[1] = [2]float64{0, 1}
		return d, v
	}

	// Build the eigenvector from whichever row of (A - d0 I) is larger;
	// its leading term is diff+r or r-diff, both >= r > 0.
	var x, y float64
	if diff >= 0 {
		x, y = diff+r, a12
	} else {
		x, y = a12, r-diff
	}
	s := 1 / math.Hypot(x, y)
	x *= s
	y *= s
	v[0] = [2]float64{x, y}
	v[1] = [2]float64{-y, x}
	return d, v
}
