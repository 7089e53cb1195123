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

package lpf

import (
	"fmt"

	"github.com/ajroetker/go-lpf/lpf/contrib/grid"
	"github.com/ajroetker/go-lpf/lpf/contrib/tridiag"
)

// forwardHalfPlane applies the six-coefficient stencil. Samples before row
// 0 and beyond either end of a row are zero. Each output row reads only
// input rows i2 and i2-1, so rows are independent.
func (f *Filter) forwardHalfPlane(u *Field, x, y *grid.Grid) {
	n1 := x.N1()
	stab := f.stability
	f.pool.ParallelFor(x.N2(), func(start, end int) {
		for i2 := start; i2 < end; i2++ {
			x2 := x.Row(i2)
			x2m := x.Row(i2 - 1)
			y2 := y.Row(i2)
			for i1 := range n1 {
				c := Coefficients(f.kind, u, i1, i2)
				s := c[1] * stab * x2[i1]
				if i1+1 < n1 {
					s += c[0] * x2[i1+1]
				}
				if i1 > 0 {
					s += c[2] * x2[i1-1]
				}
				if x2m != nil {
					if i1+1 < n1 {
						s += c[3] * x2m[i1+1]
					}
					s += c[4] * x2m[i1]
					if i1 > 0 {
						s += c[5] * x2m[i1-1]
					}
				}
				y2[i1] = s
			}
		}
	})
}

// inverseHalfPlane solves the stencil row by row in increasing i2. With row
// i2-1 of y known, row i2 is a tridiagonal system in y[i2].
func (f *Filter) inverseHalfPlane(u *Field, x, y *grid.Grid) error {
	n1, n2 := x.N1(), x.N2()
	stab := f.stability
	m := tridiag.New(n1)
	a, b, c := m.A(), m.B(), m.C()
	r := make([]float32, n1)
	for i2 := range n2 {
		x2 := x.Row(i2)
		y2m := y.Row(i2 - 1)
		for i1 := range n1 {
			k := Coefficients(f.kind, u, i1, i2)
			a[i1] = k[2]
			b[i1] = k[1] * stab
			c[i1] = k[0]
			ri := x2[i1]
			if y2m != nil {
				if i1+1 < n1 {
					ri -= k[3] * y2m[i1+1]
				}
				ri -= k[4] * y2m[i1]
				if i1 > 0 {
					ri -= k[5] * y2m[i1-1]
				}
			}
			r[i1] = ri
		}
		if err := m.Solve(r, y.Row(i2)); err != nil {
			return fmt.Errorf("lpf: %v inverse at row %d: %w", f.kind, i2, err)
		}
	}
	return nil
}
