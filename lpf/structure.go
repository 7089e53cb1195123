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

	"github.com/ajroetker/go-lpf/lpf/contrib/eigen"
	"github.com/ajroetker/go-lpf/lpf/contrib/grid"
)

// Find estimates the local plane at every sample of x. Gradients from a
// derivative-of-Gaussian with sigma 1 form the products g1*g1, g1*g2 and
// g2*g2, which are smoothed with the filter's sigma into a structure
// tensor. Its principal eigenvector is the normal and
// (d0-d1)/(d0+d1) the planarity. Where the tensor vanishes the planarity
// is 0 and the normal (1, 0).
func (f *Filter) Find(x *grid.Grid) (*Field, error) {
	if x == nil {
		return nil, fmt.Errorf("%w: nil image", ErrDimensionMismatch)
	}
	n1, n2 := x.N1(), x.N2()
	pool := f.pool

	g11 := grid.New(n1, n2)
	g12 := grid.New(n1, n2)
	g22 := grid.New(n1, n2)
	f.gradient.Apply1X(pool, x, g12)
	f.gradient.ApplyX1(pool, x, g22)
	pool.ParallelFor(n2, func(start, end int) {
		for i2 := start; i2 < end; i2++ {
			r11, r12, r22 := g11.Row(i2), g12.Row(i2), g22.Row(i2)
			for i1 := range n1 {
				g1, g2 := r12[i1], r22[i1]
				r11[i1] = g1 * g1
				r12[i1] = g1 * g2
				r22[i1] = g2 * g2
			}
		}
	})
	for _, g := range []*grid.Grid{g11, g12, g22} {
		f.smoother.Apply0X(pool, g, g)
		f.smoother.ApplyX0(pool, g, g)
	}

	// The tensor grids are overwritten with planarity, u1 and u2.
	pool.ParallelFor(n2, func(start, end int) {
		for i2 := start; i2 < end; i2++ {
			r11, r12, r22 := g11.Row(i2), g12.Row(i2), g22.Row(i2)
			for i1 := range n1 {
				d, v := eigen.SolveSymmetric22(float64(r11[i1]), float64(r12[i1]), float64(r22[i1]))
				d0, d1 := d[0], max(d[1], 0)
				if d0+d1 <= 0 {
					r11[i1], r12[i1], r22[i1] = 0, 1, 0
					continue
				}
				v1, v2 := v[0][0], v[0][1]
				if v1 < 0 {
					v1, v2 = -v1, -v2
				}
				r11[i1] = float32((d0 - d1) / (d0 + d1))
				r12[i1] = float32(v1)
				r22[i1] = float32(v2)
			}
		}
	})
	return &Field{Planarity: g11, U1: g12, U2: g22}, nil
}
