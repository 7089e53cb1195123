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

package causal

import (
	"github.com/ajroetker/go-lpf/lpf/contrib/grid"
	"github.com/ajroetker/go-lpf/lpf/contrib/workerpool"
)

// Coefs returns the coefficients of the filter that produces output sample
// (i1, i2), one per lag. The returned slice is shared and must not be
// modified.
type Coefs func(i1, i2 int) []float32

// Local is a causal filter whose coefficients vary from sample to sample.
// Samples outside the grid are zero.
type Local struct {
	lags *Lags
}

// NewLocal returns a local causal filter with the given lags.
func NewLocal(lags *Lags) *Local {
	return &Local{lags: lags}
}

// Lags returns the filter's lag table.
func (f *Local) Lags() *Lags {
	return f.lags
}

func checkDistinct(x, y *grid.Grid) {
	if !grid.SameShape(x, y) {
		panic("causal: shape mismatch")
	}
	if x == y {
		panic("causal: input and output must be distinct")
	}
}

// Apply computes y = A x:
//
//	y[i2][i1] = sum_j a_j(i1,i2) x[i2-lag2_j][i1-lag1_j]
//
// x and y must be distinct.
func (f *Local) Apply(pool *workerpool.Pool, c Coefs, x, y *grid.Grid) {
	checkDistinct(x, y)
	n1, n2 := x.N1(), x.N2()
	lag1, lag2 := f.lags.lag1, f.lags.lag2
	pool.ParallelFor(n2, func(start, end int) {
		for i2 := start; i2 < end; i2++ {
			yr := y.Row(i2)
			for i1 := range n1 {
				a := c(i1, i2)
				var s float64
				for j, aj := range a {
					k1, k2 := i1-lag1[j], i2-lag2[j]
					if k1 >= 0 && k1 < n1 && k2 >= 0 {
						s += float64(aj) * float64(x.Row(k2)[k1])
					}
				}
				yr[i1] = float32(s)
			}
		}
	})
}

// ApplyTranspose computes y = A' x. Each scatter of Apply becomes a gather
// from the later samples that used (i1, i2) as input:
//
//	y[i2][i1] = sum_j a_j(i1+lag1_j, i2+lag2_j) x[i2+lag2_j][i1+lag1_j]
//
// x and y must be distinct.
func (f *Local) ApplyTranspose(pool *workerpool.Pool, c Coefs, x, y *grid.Grid) {
	checkDistinct(x, y)
	n1, n2 := x.N1(), x.N2()
	lag1, lag2 := f.lags.lag1, f.lags.lag2
	pool.ParallelFor(n2, func(start, end int) {
		for i2 := start; i2 < end; i2++ {
			yr := y.Row(i2)
			for i1 := range n1 {
				var s float64
				for j := range lag1 {
					k1, k2 := i1+lag1[j], i2+lag2[j]
					if k1 >= 0 && k1 < n1 && k2 < n2 {
						s += float64(c(k1, k2)[j]) * float64(x.Row(k2)[k1])
					}
				}
				yr[i1] = float32(s)
			}
		}
	})
}

// ApplyInverse solves A y = x by recursion in raster order. x and y may be
// the same grid.
func (f *Local) ApplyInverse(c Coefs, x, y *grid.Grid) {
	if !grid.SameShape(x, y) {
		panic("causal: shape mismatch")
	}
	n1, n2 := x.N1(), x.N2()
	lag1, lag2 := f.lags.lag1, f.lags.lag2
	for i2 := range n2 {
		xr, yr := x.Row(i2), y.Row(i2)
		for i1 := range n1 {
			a := c(i1, i2)
			s := float64(xr[i1])
			for j := 1; j < len(a); j++ {
				k1, k2 := i1-lag1[j], i2-lag2[j]
				if k1 >= 0 && k1 < n1 && k2 >= 0 {
					s -= float64(a[j]) * float64(y.Row(k2)[k1])
				}
			}
			yr[i1] = float32(s / float64(a[0]))
		}
	}
}

// ApplyInverseTranspose solves A' y = x by recursion in reverse raster
// order. x and y may be the same grid.
func (f *Local) ApplyInverseTranspose(c Coefs, x, y *grid.Grid) {
	if !grid.SameShape(x, y) {
		panic("causal: shape mismatch")
	}
	n1, n2 := x.N1(), x.N2()
	lag1, lag2 := f.lags.lag1, f.lags.lag2
	for i2 := n2 - 1; i2 >= 0; i2-- {
		xr, yr := x.Row(i2), y.Row(i2)
		for i1 := n1 - 1; i1 >= 0; i1-- {
			s := float64(xr[i1])
			for j := 1; j < len(lag1); j++ {
				k1, k2 := i1+lag1[j], i2+lag2[j]
				if k1 >= 0 && k1 < n1 && k2 < n2 {
					s -= float64(c(k1, k2)[j]) * float64(y.Row(k2)[k1])
				}
			}
			yr[i1] = float32(s / float64(c(i1, i2)[0]))
		}
	}
}
