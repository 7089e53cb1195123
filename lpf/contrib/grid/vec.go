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

package grid

import (
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/gonum"

	"github.com/ajroetker/go-lpf/lpf/contrib/workerpool"
)

// MinParallelSamples is the grid size below which the vector operations
// stay on the calling goroutine.
const MinParallelSamples = 16384

var impl gonum.Implementation

func vector(data []float32) blas32.Vector {
	return blas32.Vector{N: len(data), Inc: 1, Data: data}
}

// rowSpan runs fn over row ranges of g, in parallel when pool is non-nil
// and the grid is large enough.
func rowSpan(pool *workerpool.Pool, g *Grid, fn func(lo, hi int)) {
	if pool == nil || g.Len() < MinParallelSamples {
		fn(0, g.Len())
		return
	}
	pool.ParallelFor(g.n2, func(start, end int) {
		fn(start*g.n1, end*g.n1)
	})
}

func mustMatch(op string, x, y *Grid) {
	if !SameShape(x, y) {
		panic("grid: " + op + " shape mismatch")
	}
}

// Dot returns the inner product of x and y accumulated in float64.
func Dot(pool *workerpool.Pool, x, y *Grid) float64 {
	mustMatch("Dot", x, y)
	if pool == nil || x.Len() < MinParallelSamples {
		return impl.Dsdot(x.Len(), x.data, 1, y.data, 1)
	}
	return pool.Sum(x.n2, func(start, end int) float64 {
		lo, hi := start*x.n1, end*x.n1
		return impl.Dsdot(hi-lo, x.data[lo:hi], 1, y.data[lo:hi], 1)
	})
}

// Axpy computes y += alpha*x.
func Axpy(pool *workerpool.Pool, alpha float32, x, y *Grid) {
	mustMatch("Axpy", x, y)
	rowSpan(pool, x, func(lo, hi int) {
		blas32.Axpy(alpha, vector(x.data[lo:hi]), vector(y.data[lo:hi]))
	})
}

// Xpay computes y = x + beta*y.
func Xpay(pool *workerpool.Pool, x *Grid, beta float32, y *Grid) {
	mustMatch("Xpay", x, y)
	rowSpan(pool, x, func(lo, hi int) {
		yv := vector(y.data[lo:hi])
		blas32.Scal(beta, yv)
		blas32.Axpy(1, vector(x.data[lo:hi]), yv)
	})
}

// Scale computes x *= alpha.
func Scale(pool *workerpool.Pool, alpha float32, x *Grid) {
	rowSpan(pool, x, func(lo, hi int) {
		blas32.Scal(alpha, vector(x.data[lo:hi]))
	})
}

// MaxAbs returns the largest absolute sample value.
func MaxAbs(x *Grid) float32 {
	if x.Len() == 0 {
		return 0
	}
	return abs32(x.data[impl.Isamax(x.Len(), x.data, 1)])
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
