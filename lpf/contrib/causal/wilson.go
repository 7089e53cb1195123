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
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// FFTSize is the side of the periodic frequency grid used by WilsonBurg.
const FFTSize = 64

// WilsonBurg factors a 2-D autocorrelation into a minimum-phase causal
// filter by Wilson-Burg iteration in the frequency domain. A zero value is
// not usable; construct with NewWilsonBurg. A WilsonBurg holds no mutable
// state and is safe for concurrent use.
type WilsonBurg struct {
	maxIter int
	epsilon float64
}

// NewWilsonBurg returns a factorizer that stops after maxIter iterations,
// or earlier once no coefficient changes by more than epsilon*a[0].
func NewWilsonBurg(maxIter int, epsilon float64) *WilsonBurg {
	return &WilsonBurg{maxIter: maxIter, epsilon: epsilon}
}

// Factorization is the result of WilsonBurg.Factor.
type Factorization struct {
	// A holds one coefficient per lag, A[0] at lag (0,0).
	A []float32

	// Iterations is the number of updates performed.
	Iterations int

	// Converged reports whether the change tolerance was met.
	Converged bool
}

// Factor returns the filter a on lags whose autocorrelation approximates r.
// r is an odd-sized symmetric window centered on lag (0,0), indexed
// r[lag2+m2][lag1+m1] with m2 = len(r)/2 and m1 = len(r[0])/2.
//
// Each update computes U = R/|A|^2 + 1 on the frequency grid, keeps the
// causal half of its inverse transform (half weight at lag (0,0)), sets
// A = A*U+ and truncates a to the lag set. At the fixed point |A|^2 = R.
func (w *WilsonBurg) Factor(lags *Lags, r [][]float64) (Factorization, error) {
	n := FFTSize
	if len(r) == 0 {
		return Factorization{}, fmt.Errorf("causal: empty autocorrelation")
	}
	if len(r)%2 == 0 || len(r[0])%2 == 0 {
		return Factorization{}, fmt.Errorf("causal: autocorrelation window must have odd sides, got %dx%d", len(r), len(r[0]))
	}
	m2, m1 := len(r)/2, len(r[0])/2
	if 2*m1+1 > n || 2*m2+1 > n || lags.max1-lags.min1 >= n || lags.max2 >= n/2 {
		return Factorization{}, fmt.Errorf("causal: lags or autocorrelation do not fit a %dx%d grid", n, n)
	}
	r0 := r[m2][m1]
	if !(r0 > 0) {
		return Factorization{}, fmt.Errorf("causal: zero-lag autocorrelation must be positive, got %v", r0)
	}

	t := newTransform2(n)
	rf := make([]complex128, n*n)
	for l2 := -m2; l2 <= m2; l2++ {
		for l1 := -m1; l1 <= m1; l1++ {
			rf[t.index(l1, l2)] = complex(r[l2+m2][l1+m1], 0)
		}
	}
	t.forward(rf)
	rs := make([]float64, n*n)
	for k, v := range rf {
		rs[k] = real(v)
	}

	nlag := lags.Len()
	a := make([]float64, nlag)
	next := make([]float64, nlag)
	a[0] = math.Sqrt(r0)

	af := make([]complex128, n*n)
	u := make([]complex128, n*n)
	res := Factorization{}
	for res.Iterations < w.maxIter {
		clear(af)
		for j := range nlag {
			af[t.index(lags.lag1[j], lags.lag2[j])] = complex(a[j], 0)
		}
		t.forward(af)

		for k, v := range af {
			p := real(v)*real(v) + imag(v)*imag(v)
			u[k] = complex(rs[k]/p+1, 0)
		}
		t.inverse(u)
		for k := range u {
			l1, l2 := t.lag(k)
			switch {
			case l1 == 0 && l2 == 0:
				u[k] *= 0.5
			case l2 > 0 || (l2 == 0 && l1 > 0):
			default:
				u[k] = 0
			}
		}
		t.forward(u)

		for k := range af {
			af[k] *= u[k]
		}
		t.inverse(af)
		for j := range nlag {
			next[j] = real(af[t.index(lags.lag1[j], lags.lag2[j])])
		}
		res.Iterations++

		change := floats.Distance(next, a, math.Inf(1))
		a, next = next, a
		if change <= w.epsilon*a[0] {
			res.Converged = true
			break
		}
	}

	res.A = make([]float32, nlag)
	for j, v := range a {
		res.A[j] = float32(v)
	}
	return res, nil
}

// Autocorrelation returns the autocorrelation of the filter a on lags over
// the window |lag1| <= m1, |lag2| <= m2, in the layout Factor accepts.
func Autocorrelation(lags *Lags, a []float64, m1, m2 int) [][]float64 {
	r := make([][]float64, 2*m2+1)
	for i := range r {
		r[i] = make([]float64, 2*m1+1)
	}
	for j := range a {
		for k := range a {
			l1 := lags.lag1[k] - lags.lag1[j]
			l2 := lags.lag2[k] - lags.lag2[j]
			if l1 >= -m1 && l1 <= m1 && l2 >= -m2 && l2 <= m2 {
				r[l2+m2][l1+m1] += a[j] * a[k]
			}
		}
	}
	return r
}

// transform2 is a square 2-D complex FFT built from 1-D gonum transforms
// applied along rows and then columns.
type transform2 struct {
	n   int
	fft *fourier.CmplxFFT
	buf []complex128
	out []complex128
}

func newTransform2(n int) *transform2 {
	return &transform2{
		n:   n,
		fft: fourier.NewCmplxFFT(n),
		buf: make([]complex128, n),
		out: make([]complex128, n),
	}
}

// index maps a lag to its position on the periodic grid.
func (t *transform2) index(l1, l2 int) int {
	n := t.n
	return ((l2%n+n)%n)*n + (l1%n+n)%n
}

// lag is the inverse of index, with lags in [-n/2, n/2).
func (t *transform2) lag(k int) (l1, l2 int) {
	n := t.n
	l2, l1 = k/n, k%n
	if l1 >= n/2 {
		l1 -= n
	}
	if l2 >= n/2 {
		l2 -= n
	}
	return l1, l2
}

func (t *transform2) forward(x []complex128) {
	t.apply(x, t.fft.Coefficients)
}

// inverse is normalized so that inverse(forward(x)) == x.
func (t *transform2) inverse(x []complex128) {
	t.apply(x, t.fft.Sequence)
	s := complex(1/float64(t.n*t.n), 0)
	for k := range x {
		x[k] *= s
	}
}

func (t *transform2) apply(x []complex128, fn func(dst, src []complex128) []complex128) {
	n := t.n
	for i2 := range n {
		row := x[i2*n : (i2+1)*n]
		copy(t.buf, row)
		fn(row, t.buf)
	}
	for i1 := range n {
		for i2 := range n {
			t.buf[i2] = x[i2*n+i1]
		}
		fn(t.out, t.buf)
		for i2 := range n {
			x[i2*n+i1] = t.out[i2]
		}
	}
}
