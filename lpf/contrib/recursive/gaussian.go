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

// Package recursive provides recursive approximations to Gaussian smoothing
// and differentiation of sampled signals.
//
// The filter is the third-order causal/anti-causal cascade of Young and
// van Vliet, run as one first-order and one second-order biquad section in
// each direction: cost per sample is independent of sigma. Derivatives are a
// centered first difference followed by smoothing, so they vanish exactly
// on constant input.
//
// # 2-D Operations
//
// Method names follow the axis they act on, first character for axis 1
// (fast, within a row) and second for axis 2 (across rows):
//
//	Apply0X(x, y) // smooth along axis 1 only
//	ApplyX0(x, y) // smooth along axis 2 only
//	Apply1X(x, y) // differentiate along axis 1 only
//	ApplyX1(x, y) // differentiate along axis 2 only
//	Apply00(x, y) // smooth along both axes
//
// Input and output may be the same grid.
package recursive

import (
	"slices"

	"github.com/ajroetker/go-lpf/lpf/contrib/grid"
	"github.com/ajroetker/go-lpf/lpf/contrib/workerpool"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
)

// Gaussian is a recursive Gaussian filter with fixed half-width sigma.
// It is safe for concurrent use.
type Gaussian struct {
	sigma float64

	// sections factor the causal recursion: a first-order section holding
	// the real pole and the input gain, then the complex pole pair.
	sections [2]biquad.Coefficients
}

// NewGaussian returns a filter with half-width sigma, measured in samples.
// The scale parameter of the recursion is tuned so that the impulse
// response of the cascade has variance sigma^2 exactly. A non-positive
// sigma gives the identity.
func NewGaussian(sigma float64) *Gaussian {
	g := &Gaussian{sigma: sigma, sections: [2]biquad.Coefficients{biquad.Identity(), biquad.Identity()}}
	if !(sigma > 0) {
		return g
	}
	want := sigma * sigma
	lo, hi := 0.0, max(1, sigma)
	for variance(hi) < want {
		hi *= 2
	}
	for range 100 {
		mid := 0.5 * (lo + hi)
		if variance(mid) < want {
			lo = mid
		} else {
			hi = mid
		}
	}
	g.sections = sections(coefficients(0.5 * (lo + hi)))
	return g
}

// sections splits 1 - a0 z^-1 - a1 z^-2 - a2 z^-3 into a real pole p and a
// quadratic 1 + c1 z^-1 + c2 z^-2, with the input gain b on the first.
func sections(a [3]float64, b float64) [2]biquad.Coefficients {
	p := realPole(a)
	c1 := p - a[0]
	c2 := p*c1 - a[1]
	return [2]biquad.Coefficients{
		{B0: b, A1: -p},
		{B0: 1, A1: c1, A2: c2},
	}
}

// realPole returns the real root of z^3 - a0 z^2 - a1 z - a2. For a stable
// recursion it is the only real root and lies in (-1, 1), where the cubic
// changes sign.
func realPole(a [3]float64) float64 {
	f := func(z float64) float64 { return ((z-a[0])*z-a[1])*z - a[2] }
	lo, hi := -1.0, 1.0
	for range 100 {
		mid := 0.5 * (lo + hi)
		if f(mid) < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// steadyState returns the delay-line state of a section that has seen the
// constant input x forever, and its output.
func steadyState(c biquad.Coefficients, x float64) (state [2]float64, y float64) {
	y = x * (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)
	d1 := c.B2*x - c.A2*y
	return [2]float64{c.B1*x - c.A1*y + d1, d1}, y
}

// coefficients returns the feedback coefficients and input gain of the
// third-order recursion for scale parameter q.
func coefficients(q float64) (a [3]float64, b float64) {
	q2 := q * q
	q3 := q2 * q
	b0 := 1.57825 + 2.44413*q + 1.4281*q2 + 0.422205*q3
	b1 := 2.44413*q + 2.85619*q2 + 1.26661*q3
	b2 := -(1.4281*q2 + 1.26661*q3)
	b3 := 0.422205 * q3
	a = [3]float64{b1 / b0, b2 / b0, b3 / b0}
	return a, 1 - (b1+b2+b3)/b0
}

// variance returns the variance of the causal/anti-causal cascade for scale
// parameter q, from the derivatives of the causal transfer function at z=1.
func variance(q float64) float64 {
	a, b := coefficients(q)
	p := a[0] + 2*a[1] + 3*a[2]
	dp := 2*a[1] + 6*a[2]
	mean := p / b
	second := dp/b + 2*mean*mean
	return 2 * (second + mean - mean*mean)
}

// Sigma returns the half-width the filter was created with.
func (g *Gaussian) Sigma() float64 {
	return g.sigma
}

// Smooth applies the filter to x, writing y. x and y may be the same slice.
func (g *Gaussian) Smooth(x, y []float32) {
	n := len(x)
	if len(y) < n {
		panic("recursive: output slice too short")
	}
	if n == 0 {
		return
	}
	w := make([]float64, n)
	g.smooth(x, w)
	for i := range n {
		y[i] = float32(w[i])
	}
}

// Derivative applies the first-derivative filter to x, writing y.
// x and y may be the same slice.
func (g *Gaussian) Derivative(x, y []float32) {
	n := len(x)
	if len(y) < n {
		panic("recursive: output slice too short")
	}
	if n == 0 {
		return
	}
	d := make([]float32, n)
	difference(x, d)
	w := make([]float64, n)
	g.smooth(d, w)
	for i := range n {
		y[i] = float32(w[i])
	}
}

// difference computes the centered first difference with replicated ends.
func difference(x, d []float32) {
	n := len(x)
	if n == 1 {
		d[0] = 0
		return
	}
	d[0] = 0.5 * (x[1] - x[0])
	for i := 1; i < n-1; i++ {
		d[i] = 0.5 * (x[i+1] - x[i-1])
	}
	d[n-1] = 0.5 * (x[n-1] - x[n-2])
}

// smooth runs the causal then anti-causal recursions into w. Both passes
// start from the steady state of a constant extension of the signal.
func (g *Gaussian) smooth(x []float32, w []float64) {
	for i, v := range x {
		w[i] = float64(v)
	}
	g.causal(w)
	slices.Reverse(w)
	g.causal(w)
	slices.Reverse(w)
}

// causal filters w in place through both sections.
func (g *Gaussian) causal(w []float64) {
	x := w[0]
	for _, c := range g.sections {
		s := biquad.Section{Coefficients: c}
		state, y := steadyState(c, x)
		s.SetState(state)
		s.ProcessBlock(w)
		x = y
	}
}

// Apply0X smooths each row (along axis 1).
func (g *Gaussian) Apply0X(pool *workerpool.Pool, x, y *grid.Grid) {
	g.rows(pool, x, y, g.Smooth)
}

// Apply1X differentiates each row (along axis 1).
func (g *Gaussian) Apply1X(pool *workerpool.Pool, x, y *grid.Grid) {
	g.rows(pool, x, y, g.Derivative)
}

// ApplyX0 smooths each column (along axis 2).
func (g *Gaussian) ApplyX0(pool *workerpool.Pool, x, y *grid.Grid) {
	g.columns(pool, x, y, g.Smooth)
}

// ApplyX1 differentiates each column (along axis 2).
func (g *Gaussian) ApplyX1(pool *workerpool.Pool, x, y *grid.Grid) {
	g.columns(pool, x, y, g.Derivative)
}

// Apply00 smooths along both axes.
func (g *Gaussian) Apply00(pool *workerpool.Pool, x, y *grid.Grid) {
	g.Apply0X(pool, x, y)
	g.ApplyX0(pool, y, y)
}

func (g *Gaussian) rows(pool *workerpool.Pool, x, y *grid.Grid, fn func(x, y []float32)) {
	if !grid.SameShape(x, y) {
		panic("recursive: shape mismatch")
	}
	pool.ParallelFor(x.N2(), func(start, end int) {
		for i2 := start; i2 < end; i2++ {
			fn(x.Row(i2), y.Row(i2))
		}
	})
}

func (g *Gaussian) columns(pool *workerpool.Pool, x, y *grid.Grid, fn func(x, y []float32)) {
	if !grid.SameShape(x, y) {
		panic("recursive: shape mismatch")
	}
	n2 := x.N2()
	pool.ParallelFor(x.N1(), func(start, end int) {
		col := make([]float32, n2)
		for i1 := start; i1 < end; i1++ {
			x.Column(i1, col)
			fn(col, col)
			y.SetColumn(i1, col)
		}
	})
}
