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

package recursive

import (
	"fmt"
	"math"
	"testing"

	"github.com/ajroetker/go-lpf/lpf/contrib/grid"
	"github.com/ajroetker/go-lpf/lpf/contrib/workerpool"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
)

func TestSmoothImpulse(t *testing.T) {
	for _, sigma := range []float64{1, 2, 4, 8} {
		t.Run(fmt.Sprintf("sigma=%g", sigma), func(t *testing.T) {
			n := 401
			c := n / 2
			x := make([]float32, n)
			x[c] = 1
			y := make([]float32, n)
			NewGaussian(sigma).Smooth(x, y)

			var mass, m2 float64
			for i, v := range y {
				k := float64(i - c)
				mass += float64(v)
				m2 += k * k * float64(v)
			}
			if math.Abs(mass-1) > 1e-3 {
				t.Errorf("mass = %v, want 1", mass)
			}
			if variance := m2 / mass; math.Abs(variance-sigma*sigma) > 0.05*sigma*sigma {
				t.Errorf("variance = %v, want about %v", variance, sigma*sigma)
			}
			for k := 1; k < 20; k++ {
				if d := math.Abs(float64(y[c+k] - y[c-k])); d > 1e-6 {
					t.Errorf("asymmetric at lag %d: %v vs %v", k, y[c+k], y[c-k])
				}
			}
		})
	}
}

func TestSectionsFactorRecursion(t *testing.T) {
	for _, q := range []float64{0.3, 1, 3, 10, 40} {
		t.Run(fmt.Sprintf("q=%g", q), func(t *testing.T) {
			a, b := coefficients(q)
			cs := sections(a, b)
			first := biquad.NewSection(cs[0])
			second := biquad.NewSection(cs[1])

			var y1, y2, y3 float64
			for i := range 200 {
				x := 0.0
				if i == 0 {
					x = 1
				}
				want := b*x + a[0]*y1 + a[1]*y2 + a[2]*y3
				y3, y2, y1 = y2, y1, want
				got := second.ProcessSample(first.ProcessSample(x))
				if math.Abs(got-want) > 1e-10 {
					t.Fatalf("h[%d] = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestSteadyStateStart(t *testing.T) {
	a, b := coefficients(2)
	for _, c := range sections(a, b) {
		state, y := steadyState(c, 3)
		s := biquad.NewSection(c)
		s.SetState(state)
		for i := range 5 {
			if got := s.ProcessSample(3); math.Abs(got-y) > 1e-12 {
				t.Errorf("sample %d = %v, want steady %v", i, got, y)
			}
		}
	}
}

func TestSmoothConstant(t *testing.T) {
	x := make([]float32, 64)
	for i := range x {
		x[i] = 5
	}
	y := make([]float32, 64)
	g := NewGaussian(3)
	g.Smooth(x, y)
	for i, v := range y {
		if math.Abs(float64(v-5)) > 1e-5 {
			t.Errorf("y[%d] = %v, want 5", i, v)
		}
	}

	g.Derivative(x, y)
	for i, v := range y {
		if v != 0 {
			t.Errorf("derivative[%d] = %v, want 0", i, v)
		}
	}
}

func TestDerivativeRamp(t *testing.T) {
	n := 200
	x := make([]float32, n)
	for i := range x {
		x[i] = 0.25 * float32(i)
	}
	y := make([]float32, n)
	NewGaussian(1).Derivative(x, y)
	for i := 20; i < n-20; i++ {
		if math.Abs(float64(y[i])-0.25) > 1e-4 {
			t.Errorf("derivative[%d] = %v, want 0.25", i, y[i])
		}
	}
}

func TestSmoothSmallSigma(t *testing.T) {
	g := NewGaussian(0.1)
	if g.Sigma() != 0.1 {
		t.Errorf("Sigma() = %v, want 0.1", g.Sigma())
	}
	x := []float32{0, 0, 1, 0, 0}
	y := make([]float32, 5)
	g.Smooth(x, y)
	if !(y[2] > y[1] && y[1] > 0) {
		t.Errorf("unexpected response %v", y)
	}
}

func TestApply2D(t *testing.T) {
	pool := workerpool.New(3)
	defer pool.Close()

	n1, n2 := 31, 23
	x := grid.New(n1, n2)
	for i2 := range n2 {
		row := x.Row(i2)
		for i1 := range row {
			row[i1] = float32(i1) + 2*float32(i2)
		}
	}
	g := NewGaussian(1)

	for _, p := range []*workerpool.Pool{nil, pool} {
		d1 := grid.New(n1, n2)
		d2 := grid.New(n1, n2)
		g.Apply1X(p, x, d1)
		g.ApplyX1(p, x, d2)
		for i2 := 10; i2 < n2-10; i2++ {
			for i1 := 10; i1 < n1-10; i1++ {
				if v := d1.At(i1, i2); math.Abs(float64(v)-1) > 1e-3 {
					t.Fatalf("d1(%d,%d) = %v, want 1", i1, i2, v)
				}
				if v := d2.At(i1, i2); math.Abs(float64(v)-2) > 1e-3 {
					t.Fatalf("d2(%d,%d) = %v, want 2", i1, i2, v)
				}
			}
		}

		// Smoothing a plane leaves it unchanged away from the edges, and in
		// place must match out of place.
		s := grid.New(n1, n2)
		g.Apply00(p, x, s)
		inplace := x.Clone()
		g.Apply0X(p, inplace, inplace)
		g.ApplyX0(p, inplace, inplace)
		for i2 := 8; i2 < n2-8; i2++ {
			for i1 := 8; i1 < n1-8; i1++ {
				if math.Abs(float64(s.At(i1, i2)-x.At(i1, i2))) > 1e-2 {
					t.Fatalf("smoothed(%d,%d) = %v, want %v", i1, i2, s.At(i1, i2), x.At(i1, i2))
				}
			}
		}
		for i := range s.Data() {
			if s.Data()[i] != inplace.Data()[i] {
				t.Fatalf("in-place result differs at %d", i)
			}
		}
	}
}

func BenchmarkApply00(b *testing.B) {
	x := grid.New(512, 512)
	y := grid.New(512, 512)
	g := NewGaussian(8)
	for b.Loop() {
		g.Apply00(nil, x, y)
	}
}
