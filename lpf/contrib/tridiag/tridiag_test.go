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

package tridiag

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"
)

func fillDominant(m *Matrix, rng *rand.Rand) {
	a, b, c := m.A(), m.B(), m.C()
	for i := range m.N() {
		a[i] = float32(rng.Float64() - 0.5)
		c[i] = float32(rng.Float64() - 0.5)
		b[i] = 1.1 + float32(rng.Float64())
	}
}

func TestSolve(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for _, n := range []int{1, 2, 3, 17, 256} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			m := New(n)
			fillDominant(m, rng)

			want := make([]float32, n)
			for i := range want {
				want[i] = float32(rng.NormFloat64())
			}
			r := make([]float32, n)
			m.Multiply(want, r)

			got := make([]float32, n)
			if err := m.Solve(r, got); err != nil {
				t.Fatal(err)
			}
			for i := range got {
				if math.Abs(float64(got[i]-want[i])) > 1e-5 {
					t.Errorf("x[%d] = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestSolveInPlace(t *testing.T) {
	m := New(3)
	copy(m.A(), []float32{0, -1, -1})
	copy(m.B(), []float32{2, 2, 2})
	copy(m.C(), []float32{-1, -1, 0})

	// [2 -1 0; -1 2 -1; 0 -1 2] * [1 2 3] = [0 0 4]
	x := []float32{0, 0, 4}
	if err := m.Solve(x, x); err != nil {
		t.Fatal(err)
	}
	want := []float32{1, 2, 3}
	for i := range x {
		if math.Abs(float64(x[i]-want[i])) > 1e-6 {
			t.Errorf("x[%d] = %v, want %v", i, x[i], want[i])
		}
	}
}

func TestSolveSingular(t *testing.T) {
	m := New(2)
	copy(m.B(), []float32{1, 1})
	copy(m.A(), []float32{0, 1})
	copy(m.C(), []float32{1, 0})

	x := []float32{7, 7}
	err := m.Solve([]float32{1, 1}, x)
	if !errors.Is(err, ErrSingular) {
		t.Fatalf("err = %v, want ErrSingular", err)
	}
	if x[0] != 7 || x[1] != 7 {
		t.Errorf("x modified on failure: %v", x)
	}

	zero := New(1)
	if err := zero.Solve([]float32{1}, []float32{0}); !errors.Is(err, ErrSingular) {
		t.Errorf("zero diagonal: err = %v, want ErrSingular", err)
	}
}

func BenchmarkSolve(b *testing.B) {
	rng := rand.New(rand.NewPCG(5, 6))
	m := New(1024)
	fillDominant(m, rng)
	r := make([]float32, 1024)
	x := make([]float32, 1024)
	for i := range r {
		r[i] = float32(rng.NormFloat64())
	}
	for b.Loop() {
		_ = m.Solve(r, x)
	}
}
