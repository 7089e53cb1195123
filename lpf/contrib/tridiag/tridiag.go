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

// Package tridiag solves tridiagonal systems of equations.
//
// A Matrix holds the three diagonals of an n x n system
//
//	b[0] c[0]
//	a[1] b[1] c[1]
//	     a[2] b[2] c[2]
//	          ...
//	               a[n-1] b[n-1]
//
// a[0] and c[n-1] are ignored. The diagonals are exposed as mutable
// slices so one Matrix can be refilled and solved once per image row
// without allocating.
package tridiag

import "errors"

// ErrSingular is returned when elimination meets a zero pivot.
var ErrSingular = errors.New("tridiag: singular matrix")

// Matrix is an n x n tridiagonal matrix with float32 coefficients.
type Matrix struct {
	a, b, c []float32
	gam     []float64
	sol     []float64
}

// New returns a zero n x n tridiagonal matrix.
func New(n int) *Matrix {
	return &Matrix{
		a:   make([]float32, n),
		b:   make([]float32, n),
		c:   make([]float32, n),
		gam: make([]float64, n),
		sol: make([]float64, n),
	}
}

// N returns the number of rows.
func (m *Matrix) N() int {
	return len(m.b)
}

// A returns the sub-diagonal; A()[i] multiplies x[i-1] in row i.
func (m *Matrix) A() []float32 {
	return m.a
}

// B returns the diagonal.
func (m *Matrix) B() []float32 {
	return m.b
}

// C returns the super-diagonal; C()[i] multiplies x[i+1] in row i.
func (m *Matrix) C() []float32 {
	return m.c
}

// Solve solves M x = r with the Thomas algorithm in float64. r and x may be
// the same slice. No pivoting is done, so the matrix should be diagonally
// dominant; a zero pivot returns ErrSingular and leaves x untouched.
func (m *Matrix) Solve(r, x []float32) error {
	n := len(m.b)
	if len(r) < n || len(x) < n {
		panic("tridiag: slice too short")
	}
	if n == 0 {
		return nil
	}

	a, b, c, gam, sol := m.a, m.b, m.c, m.gam, m.sol
	bet := float64(b[0])
	if bet == 0 {
		return ErrSingular
	}
	sol[0] = float64(r[0]) / bet
	for j := 1; j < n; j++ {
		gam[j] = float64(c[j-1]) / bet
		bet = float64(b[j]) - float64(a[j])*gam[j]
		if bet == 0 {
			return ErrSingular
		}
		sol[j] = (float64(r[j]) - float64(a[j])*sol[j-1]) / bet
	}
	for j := n - 2; j >= 0; j-- {
		sol[j] -= gam[j+1] * sol[j+1]
	}
	for j := range n {
		x[j] = float32(sol[j])
	}
	return nil
}

// Multiply computes y = M x. x and y must be distinct.
func (m *Matrix) Multiply(x, y []float32) {
	n := len(m.b)
	if len(x) < n || len(y) < n {
		panic("tridiag: slice too short")
	}
	if n == 0 {
		return
	}
	for i := range n {
		s := float64(m.b[i]) * float64(x[i])
		if i > 0 {
			s += float64(m.a[i]) * float64(x[i-1])
		}
		if i < n-1 {
			s += float64(m.c[i]) * float64(x[i+1])
		}
		y[i] = float32(s)
	}
}
