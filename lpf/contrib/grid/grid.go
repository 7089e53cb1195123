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

// Package grid provides a dense 2-D array of float32 samples.
//
// A Grid has n1 samples along its fast axis and n2 samples along its slow
// axis. Samples are stored row-major without padding, so a whole grid can be
// handed to BLAS-style vector routines as one contiguous slice:
//
//	g := grid.New(n1, n2)
//	for i2 := 0; i2 < g.N2(); i2++ {
//	    row := g.Row(i2)
//	    for i1 := range row {
//	        row[i1] = float32(i1 + i2)
//	    }
//	}
//
// Index order in At and Set is (i1, i2): fast index first.
package grid

import "fmt"

// Grid is a dense n1 x n2 array of float32 samples.
type Grid struct {
	data []float32
	n1   int
	n2   int
}

// New creates a zero-filled grid with n1 samples per row and n2 rows.
// Non-positive dimensions yield an empty grid.
func New(n1, n2 int) *Grid {
	if n1 <= 0 || n2 <= 0 {
		return &Grid{}
	}
	return &Grid{
		data: make([]float32, n1*n2),
		n1:   n1,
		n2:   n2,
	}
}

// FromRows copies a rectangular [n2][n1] array into a new grid.
func FromRows(rows [][]float32) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return New(0, 0), nil
	}
	n1 := len(rows[0])
	g := New(n1, len(rows))
	for i2, row := range rows {
		if len(row) != n1 {
			return nil, fmt.Errorf("grid: row %d has %d samples, want %d", i2, len(row), n1)
		}
		copy(g.Row(i2), row)
	}
	return g, nil
}

// N1 returns the number of samples along the fast axis.
func (g *Grid) N1() int {
	return g.n1
}

// N2 returns the number of samples along the slow axis.
func (g *Grid) N2() int {
	return g.n2
}

// Len returns the total number of samples.
func (g *Grid) Len() int {
	return len(g.data)
}

// Data returns the backing slice in row-major order.
func (g *Grid) Data() []float32 {
	return g.data
}

// Row returns a mutable slice for row i2.
func (g *Grid) Row(i2 int) []float32 {
	if i2 < 0 || i2 >= g.n2 {
		return nil
	}
	start := i2 * g.n1
	return g.data[start : start+g.n1]
}

// Rows returns a copy of the grid as a [n2][n1] array.
func (g *Grid) Rows() [][]float32 {
	rows := make([][]float32, g.n2)
	for i2 := range rows {
		rows[i2] = append([]float32(nil), g.Row(i2)...)
	}
	return rows
}

// At returns the sample at (i1, i2), or zero outside the grid.
func (g *Grid) At(i1, i2 int) float32 {
	if i1 < 0 || i1 >= g.n1 || i2 < 0 || i2 >= g.n2 {
		return 0
	}
	return g.data[i2*g.n1+i1]
}

// Set sets the sample at (i1, i2). Out-of-range indices are ignored.
func (g *Grid) Set(i1, i2 int, v float32) {
	if i1 < 0 || i1 >= g.n1 || i2 < 0 || i2 >= g.n2 {
		return
	}
	g.data[i2*g.n1+i1] = v
}

// SameShape returns true if both grids have the same dimensions.
func SameShape(a, b *Grid) bool {
	return a.n1 == b.n1 && a.n2 == b.n2
}

// Clone creates a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{
		data: append([]float32(nil), g.data...),
		n1:   g.n1,
		n2:   g.n2,
	}
}

// CopyFrom copies src into g. Both grids must have the same shape.
func (g *Grid) CopyFrom(src *Grid) {
	if !SameShape(g, src) {
		panic("grid: CopyFrom shape mismatch")
	}
	copy(g.data, src.data)
}

// Zero sets all samples to zero.
func (g *Grid) Zero() {
	clear(g.data)
}

// Fill sets all samples to v.
func (g *Grid) Fill(v float32) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Column copies column i1 into dst, which must hold n2 samples.
func (g *Grid) Column(i1 int, dst []float32) {
	for i2 := range g.n2 {
		dst[i2] = g.data[i2*g.n1+i1]
	}
}

// SetColumn copies src into column i1.
func (g *Grid) SetColumn(i1 int, src []float32) {
	for i2 := range g.n2 {
		g.data[i2*g.n1+i1] = src[i2]
	}
}

// Clamp returns index clamped to [0, size-1].
func Clamp(index, size int) int {
	if index < 0 {
		return 0
	}
	if index >= size {
		return size - 1
	}
	return index
}
