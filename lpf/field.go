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
	"math"

	"github.com/ajroetker/go-lpf/lpf/contrib/grid"
)

// Field is a per-sample estimate of local planar structure. (U1, U2) is the
// unit normal to the planes, with U1 >= 0. Planarity is in [0, 1], and 0
// where no orientation could be measured. A Field is not modified by the
// filters and may be shared between goroutines.
type Field struct {
	Planarity *grid.Grid
	U1        *grid.Grid
	U2        *grid.Grid
}

// NewField returns a field over the given grids, which must have one shape.
func NewField(planarity, u1, u2 *grid.Grid) (*Field, error) {
	if planarity == nil || u1 == nil || u2 == nil {
		return nil, fmt.Errorf("%w: nil field component", ErrDimensionMismatch)
	}
	if !grid.SameShape(planarity, u1) || !grid.SameShape(u1, u2) {
		return nil, fmt.Errorf("%w: field components %dx%d, %dx%d, %dx%d", ErrDimensionMismatch,
			planarity.N1(), planarity.N2(), u1.N1(), u1.N2(), u2.N1(), u2.N2())
	}
	return &Field{Planarity: planarity, U1: u1, U2: u2}, nil
}

// ConstantField returns an n1 by n2 field with planarity 1 and the normal
// (u1, u2) everywhere. The normal is scaled to unit length and negated if
// u1 < 0; a zero vector becomes (1, 0).
func ConstantField(n1, n2 int, u1, u2 float32) *Field {
	u1, u2 = canonicalNormal(float64(u1), float64(u2))
	f := &Field{
		Planarity: grid.New(n1, n2),
		U1:        grid.New(n1, n2),
		U2:        grid.New(n1, n2),
	}
	f.Planarity.Fill(1)
	f.U1.Fill(u1)
	f.U2.Fill(u2)
	return f
}

// canonicalNormal returns (u1, u2) normalized with u1 >= 0.
func canonicalNormal(u1, u2 float64) (float32, float32) {
	h := math.Hypot(u1, u2)
	if !(h > 0) {
		return 1, 0
	}
	u1, u2 = u1/h, u2/h
	if u1 < 0 {
		u1, u2 = -u1, -u2
	}
	return float32(u1), float32(u2)
}

// N1 returns the number of samples along axis 1.
func (u *Field) N1() int { return u.U1.N1() }

// N2 returns the number of samples along axis 2.
func (u *Field) N2() int { return u.U1.N2() }

// normal returns the normal at (i1, i2), clamped into the grid.
func (u *Field) normal(i1, i2 int) (float32, float32) {
	i1 = grid.Clamp(i1, u.N1())
	i2 = grid.Clamp(i2, u.N2())
	return u.U1.Row(i2)[i1], u.U2.Row(i2)[i1]
}

// check verifies that x has the field's shape.
func (u *Field) check(x *grid.Grid) error {
	if u == nil || u.U1 == nil || u.U2 == nil || x == nil {
		return fmt.Errorf("%w: nil field or image", ErrDimensionMismatch)
	}
	if !grid.SameShape(u.U1, x) || !grid.SameShape(u.U2, x) {
		return fmt.Errorf("%w: field is %dx%d, image is %dx%d", ErrDimensionMismatch,
			u.N1(), u.N2(), x.N1(), x.N2())
	}
	return nil
}
