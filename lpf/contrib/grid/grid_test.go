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
	"math"
	"testing"

	"github.com/ajroetker/go-lpf/lpf/contrib/workerpool"
)

func TestNew(t *testing.T) {
	g := New(5, 3)
	if g.N1() != 5 || g.N2() != 3 || g.Len() != 15 {
		t.Fatalf("got %dx%d (len %d), want 5x3 (len 15)", g.N1(), g.N2(), g.Len())
	}
	for _, v := range g.Data() {
		if v != 0 {
			t.Fatalf("new grid not zero: %v", v)
		}
	}

	empty := New(0, 4)
	if empty.Len() != 0 || empty.N1() != 0 || empty.N2() != 0 {
		t.Errorf("New(0, 4) = %dx%d, want empty", empty.N1(), empty.N2())
	}
}

func TestAtSetRow(t *testing.T) {
	g := New(4, 3)
	g.Set(1, 2, 7)
	if got := g.At(1, 2); got != 7 {
		t.Errorf("At(1,2) = %v, want 7", got)
	}
	if got := g.Row(2)[1]; got != 7 {
		t.Errorf("Row(2)[1] = %v, want 7", got)
	}
	if got := g.Data()[2*4+1]; got != 7 {
		t.Errorf("Data()[9] = %v, want 7", got)
	}

	// Out of range is ignored on write and zero on read.
	g.Set(-1, 0, 3)
	g.Set(4, 0, 3)
	if got := g.At(4, 0); got != 0 {
		t.Errorf("At(4,0) = %v, want 0", got)
	}
	if g.Row(3) != nil {
		t.Error("Row(3) should be nil")
	}
}

func TestFromRows(t *testing.T) {
	g, err := FromRows([][]float32{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatal(err)
	}
	if g.N1() != 3 || g.N2() != 2 {
		t.Fatalf("got %dx%d, want 3x2", g.N1(), g.N2())
	}
	if g.At(2, 1) != 6 {
		t.Errorf("At(2,1) = %v, want 6", g.At(2, 1))
	}
	rows := g.Rows()
	rows[0][0] = 100
	if g.At(0, 0) != 1 {
		t.Error("Rows must return a copy")
	}

	if _, err := FromRows([][]float32{{1, 2}, {3}}); err == nil {
		t.Error("ragged rows should fail")
	}
}

func TestCloneFillColumn(t *testing.T) {
	g := New(3, 4)
	g.Fill(2)
	c := g.Clone()
	c.Set(0, 0, 9)
	if g.At(0, 0) != 2 {
		t.Error("Clone must not share storage")
	}

	col := []float32{1, 2, 3, 4}
	g.SetColumn(1, col)
	got := make([]float32, 4)
	g.Column(1, got)
	for i := range col {
		if got[i] != col[i] {
			t.Errorf("column[%d] = %v, want %v", i, got[i], col[i])
		}
	}

	g.Zero()
	if MaxAbs(g) != 0 {
		t.Error("Zero left non-zero samples")
	}
	c.CopyFrom(g)
	if MaxAbs(c) != 0 {
		t.Error("CopyFrom did not copy")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ index, size, want int }{
		{-3, 5, 0},
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 4},
		{9, 5, 4},
	}
	for _, tt := range tests {
		if got := Clamp(tt.index, tt.size); got != tt.want {
			t.Errorf("Clamp(%d, %d) = %d, want %d", tt.index, tt.size, got, tt.want)
		}
	}
}

func ramp(n1, n2 int, scale float32) *Grid {
	g := New(n1, n2)
	for i := range g.Data() {
		g.Data()[i] = scale * float32(i%17-8)
	}
	return g
}

func TestVectorOps(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	for _, size := range []struct{ n1, n2 int }{{7, 5}, {256, 129}} {
		for _, p := range []*workerpool.Pool{nil, pool} {
			x := ramp(size.n1, size.n2, 1)
			y := ramp(size.n1, size.n2, 0.5)

			var want float64
			for i := range x.Data() {
				want += float64(x.Data()[i]) * float64(y.Data()[i])
			}
			if got := Dot(p, x, y); math.Abs(got-want) > 1e-9*math.Abs(want) {
				t.Errorf("%dx%d: Dot = %v, want %v", size.n1, size.n2, got, want)
			}

			z := y.Clone()
			Axpy(p, 2, x, z)
			for i := range z.Data() {
				if w := y.Data()[i] + 2*x.Data()[i]; z.Data()[i] != w {
					t.Fatalf("Axpy[%d] = %v, want %v", i, z.Data()[i], w)
				}
			}

			z = y.Clone()
			Xpay(p, x, 3, z)
			for i := range z.Data() {
				if w := x.Data()[i] + 3*y.Data()[i]; z.Data()[i] != w {
					t.Fatalf("Xpay[%d] = %v, want %v", i, z.Data()[i], w)
				}
			}

			Scale(p, -1, z)
			if got, want := MaxAbs(z), MaxAbs(x)+3*MaxAbs(y); got != want {
				t.Errorf("MaxAbs after Scale = %v, want %v", got, want)
			}
		}
	}
}

func TestVectorOpsShapeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Dot of mismatched grids should panic")
		}
	}()
	Dot(nil, New(3, 3), New(3, 4))
}
