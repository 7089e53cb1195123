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
	"github.com/ajroetker/go-lpf/lpf/contrib/grid"
	"github.com/ajroetker/go-lpf/lpf/contrib/workerpool"
)

const (
	pcgIterations = 10
	cgIterations  = 200
	cgTolerance   = 1e-5
)

// wavekill is the quarter-plane plane-wave destructor
//
//	(F x)[i2][i1] = um (x[i2][i1] - x[i2-1][i1-1]) + up (x[i2][i1-1] - x[i2-1][i1])
//
// with um = (u1-u2)/2 and up = (u1+u2)/2 taken at the output sample and
// x zero outside the grid.
type wavekill struct {
	pool   *workerpool.Pool
	small  float32
	um, up *grid.Grid
	t      *grid.Grid
}

func newWavekill(f *Filter, u *Field) *wavekill {
	n1, n2 := u.N1(), u.N2()
	w := &wavekill{
		pool:  f.pool,
		small: f.stability - 1,
		um:    grid.New(n1, n2),
		up:    grid.New(n1, n2),
		t:     grid.New(n1, n2),
	}
	f.pool.ParallelFor(n2, func(start, end int) {
		for i2 := start; i2 < end; i2++ {
			u1, u2 := u.U1.Row(i2), u.U2.Row(i2)
			um, up := w.um.Row(i2), w.up.Row(i2)
			for i1 := range u1 {
				um[i1] = 0.5 * (u1[i1] - u2[i1])
				up[i1] = 0.5 * (u1[i1] + u2[i1])
			}
		}
	})
	return w
}

// apply computes t = F x.
func (w *wavekill) apply(x, t *grid.Grid) {
	n1 := x.N1()
	w.pool.ParallelFor(x.N2(), func(start, end int) {
		for i2 := start; i2 < end; i2++ {
			x2, x2m := x.Row(i2), x.Row(i2-1)
			um, up, t2 := w.um.Row(i2), w.up.Row(i2), t.Row(i2)
			for i1 := range n1 {
				var xm, x0m, xmm float32
				if i1 > 0 {
					xm = x2[i1-1]
				}
				if x2m != nil {
					x0m = x2m[i1]
					if i1 > 0 {
						xmm = x2m[i1-1]
					}
				}
				t2[i1] = um[i1]*(x2[i1]-xmm) + up[i1]*(xm-x0m)
			}
		}
	})
}

// applyTranspose computes y = F' t. Sample p receives um_p t_p from itself,
// up t from p+(1,0), -up t from p+(0,1) and -um t from p+(1,1), each with
// the coefficients of the sample it comes from.
func (w *wavekill) applyTranspose(t, y *grid.Grid) {
	n1, n2 := t.N1(), t.N2()
	w.pool.ParallelFor(n2, func(start, end int) {
		for i2 := start; i2 < end; i2++ {
			t2, um2, up2 := t.Row(i2), w.um.Row(i2), w.up.Row(i2)
			var t2p, um2p, up2p []float32
			if i2+1 < n2 {
				t2p, um2p, up2p = t.Row(i2+1), w.um.Row(i2+1), w.up.Row(i2+1)
			}
			y2 := y.Row(i2)
			for i1 := range n1 {
				s := um2[i1] * t2[i1]
				if i1+1 < n1 {
					s += up2[i1+1] * t2[i1+1]
				}
				if t2p != nil {
					s -= up2p[i1] * t2p[i1]
					if i1+1 < n1 {
						s -= um2p[i1+1] * t2p[i1+1]
					}
				}
				y2[i1] = s
			}
		}
	})
}

// applySPD computes y = F'F x + small x.
func (w *wavekill) applySPD(x, y *grid.Grid) {
	w.apply(x, w.t)
	w.applyTranspose(w.t, y)
	if w.small != 0 {
		grid.Axpy(w.pool, w.small, x, y)
	}
}

// inverseSPD solves (F'F + small) y = x by conjugate gradients, starting
// from y = 0. With the preconditioner, each step also solves with A'A, A
// the minimum-phase factor for the nearest stability bucket.
func (f *Filter) inverseSPD(u *Field, x, y *grid.Grid) (Convergence, error) {
	w := newWavekill(f, u)
	var mp *minPhase
	if f.precondition {
		var err error
		if mp, err = f.minPhase(u); err != nil {
			return Convergence{}, err
		}
	}
	precondition := func(r, z *grid.Grid) {
		if mp != nil {
			mp.inverse(r, z)
		} else {
			z.CopyFrom(r)
		}
	}
	maxIter := f.maxIter
	if maxIter <= 0 {
		maxIter = pcgIterations
		if mp == nil {
			maxIter = cgIterations
		}
	}

	n1, n2 := x.N1(), x.N2()
	pool := f.pool
	r := x.Clone()
	s := grid.New(n1, n2)
	t := grid.New(n1, n2)
	z := grid.New(n1, n2)
	y.Zero()

	precondition(r, s)
	rr := grid.Dot(pool, r, s)
	small := rr * cgTolerance
	c := Convergence{Initial: rr}
	for c.Iterations < maxIter && rr > small {
		w.applySPD(s, t)
		alpha := rr / grid.Dot(pool, s, t)
		grid.Axpy(pool, float32(alpha), s, y)
		grid.Axpy(pool, float32(-alpha), t, r)
		precondition(r, z)
		rrold := rr
		rr = grid.Dot(pool, r, z)
		grid.Xpay(pool, z, float32(rr/rrold), s)
		c.Iterations++
	}
	c.Residual = rr
	c.Converged = rr <= small
	if !c.Converged {
		f.logger.Printf("lpf: %v inverse stopped after %d iterations, residual %.3g of %.3g",
			f.kind, c.Iterations, rr, c.Initial)
	}
	return c, nil
}
