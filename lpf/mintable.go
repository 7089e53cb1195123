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
	"sync"
	"time"

	"github.com/ajroetker/go-lpf/lpf/contrib/causal"
	"github.com/ajroetker/go-lpf/lpf/contrib/grid"
	"github.com/ajroetker/go-lpf/lpf/contrib/workerpool"
)

// Sampling selects how orientations are spaced in the minimum-phase table.
type Sampling int

const (
	// SampleTheta spaces the normal's angle uniformly over [-pi/2, pi/2].
	SampleTheta Sampling = iota

	// SampleU2 spaces the normal's second component uniformly over [-1, 1].
	SampleU2
)

func (s Sampling) String() string {
	switch s {
	case SampleTheta:
		return "theta"
	case SampleU2:
		return "u2"
	}
	return fmt.Sprintf("Sampling(%d)", int(s))
}

const (
	tableSize            = 33
	tableMaxLag          = 6
	wilsonBurgIterations = 100
	wilsonBurgEpsilon    = 1e-6
	indexScale           = 0.9999
)

// stabilityBuckets are the stability factors tables are built for.
var stabilityBuckets = [...]float64{1.1, 1.01, 1.001}

var (
	tableLags  = causal.HalfPlaneLags(tableMaxLag)
	tableLocal = causal.NewLocal(tableLags)
)

// stabilityBucket returns the index of the bucket nearest to stability.
func stabilityBucket(stability float64) int {
	best := 0
	for i := 1; i < len(stabilityBuckets); i++ {
		if math.Abs(stabilityBuckets[i]-stability) < math.Abs(stabilityBuckets[best]-stability) {
			best = i
		}
	}
	return best
}

// orientation returns the normal of table entry i.
func (s Sampling) orientation(i int) (u1, u2 float64) {
	if s == SampleU2 {
		u2 = -1 + float64(i)*2/(tableSize-1)
		return math.Sqrt(max(0, 1-u2*u2)), u2
	}
	theta := -0.5*math.Pi + float64(i)*math.Pi/(tableSize-1)
	return math.Cos(theta), math.Sin(theta)
}

// index returns the table entry nearest to a normal with second component
// u2, clamped to the table.
func (s Sampling) index(u2 float32) int {
	v := math.Max(-1, math.Min(1, float64(u2)))
	first, delta := -1.0, 2.0/(tableSize-1)
	if s == SampleTheta {
		v = math.Asin(v)
		first, delta = -0.5*math.Pi, math.Pi/(tableSize-1)
	}
	return grid.Clamp(int(0.5+(v-first)*indexScale/delta), tableSize)
}

// targetAutocorrelation returns the 3x3 autocorrelation, lag2 by rows and
// lag1 by columns, of F'F + (stability-1) for a constant normal (u1, u2).
func targetAutocorrelation(stability, u1, u2 float64) [][]float64 {
	m := 0.5 * (u1 - u2)
	p := 0.5 * (u1 + u2)
	return [][]float64{
		{-m * m, -2 * m * p, -p * p},
		{2 * m * p, stability, 2 * m * p},
		{-p * p, -2 * m * p, -m * m},
	}
}

type tableKey struct {
	bucket   int
	sampling Sampling
	size     int
}

// mpTable holds the minimum-phase factors for one stability bucket, one
// per sampled orientation. It is built once and never modified.
type mpTable struct {
	once  sync.Once
	coefs [][]float32
	err   error
}

var tables sync.Map // tableKey -> *mpTable

// table returns the process-wide table for the filter's stability and
// sampling, building it on first use.
func (f *Filter) table() (*mpTable, error) {
	key := tableKey{
		bucket:   stabilityBucket(float64(f.stability)),
		sampling: f.sampling,
		size:     tableSize,
	}
	v, _ := tables.LoadOrStore(key, &mpTable{})
	t := v.(*mpTable)
	t.once.Do(func() { t.build(f, key) })
	return t, t.err
}

func (t *mpTable) build(f *Filter, key tableKey) {
	start := time.Now()
	stability := stabilityBuckets[key.bucket]
	wb := causal.NewWilsonBurg(wilsonBurgIterations, wilsonBurgEpsilon)
	coefs := make([][]float32, key.size)
	iters := make([]int, key.size)
	converged := make([]bool, key.size)
	errs := make([]error, key.size)
	f.pool.ParallelFor(key.size, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			u1, u2 := key.sampling.orientation(i)
			r, err := wb.Factor(tableLags, targetAutocorrelation(stability, u1, u2))
			coefs[i], iters[i], converged[i], errs[i] = r.A, r.Iterations, r.Converged, err
		}
	})

	worst, unconverged := 0, 0
	for i := range key.size {
		if errs[i] != nil {
			t.err = fmt.Errorf("lpf: factoring orientation %d: %w", i, errs[i])
			return
		}
		worst = max(worst, iters[i])
		if !converged[i] {
			unconverged++
		}
	}
	t.coefs = coefs
	f.logger.Printf("lpf: built %d-entry minimum-phase table, stability %g, sampling %v, in %v (max %d iterations, %d unconverged)",
		key.size, stability, key.sampling, time.Since(start), worst, unconverged)
}

// minPhase applies A'A and its inverse, with A the table factor chosen per
// sample from the field's normal.
type minPhase struct {
	pool  *workerpool.Pool
	table *mpTable
	index []uint8
	n1    int
}

func (f *Filter) minPhase(u *Field) (*minPhase, error) {
	t, err := f.table()
	if err != nil {
		return nil, err
	}
	n1, n2 := u.N1(), u.N2()
	m := &minPhase{pool: f.pool, table: t, index: make([]uint8, n1*n2), n1: n1}
	f.pool.ParallelFor(n2, func(start, end int) {
		for i2 := start; i2 < end; i2++ {
			row := u.U2.Row(i2)
			for i1, v := range row {
				m.index[i2*n1+i1] = uint8(f.sampling.index(v))
			}
		}
	})
	return m, nil
}

func (m *minPhase) coefs(i1, i2 int) []float32 {
	return m.table.coefs[m.index[i2*m.n1+i1]]
}

// forward computes y = A'A x.
func (m *minPhase) forward(x, y *grid.Grid) {
	t := grid.New(x.N1(), x.N2())
	tableLocal.Apply(m.pool, m.coefs, x, t)
	tableLocal.ApplyTranspose(m.pool, m.coefs, t, y)
}

// inverse computes y = A^-1 A'^-1 x. x and y may be the same grid.
func (m *minPhase) inverse(x, y *grid.Grid) {
	tableLocal.ApplyInverseTranspose(m.coefs, x, y)
	tableLocal.ApplyInverse(m.coefs, y, y)
}
