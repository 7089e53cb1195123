// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"runtime"
	"sync/atomic"
	"testing"
)

func TestNumWorkers(t *testing.T) {
	for _, tc := range []struct {
		size, want int
	}{
		{4, 4},
		{1, 1},
		{0, runtime.GOMAXPROCS(0)},
		{-3, runtime.GOMAXPROCS(0)},
	} {
		p := New(tc.size)
		if got := p.NumWorkers(); got != tc.want {
			t.Errorf("New(%d).NumWorkers() = %d, want %d", tc.size, got, tc.want)
		}
		p.Close()
	}
	var nilPool *Pool
	if got := nilPool.NumWorkers(); got != 1 {
		t.Errorf("nil NumWorkers() = %d, want 1", got)
	}
}

func TestSpanCoversRange(t *testing.T) {
	for _, n := range []int{1, 5, 8, 13, 100} {
		for ways := 1; ways <= min(n, 9); ways++ {
			next := 0
			for k := range ways {
				lo, hi := span(k, ways, n)
				if lo != next || hi <= lo {
					t.Fatalf("n=%d ways=%d: span(%d) = [%d,%d), want start %d", n, ways, k, lo, hi, next)
				}
				if d := hi - lo; d != n/ways && d != n/ways+1 {
					t.Errorf("n=%d ways=%d: span(%d) has length %d", n, ways, k, d)
				}
				next = hi
			}
			if next != n {
				t.Errorf("n=%d ways=%d: spans end at %d", n, ways, next)
			}
		}
	}
}

func TestNilPoolRunsInline(t *testing.T) {
	var p *Pool
	var calls int
	p.ParallelFor(10, func(lo, hi int) {
		calls++
		if lo != 0 || hi != 10 {
			t.Errorf("range [%d,%d), want [0,10)", lo, hi)
		}
	})
	p.ParallelForBatched(10, 3, func(lo, hi int) { calls++ })
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	p.Close()
}

func TestParallelForVisitsEachIndexOnce(t *testing.T) {
	p := New(4)
	defer p.Close()

	for _, n := range []int{1, 3, 4, 7, 100} {
		hits := make([]int32, n)
		p.ParallelFor(n, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Errorf("n=%d: index %d visited %d times", n, i, h)
			}
		}
	}
}

func TestParallelForBatched(t *testing.T) {
	p := New(3)
	defer p.Close()

	const n = 1000
	var total atomic.Int64
	hits := make([]int32, n)
	p.ParallelForBatched(n, 7, func(lo, hi int) {
		if hi-lo > 7 {
			t.Errorf("batch [%d,%d) larger than 7", lo, hi)
		}
		for i := lo; i < hi; i++ {
			atomic.AddInt32(&hits[i], 1)
			total.Add(int64(i))
		}
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
	if want := int64(n * (n - 1) / 2); total.Load() != want {
		t.Errorf("total = %d, want %d", total.Load(), want)
	}
}

func TestSum(t *testing.T) {
	p := New(4)
	defer p.Close()

	for _, n := range []int{1, 2, 5, 64, 1001} {
		got := p.Sum(n, func(lo, hi int) float64 {
			var s float64
			for i := lo; i < hi; i++ {
				s += float64(i)
			}
			return s
		})
		if want := float64(n * (n - 1) / 2); got != want {
			t.Errorf("n=%d: Sum = %v, want %v", n, got, want)
		}
	}
}

func TestClosedPoolRunsInline(t *testing.T) {
	p := New(4)
	p.Close()
	p.Close()

	var calls int
	p.ParallelFor(50, func(lo, hi int) { calls++ })
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if got := p.Sum(10, func(lo, hi int) float64 { return float64(hi - lo) }); got != 10 {
		t.Errorf("Sum = %v, want 10", got)
	}
}

func BenchmarkParallelFor(b *testing.B) {
	p := New(0)
	defer p.Close()

	row := make([]float32, 1<<16)
	for b.Loop() {
		p.ParallelFor(len(row), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				row[i] = row[i]*0.5 + 1
			}
		})
	}
}
