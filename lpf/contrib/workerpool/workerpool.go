// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool runs the row loops of the plane filters on a fixed set
// of long-lived goroutines. One Pool serves every image a Filter touches:
// the structure tensor, the forward stencils and each conjugate-gradient
// update all hand their rows to the same workers.
//
//	pool := workerpool.New(0) // GOMAXPROCS workers
//	defer pool.Close()
//	pool.ParallelFor(n2, func(lo, hi int) {
//		for i2 := lo; i2 < hi; i2++ {
//			filterRow(i2)
//		}
//	})
//
// A nil *Pool is valid and runs everything on the calling goroutine, as
// does a Pool after Close.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Pool is a fixed set of worker goroutines fed from one queue.
type Pool struct {
	size     int
	queue    chan task
	stopOnce sync.Once
	stopped  atomic.Bool
}

// task is one unit of work; done is signalled when run returns.
type task struct {
	run  func()
	done *sync.WaitGroup
}

// partial is one range's share of a reduction, padded to its own cache line.
type partial struct {
	_   cpu.CacheLinePad
	sum float64
	_   cpu.CacheLinePad
}

// New starts a pool of size workers, or GOMAXPROCS workers if size <= 0.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	p := &Pool{size: size, queue: make(chan task, 2*size)}
	for range size {
		go p.serve()
	}
	return p
}

func (p *Pool) serve() {
	for t := range p.queue {
		t.run()
		t.done.Done()
	}
}

// NumWorkers returns the number of workers, or 1 for a nil pool.
func (p *Pool) NumWorkers() int {
	if p == nil {
		return 1
	}
	return p.size
}

// Close stops the workers. Later calls run on the caller; repeated Close
// calls are no-ops.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.stopOnce.Do(func() {
		p.stopped.Store(true)
		close(p.queue)
	})
}

// ways returns how many pieces n units of work are cut into.
func (p *Pool) ways(n int) int {
	if p == nil || n <= 1 || p.stopped.Load() {
		return 1
	}
	return min(p.size, n)
}

// span returns the k-th of ways contiguous ranges covering [0, n). Ranges
// differ in length by at most one.
func span(k, ways, n int) (lo, hi int) {
	q, r := n/ways, n%ways
	lo = k*q + min(k, r)
	hi = lo + q
	if k < r {
		hi++
	}
	return lo, hi
}

// runAll queues fn(k) for k in [0, count) and waits for all of them.
func (p *Pool) runAll(count int, fn func(k int)) {
	var wg sync.WaitGroup
	wg.Add(count)
	for k := range count {
		p.queue <- task{run: func() { fn(k) }, done: &wg}
	}
	wg.Wait()
}

// ParallelFor calls fn on contiguous ranges that together cover [0, n),
// one range per worker, and returns when every call has returned.
func (p *Pool) ParallelFor(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	w := p.ways(n)
	if w == 1 {
		fn(0, n)
		return
	}
	p.runAll(w, func(k int) {
		fn(span(k, w, n))
	})
}

// ParallelForBatched is ParallelFor for uneven work: workers repeatedly
// claim the next batch of batchSize indices until none remain.
func (p *Pool) ParallelForBatched(n, batchSize int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	batchSize = max(batchSize, 1)
	batches := (n + batchSize - 1) / batchSize
	w := p.ways(batches)
	if w == 1 {
		fn(0, n)
		return
	}
	var claimed atomic.Int64
	p.runAll(w, func(int) {
		for b := claimed.Add(1) - 1; b < int64(batches); b = claimed.Add(1) - 1 {
			lo := int(b) * batchSize
			fn(lo, min(lo+batchSize, n))
		}
	})
}

// Sum cuts [0, n) as ParallelFor does and returns the total of fn over the
// ranges. Range results are added in order, so for a given pool size the
// result does not depend on scheduling.
func (p *Pool) Sum(n int, fn func(lo, hi int) float64) float64 {
	if n <= 0 {
		return 0
	}
	w := p.ways(n)
	if w == 1 {
		return fn(0, n)
	}
	parts := make([]partial, w)
	p.runAll(w, func(k int) {
		parts[k].sum = fn(span(k, w, n))
	})
	var total float64
	for k := range parts {
		total += parts[k].sum
	}
	return total
}
