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
	"io"
	"log"
	"math"

	"github.com/ajroetker/go-lpf/lpf/contrib/grid"
	"github.com/ajroetker/go-lpf/lpf/contrib/recursive"
	"github.com/ajroetker/go-lpf/lpf/contrib/workerpool"
)

// gradientSigma is the half-width of the derivative-of-Gaussian used for
// image gradients in Find.
const gradientSigma = 1.0

// Filter finds local planes and applies plane filters of one Kind. A Filter
// is immutable after New and safe for concurrent use.
type Filter struct {
	kind      Kind
	sigma     float64
	small     float64
	stability float32

	gradient *recursive.Gaussian
	smoother *recursive.Gaussian

	pool         *workerpool.Pool
	poolSet      bool
	logger       *log.Logger
	sampling     Sampling
	precondition bool
	maxIter      int
}

// Option configures a Filter.
type Option func(*Filter)

// WithPool runs parallel work on pool. A nil pool runs everything on the
// calling goroutine. Without this option the filter uses DefaultPool.
func WithPool(pool *workerpool.Pool) Option {
	return func(f *Filter) {
		f.pool = pool
		f.poolSet = true
	}
}

// WithLogger sets the logger for minimum-phase table builds and for
// iterative inverses that stop before converging. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(f *Filter) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithSampling selects how the minimum-phase table samples orientations.
func WithSampling(s Sampling) Option {
	return func(f *Filter) {
		f.sampling = s
	}
}

// WithoutPreconditioner makes the HaleSPD inverse run plain conjugate
// gradients instead of preconditioning with the minimum-phase factor.
func WithoutPreconditioner() Option {
	return func(f *Filter) {
		f.precondition = false
	}
}

// WithMaxIterations caps the iterations of the HaleSPD inverse. Values
// <= 0 restore the default, 10 with the preconditioner and 200 without.
func WithMaxIterations(n int) Option {
	return func(f *Filter) {
		f.maxIter = n
	}
}

// New returns a filter of the given kind. sigma is the half-width, in
// samples, of the window over which Find averages gradient products.
// small >= 0 sets the stability factor 1+small of the inverse filters.
func New(sigma, small float64, kind Kind, opts ...Option) (*Filter, error) {
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return nil, fmt.Errorf("%w: sigma must be positive and finite, got %v", ErrInvalidConfig, sigma)
	}
	if !(small >= 0) || math.IsInf(small, 1) {
		return nil, fmt.Errorf("%w: small must be non-negative and finite, got %v", ErrInvalidConfig, small)
	}
	if !kind.valid() {
		return nil, fmt.Errorf("%w: unknown kind %v", ErrInvalidConfig, kind)
	}
	f := &Filter{
		kind:         kind,
		sigma:        sigma,
		small:        small,
		stability:    float32(1 + small),
		gradient:     recursive.NewGaussian(gradientSigma),
		smoother:     recursive.NewGaussian(sigma),
		logger:       log.New(io.Discard, "", 0),
		sampling:     SampleTheta,
		precondition: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.sampling != SampleTheta && f.sampling != SampleU2 {
		return nil, fmt.Errorf("%w: unknown sampling %v", ErrInvalidConfig, f.sampling)
	}
	if !f.poolSet {
		f.pool = DefaultPool()
	}
	return f, nil
}

// Kind returns the filter kind.
func (f *Filter) Kind() Kind { return f.kind }

// Sigma returns the structure-tensor smoothing half-width.
func (f *Filter) Sigma() float64 { return f.sigma }

// Stability returns 1+small.
func (f *Filter) Stability() float32 { return f.stability }

// Convergence reports how an inverse finished. Only HaleSPD iterates;
// other kinds report zero iterations and Converged true.
type Convergence struct {
	// Iterations is the number of conjugate-gradient steps taken.
	Iterations int

	// Converged reports whether Residual fell to 1e-5 of Initial.
	Converged bool

	// Residual and Initial are the final and starting values of r'M^-1 r,
	// with M the preconditioner, or the identity without one.
	Residual float64
	Initial  float64
}

// ApplyForward returns the filtered image y = F x for the field u.
func (f *Filter) ApplyForward(u *Field, x *grid.Grid) (*grid.Grid, error) {
	if err := u.check(x); err != nil {
		return nil, err
	}
	y := grid.New(x.N1(), x.N2())
	if err := f.forward(u, x, y); err != nil {
		return nil, err
	}
	return y, nil
}

// ApplyForwardTo is like ApplyForward but writes into y, which must have
// the shape of x and be neither x nor one of the grids of u.
func (f *Filter) ApplyForwardTo(u *Field, x, y *grid.Grid) error {
	if err := f.checkTo(u, x, y); err != nil {
		return err
	}
	return f.forward(u, x, y)
}

// ApplyInverse returns y with F y = x for the field u. For half-plane kinds
// a zero pivot fails with ErrSingular. HaleSPD stops at its iteration cap
// and returns the last iterate; see Convergence.
func (f *Filter) ApplyInverse(u *Field, x *grid.Grid) (*grid.Grid, Convergence, error) {
	if err := u.check(x); err != nil {
		return nil, Convergence{}, err
	}
	y := grid.New(x.N1(), x.N2())
	c, err := f.inverse(u, x, y)
	if err != nil {
		return nil, c, err
	}
	return y, c, nil
}

// ApplyInverseTo is like ApplyInverse but writes into y, which must have
// the shape of x and be neither x nor one of the grids of u. y is left
// unchanged on error.
func (f *Filter) ApplyInverseTo(u *Field, x, y *grid.Grid) (Convergence, error) {
	if err := f.checkTo(u, x, y); err != nil {
		return Convergence{}, err
	}
	if f.kind.halfPlane() {
		t := grid.New(x.N1(), x.N2())
		c, err := f.inverse(u, x, t)
		if err != nil {
			return c, err
		}
		y.CopyFrom(t)
		return c, nil
	}
	return f.inverse(u, x, y)
}

func (f *Filter) checkTo(u *Field, x, y *grid.Grid) error {
	if err := u.check(x); err != nil {
		return err
	}
	if y == nil || !grid.SameShape(x, y) {
		return fmt.Errorf("%w: output does not match input", ErrDimensionMismatch)
	}
	if x == y {
		return ErrAliased
	}
	if y == u.U1 || y == u.U2 || y == u.Planarity {
		return fmt.Errorf("%w: output is a field component", ErrAliased)
	}
	return nil
}

func (f *Filter) forward(u *Field, x, y *grid.Grid) error {
	switch {
	case f.kind.halfPlane():
		f.forwardHalfPlane(u, x, y)
	case f.kind == HaleSPD:
		newWavekill(f, u).applySPD(x, y)
	case f.kind == HaleSPDMinPhase:
		mp, err := f.minPhase(u)
		if err != nil {
			return err
		}
		mp.forward(x, y)
	}
	return nil
}

func (f *Filter) inverse(u *Field, x, y *grid.Grid) (Convergence, error) {
	done := Convergence{Converged: true}
	switch {
	case f.kind.halfPlane():
		return done, f.inverseHalfPlane(u, x, y)
	case f.kind == HaleSPD:
		return f.inverseSPD(u, x, y)
	case f.kind == HaleSPDMinPhase:
		mp, err := f.minPhase(u)
		if err != nil {
			return Convergence{}, err
		}
		mp.inverse(x, y)
	}
	return done, nil
}
