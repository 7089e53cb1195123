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

// Package causal provides 2-D causal filters on a half-plane lag set.
//
// A filter is described by a Lags table and one coefficient per lag. Local
// applies such a filter with coefficients that vary per sample, along with
// its transpose and both inverses by recursion. WilsonBurg computes the
// minimum-phase filter whose autocorrelation matches a given one, so that
// A'A approximates a symmetric positive-definite stencil and the inverse
// of that stencil can be applied with two recursions.
//
// Example:
//
//	lags := causal.HalfPlaneLags(6)
//	f, err := causal.NewWilsonBurg(100, 1e-6).Factor(lags, r)
//	if err != nil {
//		return err
//	}
//	coefs := func(i1, i2 int) []float32 { return f.A }
//	causal.NewLocal(lags).ApplyInverse(coefs, x, y)
package causal
