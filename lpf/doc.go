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

// Package lpf implements local plane filters for 2-D images.
//
// A Filter first estimates, at every sample, the normal to locally planar
// features and how planar they are:
//
//	f, err := lpf.New(8, 0.01, lpf.HaleSimple)
//	if err != nil {
//		return err
//	}
//	u, err := f.Find(x)
//
// The resulting Field steers a directional filter that annihilates plane
// waves with that orientation, and its inverse restores them:
//
//	y, err := f.ApplyForward(u, x)
//	z, conv, err := f.ApplyInverse(u, y)
//
// Images are grid.Grid values with n1 samples along the fast axis (within
// a row) and n2 rows. Samples outside the image are zero.
//
// # Kinds
//
// Claerbout, FomelSlope, FomelAngle, HaleSimple, HaleFolded and HaleVariable
// apply a six-coefficient stencil over rows i2 and i2-1; their inverse
// solves one tridiagonal system per row. HaleSPD applies F'F plus small,
// which is symmetric positive-definite, and inverts it by conjugate
// gradients preconditioned with a minimum-phase factor A of the same
// operator. HaleSPDMinPhase applies A'A itself and inverts it exactly.
//
// Minimum-phase factors are computed once per process for each stability
// bucket and cached.
//
// # Concurrency
//
// Filters are safe for concurrent use. Pixel-local work runs on a
// workerpool.Pool: DefaultPool unless WithPool is given. Set
// LPF_NO_PARALLEL to run on the calling goroutine, or LPF_WORKERS to size
// the default pool.
package lpf
