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

import "fmt"

// Kind selects the filter coefficients and the engine that applies them.
type Kind int

const (
	// Claerbout is the two-by-two plane-wave destructor. It is not
	// reliably invertible.
	Claerbout Kind = iota

	// FomelSlope is the three-by-two destructor built from the slope
	// u2/u1. It is not reliably invertible.
	FomelSlope

	// FomelAngle is FomelSlope written in terms of the normal vector. It is
	// not reliably invertible.
	FomelAngle

	// HaleSimple is invertible for any small > 0, and for small = 0 unless
	// the normal is vertical.
	HaleSimple

	// HaleFolded is only weakly stable at small = 0; use small > 0 to
	// invert it.
	HaleFolded

	// HaleVariable folds neighbouring normals into the stencil. Like
	// HaleFolded it needs small > 0 to invert.
	HaleVariable

	// HaleSPD applies F'F + small, with F the quarter-plane destructor.
	// The inverse is iterative.
	HaleSPD

	// HaleSPDMinPhase applies A'A, with A a minimum-phase factor of the
	// HaleSPD stencil. The inverse is exact.
	HaleSPDMinPhase
)

var kindNames = [...]string{
	Claerbout:       "Claerbout",
	FomelSlope:      "FomelSlope",
	FomelAngle:      "FomelAngle",
	HaleSimple:      "HaleSimple",
	HaleFolded:      "HaleFolded",
	HaleVariable:    "HaleVariable",
	HaleSPD:         "HaleSPD",
	HaleSPDMinPhase: "HaleSPDMinPhase",
}

func (k Kind) String() string {
	if k.valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) valid() bool {
	return k >= Claerbout && k <= HaleSPDMinPhase
}

// halfPlane reports whether k uses the six-coefficient half-plane stencil.
func (k Kind) halfPlane() bool {
	return k >= Claerbout && k <= HaleVariable
}
