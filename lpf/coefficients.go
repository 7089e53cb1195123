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

// minSlopeU1 bounds the slope u2/u1 used by FomelSlope.
const minSlopeU1 = 0.001

// Coefficients returns the half-plane stencil c0..c5 of kind k at sample
// (i1, i2), before scaling c1 by the stability factor. The stencil is
//
//	y[i2][i1] = c0 x[i2][i1+1]   + c1 x[i2][i1]   + c2 x[i2][i1-1]
//	          + c3 x[i2-1][i1+1] + c4 x[i2-1][i1] + c5 x[i2-1][i1-1]
//
// Indices outside the field are clamped. Kinds without a half-plane
// stencil (HaleSPD, HaleSPDMinPhase) return all zeros.
func Coefficients(k Kind, u *Field, i1, i2 int) [6]float32 {
	u1, u2 := u.normal(i1, i2)
	um := 0.5 * (u1 - u2)
	up := 0.5 * (u1 + u2)
	var c [6]float32
	switch k {
	case Claerbout:
		c = [6]float32{0, um, up, 0, -up, -um}
	case FomelSlope:
		s := u2 / max(u1, minSlopeU1)
		c[0] = (1 - s) * (2 - s) / 6
		c[1] = (2 + s) * (2 - s) / 3
		c[2] = (1 + s) * (2 + s) / 6
		c[3], c[4], c[5] = -c[2], -c[1], -c[0]
	case FomelAngle:
		t := 2 * u1
		c[0] = (u1 - u2) * (t - u2) / 6
		c[1] = (t + u2) * (t - u2) / 3
		c[2] = (u1 + u2) * (t + u2) / 6
		c[3], c[4], c[5] = -c[2], -c[1], -c[0]
	case HaleSimple:
		c = [6]float32{-0.5 * u2 * (u1 + u2), 1, 0.5 * u2 * (u1 - u2), 0, -0.5 * u1 * u1, 0}
	case HaleFolded:
		c = [6]float32{2 * um * up, 1, 2 * um * up, -2 * up * up, -4 * um * up, -2 * um * um}
	case HaleVariable:
		c = variableCoefficients(u, i1, i2)
	}
	return c
}

// variableCoefficients folds the normals at (i1,i2), (i1+1,i2), (i1,i2+1)
// and (i1+1,i2+1) into the stencil, clamping at the far edges. In the names
// below the first letter picks i2 or j2 and the second i1 or j1.
func variableCoefficients(u *Field, i1, i2 int) [6]float32 {
	j1 := min(i1+1, u.N1()-1)
	j2 := min(i2+1, u.N2()-1)
	umii, upii := halves(u, i1, i2)
	umij, upij := halves(u, j1, i2)
	umji, upji := halves(u, i1, j2)
	umjj, upjj := halves(u, j1, j2)
	return [6]float32{
		umii*upii + umji*upji,
		umii*umii + upij*upij + upji*upji + umjj*umjj,
		umij*upij + umjj*upjj,
		-upij*upij - upji*upji,
		-(umii*upii + umji*upji + umij*upij + umjj*upjj),
		-umii*umii - umjj*umjj,
	}
}

func halves(u *Field, i1, i2 int) (um, up float32) {
	u1, u2 := u.normal(i1, i2)
	return 0.5 * (u1 - u2), 0.5 * (u1 + u2)
}
