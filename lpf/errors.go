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
	"errors"

	"github.com/ajroetker/go-lpf/lpf/contrib/tridiag"
)

var (
	// ErrInvalidConfig is returned by New for a non-positive sigma, a
	// negative small or an unknown Kind.
	ErrInvalidConfig = errors.New("lpf: invalid configuration")

	// ErrDimensionMismatch is returned when the field and the image, or the
	// image and the output, differ in shape.
	ErrDimensionMismatch = errors.New("lpf: dimension mismatch")

	// ErrAliased is returned when the output is the input grid or one of
	// the field's grids.
	ErrAliased = errors.New("lpf: input and output must be distinct")

	// ErrSingular is returned when a half-plane inverse meets a zero pivot.
	ErrSingular = tridiag.ErrSingular
)
