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

package causal

import "fmt"

// Lags lists the (lag1, lag2) offsets of a causal 2-D filter. The first lag
// is always (0, 0); every other lag has lag2 > 0, or lag2 == 0 and lag1 > 0,
// so in raster order (i2 outer, i1 inner) each output depends only on
// inputs already visited.
type Lags struct {
	lag1 []int
	lag2 []int
	min1 int // most negative lag1
	max1 int
	max2 int
}

// NewLags validates and returns a lag table.
func NewLags(lag1, lag2 []int) (*Lags, error) {
	if len(lag1) == 0 || len(lag1) != len(lag2) {
		return nil, fmt.Errorf("causal: need equal, non-empty lag slices, got %d and %d", len(lag1), len(lag2))
	}
	if lag1[0] != 0 || lag2[0] != 0 {
		return nil, fmt.Errorf("causal: first lag must be (0,0), got (%d,%d)", lag1[0], lag2[0])
	}
	l := &Lags{
		lag1: append([]int(nil), lag1...),
		lag2: append([]int(nil), lag2...),
	}
	seen := make(map[[2]int]bool, len(lag1))
	for j := range lag1 {
		k := [2]int{lag1[j], lag2[j]}
		if seen[k] {
			return nil, fmt.Errorf("causal: duplicate lag (%d,%d)", k[0], k[1])
		}
		seen[k] = true
		if j > 0 && !(lag2[j] > 0 || (lag2[j] == 0 && lag1[j] > 0)) {
			return nil, fmt.Errorf("causal: lag (%d,%d) is not causal", lag1[j], lag2[j])
		}
		l.min1 = min(l.min1, lag1[j])
		l.max1 = max(l.max1, lag1[j])
		l.max2 = max(l.max2, lag2[j])
	}
	return l, nil
}

// HalfPlaneLags returns the lag table used for the minimum-phase plane
// filters: lag2 = 0 with lag1 = 0..maxlag, then lag2 = 1 with
// lag1 = 1-maxlag..1.
func HalfPlaneLags(maxlag int) *Lags {
	n := 2*maxlag + 2
	lag1 := make([]int, n)
	lag2 := make([]int, n)
	for j := range n {
		if j <= maxlag {
			lag1[j] = j
		} else {
			lag1[j] = j - 2*maxlag
			lag2[j] = 1
		}
	}
	l, err := NewLags(lag1, lag2)
	if err != nil {
		panic(err)
	}
	return l
}

// Len returns the number of lags.
func (l *Lags) Len() int {
	return len(l.lag1)
}

// Lag returns lag j.
func (l *Lags) Lag(j int) (lag1, lag2 int) {
	return l.lag1[j], l.lag2[j]
}
