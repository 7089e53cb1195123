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
	"os"
	"strconv"
	"sync"

	"github.com/ajroetker/go-lpf/lpf/contrib/workerpool"
)

var defaultPool = sync.OnceValue(func() *workerpool.Pool {
	if NoParallelEnv() {
		return nil
	}
	return workerpool.New(WorkersEnv())
})

// DefaultPool returns the pool used by filters created without WithPool.
// It is created on first use with WorkersEnv workers and lives for the rest
// of the process. It is nil, meaning sequential, when NoParallelEnv is set.
func DefaultPool() *workerpool.Pool {
	return defaultPool()
}

// NoParallelEnv checks if the LPF_NO_PARALLEL environment variable is set.
// When set, filters without an explicit pool run on the calling goroutine.
func NoParallelEnv() bool {
	return envBool("LPF_NO_PARALLEL")
}

// WorkersEnv returns the worker count from LPF_WORKERS, or 0 (meaning
// GOMAXPROCS) when it is unset or not a positive integer.
func WorkersEnv() int {
	n, err := strconv.Atoi(os.Getenv("LPF_WORKERS"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func envBool(name string) bool {
	val := os.Getenv(name)
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
