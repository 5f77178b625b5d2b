// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package supervisor

import (
	"sync"
	"time"
)

// RestartStatistics records the failures of one actor lineage.
// It survives restarts of the actor it belongs to.
type RestartStatistics struct {
	mu           sync.RWMutex
	failureTimes []time.Time
}

// NewRestartStatistics creates an empty RestartStatistics
func NewRestartStatistics() *RestartStatistics {
	return &RestartStatistics{}
}

// Fail records a failure happening now
func (r *RestartStatistics) Fail() {
	r.mu.Lock()
	r.failureTimes = append(r.failureTimes, time.Now())
	r.mu.Unlock()
}

// Reset clears the recorded failures
func (r *RestartStatistics) Reset() {
	r.mu.Lock()
	r.failureTimes = nil
	r.mu.Unlock()
}

// FailureCount returns the number of recorded failures
func (r *RestartStatistics) FailureCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.failureTimes)
}

// NumberOfFailures returns the failures recorded within the given window.
// A non positive window counts every failure.
func (r *RestartStatistics) NumberOfFailures(within time.Duration) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if within <= 0 {
		return len(r.failureTimes)
	}

	cutoff := time.Now().Add(-within)
	count := 0
	for _, failedAt := range r.failureTimes {
		if failedAt.After(cutoff) {
			count++
		}
	}
	return count
}

// LastFailure returns the time of the most recent failure, zero when none
func (r *RestartStatistics) LastFailure() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.failureTimes) == 0 {
		return time.Time{}
	}
	return r.failureTimes[len(r.failureTimes)-1]
}
