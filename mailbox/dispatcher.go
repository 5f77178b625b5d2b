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

package mailbox

import (
	"github.com/tochemey/protoakt/internal/workerpool"
)

// DefaultThroughput is the number of messages a drain pass processes
// before yielding its worker
const DefaultThroughput = 300

// Dispatcher runs mailbox drain passes
type Dispatcher interface {
	// Schedule runs fn asynchronously
	Schedule(fn func())
	// Throughput returns the per pass message budget
	Throughput() int
}

type poolDispatcher struct {
	pool       *workerpool.WorkerPool
	throughput int
}

// NewPoolDispatcher runs drain passes on the given worker pool.
// Passes submitted after the pool stopped run on their own goroutine.
func NewPoolDispatcher(pool *workerpool.WorkerPool, throughput int) Dispatcher {
	return &poolDispatcher{pool: pool, throughput: sanitizeThroughput(throughput)}
}

func (d *poolDispatcher) Schedule(fn func()) {
	if !d.pool.Submit(fn) {
		go fn()
	}
}

func (d *poolDispatcher) Throughput() int {
	return d.throughput
}

type goroutineDispatcher int

// NewGoroutineDispatcher runs every drain pass on a fresh goroutine
func NewGoroutineDispatcher(throughput int) Dispatcher {
	return goroutineDispatcher(sanitizeThroughput(throughput))
}

func (d goroutineDispatcher) Schedule(fn func()) {
	go fn()
}

func (d goroutineDispatcher) Throughput() int {
	return int(d)
}

type synchronizedDispatcher int

// NewSynchronizedDispatcher runs drain passes on the posting goroutine.
// Mostly useful in tests.
func NewSynchronizedDispatcher(throughput int) Dispatcher {
	return synchronizedDispatcher(sanitizeThroughput(throughput))
}

func (d synchronizedDispatcher) Schedule(fn func()) {
	fn()
}

func (d synchronizedDispatcher) Throughput() int {
	return int(d)
}

func sanitizeThroughput(throughput int) int {
	if throughput <= 0 {
		return DefaultThroughput
	}
	return throughput
}
