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

// Package workerpool runs mailbox drain passes on a set of reusable goroutines.
package workerpool

import (
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const maxShards = 128

// WorkerPool hands submitted tasks to idle goroutines, spawning a new one
// when none is idle. Idle goroutines exit after passivateAfter.
// Workers are spread over shards to reduce lock contention.
type WorkerPool struct {
	passivateAfter time.Duration
	numShards      int
	shards         []*shard
	mu             sync.RWMutex
	started        *atomic.Bool
	stopped        *atomic.Bool
	spawned        *atomic.Int64
	stopSignal     chan struct{}
	cleanupDone    chan struct{}
}

type worker struct {
	tasks    chan func()
	shard    *shard
	lastUsed time.Time
}

type shard struct {
	pool    *WorkerPool
	mu      sync.Mutex
	idle    []*worker
	stopped bool
}

// New creates a new worker pool with the given options.
func New(opts ...Option) *WorkerPool {
	pool := &WorkerPool{
		passivateAfter: time.Second,
		numShards:      1,
		started:        atomic.NewBool(false),
		stopped:        atomic.NewBool(false),
		spawned:        atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt.Apply(pool)
	}

	switch {
	case pool.numShards < 1:
		pool.numShards = 1
	case pool.numShards > maxShards:
		pool.numShards = maxShards
	}
	return pool
}

// Start prepares the shards and starts the passivation loop.
// It is safe to call Start multiple times.
func (pool *WorkerPool) Start() {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	if pool.started.Load() {
		return
	}

	pool.shards = make([]*shard, pool.numShards)
	for i := range pool.shards {
		pool.shards[i] = &shard{pool: pool}
	}

	pool.stopSignal = make(chan struct{})
	pool.cleanupDone = make(chan struct{})
	pool.started.Store(true)
	go pool.passivate()
}

// Stop releases the idle workers and rejects further submissions.
// Running tasks complete on their own goroutine.
func (pool *WorkerPool) Stop() {
	pool.mu.Lock()
	if !pool.started.Load() || !pool.stopped.CompareAndSwap(false, true) {
		pool.mu.Unlock()
		return
	}

	close(pool.stopSignal)
	for _, s := range pool.shards {
		s.mu.Lock()
		s.stopped = true
		for _, w := range s.idle {
			close(w.tasks)
		}
		s.idle = nil
		s.mu.Unlock()
	}
	pool.mu.Unlock()
	<-pool.cleanupDone
}

// Submit runs the task on a pooled goroutine. It returns false when the
// pool is not running, in which case the task is dropped.
func (pool *WorkerPool) Submit(task func()) bool {
	pool.mu.RLock()
	if !pool.started.Load() || pool.stopped.Load() {
		pool.mu.RUnlock()
		return false
	}
	s := pool.shards[rand.IntN(len(pool.shards))]
	pool.mu.RUnlock()

	if w := s.acquire(); w != nil {
		w.tasks <- task
		return true
	}

	w := &worker{tasks: make(chan func(), 1), shard: s}
	pool.spawned.Inc()
	go w.run()
	w.tasks <- task
	return true
}

// SpawnedWorkers returns the number of live worker goroutines
func (pool *WorkerPool) SpawnedWorkers() int {
	return int(pool.spawned.Load())
}

func (w *worker) run() {
	defer w.shard.pool.spawned.Dec()
	for task := range w.tasks {
		task()
		if !w.shard.release(w) {
			return
		}
	}
}

func (s *shard) acquire() *worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.idle)
	if n == 0 || s.stopped {
		return nil
	}
	// most recently used first, so the oldest ones can passivate
	w := s.idle[n-1]
	s.idle[n-1] = nil
	s.idle = s.idle[:n-1]
	return w
}

func (s *shard) release(w *worker) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	w.lastUsed = time.Now()
	s.idle = append(s.idle, w)
	return true
}

// passivate closes the workers idle for longer than passivateAfter.
// The idle slice is ordered by lastUsed, oldest first.
func (pool *WorkerPool) passivate() {
	defer close(pool.cleanupDone)
	ticker := time.NewTicker(pool.passivateAfter)
	defer ticker.Stop()

	for {
		select {
		case <-pool.stopSignal:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-pool.passivateAfter)
			for _, s := range pool.shards {
				s.mu.Lock()
				expired := 0
				for expired < len(s.idle) && s.idle[expired].lastUsed.Before(cutoff) {
					close(s.idle[expired].tasks)
					s.idle[expired] = nil
					expired++
				}
				s.idle = s.idle[expired:]
				s.mu.Unlock()
			}
		}
	}
}
