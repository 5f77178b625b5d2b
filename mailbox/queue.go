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
	"time"

	gods "github.com/Workiva/go-datastructures/queue"

	"github.com/tochemey/protoakt/internal/queue"
)

// userQueue is the user message queue of a mailbox
type userQueue interface {
	Push(message any)
	Pop() (any, bool)
	Len() int64
}

type unboundedQueue struct {
	*queue.Mpsc[any]
}

var _ userQueue = (*unboundedQueue)(nil)

func newUnboundedQueue() *unboundedQueue {
	return &unboundedQueue{queue.NewMpsc[any]()}
}

// boundedQueue is a fixed capacity ring buffer that makes room for a new
// message by dropping the oldest one
// pollTimeout bounds the wait of a pop racing with another pop on the
// last queued message
const pollTimeout = time.Millisecond

type boundedQueue struct {
	underlying *gods.RingBuffer
}

var _ userQueue = (*boundedQueue)(nil)

func newBoundedQueue(capacity int) *boundedQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &boundedQueue{underlying: gods.NewRingBuffer(uint64(capacity))}
}

func (q *boundedQueue) Push(message any) {
	for {
		ok, err := q.underlying.Offer(message)
		if ok || err != nil {
			return
		}
		// full: drop the oldest message and retry
		_, _ = q.underlying.Poll(pollTimeout)
	}
}

func (q *boundedQueue) Pop() (any, bool) {
	if q.underlying.Len() == 0 {
		return nil, false
	}
	item, err := q.underlying.Poll(pollTimeout)
	if err != nil {
		return nil, false
	}
	return item, true
}

func (q *boundedQueue) Len() int64 {
	return int64(q.underlying.Len())
}
