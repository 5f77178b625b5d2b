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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	gerrors "github.com/tochemey/protoakt/errors"
	"github.com/tochemey/protoakt/internal/workerpool"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type failure struct {
	reason  error
	message any
}

// recordingInvoker records every invocation and flags overlapping passes
type recordingInvoker struct {
	mu         sync.Mutex
	system     []any
	user       []any
	sequence   []any
	failures   []failure
	inFlight   *atomic.Int32
	overlapped *atomic.Bool
	onUser     func(message any)
}

func newRecordingInvoker() *recordingInvoker {
	return &recordingInvoker{
		inFlight:   atomic.NewInt32(0),
		overlapped: atomic.NewBool(false),
	}
}

func (r *recordingInvoker) InvokeSystemMessage(message any) {
	r.enter()
	defer r.inFlight.Dec()
	r.mu.Lock()
	r.system = append(r.system, message)
	r.sequence = append(r.sequence, message)
	r.mu.Unlock()
}

func (r *recordingInvoker) InvokeUserMessage(message any) {
	r.enter()
	defer r.inFlight.Dec()
	r.mu.Lock()
	r.user = append(r.user, message)
	r.sequence = append(r.sequence, message)
	r.mu.Unlock()
	if r.onUser != nil {
		r.onUser(message)
	}
}

func (r *recordingInvoker) EscalateFailure(reason error, message any) {
	r.mu.Lock()
	r.failures = append(r.failures, failure{reason: reason, message: message})
	r.mu.Unlock()
}

func (r *recordingInvoker) enter() {
	if r.inFlight.Inc() > 1 {
		r.overlapped.Store(true)
	}
}

func (r *recordingInvoker) userMessages() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.user...)
}

func (r *recordingInvoker) systemMessages() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.system...)
}

func (r *recordingInvoker) recordedFailures() []failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]failure(nil), r.failures...)
}

// manualDispatcher queues the scheduled passes until the test runs them
type manualDispatcher struct {
	mu         sync.Mutex
	tasks      []func()
	throughput int
}

func (d *manualDispatcher) Schedule(fn func()) {
	d.mu.Lock()
	d.tasks = append(d.tasks, fn)
	d.mu.Unlock()
}

func (d *manualDispatcher) Throughput() int {
	return d.throughput
}

func (d *manualDispatcher) pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tasks)
}

func (d *manualDispatcher) runNext() {
	d.mu.Lock()
	task := d.tasks[0]
	d.tasks = d.tasks[1:]
	d.mu.Unlock()
	task()
}

type systemMessage struct{ id int }

type countingStats struct {
	started, posted, received, empty *atomic.Int32
}

func newCountingStats() *countingStats {
	return &countingStats{
		started:  atomic.NewInt32(0),
		posted:   atomic.NewInt32(0),
		received: atomic.NewInt32(0),
		empty:    atomic.NewInt32(0),
	}
}

func (s *countingStats) MailboxStarted()     { s.started.Inc() }
func (s *countingStats) MessagePosted(any)   { s.posted.Inc() }
func (s *countingStats) MessageReceived(any) { s.received.Inc() }
func (s *countingStats) MailboxEmpty()       { s.empty.Inc() }

func TestDefaultMailbox(t *testing.T) {
	t.Run("With messages processed in post order", func(t *testing.T) {
		invoker := newRecordingInvoker()
		mailbox := Unbounded()()
		mailbox.RegisterHandlers(invoker, NewGoroutineDispatcher(10))
		mailbox.Start()

		const count = 1000
		for i := range count {
			mailbox.PostUserMessage(i)
		}

		require.Eventually(t, func() bool { return len(invoker.userMessages()) == count }, 2*time.Second, 5*time.Millisecond)
		for i, message := range invoker.userMessages() {
			require.Equal(t, i, message)
		}
		assert.Zero(t, mailbox.UserMessageCount())
	})
	t.Run("With at most one pass at a time", func(t *testing.T) {
		pool := workerpool.New(workerpool.WithNumShards(4))
		pool.Start()
		t.Cleanup(pool.Stop)

		invoker := newRecordingInvoker()
		invoker.onUser = func(any) { time.Sleep(10 * time.Microsecond) }
		mailbox := Unbounded()()
		mailbox.RegisterHandlers(invoker, NewPoolDispatcher(pool, 5))

		const producers, perProducer = 8, 200
		var wg sync.WaitGroup
		for p := range producers {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := range perProducer {
					if i%20 == 0 {
						mailbox.PostSystemMessage(&systemMessage{id: p})
					}
					mailbox.PostUserMessage([2]int{p, i})
				}
			}(p)
		}
		wg.Wait()

		require.Eventually(t, func() bool {
			return len(invoker.userMessages()) == producers*perProducer
		}, 5*time.Second, 5*time.Millisecond)
		assert.False(t, invoker.overlapped.Load())

		// per sender order is preserved
		last := make(map[int]int)
		for _, message := range invoker.userMessages() {
			pair := message.([2]int)
			previous, ok := last[pair[0]]
			if ok {
				require.Greater(t, pair[1], previous)
			}
			last[pair[0]] = pair[1]
		}
	})
	t.Run("With system messages ahead of user messages", func(t *testing.T) {
		invoker := newRecordingInvoker()
		dispatcher := &manualDispatcher{throughput: 300}
		mailbox := Unbounded()()
		mailbox.RegisterHandlers(invoker, dispatcher)

		system := &systemMessage{id: 1}
		mailbox.PostUserMessage("first")
		mailbox.PostSystemMessage(system)
		require.Equal(t, 1, dispatcher.pending())

		dispatcher.runNext()
		invoker.mu.Lock()
		sequence := append([]any(nil), invoker.sequence...)
		invoker.mu.Unlock()
		require.Equal(t, []any{system, "first"}, sequence)
		assert.Zero(t, dispatcher.pending())
	})
	t.Run("With suspend and resume", func(t *testing.T) {
		invoker := newRecordingInvoker()
		dispatcher := &manualDispatcher{throughput: 300}
		mailbox := Unbounded()()
		mailbox.RegisterHandlers(invoker, dispatcher)

		mailbox.PostSystemMessage(SuspendMailbox{})
		dispatcher.runNext()

		mailbox.PostUserMessage(1)
		mailbox.PostUserMessage(2)
		dispatcher.runNext()
		assert.Empty(t, invoker.userMessages())
		assert.Equal(t, 2, mailbox.UserMessageCount())
		assert.True(t, mailbox.(*defaultMailbox).Suspended())

		// system messages still flow while suspended
		mailbox.PostSystemMessage(&systemMessage{id: 7})
		dispatcher.runNext()
		require.Len(t, invoker.systemMessages(), 1)
		assert.Empty(t, invoker.userMessages())

		mailbox.PostSystemMessage(&ResumeMailbox{})
		dispatcher.runNext()
		assert.Equal(t, []any{1, 2}, invoker.userMessages())
		assert.False(t, mailbox.(*defaultMailbox).Suspended())

		// suspend and resume never reach the invoker
		assert.Len(t, invoker.systemMessages(), 1)
	})
	t.Run("With throughput yielding the worker", func(t *testing.T) {
		invoker := newRecordingInvoker()
		dispatcher := &manualDispatcher{throughput: 10}
		mailbox := Unbounded()()
		mailbox.RegisterHandlers(invoker, dispatcher)

		for i := range 25 {
			mailbox.PostUserMessage(i)
		}
		require.Equal(t, 1, dispatcher.pending())

		dispatcher.runNext()
		assert.Len(t, invoker.userMessages(), 10)
		require.Equal(t, 1, dispatcher.pending())

		dispatcher.runNext()
		assert.Len(t, invoker.userMessages(), 20)

		dispatcher.runNext()
		assert.Len(t, invoker.userMessages(), 25)
		assert.Zero(t, dispatcher.pending())
	})
	t.Run("With system and user messages sharing the throughput", func(t *testing.T) {
		invoker := newRecordingInvoker()
		dispatcher := &manualDispatcher{throughput: 3}
		mailbox := Unbounded()()
		mailbox.RegisterHandlers(invoker, dispatcher)

		for i := range 4 {
			mailbox.PostSystemMessage(&systemMessage{id: i})
			mailbox.PostUserMessage(i)
		}
		require.Equal(t, 1, dispatcher.pending())

		dispatcher.runNext()
		invoker.mu.Lock()
		sequence := append([]any(nil), invoker.sequence...)
		invoker.mu.Unlock()
		assert.Equal(t, []any{&systemMessage{id: 0}, 0, &systemMessage{id: 1}}, sequence)
		require.Equal(t, 1, dispatcher.pending())

		for dispatcher.pending() > 0 {
			dispatcher.runNext()
		}
		assert.Len(t, invoker.systemMessages(), 4)
		assert.Equal(t, []any{0, 1, 2, 3}, invoker.userMessages())
	})
	t.Run("With a failing message escalated", func(t *testing.T) {
		invoker := newRecordingInvoker()
		boom := errors.New("boom")
		invoker.onUser = func(message any) {
			if message == "fail" {
				panic(boom)
			}
		}

		mailbox := Unbounded()()
		mailbox.RegisterHandlers(invoker, NewSynchronizedDispatcher(300))
		mailbox.PostUserMessage("fail")
		mailbox.PostUserMessage("next")

		failures := invoker.recordedFailures()
		require.Len(t, failures, 1)
		assert.Equal(t, "fail", failures[0].message)
		assert.ErrorIs(t, failures[0].reason, boom)
		var pe *gerrors.PanicError
		assert.ErrorAs(t, failures[0].reason, &pe)
		assert.Equal(t, []any{"fail", "next"}, invoker.userMessages())
	})
	t.Run("With statistics", func(t *testing.T) {
		stats := newCountingStats()
		invoker := newRecordingInvoker()
		mailbox := Unbounded(stats)()
		mailbox.RegisterHandlers(invoker, NewSynchronizedDispatcher(300))
		mailbox.Start()
		mailbox.PostUserMessage(1)
		mailbox.PostUserMessage(2)

		assert.EqualValues(t, 1, stats.started.Load())
		assert.EqualValues(t, 2, stats.posted.Load())
		assert.EqualValues(t, 2, stats.received.Load())
		assert.EqualValues(t, 2, stats.empty.Load())
	})
}

func TestBoundedMailbox(t *testing.T) {
	invoker := newRecordingInvoker()
	dispatcher := &manualDispatcher{throughput: 300}
	mailbox := Bounded(2)()
	mailbox.RegisterHandlers(invoker, dispatcher)

	mailbox.PostUserMessage(1)
	mailbox.PostUserMessage(2)
	mailbox.PostUserMessage(3)
	assert.Equal(t, 2, mailbox.UserMessageCount())

	dispatcher.runNext()
	assert.Equal(t, []any{2, 3}, invoker.userMessages())
}

func TestDispatchers(t *testing.T) {
	assert.Equal(t, DefaultThroughput, NewSynchronizedDispatcher(0).Throughput())
	assert.Equal(t, 5, NewGoroutineDispatcher(5).Throughput())

	pool := workerpool.New()
	dispatcher := NewPoolDispatcher(pool, -1)
	assert.Equal(t, DefaultThroughput, dispatcher.Throughput())

	// a stopped pool still runs the pass
	done := make(chan struct{})
	dispatcher.Schedule(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pass not executed")
	}
}
