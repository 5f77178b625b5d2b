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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchingMailbox(t *testing.T) {
	t.Run("With batches bounded by the batch size", func(t *testing.T) {
		invoker := newRecordingInvoker()
		mailbox := Batching(3)()
		t.Cleanup(mailbox.Dispose)

		// queue everything before the loop starts so they land in one pass
		for i := range 5 {
			mailbox.PostUserMessage(i)
		}
		mailbox.RegisterHandlers(invoker, NewGoroutineDispatcher(0))

		require.Eventually(t, func() bool { return len(invoker.userMessages()) == 2 }, time.Second, 5*time.Millisecond)
		batches := invoker.userMessages()
		assert.Equal(t, []any{0, 1, 2}, batches[0])
		assert.Equal(t, []any{3, 4}, batches[1])
	})
	t.Run("With flush on empty queue", func(t *testing.T) {
		invoker := newRecordingInvoker()
		mailbox := Batching(1000)()
		t.Cleanup(mailbox.Dispose)
		mailbox.RegisterHandlers(invoker, NewGoroutineDispatcher(0))

		mailbox.PostUserMessage("single")
		require.Eventually(t, func() bool { return len(invoker.userMessages()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, []any{"single"}, invoker.userMessages()[0])
	})
	t.Run("With suspend and system messages", func(t *testing.T) {
		invoker := newRecordingInvoker()
		mailbox := Batching(10)()
		t.Cleanup(mailbox.Dispose)
		mailbox.PostSystemMessage(SuspendMailbox{})
		mailbox.PostUserMessage("held")
		mailbox.PostSystemMessage(&systemMessage{id: 1})
		mailbox.RegisterHandlers(invoker, NewGoroutineDispatcher(0))

		require.Eventually(t, func() bool { return len(invoker.systemMessages()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Empty(t, invoker.userMessages())
		assert.Equal(t, 1, mailbox.UserMessageCount())

		mailbox.PostSystemMessage(ResumeMailbox{})
		require.Eventually(t, func() bool { return len(invoker.userMessages()) == 1 }, time.Second, 5*time.Millisecond)
	})
	t.Run("With a failing batch escalated", func(t *testing.T) {
		invoker := newRecordingInvoker()
		invoker.onUser = func(any) { panic(errors.New("send failed")) }
		mailbox := Batching(10)()
		t.Cleanup(mailbox.Dispose)
		mailbox.RegisterHandlers(invoker, NewGoroutineDispatcher(0))
		mailbox.PostUserMessage("x")

		require.Eventually(t, func() bool { return len(invoker.recordedFailures()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, []any{"x"}, invoker.recordedFailures()[0].message)
	})
	t.Run("With dispose ending the loop", func(t *testing.T) {
		stats := newCountingStats()
		invoker := newRecordingInvoker()
		mailbox := Batching(10, stats)()
		mailbox.RegisterHandlers(invoker, NewGoroutineDispatcher(0))
		mailbox.Start()
		mailbox.PostUserMessage(1)
		require.Eventually(t, func() bool { return stats.received.Load() == 1 }, time.Second, 5*time.Millisecond)

		mailbox.Dispose()
		mailbox.Dispose()
		assert.EqualValues(t, 1, stats.started.Load())
		assert.EqualValues(t, 1, stats.posted.Load())
	})
}
