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
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/protoakt/errors"
	"github.com/tochemey/protoakt/internal/queue"
)

// batchingMailbox coalesces user messages into batches of at most batchSize.
// A single long lived loop, started by RegisterHandlers, waits on the wake
// signal; posts only signal it.
type batchingMailbox struct {
	batchSize      int
	systemMessages *queue.Mpsc[any]
	userMessages   *queue.Mpsc[any]
	suspended      *atomic.Bool
	disposed       *atomic.Bool
	invoker        MessageInvoker
	wake           chan struct{}
	done           chan struct{}
	stats          []Statistics
}

var _ Mailbox = (*batchingMailbox)(nil)

func newBatchingMailbox(batchSize int, stats []Statistics) *batchingMailbox {
	if batchSize < 1 {
		batchSize = 1
	}
	return &batchingMailbox{
		batchSize:      batchSize,
		systemMessages: queue.NewMpsc[any](),
		userMessages:   queue.NewMpsc[any](),
		suspended:      atomic.NewBool(false),
		disposed:       atomic.NewBool(false),
		wake:           make(chan struct{}, 1),
		done:           make(chan struct{}),
		stats:          stats,
	}
}

func (m *batchingMailbox) PostUserMessage(message any) {
	m.userMessages.Push(message)
	for _, stats := range m.stats {
		stats.MessagePosted(message)
	}
	m.signal()
}

func (m *batchingMailbox) PostSystemMessage(message any) {
	m.systemMessages.Push(message)
	m.signal()
}

func (m *batchingMailbox) RegisterHandlers(invoker MessageInvoker, dispatcher Dispatcher) {
	m.invoker = invoker
	dispatcher.Schedule(m.loop)
}

func (m *batchingMailbox) Start() {
	for _, stats := range m.stats {
		stats.MailboxStarted()
	}
}

func (m *batchingMailbox) UserMessageCount() int {
	return int(m.userMessages.Len())
}

// Dispose ends the drain loop
func (m *batchingMailbox) Dispose() {
	if m.disposed.CompareAndSwap(false, true) {
		close(m.done)
	}
}

// signal wakes the loop. Pending wakes coalesce into one.
func (m *batchingMailbox) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *batchingMailbox) loop() {
	for {
		select {
		case <-m.done:
			return
		case <-m.wake:
		}

		m.processMessages()

		if m.systemMessages.Len() > 0 || (!m.suspended.Load() && m.userMessages.Len() > 0) {
			m.signal()
			continue
		}

		for _, stats := range m.stats {
			stats.MailboxEmpty()
		}
	}
}

// processMessages handles at most one system message and one batch
func (m *batchingMailbox) processMessages() {
	var message any
	defer func() {
		if r := recover(); r != nil {
			m.invoker.EscalateFailure(gerrors.Recovered(r), message)
		}
	}()

	if sys, ok := m.systemMessages.Pop(); ok {
		switch sys.(type) {
		case SuspendMailbox, *SuspendMailbox:
			m.suspended.Store(true)
		case ResumeMailbox, *ResumeMailbox:
			m.suspended.Store(false)
		default:
			message = sys
			m.invoker.InvokeSystemMessage(sys)
		}
	}

	if m.suspended.Load() || m.disposed.Load() {
		return
	}

	batch := make([]any, 0, min(m.batchSize, int(m.userMessages.Len())))
	for len(batch) < m.batchSize {
		msg, ok := m.userMessages.Pop()
		if !ok {
			break
		}
		batch = append(batch, msg)
	}

	if len(batch) == 0 {
		return
	}

	message = batch
	m.invoker.InvokeUserMessage(batch)
	for _, stats := range m.stats {
		for _, msg := range batch {
			stats.MessageReceived(msg)
		}
	}
}
