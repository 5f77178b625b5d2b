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

const (
	idle int32 = iota
	busy
)

// defaultMailbox drains its queues on the dispatcher. Each iteration pops at
// most one system message and then, unless suspended, at most one user
// message, so system messages are never deferred behind user messages.
type defaultMailbox struct {
	systemMessages *queue.Mpsc[any]
	userMessages   userQueue
	status         *atomic.Int32
	suspended      *atomic.Bool
	invoker        MessageInvoker
	dispatcher     Dispatcher
	stats          []Statistics
}

var _ Mailbox = (*defaultMailbox)(nil)

func newDefaultMailbox(userMessages userQueue, stats []Statistics) *defaultMailbox {
	return &defaultMailbox{
		systemMessages: queue.NewMpsc[any](),
		userMessages:   userMessages,
		status:         atomic.NewInt32(idle),
		suspended:      atomic.NewBool(false),
		stats:          stats,
	}
}

func (m *defaultMailbox) PostUserMessage(message any) {
	m.userMessages.Push(message)
	for _, stats := range m.stats {
		stats.MessagePosted(message)
	}
	m.schedule()
}

func (m *defaultMailbox) PostSystemMessage(message any) {
	m.systemMessages.Push(message)
	m.schedule()
}

func (m *defaultMailbox) RegisterHandlers(invoker MessageInvoker, dispatcher Dispatcher) {
	m.invoker = invoker
	m.dispatcher = dispatcher
}

func (m *defaultMailbox) Start() {
	for _, stats := range m.stats {
		stats.MailboxStarted()
	}
}

func (m *defaultMailbox) UserMessageCount() int {
	return int(m.userMessages.Len())
}

func (m *defaultMailbox) Dispose() {}

// Suspended reports whether user message delivery is halted
func (m *defaultMailbox) Suspended() bool {
	return m.suspended.Load()
}

func (m *defaultMailbox) schedule() {
	if m.status.CompareAndSwap(idle, busy) {
		m.dispatcher.Schedule(m.processMessages)
	}
}

func (m *defaultMailbox) processMessages() {
	m.run()
	m.status.Store(idle)

	// work posted while the pass was finishing lost the CAS race
	if m.hasWork() {
		m.schedule()
		return
	}

	for _, stats := range m.stats {
		stats.MailboxEmpty()
	}
}

// hasWork may run while another pass owns the queues, hence the counters
func (m *defaultMailbox) hasWork() bool {
	return m.systemMessages.Len() > 0 || (!m.suspended.Load() && m.userMessages.Len() > 0)
}

// run is one drain pass bounded by the dispatcher throughput
func (m *defaultMailbox) run() {
	throughput := m.dispatcher.Throughput()
	for processed := 0; processed < throughput; {
		if message, ok := m.systemMessages.Pop(); ok {
			processed++
			switch message.(type) {
			case SuspendMailbox, *SuspendMailbox:
				m.suspended.Store(true)
			case ResumeMailbox, *ResumeMailbox:
				m.suspended.Store(false)
			default:
				m.invokeSystemMessage(message)
			}
		}

		if m.suspended.Load() {
			if m.systemMessages.IsEmpty() {
				return
			}
			continue
		}

		// a system message may have used the last slot of the budget
		if processed >= throughput {
			return
		}

		message, ok := m.userMessages.Pop()
		if !ok {
			if m.systemMessages.IsEmpty() {
				return
			}
			continue
		}

		processed++
		m.invokeUserMessage(message)
		for _, stats := range m.stats {
			stats.MessageReceived(message)
		}
	}
}

func (m *defaultMailbox) invokeSystemMessage(message any) {
	defer func() {
		if r := recover(); r != nil {
			m.invoker.EscalateFailure(gerrors.Recovered(r), message)
		}
	}()
	m.invoker.InvokeSystemMessage(message)
}

func (m *defaultMailbox) invokeUserMessage(message any) {
	defer func() {
		if r := recover(); r != nil {
			m.invoker.EscalateFailure(gerrors.Recovered(r), message)
		}
	}()
	m.invoker.InvokeUserMessage(message)
}
