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

// Package mailbox implements the per-actor message queues and the
// scheduling state machine that serializes message processing.
package mailbox

// SuspendMailbox is a system message that halts user message delivery.
// It is handled by the mailbox and never reaches the invoker.
type SuspendMailbox struct{}

// ResumeMailbox is a system message that restores user message delivery.
// It is handled by the mailbox and never reaches the invoker.
type ResumeMailbox struct{}

// MessageInvoker processes the messages popped by a mailbox.
// Implementations are only ever called from one drain pass at a time.
type MessageInvoker interface {
	// InvokeSystemMessage handles a lifecycle or supervision message
	InvokeSystemMessage(message any)
	// InvokeUserMessage handles an application message
	InvokeUserMessage(message any)
	// EscalateFailure reports a failure raised while handling message
	EscalateFailure(reason error, message any)
}

// Statistics observes a mailbox activity
type Statistics interface {
	MailboxStarted()
	MessagePosted(message any)
	MessageReceived(message any)
	MailboxEmpty()
}

// Mailbox is the queue pair of one actor
type Mailbox interface {
	// PostUserMessage enqueues an application message. It never blocks.
	PostUserMessage(message any)
	// PostSystemMessage enqueues a system message. It never blocks.
	PostSystemMessage(message any)
	// RegisterHandlers binds the mailbox to its invoker and dispatcher.
	// It must be called before Start.
	RegisterHandlers(invoker MessageInvoker, dispatcher Dispatcher)
	// Start notifies the statistics that the mailbox is live
	Start()
	// UserMessageCount returns the number of queued user messages
	UserMessageCount() int
	// Dispose releases the resources held by the mailbox once its actor
	// has stopped
	Dispose()
}

// Producer creates a Mailbox for a newly spawned actor
type Producer func() Mailbox

// Unbounded returns a Producer of mailboxes with unbounded user queues
func Unbounded(stats ...Statistics) Producer {
	return func() Mailbox {
		return newDefaultMailbox(newUnboundedQueue(), stats)
	}
}

// Bounded returns a Producer of mailboxes whose user queue holds at most
// size messages. Posting to a full mailbox drops the oldest queued message.
func Bounded(size int, stats ...Statistics) Producer {
	return func() Mailbox {
		return newDefaultMailbox(newBoundedQueue(size), stats)
	}
}

// Batching returns a Producer of mailboxes that hand the invoker up to
// size user messages at once, as a single []any message. The drain loop
// waits on a wake signal instead of being rescheduled on every post.
func Batching(size int, stats ...Statistics) Producer {
	return func() Mailbox {
		return newBatchingMailbox(size, stats)
	}
}
