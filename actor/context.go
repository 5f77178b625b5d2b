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

package actor

import (
	"time"

	"github.com/tochemey/protoakt/log"
)

// Context is handed to an actor for every message it receives. It is only
// valid within the Receive call and must not be shared with other goroutines.
type Context interface {
	// Self returns the PID of the actor
	Self() *PID
	// Parent returns the PID of the parent, nil for top level actors
	Parent() *PID
	// Actor returns the current actor instance
	Actor() Actor
	// ActorSystem returns the system hosting the actor
	ActorSystem() *ActorSystem
	// Logger returns the system logger
	Logger() log.Logger

	// Message returns the message being processed, unwrapped
	Message() any
	// Sender returns the sender of the message, nil when unknown
	Sender() *PID
	// MessageHeader returns the header of the message
	MessageHeader() MessageHeader

	// Send sends message to pid without a sender
	Send(pid *PID, message any)
	// Request sends message to pid with the actor as sender
	Request(pid *PID, message any)
	// RequestFuture sends message to pid and returns a Future completed by
	// the reply
	RequestFuture(pid *PID, message any, timeout time.Duration) *Future
	// Respond replies to the sender of the current message. Without sender
	// the reply goes to the dead letters.
	Respond(response any)
	// Forward sends the current message, sender included, to pid
	Forward(pid *PID)

	// Spawn starts a child with a generated name
	Spawn(props *Props) *PID
	// SpawnPrefix starts a child whose name starts with prefix
	SpawnPrefix(props *Props, prefix string) *PID
	// SpawnNamed starts a named child. It fails with *NameExistsError when
	// the name is taken.
	SpawnNamed(props *Props, name string) (*PID, error)
	// Children returns the live children
	Children() []*PID

	// Watch registers the actor to receive Terminated when pid stops
	Watch(pid *PID)
	// Unwatch removes a registration made with Watch
	Unwatch(pid *PID)
	// Stop stops pid once its current message is processed
	Stop(pid *PID)
	// Poison stops pid once the messages already queued are processed
	Poison(pid *PID)

	// Become replaces the behavior stack with behavior
	Become(behavior ReceiveFunc)
	// BecomeStacked pushes behavior on top of the current one
	BecomeStacked(behavior ReceiveFunc)
	// UnbecomeStacked restores the previous behavior
	UnbecomeStacked()

	// Stash keeps the current message for later
	Stash()
	// UnstashAll re-enqueues the stashed messages in stash order
	UnstashAll()

	// SetReceiveTimeout schedules a ReceiveTimeout message after d without
	// messages. A duration below one millisecond cancels it.
	SetReceiveTimeout(d time.Duration)
	// CancelReceiveTimeout cancels the receive timeout
	CancelReceiveTimeout()
	// ReceiveTimeout returns the current receive timeout
	ReceiveTimeout() time.Duration
}
