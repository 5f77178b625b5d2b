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
	"maps"
	"time"

	"github.com/tochemey/protoakt/log"
)

// RootContext sends messages and spawns actors from outside any actor
type RootContext struct {
	system *ActorSystem
	header MessageHeader
}

func newRootContext(system *ActorSystem) *RootContext {
	return &RootContext{system: system}
}

// WithHeader returns a RootContext attaching header to every message it sends
func (rc *RootContext) WithHeader(header MessageHeader) *RootContext {
	return &RootContext{system: rc.system, header: maps.Clone(header)}
}

// ActorSystem returns the owning system
func (rc *RootContext) ActorSystem() *ActorSystem {
	return rc.system
}

// Logger returns the system logger
func (rc *RootContext) Logger() log.Logger {
	return rc.system.logger
}

// Send sends message to pid without a sender
func (rc *RootContext) Send(pid *PID, message any) {
	if len(rc.header) > 0 {
		message = &MessageEnvelope{Header: rc.header, Message: message}
	}
	pid.sendUserMessage(rc.system, message)
}

// Request sends message to pid on behalf of sender
func (rc *RootContext) Request(pid *PID, message any, sender *PID) {
	pid.sendUserMessage(rc.system, &MessageEnvelope{
		Header:  rc.header,
		Message: message,
		Sender:  sender,
	})
}

// RequestFuture sends message to pid and returns a Future completed by the
// reply, or failed with ErrTimeout after timeout
func (rc *RootContext) RequestFuture(pid *PID, message any, timeout time.Duration) *Future {
	return requestFuture(rc.system, pid, message, rc.header, timeout)
}

// Spawn starts a top level actor with a generated name
func (rc *RootContext) Spawn(props *Props) *PID {
	pid, err := rc.SpawnNamed(props, "")
	if err != nil {
		rc.system.logger.Errorf("failed to spawn an actor: %v", err)
	}
	return pid
}

// SpawnPrefix starts a top level actor whose name starts with prefix
func (rc *RootContext) SpawnPrefix(props *Props, prefix string) *PID {
	pid, err := rc.SpawnNamed(props, prefix+rc.system.registry.NextID())
	if err != nil {
		rc.system.logger.Errorf("failed to spawn an actor: %v", err)
	}
	return pid
}

// SpawnNamed starts a named top level actor. An empty name gets a
// generated one.
func (rc *RootContext) SpawnNamed(props *Props, name string) (*PID, error) {
	if name == "" {
		name = rc.system.registry.NextID()
	}
	return spawn(rc.system, props, name, nil)
}

// Stop stops pid once its current message is processed
func (rc *RootContext) Stop(pid *PID) {
	pid.ref(rc.system).Stop(pid)
}

// StopFuture stops pid and returns a Future completed on its termination
func (rc *RootContext) StopFuture(pid *PID) *Future {
	f := rc.watchFuture(pid)
	rc.Stop(pid)
	return f
}

// Poison stops pid once the messages already queued are processed
func (rc *RootContext) Poison(pid *PID) {
	pid.sendUserMessage(rc.system, &PoisonPill{})
}

// PoisonFuture poisons pid and returns a Future completed on its termination
func (rc *RootContext) PoisonFuture(pid *PID) *Future {
	f := rc.watchFuture(pid)
	rc.Poison(pid)
	return f
}

func (rc *RootContext) watchFuture(pid *PID) *Future {
	f := newFuture(rc.system, 0)
	pid.sendSystemMessage(rc.system, &Watch{Watcher: f.pid})
	return f
}
