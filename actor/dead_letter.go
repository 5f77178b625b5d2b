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
	"github.com/tochemey/protoakt/eventstream"
)

// DeadLetterEvent is published on the event stream for every message sent
// to a process that does not exist
type DeadLetterEvent struct {
	PID     *PID
	Message any
	Sender  *PID
}

// deadLetterProcess is the sink of undeliverable messages
type deadLetterProcess struct {
	system *ActorSystem
}

var _ Process = (*deadLetterProcess)(nil)

func newDeadLetterProcess(system *ActorSystem) *deadLetterProcess {
	return &deadLetterProcess{system: system}
}

func (x *deadLetterProcess) SendUserMessage(pid *PID, message any) {
	_, msg, sender := UnwrapEnvelope(message)
	x.system.eventStream.Publish(&DeadLetterEvent{
		PID:     pid,
		Message: msg,
		Sender:  sender,
	})

	// requests fail fast instead of waiting for their timeout
	if sender != nil {
		if _, ok := msg.(*DeadLetterResponse); !ok {
			sender.sendUserMessage(x.system, &DeadLetterResponse{Target: pid})
		}
	}
}

func (x *deadLetterProcess) SendSystemMessage(pid *PID, message SystemMessage) {
	// watching a process that does not exist answers at once
	if watch, ok := message.(*Watch); ok && watch.Watcher != nil {
		watch.Watcher.sendSystemMessage(x.system, &Terminated{Who: pid})
		return
	}

	x.system.eventStream.Publish(&DeadLetterEvent{
		PID:     pid,
		Message: message,
	})
}

func (x *deadLetterProcess) Stop(pid *PID) {
	x.SendSystemMessage(pid, stopMessage)
}

// subscribeDeadLetters logs dead letters at debug level
func subscribeDeadLetters(system *ActorSystem) *eventstream.Subscription {
	return eventstream.SubscribeTo(system.eventStream, func(event *DeadLetterEvent) {
		system.logger.Debugf("dead letter: %T to %s from %s", event.Message, event.PID, event.Sender)
	})
}
