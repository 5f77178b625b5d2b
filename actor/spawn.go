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
	gerrors "github.com/tochemey/protoakt/errors"
)

// spawn creates the context, mailbox and process of an actor registered
// under id, then delivers Started
func spawn(system *ActorSystem, props *Props, id string, parent *PID) (*PID, error) {
	if system.stopped.Load() {
		return nil, gerrors.ErrSystemStopped
	}

	if props == nil || props.producer == nil {
		return nil, gerrors.ErrUndefinedProducer
	}

	// the producer does not run for a taken name; Add still settles a race
	if _, taken := system.registry.GetLocal(id); taken {
		pid := NewPID(system.registry.Address(), id)
		return pid, &NameExistsError{PID: pid}
	}

	mb := props.produceMailbox(system)
	process := newActorProcess(mb)
	ctx := newActorContext(system, props, parent)
	ctx.self = NewPID(system.registry.Address(), id)
	ctx.process = process

	// handlers go first: the process is reachable as soon as it is added
	mb.RegisterHandlers(ctx, props.getDispatcher(system))
	pid, absent := system.registry.Add(id, process)
	if !absent {
		mb.Dispose()
		return pid, &NameExistsError{PID: pid}
	}

	mb.PostSystemMessage(startedMessage)
	mb.Start()
	return pid, nil
}
