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
	"context"
	"time"

	gerrors "github.com/tochemey/protoakt/errors"
	"github.com/tochemey/protoakt/future"
)

// Future is a short lived process completed by the first message it
// receives. It unregisters itself once completed.
type Future struct {
	system  *ActorSystem
	pid     *PID
	promise *future.Promise[any]
	timer   *time.Timer
}

type futureProcess struct {
	future *Future
}

var _ Process = (*futureProcess)(nil)

// NewFuture registers a Future that fails with ErrTimeout after timeout.
// A non positive timeout returns a Future already failed with ErrInvalidTimeout.
func NewFuture(system *ActorSystem, timeout time.Duration) *Future {
	if timeout <= 0 {
		f := newFuture(system, 0)
		f.fail(gerrors.ErrInvalidTimeout)
		return f
	}
	return newFuture(system, timeout)
}

// newFuture registers a Future. A zero timeout never expires.
func newFuture(system *ActorSystem, timeout time.Duration) *Future {
	f := &Future{
		system:  system,
		promise: future.NewPromise[any](),
	}

	id := "future" + system.registry.NextID()
	f.pid, _ = system.registry.Add(id, &futureProcess{future: f})
	if timeout > 0 {
		f.timer = time.AfterFunc(timeout, func() {
			f.fail(gerrors.ErrTimeout)
		})
	}
	return f
}

// PID returns the address replies must be sent to
func (f *Future) PID() *PID {
	return f.pid
}

// Result waits for the reply
func (f *Future) Result() (any, error) {
	return f.promise.Await(context.Background())
}

// ResultContext waits for the reply or for ctx to be done
func (f *Future) ResultContext(ctx context.Context) (any, error) {
	return f.promise.Await(ctx)
}

// Wait waits for the Future and returns its error
func (f *Future) Wait() error {
	_, err := f.Result()
	return err
}

// PipeTo forwards the reply to the given PIDs once available.
// Failures are forwarded as error values.
func (f *Future) PipeTo(pids ...*PID) {
	go func() {
		result, err := f.Result()
		var message any = result
		if err != nil {
			message = err
		}
		for _, pid := range pids {
			pid.sendUserMessage(f.system, message)
		}
	}()
}

func (f *Future) complete(message any) {
	if f.promise.Success(message) {
		f.release()
	}
}

func (f *Future) fail(err error) {
	if f.promise.Failure(err) {
		f.release()
	}
}

func (f *Future) release() {
	f.system.registry.Remove(f.pid)
	if f.timer != nil {
		f.timer.Stop()
	}
}

func (x *futureProcess) SendUserMessage(_ *PID, message any) {
	msg := UnwrapEnvelopeMessage(message)
	if _, ok := msg.(*DeadLetterResponse); ok {
		x.future.fail(gerrors.ErrDeadLetter)
		return
	}
	x.future.complete(msg)
}

func (x *futureProcess) SendSystemMessage(_ *PID, message SystemMessage) {
	x.future.complete(message)
}

func (x *futureProcess) Stop(_ *PID) {
	x.future.fail(context.Canceled)
}

func requestFuture(system *ActorSystem, pid *PID, message any, header MessageHeader, timeout time.Duration) *Future {
	f := NewFuture(system, timeout)
	if _, done := f.promise.Result(); done {
		return f
	}
	pid.sendUserMessage(system, &MessageEnvelope{
		Header:  header,
		Message: message,
		Sender:  f.pid,
	})
	return f
}
