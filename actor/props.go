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
	"github.com/tochemey/protoakt/mailbox"
)

// ReceiveMiddleware decorates the receive pipeline of an actor
type ReceiveMiddleware func(next ReceiveFunc) ReceiveFunc

// Props describes how to create an actor
type Props struct {
	producer           Producer
	mailboxProducer    mailbox.Producer
	dispatcher         mailbox.Dispatcher
	supervisorStrategy SupervisorStrategy
	guardianStrategy   SupervisorStrategy
	receiveMiddleware  []ReceiveMiddleware
	receiveChain       ReceiveMiddleware
}

// PropsOption configures Props
type PropsOption func(*Props)

// PropsFromProducer creates Props spawning the actors made by producer
func PropsFromProducer(producer Producer, opts ...PropsOption) *Props {
	props := &Props{producer: producer}
	for _, opt := range opts {
		opt(props)
	}
	props.receiveChain = chainReceiveMiddleware(props.receiveMiddleware)
	return props
}

// PropsFromFunc creates Props spawning an actor whose behavior is fn
func PropsFromFunc(fn ReceiveFunc, opts ...PropsOption) *Props {
	return PropsFromProducer(func() Actor { return fn }, opts...)
}

// WithMailbox sets the mailbox of the actor
func WithMailbox(producer mailbox.Producer) PropsOption {
	return func(props *Props) {
		props.mailboxProducer = producer
	}
}

// WithDispatcher sets the dispatcher running the actor
func WithDispatcher(dispatcher mailbox.Dispatcher) PropsOption {
	return func(props *Props) {
		props.dispatcher = dispatcher
	}
}

// WithSupervisor sets the strategy applied to the children of the actor
func WithSupervisor(strategy SupervisorStrategy) PropsOption {
	return func(props *Props) {
		props.supervisorStrategy = strategy
	}
}

// WithGuardian sets the strategy handling the failures of a top level
// actor in place of the root strategy of the system
func WithGuardian(strategy SupervisorStrategy) PropsOption {
	return func(props *Props) {
		props.guardianStrategy = strategy
	}
}

// WithReceiveMiddleware appends middleware to the receive pipeline.
// The first middleware is the outermost.
func WithReceiveMiddleware(middleware ...ReceiveMiddleware) PropsOption {
	return func(props *Props) {
		props.receiveMiddleware = append(props.receiveMiddleware, middleware...)
	}
}

func (props *Props) produceMailbox(system *ActorSystem) mailbox.Mailbox {
	if props.mailboxProducer != nil {
		return props.mailboxProducer()
	}
	return system.defaultMailbox()
}

func (props *Props) getDispatcher(system *ActorSystem) mailbox.Dispatcher {
	if props.dispatcher != nil {
		return props.dispatcher
	}
	return system.dispatcher
}

func (props *Props) getSupervisor() SupervisorStrategy {
	if props.supervisorStrategy != nil {
		return props.supervisorStrategy
	}
	return defaultSupervisorStrategy
}

func chainReceiveMiddleware(middleware []ReceiveMiddleware) ReceiveMiddleware {
	if len(middleware) == 0 {
		return nil
	}
	return func(last ReceiveFunc) ReceiveFunc {
		next := last
		for i := len(middleware) - 1; i >= 0; i-- {
			next = middleware[i](next)
		}
		return next
	}
}
