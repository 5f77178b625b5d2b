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

// Package eventstream implements the synchronous publish/subscribe bus
// used for dead letters and endpoint lifecycle events.
package eventstream

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Handler receives a published event.
type Handler func(event any)

// Predicate filters the events delivered to a Subscription.
type Predicate func(event any) bool

// Subscription is a handle returned by Subscribe.
type Subscription struct {
	id        string
	handler   Handler
	predicate Predicate
	active    *atomic.Bool
}

// ID returns the unique identifier of the subscription
func (s *Subscription) ID() string {
	return s.id
}

// Active reports whether the subscription still receives events
func (s *Subscription) Active() bool {
	return s.active.Load()
}

func (s *Subscription) deliver(event any) {
	if !s.active.Load() {
		return
	}
	if s.predicate != nil && !s.predicate(event) {
		return
	}
	s.handler(event)
}

// Stream delivers every published event to the current subscribers, on the
// publishing goroutine, in subscription order.
type Stream struct {
	mu            sync.RWMutex
	subscriptions []*Subscription
}

// New creates an instance of Stream
func New() *Stream {
	return &Stream{}
}

// Subscribe registers a handler for every event.
func (x *Stream) Subscribe(handler Handler) *Subscription {
	return x.SubscribeWithPredicate(handler, nil)
}

// SubscribeWithPredicate registers a handler for the events matching predicate.
func (x *Stream) SubscribeWithPredicate(handler Handler, predicate Predicate) *Subscription {
	sub := &Subscription{
		id:        uuid.NewString(),
		handler:   handler,
		predicate: predicate,
		active:    atomic.NewBool(true),
	}

	x.mu.Lock()
	subscriptions := make([]*Subscription, len(x.subscriptions), len(x.subscriptions)+1)
	copy(subscriptions, x.subscriptions)
	x.subscriptions = append(subscriptions, sub)
	x.mu.Unlock()
	return sub
}

// Unsubscribe removes the subscription. Calling it twice is a no-op.
func (x *Stream) Unsubscribe(sub *Subscription) {
	if sub == nil || !sub.active.CompareAndSwap(true, false) {
		return
	}

	x.mu.Lock()
	subscriptions := make([]*Subscription, 0, len(x.subscriptions))
	for _, existing := range x.subscriptions {
		if existing.id != sub.id {
			subscriptions = append(subscriptions, existing)
		}
	}
	x.subscriptions = subscriptions
	x.mu.Unlock()
}

// Publish hands the event to every matching subscriber. Handlers may
// subscribe or unsubscribe while being invoked.
func (x *Stream) Publish(event any) {
	x.mu.RLock()
	subscriptions := x.subscriptions
	x.mu.RUnlock()

	for _, sub := range subscriptions {
		sub.deliver(event)
	}
}

// Len returns the number of active subscriptions
func (x *Stream) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.subscriptions)
}

// SubscribeTo registers a handler for the events of type T only.
func SubscribeTo[T any](stream *Stream, handler func(T)) *Subscription {
	return stream.SubscribeWithPredicate(
		func(event any) { handler(event.(T)) },
		func(event any) bool {
			_, ok := event.(T)
			return ok
		})
}
