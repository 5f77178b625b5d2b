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

// Package future provides a single-assignment asynchronous result.
package future

import (
	"context"
	"sync"
)

// Future represents a value which may or may not currently be available,
// but will be available at some point, or an error if that value
// could not be made available.
//
// Example usage:
//
//	f := future.New(func() (string, error) {
//	    return "pong", nil
//	})
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//
//	value, err := f.Await(ctx)
type Future[T any] interface {
	// Await blocks until the Future is completed or the context is done and
	// returns either the value or an error. A context error does not complete
	// the Future, so Await can be called again.
	Await(ctx context.Context) (T, error)
	// Done is closed once the Future is completed
	Done() <-chan struct{}
	// Result returns the outcome without blocking. The boolean is false while
	// the Future is pending.
	Result() (*Result[T], bool)
}

// Result represents the outcome of a completed Future
type Result[T any] struct {
	success T
	failure error
}

// Success returns the value of the Future. It is the zero value when the
// Future failed.
func (x *Result[T]) Success() T {
	return x.success
}

// Failure returns the error of the Future, if any
func (x *Result[T]) Failure() error {
	return x.failure
}

// New creates a Future completed by the given task, which runs on its own
// goroutine
func New[T any](task func() (T, error)) Future[T] {
	promise := NewPromise[T]()
	go func() {
		value, err := task()
		if err != nil {
			promise.Failure(err)
			return
		}
		promise.Success(value)
	}()
	return promise
}

// Promise is the writable side of a Future. Only the first completion counts.
type Promise[T any] struct {
	once   sync.Once
	done   chan struct{}
	result Result[T]
}

// enforce compilation error
var _ Future[any] = (*Promise[any])(nil)

// NewPromise creates a pending Promise
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{done: make(chan struct{})}
}

// Success completes the Promise with a value. It returns false when the
// Promise was already completed.
func (p *Promise[T]) Success(value T) bool {
	return p.complete(Result[T]{success: value})
}

// Failure completes the Promise with an error. It returns false when the
// Promise was already completed.
func (p *Promise[T]) Failure(err error) bool {
	return p.complete(Result[T]{failure: err})
}

// Future returns the read side of the Promise
func (p *Promise[T]) Future() Future[T] {
	return p
}

func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.result.success, p.result.failure
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (p *Promise[T]) Done() <-chan struct{} {
	return p.done
}

func (p *Promise[T]) Result() (*Result[T], bool) {
	select {
	case <-p.done:
		result := p.result
		return &result, true
	default:
		return nil, false
	}
}

func (p *Promise[T]) complete(result Result[T]) bool {
	completed := false
	p.once.Do(func() {
		p.result = result
		close(p.done)
		completed = true
	})
	return completed
}
