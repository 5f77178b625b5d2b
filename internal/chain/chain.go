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

// Package chain runs a sequence of steps, stopping at the first failure or
// collecting every failure.
package chain

import (
	"context"

	"go.uber.org/multierr"
)

// Step is one link of a Chain
type Step func(ctx context.Context) error

// Chain runs its steps in insertion order
type Chain struct {
	failFast bool
	steps    []Step
}

// Option configures a Chain
type Option func(*Chain)

// WithFailFast stops the chain at the first failing step
func WithFailFast() Option {
	return func(c *Chain) { c.failFast = true }
}

// WithRunAll runs every step and combines their errors
func WithRunAll() Option {
	return func(c *Chain) { c.failFast = false }
}

// New creates a Chain
func New(opts ...Option) *Chain {
	chain := new(Chain)
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// AddStep appends step
func (c *Chain) AddStep(step Step) *Chain {
	c.steps = append(c.steps, step)
	return c
}

// AddStepIf appends step when condition holds
func (c *Chain) AddStepIf(condition bool, step Step) *Chain {
	if condition {
		c.steps = append(c.steps, step)
	}
	return c
}

// AddRunner appends a step that ignores the context
func (c *Chain) AddRunner(fn func() error) *Chain {
	return c.AddStep(func(context.Context) error { return fn() })
}

// Run executes the steps. A cancelled ctx stops the chain before the next
// step.
func (c *Chain) Run(ctx context.Context) error {
	var err error
	for _, step := range c.steps {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return multierr.Append(err, ctxErr)
		}
		if stepErr := step(ctx); stepErr != nil {
			if c.failFast {
				return stepErr
			}
			err = multierr.Append(err, stepErr)
		}
	}
	return err
}
