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
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/protoakt/internal/workerpool"
	"github.com/tochemey/protoakt/log"
	"github.com/tochemey/protoakt/mailbox"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(system *ActorSystem)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*ActorSystem)

func (f OptionFunc) Apply(system *ActorSystem) {
	f(system)
}

// WithLogger sets the actor system logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.logger = logger
	})
}

// WithThroughput sets the number of messages an actor processes before
// yielding its worker
func WithThroughput(throughput int) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.throughput = throughput
	})
}

// WithWorkerPool runs the actors on the given pool. The caller owns the
// pool and stops it after the system shut down.
func WithWorkerPool(pool *workerpool.WorkerPool) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.workerPool = pool
		system.ownsPool = false
	})
}

// WithRootStrategy sets the strategy applied to failing top level actors
func WithRootStrategy(strategy SupervisorStrategy) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.rootStrategy = strategy
	})
}

// WithAddress sets the address of the system. Remoting sets it on start.
func WithAddress(address string) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.address = address
	})
}

// WithMetricMeter records mailbox statistics with the given meter
func WithMetricMeter(meter otelmetric.Meter) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.meter = meter
	})
}

// WithDefaultMailbox sets the mailbox of actors whose props do not name one
func WithDefaultMailbox(producer mailbox.Producer) Option {
	return OptionFunc(func(system *ActorSystem) {
		system.mailboxProducer = producer
	})
}
