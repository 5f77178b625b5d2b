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
	"fmt"
	"runtime"
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/protoakt/errors"
	"github.com/tochemey/protoakt/eventstream"
	"github.com/tochemey/protoakt/internal/validation"
	"github.com/tochemey/protoakt/internal/workerpool"
	"github.com/tochemey/protoakt/log"
	"github.com/tochemey/protoakt/mailbox"
	"github.com/tochemey/protoakt/metric"
)

const systemNamePattern = `^[a-zA-Z0-9][a-zA-Z0-9-_]*$`

// shutdownPollInterval is how often Shutdown checks for live actors
const shutdownPollInterval = 10 * time.Millisecond

// ActorSystem owns the process registry, the event stream, the dispatcher
// and the root context. Several systems can live in one process.
type ActorSystem struct {
	name         string
	registry     *ProcessRegistry
	eventStream  *eventstream.Stream
	deadLetter   *deadLetterProcess
	root         *RootContext
	logger       log.Logger
	throughput   int
	workerPool   *workerpool.WorkerPool
	ownsPool     bool
	dispatcher   mailbox.Dispatcher
	rootStrategy SupervisorStrategy
	address      string

	meter           otelmetric.Meter
	mailboxStats    []mailbox.Statistics
	mailboxProducer mailbox.Producer

	deadLetterSub *eventstream.Subscription
	stopped       *atomic.Bool
}

// NewActorSystem creates and starts an actor system
func NewActorSystem(name string, opts ...Option) (*ActorSystem, error) {
	if err := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("name", name)).
		AddValidator(validation.NewPatternValidator(systemNamePattern, name, gerrors.ErrInvalidActorSystemName)).
		Validate(); err != nil {
		return nil, err
	}

	system := &ActorSystem{
		name:         name,
		eventStream:  eventstream.New(),
		logger:       log.DefaultLogger,
		throughput:   mailbox.DefaultThroughput,
		rootStrategy: defaultRootStrategy,
		ownsPool:     true,
		stopped:      atomic.NewBool(false),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	system.deadLetter = newDeadLetterProcess(system)
	system.registry = newProcessRegistry(system.deadLetter)
	if system.address != "" {
		system.registry.SetAddress(system.address)
	}
	system.root = newRootContext(system)

	if system.meter != nil {
		stats, err := metric.NewMailboxStatistics(system.meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create the mailbox statistics: %w", err)
		}
		system.mailboxStats = append(system.mailboxStats, stats)
	}

	if system.workerPool == nil {
		system.workerPool = workerpool.New(workerpool.WithNumShards(runtime.NumCPU()))
	}
	system.workerPool.Start()
	system.dispatcher = mailbox.NewPoolDispatcher(system.workerPool, system.throughput)
	system.deadLetterSub = subscribeDeadLetters(system)

	system.logger.Infof("actor system %s started", name)
	return system, nil
}

// Name returns the system name
func (system *ActorSystem) Name() string {
	return system.name
}

// Root returns the context used to talk to actors from outside
func (system *ActorSystem) Root() *RootContext {
	return system.root
}

// ProcessRegistry returns the registry of the local processes
func (system *ActorSystem) ProcessRegistry() *ProcessRegistry {
	return system.registry
}

// EventStream returns the system event stream
func (system *ActorSystem) EventStream() *eventstream.Stream {
	return system.eventStream
}

// Logger returns the system logger
func (system *ActorSystem) Logger() log.Logger {
	return system.logger
}

// Address returns the address of the system
func (system *ActorSystem) Address() string {
	return system.registry.Address()
}

// NewLocalPID returns the PID of id on this system
func (system *ActorSystem) NewLocalPID(id string) *PID {
	return NewPID(system.registry.Address(), id)
}

// DeadLetter returns the process receiving undeliverable messages
func (system *ActorSystem) DeadLetter() Process {
	return system.deadLetter
}

// Shutdown stops every actor and waits for them to terminate, or for ctx
// to be done. Spawning fails once Shutdown was called.
func (system *ActorSystem) Shutdown(ctx context.Context) error {
	if !system.stopped.CompareAndSwap(false, true) {
		return nil
	}

	for _, pid := range system.registry.localActors() {
		pid.sendSystemMessage(system, stopMessage)
	}

	ticker := time.NewTicker(shutdownPollInterval)
	defer ticker.Stop()
	for len(system.registry.localActors()) > 0 {
		select {
		case <-ctx.Done():
			system.release()
			return fmt.Errorf("actor system %s shutdown: %w", system.name, ctx.Err())
		case <-ticker.C:
		}
	}

	system.release()
	system.logger.Infof("actor system %s stopped", system.name)
	return nil
}

// Stopped reports whether Shutdown was called
func (system *ActorSystem) Stopped() bool {
	return system.stopped.Load()
}

func (system *ActorSystem) release() {
	system.eventStream.Unsubscribe(system.deadLetterSub)
	if system.ownsPool {
		system.workerPool.Stop()
	}
}

func (system *ActorSystem) defaultMailbox() mailbox.Mailbox {
	if system.mailboxProducer != nil {
		return system.mailboxProducer()
	}
	return mailbox.Unbounded(system.mailboxStats...)()
}

// handleRootFailure applies guardian, or the root strategy when nil, the
// system acting as the supervisor of top level actors
func (system *ActorSystem) handleRootFailure(failure *Failure, guardian SupervisorStrategy) {
	strategy := system.rootStrategy
	if guardian != nil {
		strategy = guardian
	}
	strategy.HandleFailure(system, rootSupervisor{system: system, who: failure.Who}, failure.Who, failure.RestartStats, failure.Reason, failure.Message)
}

// rootSupervisor supervises top level actors on behalf of the system
type rootSupervisor struct {
	system *ActorSystem
	who    *PID
}

var _ Supervisor = rootSupervisor{}

// Children returns nil: the system does not track top level actors as a group
func (rootSupervisor) Children() []*PID {
	return nil
}

// EscalateFailure stops the failing actor: nothing supervises the system
func (x rootSupervisor) EscalateFailure(reason error, _ any) {
	x.system.logger.Errorf("%s failure escalated past the root, stopping: %v", x.who, reason)
	if x.who != nil {
		x.who.sendSystemMessage(x.system, stopMessage)
	}
}

func (x rootSupervisor) RestartChildren(pids ...*PID) {
	for _, pid := range pids {
		pid.sendSystemMessage(x.system, restartMessage)
	}
}

func (x rootSupervisor) StopChildren(pids ...*PID) {
	for _, pid := range pids {
		pid.sendSystemMessage(x.system, stopMessage)
	}
}

func (x rootSupervisor) ResumeChildren(pids ...*PID) {
	for _, pid := range pids {
		pid.sendSystemMessage(x.system, resumeMailboxMessage)
	}
}
