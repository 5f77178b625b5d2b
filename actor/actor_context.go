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
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/atomic"

	"github.com/tochemey/protoakt/log"
	"github.com/tochemey/protoakt/mailbox"
	"github.com/tochemey/protoakt/supervisor"
)

const (
	stateAlive int32 = iota
	stateRestarting
	stateStopping
	stateStopped
)

// actorContext owns one actor. It is the mailbox invoker of the actor and
// the supervisor of its children.
type actorContext struct {
	system  *ActorSystem
	props   *Props
	parent  *PID
	self    *PID
	process *actorProcess
	logger  log.Logger

	actor     Actor
	behaviors []ReceiveFunc
	receive   ReceiveFunc
	state     *atomic.Int32

	messageOrEnvelope any
	children          mapset.Set[pidKey]
	watchers          mapset.Set[pidKey]
	stash             []any
	restartStats      *supervisor.RestartStatistics

	receiveTimeout time.Duration
	receiveTimer   *time.Timer
}

var (
	_ Context                = (*actorContext)(nil)
	_ Supervisor             = (*actorContext)(nil)
	_ mailbox.MessageInvoker = (*actorContext)(nil)
)

func newActorContext(system *ActorSystem, props *Props, parent *PID) *actorContext {
	ctx := &actorContext{
		system:   system,
		props:    props,
		parent:   parent,
		logger:   system.logger,
		state:    atomic.NewInt32(stateAlive),
		children: mapset.NewSet[pidKey](),
		watchers: mapset.NewSet[pidKey](),
	}

	ctx.incarnateActor()
	ctx.receive = ctx.defaultReceive
	if props.receiveChain != nil {
		ctx.receive = props.receiveChain(ctx.defaultReceive)
	}
	return ctx
}

func (ctx *actorContext) Self() *PID {
	return ctx.self
}

func (ctx *actorContext) Parent() *PID {
	return ctx.parent
}

func (ctx *actorContext) Actor() Actor {
	return ctx.actor
}

func (ctx *actorContext) ActorSystem() *ActorSystem {
	return ctx.system
}

func (ctx *actorContext) Logger() log.Logger {
	return ctx.logger
}

func (ctx *actorContext) Message() any {
	return UnwrapEnvelopeMessage(ctx.messageOrEnvelope)
}

func (ctx *actorContext) Sender() *PID {
	return UnwrapEnvelopeSender(ctx.messageOrEnvelope)
}

func (ctx *actorContext) MessageHeader() MessageHeader {
	return UnwrapEnvelopeHeader(ctx.messageOrEnvelope)
}

func (ctx *actorContext) Send(pid *PID, message any) {
	pid.sendUserMessage(ctx.system, message)
}

func (ctx *actorContext) Request(pid *PID, message any) {
	pid.sendUserMessage(ctx.system, &MessageEnvelope{Message: message, Sender: ctx.self})
}

func (ctx *actorContext) RequestFuture(pid *PID, message any, timeout time.Duration) *Future {
	return requestFuture(ctx.system, pid, message, nil, timeout)
}

func (ctx *actorContext) Respond(response any) {
	sender := ctx.Sender()
	if sender == nil {
		ctx.system.deadLetter.SendUserMessage(nil, response)
		return
	}
	ctx.Send(sender, response)
}

func (ctx *actorContext) Forward(pid *PID) {
	if _, ok := ctx.messageOrEnvelope.(SystemMessage); ok {
		ctx.logger.Errorf("%s cannot forward system message %T", ctx.self, ctx.messageOrEnvelope)
		return
	}
	pid.sendUserMessage(ctx.system, ctx.messageOrEnvelope)
}

func (ctx *actorContext) Spawn(props *Props) *PID {
	pid, err := ctx.SpawnNamed(props, "")
	if err != nil {
		ctx.logger.Errorf("%s failed to spawn a child: %v", ctx.self, err)
	}
	return pid
}

func (ctx *actorContext) SpawnPrefix(props *Props, prefix string) *PID {
	pid, err := ctx.SpawnNamed(props, prefix+ctx.system.registry.NextID())
	if err != nil {
		ctx.logger.Errorf("%s failed to spawn a child: %v", ctx.self, err)
	}
	return pid
}

func (ctx *actorContext) SpawnNamed(props *Props, name string) (*PID, error) {
	if name == "" {
		name = ctx.system.registry.NextID()
	}

	pid, err := spawn(ctx.system, props, ctx.self.ID+"/"+name, ctx.self)
	if err != nil {
		return pid, err
	}
	ctx.children.Add(keyOf(pid))
	return pid, nil
}

func (ctx *actorContext) Children() []*PID {
	return toPIDs(ctx.children)
}

func (ctx *actorContext) Watch(pid *PID) {
	pid.sendSystemMessage(ctx.system, &Watch{Watcher: ctx.self})
}

func (ctx *actorContext) Unwatch(pid *PID) {
	pid.sendSystemMessage(ctx.system, &Unwatch{Watcher: ctx.self})
}

func (ctx *actorContext) Stop(pid *PID) {
	pid.ref(ctx.system).Stop(pid)
}

func (ctx *actorContext) Poison(pid *PID) {
	pid.sendUserMessage(ctx.system, &PoisonPill{})
}

func (ctx *actorContext) Become(behavior ReceiveFunc) {
	ctx.behaviors = append(ctx.behaviors[:0], behavior)
}

func (ctx *actorContext) BecomeStacked(behavior ReceiveFunc) {
	ctx.behaviors = append(ctx.behaviors, behavior)
}

func (ctx *actorContext) UnbecomeStacked() {
	if len(ctx.behaviors) <= 1 {
		return
	}
	ctx.behaviors = ctx.behaviors[:len(ctx.behaviors)-1]
}

func (ctx *actorContext) Stash() {
	ctx.stash = append(ctx.stash, ctx.messageOrEnvelope)
}

func (ctx *actorContext) UnstashAll() {
	stashed := ctx.stash
	ctx.stash = nil
	for _, message := range stashed {
		ctx.self.sendUserMessage(ctx.system, message)
	}
}

func (ctx *actorContext) SetReceiveTimeout(d time.Duration) {
	if d < time.Millisecond {
		ctx.CancelReceiveTimeout()
		return
	}
	if d == ctx.receiveTimeout {
		return
	}

	ctx.receiveTimeout = d
	if ctx.receiveTimer == nil {
		self, system := ctx.self, ctx.system
		ctx.receiveTimer = time.AfterFunc(d, func() {
			self.sendUserMessage(system, receiveTimeoutMessage)
		})
		return
	}
	ctx.receiveTimer.Reset(d)
}

func (ctx *actorContext) CancelReceiveTimeout() {
	if ctx.receiveTimer == nil {
		return
	}
	ctx.receiveTimer.Stop()
	ctx.receiveTimer = nil
	ctx.receiveTimeout = 0
}

func (ctx *actorContext) ReceiveTimeout() time.Duration {
	return ctx.receiveTimeout
}

// InvokeUserMessage hands an application message to the current behavior
func (ctx *actorContext) InvokeUserMessage(message any) {
	if ctx.state.Load() == stateStopped {
		ctx.system.deadLetter.SendUserMessage(ctx.self, message)
		return
	}

	influence := ctx.receiveTimeout > 0
	if influence {
		if _, ok := UnwrapEnvelopeMessage(message).(NotInfluenceReceiveTimeout); ok {
			influence = false
		} else {
			ctx.receiveTimer.Stop()
		}
	}

	ctx.processMessage(message)

	if influence && ctx.receiveTimer != nil {
		ctx.receiveTimer.Reset(ctx.receiveTimeout)
	}
}

// InvokeSystemMessage interprets lifecycle and supervision messages
func (ctx *actorContext) InvokeSystemMessage(message any) {
	switch msg := message.(type) {
	case *Started:
		ctx.InvokeUserMessage(msg)
	case *Watch:
		ctx.handleWatch(msg)
	case *Unwatch:
		if msg.Watcher != nil {
			ctx.watchers.Remove(keyOf(msg.Watcher))
		}
	case *Stop:
		ctx.handleStop()
	case *Terminated:
		ctx.handleTerminated(msg)
	case *Failure:
		ctx.handleFailure(msg)
	case *Restart:
		ctx.handleRestart()
	default:
		ctx.logger.Warnf("%s received an unknown system message %T", ctx.self, message)
	}
}

// EscalateFailure records the failure, suspends the actor and reports the
// failure to the parent. Top level actors report to their guardian strategy,
// or to the root strategy without one.
func (ctx *actorContext) EscalateFailure(reason error, message any) {
	if ctx.restartStats == nil {
		ctx.restartStats = supervisor.NewRestartStatistics()
	}
	ctx.restartStats.Fail()

	failure := &Failure{
		Who:          ctx.self,
		Reason:       reason,
		RestartStats: ctx.restartStats,
		Message:      message,
	}

	ctx.self.sendSystemMessage(ctx.system, suspendMailboxMessage)
	if ctx.parent == nil {
		ctx.system.handleRootFailure(failure, ctx.props.guardianStrategy)
		return
	}
	ctx.parent.sendSystemMessage(ctx.system, failure)
}

func (ctx *actorContext) RestartChildren(pids ...*PID) {
	for _, pid := range pids {
		pid.sendSystemMessage(ctx.system, restartMessage)
	}
}

func (ctx *actorContext) StopChildren(pids ...*PID) {
	for _, pid := range pids {
		pid.sendSystemMessage(ctx.system, stopMessage)
	}
}

func (ctx *actorContext) ResumeChildren(pids ...*PID) {
	for _, pid := range pids {
		pid.sendSystemMessage(ctx.system, resumeMailboxMessage)
	}
}

func (ctx *actorContext) processMessage(message any) {
	ctx.messageOrEnvelope = message
	ctx.receive(ctx)
	ctx.messageOrEnvelope = nil
}

// defaultReceive is the innermost step of the receive pipeline
func (ctx *actorContext) defaultReceive(c Context) {
	if _, ok := ctx.Message().(*PoisonPill); ok {
		ctx.Stop(ctx.self)
		return
	}
	ctx.behaviors[len(ctx.behaviors)-1](c)
}

func (ctx *actorContext) incarnateActor() {
	ctx.state.Store(stateAlive)
	ctx.actor = ctx.props.producer()
	ctx.behaviors = []ReceiveFunc{ctx.actor.Receive}
}

func (ctx *actorContext) handleWatch(msg *Watch) {
	if msg.Watcher == nil {
		return
	}
	if ctx.state.Load() == stateStopped {
		msg.Watcher.sendSystemMessage(ctx.system, &Terminated{Who: ctx.self})
		return
	}
	ctx.watchers.Add(keyOf(msg.Watcher))
}

func (ctx *actorContext) handleStop() {
	if ctx.state.Load() >= stateStopping {
		return
	}

	ctx.state.Store(stateStopping)
	ctx.InvokeUserMessage(stoppingMessage)
	ctx.StopChildren(ctx.Children()...)
	ctx.tryRestartOrTerminate()
}

func (ctx *actorContext) handleRestart() {
	if ctx.state.Load() >= stateStopping {
		return
	}

	ctx.state.Store(stateRestarting)
	ctx.InvokeUserMessage(restartingMessage)
	ctx.StopChildren(ctx.Children()...)
	ctx.tryRestartOrTerminate()
}

func (ctx *actorContext) handleTerminated(msg *Terminated) {
	if msg.Who != nil {
		ctx.children.Remove(keyOf(msg.Who))
	}
	ctx.InvokeUserMessage(msg)
	ctx.tryRestartOrTerminate()
}

func (ctx *actorContext) handleFailure(msg *Failure) {
	if strategy, ok := ctx.actor.(SupervisorStrategy); ok {
		strategy.HandleFailure(ctx.system, ctx, msg.Who, msg.RestartStats, msg.Reason, msg.Message)
		return
	}
	ctx.props.getSupervisor().HandleFailure(ctx.system, ctx, msg.Who, msg.RestartStats, msg.Reason, msg.Message)
}

// tryRestartOrTerminate completes a restart or a stop once every child
// reported its termination
func (ctx *actorContext) tryRestartOrTerminate() {
	if ctx.children.Cardinality() > 0 {
		return
	}

	switch ctx.state.Load() {
	case stateRestarting:
		ctx.CancelReceiveTimeout()
		ctx.restart()
	case stateStopping:
		ctx.CancelReceiveTimeout()
		ctx.finalizeStop()
	}
}

func (ctx *actorContext) restart() {
	ctx.incarnateActor()
	ctx.self.sendSystemMessage(ctx.system, resumeMailboxMessage)
	ctx.InvokeUserMessage(startedMessage)

	stashed := ctx.stash
	ctx.stash = nil
	for _, message := range stashed {
		ctx.InvokeUserMessage(message)
	}
}

func (ctx *actorContext) finalizeStop() {
	ctx.system.registry.Remove(ctx.self)
	ctx.InvokeUserMessage(stoppedMessage)
	ctx.state.Store(stateStopped)
	ctx.process.mailbox.Dispose()

	terminated := &Terminated{Who: ctx.self}
	for _, watcher := range toPIDs(ctx.watchers) {
		watcher.sendSystemMessage(ctx.system, terminated)
	}
	ctx.watchers.Clear()

	if ctx.parent != nil {
		ctx.parent.sendSystemMessage(ctx.system, terminated)
	}
}

func toPIDs(set mapset.Set[pidKey]) []*PID {
	keys := set.ToSlice()
	pids := make([]*PID, 0, len(keys))
	for _, key := range keys {
		pids = append(pids, key.pid())
	}
	return pids
}
