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

	"github.com/tochemey/protoakt/supervisor"
)

// Supervisor is the actor side of a supervision decision
type Supervisor interface {
	Children() []*PID
	EscalateFailure(reason error, message any)
	RestartChildren(pids ...*PID)
	StopChildren(pids ...*PID)
	ResumeChildren(pids ...*PID)
}

// SupervisorStrategy decides what happens to a failing child
type SupervisorStrategy interface {
	HandleFailure(system *ActorSystem, supervisor Supervisor, child *PID, stats *supervisor.RestartStatistics, reason error, message any)
}

var (
	defaultSupervisorStrategy = NewOneForOneStrategy(10, 10*time.Second, supervisor.DefaultDecider)
	defaultRootStrategy       = NewOneForOneStrategy(10, 10*time.Second, supervisor.StoppingDecider)
)

// DefaultSupervisorStrategy restarts a failing child at most 10 times
// within 10 seconds, then stops it
func DefaultSupervisorStrategy() SupervisorStrategy {
	return defaultSupervisorStrategy
}

// DefaultRootStrategy stops failing top level actors
func DefaultRootStrategy() SupervisorStrategy {
	return defaultRootStrategy
}

// NewOneForOneStrategy applies the directive returned by decider to the
// failing child only
func NewOneForOneStrategy(maxRetries uint32, within time.Duration, decider supervisor.Decider) SupervisorStrategy {
	return NewStrategy(supervisor.NewSupervisor(
		supervisor.WithStrategy(supervisor.OneForOneStrategy),
		supervisor.WithRetry(maxRetries, within),
		supervisor.WithDecider(decider),
	))
}

// NewAllForOneStrategy applies the directive returned by decider to every
// child of the supervisor
func NewAllForOneStrategy(maxRetries uint32, within time.Duration, decider supervisor.Decider) SupervisorStrategy {
	return NewStrategy(supervisor.NewSupervisor(
		supervisor.WithStrategy(supervisor.OneForAllStrategy),
		supervisor.WithRetry(maxRetries, within),
		supervisor.WithDecider(decider),
	))
}

// NewStrategy creates the strategy described by policy, including its
// per error type directives
func NewStrategy(policy *supervisor.Supervisor) SupervisorStrategy {
	return &strategy{policy: policy}
}

// NewRestartingStrategy restarts a failing child, unconditionally
func NewRestartingStrategy() SupervisorStrategy {
	return restartingStrategy{}
}

type strategy struct {
	policy *supervisor.Supervisor
}

func (s *strategy) HandleFailure(system *ActorSystem, sup Supervisor, child *PID, stats *supervisor.RestartStatistics, reason error, message any) {
	targets := []*PID{child}
	if s.policy.Strategy() == supervisor.OneForAllStrategy {
		if children := sup.Children(); len(children) > 0 {
			targets = children
		}
	}

	directive := s.policy.Decide(reason)
	switch directive {
	case supervisor.ResumeDirective:
		system.logger.Warnf("%s failed: %v; resuming", child, reason)
		sup.ResumeChildren(targets...)
	case supervisor.RestartDirective:
		if s.policy.ShouldStop(stats) {
			system.logger.Errorf("%s failed: %v; restart budget exhausted, stopping", child, reason)
			sup.StopChildren(targets...)
			return
		}
		system.logger.Warnf("%s failed: %v; restarting", child, reason)
		sup.RestartChildren(targets...)
	case supervisor.StopDirective:
		system.logger.Errorf("%s failed: %v; stopping", child, reason)
		sup.StopChildren(targets...)
	case supervisor.EscalateDirective:
		sup.EscalateFailure(reason, message)
	}
}

type restartingStrategy struct{}

func (restartingStrategy) HandleFailure(system *ActorSystem, sup Supervisor, child *PID, _ *supervisor.RestartStatistics, reason error, _ any) {
	system.logger.Warnf("%s failed: %v; restarting", child, reason)
	sup.RestartChildren(child)
}
