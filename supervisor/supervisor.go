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

// Package supervisor holds the supervision policy shared by actor strategies:
// the directives a parent may issue for a failing child, the rules that map
// failures to directives and the failure accounting of one actor lineage.
package supervisor

import (
	"errors"
	"reflect"
	"sync"
	"time"
)

// Strategy defines how a directive applies to the failing child's siblings
type Strategy int

const (
	// OneForOneStrategy applies the directive to the failing child only
	OneForOneStrategy Strategy = iota
	// OneForAllStrategy applies the directive to every child of the supervisor
	OneForAllStrategy
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case OneForOneStrategy:
		return "OneForOne"
	case OneForAllStrategy:
		return "OneForAll"
	default:
		return ""
	}
}

// Directive is the decision taken for a failing actor
type Directive int

const (
	// StopDirective stops the failing actor
	StopDirective Directive = iota
	// ResumeDirective resumes the failing actor, keeping its state
	ResumeDirective
	// RestartDirective replaces the failing actor with a fresh instance
	RestartDirective
	// EscalateDirective reports the failure one level up
	EscalateDirective
)

// String returns the string representation of the directive
func (d Directive) String() string {
	switch d {
	case StopDirective:
		return "Stop"
	case ResumeDirective:
		return "Resume"
	case RestartDirective:
		return "Restart"
	case EscalateDirective:
		return "Escalate"
	default:
		return ""
	}
}

// Decider maps a failure reason to a directive
type Decider func(reason error) Directive

// DefaultDecider restarts on any failure
func DefaultDecider(error) Directive {
	return RestartDirective
}

// StoppingDecider stops on any failure
func StoppingDecider(error) Directive {
	return StopDirective
}

// Option configures a Supervisor
type Option func(*Supervisor)

// WithStrategy sets the supervisor strategy
func WithStrategy(strategy Strategy) Option {
	return func(s *Supervisor) {
		s.strategy = strategy
	}
}

// WithRetry bounds the number of restarts allowed within the given window.
// Once exceeded the failing actor is stopped. A zero maxRetries never stops.
func WithRetry(maxRetries uint32, within time.Duration) Option {
	return func(s *Supervisor) {
		s.maxRetries = maxRetries
		s.within = within
	}
}

// WithDirective maps the type of err to a directive. The failure chain is
// matched through errors.Unwrap, so panics wrapping err match as well.
func WithDirective(err error, directive Directive) Option {
	return func(s *Supervisor) {
		s.directives[errorType(err)] = directive
	}
}

// WithDecider sets the decider used when no directive rule matches
func WithDecider(decider Decider) Option {
	return func(s *Supervisor) {
		s.decider = decider
	}
}

// WithAnyErrorDirective uses the same directive for every failure
func WithAnyErrorDirective(directive Directive) Option {
	return WithDecider(func(error) Directive { return directive })
}

// DirectiveRule describes one error type to directive mapping
type DirectiveRule struct {
	ErrorType string
	Directive Directive
}

// Supervisor decides what happens to a failing actor
type Supervisor struct {
	mu         sync.RWMutex
	strategy   Strategy
	maxRetries uint32
	within     time.Duration
	directives map[string]Directive
	decider    Decider
}

// NewSupervisor creates a Supervisor. The defaults are OneForOne, restart on
// any failure, at most 10 restarts within 10 seconds.
func NewSupervisor(opts ...Option) *Supervisor {
	s := &Supervisor{
		strategy:   OneForOneStrategy,
		maxRetries: 10,
		within:     10 * time.Second,
		directives: make(map[string]Directive),
		decider:    DefaultDecider,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strategy returns the supervisor strategy
func (s *Supervisor) Strategy() Strategy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.strategy
}

// MaxRetries returns the number of restarts allowed within the window
func (s *Supervisor) MaxRetries() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxRetries
}

// Within returns the restart window
func (s *Supervisor) Within() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.within
}

// Decide returns the directive for the given failure reason
func (s *Supervisor) Decide(reason error) Directive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for err := reason; err != nil; err = errors.Unwrap(err) {
		if directive, ok := s.directives[errorType(err)]; ok {
			return directive
		}
	}
	return s.decider(reason)
}

// ShouldStop reports whether the failures recorded in stats exceed the
// retry budget.
func (s *Supervisor) ShouldStop(stats *RestartStatistics) bool {
	s.mu.RLock()
	maxRetries, within := s.maxRetries, s.within
	s.mu.RUnlock()

	if maxRetries == 0 {
		return false
	}

	if within <= 0 {
		return stats.FailureCount() > int(maxRetries)
	}
	return stats.NumberOfFailures(within) > int(maxRetries)
}

// Rules returns the configured directive rules
func (s *Supervisor) Rules() []DirectiveRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.directives) == 0 {
		return nil
	}

	rules := make([]DirectiveRule, 0, len(s.directives))
	for errorType, directive := range s.directives {
		rules = append(rules, DirectiveRule{ErrorType: errorType, Directive: directive})
	}
	return rules
}

func errorType(err error) string {
	if err == nil {
		return "nil"
	}
	rtype := reflect.TypeOf(err)
	if rtype.Kind() == reflect.Ptr {
		rtype = rtype.Elem()
	}
	return rtype.String()
}
