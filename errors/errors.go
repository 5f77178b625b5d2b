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

package errors

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrDeadLetter is reported when a message reached the dead-letter sink.
	ErrDeadLetter = errors.New("message sent to a dead letter")
	// ErrTimeout indicates that a request did not receive its response in time.
	ErrTimeout = errors.New("request timed out")
	// ErrInvalidTimeout is returned when a request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid request timeout")
	// ErrSystemStopped is returned when an operation targets a stopped actor system.
	ErrSystemStopped = errors.New("actor system is stopped")
	// ErrUndefinedProducer is returned when props carry no actor producer.
	ErrUndefinedProducer = errors.New("actor producer is not defined")
	// ErrRemotingDisabled is returned when remoting is used before it is started.
	ErrRemotingDisabled = errors.New("remoting is not enabled")
	// ErrRemotingStarted is returned when remoting is started twice.
	ErrRemotingStarted = errors.New("remoting is already started")
	// ErrUnknownKind is returned when a spawn request names an unregistered kind.
	ErrUnknownKind = errors.New("unknown actor kind")
	// ErrSerializerNotFound is returned when no serializer is registered for an id.
	ErrSerializerNotFound = errors.New("serializer not found")
	// ErrTypeNotRegistered is returned when a type name has no registered Go type.
	ErrTypeNotRegistered = errors.New("message type is not registered")
	// ErrInvalidMessage is returned when a message cannot be handled by a serializer.
	ErrInvalidMessage = errors.New("invalid message")
	// ErrInvalidAddress is returned when a remote address is not host:port.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidBatch is returned when an inbound batch references unknown indices.
	ErrInvalidBatch = errors.New("invalid message batch")
	// ErrInvalidActorSystemName is returned when an actor system name is empty or malformed.
	ErrInvalidActorSystemName = errors.New("invalid actor system name")
	// ErrEndpointSuspended is returned when the endpoint reader rejects a connection.
	ErrEndpointSuspended = errors.New("endpoint reader is suspended")
)

// frames between Recovered and the panicking function:
// Recovered, the deferred function and runtime.gopanic
const panicSiteSkip = 3

// PanicError wraps a value recovered from a panic
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

// Unwrap returns the underlying error
func (e *PanicError) Unwrap() error {
	return e.err
}

// Recovered converts the value returned by recover() into a PanicError
// enriched with the location of the panic. It must be called directly from
// the deferred function that recovered. A PanicError value is returned unchanged.
func Recovered(r any) error {
	if err, ok := r.(error); ok {
		var pe *PanicError
		if errors.As(err, &pe) {
			return pe
		}
		pc, fn, line, _ := runtime.Caller(panicSiteSkip)
		return NewPanicError(fmt.Errorf("%w at %s[%s:%d]", err, runtime.FuncForPC(pc).Name(), fn, line))
	}

	pc, fn, line, _ := runtime.Caller(panicSiteSkip)
	return NewPanicError(fmt.Errorf("%#v at %s[%s:%d]", r, runtime.FuncForPC(pc).Name(), fn, line))
}
