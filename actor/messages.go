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
	"github.com/tochemey/protoakt/supervisor"
)

// SystemMessage is the closed set of messages travelling on the system
// queue of a mailbox
type SystemMessage interface {
	systemMessage()
}

// Started is delivered to an actor once it is ready, and again after every
// restart
type Started struct{}

// Stop requests an actor to stop
type Stop struct{}

// Restart requests an actor to restart
type Restart struct{}

// Watch registers Watcher to be told when the receiving actor terminates
type Watch struct {
	Watcher *PID `cbor:"watcher" json:"watcher"`
}

// Unwatch removes a Watch registration
type Unwatch struct {
	Watcher *PID `cbor:"watcher" json:"watcher"`
}

// Terminated tells watchers and the parent that Who stopped.
// AddressTerminated is set when the termination was inferred from the loss
// of the connection to the remote system hosting Who.
type Terminated struct {
	Who               *PID `cbor:"who" json:"who"`
	AddressTerminated bool `cbor:"address_terminated" json:"address_terminated"`
}

// Failure reports the failure of the child Who to its supervisor
type Failure struct {
	Who          *PID
	Reason       error
	RestartStats *supervisor.RestartStatistics
	Message      any
}

// SuspendMailbox halts the user message delivery of the receiving actor
type SuspendMailbox struct{}

// ResumeMailbox restores the user message delivery of the receiving actor
type ResumeMailbox struct{}

func (*Started) systemMessage()        {}
func (*Stop) systemMessage()           {}
func (*Restart) systemMessage()        {}
func (*Watch) systemMessage()          {}
func (*Unwatch) systemMessage()        {}
func (*Terminated) systemMessage()     {}
func (*Failure) systemMessage()        {}
func (*SuspendMailbox) systemMessage() {}
func (*ResumeMailbox) systemMessage()  {}

// Stopping is delivered to an actor when it begins to stop
type Stopping struct{}

// Stopped is the last message an actor receives
type Stopped struct{}

// Restarting is delivered to the instance about to be replaced
type Restarting struct{}

// PoisonPill is a user message that stops the receiving actor once the
// messages queued before it are processed
type PoisonPill struct{}

// ReceiveTimeout is delivered when no message arrived within the duration
// set with Context.SetReceiveTimeout
type ReceiveTimeout struct{}

// DeadLetterResponse answers a request whose target does not exist
type DeadLetterResponse struct {
	Target *PID `cbor:"target" json:"target"`
}

// NotInfluenceReceiveTimeout marks messages that do not reset the receive
// timeout of the actor handling them
type NotInfluenceReceiveTimeout interface {
	NotInfluenceReceiveTimeout()
}

func (*ReceiveTimeout) NotInfluenceReceiveTimeout() {}

var (
	startedMessage        = &Started{}
	stopMessage           = &Stop{}
	restartMessage        = &Restart{}
	suspendMailboxMessage = &SuspendMailbox{}
	resumeMailboxMessage  = &ResumeMailbox{}
	stoppingMessage       = &Stopping{}
	stoppedMessage        = &Stopped{}
	restartingMessage     = &Restarting{}
	receiveTimeoutMessage = &ReceiveTimeout{}
)
