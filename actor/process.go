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
	"go.uber.org/atomic"

	"github.com/tochemey/protoakt/mailbox"
)

// Process is the delivery side of a PID. Local actors, remote actors,
// futures and the dead-letter sink are all processes.
type Process interface {
	// SendUserMessage delivers an application message
	SendUserMessage(pid *PID, message any)
	// SendSystemMessage delivers a lifecycle or supervision message
	SendSystemMessage(pid *PID, message SystemMessage)
	// Stop requests the process to stop
	Stop(pid *PID)
}

// actorProcess delivers into the mailbox of a local actor
type actorProcess struct {
	mailbox mailbox.Mailbox
	dead    *atomic.Bool
}

var _ Process = (*actorProcess)(nil)

func newActorProcess(mb mailbox.Mailbox) *actorProcess {
	return &actorProcess{
		mailbox: mb,
		dead:    atomic.NewBool(false),
	}
}

func (x *actorProcess) SendUserMessage(_ *PID, message any) {
	x.mailbox.PostUserMessage(message)
}

func (x *actorProcess) SendSystemMessage(_ *PID, message SystemMessage) {
	switch message.(type) {
	case *SuspendMailbox:
		x.mailbox.PostSystemMessage(mailbox.SuspendMailbox{})
	case *ResumeMailbox:
		x.mailbox.PostSystemMessage(mailbox.ResumeMailbox{})
	default:
		x.mailbox.PostSystemMessage(message)
	}
}

func (x *actorProcess) Stop(pid *PID) {
	x.SendSystemMessage(pid, stopMessage)
}
