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
	"strings"

	"go.uber.org/atomic"
)

// LocalAddress is the address of a system that does not accept remote traffic
const LocalAddress = "nonhost"

// PID identifies a process: the address of the system hosting it and its
// local id. Two PIDs are equal when both parts are equal.
// A PID caches the Process it resolved to.
type PID struct {
	Address string `cbor:"address" json:"address"`
	ID      string `cbor:"id" json:"id"`

	process atomic.Pointer[processHolder]
}

type processHolder struct {
	process Process
}

// NewPID creates a PID
func NewPID(address, id string) *PID {
	return &PID{Address: address, ID: id}
}

// String returns address/id
func (pid *PID) String() string {
	if pid == nil {
		return "nil"
	}
	return pid.Address + "/" + pid.ID
}

// Equal reports whether both PIDs identify the same process
func (pid *PID) Equal(other *PID) bool {
	if pid == nil || other == nil {
		return pid == other
	}
	return pid.Address == other.Address && pid.ID == other.ID
}

// ref resolves the process, preferring the cached one unless its actor died
func (pid *PID) ref(system *ActorSystem) Process {
	if holder := pid.process.Load(); holder != nil {
		if local, ok := holder.process.(*actorProcess); !ok || !local.dead.Load() {
			return holder.process
		}
		pid.process.Store(nil)
	}

	process := system.registry.Get(pid)
	if _, dead := process.(*deadLetterProcess); !dead {
		pid.process.Store(&processHolder{process})
	}
	return process
}

func (pid *PID) sendUserMessage(system *ActorSystem, message any) {
	pid.ref(system).SendUserMessage(pid, message)
}

func (pid *PID) sendSystemMessage(system *ActorSystem, message SystemMessage) {
	pid.ref(system).SendSystemMessage(pid, message)
}

// pidKey is the comparable identity of a PID, used in sets
type pidKey struct {
	address string
	id      string
}

func keyOf(pid *PID) pidKey {
	return pidKey{address: pid.Address, id: pid.ID}
}

func (k pidKey) pid() *PID {
	return NewPID(k.address, k.id)
}

// ParsePID parses the address/id form returned by PID.String
func ParsePID(value string) (*PID, bool) {
	address, id, ok := strings.Cut(value, "/")
	if !ok || address == "" || id == "" {
		return nil, false
	}
	return NewPID(address, id), true
}
