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

package remote

import (
	"fmt"

	"github.com/tochemey/protoakt/actor"
)

// EndpointConnectedEvent is published when a writer opened its stream to
// Address
type EndpointConnectedEvent struct {
	Address string
}

// EndpointTerminatedEvent is published when the connection to Address is
// lost or could not be established
type EndpointTerminatedEvent struct {
	Address string
}

// RemoteDeliver is a message queued on an endpoint writer
type RemoteDeliver struct {
	Header       actor.MessageHeader
	Message      any
	Target       *actor.PID
	Sender       *actor.PID
	SerializerID int32
}

// RemoteWatch asks the endpoint watcher to watch a remote Watchee on behalf
// of the local Watcher
type RemoteWatch struct {
	Watcher *actor.PID
	Watchee *actor.PID
}

// RemoteUnwatch cancels a RemoteWatch
type RemoteUnwatch struct {
	Watcher *actor.PID
	Watchee *actor.PID
}

// RemoteTerminate tells the endpoint watcher that the remote Watchee
// stopped
type RemoteTerminate struct {
	Watcher *actor.PID
	Watchee *actor.PID
}

// Endpoint pairs the watcher and the writer serving one remote address
type Endpoint struct {
	Watcher *actor.PID
	Writer  *actor.PID
}

// ActorPidRequest asks the activator of a remote system to spawn an actor
// of a known kind. An empty Name lets the remote system pick one.
type ActorPidRequest struct {
	Name string `cbor:"name"`
	Kind string `cbor:"kind"`
}

// ActorPidResponse answers an ActorPidRequest
type ActorPidResponse struct {
	Pid        *actor.PID         `cbor:"pid,omitempty"`
	StatusCode ResponseStatusCode `cbor:"status_code"`
}

// ResponseStatusCode is the outcome of a remote spawn
type ResponseStatusCode int32

const (
	ResponseStatusCodeOK ResponseStatusCode = iota
	ResponseStatusCodeUnavailable
	ResponseStatusCodeTimeout
	ResponseStatusCodeProcessNameAlreadyExist
	ResponseStatusCodeError
)

// String returns the name of the code
func (c ResponseStatusCode) String() string {
	switch c {
	case ResponseStatusCodeOK:
		return "OK"
	case ResponseStatusCodeUnavailable:
		return "Unavailable"
	case ResponseStatusCodeTimeout:
		return "Timeout"
	case ResponseStatusCodeProcessNameAlreadyExist:
		return "ProcessNameAlreadyExist"
	case ResponseStatusCodeError:
		return "Error"
	default:
		return fmt.Sprintf("ResponseStatusCode(%d)", int32(c))
	}
}

// Error turns a failed response into an error
func (c ResponseStatusCode) Error() error {
	if c == ResponseStatusCodeOK {
		return nil
	}
	return &SpawnError{Code: c}
}

// SpawnError is returned by Remote.SpawnNamed when the remote activator
// did not spawn the actor
type SpawnError struct {
	Code ResponseStatusCode
}

func (e *SpawnError) Error() string {
	return "remote spawn failed: " + e.Code.String()
}

// endpointRequest asks the endpoint supervisor for the endpoint of Address
type endpointRequest struct {
	Address string
}

// streamFailed is sent to a writer by its acknowledgement loop
type streamFailed struct {
	err error
}
