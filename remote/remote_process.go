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
	"google.golang.org/protobuf/proto"

	"github.com/tochemey/protoakt/actor"
)

// remoteProcess is the Process of every PID hosted by another system.
// It hands the traffic to the endpoint manager.
type remoteProcess struct {
	remote *Remote
}

var _ actor.Process = (*remoteProcess)(nil)

func (p *remoteProcess) SendUserMessage(pid *actor.PID, message any) {
	header, msg, sender := actor.UnwrapEnvelope(message)
	p.remote.send(pid, header, msg, sender, serializerIDOf(msg))
}

func (p *remoteProcess) SendSystemMessage(pid *actor.PID, message actor.SystemMessage) {
	manager := p.remote.endpointManager()
	switch msg := message.(type) {
	case *actor.Watch:
		if manager == nil {
			p.remote.system.DeadLetter().SendSystemMessage(pid, message)
			return
		}
		manager.remoteWatch(&RemoteWatch{Watcher: msg.Watcher, Watchee: pid})
	case *actor.Unwatch:
		if manager == nil {
			return
		}
		manager.remoteUnwatch(&RemoteUnwatch{Watcher: msg.Watcher, Watchee: pid})
	default:
		p.remote.send(pid, nil, message, nil, negotiatedSerializerID)
	}
}

func (p *remoteProcess) Stop(pid *actor.PID) {
	p.SendSystemMessage(pid, &actor.Stop{})
}

// serializerIDOf picks the protobuf serializer for protobuf messages and
// lets the writer use the negotiated one otherwise
func serializerIDOf(message any) int32 {
	if _, ok := message.(proto.Message); ok {
		return ProtoSerializerID
	}
	return negotiatedSerializerID
}
