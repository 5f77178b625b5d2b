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
	"github.com/tochemey/protoakt/actor"
	"github.com/tochemey/protoakt/mailbox"
)

// endpointSupervisor spawns the watcher and the writer of every endpoint.
// Its children are restarted when they fail.
type endpointSupervisor struct {
	manager  *endpointManager
	watchers map[string]*actor.PID
}

var _ actor.Actor = (*endpointSupervisor)(nil)

func newEndpointSupervisor(manager *endpointManager) *endpointSupervisor {
	return &endpointSupervisor{
		manager:  manager,
		watchers: make(map[string]*actor.PID),
	}
}

func (s *endpointSupervisor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *endpointRequest:
		// the watcher of a terminated endpoint is kept until it is replaced
		if stale, ok := s.watchers[msg.Address]; ok {
			ctx.Poison(stale)
		}

		endpoint := &Endpoint{
			Watcher: s.spawnWatcher(ctx, msg.Address),
			Writer:  s.spawnWriter(ctx, msg.Address),
		}
		s.watchers[msg.Address] = endpoint.Watcher
		ctx.Respond(endpoint)
	case *actor.Terminated:
		for address, watcher := range s.watchers {
			if watcher.Equal(msg.Who) {
				delete(s.watchers, address)
			}
		}
	}
}

func (s *endpointSupervisor) spawnWatcher(ctx actor.Context, address string) *actor.PID {
	props := actor.PropsFromProducer(func() actor.Actor {
		return newEndpointWatcher(s.manager.remote, address)
	})
	return ctx.SpawnPrefix(props, "endpoint-watcher-")
}

func (s *endpointSupervisor) spawnWriter(ctx actor.Context, address string) *actor.PID {
	batchSize := s.manager.remote.config.BatchSize()
	props := actor.PropsFromProducer(
		func() actor.Actor { return newEndpointWriter(s.manager, address) },
		actor.WithMailbox(mailbox.Batching(batchSize)),
		actor.WithDispatcher(mailbox.NewGoroutineDispatcher(batchSize)),
	)
	return ctx.SpawnPrefix(props, "endpoint-writer-")
}
