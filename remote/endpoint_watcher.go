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
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/protoakt/actor"
	"github.com/tochemey/protoakt/log"
)

// watchRegistration lists the remote processes a local watcher watches
type watchRegistration struct {
	watcher  *actor.PID
	watchees mapset.Set[string]
}

// endpointWatcher keeps the watches local actors hold on processes of one
// remote address, and turns the loss of that address into Terminated
// messages
type endpointWatcher struct {
	remote  *Remote
	address string
	logger  log.Logger
	// keyed by the id of the local watcher; watchees are ids on address
	watched map[string]*watchRegistration
}

var _ actor.Actor = (*endpointWatcher)(nil)

func newEndpointWatcher(remote *Remote, address string) *endpointWatcher {
	return &endpointWatcher{
		remote:  remote,
		address: address,
		logger:  remote.logger.With("endpoint", address),
		watched: make(map[string]*watchRegistration),
	}
}

func (w *endpointWatcher) Receive(ctx actor.Context) {
	w.connected(ctx)
}

func (w *endpointWatcher) connected(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *RemoteWatch:
		registration, ok := w.watched[msg.Watcher.ID]
		if !ok {
			registration = &watchRegistration{watcher: msg.Watcher, watchees: mapset.NewThreadUnsafeSet[string]()}
			w.watched[msg.Watcher.ID] = registration
		}
		registration.watchees.Add(msg.Watchee.ID)
		w.remote.SendMessage(msg.Watchee, &actor.Watch{Watcher: msg.Watcher}, negotiatedSerializerID)

	case *RemoteUnwatch:
		w.forget(msg.Watcher, msg.Watchee)
		w.remote.SendMessage(msg.Watchee, &actor.Unwatch{Watcher: msg.Watcher}, negotiatedSerializerID)

	case *RemoteTerminate:
		w.forget(msg.Watcher, msg.Watchee)
		w.notify(msg.Watcher, &actor.Terminated{Who: msg.Watchee})

	case *EndpointTerminatedEvent:
		w.logger.Infof("endpoint %s terminated, notifying %d watchers", w.address, len(w.watched))
		registry := w.remote.system.ProcessRegistry()
		for id, registration := range w.watched {
			if _, alive := registry.GetLocal(id); !alive {
				continue
			}
			for _, watchee := range registration.watchees.ToSlice() {
				w.notify(registration.watcher, &actor.Terminated{
					Who:               actor.NewPID(w.address, watchee),
					AddressTerminated: true,
				})
			}
		}
		clear(w.watched)
		ctx.Become(w.terminated)
	}
}

func (w *endpointWatcher) terminated(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *RemoteWatch:
		// the address is gone, answer at once
		w.notify(msg.Watcher, &actor.Terminated{Who: msg.Watchee, AddressTerminated: true})
	case *EndpointConnectedEvent:
		w.logger.Infof("endpoint %s reconnected", w.address)
		ctx.Become(w.connected)
	}
}

func (w *endpointWatcher) forget(watcher, watchee *actor.PID) {
	registration, ok := w.watched[watcher.ID]
	if !ok {
		return
	}
	registration.watchees.Remove(watchee.ID)
	if registration.watchees.Cardinality() == 0 {
		delete(w.watched, watcher.ID)
	}
}

func (w *endpointWatcher) notify(watcher *actor.PID, terminated *actor.Terminated) {
	w.remote.system.ProcessRegistry().Get(watcher).SendSystemMessage(watcher, terminated)
}
