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
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"

	"github.com/tochemey/protoakt/actor"
	gerrors "github.com/tochemey/protoakt/errors"
	"github.com/tochemey/protoakt/eventstream"
)

const endpointSupervisorName = "EndpointSupervisor"

// endpointManager caches one Endpoint per remote address and routes the
// remote traffic to it
type endpointManager struct {
	remote *Remote
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	endpoints map[string]*Endpoint
	// pending holds the addresses whose endpoint is being created; the value
	// records a termination observed meanwhile
	pending map[string]bool
	group   singleflight.Group

	supervisor    *actor.PID
	subscriptions []*eventstream.Subscription
	// closing is set once the remote subsystem shuts down
	closing *atomic.Bool
	stopped *atomic.Bool
}

func newEndpointManager(remote *Remote) *endpointManager {
	ctx, cancel := context.WithCancel(remote.ctx)
	return &endpointManager{
		remote:    remote,
		ctx:       ctx,
		cancel:    cancel,
		endpoints: make(map[string]*Endpoint),
		pending:   make(map[string]bool),
		closing:   atomic.NewBool(false),
		stopped:   atomic.NewBool(false),
	}
}

func (m *endpointManager) start() error {
	system := m.remote.system
	props := actor.PropsFromProducer(
		func() actor.Actor { return newEndpointSupervisor(m) },
		actor.WithGuardian(actor.NewRestartingStrategy()),
		actor.WithSupervisor(actor.NewRestartingStrategy()),
	)

	pid, err := system.Root().SpawnNamed(props, endpointSupervisorName)
	if err != nil {
		return fmt.Errorf("failed to spawn the endpoint supervisor: %w", err)
	}
	m.supervisor = pid

	stream := system.EventStream()
	m.subscriptions = append(m.subscriptions,
		eventstream.SubscribeTo(stream, m.onEndpointConnected),
		eventstream.SubscribeTo(stream, m.onEndpointTerminated),
	)
	return nil
}

// drain poisons every cached writer, so the deliveries already queued are
// sent before it stops, and waits for the writers to stop
func (m *endpointManager) drain(ctx context.Context) error {
	m.closing.Store(true)

	m.mu.Lock()
	writers := make([]*actor.PID, 0, len(m.endpoints))
	for _, endpoint := range m.endpoints {
		writers = append(writers, endpoint.Writer)
	}
	m.mu.Unlock()

	root := m.remote.system.Root()
	futures := make([]*actor.Future, 0, len(writers))
	for _, writer := range writers {
		futures = append(futures, root.PoisonFuture(writer))
	}

	var err error
	for _, future := range futures {
		if _, ferr := future.ResultContext(ctx); ferr != nil {
			err = multierr.Append(err, ferr)
		}
	}
	return err
}

// stop releases every endpoint and waits for the endpoint supervisor to stop
func (m *endpointManager) stop() error {
	if !m.stopped.CompareAndSwap(false, true) {
		return nil
	}
	m.closing.Store(true)

	for _, subscription := range m.subscriptions {
		m.remote.system.EventStream().Unsubscribe(subscription)
	}

	// aborts the writers still dialing
	m.cancel()

	m.mu.Lock()
	clear(m.endpoints)
	m.mu.Unlock()

	if m.supervisor == nil {
		return nil
	}
	return m.remote.system.Root().StopFuture(m.supervisor).Wait()
}

func (m *endpointManager) onEndpointConnected(event *EndpointConnectedEvent) {
	m.mu.Lock()
	endpoint, ok := m.endpoints[event.Address]
	m.mu.Unlock()
	if ok {
		m.remote.system.Root().Send(endpoint.Watcher, event)
	}
}

func (m *endpointManager) onEndpointTerminated(event *EndpointTerminatedEvent) {
	m.mu.Lock()
	endpoint, ok := m.endpoints[event.Address]
	if ok {
		delete(m.endpoints, event.Address)
	} else if _, creating := m.pending[event.Address]; creating {
		m.pending[event.Address] = true
	}
	m.mu.Unlock()

	if ok {
		m.release(endpoint, event)
	}
}

func (m *endpointManager) release(endpoint *Endpoint, event *EndpointTerminatedEvent) {
	root := m.remote.system.Root()
	root.Send(endpoint.Watcher, event)
	root.Send(endpoint.Writer, event)
}

// endpoint returns the endpoint of address, creating it on first use.
// Concurrent first requests for one address share a single creation.
func (m *endpointManager) endpoint(address string) (*Endpoint, error) {
	if m.stopped.Load() {
		return nil, gerrors.ErrRemotingDisabled
	}

	m.mu.Lock()
	endpoint, ok := m.endpoints[address]
	m.mu.Unlock()
	if ok {
		return endpoint, nil
	}

	value, err, _ := m.group.Do(address, func() (any, error) {
		return m.createEndpoint(address)
	})
	if err != nil {
		return nil, err
	}
	return value.(*Endpoint), nil
}

func (m *endpointManager) createEndpoint(address string) (*Endpoint, error) {
	m.mu.Lock()
	if endpoint, ok := m.endpoints[address]; ok {
		m.mu.Unlock()
		return endpoint, nil
	}
	m.pending[address] = false
	m.mu.Unlock()

	timeout := m.remote.config.EndpointTimeout()
	result, err := m.remote.system.Root().
		RequestFuture(m.supervisor, &endpointRequest{Address: address}, timeout).
		Result()

	m.mu.Lock()
	defer m.mu.Unlock()
	terminated := m.pending[address]
	delete(m.pending, address)

	if err != nil {
		return nil, fmt.Errorf("failed to create the endpoint of %s: %w", address, err)
	}

	endpoint, ok := result.(*Endpoint)
	if !ok {
		return nil, fmt.Errorf("failed to create the endpoint of %s: %w", address, gerrors.ErrRemotingDisabled)
	}

	if terminated {
		m.release(endpoint, &EndpointTerminatedEvent{Address: address})
		return endpoint, nil
	}

	if !m.stopped.Load() {
		m.endpoints[address] = endpoint
	}
	return endpoint, nil
}

// cached returns the endpoint of address without creating it
func (m *endpointManager) cached(address string) (*Endpoint, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	endpoint, ok := m.endpoints[address]
	return endpoint, ok
}

func (m *endpointManager) remoteDeliver(deliver *RemoteDeliver) {
	endpoint, err := m.endpoint(deliver.Target.Address)
	if err != nil {
		m.remote.logger.Warnf("dropping %T to %s: %v", deliver.Message, deliver.Target, err)
		m.remote.deadLetter(deliver)
		return
	}
	m.remote.system.Root().Send(endpoint.Writer, deliver)
}

func (m *endpointManager) remoteWatch(watch *RemoteWatch) {
	m.toWatcher(watch.Watchee.Address, watch)
}

func (m *endpointManager) remoteUnwatch(unwatch *RemoteUnwatch) {
	m.toWatcher(unwatch.Watchee.Address, unwatch)
}

func (m *endpointManager) remoteTerminate(terminate *RemoteTerminate) {
	m.toWatcher(terminate.Watchee.Address, terminate)
}

func (m *endpointManager) toWatcher(address string, message any) {
	endpoint, err := m.endpoint(address)
	if err != nil {
		m.remote.logger.Warnf("dropping %T for %s: %v", message, address, err)
		return
	}
	m.remote.system.Root().Send(endpoint.Watcher, message)
}
