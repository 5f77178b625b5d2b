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

// Package remote connects actor systems over the network. Messages to a
// PID hosted by another system are batched per remote address by an
// endpoint writer and shipped over a Connect bidi stream; the endpoint
// reader of the receiving system delivers them locally.
package remote

import (
	"context"
	"fmt"
	"net"
	nethttp "net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/protoakt/actor"
	gerrors "github.com/tochemey/protoakt/errors"
	"github.com/tochemey/protoakt/internal/chain"
	"github.com/tochemey/protoakt/internal/http"
	"github.com/tochemey/protoakt/internal/tcp"
	"github.com/tochemey/protoakt/log"
	"github.com/tochemey/protoakt/metric"
)

// Remote enables an actor system to exchange messages with other systems.
// Create it with New, then Start it; PIDs of other addresses resolve to it
// while it runs.
type Remote struct {
	system        *actor.ActorSystem
	config        *Config
	logger        log.Logger
	serialization *Serialization
	process       *remoteProcess

	kmu   sync.RWMutex
	kinds map[string]*actor.Props

	mu         sync.Mutex
	started    *atomic.Bool
	ctx        context.Context
	cancel     context.CancelFunc
	server     *http.Server
	serving    *errgroup.Group
	httpClient *nethttp.Client
	reader     *endpointReader
	manager    *endpointManager
	activator  *actor.PID
	metric     *metric.RemoteMetric
}

// New creates the remote subsystem of system. A nil config uses
// DefaultConfig.
func New(system *actor.ActorSystem, config *Config) *Remote {
	if config == nil {
		config = DefaultConfig()
	}

	remote := &Remote{
		system:        system,
		config:        config,
		logger:        system.Logger(),
		serialization: NewSerialization(config.SerializerID()),
		kinds:         make(map[string]*actor.Props),
		started:       atomic.NewBool(false),
	}
	remote.process = &remoteProcess{remote: remote}

	system.ProcessRegistry().RegisterAddressResolver(func(*actor.PID) (actor.Process, bool) {
		if !remote.started.Load() {
			return nil, false
		}
		return remote.process, true
	})
	return remote
}

// Start binds the server, starts the endpoint manager and the activator
func (r *Remote) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started.Load() {
		return gerrors.ErrRemotingStarted
	}
	if r.system.Stopped() {
		return gerrors.ErrSystemStopped
	}

	r.ctx, r.cancel = context.WithCancel(context.WithoutCancel(ctx))
	if err := chain.New(chain.WithFailFast()).
		AddRunner(r.config.Validate).
		AddRunner(r.config.Sanitize).
		AddRunner(r.setupMetric).
		AddStep(r.setupServer).
		AddRunner(r.startEndpointManager).
		AddRunner(r.spawnActivator).
		Run(ctx); err != nil {
		r.abort()
		return err
	}

	r.started.Store(true)
	r.serving = new(errgroup.Group)
	r.serving.Go(r.server.Serve)

	r.logger.Infof("remoting started on %s", r.Address())
	return nil
}

// Shutdown stops the remote subsystem. A graceful shutdown lets every
// endpoint send the messages already queued, then stops the endpoints, the
// reader and the activator before draining the server; otherwise the server
// is closed at once and queued messages are dropped.
func (r *Remote) Shutdown(ctx context.Context, graceful bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started.Load() {
		return nil
	}
	r.started.Store(false)

	var err error
	if graceful {
		err = multierr.Combine(
			r.manager.drain(ctx),
			r.manager.stop(),
			r.suspendReader(),
			r.stopActivator(ctx),
			r.server.Shutdown(ctx),
		)
	} else {
		r.reader.suspend()
		r.reader.close()
		r.manager.closing.Store(true)
		r.manager.cancel()
		err = multierr.Combine(
			r.server.Close(),
			r.manager.stop(),
		)
	}

	err = multierr.Append(err, r.serving.Wait())
	r.cancel()
	r.httpClient.CloseIdleConnections()

	r.logger.Infof("remoting stopped on %s", r.Address())
	return err
}

// Started reports whether the remote subsystem runs
func (r *Remote) Started() bool {
	return r.started.Load()
}

// Address returns the address advertised to other systems
func (r *Remote) Address() string {
	return net.JoinHostPort(r.config.AdvertisedHost(), strconv.Itoa(r.config.AdvertisedPort()))
}

// ActorSystem returns the actor system the remote belongs to
func (r *Remote) ActorSystem() *actor.ActorSystem {
	return r.system
}

// Config returns the configuration
func (r *Remote) Config() *Config {
	return r.config
}

// Serialization returns the serializers of the remote subsystem
func (r *Remote) Serialization() *Serialization {
	return r.serialization
}

// RegisterTypes makes the types of values transportable with the CBOR
// serializer. Both ends must register a type.
func (r *Remote) RegisterTypes(values ...any) {
	r.serialization.RegisterTypes(values...)
}

// RegisterKnownKind lets remote systems spawn actors of kind with props
func (r *Remote) RegisterKnownKind(kind string, props *actor.Props) {
	r.kmu.Lock()
	r.kinds[kind] = props
	r.kmu.Unlock()
}

// KnownKinds returns the registered kinds, sorted
func (r *Remote) KnownKinds() []string {
	r.kmu.RLock()
	kinds := make([]string, 0, len(r.kinds))
	for kind := range r.kinds {
		kinds = append(kinds, kind)
	}
	r.kmu.RUnlock()
	slices.Sort(kinds)
	return kinds
}

func (r *Remote) kind(kind string) (*actor.Props, bool) {
	r.kmu.RLock()
	defer r.kmu.RUnlock()
	props, ok := r.kinds[kind]
	return props, ok
}

// ActivatorForAddress returns the PID of the activator of the system at
// address
func ActivatorForAddress(address string) *actor.PID {
	return actor.NewPID(address, activatorName)
}

// SpawnNamed asks the system at address to spawn an actor of kind under
// name. An empty name lets the remote system pick one.
func (r *Remote) SpawnNamed(ctx context.Context, address, name, kind string, timeout time.Duration) (*ActorPidResponse, error) {
	if !r.started.Load() {
		return nil, gerrors.ErrRemotingDisabled
	}
	if timeout <= 0 {
		return nil, gerrors.ErrInvalidTimeout
	}
	if _, _, err := tcp.SplitAddress(address); err != nil {
		return nil, fmt.Errorf("%w: %v", gerrors.ErrInvalidAddress, err)
	}

	future := r.system.Root().RequestFuture(ActivatorForAddress(address), &ActorPidRequest{Name: name, Kind: kind}, timeout)
	result, err := future.ResultContext(ctx)
	if err != nil {
		return nil, err
	}

	switch response := result.(type) {
	case *ActorPidResponse:
		return response, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %T", gerrors.ErrInvalidMessage, result)
	}
}

// Spawn asks the system at address to spawn an actor of kind
func (r *Remote) Spawn(ctx context.Context, address, kind string, timeout time.Duration) (*ActorPidResponse, error) {
	return r.SpawnNamed(ctx, address, "", kind, timeout)
}

// SendMessage sends message to the remote pid with the serializer of
// serializerID. A sender or a header travels when message is an
// actor.MessageEnvelope.
func (r *Remote) SendMessage(pid *actor.PID, message any, serializerID int32) {
	header, msg, sender := actor.UnwrapEnvelope(message)
	r.send(pid, header, msg, sender, serializerID)
}

func (r *Remote) send(pid *actor.PID, header actor.MessageHeader, message any, sender *actor.PID, serializerID int32) {
	deliver := &RemoteDeliver{
		Header:       header,
		Message:      message,
		Target:       pid,
		Sender:       sender,
		SerializerID: serializerID,
	}

	manager := r.endpointManager()
	if manager == nil {
		r.deadLetter(deliver)
		return
	}
	manager.remoteDeliver(deliver)
}

// deadLetter hands an undeliverable message to the local dead-letter process
func (r *Remote) deadLetter(deliver *RemoteDeliver) {
	var message any = deliver.Message
	if deliver.Sender != nil || deliver.Header != nil {
		message = &actor.MessageEnvelope{Header: deliver.Header, Message: deliver.Message, Sender: deliver.Sender}
	}

	if system, ok := deliver.Message.(actor.SystemMessage); ok && deliver.Sender == nil {
		r.system.DeadLetter().SendSystemMessage(deliver.Target, system)
		return
	}
	r.system.DeadLetter().SendUserMessage(deliver.Target, message)
}

func (r *Remote) endpointManager() *endpointManager {
	if !r.started.Load() {
		return nil
	}
	return r.manager
}

func (r *Remote) newRemotingClient(address string) (*remotingClient, error) {
	host, port, err := tcp.SplitAddress(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gerrors.ErrInvalidAddress, err)
	}
	secure := r.config.TLSInfo() != nil
	return newRemotingClient(r.httpClient, http.URL(host, port, secure), r.config.Compression()), nil
}

func (r *Remote) setupMetric() error {
	meter := r.config.Meter()
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("protoakt/remote")
	}

	remoteMetric, err := metric.NewRemoteMetric(meter)
	if err != nil {
		return err
	}
	r.metric = remoteMetric
	return nil
}

func (r *Remote) setupServer(ctx context.Context) error {
	serverConfig := http.ServerConfig{
		Host:            r.config.Host(),
		Port:            r.config.Port(),
		MaxFrameSize:    r.config.MaxFrameSize(),
		IdleTimeout:     r.config.IdleTimeout(),
		WriteTimeout:    r.config.WriteTimeout(),
		ReadIdleTimeout: r.config.ReadIdleTimeout(),
	}
	clientConfig := http.ClientConfig{
		MaxReadFrameSize: r.config.MaxFrameSize(),
		DialTimeout:      r.config.DialTimeout(),
		KeepAlive:        r.config.KeepAlive(),
		ReadIdleTimeout:  r.config.ReadIdleTimeout(),
	}

	if info := r.config.TLSInfo(); info != nil {
		info = info.WithHTTP2()
		serverConfig.TLS = info.ServerConfig
		clientConfig.TLS = info.ClientConfig
	}

	r.reader = newEndpointReader(r)
	server, err := http.NewServer(ctx, serverConfig, newRemotingServiceHandler(r.reader))
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", r.config.bindAddress(), err)
	}

	r.server = server
	r.httpClient = http.NewClient(clientConfig)
	r.config.port = server.Port()
	r.system.ProcessRegistry().SetAddress(r.Address())
	return nil
}

func (r *Remote) startEndpointManager() error {
	r.manager = newEndpointManager(r)
	return r.manager.start()
}

func (r *Remote) spawnActivator() error {
	props := actor.PropsFromProducer(
		func() actor.Actor { return newActivator(r) },
		actor.WithGuardian(actor.NewRestartingStrategy()),
	)

	pid, err := r.system.Root().SpawnNamed(props, activatorName)
	if err != nil {
		return fmt.Errorf("failed to spawn the activator: %w", err)
	}
	r.activator = pid
	return nil
}

func (r *Remote) suspendReader() error {
	r.reader.suspend()
	r.reader.close()
	return nil
}

func (r *Remote) stopActivator(ctx context.Context) error {
	if r.activator == nil {
		return nil
	}
	_, err := r.system.Root().StopFuture(r.activator).ResultContext(ctx)
	return err
}

// abort releases what a failed Start acquired
func (r *Remote) abort() {
	if r.manager != nil {
		_ = r.manager.stop()
		r.manager = nil
	}
	if r.activator != nil {
		_ = r.system.Root().StopFuture(r.activator).Wait()
		r.activator = nil
	}
	if r.server != nil {
		_ = r.server.Close()
		r.server = nil
	}
	if r.httpClient != nil {
		r.httpClient.CloseIdleConnections()
	}
	r.cancel()
}
