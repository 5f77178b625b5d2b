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
	"errors"
	"io"

	"connectrpc.com/connect"
	"go.uber.org/atomic"

	"github.com/tochemey/protoakt/actor"
)

// endpointReader serves the Remoting service: it accepts the sessions of
// remote writers and delivers their batches locally
type endpointReader struct {
	remote    *Remote
	suspended *atomic.Bool
	closed    chan struct{}
	closeOnce *atomic.Bool
}

var _ remotingHandler = (*endpointReader)(nil)

func newEndpointReader(remote *Remote) *endpointReader {
	return &endpointReader{
		remote:    remote,
		suspended: atomic.NewBool(false),
		closed:    make(chan struct{}),
		closeOnce: atomic.NewBool(false),
	}
}

// suspend stops the delivery of inbound messages and refuses new sessions
func (r *endpointReader) suspend() {
	r.suspended.Store(true)
}

// close ends the open streams
func (r *endpointReader) close() {
	if r.closeOnce.CompareAndSwap(false, true) {
		close(r.closed)
	}
}

// Connect opens a session
func (r *endpointReader) Connect(_ context.Context, _ *connect.Request[ConnectRequest]) (*connect.Response[ConnectResponse], error) {
	if r.suspended.Load() {
		return nil, connect.NewError(connect.CodeCanceled, errors.New("endpoint reader is suspended"))
	}

	return connect.NewResponse(&ConnectResponse{
		DefaultSerializerID: r.remote.serialization.DefaultSerializerID(),
	}), nil
}

// Receive delivers every inbound batch and acknowledges it. A suspended
// reader acknowledges without delivering.
func (r *endpointReader) Receive(ctx context.Context, stream *connect.BidiStream[MessageBatch, Unit]) error {
	stop := make(chan struct{})
	defer close(stop)

	batches := make(chan *MessageBatch)
	failures := make(chan error, 1)
	go func() {
		for {
			batch, err := stream.Receive()
			if err != nil {
				failures <- err
				return
			}
			select {
			case batches <- batch:
			case <-stop:
				return
			}
		}
	}()

	for {
		select {
		case <-r.closed:
			return nil
		case <-ctx.Done():
			return nil
		case err := <-failures:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case batch := <-batches:
			if !r.suspended.Load() {
				r.deliver(ctx, batch)
			}
			if err := stream.Send(&Unit{}); err != nil {
				return err
			}
		}
	}
}

func (r *endpointReader) deliver(ctx context.Context, batch *MessageBatch) {
	registry := r.remote.system.ProcessRegistry()
	messages, err := decodeBatch(r.remote.serialization, registry.Address(), batch)
	if err != nil {
		r.remote.logger.Warnf("some inbound messages could not be decoded: %v", err)
	}
	r.remote.metric.MessagesReceived(ctx, len(messages))

	for _, inbound := range messages {
		target := inbound.target
		switch msg := inbound.message.(type) {
		case *actor.Terminated:
			r.remote.manager.remoteTerminate(&RemoteTerminate{Watcher: target, Watchee: msg.Who})
		case *actor.Watch:
			registry.Get(target).SendSystemMessage(target, msg)
		case *actor.Unwatch:
			registry.Get(target).SendSystemMessage(target, msg)
		case *actor.Stop:
			registry.Get(target).SendSystemMessage(target, msg)
		default:
			message := inbound.message
			if inbound.sender != nil || inbound.header != nil {
				message = &actor.MessageEnvelope{
					Header:  inbound.header,
					Message: inbound.message,
					Sender:  inbound.sender,
				}
			}
			registry.Get(target).SendUserMessage(target, message)
		}
	}
}
