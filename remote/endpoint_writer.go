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
	"time"

	"connectrpc.com/connect"
	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"

	"github.com/tochemey/protoakt/actor"
	"github.com/tochemey/protoakt/log"
)

// endpointWriter owns the outbound stream to one remote address. Its
// batching mailbox hands it the queued deliveries in slices of at most the
// configured batch size; each slice becomes one MessageBatch.
type endpointWriter struct {
	manager *endpointManager
	remote  *Remote
	address string
	logger  log.Logger

	serializerID int32
	stream       *connect.BidiStreamForClient[MessageBatch, Unit]
	cancel       context.CancelFunc
	acks         chan struct{}
	closing      *atomic.Bool
	connected    bool
	terminated   bool
}

var _ actor.Actor = (*endpointWriter)(nil)

func newEndpointWriter(manager *endpointManager, address string) *endpointWriter {
	return &endpointWriter{
		manager: manager,
		remote:  manager.remote,
		address: address,
		logger:  manager.remote.logger.With("endpoint", address),
		closing: atomic.NewBool(false),
	}
}

func (w *endpointWriter) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		w.initialize(ctx)
	case *actor.Stopped:
		w.closeStream()
		w.stopped(ctx)
	case *actor.Restarting:
		w.closeStream()
		w.disconnected()
	case []any:
		w.handleBatch(ctx, msg)
	default:
		w.handle(ctx, msg)
	}
}

func (w *endpointWriter) initialize(ctx actor.Context) {
	retrier := retry.NewRetrier(w.remote.config.connectRetries, w.remote.config.connectMinBackoff, w.remote.config.connectMaxBackoff)
	if err := retrier.RunContext(w.manager.ctx, func(rctx context.Context) error {
		return w.connect(rctx, ctx.Self())
	}); err != nil {
		w.logger.Errorf("failed to connect to %s: %v", w.address, err)
		w.terminate(ctx)
		return
	}

	w.logger.Debugf("connected to %s", w.address)
	w.connected = true
	w.remote.metric.EndpointConnected(w.manager.ctx, w.address)
	ctx.ActorSystem().EventStream().Publish(&EndpointConnectedEvent{Address: w.address})
}

func (w *endpointWriter) connect(ctx context.Context, self *actor.PID) error {
	client, err := w.remote.newRemotingClient(w.address)
	if err != nil {
		return retry.Stop(err)
	}

	dialCtx, cancelDial := context.WithTimeout(ctx, w.remote.config.DialTimeout())
	response, err := client.Connect(dialCtx)
	cancelDial()
	if err != nil {
		if connect.CodeOf(err) == connect.CodeCanceled && ctx.Err() == nil {
			// the remote system is shutting down
			return retry.Stop(err)
		}
		return err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	stream := client.Receive(streamCtx)
	// opens the stream without sending a batch
	if err := stream.Send(nil); err != nil {
		cancel()
		_ = stream.CloseResponse()
		return err
	}

	w.serializerID = response.DefaultSerializerID
	w.stream = stream
	w.cancel = cancel
	w.acks = make(chan struct{})
	go w.readAcks(self, stream, w.acks)
	return nil
}

// readAcks drains the acknowledgements of the remote reader. The writer is
// told when the stream fails unless it closed the stream itself.
func (w *endpointWriter) readAcks(self *actor.PID, stream *connect.BidiStreamForClient[MessageBatch, Unit], done chan struct{}) {
	defer close(done)
	for {
		if _, err := stream.Receive(); err != nil {
			if !w.closing.Load() {
				w.remote.system.Root().Send(self, &streamFailed{err: err})
			}
			return
		}
	}
}

// handleBatch sends the deliveries of messages. Deliveries queued ahead of
// any other message are sent before it is handled.
func (w *endpointWriter) handleBatch(ctx actor.Context, messages []any) {
	deliveries := make([]*RemoteDeliver, 0, len(messages))
	for _, message := range messages {
		switch msg := actor.UnwrapEnvelopeMessage(message).(type) {
		case *RemoteDeliver:
			deliveries = append(deliveries, msg)
		default:
			w.send(ctx, deliveries)
			deliveries = deliveries[:0]
			w.handle(ctx, msg)
		}
	}
	w.send(ctx, deliveries)
}

func (w *endpointWriter) handle(ctx actor.Context, message any) {
	switch msg := message.(type) {
	case *RemoteDeliver:
		w.send(ctx, []*RemoteDeliver{msg})
	case *actor.PoisonPill:
		ctx.Stop(ctx.Self())
	case *EndpointTerminatedEvent:
		// the termination is already known
		w.terminated = true
		ctx.Stop(ctx.Self())
	case *streamFailed:
		w.logger.Warnf("stream to %s failed: %v", w.address, msg.err)
		w.terminate(ctx)
	}
}

func (w *endpointWriter) send(ctx actor.Context, deliveries []*RemoteDeliver) {
	if len(deliveries) == 0 {
		return
	}

	if w.stream == nil || w.terminated {
		for _, deliver := range deliveries {
			w.remote.deadLetter(deliver)
		}
		return
	}

	batch, err := encodeBatch(w.remote.serialization, deliveries, w.serializerID)
	if err != nil {
		w.logger.Warnf("some messages to %s could not be serialized: %v", w.address, err)
	}

	if len(batch.Envelopes) == 0 {
		return
	}

	if err := w.stream.Send(batch); err != nil {
		w.logger.Errorf("failed to send a batch of %d messages to %s: %v", len(batch.Envelopes), w.address, err)
		w.remote.metric.SendFailed(w.manager.ctx, w.address)
		w.terminate(ctx)
		return
	}
	w.remote.metric.BatchSent(w.manager.ctx, w.address, len(batch.Envelopes))
}

// closeStream half-closes the stream and waits, at most the write timeout,
// for the remote reader to acknowledge the batches in flight and end the
// stream
func (w *endpointWriter) closeStream() {
	if w.stream == nil {
		return
	}

	w.closing.Store(true)
	_ = w.stream.CloseRequest()

	timer := time.NewTimer(w.remote.config.WriteTimeout())
	select {
	case <-w.acks:
	case <-w.manager.ctx.Done():
	case <-timer.C:
		w.logger.Warnf("%s did not acknowledge the pending batches in time", w.address)
	}
	timer.Stop()

	w.cancel()
	<-w.acks
	_ = w.stream.CloseResponse()
	w.stream = nil
}

// terminate publishes the loss of the endpoint, once
func (w *endpointWriter) terminate(ctx actor.Context) {
	if w.terminated {
		return
	}
	w.terminated = true
	w.disconnected()
	ctx.ActorSystem().EventStream().Publish(&EndpointTerminatedEvent{Address: w.address})
}

// stopped publishes the loss of the endpoint unless the writer stops with
// the remote subsystem. A writer stopped by its supervisor thus releases the
// cached endpoint, and the next delivery creates a new one.
func (w *endpointWriter) stopped(ctx actor.Context) {
	if w.manager.closing.Load() {
		w.disconnected()
		return
	}
	w.terminate(ctx)
}

func (w *endpointWriter) disconnected() {
	if !w.connected {
		return
	}
	w.connected = false
	w.remote.metric.EndpointTerminated(w.manager.ctx, w.address)
}
