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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/protoakt/actor"
	gerrors "github.com/tochemey/protoakt/errors"
	"github.com/tochemey/protoakt/log"
	"github.com/tochemey/protoakt/mailbox"
)

func TestWriterBatching(t *testing.T) {
	system, err := actor.NewActorSystem("test", actor.WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, system.Shutdown(context.Background())) })

	serialization := NewSerialization(CBORSerializerID)
	serialization.RegisterTypes(new(order))

	release := make(chan struct{})
	batches := make(chan *MessageBatch, 2)
	props := actor.PropsFromFunc(func(ctx actor.Context) {
		switch msg := ctx.Message().(type) {
		case *actor.Started:
			<-release
		case []any:
			deliveries := make([]*RemoteDeliver, 0, len(msg))
			for _, message := range msg {
				deliveries = append(deliveries, message.(*RemoteDeliver))
			}
			batch, err := encodeBatch(serialization, deliveries, CBORSerializerID)
			if err == nil {
				batches <- batch
			}
		}
	},
		actor.WithMailbox(mailbox.Batching(3)),
		actor.WithDispatcher(mailbox.NewGoroutineDispatcher(3)),
	)

	pid := system.Root().Spawn(props)
	target := actor.NewPID("127.0.0.1:9000", "collector")
	for i := range 5 {
		system.Root().Send(pid, &RemoteDeliver{
			Target:       target,
			Message:      &order{ID: string(rune('a' + i))},
			SerializerID: negotiatedSerializerID,
		})
	}
	close(release)

	first := receiveBatch(t, batches)
	second := receiveBatch(t, batches)
	require.Len(t, first.Envelopes, 3)
	require.Len(t, second.Envelopes, 2)
	assert.Equal(t, []string{"collector"}, first.TargetNames)
	assert.Equal(t, []string{"remote.order"}, second.TypeNames)

	// per target order is preserved across batches
	messages, err := decodeBatch(serialization, "127.0.0.1:9000", second)
	require.NoError(t, err)
	assert.Equal(t, "d", messages[0].message.(*order).ID)
	assert.Equal(t, "e", messages[1].message.(*order).ID)
}

func receiveBatch(t *testing.T, batches <-chan *MessageBatch) *MessageBatch {
	t.Helper()
	select {
	case batch := <-batches:
		return batch
	case <-time.After(waitTimeout):
		t.Fatal("no batch received")
		return nil
	}
}

func TestEndpointWatcher(t *testing.T) {
	remote := newTestRemote(t, "test")
	system := remote.ActorSystem()
	const address = "127.0.0.1:1"

	events := make(chan any, 4)
	local, err := system.Root().SpawnNamed(collector(events), "local")
	require.NoError(t, err)
	watchee := actor.NewPID(address, "remote-actor")

	watcher := system.Root().Spawn(actor.PropsFromProducer(func() actor.Actor {
		return newEndpointWatcher(remote, address)
	}))

	// terminated behavior answers at once
	system.Root().Send(watcher, &EndpointTerminatedEvent{Address: address})
	system.Root().Send(watcher, &RemoteWatch{Watcher: local, Watchee: watchee})
	terminated := expect[*actor.Terminated](t, events)
	assert.True(t, terminated.Who.Equal(watchee))
	assert.True(t, terminated.AddressTerminated)

	// back to connected: a remote termination reaches the local watcher
	system.Root().Send(watcher, &EndpointConnectedEvent{Address: address})
	system.Root().Send(watcher, &RemoteTerminate{Watcher: local, Watchee: watchee})
	terminated = expect[*actor.Terminated](t, events)
	assert.False(t, terminated.AddressTerminated)
}

func TestActivationResponse(t *testing.T) {
	pid := actor.NewPID("127.0.0.1:9000", "worker")

	t.Run("With success", func(t *testing.T) {
		response, escalate := activationResponse(pid, nil)
		require.NoError(t, escalate)
		assert.Equal(t, ResponseStatusCodeOK, response.StatusCode)
		assert.Same(t, pid, response.Pid)
	})
	t.Run("With name collision", func(t *testing.T) {
		response, escalate := activationResponse(nil, &actor.NameExistsError{PID: pid})
		require.NoError(t, escalate)
		assert.Equal(t, ResponseStatusCodeProcessNameAlreadyExist, response.StatusCode)
		assert.Same(t, pid, response.Pid)
	})
	t.Run("With activator error", func(t *testing.T) {
		refusal := &ActivatorError{Code: ResponseStatusCodeUnavailable}
		response, escalate := activationResponse(nil, refusal)
		assert.Equal(t, ResponseStatusCodeUnavailable, response.StatusCode)
		assert.Same(t, refusal, escalate)

		response, escalate = activationResponse(nil, &ActivatorError{Code: ResponseStatusCodeTimeout, DoNotThrow: true})
		assert.Equal(t, ResponseStatusCodeTimeout, response.StatusCode)
		assert.NoError(t, escalate)
	})
	t.Run("With any other error", func(t *testing.T) {
		boom := errors.New("boom")
		response, escalate := activationResponse(nil, boom)
		assert.Equal(t, ResponseStatusCodeError, response.StatusCode)
		assert.Same(t, boom, escalate)
	})
}

func TestResponseStatusCode(t *testing.T) {
	assert.Equal(t, "OK", ResponseStatusCodeOK.String())
	assert.Equal(t, "ProcessNameAlreadyExist", ResponseStatusCodeProcessNameAlreadyExist.String())
	assert.Equal(t, "ResponseStatusCode(42)", ResponseStatusCode(42).String())
	assert.NoError(t, ResponseStatusCodeOK.Error())

	var spawnErr *SpawnError
	require.ErrorAs(t, ResponseStatusCodeTimeout.Error(), &spawnErr)
	assert.Equal(t, ResponseStatusCodeTimeout, spawnErr.Code)
}

func TestRemoteSpawn(t *testing.T) {
	client := newTestRemote(t, "client")
	server := newTestRemote(t, "server")
	server.RegisterKnownKind("cashier", cashier())
	server.RegisterKnownKind("refusing", actor.PropsFromProducer(func() actor.Actor {
		panic(&ActivatorError{Code: ResponseStatusCodeUnavailable, DoNotThrow: true})
	}))
	assert.Equal(t, []string{"cashier", "refusing"}, server.KnownKinds())

	ctx := context.Background()

	response, err := client.SpawnNamed(ctx, server.Address(), "till-1", "cashier", waitTimeout)
	require.NoError(t, err)
	require.Equal(t, ResponseStatusCodeOK, response.StatusCode)
	assert.Equal(t, actor.NewPID(server.Address(), "till-1").String(), response.Pid.String())

	result, err := client.ActorSystem().Root().RequestFuture(response.Pid, &order{ID: "spawned"}, waitTimeout).Result()
	require.NoError(t, err)
	assert.Equal(t, &receipt{OrderID: "spawned", Node: "server"}, result)

	response, err = client.SpawnNamed(ctx, server.Address(), "till-1", "cashier", waitTimeout)
	require.NoError(t, err)
	assert.Equal(t, ResponseStatusCodeProcessNameAlreadyExist, response.StatusCode)

	response, err = client.Spawn(ctx, server.Address(), "cashier", waitTimeout)
	require.NoError(t, err)
	require.Equal(t, ResponseStatusCodeOK, response.StatusCode)
	assert.NotEmpty(t, response.Pid.ID)

	response, err = client.Spawn(ctx, server.Address(), "refusing", waitTimeout)
	require.NoError(t, err)
	assert.Equal(t, ResponseStatusCodeUnavailable, response.StatusCode)

	// an unknown kind escalates, the activator is restarted and keeps serving
	response, err = client.Spawn(ctx, server.Address(), "unknown", waitTimeout)
	require.NoError(t, err)
	assert.Equal(t, ResponseStatusCodeError, response.StatusCode)

	response, err = client.SpawnNamed(ctx, server.Address(), "till-2", "cashier", waitTimeout)
	require.NoError(t, err)
	assert.Equal(t, ResponseStatusCodeOK, response.StatusCode)

	_, err = client.Spawn(ctx, "not-an-address", "cashier", waitTimeout)
	assert.ErrorIs(t, err, gerrors.ErrInvalidAddress)

	_, err = client.Spawn(ctx, server.Address(), "cashier", 0)
	assert.ErrorIs(t, err, gerrors.ErrInvalidTimeout)
}
