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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travisjeffery/go-dynaport"

	"github.com/tochemey/protoakt/actor"
	"github.com/tochemey/protoakt/log"
)

const waitTimeout = 5 * time.Second

// order and receipt travel with the CBOR serializer
type order struct {
	ID    string `cbor:"id"`
	Items int    `cbor:"items"`
}

type receipt struct {
	OrderID string `cbor:"order_id"`
	Node    string `cbor:"node"`
}

// newTestRemote starts a system with remoting on a free loopback port
func newTestRemote(t *testing.T, name string, opts ...Option) *Remote {
	t.Helper()

	system, err := actor.NewActorSystem(name, actor.WithLogger(log.DiscardLogger))
	require.NoError(t, err)

	port := dynaport.Get(1)[0]
	opts = append([]Option{
		WithConnectRetries(2, 10*time.Millisecond, 50*time.Millisecond),
		WithDialTimeout(time.Second),
		WithEndpointTimeout(2 * time.Second),
	}, opts...)

	remote := New(system, NewConfig("127.0.0.1", port, opts...))
	remote.RegisterTypes(new(order), new(receipt))
	require.NoError(t, remote.Start(context.Background()))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, remote.Shutdown(ctx, true))
		assert.NoError(t, system.Shutdown(ctx))
	})
	return remote
}

// cashier answers every order with a receipt naming its system
func cashier() *actor.Props {
	return actor.PropsFromFunc(func(ctx actor.Context) {
		switch msg := ctx.Message().(type) {
		case *order:
			ctx.Respond(&receipt{OrderID: msg.ID, Node: ctx.ActorSystem().Name()})
		}
	})
}

// collector forwards the user messages it receives to events
func collector(events chan<- any) *actor.Props {
	return actor.PropsFromFunc(func(ctx actor.Context) {
		switch ctx.Message().(type) {
		case *actor.Started, *actor.Stopping, *actor.Stopped, *actor.Restarting:
		default:
			events <- ctx.Message()
		}
	})
}

func expect[T any](t *testing.T, events <-chan any) T {
	t.Helper()
	select {
	case event := <-events:
		value, ok := event.(T)
		require.Truef(t, ok, "unexpected event %#v", event)
		return value
	case <-time.After(waitTimeout):
		var zero T
		t.Fatalf("no %T received", zero)
		return zero
	}
}
