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

package actor

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/protoakt/errors"
	"github.com/tochemey/protoakt/eventstream"
	"github.com/tochemey/protoakt/log"
	"github.com/tochemey/protoakt/mailbox"
)

func TestActorSystem(t *testing.T) {
	t.Run("With an invalid name", func(t *testing.T) {
		_, err := NewActorSystem("")
		require.Error(t, err)

		_, err = NewActorSystem("-system")
		assert.ErrorIs(t, err, gerrors.ErrInvalidActorSystemName)
	})
	t.Run("With spawn after shutdown", func(t *testing.T) {
		system, err := NewActorSystem("stopped", WithAddress("127.0.0.1:0"))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:0", system.Address())
		require.NoError(t, system.Shutdown(t.Context()))
		require.NoError(t, system.Shutdown(t.Context()))
		assert.True(t, system.Stopped())

		_, err = system.Root().SpawnNamed(echo(), "late")
		assert.ErrorIs(t, err, gerrors.ErrSystemStopped)
	})
	t.Run("With a missing producer", func(t *testing.T) {
		system := newTestSystem(t)
		_, err := system.Root().SpawnNamed(PropsFromProducer(nil), "none")
		assert.ErrorIs(t, err, gerrors.ErrUndefinedProducer)
	})
	t.Run("With a name already taken", func(t *testing.T) {
		system := newTestSystem(t)
		pid, err := system.Root().SpawnNamed(echo(), "unique")
		require.NoError(t, err)

		produced := atomic.NewInt32(0)
		props := PropsFromProducer(func() Actor {
			produced.Inc()
			return ReceiveFunc(func(Context) {})
		})
		_, err = system.Root().SpawnNamed(props, "unique")
		var exists *NameExistsError
		require.ErrorAs(t, err, &exists)
		assert.True(t, exists.PID.Equal(pid))
		assert.Zero(t, produced.Load())
	})
	t.Run("With generated names", func(t *testing.T) {
		system := newTestSystem(t)
		first := system.Root().Spawn(echo())
		second := system.Root().SpawnPrefix(echo(), "echo")
		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.Regexp(t, `^\$\d+$`, first.ID)
		assert.Regexp(t, `^echo\$\d+$`, second.ID)
	})
	t.Run("With shutdown stopping every actor", func(t *testing.T) {
		system, err := NewActorSystem("shutdown", WithLogger(log.NewZap(log.DebugLevel, io.Discard)))
		require.NoError(t, err)

		events := make(chan any, 10)
		_, err = system.Root().SpawnNamed(recorder(events), "worker")
		require.NoError(t, err)
		expect[*Started](t, events)

		require.NoError(t, system.Shutdown(t.Context()))
		expect[*Stopping](t, events)
		expect[*Stopped](t, events)
		assert.Zero(t, system.ProcessRegistry().Count())
	})
}

func TestLifecycle(t *testing.T) {
	system := newTestSystem(t)
	events := make(chan any, 10)
	pid, err := system.Root().SpawnNamed(recorder(events), "lifecycle")
	require.NoError(t, err)

	expect[*Started](t, events)
	system.Root().Send(pid, "hello")
	assert.Equal(t, "hello", expect[string](t, events))

	require.NoError(t, system.Root().StopFuture(pid).Wait())
	expect[*Stopping](t, events)
	expect[*Stopped](t, events)

	_, ok := system.ProcessRegistry().GetLocal("lifecycle")
	assert.False(t, ok)
}

func TestRequestResponse(t *testing.T) {
	system := newTestSystem(t)
	pid := system.Root().Spawn(echo())

	t.Run("With a reply", func(t *testing.T) {
		result, err := system.Root().RequestFuture(pid, "ping", time.Second).Result()
		require.NoError(t, err)
		assert.Equal(t, "ping", result)
	})
	t.Run("With no reply before the timeout", func(t *testing.T) {
		err := system.Root().RequestFuture(pid, 42, 50*time.Millisecond).Wait()
		assert.ErrorIs(t, err, gerrors.ErrTimeout)
	})
	t.Run("With an invalid timeout", func(t *testing.T) {
		err := system.Root().RequestFuture(pid, "ping", 0).Wait()
		assert.ErrorIs(t, err, gerrors.ErrInvalidTimeout)
	})
	t.Run("With a target that does not exist", func(t *testing.T) {
		err := system.Root().RequestFuture(system.NewLocalPID("ghost"), "ping", time.Second).Wait()
		assert.ErrorIs(t, err, gerrors.ErrDeadLetter)
	})
	t.Run("With a request on behalf of an actor", func(t *testing.T) {
		events := make(chan any, 10)
		sender := system.Root().Spawn(recorder(events))
		expect[*Started](t, events)

		system.Root().Request(pid, "pong", sender)
		assert.Equal(t, "pong", expect[string](t, events))
	})
	t.Run("With a forwarded request", func(t *testing.T) {
		forwarder := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(string); ok {
				ctx.Forward(pid)
			}
		}))
		result, err := system.Root().RequestFuture(forwarder, "forwarded", time.Second).Result()
		require.NoError(t, err)
		assert.Equal(t, "forwarded", result)
	})
	t.Run("With a header", func(t *testing.T) {
		headers := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			if _, ok := ctx.Message().(string); ok {
				ctx.Respond(ctx.MessageHeader().Get("trace"))
			}
		}))
		root := system.Root().WithHeader(MessageHeader{"trace": "abc"})
		result, err := root.RequestFuture(headers, "header", time.Second).Result()
		require.NoError(t, err)
		assert.Equal(t, "abc", result)
	})
}

func TestDeadLetters(t *testing.T) {
	system := newTestSystem(t)
	events := make(chan *DeadLetterEvent, 10)
	sub := eventstream.SubscribeTo(system.EventStream(), func(event *DeadLetterEvent) {
		events <- event
	})
	defer system.EventStream().Unsubscribe(sub)

	ghost := system.NewLocalPID("ghost")
	system.Root().Send(ghost, "lost")

	select {
	case event := <-events:
		assert.True(t, event.PID.Equal(ghost))
		assert.Equal(t, "lost", event.Message)
		assert.Nil(t, event.Sender)
	case <-time.After(waitTimeout):
		t.Fatal("no dead letter published")
	}
}

func TestWatch(t *testing.T) {
	system := newTestSystem(t)

	t.Run("With a watched actor stopping", func(t *testing.T) {
		events := make(chan any, 10)
		target := system.Root().Spawn(echo())
		watcher := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			switch msg := ctx.Message().(type) {
			case *Started:
				ctx.Watch(target)
				events <- msg
			case *Terminated:
				events <- msg
			}
		}))
		require.NotNil(t, watcher)
		expect[*Started](t, events)

		// the watch registration is queued ahead of the stop
		system.Root().Stop(target)
		terminated := expect[*Terminated](t, events)
		assert.True(t, terminated.Who.Equal(target))
		assert.False(t, terminated.AddressTerminated)
	})
	t.Run("With an unwatched actor stopping", func(t *testing.T) {
		events := make(chan any, 10)
		target := system.Root().Spawn(echo())
		watcher := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
			switch msg := ctx.Message().(type) {
			case *Started:
				ctx.Watch(target)
				ctx.Unwatch(target)
				events <- msg
			case *Terminated:
				events <- msg
			}
		}))
		require.NotNil(t, watcher)
		expect[*Started](t, events)
		_, err := system.Root().RequestFuture(target, "sync", time.Second).Result()
		require.NoError(t, err)

		require.NoError(t, system.Root().StopFuture(target).Wait())
		expectNothing(t, events)
	})
	t.Run("With an actor already stopped", func(t *testing.T) {
		target := system.Root().Spawn(echo())
		require.NoError(t, system.Root().StopFuture(target).Wait())

		result, err := system.Root().StopFuture(target).Result()
		require.NoError(t, err)
		terminated, ok := result.(*Terminated)
		require.True(t, ok)
		assert.True(t, terminated.Who.Equal(target))
	})
}

func TestPoison(t *testing.T) {
	system := newTestSystem(t)
	events := make(chan any, 10)
	pid := system.Root().Spawn(recorder(events))
	expect[*Started](t, events)

	system.Root().Send(pid, "one")
	system.Root().Send(pid, "two")
	require.NoError(t, system.Root().PoisonFuture(pid).Wait())

	assert.Equal(t, "one", expect[string](t, events))
	assert.Equal(t, "two", expect[string](t, events))
	expect[*Stopping](t, events)
	expect[*Stopped](t, events)
}

func TestChildren(t *testing.T) {
	system := newTestSystem(t)
	events := make(chan any, 20)
	children := make(chan []*PID, 1)

	parent := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
		switch msg := ctx.Message().(type) {
		case *Started:
			ctx.Spawn(failingProps("first", events))
			_, err := ctx.SpawnNamed(failingProps("second", events), "second")
			if err != nil {
				panic(err)
			}
			children <- ctx.Children()
		case *Stopped:
			events <- namedEvent{name: "parent", message: msg}
		}
	}))

	pids := <-children
	require.Len(t, pids, 2)
	for _, pid := range pids {
		assert.True(t, len(pid.ID) > len(parent.ID) && pid.ID[:len(parent.ID)+1] == parent.ID+"/")
	}

	started := 0
	for started < 2 {
		expect[namedEvent](t, events)
		started++
	}

	require.NoError(t, system.Root().StopFuture(parent).Wait())

	// both children stop before the parent
	stopped := make(map[string]int)
	for range 4 {
		event := expect[namedEvent](t, events)
		stopped[event.name]++
	}
	assert.Equal(t, 2, stopped["first"])
	assert.Equal(t, 2, stopped["second"])
	last := expect[namedEvent](t, events)
	assert.Equal(t, "parent", last.name)
}

func TestBehaviors(t *testing.T) {
	system := newTestSystem(t)

	var counting ReceiveFunc
	counting = func(ctx Context) {
		switch ctx.Message() {
		case "which":
			ctx.Respond("counting")
		case "pop":
			ctx.UnbecomeStacked()
		}
	}

	pid := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
		switch ctx.Message() {
		case "which":
			ctx.Respond("initial")
		case "push":
			ctx.BecomeStacked(counting)
		case "become":
			ctx.Become(func(ctx Context) {
				if ctx.Message() == "which" {
					ctx.Respond("replaced")
				}
			})
		}
	}))

	which := func() any {
		result, err := system.Root().RequestFuture(pid, "which", time.Second).Result()
		require.NoError(t, err)
		return result
	}

	assert.Equal(t, "initial", which())
	system.Root().Send(pid, "push")
	assert.Equal(t, "counting", which())
	system.Root().Send(pid, "pop")
	assert.Equal(t, "initial", which())

	// unbecome never empties the stack
	system.Root().Send(pid, "pop")
	assert.Equal(t, "initial", which())

	system.Root().Send(pid, "become")
	assert.Equal(t, "replaced", which())
}

func TestStash(t *testing.T) {
	system := newTestSystem(t)
	events := make(chan any, 10)

	pid := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
		switch ctx.Message() {
		case "open":
			ctx.Become(func(ctx Context) {
				if msg, ok := ctx.Message().(string); ok {
					events <- msg
				}
			})
			ctx.UnstashAll()
		default:
			if _, ok := ctx.Message().(string); ok {
				ctx.Stash()
			}
		}
	}))

	system.Root().Send(pid, "a")
	system.Root().Send(pid, "b")
	expectNothing(t, events)

	system.Root().Send(pid, "open")
	assert.Equal(t, "a", expect[string](t, events))
	assert.Equal(t, "b", expect[string](t, events))
}

func TestReceiveTimeout(t *testing.T) {
	system := newTestSystem(t)
	events := make(chan any, 10)

	pid := system.Root().Spawn(PropsFromFunc(func(ctx Context) {
		switch msg := ctx.Message().(type) {
		case *Started:
			ctx.SetReceiveTimeout(30 * time.Millisecond)
		case *ReceiveTimeout:
			events <- msg
			ctx.CancelReceiveTimeout()
		case string:
			events <- ctx.ReceiveTimeout()
		}
	}))

	expect[*ReceiveTimeout](t, events)
	system.Root().Send(pid, "after")
	assert.Equal(t, time.Duration(0), expect[time.Duration](t, events))
	expectNothing(t, events)
}

func TestReceiveMiddleware(t *testing.T) {
	system := newTestSystem(t)
	seen := atomic.NewInt32(0)
	var order []string

	outer := func(next ReceiveFunc) ReceiveFunc {
		return func(ctx Context) {
			if _, ok := ctx.Message().(string); ok {
				order = append(order, "outer")
			}
			next(ctx)
		}
	}
	inner := func(next ReceiveFunc) ReceiveFunc {
		return func(ctx Context) {
			if _, ok := ctx.Message().(string); ok {
				seen.Inc()
				order = append(order, "inner")
			}
			next(ctx)
		}
	}

	pid := system.Root().Spawn(echo(WithReceiveMiddleware(outer, inner)))
	result, err := system.Root().RequestFuture(pid, "ping", time.Second).Result()
	require.NoError(t, err)
	assert.Equal(t, "ping", result)
	assert.EqualValues(t, 1, seen.Load())
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestCustomMailbox(t *testing.T) {
	system := newTestSystem(t, WithDefaultMailbox(mailbox.Bounded(10)))
	pid := system.Root().Spawn(echo())
	result, err := system.Root().RequestFuture(pid, "bounded", time.Second).Result()
	require.NoError(t, err)
	assert.Equal(t, "bounded", result)

	goroutines := system.Root().Spawn(echo(
		WithDispatcher(mailbox.NewGoroutineDispatcher(10)),
		WithMailbox(mailbox.Unbounded()),
	))
	result, err = system.Root().RequestFuture(goroutines, "goroutine", time.Second).Result()
	require.NoError(t, err)
	assert.Equal(t, "goroutine", result)
}

func TestFuturePipeTo(t *testing.T) {
	system := newTestSystem(t)
	events := make(chan any, 10)
	target := system.Root().Spawn(recorder(events))
	expect[*Started](t, events)

	echoPID := system.Root().Spawn(echo())
	system.Root().RequestFuture(echoPID, "piped", time.Second).PipeTo(target)
	assert.Equal(t, "piped", expect[string](t, events))

	system.Root().RequestFuture(system.NewLocalPID("ghost"), "piped", time.Second).PipeTo(target)
	err := expect[error](t, events)
	assert.True(t, errors.Is(err, gerrors.ErrDeadLetter))
}
