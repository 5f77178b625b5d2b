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

package eventstream

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

type connected struct{ address string }

type terminated struct{ address string }

func TestStream(t *testing.T) {
	t.Run("Publish reaches every subscriber", func(t *testing.T) {
		stream := New()
		var first, second []any
		sub1 := stream.Subscribe(func(event any) { first = append(first, event) })
		sub2 := stream.Subscribe(func(event any) { second = append(second, event) })
		require.NotEqual(t, sub1.ID(), sub2.ID())
		require.Equal(t, 2, stream.Len())

		stream.Publish("hello")
		stream.Publish(42)

		assert.Equal(t, []any{"hello", 42}, first)
		assert.Equal(t, []any{"hello", 42}, second)
	})
	t.Run("Unsubscribe stops delivery", func(t *testing.T) {
		stream := New()
		counter := atomic.NewInt32(0)
		sub := stream.Subscribe(func(any) { counter.Inc() })
		stream.Publish("one")
		stream.Unsubscribe(sub)
		stream.Unsubscribe(sub)
		stream.Publish("two")

		assert.EqualValues(t, 1, counter.Load())
		assert.False(t, sub.Active())
		assert.Zero(t, stream.Len())
	})
	t.Run("Predicate filters events", func(t *testing.T) {
		stream := New()
		var received []string
		stream.SubscribeWithPredicate(
			func(event any) { received = append(received, event.(string)) },
			func(event any) bool {
				s, ok := event.(string)
				return ok && s != "skip"
			})
		stream.Publish("keep")
		stream.Publish("skip")
		stream.Publish(1)
		assert.Equal(t, []string{"keep"}, received)
	})
	t.Run("SubscribeTo filters by type", func(t *testing.T) {
		stream := New()
		var addresses []string
		SubscribeTo(stream, func(event *terminated) { addresses = append(addresses, event.address) })
		stream.Publish(&connected{address: "a:1"})
		stream.Publish(&terminated{address: "b:2"})
		assert.Equal(t, []string{"b:2"}, addresses)
	})
	t.Run("Handlers can unsubscribe themselves", func(t *testing.T) {
		stream := New()
		counter := atomic.NewInt32(0)
		var sub *Subscription
		sub = stream.Subscribe(func(any) {
			counter.Inc()
			stream.Unsubscribe(sub)
		})
		stream.Publish(1)
		stream.Publish(2)
		assert.EqualValues(t, 1, counter.Load())
	})
	t.Run("Concurrent publishers", func(t *testing.T) {
		stream := New()
		counter := atomic.NewInt64(0)
		stream.Subscribe(func(any) { counter.Inc() })

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					stream.Publish(j)
				}
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 1000, counter.Load())
	})
}
