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
	"crypto/tls"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/tochemey/protoakt/internal/compression"
	gtls "github.com/tochemey/protoakt/tls"
)

func TestConfig(t *testing.T) {
	t.Run("With defaults", func(t *testing.T) {
		config := NewConfig("127.0.0.1", 8080)
		require.NoError(t, config.Validate())
		assert.Equal(t, "127.0.0.1", config.Host())
		assert.Equal(t, 8080, config.Port())
		assert.Equal(t, "127.0.0.1", config.AdvertisedHost())
		assert.Equal(t, 8080, config.AdvertisedPort())
		assert.Equal(t, 1000, config.BatchSize())
		assert.Equal(t, compression.ZstdCompression, config.Compression())
		assert.Nil(t, config.TLSInfo())
		assert.Equal(t, 5*time.Second, config.DialTimeout())
		assert.Equal(t, 15*time.Second, config.KeepAlive())
		assert.Equal(t, 10*time.Second, config.WriteTimeout())
		assert.Equal(t, 10*time.Second, config.ReadIdleTimeout())
		assert.Equal(t, 1200*time.Second, config.IdleTimeout())
		assert.Equal(t, 10*time.Second, config.EndpointTimeout())
		assert.EqualValues(t, 16*mb, config.MaxFrameSize())
		assert.EqualValues(t, CBORSerializerID, config.SerializerID())
		assert.Equal(t, 5, config.ConnectRetries())
		assert.Nil(t, config.Meter())
	})
	t.Run("With options", func(t *testing.T) {
		meter := noop.NewMeterProvider().Meter("test")
		info := &gtls.Info{ClientConfig: &tls.Config{}, ServerConfig: &tls.Config{}}
		config := NewConfig("0.0.0.0", 0,
			WithAdvertisedAddress("10.0.0.1", 9000),
			WithBatchSize(10),
			WithCompression(BrotliCompression),
			WithTLS(info),
			WithDialTimeout(time.Second),
			WithKeepAlive(time.Minute),
			WithWriteTimeout(2*time.Second),
			WithReadIdleTimeout(3*time.Second),
			WithEndpointTimeout(4*time.Second),
			WithMaxFrameSize(64*kb),
			WithSerializerID(ProtoSerializerID),
			WithConnectRetries(3, time.Millisecond, time.Second),
			WithMetricMeter(meter),
		)
		require.NoError(t, config.Validate())
		assert.Equal(t, "10.0.0.1", config.AdvertisedHost())
		assert.Equal(t, 9000, config.AdvertisedPort())
		assert.Equal(t, 10, config.BatchSize())
		assert.Equal(t, compression.BrotliCompression, config.Compression())
		assert.Same(t, info, config.TLSInfo())
		assert.Equal(t, time.Second, config.DialTimeout())
		assert.Equal(t, time.Minute, config.KeepAlive())
		assert.Equal(t, 2*time.Second, config.WriteTimeout())
		assert.Equal(t, 3*time.Second, config.ReadIdleTimeout())
		assert.Equal(t, 4*time.Second, config.EndpointTimeout())
		assert.EqualValues(t, 64*kb, config.MaxFrameSize())
		assert.EqualValues(t, ProtoSerializerID, config.SerializerID())
		assert.Equal(t, 3, config.ConnectRetries())
		assert.Equal(t, meter, config.Meter())
	})
	t.Run("With invalid values", func(t *testing.T) {
		config := NewConfig("", 70000,
			WithBatchSize(0),
			WithMaxFrameSize(1),
			WithDialTimeout(0),
			WithConnectRetries(0, 0, 0),
			WithSerializerID(-1),
		)
		err := config.Validate()
		require.Error(t, err)
		for _, message := range []string{
			"invalid port",
			"batchSize must be greater than 0",
			"maxFrameSize must be between 16KB and 16MB",
			"dialTimeout must be greater than 0",
			"connectRetries must be greater than 0",
			"invalid serializer id",
		} {
			assert.Contains(t, err.Error(), message)
		}
	})
	t.Run("With incomplete TLS", func(t *testing.T) {
		config := NewConfig("127.0.0.1", 0, WithTLS(&gtls.Info{ClientConfig: &tls.Config{}}))
		require.Error(t, config.Validate())
	})
	t.Run("Sanitize resolves the unspecified address", func(t *testing.T) {
		config := NewConfig("0.0.0.0", 0)
		require.NoError(t, config.Sanitize())
		assert.NotEqual(t, "0.0.0.0", config.Host())
		assert.NotEmpty(t, config.Host())
	})
	t.Run("Sanitize rejects a host name", func(t *testing.T) {
		config := NewConfig("localhost", 0)
		require.Error(t, config.Sanitize())
	})
}
