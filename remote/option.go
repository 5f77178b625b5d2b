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
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/protoakt/internal/compression"
	gtls "github.com/tochemey/protoakt/tls"
)

// Compression names the compression applied to outbound batches
type Compression = compression.Kind

const (
	// NoCompression sends batches as encoded
	NoCompression = compression.NoCompression
	// GzipCompression compresses batches with gzip
	GzipCompression = compression.GzipCompression
	// ZstdCompression compresses batches with Zstandard. This is the default.
	ZstdCompression = compression.ZstdCompression
	// BrotliCompression compresses batches with Brotli
	BrotliCompression = compression.BrotliCompression
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(*Config)
}

// enforce compilation error
var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(config *Config)

func (f OptionFunc) Apply(c *Config) {
	f(c)
}

// WithAdvertisedAddress sets the host and port other systems dial, when they
// differ from the bind address
func WithAdvertisedAddress(host string, port int) Option {
	return OptionFunc(func(config *Config) {
		config.advertisedHost = host
		config.advertisedPort = port
	})
}

// WithBatchSize sets the maximum number of messages sent in one batch
func WithBatchSize(size int) Option {
	return OptionFunc(func(config *Config) {
		config.batchSize = size
	})
}

// WithCompression sets the compression of outbound batches
func WithCompression(kind Compression) Option {
	return OptionFunc(func(config *Config) {
		config.compression = kind
	})
}

// WithTLS enables TLS on both the server and the endpoint writers
func WithTLS(info *gtls.Info) Option {
	return OptionFunc(func(config *Config) {
		config.tlsInfo = info
	})
}

// WithDialTimeout sets the timeout of a single connection attempt
func WithDialTimeout(timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.dialTimeout = timeout
	})
}

// WithKeepAlive sets the TCP keep alive period
func WithKeepAlive(keepAlive time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.keepAlive = keepAlive
	})
}

// WithWriteTimeout sets the write timeout
func WithWriteTimeout(timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.writeTimeout = timeout
	})
}

// WithReadIdleTimeout sets the read idle timeout. A zero timeout disables
// the ping health check.
func WithReadIdleTimeout(timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.readIdleTimeout = timeout
	})
}

// WithEndpointTimeout sets how long a sender waits for an endpoint to be
// created
func WithEndpointTimeout(timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.endpointTimeout = timeout
	})
}

// WithMaxFrameSize sets the largest HTTP/2 frame read, between 16KB and
// 16MB
func WithMaxFrameSize(size uint32) Option {
	return OptionFunc(func(config *Config) {
		config.maxFrameSize = size
	})
}

// WithSerializerID sets the serializer advertised to connecting writers
func WithSerializerID(id int32) Option {
	return OptionFunc(func(config *Config) {
		config.serializerID = id
	})
}

// WithConnectRetries sets the number of connection attempts of a writer and
// the bounds of the backoff between them
func WithConnectRetries(retries int, minBackoff, maxBackoff time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.connectRetries = retries
		config.connectMinBackoff = minBackoff
		config.connectMaxBackoff = maxBackoff
	})
}

// WithMetricMeter records the remote metrics with meter
func WithMetricMeter(meter otelmetric.Meter) Option {
	return OptionFunc(func(config *Config) {
		config.meter = meter
	})
}
