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
	"net"
	"strconv"
	"time"

	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/tochemey/protoakt/internal/compression"
	"github.com/tochemey/protoakt/internal/tcp"
	"github.com/tochemey/protoakt/internal/validation"
	gtls "github.com/tochemey/protoakt/tls"
)

const (
	kb = 1024
	mb = 1024 * kb
)

// Config defines the remote configuration.
//
// The bind host must be an IP address. 0.0.0.0 is replaced by a private
// interface address when the configuration is sanitized, so that the
// address advertised to other systems is reachable.
type Config struct {
	host              string
	port              int
	advertisedHost    string
	advertisedPort    int
	batchSize         int
	compression       compression.Kind
	tlsInfo           *gtls.Info
	dialTimeout       time.Duration
	keepAlive         time.Duration
	writeTimeout      time.Duration
	readIdleTimeout   time.Duration
	idleTimeout       time.Duration
	endpointTimeout   time.Duration
	maxFrameSize      uint32
	serializerID      int32
	connectRetries    int
	connectMinBackoff time.Duration
	connectMaxBackoff time.Duration
	meter             otelmetric.Meter
}

var _ validation.Validator = (*Config)(nil)

// NewConfig creates a Config binding host:port. Port 0 binds a free port.
func NewConfig(host string, port int, opts ...Option) *Config {
	config := &Config{
		host:              host,
		port:              port,
		batchSize:         1000,
		compression:       compression.ZstdCompression,
		dialTimeout:       5 * time.Second,
		keepAlive:         15 * time.Second,
		writeTimeout:      10 * time.Second,
		readIdleTimeout:   10 * time.Second,
		idleTimeout:       1200 * time.Second,
		endpointTimeout:   10 * time.Second,
		maxFrameSize:      16 * mb,
		serializerID:      CBORSerializerID,
		connectRetries:    5,
		connectMinBackoff: 100 * time.Millisecond,
		connectMaxBackoff: 2 * time.Second,
	}

	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// DefaultConfig binds a free port on the loopback interface
func DefaultConfig() *Config {
	return NewConfig("127.0.0.1", 0)
}

// Host returns the bind host
func (c *Config) Host() string {
	return c.host
}

// Port returns the bind port
func (c *Config) Port() int {
	return c.port
}

// AdvertisedHost returns the host other systems dial, the bind host when
// not set
func (c *Config) AdvertisedHost() string {
	if c.advertisedHost != "" {
		return c.advertisedHost
	}
	return c.host
}

// AdvertisedPort returns the port other systems dial, the bind port when
// not set
func (c *Config) AdvertisedPort() int {
	if c.advertisedPort > 0 {
		return c.advertisedPort
	}
	return c.port
}

// BatchSize returns the maximum number of messages an endpoint writer sends
// in one batch
func (c *Config) BatchSize() int {
	return c.batchSize
}

// Compression returns the compression applied to outbound batches
func (c *Config) Compression() compression.Kind {
	return c.compression
}

// TLSInfo returns the TLS settings, nil for cleartext HTTP/2
func (c *Config) TLSInfo() *gtls.Info {
	return c.tlsInfo
}

// DialTimeout returns the timeout of a single connection attempt
func (c *Config) DialTimeout() time.Duration {
	return c.dialTimeout
}

// KeepAlive returns the TCP keep alive period
func (c *Config) KeepAlive() time.Duration {
	return c.keepAlive
}

// WriteTimeout returns the time after which a connection that cannot be
// written to is closed
func (c *Config) WriteTimeout() time.Duration {
	return c.writeTimeout
}

// ReadIdleTimeout returns the time after which a silent connection is
// health checked with a ping frame
func (c *Config) ReadIdleTimeout() time.Duration {
	return c.readIdleTimeout
}

// IdleTimeout returns the time after which idle server connections close
func (c *Config) IdleTimeout() time.Duration {
	return c.idleTimeout
}

// EndpointTimeout returns how long a sender waits for an endpoint to be
// created
func (c *Config) EndpointTimeout() time.Duration {
	return c.endpointTimeout
}

// MaxFrameSize returns the largest HTTP/2 frame read
func (c *Config) MaxFrameSize() uint32 {
	return c.maxFrameSize
}

// SerializerID returns the serializer id advertised to connecting writers
func (c *Config) SerializerID() int32 {
	return c.serializerID
}

// ConnectRetries returns the number of connection attempts of a writer
func (c *Config) ConnectRetries() int {
	return c.connectRetries
}

// Meter returns the meter recording the remote metrics, nil when disabled
func (c *Config) Meter() otelmetric.Meter {
	return c.meter
}

// Validate checks the configuration
func (c *Config) Validate() error {
	chain := validation.New(validation.AllErrors()).
		AddValidator(validation.NewEmptyStringValidator("host", c.host)).
		AddAssertion(c.port >= 0 && c.port <= 65535, "invalid port").
		AddAssertion(c.advertisedPort >= 0 && c.advertisedPort <= 65535, "invalid advertised port").
		AddAssertion(c.batchSize > 0, "batchSize must be greater than 0").
		AddAssertion(c.maxFrameSize >= 16*kb && c.maxFrameSize <= 16*mb, "maxFrameSize must be between 16KB and 16MB").
		AddAssertion(c.dialTimeout > 0, "dialTimeout must be greater than 0").
		AddAssertion(c.endpointTimeout > 0, "endpointTimeout must be greater than 0").
		AddAssertion(c.keepAlive >= 0, "invalid keepAlive").
		AddAssertion(c.writeTimeout >= 0, "invalid writeTimeout").
		AddAssertion(c.readIdleTimeout >= 0, "invalid readIdleTimeout").
		AddAssertion(c.connectRetries > 0, "connectRetries must be greater than 0").
		AddAssertion(c.serializerID >= 0, "invalid serializer id")

	if c.tlsInfo != nil {
		chain = chain.AddValidator(c.tlsInfo)
	}
	return chain.Validate()
}

// Sanitize resolves the bind host to a concrete IP
func (c *Config) Sanitize() error {
	host, err := tcp.BindIP(c.host)
	if err != nil {
		return err
	}
	c.host = host
	return nil
}

func (c *Config) bindAddress() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}
