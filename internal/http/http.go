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

// Package http builds the HTTP/2 clients and servers carrying the remote
// transport, in cleartext (h2c) or over TLS.
package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ClientConfig tunes the transport of a remote client
type ClientConfig struct {
	// TLS enables https when set
	TLS              *tls.Config
	MaxReadFrameSize uint32
	DialTimeout      time.Duration
	KeepAlive        time.Duration
	ReadIdleTimeout  time.Duration
}

// NewClient creates an HTTP/2 client. Without TLS the client speaks h2c.
//
// The client sets no overall timeout: endpoint streams stay open for the
// lifetime of the connection and are bounded by their context instead.
func NewClient(config ClientConfig) *http.Client {
	dialer := &net.Dialer{
		Timeout:   config.DialTimeout,
		KeepAlive: config.KeepAlive,
	}

	transport := &http2.Transport{
		MaxReadFrameSize: config.MaxReadFrameSize,
		ReadIdleTimeout:  config.ReadIdleTimeout,
		PingTimeout:      10 * time.Second,
		TLSClientConfig:  config.TLS,
	}

	if config.TLS == nil {
		transport.AllowHTTP = true
		transport.DialTLSContext = func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		}
	} else {
		transport.DialTLSContext = func(ctx context.Context, network, addr string, tlsConfig *tls.Config) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return tls.Client(conn, tlsConfig), nil
		}
	}

	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Transport: transport,
	}
}

// ServerConfig tunes a remote server
type ServerConfig struct {
	Host            string
	Port            int
	TLS             *tls.Config
	MaxFrameSize    uint32
	IdleTimeout     time.Duration
	WriteTimeout    time.Duration
	ReadIdleTimeout time.Duration
}

// Server is an HTTP/2 server bound to its listener
type Server struct {
	server   *http.Server
	listener net.Listener

	// h2c connections are hijacked from the http.Server, which then neither
	// drains nor closes them
	mu       sync.Mutex
	hijacked map[net.Conn]struct{}
}

type connKey struct{}

// NewServer binds the listener and prepares the server for handler.
// The bound port is available through Port, which matters when the
// configured port is 0.
func NewServer(ctx context.Context, config ServerConfig, handler http.Handler) (*Server, error) {
	hostPort := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	listener, err := (&net.ListenConfig{KeepAlive: 15 * time.Second}).Listen(ctx, "tcp", hostPort)
	if err != nil {
		return nil, err
	}

	http2Server := &http2.Server{
		MaxConcurrentStreams: 1000,
		MaxReadFrameSize:     config.MaxFrameSize,
		IdleTimeout:          config.IdleTimeout,
		WriteByteTimeout:     config.WriteTimeout,
		ReadIdleTimeout:      config.ReadIdleTimeout,
	}

	// no read or write deadline: streams are long lived
	server := &http.Server{
		Addr:              hostPort,
		ReadHeaderTimeout: time.Second,
		IdleTimeout:       config.IdleTimeout,
		MaxHeaderBytes:    8 * 1024,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	if config.TLS != nil {
		server.TLSConfig = config.TLS
		server.Handler = handler
		if err := http2.ConfigureServer(server, http2Server); err != nil {
			_ = listener.Close()
			return nil, err
		}
		return &Server{server: server, listener: tls.NewListener(listener, config.TLS)}, nil
	}

	s := &Server{server: server, listener: listener, hijacked: make(map[net.Conn]struct{})}
	h2cHandler := h2c.NewHandler(handler, http2Server)
	server.ConnContext = func(ctx context.Context, conn net.Conn) context.Context {
		return context.WithValue(ctx, connKey{}, conn)
	}
	server.ConnState = func(conn net.Conn, state http.ConnState) {
		if state == http.StateHijacked {
			s.mu.Lock()
			s.hijacked[conn] = struct{}{}
			s.mu.Unlock()
		}
	}
	// h2c serves a hijacked connection until it is done
	server.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h2cHandler.ServeHTTP(w, r)
		if conn, ok := r.Context().Value(connKey{}).(net.Conn); ok {
			s.mu.Lock()
			delete(s.hijacked, conn)
			s.mu.Unlock()
		}
	})
	return s, nil
}

// Port returns the bound port
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Serve blocks until the server is shut down. It returns nil after a
// shutdown.
func (s *Server) Serve() error {
	if err := s.server.Serve(s.listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for the active
// connections to go idle or ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.closeHijacked()
	return err
}

// Close stops the server immediately
func (s *Server) Close() error {
	err := s.server.Close()
	s.closeHijacked()
	return err
}

func (s *Server) closeHijacked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.hijacked {
		_ = conn.Close()
		delete(s.hijacked, conn)
	}
}

// URL returns the base URL of a remote host
func URL(host string, port int, secure bool) string {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(host, strconv.Itoa(port)))
}
