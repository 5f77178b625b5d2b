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

// Package tls carries the TLS settings of the remote transport.
package tls

import (
	"crypto/tls"
	"errors"
	"slices"
)

// Info holds both sides of a TLS setup. Both configurations should trust
// the same certificate authority.
type Info struct {
	// ClientConfig is used by endpoint writers dialing remote systems
	ClientConfig *tls.Config
	// ServerConfig is used by the server accepting endpoint writers
	ServerConfig *tls.Config
}

// Validate checks that both sides are set
func (i *Info) Validate() error {
	if i.ClientConfig == nil || i.ServerConfig == nil {
		return errors.New("both the client and the server TLS configs are required")
	}
	return nil
}

// WithHTTP2 returns a copy of the Info whose configs negotiate HTTP/2
func (i *Info) WithHTTP2() *Info {
	return &Info{
		ClientConfig: withH2(i.ClientConfig),
		ServerConfig: withH2(i.ServerConfig),
	}
}

func withH2(config *tls.Config) *tls.Config {
	if config == nil {
		return nil
	}
	clone := config.Clone()
	if !slices.Contains(clone.NextProtos, "h2") {
		clone.NextProtos = append([]string{"h2"}, clone.NextProtos...)
	}
	return clone
}
