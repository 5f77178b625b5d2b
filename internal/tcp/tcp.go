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

// Package tcp resolves the host and port a remote system binds to and
// advertises.
package tcp

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/hashicorp/go-sockaddr"
)

// SplitAddress splits a host:port address
func SplitAddress(address string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port in address %q", address)
	}
	return host, port, nil
}

// BindIP validates host as an IP and replaces the unspecified address with
// a private interface address, or a public one when the machine has no
// private address.
func BindIP(host string) (string, error) {
	ip := net.ParseIP(host)
	if ip == nil {
		return "", fmt.Errorf("invalid bind IP %q", host)
	}

	if !ip.IsUnspecified() {
		return ip.String(), nil
	}

	candidate, err := sockaddr.GetPrivateIP()
	if err != nil {
		return "", fmt.Errorf("failed to get private interface addresses: %w", err)
	}

	if candidate == "" {
		if candidate, err = sockaddr.GetPublicIP(); err != nil {
			return "", fmt.Errorf("failed to get public interface addresses: %w", err)
		}
	}

	if candidate == "" {
		return "", errors.New("no private IP address found, and explicit IP not provided")
	}

	parsed := net.ParseIP(candidate)
	if parsed == nil {
		return "", fmt.Errorf("failed to parse interface IP address %q", candidate)
	}
	return parsed.String(), nil
}
