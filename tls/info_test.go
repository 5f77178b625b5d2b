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

package tls

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo(t *testing.T) {
	t.Run("With a missing side", func(t *testing.T) {
		info := &Info{ClientConfig: new(tls.Config)}
		assert.Error(t, info.Validate())
	})
	t.Run("With HTTP/2 negotiation", func(t *testing.T) {
		client := &tls.Config{NextProtos: []string{"http/1.1"}}
		server := &tls.Config{NextProtos: []string{"h2"}}
		info := (&Info{ClientConfig: client, ServerConfig: server}).WithHTTP2()

		require.NoError(t, info.Validate())
		assert.Equal(t, []string{"h2", "http/1.1"}, info.ClientConfig.NextProtos)
		assert.Equal(t, []string{"h2"}, info.ServerConfig.NextProtos)
		// the originals are left untouched
		assert.Equal(t, []string{"http/1.1"}, client.NextProtos)
	})
}
