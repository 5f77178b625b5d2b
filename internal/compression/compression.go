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

// Package compression provides the connect compression options used by the
// remote transport.
package compression

import "connectrpc.com/connect"

// Kind names the compression applied to the frames sent to a remote endpoint.
// Readers accept every Kind regardless of the one configured locally.
type Kind int

const (
	// NoCompression sends frames as encoded.
	NoCompression Kind = iota
	// GzipCompression uses the gzip support built into connect.
	GzipCompression
	// ZstdCompression uses Zstandard. This is the default.
	ZstdCompression
	// BrotliCompression uses Brotli.
	BrotliCompression
)

// String returns the content coding of the Kind
func (k Kind) String() string {
	switch k {
	case GzipCompression:
		return "gzip"
	case ZstdCompression:
		return ZstdName
	case BrotliCompression:
		return BrotliName
	default:
		return "identity"
	}
}

// ClientOptions returns the options a connect client needs to send frames
// compressed with kind and to read any compressed response.
func ClientOptions(kind Kind) []connect.ClientOption {
	options := []connect.ClientOption{
		connect.WithAcceptCompression(ZstdName, newZstdDecompressor, newZstdCompressor),
		connect.WithAcceptCompression(BrotliName, newBrotliDecompressor, newBrotliCompressor),
	}

	switch kind {
	case GzipCompression:
		options = append(options, connect.WithSendGzip())
	case ZstdCompression, BrotliCompression:
		options = append(options, connect.WithSendCompression(kind.String()))
	}
	return options
}

// HandlerOptions returns the options that let a connect handler read and
// answer with every supported compression.
func HandlerOptions() []connect.HandlerOption {
	return []connect.HandlerOption{
		connect.WithCompression(ZstdName, newZstdDecompressor, newZstdCompressor),
		connect.WithCompression(BrotliName, newBrotliDecompressor, newBrotliCompressor),
	}
}
