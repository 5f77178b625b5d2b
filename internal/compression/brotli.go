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

package compression

import (
	"io"

	"connectrpc.com/connect"
	"github.com/andybalholm/brotli"
)

// BrotliName is the content coding of Brotli.
const BrotliName = "br"

// brotli.BestSpeed keeps the per batch latency close to zstd
func newBrotliCompressor() connect.Compressor {
	return brotli.NewWriterLevel(nil, brotli.BestSpeed)
}

func newBrotliDecompressor() connect.Decompressor {
	return &brotliDecompressor{reader: brotli.NewReader(nil)}
}

// brotliDecompressor adds the Close brotli.Reader lacks
type brotliDecompressor struct {
	reader *brotli.Reader
}

func (b *brotliDecompressor) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *brotliDecompressor) Reset(reader io.Reader) error {
	return b.reader.Reset(reader)
}

func (b *brotliDecompressor) Close() error {
	return nil
}
