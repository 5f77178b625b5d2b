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
	"github.com/klauspost/compress/zstd"
)

// ZstdName is the content coding of Zstandard.
const ZstdName = "zstd"

// 64MB ceiling on the memory a single frame may decode into
const zstdMaxDecoderMemory = 64 << 20

// encoders and decoders run synchronously so that pooled instances hold no
// goroutines
func newZstdCompressor() connect.Compressor {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedFastest),
		zstd.WithEncoderConcurrency(1),
		zstd.WithLowerEncoderMem(true))
	if err != nil {
		return &failedCompressor{err: err}
	}
	return encoder
}

func newZstdDecompressor() connect.Decompressor {
	return &zstdDecompressor{}
}

// zstdDecompressor adapts zstd.Decoder to connect.Decompressor. connect
// closes a decompressor before putting it back in its pool, and a closed
// zstd.Decoder cannot be reset, so Reset builds a new one when needed.
type zstdDecompressor struct {
	decoder *zstd.Decoder
}

func (z *zstdDecompressor) Read(p []byte) (int, error) {
	if z.decoder == nil {
		return 0, io.EOF
	}
	return z.decoder.Read(p)
}

func (z *zstdDecompressor) Reset(reader io.Reader) error {
	if z.decoder != nil {
		return z.decoder.Reset(reader)
	}

	decoder, err := zstd.NewReader(reader,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(zstdMaxDecoderMemory))
	if err != nil {
		return err
	}
	z.decoder = decoder
	return nil
}

func (z *zstdDecompressor) Close() error {
	if z.decoder != nil {
		z.decoder.Close()
		z.decoder = nil
	}
	return nil
}

// failedCompressor reports a construction error on first use
type failedCompressor struct {
	err error
}

func (f *failedCompressor) Write([]byte) (int, error) { return 0, f.err }
func (f *failedCompressor) Reset(io.Writer)           {}
func (f *failedCompressor) Close() error              { return f.err }
