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
	"connectrpc.com/connect"
	"github.com/fxamacker/cbor/v2"
)

const cborCodecName = "cbor"

// cborCodec encodes the Remoting service messages with CBOR, so the
// service needs no generated protobuf code
type cborCodec struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

var _ connect.Codec = (*cborCodec)(nil)

func newCBORCodec() *cborCodec {
	encMode, _ := cborEncOptions.EncMode()
	decMode, _ := cborDecOptions.DecMode()
	return &cborCodec{encMode: encMode, decMode: decMode}
}

func (c *cborCodec) Name() string {
	return cborCodecName
}

func (c *cborCodec) Marshal(message any) ([]byte, error) {
	return c.encMode.Marshal(message)
}

func (c *cborCodec) Unmarshal(data []byte, message any) error {
	return c.decMode.Unmarshal(data, message)
}
