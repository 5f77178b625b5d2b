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
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"

	gerrors "github.com/tochemey/protoakt/errors"
	"github.com/tochemey/protoakt/internal/types"
)

var (
	cborEncOptions = cbor.EncOptions{
		Sort:        cbor.SortNone,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeUnixDynamic,
	}
	cborDecOptions = cbor.DecOptions{
		MaxNestedLevels: 64,
		IndefLength:     cbor.IndefLengthForbidden,
		UTF8:            cbor.UTF8DecodeInvalid,
	}
)

// cborSerializer encodes registered Go types with CBOR. Decoded messages
// are always pointers to the registered type.
type cborSerializer struct {
	types   *types.Registry
	encMode cbor.EncMode
	decMode cbor.DecMode
}

var _ Serializer = (*cborSerializer)(nil)

func newCBORSerializer(registry *types.Registry) *cborSerializer {
	// the options are static and valid
	encMode, _ := cborEncOptions.EncMode()
	decMode, _ := cborDecOptions.DecMode()
	return &cborSerializer{types: registry, encMode: encMode, decMode: decMode}
}

func (s *cborSerializer) Serialize(message any) ([]byte, error) {
	if message == nil {
		return nil, fmt.Errorf("%w: nil message", gerrors.ErrInvalidMessage)
	}
	return s.encMode.Marshal(message)
}

func (s *cborSerializer) Deserialize(typeName string, data []byte) (any, error) {
	typ, ok := s.types.TypeOf(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", gerrors.ErrTypeNotRegistered, typeName)
	}

	ptr := reflect.New(typ)
	if err := s.decMode.Unmarshal(data, ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Interface(), nil
}

func (s *cborSerializer) TypeName(message any) (string, error) {
	name := types.Name(message)
	if name == "" {
		return "", fmt.Errorf("%w: nil message", gerrors.ErrInvalidMessage)
	}
	if !s.types.Exists(message) {
		return "", fmt.Errorf("%w: %s", gerrors.ErrTypeNotRegistered, name)
	}
	return name, nil
}
