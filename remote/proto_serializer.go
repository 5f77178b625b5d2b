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

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	gerrors "github.com/tochemey/protoakt/errors"
)

// protoSerializer encodes proto.Message values in the protobuf binary
// format. Types are resolved by full name in the global protobuf registry.
type protoSerializer struct {
	marshal   proto.MarshalOptions
	unmarshal proto.UnmarshalOptions
}

var _ Serializer = (*protoSerializer)(nil)

func newProtoSerializer() *protoSerializer {
	return &protoSerializer{
		marshal:   proto.MarshalOptions{Deterministic: true},
		unmarshal: proto.UnmarshalOptions{DiscardUnknown: true},
	}
}

func (s *protoSerializer) Serialize(message any) ([]byte, error) {
	msg, err := asProto(message)
	if err != nil {
		return nil, err
	}
	return s.marshal.Marshal(msg)
}

func (s *protoSerializer) Deserialize(typeName string, data []byte) (any, error) {
	msg, err := newProto(typeName)
	if err != nil {
		return nil, err
	}
	if err := s.unmarshal.Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *protoSerializer) TypeName(message any) (string, error) {
	return protoTypeName(message)
}

// jsonSerializer encodes proto.Message values in the protobuf JSON format
type jsonSerializer struct {
	marshal   protojson.MarshalOptions
	unmarshal protojson.UnmarshalOptions
}

var _ Serializer = (*jsonSerializer)(nil)

func newJSONSerializer() *jsonSerializer {
	return &jsonSerializer{
		unmarshal: protojson.UnmarshalOptions{DiscardUnknown: true},
	}
}

func (s *jsonSerializer) Serialize(message any) ([]byte, error) {
	msg, err := asProto(message)
	if err != nil {
		return nil, err
	}
	return s.marshal.Marshal(msg)
}

func (s *jsonSerializer) Deserialize(typeName string, data []byte) (any, error) {
	msg, err := newProto(typeName)
	if err != nil {
		return nil, err
	}
	if err := s.unmarshal.Unmarshal(data, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *jsonSerializer) TypeName(message any) (string, error) {
	return protoTypeName(message)
}

func asProto(message any) (proto.Message, error) {
	msg, ok := message.(proto.Message)
	if !ok || msg == nil {
		return nil, fmt.Errorf("%w: %T is not a proto.Message", gerrors.ErrInvalidMessage, message)
	}
	return msg, nil
}

func protoTypeName(message any) (string, error) {
	msg, err := asProto(message)
	if err != nil {
		return "", err
	}
	return string(msg.ProtoReflect().Descriptor().FullName()), nil
}

func newProto(typeName string) (proto.Message, error) {
	messageType, err := protoregistry.GlobalTypes.FindMessageByName(protoreflect.FullName(typeName))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", gerrors.ErrTypeNotRegistered, typeName)
	}
	return messageType.New().Interface(), nil
}
