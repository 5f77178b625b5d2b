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
	"sync"

	"github.com/tochemey/protoakt/actor"
	gerrors "github.com/tochemey/protoakt/errors"
	"github.com/tochemey/protoakt/internal/types"
)

const (
	// ProtoSerializerID identifies the protobuf binary serializer. It carries
	// proto.Message values.
	ProtoSerializerID int32 = 0
	// CBORSerializerID identifies the CBOR serializer. It carries plain Go
	// values whose type was registered with RegisterTypes, and is the default
	// serializer advertised to connecting writers.
	CBORSerializerID int32 = 1
	// JSONSerializerID identifies the protobuf JSON serializer. It carries
	// proto.Message values.
	JSONSerializerID int32 = 2

	// negotiatedSerializerID asks the writer to use the serializer advertised
	// by the remote system
	negotiatedSerializerID int32 = -1
)

// Serializer encodes messages for the wire. The type name travels next to
// the payload, once per batch, and lets Deserialize rebuild the message.
// Implementations must be safe for concurrent use.
type Serializer interface {
	// Serialize encodes message
	Serialize(message any) ([]byte, error)
	// Deserialize decodes data into a message of the named type
	Deserialize(typeName string, data []byte) (any, error)
	// TypeName returns the name of the type of message
	TypeName(message any) (string, error)
}

// Serialization holds the serializers of a remote system, keyed by id
type Serialization struct {
	mu          sync.RWMutex
	serializers map[int32]Serializer
	types       *types.Registry
	defaultID   int32
}

// NewSerialization creates a Serialization with the protobuf, CBOR and JSON
// serializers registered. The actor system messages that cross the wire and
// the activator messages are registered with the CBOR serializer.
func NewSerialization(defaultID int32) *Serialization {
	registry := types.NewRegistry()
	registry.Register(
		new(actor.Watch),
		new(actor.Unwatch),
		new(actor.Terminated),
		new(actor.Stop),
		new(actor.PoisonPill),
		new(actor.DeadLetterResponse),
		new(ActorPidRequest),
		new(ActorPidResponse),
	)

	return &Serialization{
		serializers: map[int32]Serializer{
			ProtoSerializerID: newProtoSerializer(),
			CBORSerializerID:  newCBORSerializer(registry),
			JSONSerializerID:  newJSONSerializer(),
		},
		types:     registry,
		defaultID: defaultID,
	}
}

// DefaultSerializerID returns the id advertised to connecting writers
func (s *Serialization) DefaultSerializerID() int32 {
	return s.defaultID
}

// RegisterSerializer adds or replaces the serializer of id
func (s *Serialization) RegisterSerializer(id int32, serializer Serializer) {
	s.mu.Lock()
	s.serializers[id] = serializer
	s.mu.Unlock()
}

// RegisterTypes makes the types of values known to the CBOR serializer
func (s *Serialization) RegisterTypes(values ...any) {
	s.types.Register(values...)
}

// Serialize encodes message with the serializer of id and returns the
// payload and the type name
func (s *Serialization) Serialize(message any, id int32) ([]byte, string, error) {
	serializer, err := s.serializer(id)
	if err != nil {
		return nil, "", err
	}

	typeName, err := serializer.TypeName(message)
	if err != nil {
		return nil, "", err
	}

	data, err := serializer.Serialize(message)
	if err != nil {
		return nil, "", err
	}
	return data, typeName, nil
}

// Deserialize decodes data with the serializer of id
func (s *Serialization) Deserialize(typeName string, data []byte, id int32) (any, error) {
	serializer, err := s.serializer(id)
	if err != nil {
		return nil, err
	}
	return serializer.Deserialize(typeName, data)
}

func (s *Serialization) serializer(id int32) (Serializer, error) {
	s.mu.RLock()
	serializer, ok := s.serializers[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: id=%d", gerrors.ErrSerializerNotFound, id)
	}
	return serializer, nil
}
