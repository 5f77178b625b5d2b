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

	"go.uber.org/multierr"

	"github.com/tochemey/protoakt/actor"
	gerrors "github.com/tochemey/protoakt/errors"
)

// ConnectRequest opens a session with a remote system
type ConnectRequest struct{}

// ConnectResponse tells the connecting writer which serializer the remote
// system expects when a message does not name one
type ConnectResponse struct {
	DefaultSerializerID int32 `cbor:"default_serializer_id"`
}

// Unit acknowledges a MessageBatch
type Unit struct{}

// MessageBatch is the unit shipped on the Receive stream. Target and type
// names are sent once per batch; envelopes reference them by index.
type MessageBatch struct {
	TargetNames []string           `cbor:"target_names"`
	TypeNames   []string           `cbor:"type_names"`
	Envelopes   []*MessageEnvelope `cbor:"envelopes"`
}

// MessageEnvelope is one serialized message of a MessageBatch
type MessageEnvelope struct {
	TypeID        int32          `cbor:"type_id"`
	MessageData   []byte         `cbor:"message_data"`
	Target        int32          `cbor:"target"`
	Sender        *actor.PID     `cbor:"sender,omitempty"`
	SerializerID  int32          `cbor:"serializer_id"`
	MessageHeader *MessageHeader `cbor:"message_header,omitempty"`
}

// MessageHeader carries the header of a message sent through a RootContext
// or a Context with a header
type MessageHeader struct {
	HeaderData map[string]string `cbor:"header_data"`
}

// inboundMessage is one decoded envelope of a MessageBatch
type inboundMessage struct {
	target  *actor.PID
	sender  *actor.PID
	header  actor.MessageHeader
	message any
}

// encodeBatch serializes deliveries into one MessageBatch. A delivery that
// cannot be serialized is left out and its error returned alongside the
// batch, so that one bad message does not drop its neighbours.
// defaultSerializerID replaces the negotiated id.
func encodeBatch(serialization *Serialization, deliveries []*RemoteDeliver, defaultSerializerID int32) (*MessageBatch, error) {
	var (
		batch = &MessageBatch{
			Envelopes: make([]*MessageEnvelope, 0, len(deliveries)),
		}
		targets = make(map[string]int32)
		names   = make(map[string]int32)
		errs    error
	)

	for _, delivery := range deliveries {
		serializerID := delivery.SerializerID
		if serializerID == negotiatedSerializerID {
			serializerID = defaultSerializerID
		}

		data, typeName, err := serialization.Serialize(delivery.Message, serializerID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("serialize %T for %s: %w", delivery.Message, delivery.Target, err))
			continue
		}

		envelope := &MessageEnvelope{
			TypeID:       dictionaryIndex(names, &batch.TypeNames, typeName),
			MessageData:  data,
			Target:       dictionaryIndex(targets, &batch.TargetNames, delivery.Target.ID),
			Sender:       delivery.Sender,
			SerializerID: serializerID,
		}

		if len(delivery.Header) > 0 {
			envelope.MessageHeader = &MessageHeader{HeaderData: delivery.Header.ToMap()}
		}

		batch.Envelopes = append(batch.Envelopes, envelope)
	}

	return batch, errs
}

// decodeBatch rebuilds the messages of batch addressed to the system at
// address. Envelopes that cannot be decoded are skipped and reported.
func decodeBatch(serialization *Serialization, address string, batch *MessageBatch) ([]*inboundMessage, error) {
	var (
		messages = make([]*inboundMessage, 0, len(batch.Envelopes))
		errs     error
	)

	for index, envelope := range batch.Envelopes {
		if envelope == nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: envelope %d is empty", gerrors.ErrInvalidBatch, index))
			continue
		}

		target, ok := lookup(batch.TargetNames, envelope.Target)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: envelope %d references target %d", gerrors.ErrInvalidBatch, index, envelope.Target))
			continue
		}

		typeName, ok := lookup(batch.TypeNames, envelope.TypeID)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: envelope %d references type %d", gerrors.ErrInvalidBatch, index, envelope.TypeID))
			continue
		}

		message, err := serialization.Deserialize(typeName, envelope.MessageData, envelope.SerializerID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("deserialize %s: %w", typeName, err))
			continue
		}

		var header actor.MessageHeader
		if envelope.MessageHeader != nil && len(envelope.MessageHeader.HeaderData) > 0 {
			header = envelope.MessageHeader.HeaderData
		}

		messages = append(messages, &inboundMessage{
			target:  actor.NewPID(address, target),
			sender:  envelope.Sender,
			header:  header,
			message: message,
		})
	}

	return messages, errs
}

// dictionaryIndex returns the index of value in dictionary, appending it
// on first use
func dictionaryIndex(index map[string]int32, dictionary *[]string, value string) int32 {
	if id, ok := index[value]; ok {
		return id
	}
	id := int32(len(*dictionary))
	index[value] = id
	*dictionary = append(*dictionary, value)
	return id
}

func lookup(dictionary []string, index int32) (string, bool) {
	if index < 0 || int(index) >= len(dictionary) {
		return "", false
	}
	return dictionary[index], true
}
