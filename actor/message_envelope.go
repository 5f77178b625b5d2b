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

package actor

import (
	"maps"
	"slices"
)

// MessageHeader carries string metadata alongside a message
type MessageHeader map[string]string

// EmptyMessageHeader is the header of messages sent without one
var EmptyMessageHeader = make(MessageHeader)

// Get returns the value stored under key
func (h MessageHeader) Get(key string) string {
	return h[key]
}

// Keys returns the header keys, sorted
func (h MessageHeader) Keys() []string {
	return slices.Sorted(maps.Keys(h))
}

// Length returns the number of entries
func (h MessageHeader) Length() int {
	return len(h)
}

// ToMap returns a copy of the header
func (h MessageHeader) ToMap() map[string]string {
	return maps.Clone(map[string]string(h))
}

// MessageEnvelope wraps a user message that carries a sender or a header
type MessageEnvelope struct {
	Header  MessageHeader
	Message any
	Sender  *PID
}

// WrapEnvelope wraps message unless it already is an envelope
func WrapEnvelope(message any) *MessageEnvelope {
	if envelope, ok := message.(*MessageEnvelope); ok {
		return envelope
	}
	return &MessageEnvelope{Message: message}
}

// UnwrapEnvelope splits a possibly wrapped message into its parts
func UnwrapEnvelope(message any) (MessageHeader, any, *PID) {
	if envelope, ok := message.(*MessageEnvelope); ok {
		return envelope.Header, envelope.Message, envelope.Sender
	}
	return nil, message, nil
}

// UnwrapEnvelopeMessage returns the message carried by a possibly wrapped message
func UnwrapEnvelopeMessage(message any) any {
	if envelope, ok := message.(*MessageEnvelope); ok {
		return envelope.Message
	}
	return message
}

// UnwrapEnvelopeSender returns the sender of a possibly wrapped message
func UnwrapEnvelopeSender(message any) *PID {
	if envelope, ok := message.(*MessageEnvelope); ok {
		return envelope.Sender
	}
	return nil
}

// UnwrapEnvelopeHeader returns the header of a possibly wrapped message
func UnwrapEnvelopeHeader(message any) MessageHeader {
	if envelope, ok := message.(*MessageEnvelope); ok && envelope.Header != nil {
		return envelope.Header
	}
	return EmptyMessageHeader
}
