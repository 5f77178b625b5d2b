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

package metric

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// addressKey tags writer-side instruments with the remote endpoint address
const addressKey = attribute.Key("protoakt.remote.address")

// RemoteMetric defines the remote endpoint instrumentation
type RemoteMetric struct {
	endpoints    metric.Int64UpDownCounter
	batchesSent  metric.Int64Counter
	messagesSent metric.Int64Counter
	messagesRecv metric.Int64Counter
	sendFailures metric.Int64Counter
}

// NewRemoteMetric creates an instance of RemoteMetric
func NewRemoteMetric(meter metric.Meter) (*RemoteMetric, error) {
	remoteMetric := new(RemoteMetric)
	var err error
	if remoteMetric.endpoints, err = meter.Int64UpDownCounter(
		"remote_endpoints_count",
		metric.WithDescription("Number of live remote endpoints"),
	); err != nil {
		return nil, fmt.Errorf("failed to create endpoints instrument, %w", err)
	}

	if remoteMetric.batchesSent, err = meter.Int64Counter(
		"remote_batches_sent_count",
		metric.WithDescription("Total number of message batches written to remote endpoints"),
	); err != nil {
		return nil, fmt.Errorf("failed to create batchesSent instrument, %w", err)
	}

	if remoteMetric.messagesSent, err = meter.Int64Counter(
		"remote_messages_sent_count",
		metric.WithDescription("Total number of messages written to remote endpoints"),
	); err != nil {
		return nil, fmt.Errorf("failed to create messagesSent instrument, %w", err)
	}

	if remoteMetric.messagesRecv, err = meter.Int64Counter(
		"remote_messages_received_count",
		metric.WithDescription("Total number of messages received from remote endpoints"),
	); err != nil {
		return nil, fmt.Errorf("failed to create messagesRecv instrument, %w", err)
	}

	if remoteMetric.sendFailures, err = meter.Int64Counter(
		"remote_send_failures_count",
		metric.WithDescription("Total number of batches that failed to be written"),
	); err != nil {
		return nil, fmt.Errorf("failed to create sendFailures instrument, %w", err)
	}
	return remoteMetric, nil
}

// EndpointConnected records a new live endpoint
func (x *RemoteMetric) EndpointConnected(ctx context.Context, address string) {
	x.endpoints.Add(ctx, 1, withAddress(address))
}

// EndpointTerminated records the loss of a live endpoint
func (x *RemoteMetric) EndpointTerminated(ctx context.Context, address string) {
	x.endpoints.Add(ctx, -1, withAddress(address))
}

// BatchSent records a batch of size messages written to an endpoint
func (x *RemoteMetric) BatchSent(ctx context.Context, address string, size int) {
	x.batchesSent.Add(ctx, 1, withAddress(address))
	x.messagesSent.Add(ctx, int64(size), withAddress(address))
}

// MessagesReceived records size inbound messages
func (x *RemoteMetric) MessagesReceived(ctx context.Context, size int) {
	x.messagesRecv.Add(ctx, int64(size))
}

// SendFailed records a batch that could not be written
func (x *RemoteMetric) SendFailed(ctx context.Context, address string) {
	x.sendFailures.Add(ctx, 1, withAddress(address))
}

func withAddress(address string) metric.AddOption {
	return metric.WithAttributes(addressKey.String(address))
}
