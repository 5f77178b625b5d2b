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

// Package metric holds the OpenTelemetry instruments of the actor runtime
package metric

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/tochemey/protoakt/mailbox"
)

// MailboxStatistics records mailbox activity on OpenTelemetry counters.
// One instance can be shared by every mailbox of a producer.
type MailboxStatistics struct {
	started  metric.Int64Counter
	posted   metric.Int64Counter
	received metric.Int64Counter
	queued   metric.Int64UpDownCounter
	drained  metric.Int64Counter
}

// enforce compilation error
var _ mailbox.Statistics = (*MailboxStatistics)(nil)

// NewMailboxStatistics creates an instance of MailboxStatistics
func NewMailboxStatistics(meter metric.Meter) (*MailboxStatistics, error) {
	stats := new(MailboxStatistics)
	var err error
	if stats.started, err = meter.Int64Counter(
		"mailbox_started_count",
		metric.WithDescription("Total number of mailboxes started"),
	); err != nil {
		return nil, fmt.Errorf("failed to create started instrument, %w", err)
	}

	if stats.posted, err = meter.Int64Counter(
		"mailbox_posted_count",
		metric.WithDescription("Total number of user messages posted"),
	); err != nil {
		return nil, fmt.Errorf("failed to create posted instrument, %w", err)
	}

	if stats.received, err = meter.Int64Counter(
		"mailbox_received_count",
		metric.WithDescription("Total number of user messages handed to actors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create received instrument, %w", err)
	}

	if stats.queued, err = meter.Int64UpDownCounter(
		"mailbox_queued_count",
		metric.WithDescription("Number of user messages waiting in mailboxes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create queued instrument, %w", err)
	}

	if stats.drained, err = meter.Int64Counter(
		"mailbox_drained_count",
		metric.WithDescription("Total number of times a mailbox ran out of messages"),
	); err != nil {
		return nil, fmt.Errorf("failed to create drained instrument, %w", err)
	}
	return stats, nil
}

func (x *MailboxStatistics) MailboxStarted() {
	x.started.Add(context.Background(), 1)
}

func (x *MailboxStatistics) MessagePosted(any) {
	ctx := context.Background()
	x.posted.Add(ctx, 1)
	x.queued.Add(ctx, 1)
}

func (x *MailboxStatistics) MessageReceived(any) {
	ctx := context.Background()
	x.received.Add(ctx, 1)
	x.queued.Add(ctx, -1)
}

func (x *MailboxStatistics) MailboxEmpty() {
	x.drained.Add(context.Background(), 1)
}
