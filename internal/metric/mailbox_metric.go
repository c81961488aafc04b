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
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// MailboxMetric defines the mailbox engine instrumentation
type MailboxMetric struct {
	// Specifies the total number of messages stored
	storedCount metric.Int64ObservableCounter
	// Specifies the total number of messages delivered to a QUERY
	deliveredCount metric.Int64ObservableCounter
	// Specifies the total number of messages evicted on overflow
	evictedCount metric.Int64ObservableCounter
	// Specifies the total payload bytes released by evictions
	evictedBytes metric.Int64ObservableCounter
	// Specifies the number of mailbox queues
	queues metric.Int64ObservableGauge
	// Specifies the bytes currently buffered across queues
	occupiedBytes metric.Int64ObservableGauge
	// Specifies the per-queue size limit in bytes
	sizeLimit metric.Int64ObservableGauge
}

// NewMailboxMetric creates an instance of MailboxMetric
func NewMailboxMetric(meter metric.Meter) (*MailboxMetric, error) {
	mailboxMetric := new(MailboxMetric)
	var err error

	if mailboxMetric.storedCount, err = meter.Int64ObservableCounter(
		"mailbox_stored_count",
		metric.WithDescription("Total number of messages stored"),
	); err != nil {
		return nil, fmt.Errorf("failed to create storedCount instrument, %w", err)
	}

	if mailboxMetric.deliveredCount, err = meter.Int64ObservableCounter(
		"mailbox_delivered_count",
		metric.WithDescription("Total number of messages delivered"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deliveredCount instrument, %w", err)
	}

	if mailboxMetric.evictedCount, err = meter.Int64ObservableCounter(
		"mailbox_evicted_count",
		metric.WithDescription("Total number of messages evicted on overflow"),
	); err != nil {
		return nil, fmt.Errorf("failed to create evictedCount instrument, %w", err)
	}

	if mailboxMetric.evictedBytes, err = meter.Int64ObservableCounter(
		"mailbox_evicted_bytes",
		metric.WithDescription("Total number of bytes released by evictions"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("failed to create evictedBytes instrument, %w", err)
	}

	if mailboxMetric.queues, err = meter.Int64ObservableGauge(
		"mailbox_queues",
		metric.WithDescription("Number of mailbox queues"),
	); err != nil {
		return nil, fmt.Errorf("failed to create queues instrument, %w", err)
	}

	if mailboxMetric.occupiedBytes, err = meter.Int64ObservableGauge(
		"mailbox_occupied_bytes",
		metric.WithDescription("Bytes currently buffered across all mailbox queues"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("failed to create occupiedBytes instrument, %w", err)
	}

	if mailboxMetric.sizeLimit, err = meter.Int64ObservableGauge(
		"mailbox_size_limit",
		metric.WithDescription("Per queue size limit in bytes, -1 when unlimited"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("failed to create sizeLimit instrument, %w", err)
	}

	return mailboxMetric, nil
}

// StoredCount returns the total number of messages stored
func (x *MailboxMetric) StoredCount() metric.Int64ObservableCounter {
	return x.storedCount
}

// DeliveredCount returns the total number of messages delivered
func (x *MailboxMetric) DeliveredCount() metric.Int64ObservableCounter {
	return x.deliveredCount
}

// EvictedCount returns the total number of messages evicted
func (x *MailboxMetric) EvictedCount() metric.Int64ObservableCounter {
	return x.evictedCount
}

// EvictedBytes returns the total number of bytes released by evictions
func (x *MailboxMetric) EvictedBytes() metric.Int64ObservableCounter {
	return x.evictedBytes
}

// Queues returns the number of mailbox queues
func (x *MailboxMetric) Queues() metric.Int64ObservableGauge {
	return x.queues
}

// OccupiedBytes returns the bytes currently buffered
func (x *MailboxMetric) OccupiedBytes() metric.Int64ObservableGauge {
	return x.occupiedBytes
}

// SizeLimit returns the per queue size limit
func (x *MailboxMetric) SizeLimit() metric.Int64ObservableGauge {
	return x.sizeLimit
}

// Observables returns every instrument, ready for Meter.RegisterCallback
func (x *MailboxMetric) Observables() []metric.Observable {
	return []metric.Observable{
		x.storedCount,
		x.deliveredCount,
		x.evictedCount,
		x.evictedBytes,
		x.queues,
		x.occupiedBytes,
		x.sizeLimit,
	}
}
