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

package mailbox

import (
	"go.uber.org/atomic"
)

// Stats is a point in time view of the engine counters.
type Stats struct {
	// Queues is the number of mailbox queues
	Queues int64
	// OccupiedBytes is the sum of the bytes held by every queue
	OccupiedBytes uint64
	// SizeLimit is the current per queue limit
	SizeLimit uint64
	// Stored is the number of messages accepted by STORE
	Stored uint64
	// Delivered is the number of messages handed to a QUERY
	Delivered uint64
	// Evicted is the number of messages dropped on overflow
	Evicted uint64
	// EvictedBytes is the number of bytes released by evictions
	EvictedBytes uint64
}

// counters are written by the engine goroutine and read by Stats and the
// metric callback.
type counters struct {
	queues        *atomic.Int64
	occupiedBytes *atomic.Uint64
	stored        *atomic.Uint64
	delivered     *atomic.Uint64
	evicted       *atomic.Uint64
	evictedBytes  *atomic.Uint64
}

func newCounters() *counters {
	return &counters{
		queues:        atomic.NewInt64(0),
		occupiedBytes: atomic.NewUint64(0),
		stored:        atomic.NewUint64(0),
		delivered:     atomic.NewUint64(0),
		evicted:       atomic.NewUint64(0),
		evictedBytes:  atomic.NewUint64(0),
	}
}

// Stats returns a snapshot of the engine counters. Safe for concurrent use.
func (e *Engine) Stats() Stats {
	return Stats{
		Queues:        e.counters.queues.Load(),
		OccupiedBytes: e.counters.occupiedBytes.Load(),
		SizeLimit:     e.limit.Bytes(),
		Stored:        e.counters.stored.Load(),
		Delivered:     e.counters.delivered.Load(),
		Evicted:       e.counters.evicted.Load(),
		EvictedBytes:  e.counters.evictedBytes.Load(),
	}
}
