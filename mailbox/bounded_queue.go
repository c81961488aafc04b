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
	"github.com/tochemey/mailbox/internal/queue"
	"github.com/tochemey/mailbox/message"
)

// entry is a queued message along with the size charged for it
type entry struct {
	msg  *message.Message
	size uint64
}

// BoundedQueue is the FIFO of one recipient. The sum of the sizes it holds
// is kept at or under the shared SizeLimit by evicting the oldest messages
// when a new one is enqueued. A single message larger than the limit is
// still admitted, alone.
//
// BoundedQueue is not safe for concurrent use: the engine goroutine owns it.
type BoundedQueue struct {
	entries  *queue.Queue[entry]
	occupied uint64
	limit    *SizeLimit
	sizer    message.Sizer
}

// NewBoundedQueue creates an empty queue bound to limit.
func NewBoundedQueue(limit *SizeLimit, sizer message.Sizer) *BoundedQueue {
	if sizer == nil {
		sizer = message.ContentSizer
	}
	return &BoundedQueue{
		entries: queue.New[entry](),
		limit:   limit,
		sizer:   sizer,
	}
}

// Enqueue appends msg at the tail then evicts from the head until the queue
// fits the limit or only msg is left. It returns the number of evicted
// messages and the bytes they released.
func (x *BoundedQueue) Enqueue(msg *message.Message) (evicted int, freed uint64) {
	size := x.sizer(msg)
	x.entries.Push(entry{msg: msg, size: size})
	x.occupied += size

	limit := x.limit.Bytes()
	for x.occupied > limit && x.entries.Len() > 1 {
		head, _ := x.entries.Pop()
		x.occupied -= head.size
		freed += head.size
		evicted++
	}
	return evicted, freed
}

// Dequeue removes and returns the oldest message.
func (x *BoundedQueue) Dequeue() (*message.Message, bool) {
	head, ok := x.entries.Pop()
	if !ok {
		return nil, false
	}
	x.occupied -= head.size
	return head.msg, true
}

// Len returns the number of queued messages
func (x *BoundedQueue) Len() int {
	return x.entries.Len()
}

// Occupied returns the bytes currently charged to the queue
func (x *BoundedQueue) Occupied() uint64 {
	return x.occupied
}

// Each walks the queue from head to tail until fn returns false.
func (x *BoundedQueue) Each(fn func(msg *message.Message) bool) {
	x.entries.Each(func(_ int, item entry) bool {
		return fn(item.msg)
	})
}
