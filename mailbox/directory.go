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
	"slices"

	"github.com/tochemey/mailbox/message"
)

// Directory maps recipient addresses to their queue. Queues are created on
// first STORE and never removed. Directory is owned by the engine goroutine.
type Directory struct {
	queues map[string]*BoundedQueue
	limit  *SizeLimit
	sizer  message.Sizer
}

// NewDirectory creates an empty directory whose queues share limit.
func NewDirectory(limit *SizeLimit, sizer message.Sizer) *Directory {
	return &Directory{
		queues: make(map[string]*BoundedQueue),
		limit:  limit,
		sizer:  sizer,
	}
}

// GetOrCreate returns the queue of address, creating it when missing.
// created reports whether a new queue was made.
func (x *Directory) GetOrCreate(address string) (queue *BoundedQueue, created bool) {
	if queue, ok := x.queues[address]; ok {
		return queue, false
	}
	queue = NewBoundedQueue(x.limit, x.sizer)
	x.queues[address] = queue
	return queue, true
}

// Lookup returns the queue of address without creating it.
func (x *Directory) Lookup(address string) (*BoundedQueue, bool) {
	queue, ok := x.queues[address]
	return queue, ok
}

// Len returns the number of queues
func (x *Directory) Len() int {
	return len(x.queues)
}

// Addresses returns the known addresses in lexical order.
func (x *Directory) Addresses() []string {
	addresses := make([]string, 0, len(x.queues))
	for address := range x.queues {
		addresses = append(addresses, address)
	}
	slices.Sort(addresses)
	return addresses
}
