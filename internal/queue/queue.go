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

package queue

// minQueueLen is the smallest capacity that queue may have.
// Must be power of 2 for bitwise modulus: x % n == x & (n - 1).
const minQueueLen = 16

// Queue is a growable FIFO ring buffer.
//
// Queue is not safe for concurrent use. It is meant to be owned by a single
// goroutine, such as the goroutine running a mailbox engine.
// reference: https://github.com/eapache/queue
type Queue[T any] struct {
	nodes []T
	head  int
	tail  int
	count int
}

// New creates an empty Queue
func New[T any]() *Queue[T] {
	return &Queue[T]{
		nodes: make([]T, minQueueLen),
	}
}

// Push adds an item to the back of the queue
func (q *Queue[T]) Push(item T) {
	if q.count == len(q.nodes) {
		q.resize(q.count << 1)
	}
	q.nodes[q.tail] = item
	// bitwise modulus
	q.tail = (q.tail + 1) & (len(q.nodes) - 1)
	q.count++
}

// Pop removes the item from the front of the queue.
// It returns false when the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q.count == 0 {
		return zero, false
	}

	item := q.nodes[q.head]
	// release the reference so the item can be collected
	q.nodes[q.head] = zero
	q.head = (q.head + 1) & (len(q.nodes) - 1)
	q.count--

	// resize down if buffer 1/4 full.
	if len(q.nodes) > minQueueLen && (q.count<<2) == len(q.nodes) {
		q.resize(q.count << 1)
	}
	return item, true
}

// Peek returns the item at the front of the queue without removing it.
// It returns false when the queue is empty.
func (q *Queue[T]) Peek() (T, bool) {
	if q.count == 0 {
		var zero T
		return zero, false
	}
	return q.nodes[q.head], true
}

// Len returns the number of items in the queue
func (q *Queue[T]) Len() int {
	return q.count
}

// IsEmpty returns true when the queue is empty
func (q *Queue[T]) IsEmpty() bool {
	return q.count == 0
}

// Each calls fn for every item from front to back with its position.
// Iteration stops when fn returns false. fn must not modify the queue.
func (q *Queue[T]) Each(fn func(index int, item T) bool) {
	for i := 0; i < q.count; i++ {
		if !fn(i, q.nodes[(q.head+i)&(len(q.nodes)-1)]) {
			return
		}
	}
}

func (q *Queue[T]) resize(size int) {
	nodes := make([]T, size)
	if q.tail > q.head {
		copy(nodes, q.nodes[q.head:q.tail])
	} else {
		n := copy(nodes, q.nodes[q.head:])
		copy(nodes[n:], q.nodes[:q.tail])
	}

	q.tail = q.count & (size - 1)
	q.head = 0
	q.nodes = nodes
}
