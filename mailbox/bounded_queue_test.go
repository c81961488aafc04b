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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/mailbox/message"
)

// occupiedSum recomputes the bytes held by queue
func occupiedSum(queue *BoundedQueue) uint64 {
	var sum uint64
	queue.Each(func(msg *message.Message) bool {
		sum += msg.ContentSize()
		return true
	})
	return sum
}

func TestBoundedQueue(t *testing.T) {
	t.Run("With FIFO order", func(t *testing.T) {
		queue := NewBoundedQueue(NewSizeLimit(Unlimited), message.ContentSizer)
		for i := 0; i < 5; i++ {
			evicted, freed := queue.Enqueue(newMessage("sender", "subject", word(i)))
			assert.Zero(t, evicted)
			assert.Zero(t, freed)
		}
		assert.Equal(t, 5, queue.Len())
		assert.EqualValues(t, 50, queue.Occupied())

		for i := 0; i < 5; i++ {
			msg, ok := queue.Dequeue()
			require.True(t, ok)
			assert.Equal(t, word(i), string(msg.Content()[0]))
		}
	})

	t.Run("With empty queue", func(t *testing.T) {
		queue := NewBoundedQueue(NewSizeLimit(Unlimited), nil)
		msg, ok := queue.Dequeue()
		assert.False(t, ok)
		assert.Nil(t, msg)
		assert.Zero(t, queue.Occupied())
		assert.Zero(t, queue.Len())
	})

	t.Run("With size invariant", func(t *testing.T) {
		queue := NewBoundedQueue(NewSizeLimit(25), message.ContentSizer)
		bodies := []string{"a", "bbbbbbbbbb", "ccc", "dddddddddddddddd", "ee", "f"}
		for _, body := range bodies {
			queue.Enqueue(newMessage("sender", "subject", body))
			assert.Equal(t, occupiedSum(queue), queue.Occupied())
			assert.LessOrEqual(t, queue.Occupied(), uint64(25))
		}
		for queue.Len() > 0 {
			_, ok := queue.Dequeue()
			require.True(t, ok)
			assert.Equal(t, occupiedSum(queue), queue.Occupied())
		}
		assert.Zero(t, queue.Occupied())
	})

	t.Run("With eviction keeping the most recent messages", func(t *testing.T) {
		const (
			limit = 35
			size  = 10
			count = 8
		)
		queue := NewBoundedQueue(NewSizeLimit(limit), message.ContentSizer)
		var evictedTotal int
		var freedTotal uint64
		for i := 0; i < count; i++ {
			evicted, freed := queue.Enqueue(newMessage("sender", "subject", word(i)))
			evictedTotal += evicted
			freedTotal += freed
		}

		kept := limit / size
		require.Equal(t, kept, queue.Len())
		assert.Equal(t, count-kept, evictedTotal)
		assert.EqualValues(t, (count-kept)*size, freedTotal)
		for i := count - kept; i < count; i++ {
			msg, ok := queue.Dequeue()
			require.True(t, ok)
			assert.Equal(t, word(i), string(msg.Content()[0]))
		}
	})

	t.Run("With oversized message admitted alone", func(t *testing.T) {
		queue := NewBoundedQueue(NewSizeLimit(5), message.ContentSizer)
		queue.Enqueue(newMessage("sender", "subject", "abc"))
		evicted, freed := queue.Enqueue(newMessage("sender", "subject", "oversized"))
		assert.Equal(t, 1, evicted)
		assert.EqualValues(t, 3, freed)
		assert.Equal(t, 1, queue.Len())
		assert.EqualValues(t, 9, queue.Occupied())

		// the next message pushes the oversized one out
		evicted, freed = queue.Enqueue(newMessage("sender", "subject", "xy"))
		assert.Equal(t, 1, evicted)
		assert.EqualValues(t, 9, freed)
		msg, ok := queue.Dequeue()
		require.True(t, ok)
		assert.Equal(t, "xy", string(msg.Content()[0]))
	})

	t.Run("With zero limit", func(t *testing.T) {
		queue := NewBoundedQueue(NewSizeLimit(0), message.ContentSizer)
		for i := 0; i < 3; i++ {
			queue.Enqueue(newMessage("sender", "subject", word(i)))
			assert.Equal(t, 1, queue.Len())
		}
		msg, ok := queue.Dequeue()
		require.True(t, ok)
		assert.Equal(t, word(2), string(msg.Content()[0]))
	})

	t.Run("With lazy limit change", func(t *testing.T) {
		limit := NewSizeLimit(Unlimited)
		queue := NewBoundedQueue(limit, message.ContentSizer)
		for i := 0; i < 10; i++ {
			queue.Enqueue(newMessage("sender", "subject", word(i)))
		}

		limit.Set(30)
		assert.Equal(t, 10, queue.Len())
		assert.EqualValues(t, 100, queue.Occupied())

		evicted, _ := queue.Enqueue(newMessage("sender", "subject", word(10)))
		assert.Equal(t, 8, evicted)
		assert.Equal(t, 3, queue.Len())
		msg, ok := queue.Dequeue()
		require.True(t, ok)
		assert.Equal(t, word(8), string(msg.Content()[0]))
	})

	t.Run("With limit of 100 and 21 words", func(t *testing.T) {
		queue := NewBoundedQueue(NewSizeLimit(100), message.ContentSizer)
		for i := 0; i < 10; i++ {
			queue.Enqueue(newMessage("sender", "subject", word(i)))
		}
		assert.EqualValues(t, 100, queue.Occupied())

		for i := 10; i <= 20; i++ {
			evicted, freed := queue.Enqueue(newMessage("sender", "subject", word(i)))
			assert.Equal(t, 1, evicted)
			assert.EqualValues(t, 10, freed)
		}

		for i := 11; i <= 20; i++ {
			msg, ok := queue.Dequeue()
			require.True(t, ok)
			assert.Equal(t, word(i), string(msg.Content()[0]))
		}
		_, ok := queue.Dequeue()
		assert.False(t, ok)
	})

	t.Run("With encoded sizer", func(t *testing.T) {
		queue := NewBoundedQueue(NewSizeLimit(Unlimited), message.EncodedSizer)
		msg := newMessage("sender", "subject", "body")
		queue.Enqueue(msg)
		assert.Equal(t, msg.EncodedSize(), queue.Occupied())
	})

	t.Run("With Each stopping early", func(t *testing.T) {
		queue := NewBoundedQueue(NewSizeLimit(Unlimited), message.ContentSizer)
		for i := 0; i < 5; i++ {
			queue.Enqueue(newMessage("sender", "subject", word(i)))
		}
		var seen []string
		queue.Each(func(msg *message.Message) bool {
			seen = append(seen, string(msg.Content()[0]))
			return len(seen) < 2
		})
		assert.Equal(t, []string{word(0), word(1)}, seen)
	})
}
