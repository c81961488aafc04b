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

package message

import (
	"encoding"
)

// Header holds the routing attributes of a Message.
// Timeout and Sequence are carried for the broker and never interpreted by a mailbox.
type Header struct {
	// Sender is the address of the client that sent the message
	Sender string
	// Address is the recipient mailbox address
	Address string
	// Subject is the message subject
	Subject string
	// Tracker is the caller supplied tracking identifier
	Tracker string
	// Timeout is the delivery timeout in milliseconds
	Timeout uint32
	// Sequence is an opaque correlation counter
	Sequence uint64
}

// Message is a unit of mail held by a mailbox until its recipient fetches it.
//
// Both sizes are computed once, when the message is built, and never change
// afterwards: a mailbox accounts for a message with the size it had when it
// was enqueued and releases exactly that amount when it lets go of it.
type Message struct {
	header      Header
	content     [][]byte
	contentSize uint64
	encodedSize uint64
}

var (
	_ encoding.BinaryMarshaler   = (*Message)(nil)
	_ encoding.BinaryUnmarshaler = (*Message)(nil)
)

// New creates a Message with the given header and content frames.
// The message takes ownership of the frames; callers must not modify them afterwards.
func New(header Header, content ...[]byte) *Message {
	msg := &Message{
		header:  header,
		content: content,
	}
	msg.computeSizes()
	return msg
}

// Sender returns the sender address
func (m *Message) Sender() string {
	return m.header.Sender
}

// Address returns the recipient address
func (m *Message) Address() string {
	return m.header.Address
}

// Subject returns the message subject
func (m *Message) Subject() string {
	return m.header.Subject
}

// Tracker returns the message tracker identifier
func (m *Message) Tracker() string {
	return m.header.Tracker
}

// Timeout returns the delivery timeout in milliseconds
func (m *Message) Timeout() uint32 {
	return m.header.Timeout
}

// Sequence returns the correlation sequence
func (m *Message) Sequence() uint64 {
	return m.header.Sequence
}

// Header returns a copy of the message header
func (m *Message) Header() Header {
	return m.header
}

// Content returns the content frames. The returned slice must not be modified.
func (m *Message) Content() [][]byte {
	return m.content
}

// ContentSize returns the total number of content bytes
func (m *Message) ContentSize() uint64 {
	return m.contentSize
}

// EncodedSize returns the number of bytes MarshalBinary produces
func (m *Message) EncodedSize() uint64 {
	return m.encodedSize
}

// String returns the "sender/subject" form of the message header
func (m *Message) String() string {
	return m.header.Sender + "/" + m.header.Subject
}

func (m *Message) computeSizes() {
	var contentSize uint64
	for _, frame := range m.content {
		contentSize += uint64(len(frame))
	}
	m.contentSize = contentSize
	m.encodedSize = uint64(encodedSize(m.header, m.content))
}
