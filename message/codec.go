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
	"bytes"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	gerrors "github.com/tochemey/mailbox/errors"
)

// wire field numbers
const (
	senderField   protowire.Number = 1
	addressField  protowire.Number = 2
	subjectField  protowire.Number = 3
	trackerField  protowire.Number = 4
	timeoutField  protowire.Number = 5
	sequenceField protowire.Number = 6
	contentField  protowire.Number = 7
)

// MarshalBinary encodes the message in the protobuf wire format.
// Empty header fields are omitted; every content frame is written, empty ones included.
func (m *Message) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, m.encodedSize)
	buf = appendString(buf, senderField, m.header.Sender)
	buf = appendString(buf, addressField, m.header.Address)
	buf = appendString(buf, subjectField, m.header.Subject)
	buf = appendString(buf, trackerField, m.header.Tracker)
	buf = appendVarint(buf, timeoutField, uint64(m.header.Timeout))
	buf = appendVarint(buf, sequenceField, m.header.Sequence)
	for _, frame := range m.content {
		buf = protowire.AppendTag(buf, contentField, protowire.BytesType)
		buf = protowire.AppendBytes(buf, frame)
	}
	return buf, nil
}

// UnmarshalBinary decodes a message produced by MarshalBinary and recomputes its sizes.
// Unknown fields are skipped. The receiver is left untouched when decoding fails.
func (m *Message) UnmarshalBinary(data []byte) error {
	var (
		header  Header
		content [][]byte
	)

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return gerrors.NewErrInvalidMessage(protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == senderField && typ == protowire.BytesType:
			header.Sender, n = protowire.ConsumeString(data)
		case num == addressField && typ == protowire.BytesType:
			header.Address, n = protowire.ConsumeString(data)
		case num == subjectField && typ == protowire.BytesType:
			header.Subject, n = protowire.ConsumeString(data)
		case num == trackerField && typ == protowire.BytesType:
			header.Tracker, n = protowire.ConsumeString(data)
		case num == timeoutField && typ == protowire.VarintType:
			var timeout uint64
			timeout, n = protowire.ConsumeVarint(data)
			if n >= 0 && timeout > math.MaxUint32 {
				return gerrors.NewErrInvalidMessage(fmt.Errorf("timeout %d out of range", timeout))
			}
			header.Timeout = uint32(timeout)
		case num == sequenceField && typ == protowire.VarintType:
			header.Sequence, n = protowire.ConsumeVarint(data)
		case num == contentField && typ == protowire.BytesType:
			var frame []byte
			frame, n = protowire.ConsumeBytes(data)
			if n >= 0 {
				content = append(content, bytes.Clone(frame))
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}

		if n < 0 {
			return gerrors.NewErrInvalidMessage(protowire.ParseError(n))
		}
		data = data[n:]
	}

	m.header = header
	m.content = content
	m.computeSizes()
	return nil
}

// Unmarshal decodes a message produced by MarshalBinary.
func Unmarshal(data []byte) (*Message, error) {
	msg := new(Message)
	if err := msg.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return msg, nil
}

func encodedSize(header Header, content [][]byte) int {
	size := sizeString(senderField, header.Sender) +
		sizeString(addressField, header.Address) +
		sizeString(subjectField, header.Subject) +
		sizeString(trackerField, header.Tracker) +
		sizeVarint(timeoutField, uint64(header.Timeout)) +
		sizeVarint(sequenceField, header.Sequence)
	for _, frame := range content {
		size += protowire.SizeTag(contentField) + protowire.SizeBytes(len(frame))
	}
	return size
}

func appendString(buf []byte, num protowire.Number, value string) []byte {
	if value == "" {
		return buf
	}
	buf = protowire.AppendTag(buf, num, protowire.BytesType)
	return protowire.AppendString(buf, value)
}

func appendVarint(buf []byte, num protowire.Number, value uint64) []byte {
	if value == 0 {
		return buf
	}
	buf = protowire.AppendTag(buf, num, protowire.VarintType)
	return protowire.AppendVarint(buf, value)
}

func sizeString(num protowire.Number, value string) int {
	if value == "" {
		return 0
	}
	return protowire.SizeTag(num) + protowire.SizeBytes(len(value))
}

func sizeVarint(num protowire.Number, value uint64) int {
	if value == 0 {
		return 0
	}
	return protowire.SizeTag(num) + protowire.SizeVarint(value)
}
