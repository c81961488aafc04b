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
	"math"
	"strconv"

	"go.uber.org/atomic"

	gerrors "github.com/tochemey/mailbox/errors"
	"github.com/tochemey/mailbox/internal/strconvx"
)

// Unlimited is the size limit that never triggers an eviction.
const Unlimited uint64 = math.MaxUint64

// maxKeyword is the textual form of Unlimited accepted by MAILBOX-SIZE-LIMIT.
const maxKeyword = "max"

// SizeLimit is the per queue byte budget. The engine owns a single instance
// and every BoundedQueue holds a pointer to it, so a change is seen by all
// queues on their next enqueue.
type SizeLimit struct {
	bytes *atomic.Uint64
}

// NewSizeLimit creates a SizeLimit set to bytes.
func NewSizeLimit(bytes uint64) *SizeLimit {
	return &SizeLimit{bytes: atomic.NewUint64(bytes)}
}

// Bytes returns the current limit.
func (x *SizeLimit) Bytes() uint64 {
	return x.bytes.Load()
}

// Set replaces the current limit.
func (x *SizeLimit) Set(bytes uint64) {
	x.bytes.Store(bytes)
}

// IsUnlimited reports whether the limit is Unlimited.
func (x *SizeLimit) IsUnlimited() bool {
	return x.Bytes() == Unlimited
}

// Parse applies input when it is a valid limit. On failure the current
// value is left untouched and the error is returned.
func (x *SizeLimit) Parse(input string) error {
	bytes, err := ParseSizeLimit(input)
	if err != nil {
		return err
	}
	x.Set(bytes)
	return nil
}

// String returns "max" for Unlimited, the decimal value otherwise.
func (x *SizeLimit) String() string {
	return FormatSizeLimit(x.Bytes())
}

// ParseSizeLimit reads a MAILBOX-SIZE-LIMIT argument: the literal "max" or
// a decimal byte count with no sign, spaces or trailing characters.
func ParseSizeLimit(input string) (uint64, error) {
	if input == maxKeyword {
		return Unlimited, nil
	}
	bytes, err := strconvx.ParseDigits(input)
	if err != nil {
		return 0, gerrors.NewErrInvalidSizeLimit(input)
	}
	return bytes, nil
}

// FormatSizeLimit is the inverse of ParseSizeLimit.
func FormatSizeLimit(bytes uint64) string {
	if bytes == Unlimited {
		return maxKeyword
	}
	return strconv.FormatUint(bytes, 10)
}
