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

package strconvx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDigits(t *testing.T) {
	t.Run("With valid value", func(t *testing.T) {
		got, err := ParseDigits("1024")
		require.NoError(t, err)
		assert.EqualValues(t, 1024, got)

		got, err = ParseDigits("0")
		require.NoError(t, err)
		assert.Zero(t, got)

		got, err = ParseDigits("18446744073709551615")
		require.NoError(t, err)
		assert.EqualValues(t, uint64(math.MaxUint64), got)
	})

	t.Run("With invalid value", func(t *testing.T) {
		for _, input := range []string{"", "-1", "+1", " 1", "1 ", "12abc", "0x10", "1_000", "18446744073709551616"} {
			_, err := ParseDigits(input)
			assert.Error(t, err, input)
		}
	})
}

func TestUint64ToInt64(t *testing.T) {
	assert.EqualValues(t, 42, Uint64ToInt64(42))
	assert.EqualValues(t, int64(math.MaxInt64), Uint64ToInt64(math.MaxUint64))
}
