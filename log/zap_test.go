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

package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLevels(t *testing.T) {
	t.Run("With an unknown level falls back to debug", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(7, buffer)
		require.Equal(t, DebugLevel, logger.LogLevel())

		logger.Debug("test debug")
		actual, err := extractMessage(buffer.Bytes())
		require.NoError(t, err)
		require.Equal(t, "test debug", actual)

		lvl, err := extractLevel(buffer.Bytes())
		require.NoError(t, err)
		require.Equal(t, DebugLevel.String(), lvl)
	})
	t.Run("With info level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		require.Equal(t, InfoLevel, logger.LogLevel())
		require.False(t, logger.Enabled(DebugLevel))
		require.True(t, logger.Enabled(ErrorLevel))

		logger.Debugf("dropped %d", 1)
		require.Empty(t, buffer.Bytes())

		logger.Infof("stored %d messages", 3)
		actual, err := extractMessage(buffer.Bytes())
		require.NoError(t, err)
		require.Equal(t, "stored 3 messages", actual)

		lvl, err := extractLevel(buffer.Bytes())
		require.NoError(t, err)
		require.Equal(t, InfoLevel.String(), lvl)
	})
	t.Run("With warning level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		require.Equal(t, WarningLevel, logger.LogLevel())

		logger.Info("dropped")
		require.Empty(t, buffer.Bytes())

		logger.Warn("test warn")
		actual, err := extractMessage(buffer.Bytes())
		require.NoError(t, err)
		require.Equal(t, "test warn", actual)

		lvl, err := extractLevel(buffer.Bytes())
		require.NoError(t, err)
		require.Equal(t, WarningLevel.String(), lvl)
	})
	t.Run("With error level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(ErrorLevel, buffer)
		require.Equal(t, ErrorLevel, logger.LogLevel())

		logger.Errorf("trailing frames (%s)", "STORE")
		actual, err := extractMessage(buffer.Bytes())
		require.NoError(t, err)
		require.Equal(t, "trailing frames (STORE)", actual)
	})
	t.Run("With panic level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(PanicLevel, buffer)
		require.Equal(t, PanicLevel, logger.LogLevel())
		assert.Panics(t, func() {
			logger.Panic("test panic")
		})
	})
}

func TestZapWith(t *testing.T) {
	t.Run("adds structured fields to output", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("component", "mailbox", "queues", 3).Info("started")

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		require.Contains(t, m, "component")
		require.Contains(t, m, "queues")
	})
	t.Run("returns the same logger when there are no fields", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, logger, logger.With())
		assert.Equal(t, logger, logger.With(1, 2))
	})
	t.Run("logs an orphan value under _", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("address", "Bob", "orphan").Info("msg")

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		require.Contains(t, m, "address")
		require.Contains(t, m, "_")
	})
}

func TestZapFlush(t *testing.T) {
	file, err := os.Create(filepath.Join(t.TempDir(), "mailbox.log"))
	require.NoError(t, err)
	defer file.Close()

	logger := NewZap(InfoLevel, file, os.Stdout)
	logger.Info("flushed")
	require.NoError(t, logger.Flush())
	require.Len(t, logger.LogOutput(), 2)

	content, err := os.ReadFile(file.Name())
	require.NoError(t, err)
	actual, err := extractMessage(bytes.TrimSpace(content))
	require.NoError(t, err)
	require.Equal(t, "flushed", actual)
}

func TestParseLevel(t *testing.T) {
	for name, expected := range map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"":        InfoLevel,
		"warning": WarningLevel,
		"warn":    WarningLevel,
		"error":   ErrorLevel,
		"fatal":   FatalLevel,
		"panic":   PanicLevel,
	} {
		actual, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, expected, actual, name)
	}

	_, err := ParseLevel("verbose")
	require.Error(t, err)
	assert.Equal(t, "invalid", InvalidLevel.String())
}

func extractMessage(bytes []byte) (string, error) {
	return extractField(bytes, "msg")
}

func extractLevel(bytes []byte) (string, error) {
	return extractField(bytes, "level")
}

func extractField(bytes []byte, key string) (string, error) {
	c := make(map[string]json.RawMessage)
	if err := json.Unmarshal(bytes, &c); err != nil {
		return "", err
	}
	if v, ok := c[key]; ok {
		return strconv.Unquote(string(v))
	}
	return "", nil
}
