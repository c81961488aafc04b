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

package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/mailbox/log"
	"github.com/tochemey/mailbox/mailbox"
)

func runSession(t *testing.T, input string, opts ...mailbox.Option) []string {
	t.Helper()
	opts = append([]mailbox.Option{mailbox.WithLogger(log.DiscardLogger)}, opts...)
	engine, err := mailbox.Spawn(context.Background(), opts...)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, newSession(engine, strings.NewReader(input), &out).Run(context.Background()))
	<-engine.Done()
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestSession(t *testing.T) {
	t.Run("With store and query", func(t *testing.T) {
		lines := runSession(t, `STORE alice bob hello hi there
# comments and blank lines are skipped

QUERY alice
QUERY alice
`)
		require.Len(t, lines, 2)
		fields := strings.Fields(lines[0])
		require.Len(t, fields, 4)
		assert.Equal(t, "bob/hello", fields[0])
		tracker := strings.TrimPrefix(fields[1], "tracker=")
		_, err := uuid.Parse(tracker)
		assert.NoError(t, err)
		assert.Equal(t, "hi there", strings.Join(fields[2:], " "))
		assert.Equal(t, "(empty)", lines[1])
	})

	t.Run("With size limit and stats", func(t *testing.T) {
		lines := runSession(t, `MAILBOX-SIZE-LIMIT 10
STORE alice bob one 0123456789
STORE alice bob two 0123456789
QUERY alice
STATS
`)
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "bob/two "))
		assert.Equal(t, "queues=1 occupied=0 limit=10 stored=2 delivered=1 evicted=1 evicted_bytes=10", lines[1])
	})

	t.Run("With $TERM", func(t *testing.T) {
		lines := runSession(t, `STORE alice bob hello body
$TERM
QUERY alice
`)
		assert.Equal(t, []string{""}, lines)
	})

	t.Run("With malformed commands", func(t *testing.T) {
		lines := runSession(t, `STORE alice
DELETE alice
QUERY
STATS
`)
		require.Len(t, lines, 2)
		assert.Equal(t, "(empty)", lines[0])
		assert.Equal(t, "queues=0 occupied=0 limit=max stored=0 delivered=0 evicted=0 evicted_bytes=0", lines[1])
	})

	t.Run("With context cancelled while waiting for input", func(t *testing.T) {
		engine, err := mailbox.Spawn(context.Background(), mailbox.WithLogger(log.DiscardLogger))
		require.NoError(t, err)

		reader, writer := io.Pipe()
		ctx, cancel := context.WithCancel(context.Background())
		var out bytes.Buffer
		errc := make(chan error, 1)
		go func() { errc <- newSession(engine, reader, &out).Run(ctx) }()

		_, err = io.WriteString(writer, "STORE alice bob hello body\n")
		require.NoError(t, err)
		require.Eventually(t, func() bool { return engine.Stats().Stored == 1 }, 2*time.Second, 5*time.Millisecond)

		cancel()
		select {
		case err := <-errc:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			require.FailNow(t, "session did not return after its context was cancelled")
		}
		<-engine.Done()
		require.NoError(t, writer.Close())
	})
}

func TestRunCommand(t *testing.T) {
	t.Run("With flags", func(t *testing.T) {
		rootCmd := NewRootCommand()
		var out bytes.Buffer
		rootCmd.SetArgs([]string{"run", "--size-limit", "20", "--log-level", "error"})
		rootCmd.SetIn(strings.NewReader("STORE alice bob a 0123456789\nSTORE alice bob b 0123456789\nSTORE alice bob c 0123456789\nQUERY nobody\nSTATS\n"))
		rootCmd.SetOut(&out)
		rootCmd.SetErr(io.Discard)
		require.NoError(t, rootCmd.Execute())
		assert.Equal(t, "(empty)\nqueues=1 occupied=20 limit=20 stored=3 delivered=0 evicted=1 evicted_bytes=10\n", out.String())
	})

	t.Run("With config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mailbox.yaml")
		require.NoError(t, os.WriteFile(path, []byte("mailbox:\n  unbounded: true\n  size_limit: \"10\"\nlogging:\n  level: error\n"), 0o600))

		rootCmd := NewRootCommand()
		var out bytes.Buffer
		rootCmd.SetArgs([]string{"run", "--config", path})
		rootCmd.SetIn(strings.NewReader("STORE alice bob a 0123456789\nSTORE alice bob b 0123456789\nQUERY nobody\nSTATS\n"))
		rootCmd.SetOut(&out)
		rootCmd.SetErr(io.Discard)
		require.NoError(t, rootCmd.Execute())
		assert.Equal(t, "(empty)\nqueues=1 occupied=20 limit=max stored=2 delivered=0 evicted=0 evicted_bytes=0\n", out.String())
	})

	t.Run("With invalid configuration", func(t *testing.T) {
		rootCmd := NewRootCommand()
		rootCmd.SetArgs([]string{"run", "--size-limit", "lots"})
		rootCmd.SetIn(strings.NewReader(""))
		rootCmd.SetOut(io.Discard)
		rootCmd.SetErr(io.Discard)
		assert.Error(t, rootCmd.Execute())
	})
}
