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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	gerrors "github.com/tochemey/mailbox/errors"
	"github.com/tochemey/mailbox/mailbox"
	"github.com/tochemey/mailbox/message"
)

// statsCommand is answered by the session itself
const statsCommand = "STATS"

// session feeds an engine with the commands read from a line oriented input
type session struct {
	engine *mailbox.Engine
	in     io.Reader
	out    io.Writer
}

func newSession(engine *mailbox.Engine, in io.Reader, out io.Writer) *session {
	return &session{engine: engine, in: in, out: out}
}

// Run reads commands until the input ends, $TERM is read, the engine stops
// or ctx is done. The engine is shut down on return.
func (s *session) Run(ctx context.Context) error {
	defer func() { _ = s.engine.Shutdown(context.WithoutCancel(ctx)) }()

	stop := make(chan struct{})
	defer close(stop)
	lines, scanErr := s.readLines(stop)

	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case <-s.engine.Done():
			return nil
		case err := <-scanErr:
			return err
		case line = <-lines:
		}

		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		terminate, err := s.execute(ctx, fields)
		if errors.Is(err, gerrors.ErrEngineTerminated) || errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
		if terminate {
			return nil
		}
	}
}

// readLines scans the input on its own goroutine so that a blocked read
// never holds Run past ctx. The goroutine exits at the end of the input or,
// once stop is closed, after its pending read returns.
func (s *session) readLines(stop <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			}
		}
		scanErr <- scanner.Err()
	}()
	return lines, scanErr
}

// execute runs one command line
func (s *session) execute(ctx context.Context, fields []string) (terminate bool, err error) {
	command := fields[0]
	switch command {
	case mailbox.StoreCommand:
		if len(fields) < 4 {
			// let the engine report the missing frames
			return false, s.engine.Tell(ctx, textFrames(fields)...)
		}
		msg := message.New(message.Header{
			Sender:  fields[2],
			Address: fields[1],
			Subject: fields[3],
			Tracker: uuid.NewString(),
		}, []byte(strings.Join(fields[4:], " ")))
		return false, s.engine.Store(ctx, fields[1], msg)

	case mailbox.QueryCommand:
		msg, err := s.engine.Ask(ctx, textFrames(fields)...)
		if err != nil {
			return false, err
		}
		return false, s.printMessage(msg)

	case statsCommand:
		return false, s.printStats()

	case mailbox.TermCommand:
		return true, s.engine.Tell(ctx, textFrames(fields)...)

	default:
		return false, s.engine.Tell(ctx, textFrames(fields)...)
	}
}

func (s *session) printMessage(msg *message.Message) error {
	if msg == nil {
		_, err := fmt.Fprintln(s.out, "(empty)")
		return err
	}

	var body strings.Builder
	for _, frame := range msg.Content() {
		body.Write(frame)
	}
	_, err := fmt.Fprintf(s.out, "%s tracker=%s %s\n", msg, msg.Tracker(), body.String())
	return err
}

func (s *session) printStats() error {
	stats := s.engine.Stats()
	_, err := fmt.Fprintf(s.out, "queues=%d occupied=%d limit=%s stored=%d delivered=%d evicted=%d evicted_bytes=%d\n",
		stats.Queues,
		stats.OccupiedBytes,
		mailbox.FormatSizeLimit(stats.SizeLimit),
		stats.Stored,
		stats.Delivered,
		stats.Evicted,
		stats.EvictedBytes)
	return err
}

func textFrames(fields []string) []mailbox.Frame {
	frames := make([]mailbox.Frame, len(fields))
	for i, field := range fields {
		frames[i] = mailbox.TextFrame(field)
	}
	return frames
}
