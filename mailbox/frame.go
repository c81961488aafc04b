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
	"context"
	"strconv"
	"strings"

	"go.uber.org/atomic"

	"github.com/tochemey/mailbox/message"
)

// Frame is one part of an engine request: either a text frame (command
// names, addresses, size limits) or a message frame.
type Frame struct {
	text string
	msg  *message.Message
}

// TextFrame creates a text frame
func TextFrame(text string) Frame {
	return Frame{text: text}
}

// MessageFrame creates a frame carrying msg
func MessageFrame(msg *message.Message) Frame {
	return Frame{msg: msg}
}

// Text returns the frame text. ok is false for a message frame.
func (f Frame) Text() (text string, ok bool) {
	if f.msg != nil {
		return "", false
	}
	return f.text, true
}

// Message returns the carried message. ok is false for a text frame.
func (f Frame) Message() (msg *message.Message, ok bool) {
	return f.msg, f.msg != nil
}

// String returns a printable rendering of the frame.
func (f Frame) String() string {
	if f.msg != nil {
		return "message(" + f.msg.String() + ")"
	}
	return strconv.Quote(f.text)
}

// renderFrames joins the printable renderings of frames.
func renderFrames(frames []Frame) string {
	parts := make([]string, len(frames))
	for i, frame := range frames {
		parts[i] = frame.String()
	}
	return strings.Join(parts, " ")
}

// reply states of a request
const (
	replyPending int32 = iota
	replyClaimed
	replyAbandoned
)

// request is what travels through the engine inbox. reply is nil for
// fire-and-forget requests; otherwise it is buffered so the engine never
// blocks on a caller that went away.
type request struct {
	ctx    context.Context
	frames []Frame
	reply  chan *message.Message
	// state settles who owns the reply: the engine claims it before taking
	// a message out of a queue, the caller abandons it when its context ends
	state *atomic.Int32
	// dump is set by the debug dump job, frames is empty then
	dump bool
}

func newRequest(ctx context.Context, frames []Frame, withReply bool) *request {
	req := &request{
		ctx:    ctx,
		frames: frames,
		state:  atomic.NewInt32(replyPending),
	}
	if withReply {
		req.reply = make(chan *message.Message, 1)
	}
	return req
}

// claim is called by the engine before it removes a message on behalf of
// the caller. It fails when the caller is gone.
func (r *request) claim() bool {
	if r.ctx != nil && r.ctx.Err() != nil {
		r.state.CompareAndSwap(replyPending, replyAbandoned)
		return false
	}
	return r.state.CompareAndSwap(replyPending, replyClaimed)
}

// abandon is called by the caller when it stops waiting. It fails when the
// engine already claimed the request, a reply is then on its way.
func (r *request) abandon() bool {
	return r.state.CompareAndSwap(replyPending, replyAbandoned) || r.state.Load() == replyAbandoned
}

// respond sends msg back to the caller when the request expects a reply.
func (r *request) respond(msg *message.Message) {
	if r.reply != nil {
		r.reply <- msg
	}
}

// frameReader consumes the frames of a request in order.
type frameReader struct {
	frames []Frame
	pos    int
}

func newFrameReader(frames []Frame) *frameReader {
	return &frameReader{frames: frames}
}

// next returns the next frame
func (r *frameReader) next() (Frame, bool) {
	if r.pos >= len(r.frames) {
		return Frame{}, false
	}
	frame := r.frames[r.pos]
	r.pos++
	return frame, true
}

// remaining drains and returns the unread frames
func (r *frameReader) remaining() []Frame {
	if r.pos >= len(r.frames) {
		return nil
	}
	rest := r.frames[r.pos:]
	r.pos = len(r.frames)
	return rest
}
