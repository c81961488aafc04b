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

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineTerminated is returned when a command is sent to a mailbox engine
	// that has already stopped processing commands.
	ErrEngineTerminated = errors.New("mailbox engine is terminated")

	// ErrInvalidSizeLimit is returned when a mailbox size limit is neither "max"
	// nor a decimal non-negative integer.
	ErrInvalidSizeLimit = errors.New("invalid mailbox size limit")

	// ErrInvalidMessage indicates that an encoded message is malformed.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrEmptyCommand is returned when a request carries no frame at all.
	ErrEmptyCommand = errors.New("empty command")

	// ErrUnknownCommand is reported when the command frame is not part of the engine protocol.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrMissingFrame is reported when a command has fewer argument frames than it declares.
	ErrMissingFrame = errors.New("missing command frame")

	// ErrInvalidFrame is reported when an argument frame does not hold the expected type.
	ErrInvalidFrame = errors.New("invalid command frame")

	// ErrTrailingFrames is reported when frames remain after a command has been handled.
	ErrTrailingFrames = errors.New("trailing command frames")

	// ErrNoReplyPath is reported when a command that replies was sent without a way to reply.
	ErrNoReplyPath = errors.New("command requires a reply path")

	// ErrInvalidInboxSize is returned when the engine inbox capacity is negative.
	ErrInvalidInboxSize = errors.New("invalid inbox size")

	// ErrInvalidDumpInterval is returned when the debug dump is enabled with a non-positive interval.
	ErrInvalidDumpInterval = errors.New("invalid debug dump interval")

	// ErrDumpDirRequired is returned when the debug dump is enabled without a target directory.
	ErrDumpDirRequired = errors.New("debug dump directory is required")

	// ErrUndefinedSizer is returned when the engine is given a nil message sizer.
	ErrUndefinedSizer = errors.New("message sizer is not defined")
)

// NewErrInvalidSizeLimit formats an ErrInvalidSizeLimit with the rejected input.
func NewErrInvalidSizeLimit(input string) error {
	return fmt.Errorf("limit=(%s) %w", input, ErrInvalidSizeLimit)
}

// NewErrUnknownCommand formats an ErrUnknownCommand with the command name.
func NewErrUnknownCommand(command string) error {
	return fmt.Errorf("command=(%s) %w", command, ErrUnknownCommand)
}

// NewErrMissingFrame formats an ErrMissingFrame with the command and the expected argument.
func NewErrMissingFrame(command, argument string) error {
	return fmt.Errorf("command=(%s) argument=(%s) %w", command, argument, ErrMissingFrame)
}

// NewErrInvalidFrame formats an ErrInvalidFrame with the command and the expected argument.
func NewErrInvalidFrame(command, argument string) error {
	return fmt.Errorf("command=(%s) argument=(%s) %w", command, argument, ErrInvalidFrame)
}

// NewErrTrailingFrames formats an ErrTrailingFrames with the command and the number of extra frames.
func NewErrTrailingFrames(command string, count int) error {
	return fmt.Errorf("command=(%s) frames=(%d) %w", command, count, ErrTrailingFrames)
}

// NewErrInvalidMessage wraps a decoding error with ErrInvalidMessage.
func NewErrInvalidMessage(err error) error {
	return errors.Join(ErrInvalidMessage, err)
}
