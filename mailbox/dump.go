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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/tochemey/mailbox/message"
)

const (
	// dumpTimeLayout formats the UTC timestamp of a dump file name
	dumpTimeLayout = "2006-01-02T15:04:05"
	// dumpEdge is the number of headers printed at each end of a queue
	dumpEdge = 3
)

// dumpFileName returns the file name of a dump taken at now.
func dumpFileName(now time.Time) string {
	return fmt.Sprintf("mailbox-%s.%d.txt", now.UTC().Format(dumpTimeLayout), os.Getpid())
}

// writeDumpFile writes the snapshot of directory into dir and returns the
// file path.
func writeDumpFile(dir string, directory *Directory, now time.Time) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path = filepath.Join(dir, dumpFileName(now))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	writer := bufio.NewWriter(file)
	if err := writeDump(writer, directory); err != nil {
		return path, err
	}
	return path, writer.Flush()
}

// writeDump prints the number of queues, then for each queue its size and
// the sender/subject of its first and last three messages.
func writeDump(w io.Writer, directory *Directory) error {
	if _, err := fmt.Fprintf(w, "# of mailbox queues: %d\n", directory.Len()); err != nil {
		return err
	}

	for _, address := range directory.Addresses() {
		queue, _ := directory.Lookup(address)
		size := queue.Len()
		if _, err := fmt.Fprintf(w, "queue %s: %d msgs\n", address, size); err != nil {
			return err
		}

		var err error
		index := 0
		first := true
		elided := false
		queue.Each(func(msg *message.Message) bool {
			defer func() { index++ }()
			if index >= dumpEdge && size-index > dumpEdge {
				if !elided {
					_, err = io.WriteString(w, ", [...]")
					elided = true
				}
				return err == nil
			}

			separator := ", "
			if first {
				separator = "\t"
				first = false
			}
			_, err = io.WriteString(w, separator+msg.String())
			return err == nil
		})
		if err != nil {
			return err
		}

		if !first {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
