// Copyright 2025 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stdout

import (
	"fmt"
	"io"
	"sync"
	"unicode/utf8"
)

// Stream is a print stream over an io.Writer. Like a Java PrintStream it
// never reports formatting errors from its print helpers; failures are
// remembered and surface through CheckError.
//
// Every helper goes through one write call on the underlying writer, so a
// single Printf reaches the writer as a single Write. A Stream is safe for
// concurrent use.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	err    error
	closed bool
}

// NewStream returns a Stream writing to w.
func NewStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

func (s *Stream) write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.fail(ErrClosed)
		return 0, ErrClosed
	}
	n, err := s.w.Write(p)
	if err != nil {
		s.fail(err)
	}
	return n, err
}

// fail records the first error. Callers hold mu.
func (s *Stream) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Write implements io.Writer. Errors of the underlying writer are returned
// unchanged.
func (s *Stream) Write(p []byte) (int, error) {
	return s.write(p)
}

// WriteString writes str.
func (s *Stream) WriteString(str string) (int, error) {
	return s.write([]byte(str))
}

// WriteByte writes c.
func (s *Stream) WriteByte(c byte) error {
	_, err := s.write([]byte{c})
	return err
}

// WriteRune writes the UTF-8 encoding of r.
func (s *Stream) WriteRune(r rune) (int, error) {
	return s.write(utf8.AppendRune(nil, r))
}

// Print formats its operands like fmt.Print.
func (s *Stream) Print(a ...any) {
	_, _ = s.write(fmt.Append(nil, a...))
}

// Println formats its operands like fmt.Println.
func (s *Stream) Println(a ...any) {
	_, _ = s.write(fmt.Appendln(nil, a...))
}

// Printf formats according to format like fmt.Printf.
func (s *Stream) Printf(format string, a ...any) {
	_, _ = s.write(fmt.Appendf(nil, format, a...))
}

// Flush flushes the underlying writer when it buffers. Flushing a closed
// stream does nothing.
func (s *Stream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Stream) flushLocked() error {
	if s.closed {
		return nil
	}
	f, ok := s.w.(interface{ Flush() error })
	if !ok {
		return nil
	}
	if err := f.Flush(); err != nil {
		s.fail(err)
		return err
	}
	return nil
}

// Close flushes and closes the underlying writer when it is an io.Closer.
// Later writes are dropped and recorded as errors. Closing twice does
// nothing.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	err := s.flushLocked()
	s.closed = true
	if c, ok := s.w.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil {
			s.fail(cerr)
			if err == nil {
				err = cerr
			}
		}
	}
	return err
}

// CheckError flushes the stream and reports whether any operation has failed
// so far.
func (s *Stream) CheckError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.flushLocked()
	return s.err != nil
}

// Err returns the first recorded error.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

var _ interface {
	io.WriteCloser
	io.StringWriter
	io.ByteWriter
} = (*Stream)(nil)
