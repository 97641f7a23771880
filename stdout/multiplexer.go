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
	"bytes"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Tap is the capture buffer of one spy. It only grows while registered and
// is released when unregistered.
type Tap struct {
	id uuid.UUID

	mu       sync.Mutex
	buf      bytes.Buffer
	released bool
}

// ID identifies the tap.
func (t *Tap) ID() uuid.UUID {
	return t.id
}

func (t *Tap) append(p []byte) {
	t.mu.Lock()
	if !t.released {
		t.buf.Write(p)
	}
	t.mu.Unlock()
}

func (t *Tap) content() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return "", false
	}
	return strings.ToValidUTF8(t.buf.String(), "\uFFFD"), true
}

func (t *Tap) release() {
	t.mu.Lock()
	t.released = true
	t.buf = bytes.Buffer{}
	t.mu.Unlock()
}

// Multiplexer forwards every write to the registered taps and then to a real
// destination.
//
// Writes share a read lock on the tap set; Register and Unregister take the
// write lock, so a write reaches either all or none of the taps involved in a
// concurrent registration change.
type Multiplexer struct {
	mu   sync.RWMutex
	taps []*Tap

	tapPath  *Stream
	realPath *Stream
}

// NewMultiplexer returns a Multiplexer whose real destination is dest.
func NewMultiplexer(dest io.Writer) *Multiplexer {
	m := &Multiplexer{realPath: NewStream(dest)}
	m.tapPath = NewStream(tapFanout{m})
	return m
}

// tapFanout appends to every registered tap. Callers hold the read lock.
type tapFanout struct {
	m *Multiplexer
}

func (f tapFanout) Write(p []byte) (int, error) {
	for _, t := range f.m.taps {
		t.append(p)
	}
	return len(p), nil
}

// Register adds a new empty tap.
func (m *Multiplexer) Register() *Tap {
	t := &Tap{id: uuid.New()}
	m.mu.Lock()
	m.taps = append(m.taps, t)
	m.mu.Unlock()
	return t
}

// Unregister removes t and releases its buffer.
func (m *Multiplexer) Unregister(t *Tap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.taps, t)
	if i < 0 {
		return ErrUnknownTap
	}
	m.taps = slices.Delete(m.taps, i, i+1)
	t.release()
	return nil
}

// Content returns everything written since t was registered, with invalid
// UTF-8 replaced by U+FFFD.
func (m *Multiplexer) Content(t *Tap) (string, error) {
	content, ok := t.content()
	if !ok {
		return "", ErrUnknownTap
	}
	return content, nil
}

// Write forwards p to the taps in registration order and then to the real
// destination. The taps receive p even when the destination fails; the
// destination's error is returned unchanged.
func (m *Multiplexer) Write(p []byte) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, _ = m.tapPath.write(p)
	return m.realPath.write(p)
}

// Flush flushes both paths.
func (m *Multiplexer) Flush() error {
	_ = m.tapPath.Flush()
	return m.realPath.Flush()
}

// Close closes both paths. Later writes are dropped and recorded as errors
// on both of them.
func (m *Multiplexer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_ = m.tapPath.Close()
	return m.realPath.Close()
}

// CheckError reports whether an operation has failed. The tap path and the
// real path must agree; when they do not it panics with a
// *ConsistencyError.
func (m *Multiplexer) CheckError() bool {
	tapFailed := m.tapPath.CheckError()
	realFailed := m.realPath.CheckError()
	if tapFailed != realFailed {
		panic(&ConsistencyError{Op: "CheckError", TapPath: m.tapPath.Err(), RealPath: m.realPath.Err()})
	}
	return realFailed
}

var _ io.WriteCloser = (*Multiplexer)(nil)
