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
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestTapIsolation shows each tap only the writes made while it was registered.
func TestTapIsolation(t *testing.T) {
	t.Parallel()

	var dest bytes.Buffer
	mux := NewMultiplexer(&dest)

	first := mux.Register()
	_, _ = mux.Write([]byte("1"))
	second := mux.Register()
	_, _ = mux.Write([]byte("2"))
	if err := mux.Unregister(first); err != nil {
		t.Fatalf("Unregister() returned %v", err)
	}
	_, _ = mux.Write([]byte("3"))

	if got, err := mux.Content(second); err != nil || got != "23" {
		t.Fatalf("Content(second) = (%q, %v), want (%q, nil)", got, err, "23")
	}
	if _, err := mux.Content(first); !errors.Is(err, ErrUnknownTap) {
		t.Fatalf("Content(first) error = %v, want %v", err, ErrUnknownTap)
	}
	if err := mux.Unregister(first); !errors.Is(err, ErrUnknownTap) {
		t.Fatalf("second Unregister() error = %v, want %v", err, ErrUnknownTap)
	}
	if got := dest.String(); got != "123" {
		t.Fatalf("destination = %q, want %q", got, "123")
	}
	if first.ID() == second.ID() {
		t.Fatalf("taps share ID %v", first.ID())
	}
}

// TestConcurrentWritesStayWhole keeps each write contiguous in every tap.
func TestConcurrentWritesStayWhole(t *testing.T) {
	t.Parallel()

	const writers, perWriter = 8, 200

	var dest bytes.Buffer
	mux := NewMultiplexer(&dest)
	taps := []*Tap{mux.Register(), mux.Register()}

	var wg sync.WaitGroup
	for w := range writers {
		wg.Go(func() {
			for i := range perWriter {
				_, _ = fmt.Fprintf(mux, "{\"writer\":%d,\"seq\":%d}\n", w, i)
			}
		})
	}
	wg.Wait()

	var want []string
	for w := range writers {
		for i := range perWriter {
			want = append(want, fmt.Sprintf("{\"writer\":%d,\"seq\":%d}", w, i))
		}
	}
	slices.Sort(want)

	sortedLines := func(s string) []string {
		lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
		slices.Sort(lines)
		return lines
	}
	for i, tap := range taps {
		content, err := mux.Content(tap)
		if err != nil {
			t.Fatalf("Content(tap %d) returned %v", i, err)
		}
		if diff := cmp.Diff(want, sortedLines(content)); diff != "" {
			t.Fatalf("tap %d lines mismatch (-want +got):\n%s", i, diff)
		}
	}
	if diff := cmp.Diff(want, sortedLines(dest.String())); diff != "" {
		t.Fatalf("destination lines mismatch (-want +got):\n%s", diff)
	}
}

// TestRegisterWhileWriting never hands a tap part of a write.
func TestRegisterWhileWriting(t *testing.T) {
	t.Parallel()

	mux := NewMultiplexer(&bytes.Buffer{})
	line := strings.Repeat("x", 64) + "\n"

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Go(func() {
		for {
			select {
			case <-stop:
				return
			default:
				_, _ = mux.Write([]byte(line))
			}
		}
	})

	var taps []*Tap
	for range 50 {
		taps = append(taps, mux.Register())
	}
	close(stop)
	wg.Wait()

	for i, tap := range taps {
		content, err := mux.Content(tap)
		if err != nil {
			t.Fatalf("Content(tap %d) returned %v", i, err)
		}
		if len(content)%len(line) != 0 || strings.Trim(content, "x\n") != "" {
			t.Fatalf("tap %d holds a partial write: %d bytes", i, len(content))
		}
		if err := mux.Unregister(tap); err != nil {
			t.Fatalf("Unregister(tap %d) returned %v", i, err)
		}
	}
}

var errDestination = errors.New("destination failed")

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errDestination }

// TestDestinationFailure feeds the taps first and returns the destination error unchanged.
func TestDestinationFailure(t *testing.T) {
	t.Parallel()

	mux := NewMultiplexer(brokenWriter{})
	tap := mux.Register()

	_, err := mux.Write([]byte("payload"))
	if err != errDestination {
		t.Fatalf("Write() error = %v, want %v", err, errDestination)
	}
	if got, _ := mux.Content(tap); got != "payload" {
		t.Fatalf("tap content = %q, want %q", got, "payload")
	}

	defer func() {
		recovered := recover()
		var consistencyErr *ConsistencyError
		err, _ := recovered.(error)
		if !errors.As(err, &consistencyErr) {
			t.Fatalf("CheckError() panic = %v, want *ConsistencyError", recovered)
		}
		if consistencyErr.TapPath != nil || !errors.Is(consistencyErr.RealPath, errDestination) {
			t.Fatalf("ConsistencyError = %+v, want tap path nil and real path %v", consistencyErr, errDestination)
		}
	}()
	mux.CheckError()
	t.Fatalf("CheckError() did not panic")
}

// TestMultiplexerClose fails later writes on both paths alike.
func TestMultiplexerClose(t *testing.T) {
	t.Parallel()

	var dest bytes.Buffer
	mux := NewMultiplexer(&dest)
	tap := mux.Register()
	_, _ = mux.Write([]byte("kept"))
	if err := mux.Close(); err != nil {
		t.Fatalf("Close() returned %v", err)
	}
	if _, err := mux.Write([]byte("dropped")); !errors.Is(err, ErrClosed) {
		t.Fatalf("Write() after Close error = %v, want %v", err, ErrClosed)
	}
	if !mux.CheckError() {
		t.Fatalf("CheckError() = false after a dropped write, want true")
	}
	if got, _ := mux.Content(tap); got != "kept" {
		t.Fatalf("tap content = %q, want %q", got, "kept")
	}
	if got := dest.String(); got != "kept" {
		t.Fatalf("destination = %q, want %q", got, "kept")
	}
}

// TestContentReplacesInvalidUTF8 decodes tap bytes as UTF-8 text.
func TestContentReplacesInvalidUTF8(t *testing.T) {
	t.Parallel()

	mux := NewMultiplexer(&bytes.Buffer{})
	tap := mux.Register()
	_, _ = mux.Write([]byte{'a', 0xff, 'b'})
	if got, _ := mux.Content(tap); got != "a\uFFFDb" {
		t.Fatalf("Content() = %q, want %q", got, "a\uFFFDb")
	}
}
