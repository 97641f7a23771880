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

package logspy

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// recordingTB captures failures and cleanups instead of ending the test.
type recordingTB struct {
	testing.TB
	fatals   []string
	errs     []string
	cleanups []func()
}

func (r *recordingTB) Helper()      {}
func (r *recordingTB) Name() string { return "TestRecording" }

func (r *recordingTB) Fatalf(format string, args ...any) {
	r.fatals = append(r.fatals, fmt.Sprintf(format, args...))
}

func (r *recordingTB) Errorf(format string, args ...any) {
	r.errs = append(r.errs, fmt.Sprintf(format, args...))
}

func (r *recordingTB) Cleanup(f func()) {
	r.cleanups = append(r.cleanups, f)
}

func (r *recordingTB) runCleanups() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
	r.cleanups = nil
}

// fakeSpy serves canned events.
type fakeSpy struct {
	events []LogEvent
	err    error
	closed int
}

func (f *fakeSpy) Events() ([]LogEvent, error) { return cloneEvents(f.events), f.err }
func (f *fakeSpy) Close() error                { f.closed++; return nil }

// TestNewUsesProviderAndClosesOnCleanup covers the spy lifecycle.
func TestNewUsesProviderAndClosesOnCleanup(t *testing.T) {
	t.Parallel()

	fake := &fakeSpy{events: []LogEvent{{Message: ptr("hello"), Level: LevelInfo}}}
	var requested string
	provider := ProviderFunc(func(name string) (Spy, error) {
		requested = name
		return fake, nil
	})

	tb := &recordingTB{}
	spy := New(tb, "orders", WithProvider(provider))
	if requested != "orders" {
		t.Fatalf("provider got name %q, want orders", requested)
	}
	if spy.Name() != "orders" {
		t.Fatalf("Name() = %q, want orders", spy.Name())
	}
	if diff := cmp.Diff([]string{"hello"}, spy.Events().Messages()); diff != "" {
		t.Fatalf("Events().Messages() mismatch (-want +got):\n%s", diff)
	}

	tb.runCleanups()
	if fake.closed != 1 {
		t.Fatalf("spy closed %d times, want 1", fake.closed)
	}
	if err := spy.Close(); err != nil {
		t.Fatalf("second Close() returned %v", err)
	}
	if fake.closed != 1 {
		t.Fatalf("spy closed %d times after explicit Close, want 1", fake.closed)
	}
	if len(tb.fatals)+len(tb.errs) != 0 {
		t.Fatalf("unexpected failures: %v %v", tb.fatals, tb.errs)
	}
}

// TestEventsFailsTestOnMalformedOutput reports the raw text through Fatalf.
func TestEventsFailsTestOnMalformedOutput(t *testing.T) {
	t.Parallel()

	fake := &fakeSpy{err: fmt.Errorf("%w: line 1: %q", ErrMalformedOutput, `{"message":`)}
	tb := &recordingTB{}
	spy := New(tb, "orders", WithProvider(ProviderFunc(func(string) (Spy, error) { return fake, nil })))

	if got := spy.Events(); got != nil {
		t.Fatalf("Events() = %v, want nil after failure", got)
	}
	if len(tb.fatals) != 1 {
		t.Fatalf("recorded %d fatal failures, want 1", len(tb.fatals))
	}
	if !strings.Contains(tb.fatals[0], `{\"message\":`) {
		t.Fatalf("failure %q does not carry the offending text", tb.fatals[0])
	}
}

// TestNewFailsWhenProviderErrors surfaces provider errors as test failures.
func TestNewFailsWhenProviderErrors(t *testing.T) {
	t.Parallel()

	tb := &recordingTB{}
	boom := errors.New("backend unavailable")
	spy := New(tb, "orders", WithProvider(ProviderFunc(func(string) (Spy, error) { return nil, boom })))
	if spy != nil {
		t.Fatalf("New() = %v, want nil", spy)
	}
	if len(tb.fatals) != 1 || !strings.Contains(tb.fatals[0], "backend unavailable") {
		t.Fatalf("fatals = %q, want provider error", tb.fatals)
	}
}

// TestSnapshotIsImmutable verifies snapshots do not follow later events or caller edits.
func TestSnapshotIsImmutable(t *testing.T) {
	t.Parallel()

	fake := &fakeSpy{events: []LogEvent{{
		Message: ptr("first"),
		Level:   LevelWarn,
		Context: map[string]string{"k": "v"},
	}}}
	tb := &recordingTB{}
	spy := New(tb, "orders", WithProvider(ProviderFunc(func(string) (Spy, error) { return fake, nil })))

	snap := spy.Snapshot()
	fake.events = append(fake.events, LogEvent{Message: ptr("second")})

	events, err := snap.Events()
	if err != nil {
		t.Fatalf("Snapshot.Events() returned %v", err)
	}
	events[0].Context["k"] = "changed"
	*events[0].Message = "changed"

	again, _ := snap.Events()
	if diff := cmp.Diff([]string{"first"}, Events(again).Messages()); diff != "" {
		t.Fatalf("snapshot messages mismatch (-want +got):\n%s", diff)
	}
	if again[0].Context["k"] != "v" {
		t.Fatalf("snapshot context = %v, want k=v", again[0].Context)
	}
	if err := snap.Close(); err != nil {
		t.Fatalf("Snapshot.Close() returned %v", err)
	}
}
