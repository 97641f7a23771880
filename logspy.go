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
	"log/slog"
	"sync"
	"testing"
)

// LogSpy binds a Spy to a test. It is created with New, stops recording when
// the test (and its subtests) complete, and reports malformed captured output
// as a test failure.
type LogSpy struct {
	tb     testing.TB
	name   string
	spy    Spy
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// New starts recording the events logged under the logger name for the
// lifetime of tb. The provider comes from WithProvider or, failing that, from
// Load; New fails the test immediately when none is available.
func New(tb testing.TB, name string, opts ...Option) *LogSpy {
	tb.Helper()
	o := applyOptions(opts)

	provider := o.provider
	if provider == nil {
		var ok bool
		provider, ok = Load()
		if !ok {
			tb.Fatalf("logspy: spying on %q: %v", name, ErrNoProvider)
			return nil
		}
	}

	spy, err := provider.SpyFor(name)
	if err != nil {
		tb.Fatalf("logspy: spying on %q: %v", name, err)
		return nil
	}
	o.internalLogger.Debug("logspy: spy started", slog.String("logger", name), slog.String("test", tb.Name()))

	ls := &LogSpy{tb: tb, name: name, spy: spy, logger: o.internalLogger}
	tb.Cleanup(func() {
		if err := ls.Close(); err != nil {
			tb.Errorf("logspy: closing spy for %q: %v", name, err)
		}
	})
	return ls
}

// Name returns the logger name the spy records.
func (s *LogSpy) Name() string {
	return s.name
}

// Events returns the events recorded so far. Captured output that cannot be
// interpreted fails the test with the offending text.
func (s *LogSpy) Events() Events {
	s.tb.Helper()
	events, err := s.spy.Events()
	if err != nil {
		s.tb.Fatalf("logspy: reading events of %q: %v", s.name, err)
		return nil
	}
	return Events(events)
}

// Snapshot freezes the events recorded so far into a spy that never changes.
func (s *LogSpy) Snapshot() *Snapshot {
	s.tb.Helper()
	return NewSnapshot(s.Events()...)
}

// Close stops recording. It runs automatically during test cleanup and may
// be called earlier; later calls return the first result.
func (s *LogSpy) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.spy.Close()
		s.logger.Debug("logspy: spy closed", slog.String("logger", s.name))
	})
	return s.closeErr
}

// Snapshot is an immutable Spy over a fixed list of events.
type Snapshot struct {
	events []LogEvent
}

// NewSnapshot returns a spy that always reports copies of events.
func NewSnapshot(events ...LogEvent) *Snapshot {
	return &Snapshot{events: cloneEvents(events)}
}

// Events returns copies of the frozen events.
func (s *Snapshot) Events() ([]LogEvent, error) {
	return cloneEvents(s.events), nil
}

// Close does nothing.
func (s *Snapshot) Close() error {
	return nil
}

func cloneEvents(events []LogEvent) []LogEvent {
	if events == nil {
		return nil
	}
	out := make([]LogEvent, len(events))
	for i, event := range events {
		out[i] = event.Clone()
	}
	return out
}
