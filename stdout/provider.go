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
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pjscruggs/logspy"
	"github.com/pjscruggs/logspy/logstash"
)

// ProviderName is the name the provider registers under.
const ProviderName = "stdout"

// syncTimeout bounds the wait for pending pipe output.
const syncTimeout = 10 * time.Second

func init() {
	logspy.Register(ProviderName, Provider{})
}

// Provider creates spies that parse the logstash JSON lines written to a
// multiplexer. The zero value uses the process multiplexer fed by the
// redirected os.Stdout.
type Provider struct {
	// Mux replaces the process multiplexer when set. Nothing is redirected
	// and Events does not wait for the pipe in that case.
	Mux *Multiplexer
}

// SpyFor registers a tap and returns a spy reading the events of logger
// name from it. For the redirected os.Stdout the pipe is drained first, so
// output written before the call never reaches the new tap.
func (p Provider) SpyFor(name string) (logspy.Spy, error) {
	mux := p.Mux
	wait := func(context.Context) error { return nil }
	if mux == nil {
		if err := Initialize(); err != nil {
			return nil, err
		}
		mux = Default()
		wait = Sync
	}

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()
	if err := wait(ctx); err != nil {
		return nil, fmt.Errorf("stdout: draining pending output: %w", err)
	}
	return &spy{name: name, mux: mux, tap: mux.Register(), wait: wait}, nil
}

type spy struct {
	name string
	mux  *Multiplexer
	tap  *Tap
	wait func(context.Context) error

	closeOnce sync.Once
	closeErr  error
}

// Events parses everything written to the tap so far.
func (s *spy) Events() ([]logspy.LogEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()
	if err := s.wait(ctx); err != nil {
		return nil, fmt.Errorf("stdout: waiting for pending output: %w", err)
	}

	content, err := s.mux.Content(s.tap)
	if err != nil {
		if errors.Is(err, ErrUnknownTap) {
			return nil, fmt.Errorf("%w: %w", logspy.ErrSpyClosed, err)
		}
		return nil, err
	}
	return logstash.ParseEvents(content, s.name)
}

// Close unregisters the tap.
func (s *spy) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.mux.Unregister(s.tap)
	})
	return s.closeErr
}
