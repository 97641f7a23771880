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

package slogspy

import (
	"log/slog"
	"sync"

	"github.com/pjscruggs/logspy"
)

// ProviderName is the name the provider registers under.
const ProviderName = "slogspy"

var (
	defaultOnce    sync.Once
	defaultHandler *Handler
)

func init() {
	logspy.Register(ProviderName, Provider{})
}

// Default returns the process-wide Handler used by the registered provider.
// It only records; records are not passed on to another handler.
func Default() *Handler {
	defaultOnce.Do(func() {
		defaultHandler = NewHandler(nil)
	})
	return defaultHandler
}

// NewLogger returns a logger writing through Default, named name.
func NewLogger(name string) *slog.Logger {
	return slog.New(Default()).With(logspy.Logger(name))
}

// Provider creates recorders on a Handler. The zero value uses Default.
type Provider struct {
	Handler *Handler
}

// SpyFor starts recording the events of logger name.
func (p Provider) SpyFor(name string) (logspy.Spy, error) {
	h := p.Handler
	if h == nil {
		h = Default()
	}
	return h.Record(name), nil
}
