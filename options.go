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

import "log/slog"

// Option configures a LogSpy during initialization via the New function.
// Options are applied sequentially, allowing later options to override
// earlier ones.
type Option func(*options)

// options holds the configurable settings for a LogSpy.
type options struct {
	provider       Provider
	internalLogger *slog.Logger
}

// WithProvider returns an Option that uses p instead of the provider found
// through Load.
func WithProvider(p Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithInternalLogger returns an Option that routes the spy's own diagnostics
// (spy creation and teardown) to logger. Diagnostics are discarded by default.
func WithInternalLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.internalLogger = logger
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.internalLogger == nil {
		o.internalLogger = slog.New(slog.DiscardHandler)
	}
	return o
}
