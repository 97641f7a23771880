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

import "log/slog"

// Option configures a Handler.
type Option func(*options)

type options struct {
	loggerName string
	leveler    slog.Leveler
}

// WithLoggerName names the logger of records without a logspy.LoggerKey
// attribute. It defaults to logstash.DefaultLoggerName.
func WithLoggerName(name string) Option {
	return func(o *options) {
		o.loggerName = name
	}
}

// WithLevel sets the minimum level recorded. Everything down to TRACE is
// recorded by default. The next handler keeps its own level.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) {
		o.leveler = level
	}
}
