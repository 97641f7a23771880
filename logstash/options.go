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

package logstash

import (
	"io"
	"log/slog"
)

// Option mutates Handler construction behaviour when supplied to
// [NewHandler].
//
// Options follow the functional options pattern and are applied in the order
// they are provided by the caller, after the LOGSPY_* environment overrides.
type Option func(*options)

type options struct {
	leveler           slog.Leveler
	loggerName        *string
	rootCauseFirst    *bool
	emitThreadName    *bool
	stackTraceEnabled *bool
	writer            io.Writer
	replaceAttr       func([]string, slog.Attr) slog.Attr
	internalLogger    *slog.Logger
}

// WithLevel sets the minimum level written. Passing a *slog.LevelVar allows
// changing it later.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) {
		o.leveler = level
	}
}

// WithLoggerName sets the logger_name of records without a logspy.LoggerKey
// attribute. It overrides LOGSPY_LOGGER_NAME.
func WithLoggerName(name string) Option {
	return func(o *options) {
		n := name
		o.loggerName = &n
	}
}

// WithRootCauseFirst prints error chains root cause first, introducing each
// wrapper with "Wrapped by: ". It overrides LOGSPY_ROOT_CAUSE_FIRST.
func WithRootCauseFirst(enabled bool) Option {
	return func(o *options) {
		e := enabled
		o.rootCauseFirst = &e
	}
}

// WithThreadName controls the thread_name field, which carries the logging
// goroutine ("goroutine 12"). It overrides LOGSPY_EMIT_THREAD_NAME.
func WithThreadName(enabled bool) Option {
	return func(o *options) {
		e := enabled
		o.emitThreadName = &e
	}
}

// WithStackTraceEnabled attaches the logging call site's frames to errors
// that do not carry a stack of their own. It overrides
// LOGSPY_STACK_TRACE_ENABLED.
func WithStackTraceEnabled(enabled bool) Option {
	return func(o *options) {
		e := enabled
		o.stackTraceEnabled = &e
	}
}

// WithWriter sets the destination, taking precedence over the writer passed
// to NewHandler.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithReplaceAttr installs a function that rewrites non-group attributes
// before they are written, with the semantics of slog.HandlerOptions.
func WithReplaceAttr(fn func([]string, slog.Attr) slog.Attr) Option {
	return func(o *options) {
		o.replaceAttr = fn
	}
}

// WithInternalLogger routes handler diagnostics (invalid environment values,
// encoding and write failures) to logger. Diagnostics are discarded by
// default.
func WithInternalLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.internalLogger = logger
	}
}

func applyOptions(cfg *handlerConfig, o *options) {
	if o.loggerName != nil {
		cfg.LoggerName = *o.loggerName
	}
	if o.rootCauseFirst != nil {
		cfg.RootCauseFirst = *o.rootCauseFirst
	}
	if o.emitThreadName != nil {
		cfg.EmitThreadName = *o.emitThreadName
	}
	if o.stackTraceEnabled != nil {
		cfg.StackTraceEnabled = *o.stackTraceEnabled
	}
	if o.writer != nil {
		cfg.Writer = o.writer
	}
	if o.replaceAttr != nil {
		cfg.ReplaceAttr = o.replaceAttr
	}
}
