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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/pjscruggs/logspy"
	"github.com/pjscruggs/logspy/stacktrace"
)

type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

// stdoutWriter writes to whatever os.Stdout is at the time of the write, so a
// handler created before stdout is redirected still follows the redirect.
type stdoutWriter struct{}

func (stdoutWriter) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

// Handler is a slog.Handler that writes one logstash JSON object per record.
//
// The object carries the standard layout fields, the MDC entries of the
// record's context, trace correlation ids of the active span and every
// attribute with group names flattened into dotted keys. The first error
// attribute becomes the stack_trace field.
type Handler struct {
	mu *sync.Mutex

	cfg            *handlerConfig
	leveler        slog.Leveler
	writer         io.Writer
	internalLogger *slog.Logger

	groupedAttrs []groupedAttr
	groups       []string
}

// NewHandler builds a Handler writing to w. A nil w writes to os.Stdout as it
// is at write time. Options are applied after the LOGSPY_* environment
// overrides.
func NewHandler(w io.Writer, opts ...Option) *Handler {
	builder := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&builder)
		}
	}

	internalLogger := builder.internalLogger
	if internalLogger == nil {
		internalLogger = slog.New(slog.DiscardHandler)
	}

	cfg := cachedConfigFromEnv(internalLogger)
	cfg.Writer = w
	applyOptions(&cfg, &builder)
	if cfg.Writer == nil {
		cfg.Writer = stdoutWriter{}
	}

	leveler := builder.leveler
	if leveler == nil {
		leveler = cfg.Level
	}

	return &Handler{
		mu:             &sync.Mutex{},
		cfg:            &cfg,
		leveler:        leveler,
		writer:         cfg.Writer,
		internalLogger: internalLogger,
	}
}

// Enabled reports whether level is enabled for emission.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.leveler.Level()
}

// Handle renders r as a logstash JSON line and writes it in a single call to
// the configured writer.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Enabled(ctx, r.Level) {
		return nil
	}

	state := getEntry()
	defer putEntry(state)

	payload := state.reset(len(h.groupedAttrs) + r.NumAttrs() + 10)
	loggerName := h.cfg.LoggerName

	for key, value := range logspy.MDCFromContext(ctx) {
		payload[key] = value
	}
	if attrs, ok := logspy.TraceAttributes(ctx); ok {
		for _, a := range attrs {
			payload[a.Key] = a.Value.String()
		}
	}

	for _, ga := range h.groupedAttrs {
		if name, ok := h.addAttr(state, ga.groups, ga.attr); ok {
			loggerName = name
		}
	}
	r.Attrs(func(a slog.Attr) bool {
		if name, ok := h.addAttr(state, h.groups, a); ok {
			loggerName = name
		}
		return true
	})

	if state.err != nil {
		payload[StackTraceKey] = h.formatError(state.err)
	}

	level := logspy.LevelOf(r.Level)
	if !r.Time.IsZero() {
		payload[TimestampKey] = r.Time.Format(timestampLayout)
	}
	payload[VersionKey] = layoutVersion
	payload[MessageKey] = r.Message
	payload[LoggerNameKey] = loggerName
	if h.cfg.EmitThreadName {
		payload[ThreadNameKey] = logspy.GoroutineName()
	}
	payload[LevelKey] = level.String()
	payload[LevelValueKey] = level.Value()

	return h.emitJSON(payload)
}

// addAttr flattens a into the payload. It reports the logger name when a is
// an ungrouped logspy.LoggerKey attribute.
func (h *Handler) addAttr(state *entry, groups []string, a slog.Attr) (string, bool) {
	prefix := state.prefix[:0]
	for _, g := range groups {
		prefix = append(prefix, g...)
		prefix = append(prefix, '.')
	}
	state.prefix = prefix
	return h.walkAttr(state, groups, len(groups) == 0, string(prefix), a)
}

func (h *Handler) walkAttr(state *entry, groups []string, topLevel bool, prefix string, a slog.Attr) (string, bool) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup && h.cfg.ReplaceAttr != nil {
		a = h.cfg.ReplaceAttr(groups, a)
		a.Value = a.Value.Resolve()
	}
	if a.Equal(slog.Attr{}) {
		return "", false
	}

	if a.Value.Kind() == slog.KindGroup {
		children := a.Value.Group()
		if len(children) == 0 {
			return "", false
		}
		childPrefix := prefix
		childGroups := groups
		if a.Key != "" {
			childPrefix = prefix + a.Key + "."
			childGroups = append(groups[:len(groups):len(groups)], a.Key)
			topLevel = false
		}
		var (
			name  string
			found bool
		)
		for _, child := range children {
			if n, ok := h.walkAttr(state, childGroups, topLevel, childPrefix, child); ok {
				name, found = n, true
			}
		}
		return name, found
	}

	if err := errorOf(a.Value); err != nil {
		if state.err == nil {
			state.err = err
		}
		return "", false
	}
	if a.Key == "" {
		return "", false
	}
	if topLevel && a.Key == logspy.LoggerKey {
		return a.Value.String(), true
	}

	key := prefix + a.Key
	if IsStandardField(key) {
		logDiagnostic(h.internalLogger, slog.LevelDebug, "dropping attribute that shadows a standard field", slog.String("key", key))
		return "", false
	}
	if v, ok := fieldValue(a.Value); ok {
		state.fields[key] = v
	}
	return "", false
}

// formatError renders err the way logback's throwable converter does.
func (h *Handler) formatError(err error) string {
	snap := logspy.SnapshotOf(err)
	if h.cfg.StackTraceEnabled && len(snap.StackTrace) == 0 {
		snap.StackTrace = logspy.CaptureFrames(logspy.SkipInternalStackFrame)
	}
	conv := stacktrace.RootCauseLast
	if h.cfg.RootCauseFirst {
		conv = stacktrace.RootCauseFirst
	}
	return stacktrace.Format(snap, conv)
}

// emitJSON encodes payload and writes it to the handler writer.
func (h *Handler) emitJSON(payload map[string]any) error {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		h.internalLogger.Error("failed to render logstash log entry", slog.Any("error", err))
		return err
	}

	h.mu.Lock()
	_, err := buf.WriteTo(h.writer)
	h.mu.Unlock()
	if err != nil {
		h.internalLogger.Error("failed to write logstash log entry", slog.Any("error", err))
		return err
	}
	return nil
}

// WithAttrs returns a new handler that includes the provided attributes on
// every emitted record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := h.clone()
	for _, attr := range attrs {
		clone.groupedAttrs = append(clone.groupedAttrs, groupedAttr{
			groups: append([]string(nil), h.groups...),
			attr:   attr,
		})
	}
	return clone
}

// WithGroup prefixes the keys of subsequent attributes with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	return clone
}

func (h *Handler) clone() *Handler {
	return &Handler{
		mu:             h.mu,
		cfg:            h.cfg,
		leveler:        h.leveler,
		writer:         h.writer,
		internalLogger: h.internalLogger,
		groupedAttrs:   append([]groupedAttr(nil), h.groupedAttrs...),
		groups:         append([]string(nil), h.groups...),
	}
}

var _ slog.Handler = (*Handler)(nil)
