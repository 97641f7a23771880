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
	"context"
	"encoding"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/pjscruggs/logspy"
	"github.com/pjscruggs/logspy/logstash"
)

type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

// Handler records slog records for the recorders of their logger name and
// passes them on to the next handler.
//
// Records are converted the way the logstash pipeline would see them: the
// first error attribute becomes the exception, other attributes with a
// scalar value are flattened into the context under dotted keys, and the
// MDC entries and span ids of the record's context are added.
type Handler struct {
	hub        *hub
	next       slog.Handler
	loggerName string
	leveler    slog.Leveler

	groupedAttrs []groupedAttr
	groups       []string
}

// NewHandler returns a Handler passing records on to next, which may be nil.
func NewHandler(next slog.Handler, opts ...Option) *Handler {
	o := options{loggerName: logstash.DefaultLoggerName, leveler: logspy.LevelTrace}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Handler{
		hub:        newHub(),
		next:       next,
		loggerName: o.loggerName,
		leveler:    o.leveler,
	}
}

// Record starts recording the events of logger name. Handlers derived
// through WithAttrs and WithGroup feed the same recorders.
func (h *Handler) Record(name string) *Recorder {
	r := &Recorder{name: name, hub: h.hub}
	h.hub.add(r)
	return r
}

// Enabled reports whether either the recorders or the next handler want
// records at level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.recording(level) {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

func (h *Handler) recording(level slog.Level) bool {
	return level >= h.leveler.Level() && h.hub.listening()
}

// Handle records r and passes it on to the next handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if h.recording(r.Level) {
		name, event := h.convert(ctx, r)
		h.hub.dispatch(name, event)
	}
	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

// WithAttrs returns a Handler that adds attrs to every record.
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
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return clone
}

// WithGroup returns a Handler that nests later attributes under name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return clone
}

func (h *Handler) clone() *Handler {
	return &Handler{
		hub:          h.hub,
		next:         h.next,
		loggerName:   h.loggerName,
		leveler:      h.leveler,
		groupedAttrs: append([]groupedAttr(nil), h.groupedAttrs...),
		groups:       append([]string(nil), h.groups...),
	}
}

// conversion accumulates the event of one record.
type conversion struct {
	name     string
	context  map[string]string
	firstErr error
}

func (h *Handler) convert(ctx context.Context, r slog.Record) (string, logspy.LogEvent) {
	c := conversion{name: h.loggerName, context: make(map[string]string)}

	for key, value := range logspy.MDCFromContext(ctx) {
		c.context[key] = value
	}
	if attrs, ok := logspy.TraceAttributes(ctx); ok {
		for _, a := range attrs {
			c.context[a.Key] = a.Value.String()
		}
	}

	for _, ga := range h.groupedAttrs {
		c.walk(groupPrefix(ga.groups), len(ga.groups) == 0, ga.attr)
	}
	prefix := groupPrefix(h.groups)
	r.Attrs(func(a slog.Attr) bool {
		c.walk(prefix, len(h.groups) == 0, a)
		return true
	})

	msg := r.Message
	event := logspy.LogEvent{
		Message:   &msg,
		Level:     logspy.LevelOf(r.Level),
		Exception: logspy.SnapshotOf(c.firstErr),
		Context:   c.context,
	}
	return c.name, event
}

func groupPrefix(groups []string) string {
	var prefix string
	for _, g := range groups {
		prefix += g + "."
	}
	return prefix
}

func (c *conversion) walk(prefix string, topLevel bool, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		childPrefix := prefix
		if a.Key != "" {
			childPrefix = prefix + a.Key + "."
			topLevel = false
		}
		for _, child := range a.Value.Group() {
			c.walk(childPrefix, topLevel, child)
		}
		return
	}

	if a.Value.Kind() == slog.KindAny {
		if err, ok := a.Value.Any().(error); ok {
			if c.firstErr == nil {
				c.firstErr = err
			}
			return
		}
	}
	if a.Key == "" {
		return
	}
	if topLevel && a.Key == logspy.LoggerKey {
		c.name = a.Value.String()
		return
	}

	key := prefix + a.Key
	if logstash.IsStandardField(key) {
		return
	}
	if s, ok := scalarString(a.Value); ok {
		c.context[key] = s
	}
}

// scalarString renders values that the logstash layout writes as JSON
// strings, numbers or booleans, using the same text.
func scalarString(v slog.Value) (string, bool) {
	switch v.Kind() {
	case slog.KindString:
		return v.String(), true
	case slog.KindBool:
		return strconv.FormatBool(v.Bool()), true
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10), true
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10), true
	case slog.KindFloat64:
		b, err := json.Marshal(v.Float64())
		if err != nil {
			return "", false
		}
		return string(b), true
	case slog.KindDuration:
		return v.Duration().String(), true
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339Nano), true
	case slog.KindAny:
		if tm, ok := v.Any().(encoding.TextMarshaler); ok {
			text, err := tm.MarshalText()
			if err != nil {
				return "", false
			}
			return string(text), true
		}
		return "", false
	default:
		return "", false
	}
}

var _ slog.Handler = (*Handler)(nil)
