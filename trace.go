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
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Diagnostic context keys used for trace correlation. They match the MDC
// keys written by the OpenTelemetry logback instrumentation so events
// captured from either side can be correlated the same way.
const (
	// TraceIDKey is the context key of the 32-char hex trace ID.
	TraceIDKey = "trace_id"
	// SpanIDKey is the context key of the 16-char hex span ID.
	SpanIDKey = "span_id"
	// TraceFlagsKey is the context key of the 2-char hex trace flags.
	TraceFlagsKey = "trace_flags"
)

// ExtractTraceSpan extracts OpenTelemetry trace details from ctx. It returns
// the raw hex trace and span IDs, the sampling decision and the span context
// itself (valid only when a trace is present).
func ExtractTraceSpan(ctx context.Context) (rawTraceID, rawSpanID string, sampled bool, otelCtx trace.SpanContext) {
	if ctx == nil {
		return "", "", false, otelCtx
	}
	otelCtx = trace.SpanContextFromContext(ctx)
	if !otelCtx.IsValid() {
		return "", "", false, otelCtx
	}
	return otelCtx.TraceID().String(), otelCtx.SpanID().String(), otelCtx.IsSampled(), otelCtx
}

// TraceAttributes returns the trace correlation entries for ctx as slog
// attributes, or false when ctx carries no valid span context.
func TraceAttributes(ctx context.Context) ([]slog.Attr, bool) {
	_, _, _, sc := ExtractTraceSpan(ctx)
	if !sc.IsValid() {
		return nil, false
	}
	return []slog.Attr{
		slog.String(TraceIDKey, sc.TraceID().String()),
		slog.String(SpanIDKey, sc.SpanID().String()),
		slog.String(TraceFlagsKey, sc.TraceFlags().String()),
	}, true
}

// SpanContext rebuilds the OpenTelemetry span context recorded in the event's
// diagnostic context. The result is invalid when the event carries no (or
// unparsable) trace correlation entries.
func (e LogEvent) SpanContext() trace.SpanContext {
	traceID, err := trace.TraceIDFromHex(e.Context[TraceIDKey])
	if err != nil {
		return trace.SpanContext{}
	}
	spanID, err := trace.SpanIDFromHex(e.Context[SpanIDKey])
	if err != nil {
		return trace.SpanContext{}
	}
	var flags trace.TraceFlags
	if e.Context[TraceFlagsKey] == "01" {
		flags = trace.FlagsSampled
	}
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	})
}
