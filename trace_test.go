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
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func sampledSpanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	if err != nil {
		t.Fatalf("TraceIDFromHex() returned %v", err)
	}
	spanID, err := trace.SpanIDFromHex("b7ad6b7169203331")
	if err != nil {
		t.Fatalf("SpanIDFromHex() returned %v", err)
	}
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
}

// TestTraceAttributesRoundTrip checks attributes rebuild the same span context.
func TestTraceAttributesRoundTrip(t *testing.T) {
	t.Parallel()

	sc := sampledSpanContext(t)
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	attrs, ok := TraceAttributes(ctx)
	if !ok {
		t.Fatal("TraceAttributes() reported no span")
	}
	event := LogEvent{Context: map[string]string{}}
	for _, attr := range attrs {
		event.Context[attr.Key] = attr.Value.String()
	}

	got := event.SpanContext()
	if got.TraceID() != sc.TraceID() || got.SpanID() != sc.SpanID() || !got.IsSampled() {
		t.Fatalf("SpanContext() = %v, want trace %s span %s sampled", got, sc.TraceID(), sc.SpanID())
	}
}

// TestTraceAttributesWithoutSpan reports false for plain contexts.
func TestTraceAttributesWithoutSpan(t *testing.T) {
	t.Parallel()

	if attrs, ok := TraceAttributes(context.Background()); ok || attrs != nil {
		t.Fatalf("TraceAttributes(Background) = %v, %v, want nil, false", attrs, ok)
	}
	raw, span, sampled, sc := ExtractTraceSpan(context.Background())
	if raw != "" || span != "" || sampled || sc.IsValid() {
		t.Fatalf("ExtractTraceSpan(Background) = %q, %q, %v, %v", raw, span, sampled, sc)
	}
}

// TestSpanContextInvalidEntries returns an invalid span context for bad ids.
func TestSpanContextInvalidEntries(t *testing.T) {
	t.Parallel()

	for _, ctx := range []map[string]string{
		nil,
		{TraceIDKey: "zz", SpanIDKey: "b7ad6b7169203331"},
		{TraceIDKey: "0af7651916cd43dd8448eb211c80319c"},
	} {
		if sc := (LogEvent{Context: ctx}).SpanContext(); sc.IsValid() {
			t.Fatalf("SpanContext() for %v is valid, want invalid", ctx)
		}
	}
}
