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
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// TestSplitFunctionName covers package functions, methods and closures.
func TestSplitFunctionName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		fn, class, method string
	}{
		{"main.main", "main", "main"},
		{"main.run.func1", "main.run", "func1"},
		{"github.com/acme/store.Open", "github.com/acme/store", "Open"},
		{"github.com/acme/store.(*DB).Get", "github.com/acme/store.(*DB)", "Get"},
		{"github.com/acme/v2.pkg/store.T.m", "github.com/acme/v2.pkg/store.T", "m"},
		{"noDots", "", "noDots"},
		{"github.com/acme/list.Map[...]", "github.com/acme/list", "Map[...]"},
		{"github.com/acme/list.(*List[go.shape.int]).Push", "github.com/acme/list.(*List[go.shape.int])", "Push"},
		{"java.base/java.lang.Thread.run", "java.base/java.lang.Thread", "run"},
	}
	for _, tc := range testCases {
		class, method := SplitFunctionName(tc.fn)
		if class != tc.class || method != tc.method {
			t.Errorf("SplitFunctionName(%q) = (%q, %q), want (%q, %q)", tc.fn, class, method, tc.class, tc.method)
		}
	}
}

// TestCaptureFramesStartsOutsideRuntime ensures captured stacks skip runtime frames.
func TestCaptureFramesStartsOutsideRuntime(t *testing.T) {
	t.Parallel()

	frames := CaptureFrames(nil)
	if len(frames) == 0 {
		t.Fatal("CaptureFrames returned no frames")
	}
	top := frames[0].String()
	if strings.HasPrefix(top, "runtime.") {
		t.Fatalf("top frame = %q, want a non-runtime frame", top)
	}
	if frames[0].MethodName != "TestCaptureFramesStartsOutsideRuntime" {
		t.Fatalf("top frame method = %q, want the calling test", frames[0].MethodName)
	}
}

// TestSkipInternalStackFrame keeps test functions of logspy packages.
func TestSkipInternalStackFrame(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		fn   string
		want bool
	}{
		{"", false},
		{"runtime.Callers", true},
		{"log/slog.(*Logger).log", true},
		{"github.com/pjscruggs/logspy.CaptureFrames", true},
		{"github.com/pjscruggs/logspy/logstash.(*Handler).Handle", true},
		{"github.com/pjscruggs/logspy/logstash.TestHandlerWritesFrames", false},
		{"github.com/acme/store.(*DB).Get", false},
	}
	for _, tc := range testCases {
		if got := SkipInternalStackFrame(tc.fn); got != tc.want {
			t.Errorf("SkipInternalStackFrame(%q) = %v, want %v", tc.fn, got, tc.want)
		}
	}
}

// TestGoroutineName verifies the goroutine header format.
func TestGoroutineName(t *testing.T) {
	t.Parallel()

	name := GoroutineName()
	if !strings.HasPrefix(name, "goroutine ") || strings.ContainsAny(name, "[]:") {
		t.Fatalf("GoroutineName() = %q, want \"goroutine N\"", name)
	}
}

// stackError carries program counters captured at construction.
type stackError struct {
	msg string
	pcs []uintptr
}

func (e *stackError) Error() string         { return e.msg }
func (e *stackError) StackTrace() []uintptr { return e.pcs }

//go:noinline
func newStackError(msg string) error {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(1, pcs)
	return &stackError{msg: msg, pcs: pcs[:n]}
}

// loopError unwraps to itself.
type loopError struct{}

func (loopError) Error() string   { return "loop" }
func (e loopError) Unwrap() error { return e }

func ptr(s string) *string { return &s }

// TestSnapshotOfErrorTrees converts wrapped and joined errors.
func TestSnapshotOfErrorTrees(t *testing.T) {
	t.Parallel()

	base := errors.New("boom")
	other := errors.New("bang")

	testCases := []struct {
		name string
		err  error
		want *ExceptionSnapshot
	}{
		{
			name: "nil",
			err:  nil,
			want: nil,
		},
		{
			name: "plain",
			err:  base,
			want: &ExceptionSnapshot{Type: "*errors.errorString", Message: ptr("boom")},
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("save order: %w", base),
			want: &ExceptionSnapshot{
				Type:    "*fmt.wrapError",
				Message: ptr("save order: boom"),
				Cause:   &ExceptionSnapshot{Type: "*errors.errorString", Message: ptr("boom")},
			},
		},
		{
			name: "joined",
			err:  errors.Join(base, other),
			want: &ExceptionSnapshot{
				Type: "*errors.joinError",
				Suppressed: []*ExceptionSnapshot{
					{Type: "*errors.errorString", Message: ptr("boom")},
					{Type: "*errors.errorString", Message: ptr("bang")},
				},
			},
		},
		{
			name: "multi-wrapped",
			err:  fmt.Errorf("%w and %w", base, other),
			want: &ExceptionSnapshot{
				Type:    "*fmt.wrapErrors",
				Message: ptr("boom and bang"),
				Suppressed: []*ExceptionSnapshot{
					{Type: "*errors.errorString", Message: ptr("boom")},
					{Type: "*errors.errorString", Message: ptr("bang")},
				},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := SnapshotOf(tc.err)
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("SnapshotOf() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestSnapshotOfUsesErrorStack reads frames from StackTrace methods.
func TestSnapshotOfUsesErrorStack(t *testing.T) {
	t.Parallel()

	snap := SnapshotOf(newStackError("with stack"))
	if snap.Type != "*github.com/pjscruggs/logspy.stackError" {
		t.Fatalf("Type = %q, want *github.com/pjscruggs/logspy.stackError", snap.Type)
	}
	if len(snap.StackTrace) == 0 {
		t.Fatal("StackTrace is empty")
	}
	top := snap.StackTrace[0]
	want := StackFrameSnapshot{DeclaringClass: "github.com/pjscruggs/logspy", MethodName: "newStackError"}
	if top != want {
		t.Fatalf("top frame = %+v, want %+v", top, want)
	}
}

// TestSnapshotOfStopsOnCycles bounds self-unwrapping errors.
func TestSnapshotOfStopsOnCycles(t *testing.T) {
	t.Parallel()

	chain := SnapshotOf(loopError{}).CauseChain()
	if len(chain) != maxErrorDepth+1 {
		t.Fatalf("len(CauseChain()) = %d, want %d", len(chain), maxErrorDepth+1)
	}
}

// TestByTypeNames checks logger names derived from types.
func TestByTypeNames(t *testing.T) {
	t.Parallel()

	if got, want := ByType[LogEvent](), "github.com/pjscruggs/logspy.LogEvent"; got != want {
		t.Fatalf("ByType[LogEvent]() = %q, want %q", got, want)
	}
	if got, want := ByType[*LogSpy](), "github.com/pjscruggs/logspy.LogSpy"; got != want {
		t.Fatalf("ByType[*LogSpy]() = %q, want %q", got, want)
	}
	if got, want := NameOf(&Snapshot{}), "github.com/pjscruggs/logspy.Snapshot"; got != want {
		t.Fatalf("NameOf(&Snapshot{}) = %q, want %q", got, want)
	}
	if got := NameOf("orders"); got != "orders" {
		t.Fatalf("NameOf(\"orders\") = %q, want orders", got)
	}
	if got := ByLiteral("orders"); got != "orders" {
		t.Fatalf("ByLiteral(\"orders\") = %q, want orders", got)
	}
	if got, want := TypeName(loopError{}), "github.com/pjscruggs/logspy.loopError"; got != want {
		t.Fatalf("TypeName(loopError{}) = %q, want %q", got, want)
	}
}
