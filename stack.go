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
	"runtime"
	"strings"
	"sync"
)

// Constants defining the maximum stack frames captured for a snapshot.
const (
	maxStackFrames = 64
)

var stackPCPool = sync.Pool{
	New: func() any {
		buf := make([]uintptr, maxStackFrames)
		return &buf
	},
}

// stackTracer defines an interface errors can implement to provide their own
// stack trace in the form of program counters.
type stackTracer interface {
	StackTrace() []uintptr
}

// FramesOf resolves program counters into frame snapshots, top frame first.
// Runtime exit frames and frames without a function name are skipped.
func FramesOf(pcs []uintptr) []StackFrameSnapshot {
	if len(pcs) == 0 {
		return nil
	}
	if len(pcs) > maxStackFrames {
		pcs = pcs[:maxStackFrames]
	}

	out := make([]StackFrameSnapshot, 0, len(pcs))
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		if frame.PC == 0 {
			break
		}
		if frame.Function != "" && frame.Function != "runtime.goexit" {
			class, method := SplitFunctionName(frame.Function)
			out = append(out, StackFrameSnapshot{DeclaringClass: class, MethodName: method})
		}
		if !more {
			break
		}
	}
	return out
}

// SplitFunctionName splits a fully qualified function name into the part
// that plays the role of a declaring class and the method name. The split
// happens at the last '.' after the final path separator that is not inside
// type parameter brackets, so "github.com/acme/store.(*DB).Get" yields
// "github.com/acme/store.(*DB)" and "Get", "main.run.func1" yields "main.run"
// and "func1", and "java.base/java.lang.Thread.run" yields
// "java.base/java.lang.Thread" and "run".
func SplitFunctionName(fn string) (class, method string) {
	depth := 0
	for i := len(fn) - 1; i >= 0; i-- {
		switch fn[i] {
		case ']':
			depth++
		case '[':
			depth--
		case '/':
			if depth == 0 {
				return "", fn
			}
		case '.':
			if depth == 0 {
				return fn[:i], fn[i+1:]
			}
		}
	}
	return "", fn
}

// SkipInternalStackFrame reports whether a stack frame belongs to the runtime,
// log/slog or the logspy handlers and should not appear in captured stacks.
func SkipInternalStackFrame(funcName string) bool {
	if funcName == "" {
		return false
	}
	if strings.HasPrefix(funcName, "runtime.") || strings.HasPrefix(funcName, "log/slog.") {
		return true
	}
	for _, prefix := range internalPackages {
		if strings.HasPrefix(funcName, prefix) && !isTestFunction(funcName[len(prefix):]) {
			return true
		}
	}
	return false
}

var internalPackages = []string{
	"github.com/pjscruggs/logspy.",
	"github.com/pjscruggs/logspy/logstash.",
	"github.com/pjscruggs/logspy/slogspy.",
}

func isTestFunction(name string) bool {
	return strings.HasPrefix(name, "Test") || strings.HasPrefix(name, "Example") ||
		strings.HasPrefix(name, "Benchmark")
}

// CaptureFrames captures the current goroutine stack, trimming leading
// internal frames using skipFn (or SkipInternalStackFrame when nil). When every
// frame is internal the untrimmed stack is returned.
func CaptureFrames(skipFn func(string) bool) []StackFrameSnapshot {
	bufPtr := stackPCPool.Get().(*[]uintptr)
	defer stackPCPool.Put(bufPtr)
	pcs := (*bufPtr)[:cap(*bufPtr)]

	n := runtime.Callers(0, pcs)
	if n == 0 {
		return nil
	}
	if skipFn == nil {
		skipFn = SkipInternalStackFrame
	}

	all := FramesOf(pcs[:n])
	for i, frame := range all {
		if !skipFn(frame.String()) {
			return all[i:]
		}
	}
	return all
}

// GoroutineName returns the calling goroutine's name as printed in the header
// of runtime.Stack, for example "goroutine 7".
func GoroutineName() string {
	const fallback = "goroutine 0"

	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	if n <= 0 {
		return fallback
	}
	header := string(buf[:n])
	if idx := strings.IndexByte(header, '['); idx >= 0 {
		header = header[:idx]
	}
	header = strings.TrimSpace(header)
	if header == "" {
		return fallback
	}
	return header
}
