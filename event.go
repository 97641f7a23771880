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
	"maps"
	"slices"
	"strings"
)

// LogEvent is a single log statement captured by a spy. It is a value:
// spies hand out copies, so changing a returned event never affects what
// other callers observe.
type LogEvent struct {
	// Message is the already interpolated message. Nil means the backend did
	// not supply one.
	Message *string
	// Level is the severity the event was logged at.
	Level Level
	// Exception is the error attached to the event, if any.
	Exception *ExceptionSnapshot
	// Context holds the diagnostic context entries (MDC) that were active
	// when the event was logged.
	Context map[string]string
}

// MessageText returns the message or "" when none was supplied.
func (e LogEvent) MessageText() string {
	if e.Message == nil {
		return ""
	}
	return *e.Message
}

// Clone returns a deep copy of e.
func (e LogEvent) Clone() LogEvent {
	out := LogEvent{Level: e.Level}
	if e.Message != nil {
		msg := *e.Message
		out.Message = &msg
	}
	out.Exception = e.Exception.Clone()
	if e.Context != nil {
		out.Context = maps.Clone(e.Context)
	}
	return out
}

// ExceptionSnapshot is an immutable record of an exception (or Go error) as it
// was when the event was logged. Snapshots form a tree through Cause and
// Suppressed; each child is owned by exactly one parent.
type ExceptionSnapshot struct {
	// Type is the fully qualified type name.
	Type string
	// Message is nil when the exception carried no message and points at ""
	// when the message was explicitly empty.
	Message *string
	// Cause is the next exception of the cause chain.
	Cause *ExceptionSnapshot
	// Suppressed lists suppressed exceptions in declaration order.
	Suppressed []*ExceptionSnapshot
	// StackTrace lists frames with the top frame first.
	StackTrace []StackFrameSnapshot
}

// StackFrameSnapshot identifies one stack frame. Line and file information is
// not retained.
type StackFrameSnapshot struct {
	DeclaringClass string
	MethodName     string
}

// String renders the frame as "DeclaringClass.MethodName".
func (f StackFrameSnapshot) String() string {
	if f.DeclaringClass == "" {
		return f.MethodName
	}
	return f.DeclaringClass + "." + f.MethodName
}

// MessageText returns the message or "" when none was supplied.
func (s *ExceptionSnapshot) MessageText() string {
	if s == nil || s.Message == nil {
		return ""
	}
	return *s.Message
}

// RootCause follows the cause chain to its last element.
func (s *ExceptionSnapshot) RootCause() *ExceptionSnapshot {
	if s == nil {
		return nil
	}
	current := s
	for current.Cause != nil {
		current = current.Cause
	}
	return current
}

// CauseChain returns s followed by every cause, outermost first.
func (s *ExceptionSnapshot) CauseChain() []*ExceptionSnapshot {
	var chain []*ExceptionSnapshot
	for current := s; current != nil; current = current.Cause {
		chain = append(chain, current)
	}
	return chain
}

// Clone returns a deep copy of s.
func (s *ExceptionSnapshot) Clone() *ExceptionSnapshot {
	if s == nil {
		return nil
	}
	out := &ExceptionSnapshot{
		Type:  s.Type,
		Cause: s.Cause.Clone(),
	}
	if s.Message != nil {
		msg := *s.Message
		out.Message = &msg
	}
	if s.Suppressed != nil {
		out.Suppressed = make([]*ExceptionSnapshot, len(s.Suppressed))
		for i, child := range s.Suppressed {
			out.Suppressed[i] = child.Clone()
		}
	}
	out.StackTrace = slices.Clone(s.StackTrace)
	return out
}

// String renders the header line of the snapshot the way Throwable.toString
// does: the type, followed by ": message" when a message is present.
func (s *ExceptionSnapshot) String() string {
	if s == nil {
		return "<nil>"
	}
	if s.Message == nil {
		return s.Type
	}
	var sb strings.Builder
	sb.Grow(len(s.Type) + 2 + len(*s.Message))
	sb.WriteString(s.Type)
	sb.WriteString(": ")
	sb.WriteString(*s.Message)
	return sb.String()
}
