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

package stacktrace

import "github.com/pjscruggs/logspy"

// Header is the parsed header line of an exception: its type and optional
// message. Message is nil for "Type" and points at "" for "Type:".
type Header struct {
	Type    string
	Message *string
}

// Listener receives the elements of a parsed trace in document order. Every
// Enter call is matched by the corresponding Exit call, and the frames of an
// exception arrive between the two.
type Listener interface {
	EnterTrace(h Header)
	ExitTrace(h Header)
	EnterCause(h Header)
	ExitCause(h Header)
	EnterSuppressed(h Header)
	ExitSuppressed(h Header)
	Frame(f logspy.StackFrameSnapshot)
}

// BaseListener implements Listener with no-op methods. Embed it to handle a
// subset of the events.
type BaseListener struct{}

func (BaseListener) EnterTrace(Header)               {}
func (BaseListener) ExitTrace(Header)                {}
func (BaseListener) EnterCause(Header)               {}
func (BaseListener) ExitCause(Header)                {}
func (BaseListener) EnterSuppressed(Header)          {}
func (BaseListener) ExitSuppressed(Header)           {}
func (BaseListener) Frame(logspy.StackFrameSnapshot) {}
