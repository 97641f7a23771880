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
	"strings"
)

// maxErrorDepth bounds the walk over error trees whose Unwrap methods form a
// cycle.
const maxErrorDepth = 64

// SnapshotOf converts a Go error tree into an ExceptionSnapshot.
//
// Type is the qualified dynamic type name and Message the result of Error.
// Cause follows Unwrap() error. The members of Unwrap() []error become
// suppressed snapshots; a multi-error whose text is just its members' texts
// joined by newlines (as produced by errors.Join) carries no message of its
// own. Frames come from a StackTrace() []uintptr method when the error
// provides one. SnapshotOf returns nil for a nil error.
func SnapshotOf(err error) *ExceptionSnapshot {
	return snapshotOf(err, 0)
}

func snapshotOf(err error, depth int) *ExceptionSnapshot {
	if err == nil || depth > maxErrorDepth {
		return nil
	}

	snap := &ExceptionSnapshot{Type: TypeName(err)}
	text := err.Error()

	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		members := multi.Unwrap()
		texts := make([]string, 0, len(members))
		for _, member := range members {
			if member == nil {
				continue
			}
			texts = append(texts, member.Error())
			if child := snapshotOf(member, depth+1); child != nil {
				snap.Suppressed = append(snap.Suppressed, child)
			}
		}
		if len(texts) == 0 || text != strings.Join(texts, "\n") {
			snap.Message = &text
		}
	} else {
		snap.Message = &text
		snap.Cause = snapshotOf(errors.Unwrap(err), depth+1)
	}

	if st, ok := err.(stackTracer); ok {
		snap.StackTrace = FramesOf(st.StackTrace())
	}
	return snap
}
