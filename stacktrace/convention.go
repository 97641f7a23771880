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

import "strings"

// Convention selects how cause chains are printed.
type Convention int

const (
	// RootCauseLast prints the outermost exception first and its causes
	// below it, each introduced by "Caused by: ".
	RootCauseLast Convention = iota
	// RootCauseFirst prints the root cause first and the exceptions wrapping
	// it below, each introduced by "Wrapped by: ".
	RootCauseFirst
)

// Captions that introduce the elements of a trace.
const (
	CausedByCaption   = "Caused by: "
	WrappedByCaption  = "Wrapped by: "
	SuppressedCaption = "Suppressed: "
	framePrefix       = "at "
	omittedPrefix     = "... "
)

// String returns the name of the convention.
func (c Convention) String() string {
	if c == RootCauseFirst {
		return "root-cause-first"
	}
	return "root-cause-last"
}

// caption returns the cause caption of c.
func (c Convention) caption() string {
	if c == RootCauseFirst {
		return WrappedByCaption
	}
	return CausedByCaption
}

// foreignCaption returns the cause caption of the other convention.
func (c Convention) foreignCaption() string {
	if c == RootCauseFirst {
		return CausedByCaption
	}
	return WrappedByCaption
}

// DetectConvention reports RootCauseFirst when any line of raw starts with the
// "Wrapped by: " caption after its indentation, and RootCauseLast otherwise.
func DetectConvention(raw string) Convention {
	for line := range strings.SplitSeq(raw, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, "\t"), WrappedByCaption) {
			return RootCauseFirst
		}
	}
	return RootCauseLast
}
