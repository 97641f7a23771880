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

import (
	"fmt"

	"github.com/pjscruggs/logspy"
)

// SyntaxError reports stack trace text that does not follow the grammar. It
// unwraps to logspy.ErrMalformedOutput.
type SyntaxError struct {
	// Line is the 1-based line of the entry where parsing failed, or 0 when
	// the failure is not tied to a line.
	Line int
	// Text is the offending line.
	Text string
	// Msg describes the problem.
	Msg string
	// Raw is the complete stack trace text when it is known.
	Raw string
}

func (e *SyntaxError) Error() string {
	msg := "stacktrace: " + e.Msg
	if e.Line > 0 {
		msg = fmt.Sprintf("stacktrace: line %d: %s: %q", e.Line, e.Msg, e.Text)
	}
	if e.Raw != "" {
		msg += fmt.Sprintf(" in %q", e.Raw)
	}
	return msg
}

// Unwrap returns logspy.ErrMalformedOutput.
func (e *SyntaxError) Unwrap() error {
	return logspy.ErrMalformedOutput
}
