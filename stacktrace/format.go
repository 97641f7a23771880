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
	"slices"
	"strings"

	"github.com/pjscruggs/logspy"
)

// unknownLocation stands in for the source location of frames, which
// snapshots do not keep.
const unknownLocation = "(Unknown Source)"

// Format renders snap as Java-style stack trace text using conv. Lines of a
// multi-line message stay at the depth of the header they belong to, so
// Parse(Format(s, conv), conv) yields s again for snapshots whose message
// lines are neither blank nor start with a tab, a caption, "at " or an
// omitted frame marker.
func Format(snap *logspy.ExceptionSnapshot, conv Convention) string {
	if snap == nil {
		return ""
	}
	f := formatter{conv: conv}
	f.chain(snap, 0, "")
	return f.sb.String()
}

type formatter struct {
	conv  Convention
	sb    strings.Builder
	lines int
}

func (f *formatter) line(depth int, parts ...string) {
	if f.lines > 0 {
		f.sb.WriteByte('\n')
	}
	f.lines++
	for range depth {
		f.sb.WriteByte('\t')
	}
	for _, part := range parts {
		f.sb.WriteString(part)
	}
}

// chain prints snap and its causes at depth in the order of the convention.
func (f *formatter) chain(snap *logspy.ExceptionSnapshot, depth int, caption string) {
	chain := snap.CauseChain()
	if f.conv == RootCauseFirst {
		slices.Reverse(chain)
	}
	for i, link := range chain {
		if i > 0 {
			caption = f.conv.caption()
		}
		f.throwable(link, depth, caption)
	}
}

// throwable prints one exception without its causes.
func (f *formatter) throwable(snap *logspy.ExceptionSnapshot, depth int, caption string) {
	if snap.Message == nil {
		f.line(depth, caption, snap.Type)
	} else {
		msgLines := strings.Split(*snap.Message, "\n")
		f.line(depth, caption, snap.Type, ": ", msgLines[0])
		for _, more := range msgLines[1:] {
			f.line(depth, more)
		}
	}
	for _, frame := range snap.StackTrace {
		f.line(depth+1, framePrefix, frame.String(), unknownLocation)
	}
	for _, suppressed := range snap.Suppressed {
		f.chain(suppressed, depth+1, SuppressedCaption)
	}
}
