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

// Reducer is a Listener that folds a parsed trace into an exception tree.
// Each exception under construction owns a state holding its frames, its
// suppressed exceptions and the cause fragments parsed after it; when the
// exception ends, the state is reduced into a single snapshot according to
// the convention.
type Reducer struct {
	conv   Convention
	states []*reducerState
	result *logspy.ExceptionSnapshot
}

type reducerState struct {
	frames     []logspy.StackFrameSnapshot
	suppressed []*logspy.ExceptionSnapshot
	causes     []*logspy.ExceptionSnapshot
}

// NewReducer returns a Reducer for traces printed with conv.
func NewReducer(conv Convention) *Reducer {
	return &Reducer{conv: conv}
}

// Result returns the snapshot of the last completed trace.
func (r *Reducer) Result() *logspy.ExceptionSnapshot {
	return r.result
}

func (r *Reducer) EnterTrace(Header) { r.push() }

func (r *Reducer) ExitTrace(h Header) {
	r.result = r.finish(h)
}

func (r *Reducer) EnterCause(Header) { r.push() }

func (r *Reducer) ExitCause(h Header) {
	snap := r.finish(h)
	top := r.top()
	top.causes = append(top.causes, snap)
}

func (r *Reducer) EnterSuppressed(Header) { r.push() }

func (r *Reducer) ExitSuppressed(h Header) {
	snap := r.finish(h)
	top := r.top()
	top.suppressed = append(top.suppressed, snap)
}

func (r *Reducer) Frame(f logspy.StackFrameSnapshot) {
	top := r.top()
	top.frames = append(top.frames, f)
}

func (r *Reducer) push() {
	r.states = append(r.states, &reducerState{})
}

func (r *Reducer) top() *reducerState {
	if len(r.states) == 0 {
		panic("stacktrace: reducer event outside of an exception")
	}
	return r.states[len(r.states)-1]
}

// finish pops the current state and reduces it with its leaf exception.
func (r *Reducer) finish(h Header) *logspy.ExceptionSnapshot {
	st := r.top()
	r.states = r.states[:len(r.states)-1]

	leaf := &logspy.ExceptionSnapshot{
		Type:       h.Type,
		StackTrace: st.frames,
		Suppressed: st.suppressed,
	}
	if h.Message != nil {
		msg := *h.Message
		leaf.Message = &msg
	}
	fragments := make([]*logspy.ExceptionSnapshot, 0, 1+len(st.causes))
	fragments = append(fragments, leaf)
	fragments = append(fragments, st.causes...)
	return reduce(fragments, r.conv)
}

// reduce links fragments into one cause chain. With RootCauseLast the first
// fragment is the outermost exception and each later one is the cause of the
// one before it; with RootCauseFirst the first fragment is the root cause and
// each later one wraps the one before it. An empty list is a programming
// error.
func reduce(fragments []*logspy.ExceptionSnapshot, conv Convention) *logspy.ExceptionSnapshot {
	if len(fragments) == 0 {
		panic("stacktrace: no fragments to reduce")
	}
	if len(fragments) == 1 {
		return fragments[0]
	}

	var result *logspy.ExceptionSnapshot
	link := func(f *logspy.ExceptionSnapshot) {
		linked := *f
		linked.Cause = result
		result = &linked
	}
	if conv == RootCauseFirst {
		for _, f := range fragments {
			link(f)
		}
		return result
	}
	for i := len(fragments) - 1; i >= 0; i-- {
		link(fragments[i])
	}
	return result
}
