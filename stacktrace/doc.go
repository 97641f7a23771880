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

// Package stacktrace rebuilds exception trees from the Java-style stack trace
// text found in the stack_trace field of logstash events, and renders trees
// back into that text.
//
// Parsing runs in three stages. The text is first rewritten by
// [github.com/pjscruggs/logspy/detend] so indentation becomes explicit, then
// a recursive descent parser recognises headers, frames, omitted frame
// markers, suppressed blocks and cause captions, and finally a [Reducer]
// listening to the parse folds the fragments into a single
// [logspy.ExceptionSnapshot].
//
// Two conventions exist for printing cause chains. [RootCauseLast] is the
// JVM default: the outermost exception comes first and each cause follows
// under a "Caused by: " caption. [RootCauseFirst] prints the root cause
// first and each wrapper under a "Wrapped by: " caption. A trace uses
// exactly one convention.
package stacktrace
