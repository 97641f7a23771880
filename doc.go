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

// Package logspy captures the structured log events a test produces so the
// test can assert on them. Events are exposed as immutable [LogEvent] values
// carrying the message, [Level], diagnostic context and, when an error was
// logged, an [ExceptionSnapshot] tree with causes, suppressed errors and
// stack frames.
//
// A test obtains a spy with [New], naming the logger it wants to observe:
//
//	func TestCheckout(t *testing.T) {
//	    spy := logspy.New(t, logspy.ByType[checkout.Service]())
//	    svc.Checkout(ctx, cart)
//	    if got := spy.Events().AtLevel(logspy.LevelWarn).Messages(); len(got) != 0 {
//	        t.Fatalf("unexpected warnings: %q", got)
//	    }
//	}
//
// The spy stops recording when the test completes.
//
// # Backends
//
// Spies come from a [Provider]. Providers register themselves when their
// package is imported, in the style of database/sql drivers, and [Load]
// picks one: the override installed by [SetProvider], then the provider
// named by the LOGSPY_PROVIDER environment variable, then the first one
// registered.
//
//   - [github.com/pjscruggs/logspy/stdout] taps the process standard output
//     and reads logstash JSON lines, such as those written by
//     [github.com/pjscruggs/logspy/logstash.Handler]. Stack traces are
//     rebuilt from their text through
//     [github.com/pjscruggs/logspy/stacktrace].
//   - [github.com/pjscruggs/logspy/slogspy] records [log/slog] records in
//     memory without any text round trip.
package logspy
