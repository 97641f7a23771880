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

// Package stdout captures logstash JSON lines printed to standard output.
//
// The first spy replaces os.Stdout with the write end of a pipe. A pump
// goroutine copies everything read from the pipe into a [Multiplexer], which
// forwards each write to the original standard output and to the [Tap] of
// every active spy. The redirection lives for the rest of the process.
//
// Importing the package registers the "stdout" provider with logspy:
//
//	import _ "github.com/pjscruggs/logspy/stdout"
//
//	func TestCheckout(t *testing.T) {
//	    spy := logspy.New(t, logspy.ByType[checkout.Service]())
//	    svc.Run()
//	    events := spy.Events()
//	}
//
// Output still in the pipe when a test binary exits is lost, including the
// final PASS line. Packages whose tests use the stdout spy should drain the
// pipe in TestMain:
//
//	func TestMain(m *testing.M) {
//	    code := m.Run()
//	    _ = stdout.Sync(context.Background())
//	    os.Exit(code)
//	}
//
// Set LOGSPY_STDOUT_REDIRECT=false to leave os.Stdout alone. Only bytes
// written through [Writer] are captured in that mode.
package stdout
