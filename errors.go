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

import "errors"

var (
	// ErrMalformedOutput reports captured output that does not follow the
	// supported logstash format. It signals a mismatch between the logging
	// backend and the spy rather than a condition a test can recover from.
	ErrMalformedOutput = errors.New("logspy: malformed log output")

	// ErrUnknownLevel reports a level literal outside TRACE, DEBUG, INFO,
	// WARN and ERROR.
	ErrUnknownLevel = errors.New("logspy: unknown level literal")

	// ErrNoProvider is returned when no spy provider is registered.
	ErrNoProvider = errors.New("logspy: no spy provider available")

	// ErrSpyClosed is returned when events are requested from a closed spy.
	ErrSpyClosed = errors.New("logspy: spy is closed")
)
