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

package logstash

// Standard field names of the logstash layout.
const (
	TimestampKey  = "@timestamp"
	VersionKey    = "@version"
	MessageKey    = "message"
	LoggerNameKey = "logger_name"
	ThreadNameKey = "thread_name"
	LevelKey      = "level"
	LevelValueKey = "level_value"
	StackTraceKey = "stack_trace"
	MarkersKey    = "markers"
)

// layoutVersion is the value of the @version field.
const layoutVersion = "1"

// timestampLayout matches the ISO-8601 timestamps of the logstash encoder.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var standardFields = map[string]struct{}{
	TimestampKey:  {},
	VersionKey:    {},
	MessageKey:    {},
	LoggerNameKey: {},
	ThreadNameKey: {},
	LevelKey:      {},
	LevelValueKey: {},
	StackTraceKey: {},
	MarkersKey:    {},
}

// IsStandardField reports whether key is one of the fields the layout
// reserves. Standard fields never appear in an event's context.
func IsStandardField(key string) bool {
	_, ok := standardFields[key]
	return ok
}
