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

import "slices"

// Events is a list of captured events with filtering helpers. Filters return
// new lists and never modify the receiver.
type Events []LogEvent

// Messages returns the message of every event, using "" for events without
// one.
func (es Events) Messages() []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.MessageText()
	}
	return out
}

// Levels returns the level of every event.
func (es Events) Levels() []Level {
	out := make([]Level, len(es))
	for i, e := range es {
		out[i] = e.Level
	}
	return out
}

// AtLevel keeps the events logged at exactly level.
func (es Events) AtLevel(level Level) Events {
	return es.filter(func(e LogEvent) bool { return e.Level == level })
}

// AtLeast keeps the events logged at level or a more severe one.
func (es Events) AtLeast(level Level) Events {
	return es.filter(func(e LogEvent) bool { return e.Level >= level })
}

// WithException keeps the events that carry an exception.
func (es Events) WithException() Events {
	return es.filter(func(e LogEvent) bool { return e.Exception != nil })
}

// WithContext keeps the events whose diagnostic context maps key to value.
func (es Events) WithContext(key, value string) Events {
	return es.filter(func(e LogEvent) bool {
		v, ok := e.Context[key]
		return ok && v == value
	})
}

// WithMessage keeps the events whose message equals msg.
func (es Events) WithMessage(msg string) Events {
	return es.filter(func(e LogEvent) bool { return e.Message != nil && *e.Message == msg })
}

func (es Events) filter(keep func(LogEvent) bool) Events {
	out := make(Events, 0, len(es))
	for _, e := range es {
		if keep(e) {
			out = append(out, e)
		}
	}
	return slices.Clip(out)
}
