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

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pjscruggs/logspy"
	"github.com/pjscruggs/logspy/stacktrace"
)

// maxLineSize bounds a single captured line. Stack traces of deep call
// chains easily exceed bufio's default.
const maxLineSize = 16 << 20

// Extract converts one decoded JSON object into an event when its
// logger_name equals logger. Objects of other loggers are skipped with
// ok == false. Objects that cannot be interpreted yield an error wrapping
// logspy.ErrMalformedOutput.
//
// Numbers must be decoded as json.Number to keep their literal text in the
// context; float64 values are formatted in their shortest form.
func Extract(obj map[string]any, logger string) (event logspy.LogEvent, ok bool, err error) {
	name, _ := obj[LoggerNameKey].(string)
	if name != logger {
		return logspy.LogEvent{}, false, nil
	}

	if raw, present := obj[MessageKey]; present && raw != nil {
		msg, isPrimitive := primitiveString(raw)
		if !isPrimitive {
			return logspy.LogEvent{}, false, fmt.Errorf("%w: message of %q is not a primitive: %v", logspy.ErrMalformedOutput, logger, raw)
		}
		event.Message = &msg
	}

	literal, _ := obj[LevelKey].(string)
	level, err := logspy.ParseLevel(literal)
	if err != nil {
		return logspy.LogEvent{}, false, fmt.Errorf("%w: level of %q: %w", logspy.ErrMalformedOutput, logger, err)
	}
	event.Level = level

	if raw, _ := obj[StackTraceKey].(string); raw != "" {
		snap, err := stacktrace.Parse(raw, stacktrace.DetectConvention(raw))
		if err != nil {
			return logspy.LogEvent{}, false, fmt.Errorf("logstash: stack_trace of %q: %w", logger, err)
		}
		event.Exception = snap
	}

	event.Context = make(map[string]string)
	for key, value := range obj {
		if IsStandardField(key) {
			continue
		}
		if s, isPrimitive := primitiveString(value); isPrimitive {
			event.Context[key] = s
		}
	}
	return event, true, nil
}

// primitiveString renders JSON strings, numbers and booleans. Null, objects
// and arrays are not primitives.
func primitiveString(v any) (string, bool) {
	switch typed := v.(type) {
	case string:
		return typed, true
	case json.Number:
		return typed.String(), true
	case bool:
		return strconv.FormatBool(typed), true
	case float64:
		return strconv.FormatFloat(typed, 'g', -1, 64), true
	default:
		return "", false
	}
}

// ParseEvents extracts the events of logger from captured output. Lines are
// split on '\n'. Blank lines and lines that do not start with '{' are other
// output sharing the stream and are skipped; a line that starts with '{'
// but is not a valid JSON object is malformed.
func ParseEvents(content, logger string) ([]logspy.LogEvent, error) {
	return ReadEvents(strings.NewReader(content), logger)
}

// ReadEvents is like ParseEvents but reads the output from r.
func ReadEvents(r io.Reader, logger string) ([]logspy.LogEvent, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var events []logspy.LogEvent
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}
		obj, err := decodeObject(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %q: %w", logspy.ErrMalformedOutput, lineNo, line, err)
		}
		event, ok, err := Extract(obj, logger)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if ok {
			events = append(events, event)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("logstash: reading output: %w", err)
	}
	return events, nil
}

// decodeObject decodes exactly one JSON object, keeping numbers as
// json.Number.
func decodeObject(line []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON object")
	}
	return obj, nil
}
