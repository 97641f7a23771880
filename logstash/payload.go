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
	"bytes"
	"encoding"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// entry is the scratch space of one Handle call: the JSON object being built,
// the first error attribute seen and the group prefix of the current attr.
type entry struct {
	fields map[string]any
	err    error
	prefix []byte
}

// reset empties e for reuse and returns its field map, grown to at least
// size entries.
func (e *entry) reset(size int) map[string]any {
	if e.fields == nil {
		e.fields = make(map[string]any, max(size, 16))
	} else {
		clear(e.fields)
	}
	e.err = nil
	e.prefix = e.prefix[:0]
	return e.fields
}

var (
	entryPool  = sync.Pool{New: func() any { return new(entry) }}
	bufferPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}
)

func getEntry() *entry { return entryPool.Get().(*entry) }

// putEntry returns e to the pool without pinning record values.
func putEntry(e *entry) {
	e.reset(0)
	entryPool.Put(e)
}

// errorOf returns the error carried by v, or nil.
func errorOf(v slog.Value) error {
	if v.Kind() == slog.KindAny {
		err, _ := v.Any().(error)
		return err
	}
	return nil
}

// fieldValue converts a resolved value into what the JSON encoder writes for
// the field. Durations and times are written as text, the way logback's
// argument appenders render them. ok is false for values with no field.
func fieldValue(v slog.Value) (any, bool) {
	switch v.Kind() {
	case slog.KindString:
		return v.String(), true
	case slog.KindInt64:
		return v.Int64(), true
	case slog.KindUint64:
		return v.Uint64(), true
	case slog.KindFloat64:
		return v.Float64(), true
	case slog.KindBool:
		return v.Bool(), true
	case slog.KindDuration:
		return v.Duration().String(), true
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339Nano), true
	case slog.KindAny:
		switch x := v.Any().(type) {
		case nil:
			return nil, false
		case json.Marshaler, encoding.TextMarshaler:
			return x, true
		case []byte:
			return string(x), true
		default:
			return x, true
		}
	}
	return nil, false
}
