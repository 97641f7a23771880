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

import (
	"fmt"
	"log/slog"
)

// Level is the severity of a captured [LogEvent]. Levels are totally ordered
// by severity: ERROR > WARN > INFO > DEBUG > TRACE. The underlying integer
// values line up with [slog.Level] so a Level can be used wherever a
// [slog.Leveler] is accepted.
type Level slog.Level

const (
	// LevelTrace is the most verbose level. It sits below slog's Debug level.
	LevelTrace Level = -8

	// LevelDebug maps to slog.LevelDebug.
	LevelDebug Level = Level(slog.LevelDebug) // -4

	// LevelInfo maps to slog.LevelInfo.
	LevelInfo Level = Level(slog.LevelInfo) // 0

	// LevelWarn maps to slog.LevelWarn.
	LevelWarn Level = Level(slog.LevelWarn) // 4

	// LevelError maps to slog.LevelError.
	LevelError Level = Level(slog.LevelError) // 8
)

// Levels lists every level in ascending order of severity.
var Levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// String returns the literal used by logstash encoders for the level
// ("TRACE", "DEBUG", "INFO", "WARN" or "ERROR"). Values between the defined
// constants are rendered as the nearest lower level plus an offset, for
// example "INFO+1".
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}

	var base Level
	switch {
	case l < LevelTrace:
		return slog.Level(l).String()
	case l < LevelDebug:
		base = LevelTrace
	case l < LevelInfo:
		base = LevelDebug
	case l < LevelWarn:
		base = LevelInfo
	case l < LevelError:
		base = LevelWarn
	default:
		base = LevelError
	}
	return fmt.Sprintf("%s+%d", base, int(l-base))
}

// Level returns the underlying slog.Level so Level satisfies slog.Leveler.
func (l Level) Level() slog.Level {
	return slog.Level(l)
}

// Value returns the numeric level value logback writes into the logstash
// "level_value" field.
func (l Level) Value() int {
	switch {
	case l >= LevelError:
		return 40000
	case l >= LevelWarn:
		return 30000
	case l >= LevelInfo:
		return 20000
	case l >= LevelDebug:
		return 10000
	default:
		return 5000
	}
}

// ParseLevel maps a level literal to a Level. Matching is case-sensitive and
// only the five canonical literals are accepted; anything else yields an
// error wrapping ErrUnknownLevel.
func ParseLevel(literal string) (Level, error) {
	switch literal {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, literal)
}

// LevelOf folds an arbitrary slog level onto the nearest defined Level at or
// below it. Anything below LevelDebug becomes LevelTrace.
func LevelOf(level slog.Level) Level {
	l := Level(level)
	switch {
	case l >= LevelError:
		return LevelError
	case l >= LevelWarn:
		return LevelWarn
	case l >= LevelInfo:
		return LevelInfo
	case l >= LevelDebug:
		return LevelDebug
	default:
		return LevelTrace
	}
}
