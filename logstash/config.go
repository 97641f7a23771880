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
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/pjscruggs/logspy"
)

const (
	envLevel          = "LOGSPY_LEVEL"
	envLoggerName     = "LOGSPY_LOGGER_NAME"
	envRootCauseFirst = "LOGSPY_ROOT_CAUSE_FIRST"
	envThreadName     = "LOGSPY_EMIT_THREAD_NAME"
	envStackTrace     = "LOGSPY_STACK_TRACE_ENABLED"
)

// DefaultLoggerName is the logger name of records that do not carry a
// logspy.LoggerKey attribute, matching the name of logback's root logger.
const DefaultLoggerName = "ROOT"

var handlerEnvConfigCache atomic.Pointer[handlerConfig]

type handlerConfig struct {
	Level             slog.Level
	LoggerName        string
	RootCauseFirst    bool
	EmitThreadName    bool
	StackTraceEnabled bool
	Writer            io.Writer
	ReplaceAttr       func([]string, slog.Attr) slog.Attr
}

// cachedConfigFromEnv returns the environment configuration, reading the
// environment only once per process.
func cachedConfigFromEnv(logger *slog.Logger) handlerConfig {
	if cached := handlerEnvConfigCache.Load(); cached != nil {
		return *cached
	}
	cfg := loadConfigFromEnv(logger)
	entry := new(handlerConfig)
	*entry = cfg
	if handlerEnvConfigCache.CompareAndSwap(nil, entry) {
		return cfg
	}
	return *handlerEnvConfigCache.Load()
}

// resetConfigCache forgets the cached environment configuration.
func resetConfigCache() {
	handlerEnvConfigCache.Store(nil)
}

func loadConfigFromEnv(logger *slog.Logger) handlerConfig {
	cfg := handlerConfig{
		Level:          slog.LevelInfo,
		LoggerName:     DefaultLoggerName,
		EmitThreadName: true,
	}

	cfg.Level = parseLevelEnv(os.Getenv(envLevel), cfg.Level, logger)
	if name := strings.TrimSpace(os.Getenv(envLoggerName)); name != "" {
		cfg.LoggerName = name
	}
	cfg.RootCauseFirst = parseBoolEnv(os.Getenv(envRootCauseFirst), cfg.RootCauseFirst, logger)
	cfg.EmitThreadName = parseBoolEnv(os.Getenv(envThreadName), cfg.EmitThreadName, logger)
	cfg.StackTraceEnabled = parseBoolEnv(os.Getenv(envStackTrace), cfg.StackTraceEnabled, logger)
	return cfg
}

// parseBoolEnv interprets truthy environment variable values with validation
// diagnostics.
func parseBoolEnv(value string, current bool, logger *slog.Logger) bool {
	if strings.TrimSpace(value) == "" {
		return current
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		logDiagnostic(logger, slog.LevelWarn, "invalid boolean environment variable", slog.String("value", value), slog.Any("error", err))
		return current
	}
	return b
}

// parseLevelEnv accepts the level literals in any case or a numeric slog
// level, retaining the current level on failure.
func parseLevelEnv(value string, current slog.Level, logger *slog.Logger) slog.Level {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return current
	}
	if trimmed == "WARNING" {
		trimmed = "WARN"
	}
	if level, err := logspy.ParseLevel(trimmed); err == nil {
		return level.Level()
	}
	if lv, err := strconv.Atoi(trimmed); err == nil {
		return slog.Level(lv)
	}

	logDiagnostic(logger, slog.LevelWarn, "invalid log level environment variable", slog.String("value", value))
	return current
}

// logDiagnostic emits internal diagnostic messages, guarding against nil
// loggers in tests.
func logDiagnostic(logger *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	logger.LogAttrs(context.Background(), level, msg, attrs...)
}
