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

// Package logstash reads and writes log events in the logstash JSON layout:
// one JSON object per line carrying @timestamp, @version, message,
// logger_name, thread_name, level, level_value and, for events with an
// error, a Java-style stack_trace. Every other primitive field is part of
// the event's diagnostic context.
//
// [ParseEvents] and [Extract] turn captured output back into
// [logspy.LogEvent] values, and [NewHandler] returns a [log/slog] handler
// that writes the layout, so Go code can be observed through the same
// stdout spy as a JVM service using the logstash encoder:
//
//	logger := slog.New(logstash.NewHandler(nil, logstash.WithLoggerName("orders")))
//	logger.Error("payment failed", slog.Any("error", err))
package logstash
