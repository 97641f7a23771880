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

// Package slogspy records slog records in memory for logspy.
//
// A [Handler] sits in front of the application's real handler. Every record
// is passed on unchanged and also converted into a logspy.LogEvent for each
// [Recorder] listening on the record's logger name. No text is printed or
// parsed on the way.
//
//	h := slogspy.NewHandler(slog.NewJSONHandler(os.Stderr, nil))
//	logger := slog.New(h).With(logspy.Logger("orders"))
//
// Importing the package registers the "slogspy" provider, which records
// through the handler returned by [Default].
package slogspy
