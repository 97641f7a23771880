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
	"log/slog"
	"reflect"
)

// LoggerKey is the attribute key slog based backends read the logger name
// from.
const LoggerKey = "logger"

// Logger returns the attribute that names the logger of a slog.Logger, as in
// slog.New(h).With(logspy.Logger(logspy.ByType[Service]())).
func Logger(name string) slog.Attr {
	return slog.String(LoggerKey, name)
}

// Spy records the log events of one logger from its creation until Close.
// Implementations must be safe for concurrent use.
type Spy interface {
	// Events returns the events captured so far, oldest first. The returned
	// slice and events are owned by the caller.
	Events() ([]LogEvent, error)

	// Close stops recording and releases the resources held by the spy. It
	// is safe to call more than once.
	Close() error
}

// Provider creates spies for a concrete logging backend.
type Provider interface {
	// SpyFor starts recording events logged under the logger name.
	SpyFor(name string) (Spy, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(name string) (Spy, error)

// SpyFor calls f(name).
func (f ProviderFunc) SpyFor(name string) (Spy, error) {
	return f(name)
}

// ByType returns the logger name used for loggers named after type T: the
// package path followed by "." and the type name. Pointer types resolve to
// their element type. Backends that name loggers after types must write
// exactly this literal as the logger name.
func ByType[T any]() string {
	return qualifiedName(reflect.TypeFor[T](), false)
}

// NameOf returns the logger name for the dynamic type of v, following the
// same rules as ByType. A string argument is returned as is.
func NameOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return qualifiedName(reflect.TypeOf(v), false)
}

// ByLiteral returns name unchanged. It exists to make call sites that spy on
// a literal logger name read the same as those that use ByType.
func ByLiteral(name string) string {
	return name
}

// TypeName returns the qualified name of the dynamic type of v, keeping
// pointer indirections as leading "*" characters (for example
// "*github.com/acme/store.NotFoundError").
func TypeName(v any) string {
	return qualifiedName(reflect.TypeOf(v), true)
}

// qualifiedName renders t as pkgpath.Name. Unnamed and predeclared types fall
// back to reflect's own rendering.
func qualifiedName(t reflect.Type, keepPointers bool) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		if keepPointers {
			return "*" + qualifiedName(t.Elem(), keepPointers)
		}
		return qualifiedName(t.Elem(), keepPointers)
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
