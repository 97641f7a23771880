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
	"context"
	"maps"
)

type contextKey int

const (
	mdcContextKey contextKey = iota
)

// ContextWithMDC returns a child context whose diagnostic context carries key
// set to value in addition to the entries already present in ctx. Handlers
// that honour the diagnostic context copy these entries into every record
// logged with the returned context.
func ContextWithMDC(ctx context.Context, key, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	current, _ := ctx.Value(mdcContextKey).(map[string]string)
	next := make(map[string]string, len(current)+1)
	maps.Copy(next, current)
	next[key] = value
	return context.WithValue(ctx, mdcContextKey, next)
}

// MDCFromContext returns a copy of the diagnostic context stored in ctx, or
// nil when there is none.
func MDCFromContext(ctx context.Context) map[string]string {
	if ctx == nil {
		return nil
	}
	current, ok := ctx.Value(mdcContextKey).(map[string]string)
	if !ok || len(current) == 0 {
		return nil
	}
	return maps.Clone(current)
}
