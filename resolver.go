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
	"os"
	"strings"
	"sync"
)

const envProvider = "LOGSPY_PROVIDER"

var resolver = &providerRegistry{}

// providerRegistry implements the override-then-discovery lookup used to find
// the active backend. Backends register themselves from their package init
// functions, the same way database/sql drivers do.
type providerRegistry struct {
	mu        sync.RWMutex
	override  Provider
	names     []string
	providers map[string]Provider
}

// Register makes a provider discoverable under name. Registering the same name
// twice replaces the earlier provider but keeps its position.
func Register(name string, p Provider) {
	if p == nil {
		panic("logspy: Register provider is nil")
	}
	resolver.mu.Lock()
	defer resolver.mu.Unlock()
	if resolver.providers == nil {
		resolver.providers = make(map[string]Provider)
	}
	if _, exists := resolver.providers[name]; !exists {
		resolver.names = append(resolver.names, name)
	}
	resolver.providers[name] = p
}

// SetProvider installs p as a process-wide override that takes precedence over
// every registered provider. Passing nil removes the override.
func SetProvider(p Provider) {
	resolver.mu.Lock()
	defer resolver.mu.Unlock()
	resolver.override = p
}

// Load resolves the active provider. The override set through SetProvider
// wins; otherwise the provider named by LOGSPY_PROVIDER is used; otherwise the
// first registered provider. The boolean is false when nothing is available.
func Load() (Provider, bool) {
	resolver.mu.RLock()
	defer resolver.mu.RUnlock()
	if resolver.override != nil {
		return resolver.override, true
	}
	if name := strings.TrimSpace(os.Getenv(envProvider)); name != "" {
		p, ok := resolver.providers[name]
		return p, ok
	}
	if len(resolver.names) == 0 {
		return nil, false
	}
	return resolver.providers[resolver.names[0]], true
}

// Providers returns the registered provider names in registration order.
func Providers() []string {
	resolver.mu.RLock()
	defer resolver.mu.RUnlock()
	return append([]string(nil), resolver.names...)
}
