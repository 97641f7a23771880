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

package slogspy

import (
	"slices"
	"sync"

	"github.com/pjscruggs/logspy"
)

// Recorder collects the events of one logger name. It implements logspy.Spy.
type Recorder struct {
	name string
	hub  *hub

	mu     sync.Mutex
	events []logspy.LogEvent
	closed bool
}

// Name returns the logger name the recorder listens on.
func (r *Recorder) Name() string {
	return r.name
}

func (r *Recorder) add(event logspy.LogEvent) {
	r.mu.Lock()
	if !r.closed {
		r.events = append(r.events, event.Clone())
	}
	r.mu.Unlock()
}

// Events returns copies of the recorded events, oldest first.
func (r *Recorder) Events() ([]logspy.LogEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, logspy.ErrSpyClosed
	}
	out := make([]logspy.LogEvent, len(r.events))
	for i, e := range r.events {
		out[i] = e.Clone()
	}
	return out, nil
}

// Close stops recording and drops the recorded events.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.events = nil
	r.mu.Unlock()

	r.hub.remove(r)
	return nil
}

// hub indexes the open recorders of a handler family by logger name.
type hub struct {
	mu        sync.RWMutex
	recorders map[string][]*Recorder
}

func newHub() *hub {
	return &hub{recorders: make(map[string][]*Recorder)}
}

func (h *hub) add(r *Recorder) {
	h.mu.Lock()
	h.recorders[r.name] = append(h.recorders[r.name], r)
	h.mu.Unlock()
}

func (h *hub) remove(r *Recorder) {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := h.recorders[r.name]
	if i := slices.Index(list, r); i >= 0 {
		list = slices.Delete(list, i, i+1)
	}
	if len(list) == 0 {
		delete(h.recorders, r.name)
		return
	}
	h.recorders[r.name] = list
}

// listening reports whether any recorder is open.
func (h *hub) listening() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.recorders) > 0
}

func (h *hub) dispatch(name string, event logspy.LogEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, r := range h.recorders[name] {
		r.add(event)
	}
}

var _ logspy.Spy = (*Recorder)(nil)
