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

package stdout

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const envRedirect = "LOGSPY_STDOUT_REDIRECT"

// syncPrefix starts the barrier token Sync writes through the pipe. The
// token is the prefix, a UUID and a NUL byte.
const syncPrefix = "\x00logspy-sync:"

const syncTokenLen = len(syncPrefix) + 36 + 1

const pumpBufferSize = 32 << 10

// redirect owns the process-wide replacement of os.Stdout. It is created on
// first use and never torn down.
type redirect struct {
	once sync.Once
	err  error

	mux  *Multiplexer
	pipe *os.File

	mu      sync.Mutex
	waiters map[string]chan struct{}
	stopped chan struct{}
}

var process redirect

func (r *redirect) init() error {
	r.once.Do(func() {
		original := os.Stdout
		r.mux = NewMultiplexer(original)
		r.waiters = make(map[string]chan struct{})
		r.stopped = make(chan struct{})
		if !redirectEnabled() {
			return
		}

		pr, pw, err := os.Pipe()
		if err != nil {
			r.err = fmt.Errorf("stdout: creating pipe: %w", err)
			return
		}
		r.pipe = pw
		os.Stdout = pw
		go r.pump(pr)
	})
	return r.err
}

func redirectEnabled() bool {
	value := strings.TrimSpace(os.Getenv(envRedirect))
	if value == "" {
		return true
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return true
	}
	return enabled
}

// pump is the only reader of the pipe.
func (r *redirect) pump(pr *os.File) {
	defer close(r.stopped)
	filter := &sentinelFilter{out: r.mux, onToken: r.release}
	buf := make([]byte, pumpBufferSize)
	for {
		n, err := pr.Read(buf)
		if n > 0 {
			filter.feed(buf[:n])
		}
		if err != nil {
			filter.flush()
			return
		}
	}
}

func (r *redirect) release(id string) {
	r.mu.Lock()
	if done, ok := r.waiters[id]; ok {
		close(done)
		delete(r.waiters, id)
	}
	r.mu.Unlock()
}

func (r *redirect) sync(ctx context.Context) error {
	if err := r.init(); err != nil {
		return err
	}
	if r.pipe == nil {
		return nil
	}

	id := uuid.NewString()
	done := make(chan struct{})
	r.mu.Lock()
	r.waiters[id] = done
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.waiters, id)
		r.mu.Unlock()
	}()

	if _, err := r.pipe.WriteString(syncPrefix + id + "\x00"); err != nil {
		return fmt.Errorf("stdout: writing sync token: %w", err)
	}
	select {
	case <-done:
		return nil
	case <-r.stopped:
		return ErrPumpStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sentinelFilter strips sync tokens from the pumped byte stream and passes
// everything else on. A token split across reads is held back until it is
// complete.
type sentinelFilter struct {
	out     io.Writer
	onToken func(id string)
	pending []byte
}

func (f *sentinelFilter) feed(p []byte) {
	data := p
	if len(f.pending) > 0 {
		data = append(f.pending, p...)
		f.pending = nil
	}

	prefix := []byte(syncPrefix)
	for len(data) > 0 {
		i := bytes.Index(data, prefix)
		if i < 0 {
			keep := partialPrefixLen(data)
			f.emit(data[:len(data)-keep])
			if keep > 0 {
				f.pending = bytes.Clone(data[len(data)-keep:])
			}
			return
		}
		f.emit(data[:i])
		rest := data[i:]
		if len(rest) < syncTokenLen {
			f.pending = bytes.Clone(rest)
			return
		}
		id := string(rest[len(syncPrefix) : syncTokenLen-1])
		if rest[syncTokenLen-1] == 0 && isUUID(id) {
			f.onToken(id)
			data = rest[syncTokenLen:]
			continue
		}
		f.emit(rest[:1])
		data = rest[1:]
	}
}

// flush passes on bytes held back as a possible token.
func (f *sentinelFilter) flush() {
	f.emit(f.pending)
	f.pending = nil
}

func (f *sentinelFilter) emit(p []byte) {
	if len(p) == 0 {
		return
	}
	_, _ = f.out.Write(p)
}

// partialPrefixLen returns the length of the longest proper prefix of
// syncPrefix that data ends with.
func partialPrefixLen(data []byte) int {
	for k := min(len(syncPrefix)-1, len(data)); k > 0; k-- {
		if bytes.HasSuffix(data, []byte(syncPrefix[:k])) {
			return k
		}
	}
	return 0
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Initialize redirects os.Stdout into the process multiplexer. Only the first
// call has an effect; later calls return its result. When
// LOGSPY_STDOUT_REDIRECT is false os.Stdout is left alone.
func Initialize() error {
	return process.init()
}

// Default returns the process multiplexer, initializing it on first use. Its
// real destination is the original os.Stdout.
func Default() *Multiplexer {
	_ = process.init()
	return process.mux
}

// Writer returns a writer that feeds the process multiplexer directly,
// bypassing the pipe. It is the only captured destination when the
// redirection is disabled.
func Writer() io.Writer {
	return Default()
}

// Redirected reports whether os.Stdout currently feeds the process
// multiplexer through the pipe.
func Redirected() bool {
	_ = process.init()
	return process.pipe != nil
}

// Sync waits until everything written to the redirected os.Stdout before the
// call has reached the taps. It returns immediately when the redirection is
// disabled.
func Sync(ctx context.Context) error {
	return process.sync(ctx)
}
