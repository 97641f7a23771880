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

package detend

import (
	"bufio"
	"errors"
	"io"
)

// Reader is the streaming form of Detend. It pulls bytes from its entries one
// after the other and yields the detended text without buffering whole
// entries.
type Reader struct {
	entries []io.Reader
	next    int
	src     *bufio.Reader

	depth    int
	inIndent bool
	tabs     int

	out  []byte
	done bool
}

// NewReader returns a Reader over entries. For the same input it produces the
// same bytes as Detend.
func NewReader(entries ...io.Reader) *Reader {
	return &Reader{entries: entries}
}

// Read implements io.Reader. Errors from the underlying entries other than
// io.EOF are returned unchanged.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(r.out) == 0 {
		if r.done {
			return 0, io.EOF
		}
		if err := r.step(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.out)
	r.out = r.out[n:]
	return n, nil
}

// step consumes at most one input byte and appends its encoding to r.out.
func (r *Reader) step() error {
	if r.src == nil {
		if r.next >= len(r.entries) {
			r.done = true
			return nil
		}
		if r.next > 0 {
			r.out = append(r.out, EndEntry...)
		}
		r.src = bufio.NewReader(r.entries[r.next])
		r.next++
		r.depth, r.inIndent, r.tabs = 0, false, 0
		return nil
	}

	c, err := r.src.ReadByte()
	if errors.Is(err, io.EOF) {
		r.endLineIndent()
		r.indentTo(0)
		r.src = nil
		return nil
	}
	if err != nil {
		return err
	}

	switch {
	case c == '\n':
		r.endLineIndent()
		r.out = append(r.out, EscapedNewline...)
		r.inIndent, r.tabs = true, 0
	case c == '\t' && r.inIndent:
		r.tabs++
	case c == '\t':
		r.out = append(r.out, EscapedTab...)
	default:
		r.endLineIndent()
		r.out = append(r.out, c)
	}
	return nil
}

// endLineIndent applies the indentation gathered since the last newline.
func (r *Reader) endLineIndent() {
	if !r.inIndent {
		return
	}
	r.inIndent = false
	r.indentTo(r.tabs)
	r.tabs = 0
}

func (r *Reader) indentTo(depth int) {
	for ; r.depth < depth; r.depth++ {
		r.out = append(r.out, Open...)
	}
	for ; r.depth > depth; r.depth-- {
		r.out = append(r.out, Close...)
	}
}
