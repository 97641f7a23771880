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

package stacktrace

import (
	"errors"
	"io"
	"strings"

	"github.com/pjscruggs/logspy"
	"github.com/pjscruggs/logspy/detend"
)

// Parse rebuilds the exception tree printed in raw. Text that does not follow
// the grammar of conv yields a *SyntaxError carrying raw.
func Parse(raw string, conv Convention) (*logspy.ExceptionSnapshot, error) {
	snap, err := ParseReader(strings.NewReader(raw), conv)
	if err != nil {
		return nil, withRaw(err, raw)
	}
	return snap, nil
}

// ParseReader is like Parse but streams the trace from r through the
// detender instead of buffering it first.
func ParseReader(r io.Reader, conv Convention) (*logspy.ExceptionSnapshot, error) {
	reducer := NewReducer(conv)
	if err := Walk(r, conv, reducer); err != nil {
		return nil, err
	}
	return reducer.Result(), nil
}

// Walk parses the single trace read from r and reports it to l.
func Walk(r io.Reader, conv Convention, l Listener) error {
	tokens, err := lex(detend.NewReader(r))
	if err != nil {
		return err
	}
	entries, err := buildEntries(tokens)
	if err != nil {
		return err
	}
	if len(entries) != 1 {
		return &SyntaxError{Msg: "expected a single stack trace"}
	}
	p := &parser{conv: conv}
	tree, err := p.parseEntry(entries[0])
	if err != nil {
		return err
	}
	walk(tree, l)
	return nil
}

// ParseEntries parses several traces at once. The traces are detended
// together, separated by end-of-entry markers, and each one is reduced on
// its own. The first failing trace aborts parsing.
func ParseEntries(conv Convention, raws ...string) ([]*logspy.ExceptionSnapshot, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	tokens, err := lex(strings.NewReader(detend.Detend(raws...)))
	if err != nil {
		return nil, err
	}
	entries, err := buildEntries(tokens)
	if err != nil {
		return nil, err
	}

	p := &parser{conv: conv}
	out := make([]*logspy.ExceptionSnapshot, 0, len(entries))
	for i, entry := range entries {
		tree, err := p.parseEntry(entry)
		if err != nil {
			return nil, withRaw(err, raws[i])
		}
		reducer := NewReducer(conv)
		walk(tree, reducer)
		out = append(out, reducer.Result())
	}
	return out, nil
}

func withRaw(err error, raw string) error {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) && syntaxErr.Raw == "" {
		syntaxErr.Raw = raw
	}
	return err
}
