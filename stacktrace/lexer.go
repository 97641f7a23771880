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
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"

	"github.com/pjscruggs/logspy/detend"
)

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenNewline
	tokenOpen
	tokenClose
	tokenEndEntry
)

// token is a lexical element of detended text. Text tokens carry unescaped
// payload; the other kinds carry nothing.
type token struct {
	kind tokenKind
	text string
}

// lex splits detended input into tokens. Adjacent payload bytes and escaped
// tabs are merged into one text token. A text token always runs to the end
// of its line, so one trailing '\r' is dropped to accept CRLF traces.
func lex(r io.Reader) ([]token, error) {
	br := bufio.NewReader(r)
	var (
		tokens []token
		text   []byte
		group  [3]byte
	)
	flush := func() {
		text = bytes.TrimSuffix(text, []byte{'\r'})
		if len(text) > 0 {
			tokens = append(tokens, token{kind: tokenText, text: string(text)})
			text = text[:0]
		}
	}

	for {
		c, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			flush()
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		if c != '\n' && c != '\t' {
			text = append(text, c)
			continue
		}

		group[0] = c
		if _, err := io.ReadFull(br, group[1:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, &SyntaxError{Msg: "truncated control sequence"}
			}
			return nil, err
		}

		var kind tokenKind
		switch string(group[:]) {
		case detend.EscapedTab:
			text = append(text, '\t')
			continue
		case detend.EscapedNewline:
			kind = tokenNewline
		case detend.Open:
			kind = tokenOpen
		case detend.Close:
			kind = tokenClose
		case detend.EndEntry:
			kind = tokenEndEntry
		default:
			return nil, &SyntaxError{Msg: "unknown control sequence " + strconv.Quote(string(group[:]))}
		}
		flush()
		tokens = append(tokens, token{kind: kind})
	}
}
