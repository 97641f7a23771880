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

// Package detend rewrites multi-line, tab-indented text (such as the
// stack_trace field of a logstash event) into a form where indentation is
// expressed by explicit open and close markers. Every marker and every
// escaped payload character is exactly three bytes long and starts with a
// newline or a tab, so a consumer can tokenise the output by looking at three
// bytes whenever it meets either character.
//
// Newlines always separate lines. The run of tabs that follows a newline is
// consumed as the next line's indentation; any other tab is payload. The
// first line of an entry starts at depth zero and its leading tabs are
// payload.
package detend

import (
	"errors"
	"fmt"
	"strings"
)

// Marker sequences written by the detender.
const (
	// Open raises the depth by one.
	Open = "\n\t\t"
	// Close lowers the depth by one.
	Close = "\t\t\n"
	// EndEntry separates two entries.
	EndEntry = "\n\t\n"
	// EscapedNewline encodes a line break of the payload.
	EscapedNewline = "\n\n\n"
	// EscapedTab encodes a payload tab.
	EscapedTab = "\t\t\t"
)

// ErrInvalidSequence reports a three byte group that is not an escape where
// payload was expected.
var ErrInvalidSequence = errors.New("detend: invalid escape sequence")

// line is one physical line of an entry.
type line struct {
	indent int
	text   string
}

// lines tokenises an entry. The first line always has indent zero.
func lines(entry string) []line {
	parts := strings.Split(entry, "\n")
	out := make([]line, len(parts))
	out[0] = line{text: parts[0]}
	for i := 1; i < len(parts); i++ {
		text := strings.TrimLeft(parts[i], "\t")
		out[i] = line{indent: len(parts[i]) - len(text), text: text}
	}
	return out
}

// contentListener receives the line tokens of every entry and accumulates
// the detended text.
type contentListener struct {
	sb      strings.Builder
	depth   int
	entries int
}

func (l *contentListener) enterEntry() {
	if l.entries > 0 {
		l.sb.WriteString(EndEntry)
	}
	l.entries++
	l.depth = 0
}

func (l *contentListener) firstLine(ln line) {
	l.sb.WriteString(Escape(ln.text))
}

func (l *contentListener) nextLine(ln line) {
	l.sb.WriteString(EscapedNewline)
	l.indentTo(ln.indent)
	l.sb.WriteString(Escape(ln.text))
}

func (l *contentListener) exitEntry() {
	l.indentTo(0)
}

func (l *contentListener) indentTo(depth int) {
	for ; l.depth < depth; l.depth++ {
		l.sb.WriteString(Open)
	}
	for ; l.depth > depth; l.depth-- {
		l.sb.WriteString(Close)
	}
}

// Detend transforms each entry and joins the results with EndEntry. It is
// the buffered counterpart of NewReader and produces identical bytes.
func Detend(entries ...string) string {
	var l contentListener
	for _, entry := range entries {
		l.enterEntry()
		for i, ln := range lines(entry) {
			if i == 0 {
				l.firstLine(ln)
				continue
			}
			l.nextLine(ln)
		}
		l.exitEntry()
	}
	return l.sb.String()
}

func writeEscaped(sb *strings.Builder, text string) {
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\n':
			sb.WriteString(EscapedNewline)
		case '\t':
			sb.WriteString(EscapedTab)
		default:
			sb.WriteByte(c)
		}
	}
}

// Escape encodes payload newlines and tabs of text.
func Escape(text string) string {
	if !strings.ContainsAny(text, "\n\t") {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text) + 8)
	writeEscaped(&sb, text)
	return sb.String()
}

// Unescape decodes text produced by Escape. Structural markers are rejected
// with an error wrapping ErrInvalidSequence.
func Unescape(text string) (string, error) {
	if !strings.ContainsAny(text, "\n\t") {
		return text, nil
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); {
		c := text[i]
		if c != '\n' && c != '\t' {
			sb.WriteByte(c)
			i++
			continue
		}
		if i+3 > len(text) {
			return "", fmt.Errorf("%w: truncated sequence at offset %d", ErrInvalidSequence, i)
		}
		switch seq := text[i : i+3]; seq {
		case EscapedNewline:
			sb.WriteByte('\n')
		case EscapedTab:
			sb.WriteByte('\t')
		default:
			return "", fmt.Errorf("%w: %q at offset %d", ErrInvalidSequence, seq, i)
		}
		i += 3
	}
	return sb.String(), nil
}
