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
	"strings"

	"github.com/pjscruggs/logspy"
)

// lineNode is one line of an entry together with the block of more deeply
// indented lines that directly follows it.
type lineNode struct {
	num   int
	text  string
	block []*lineNode
}

func (n *lineNode) ownsBlock() bool {
	return len(n.block) > 0
}

func (n *lineNode) blank() bool {
	return n.text == "" && !n.ownsBlock()
}

// treeBuilder assembles the line tree of one entry from tokens.
type treeBuilder struct {
	root     lineNode
	stack    []*lineNode
	cur      *lineNode
	needLine bool
	lines    int
}

func newTreeBuilder() *treeBuilder {
	b := &treeBuilder{}
	b.stack = []*lineNode{&b.root}
	b.needLine = true
	return b
}

func (b *treeBuilder) owner() *lineNode {
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) startLine() {
	if !b.needLine {
		return
	}
	b.lines++
	b.cur = &lineNode{num: b.lines}
	owner := b.owner()
	owner.block = append(owner.block, b.cur)
	b.needLine = false
}

func (b *treeBuilder) apply(tok token) error {
	switch tok.kind {
	case tokenText:
		b.startLine()
		b.cur.text += tok.text
	case tokenNewline:
		b.startLine()
		b.needLine = true
	case tokenOpen:
		block := b.owner().block
		if !b.needLine || len(block) == 0 {
			return &SyntaxError{Line: b.lines + 1, Msg: "indentation skips a level"}
		}
		last := block[len(block)-1]
		if last.block != nil {
			return &SyntaxError{Line: last.num, Text: last.text, Msg: "line owns two indented blocks"}
		}
		b.stack = append(b.stack, last)
	case tokenClose:
		if len(b.stack) == 1 {
			return &SyntaxError{Line: b.lines, Msg: "dedent below the first line"}
		}
		b.stack = b.stack[:len(b.stack)-1]
	}
	return nil
}

// finish completes the entry and returns its top level block with trailing
// blank lines removed at every depth.
func (b *treeBuilder) finish() []*lineNode {
	b.startLine()
	return prune(b.root.block)
}

func prune(block []*lineNode) []*lineNode {
	for _, n := range block {
		n.block = prune(n.block)
	}
	for len(block) > 0 && block[len(block)-1].blank() {
		block = block[:len(block)-1]
	}
	return block
}

// buildEntries groups tokens into the line trees of the entries they encode.
func buildEntries(tokens []token) ([][]*lineNode, error) {
	var entries [][]*lineNode
	b := newTreeBuilder()
	for _, tok := range tokens {
		if tok.kind == tokenEndEntry {
			entries = append(entries, b.finish())
			b = newTreeBuilder()
			continue
		}
		if err := b.apply(tok); err != nil {
			return nil, err
		}
	}
	return append(entries, b.finish()), nil
}

type nodeKind int

const (
	kindTrace nodeKind = iota
	kindCause
	kindSuppressed
)

// traceNode is the parse tree of one exception.
type traceNode struct {
	kind   nodeKind
	header Header
	body   []bodyItem
	causes []*traceNode
}

// bodyItem is either a frame or a suppressed exception.
type bodyItem struct {
	frame      *logspy.StackFrameSnapshot
	suppressed *traceNode
}

// parser is a recursive descent parser over line trees.
type parser struct {
	conv Convention
}

func (p *parser) parseEntry(lines []*lineNode) (*traceNode, error) {
	if len(lines) == 0 {
		return nil, &SyntaxError{Msg: "empty stack trace"}
	}
	if lines[0].blank() {
		return nil, &SyntaxError{Line: lines[0].num, Msg: "missing exception header"}
	}

	trace, next, err := p.parseThrowable(lines, 0, kindTrace, "", p.topLevelStop)
	if err != nil {
		return nil, err
	}
	for next < len(lines) {
		ln := lines[next]
		switch {
		case ln.blank():
			next++
		case strings.HasPrefix(ln.text, p.conv.caption()):
			var cause *traceNode
			cause, next, err = p.parseThrowable(lines, next, kindCause, p.conv.caption(), p.topLevelStop)
			if err != nil {
				return nil, err
			}
			trace.causes = append(trace.causes, cause)
		default:
			return nil, p.unexpected(ln)
		}
	}
	return trace, nil
}

// parseThrowable parses the header starting at lines[start], including
// message continuation lines, and the body block owned by its last line.
func (p *parser) parseThrowable(lines []*lineNode, start int, kind nodeKind, caption string, stop func(*lineNode) bool) (*traceNode, int, error) {
	texts := []string{strings.TrimPrefix(lines[start].text, caption)}
	var body []*lineNode

	i := start
	for {
		if lines[i].ownsBlock() {
			body = lines[i].block
			i++
			break
		}
		i++
		if i >= len(lines) || stop(lines[i]) {
			break
		}
		texts = append(texts, lines[i].text)
	}

	header, err := parseHeader(texts, lines[start])
	if err != nil {
		return nil, 0, err
	}
	node := &traceNode{kind: kind, header: header}
	if err := p.parseBody(body, node); err != nil {
		return nil, 0, err
	}
	return node, i, nil
}

func (p *parser) parseBody(block []*lineNode, owner *traceNode) error {
	for i := 0; i < len(block); {
		ln := block[i]
		switch {
		case ln.blank():
			i++
		case strings.HasPrefix(ln.text, framePrefix):
			if ln.ownsBlock() {
				return &SyntaxError{Line: ln.num, Text: ln.text, Msg: "frame followed by indented lines"}
			}
			frame, err := parseFrame(ln)
			if err != nil {
				return err
			}
			owner.body = append(owner.body, bodyItem{frame: &frame})
			i++
		case isOmitted(ln.text):
			if ln.ownsBlock() {
				return &SyntaxError{Line: ln.num, Text: ln.text, Msg: "omitted frames followed by indented lines"}
			}
			i++
		case strings.HasPrefix(ln.text, SuppressedCaption):
			suppressed, next, err := p.parseThrowable(block, i, kindSuppressed, SuppressedCaption, p.bodyStop)
			if err != nil {
				return err
			}
			for next < len(block) && strings.HasPrefix(block[next].text, p.conv.caption()) {
				var cause *traceNode
				cause, next, err = p.parseThrowable(block, next, kindCause, p.conv.caption(), p.bodyStop)
				if err != nil {
					return err
				}
				suppressed.causes = append(suppressed.causes, cause)
			}
			owner.body = append(owner.body, bodyItem{suppressed: suppressed})
			i = next
		case strings.HasPrefix(ln.text, p.conv.caption()):
			return &SyntaxError{Line: ln.num, Text: ln.text, Msg: "cause without a suppressed exception"}
		default:
			return p.unexpected(ln)
		}
	}
	return nil
}

func (p *parser) unexpected(ln *lineNode) error {
	if strings.HasPrefix(ln.text, p.conv.foreignCaption()) {
		return &SyntaxError{Line: ln.num, Text: ln.text, Msg: "caption of the " + otherConvention(p.conv).String() + " convention"}
	}
	return &SyntaxError{Line: ln.num, Text: ln.text, Msg: "unexpected line"}
}

func otherConvention(c Convention) Convention {
	if c == RootCauseFirst {
		return RootCauseLast
	}
	return RootCauseFirst
}

// topLevelStop ends a top level header before the next cause caption of
// either convention.
func (p *parser) topLevelStop(ln *lineNode) bool {
	return strings.HasPrefix(ln.text, CausedByCaption) || strings.HasPrefix(ln.text, WrappedByCaption)
}

// bodyStop ends a header inside a body before any other body element.
func (p *parser) bodyStop(ln *lineNode) bool {
	return p.topLevelStop(ln) ||
		strings.HasPrefix(ln.text, SuppressedCaption) ||
		strings.HasPrefix(ln.text, framePrefix) ||
		isOmitted(ln.text)
}

// parseHeader splits "Type", "Type:" and "Type: message" headers. Further
// header lines continue the message.
func parseHeader(texts []string, first *lineNode) (Header, error) {
	line := texts[0]
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		if len(texts) > 1 {
			return Header{}, &SyntaxError{Line: first.num, Text: line, Msg: "message continuation without a message"}
		}
		if line == "" {
			return Header{}, &SyntaxError{Line: first.num, Text: line, Msg: "missing exception type"}
		}
		return Header{Type: line}, nil
	}
	if colon == 0 {
		return Header{}, &SyntaxError{Line: first.num, Text: line, Msg: "missing exception type"}
	}

	rest := strings.TrimPrefix(line[colon+1:], " ")
	msg := rest
	if len(texts) > 1 {
		msg = strings.Join(append([]string{rest}, texts[1:]...), "\n")
	}
	return Header{Type: line[:colon], Message: &msg}, nil
}

// parseFrame reads "at name(location)" lines. Trailing packaging details
// such as " ~[app.jar:1.0]" are ignored.
func parseFrame(ln *lineNode) (logspy.StackFrameSnapshot, error) {
	name := strings.TrimPrefix(ln.text, framePrefix)
	if end := strings.LastIndexByte(name, ')'); end >= 0 {
		depth := 0
	scan:
		for i := end; i >= 0; i-- {
			switch name[i] {
			case ')':
				depth++
			case '(':
				depth--
				if depth == 0 {
					if i+1 < len(name) && name[i+1] != '*' {
						name = name[:i]
					}
					break scan
				}
			}
		}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return logspy.StackFrameSnapshot{}, &SyntaxError{Line: ln.num, Text: ln.text, Msg: "frame without a method"}
	}
	class, method := logspy.SplitFunctionName(name)
	return logspy.StackFrameSnapshot{DeclaringClass: class, MethodName: method}, nil
}

// isOmitted matches "... 3 more" and "... 3 common frames omitted".
func isOmitted(text string) bool {
	rest, ok := strings.CutPrefix(text, omittedPrefix)
	if !ok {
		return false
	}
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	return digits > 0 && (digits == len(rest) || rest[digits] == ' ')
}

// walk reports the parse tree to l in document order.
func walk(n *traceNode, l Listener) {
	switch n.kind {
	case kindTrace:
		l.EnterTrace(n.header)
	case kindCause:
		l.EnterCause(n.header)
	case kindSuppressed:
		l.EnterSuppressed(n.header)
	}

	for _, item := range n.body {
		if item.frame != nil {
			l.Frame(*item.frame)
			continue
		}
		walk(item.suppressed, l)
	}
	for _, cause := range n.causes {
		walk(cause, l)
	}

	switch n.kind {
	case kindTrace:
		l.ExitTrace(n.header)
	case kindCause:
		l.ExitCause(n.header)
	case kindSuppressed:
		l.ExitSuppressed(n.header)
	}
}
