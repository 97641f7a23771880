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
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"testing/iotest"
)

// TestDetendKnownEntries pins the encoding of representative inputs.
func TestDetendKnownEntries(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		entries []string
		want    string
	}{
		{"none", nil, ""},
		{"empty", []string{""}, ""},
		{"two empty", []string{"", ""}, EndEntry},
		{"plain", []string{"abc"}, "abc"},
		{"leading tab is payload", []string{"\tx"}, EscapedTab + "x"},
		{"inner tab is payload", []string{"a\tb"}, "a" + EscapedTab + "b"},
		{
			name:    "indent and dedent",
			entries: []string{"E: m\n\tat a.b(X)\n\tat c.d(Y)\nCaused by: F"},
			want: "E: m" + EscapedNewline + Open + "at a.b(X)" + EscapedNewline + "at c.d(Y)" +
				EscapedNewline + Close + "Caused by: F",
		},
		{
			name:    "close at end of entry",
			entries: []string{"E\n\t\tx"},
			want:    "E" + EscapedNewline + Open + Open + "x" + Close + Close,
		},
		{
			name:    "tab after indentation",
			entries: []string{"E\n\t\tx\ty"},
			want:    "E" + EscapedNewline + Open + Open + "x" + EscapedTab + "y" + Close + Close,
		},
		{
			name:    "blank line",
			entries: []string{"a\n\nb"},
			want:    "a" + EscapedNewline + EscapedNewline + "b",
		},
		{
			name:    "trailing newline",
			entries: []string{"a\n"},
			want:    "a" + EscapedNewline,
		},
		{
			name:    "separated entries",
			entries: []string{"a\n\tb", "c"},
			want:    "a" + EscapedNewline + Open + "b" + Close + EndEntry + "c",
		},
		{
			name:    "multibyte text",
			entries: []string{"héllo\n\twörld"},
			want:    "héllo" + EscapedNewline + Open + "wörld" + Close,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Detend(tc.entries...); got != tc.want {
				t.Fatalf("Detend(%q) = %q, want %q", tc.entries, got, tc.want)
			}
			if got := readAll(t, tc.entries, false); got != tc.want {
				t.Fatalf("Reader(%q) = %q, want %q", tc.entries, got, tc.want)
			}
		})
	}
}

func readAll(t *testing.T, entries []string, oneByte bool) string {
	t.Helper()
	readers := make([]io.Reader, len(entries))
	for i, entry := range entries {
		readers[i] = strings.NewReader(entry)
		if oneByte {
			readers[i] = iotest.OneByteReader(readers[i])
		}
	}
	var src io.Reader = NewReader(readers...)
	if oneByte {
		src = iotest.OneByteReader(src)
	}
	out, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("io.ReadAll() returned %v", err)
	}
	return string(out)
}

// randomEntry draws text mixing payload, newlines and tabs, including
// multibyte runes.
func randomEntry(rng *rand.Rand) string {
	alphabet := []string{"a", "b", " ", ":", ".", "\n", "\t", "\t\t", "é", "€", "\n\t", "\n\t\t\t"}
	var sb strings.Builder
	for n := rng.IntN(24); n > 0; n-- {
		sb.WriteString(alphabet[rng.IntN(len(alphabet))])
	}
	return sb.String()
}

// TestReaderMatchesDetend checks the streaming and buffered forms agree byte
// for byte on random input.
func TestReaderMatchesDetend(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		entries := make([]string, rng.IntN(4))
		for j := range entries {
			entries[j] = randomEntry(rng)
		}
		want := Detend(entries...)
		if got := readAll(t, entries, i%2 == 0); got != want {
			t.Fatalf("Reader(%q) = %q, want %q", entries, got, want)
		}
	}
}

// retend rebuilds the original text from detended output for entries whose
// lines are non-empty and do not start with a tab.
func retend(t *testing.T, detended string) []string {
	t.Helper()
	var (
		entries []string
		sb      strings.Builder
		depth   int
		pending bool
	)
	flush := func() {
		if pending {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat("\t", depth))
			pending = false
		}
	}
	for i := 0; i < len(detended); {
		c := detended[i]
		if c != '\n' && c != '\t' {
			flush()
			sb.WriteByte(c)
			i++
			continue
		}
		switch seq := detended[i : i+3]; seq {
		case EscapedNewline:
			flush()
			pending = true
		case EscapedTab:
			flush()
			sb.WriteByte('\t')
		case Open:
			depth++
		case Close:
			depth--
		case EndEntry:
			entries = append(entries, sb.String())
			sb.Reset()
		default:
			t.Fatalf("unexpected sequence %q at %d", seq, i)
		}
		i += 3
	}
	return append(entries, sb.String())
}

func randomLine(rng *rand.Rand) string {
	words := []string{"at", "com.acme.Type", "run(Main.java:7)", "Caused", "by:", "x\ty", "é"}
	var sb strings.Builder
	sb.WriteString(words[rng.IntN(len(words))])
	for n := rng.IntN(3); n > 0; n-- {
		sb.WriteByte(' ')
		sb.WriteString(words[rng.IntN(len(words))])
	}
	return sb.String()
}

// TestDetendRoundTrip verifies detended text decodes back to its input when
// every line carries content.
func TestDetendRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 300; i++ {
		entries := make([]string, 1+rng.IntN(3))
		for j := range entries {
			var sb strings.Builder
			sb.WriteString(randomLine(rng))
			for n := rng.IntN(6); n > 0; n-- {
				sb.WriteByte('\n')
				sb.WriteString(strings.Repeat("\t", rng.IntN(4)))
				sb.WriteString(randomLine(rng))
			}
			entries[j] = sb.String()
		}

		got := retend(t, Detend(entries...))
		if strings.Join(got, "\x00") != strings.Join(entries, "\x00") {
			t.Fatalf("retend(Detend(%q)) = %q", entries, got)
		}
	}
}

// TestEscapeUnescape round trips payload text and rejects markers.
func TestEscapeUnescape(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "plain", "a\nb", "\t\t", "x\n\ty\n"} {
		escaped := Escape(text)
		got, err := Unescape(escaped)
		if err != nil {
			t.Fatalf("Unescape(%q) returned %v", escaped, err)
		}
		if got != text {
			t.Fatalf("Unescape(Escape(%q)) = %q", text, got)
		}
	}

	for _, bad := range []string{Open, Close, EndEntry, "a\n", "\t\t"} {
		if _, err := Unescape(bad); !errors.Is(err, ErrInvalidSequence) {
			t.Fatalf("Unescape(%q) error = %v, want ErrInvalidSequence", bad, err)
		}
	}
}

// TestReaderPropagatesErrors surfaces read failures of an entry.
func TestReaderPropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := NewReader(strings.NewReader("ok"), iotest.ErrReader(boom))
	if _, err := io.ReadAll(r); !errors.Is(err, boom) {
		t.Fatalf("io.ReadAll() error = %v, want %v", err, boom)
	}
}
