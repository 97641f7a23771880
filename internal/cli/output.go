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

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/pjscruggs/logspy"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

type eventView struct {
	Message   *string           `json:"message" yaml:"message"`
	Level     string            `json:"level" yaml:"level"`
	Exception *exceptionView    `json:"exception,omitempty" yaml:"exception,omitempty"`
	Context   map[string]string `json:"context,omitempty" yaml:"context,omitempty"`
}

type exceptionView struct {
	Type       string           `json:"type" yaml:"type"`
	Message    *string          `json:"message" yaml:"message"`
	Frames     []string         `json:"frames,omitempty" yaml:"frames,omitempty"`
	Suppressed []*exceptionView `json:"suppressed,omitempty" yaml:"suppressed,omitempty"`
	Cause      *exceptionView   `json:"cause,omitempty" yaml:"cause,omitempty"`
}

func viewOfEvent(e logspy.LogEvent) eventView {
	return eventView{
		Message:   e.Message,
		Level:     e.Level.String(),
		Exception: viewOfException(e.Exception),
		Context:   e.Context,
	}
}

func viewOfException(s *logspy.ExceptionSnapshot) *exceptionView {
	if s == nil {
		return nil
	}
	v := &exceptionView{
		Type:    s.Type,
		Message: s.Message,
		Cause:   viewOfException(s.Cause),
	}
	for _, f := range s.StackTrace {
		v.Frames = append(v.Frames, f.String())
	}
	for _, sup := range s.Suppressed {
		v.Suppressed = append(v.Suppressed, viewOfException(sup))
	}
	return v
}

// render writes value as JSON or YAML.
func render(w io.Writer, format string, value any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case formatYAML:
		out, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("rendering YAML: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
