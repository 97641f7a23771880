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

// Package cli implements the logspy command, which inspects captured logstash
// output and stack traces offline.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pjscruggs/logspy"
)

const envPrefix = "LOGSPY"

// NewRootCommand builds the logspy command tree. Flags are bound to v, so
// every flag can also be set through a LOGSPY_* environment variable.
func NewRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "logspy",
		Short: "Inspect logstash log output and Java style stack traces",
		Long: `logspy reads output captured from a logstash JSON logging backend and
prints the events of one logger, the structure of stack traces, or the
detended form that the stack trace grammar consumes.`,
		Version:       logspy.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	root.PersistentFlags().String("format", formatJSON, "output format: json or yaml")
	_ = v.BindPFlag("format", root.PersistentFlags().Lookup("format"))

	root.AddCommand(
		newEventsCommand(v),
		newDetendCommand(),
		newStacktraceCommand(v),
	)
	return root
}

// Execute runs the logspy command with the process arguments.
func Execute() error {
	return NewRootCommand(viper.New()).Execute()
}

// openInputs opens the named files, or standard input when there are none.
// The returned function closes whatever was opened.
func openInputs(cmd *cobra.Command, names []string) ([]io.Reader, func(), error) {
	if len(names) == 0 {
		return []io.Reader{cmd.InOrStdin()}, func() {}, nil
	}

	readers := make([]io.Reader, 0, len(names))
	files := make([]*os.File, 0, len(names))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	for _, name := range names {
		f, err := os.Open(name)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("opening input: %w", err)
		}
		files = append(files, f)
		readers = append(readers, f)
	}
	return readers, closeAll, nil
}
