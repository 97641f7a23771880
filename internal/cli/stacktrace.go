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
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pjscruggs/logspy"
	"github.com/pjscruggs/logspy/stacktrace"
)

func newStacktraceCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stacktrace [FILE...]",
		Short: "Parse Java style stack traces into exception trees",
		Long: `stacktrace parses every FILE (or standard input) as one stack trace and
prints the exception trees. The cause convention is detected from the
captions unless --root-cause-first is given. With --format text the trees
are rendered back into stack trace text.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			readers, closeAll, err := openInputs(cmd, args)
			if err != nil {
				return err
			}
			defer closeAll()

			snaps := make([]*logspy.ExceptionSnapshot, 0, len(readers))
			convs := make([]stacktrace.Convention, 0, len(readers))
			for _, r := range readers {
				raw, err := io.ReadAll(r)
				if err != nil {
					return fmt.Errorf("reading stack trace: %w", err)
				}
				conv := stacktrace.DetectConvention(string(raw))
				if v.GetBool("root-cause-first") {
					conv = stacktrace.RootCauseFirst
				}
				snap, err := stacktrace.Parse(string(raw), conv)
				if err != nil {
					return err
				}
				snaps = append(snaps, snap)
				convs = append(convs, conv)
			}

			format := v.GetString("format")
			if format == formatText {
				texts := make([]string, len(snaps))
				for i, snap := range snaps {
					texts[i] = stacktrace.Format(snap, convs[i])
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(texts, "\n\n"))
				return err
			}

			views := make([]*exceptionView, 0, len(snaps))
			for _, snap := range snaps {
				views = append(views, viewOfException(snap))
			}
			return render(cmd.OutOrStdout(), format, views)
		},
	}
	cmd.Flags().Bool("root-cause-first", false, `parse "Wrapped by" chains instead of detecting the convention`)
	_ = v.BindPFlag("root-cause-first", cmd.Flags().Lookup("root-cause-first"))
	return cmd
}
