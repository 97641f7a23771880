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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pjscruggs/logspy/detend"
)

func newDetendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detend [FILE...]",
		Short: "Print the detended form of indented text",
		Long: `detend treats every FILE (or standard input) as one entry, rewrites the
tab indentation into explicit open and close sequences and prints the
result as a quoted Go string.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			readers, closeAll, err := openInputs(cmd, args)
			if err != nil {
				return err
			}
			defer closeAll()

			out, err := io.ReadAll(detend.NewReader(readers...))
			if err != nil {
				return fmt.Errorf("detending input: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.Quote(string(out)))
			return err
		},
	}
}
