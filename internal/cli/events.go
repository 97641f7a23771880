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
	"errors"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pjscruggs/logspy/logstash"
)

func newEventsCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events --logger NAME [FILE]",
		Short: "Print the events of one logger from captured output",
		Long: `events reads newline delimited logstash JSON from FILE (or standard input),
keeps the objects whose logger_name is NAME and prints them with their
stack traces parsed into exception trees. Lines that are not JSON objects
are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := v.GetString("logger")
			if logger == "" {
				return errors.New("a logger name is required (--logger or LOGSPY_LOGGER)")
			}

			readers, closeAll, err := openInputs(cmd, args)
			if err != nil {
				return err
			}
			defer closeAll()

			events, err := logstash.ReadEvents(io.MultiReader(readers...), logger)
			if err != nil {
				return err
			}
			views := make([]eventView, 0, len(events))
			for _, e := range events {
				views = append(views, viewOfEvent(e))
			}
			return render(cmd.OutOrStdout(), v.GetString("format"), views)
		},
	}
	cmd.Flags().String("logger", "", "logger name to select")
	_ = v.BindPFlag("logger", cmd.Flags().Lookup("logger"))
	return cmd
}
