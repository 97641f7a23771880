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

package stdout

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pjscruggs/logspy/logstash"
)

func TestMain(m *testing.M) {
	zerolog.TimestampFieldName = logstash.TimestampKey
	zerolog.LevelFieldName = logstash.LevelKey
	zerolog.MessageFieldName = logstash.MessageKey
	zerolog.LevelFieldMarshalFunc = func(l zerolog.Level) string {
		return strings.ToUpper(l.String())
	}

	code := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = Sync(ctx)
	cancel()
	os.Exit(code)
}
