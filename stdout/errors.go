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
	"errors"
	"fmt"
)

var (
	// ErrClosed is recorded by a Stream that is written to after Close.
	ErrClosed = errors.New("stdout: write to closed stream")

	// ErrUnknownTap is returned for taps that are not registered with the
	// multiplexer.
	ErrUnknownTap = errors.New("stdout: tap is not registered")

	// ErrPumpStopped is returned by Sync once the pipe can no longer be read.
	ErrPumpStopped = errors.New("stdout: redirect pump stopped")
)

// ConsistencyError reports that the tap path and the real path of a
// Multiplexer disagreed on the result of the same operation. It indicates a
// defect and is raised as a panic. TapPath and RealPath hold the first error
// each path recorded, nil for a path that did not fail.
type ConsistencyError struct {
	Op       string
	TapPath  error
	RealPath error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("stdout: %s results differed: tap path %v, real path %v", e.Op, e.TapPath, e.RealPath)
}
