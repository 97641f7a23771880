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

package logspy

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestContextWithMDCAccumulates verifies entries layer without mutating parents.
func TestContextWithMDCAccumulates(t *testing.T) {
	t.Parallel()

	parent := ContextWithMDC(context.Background(), "request", "r-1")
	child := ContextWithMDC(parent, "user", "u-9")
	shadow := ContextWithMDC(child, "request", "r-2")

	if diff := cmp.Diff(map[string]string{"request": "r-1"}, MDCFromContext(parent)); diff != "" {
		t.Fatalf("parent MDC mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"request": "r-1", "user": "u-9"}, MDCFromContext(child)); diff != "" {
		t.Fatalf("child MDC mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"request": "r-2", "user": "u-9"}, MDCFromContext(shadow)); diff != "" {
		t.Fatalf("shadow MDC mismatch (-want +got):\n%s", diff)
	}
}

// TestMDCFromContextReturnsCopy ensures callers cannot alter stored entries.
func TestMDCFromContextReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := ContextWithMDC(context.Background(), "k", "v")
	got := MDCFromContext(ctx)
	got["k"] = "changed"

	if v := MDCFromContext(ctx)["k"]; v != "v" {
		t.Fatalf("MDCFromContext(ctx)[k] = %q, want v", v)
	}
}

// TestMDCFromContextEmpty covers contexts without a diagnostic context.
func TestMDCFromContextEmpty(t *testing.T) {
	t.Parallel()

	if got := MDCFromContext(context.Background()); got != nil {
		t.Fatalf("MDCFromContext(Background) = %v, want nil", got)
	}
	//nolint:staticcheck // nil context is part of the contract.
	if got := MDCFromContext(nil); got != nil {
		t.Fatalf("MDCFromContext(nil) = %v, want nil", got)
	}
}
