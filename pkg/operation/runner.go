// Copyright 2025 walteh LLC
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

package operation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/mediaorganizer/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🏃 OperationRunner executes operations one after another
type OperationRunner struct {
	summary bool
	now     func() time.Time
}

// 🏗️ NewRunner creates a new runner. With summary set, the counters of every
// Summarizer are printed after the timing banner.
func NewRunner(summary bool) *OperationRunner {
	return &OperationRunner{
		summary: summary,
		now:     time.Now,
	}
}

// 🏃 Run executes ops in order and stops at the first error. The timing
// banner is only printed when every operation succeeded. The console logger
// is read from ctx, see log.NewContext.
func (r *OperationRunner) Run(ctx context.Context, ops ...Operation) error {
	logger := log.FromContext(ctx)
	start := r.now()

	for _, op := range ops {
		zerolog.Ctx(ctx).Debug().Str("operation", op.Name()).Msg("running operation")
		if err := op.Execute(ctx); err != nil {
			return errors.Errorf("running %s operation: %w", op.Name(), err)
		}
	}

	logger.Timing(r.now().Sub(start))

	if !r.summary {
		return nil
	}

	var rows []log.SummaryRow
	for _, op := range ops {
		if s, ok := op.(Summarizer); ok {
			rows = append(rows, s.Rows()...)
		}
	}
	if err := logger.Summary(rows); err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}
	return nil
}
