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

	"github.com/rs/zerolog"
	"github.com/walteh/mediaorganizer/pkg/log"
	"github.com/walteh/mediaorganizer/pkg/organize"
	"github.com/walteh/mediaorganizer/pkg/reset"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one step of a run
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Execute performs the operation
	Execute(ctx context.Context) error
}

// 📊 Summarizer is implemented by operations that have counters to report
type Summarizer interface {
	Rows() []log.SummaryRow
}

// 🧹 NewResetOperation empties dest before it is repopulated
func NewResetOperation(r *reset.Resetter, dest string) *ResetOperation {
	return &ResetOperation{resetter: r, dest: dest}
}

// 🧹 ResetOperation wraps a Resetter. Failures are reported, never returned.
type ResetOperation struct {
	resetter *reset.Resetter
	dest     string
	result   reset.Result
}

func (op *ResetOperation) Name() string { return "reset" }

// 🏃 Execute runs the reset
func (op *ResetOperation) Execute(ctx context.Context) error {
	op.result = op.resetter.Reset(ctx, op.dest)
	if err := op.result.Err(); err != nil {
		zerolog.Ctx(ctx).Warn().
			Int("failures", len(op.result.Failures)).
			Str("destination", op.dest).
			Msg("destination was not fully reset, continuing")
	}
	return nil
}

// Result returns the outcome of the last Execute.
func (op *ResetOperation) Result() reset.Result {
	return op.result
}

func (op *ResetOperation) Rows() []log.SummaryRow {
	return []log.SummaryRow{
		{Label: "reset removed", Value: op.result.Removed},
		{Label: "reset failures", Value: len(op.result.Failures)},
	}
}

// 🗂️ NewOrganizeOperation copies src into dest through o
func NewOrganizeOperation(o *organize.Organizer, src, dest string) *OrganizeOperation {
	return &OrganizeOperation{organizer: o, src: src, dest: dest}
}

// 🗂️ OrganizeOperation wraps an Organizer
type OrganizeOperation struct {
	organizer *organize.Organizer
	src       string
	dest      string
	stats     *organize.Stats
}

func (op *OrganizeOperation) Name() string { return "organize" }

// 🏃 Execute runs the organizer
func (op *OrganizeOperation) Execute(ctx context.Context) error {
	stats, err := op.organizer.Run(ctx, op.src, op.dest)
	op.stats = stats
	if err != nil {
		return errors.Errorf("organizing %s: %w", op.src, err)
	}
	return nil
}

// Stats returns the counters of the last Execute.
func (op *OrganizeOperation) Stats() *organize.Stats {
	return op.stats
}

func (op *OrganizeOperation) Rows() []log.SummaryRow {
	if op.stats == nil {
		return nil
	}
	return op.stats.Rows()
}
