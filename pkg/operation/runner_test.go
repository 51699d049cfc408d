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
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/mediaorganizer/pkg/log"
	"github.com/walteh/mediaorganizer/pkg/organize"
	"github.com/walteh/mediaorganizer/pkg/reset"
	"gitlab.com/tozd/go/errors"
)

type fakeOperation struct {
	name  string
	err   error
	calls *[]string
	rows  []log.SummaryRow
}

func (f *fakeOperation) Name() string { return f.name }

func (f *fakeOperation) Execute(ctx context.Context) error {
	*f.calls = append(*f.calls, f.name)
	return f.err
}

func (f *fakeOperation) Rows() []log.SummaryRow { return f.rows }

func testContext(t *testing.T, console io.Writer) context.Context {
	zlog := zerolog.New(zerolog.NewTestWriter(t))
	ctx := zlog.WithContext(context.Background())
	return log.NewContext(ctx, log.New(console, zlog))
}

func fixedClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func TestRunner(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		ops           []string
		failAt        string
		summary       bool
		wantCalls     []string
		expectedError string
		wantOut       []string
		notOut        []string
	}{
		{
			name:      "runs_in_order",
			ops:       []string{"reset", "organize"},
			wantCalls: []string{"reset", "organize"},
			wantOut:   []string{"Media organization took 42ms"},
			notOut:    []string{"count"},
		},
		{
			name:          "stops_at_first_error",
			ops:           []string{"reset", "organize", "never"},
			failAt:        "organize",
			wantCalls:     []string{"reset", "organize"},
			expectedError: "running organize operation: boom",
			notOut:        []string{"Media organization took"},
		},
		{
			name:      "summary_after_timing",
			ops:       []string{"organize"},
			summary:   true,
			wantCalls: []string{"organize"},
			wantOut:   []string{"Media organization took 42ms", "copied", "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []string
			var ops []Operation
			for _, name := range tt.ops {
				op := &fakeOperation{name: name, calls: &calls, rows: []log.SummaryRow{{Label: "copied", Value: 7}}}
				if name == tt.failAt {
					op.err = errors.New("boom")
				}
				ops = append(ops, op)
			}

			var console bytes.Buffer
			r := NewRunner(tt.summary)
			r.now = fixedClock(start, start.Add(42*time.Millisecond))

			err := r.Run(testContext(t, &console), ops...)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantCalls, calls)
			for _, want := range tt.wantOut {
				assert.Contains(t, console.String(), want)
			}
			for _, not := range tt.notOut {
				assert.NotContains(t, console.String(), not)
			}
		})
	}
}

func snapshot(t *testing.T, fs afero.Fs, root string) []string {
	t.Helper()
	var out []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		out = append(out, path+"="+string(data))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	return out
}

func runOnce(t *testing.T, fs afero.Fs, src, dest string) (*ResetOperation, *OrganizeOperation) {
	t.Helper()
	ctx := testContext(t, io.Discard)
	o, err := organize.New(organize.Options{Fs: fs, Logger: log.FromContext(ctx), Location: time.UTC})
	require.NoError(t, err)

	resetOp := NewResetOperation(reset.New(fs), dest)
	organizeOp := NewOrganizeOperation(o, src, dest)

	require.NoError(t, NewRunner(false).Run(ctx, resetOp, organizeOp))
	return resetOp, organizeOp
}

func TestRunTwiceMatchesSingleRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	mtime := time.Date(2023, time.March, 5, 12, 0, 0, 0, time.UTC)
	for _, p := range []string{"/src/a.jpg", "/src/x/a.jpg", "/src/x/y/a.jpg", "/src/b.mov"} {
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fs, p, []byte(p), 0o644))
		require.NoError(t, fs.Chtimes(p, mtime, mtime))
	}
	// leftovers from an unrelated earlier run
	require.NoError(t, fs.MkdirAll("/dest/1999/01", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/dest/1999/01/stale.jpg", []byte("stale"), 0o644))

	firstReset, first := runOnce(t, fs, "/src", "/dest")
	afterFirst := snapshot(t, fs, "/dest")

	assert.Equal(t, 4, firstReset.Result().Removed)
	assert.Equal(t, 2, first.Stats().Copied)
	assert.Equal(t, 1, first.Stats().Duplicated)
	assert.Equal(t, 1, first.Stats().Dropped)
	assert.NotContains(t, afterFirst, "/dest/1999/01/stale.jpg=stale")

	secondReset, second := runOnce(t, fs, "/src", "/dest")
	afterSecond := snapshot(t, fs, "/dest")

	assert.True(t, secondReset.Result().OK())
	assert.Equal(t, first.Stats(), second.Stats())
	assert.Equal(t, afterFirst, afterSecond)
	assert.Equal(t, []string{
		"/dest/2023/03/a.jpg=/src/a.jpg",
		"/dest/2023/03/b.mov=/src/b.mov",
		"/dest/2023/03/duplicated/a.jpg=/src/x/a.jpg",
	}, afterSecond)
}

func TestRunWithMissingDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	mtime := time.Date(2020, time.October, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, fs.MkdirAll("/src", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/src/a.jpg", []byte("a"), 0o644))
	require.NoError(t, fs.Chtimes("/src/a.jpg", mtime, mtime))

	resetOp, organizeOp := runOnce(t, fs, "/src", "/never/created")

	assert.True(t, resetOp.Result().OK())
	assert.Zero(t, resetOp.Result().Removed)
	assert.Equal(t, 1, organizeOp.Stats().Copied)
	assert.Equal(t, []string{"/never/created/2020/10/a.jpg=a"}, snapshot(t, fs, "/never/created"))
}

func TestResetFailureDoesNotStopRun(t *testing.T) {
	var calls []string
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/dest/2020/01", 0o755))
	require.NoError(t, afero.WriteFile(base, "/dest/2020/01/a.jpg", []byte("a"), 0o644))

	resetOp := NewResetOperation(reset.New(afero.NewReadOnlyFs(base)), "/dest")
	next := &fakeOperation{name: "organize", calls: &calls}

	require.NoError(t, NewRunner(false).Run(testContext(t, io.Discard), resetOp, next))

	assert.False(t, resetOp.Result().OK())
	assert.Len(t, resetOp.Result().Failures, 4)
	assert.Equal(t, []string{"organize"}, calls)
}

func TestRunRequiresContextLogger(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	assert.Panics(t, func() {
		_ = NewRunner(false).Run(ctx)
	})
}
