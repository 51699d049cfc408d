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

// Package reset empties a destination tree before it is repopulated.
package reset

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// Failure is a single entry that could not be removed.
type Failure struct {
	Path string
	Err  error
}

// 📋 Result aggregates the outcome of a reset
type Result struct {
	Removed  int
	Failures []Failure
}

// OK reports whether every entry was removed.
func (r Result) OK() bool {
	return len(r.Failures) == 0
}

// Err joins all failures into one error, or nil when there were none.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, errors.Errorf("removing %s: %w", f.Path, f.Err))
	}
	return errors.Join(errs...)
}

// 🧹 Resetter deletes a tree depth first
type Resetter struct {
	fs afero.Fs
}

// 🏭 New creates a resetter over fs
func New(fs afero.Fs) *Resetter {
	return &Resetter{fs: fs}
}

// 🧹 Reset removes root and everything beneath it. A missing root is not an
// error. Failures are collected and logged but never stop the walk.
func (r *Resetter) Reset(ctx context.Context, root string) Result {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("root", root).Msg("resetting destination")

	var res Result
	r.remove(filepath.Clean(root), &res)

	for _, f := range res.Failures {
		logger.Warn().Str("path", f.Path).Err(f.Err).Msg("could not remove entry")
	}
	logger.Debug().
		Str("root", root).
		Int("removed", res.Removed).
		Int("failures", len(res.Failures)).
		Msg("destination reset complete")

	return res
}

func (r *Resetter) remove(path string, res *Result) {
	info, err := r.lstat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			res.Failures = append(res.Failures, Failure{Path: path, Err: err})
		}
		return
	}

	if info.IsDir() {
		children, err := afero.ReadDir(r.fs, path)
		if err != nil {
			res.Failures = append(res.Failures, Failure{Path: path, Err: err})
		}
		for _, child := range children {
			r.remove(filepath.Join(path, child.Name()), res)
		}
	}

	if err := r.fs.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		res.Failures = append(res.Failures, Failure{Path: path, Err: err})
		return
	}
	res.Removed++
}

// lstat avoids following symlinks where the filesystem allows it, so a link to
// a directory is removed as a link.
func (r *Resetter) lstat(path string) (os.FileInfo, error) {
	if l, ok := r.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return r.fs.Stat(path)
}
