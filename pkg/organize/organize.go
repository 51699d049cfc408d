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

package organize

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/mediaorganizer/pkg/bucket"
	"github.com/walteh/mediaorganizer/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options configures an Organizer
type Options struct {
	// Fs is the filesystem both trees live on
	Fs afero.Fs
	// Logger receives the per-directory and per-file status lines
	Logger *log.Logger
	// Location is the calendar used for classification; nil means time.Local
	Location *time.Location
	// Exclude holds doublestar patterns matched against slash separated paths
	// relative to the source root
	Exclude []string
	// CompareDuplicates hashes both files of a collision to report whether
	// the contents match
	CompareDuplicates bool
}

// 🗂️ Organizer copies a source tree into year/month buckets
type Organizer struct {
	fs       afero.Fs
	logger   *log.Logger
	loc      *time.Location
	exclude  []string
	compare  bool
	srcRoot  string
	destRoot string
	stats    *Stats
}

// 🏭 New creates an organizer
func New(opts Options) (*Organizer, error) {
	if opts.Fs == nil {
		return nil, errors.Errorf("filesystem is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid exclude pattern %q", p)
		}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Organizer{
		fs:      opts.Fs,
		logger:  opts.Logger,
		loc:     loc,
		exclude: opts.Exclude,
		compare: opts.CompareDuplicates,
	}, nil
}

// 🏃 Run walks srcRoot and copies every regular file under destRoot. The
// returned stats are valid even when an error aborts the run part way.
func (o *Organizer) Run(ctx context.Context, srcRoot, destRoot string) (*Stats, error) {
	o.srcRoot = filepath.Clean(srcRoot)
	o.destRoot = filepath.Clean(destRoot)
	o.stats = &Stats{}

	zerolog.Ctx(ctx).Debug().
		Str("source", o.srcRoot).
		Str("destination", o.destRoot).
		Str("location", o.loc.String()).
		Msg("organizing media")

	if err := o.walk(ctx, o.srcRoot); err != nil {
		return o.stats, err
	}
	return o.stats, nil
}

// 🚶 walk processes dir's children in name order, descending into each
// subdirectory before moving on to the next sibling
func (o *Organizer) walk(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("walking %s: %w", dir, err)
	}

	logger := zerolog.Ctx(ctx)

	entries, err := afero.ReadDir(o.fs, dir)
	if err != nil {
		// an unlistable directory is an empty branch
		logger.Debug().Str("dir", dir).Err(err).Msg("cannot list directory")
		o.stats.Unreadable++
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if path == o.destRoot {
			logger.Debug().Str("path", path).Msg("skipping destination nested in source")
			continue
		}

		if o.excluded(ctx, path) {
			o.stats.Excluded++
			continue
		}

		info, err := o.resolve(path, entry)
		if err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("skipping unresolvable entry")
			continue
		}

		switch {
		case info.IsDir() && entry.Mode()&os.ModeSymlink != 0:
			logger.Debug().Str("path", path).Msg("not following directory symlink")
		case info.IsDir():
			o.logger.Directory(ctx, path)
			o.stats.Directories++
			if err := o.walk(ctx, path); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := o.place(ctx, path, info); err != nil {
				return errors.Errorf("organizing %s: %w", path, err)
			}
		default:
			logger.Debug().Str("path", path).Str("mode", info.Mode().String()).Msg("skipping special file")
		}
	}

	return nil
}

// resolve follows a symlink to the entry it names
func (o *Organizer) resolve(path string, entry os.FileInfo) (os.FileInfo, error) {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry, nil
	}
	return o.fs.Stat(path)
}

// 🔍 excluded checks path against the exclude patterns
func (o *Organizer) excluded(ctx context.Context, path string) bool {
	if len(o.exclude) == 0 {
		return false
	}

	rel, err := filepath.Rel(o.srcRoot, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range o.exclude {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("path", rel).Str("pattern", pattern).Msg("entry excluded by pattern")
			return true
		}
	}
	return false
}

// 📦 place classifies src and copies it into its bucket, falling back to the
// bucket's duplicated folder on a name collision
func (o *Organizer) place(ctx context.Context, src string, info os.FileInfo) error {
	o.stats.Files++

	b := bucket.Classify(info.ModTime(), o.loc)
	name := filepath.Base(src)

	dir := b.Dir(o.destRoot)
	if err := o.fs.MkdirAll(dir, 0o755); err != nil {
		return errors.Errorf("creating bucket %s: %w", dir, err)
	}

	dest := filepath.Join(dir, name)
	err := o.copyFile(src, dest, info.Mode().Perm())
	if err == nil {
		o.stats.Copied++
		o.logger.Copied(ctx, log.CopyEvent{Name: name, Source: src, Destination: dest, Bucket: b.String()})
		return nil
	}
	if !errors.Is(err, os.ErrExist) {
		return err
	}

	dupDir := b.DuplicateDir(o.destRoot)
	dupDest := filepath.Join(dupDir, name)
	ev := log.DuplicateEvent{
		CopyEvent: log.CopyEvent{Name: name, Source: src, Destination: dupDest, Bucket: b.String()},
		Existing:  dest,
	}

	if err := o.fs.MkdirAll(dupDir, 0o755); err != nil {
		if !o.occupiedByFile(dupDir) {
			return errors.Errorf("creating duplicate folder %s: %w", dupDir, err)
		}
		// a copied file named like the duplicate folder blocks the fallback
		o.drop(ctx, ev, dupDir)
		return nil
	}

	err = o.copyFile(src, dupDest, info.Mode().Perm())
	if errors.Is(err, os.ErrExist) {
		// only one level of fallback: the file is not copied anywhere
		o.drop(ctx, ev, dupDest)
		return nil
	}
	if err != nil {
		return err
	}

	o.stats.Duplicated++
	if o.compare {
		same, err := o.sameContent(dest, src)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("file", src).Err(err).Msg("comparing duplicate contents")
		} else {
			ev.Compared = true
			ev.Identical = same
			if same {
				o.stats.Identical++
			}
		}
	}
	o.logger.Duplicated(ctx, ev)
	return nil
}

// drop records a file that found no free slot in its bucket
func (o *Organizer) drop(ctx context.Context, ev log.DuplicateEvent, existing string) {
	o.stats.Dropped++
	ev.Existing = existing
	ev.Destination = ""
	o.logger.Dropped(ctx, ev)
}

// occupiedByFile reports whether path exists and is not a directory
func (o *Organizer) occupiedByFile(path string) bool {
	info, err := o.fs.Stat(path)
	return err == nil && !info.IsDir()
}
