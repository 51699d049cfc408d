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

package main

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/mediaorganizer/pkg/config"
	"github.com/walteh/mediaorganizer/pkg/log"
	"github.com/walteh/mediaorganizer/pkg/operation"
	"github.com/walteh/mediaorganizer/pkg/organize"
	"github.com/walteh/mediaorganizer/pkg/reset"
	"gitlab.com/tozd/go/errors"
)

// rootOpts holds the flag values of the root command
type rootOpts struct {
	configFile string
	debug      bool
	exclude    []string
	timezone   string
	noColor    bool
	summary    bool
	compare    bool

	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer
}

// newRootCmd creates the mediaorganizer command
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &rootOpts{
		fs:     afero.NewOsFs(),
		stdout: stdout,
		stderr: stderr,
	}

	cmd := &cobra.Command{
		Use:   "mediaorganizer <ROOT_FOLDER> <DEST_FOLDER>",
		Short: "Copy media into year/month folders by modification date",
		Long: `mediaorganizer empties DEST_FOLDER, then copies every file found under
ROOT_FOLDER into DEST_FOLDER/<year>/<month>, using each file's last-modified time.

A second file with a name already present in its month folder is copied to
<month>/duplicated instead. A third one is skipped.`,
		Args:          cobra.ArbitraryArgs,
		Version:       FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				log.New(o.stdout, zerolog.Nop()).Usage(cmd.Root().Name())
				return nil
			}
			return o.run(cmd, args[0], args[1])
		},
	}

	cmd.SetVersionTemplate("{{.Version}}")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	addRootFlags(cmd, o)

	return cmd
}

// addRootFlags adds the flags of the root command
func addRootFlags(cmd *cobra.Command, o *rootOpts) {
	flags := cmd.Flags()
	flags.StringVarP(&o.configFile, "config", "c", "", "optional config file (.yaml, .hcl or .json)")
	flags.BoolVarP(&o.debug, "debug", "d", false, "enable debug logging")
	flags.StringArrayVar(&o.exclude, "exclude", nil, "doublestar pattern of source paths to skip (repeatable)")
	flags.StringVar(&o.timezone, "timezone", "", "IANA timezone used to pick the year and month (default local)")
	flags.BoolVar(&o.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&o.summary, "summary", false, "print a table of run counters at the end")
	flags.BoolVar(&o.compare, "compare-duplicates", false, "hash duplicate names to log whether their contents match")
}

// setupLogging builds the diagnostic logger written to stderr
func (o *rootOpts) setupLogging(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: o.stderr, NoColor: o.noColor}).
		Level(level).
		With().Timestamp().Logger()
}

// loadConfig reads the optional config file and lays the flags over it
func (o *rootOpts) loadConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(ctx, o.fs, o.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("exclude") {
		cfg.Exclude = append(cfg.Exclude, o.exclude...)
	}
	if flags.Changed("timezone") {
		cfg.Timezone = o.timezone
	}
	if flags.Changed("summary") {
		cfg.Summary = o.summary
	}
	if flags.Changed("compare-duplicates") {
		cfg.CompareDuplicates = o.compare
	}
	if flags.Changed("debug") {
		cfg.Debug = o.debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating flags: %w", err)
	}
	return cfg, nil
}

// run resets dest and organizes src into it
func (o *rootOpts) run(cmd *cobra.Command, src, dest string) error {
	if o.noColor {
		color.NoColor = true
	}

	zlog := o.setupLogging(o.debug)
	ctx := zlog.WithContext(cmd.Context())

	cfg, err := o.loadConfig(ctx, cmd)
	if err != nil {
		return err
	}
	if cfg.Debug && !o.debug {
		zlog = zlog.Level(zerolog.DebugLevel)
		ctx = zlog.WithContext(ctx)
	}

	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return errors.Errorf("getting absolute source path: %w", err)
	}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return errors.Errorf("getting absolute destination path: %w", err)
	}
	if contains(destAbs, srcAbs) {
		return errors.Errorf("destination %s contains the source %s and would be deleted by the reset", destAbs, srcAbs)
	}

	logger := log.New(o.stdout, zlog)
	ctx = log.NewContext(ctx, logger)

	org, err := organize.New(organize.Options{
		Fs:                o.fs,
		Logger:            logger,
		Location:          cfg.Location(),
		Exclude:           cfg.Exclude,
		CompareDuplicates: cfg.CompareDuplicates,
	})
	if err != nil {
		return errors.Errorf("creating organizer: %w", err)
	}

	runner := operation.NewRunner(cfg.Summary)
	return runner.Run(ctx,
		operation.NewResetOperation(reset.New(o.fs), destAbs),
		operation.NewOrganizeOperation(org, srcAbs, destAbs),
	)
}

// contains reports whether path is dir or lies beneath it
func contains(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
