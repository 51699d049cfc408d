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

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config holds the optional settings of an organize run
type Config struct {
	Exclude           []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
	Timezone          string   `json:"timezone,omitempty" yaml:"timezone,omitempty" hcl:"timezone,optional"`
	CompareDuplicates bool     `json:"compare_duplicates,omitempty" yaml:"compare_duplicates,omitempty" hcl:"compare_duplicates,optional"`
	Summary           bool     `json:"summary,omitempty" yaml:"summary,omitempty" hcl:"summary,optional"`
	Debug             bool     `json:"debug,omitempty" yaml:"debug,omitempty" hcl:"debug,optional"`

	location *time.Location
}

// 🏭 Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{location: time.Local}
}

// 🎯 Load loads the configuration from a file on fs
func Load(ctx context.Context, fs afero.Fs, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(filepath.Base(path))
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	return cfg, nil
}

// 🔍 Validate checks the patterns and resolves the timezone
func (cfg *Config) Validate() error {
	for _, p := range cfg.Exclude {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid exclude pattern %q", p)
		}
	}

	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	switch cfg.Timezone {
	case "", "Local":
		cfg.location = time.Local
	default:
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return errors.Errorf("loading timezone %q: %w", cfg.Timezone, err)
		}
		cfg.location = loc
	}

	return nil
}

// 🗓️ Location is the calendar files are classified with
func (cfg *Config) Location() *time.Location {
	if cfg.location == nil {
		return time.Local
	}
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("tz=%s exclude=[%s] compare=%t summary=%t",
		cfg.Location(), strings.Join(cfg.Exclude, ","), cfg.CompareDuplicates, cfg.Summary)
}
