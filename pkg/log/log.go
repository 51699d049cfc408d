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

package log

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

const separator = "-------------------------------------------------------"

// 📦 CopyEvent describes a file that was placed in the destination tree
type CopyEvent struct {
	Name        string // Base name of the source file
	Source      string // Absolute source path
	Destination string // Absolute destination path
	Bucket      string // Bucket the file was classified into, e.g. 2023/03
}

// 🔁 DuplicateEvent describes a file diverted to, or dropped from, a duplicated folder
type DuplicateEvent struct {
	CopyEvent
	Existing  string // Path of the file that already held the name
	Identical bool   // Whether the contents of both files match
	Compared  bool   // Whether a content comparison was made at all
}

// 🧮 SummaryRow is one line of the run summary table
type SummaryRow struct {
	Label string
	Value int
}

// 🎯 Logger writes the run's status lines to the console and mirrors them to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📂 Directory prints the absolute path of a directory being entered
func (l *Logger) Directory(ctx context.Context, path string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, color.New(color.FgCyan).Sprint(path))
	l.zlog.Debug().Str("dir", path).Msg("entering directory")
}

// 📝 Copied prints a file that landed in its bucket
func (l *Logger) Copied(ctx context.Context, ev CopyEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "\t%s %s %s\n",
		ev.Name,
		color.New(color.Faint).Sprint("->"),
		color.New(color.FgGreen).Sprint(ev.Destination))

	l.zlog.Info().
		Str("file", ev.Source).
		Str("bucket", ev.Bucket).
		Str("destination", ev.Destination).
		Msg("file copied")
}

// 📝 Duplicated prints a file that was diverted to the duplicated folder
func (l *Logger) Duplicated(ctx context.Context, ev DuplicateEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "\t%s\n\t\t%s %s %s\n",
		color.New(color.FgYellow).Sprint("Duplicated file found"),
		ev.Name,
		color.New(color.Faint).Sprint("->"),
		color.New(color.FgYellow).Sprint(ev.Destination))

	e := l.zlog.Info().
		Str("file", ev.Source).
		Str("bucket", ev.Bucket).
		Str("existing", ev.Existing).
		Str("destination", ev.Destination)
	if ev.Compared {
		e = e.Bool("identical", ev.Identical)
	}
	e.Msg("duplicate name diverted")
}

// ⚠️ Dropped records a file that collided in the duplicated folder as well.
// Nothing is printed to the console for it.
func (l *Logger) Dropped(ctx context.Context, ev DuplicateEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.zlog.Warn().
		Str("file", ev.Source).
		Str("bucket", ev.Bucket).
		Str("existing", ev.Existing).
		Msg("dropped duplicate")
}

// ⏱️ Timing prints the elapsed time banner that closes a run
func (l *Logger) Timing(elapsed time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "\n%s\nMedia organization took %dms\n%s\n",
		separator, elapsed.Milliseconds(), separator)
	l.zlog.Info().Dur("elapsed", elapsed).Msg("media organization finished")
}

// ❓ Usage prints the command line synopsis
func (l *Logger) Usage(program string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "Usage: %s <ROOT_FOLDER> <DEST_FOLDER>\n", program)
}

// 📊 Summary renders the run counters as a table
func (l *Logger) Summary(rows []SummaryRow) error {
	data := pterm.TableData{{"", "count"}}
	for _, r := range rows {
		data = append(data, []string{r.Label, strconv.Itoa(r.Value)})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, strings.TrimRight(out, "\n"))
	return nil
}
