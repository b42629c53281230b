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

// Package log prints human-readable progress to the console and mirrors every
// line to zerolog.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/genderex/pkg/status"
)

// 📦 RunOperation describes a replacement run for the console header
type RunOperation struct {
	AppVersion string // Version of the app being patched
	AppDir     string // Decompiled app directory
	Tables     string // Table version string
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	currentOp *RunOperation
	files     []status.FileInfo
	total     int
	formatter status.FileFormatter
}

var _ status.Reporter = (*Logger)(nil)

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return NewWithLogger(console, zlog)
}

// NewWithLogger creates a logger mirroring to an existing zerolog logger.
func NewWithLogger(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFileFormatter(),
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

// 📝 StartRun prints the header of a replacement run
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op

	fmt.Fprintf(l.console, "[patching %s]\n",
		color.New(color.FgCyan).Sprint(op.AppDir))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint("Spotify "+op.AppVersion),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Tables))

	l.zlog.Info().
		Str("app_version", op.AppVersion).
		Str("app_dir", op.AppDir).
		Str("tables", op.Tables).
		Msg("starting replacement run")
}

// 📝 TrackFile prints the outcome of a language file
func (l *Logger) TrackFile(ctx context.Context, info status.FileInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files = append(l.files, info)
	fmt.Fprintln(l.console, status.FormatFileLine(info))

	ev := l.zlog.Info()
	if info.Error != nil {
		ev = l.zlog.Error().Str("error", l.formatter.FormatError(info.Error))
	}
	ev.Str("file", info.Path).
		Str("status", info.Status.String()).
		Int("applied", info.Applied).
		Int("discovered", info.Discovered).
		Msg(l.formatter.FormatFileOperation(info))
}

// StartOperation resets the file list.
func (l *Logger) StartOperation(ctx context.Context, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.files = nil
	l.total = total
}

// UpdateProgress mirrors the progress to the debug log, every file already
// prints a console line.
func (l *Logger) UpdateProgress(ctx context.Context, processed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog.Debug().Msg(l.formatter.FormatProgress(processed, l.total))
}

// 📝 FinishOperation logs a summary of the tracked files
func (l *Logger) FinishOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	applied, discovered := 0, 0
	for _, f := range l.files {
		applied += f.Applied
		discovered += f.Discovered
	}

	l.zlog.Info().
		Int("files", len(l.files)).
		Int("total", l.total).
		Int("applied", applied).
		Int("discovered", discovered).
		Msg("replacement run complete")

	l.currentOp = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("genderex")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
