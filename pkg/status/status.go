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

// Package status tracks what a replacement run did to each language file.
package status

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the outcome for one language file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusPatched              // At least one field was replaced
	StatusUnchanged            // Loaded and saved without replacements
	StatusMissing              // Referenced by a table but absent from the app
	StatusFailed               // Could not be loaded or saved
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusPatched:
		return "patched"
	case StatusUnchanged:
		return "unchanged"
	case StatusMissing:
		return "missing"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains the outcome for a language file
type FileInfo struct {
	Path       string     // Portable path relative to the app root
	Status     FileStatus // Outcome
	Applied    int        // Fields replaced from tables or the resolver
	Discovered int        // Fields resolved without a table entry
	Error      error      // Any error associated with this file
}

// 📈 Reporter receives per-file outcomes and progress
type Reporter interface {
	TrackFile(ctx context.Context, info FileInfo)
	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Tracker records outcomes and logs them
type Tracker struct {
	formatter FileFormatter

	mu        sync.RWMutex
	files     map[string]FileInfo
	total     int
	processed int
}

var _ Reporter = (*Tracker)(nil)

// 🏭 NewTracker creates a tracker with the default formatter
func NewTracker() *Tracker {
	return &Tracker{
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

func (t *Tracker) TrackFile(ctx context.Context, info FileInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.files[info.Path] = info
	logger := zerolog.Ctx(ctx)
	if info.Error != nil {
		logger.Warn().Str("path", info.Path).Err(info.Error).Msg(t.formatter.FormatError(info.Error))
		return
	}
	logger.Info().
		Str("path", info.Path).
		Int("applied", info.Applied).
		Int("discovered", info.Discovered).
		Msg(t.formatter.FormatFileOperation(info))
}

// GetFileInfo returns the outcome recorded for path.
func (t *Tracker) GetFileInfo(path string) (FileInfo, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	info, ok := t.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

// ListFiles returns all outcomes ordered by path.
func (t *Tracker) ListFiles() []FileInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	files := make([]FileInfo, 0, len(t.files))
	for _, info := range t.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Count returns the number of files with status s.
func (t *Tracker) Count(s FileStatus) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, info := range t.files {
		if info.Status == s {
			n++
		}
	}
	return n
}

func (t *Tracker) StartOperation(ctx context.Context, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = total
	t.processed = 0
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(t.formatter.FormatProgress(0, total))
}

func (t *Tracker) UpdateProgress(ctx context.Context, processed int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.processed = processed
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(processed, t.total))
}

func (t *Tracker) FinishOperation(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Int("processed", t.processed).
		Int("total", t.total).
		Msg(t.formatter.FormatProgress(t.total, t.total))
}

type multiReporter []Reporter

// 🔀 Multi fans every call out to reporters in order, skipping nil ones
func Multi(reporters ...Reporter) Reporter {
	var m multiReporter
	for _, r := range reporters {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

func (m multiReporter) TrackFile(ctx context.Context, info FileInfo) {
	for _, r := range m {
		r.TrackFile(ctx, info)
	}
}

func (m multiReporter) StartOperation(ctx context.Context, total int) {
	for _, r := range m {
		r.StartOperation(ctx, total)
	}
}

func (m multiReporter) UpdateProgress(ctx context.Context, processed int) {
	for _, r := range m {
		r.UpdateProgress(ctx, processed)
	}
}

func (m multiReporter) FinishOperation(ctx context.Context) {
	for _, r := range m {
		r.FinishOperation(ctx)
	}
}
