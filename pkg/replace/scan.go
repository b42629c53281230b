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

package replace

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/genderex/pkg/langfile"
	"github.com/walteh/genderex/pkg/suspicion"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultInclude selects the German resource files of a decompiled app.
var DefaultInclude = []string{"res/values-de/*.xml"}

// 🔎 Finding is a suspicious field found by Scan
type Finding struct {
	// Path is the portable path of the file relative to the scanned root
	Path     string
	FieldKey string
	Value    string
	// Table names the table that covers the field, empty if none does
	Table string
}

// Covered reports whether a table already has a replacement for the field.
func (f Finding) Covered() bool { return f.Table != "" }

// 🔧 ScanOptions controls Scan
type ScanOptions struct {
	// Include holds doublestar patterns relative to the root, defaults to DefaultInclude
	Include []string
	// Skip holds XPath expressions of subtrees to ignore
	Skip []string
	// Concurrency bounds the number of files parsed at once, defaults to GOMAXPROCS
	Concurrency int
}

// 🔍 Scan reports every suspicious field of the included files below rootDir
// and whether a table covers it. Nothing is modified.
func (m *Manager) Scan(ctx context.Context, rootDir string, opts ScanOptions) ([]Finding, error) {
	logger := zerolog.Ctx(ctx)
	if len(opts.Include) == 0 {
		opts.Include = DefaultInclude
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}

	files, err := m.matchFiles(ctx, rootDir, opts.Include)
	if err != nil {
		return nil, err
	}
	logger.Debug().Int("files", len(files)).Msg("scanning language files")

	results := make([][]Finding, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found, err := m.scanFile(gctx, rootDir, path, opts.Skip)
			if err != nil {
				return errors.Errorf("scanning %s: %w", path, err)
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Finding
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// matchFiles walks rootDir in lexical order and returns the portable paths
// matching any include pattern.
func (m *Manager) matchFiles(ctx context.Context, rootDir string, include []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)
	var files []string

	err := afero.Walk(m.fs, rootDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(rootDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		for _, pattern := range include {
			matched, err := doublestar.Match(pattern, rel)
			if err != nil {
				logger.Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
				continue
			}
			if matched {
				files = append(files, rel)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking %s: %w", rootDir, err)
	}
	return files, nil
}

func (m *Manager) scanFile(ctx context.Context, rootDir, path string, skip []string) ([]Finding, error) {
	f, err := langfile.Load(ctx, m.fs, filepath.Join(rootDir, filepath.FromSlash(path)))
	if err != nil {
		return nil, err
	}
	if err := f.Skip(skip...); err != nil {
		return nil, err
	}

	var found []Finding
	for field := range f.Fields() {
		if !suspicion.IsSuspicious(field.Value) {
			continue
		}
		_, name, _ := m.lookup(path, field.Key, field.Value)
		found = append(found, Finding{Path: path, FieldKey: field.Key, Value: field.Value, Table: name})
	}
	return found, nil
}
