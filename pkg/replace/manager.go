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

// Package replace resolves gender marker replacements across layered tables
// and applies them to the language files of a decompiled app.
package replace

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/genderex/pkg/fileutil"
	"github.com/walteh/genderex/pkg/langfile"
	"github.com/walteh/genderex/pkg/status"
	"github.com/walteh/genderex/pkg/suspicion"
	"github.com/walteh/genderex/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// 🙋 Resolver supplies a value for a suspicious field no table covers. It may
// block on user input.
type Resolver func(ctx context.Context, fieldKey, oldValue string) (string, error)

// KeepOriginal is the non-interactive Resolver: the field stays as it is but
// the decision is still recorded.
func KeepOriginal(_ context.Context, _ string, oldValue string) (string, error) {
	return oldValue, nil
}

// 📛 NamedTable is a read-only table consulted during replacement
type NamedTable struct {
	Name  string
	Table *table.Table
}

// 🔧 Options contains configuration for the manager
type Options struct {
	// Fs is the file system holding the app tree
	Fs afero.Fs
	// Resolver is called for suspicious fields without a table match, defaults to KeepOriginal
	Resolver Resolver
	// Accumulator collects newly discovered replacements, defaults to an empty table
	Accumulator *table.Table
	// Reporter receives the outcome of every file, optional
	Reporter status.Reporter
	// Skip holds XPath expressions of subtrees never touched by DoReplace
	Skip []string
}

// 🎛️ Manager applies layered replacement tables to language files
type Manager struct {
	fs          afero.Fs
	resolve     Resolver
	tables      []NamedTable
	accumulator *table.Table
	reporter    status.Reporter
	skip        []string
}

// 🏭 New creates a manager with the given options
func New(opts Options) (*Manager, error) {
	if opts.Fs == nil {
		return nil, errors.Errorf("file system is required")
	}
	if opts.Resolver == nil {
		opts.Resolver = KeepOriginal
	}
	if opts.Accumulator == nil {
		opts.Accumulator = table.New()
	}
	return &Manager{
		fs:          opts.Fs,
		resolve:     opts.Resolver,
		accumulator: opts.Accumulator,
		reporter:    opts.Reporter,
		skip:        opts.Skip,
	}, nil
}

// ➕ AddTable appends a table; earlier tables take precedence
func (m *Manager) AddTable(name string, t *table.Table) error {
	if name == "" {
		return errors.Errorf("table name is required")
	}
	if t == nil {
		return errors.Errorf("table %s is nil", name)
	}
	if slices.ContainsFunc(m.tables, func(nt NamedTable) bool { return nt.Name == name }) {
		return errors.Errorf("table %s already added", name)
	}
	m.tables = append(m.tables, NamedTable{Name: name, Table: t})
	return nil
}

// Tables returns the tables in priority order.
func (m *Manager) Tables() []NamedTable { return m.tables }

// Accumulator returns the table of newly discovered replacements.
func (m *Manager) Accumulator() *table.Table { return m.accumulator }

// filePaths returns the sorted union of set paths over all tables.
func (m *Manager) filePaths() []string {
	seen := map[string]struct{}{}
	var paths []string
	add := func(t *table.Table) {
		for _, s := range t.Sets() {
			if _, ok := seen[s.Path]; ok {
				continue
			}
			seen[s.Path] = struct{}{}
			paths = append(paths, s.Path)
		}
	}
	for _, nt := range m.tables {
		add(nt.Table)
	}
	add(m.accumulator)
	slices.Sort(paths)
	return paths
}

// lookup scans the tables in priority order; the first match wins.
func (m *Manager) lookup(path, fieldKey, old string) (value, tableName string, ok bool) {
	for _, nt := range m.tables {
		s, found := nt.Table.SetForFile(path)
		if !found {
			continue
		}
		if v, hit := s.Lookup(fieldKey, old); hit {
			return v, nt.Name, true
		}
	}
	return "", "", false
}

// 🔁 DoReplace patches every file referenced by any table below rootDir. The
// patched files are written below outDir, or in place when outDir is empty.
//
// A file that fails to load or save is skipped and its error is joined into
// the returned error; files already written stay written. A Resolver failure
// aborts the run.
func (m *Manager) DoReplace(ctx context.Context, rootDir, outDir string) (applied, discovered int, err error) {
	logger := zerolog.Ctx(ctx)
	if outDir == "" {
		outDir = rootDir
	}

	paths := m.filePaths()
	m.startOperation(ctx, len(paths))
	defer m.finishOperation(ctx)

	var fileErrs []error
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return applied, discovered, errors.Errorf("replacing: %w", err)
		}

		info := m.replaceFile(ctx, path, rootDir, outDir)
		applied += info.Applied
		discovered += info.Discovered
		m.track(ctx, info, i+1)

		if info.Error == nil {
			continue
		}
		var rerr *ResolveError
		if errors.As(info.Error, &rerr) {
			return applied, discovered, info.Error
		}
		logger.Error().Err(info.Error).Str("file", path).Msg("skipping language file")
		fileErrs = append(fileErrs, info.Error)
	}

	logger.Info().Int("applied", applied).Int("discovered", discovered).Msg("replacements done")

	if len(fileErrs) > 0 {
		return applied, discovered, errors.Join(fileErrs...)
	}
	return applied, discovered, nil
}

// ResolveError is returned by DoReplace when the Resolver fails.
type ResolveError struct {
	Path     string
	FieldKey string
	Err      error
}

func (e *ResolveError) Error() string {
	return "resolving " + e.Path + ": " + e.FieldKey + ": " + e.Err.Error()
}

func (e *ResolveError) Unwrap() error { return e.Err }

func (m *Manager) startOperation(ctx context.Context, total int) {
	if m.reporter != nil {
		m.reporter.StartOperation(ctx, total)
	}
}

func (m *Manager) track(ctx context.Context, info status.FileInfo, processed int) {
	if m.reporter != nil {
		m.reporter.TrackFile(ctx, info)
		m.reporter.UpdateProgress(ctx, processed)
	}
}

func (m *Manager) finishOperation(ctx context.Context) {
	if m.reporter != nil {
		m.reporter.FinishOperation(ctx)
	}
}

func (m *Manager) replaceFile(ctx context.Context, path, rootDir, outDir string) status.FileInfo {
	logger := zerolog.Ctx(ctx).With().Str("file", path).Logger()
	info := status.FileInfo{Path: path, Status: status.StatusUnchanged}
	fail := func(err error) status.FileInfo {
		info.Status = status.StatusFailed
		info.Error = err
		info.Applied, info.Discovered = 0, 0
		return info
	}

	if !filepath.IsLocal(filepath.FromSlash(path)) {
		return fail(errors.Errorf("language file path %q leaves the app directory", path))
	}

	src := filepath.Join(rootDir, filepath.FromSlash(path))
	exists, err := fileutil.Exists(m.fs, src)
	if err != nil {
		return fail(errors.Errorf("checking %s: %w", src, err))
	}
	if !exists {
		logger.Warn().Msg("language file referenced by a table does not exist")
		info.Status = status.StatusMissing
		return info
	}

	f, err := langfile.Load(ctx, m.fs, src)
	if err != nil {
		return fail(err)
	}
	if err := f.Skip(m.skip...); err != nil {
		return fail(err)
	}

	// new entries reach the accumulator only once the file is saved
	var found []table.Entry
	for field := range f.Fields() {
		if v, name, ok := m.lookup(path, field.Key, field.Value); ok {
			logger.Trace().Str("key", field.Key).Str("table", name).Msg("replacing from table")
			field.Set(v)
			info.Applied++
			continue
		}

		if !suspicion.IsSuspicious(field.Value) {
			continue
		}

		logger.Debug().Str("key", field.Key).Str("value", field.Value).Msg("suspicious field without replacement")
		old := field.Value
		v, rerr := m.resolve(ctx, field.Key, old)
		if rerr != nil {
			return fail(&ResolveError{Path: path, FieldKey: field.Key, Err: rerr})
		}
		found = append(found, table.Entry{FieldKey: field.Key, Old: old, New: v})
		field.Set(v)
		info.Applied++
		info.Discovered++
	}

	dst := filepath.Join(outDir, filepath.FromSlash(path))
	if err := f.Save(ctx, m.fs, dst); err != nil {
		return fail(err)
	}
	if len(found) > 0 {
		s := m.accumulator.EnsureSetForFile(path)
		for _, e := range found {
			s.Add(e.FieldKey, e.Old, e.New)
		}
	}
	if info.Applied > 0 {
		info.Status = status.StatusPatched
	}
	return info
}
