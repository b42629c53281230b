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
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/genderex/pkg/fileutil"
	"github.com/walteh/genderex/pkg/replace"
	"github.com/walteh/genderex/pkg/status"
	"github.com/walteh/genderex/pkg/table"
	"github.com/walteh/genderex/res"
	"gitlab.com/tozd/go/errors"
)

// session is a manager with its tables loaded.
type session struct {
	manager *replace.Manager
	tracker *status.Tracker
	// custom receives the new replacements, nil when it must not change
	custom *table.Table
}

func (o *operator) newSession(ctx context.Context) (*session, error) {
	tracker := status.NewTracker()
	m, err := replace.New(replace.Options{
		Fs:       o.opts.Workdir.Fs(),
		Resolver: o.opts.Resolver,
		Reporter: status.Multi(tracker, o.opts.Reporter),
		Skip:     o.opts.Config.Scan.SkipXPath,
	})
	if err != nil {
		return nil, errors.Errorf("creating replacement manager: %w", err)
	}

	s := &session{manager: m, tracker: tracker}
	if err := o.loadTables(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// 📚 loadTables adds either the specified table alone, or the builtin table
// followed by the custom table
func (o *operator) loadTables(ctx context.Context, s *session) error {
	cfg := o.opts.Config.Tables
	fsys := o.opts.Workdir.Fs()

	if cfg.Specified != "" {
		ok, err := fileutil.Exists(fsys, cfg.Specified)
		if err != nil {
			return errors.Errorf("checking %s: %w", cfg.Specified, err)
		}
		if !ok {
			return errors.Errorf("replacement table %s does not exist", cfg.Specified)
		}
		t, err := table.Load(ctx, fsys, cfg.Specified)
		if err != nil {
			return errors.Errorf("loading specified table: %w", err)
		}
		return o.addTable(s, TableSpecified, t, cfg.Specified)
	}

	builtin, source, err := o.builtinTable(ctx)
	if err != nil {
		return err
	}
	if err := o.addTable(s, TableBuiltin, builtin, source); err != nil {
		return err
	}

	if cfg.BuiltinOnly {
		return nil
	}

	path := cfg.Custom
	if path == "" {
		path = o.opts.Workdir.CustomTable
	}
	custom, err := table.Load(ctx, fsys, path)
	if err != nil {
		return errors.Errorf("loading custom table: %w", err)
	}
	if err := o.addTable(s, TableCustom, custom, path); err != nil {
		return err
	}
	if o.interactive() {
		s.custom = custom
	}
	return nil
}

// builtinTable downloads the latest builtin table and falls back to the
// bundled one on any failure.
func (o *operator) builtinTable(ctx context.Context) (*table.Table, string, error) {
	logger := zerolog.Ctx(ctx)
	r := o.opts.Config.Tables.Remote

	if !r.Disabled && o.opts.TableRepo != nil {
		t, err := o.downloadTable(ctx)
		if err == nil {
			return t, o.opts.TableRepo.Name() + "@" + r.Ref, nil
		}
		logger.Warn().Err(err).Msg("using bundled replacement table")
		if o.opts.UserLogger != nil {
			o.opts.UserLogger.LogValidation(false, "Downloading the replacement table failed, using the bundled one", err)
		}
	}

	t, err := res.BuiltinTable()
	if err != nil {
		return nil, "", errors.Errorf("loading bundled table: %w", err)
	}
	return t, "bundled", nil
}

func (o *operator) downloadTable(ctx context.Context) (*table.Table, error) {
	r := o.opts.Config.Tables.Remote
	data, err := o.opts.TableRepo.GetFile(ctx, r.Ref, r.Path)
	if err != nil {
		return nil, errors.Errorf("downloading replacement table: %w", err)
	}
	t, err := table.Parse(data)
	if err != nil {
		return nil, errors.Errorf("parsing downloaded table: %w", err)
	}
	return t, nil
}

func (o *operator) addTable(s *session, name string, t *table.Table, source string) error {
	if err := s.manager.AddTable(name, t); err != nil {
		return errors.Errorf("adding %s table: %w", name, err)
	}
	if o.opts.UserLogger != nil {
		o.opts.UserLogger.LogTable(name, t.Version, t.CountReplacements(), source)
	}
	return nil
}
