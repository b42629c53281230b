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
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/genderex/pkg/fileutil"
	"github.com/walteh/genderex/pkg/replace"
	"github.com/walteh/genderex/pkg/table"
	"github.com/walteh/genderex/pkg/text"
	"github.com/walteh/genderex/pkg/workdir"
	"github.com/walteh/genderex/res"
	"gitlab.com/tozd/go/errors"
)

// 🚀 Run replaces the gender markers of the decompiled app in place, adds the
// credits, saves the new replacements and, when interactive, merges them into
// the custom table
func (o *operator) Run(ctx context.Context) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	wd := o.opts.Workdir

	appVersion, err := workdir.AppVersion(ctx, wd.Fs(), o.opts.AppDir)
	if err != nil {
		return nil, err
	}

	s, err := o.newSession(ctx)
	if err != nil {
		return nil, err
	}
	m := s.manager

	result := &Result{
		AppVersion:    appVersion,
		TableVersions: m.TableVersions(false),
		Accumulator:   m.Accumulator(),
	}

	result.Compatible = m.CheckCompatibility(ctx, appVersion)
	if !result.Compatible && o.opts.UserLogger != nil {
		o.opts.UserLogger.LogValidation(false, fmt.Sprintf("Tables %s are not validated for Spotify %s",
			strings.Join(m.IncompatibleTables(appVersion), ", "), appVersion), nil)
	}

	result.Applied, result.Discovered, err = m.DoReplace(ctx, o.opts.AppDir, "")
	result.Files = s.tracker.ListFiles()
	if err != nil {
		var rerr *replace.ResolveError
		if errors.As(err, &rerr) || ctx.Err() != nil {
			return result, errors.Errorf("replacing: %w", err)
		}
		logger.Warn().Err(err).Msg("some language files could not be patched")
		result.FileErrors = err
	}
	result.VersionString = m.VersionString()

	result.CreditsAdded, err = o.addCredits(ctx, appVersion, result.TableVersions)
	if err != nil {
		return result, err
	}

	replPath, err := wd.NewReplacementsFile(appVersion, result.TableVersions)
	if err != nil {
		return result, err
	}
	saved, err := m.SaveAccumulator(ctx, appVersion, replPath)
	if err != nil {
		return result, err
	}
	if saved {
		result.NewReplacements = replPath
		if o.opts.UserLogger != nil {
			o.opts.UserLogger.LogArtifact("new replacements", replPath)
		}
	}

	if s.custom != nil && !m.Accumulator().IsEmpty() {
		result.CustomUpdated, err = o.updateCustom(ctx, s.custom, m.Accumulator())
		if err != nil {
			return result, err
		}
	}

	if err := wd.SaveVersion(appVersion); err != nil {
		return result, errors.Errorf("saving app version: %w", err)
	}

	logger.Info().
		Str("app_version", appVersion).
		Str("version", result.VersionString).
		Int("applied", result.Applied).
		Int("discovered", result.Discovered).
		Msg("run finished")

	return result, nil
}

// updateCustom merges the new replacements into the custom table and saves it.
func (o *operator) updateCustom(ctx context.Context, custom, accumulator *table.Table) (bool, error) {
	if custom.Merge(accumulator) == 0 {
		return false, nil
	}
	custom.Version++
	if err := custom.Save(ctx, o.opts.Workdir.Fs(), custom.Path()); err != nil {
		return false, errors.Errorf("saving custom table: %w", err)
	}
	if o.opts.UserLogger != nil {
		o.opts.UserLogger.LogArtifact("custom table", custom.Path())
	}
	return true, nil
}

// 🎖️ addCredits writes the credits block into the licenses page. A missing
// page or one without <body> is skipped with a warning.
func (o *operator) addCredits(ctx context.Context, appVersion, tableVersions string) (bool, error) {
	logger := zerolog.Ctx(ctx)
	fsys := o.opts.Workdir.Fs()
	path := workdir.LicensesFile(o.opts.AppDir)

	ok, err := fileutil.Exists(fsys, path)
	if err != nil {
		return false, errors.Errorf("checking %s: %w", path, err)
	}
	if !ok {
		logger.Warn().Str("path", path).Msg("licenses page not found, skipping credits")
		return false, nil
	}

	page, err := afero.ReadFile(fsys, path)
	if err != nil {
		return false, errors.Errorf("reading %s: %w", path, err)
	}

	credits, err := text.RenderCredits(ctx, res.Credits, text.CreditsVars{
		AppVersion:    appVersion,
		ToolVersion:   o.opts.ToolVersion,
		TableVersions: tableVersions,
		BuildDate:     o.opts.Now(),
	})
	if err != nil {
		return false, err
	}

	out, ok := text.InjectCredits(string(page), credits)
	if !ok {
		logger.Warn().Str("path", path).Msg("licenses page has no body, skipping credits")
		return false, nil
	}

	if err := fileutil.WriteFileAtomic(fsys, path, []byte(out)); err != nil {
		return false, errors.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// 🔍 Scan reports the suspicious fields of the app and the table covering each
func (o *operator) Scan(ctx context.Context) ([]replace.Finding, error) {
	s, err := o.newSession(ctx)
	if err != nil {
		return nil, err
	}
	cfg := o.opts.Config.Scan
	return s.manager.Scan(ctx, o.opts.AppDir, replace.ScanOptions{
		Include:     cfg.Include,
		Skip:        cfg.SkipXPath,
		Concurrency: cfg.Concurrency,
	})
}
