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
	"github.com/spf13/afero"
	"github.com/walteh/genderex/pkg/fileutil"
	"github.com/walteh/genderex/pkg/issue"
	"github.com/walteh/genderex/pkg/remote"
	"github.com/walteh/genderex/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// NewReplacements loads a table saved by Run and returns the app version it
// was discovered in.
func (o *operator) NewReplacements(ctx context.Context, path string) (*table.Table, string, error) {
	return LoadNewReplacements(ctx, o.opts.Workdir.Fs(), path)
}

// 📥 LoadNewReplacements reads new replacements saved by a run and returns
// them with the app version they were found in
func LoadNewReplacements(ctx context.Context, fsys afero.Fs, path string) (*table.Table, string, error) {
	ok, err := fileutil.Exists(fsys, path)
	if err != nil {
		return nil, "", errors.Errorf("checking %s: %w", path, err)
	}
	if !ok {
		return nil, "", errors.Errorf("replacement file %s does not exist", path)
	}

	t, err := table.Load(ctx, fsys, path)
	if err != nil {
		return nil, "", err
	}
	if len(t.CompatibleVersions) == 0 {
		return nil, "", errors.Errorf("%s carries no app version", path)
	}
	return t, t.CompatibleVersions[len(t.CompatibleVersions)-1], nil
}

// 🎫 SubmitIssue opens an issue listing the new replacements. When an open
// issue with the same title exists it is returned instead and created is false.
func (o *operator) SubmitIssue(ctx context.Context, replacements *table.Table, appVersion string) (*remote.Issue, bool, error) {
	repo := o.opts.IssueRepo
	if repo == nil {
		return nil, false, errors.Errorf("issue repository is required")
	}
	if replacements == nil || replacements.IsEmpty() {
		return nil, false, errors.Errorf("no new replacements to submit")
	}

	title := issue.Title(appVersion)
	existing, err := repo.FindOpenIssue(ctx, title)
	if err != nil {
		return nil, false, errors.Errorf("looking for open issue: %w", err)
	}
	if existing != nil {
		zerolog.Ctx(ctx).Info().Int("number", existing.Number).Msg("issue already open")
		if o.opts.UserLogger != nil {
			o.opts.UserLogger.LogIssue(title, existing.URL, false)
		}
		return existing, false, nil
	}

	created, err := repo.CreateIssue(ctx, title, issue.Render(replacements, appVersion))
	if err != nil {
		return nil, false, errors.Errorf("creating issue: %w", err)
	}
	if o.opts.UserLogger != nil {
		o.opts.UserLogger.LogIssue(title, created.URL, true)
	}
	return created, true, nil
}

// 📥 ApplyIssue reads the rendered issue and the edited values from one of
// its comments and merges them into the table at path. The table is saved
// with a bumped version only when it changed.
func (o *operator) ApplyIssue(ctx context.Context, number int, commentID int64, path string) (bool, int, error) {
	repo := o.opts.IssueRepo
	if repo == nil {
		return false, 0, errors.Errorf("issue repository is required")
	}

	is, err := repo.GetIssue(ctx, number)
	if err != nil {
		return false, 0, errors.Errorf("getting issue: %w", err)
	}
	answer, err := repo.GetCommentBody(ctx, commentID)
	if err != nil {
		return false, 0, errors.Errorf("getting comment: %w", err)
	}

	changed, count, err := ApplyAnswer(ctx, o.opts.Workdir.Fs(), path, is.Body, answer)
	if err != nil {
		return false, count, errors.Errorf("applying issue #%d: %w", number, err)
	}
	if changed && o.opts.UserLogger != nil {
		o.opts.UserLogger.LogArtifact("replacement table", path)
	}
	return changed, count, nil
}

// 📝 ApplyAnswer merges the VALUES block edited in answer into the table at
// path. The table is saved with a bumped version only when it changed.
func ApplyAnswer(ctx context.Context, fsys afero.Fs, path, issueBody, answer string) (bool, int, error) {
	t, err := table.Load(ctx, fsys, path)
	if err != nil {
		return false, 0, err
	}

	changed, count, tag, err := issue.Parse(t, issueBody, answer)
	if err != nil {
		return false, 0, err
	}
	zerolog.Ctx(ctx).Info().Int("entries", count).Str("version", tag).Bool("changed", changed).Msg("read issue answer")

	if !changed {
		return false, count, nil
	}
	t.Version++
	if err := t.Save(ctx, fsys, path); err != nil {
		return false, count, errors.Errorf("saving %s: %w", path, err)
	}
	return true, count, nil
}
