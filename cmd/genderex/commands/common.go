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


// Package commands holds the genderex subcommands.
package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/walteh/genderex/cmd/genderex/opts"
	"github.com/walteh/genderex/pkg/operation"
	"github.com/walteh/genderex/pkg/remote"
	"github.com/walteh/genderex/pkg/replace"
	"github.com/walteh/genderex/pkg/status"
	"github.com/walteh/genderex/pkg/workdir"
	"gitlab.com/tozd/go/errors"
)

// operatorArgs carries what a command hands to the operator.
type operatorArgs struct {
	appDir    string
	tableRepo remote.Repository
	issueRepo remote.Repository
	resolver  replace.Resolver
}

func newOperator(ctx context.Context, o *opts.RootOpts, args operatorArgs) (operation.Operator, error) {
	wd, err := workdir.New(ctx, o.Fs, o.Config.Workdir)
	if err != nil {
		return nil, errors.Errorf("preparing working directory: %w", err)
	}
	var reporter status.Reporter
	if o.Logger != nil {
		reporter = o.Logger
	}
	op, err := operation.New(operation.Options{
		Config:      o.Config,
		Workdir:     wd,
		AppDir:      args.appDir,
		Resolver:    args.resolver,
		TableRepo:   args.tableRepo,
		IssueRepo:   args.issueRepo,
		Reporter:    reporter,
		UserLogger:  o.UserLogger,
		ToolVersion: o.ToolVersion,
	})
	if err != nil {
		return nil, errors.Errorf("creating operator: %w", err)
	}
	return op, nil
}

// 🙋 promptResolver asks for the replacement of a field in a multi-line
// editor prefilled with the original value. Empty answers are rejected.
func promptResolver(ctx context.Context, fieldKey, oldValue string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Errorf("prompting for %s: %w", fieldKey, err)
	}
	value := oldValue
	if err := promptForm(fieldKey, oldValue, &value).RunWithContext(ctx); err != nil {
		return "", errors.Errorf("prompting for %s: %w", fieldKey, err)
	}
	return strings.TrimSpace(value), nil
}

func promptForm(fieldKey, oldValue string, value *string) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title(fmt.Sprintf("Neue Ersetzung für %s", fieldKey)).
			Description(oldValue).
			Lines(strings.Count(oldValue, "\n") + 2).
			Value(value).
			Validate(requireValue),
	))
}

func requireValue(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value must not be empty")
	}
	return nil
}
