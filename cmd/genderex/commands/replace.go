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


package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/genderex/cmd/genderex/opts"
	"github.com/walteh/genderex/pkg/log"
	"github.com/walteh/genderex/pkg/operation"
	"github.com/walteh/genderex/pkg/replace"
	"github.com/walteh/genderex/pkg/workdir"
	"gitlab.com/tozd/go/errors"
)

// NewReplaceCmd patches the language files of a decompiled app.
func NewReplaceCmd(o *opts.RootOpts) *cobra.Command {
	var submit bool

	cmd := &cobra.Command{
		Use:   "replace <app-dir>",
		Short: "Replace gender markers in a decompiled app",
		Long: `Replace loads the builtin and custom replacement tables and patches the
German language files of a decompiled app in place. It will:
1. Apply every known replacement
2. Ask for a replacement of every new suspicious field (unless non-interactive)
3. Add the credits to the licenses page
4. Save the new replacements to the output folder`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "replace").Logger().WithContext(cmd.Context())
			appDir := args[0]

			tableRepo, err := o.TableRepository(ctx)
			if err != nil {
				// the bundled table is used instead
				zerolog.Ctx(ctx).Warn().Err(err).Msg("remote table unavailable")
			}

			var resolver replace.Resolver
			if !o.Config.NonInteractive {
				resolver = promptResolver
			}

			opArgs := operatorArgs{appDir: appDir, tableRepo: tableRepo, resolver: resolver}
			if submit {
				if opArgs.issueRepo, err = o.IssueRepository(ctx, true); err != nil {
					return err
				}
			}

			op, err := newOperator(ctx, o, opArgs)
			if err != nil {
				return err
			}

			if o.Logger != nil {
				appVersion, err := workdir.AppVersion(ctx, o.Fs, appDir)
				if err != nil {
					return err
				}
				o.Logger.StartRun(ctx, log.RunOperation{AppVersion: appVersion, AppDir: appDir, Tables: o.Config.String()})
			}

			var result *operation.Result
			runner := operation.NewRunner(zerolog.Ctx(ctx), !o.Config.NonInteractive)
			err = runner.Run(ctx, operation.OperationFunc(func(ctx context.Context) error {
				var err error
				result, err = op.Run(ctx)
				return err
			}))
			if err != nil {
				return errors.Errorf("replacing: %w", err)
			}

			if o.Logger != nil {
				o.Logger.Successf("patched Spotify %s (%s)", result.AppVersion, result.VersionString)
				if result.FileErrors != nil {
					o.Logger.Warningf("some files were skipped: %v", result.FileErrors)
				}
			}

			if !submit || result.NewReplacements == "" {
				return nil
			}
			if _, _, err := op.SubmitIssue(ctx, result.Accumulator, result.AppVersion); err != nil {
				return errors.Errorf("submitting new replacements: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&submit, "submit", false, "open an issue with the new replacements")

	return cmd
}
