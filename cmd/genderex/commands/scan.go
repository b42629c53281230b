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
	"fmt"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/genderex/cmd/genderex/opts"
	"gitlab.com/tozd/go/errors"
)

// NewScanCmd lists suspicious fields without modifying anything.
func NewScanCmd(o *opts.RootOpts) *cobra.Command {
	var failUncovered bool

	cmd := &cobra.Command{
		Use:   "scan <app-dir>",
		Short: "List suspicious fields and whether a table covers them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "scan").Logger().WithContext(cmd.Context())

			tableRepo, err := o.TableRepository(ctx)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("remote table unavailable")
			}

			op, err := newOperator(ctx, o, operatorArgs{appDir: args[0], tableRepo: tableRepo})
			if err != nil {
				return err
			}

			findings, err := op.Scan(ctx)
			if err != nil {
				return errors.Errorf("scanning: %w", err)
			}

			out := cmd.OutOrStdout()
			uncovered := 0
			for _, f := range findings {
				mark := color.New(color.FgGreen).Sprint(f.Table)
				if !f.Covered() {
					uncovered++
					mark = color.New(color.FgRed).Sprint("new")
				}
				fmt.Fprintf(out, "%s|%s\t%s\t%q\n", f.Path, f.FieldKey, mark, f.Value)
			}
			fmt.Fprintf(out, "%d suspicious, %d without replacement\n", len(findings), uncovered)

			if failUncovered && uncovered > 0 {
				return errors.Errorf("%d fields without replacement", uncovered)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failUncovered, "fail-uncovered", false, "exit with an error when a field has no replacement")

	return cmd
}
