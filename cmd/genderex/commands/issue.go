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
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/genderex/cmd/genderex/opts"
	"github.com/walteh/genderex/pkg/issue"
	"github.com/walteh/genderex/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewIssueCmd groups the issue round trip commands.
func NewIssueCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Exchange new replacements through issues",
		Long: `New replacements found by a run are rendered into an issue. Somebody answers
with the edited VALUES block and the answer is merged into a replacement table.`,
	}
	cmd.AddCommand(
		newIssueRenderCmd(o),
		newIssueParseCmd(o),
		newIssueSubmitCmd(o),
		newIssueApplyCmd(o),
	)
	return cmd
}

func newIssueRenderCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "render <new-replacements>",
		Short: "Print the issue for new replacements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, tag, err := operation.LoadNewReplacements(cmd.Context(), o.Fs, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n\n%s\n", issue.Title(tag), issue.Render(t, tag))
			return nil
		},
	}
}

func newIssueParseCmd(o *opts.RootOpts) *cobra.Command {
	var tablePath string

	cmd := &cobra.Command{
		Use:   "parse <issue-body> <answer>",
		Short: "Merge an answer saved to a file into a replacement table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := afero.ReadFile(o.Fs, args[0])
			if err != nil {
				return errors.Errorf("reading issue body: %w", err)
			}
			answer, err := afero.ReadFile(o.Fs, args[1])
			if err != nil {
				return errors.Errorf("reading answer: %w", err)
			}

			changed, count, err := operation.ApplyAnswer(cmd.Context(), o.Fs, tablePath, string(body), string(answer))
			if err != nil {
				return errors.Errorf("parsing answer: %w", err)
			}
			printApplied(cmd, tablePath, changed, count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tablePath, "table", "t", "replacements.json", "replacement table to update")

	return cmd
}

func newIssueSubmitCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <new-replacements>",
		Short: "Open an issue for new replacements unless one is already open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "issue submit").Logger().WithContext(cmd.Context())

			t, tag, err := operation.LoadNewReplacements(ctx, o.Fs, args[0])
			if err != nil {
				return err
			}
			repo, err := o.IssueRepository(ctx, true)
			if err != nil {
				return err
			}
			op, err := newOperator(ctx, o, operatorArgs{issueRepo: repo})
			if err != nil {
				return err
			}

			is, created, err := op.SubmitIssue(ctx, t, tag)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "issue #%d is already open\n", is.Number)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "opened issue #%d %s\n", is.Number, is.URL)
			return nil
		},
	}
}

func newIssueApplyCmd(o *opts.RootOpts) *cobra.Command {
	var tablePath string

	cmd := &cobra.Command{
		Use:   "apply <issue-number> <comment-id>",
		Short: "Merge an issue comment into a replacement table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "issue apply").Logger().WithContext(cmd.Context())

			number, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Errorf("invalid issue number %q: %w", args[0], err)
			}
			commentID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return errors.Errorf("invalid comment id %q: %w", args[1], err)
			}

			repo, err := o.IssueRepository(ctx, false)
			if err != nil {
				return err
			}
			op, err := newOperator(ctx, o, operatorArgs{issueRepo: repo})
			if err != nil {
				return err
			}

			changed, count, err := op.ApplyIssue(ctx, number, commentID, tablePath)
			if err != nil {
				return err
			}
			printApplied(cmd, tablePath, changed, count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tablePath, "table", "t", "replacements.json", "replacement table to update")

	return cmd
}

func printApplied(cmd *cobra.Command, path string, changed bool, count int) {
	if !changed {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date (%d entries)\n", path, count)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated %s with %d entries\n", path, count)
}
