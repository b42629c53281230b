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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"github.com/walteh/genderex/cmd/genderex/opts"
	"github.com/walteh/genderex/pkg/fileutil"
	"github.com/walteh/genderex/pkg/table"
	"gitlab.com/tozd/go/errors"
)

// NewTableCmd groups commands inspecting replacement tables.
func NewTableCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Inspect replacement tables",
	}
	cmd.AddCommand(newTableStatsCmd(o), newTableSchemaCmd())
	return cmd
}

func newTableStatsCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <table>",
		Short: "Print version, compatibility and counters of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ok, err := fileutil.Exists(o.Fs, path)
			if err != nil {
				return errors.Errorf("checking %s: %w", path, err)
			}
			if !ok {
				return errors.Errorf("replacement table %s does not exist", path)
			}

			t, err := table.Load(cmd.Context(), o.Fs, path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version:      %d\n", t.Version)
			fmt.Fprintf(out, "compatible:   %s\n", strings.Join(t.CompatibleVersions, ", "))
			fmt.Fprintf(out, "files:        %d\n", len(t.Sets()))
			fmt.Fprintf(out, "replacements: %d\n", t.CountReplacements())
			fmt.Fprintf(out, "suspicious:   %d\n", t.CountSuspicious())
			fmt.Fprintf(out, "hash:         %s\n", t.Hash())
			return nil
		},
	}
}

func newTableSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the table file format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := jsonschema.Reflector{}
			schema := r.Reflect(&table.Document{})
			schema.Title = "GenderEx replacement table"
			schema.ID = ""

			data, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return errors.Errorf("encoding schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
