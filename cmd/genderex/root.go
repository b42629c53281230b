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


package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/genderex/cmd/genderex/commands"
	"github.com/walteh/genderex/cmd/genderex/opts"
	"github.com/walteh/genderex/pkg/config"
	"github.com/walteh/genderex/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags override values of the configuration file
type rootFlags struct {
	configFile     string
	debug          bool
	workdir        string
	nonInteractive bool
	builtinOnly    bool
	specified      string
	noDownload     bool
}

func newRootCmd(o *opts.RootOpts) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "genderex",
		Short: "Remove gender markers from the German Spotify app",
		Long: `genderex replaces gender markers such as "Künstler*innen" in the language
files of a decompiled Spotify app, using replacement tables that are shared
through issues.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd, flags.debug)

			cfg, err := config.Load(ctx, o.Fs, ".", flags.configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}
			zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Str("location", cfg.Location()).Msg("configuration loaded")

			o.Config = cfg
			o.UserLogger = log.NewUserLogger(ctx)
			o.Logger = log.NewWithLogger(cmd.OutOrStdout(), *zerolog.Ctx(ctx))
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "config file path (default .genderex.{hcl,yaml,yml,json,toml})")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	pf.StringVarP(&flags.workdir, "workdir", "w", "", "directory holding the GenderEx folder")
	pf.BoolVarP(&flags.nonInteractive, "non-interactive", "n", false, "never prompt, keep new suspicious values")
	pf.BoolVar(&flags.builtinOnly, "builtin-only", false, "ignore the custom replacement table")
	pf.StringVar(&flags.specified, "specified-table", "", "use only this replacement table")
	pf.BoolVar(&flags.noDownload, "no-download", false, "use the bundled table instead of downloading it")

	cmd.AddCommand(
		commands.NewReplaceCmd(o),
		commands.NewScanCmd(o),
		commands.NewIssueCmd(o),
		commands.NewTableCmd(o),
		newVersionCmd(),
	)

	return cmd
}

func (f *rootFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	pf := cmd.Flags()
	if pf.Changed("workdir") {
		cfg.Workdir = f.workdir
	}
	if pf.Changed("non-interactive") {
		cfg.NonInteractive = f.nonInteractive
	}
	if pf.Changed("builtin-only") {
		cfg.Tables.BuiltinOnly = f.builtinOnly
	}
	if pf.Changed("specified-table") {
		cfg.Tables.Specified = f.specified
	}
	if pf.Changed("no-download") {
		cfg.Tables.Remote.Disabled = f.noDownload
	}
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating flags: %w", err)
	}
	return nil
}

// setupLogging configures zerolog based on flags and stores the logger in
// the command context
func setupLogging(cmd *cobra.Command, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	base := zerolog.Ctx(cmd.Context())
	if base.GetLevel() == zerolog.Disabled {
		l := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })).
			With().Timestamp().Logger()
		base = &l
	}
	logger := base.Level(level)
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)
	return ctx
}
