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

// Package config loads the tool configuration. The format is picked by file
// extension: .json, .yaml/.yml, .hcl or .toml.
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/genderex/pkg/fileutil"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultProvider   = "github"
	DefaultRepo       = "Theta-Dev/Spotify-Gender-Ex"
	DefaultRemoteRef  = "master"
	DefaultRemotePath = "spotify_gender_ex/res/replacements.json"
	DefaultTokenEnv   = "GITHUB_TOKEN"
	DefaultInclude    = "res/values-de/*.xml"
)

// DefaultFiles are looked up in order when no config path is given.
var DefaultFiles = []string{".genderex.hcl", ".genderex.yaml", ".genderex.yml", ".genderex.json", ".genderex.toml"}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

func hasExt(filename string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// 🌐 RemoteArgs locates the builtin table in a hosted repository
type RemoteArgs struct {
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled,omitempty"`
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty" toml:"provider,omitempty"`
	Repo     string `json:"repo,omitempty" yaml:"repo,omitempty" toml:"repo,omitempty"`
	Ref      string `json:"ref,omitempty" yaml:"ref,omitempty" toml:"ref,omitempty"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
}

// 📚 TablesArgs selects the replacement tables
type TablesArgs struct {
	// Specified replaces every other table when set
	Specified string `json:"specified,omitempty" yaml:"specified,omitempty" toml:"specified,omitempty"`
	// Custom overrides the working directory's custom table
	Custom string `json:"custom,omitempty" yaml:"custom,omitempty" toml:"custom,omitempty"`
	// BuiltinOnly skips the custom table
	BuiltinOnly bool       `json:"builtin_only,omitempty" yaml:"builtin_only,omitempty" toml:"builtin_only,omitempty"`
	Remote      RemoteArgs `json:"remote,omitempty" yaml:"remote,omitempty" toml:"remote,omitempty"`
}

// 🎫 IssuesArgs configures where new replacements are submitted
type IssuesArgs struct {
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty" toml:"provider,omitempty"`
	Repo     string `json:"repo,omitempty" yaml:"repo,omitempty" toml:"repo,omitempty"`
	TokenEnv string `json:"token_env,omitempty" yaml:"token_env,omitempty" toml:"token_env,omitempty"`
}

// 🔍 ScanArgs selects the language files and fields to look at
type ScanArgs struct {
	Include     []string `json:"include,omitempty" yaml:"include,omitempty" toml:"include,omitempty"`
	SkipXPath   []string `json:"skip_xpath,omitempty" yaml:"skip_xpath,omitempty" toml:"skip_xpath,omitempty"`
	Concurrency int      `json:"concurrency,omitempty" yaml:"concurrency,omitempty" toml:"concurrency,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Workdir        string     `json:"workdir,omitempty" yaml:"workdir,omitempty" toml:"workdir,omitempty"`
	NonInteractive bool       `json:"non_interactive,omitempty" yaml:"non_interactive,omitempty" toml:"non_interactive,omitempty"`
	Tables         TablesArgs `json:"tables,omitempty" yaml:"tables,omitempty" toml:"tables,omitempty"`
	Issues         IssuesArgs `json:"issues,omitempty" yaml:"issues,omitempty" toml:"issues,omitempty"`
	Scan           ScanArgs   `json:"scan,omitempty" yaml:"scan,omitempty" toml:"scan,omitempty"`

	location string
}

// 🏭 Default returns a validated config with every default applied
func Default() *Config {
	cfg := &Config{}
	// defaults never fail validation
	_ = cfg.Validate()
	return cfg
}

// 🎯 Load loads the configuration from path. An empty path tries the
// DefaultFiles in dir; when none exists the defaults apply.
func Load(ctx context.Context, fsys afero.Fs, dir, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	if path == "" {
		for _, name := range DefaultFiles {
			candidate := filepath.Join(dir, name)
			ok, err := fileutil.Exists(fsys, candidate)
			if err != nil {
				return nil, errors.Errorf("checking %s: %w", candidate, err)
			}
			if ok {
				path = candidate
				break
			}
		}
		if path == "" {
			logger.Debug().Str("dir", dir).Msg("no configuration file, using defaults")
			return Default(), nil
		}
	}

	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	cfg.location = path

	return cfg, nil
}

// Location returns the file the config was loaded from, empty for defaults.
func (cfg *Config) Location() string { return cfg.location }

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.Workdir == "" {
		cfg.Workdir = "."
	}
	cfg.Workdir = filepath.Clean(cfg.Workdir)

	if cfg.Tables.Specified != "" && cfg.Tables.BuiltinOnly {
		return errors.Errorf("tables.specified and tables.builtin_only are mutually exclusive")
	}

	r := &cfg.Tables.Remote
	if r.Provider == "" {
		r.Provider = DefaultProvider
	}
	if r.Repo == "" {
		r.Repo = DefaultRepo
	}
	if r.Ref == "" {
		r.Ref = DefaultRemoteRef
	}
	if r.Path == "" {
		r.Path = DefaultRemotePath
	}

	if cfg.Issues.Provider == "" {
		cfg.Issues.Provider = DefaultProvider
	}
	if cfg.Issues.Repo == "" {
		cfg.Issues.Repo = DefaultRepo
	}
	if cfg.Issues.TokenEnv == "" {
		cfg.Issues.TokenEnv = DefaultTokenEnv
	}

	if len(cfg.Scan.Include) == 0 {
		cfg.Scan.Include = []string{DefaultInclude}
	}
	if cfg.Scan.Concurrency < 0 {
		return errors.Errorf("scan.concurrency must not be negative")
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	tables := "builtin+custom"
	switch {
	case cfg.Tables.Specified != "":
		tables = cfg.Tables.Specified
	case cfg.Tables.BuiltinOnly:
		tables = "builtin"
	}
	return fmt.Sprintf("workdir=%s tables=%s interactive=%t", cfg.Workdir, tables, !cfg.NonInteractive)
}
