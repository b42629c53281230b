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

// Package operation wires replacement tables, the replacement manager, the
// credits page and issue submission into the steps of a patch run.
package operation

import (
	"context"
	"time"

	"github.com/walteh/genderex/pkg/config"
	"github.com/walteh/genderex/pkg/log"
	"github.com/walteh/genderex/pkg/remote"
	"github.com/walteh/genderex/pkg/replace"
	"github.com/walteh/genderex/pkg/status"
	"github.com/walteh/genderex/pkg/table"
	"github.com/walteh/genderex/pkg/workdir"
	"gitlab.com/tozd/go/errors"
)

// Table names, in priority order.
const (
	TableSpecified = "specified"
	TableBuiltin   = "builtin"
	TableCustom    = "custom"
)

// 🎯 Operator runs the steps of a patch run
type Operator interface {
	// Run patches the decompiled app in the working directory
	Run(ctx context.Context) (*Result, error)
	// Scan reports suspicious fields without modifying anything
	Scan(ctx context.Context) ([]replace.Finding, error)
	// NewReplacements loads the new replacements saved by an earlier run
	NewReplacements(ctx context.Context, path string) (*table.Table, string, error)
	// SubmitIssue opens an issue for new replacements unless one is already open
	SubmitIssue(ctx context.Context, replacements *table.Table, appVersion string) (*remote.Issue, bool, error)
	// ApplyIssue merges the values edited in an issue comment into the table at path
	ApplyIssue(ctx context.Context, number int, commentID int64, path string) (bool, int, error)
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Config is the validated tool configuration
	Config *config.Config
	// Workdir is the prepared working directory
	Workdir *workdir.Workdir
	// AppDir is the decompiled app, defaults to the working directory's app folder
	AppDir string
	// Resolver asks for missing replacements, defaults to replace.KeepOriginal
	Resolver replace.Resolver
	// TableRepo hosts the builtin table, nil uses the bundled table
	TableRepo remote.Repository
	// IssueRepo receives new replacements, required by the issue steps only
	IssueRepo remote.Repository
	// Reporter receives per-file outcomes, optional
	Reporter status.Reporter
	// UserLogger prints stage feedback, optional
	UserLogger *log.UserLogger
	// ToolVersion is shown in the credits
	ToolVersion string
	// Now defaults to time.Now
	Now func() time.Time
}

// 📊 Result describes a finished run
type Result struct {
	AppVersion      string
	TableVersions   string // e.g. "b3c1"
	VersionString   string // e.g. "b3c1_2N"
	Compatible      bool
	Applied         int
	Discovered      int
	Files           []status.FileInfo
	FileErrors      error  // joined per-file failures, the run went on
	CreditsAdded    bool
	NewReplacements string // path of the saved new replacements, empty when none
	CustomUpdated   bool
	Accumulator     *table.Table
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Workdir == nil {
		return nil, errors.Errorf("workdir is required")
	}
	if opts.Resolver == nil {
		opts.Resolver = replace.KeepOriginal
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.AppDir == "" {
		opts.AppDir = opts.Workdir.AppDir
	}
	if opts.ToolVersion == "" {
		opts.ToolVersion = "dev"
	}
	return &operator{opts: opts}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	opts Options
}

func (o *operator) interactive() bool {
	return !o.opts.Config.NonInteractive
}
