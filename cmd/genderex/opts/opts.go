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


package opts

import (
	"context"
	"os"

	"github.com/spf13/afero"
	"github.com/walteh/genderex/pkg/config"
	"github.com/walteh/genderex/pkg/log"
	"github.com/walteh/genderex/pkg/remote"
	"gitlab.com/tozd/go/errors"

	// registers the github provider
	_ "github.com/walteh/genderex/pkg/remote/github"
)

// 🎛️ RootOpts is shared by every command
type RootOpts struct {
	Fs          afero.Fs
	Config      *config.Config
	Logger      *log.Logger
	UserLogger  *log.UserLogger
	ToolVersion string

	// GetProvider resolves a remote provider, defaults to remote.GetProvider
	GetProvider func(ctx context.Context, name, token string) (remote.Provider, error)
	// Getenv reads the token variable, defaults to os.Getenv
	Getenv func(key string) string
}

// 🏭 New returns options backed by the OS file system
func New(toolVersion string) *RootOpts {
	return &RootOpts{
		Fs:          afero.NewOsFs(),
		Config:      config.Default(),
		ToolVersion: toolVersion,
		GetProvider: remote.GetProvider,
		Getenv:      os.Getenv,
	}
}

// Token returns the API token from the configured environment variable.
func (o *RootOpts) Token() string {
	if o.Getenv == nil {
		return ""
	}
	return o.Getenv(o.Config.Issues.TokenEnv)
}

// 🔌 Repository opens a remote repository
func (o *RootOpts) Repository(ctx context.Context, provider, name string) (remote.Repository, error) {
	get := o.GetProvider
	if get == nil {
		get = remote.GetProvider
	}
	p, err := get(ctx, provider, o.Token())
	if err != nil {
		return nil, errors.Errorf("getting provider: %w", err)
	}
	repo, err := p.GetRepository(ctx, name)
	if err != nil {
		return nil, errors.Errorf("getting repository %s: %w", name, err)
	}
	return repo, nil
}

// TableRepository opens the repository hosting the builtin table, nil when
// downloading is disabled.
func (o *RootOpts) TableRepository(ctx context.Context) (remote.Repository, error) {
	r := o.Config.Tables.Remote
	if r.Disabled {
		return nil, nil
	}
	return o.Repository(ctx, r.Provider, r.Repo)
}

// IssueRepository opens the repository receiving new replacements. Creating
// issues needs a token.
func (o *RootOpts) IssueRepository(ctx context.Context, write bool) (remote.Repository, error) {
	if write && o.Token() == "" {
		return nil, errors.Errorf("set %s to submit issues", o.Config.Issues.TokenEnv)
	}
	return o.Repository(ctx, o.Config.Issues.Provider, o.Config.Issues.Repo)
}
