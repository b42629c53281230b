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

// Package remote defines the hosted-repository collaborators: downloading a
// replacement table and exchanging new replacements through issues.
package remote

import (
	"context"
	"sort"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏭 Factory creates a provider; token may be empty for anonymous access
type Factory func(ctx context.Context, token string) (Provider, error)

var registry = map[string]Factory{}

// RegisterProvider makes a provider available under name.
func RegisterProvider(name string, factory Factory) {
	registry[name] = factory
}

// GetProvider creates the provider registered under name.
func GetProvider(ctx context.Context, name, token string) (Provider, error) {
	factory, ok := registry[name]
	if !ok {
		options := []string{}
		for k := range registry {
			options = append(options, k)
		}
		sort.Strings(options)
		return nil, errors.Errorf("provider %s not found, options: %s", name, strings.Join(options, ", "))
	}
	return factory(ctx, token)
}

// Provider is the primary interface for interacting with remote repository providers (e.g. GitHub)
type Provider interface {
	// Name returns the name of the provider (e.g. "github")
	Name() string
	// GetRepository returns a Repository for "owner/repo"
	GetRepository(ctx context.Context, name string) (Repository, error)
}

// Repository is a hosted repository carrying replacement tables and issues
type Repository interface {
	// Name returns the name of the repository (e.g. "owner/repo")
	Name() string
	// GetFile downloads the file at path; an empty ref means the default branch
	GetFile(ctx context.Context, ref, path string) ([]byte, error)
	// FindOpenIssue returns the open issue titled exactly title, or nil
	FindOpenIssue(ctx context.Context, title string) (*Issue, error)
	// CreateIssue opens a new issue
	CreateIssue(ctx context.Context, title, body string) (*Issue, error)
	// GetIssue fetches an issue by number
	GetIssue(ctx context.Context, number int) (*Issue, error)
	// GetCommentBody fetches the body of an issue comment
	GetCommentBody(ctx context.Context, id int64) (string, error)
}

// 🎫 Issue is a hosted issue
type Issue struct {
	Number int
	Title  string
	Body   string
	URL    string
}

// SplitName splits "owner/repo" into its trimmed parts.
func SplitName(name string) (owner, repo string, err error) {
	if name == "" {
		return "", "", errors.Errorf("empty repository name")
	}

	parts := strings.Split(name, "/")
	if len(parts) != 2 {
		return "", "", errors.Errorf("invalid repository name: %s", name)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])
	if owner == "" || repo == "" {
		return "", "", errors.Errorf("invalid repository name: %s", name)
	}
	return owner, repo, nil
}
