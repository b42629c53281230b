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

// Package github implements the remote collaborators on top of the GitHub API.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/genderex/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

// GitHubClient defines the interface for GitHub API operations we need
type GitHubClient interface {
	DownloadContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (io.ReadCloser, *github.Response, error)
	SearchIssues(ctx context.Context, query string, opts *github.SearchOptions) (*github.IssuesSearchResult, *github.Response, error)
	CreateIssue(ctx context.Context, owner, repo string, req *github.IssueRequest) (*github.Issue, *github.Response, error)
	GetIssue(ctx context.Context, owner, repo string, number int) (*github.Issue, *github.Response, error)
	GetIssueComment(ctx context.Context, owner, repo string, id int64) (*github.IssueComment, *github.Response, error)
}

func init() {
	remote.RegisterProvider("github", func(_ context.Context, token string) (remote.Provider, error) {
		return NewProvider(token), nil
	})
}

// Provider implements the remote.Provider interface for GitHub
type Provider struct {
	client GitHubClient
}

// NewProvider creates a new GitHub provider, authenticated when token is set
func NewProvider(token string) *Provider {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &Provider{
		client: &githubClientWrapper{client: client},
	}
}

// NewProviderWithClient creates a provider on top of an existing client
func NewProviderWithClient(client GitHubClient) *Provider {
	return &Provider{client: client}
}

// githubClientWrapper wraps the GitHub client to implement our interface
type githubClientWrapper struct {
	client *github.Client
}

func (w *githubClientWrapper) DownloadContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (io.ReadCloser, *github.Response, error) {
	return w.client.Repositories.DownloadContents(ctx, owner, repo, path, opts)
}

func (w *githubClientWrapper) SearchIssues(ctx context.Context, query string, opts *github.SearchOptions) (*github.IssuesSearchResult, *github.Response, error) {
	return w.client.Search.Issues(ctx, query, opts)
}

func (w *githubClientWrapper) CreateIssue(ctx context.Context, owner, repo string, req *github.IssueRequest) (*github.Issue, *github.Response, error) {
	return w.client.Issues.Create(ctx, owner, repo, req)
}

func (w *githubClientWrapper) GetIssue(ctx context.Context, owner, repo string, number int) (*github.Issue, *github.Response, error) {
	return w.client.Issues.Get(ctx, owner, repo, number)
}

func (w *githubClientWrapper) GetIssueComment(ctx context.Context, owner, repo string, id int64) (*github.IssueComment, *github.Response, error) {
	return w.client.Issues.GetComment(ctx, owner, repo, id)
}

// Name returns the name of the provider
func (p *Provider) Name() string {
	return "github"
}

// GetRepository returns a Repository for "owner/repo"
func (p *Provider) GetRepository(ctx context.Context, name string) (remote.Repository, error) {
	zerolog.Ctx(ctx).Debug().Str("name", name).Msg("getting repository")

	owner, repo, err := remote.SplitName(name)
	if err != nil {
		return nil, err
	}
	return &Repository{provider: p, owner: owner, repo: repo}, nil
}

// Repository implements the remote.Repository interface for GitHub
type Repository struct {
	provider *Provider
	owner    string
	repo     string
}

// Name returns the name of the repository
func (r *Repository) Name() string {
	return fmt.Sprintf("%s/%s", r.owner, r.repo)
}

// GetFile downloads a file from the repository
func (r *Repository) GetFile(ctx context.Context, ref, path string) ([]byte, error) {
	zerolog.Ctx(ctx).Debug().Str("repo", r.Name()).Str("ref", ref).Str("path", path).Msg("downloading file")

	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}

	rc, resp, err := r.provider.client.DownloadContents(ctx, r.owner, r.repo, path, opts)
	if err != nil {
		return nil, r.apiError(ctx, resp, err, "downloading %s", path)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// FindOpenIssue searches the open issues for an exact title match
func (r *Repository) FindOpenIssue(ctx context.Context, title string) (*remote.Issue, error) {
	query := fmt.Sprintf("repo:%s is:issue is:open in:title %q", r.Name(), title)
	zerolog.Ctx(ctx).Debug().Str("query", query).Msg("searching issues")

	result, resp, err := r.provider.client.SearchIssues(ctx, query, nil)
	if err != nil {
		return nil, r.apiError(ctx, resp, err, "searching issues")
	}

	// search matches words, not the whole title
	for _, is := range result.Issues {
		if is.GetTitle() == title {
			return convertIssue(is), nil
		}
	}
	return nil, nil
}

// CreateIssue opens a new issue
func (r *Repository) CreateIssue(ctx context.Context, title, body string) (*remote.Issue, error) {
	zerolog.Ctx(ctx).Debug().Str("repo", r.Name()).Str("title", title).Msg("creating issue")

	is, resp, err := r.provider.client.CreateIssue(ctx, r.owner, r.repo, &github.IssueRequest{
		Title: github.String(title),
		Body:  github.String(body),
	})
	if err != nil {
		return nil, r.apiError(ctx, resp, err, "creating issue")
	}
	return convertIssue(is), nil
}

// GetIssue fetches an issue by number
func (r *Repository) GetIssue(ctx context.Context, number int) (*remote.Issue, error) {
	is, resp, err := r.provider.client.GetIssue(ctx, r.owner, r.repo, number)
	if err != nil {
		return nil, r.apiError(ctx, resp, err, "getting issue #%d", number)
	}
	return convertIssue(is), nil
}

// GetCommentBody fetches the body of an issue comment
func (r *Repository) GetCommentBody(ctx context.Context, id int64) (string, error) {
	c, resp, err := r.provider.client.GetIssueComment(ctx, r.owner, r.repo, id)
	if err != nil {
		return "", r.apiError(ctx, resp, err, "getting comment %d", id)
	}
	return c.GetBody(), nil
}

func (r *Repository) apiError(ctx context.Context, resp *github.Response, err error, format string, args ...any) error {
	what := fmt.Sprintf(format, args...)
	if ctx.Err() != nil {
		return errors.Errorf("context error: %w", ctx.Err())
	}
	var rle *github.RateLimitError
	if resp != nil && resp.StatusCode == http.StatusForbidden && errors.As(err, &rle) {
		return errors.Errorf("rate limit exceeded: %w", err)
	}
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return errors.Errorf("%s in %s: not found: %w", what, r.Name(), err)
	}
	return errors.Errorf("%s in %s: %w", what, r.Name(), err)
}

func convertIssue(is *github.Issue) *remote.Issue {
	return &remote.Issue{
		Number: is.GetNumber(),
		Title:  is.GetTitle(),
		Body:   is.GetBody(),
		URL:    is.GetHTMLURL(),
	}
}
