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

package github

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/genderex/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) DownloadContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (io.ReadCloser, *github.Response, error) {
	args := m.Called(ctx, owner, repo, path, opts)
	rc, _ := args.Get(0).(io.ReadCloser)
	resp, _ := args.Get(1).(*github.Response)
	return rc, resp, args.Error(2)
}

func (m *mockClient) SearchIssues(ctx context.Context, query string, opts *github.SearchOptions) (*github.IssuesSearchResult, *github.Response, error) {
	args := m.Called(ctx, query, opts)
	res, _ := args.Get(0).(*github.IssuesSearchResult)
	resp, _ := args.Get(1).(*github.Response)
	return res, resp, args.Error(2)
}

func (m *mockClient) CreateIssue(ctx context.Context, owner, repo string, req *github.IssueRequest) (*github.Issue, *github.Response, error) {
	args := m.Called(ctx, owner, repo, req)
	is, _ := args.Get(0).(*github.Issue)
	resp, _ := args.Get(1).(*github.Response)
	return is, resp, args.Error(2)
}

func (m *mockClient) GetIssue(ctx context.Context, owner, repo string, number int) (*github.Issue, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number)
	is, _ := args.Get(0).(*github.Issue)
	resp, _ := args.Get(1).(*github.Response)
	return is, resp, args.Error(2)
}

func (m *mockClient) GetIssueComment(ctx context.Context, owner, repo string, id int64) (*github.IssueComment, *github.Response, error) {
	args := m.Called(ctx, owner, repo, id)
	c, _ := args.Get(0).(*github.IssueComment)
	resp, _ := args.Get(1).(*github.Response)
	return c, resp, args.Error(2)
}

func setupRepo(t *testing.T) (context.Context, *mockClient, remote.Repository) {
	t.Helper()
	ctx := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger().WithContext(context.Background())

	client := &mockClient{}
	t.Cleanup(func() { client.AssertExpectations(t) })

	repo, err := NewProviderWithClient(client).GetRepository(ctx, "Theta-Dev/Spotify-Gender-Ex")
	require.NoError(t, err)
	return ctx, client, repo
}

func statusResponse(code int) *github.Response {
	return &github.Response{Response: &http.Response{StatusCode: code}}
}

func TestProvider(t *testing.T) {
	p := NewProvider("")
	assert.Equal(t, "github", p.Name())

	repo, err := p.GetRepository(context.Background(), " Theta-Dev / Spotify-Gender-Ex ")
	require.NoError(t, err)
	assert.Equal(t, "Theta-Dev/Spotify-Gender-Ex", repo.Name())

	_, err = p.GetRepository(context.Background(), "nope")
	require.Error(t, err)

	registered, err := remote.GetProvider(context.Background(), "github", "token")
	require.NoError(t, err)
	assert.Equal(t, "github", registered.Name())
}

func TestRepository_GetFile(t *testing.T) {
	t.Run("default_branch", func(t *testing.T) {
		ctx, client, repo := setupRepo(t)
		client.On("DownloadContents", mock.Anything, "Theta-Dev", "Spotify-Gender-Ex", "res/replacements.json", (*github.RepositoryContentGetOptions)(nil)).
			Return(io.NopCloser(strings.NewReader(`{"version": 3}`)), statusResponse(http.StatusOK), nil)

		data, err := repo.GetFile(ctx, "", "res/replacements.json")
		require.NoError(t, err)
		assert.Equal(t, `{"version": 3}`, string(data))
	})

	t.Run("ref", func(t *testing.T) {
		ctx, client, repo := setupRepo(t)
		client.On("DownloadContents", mock.Anything, "Theta-Dev", "Spotify-Gender-Ex", "res/replacements.json", &github.RepositoryContentGetOptions{Ref: "v2"}).
			Return(io.NopCloser(strings.NewReader("{}")), statusResponse(http.StatusOK), nil)

		_, err := repo.GetFile(ctx, "v2", "res/replacements.json")
		require.NoError(t, err)
	})

	t.Run("not_found", func(t *testing.T) {
		ctx, client, repo := setupRepo(t)
		client.On("DownloadContents", mock.Anything, "Theta-Dev", "Spotify-Gender-Ex", "missing.json", mock.Anything).
			Return(nil, statusResponse(http.StatusNotFound), errors.New("404"))

		_, err := repo.GetFile(ctx, "", "missing.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("rate_limit", func(t *testing.T) {
		ctx, client, repo := setupRepo(t)
		client.On("DownloadContents", mock.Anything, "Theta-Dev", "Spotify-Gender-Ex", "res/replacements.json", mock.Anything).
			Return(nil, statusResponse(http.StatusForbidden), &github.RateLimitError{Message: "slow down"})

		_, err := repo.GetFile(ctx, "", "res/replacements.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate limit exceeded")
	})
}

func TestRepository_FindOpenIssue(t *testing.T) {
	title := "Neue Ersetzungsregeln (Spotify 8.9.12)"
	query := `repo:Theta-Dev/Spotify-Gender-Ex is:issue is:open in:title "Neue Ersetzungsregeln (Spotify 8.9.12)"`

	t.Run("exact_match", func(t *testing.T) {
		ctx, client, repo := setupRepo(t)
		client.On("SearchIssues", mock.Anything, query, (*github.SearchOptions)(nil)).Return(&github.IssuesSearchResult{
			Issues: []*github.Issue{
				{Number: github.Int(3), Title: github.String("Neue Ersetzungsregeln (Spotify 8.9.12.1)")},
				{Number: github.Int(4), Title: github.String(title), HTMLURL: github.String("https://github.com/x/4")},
			},
		}, statusResponse(http.StatusOK), nil)

		is, err := repo.FindOpenIssue(ctx, title)
		require.NoError(t, err)
		require.NotNil(t, is)
		assert.Equal(t, 4, is.Number)
		assert.Equal(t, "https://github.com/x/4", is.URL)
	})

	t.Run("none", func(t *testing.T) {
		ctx, client, repo := setupRepo(t)
		client.On("SearchIssues", mock.Anything, query, (*github.SearchOptions)(nil)).
			Return(&github.IssuesSearchResult{}, statusResponse(http.StatusOK), nil)

		is, err := repo.FindOpenIssue(ctx, title)
		require.NoError(t, err)
		assert.Nil(t, is)
	})
}

func TestRepository_Issues(t *testing.T) {
	ctx, client, repo := setupRepo(t)

	client.On("CreateIssue", mock.Anything, "Theta-Dev", "Spotify-Gender-Ex", &github.IssueRequest{
		Title: github.String("title"),
		Body:  github.String("body"),
	}).Return(&github.Issue{Number: github.Int(7), Title: github.String("title"), Body: github.String("body")}, statusResponse(http.StatusCreated), nil)
	client.On("GetIssue", mock.Anything, "Theta-Dev", "Spotify-Gender-Ex", 7).
		Return(&github.Issue{Number: github.Int(7), Body: github.String("body")}, statusResponse(http.StatusOK), nil)
	client.On("GetIssueComment", mock.Anything, "Theta-Dev", "Spotify-Gender-Ex", int64(99)).
		Return(&github.IssueComment{Body: github.String("[BEGIN VALUES]\nx\n[END VALUES]")}, statusResponse(http.StatusOK), nil)

	created, err := repo.CreateIssue(ctx, "title", "body")
	require.NoError(t, err)
	assert.Equal(t, &remote.Issue{Number: 7, Title: "title", Body: "body"}, created)

	got, err := repo.GetIssue(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "body", got.Body)

	body, err := repo.GetCommentBody(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, "[BEGIN VALUES]\nx\n[END VALUES]", body)
}
