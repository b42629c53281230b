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

package status

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func setupTestContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func TestTracker(t *testing.T) {
	ctx := setupTestContext(t)
	tr := NewTracker()

	tr.StartOperation(ctx, 3)
	tr.TrackFile(ctx, FileInfo{Path: "res/values-de/strings.xml", Status: StatusPatched, Applied: 4, Discovered: 1})
	tr.UpdateProgress(ctx, 1)
	tr.TrackFile(ctx, FileInfo{Path: "res/values-de/arrays.xml", Status: StatusUnchanged})
	tr.UpdateProgress(ctx, 2)
	tr.TrackFile(ctx, FileInfo{Path: "res/values-de/plurals.xml", Status: StatusFailed, Error: errors.New("boom")})
	tr.FinishOperation(ctx)

	files := tr.ListFiles()
	require.Len(t, files, 3)
	assert.Equal(t, "res/values-de/arrays.xml", files[0].Path, "files are ordered by path")
	assert.Equal(t, "res/values-de/strings.xml", files[2].Path)

	info, err := tr.GetFileInfo("res/values-de/strings.xml")
	require.NoError(t, err)
	assert.Equal(t, 4, info.Applied)

	_, err = tr.GetFileInfo("nope.xml")
	assert.Error(t, err)

	assert.Equal(t, 1, tr.Count(StatusPatched))
	assert.Equal(t, 1, tr.Count(StatusFailed))
	assert.Equal(t, 0, tr.Count(StatusMissing))

	tr.TrackFile(ctx, FileInfo{Path: "res/values-de/arrays.xml", Status: StatusPatched, Applied: 1})
	assert.Equal(t, 2, tr.Count(StatusPatched), "tracking again replaces the outcome")
}

func TestFileStatus_String(t *testing.T) {
	tests := []struct {
		status FileStatus
		want   string
	}{
		{StatusPatched, "patched"},
		{StatusUnchanged, "unchanged"},
		{StatusMissing, "missing"},
		{StatusFailed, "failed"},
		{StatusUnknown, "unknown"},
		{FileStatus(42), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestMulti(t *testing.T) {
	ctx := setupTestContext(t)
	a, b := NewTracker(), NewTracker()

	r := Multi(a, nil, b)
	r.StartOperation(ctx, 1)
	r.TrackFile(ctx, FileInfo{Path: "a.xml", Status: StatusPatched, Applied: 1})
	r.UpdateProgress(ctx, 1)
	r.FinishOperation(ctx)

	for _, tr := range []*Tracker{a, b} {
		info, err := tr.GetFileInfo("a.xml")
		require.NoError(t, err)
		assert.Equal(t, StatusPatched, info.Status)
	}
}
