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

package operation

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestRunner(t *testing.T) {
	logger := zerolog.New(zerolog.TestWriter{T: t})

	tests := []struct {
		name    string
		async   bool
		op      OperationFunc
		wantErr string
	}{
		{
			name:  "sync_success",
			async: false,
			op:    func(context.Context) error { return nil },
		},
		{
			name:    "sync_error",
			async:   false,
			op:      func(context.Context) error { return errors.New("boom") },
			wantErr: "boom",
		},
		{
			name:  "async_success",
			async: true,
			op:    func(context.Context) error { return nil },
		},
		{
			name:    "async_error",
			async:   true,
			op:      func(context.Context) error { return errors.New("boom") },
			wantErr: "executing operation: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestContext(t)
			err := NewRunner(&logger, tt.async).Run(ctx, tt.op)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRunner_AsyncCancel(t *testing.T) {
	logger := zerolog.New(zerolog.TestWriter{T: t})
	ctx, cancel := context.WithCancel(setupTestContext(t))

	// blocks like a prompt waiting for input
	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	op := OperationFunc(func(context.Context) error {
		close(started)
		<-release
		return nil
	})

	go func() {
		<-started
		cancel()
	}()

	err := NewRunner(&logger, true).Run(ctx, op)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
