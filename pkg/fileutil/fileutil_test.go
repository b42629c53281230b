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

package fileutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Run("creates_parents_and_leaves_no_temp", func(t *testing.T) {
		fsys := afero.NewMemMapFs()

		err := WriteFileAtomic(fsys, "out/res/values-de/strings.xml", []byte("hello"))
		require.NoError(t, err, "writing file")

		got, err := afero.ReadFile(fsys, "out/res/values-de/strings.xml")
		require.NoError(t, err, "reading back")
		assert.Equal(t, "hello", string(got))

		exists, err := Exists(fsys, "out/res/values-de/strings.xml.tmp")
		require.NoError(t, err)
		assert.False(t, exists, "temp file should be gone")
	})

	t.Run("overwrites_existing", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, "a.txt", []byte("old"), 0o644))

		require.NoError(t, WriteFileAtomic(fsys, "a.txt", []byte("new")))

		got, err := afero.ReadFile(fsys, "a.txt")
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))
	})

	t.Run("read_only_fs_fails", func(t *testing.T) {
		fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())
		err := WriteFileAtomic(fsys, "a.txt", []byte("new"))
		require.Error(t, err)
	})
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", Checksum([]byte("hello")))
	assert.Equal(t, "2cf24dba", ShortChecksum([]byte("hello")))
	assert.NotEqual(t, Checksum([]byte("a")), Checksum([]byte("b")))
}
