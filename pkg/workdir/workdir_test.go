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

package workdir

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apktoolYML = `!!brut.androlib.meta.MetaInfo
apkFileName: app.apk
compressionType: false
sdkInfo:
  minSdkVersion: '24'
  targetSdkVersion: '33'
versionInfo:
  versionCode: '115500734'
  versionName: 8.9.12.345
`

func setupTestContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func TestNew(t *testing.T) {
	ctx := setupTestContext(t)
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/work/GenderEx/tmp/app/leftover.txt", []byte("x"), 0o644))

	w, err := New(ctx, fsys, "/work")
	require.NoError(t, err)

	assert.Equal(t, "/work/GenderEx", w.Root)
	assert.Equal(t, "/work/GenderEx/replacements.json", w.CustomTable)
	assert.Equal(t, "/work/GenderEx/tmp/app/apktool.yml", w.ApktoolFile)
	assert.Equal(t, "/work/GenderEx/tmp/app/assets/licenses.xhtml", w.LicensesFile)

	isDir, err := afero.IsDir(fsys, w.OutputDir)
	require.NoError(t, err)
	assert.True(t, isDir, "output directory is created")

	exists, err := afero.Exists(fsys, "/work/GenderEx/tmp/app/leftover.txt")
	require.NoError(t, err)
	assert.False(t, exists, "tmp is cleared")
}

func TestOutputFiles(t *testing.T) {
	ctx := setupTestContext(t)
	fsys := afero.NewMemMapFs()
	w, err := New(ctx, fsys, "/work")
	require.NoError(t, err)

	assert.Equal(t, "8-9-12-genderex-b3c1", OutputBasename("8.9.12", "b3c1"))

	apk, err := w.OutputAPK("8.9.12", "b3c1")
	require.NoError(t, err)
	assert.Equal(t, "/work/GenderEx/output/spotify-8-9-12-genderex-b3c1.apk", apk)

	repl, err := w.NewReplacementsFile("8.9.12", "b3c1_2N")
	require.NoError(t, err)
	assert.Equal(t, "/work/GenderEx/output/repl/repl-8-9-12-genderex-b3c1_2N.json", repl)

	processed, err := w.IsProcessed("8.9.12")
	require.NoError(t, err)
	assert.False(t, processed)

	require.NoError(t, afero.WriteFile(fsys, apk, []byte("apk"), 0o644))
	processed, err = w.IsProcessed("8.9.12")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = w.IsProcessed("8.9.1")
	require.NoError(t, err)
	assert.False(t, processed, "version prefixes do not match")

	again, err := w.OutputAPK("8.9.12", "b3c1")
	require.NoError(t, err)
	exists, err := afero.Exists(fsys, again)
	require.NoError(t, err)
	assert.False(t, exists, "previous output is removed")
}

func TestAppVersion(t *testing.T) {
	ctx := setupTestContext(t)
	fsys := afero.NewMemMapFs()
	w, err := New(ctx, fsys, "/work")
	require.NoError(t, err)

	_, err = AppVersion(ctx, fsys, w.AppDir)
	assert.Error(t, err, "missing apktool.yml")

	require.NoError(t, afero.WriteFile(fsys, w.ApktoolFile, []byte(apktoolYML), 0o644))
	version, err := AppVersion(ctx, fsys, w.AppDir)
	require.NoError(t, err)
	assert.Equal(t, "8.9.12.345", version)

	_, err = ParseAppVersion([]byte("apkFileName: app.apk\n"))
	assert.Error(t, err)

	require.NoError(t, w.SaveVersion(version))
	data, err := afero.ReadFile(fsys, "/work/GenderEx/spotify_version.txt")
	require.NoError(t, err)
	assert.Equal(t, "8.9.12.345\n", string(data))
}
