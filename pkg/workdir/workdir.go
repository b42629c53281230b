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

// Package workdir lays out the GenderEx working directory.
//
//	GenderEx/
//	├── replacements.json   custom replacement table
//	├── output/             patched apps
//	│   └── repl/           new replacements per run
//	└── tmp/                cleared on every run
//	    └── app/            decompiled app (apktool.yml, res/, assets/)
package workdir

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/genderex/pkg/fileutil"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

const dirName = "GenderEx"

// 📁 Workdir holds the paths of a working directory
type Workdir struct {
	fs afero.Fs

	Root         string
	OutputDir    string
	TmpDir       string
	AppDir       string
	CustomTable  string
	ApktoolFile  string
	LicensesFile string
}

// 🏭 New creates the working directory below base and clears its tmp folder
func New(ctx context.Context, fsys afero.Fs, base string) (*Workdir, error) {
	root := filepath.Join(base, dirName)
	tmp := filepath.Join(root, "tmp")
	app := filepath.Join(tmp, "app")

	w := &Workdir{
		fs:           fsys,
		Root:         root,
		OutputDir:    filepath.Join(root, "output"),
		TmpDir:       tmp,
		AppDir:       app,
		CustomTable:  filepath.Join(root, "replacements.json"),
		ApktoolFile:  ApktoolFile(app),
		LicensesFile: LicensesFile(app),
	}

	zerolog.Ctx(ctx).Debug().Str("root", root).Msg("preparing working directory")

	if err := fsys.MkdirAll(w.OutputDir, 0o755); err != nil {
		return nil, errors.Errorf("creating output directory: %w", err)
	}
	if err := w.ClearTmp(); err != nil {
		return nil, err
	}
	return w, nil
}

// Fs returns the file system the working directory lives on.
func (w *Workdir) Fs() afero.Fs { return w.fs }

// ClearTmp removes and recreates the tmp folder.
func (w *Workdir) ClearTmp() error {
	if err := w.fs.RemoveAll(w.TmpDir); err != nil {
		return errors.Errorf("clearing tmp directory: %w", err)
	}
	if err := w.fs.MkdirAll(w.TmpDir, 0o755); err != nil {
		return errors.Errorf("creating tmp directory: %w", err)
	}
	return nil
}

// OutputBasename returns e.g. "8-9-12-genderex-b3c1" for an app version and
// table versions.
func OutputBasename(appVersion, tableVersions string) string {
	return strings.ReplaceAll(appVersion, ".", "-") + "-genderex-" + tableVersions
}

// 📦 OutputAPK returns the path of the patched app, removing a previous file
// with the same name
func (w *Workdir) OutputAPK(appVersion, tableVersions string) (string, error) {
	return w.outputFile(appVersion, tableVersions, "spotify", "apk", "")
}

// 📝 NewReplacementsFile returns the path for the replacements discovered in a
// run, removing a previous file with the same name
func (w *Workdir) NewReplacementsFile(appVersion, tableVersions string) (string, error) {
	return w.outputFile(appVersion, tableVersions, "repl", "json", "repl")
}

func (w *Workdir) outputFile(appVersion, tableVersions, name, ext, folder string) (string, error) {
	dir := w.OutputDir
	if folder != "" {
		dir = filepath.Join(dir, folder)
		if err := w.fs.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Errorf("creating %s: %w", dir, err)
		}
	}

	path := filepath.Join(dir, name+"-"+OutputBasename(appVersion, tableVersions)+"."+ext)
	if err := w.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return "", errors.Errorf("removing previous output %s: %w", path, err)
	}
	return path, nil
}

// ✅ IsProcessed reports whether an app for appVersion is already in the
// output folder, whatever table versions it was built with
func (w *Workdir) IsProcessed(appVersion string) (bool, error) {
	entries, err := afero.ReadDir(w.fs, w.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Errorf("listing output directory: %w", err)
	}

	prefix := "spotify-" + strings.ReplaceAll(appVersion, ".", "-") + "-genderex-"
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			return true, nil
		}
	}
	return false, nil
}

type apktoolMeta struct {
	VersionInfo struct {
		VersionName string `yaml:"versionName"`
	} `yaml:"versionInfo"`
}

// ApktoolFile returns the apktool metadata file of a decompiled app.
func ApktoolFile(appDir string) string { return filepath.Join(appDir, "apktool.yml") }

// LicensesFile returns the third party licenses page of a decompiled app.
func LicensesFile(appDir string) string { return filepath.Join(appDir, "assets", "licenses.xhtml") }

// 🏷️ AppVersion reads the version name of the app decompiled to appDir
func AppVersion(ctx context.Context, fsys afero.Fs, appDir string) (string, error) {
	path := ApktoolFile(appDir)
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}
	version, err := ParseAppVersion(data)
	if err != nil {
		return "", errors.Errorf("parsing %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("version", version).Msg("detected app version")
	return version, nil
}

// ParseAppVersion extracts versionInfo.versionName from apktool.yml content.
func ParseAppVersion(data []byte) (string, error) {
	// apktool writes a class tag ("!!brut.androlib.meta.MetaInfo") that
	// yaml.v3 refuses to decode into a struct
	var lines [][]byte
	for _, l := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimSpace(l), []byte("!!")) {
			continue
		}
		lines = append(lines, l)
	}

	var meta apktoolMeta
	if err := yaml.Unmarshal(bytes.Join(lines, []byte("\n")), &meta); err != nil {
		return "", errors.Errorf("decoding apktool metadata: %w", err)
	}
	if meta.VersionInfo.VersionName == "" {
		return "", errors.New("versionName not found")
	}
	return meta.VersionInfo.VersionName, nil
}

// SaveVersion records the last processed app version.
func (w *Workdir) SaveVersion(appVersion string) error {
	return fileutil.WriteFileAtomic(w.fs, filepath.Join(w.Root, "spotify_version.txt"), []byte(appVersion+"\n"))
}
