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

package config_test

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/walteh/genderex/pkg/config"
)

func ExampleLoad() {
	fsys := afero.NewMemMapFs()
	_ = afero.WriteFile(fsys, "/repo/.genderex.hcl", []byte(`
workdir = "/data"

tables {
  builtin_only = true
}
`), 0o644)

	cfg, err := config.Load(context.Background(), fsys, "/repo", "")
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(cfg)
	fmt.Println(cfg.Tables.Remote.Repo)

	// Output:
	// workdir=/data tables=builtin interactive=true
	// Theta-Dev/Spotify-Gender-Ex
}
