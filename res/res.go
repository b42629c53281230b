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

// Package res bundles the default replacement table and the credits template.
package res

import (
	_ "embed"

	"github.com/walteh/genderex/pkg/table"
)

//go:embed replacements.json
var builtinTable []byte

//go:embed credits.html
var Credits string

// BuiltinTable parses the bundled replacement table.
func BuiltinTable() (*table.Table, error) {
	return table.Parse(builtinTable)
}
