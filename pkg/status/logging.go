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
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 40 // Base width for the file path
	statusWidth = 10 // Width for status text
	countsWidth = 12 // Width for the counters
)

// 🎯 FormatFileLine formats an outcome as one line of the console summary
func FormatFileLine(info FileInfo) string {
	var prefix string
	switch info.Status {
	case StatusPatched:
		prefix = color.GreenString("✓")
	case StatusMissing:
		prefix = color.YellowString("?")
	case StatusFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, info.Path)
	statusPart := fmt.Sprintf("%-*s", statusWidth, info.Status.String())
	countsPart := fmt.Sprintf("%-*s", countsWidth, fmt.Sprintf("%d/%d", info.Applied, info.Discovered))

	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		statusPart,
		countsPart,
	)
	if info.Error != nil {
		line += color.RedString(info.Error.Error())
	}
	return strings.TrimRight(line, " ")
}
