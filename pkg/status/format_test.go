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
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func TestDefaultFileFormatter_FormatFileOperation(t *testing.T) {
	tests := []struct {
		name        string
		info        FileInfo
		want        string
		description string
	}{
		{
			name:        "patched_from_tables",
			info:        FileInfo{Path: "strings.xml", Status: StatusPatched, Applied: 3},
			want:        "📝 Patched strings.xml (3 replaced)",
			description: "should show the replacement count",
		},
		{
			name:        "patched_with_new",
			info:        FileInfo{Path: "strings.xml", Status: StatusPatched, Applied: 3, Discovered: 2},
			want:        "📝 Patched strings.xml (3 replaced, 2 new)",
			description: "should mention newly discovered replacements",
		},
		{
			name:        "missing",
			info:        FileInfo{Path: "plurals.xml", Status: StatusMissing},
			want:        "🫥 Missing plurals.xml",
			description: "should flag files the app does not ship",
		},
		{
			name:        "failed",
			info:        FileInfo{Path: "bad.xml", Status: StatusFailed},
			want:        "❌ Failed bad.xml",
			description: "should show error symbol for failed files",
		},
		{
			name:        "unchanged",
			info:        FileInfo{Path: "arrays.xml", Status: StatusUnchanged},
			want:        "👍 Unchanged arrays.xml",
			description: "should show unchanged symbol",
		},
	}

	f := NewDefaultFileFormatter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatFileOperation(tt.info), tt.description)
		})
	}
}

func TestDefaultFileFormatter_FormatProgress(t *testing.T) {
	f := NewDefaultFileFormatter()
	assert.Equal(t, "⏳ Progress: 1/4 (25%)", f.FormatProgress(1, 4))
	assert.Equal(t, "✅ Progress: 4/4 (100%)", f.FormatProgress(4, 4))
	assert.Equal(t, "✅ Progress: 0/0 (0%)", f.FormatProgress(0, 0))
	assert.Equal(t, "", f.FormatError(nil))
	assert.Equal(t, "❌ Error: boom", f.FormatError(errors.New("boom")))
}

func TestFormatFileLine(t *testing.T) {
	color.NoColor = true

	line := FormatFileLine(FileInfo{Path: "res/values-de/strings.xml", Status: StatusPatched, Applied: 4, Discovered: 1})
	assert.True(t, strings.HasPrefix(line, "    ✓ res/values-de/strings.xml"), "got %q", line)
	assert.Contains(t, line, "patched")
	assert.True(t, strings.HasSuffix(line, "4/1"), "trailing padding is trimmed, got %q", line)

	failed := FormatFileLine(FileInfo{Path: "bad.xml", Status: StatusFailed, Error: errors.New("boom")})
	assert.Contains(t, failed, "✗ bad.xml")
	assert.True(t, strings.HasSuffix(failed, "boom"))
}
