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

package text

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleTextReplacer_ReplaceText(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		rules        []ReplacementRule
		want         string
		wantCount    int
		wantModified bool
	}{
		{
			name:    "placeholder",
			content: "Version {{SPOTIFY_VERSION}}",
			rules: []ReplacementRule{
				{FromText: "{{SPOTIFY_VERSION}}", ToText: "8.9.12"},
			},
			want:         "Version 8.9.12",
			wantCount:    1,
			wantModified: true,
		},
		{
			name:    "repeated_placeholder",
			content: "{{A}} and {{A}}",
			rules: []ReplacementRule{
				{FromText: "{{A}}", ToText: "x"},
			},
			want:         "x and x",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "multiple_rules",
			content: "{{A}}-{{B}}",
			rules: []ReplacementRule{
				{FromText: "{{A}}", ToText: "1"},
				{FromText: "{{B}}", ToText: "2"},
			},
			want:         "1-2",
			wantCount:    2,
			wantModified: true,
		},
		{
			name:    "no_match",
			content: "plain",
			rules: []ReplacementRule{
				{FromText: "{{A}}", ToText: "1"},
			},
			want: "plain",
		},
		{
			name:    "empty_rule_skipped",
			content: "plain",
			rules: []ReplacementRule{
				{FromText: "", ToText: "boom"},
			},
			want: "plain",
		},
		{
			name:    "empty_content",
			content: "",
			rules:   []ReplacementRule{{FromText: "{{A}}", ToText: "1"}},
			want:    "",
		},
	}

	replacer := NewSimpleTextReplacer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := replacer.ReplaceText(context.Background(), strings.NewReader(tt.content), tt.rules)
			require.NoError(t, err)

			assert.Equal(t, tt.want, string(result.ModifiedContent))
			assert.Equal(t, tt.content, string(result.OriginalContent))
			assert.Equal(t, tt.wantCount, result.ReplacementCount)
			assert.Equal(t, tt.wantModified, result.WasModified)
		})
	}
}

func TestSimpleTextReplacer_ValidateRules(t *testing.T) {
	replacer := NewSimpleTextReplacer()
	assert.NoError(t, replacer.ValidateRules([]ReplacementRule{{FromText: "a"}}))
	assert.EqualError(t, replacer.ValidateRules([]ReplacementRule{{FromText: "a"}, {ToText: "b"}}), "rule 1: from_text is required")
}

func TestPlaceholderRules(t *testing.T) {
	rules := PlaceholderRules(map[string]string{"B": "2", "A": "1"})
	assert.Equal(t, []ReplacementRule{
		{FromText: "{{A}}", ToText: "1"},
		{FromText: "{{B}}", ToText: "2"},
	}, rules)
}
