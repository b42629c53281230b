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

package suspicion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSuspicious(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "plain_greeting", text: "Hallo Welt!", want: false},
		{name: "star_suffix", text: "Künstler*innen", want: true},
		{name: "plain_options", text: "Weitere Optionen", want: false},
		{name: "star_inside_sentence", text: "Hinweis: Der gemeinsame Mix ist für zwei Personen, also teile deine Einladung direkt mit einem*einer Freund*in.", want: true},
		{name: "star_with_format_arg", text: "„%1$s“ in Künstler*innen", want: true},
		{name: "placeholder_braces", text: "Tippe auf einer Folge auf {download}, um sie dir ohne Internetverbindung anzuhören.", want: false},
		{name: "colon_suffix", text: "Nutzer:innen", want: true},
		{name: "parenthesized_suffix", text: "Leser(n)", want: true},
		{name: "capital_suffix", text: "KünstlerInnen", want: true},
		{name: "capital_after_space_is_fine", text: "Neue Infos", want: false},
		{name: "hello_star_in", text: "Hello*in", want: true},
		{name: "empty", text: "", want: false},
		{
			name: "internal_link_only",
			text: `Ich stimme den &lt;a href="spotify:internal:signup:tos"&gt;Nutzungsbedingungen&lt;/a&gt; zu.`,
			want: false,
		},
		{
			name: "internal_link_with_marker_elsewhere",
			text: `Ich stimme den &lt;a href="spotify:internal:signup:tos"&gt;Nutzungsbedingung:innen&lt;/a&gt; zu.`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSuspicious(tt.text), "IsSuspicious(%q)", tt.text)
		})
	}
}

func TestIsSuspicious_InternalMarkerAlwaysWins(t *testing.T) {
	markers := []string{"*innen", ":innen", "(n)", "rIn", "*In", ":R"}
	for _, m := range markers {
		text := "Künstler" + m + " " + InternalMarker + ":home"
		assert.False(t, IsSuspicious(text), "text with internal marker must not be suspicious: %q", text)
		assert.True(t, IsSuspicious("Künstler"+m), "marker alone should be suspicious: %q", m)
	}
}
