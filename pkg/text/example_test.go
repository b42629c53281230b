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

package text_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/genderex/pkg/text"
)

func ExampleSimpleTextReplacer_ReplaceText() {
	replacer := text.NewSimpleTextReplacer()

	rules := text.PlaceholderRules(map[string]string{
		"SPOTIFY_VERSION": "8.9.12",
		"RT_VERSION":      "b3c1",
	})

	result, err := replacer.ReplaceText(context.Background(), strings.NewReader("Spotify {{SPOTIFY_VERSION}}, tables {{RT_VERSION}}"), rules)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)

	// Output:
	// Modified: Spotify 8.9.12, tables b3c1
	// Changes: 2
}

func ExampleInjectCredits() {
	page := "<html><body><h1>Licenses</h1></body></html>"

	out, ok := text.InjectCredits(page, `<div id="gender-ex-credits">GenderEx</div>`)
	fmt.Println(ok)
	fmt.Println(out)

	// Output:
	// true
	// <html><body><div id="gender-ex-credits">GenderEx</div><h1>Licenses</h1></body></html>
}
