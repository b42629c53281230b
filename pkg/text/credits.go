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
	"regexp"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// BuildDateLayout formats the build date shown in the credits.
const BuildDateLayout = "02.01.2006 15:04:05"

var creditsBlock = regexp.MustCompile(`<div id="gender-ex-credits">[\s\S]*?</div>`)

// 🎖️ CreditsVars fill the credits template
type CreditsVars struct {
	AppVersion    string
	ToolVersion   string
	TableVersions string
	BuildDate     time.Time
}

// Rules returns the placeholder rules for the credits template.
func (v CreditsVars) Rules() []ReplacementRule {
	return PlaceholderRules(map[string]string{
		"SPOTIFY_VERSION":  v.AppVersion,
		"GENDEREX_VERSION": v.ToolVersion,
		"RT_VERSION":       v.TableVersions,
		"BUILD_DATE":       v.BuildDate.Format(BuildDateLayout),
	})
}

// RenderCredits fills the credits template.
func RenderCredits(ctx context.Context, template string, v CreditsVars) (string, error) {
	res, err := NewSimpleTextReplacer().ReplaceText(ctx, strings.NewReader(template), v.Rules())
	if err != nil {
		return "", errors.Errorf("rendering credits: %w", err)
	}
	return string(res.ModifiedContent), nil
}

// 💉 InjectCredits removes an earlier credits block from page and inserts
// credits right after <body>. ok is false when the page has no <body>.
func InjectCredits(page, credits string) (out string, ok bool) {
	page = creditsBlock.ReplaceAllString(page, "")

	const body = "<body>"
	pos := strings.Index(page, body)
	if pos == -1 {
		return page, false
	}
	pos += len(body)
	return page[:pos] + credits + page[pos:], true
}
