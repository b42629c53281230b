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

// Package suspicion flags text that still carries a gender marker.
package suspicion

import (
	"regexp"
	"strings"
)

// InternalMarker marks technical values that never reach the user, such as
// deep links embedded in markup. Text containing it is never suspicious.
const InternalMarker = "spotify:internal"

// markerPattern matches
//   - an inline star or colon before a feminine/plural suffix: Künstler*innen, Nutzer:innen
//   - a parenthesized suffix: Leser(n)
//   - a capitalized suffix glued to a lowercase word: KünstlerInnen
var markerPattern = regexp.MustCompile(`(\*[iIrRnN])|(\([rRnN]\))|([a-zß-ü][IRN])|(:[iIrRnN])`)

// IsSuspicious reports whether text contains an unresolved gender marker.
func IsSuspicious(text string) bool {
	// the marker check runs first: "spotify:internal" itself matches ":i"
	if strings.Contains(text, InternalMarker) {
		return false
	}
	return markerPattern.MatchString(text)
}
