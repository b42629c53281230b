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

// Package issue converts new replacements into a text block that people can
// edit in an issue tracker, and reads the edited block back.
//
// A block starts with a "[BEGIN NAME]" line and ends with "[END NAME]". Every
// other non-blank line inside is one item. Values are escaped so each fits on
// a single line.
package issue

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/walteh/genderex/pkg/errs"
	"github.com/walteh/genderex/pkg/table"
)

const (
	BlockEntries = "ENTRIES"
	BlockValues  = "VALUES"
)

var phrases = []string{
	"Es wurden neue Gendersternchen entdeckt!",
	"Ein wildes Gendersternchen erscheint!",
	"Und täglich grüßt das Gendersternchen...",
	"Wie es aussieht ist Spotify mal wieder linguistisch kreativ unterwegs gewesen.",
	"Grüße gehen raus an alle Sprachkünstler &ast;RÜLPS&ast; INNEN",
}

var versionPattern = regexp.MustCompile(`SPOTIFY_VERSION *= *(.+)`)

var escaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`)

// Title returns the issue title for new replacements found in versionTag.
func Title(versionTag string) string {
	return fmt.Sprintf("Neue Ersetzungsregeln (Spotify %s)", versionTag)
}

// 📝 Render writes every entry of t as an issue body: the version tag and an
// ENTRIES block as metadata, the original values as an editable VALUES block
func Render(t *table.Table, versionTag string) string {
	var entries, values []string
	for _, s := range t.Sets() {
		for _, e := range s.Entries() {
			entries = append(entries, s.Path+table.KeySeparator+e.FieldKey)
			values = append(values, escape(e.Old))
		}
	}

	var b strings.Builder
	b.WriteString(phrase(versionTag))
	b.WriteString("\n\n**Metainformationen:**\n\n```\n")
	fmt.Fprintf(&b, "SPOTIFY_VERSION = %s\n\n", versionTag)
	writeBlock(&b, BlockEntries, entries)
	b.WriteString("```\n\n**Spracheinträge:**\n\n")
	b.WriteString("Kopiere diesen Block (MIT dem BEGIN/END-Tag) in deine Antwort, entferne die Gendersternchen und sende die Antwort ab.\n\n```\n")
	writeBlock(&b, BlockValues, values)
	b.WriteString("```\n\n")
	b.WriteString("Daraufhin wird eine neue PR mit den Änderungen an der Ersetzungstabelle erzeugt.")
	return b.String()
}

func writeBlock(b *strings.Builder, name string, lines []string) {
	fmt.Fprintf(b, "[BEGIN %s]\n", name)
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "[END %s]\n", name)
}

// phrase picks the greeting from the version tag so renders are reproducible.
func phrase(versionTag string) string {
	h := fnv.New32a()
	h.Write([]byte(versionTag))
	return phrases[h.Sum32()%uint32(len(phrases))]
}

// 📥 Parse reads the rendered issue text and the edited VALUES block and
// upserts the rows into t. Nothing is modified unless the whole input is
// valid. changed reports whether the serialized table differs afterwards.
func Parse(t *table.Table, originalText, editedText string) (changed bool, count int, versionTag string, err error) {
	m := versionPattern.FindStringSubmatch(originalText)
	if m != nil {
		versionTag = strings.TrimSpace(m[1])
	}
	if versionTag == "" {
		return false, 0, "", &errs.FormatError{Reason: "missing SPOTIFY_VERSION"}
	}

	entries := ParseBlock(originalText, BlockEntries)
	originals := ParseBlock(originalText, BlockValues)
	edited := ParseBlock(editedText, BlockValues)

	switch {
	case len(entries) == 0:
		return false, 0, versionTag, &errs.FormatError{Reason: "missing ENTRIES block"}
	case len(originals) == 0:
		return false, 0, versionTag, &errs.FormatError{Reason: "missing VALUES block in issue"}
	case len(edited) == 0:
		return false, 0, versionTag, &errs.FormatError{Reason: "missing VALUES block in answer"}
	case len(entries) != len(originals) || len(entries) != len(edited):
		return false, 0, versionTag, &errs.FormatError{Reason: fmt.Sprintf(
			"inconsistent block lengths: %d entries, %d original values, %d edited values",
			len(entries), len(originals), len(edited))}
	}

	type row struct{ path, fieldKey string }
	rows := make([]row, len(entries))
	for i, e := range entries {
		path, fieldKey, ok := strings.Cut(e, table.KeySeparator)
		if !ok || path == "" || fieldKey == "" {
			return false, 0, versionTag, &errs.FormatError{Reason: fmt.Sprintf("invalid entry %q", e)}
		}
		rows[i] = row{path: path, fieldKey: fieldKey}
	}

	before, err := t.Marshal()
	if err != nil {
		return false, 0, versionTag, err
	}

	t.AddCompatibleVersion(versionTag)
	for i, r := range rows {
		t.EnsureSetForFile(r.path).Add(r.fieldKey, originals[i], edited[i])
	}

	after, err := t.Marshal()
	if err != nil {
		return false, 0, versionTag, err
	}
	return !bytes.Equal(before, after), len(rows), versionTag, nil
}

// ParseBlock returns the trimmed, unescaped, non-blank lines of the first
// block called name. An unterminated block runs to the end of the text.
func ParseBlock(text, name string) []string {
	begin, end := "[BEGIN "+name+"]", "[END "+name+"]"

	var out []string
	inside := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == begin && !inside:
			inside = true
		case !inside:
		case line == end:
			return out
		case line != "":
			out = append(out, unescape(line))
		}
	}
	return out
}

func escape(s string) string {
	return escaper.Replace(s)
}

// unescape reverses escape. Unknown sequences are kept as they are.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
