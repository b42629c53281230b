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

package log

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger provides user-friendly feedback about the pipeline stages
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer
}

// 🎯 NewUserLogger creates a new user logger printing to the terminal
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// WithWriter redirects the printed feedback to w.
func (u *UserLogger) WithWriter(w io.Writer) *UserLogger {
	return &UserLogger{log: u.log, out: w}
}

func (u *UserLogger) printer(base pterm.PrefixPrinter, prefix string) *pterm.PrefixPrinter {
	p := base.WithPrefix(pterm.Prefix{Text: prefix, Style: base.Prefix.Style})
	if u.out != nil {
		p = p.WithWriter(u.out)
	}
	return p
}

// 📚 LogTable reports a loaded replacement table
func (u *UserLogger) LogTable(name string, version, replacements int, source string) {
	msg := fmt.Sprintf("Loaded table %s v%d (%d replacements) from %s", name, version, replacements, source)
	u.printer(pterm.Info, "📚").Println(msg)
	u.log.Info().Str("table", name).Int("version", version).Int("replacements", replacements).Str("source", source).Msg("loaded table")
}

// 📊 LogStateChange logs a change to the overall state
func (u *UserLogger) LogStateChange(description string) {
	u.printer(pterm.Info, "📦").Println(description)
	u.log.Info().Msg(description)
}

// ✨ LogArtifact reports a written output file
func (u *UserLogger) LogArtifact(kind, path string) {
	msg := fmt.Sprintf("Wrote %s %s", kind, path)
	u.printer(pterm.Success, "✨").Println(msg)
	u.log.Info().Str("kind", kind).Str("path", path).Msg("wrote file")
}

// 🎫 LogIssue reports a submitted or already existing issue
func (u *UserLogger) LogIssue(title, url string, created bool) {
	if created {
		u.printer(pterm.Success, "🎫").Printfln("Created issue %q %s", title, url)
		u.log.Info().Str("title", title).Str("url", url).Msg("created issue")
		return
	}
	u.printer(pterm.Warning, "🎫").Printfln("Issue %q already open %s", title, url)
	u.log.Warn().Str("title", title).Str("url", url).Msg("issue already open")
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	switch {
	case valid:
		u.printer(pterm.Success, "✅").Println(description)
		u.log.Info().Msg(description)
	case err != nil:
		u.printer(pterm.Error, "❌").Println(description)
		u.printer(pterm.Error, "❌").Println(err)
		u.log.Error().Err(err).Msg(description)
	default:
		u.printer(pterm.Warning, "⚠️").Println(description)
		u.log.Warn().Msg(description)
	}
}
