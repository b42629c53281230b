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

package replace

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/genderex/pkg/suspicion"
	"gitlab.com/tozd/go/errors"
)

// IncompatibleTables returns the names of the tables not validated against tag.
func (m *Manager) IncompatibleTables(tag string) []string {
	var names []string
	for _, nt := range m.tables {
		if !nt.Table.Compatible(tag) {
			names = append(names, nt.Name)
		}
	}
	return names
}

// ✅ CheckCompatibility logs every table not validated against tag and
// reports whether all tables are compatible
func (m *Manager) CheckCompatibility(ctx context.Context, tag string) bool {
	logger := zerolog.Ctx(ctx)
	names := m.IncompatibleTables(tag)
	for _, name := range names {
		logger.Warn().Str("table", name).Str("version", tag).Msg("replacement table is not compatible with app version")
	}
	return len(names) == 0
}

// 🏷️ TableVersions describes the non-empty tables, e.g. "b3c1". With hashes
// the parts carry the content hash: "b3 (1a2b3c4d), c1 (5e6f7a8b)".
func (m *Manager) TableVersions(withHash bool) string {
	var parts []string
	for _, nt := range m.tables {
		if nt.Table.IsEmpty() {
			continue
		}
		r, _ := utf8.DecodeRuneInString(nt.Name)
		part := string(r) + strconv.Itoa(nt.Table.Version)
		if withHash {
			part += " (" + nt.Table.Hash() + ")"
		}
		parts = append(parts, part)
	}

	if withHash {
		return strings.Join(parts, ", ")
	}
	return strings.Join(parts, "")
}

// NewReplacementsSummary counts the accumulated replacements as "<n>N<m>S":
// N were resolved to a clean value, S still carry a marker. Zero parts are
// left out.
func (m *Manager) NewReplacementsSummary() string {
	clean, suspicious := 0, 0
	for _, s := range m.accumulator.Sets() {
		for _, e := range s.Entries() {
			if suspicion.IsSuspicious(e.New) {
				suspicious++
			} else {
				clean++
			}
		}
	}

	var sb strings.Builder
	if clean > 0 {
		sb.WriteString(strconv.Itoa(clean) + "N")
	}
	if suspicious > 0 {
		sb.WriteString(strconv.Itoa(suspicious) + "S")
	}
	return sb.String()
}

// 🏷️ VersionString combines table versions and the new replacement summary,
// e.g. "b3c1_3N2S"
func (m *Manager) VersionString() string {
	v := m.TableVersions(false)
	if summary := m.NewReplacementsSummary(); summary != "" {
		v += "_" + summary
	}
	return v
}

// 💾 SaveAccumulator records tag as compatible, bumps the version and writes
// the accumulator to path. An empty accumulator is not written.
func (m *Manager) SaveAccumulator(ctx context.Context, tag, path string) (bool, error) {
	if m.accumulator.IsEmpty() {
		zerolog.Ctx(ctx).Debug().Msg("no new replacements to save")
		return false, nil
	}

	if tag != "" {
		m.accumulator.AddCompatibleVersion(tag)
	}
	m.accumulator.Version++

	if err := m.accumulator.Save(ctx, m.fs, path); err != nil {
		return false, errors.Errorf("saving new replacements: %w", err)
	}
	return true, nil
}
