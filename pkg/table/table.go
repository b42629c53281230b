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

package table

import (
	"context"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/genderex/pkg/errs"
	"github.com/walteh/genderex/pkg/fileutil"
	"github.com/walteh/genderex/pkg/suspicion"
	"gitlab.com/tozd/go/errors"
)

// KeySeparator joins a field key and its original value into a composite key.
const KeySeparator = "|"

// 📚 Table is a versioned collection of replacement sets, one per language file
type Table struct {
	// Version is bumped by the owner whenever the content changes.
	Version int
	// CompatibleVersions lists the app versions the table was validated against.
	CompatibleVersions []string

	sets []*Set // sorted by path
	path string
}

// 🔄 Set maps composite keys of one language file to replacement values
type Set struct {
	// Path is the forward-slash path of the language file relative to the app root.
	Path string

	entries map[string]string
}

// 📌 Entry is one replacement of a set
type Entry struct {
	FieldKey string
	Old      string
	New      string
}

// CompositeKey binds a replacement to both its location and the original value.
func CompositeKey(fieldKey, old string) string {
	return fieldKey + KeySeparator + old
}

// SplitCompositeKey is the inverse of CompositeKey. The field key never
// contains the separator, the original value may.
func SplitCompositeKey(key string) (fieldKey, old string, ok bool) {
	return strings.Cut(key, KeySeparator)
}

// PortablePath converts an OS path into the form used as set path.
func PortablePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// 🏭 New returns an empty table
func New() *Table {
	return &Table{CompatibleVersions: []string{}}
}

// 📥 Load reads a table from path. A missing file yields an empty table that
// remembers path as its save target.
func Load(ctx context.Context, fsys afero.Fs, path string) (*Table, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading replacement table")

	exists, err := fileutil.Exists(fsys, path)
	if err != nil {
		return nil, &errs.IOError{Op: "read", Path: path, Err: err}
	}
	if !exists {
		logger.Debug().Str("path", path).Msg("replacement table does not exist, starting empty")
		t := New()
		t.path = path
		return t, nil
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &errs.IOError{Op: "read", Path: path, Err: err}
	}

	t, err := decode(CodecFor(path), data, path)
	if err != nil {
		return nil, err
	}
	t.path = path
	return t, nil
}

// 📝 Parse decodes a JSON table from memory, e.g. one fetched from a remote
func Parse(data []byte) (*Table, error) {
	return decode(JSONCodec{}, data, "<memory>")
}

func decode(c Codec, data []byte, source string) (*Table, error) {
	doc, err := c.Decode(data)
	if err != nil {
		return nil, &errs.ParseError{Source: source, Err: err}
	}
	t, err := fromDocument(doc)
	if err != nil {
		return nil, &errs.ParseError{Source: source, Err: err}
	}
	return t, nil
}

// Path returns the path the table was loaded from, if any.
func (t *Table) Path() string { return t.path }

// SetPath changes the default save target.
func (t *Table) SetPath(path string) { t.path = path }

// Sets returns the sets ordered by path.
func (t *Table) Sets() []*Set { return t.sets }

// 🔍 SetForFile looks up the set for a portable path
func (t *Table) SetForFile(path string) (*Set, bool) {
	i, found := t.search(path)
	if !found {
		return nil, false
	}
	return t.sets[i], true
}

// ➕ EnsureSetForFile returns the set for path, creating it in path order
func (t *Table) EnsureSetForFile(path string) *Set {
	i, found := t.search(path)
	if found {
		return t.sets[i]
	}
	s := &Set{Path: path, entries: map[string]string{}}
	t.sets = slices.Insert(t.sets, i, s)
	return s
}

func (t *Table) search(path string) (int, bool) {
	i := sort.Search(len(t.sets), func(i int) bool { return t.sets[i].Path >= path })
	return i, i < len(t.sets) && t.sets[i].Path == path
}

// IsEmpty reports whether no set holds an entry.
func (t *Table) IsEmpty() bool {
	for _, s := range t.sets {
		if len(s.entries) > 0 {
			return false
		}
	}
	return true
}

// ✅ Compatible reports whether the table was validated against tag. An
// empty table changes nothing and is compatible with everything.
func (t *Table) Compatible(tag string) bool {
	return slices.Contains(t.CompatibleVersions, tag) || t.IsEmpty()
}

// AddCompatibleVersion records tag once.
func (t *Table) AddCompatibleVersion(tag string) {
	if !slices.Contains(t.CompatibleVersions, tag) {
		t.CompatibleVersions = append(t.CompatibleVersions, tag)
	}
}

// 🔀 Merge upserts every entry of src and returns how many entries were added
// or changed. Compatibility tags of src are carried over.
func (t *Table) Merge(src *Table) int {
	changed := 0
	for _, s := range src.sets {
		if len(s.entries) == 0 {
			continue
		}
		dst := t.EnsureSetForFile(s.Path)
		for k, v := range s.entries {
			if old, ok := dst.entries[k]; ok && old == v {
				continue
			}
			dst.entries[k] = v
			changed++
		}
	}
	for _, v := range src.CompatibleVersions {
		t.AddCompatibleVersion(v)
	}
	return changed
}

// CountReplacements returns the number of entries over all sets.
func (t *Table) CountReplacements() int {
	n := 0
	for _, s := range t.sets {
		n += len(s.entries)
	}
	return n
}

// CountSuspicious returns the number of entries whose replacement value still
// carries a gender marker.
func (t *Table) CountSuspicious() int {
	n := 0
	for _, s := range t.sets {
		for _, v := range s.entries {
			if suspicion.IsSuspicious(v) {
				n++
			}
		}
	}
	return n
}

// 🔑 Hash returns a short content hash of the canonical encoding
func (t *Table) Hash() string {
	data, err := t.Marshal()
	if err != nil {
		return ""
	}
	return fileutil.ShortChecksum(data)
}

// Marshal returns the canonical JSON encoding.
func (t *Table) Marshal() ([]byte, error) {
	return JSONCodec{}.Encode(t.document())
}

// 💾 Save writes the table to path, or to its load path when path is empty.
// The codec is picked from the file extension.
func (t *Table) Save(ctx context.Context, fsys afero.Fs, path string) error {
	if path == "" {
		path = t.path
	}
	if path == "" {
		return errors.New("table has no path to save to")
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("version", t.Version).Msg("saving replacement table")

	data, err := CodecFor(path).Encode(t.document())
	if err != nil {
		return errors.Errorf("encoding table: %w", err)
	}
	if err := fileutil.WriteFileAtomic(fsys, path, data); err != nil {
		return &errs.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// ➕ Add upserts a replacement; the last write for a composite key wins
func (s *Set) Add(fieldKey, old, replacement string) {
	s.entries[CompositeKey(fieldKey, old)] = replacement
}

// 🔍 Lookup returns the replacement for a field only while its original value
// still matches the recorded one
func (s *Set) Lookup(fieldKey, old string) (string, bool) {
	v, ok := s.entries[CompositeKey(fieldKey, old)]
	return v, ok
}

// Len returns the number of entries.
func (s *Set) Len() int { return len(s.entries) }

// Entries returns the entries ordered by composite key.
func (s *Set) Entries() []Entry {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		fieldKey, old, _ := SplitCompositeKey(k)
		out = append(out, Entry{FieldKey: fieldKey, Old: old, New: s.entries[k]})
	}
	return out
}
