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
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📄 Document is the persisted form of a Table
type Document struct {
	Version         int            `json:"version" yaml:"version" jsonschema:"description=Bumped whenever the table content changes"`
	SpotifyVersions []string       `json:"spotify_versions" yaml:"spotify_versions" jsonschema:"description=App versions the table was validated against"`
	Files           []FileDocument `json:"files" yaml:"files" jsonschema:"description=One replacement set per language file"`
}

// 📄 FileDocument is the persisted form of a Set
type FileDocument struct {
	Path    string            `json:"path" yaml:"path" jsonschema:"description=Forward-slash path of the language file inside the app"`
	Replace map[string]string `json:"replace" yaml:"replace" jsonschema:"description=Maps 'fieldKey|originalValue' to the replacement value"`
}

// 🔌 Codec encodes and decodes table documents
type Codec interface {
	Decode(data []byte) (*Document, error)
	Encode(doc *Document) ([]byte, error)
	// CanHandle checks if this codec is responsible for the given file
	CanHandle(filename string) bool
}

// 🗺️ codecs are consulted in registration order; JSON is the fallback
var codecs []Codec

// Register adds a codec.
func Register(c Codec) {
	codecs = append(codecs, c)
}

// CodecFor returns the codec for filename, defaulting to JSON.
func CodecFor(filename string) Codec {
	for _, c := range codecs {
		if c.CanHandle(filename) {
			return c
		}
	}
	return JSONCodec{}
}

func init() {
	Register(JSONCodec{})
	Register(YAMLCodec{})
}

// 🔧 JSONCodec is the canonical format: two-space indent, sorted keys, no
// HTML escaping
type JSONCodec struct{}

func (JSONCodec) CanHandle(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".json")
}

func (JSONCodec) Decode(data []byte) (*Document, error) {
	var doc Document
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &doc, nil
}

func (JSONCodec) Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, errors.Errorf("encoding JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// 🔧 YAMLCodec reads and writes .yaml/.yml tables
type YAMLCodec struct{}

func (YAMLCodec) CanHandle(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

func (YAMLCodec) Decode(data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &doc, nil
}

func (YAMLCodec) Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, errors.Errorf("encoding YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Errorf("closing YAML encoder: %w", err)
	}
	return buf.Bytes(), nil
}

func fromDocument(doc *Document) (*Table, error) {
	t := New()
	t.Version = doc.Version
	for _, v := range doc.SpotifyVersions {
		t.AddCompatibleVersion(v)
	}

	for i, f := range doc.Files {
		if f.Path == "" {
			return nil, errors.Errorf("files[%d]: path is required", i)
		}
		s := t.EnsureSetForFile(f.Path)
		for k, v := range f.Replace {
			fieldKey, old, ok := SplitCompositeKey(k)
			if !ok || fieldKey == "" {
				return nil, errors.Errorf("files[%d] (%s): invalid replacement key %q", i, f.Path, k)
			}
			s.Add(fieldKey, old, v)
		}
	}
	return t, nil
}

func (t *Table) document() *Document {
	doc := &Document{
		Version:         t.Version,
		SpotifyVersions: append([]string{}, t.CompatibleVersions...),
		Files:           make([]FileDocument, 0, len(t.sets)),
	}
	for _, s := range t.sets {
		replace := make(map[string]string, len(s.entries))
		for k, v := range s.entries {
			replace[k] = v
		}
		doc.Files = append(doc.Files, FileDocument{Path: s.Path, Replace: replace})
	}
	return doc
}
