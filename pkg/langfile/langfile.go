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

package langfile

import (
	"bytes"
	"context"
	"iter"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/genderex/pkg/errs"
	"github.com/walteh/genderex/pkg/fileutil"
	"gitlab.com/tozd/go/errors"
)

// 📄 File is a parsed Android resource file whose string values can be
// rewritten in place
type File struct {
	path string
	doc  *xmlquery.Node
	root *xmlquery.Node
	skip map[*xmlquery.Node]struct{}
}

// 🔤 Field is one addressable string value of a File
type Field struct {
	// Key is the "/"-joined identifying attribute values from the root
	// element down to this node, e.g. "artists/other".
	Key string
	// Value is the trimmed leading text of the node.
	Value string

	node     *xmlquery.Node
	replaced bool
}

// Set replaces the node text with v.
func (f *Field) Set(v string) {
	setLeadingText(f.node, v)
	f.Value = v
	f.replaced = true
}

// Replaced reports whether Set was called.
func (f *Field) Replaced() bool { return f.replaced }

// 🔁 WalkFunc receives every field; returning replaced=true stores newValue
type WalkFunc func(fieldKey, oldValue string) (newValue string, replaced bool)

// 📥 Load reads and parses the file at path
func Load(ctx context.Context, fsys afero.Fs, path string) (*File, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading language file")

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &errs.IOError{Op: "read", Path: path, Err: err}
	}

	return Parse(data, path)
}

// 📝 Parse parses an in-memory document; path is remembered as the default
// Save target
func Parse(data []byte, path string) (*File, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &errs.ParseError{Source: path, Err: err}
	}

	var root *xmlquery.Node
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			root = n
			break
		}
	}
	if root == nil {
		return nil, &errs.ParseError{Source: path, Err: errors.New("document has no root element")}
	}

	return &File{
		path: path,
		doc:  doc,
		root: root,
		skip: map[*xmlquery.Node]struct{}{},
	}, nil
}

// Path returns the path the file was loaded from.
func (f *File) Path() string { return f.path }

// 🚫 Skip excludes every element matched by the XPath expressions, including
// its subtree, from Fields and Walk
func (f *File) Skip(exprs ...string) error {
	for _, e := range exprs {
		expr, err := xpath.Compile(e)
		if err != nil {
			return errors.Errorf("compiling skip expression %q: %w", e, err)
		}
		for _, n := range xmlquery.QuerySelectorAll(f.doc, expr) {
			f.skip[n] = struct{}{}
		}
	}
	return nil
}

// 🌲 Fields yields every addressable field depth-first in document order
func (f *File) Fields() iter.Seq[*Field] {
	return func(yield func(*Field) bool) {
		f.walk(f.root, nil, yield)
	}
}

func (f *File) walk(parent *xmlquery.Node, keys []string, yield func(*Field) bool) bool {
	for n := parent.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.ElementNode {
			continue
		}
		if _, skipped := f.skip[n]; skipped {
			continue
		}

		path := keys
		id, addressable := identifier(n)
		if addressable {
			path = append(keys[:len(keys):len(keys)], id)
			if text, ok := leadingText(n); ok {
				if !yield(&Field{Key: strings.Join(path, "/"), Value: text, node: n}) {
					return false
				}
				continue
			}
		}

		if !f.walk(n, path, yield) {
			return false
		}
	}
	return true
}

// 🔁 Walk calls fn for every field and applies its replacements, returning
// the number of replaced fields
func (f *File) Walk(fn WalkFunc) int {
	n := 0
	for field := range f.Fields() {
		if v, ok := fn(field.Key, field.Value); ok {
			field.Set(v)
			n++
		}
	}
	return n
}

// 💾 Save writes the document to path, or to the load path when path is empty
func (f *File) Save(ctx context.Context, fsys afero.Fs, path string) error {
	if path == "" {
		path = f.path
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("saving language file")

	if err := fileutil.WriteFileAtomic(fsys, path, f.Bytes()); err != nil {
		return &errs.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Bytes serializes the document.
func (f *File) Bytes() []byte {
	var buf bytes.Buffer
	writeNode(&buf, f.doc)
	return buf.Bytes()
}

// identifyingAttrs name the attributes that address a resource value.
// Others such as formatted or tools:ignore only annotate it.
var identifyingAttrs = map[string]bool{"name": true, "quantity": true}

// identifier returns the value of the single identifying attribute of n.
func identifier(n *xmlquery.Node) (string, bool) {
	value, count := "", 0
	for _, a := range n.Attr {
		if a.Name.Space != "" || !identifyingAttrs[a.Name.Local] {
			continue
		}
		value = a.Value
		count++
	}
	return value, count == 1
}

// leadingText returns the trimmed text before the first child element.
func leadingText(n *xmlquery.Node) (string, bool) {
	var sb strings.Builder
	for c := n.FirstChild; c != nil && isText(c); c = c.NextSibling {
		sb.WriteString(c.Data)
	}
	text := strings.TrimSpace(sb.String())
	return text, text != ""
}

func setLeadingText(n *xmlquery.Node, v string) {
	first := n.FirstChild
	if first == nil || !isText(first) {
		insertFirst(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: v})
		return
	}

	first.Type = xmlquery.TextNode
	first.Data = v
	for c := first.NextSibling; c != nil && isText(c); {
		next := c.NextSibling
		unlink(c)
		c = next
	}
}

func isText(n *xmlquery.Node) bool {
	return n.Type == xmlquery.TextNode || n.Type == xmlquery.CharDataNode
}

func insertFirst(parent, n *xmlquery.Node) {
	n.Parent = parent
	n.NextSibling = parent.FirstChild
	if parent.FirstChild != nil {
		parent.FirstChild.PrevSibling = n
	} else {
		parent.LastChild = n
	}
	parent.FirstChild = n
}

func unlink(n *xmlquery.Node) {
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n.NextSibling
	} else if n.Parent != nil {
		n.Parent.FirstChild = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n.PrevSibling
	} else if n.Parent != nil {
		n.Parent.LastChild = n.PrevSibling
	}
	n.Parent, n.PrevSibling, n.NextSibling = nil, nil, nil
}
