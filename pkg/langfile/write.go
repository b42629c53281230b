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
	"strings"

	"github.com/antchfx/xmlquery"
)

// Text nodes are written back as parsed, whitespace included. Only the
// characters that would break well-formedness are escaped, so Android escapes
// like \' and \n survive a round trip untouched.
var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;", "\n", "&#xA;", "\t", "&#x9;")
)

func writeNode(w *bytes.Buffer, n *xmlquery.Node) {
	switch n.Type {
	case xmlquery.DocumentNode:
		writeChildren(w, n)

	case xmlquery.DeclarationNode:
		w.WriteString("<?")
		w.WriteString(n.Data)
		for _, a := range n.Attr {
			w.WriteString(" ")
			w.WriteString(attrName(a))
			w.WriteString(`="`)
			w.WriteString(attrEscaper.Replace(a.Value))
			w.WriteString(`"`)
		}
		w.WriteString("?>")
		writeChildren(w, n)
		if n.FirstChild == nil && (n.NextSibling == nil || !isText(n.NextSibling)) {
			w.WriteString("\n")
		}

	case xmlquery.ElementNode:
		name := qualifiedName(n)
		w.WriteString("<")
		w.WriteString(name)
		for _, a := range n.Attr {
			w.WriteString(" ")
			w.WriteString(attrName(a))
			w.WriteString(`="`)
			w.WriteString(attrEscaper.Replace(a.Value))
			w.WriteString(`"`)
		}
		if n.FirstChild == nil {
			w.WriteString("/>")
			return
		}
		w.WriteString(">")
		writeChildren(w, n)
		w.WriteString("</")
		w.WriteString(name)
		w.WriteString(">")

	case xmlquery.TextNode:
		w.WriteString(textEscaper.Replace(n.Data))

	case xmlquery.CharDataNode:
		w.WriteString("<![CDATA[")
		w.WriteString(n.Data)
		w.WriteString("]]>")

	case xmlquery.CommentNode:
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->")

	default:
		writeChildren(w, n)
	}
}

func writeChildren(w *bytes.Buffer, n *xmlquery.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(w, c)
	}
}

func qualifiedName(n *xmlquery.Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}

func attrName(a xmlquery.Attr) string {
	if a.Name.Space != "" {
		return a.Name.Space + ":" + a.Name.Local
	}
	return a.Name.Local
}
