// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"encoding/json"
	"encoding/xml"
	"sort"
	"strings"
)

// TailTag is the synthetic tag used for trailing-text pseudo-nodes in
// serialized output.
const TailTag = "__tail__"

// Serialized is the generic JSON form of a subtree: tag, attributes, direct
// text, and children in document order. Trailing text after a child appears
// as a pseudo-node immediately following it, so sibling order round-trips.
// Whitespace-only text is dropped.
type Serialized struct {
	Tag      string            `json:"tag"`
	Attr     map[string]string `json:"attr,omitempty"`
	Text     string            `json:"text,omitempty"`
	Children []*Serialized     `json:"children,omitempty"`
}

// Serialize converts a subtree into its generic form. Nil in, nil out.
func Serialize(n *Node) *Serialized {
	if n == nil {
		return nil
	}

	s := &Serialized{Tag: n.Tag()}
	if len(n.Attr) > 0 {
		s.Attr = make(map[string]string, len(n.Attr))
		for k, v := range n.Attr {
			s.Attr[k] = v
		}
	}
	if t := strings.TrimSpace(n.Text); t != "" {
		s.Text = t
	}

	for _, c := range n.Children {
		s.Children = append(s.Children, Serialize(c))
		if tail := strings.TrimSpace(c.Tail); tail != "" {
			s.Children = append(s.Children, &Serialized{Tag: TailTag, Text: tail})
		}
	}
	return s
}

// SerializeJSON serializes a subtree straight to its JSON encoding.
// Returns "" for nil nodes, so absent sections store as NULL-ish values.
func SerializeJSON(n *Node) (string, error) {
	s := Serialize(n)
	if s == nil {
		return "", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// XML renders the subtree back to UTF-8 XML. Namespace URIs are emitted as
// default-namespace declarations where they change, and XML-namespace
// attributes keep their xml: prefix. Used to store whole documents for the
// later pipeline stages to re-parse.
func (n *Node) XML() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	writeXML(&b, n, "")
	return b.String()
}

func writeXML(b *strings.Builder, n *Node, inherited string) {
	b.WriteString("<")
	b.WriteString(n.Local)
	if n.Space != inherited {
		b.WriteString(` xmlns="`)
		b.WriteString(escapeXML(n.Space))
		b.WriteString(`"`)
	}

	keys := make([]string, 0, len(n.Attr))
	for k := range n.Attr {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(attrName(k))
		b.WriteString(`="`)
		b.WriteString(escapeXML(n.Attr[k]))
		b.WriteString(`"`)
	}

	if n.Text == "" && len(n.Children) == 0 {
		b.WriteString("/>")
		return
	}

	b.WriteString(">")
	b.WriteString(escapeXML(n.Text))
	for _, c := range n.Children {
		writeXML(b, c, n.Space)
		b.WriteString(escapeXML(c.Tail))
	}
	b.WriteString("</")
	b.WriteString(n.Local)
	b.WriteString(">")
}

// attrName renders an attribute key for output. XML-namespace attributes
// regain the xml: prefix; other foreign namespaces fall back to the local
// name, which the distribution data does not use in practice.
func attrName(key string) string {
	if !strings.HasPrefix(key, "{") {
		return key
	}
	uri, local, ok := strings.Cut(key[1:], "}")
	if !ok {
		return key
	}
	if uri == NamespaceXML {
		return "xml:" + local
	}
	return local
}

func escapeXML(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
