// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document models a parsed package-insert markup tree and provides
// the traversal, text-selection, and serialization primitives the
// extraction stages are built on.
package document

import "strings"

// Well-known namespaces of the package-insert distribution format.
const (
	// NamespacePI is the package-insert document namespace.
	NamespacePI = "http://info.pmda.go.jp/namespace/prescription_drugs/package_insert/1.0"

	// NamespaceXML is the reserved XML namespace (xml:lang and friends).
	NamespaceXML = "http://www.w3.org/XML/1998/namespace"
)

// Namespaces is the fixed prefix table used by path lookups.
var Namespaces = map[string]string{
	"pi":  NamespacePI,
	"xml": NamespaceXML,
}

// Node is one element of a parsed document tree. Each node owns its
// children; the tree is rooted and acyclic and is never mutated after parse.
type Node struct {
	// Space is the namespace URI, empty for unqualified elements.
	Space string

	// Local is the tag name without namespace.
	Local string

	// Attr maps attribute names to values. Namespace-qualified attribute
	// names use the "{uri}local" form; unqualified names are plain.
	Attr map[string]string

	// Text is the character data before the first child element.
	Text string

	// Tail is the character data after this element's end tag, up to the
	// next sibling. It belongs to the parent's content, not this element's.
	Tail string

	// Children are the child elements in document order.
	Children []*Node
}

// Tag returns the qualified tag in "{uri}local" form, or the bare local
// name for unqualified elements.
func (n *Node) Tag() string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

// AttrValue returns the named attribute, trying the qualified "{uri}local"
// key first and falling back to the bare local name.
func (n *Node) AttrValue(space, local string) string {
	if space != "" {
		if v, ok := n.Attr["{"+space+"}"+local]; ok {
			return v
		}
	}
	return n.Attr[local]
}

// Lang returns the element's language attribute (xml:lang, or a bare lang
// attribute on schema variants that drop the prefix).
func (n *Node) Lang() string {
	return n.AttrValue(NamespaceXML, "lang")
}

// Walk visits n and every descendant in document order. Traversal stops
// early when fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// SubtreeText concatenates all character data of the subtree in document
// order, including text trailing inner elements. The result is not trimmed.
func (n *Node) SubtreeText() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	subtreeText(&b, n)
	return b.String()
}

func subtreeText(b *strings.Builder, n *Node) {
	b.WriteString(n.Text)
	for _, c := range n.Children {
		subtreeText(b, c)
		b.WriteString(c.Tail)
	}
}

// LocalName strips the "{uri}" namespace part from a qualified tag.
func LocalName(tag string) string {
	if i := strings.LastIndex(tag, "}"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}
