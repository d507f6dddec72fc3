// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Parse reads one XML document and builds its Node tree. Character data
// around child elements is preserved ElementTree-style: text before the
// first child goes to the parent's Text, everything after a child goes to
// that child's Tail. Comments and processing instructions are discarded.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Space: canonicalSpace(t.Name.Space), Local: t.Name.Local}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
					continue
				}
				if n.Attr == nil {
					n.Attr = make(map[string]string, len(t.Attr))
				}
				n.Attr[attrKey(a.Name)] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if len(top.Children) == 0 {
				top.Text += string(t)
			} else {
				last := top.Children[len(top.Children)-1]
				last.Tail += string(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New("empty document")
	}
	return root, nil
}

// ParseString parses a document held in memory.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile parses the XML file at path.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	n, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// canonicalSpace maps the reserved "xml" prefix, which encoding/xml reports
// verbatim, onto the XML namespace URI.
func canonicalSpace(s string) string {
	if s == "xml" {
		return NamespaceXML
	}
	return s
}

// attrKey renders an attribute name in the same "{uri}local" form node tags
// use, so xml:lang lookups behave identically across schema revisions.
func attrKey(name xml.Name) string {
	space := canonicalSpace(name.Space)
	if space == "" {
		return name.Local
	}
	return "{" + space + "}" + name.Local
}

// charsetReader decodes the legacy encodings the distribution data declares.
// Older files ship as Shift_JIS or EUC-JP; newer ones are UTF-8.
func charsetReader(name string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "_")) {
	case "utf_8", "utf8":
		return input, nil
	case "shift_jis", "sjis", "windows_31j", "cp932", "ms932":
		return transform.NewReader(input, japanese.ShiftJIS.NewDecoder()), nil
	case "euc_jp", "eucjp":
		return transform.NewReader(input, japanese.EUCJP.NewDecoder()), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", name)
}
