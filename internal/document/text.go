// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"regexp"
	"strings"
)

// langLocal is the local tag name of language-variant child elements.
const langLocal = "Lang"

var (
	edgePunct = regexp.MustCompile(`^[、，,\s　]+|[、，,\s　]+$`)
	noiseTail = regexp.MustCompile(`(等|など)$`)
	noiseHead = regexp.MustCompile(`^(等|など)`)
)

// SelectText returns the node's best text under the language-preference
// policy: the full subtree text of a Japanese-tagged Lang child if one
// exists, otherwise the node's own direct text. Language-variant content is
// itself structured, so the whole variant subtree is flattened, not just its
// immediate text. Returns "" for nil nodes and nodes without text.
func SelectText(n *Node) string {
	if n == nil {
		return ""
	}
	for _, c := range n.Children {
		if c.Local != langLocal || !isJapanese(c.Lang()) {
			continue
		}
		if t := strings.TrimSpace(c.SubtreeText()); t != "" {
			return t
		}
	}
	return strings.TrimSpace(n.Text)
}

// SelectDirectText returns only the node's own trimmed direct text, for
// single-line fields where descending into variant subtrees is undesired.
func SelectDirectText(n *Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}

// PathText returns the trimmed direct text of the first element at path
// below n, or "".
func PathText(n *Node, path string) string {
	return SelectDirectText(FindFirst(n, path))
}

// isJapanese reports whether a language attribute denotes Japanese.
// Region-qualified values such as "ja-JP" count.
func isJapanese(lang string) bool {
	return strings.HasPrefix(strings.ToLower(lang), "ja")
}

// NormalizeLabel cleans a partner or class label: surrounding whitespace and
// punctuation go, and the filler tokens 等/など ("and others") are stripped
// from either end. A label that is nothing but filler normalizes to "".
func NormalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	s = edgePunct.ReplaceAllString(s, "")
	if s == "" || s == "等" || s == "など" {
		return ""
	}
	s = strings.TrimSpace(noiseTail.ReplaceAllString(s, ""))
	s = strings.TrimSpace(noiseHead.ReplaceAllString(s, ""))
	return s
}

// DetailText extracts and normalizes a label from a Detail element: the
// language-preferenced subtree text, cleaned by NormalizeLabel. This is the
// selection path for partner names and class labels.
func DetailText(n *Node) string {
	s := SelectText(n)
	if s == "" {
		return ""
	}
	return NormalizeLabel(s)
}
