// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package women locates the pregnancy and nursing narrative sections of a
// package insert and aggregates their text. Section tag names drift across
// document-schema revisions, so matching is by local name only.
package women

import (
	"regexp"
	"strings"

	"github.com/pdiddy/insert-engine/internal/document"
	"github.com/pdiddy/insert-engine/pkg/types"
)

// PregnantTags are the local tag names denoting pregnancy-use sections
// across schema revisions.
var PregnantTags = map[string]bool{
	"UseInPregnant":      true,
	"UseInPregnantWomen": true,
	"Pregnant":           true,
}

// NursingTags are the local tag names denoting nursing-use sections.
var NursingTags = map[string]bool{
	"UseInNursing":        true,
	"UseInNursingMothers": true,
	"Nursing":             true,
	"BreastFeeding":       true,
}

const langLocal = "Lang"

var (
	runsOfSpace = regexp.MustCompile("[ \t　]+")
	excessLines = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText applies the light whitespace normalization used for
// narrative prose: line endings to LF, runs of spaces collapsed, three or
// more consecutive newlines reduced to a blank line. Wording is preserved;
// in particular no label noise-stripping happens here.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = runsOfSpace.ReplaceAllString(s, " ")
	s = excessLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ExtractSection collects every element of doc whose local tag name is in
// targets, in document order, and aggregates the language-variant text under
// all of them: Japanese-tagged variants first, other languages second, each
// bucket deduplicated by exact string and joined with blank lines. When no
// language variants exist at all, the raw text of the first matching element
// is used instead. The returned SourceID is the id attribute of the first
// match. Both fields are empty when nothing matches.
func ExtractSection(doc *document.Node, targets map[string]bool) types.SectionExtraction {
	if doc == nil {
		return types.SectionExtraction{}
	}

	var hits []*document.Node
	doc.Walk(func(n *document.Node) bool {
		if targets[n.Local] {
			hits = append(hits, n)
		}
		return true
	})
	if len(hits) == 0 {
		return types.SectionExtraction{}
	}

	sourceID := hits[0].Attr["id"]

	var jaTexts, otherTexts []string
	for _, h := range hits {
		h.Walk(func(n *document.Node) bool {
			if n.Local != langLocal {
				return true
			}
			t := NormalizeText(n.SubtreeText())
			if t == "" {
				return true
			}
			if strings.HasPrefix(strings.ToLower(n.Lang()), "ja") {
				jaTexts = append(jaTexts, t)
			} else {
				otherTexts = append(otherTexts, t)
			}
			return true
		})
	}

	if len(jaTexts) == 0 && len(otherTexts) == 0 {
		return types.SectionExtraction{
			Text:     NormalizeText(hits[0].SubtreeText()),
			SourceID: sourceID,
		}
	}

	var parts []string
	if len(jaTexts) > 0 {
		parts = append(parts, strings.Join(dedup(jaTexts), "\n\n"))
	}
	if len(otherTexts) > 0 {
		parts = append(parts, strings.Join(dedup(otherTexts), "\n\n"))
	}
	return types.SectionExtraction{
		Text:     strings.TrimSpace(strings.Join(parts, "\n\n")),
		SourceID: sourceID,
	}
}

// dedup drops repeated strings, keeping first-seen order.
func dedup(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
