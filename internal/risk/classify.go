// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package risk

import (
	"regexp"
	"strings"

	"github.com/pdiddy/insert-engine/pkg/types"
)

var collapseSpace = regexp.MustCompile(`\s+`)

// NormalizeForMatch prepares text for rule matching without altering the
// stored original: full-width spaces and newlines become plain spaces, runs
// of whitespace collapse, and the orthographic variants of the key
// benefit-outweighs-risk phrase converge on 上回る.
func NormalizeForMatch(s string) string {
	s = strings.ReplaceAll(s, "　", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = collapseSpace.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "上まわる", "上回る")
	s = strings.ReplaceAll(s, "上廻る", "上回る")
	return strings.TrimSpace(s)
}

// Classify evaluates an ordered rule table against the text and returns the
// first match. Empty or whitespace-only text yields (0, "none"); non-empty
// text matched by no rule yields (0, "unclear"). An empty table therefore
// still returns a deterministic default.
func Classify(text string, rules []Rule) types.Classification {
	if strings.TrimSpace(text) == "" {
		return types.Classification{Score: 0, RuleTag: "none"}
	}
	t := NormalizeForMatch(text)
	for _, r := range rules {
		if r.Matches(t) {
			return types.Classification{Score: r.Score, RuleTag: r.Tag}
		}
	}
	return types.Classification{Score: 0, RuleTag: "unclear"}
}

// Confidence derives a 0-3 confidence from a rule score and evidence flags:
// the clamped score, plus one for each boost key that is set, counting at
// most two boosts, capped at 3.
func Confidence(score int, flags types.EvidenceFlags, boostKeys ...string) int {
	c := score
	if c < 0 {
		c = 0
	}
	if c > 3 {
		c = 3
	}

	boosts := 0
	for _, k := range boostKeys {
		if flags[k] {
			boosts++
			if boosts == 2 {
				break
			}
		}
	}

	c += boosts
	if c > 3 {
		c = 3
	}
	return c
}
