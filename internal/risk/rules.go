// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package risk classifies pregnancy and nursing section text onto the
// 0-3 advisory scale used by the MHLW wording conventions, extracts
// supporting evidence flags, and derives a bounded confidence score.
package risk

import "regexp"

// Rule is one classification rule: a score, the pattern that triggers it,
// and a tag naming the rule in output. Tables are ordered by descending
// score and the first matching rule wins.
//
// Unless handles wording where a hard phrase is a prefix of a softer one
// (投与しないこと vs 投与しないことが望ましい): occurrences of Unless are
// removed from a copy of the text before Pattern is tried, so the softer
// phrase cannot trigger the harder rule.
type Rule struct {
	Score   int
	Pattern *regexp.Regexp
	Unless  *regexp.Regexp
	Tag     string
}

// Matches reports whether the rule's pattern occurs in the normalized text.
func (r Rule) Matches(text string) bool {
	if r.Unless != nil {
		text = r.Unless.ReplaceAllString(text, "")
	}
	return r.Pattern.MatchString(text)
}

// PregnancyRules is the default pregnancy rule table.
// Score semantics: 3 = must not administer, 2 = administration discouraged,
// 1 = only when benefit outweighs risk / cautious use, 0 = unknown.
var PregnancyRules = []Rule{
	{
		Score: 3,
		Pattern: regexp.MustCompile(
			`禁忌|投与してはならない|使用してはならない|投与しないこと|使用しないこと`),
		Unless: regexp.MustCompile(`(投与|使用)しないことが望ましい`),
		Tag:    "contraindicated",
	},
	{
		Score: 2,
		Pattern: regexp.MustCompile(
			`投与しないことが望ましい|使用しないことが望ましい` +
				`|原則.*(投与|使用)しない` +
				`|(投与|使用)は推奨されない` +
				`|(投与|使用)を避けることが望ましい` +
				`|(使用|投与)を回避することが望ましい` +
				`|可能な限り(投与|使用)を避ける`),
		Tag: "not_recommended",
	},
	{
		Score: 1,
		Pattern: regexp.MustCompile(
			`(治療上の)?(有益性|ベネフィット|利益|利点).*(危険性|リスク).*(上回|凌駕)[るれ]` +
				`|必要(な|時)?場合に(限り|のみ).*(投与|使用)` +
				`|やむを得ない場合(に限り|のみ).*(投与|使用)` +
				`|必要最小限(の用量|の範囲)?(での)?(投与|使用)` +
				`|慎重に投与`),
		Tag: "benefit_over_risk_or_caution",
	},
}

// NursingRules is the default nursing rule table.
// Score semantics: 3 = stop lactation, 2 = weigh benefit and decide,
// 1 = informational milk-transfer statement, 0 = unknown.
var NursingRules = []Rule{
	{
		Score:   3,
		Pattern: regexp.MustCompile(`授乳.*中止|断乳|母乳栄養.*中止`),
		Tag:     "stop_lactation",
	},
	{
		Score:   2,
		Pattern: regexp.MustCompile(`有益性.*考慮.*授乳.*(継続|中止).*検討`),
		Tag:     "consider_benefit",
	},
	{
		Score:   1,
		Pattern: regexp.MustCompile(`(乳汁|母乳).*(移行|検出|認められた)`),
		Tag:     "info_only",
	},
}
