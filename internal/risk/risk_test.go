// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package risk

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/pdiddy/insert-engine/pkg/types"
)

// --- NormalizeForMatch ---

func TestNormalizeForMatch(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"newlines to spaces", "投与\nしない\nこと", "投与 しない こと"},
		{"fullwidth space", "有益性　が", "有益性 が"},
		{"orthographic variants", "危険性を上まわる。上廻る。", "危険性を上回る。上回る。"},
		{"collapse and trim", "  a \t b  ", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeForMatch(tt.in); got != tt.want {
				t.Errorf("NormalizeForMatch(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// --- Classify ---

func TestClassifyPregnancy(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantTag  string
		wantScor int
	}{
		{
			"contraindication",
			"妊婦又は妊娠している可能性のある女性には投与しないこと。",
			"contraindicated", 3,
		},
		{
			"keyword kinki",
			"妊婦への投与は禁忌である。",
			"contraindicated", 3,
		},
		{
			"soft phrase does not trigger hard rule",
			"妊婦には投与しないことが望ましい。",
			"not_recommended", 2,
		},
		{
			"benefit over risk",
			"治療上の有益性が危険性を上回ると判断される場合にのみ投与すること。",
			"benefit_over_risk_or_caution", 1,
		},
		{
			"orthographic variant still matches",
			"治療上の有益性が危険性を上まわると判断される場合にのみ投与すること。",
			"benefit_over_risk_or_caution", 1,
		},
		{
			"unmatched text",
			"該当資料なし。",
			"unclear", 0,
		},
		{
			"empty",
			"   ",
			"none", 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, PregnancyRules)
			if got.RuleTag != tt.wantTag || got.Score != tt.wantScor {
				t.Errorf("Classify = (%d, %q), want (%d, %q)",
					got.Score, got.RuleTag, tt.wantScor, tt.wantTag)
			}
		})
	}
}

func TestClassifyNursing(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantTag  string
		wantScor int
	}{
		{
			"stop lactation",
			"授乳を中止させること。",
			"stop_lactation", 3,
		},
		{
			"consider benefit",
			"治療上の有益性を考慮し、授乳を継続するか検討すること。",
			"consider_benefit", 2,
		},
		{
			"milk transfer info",
			"ヒト母乳中への移行が報告されている。",
			"info_only", 1,
		},
		{
			"unmatched",
			"特になし。",
			"unclear", 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, NursingRules)
			if got.RuleTag != tt.wantTag || got.Score != tt.wantScor {
				t.Errorf("Classify = (%d, %q), want (%d, %q)",
					got.Score, got.RuleTag, tt.wantScor, tt.wantTag)
			}
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Text carrying both a score-3 phrase and a score-1 phrase.
	text := "原則投与しないこと。ただしやむを得ない場合に限り投与すること。"
	got := Classify(text, PregnancyRules)
	if got.Score != 3 {
		t.Errorf("score = %d, want the highest-priority rule to win", got.Score)
	}
}

// --- evidence flags ---

func TestExtractFlags(t *testing.T) {
	text := "ラットで催奇形性が報告されている。ヒトでの影響が不明である。"
	flags := ExtractFlags(text, PregnancyEvidence)

	if !flags["has_animal_terato"] {
		t.Error("has_animal_terato should be set")
	}
	if !flags["mentions_uncertain"] {
		t.Error("mentions_uncertain should be set")
	}
	if flags["has_nonmalform_harm"] {
		t.Error("has_nonmalform_harm should not be set")
	}

	if got := ExtractFlags("  ", PregnancyEvidence); len(got) != 0 {
		t.Errorf("blank text yields %v, want empty map", got)
	}
}

func TestExtractFlagsNursing(t *testing.T) {
	text := "乳汁中への移行が認められたため、授乳を中止させること。"
	flags := ExtractFlags(text, NursingEvidence)
	if !flags["milk_transfer_detected"] {
		t.Error("milk_transfer_detected should be set")
	}
	if !flags["recommend_stop_lactation"] {
		t.Error("recommend_stop_lactation should be set")
	}
	if flags["pumping_discard"] {
		t.Error("pumping_discard should not be set")
	}
}

func TestFlagMatchingSkipsNormalization(t *testing.T) {
	// Rules match the normalized text; flags match the raw text. The
	// orthographic variant 上まわる therefore triggers the benefit rule but
	// not a flag pattern written against the canonical form.
	text := "治療上の有益性が危険性を上まわると判断される場合にのみ投与すること。"

	if got := Classify(text, PregnancyRules); got.RuleTag != "benefit_over_risk_or_caution" {
		t.Errorf("Classify tag = %q, normalization should apply to rules", got.RuleTag)
	}

	dict := PatternDict{"canonical_phrase": regexp.MustCompile(`上回る`)}
	if flags := ExtractFlags(text, dict); flags["canonical_phrase"] {
		t.Error("flag patterns must see the raw text, not the normalized form")
	}
}

// --- confidence ---

func TestConfidence(t *testing.T) {
	both := types.EvidenceFlags{"has_human_terato": true, "has_animal_terato": true}
	one := types.EvidenceFlags{"has_animal_terato": true}

	tests := []struct {
		name  string
		score int
		flags types.EvidenceFlags
		want  int
	}{
		{"no boosts", 2, types.EvidenceFlags{}, 2},
		{"one boost", 1, one, 2},
		{"two boosts", 1, both, 3},
		{"capped at three", 3, both, 3},
		{"negative clamped", -1, nil, 0},
		{"oversized clamped", 7, nil, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Confidence(tt.score, tt.flags, PregnancyBoostKeys...); got != tt.want {
				t.Errorf("Confidence(%d) = %d, want %d", tt.score, got, tt.want)
			}
		})
	}
}

// --- rule files ---

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	src := `- score: 1
  pattern: "低"
  tag: low
- score: 3
  pattern: "高"
  unless: "高くない"
  tag: high
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	// Sorted by descending score regardless of file order.
	if rules[0].Tag != "high" || rules[0].Score != 3 {
		t.Errorf("rules[0] = %+v", rules[0])
	}
	if rules[0].Unless == nil {
		t.Error("unless pattern was not compiled")
	}
	if rules[1].Tag != "low" {
		t.Errorf("rules[1] = %+v", rules[1])
	}
}

func TestLoadRulesErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name, src string
	}{
		{"missing tag", `- {score: 1, pattern: x}`},
		{"missing pattern", `- {score: 1, tag: t}`},
		{"bad regexp", `- {score: 1, pattern: "[", tag: t}`},
		{"not yaml", `{{{{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.src), 0o644); err != nil {
				t.Fatalf("writing fixture: %v", err)
			}
			if _, err := LoadRules(path); err == nil {
				t.Error("want error")
			}
		})
	}

	if _, err := LoadRules(filepath.Join(dir, "absent.yaml")); err == nil {
		t.Error("want error for missing file")
	}
}

// --- simplified labels ---

func TestToranomonLabels(t *testing.T) {
	preg := map[int]string{3: "D/X", 2: "C", 1: "B", 0: "不明"}
	for score, want := range preg {
		if got := ToranomonPregnant(score); got != want {
			t.Errorf("ToranomonPregnant(%d) = %q, want %q", score, got, want)
		}
	}
	nurs := map[int]string{3: "授乳中止", 2: "有益性考慮", 1: "情報提供", 0: "不明"}
	for score, want := range nurs {
		if got := ToranomonNursing(score); got != want {
			t.Errorf("ToranomonNursing(%d) = %q, want %q", score, got, want)
		}
	}
}
