// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package risk

import (
	"regexp"
	"strings"

	"github.com/pdiddy/insert-engine/pkg/types"
)

// PatternDict maps evidence-flag names to the patterns that set them.
// Flags are independent: any subset may be true for a given text.
type PatternDict map[string]*regexp.Regexp

// Evidence-flag matching runs against the raw section text, not the
// NormalizeForMatch form the rules see. The reference behavior is
// asymmetric on purpose and is pinned by a test rather than unified.
// Patterns therefore carry (?ms) so dot spans the preserved newlines.

// PregnancyEvidence is the default pregnancy evidence-pattern dictionary.
var PregnancyEvidence = PatternDict{
	"has_human_terato": regexp.MustCompile(
		`(?ms)(ヒト|人).*(奇形|催奇形|胎児障害|胎児毒性|胎児への影響|出生児.*(障害|影響))`),
	"has_animal_terato": regexp.MustCompile(
		`(?ms)(動物|非臨床|ラット|マウス|ウサギ|サル).*(催奇形|奇形性|胎児毒性|胚.*致死|胎仔.*死亡|胎児.*影響)`),
	"has_nonmalform_harm": regexp.MustCompile(
		`(?ms)(新生児|出生児).*(呼吸抑制|低血糖|離脱|禁断|鎮静|筋(緊張|弛緩)|神経|発達遅延|出血|動脈管.*(収縮|閉鎖)|骨.*(発育|成長|石灰化))`),
	"mentions_trimester": regexp.MustCompile(
		`(?ms)妊娠(初期|中期|後期|末期)|第[一二三1-3]三?半期|[1-3]期|妊娠[0-9０-９]{1,2}\s*ヶ?月`),
	"mentions_uncertain": regexp.MustCompile(
		`(?ms)影響が不明|データが(ない|不足)|情報が不足|未知`),
	"pharm_concern": regexp.MustCompile(
		`(?ms)薬理作用|プロスタグランジン|RAAS|アンジオテンシン|NSAID|抗てんかん|葉酸拮抗|レチノイド|スタチン`),
}

// NursingEvidence is the default nursing evidence-pattern dictionary.
var NursingEvidence = PatternDict{
	"milk_transfer_detected": regexp.MustCompile(
		`(?ms)(乳汁|母乳).*(移行|検出|認められた|検出された)`),
	"milk_transfer_not_detected": regexp.MustCompile(
		`(?ms)(乳汁|母乳).*(移行しない|検出されなかった|認められない)`),
	"adverse_infant_effects": regexp.MustCompile(
		`(?ms)(乳児|新生児|出生児).*(傾眠|鎮静|下痢|発疹|嘔吐|体重増加不良|呼吸抑制|肝障害|黄疸)`),
	"recommend_stop_lactation": regexp.MustCompile(
		`(?ms)授乳.*中止|断乳|母乳栄養.*中止`),
	"recommend_consideration": regexp.MustCompile(
		`(?ms)有益性.*考慮.*(継続|中止).*検討`),
	"pumping_discard": regexp.MustCompile(
		`(?ms)搾乳.*破棄|ミルク.*置換|代替栄養|人工乳`),
}

// Boost keys: the high-value evidence flags that raise confidence.
var (
	PregnancyBoostKeys = []string{"has_human_terato", "has_animal_terato"}
	NursingBoostKeys   = []string{"milk_transfer_detected", "adverse_infant_effects"}
)

// ExtractFlags evaluates every pattern in the dictionary against the raw
// text. Empty text yields an empty map, never nil lookups downstream since
// absent keys read as false.
func ExtractFlags(text string, dict PatternDict) types.EvidenceFlags {
	flags := types.EvidenceFlags{}
	if strings.TrimSpace(text) == "" {
		return flags
	}
	for name, rx := range dict {
		flags[name] = rx.MatchString(text)
	}
	return flags
}
