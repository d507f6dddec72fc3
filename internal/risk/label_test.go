// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package risk

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/insert-engine/pkg/types"
)

type memWomenSource struct {
	rows [][4]string // pkg, yj, pregnant, nursing
}

func (m *memWomenSource) EachWomenText(fn func(pkg, yj, pregnant, nursing string) error) error {
	for _, r := range m.rows {
		if err := fn(r[0], r[1], r[2], r[3]); err != nil {
			return err
		}
	}
	return nil
}

type memLabelSink struct {
	recreated bool
	women     []types.WomenRow
	labels    []types.RiskLabelRow
}

func (m *memLabelSink) UpdateWomenClassification(rows []types.WomenRow) error {
	m.women = append(m.women, rows...)
	return nil
}

func (m *memLabelSink) RecreateRiskLabels() error { m.recreated = true; return nil }

func (m *memLabelSink) UpsertRiskLabels(rows []types.RiskLabelRow) error {
	m.labels = append(m.labels, rows...)
	return nil
}

func TestNewLabelerDefaults(t *testing.T) {
	l, err := NewLabeler(types.LabelConfig{})
	if err != nil {
		t.Fatalf("NewLabeler: %v", err)
	}
	if l.scheme != SchemeToranomon {
		t.Errorf("scheme = %q, want the built-in default", l.scheme)
	}
	if len(l.pregnancy) == 0 || len(l.nursing) == 0 {
		t.Error("built-in rule tables should be loaded")
	}
}

func TestNewLabelerRuleOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preg.yaml")
	src := `- {score: 3, pattern: "絶対だめ", tag: custom}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	l, err := NewLabeler(types.LabelConfig{PregnantRules: path})
	if err != nil {
		t.Fatalf("NewLabeler: %v", err)
	}
	if len(l.pregnancy) != 1 || l.pregnancy[0].Tag != "custom" {
		t.Errorf("pregnancy rules = %+v", l.pregnancy)
	}

	if _, err := NewLabeler(types.LabelConfig{NursingRules: filepath.Join(t.TempDir(), "absent.yaml")}); err == nil {
		t.Error("want error for missing rule file")
	}
}

func TestLabelRow(t *testing.T) {
	l, err := NewLabeler(types.LabelConfig{})
	if err != nil {
		t.Fatalf("NewLabeler: %v", err)
	}

	pregnant := "妊婦には投与しないこと。ラットで催奇形性が報告されている。"
	nursing := "乳汁中への移行が認められたため、授乳を中止させること。"

	women, label, err := l.LabelRow("100", "YJ1", pregnant, nursing)
	if err != nil {
		t.Fatalf("LabelRow: %v", err)
	}

	if women.PregnantScore != 3 || women.PregnantRule != "contraindicated" {
		t.Errorf("pregnant classification = (%d, %q)", women.PregnantScore, women.PregnantRule)
	}
	if women.NursingScore != 3 || women.NursingRule != "stop_lactation" {
		t.Errorf("nursing classification = (%d, %q)", women.NursingScore, women.NursingRule)
	}
	if women.OverallScore != 3 {
		t.Errorf("overall = %d, want the max of both scores", women.OverallScore)
	}
	if !women.PregnantEvidence["has_animal_terato"] {
		t.Error("animal teratogenicity flag should be set")
	}

	if label.Scheme != SchemeToranomon {
		t.Errorf("scheme = %q", label.Scheme)
	}
	if label.PregnantLabel != "D/X" || label.NursingLabel != "授乳中止" {
		t.Errorf("labels = (%q, %q)", label.PregnantLabel, label.NursingLabel)
	}

	var evidence map[string]any
	if err := json.Unmarshal([]byte(label.EvidenceJSON), &evidence); err != nil {
		t.Fatalf("evidence is not valid JSON: %v", err)
	}
	if evidence["pregnant_rule"] != "contraindicated" {
		t.Errorf("evidence pregnant_rule = %v", evidence["pregnant_rule"])
	}
	preg, ok := evidence["preg"].(map[string]any)
	if !ok {
		t.Fatalf("evidence preg block = %T", evidence["preg"])
	}
	// Score 3 plus boosts still caps at 3.
	if got := preg["confidence"]; got != float64(3) {
		t.Errorf("pregnant confidence = %v, want 3", got)
	}
}

func TestLabelRowEmptyTexts(t *testing.T) {
	l, err := NewLabeler(types.LabelConfig{})
	if err != nil {
		t.Fatalf("NewLabeler: %v", err)
	}

	women, label, err := l.LabelRow("100", "YJ1", "", "")
	if err != nil {
		t.Fatalf("LabelRow: %v", err)
	}
	if women.PregnantRule != "none" || women.NursingRule != "none" {
		t.Errorf("rules = (%q, %q), want none", women.PregnantRule, women.NursingRule)
	}
	if label.PregnantLabel != "不明" || label.NursingLabel != "不明" {
		t.Errorf("labels = (%q, %q), want 不明", label.PregnantLabel, label.NursingLabel)
	}
}

func TestRun(t *testing.T) {
	l, err := NewLabeler(types.LabelConfig{})
	if err != nil {
		t.Fatalf("NewLabeler: %v", err)
	}

	src := &memWomenSource{rows: [][4]string{
		{"100", "YJ1", "投与しないこと。", "授乳を中止させること。"},
		{"200", "YJ2", "", ""},
		{"300", "YJ3", "慎重に投与すること。", "母乳中に移行する。"},
	}}
	sink := &memLabelSink{}

	summary, err := l.Run(src, sink, types.LabelConfig{
		RebuildConfig: types.RebuildConfig{BatchSize: 2},
	}, io.Discard)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !sink.recreated {
		t.Error("risk_labels table was not recreated")
	}
	if summary.Scanned != 3 || summary.Updated != 3 || summary.Upserted != 3 {
		t.Errorf("summary = %+v", summary)
	}
	if len(sink.women) != 3 || len(sink.labels) != 3 {
		t.Fatalf("sink got %d women rows, %d labels", len(sink.women), len(sink.labels))
	}
	if sink.labels[2].PregnantScore != 1 || sink.labels[2].NursingScore != 1 {
		t.Errorf("third row scores = %+v", sink.labels[2])
	}
}
