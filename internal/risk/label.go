// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package risk

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/insert-engine/pkg/types"
)

// WomenSource streams women rows for labeling. The SQLite store implements it.
type WomenSource interface {
	EachWomenText(fn func(pkg, yj, pregnant, nursing string) error) error
}

// Sink receives classification results and simplified labels.
type Sink interface {
	UpdateWomenClassification(rows []types.WomenRow) error
	RecreateRiskLabels() error
	UpsertRiskLabels(rows []types.RiskLabelRow) error
}

// Labeler classifies women rows with a pair of rule tables and assigns
// simplified scheme labels. Rule tables are fixed at construction; they are
// configuration, not per-document state, so one Labeler handles a whole run.
type Labeler struct {
	scheme    string
	pregnancy []Rule
	nursing   []Rule
}

// NewLabeler builds a Labeler from the stage configuration, loading rule
// tables from the configured YAML files or falling back to the built-ins.
func NewLabeler(cfg types.LabelConfig) (*Labeler, error) {
	l := &Labeler{
		scheme:    cfg.Scheme,
		pregnancy: PregnancyRules,
		nursing:   NursingRules,
	}
	if l.scheme == "" {
		l.scheme = SchemeToranomon
	}

	var err error
	if cfg.PregnantRules != "" {
		if l.pregnancy, err = LoadRules(cfg.PregnantRules); err != nil {
			return nil, fmt.Errorf("pregnancy rules: %w", err)
		}
	}
	if cfg.NursingRules != "" {
		if l.nursing, err = LoadRules(cfg.NursingRules); err != nil {
			return nil, fmt.Errorf("nursing rules: %w", err)
		}
	}
	return l, nil
}

// LabelRow classifies one row's texts and derives all outputs: the women
// classification update and the risk-label row.
func (l *Labeler) LabelRow(pkg, yj, pregnantText, nursingText string) (types.WomenRow, types.RiskLabelRow, error) {
	preg := Classify(pregnantText, l.pregnancy)
	nurs := Classify(nursingText, l.nursing)

	overall := preg.Score
	if nurs.Score > overall {
		overall = nurs.Score
	}

	pregFlags := ExtractFlags(pregnantText, PregnancyEvidence)
	nursFlags := ExtractFlags(nursingText, NursingEvidence)

	pregConf := Confidence(preg.Score, pregFlags, PregnancyBoostKeys...)
	nursConf := Confidence(nurs.Score, nursFlags, NursingBoostKeys...)

	women := types.WomenRow{
		PackageInsertNo:  pkg,
		YJCode:           yj,
		PregnantScore:    preg.Score,
		PregnantRule:     preg.RuleTag,
		NursingScore:     nurs.Score,
		NursingRule:      nurs.RuleTag,
		OverallScore:     overall,
		PregnantEvidence: pregFlags,
		NursingEvidence:  nursFlags,
	}

	evidence, err := json.Marshal(map[string]any{
		"pregnant_rule": preg.RuleTag,
		"nursing_rule":  nurs.RuleTag,
		"preg":          withConfidence(pregFlags, pregConf),
		"nurs":          withConfidence(nursFlags, nursConf),
	})
	if err != nil {
		return types.WomenRow{}, types.RiskLabelRow{}, fmt.Errorf("marshaling evidence: %w", err)
	}

	label := types.RiskLabelRow{
		PackageInsertNo: pkg,
		YJCode:          yj,
		Scheme:          l.scheme,
		PregnantLabel:   ToranomonPregnant(preg.Score),
		NursingLabel:    ToranomonNursing(nurs.Score),
		PregnantScore:   preg.Score,
		NursingScore:    nurs.Score,
		EvidenceJSON:    string(evidence),
	}
	return women, label, nil
}

func withConfidence(flags types.EvidenceFlags, confidence int) map[string]any {
	out := make(map[string]any, len(flags)+1)
	for k, v := range flags {
		out[k] = v
	}
	out["confidence"] = confidence
	return out
}

// Summary holds counts from one label run.
type Summary struct {
	Scanned  int
	Updated  int
	Upserted int
}

// Run labels every women row: classification results are written back onto
// women, and simplified labels go into a freshly rebuilt risk_labels table.
func (l *Labeler) Run(src WomenSource, sink Sink, cfg types.LabelConfig, w io.Writer) (Summary, error) {
	if err := sink.RecreateRiskLabels(); err != nil {
		return Summary{}, err
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	progressEvery := cfg.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = 5000
	}

	var summary Summary
	var womenBatch []types.WomenRow
	var labelBatch []types.RiskLabelRow

	flush := func() error {
		if len(womenBatch) == 0 {
			return nil
		}
		if err := sink.UpdateWomenClassification(womenBatch); err != nil {
			return err
		}
		summary.Updated += len(womenBatch)
		womenBatch = womenBatch[:0]

		if err := sink.UpsertRiskLabels(labelBatch); err != nil {
			return err
		}
		summary.Upserted += len(labelBatch)
		labelBatch = labelBatch[:0]
		return nil
	}

	err := src.EachWomenText(func(pkg, yj, pregnant, nursing string) error {
		summary.Scanned++

		women, label, err := l.LabelRow(pkg, yj, pregnant, nursing)
		if err != nil {
			return err
		}
		womenBatch = append(womenBatch, women)
		labelBatch = append(labelBatch, label)

		if len(womenBatch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
		if summary.Scanned%progressEvery == 0 {
			fmt.Fprintf(w, "scanned=%d updated=%d labeled=%d\n", summary.Scanned, summary.Updated, summary.Upserted)
		}
		return nil
	})
	if err != nil {
		return summary, err
	}
	if err := flush(); err != nil {
		return summary, err
	}
	return summary, nil
}
