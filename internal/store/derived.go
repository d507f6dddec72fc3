// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/insert-engine/pkg/types"
)

// RebuildInteractions regenerates the interaction table from the flattened
// JSON stored on rawdata rows: the table is dropped, and one row is inserted
// per record. Records with no partner, group, symptoms, or mechanism at all
// are skipped. Returns the number of rows inserted.
func (s *Store) RebuildInteractions(cfg types.RebuildConfig, w io.Writer) (int, error) {
	err := s.recreate("interaction",
		createInteraction,
		`CREATE INDEX IF NOT EXISTS idx_interaction_pkg ON interaction(package_insert_no)`,
		`CREATE INDEX IF NOT EXISTS idx_interaction_yj ON interaction(yj_code)`,
		`CREATE INDEX IF NOT EXISTS idx_interaction_partner ON interaction(partner_name_ja)`,
	)
	if err != nil {
		return 0, err
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	progressEvery := cfg.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = 2000
	}

	var batch []types.InteractionRow
	inserted := 0
	scanned := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.insertInteractionRows(batch); err != nil {
			return err
		}
		inserted += len(batch)
		batch = batch[:0]
		return nil
	}

	err = s.EachInteractionSource(func(pkg, yj, flatJSON string) error {
		scanned++
		var records []types.InteractionRecord
		if err := json.Unmarshal([]byte(flatJSON), &records); err != nil {
			fmt.Fprintf(w, "skipping %s/%s: bad interaction JSON: %v\n", pkg, yj, err)
			return nil
		}
		for _, rec := range records {
			if rec.Partner == "" && rec.Group == "" && rec.Symptoms == "" && rec.Mechanism == "" {
				continue
			}
			batch = append(batch, types.InteractionRow{
				PackageInsertNo:    pkg,
				YJCode:             yj,
				SectionType:        string(rec.Category),
				PartnerGroupJa:     rec.Group,
				PartnerNameJa:      rec.Partner,
				SymptomsMeasuresJa: rec.Symptoms,
				MechanismJa:        rec.Mechanism,
			})
		}
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
		if scanned%progressEvery == 0 {
			fmt.Fprintf(w, "scanned=%d inserted=%d\n", scanned, inserted)
		}
		return nil
	})
	if err != nil {
		return inserted, err
	}
	if err := flush(); err != nil {
		return inserted, err
	}
	return inserted, nil
}

func (s *Store) insertInteractionRows(rows []types.InteractionRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO interaction
		(package_insert_no, yj_code, section_type,
		 partner_group_ja, partner_name_ja, symptoms_measures_ja, mechanism_ja)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(r.PackageInsertNo, r.YJCode, nullable(r.SectionType),
			nullable(r.PartnerGroupJa), nullable(r.PartnerNameJa),
			nullable(r.SymptomsMeasuresJa), nullable(r.MechanismJa))
		if err != nil {
			return fmt.Errorf("inserting interaction row: %w", err)
		}
	}
	return tx.Commit()
}

// RecreateWomen drops and recreates the women table for a full rebuild.
func (s *Store) RecreateWomen() error {
	return s.recreate("women", createWomen)
}

// UpsertWomenRows writes a batch of women rows (section text and source
// ids; classification columns are filled by the label stage).
func (s *Store) UpsertWomenRows(rows []types.WomenRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO women
		(package_insert_no, yj_code, brand_name_ja, pregnant_text, nursing_text,
		 has_pregnant, has_nursing, src_ids, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (package_insert_no, yj_code) DO UPDATE SET
		 brand_name_ja = excluded.brand_name_ja,
		 pregnant_text = excluded.pregnant_text,
		 nursing_text  = excluded.nursing_text,
		 has_pregnant  = excluded.has_pregnant,
		 has_nursing   = excluded.has_nursing,
		 src_ids       = excluded.src_ids,
		 updated_at    = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		srcIDs, err := marshalIfAny(r.SrcIDs)
		if err != nil {
			return err
		}
		_, err = stmt.Exec(r.PackageInsertNo, r.YJCode, nullable(r.BrandNameJa),
			nullable(r.PregnantText), nullable(r.NursingText),
			r.HasPregnant, r.HasNursing, srcIDs)
		if err != nil {
			return fmt.Errorf("upserting %s/%s: %w", r.PackageInsertNo, r.YJCode, err)
		}
	}
	return tx.Commit()
}

// EachWomenText streams (key, pregnant text, nursing text) for every women
// row in key order.
func (s *Store) EachWomenText(fn func(pkg, yj, pregnant, nursing string) error) error {
	rows, err := s.db.Query(`SELECT package_insert_no, yj_code, pregnant_text, nursing_text
		FROM women ORDER BY package_insert_no, yj_code`)
	if err != nil {
		return fmt.Errorf("querying women: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pkg, yj string
		var pregnant, nursing sql.NullString
		if err := rows.Scan(&pkg, &yj, &pregnant, &nursing); err != nil {
			return fmt.Errorf("scanning women row: %w", err)
		}
		if err := fn(pkg, yj, pregnant.String, nursing.String); err != nil {
			return err
		}
	}
	return rows.Err()
}

// UpdateWomenClassification writes scores, rule tags, and evidence flags
// back onto women rows.
func (s *Store) UpdateWomenClassification(rows []types.WomenRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`UPDATE women SET
		 pregnant_score    = ?,
		 pregnant_rule     = ?,
		 nursing_score     = ?,
		 nursing_rule      = ?,
		 overall_score     = ?,
		 pregnant_evidence = ?,
		 nursing_evidence  = ?
		WHERE package_insert_no = ? AND yj_code = ?`)
	if err != nil {
		return fmt.Errorf("preparing update: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		pregEv, err := marshalIfAny(r.PregnantEvidence)
		if err != nil {
			return err
		}
		nursEv, err := marshalIfAny(r.NursingEvidence)
		if err != nil {
			return err
		}
		_, err = stmt.Exec(r.PregnantScore, nullable(r.PregnantRule),
			r.NursingScore, nullable(r.NursingRule), r.OverallScore,
			pregEv, nursEv, r.PackageInsertNo, r.YJCode)
		if err != nil {
			return fmt.Errorf("updating %s/%s: %w", r.PackageInsertNo, r.YJCode, err)
		}
	}
	return tx.Commit()
}

// RecreateRiskLabels drops and recreates the risk_labels table.
func (s *Store) RecreateRiskLabels() error {
	return s.recreate("risk_labels", createRiskLabels)
}

// UpsertRiskLabels writes a batch of simplified-label rows.
func (s *Store) UpsertRiskLabels(rows []types.RiskLabelRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO risk_labels
		(package_insert_no, yj_code, scheme, pregnant_label, nursing_label,
		 pregnant_score, nursing_score, evidence_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (package_insert_no, yj_code, scheme) DO UPDATE SET
		 pregnant_label = excluded.pregnant_label,
		 nursing_label  = excluded.nursing_label,
		 pregnant_score = excluded.pregnant_score,
		 nursing_score  = excluded.nursing_score,
		 evidence_json  = excluded.evidence_json,
		 updated_at     = CURRENT_TIMESTAMP`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(r.PackageInsertNo, r.YJCode, r.Scheme,
			nullable(r.PregnantLabel), nullable(r.NursingLabel),
			r.PregnantScore, r.NursingScore, nullable(r.EvidenceJSON))
		if err != nil {
			return fmt.Errorf("upserting %s/%s/%s: %w", r.PackageInsertNo, r.YJCode, r.Scheme, err)
		}
	}
	return tx.Commit()
}

// marshalIfAny marshals a non-empty map to JSON, or NULL for empty input.
func marshalIfAny[M ~map[string]V, V any](m M) (any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON column: %w", err)
	}
	return string(data), nil
}
