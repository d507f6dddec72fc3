// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"database/sql"
	"fmt"

	"github.com/pdiddy/insert-engine/pkg/types"
)

const upsertRawSQL = `INSERT INTO rawdata
	(package_insert_no, yj_code, company_identifier, prepared_ym,
	 brand_name_ja, brand_name_hiragana, trademark_en,
	 generic_name_ja, standard_name_ja, therapeutic_class_ja,
	 approval_no, start_marketing, storage_method, shelf_life,
	 approval_etc_json, indications_json, info_dose_admin_json,
	 interactions_json, adverse_reactions_json, composition_json, property_json,
	 interactions_flat, doc_xml, raw_xml_path, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT (package_insert_no, yj_code) DO UPDATE SET
	 company_identifier     = excluded.company_identifier,
	 prepared_ym            = excluded.prepared_ym,
	 brand_name_ja          = excluded.brand_name_ja,
	 brand_name_hiragana    = excluded.brand_name_hiragana,
	 trademark_en           = excluded.trademark_en,
	 generic_name_ja        = excluded.generic_name_ja,
	 standard_name_ja       = excluded.standard_name_ja,
	 therapeutic_class_ja   = excluded.therapeutic_class_ja,
	 approval_no            = excluded.approval_no,
	 start_marketing        = excluded.start_marketing,
	 storage_method         = excluded.storage_method,
	 shelf_life             = excluded.shelf_life,
	 approval_etc_json      = excluded.approval_etc_json,
	 indications_json       = excluded.indications_json,
	 info_dose_admin_json   = excluded.info_dose_admin_json,
	 interactions_json      = excluded.interactions_json,
	 adverse_reactions_json = excluded.adverse_reactions_json,
	 composition_json       = excluded.composition_json,
	 property_json          = excluded.property_json,
	 interactions_flat      = excluded.interactions_flat,
	 doc_xml                = excluded.doc_xml,
	 raw_xml_path           = excluded.raw_xml_path,
	 updated_at             = CURRENT_TIMESTAMP`

// UpsertRawRows writes one document's rows in a single transaction.
// Re-ingesting a document replaces its previous rows key-by-key.
func (s *Store) UpsertRawRows(rows []types.RawRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertRawSQL)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(
			r.PackageInsertNo, r.YJCode,
			nullable(r.CompanyIdentifier), nullable(r.PreparedYM),
			nullable(r.BrandNameJa), nullable(r.BrandNameHiragana), nullable(r.TrademarkEn),
			nullable(r.GenericNameJa), nullable(r.StandardNameJa), nullable(r.TherapeuticClassJa),
			nullable(r.ApprovalNo), nullable(r.StartMarketing),
			nullable(r.StorageMethod), nullable(r.ShelfLife),
			nullable(r.ApprovalEtcJSON), nullable(r.IndicationsJSON), nullable(r.InfoDoseAdminJSON),
			nullable(r.InteractionsJSON), nullable(r.AdverseReactionsJSON),
			nullable(r.CompositionJSON), nullable(r.PropertyJSON),
			nullable(r.InteractionsFlat), nullable(r.DocXML), nullable(r.RawXMLPath),
		)
		if err != nil {
			return fmt.Errorf("upserting %s/%s: %w", r.PackageInsertNo, r.YJCode, err)
		}
	}
	return tx.Commit()
}

// EachDocument streams (key, brand, document XML) for every rawdata row in
// key order, for the stages that re-parse stored documents.
func (s *Store) EachDocument(fn func(pkg, yj, brand, docXML string) error) error {
	rows, err := s.db.Query(`SELECT package_insert_no, yj_code, brand_name_ja, doc_xml
		FROM rawdata ORDER BY package_insert_no, yj_code`)
	if err != nil {
		return fmt.Errorf("querying rawdata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pkg, yj string
		var brand, docXML sql.NullString
		if err := rows.Scan(&pkg, &yj, &brand, &docXML); err != nil {
			return fmt.Errorf("scanning rawdata row: %w", err)
		}
		if err := fn(pkg, yj, brand.String, docXML.String); err != nil {
			return err
		}
	}
	return rows.Err()
}

// EachInteractionSource streams (key, flattened-interaction JSON) for every
// rawdata row that has interaction records.
func (s *Store) EachInteractionSource(fn func(pkg, yj, flatJSON string) error) error {
	rows, err := s.db.Query(`SELECT package_insert_no, yj_code, interactions_flat
		FROM rawdata WHERE interactions_flat IS NOT NULL
		ORDER BY package_insert_no, yj_code`)
	if err != nil {
		return fmt.Errorf("querying rawdata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pkg, yj, flat string
		if err := rows.Scan(&pkg, &yj, &flat); err != nil {
			return fmt.Errorf("scanning rawdata row: %w", err)
		}
		if err := fn(pkg, yj, flat); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountRawRows returns the number of rawdata rows.
func (s *Store) CountRawRows() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM rawdata`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting rawdata rows: %w", err)
	}
	return n, nil
}
