// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline output in a local SQLite database: raw
// per-brand rows, the flattened interaction table, the women section table,
// and the simplified risk labels.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/insert-engine/pkg/types"
)

// Store wraps the pipeline database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at cfg.Path and ensures the schema.
func Open(cfg types.DatabaseConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "insert-engine.db"
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const (
	createRawdata = `CREATE TABLE IF NOT EXISTS rawdata (
		package_insert_no      TEXT NOT NULL,
		yj_code                TEXT NOT NULL,
		company_identifier     TEXT,
		prepared_ym            TEXT,
		brand_name_ja          TEXT,
		brand_name_hiragana    TEXT,
		trademark_en           TEXT,
		generic_name_ja        TEXT,
		standard_name_ja       TEXT,
		therapeutic_class_ja   TEXT,
		approval_no            TEXT,
		start_marketing        TEXT,
		storage_method         TEXT,
		shelf_life             TEXT,
		approval_etc_json      TEXT,
		indications_json       TEXT,
		info_dose_admin_json   TEXT,
		interactions_json      TEXT,
		adverse_reactions_json TEXT,
		composition_json       TEXT,
		property_json          TEXT,
		interactions_flat      TEXT,
		doc_xml                TEXT,
		raw_xml_path           TEXT,
		updated_at             TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (package_insert_no, yj_code)
	)`

	createInteraction = `CREATE TABLE IF NOT EXISTS interaction (
		id                   INTEGER PRIMARY KEY AUTOINCREMENT,
		package_insert_no    TEXT NOT NULL,
		yj_code              TEXT NOT NULL,
		section_type         TEXT,
		partner_group_ja     TEXT,
		partner_name_ja      TEXT,
		symptoms_measures_ja TEXT,
		mechanism_ja         TEXT,
		created_at           TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	createWomen = `CREATE TABLE IF NOT EXISTS women (
		package_insert_no TEXT NOT NULL,
		yj_code           TEXT NOT NULL,
		brand_name_ja     TEXT,
		pregnant_text     TEXT,
		nursing_text      TEXT,
		has_pregnant      BOOLEAN,
		has_nursing       BOOLEAN,
		src_ids           TEXT,
		pregnant_score    INTEGER,
		pregnant_rule     TEXT,
		nursing_score     INTEGER,
		nursing_rule      TEXT,
		overall_score     INTEGER,
		pregnant_evidence TEXT,
		nursing_evidence  TEXT,
		updated_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (package_insert_no, yj_code)
	)`

	createRiskLabels = `CREATE TABLE IF NOT EXISTS risk_labels (
		package_insert_no TEXT NOT NULL,
		yj_code           TEXT NOT NULL,
		scheme            TEXT NOT NULL,
		pregnant_label    TEXT,
		nursing_label     TEXT,
		pregnant_score    INTEGER,
		nursing_score     INTEGER,
		evidence_json     TEXT,
		updated_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (package_insert_no, yj_code, scheme)
	)`
)

func (s *Store) createSchema() error {
	statements := []string{
		createRawdata,
		`CREATE INDEX IF NOT EXISTS idx_rawdata_pkg ON rawdata(package_insert_no)`,
		`CREATE INDEX IF NOT EXISTS idx_rawdata_yj ON rawdata(yj_code)`,
		createInteraction,
		`CREATE INDEX IF NOT EXISTS idx_interaction_pkg ON interaction(package_insert_no)`,
		`CREATE INDEX IF NOT EXISTS idx_interaction_yj ON interaction(yj_code)`,
		`CREATE INDEX IF NOT EXISTS idx_interaction_partner ON interaction(partner_name_ja)`,
		createWomen,
		createRiskLabels,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// recreate drops and recreates one table plus its indexes, for the rebuild
// stages that regenerate derived tables from scratch.
func (s *Store) recreate(table string, statements ...string) error {
	if _, err := s.db.Exec(`DROP TABLE IF EXISTS ` + table); err != nil {
		return fmt.Errorf("dropping %s: %w", table, err)
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("recreating %s: %w", table, err)
		}
	}
	return nil
}

// nullable maps "" to NULL so optional text columns stay queryable with
// IS NULL, matching the reference schema's use of nullable columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
