// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DatabaseConfig holds the location of the pipeline's SQLite database.
type DatabaseConfig struct {
	// Path is the database file path (default "insert-engine.db").
	Path string `json:"path" yaml:"path"`
}

// IngestConfig holds settings for the ingest stage.
type IngestConfig struct {
	// DocsDir is the root directory of the distributed SGML/XML data.
	// ZIP archives under it are extracted in place before the walk.
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// LogsDir is where the failed-file report is written (default "logs").
	LogsDir string `json:"logs_dir" yaml:"logs_dir"`
}

// RebuildConfig holds settings shared by the stages that scan stored rows
// and rebuild derived tables (interactions, women, label).
type RebuildConfig struct {
	// BatchSize is the number of rows written per transaction (default 500).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// ProgressEvery is the scan interval between progress lines (default 2000).
	ProgressEvery int `json:"progress_every" yaml:"progress_every"`
}

// LabelConfig holds settings for the label stage.
type LabelConfig struct {
	RebuildConfig `yaml:",inline"`

	// Scheme names the simplified label scheme (default "toranomon").
	Scheme string `json:"scheme" yaml:"scheme"`

	// PregnantRules optionally points to a YAML rule-table file that
	// replaces the built-in pregnancy rules.
	PregnantRules string `json:"pregnant_rules,omitempty" yaml:"pregnant_rules,omitempty"`

	// NursingRules optionally points to a YAML rule-table file that
	// replaces the built-in nursing rules.
	NursingRules string `json:"nursing_rules,omitempty" yaml:"nursing_rules,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Database     DatabaseConfig `json:"database" yaml:"database"`
	Ingest       IngestConfig   `json:"ingest" yaml:"ingest"`
	Interactions RebuildConfig  `json:"interactions" yaml:"interactions"`
	Women        RebuildConfig  `json:"women" yaml:"women"`
	Label        LabelConfig    `json:"label" yaml:"label"`
}
