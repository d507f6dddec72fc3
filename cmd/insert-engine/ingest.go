// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/insert-engine/internal/ingest"
	"github.com/pdiddy/insert-engine/internal/store"
	"github.com/pdiddy/insert-engine/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [docs-dir]",
	Short: "Parse distributed package-insert XML into the rawdata table",
	Long: `Ingest extracts ZIP archives under the docs directory in place, walks
every XML file, and stores one row per brand: first-layer fields as
columns, the major sections as serialized JSON, the flattened drug
interactions, and the full document XML for the later stages.

Files that fail to parse are recorded in logs/failed_files.csv and
skipped; re-running upserts over existing rows.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := ingestConfig(cmd, args)
	if cfg.DocsDir == "" {
		return fmt.Errorf("no docs directory: pass one as an argument or set ingest.docs_dir")
	}
	if _, err := os.Stat(cfg.DocsDir); err != nil {
		return fmt.Errorf("docs directory: %w", err)
	}

	st, err := store.Open(databaseConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := ingest.Run(st, cfg, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Files == 0 && summary.Failed > 0 {
		return fmt.Errorf("all %d file(s) failed; see %s", summary.Failed, summary.FailedCSV)
	}
	return nil
}

func ingestConfig(cmd *cobra.Command, args []string) types.IngestConfig {
	docsDir := ""
	if len(args) > 0 {
		docsDir = args[0]
	}
	if docsDir == "" {
		docsDir = viper.GetString("ingest.docs_dir")
	}

	logsDir, _ := cmd.Flags().GetString("logs-dir")
	if logsDir == "" {
		logsDir = viper.GetString("ingest.logs_dir")
	}

	return types.IngestConfig{
		DocsDir: docsDir,
		LogsDir: logsDir,
	}
}

func init() {
	ingestCmd.Flags().String("logs-dir", "", "directory for the failed-file report (default: logs)")

	rootCmd.AddCommand(ingestCmd)
}
