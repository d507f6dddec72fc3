// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/insert-engine/internal/store"
	"github.com/pdiddy/insert-engine/internal/women"
	"github.com/pdiddy/insert-engine/pkg/types"
)

var womenCmd = &cobra.Command{
	Use:   "women",
	Short: "Extract pregnancy and nursing section text from stored documents",
	Long: `Women re-parses every stored document and extracts the pregnancy-use and
nursing-use narrative sections, matching section tags by local name since
their namespaces drift across document revisions. Japanese text is
preferred, deduplicated, and stored with the source element ids.

The women table is dropped and rebuilt on every run.`,
	RunE: runWomen,
}

func runWomen(cmd *cobra.Command, args []string) error {
	st, err := store.Open(databaseConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	cfg := types.RebuildConfig{
		BatchSize:     intSetting(cmd, "batch-size", "women.batch_size"),
		ProgressEvery: intSetting(cmd, "progress-every", "women.progress_every"),
	}

	summary, err := women.Build(st, st, cfg, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("scanned=%d upserted=%d parse_errors=%d\n",
		summary.Scanned, summary.Upserted, summary.ParseErrors)
	return nil
}

func init() {
	womenCmd.Flags().Int("batch-size", 0, "rows per transaction")
	womenCmd.Flags().Int("progress-every", 0, "rows between progress lines")

	rootCmd.AddCommand(womenCmd)
}
