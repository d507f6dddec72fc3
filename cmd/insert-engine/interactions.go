// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/insert-engine/internal/store"
	"github.com/pdiddy/insert-engine/pkg/types"
)

var interactionsCmd = &cobra.Command{
	Use:   "interactions",
	Short: "Rebuild the relational interaction table from stored rows",
	Long: `Interactions reads the flattened drug-interaction JSON stored by the
ingest stage and regenerates the interaction table: one row per partner
substance and severity category, keyed back to its source row.

The table is dropped and rebuilt on every run.`,
	RunE: runInteractions,
}

func runInteractions(cmd *cobra.Command, args []string) error {
	st, err := store.Open(databaseConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	cfg := types.RebuildConfig{
		BatchSize:     intSetting(cmd, "batch-size", "interactions.batch_size"),
		ProgressEvery: intSetting(cmd, "progress-every", "interactions.progress_every"),
	}

	inserted, err := st.RebuildInteractions(cfg, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("interaction rows: %d\n", inserted)
	return nil
}

func init() {
	interactionsCmd.Flags().Int("batch-size", 0, "rows per transaction")
	interactionsCmd.Flags().Int("progress-every", 0, "rows between progress lines")

	rootCmd.AddCommand(interactionsCmd)
}
