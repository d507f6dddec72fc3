// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/insert-engine/internal/risk"
	"github.com/pdiddy/insert-engine/internal/store"
	"github.com/pdiddy/insert-engine/pkg/types"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Classify section text onto the 0-3 risk scale and assign labels",
	Long: `Label classifies the stored pregnancy and nursing texts with the ordered
rule tables (3 = must not administer ... 0 = unknown), extracts evidence
flags, and derives a bounded confidence. Scores and flags are written back
onto the women table; simplified scheme labels go into risk_labels.

Rule tables default to the built-in MHLW wording rules and can be replaced
with YAML files via --pregnant-rules / --nursing-rules.`,
	RunE: runLabel,
}

func runLabel(cmd *cobra.Command, args []string) error {
	cfg := labelConfig(cmd)

	labeler, err := risk.NewLabeler(cfg)
	if err != nil {
		return err
	}

	st, err := store.Open(databaseConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := labeler.Run(st, st, cfg, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("scanned=%d updated=%d labeled=%d\n",
		summary.Scanned, summary.Updated, summary.Upserted)
	return nil
}

func labelConfig(cmd *cobra.Command) types.LabelConfig {
	scheme, _ := cmd.Flags().GetString("scheme")
	if scheme == "" {
		scheme = viper.GetString("label.scheme")
	}
	pregnantRules, _ := cmd.Flags().GetString("pregnant-rules")
	if pregnantRules == "" {
		pregnantRules = viper.GetString("label.pregnant_rules")
	}
	nursingRules, _ := cmd.Flags().GetString("nursing-rules")
	if nursingRules == "" {
		nursingRules = viper.GetString("label.nursing_rules")
	}

	return types.LabelConfig{
		RebuildConfig: types.RebuildConfig{
			BatchSize:     intSetting(cmd, "batch-size", "label.batch_size"),
			ProgressEvery: intSetting(cmd, "progress-every", "label.progress_every"),
		},
		Scheme:        scheme,
		PregnantRules: pregnantRules,
		NursingRules:  nursingRules,
	}
}

func init() {
	labelCmd.Flags().String("scheme", "", "simplified label scheme name (default: toranomon)")
	labelCmd.Flags().String("pregnant-rules", "", "YAML rule-table file replacing the built-in pregnancy rules")
	labelCmd.Flags().String("nursing-rules", "", "YAML rule-table file replacing the built-in nursing rules")
	labelCmd.Flags().Int("batch-size", 0, "rows per transaction")
	labelCmd.Flags().Int("progress-every", 0, "rows between progress lines")

	rootCmd.AddCommand(labelCmd)
}
