// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the insert-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/insert-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the insert-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "insert-engine",
	Short: "Extraction and risk-labeling pipeline for drug package inserts",
	Long: `insert-engine processes the distributed SGML/XML package-insert data into
a local SQLite database. Each pipeline stage is a subcommand:

  ingest        parse the XML tree and store per-brand rows with serialized
                sections and flattened drug interactions
  interactions  rebuild the relational interaction table from stored rows
  women         extract pregnancy and nursing section text from stored documents
  label         classify the section text onto the 0-3 risk scale and assign
                simplified labels

Stages read their defaults from insert-engine.yaml and can be re-run
independently; derived tables are rebuilt from scratch each run.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./insert-engine.yaml or ~/.config/insert-engine/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default: insert-engine.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("insert-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "insert-engine"))
		}
	}

	viper.SetEnvPrefix("INSERT_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// databaseConfig resolves the database path: flag, then config file, then
// the built-in default.
func databaseConfig(cmd *cobra.Command) types.DatabaseConfig {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = viper.GetString("database.path")
	}
	return types.DatabaseConfig{Path: path}
}

// intSetting resolves an integer flag with a config-file fallback.
func intSetting(cmd *cobra.Command, flag, key string) int {
	v, _ := cmd.Flags().GetInt(flag)
	if v == 0 {
		v = viper.GetInt(key)
	}
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
