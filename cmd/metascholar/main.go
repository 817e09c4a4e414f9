// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the metascholar CLI, a generator
// of literature-snapshot reports backed by the Semantic Scholar API.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/metascholar/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the metascholar CLI.
var rootCmd = &cobra.Command{
	Use:   "metascholar",
	Short: "Generate quick literature snapshot reports from Semantic Scholar",
	Long: `metascholar fetches a bounded set of papers for a search query, derives
keyword and topic statistics from their titles and abstracts, and renders a
single Markdown report: overview statistics, a keyword table, author and
venue frequency tables, and curated paper lists by citations, recency, and
a blended recommended-reads score.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./metascholar.yaml or ~/.config/metascholar/config.yaml)")
}

func initConfig() {
	// A .env file may carry METASCHOLAR_* variables; missing is fine.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("metascholar")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "metascholar"))
		}
	}

	viper.SetEnvPrefix("METASCHOLAR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
