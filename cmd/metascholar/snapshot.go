// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/metascholar/internal/fetch"
	"github.com/meshintel/metascholar/internal/pipeline"
	"github.com/meshintel/metascholar/pkg/types"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <query>",
	Short: "Fetch papers for a query and build a snapshot report",
	Long: `Snapshot fetches up to --n-papers papers matching the query from
Semantic Scholar, computes TF-IDF keywords (and optionally NMF topics) over
their titles and abstracts, and writes a single Markdown report with
overview statistics, ranked paper lists, and author/venue tables.

Optional exports place the raw paper table next to the report as YAML,
JSON, a SQLite database, or a CSL bibliography.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := snapshotConfig(cmd, args[0])

		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			logger = zerolog.Nop()
		}

		fetcher := fetch.NewSemanticScholar(cfg.Fetch)
		result, err := pipeline.Run(cmd.Context(), cfg, fetcher, logger)
		if err != nil {
			var fe *fetch.Error
			if errors.As(err, &fe) {
				fmt.Fprintf(os.Stderr, "\nNo report produced: %s\n", fe.Message)
			}
			return err
		}

		fmt.Printf("Report saved to: %s\n", result.ReportPath)
		for _, path := range result.Exports {
			fmt.Printf("Export saved to: %s\n", path)
		}
		return nil
	},
}

// snapshotConfig merges defaults, the config file, and flags, in
// increasing priority.
func snapshotConfig(cmd *cobra.Command, query string) types.SnapshotConfig {
	cfg := types.DefaultSnapshotConfig()
	cfg.Query = query

	if v := viper.GetInt("fetch.max_papers"); v > 0 {
		cfg.Fetch.MaxPapers = v
	}
	if v := viper.GetString("fetch.user_agent"); v != "" {
		cfg.Fetch.UserAgent = v
	}
	if v := viper.GetDuration("fetch.timeout"); v > 0 {
		cfg.Fetch.Timeout = v
	}
	if v := viper.GetFloat64("fetch.requests_per_second"); v > 0 {
		cfg.Fetch.RequestsPerSecond = v
	}
	if v := viper.GetInt("analysis.top_keywords"); v > 0 {
		cfg.Analysis.TopKeywords = v
	}
	if v := viper.GetInt("analysis.max_vocabulary"); v > 0 {
		cfg.Analysis.MaxVocabulary = v
	}
	if v := viper.GetInt("analysis.topic_count"); v > 0 {
		cfg.Analysis.TopicCount = v
	}
	if v := viper.GetString("report.out_dir"); v != "" {
		cfg.Report.OutDir = v
	}

	flags := cmd.Flags()
	if flags.Changed("n-papers") {
		cfg.Fetch.MaxPapers, _ = flags.GetInt("n-papers")
	}
	if flags.Changed("outdir") {
		cfg.Report.OutDir, _ = flags.GetString("outdir")
	}
	if flags.Changed("keywords") {
		cfg.Analysis.TopKeywords, _ = flags.GetInt("keywords")
	}
	if flags.Changed("vocab") {
		cfg.Analysis.MaxVocabulary, _ = flags.GetInt("vocab")
	}
	if flags.Changed("topic-count") {
		cfg.Analysis.TopicCount, _ = flags.GetInt("topic-count")
	}
	if flags.Changed("charts") {
		cfg.Report.IncludeCharts, _ = flags.GetBool("charts")
	}
	cfg.Analysis.EnableTopics, _ = flags.GetBool("topics")
	cfg.Export.YAML, _ = flags.GetBool("export-yaml")
	cfg.Export.JSON, _ = flags.GetBool("export-json")
	cfg.Export.Database, _ = flags.GetBool("export-db")
	cfg.Export.CSL, _ = flags.GetBool("export-csl")

	cfg.Fetch.APIKey = loadedSecrets.Get("semantic-scholar-api-key",
		viper.GetString("fetch.api_key"))

	return cfg
}

func init() {
	snapshotCmd.Flags().Int("n-papers", 100, "number of papers to fetch")
	snapshotCmd.Flags().String("outdir", "metascholar_output", "output directory for the report")
	snapshotCmd.Flags().Int("keywords", 20, "number of top keywords to report")
	snapshotCmd.Flags().Int("vocab", 5000, "TF-IDF vocabulary cap")
	snapshotCmd.Flags().Bool("topics", false, "run NMF topic extraction")
	snapshotCmd.Flags().Int("topic-count", 5, "number of latent topics")
	snapshotCmd.Flags().Bool("charts", true, "embed text charts in the report")
	snapshotCmd.Flags().Bool("export-yaml", false, "also write snapshot.yaml")
	snapshotCmd.Flags().Bool("export-json", false, "also write snapshot.json")
	snapshotCmd.Flags().Bool("export-db", false, "also write snapshot.db (SQLite)")
	snapshotCmd.Flags().Bool("export-csl", false, "also write references.yaml (CSL)")
	snapshotCmd.Flags().Bool("quiet", false, "suppress progress logging")

	rootCmd.AddCommand(snapshotCmd)
}
