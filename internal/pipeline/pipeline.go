// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one literature snapshot end to end: fetch,
// corpus building, keyword and topic extraction, ranking, report
// synthesis, and optional exports. The stages run strictly in
// sequence; a retrieval failure or an empty result stops the run
// before any analytics execute and no report is produced.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/meshintel/metascholar/internal/analysis"
	"github.com/meshintel/metascholar/internal/export"
	"github.com/meshintel/metascholar/internal/fetch"
	"github.com/meshintel/metascholar/internal/rank"
	"github.com/meshintel/metascholar/internal/report"
	"github.com/meshintel/metascholar/internal/textproc"
	"github.com/meshintel/metascholar/pkg/types"
)

// Result holds everything one snapshot run produced.
type Result struct {
	ReportPath string
	Papers     []types.Paper
	Keywords   []analysis.Keyword

	// Topics and DocTopics are nil when topic extraction was disabled
	// or unavailable for this corpus; TopicsAvailable tells them apart
	// from an empty-but-successful factorization.
	Topics          []analysis.Topic
	DocTopics       []int
	TopicsAvailable bool

	// Exports lists the paths of any extra artifacts written.
	Exports []string
}

// Run executes the snapshot pipeline for cfg.Query using fetcher as the
// retrieval collaborator. Retrieval failures propagate as *fetch.Error
// untouched; an empty-but-successful fetch is reported the same way.
func Run(ctx context.Context, cfg types.SnapshotConfig, fetcher fetch.Fetcher, logger zerolog.Logger) (*Result, error) {
	logger.Info().Str("query", cfg.Query).Int("limit", cfg.Fetch.MaxPapers).Msg("fetching papers")

	papers, err := fetcher.Fetch(ctx, cfg.Query, cfg.Fetch.MaxPapers)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, &fetch.Error{
			Kind:    fetch.KindNoResults,
			Message: fmt.Sprintf("no papers returned for query %q; try adjusting the query", cfg.Query),
		}
	}
	logger.Info().Int("papers", len(papers)).Msg("papers fetched")

	corpus := textproc.BuildCorpus(papers)
	nonEmpty := 0
	for _, doc := range corpus {
		if doc != "" {
			nonEmpty++
		}
	}
	logger.Info().Int("documents", len(corpus)).Int("non_empty", nonEmpty).Msg("corpus built")

	keywords := analysis.TopKeywords(corpus, cfg.Analysis.TopKeywords, cfg.Analysis.MaxVocabulary)
	logger.Info().Int("keywords", len(keywords)).Msg("keywords extracted")

	result := &Result{Papers: papers, Keywords: keywords}
	if cfg.Analysis.EnableTopics {
		topics, docTopics, ok := analysis.Topics(
			corpus, cfg.Analysis.TopicCount, cfg.Analysis.MaxVocabulary, cfg.Analysis.TopicTerms)
		result.Topics = topics
		result.DocTopics = docTopics
		result.TopicsAvailable = ok
		if ok {
			logger.Info().Int("topics", len(topics)).Msg("topics extracted")
		} else {
			logger.Warn().Msg("topic extraction unavailable for this corpus")
		}
	}

	doc := report.Build(report.Inputs{
		Query:       cfg.Query,
		Papers:      papers,
		Keywords:    keywords,
		Topics:      result.Topics,
		HasTopics:   result.TopicsAvailable,
		Recommended: rank.RecommendedReads(papers, cfg.Report.TableSize),
		TopAuthors:  rank.TopAuthors(papers, cfg.Report.AuthorTableSize),
		TopVenues:   rank.TopVenues(papers, cfg.Report.TableSize),
		MostCited:   rank.MostCited(papers, cfg.Report.TableSize),
		MostRecent:  rank.MostRecent(papers, cfg.Report.TableSize),
	}, cfg.Report)

	path, err := report.Write(doc, cfg.Report.OutDir)
	if err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	result.ReportPath = path
	logger.Info().Str("path", path).Msg("report written")

	if err := runExports(cfg, papers, result, logger); err != nil {
		return nil, err
	}
	return result, nil
}

func runExports(cfg types.SnapshotConfig, papers []types.Paper, result *Result, logger zerolog.Logger) error {
	dir := cfg.Report.OutDir

	if cfg.Export.YAML || cfg.Export.JSON {
		snap := export.NewSnapshot(cfg, papers)
		if cfg.Export.YAML {
			path, err := export.WriteYAML(dir, snap)
			if err != nil {
				return fmt.Errorf("exporting snapshot YAML: %w", err)
			}
			result.Exports = append(result.Exports, path)
		}
		if cfg.Export.JSON {
			path, err := export.WriteJSON(dir, snap)
			if err != nil {
				return fmt.Errorf("exporting snapshot JSON: %w", err)
			}
			result.Exports = append(result.Exports, path)
		}
	}

	if cfg.Export.Database {
		path, err := export.WriteDatabase(dir, cfg.Query, papers)
		if err != nil {
			return fmt.Errorf("exporting snapshot database: %w", err)
		}
		result.Exports = append(result.Exports, path)
	}

	if cfg.Export.CSL {
		path, err := export.WriteCSL(dir, papers)
		if err != nil {
			return fmt.Errorf("exporting bibliography: %w", err)
		}
		result.Exports = append(result.Exports, path)
	}

	for _, path := range result.Exports {
		logger.Info().Str("path", path).Msg("export written")
	}
	return nil
}
