// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "metascholar/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the paper retrieval stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxPapers caps how many papers one snapshot fetches (default 100).
	MaxPapers int `json:"max_papers" yaml:"max_papers"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RequestsPerSecond throttles outgoing API calls (default 1).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// Burst is the rate limiter burst size (default 1).
	Burst int `json:"burst" yaml:"burst"`
}

// AnalysisConfig holds settings for keyword and topic extraction.
type AnalysisConfig struct {
	// TopKeywords is the keyword table length (default 20).
	TopKeywords int `json:"top_keywords" yaml:"top_keywords"`

	// MaxVocabulary caps the TF-IDF vocabulary at the most frequent
	// terms (default 5000).
	MaxVocabulary int `json:"max_vocabulary" yaml:"max_vocabulary"`

	// EnableTopics switches NMF topic extraction on.
	EnableTopics bool `json:"enable_topics" yaml:"enable_topics"`

	// TopicCount is the number of latent topics to extract (default 5).
	TopicCount int `json:"topic_count" yaml:"topic_count"`

	// TopicTerms is how many terms label each topic (default 8).
	TopicTerms int `json:"topic_terms" yaml:"topic_terms"`
}

// ReportConfig holds settings for report synthesis.
type ReportConfig struct {
	// OutDir is the directory the report is written into (default
	// "metascholar_output"). It is created if missing.
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// TableSize is the row cap for the cited/recent/recommended/venue
	// tables (default 10).
	TableSize int `json:"table_size" yaml:"table_size"`

	// AuthorTableSize is the row cap for the author table (default 15).
	AuthorTableSize int `json:"author_table_size" yaml:"author_table_size"`

	// IncludeCharts embeds text bar charts for keywords and the
	// papers-per-year trend. The report stays a single file either way.
	IncludeCharts bool `json:"include_charts" yaml:"include_charts"`
}

// ExportConfig selects optional snapshot artifacts written next to the report.
type ExportConfig struct {
	// YAML writes snapshot.yaml: query, settings, papers, and summary.
	YAML bool `json:"yaml" yaml:"yaml"`

	// JSON writes snapshot.json with the same content as snapshot.yaml.
	JSON bool `json:"json" yaml:"json"`

	// Database writes snapshot.db, a SQLite database of the paper table.
	Database bool `json:"database" yaml:"database"`

	// CSL writes references.yaml, a CSL-YAML bibliography of the papers.
	CSL bool `json:"csl" yaml:"csl"`
}

// SnapshotConfig groups all stage configurations for one snapshot run.
type SnapshotConfig struct {
	// Query is the search query. It is passed to the fetch stage and
	// echoed in the report header; analytics never see it.
	Query string `json:"query" yaml:"query"`

	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Report   ReportConfig   `json:"report" yaml:"report"`
	Export   ExportConfig   `json:"export" yaml:"export"`
}

// DefaultSnapshotConfig returns a SnapshotConfig with the documented defaults.
func DefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   10 * time.Second,
				UserAgent: "metascholar/0.1",
			},
			MaxPapers:         100,
			RequestsPerSecond: 1,
			Burst:             1,
		},
		Analysis: AnalysisConfig{
			TopKeywords:   20,
			MaxVocabulary: 5000,
			TopicCount:    5,
			TopicTerms:    8,
		},
		Report: ReportConfig{
			OutDir:          "metascholar_output",
			TableSize:       10,
			AuthorTableSize: 15,
			IncludeCharts:   true,
		},
	}
}
