// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/metascholar/pkg/types"
)

const (
	yamlFile = "snapshot.yaml"
	jsonFile = "snapshot.json"
)

// Snapshot is the on-disk record of one run: the query, the settings
// that produced it, the papers, and summary counts.
type Snapshot struct {
	Query    string          `json:"query" yaml:"query"`
	Settings Settings        `json:"settings" yaml:"settings"`
	Papers   []types.Paper   `json:"papers" yaml:"papers"`
	Summary  SnapshotSummary `json:"summary" yaml:"summary"`
}

// Settings stores the configuration that produced the snapshot.
type Settings struct {
	MaxPapers     int  `json:"max_papers" yaml:"max_papers"`
	TopKeywords   int  `json:"top_keywords" yaml:"top_keywords"`
	MaxVocabulary int  `json:"max_vocabulary" yaml:"max_vocabulary"`
	TopicsEnabled bool `json:"topics_enabled" yaml:"topics_enabled"`
	TopicCount    int  `json:"topic_count,omitempty" yaml:"topic_count,omitempty"`
}

// SnapshotSummary stores result statistics and a timestamp.
type SnapshotSummary struct {
	Total         int       `json:"total" yaml:"total"`
	WithYear      int       `json:"with_year" yaml:"with_year"`
	WithCitations int       `json:"with_citations" yaml:"with_citations"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
}

// NewSnapshot assembles a Snapshot for the given run.
func NewSnapshot(cfg types.SnapshotConfig, papers []types.Paper) Snapshot {
	summary := SnapshotSummary{Total: len(papers), Timestamp: time.Now().UTC()}
	for _, p := range papers {
		if p.Year != nil {
			summary.WithYear++
		}
		if p.CitationCount != nil {
			summary.WithCitations++
		}
	}
	return Snapshot{
		Query: cfg.Query,
		Settings: Settings{
			MaxPapers:     cfg.Fetch.MaxPapers,
			TopKeywords:   cfg.Analysis.TopKeywords,
			MaxVocabulary: cfg.Analysis.MaxVocabulary,
			TopicsEnabled: cfg.Analysis.EnableTopics,
			TopicCount:    cfg.Analysis.TopicCount,
		},
		Papers:  papers,
		Summary: summary,
	}
}

// WriteYAML saves the snapshot to dir/snapshot.yaml and returns the path.
func WriteYAML(dir string, snap Snapshot) (string, error) {
	data, err := yaml.Marshal(&snap)
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot YAML: %w", err)
	}
	return writeArtifact(dir, yamlFile, data)
}

// WriteJSON saves the snapshot to dir/snapshot.json and returns the path.
func WriteJSON(dir string, snap Snapshot) (string, error) {
	data, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot JSON: %w", err)
	}
	return writeArtifact(dir, jsonFile, data)
}

func writeArtifact(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}
