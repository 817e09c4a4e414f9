// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/meshintel/metascholar/internal/fetch"
	"github.com/meshintel/metascholar/pkg/types"
)

// fakeFetcher returns canned papers or a canned error and records the
// query and limit it was asked for.
type fakeFetcher struct {
	papers []types.Paper
	err    error

	gotQuery string
	gotLimit int
}

func (f *fakeFetcher) Fetch(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	f.gotQuery = query
	f.gotLimit = limit
	return f.papers, f.err
}

func testPapers() []types.Paper {
	return []types.Paper{
		{
			Title:         "Exercise and Depression in Adults",
			Abstract:      "Aerobic exercise improves depressive symptoms.",
			Year:          types.IntPtr(2022),
			CitationCount: types.IntPtr(40),
			Authors:       []types.Author{{Name: "A. Smith"}},
			Venue:         "The Lancet",
		},
		{
			Title:         "Resistance Training and Mood",
			Abstract:      "Resistance training changes mood outcomes.",
			Year:          types.IntPtr(2020),
			CitationCount: types.IntPtr(12),
			Authors:       []types.Author{{Name: "B. Jones"}},
			Venue:         "JAMA",
		},
		{
			Title:         "Sleep Quality in Adolescents",
			Abstract:      "Sleep quality relates to depressive symptoms.",
			Year:          types.IntPtr(2023),
			CitationCount: types.IntPtr(3),
			Authors:       []types.Author{{Name: "A. Smith"}},
			Venue:         "The Lancet",
		},
	}
}

func testConfig(t *testing.T) types.SnapshotConfig {
	t.Helper()
	cfg := types.DefaultSnapshotConfig()
	cfg.Query = "exercise depression"
	cfg.Report.OutDir = t.TempDir()
	return cfg
}

func TestRunPropagatesFetchError(t *testing.T) {
	cfg := testConfig(t)
	wantErr := &fetch.Error{Kind: fetch.KindRateLimited, Message: "slow down"}

	result, err := Run(context.Background(), cfg, &fakeFetcher{err: wantErr}, zerolog.Nop())
	if result != nil {
		t.Errorf("result = %+v, want nil on fetch failure", result)
	}

	var fe *fetch.Error
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *fetch.Error", err)
	}
	if fe.Kind != fetch.KindRateLimited {
		t.Errorf("Kind = %q, want %q", fe.Kind, fetch.KindRateLimited)
	}

	// No report on a failed run.
	if _, statErr := os.Stat(filepath.Join(cfg.Report.OutDir, "report.md")); !os.IsNotExist(statErr) {
		t.Error("report.md written despite fetch failure")
	}
}

func TestRunEmptyFetchIsNoResults(t *testing.T) {
	cfg := testConfig(t)

	_, err := Run(context.Background(), cfg, &fakeFetcher{papers: []types.Paper{}}, zerolog.Nop())

	var fe *fetch.Error
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *fetch.Error", err)
	}
	if fe.Kind != fetch.KindNoResults {
		t.Errorf("Kind = %q, want %q", fe.Kind, fetch.KindNoResults)
	}
}

func TestRunWritesReport(t *testing.T) {
	cfg := testConfig(t)
	fetcher := &fakeFetcher{papers: testPapers()}

	result, err := Run(context.Background(), cfg, fetcher, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if fetcher.gotQuery != cfg.Query {
		t.Errorf("fetcher query = %q, want %q", fetcher.gotQuery, cfg.Query)
	}
	if fetcher.gotLimit != cfg.Fetch.MaxPapers {
		t.Errorf("fetcher limit = %d, want %d", fetcher.gotLimit, cfg.Fetch.MaxPapers)
	}

	if result.ReportPath != filepath.Join(cfg.Report.OutDir, "report.md") {
		t.Errorf("ReportPath = %q", result.ReportPath)
	}
	data, err := os.ReadFile(result.ReportPath)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		"# metaScholar Literature Snapshot",
		"**Query:** `exercise depression`",
		"- **Number of papers:** 3",
		"## Top Keywords",
		"## Recommended First Reads",
		"| 1 | A. Smith | 2 |",
		"| 1 | The Lancet | 2 |",
		"Exercise and Depression in Adults",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q", want)
		}
	}

	if len(result.Keywords) == 0 {
		t.Error("no keywords extracted")
	}
	if len(result.Papers) != 3 {
		t.Errorf("len(Papers) = %d, want 3", len(result.Papers))
	}
	if len(result.Exports) != 0 {
		t.Errorf("Exports = %v, want none by default", result.Exports)
	}
}

func TestRunTopicsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.EnableTopics = false

	result, err := Run(context.Background(), cfg, &fakeFetcher{papers: testPapers()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.TopicsAvailable || result.Topics != nil || result.DocTopics != nil {
		t.Errorf("topics produced while disabled: %+v", result)
	}
}

func TestRunTopicsUnavailableStillReports(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.EnableTopics = true
	cfg.Analysis.TopicCount = 50 // more topics than documents

	result, err := Run(context.Background(), cfg, &fakeFetcher{papers: testPapers()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.TopicsAvailable {
		t.Error("TopicsAvailable = true, want unavailable for tiny corpus")
	}
	if _, statErr := os.Stat(result.ReportPath); statErr != nil {
		t.Errorf("report not written when topics degrade: %v", statErr)
	}
}

func TestRunTopicsAvailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Analysis.EnableTopics = true
	cfg.Analysis.TopicCount = 2

	result, err := Run(context.Background(), cfg, &fakeFetcher{papers: testPapers()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.TopicsAvailable {
		t.Fatal("TopicsAvailable = false, want topics for this corpus")
	}
	if len(result.Topics) != 2 {
		t.Errorf("len(Topics) = %d, want 2", len(result.Topics))
	}
	if len(result.DocTopics) != len(testPapers()) {
		t.Errorf("len(DocTopics) = %d, want %d", len(result.DocTopics), len(testPapers()))
	}
}

func TestRunExports(t *testing.T) {
	cfg := testConfig(t)
	cfg.Export = types.ExportConfig{YAML: true, JSON: true, Database: true, CSL: true}

	result, err := Run(context.Background(), cfg, &fakeFetcher{papers: testPapers()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Exports) != 4 {
		t.Fatalf("len(Exports) = %d, want 4: %v", len(result.Exports), result.Exports)
	}
	for _, name := range []string{"snapshot.yaml", "snapshot.json", "snapshot.db", "references.yaml"} {
		path := filepath.Join(cfg.Report.OutDir, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("export %s missing: %v", name, err)
		}
	}
}

func TestRunTableSizeCapsSections(t *testing.T) {
	cfg := testConfig(t)
	cfg.Report.TableSize = 1

	result, err := Run(context.Background(), cfg, &fakeFetcher{papers: testPapers()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(result.ReportPath)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	cited := strings.Count(sectionBody(text, "Most Cited Papers"), "- **")
	if cited != 1 {
		t.Errorf("Most Cited Papers lists %d entries, want 1", cited)
	}
	recent := strings.Count(sectionBody(text, "Most Recent Papers"), "- **")
	if recent != 1 {
		t.Errorf("Most Recent Papers lists %d entries, want 1", recent)
	}
}

// sectionBody extracts the text between a section heading and the next
// heading or the end of the document.
func sectionBody(text, title string) string {
	start := strings.Index(text, "## "+title)
	if start < 0 {
		return ""
	}
	rest := text[start+len("## "+title):]
	if next := strings.Index(rest, "\n## "); next >= 0 {
		return rest[:next]
	}
	return rest
}
