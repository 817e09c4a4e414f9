// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report assembles the literature-snapshot document. The
// builder owns document assembly exclusively: upstream stages hand it
// their finished tables and never touch the output artifact. Every
// section of the report is always present; a section whose input is
// missing carries a one-line placeholder instead of being omitted.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/meshintel/metascholar/internal/analysis"
	"github.com/meshintel/metascholar/internal/rank"
	"github.com/meshintel/metascholar/pkg/types"
)

const (
	reportTitle = "metaScholar Literature Snapshot"
	reportFile  = "report.md"
)

// Inputs collects everything the report draws on. Zero-valued fields
// degrade to placeholders; none of them are required.
type Inputs struct {
	Query       string
	Papers      []types.Paper
	Keywords    []analysis.Keyword
	Topics      []analysis.Topic
	HasTopics   bool
	Recommended []rank.RecommendedPaper
	TopAuthors  []rank.AuthorCount
	TopVenues   []rank.VenueCount
	MostCited   []types.Paper
	MostRecent  []types.Paper
}

// Section is one independently rendered block of the report.
type Section struct {
	Title string
	Body  []string
}

// Document is the assembled report: header, ordered sections, footer.
// It is built once per run and not mutated afterwards.
type Document struct {
	Title    string
	Query    string
	Sections []Section
}

// Build assembles the snapshot document in the fixed section order:
// overview, keywords, time trend, recommended reads, authors, venues,
// most cited, most recent.
func Build(in Inputs, cfg types.ReportConfig) Document {
	return Document{
		Title: reportTitle,
		Query: in.Query,
		Sections: []Section{
			overviewSection(in.Papers),
			keywordSection(in, cfg),
			timeTrendSection(in.Papers, cfg),
			recommendedSection(in.Recommended),
			authorSection(in.TopAuthors),
			venueSection(in.TopVenues),
			mostCitedSection(in.MostCited),
			mostRecentSection(in.MostRecent),
		},
	}
}

// Render returns the document as Markdown text.
func Render(doc Document) string {
	var lines []string
	lines = append(lines, "# "+doc.Title, "")
	if doc.Query != "" {
		lines = append(lines, fmt.Sprintf("**Query:** `%s`", doc.Query), "")
	}
	for _, s := range doc.Sections {
		lines = append(lines, "## "+s.Title, "")
		lines = append(lines, s.Body...)
		lines = append(lines, "")
	}
	lines = append(lines, "---", "_Generated by metaScholar._", "")
	return strings.Join(lines, "\n")
}

// Write renders doc into outDir/report.md, creating outDir if needed.
// The document is written to a temporary file in the same directory and
// renamed into place, so readers either see the complete report or the
// previous one, never a partial write. Returns the written path.
func Write(doc Document, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(outDir, ".report-*.md")
	if err != nil {
		return "", fmt.Errorf("creating temp report: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(Render(doc)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing report: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("setting report permissions: %w", err)
	}

	path := filepath.Join(outDir, reportFile)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("placing report: %w", err)
	}
	return path, nil
}

// --- sections ---

func overviewSection(papers []types.Paper) Section {
	body := []string{fmt.Sprintf("- **Number of papers:** %d", len(papers))}
	if minYear, maxYear, ok := yearRange(papers); ok {
		body = append(body, fmt.Sprintf("- **Year range:** %d–%d", minYear, maxYear))
	}
	if median, maxCit, ok := citationStats(papers); ok {
		body = append(body, fmt.Sprintf("- **Citations (median / max):** %.1f / %.1f", median, maxCit))
	}
	return Section{Title: "Overview", Body: body}
}

func keywordSection(in Inputs, cfg types.ReportConfig) Section {
	if len(in.Keywords) == 0 {
		return Section{Title: "Top Keywords", Body: []string{"_No keyword statistics available._"}}
	}

	body := []string{
		"The most prominent terms across titles and abstracts (by TF-IDF score):",
		"",
		"| Rank | Term | Score |",
		"|------|------|-------|",
	}
	for i, kw := range in.Keywords {
		body = append(body, fmt.Sprintf("| %d | %s | %.4f |", i+1, kw.Term, kw.Score))
	}

	if cfg.IncludeCharts {
		labels := make([]string, len(in.Keywords))
		values := make([]float64, len(in.Keywords))
		for i, kw := range in.Keywords {
			labels[i] = kw.Term
			values[i] = kw.Score
		}
		body = append(body, "")
		body = append(body, barChart(labels, values, "%.4f")...)
	}

	if in.HasTopics && len(in.Topics) > 0 {
		body = append(body, "", "Latent topic sketch (non-negative factorization over the same corpus):", "")
		for _, t := range in.Topics {
			body = append(body, fmt.Sprintf("- Topic %d: %s", t.ID+1, strings.Join(t.Terms, ", ")))
		}
	}
	return Section{Title: "Top Keywords", Body: body}
}

func timeTrendSection(papers []types.Paper, cfg types.ReportConfig) Section {
	years, counts := papersPerYear(papers)
	if len(years) == 0 {
		return Section{Title: "Time Trend", Body: []string{"_No year information available to plot._"}}
	}

	body := []string{"Distribution of papers over publication years in this query:", ""}
	if cfg.IncludeCharts {
		labels := make([]string, len(years))
		values := make([]float64, len(years))
		for i, y := range years {
			labels[i] = fmt.Sprintf("%d", y)
			values[i] = float64(counts[i])
		}
		body = append(body, barChart(labels, values, "%.0f")...)
	} else {
		body = append(body, "| Year | Papers |", "|------|--------|")
		for i, y := range years {
			body = append(body, fmt.Sprintf("| %d | %d |", y, counts[i]))
		}
	}
	return Section{Title: "Time Trend", Body: body}
}

func recommendedSection(recommended []rank.RecommendedPaper) Section {
	if len(recommended) == 0 {
		return Section{Title: "Recommended First Reads", Body: []string{"_Not enough data to compute recommended reads._"}}
	}

	body := []string{"Papers ranked by a combined score of recency and citation impact:", ""}
	for _, r := range recommended {
		cits := 0
		if r.CitationCount != nil {
			cits = *r.CitationCount
		}
		body = append(body, fmt.Sprintf("- **%s** (%s) — citations: %d, score: %.3f",
			strings.TrimSpace(r.Title), yearLabel(r.Year), cits, r.MetaScore))
		if url := strings.TrimSpace(r.URL); url != "" {
			body = append(body, "  - "+url)
		}
	}
	return Section{Title: "Recommended First Reads", Body: body}
}

func authorSection(authors []rank.AuthorCount) Section {
	if len(authors) == 0 {
		return Section{Title: "Top Authors", Body: []string{"_Author information not available or not parseable._"}}
	}

	body := []string{
		"Authors appearing most frequently across this query:",
		"",
		"| Rank | Author | # Papers |",
		"|------|--------|----------|",
	}
	for i, a := range authors {
		body = append(body, fmt.Sprintf("| %d | %s | %d |", i+1, a.Name, a.Count))
	}
	return Section{Title: "Top Authors", Body: body}
}

func venueSection(venues []rank.VenueCount) Section {
	if len(venues) == 0 {
		return Section{Title: "Top Journals / Venues", Body: []string{"_Journal / venue information not available._"}}
	}

	body := []string{
		"Most common journals or venues in this query:",
		"",
		"| Rank | Journal / Venue | # Papers |",
		"|------|-----------------|----------|",
	}
	for i, v := range venues {
		body = append(body, fmt.Sprintf("| %d | %s | %d |", i+1, v.Venue, v.Count))
	}
	return Section{Title: "Top Journals / Venues", Body: body}
}

func mostCitedSection(papers []types.Paper) Section {
	if len(papers) == 0 {
		return Section{Title: "Most Cited Papers", Body: []string{"_Citation data not available._"}}
	}
	return Section{Title: "Most Cited Papers", Body: paperList(papers)}
}

func mostRecentSection(papers []types.Paper) Section {
	if len(papers) == 0 {
		return Section{Title: "Most Recent Papers", Body: []string{"_Year information not available._"}}
	}
	return Section{Title: "Most Recent Papers", Body: paperList(papers)}
}

func paperList(papers []types.Paper) []string {
	var body []string
	for _, p := range papers {
		body = append(body, fmt.Sprintf("- **%s** (%s) — citations: %s",
			strings.TrimSpace(p.Title), yearLabel(p.Year), citationLabel(p.CitationCount)))
		if url := strings.TrimSpace(p.URL); url != "" {
			body = append(body, "  - "+url)
		}
	}
	return body
}

// --- small numeric helpers ---

func yearLabel(year *int) string {
	if year == nil {
		return "NA"
	}
	return fmt.Sprintf("%d", *year)
}

func citationLabel(cits *int) string {
	if cits == nil {
		return "NA"
	}
	return fmt.Sprintf("%d", *cits)
}

// yearRange returns the min and max known publication years.
func yearRange(papers []types.Paper) (minYear, maxYear int, ok bool) {
	for _, p := range papers {
		if p.Year == nil {
			continue
		}
		if !ok {
			minYear, maxYear = *p.Year, *p.Year
			ok = true
			continue
		}
		if *p.Year < minYear {
			minYear = *p.Year
		}
		if *p.Year > maxYear {
			maxYear = *p.Year
		}
	}
	return minYear, maxYear, ok
}

// citationStats returns the median and max over known citation counts.
func citationStats(papers []types.Paper) (median, maxCit float64, ok bool) {
	var counts []int
	for _, p := range papers {
		if p.CitationCount != nil {
			counts = append(counts, *p.CitationCount)
		}
	}
	if len(counts) == 0 {
		return 0, 0, false
	}

	sort.Ints(counts)
	mid := len(counts) / 2
	if len(counts)%2 == 1 {
		median = float64(counts[mid])
	} else {
		median = float64(counts[mid-1]+counts[mid]) / 2
	}
	return median, float64(counts[len(counts)-1]), true
}

// papersPerYear returns the ascending known years and their paper counts.
func papersPerYear(papers []types.Paper) ([]int, []int) {
	byYear := make(map[int]int)
	for _, p := range papers {
		if p.Year != nil {
			byYear[*p.Year]++
		}
	}
	if len(byYear) == 0 {
		return nil, nil
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	counts := make([]int, len(years))
	for i, y := range years {
		counts[i] = byYear[y]
	}
	return years, counts
}
