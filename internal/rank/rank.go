// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank derives ordered views over the paper table. Every
// derivation treats its input as read-only, returns an independent
// slice, and degrades to an empty view when the data it keys on is
// missing. All sorts are stable, so ties keep original paper order and
// repeated calls produce identical output.
package rank

import (
	"sort"
	"strings"

	"github.com/meshintel/metascholar/pkg/types"
)

// AuthorCount is one row of the top-authors view.
type AuthorCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// VenueCount is one row of the top-venues view.
type VenueCount struct {
	Venue string `json:"venue" yaml:"venue"`
	Count int    `json:"count" yaml:"count"`
}

// RecommendedPaper is a paper with its blended recency+impact score.
type RecommendedPaper struct {
	types.Paper `yaml:",inline"`

	// MetaScore is 0.5*recency + 0.5*impact, always in [0, 1].
	MetaScore float64 `json:"meta_score" yaml:"meta_score"`
}

// MostCited returns the papers with a known citation count, highest
// first, capped at n.
func MostCited(papers []types.Paper, n int) []types.Paper {
	var out []types.Paper
	for _, p := range papers {
		if p.CitationCount != nil {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return *out[a].CitationCount > *out[b].CitationCount
	})
	return capPapers(out, n)
}

// MostRecent returns the papers with a known year, newest first, capped at n.
func MostRecent(papers []types.Paper, n int) []types.Paper {
	var out []types.Paper
	for _, p := range papers {
		if p.Year != nil {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return *out[a].Year > *out[b].Year
	})
	return capPapers(out, n)
}

// TopAuthors counts author-name occurrences across all papers and
// returns the n most frequent. Names match by exact string identity;
// there is no fuzzy merging of initials or spellings. Ties keep
// first-appearance order.
func TopAuthors(papers []types.Paper, n int) []AuthorCount {
	counts := make(map[string]int)
	var order []string
	for _, p := range papers {
		for _, name := range p.AuthorNames() {
			if counts[name] == 0 {
				order = append(order, name)
			}
			counts[name]++
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	if n >= 0 && len(order) > n {
		order = order[:n]
	}

	out := make([]AuthorCount, len(order))
	for i, name := range order {
		out[i] = AuthorCount{Name: name, Count: counts[name]}
	}
	return out
}

// TopVenues counts non-blank venue strings and returns the n most
// frequent. Papers with a missing or blank venue contribute nothing;
// there is no "unknown" bucket. Ties keep first-appearance order.
func TopVenues(papers []types.Paper, n int) []VenueCount {
	counts := make(map[string]int)
	var order []string
	for _, p := range papers {
		venue := strings.TrimSpace(p.Venue)
		if venue == "" {
			continue
		}
		if counts[venue] == 0 {
			order = append(order, venue)
		}
		counts[venue]++
	}

	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	if n >= 0 && len(order) > n {
		order = order[:n]
	}

	out := make([]VenueCount, len(order))
	for i, venue := range order {
		out[i] = VenueCount{Venue: venue, Count: counts[venue]}
	}
	return out
}

// RecommendedReads blends recency and citation impact into one score
// and returns the n best-scoring papers. Only papers with a known year
// participate; a missing citation count counts as zero rather than
// excluding the paper. Recency is (year-min)/(max-min) over the
// participating set, defined as 1.0 for every paper when all years are
// equal. Impact is citations/maxCitations, defined as 0.0 for every
// paper when no paper has citations.
func RecommendedReads(papers []types.Paper, n int) []RecommendedPaper {
	var pool []types.Paper
	for _, p := range papers {
		if p.Year != nil {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	minYear, maxYear := *pool[0].Year, *pool[0].Year
	maxCit := 0
	for _, p := range pool {
		if *p.Year < minYear {
			minYear = *p.Year
		}
		if *p.Year > maxYear {
			maxYear = *p.Year
		}
		if p.CitationCount != nil && *p.CitationCount > maxCit {
			maxCit = *p.CitationCount
		}
	}
	yearRange := maxYear - minYear

	out := make([]RecommendedPaper, len(pool))
	for i, p := range pool {
		recency := 1.0
		if yearRange > 0 {
			recency = float64(*p.Year-minYear) / float64(yearRange)
		}
		impact := 0.0
		if maxCit > 0 && p.CitationCount != nil {
			impact = float64(*p.CitationCount) / float64(maxCit)
		}
		out[i] = RecommendedPaper{Paper: p, MetaScore: 0.5*recency + 0.5*impact}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].MetaScore > out[b].MetaScore
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func capPapers(papers []types.Paper, n int) []types.Paper {
	if n >= 0 && len(papers) > n {
		return papers[:n]
	}
	return papers
}
