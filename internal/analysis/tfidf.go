// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis derives keyword and topic signals from a cleaned
// text corpus. Both extractors share one TF-IDF vectorization and are
// deterministic: the same corpus and parameters always yield the same
// tables.
package analysis

import (
	"math"
	"sort"
	"strings"
)

// Keyword is one corpus-level term with its aggregate TF-IDF score.
type Keyword struct {
	Term  string  `json:"term" yaml:"term"`
	Score float64 `json:"score" yaml:"score"`
}

// minTermLen drops single-character tokens from the vocabulary; they
// carry no keyword signal.
const minTermLen = 2

// vectorizer is a fitted TF-IDF model: an alphabetical vocabulary and
// one sparse, L2-normalized weight row per document.
type vectorizer struct {
	terms []string          // vocabulary, sorted ascending
	index map[string]int    // term -> vocabulary position
	rows  []map[int]float64 // per-document tf-idf weights
}

// fitVectorizer builds the TF-IDF matrix for corpus. The vocabulary is
// capped at the maxVocab most frequent terms (ties alphabetical) and
// then ordered alphabetically, so vocabulary positions are a
// deterministic tie-break key. IDF is smoothed: ln((1+n)/(1+df)) + 1.
func fitVectorizer(corpus []string, maxVocab int) *vectorizer {
	totals := make(map[string]int)
	docTokens := make([][]string, len(corpus))
	for i, doc := range corpus {
		for _, tok := range strings.Fields(doc) {
			if len(tok) < minTermLen {
				continue
			}
			docTokens[i] = append(docTokens[i], tok)
			totals[tok]++
		}
	}

	terms := make([]string, 0, len(totals))
	for t := range totals {
		terms = append(terms, t)
	}
	if maxVocab > 0 && len(terms) > maxVocab {
		sort.Slice(terms, func(a, b int) bool {
			if totals[terms[a]] != totals[terms[b]] {
				return totals[terms[a]] > totals[terms[b]]
			}
			return terms[a] < terms[b]
		})
		terms = terms[:maxVocab]
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for j, t := range terms {
		index[t] = j
	}

	counts := make([]map[int]int, len(corpus))
	df := make([]int, len(terms))
	for i, toks := range docTokens {
		c := make(map[int]int)
		for _, tok := range toks {
			if j, ok := index[tok]; ok {
				c[j]++
			}
		}
		for j := range c {
			df[j]++
		}
		counts[i] = c
	}

	n := float64(len(corpus))
	idf := make([]float64, len(terms))
	for j, d := range df {
		idf[j] = math.Log((1+n)/(1+float64(d))) + 1
	}

	rows := make([]map[int]float64, len(corpus))
	for i, c := range counts {
		// Accumulate in ascending vocabulary order so the norm sums in a
		// fixed floating-point order and weights are bit-identical across
		// runs.
		cols := make([]int, 0, len(c))
		for j := range c {
			cols = append(cols, j)
		}
		sort.Ints(cols)

		row := make(map[int]float64, len(c))
		var norm float64
		for _, j := range cols {
			w := float64(c[j]) * idf[j]
			row[j] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		rows[i] = row
	}

	return &vectorizer{terms: terms, index: index, rows: rows}
}

// TopKeywords ranks corpus terms by their TF-IDF weight summed over all
// documents and returns at most topN of them, highest first. Ties keep
// vocabulary (alphabetical) order. An empty or all-blank corpus yields
// an empty table, never an error.
func TopKeywords(corpus []string, topN, maxVocab int) []Keyword {
	if len(corpus) == 0 || topN <= 0 {
		return nil
	}

	v := fitVectorizer(corpus, maxVocab)
	if len(v.terms) == 0 {
		return nil
	}

	scores := make([]float64, len(v.terms))
	for _, row := range v.rows {
		for j, w := range row {
			scores[j] += w
		}
	}

	order := make([]int, len(v.terms))
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if len(order) > topN {
		order = order[:topN]
	}

	table := make([]Keyword, len(order))
	for i, j := range order {
		table[i] = Keyword{Term: v.terms[j], Score: scores[j]}
	}
	return table
}
