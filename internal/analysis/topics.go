// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analysis

import (
	"math/rand"
	"sort"
	"strings"
)

// Topic is one latent topic: a zero-based index and its highest-weight
// terms, strongest first. Topic indices are stable only within one run.
type Topic struct {
	ID    int      `json:"id" yaml:"id"`
	Terms []string `json:"terms" yaml:"terms"`
}

const (
	// nmfSeed fixes the factorization initialization so repeated runs
	// on identical input yield bit-identical topics. This is a
	// documented contract, covered by tests.
	nmfSeed = 42

	nmfIterations = 200
	nmfEpsilon    = 1e-9
)

// Topics factorizes the corpus TF-IDF matrix into nTopics non-negative
// components and assigns each document its dominant topic. ok is false
// when the corpus cannot support a factorization: empty or all-blank
// corpus, fewer non-blank documents than nTopics, or an empty
// vocabulary. In that case both return slices are nil and the caller
// treats topics as unavailable rather than as an error.
func Topics(corpus []string, nTopics, maxVocab, nTopTerms int) (topics []Topic, docTopics []int, ok bool) {
	if nTopics <= 0 || len(corpus) == 0 {
		return nil, nil, false
	}

	nonBlank := 0
	for _, doc := range corpus {
		if strings.TrimSpace(doc) != "" {
			nonBlank++
		}
	}
	if nonBlank == 0 || nonBlank < nTopics {
		return nil, nil, false
	}

	v := fitVectorizer(corpus, maxVocab)
	if len(v.terms) == 0 {
		return nil, nil, false
	}

	w, h := factorize(v, nTopics)

	topics = make([]Topic, nTopics)
	for t := 0; t < nTopics; t++ {
		topics[t] = Topic{ID: t, Terms: topTerms(h[t], v.terms, nTopTerms)}
	}

	docTopics = make([]int, len(corpus))
	for i, row := range w {
		docTopics[i] = argmax(row)
	}
	return topics, docTopics, true
}

// factorize runs multiplicative-update NMF on the vectorizer's matrix,
// returning the document-topic matrix W (n x k) and the topic-term
// matrix H (k x m). All entries stay non-negative by construction.
func factorize(v *vectorizer, k int) (w, h [][]float64) {
	n := len(v.rows)
	m := len(v.terms)

	// Dense copy of the sparse tf-idf rows.
	x := make([][]float64, n)
	for i, row := range v.rows {
		x[i] = make([]float64, m)
		for j, val := range row {
			x[i][j] = val
		}
	}

	rng := rand.New(rand.NewSource(nmfSeed))
	w = randomMatrix(rng, n, k)
	h = randomMatrix(rng, k, m)

	for iter := 0; iter < nmfIterations; iter++ {
		// H <- H * (Wt X) / (Wt W H)
		wtx := matMulT(w, x, k, m)
		wtw := gram(w, k)
		wtwh := matMul(wtw, h, k, m)
		for t := 0; t < k; t++ {
			for j := 0; j < m; j++ {
				h[t][j] *= wtx[t][j] / (wtwh[t][j] + nmfEpsilon)
			}
		}

		// W <- W * (X Ht) / (W H Ht)
		xht := matMulBT(x, h, n, k)
		hht := gramRows(h, k)
		whht := matMul(w, hht, n, k)
		for i := 0; i < n; i++ {
			for t := 0; t < k; t++ {
				w[i][t] *= xht[i][t] / (whht[i][t] + nmfEpsilon)
			}
		}
	}
	return w, h
}

func randomMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = rng.Float64() + nmfEpsilon
		}
	}
	return m
}

// matMulT returns A^T B for A (n x k) and B (n x m): result is k x m.
func matMulT(a, b [][]float64, k, m int) [][]float64 {
	out := zeros(k, m)
	for i := range a {
		for t := 0; t < k; t++ {
			av := a[i][t]
			if av == 0 {
				continue
			}
			for j := 0; j < m; j++ {
				out[t][j] += av * b[i][j]
			}
		}
	}
	return out
}

// matMulBT returns A B^T for A (n x m) and B (k x m): result is n x k.
func matMulBT(a, b [][]float64, n, k int) [][]float64 {
	out := zeros(n, k)
	for i := 0; i < n; i++ {
		for t := 0; t < k; t++ {
			var sum float64
			for j := range a[i] {
				sum += a[i][j] * b[t][j]
			}
			out[i][t] = sum
		}
	}
	return out
}

// matMul returns A B for A (n x k) and B (k x m).
func matMul(a, b [][]float64, n, m int) [][]float64 {
	out := zeros(n, m)
	for i := 0; i < n; i++ {
		for t := range b {
			av := a[i][t]
			if av == 0 {
				continue
			}
			for j := 0; j < m; j++ {
				out[i][j] += av * b[t][j]
			}
		}
	}
	return out
}

// gram returns A^T A for A (n x k): result is k x k.
func gram(a [][]float64, k int) [][]float64 {
	out := zeros(k, k)
	for i := range a {
		for s := 0; s < k; s++ {
			for t := 0; t < k; t++ {
				out[s][t] += a[i][s] * a[i][t]
			}
		}
	}
	return out
}

// gramRows returns A A^T for A (k x m): result is k x k.
func gramRows(a [][]float64, k int) [][]float64 {
	out := zeros(k, k)
	for s := 0; s < k; s++ {
		for t := 0; t < k; t++ {
			var sum float64
			for j := range a[s] {
				sum += a[s][j] * a[t][j]
			}
			out[s][t] = sum
		}
	}
	return out
}

func zeros(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// topTerms returns the count highest-weighted vocabulary terms for one
// topic row, ties broken by vocabulary order.
func topTerms(weights []float64, terms []string, count int) []string {
	order := make([]int, len(weights))
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool {
		return weights[order[a]] > weights[order[b]]
	})
	if count > len(order) {
		count = len(order)
	}
	out := make([]string, count)
	for i := 0; i < count; i++ {
		out[i] = terms[order[i]]
	}
	return out
}

// argmax returns the index of the largest entry, the first one on ties.
func argmax(row []float64) int {
	best := 0
	for j := 1; j < len(row); j++ {
		if row[j] > row[best] {
			best = j
		}
	}
	return best
}
