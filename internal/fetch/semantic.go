// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/meshintel/metascholar/internal/httputil"
	"github.com/meshintel/metascholar/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,year,citationCount,authors,url,venue"

// SemanticScholar queries the Semantic Scholar Graph API.
type SemanticScholar struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     types.FetchConfig
}

// NewSemanticScholar builds a client from cfg. Zero-valued rate
// settings fall back to one request per second with no burst.
func NewSemanticScholar(cfg types.FetchConfig) *SemanticScholar {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &SemanticScholar{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		cfg:     cfg,
	}
}

// Fetch queries the API and returns the matching papers in API order.
// Failures are classified into the Error taxonomy; the caller gets
// either a non-empty paper collection or a *Error, never both.
func (s *SemanticScholar) Fetch(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	if limit <= 0 {
		limit = 100
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &Error{Kind: KindTimeout, Message: "gave up waiting for a rate-limit slot: " + err.Error()}
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "building request: " + err.Error()}
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	if s.cfg.APIKey != "" {
		req.Header.Set("x-api-key", s.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, s.client, req, 0)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &Error{
			Kind:    KindRateLimited,
			Message: "Semantic Scholar is rate-limiting requests; try again in 30-60 seconds or reduce the paper limit",
		}
	case resp.StatusCode >= 500:
		return nil, &Error{
			Kind:    KindServerError,
			Message: fmt.Sprintf("Semantic Scholar servers are unavailable (HTTP %d); try again later", resp.StatusCode),
		}
	case resp.StatusCode != http.StatusOK:
		return nil, &Error{
			Kind:    KindServerError,
			Message: fmt.Sprintf("Semantic Scholar returned an unexpected status %d; check the query or try again later", resp.StatusCode),
		}
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &Error{
			Kind:    KindMalformed,
			Message: "Semantic Scholar returned a response that could not be parsed; try again in a moment",
		}
	}
	if sr.Data == nil {
		return nil, &Error{
			Kind:    KindMalformed,
			Message: "Semantic Scholar returned an unexpected response format; try again later or modify the query",
		}
	}
	if len(sr.Data) == 0 {
		return nil, &Error{
			Kind:    KindNoResults,
			Message: fmt.Sprintf("no papers found for query %q; try a broader or simpler search term", query),
		}
	}

	papers := make([]types.Paper, len(sr.Data))
	for i, sp := range sr.Data {
		papers[i] = sp.toPaper()
	}
	return papers, nil
}

// classifyTransport maps transport-level errors onto the failure taxonomy.
func classifyTransport(err error) *Error {
	var ue *url.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ue) && ue.Timeout()) {
		return &Error{
			Kind:    KindTimeout,
			Message: "the request to Semantic Scholar timed out; their servers may be overloaded, try again shortly",
		}
	}
	return &Error{
		Kind:    KindNetwork,
		Message: "could not connect to Semantic Scholar; check your internet connection or try again later",
	}
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string           `json:"paperId"`
	Title         string           `json:"title"`
	Abstract      string           `json:"abstract"`
	Year          optionalInt      `json:"year"`
	CitationCount optionalInt      `json:"citationCount"`
	Venue         string           `json:"venue"`
	URL           string           `json:"url"`
	Authors       []semanticAuthor `json:"authors"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

func (p semanticPaper) toPaper() types.Paper {
	paper := types.Paper{
		Title:         p.Title,
		Abstract:      p.Abstract,
		Year:          p.Year.value,
		CitationCount: p.CitationCount.value,
		Venue:         p.Venue,
		URL:           p.URL,
	}
	for _, a := range p.Authors {
		paper.Authors = append(paper.Authors, types.Author{AuthorID: a.AuthorID, Name: a.Name})
	}
	return paper
}

// optionalInt decodes a JSON number, numeric string, or null into an
// optional int. Anything unparseable decodes to nil: a field that
// fails numeric coercion is absent for ranking purposes, never fatal.
// Years and citation counts are non-negative or unknown, so negative
// and out-of-range values also decode to nil.
type optionalInt struct {
	value *int
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f <= math.MaxInt32 {
		v := int(f)
		o.value = &v
	}
	return nil
}
