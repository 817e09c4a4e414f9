// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshintel/metascholar/internal/httputil"
	"github.com/meshintel/metascholar/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func testConfig() types.FetchConfig {
	cfg := types.DefaultSnapshotConfig().Fetch
	cfg.Timeout = 5 * time.Second
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 1000
	return cfg
}

// withServer points the client at an httptest server for the duration
// of the test.
func withServer(t *testing.T, handler http.HandlerFunc) *SemanticScholar {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	prev := semanticAPIBase
	semanticAPIBase = srv.URL
	t.Cleanup(func() { semanticAPIBase = prev })

	return NewSemanticScholar(testConfig())
}

func requireFetchError(t *testing.T, err error, kind Kind) {
	t.Helper()
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, kind, fe.Kind)
	assert.NotEmpty(t, fe.Message)
}

func TestFetchSuccess(t *testing.T) {
	var gotQuery, gotLimit, gotFields string
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotLimit = r.URL.Query().Get("limit")
		gotFields = r.URL.Query().Get("fields")
		w.Write([]byte(`{
			"total": 2,
			"offset": 0,
			"data": [
				{
					"paperId": "p1",
					"title": "Exercise and Depression",
					"abstract": "A trial.",
					"year": 2022,
					"citationCount": 15,
					"venue": "The Lancet",
					"url": "https://example.org/p1",
					"authors": [{"authorId": "a1", "name": "A. Smith"}]
				},
				{
					"paperId": "p2",
					"title": "Second Paper",
					"year": null,
					"citationCount": "7",
					"authors": []
				}
			]
		}`))
	})

	papers, err := client.Fetch(context.Background(), "exercise depression", 50)
	require.NoError(t, err)
	require.Len(t, papers, 2)

	assert.Equal(t, "exercise depression", gotQuery)
	assert.Equal(t, "50", gotLimit)
	assert.Equal(t, semanticFields, gotFields)

	first := papers[0]
	assert.Equal(t, "Exercise and Depression", first.Title)
	assert.Equal(t, "A trial.", first.Abstract)
	require.NotNil(t, first.Year)
	assert.Equal(t, 2022, *first.Year)
	require.NotNil(t, first.CitationCount)
	assert.Equal(t, 15, *first.CitationCount)
	assert.Equal(t, "The Lancet", first.Venue)
	assert.Equal(t, []types.Author{{AuthorID: "a1", Name: "A. Smith"}}, first.Authors)

	second := papers[1]
	assert.Nil(t, second.Year)
	require.NotNil(t, second.CitationCount)
	assert.Equal(t, 7, *second.CitationCount)
}

func TestFetchSendsAPIKey(t *testing.T) {
	var gotKey, gotAgent string
	cfg := testConfig()
	cfg.APIKey = "secret-key"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"data": [{"title": "t"}]}`))
	}))
	defer srv.Close()

	prev := semanticAPIBase
	semanticAPIBase = srv.URL
	defer func() { semanticAPIBase = prev }()

	_, err := NewSemanticScholar(cfg).Fetch(context.Background(), "q", 10)
	require.NoError(t, err)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, cfg.UserAgent, gotAgent)
}

func TestFetchRateLimited(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Fetch(context.Background(), "q", 10)
	requireFetchError(t, err, KindRateLimited)
}

func TestFetchServerError(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Fetch(context.Background(), "q", 10)
	requireFetchError(t, err, KindServerError)
}

func TestFetchUnexpectedStatus(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.Fetch(context.Background(), "q", 10)
	requireFetchError(t, err, KindServerError)
}

func TestFetchMalformedBody(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [`))
	})

	_, err := client.Fetch(context.Background(), "q", 10)
	requireFetchError(t, err, KindMalformed)
}

func TestFetchMissingDataField(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 0}`))
	})

	_, err := client.Fetch(context.Background(), "q", 10)
	requireFetchError(t, err, KindMalformed)
}

func TestFetchNoResults(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 0, "data": []}`))
	})

	_, err := client.Fetch(context.Background(), "nonsense query", 10)
	requireFetchError(t, err, KindNoResults)
}

func TestFetchNetworkError(t *testing.T) {
	// A closed server leaves nothing listening on the port.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	prev := semanticAPIBase
	semanticAPIBase = srv.URL
	defer func() { semanticAPIBase = prev }()

	_, err := NewSemanticScholar(testConfig()).Fetch(context.Background(), "q", 10)
	requireFetchError(t, err, KindNetwork)
}

func TestFetchTimeout(t *testing.T) {
	client := withServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx, "q", 10)
	requireFetchError(t, err, KindTimeout)
}

func TestErrorString(t *testing.T) {
	err := &Error{Kind: KindNoResults, Message: "nothing matched"}
	assert.Equal(t, "no_results: nothing matched", err.Error())

	var target *Error
	assert.True(t, errors.As(error(err), &target))
}

func TestOptionalInt(t *testing.T) {
	tests := []struct {
		name string
		json string
		want *int
	}{
		{"number", `2021`, types.IntPtr(2021)},
		{"zero", `0`, types.IntPtr(0)},
		{"float truncates", `2021.9`, types.IntPtr(2021)},
		{"numeric string", `"37"`, types.IntPtr(37)},
		{"null", `null`, nil},
		{"non-numeric string", `"n/a"`, nil},
		{"negative number", `-1`, nil},
		{"negative string", `"-12"`, nil},
		{"beyond int range", `1e300`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o optionalInt
			require.NoError(t, o.UnmarshalJSON([]byte(tt.json)))
			if tt.want == nil {
				assert.Nil(t, o.value)
			} else {
				require.NotNil(t, o.value)
				assert.Equal(t, *tt.want, *o.value)
			}
		})
	}
}
