// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves paper records from the Semantic Scholar API.
// The rest of the pipeline depends only on the Fetcher interface and
// the typed Error; any retrieval failure stops the run before any
// analytics execute.
package fetch

import (
	"context"

	"github.com/meshintel/metascholar/pkg/types"
)

// Kind classifies a retrieval failure.
type Kind string

const (
	KindRateLimited Kind = "rate_limited"
	KindServerError Kind = "server_error"
	KindMalformed   Kind = "malformed_response"
	KindNoResults   Kind = "no_results"
	KindNetwork     Kind = "network"
	KindTimeout     Kind = "timeout"
)

// Error is a typed retrieval failure carrying user-facing advice.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Fetcher returns the papers matching query, capped at limit, in the
// order the source ranked them. It returns a *Error on failure; an
// empty successful result is reported as a KindNoResults failure so
// callers never run the pipeline on nothing.
type Fetcher interface {
	Fetch(ctx context.Context, query string, limit int) ([]types.Paper, error)
}
