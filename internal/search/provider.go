package search

import (
	"context"
	"errors"
)

// ErrNoResults is returned by providers when a query yields nothing.
// Callers treat it as an empty page, not a failure.
var ErrNoResults = errors.New("no search results")

// Result is one search engine hit.
type Result struct {
	// Title is the result's headline text.
	Title string

	// URL is the landing page.
	URL string

	// Snippet is the engine's excerpt for the result.
	Snippet string
}

// Provider executes keyword queries against a search backend.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Search runs one query and returns up to maxResults hits.
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}
