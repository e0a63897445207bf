package capability

import (
	"context"

	"github.com/orgscan/orgscan/internal/model"
)

// Result is what a capability produced for one URL: zero or more
// evidence items plus observations about the page that feed the next
// decision (e.g. hasJavaScript, securityHeaders).
type Result struct {
	// Evidence is the typed facts extracted from the page.
	Evidence []model.EvidenceItem

	// Characteristics is observations to merge into the page context.
	// Keys are free-form strings understood by the decision engine.
	Characteristics map[string]string
}

// Capability is a single collection tool. Implementations must be safe
// for concurrent use: the executor may run the same capability against
// different URLs in parallel.
//
// Collect must honor ctx cancellation and return partial results with
// an error rather than blocking past the deadline. A capability that
// finds nothing returns an empty Result and a nil error; errors are for
// operational failures (fetch failed, parse impossible), not for empty
// pages.
type Capability interface {
	// Name returns the capability's dispatch name (one of the tool
	// constants in the model package).
	Name() string

	// Collect runs the capability against the URL. The page context is
	// read-only from the capability's point of view: only the caller
	// mutates it, after Collect returns.
	Collect(ctx context.Context, url string, pc *model.PageContext) (*Result, error)
}
