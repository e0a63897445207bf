package config

import "errors"

// Configuration validation errors.
//
// Design decision: package-level sentinel errors rather than error values
// created inside Validate(). Callers can use errors.Is() for programmatic
// handling while the messages stay human-readable.
var (
	// ErrMissingDomain is returned when a collection request lacks a
	// target domain. This is the one hard failure the engine surfaces.
	ErrMissingDomain = errors.New("missing domain: a target domain is required")

	// ErrMissingCompany is returned when a collection request lacks a
	// company name; search queries cannot be built without it.
	ErrMissingCompany = errors.New("missing company name: required for search queries")

	// ErrInvalidMaxURLs is returned when the URL cap is not positive.
	ErrInvalidMaxURLs = errors.New("invalid max URLs: must be positive")

	// ErrInvalidMaxLoops is returned when the per-URL loop cap is not
	// positive. A zero cap would terminate every loop before its first
	// tool runs.
	ErrInvalidMaxLoops = errors.New("invalid max loops: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency bound is not
	// positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the body size limit is
	// negative. Use 0 for the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are requested.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
