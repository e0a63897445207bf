// Package fetch provides page retrieval for the collection engine.
//
// Two fetchers are available: a plain HTTP fetcher with redirect
// following, body limits, and a politeness rate limiter, and a rendered
// fetcher that drives a headless browser for JavaScript-heavy pages.
// Both satisfy the Fetcher interface so capabilities and discovery are
// testable with in-memory fakes.
package fetch
