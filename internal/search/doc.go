// Package search implements the agentic keyword-search phase.
//
// Queries run in fixed strategy phases (discovery, technical,
// competitive, investor), each phase building on what the previous ones
// yielded. When a phase underperforms, an adaptive follow-up phase is
// injected for the weakest category, bounded by the search depth cap.
// Results come from a pluggable Provider so tests and alternative
// engines can swap the backend.
package search
