package model

import "time"

// Depth presets scale how aggressively the engine collects.
const (
	// DepthShallow bounds the run to a quick first pass.
	DepthShallow = "shallow"

	// DepthDeep is the default balanced preset.
	DepthDeep = "deep"

	// DepthComprehensive raises every cap for a thorough run.
	DepthComprehensive = "comprehensive"
)

// Investment thesis tags. A thesis shapes which search queries run and
// which categories matter most; it is optional and free-form, but these
// values get dedicated query strategies.
const (
	ThesisOrganicGrowth         = "accelerate-organic-growth"
	ThesisBuyAndBuild           = "buy-and-build"
	ThesisDigitalTransformation = "digital-transformation"
)

// CollectionRequest describes one collection run.
type CollectionRequest struct {
	// Domain is the target organization's primary domain (required).
	Domain string `json:"domain"`

	// CompanyName is the organization's name, used in search queries
	// (required).
	CompanyName string `json:"company_name"`

	// Thesis optionally tags the run with an investment thesis that
	// shapes search strategy.
	Thesis string `json:"thesis,omitempty"`

	// Depth selects a collection preset. Empty means DepthDeep.
	Depth string `json:"depth,omitempty"`
}

// Summary aggregates run-level statistics for the caller.
type Summary struct {
	// TotalActions is the number of audit entries recorded.
	TotalActions int `json:"total_actions"`

	// EvidenceByPhase counts collected items per collection phase.
	EvidenceByPhase map[string]int `json:"evidence_by_phase"`

	// EvidenceByTool counts collected items per capability.
	EvidenceByTool map[string]int `json:"evidence_by_tool"`

	// CoveragePercentage is the fraction (0-100) of tracked categories
	// with at least a minimal signal.
	CoveragePercentage float64 `json:"coverage_percentage"`

	// MissingCategories lists tracked categories with no evidence at all.
	MissingCategories []string `json:"missing_categories"`

	// OverallQuality grades the run by coverage.
	OverallQuality Quality `json:"overall_quality"`
}

// CollectionResult is the engine's final output: the processed evidence
// set, the full audit trail, and the coverage summary. A result is always
// produced, even when the run ends in an error, so callers can see what
// was gathered before the failure.
type CollectionResult struct {
	// Request echoes the request that produced this result.
	Request CollectionRequest `json:"request"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Evidence is the deduplicated, scored evidence set, sorted by
	// score descending.
	Evidence []EvidenceItem `json:"evidence"`

	// AuditTrail is the append-only record of every action taken.
	AuditTrail []AuditEntry `json:"audit_trail"`

	// Gaps is the final gap list after the targeted pass.
	Gaps []Gap `json:"gaps,omitempty"`

	// Summary aggregates run statistics.
	Summary Summary `json:"summary"`

	// DiscoveredURLs is the number of URLs found during discovery.
	DiscoveredURLs int `json:"discovered_urls"`

	// Error is the string form of a run-level error, if any. Partial
	// evidence is still present when this is set.
	Error string `json:"error,omitempty"`
}
