package model

import (
	"time"

	"github.com/google/uuid"
)

// EvidenceItem is a single typed, sourced, confidence-scored fact extracted
// during collection.
//
// Design decision: evidence is immutable once created except for Score,
// which is derived during evidence processing. Keeping Score out of the
// constructor makes it impossible for a capability to smuggle in an
// inflated score.
type EvidenceItem struct {
	// ID is a globally unique identifier for this item.
	ID string `json:"id"`

	// Type is the evidence category (e.g., "tech-stack", "team-info").
	Type string `json:"type"`

	// Value is the extracted fact. Free-form text, kept short by the
	// extracting capability.
	Value string `json:"value"`

	// SourceURL is where the fact was observed.
	SourceURL string `json:"source_url"`

	// Confidence is the extractor's confidence in the fact, in [0, 1].
	Confidence float64 `json:"confidence"`

	// Score is the final relevance score assigned during evidence
	// processing. Zero until the processor has run.
	Score float64 `json:"score"`

	// Phase records which collection phase produced the item
	// (crawl, search, targeted).
	Phase string `json:"phase,omitempty"`

	// Tool records which capability produced the item.
	Tool string `json:"tool,omitempty"`

	// CollectedAt is when the item was extracted.
	CollectedAt time.Time `json:"collected_at"`
}

// NewEvidenceItem creates an evidence item with a fresh ID and clamped
// confidence. Confidence outside [0, 1] is a programming error in the
// extractor, so we clamp rather than reject: losing a fact over a bad
// confidence value would be worse than recording it conservatively.
func NewEvidenceItem(category, value, sourceURL string, confidence float64) EvidenceItem {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return EvidenceItem{
		ID:          uuid.NewString(),
		Type:        category,
		Value:       value,
		SourceURL:   sourceURL,
		Confidence:  confidence,
		CollectedAt: time.Now().UTC(),
	}
}

// Collection phase constants used in evidence items and audit entries.
const (
	// PhaseDiscovery is the URL discovery phase.
	PhaseDiscovery = "discovery"

	// PhaseCrawl is the per-URL decision-loop crawl phase.
	PhaseCrawl = "crawl"

	// PhaseSearch is the agentic keyword-search phase.
	PhaseSearch = "search"

	// PhaseTargeted is the gap-driven second collection pass.
	PhaseTargeted = "targeted"

	// PhaseProcess is the dedup/scoring phase.
	PhaseProcess = "process"
)

// Tool name constants. These are the capability names the decision engine
// selects from and the tool executor dispatches on. Defined here rather
// than in the capability package so the decision engine does not depend
// on capability implementations.
const (
	// ToolHTMLCollector is the basic HTML fetch-and-extract tool, always
	// the first tool for a fresh URL unless a higher-precedence rule fires.
	ToolHTMLCollector = "html-collector"

	// ToolRenderedCollector fetches the rendered DOM through a headless
	// browser for JavaScript-heavy pages.
	ToolRenderedCollector = "rendered-collector"

	// ToolTechAnalyzer runs technology-stack heuristics over headers and HTML.
	ToolTechAnalyzer = "tech-analyzer"

	// ToolSecurityScanner inspects security headers and TLS certificates.
	ToolSecurityScanner = "security-scanner"

	// ToolAPIExtractor extracts API endpoints and documentation signals.
	ToolAPIExtractor = "api-extractor"

	// ToolImageMetadata extracts EXIF metadata from page images, used in
	// targeted collection for team evidence.
	ToolImageMetadata = "image-metadata"

	// ToolFeedCollector reads RSS/Atom feeds for press and news evidence,
	// used in targeted collection for market-position gaps.
	ToolFeedCollector = "feed-collector"
)
