package model

import (
	"time"

	"github.com/google/uuid"
)

// Quality grades the usefulness of a single action's output.
type Quality int

const (
	// QualityLow indicates the action produced little or no evidence.
	QualityLow Quality = iota

	// QualityMedium indicates a moderate evidence yield.
	QualityMedium

	// QualityHigh indicates a strong evidence yield.
	QualityHigh
)

// String returns a human-readable representation of the quality grade.
func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "low"
	case QualityMedium:
		return "medium"
	case QualityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// QualityForYield grades an action by how many evidence items it produced.
// The thresholds are deliberately coarse: the grade feeds the run summary,
// not any collection decision.
func QualityForYield(evidenceCount int) Quality {
	switch {
	case evidenceCount >= 10:
		return QualityHigh
	case evidenceCount >= 3:
		return QualityMedium
	default:
		return QualityLow
	}
}

// AuditEntry records one action taken by the engine. Entries are
// append-only: once created they are never mutated, which keeps the audit
// trail trustworthy as a record of what actually happened.
type AuditEntry struct {
	// ID is a unique identifier for the entry.
	ID string `json:"id"`

	// Timestamp is when the action completed.
	Timestamp time.Time `json:"timestamp"`

	// Phase is the collection phase the action belongs to.
	Phase string `json:"phase"`

	// Action is a short verb phrase, e.g. "execute-tool", "run-query".
	Action string `json:"action"`

	// Tool is the capability or query mechanism used, if any.
	Tool string `json:"tool,omitempty"`

	// Input is the URL or query the action operated on.
	Input string `json:"input"`

	// Output summarizes the action's result.
	Output string `json:"output"`

	// Reasoning is the decision engine's stated reason for the action.
	Reasoning string `json:"reasoning,omitempty"`

	// EvidenceCount is the number of evidence items produced. Never negative.
	EvidenceCount int `json:"evidence_count"`

	// Quality grades the action's yield.
	Quality Quality `json:"quality"`

	// Duration is how long the action took.
	Duration time.Duration `json:"duration"`
}

// NewAuditEntry creates an audit entry with a fresh ID and timestamp.
// A negative evidence count is clamped to zero.
func NewAuditEntry(phase, action, tool, input, output, reasoning string, evidenceCount int, duration time.Duration) AuditEntry {
	if evidenceCount < 0 {
		evidenceCount = 0
	}
	return AuditEntry{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Phase:         phase,
		Action:        action,
		Tool:          tool,
		Input:         input,
		Output:        output,
		Reasoning:     reasoning,
		EvidenceCount: evidenceCount,
		Quality:       QualityForYield(evidenceCount),
		Duration:      duration,
	}
}
