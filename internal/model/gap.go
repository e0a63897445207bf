package model

// Priority ranks a coverage gap for remediation ordering.
//
// Design decision: iota-based constants rather than strings so gaps sort
// numerically; String() provides the wire/report representation.
type Priority int

const (
	// PriorityLow marks gaps above half of their target.
	PriorityLow Priority = iota

	// PriorityMedium marks gaps below half of their target.
	PriorityMedium

	// PriorityHigh marks gaps below a fifth of their target in an
	// important category, and all underfilled required categories.
	PriorityHigh
)

// String returns a human-readable representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Gap describes a category whose collected evidence falls short of its
// target quota. Gaps are computed fresh on each analysis pass; they are
// not long-lived entities.
type Gap struct {
	// Category is the underfilled evidence category.
	Category string `json:"category"`

	// Current is the number of items collected so far.
	Current int `json:"current"`

	// Target is the category's quota.
	Target int `json:"target"`

	// Deficit is Target - Current. Always positive for a reported gap.
	Deficit int `json:"deficit"`

	// Priority ranks the gap for remediation.
	Priority Priority `json:"priority"`
}
