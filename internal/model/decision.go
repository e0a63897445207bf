package model

// Decision is the decision engine's choice of next tool for a URL.
// It is the pure-function output of (PageContext, per-URL evidence count)
// and is not persisted beyond the audit log.
type Decision struct {
	// Tool is the capability to run next. Empty means no further tool
	// is worth running: the URL's loop should terminate.
	Tool string

	// Reasoning is a short human-readable explanation, recorded in the
	// audit trail.
	Reasoning string

	// Priority ranks the decision on a 1-10 scale. Higher is more urgent.
	Priority int

	// ExpectedEvidence estimates how many items the tool is likely to
	// yield. It feeds the diminishing-returns stop condition.
	ExpectedEvidence int
}

// Terminal reports whether the decision signals loop termination.
func (d Decision) Terminal() bool {
	return d.Tool == ""
}

// StopDecision returns a terminal decision with the given reasoning.
func StopDecision(reasoning string) Decision {
	return Decision{Reasoning: reasoning}
}
