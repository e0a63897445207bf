package model

// PageContext is the accumulated state of tool usage and findings for one
// URL during its decision loop. It is created on first visit, mutated once
// per loop iteration, and discarded when the loop terminates; the evidence
// it produced lives on in the global evidence store.
//
// Design decision: PageContext is a plain value-semantics struct owned by
// exactly one goroutine (the URL's loop). Nothing here needs locking, and
// keeping it lock-free is what allows URL loops to run in parallel without
// shared mutable state.
type PageContext struct {
	// URL is the page this context tracks.
	URL string

	// ToolsRun is the ordered list of tools executed against the URL.
	// A tool appears at most once; the decision policy never re-selects
	// a tool already present.
	ToolsRun []string

	// Characteristics accumulates observations about the page, merged in
	// from each tool result (e.g. hasJavaScript, securityHeaders, title).
	Characteristics map[string]string

	// LoopCount is the number of completed decide-execute iterations.
	LoopCount int

	// EvidenceCount is the total evidence produced for this URL so far.
	EvidenceCount int
}

// NewPageContext creates a fresh context for a URL.
func NewPageContext(url string) *PageContext {
	return &PageContext{
		URL:             url,
		ToolsRun:        make([]string, 0, 4),
		Characteristics: make(map[string]string),
	}
}

// HasRun reports whether the named tool has already executed for this URL.
func (pc *PageContext) HasRun(tool string) bool {
	for _, t := range pc.ToolsRun {
		if t == tool {
			return true
		}
	}
	return false
}

// RecordRun appends the executed tool, merges the characteristics it
// observed, and advances the loop and evidence counters. Called exactly
// once per loop iteration after the tool executor returns.
func (pc *PageContext) RecordRun(tool string, characteristics map[string]string, evidenceCount int) {
	if tool != "" && !pc.HasRun(tool) {
		pc.ToolsRun = append(pc.ToolsRun, tool)
	}
	for k, v := range characteristics {
		pc.Characteristics[k] = v
	}
	pc.LoopCount++
	if evidenceCount > 0 {
		pc.EvidenceCount += evidenceCount
	}
}

// Characteristic returns the recorded value for a characteristic key,
// or the empty string if it has not been observed.
func (pc *PageContext) Characteristic(key string) string {
	return pc.Characteristics[key]
}
