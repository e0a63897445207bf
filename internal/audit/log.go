package audit

import (
	"sync"
	"time"

	"github.com/orgscan/orgscan/internal/model"
)

// Log is an append-only record of collection actions. It is safe for
// concurrent use by multiple goroutines.
//
// Design decision: the log keeps everything in memory for the lifetime of
// a run rather than streaming to disk. Runs are bounded (a few thousand
// actions at most), and keeping entries in memory lets the summary and
// report stages iterate without any I/O or error paths.
type Log struct {
	mu      sync.Mutex
	entries []model.AuditEntry
}

// NewLog creates an empty audit log.
func NewLog() *Log {
	return &Log{}
}

// Append adds an entry to the log. Entries are never mutated or removed
// after this point.
func (l *Log) Append(entry model.AuditEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Record builds an entry from the given fields and appends it. It is a
// convenience wrapper around model.NewAuditEntry for callers that do not
// need to inspect the entry.
func (l *Log) Record(phase, action, tool, input, output, reasoning string, evidenceCount int, duration time.Duration) {
	l.Append(model.NewAuditEntry(phase, action, tool, input, output, reasoning, evidenceCount, duration))
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of all recorded entries in append order.
func (l *Log) Entries() []model.AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// SummarizeByPhase returns the total evidence yield per collection phase.
func (l *Log) SummarizeByPhase() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int)
	for _, e := range l.entries {
		out[e.Phase] += e.EvidenceCount
	}
	return out
}

// SummarizeByTool returns the total evidence yield per tool. Entries
// without a tool (for example, phase markers) are skipped.
func (l *Log) SummarizeByTool() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int)
	for _, e := range l.entries {
		if e.Tool == "" {
			continue
		}
		out[e.Tool] += e.EvidenceCount
	}
	return out
}
