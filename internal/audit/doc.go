// Package audit records every collection action taken during a run.
//
// The log is append-only and safe for concurrent use. Each entry names
// the phase, the action, the tool involved, and the evidence yield, so
// a finished collection can be reconstructed step by step.
package audit
