// Package collector orchestrates a full collection run.
//
// A run is a fixed sequence of phases over shared run state: URL
// discovery, the adaptive crawl loop, the agentic search pass, gap
// analysis with targeted remediation, and finally evidence processing.
// Phases append evidence to the shared store and actions to the audit
// log; the collector assembles both into the final result. A result is
// always produced, even when the run fails partway, so callers can see
// the evidence gathered before the failure.
package collector
