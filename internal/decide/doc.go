// Package decide implements the rule-based decision engine that drives
// the per-URL collection loop.
//
// The engine is a pure function over the page's accumulated context: no
// I/O, no shared state, no randomness. Rules are checked in fixed
// precedence order and the first match wins, so for any given context
// the decision is fully deterministic and the audit trail explains it.
package decide
