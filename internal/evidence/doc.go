// Package evidence provides the global evidence accumulation store, the
// evidence processor (deduplication and scoring), and the coverage monitor
// that turns per-category counts into a prioritized gap list.
//
// The store is the only mutable structure shared between concurrent URL
// loops and search queries; it is append-only and mutex-guarded. Everything
// else in the package is a pure function over snapshots.
package evidence
