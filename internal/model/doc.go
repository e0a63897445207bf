// Package model defines the core data structures shared across the
// evidence-collection engine: evidence items, audit entries, page contexts,
// decisions, gaps, and the collection request/result types.
//
// The package has no dependencies on other internal packages so that every
// layer of the engine can use these types without import cycles.
package model
