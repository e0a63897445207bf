// Package database persists finished collection runs in SQLite.
//
// Each run is stored as one row in the collections table (full result as
// JSON) plus normalized evidence rows for querying across runs without
// JSON extraction. The pure-Go modernc.org/sqlite driver keeps the
// binary free of cgo.
package database
