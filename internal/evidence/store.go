package evidence

import (
	"sync"

	"github.com/orgscan/orgscan/internal/model"
)

// Store is the concurrency-safe, append-only evidence accumulator shared
// by all in-flight URL loops and search queries.
//
// Design decision: a mutex-guarded slice rather than a channel-fed
// aggregator goroutine. Appends are short and the read paths (counts used
// by the decision engine and gap analysis) want synchronous answers; a
// channel design would force request/response plumbing for every count.
type Store struct {
	mu sync.RWMutex

	items []model.EvidenceItem

	// byCategory and byURL are maintained on append so reads are O(1).
	byCategory map[string]int
	byURL      map[string]int

	// maxTotal is the global evidence ceiling. Zero means unlimited.
	maxTotal int
}

// NewStore creates a Store with the given global ceiling.
// maxTotal <= 0 disables the ceiling.
func NewStore(maxTotal int) *Store {
	return &Store{
		byCategory: make(map[string]int),
		byURL:      make(map[string]int),
		maxTotal:   maxTotal,
	}
}

// Append adds items to the store, stopping silently at the global ceiling.
// It returns the number of items actually accepted so callers can track
// per-pass yield.
func (s *Store) Append(items ...model.EvidenceItem) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	accepted := 0
	for _, item := range items {
		if s.maxTotal > 0 && len(s.items) >= s.maxTotal {
			break
		}
		s.items = append(s.items, item)
		s.byCategory[item.Type]++
		s.byURL[item.SourceURL]++
		accepted++
	}
	return accepted
}

// Len returns the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Full reports whether the global ceiling has been reached.
func (s *Store) Full() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxTotal > 0 && len(s.items) >= s.maxTotal
}

// CountForCategory returns how many items carry the given category.
func (s *Store) CountForCategory(category string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byCategory[category]
}

// CountForURL returns how many items were sourced from the given URL.
func (s *Store) CountForURL(url string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byURL[url]
}

// CategoryCounts returns a copy of the per-category counts.
func (s *Store) CategoryCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.byCategory))
	for k, v := range s.byCategory {
		out[k] = v
	}
	return out
}

// Snapshot returns a copy of all stored items. The copy is safe to read
// and process while appends continue.
func (s *Store) Snapshot() []model.EvidenceItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.EvidenceItem, len(s.items))
	copy(out, s.items)
	return out
}
