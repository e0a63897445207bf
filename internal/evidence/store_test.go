package evidence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/orgscan/orgscan/internal/model"
)

// TestStoreAppend tests basic accounting.
func TestStoreAppend(t *testing.T) {
	t.Parallel()

	t.Run("tracks counts by category and URL", func(t *testing.T) {
		t.Parallel()

		s := NewStore(0)
		s.Append(
			model.NewEvidenceItem(model.CategoryTechStack, "Go", "https://a.example/eng", 0.9),
			model.NewEvidenceItem(model.CategoryTechStack, "Postgres", "https://a.example/eng", 0.8),
			model.NewEvidenceItem(model.CategoryTeamInfo, "Jane Doe, CTO", "https://a.example/team", 0.7),
		)

		if s.Len() != 3 {
			t.Errorf("expected 3 items, got %d", s.Len())
		}
		if got := s.CountForCategory(model.CategoryTechStack); got != 2 {
			t.Errorf("expected 2 tech-stack items, got %d", got)
		}
		if got := s.CountForURL("https://a.example/eng"); got != 2 {
			t.Errorf("expected 2 items for /eng, got %d", got)
		}
	})

	t.Run("enforces global ceiling", func(t *testing.T) {
		t.Parallel()

		s := NewStore(2)
		accepted := s.Append(
			model.NewEvidenceItem(model.CategoryTechStack, "a", "u", 0.5),
			model.NewEvidenceItem(model.CategoryTechStack, "b", "u", 0.5),
			model.NewEvidenceItem(model.CategoryTechStack, "c", "u", 0.5),
		)

		if accepted != 2 {
			t.Errorf("expected 2 accepted, got %d", accepted)
		}
		if !s.Full() {
			t.Error("store should report full")
		}
	})

	t.Run("safe for concurrent append", func(t *testing.T) {
		t.Parallel()

		s := NewStore(0)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					s.Append(model.NewEvidenceItem(
						model.CategoryTechStack,
						fmt.Sprintf("item-%d-%d", n, j),
						"https://example.com", 0.5))
				}
			}(i)
		}
		wg.Wait()

		if s.Len() != 1000 {
			t.Errorf("expected 1000 items, got %d", s.Len())
		}
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		t.Parallel()

		s := NewStore(0)
		s.Append(model.NewEvidenceItem(model.CategoryTechStack, "Go", "u", 0.5))

		snap := s.Snapshot()
		snap[0].Value = "mutated"

		if s.Snapshot()[0].Value != "Go" {
			t.Error("snapshot mutation leaked into store")
		}
	})
}
