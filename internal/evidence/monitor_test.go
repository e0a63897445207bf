package evidence

import (
	"reflect"
	"testing"

	"github.com/orgscan/orgscan/internal/model"
)

// TestAnalyzeGaps tests gap computation and prioritization.
func TestAnalyzeGaps(t *testing.T) {
	t.Parallel()

	t.Run("tech-stack at 5 of 30 is a high-priority gap", func(t *testing.T) {
		t.Parallel()

		m := NewMonitor(WithTargets(map[string]int{model.CategoryTechStack: 30}))
		gaps := m.AnalyzeGaps(map[string]int{model.CategoryTechStack: 5})

		var found *model.Gap
		for i := range gaps {
			if gaps[i].Category == model.CategoryTechStack {
				found = &gaps[i]
			}
		}
		if found == nil {
			t.Fatal("expected a tech-stack gap")
		}
		if found.Deficit != 25 {
			t.Errorf("expected deficit 25, got %d", found.Deficit)
		}
		// 5/30 = 0.167 < 0.2 with weight 3 ⇒ high.
		if found.Priority != model.PriorityHigh {
			t.Errorf("expected high priority, got %v", found.Priority)
		}
	})

	t.Run("priority bands follow the ratio and weight", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			current int
			target  int
			weight  int
			want    model.Priority
		}{
			{"far below target, important", 1, 30, 3, model.PriorityHigh},
			{"far below target, unimportant", 1, 30, 1, model.PriorityMedium},
			{"below half", 10, 30, 3, model.PriorityMedium},
			{"above half", 20, 30, 3, model.PriorityLow},
		}

		for _, tt := range tests {
			if got := gapPriority(tt.current, tt.target, tt.weight); got != tt.want {
				t.Errorf("%s: gapPriority(%d, %d, %d) = %v, want %v",
					tt.name, tt.current, tt.target, tt.weight, got, tt.want)
			}
		}
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		t.Parallel()

		counts := map[string]int{
			model.CategoryTechStack: 3,
			model.CategoryTeamInfo:  8,
		}
		m := NewMonitor()

		a := m.AnalyzeGaps(counts)
		b := m.AnalyzeGaps(counts)
		if !reflect.DeepEqual(a, b) {
			t.Error("gap analysis is not deterministic")
		}
	})

	t.Run("sorted high before medium before low", func(t *testing.T) {
		t.Parallel()

		m := NewMonitor()
		gaps := m.AnalyzeGaps(map[string]int{
			model.CategoryTechStack:       1,  // high
			model.CategoryCompanyInfo:     4,  // 4/10 medium (weight 1)
			model.CategoryMarketPosition:  10, // 10/15 low
			model.CategoryTeamInfo:        15, // 15/20 low
			model.CategoryFinancialMetric: 15, // met
			model.CategoryAPIEndpoint:     10, // met
			model.CategorySecurityPosture: 10, // met
			model.CategoryCompetitor:      10, // met
		})

		for i := 1; i < len(gaps); i++ {
			if gaps[i-1].Priority < gaps[i].Priority {
				t.Errorf("gaps not sorted by priority at %d: %v then %v",
					i, gaps[i-1].Priority, gaps[i].Priority)
			}
		}
	})

	t.Run("required category below minimum is forced high", func(t *testing.T) {
		t.Parallel()

		m := NewMonitor(WithRequired([]string{"compliance"}, 5))
		gaps := m.AnalyzeGaps(map[string]int{"compliance": 2})

		var found *model.Gap
		for i := range gaps {
			if gaps[i].Category == "compliance" {
				found = &gaps[i]
			}
		}
		if found == nil {
			t.Fatal("expected a forced gap for required category")
		}
		if found.Priority != model.PriorityHigh {
			t.Errorf("expected high priority, got %v", found.Priority)
		}
		if found.Deficit != 3 {
			t.Errorf("expected deficit 3, got %d", found.Deficit)
		}
	})

	t.Run("required category below minimum gaps despite a met override", func(t *testing.T) {
		t.Parallel()

		m := NewMonitor(
			WithTargets(map[string]int{model.CategoryTechStack: 2}),
			WithRequired([]string{model.CategoryTechStack}, 5),
		)
		gaps := m.AnalyzeGaps(map[string]int{model.CategoryTechStack: 3})

		// The override target of 2 is satisfied, but the required minimum
		// of 5 is not, so the gap must still appear at high priority.
		var found *model.Gap
		for i := range gaps {
			if gaps[i].Category == model.CategoryTechStack {
				found = &gaps[i]
			}
		}
		if found == nil {
			t.Fatal("expected a tech-stack gap despite the met override")
		}
		if found.Priority != model.PriorityHigh {
			t.Errorf("expected high priority, got %v", found.Priority)
		}
		if found.Target != 5 {
			t.Errorf("expected target raised to 5, got %d", found.Target)
		}
		if found.Deficit != 2 {
			t.Errorf("expected deficit 2, got %d", found.Deficit)
		}
	})

	t.Run("required tracked category escalates instead of duplicating", func(t *testing.T) {
		t.Parallel()

		m := NewMonitor(WithRequired([]string{model.CategoryCompetitor}, 5))
		gaps := m.AnalyzeGaps(map[string]int{model.CategoryCompetitor: 6})

		// 6/10: a gap, but above the required minimum, so no escalation.
		count := 0
		for _, g := range gaps {
			if g.Category == model.CategoryCompetitor {
				count++
				if g.Priority == model.PriorityHigh {
					t.Errorf("should not escalate above required minimum, got %v", g.Priority)
				}
			}
		}
		if count != 1 {
			t.Errorf("expected exactly 1 competitor gap, got %d", count)
		}
	})
}

// TestCoverage tests the coverage summary computation.
func TestCoverage(t *testing.T) {
	t.Parallel()

	t.Run("all categories missing", func(t *testing.T) {
		t.Parallel()

		pct, missing := Coverage(map[string]int{})
		if pct != 0 {
			t.Errorf("expected 0%% coverage, got %v", pct)
		}
		if len(missing) != len(model.TrackedCategories()) {
			t.Errorf("expected all categories missing, got %d", len(missing))
		}
	})

	t.Run("half covered", func(t *testing.T) {
		t.Parallel()

		counts := map[string]int{
			model.CategoryTechStack:       5,
			model.CategoryTeamInfo:        1,
			model.CategoryFinancialMetric: 2,
			model.CategoryAPIEndpoint:     1,
		}
		pct, missing := Coverage(counts)
		if pct != 50 {
			t.Errorf("expected 50%% coverage, got %v", pct)
		}
		if len(missing) != 4 {
			t.Errorf("expected 4 missing categories, got %v", missing)
		}
	})
}
