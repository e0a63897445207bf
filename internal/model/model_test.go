package model

import (
	"testing"
	"time"
)

// TestNewEvidenceItem tests evidence construction invariants.
func TestNewEvidenceItem(t *testing.T) {
	t.Parallel()

	t.Run("assigns unique IDs", func(t *testing.T) {
		t.Parallel()

		a := NewEvidenceItem(CategoryTechStack, "React", "https://example.com", 0.8)
		b := NewEvidenceItem(CategoryTechStack, "React", "https://example.com", 0.8)

		if a.ID == "" || b.ID == "" {
			t.Fatal("expected non-empty IDs")
		}
		if a.ID == b.ID {
			t.Errorf("expected distinct IDs, both were %q", a.ID)
		}
	})

	t.Run("clamps confidence into range", func(t *testing.T) {
		t.Parallel()

		low := NewEvidenceItem(CategoryTeamInfo, "x", "u", -0.5)
		if low.Confidence != 0 {
			t.Errorf("expected confidence 0, got %v", low.Confidence)
		}

		high := NewEvidenceItem(CategoryTeamInfo, "x", "u", 1.5)
		if high.Confidence != 1 {
			t.Errorf("expected confidence 1, got %v", high.Confidence)
		}
	})

	t.Run("score starts at zero", func(t *testing.T) {
		t.Parallel()

		item := NewEvidenceItem(CategoryTechStack, "Go", "u", 0.9)
		if item.Score != 0 {
			t.Errorf("expected zero score before processing, got %v", item.Score)
		}
	})
}

// TestGetCategoryInfo tests category metadata lookup.
func TestGetCategoryInfo(t *testing.T) {
	t.Parallel()

	t.Run("known category", func(t *testing.T) {
		t.Parallel()

		info := GetCategoryInfo(CategoryTechStack)
		if info.Target != 30 {
			t.Errorf("expected target 30, got %d", info.Target)
		}
		if info.Weight != 3 {
			t.Errorf("expected weight 3, got %d", info.Weight)
		}
		if info.Boost != 1.5 {
			t.Errorf("expected boost 1.5, got %v", info.Boost)
		}
	})

	t.Run("unknown category gets conservative defaults", func(t *testing.T) {
		t.Parallel()

		info := GetCategoryInfo("nonexistent")
		if info.Weight != 1 || info.Boost != 1.0 {
			t.Errorf("unexpected defaults: %+v", info)
		}
	})

	t.Run("tracked categories are sorted and complete", func(t *testing.T) {
		t.Parallel()

		cats := TrackedCategories()
		if len(cats) != len(categoryInfoMapping) {
			t.Fatalf("expected %d categories, got %d", len(categoryInfoMapping), len(cats))
		}
		for i := 1; i < len(cats); i++ {
			if cats[i-1] >= cats[i] {
				t.Errorf("categories not sorted: %q before %q", cats[i-1], cats[i])
			}
		}
		for _, c := range cats {
			if !IsTracked(c) {
				t.Errorf("category %q reported as not tracked", c)
			}
		}
	})
}

// TestPageContext tests loop-state accounting.
func TestPageContext(t *testing.T) {
	t.Parallel()

	t.Run("records runs and merges characteristics", func(t *testing.T) {
		t.Parallel()

		pc := NewPageContext("https://example.com/about")

		pc.RecordRun(ToolHTMLCollector, map[string]string{"title": "About"}, 3)
		pc.RecordRun(ToolTechAnalyzer, map[string]string{"hasJavaScript": "true"}, 2)

		if pc.LoopCount != 2 {
			t.Errorf("expected loop count 2, got %d", pc.LoopCount)
		}
		if pc.EvidenceCount != 5 {
			t.Errorf("expected evidence count 5, got %d", pc.EvidenceCount)
		}
		if !pc.HasRun(ToolHTMLCollector) || !pc.HasRun(ToolTechAnalyzer) {
			t.Error("expected both tools recorded")
		}
		if pc.Characteristic("title") != "About" {
			t.Errorf("expected merged characteristic, got %q", pc.Characteristic("title"))
		}
	})

	t.Run("never duplicates a tool", func(t *testing.T) {
		t.Parallel()

		pc := NewPageContext("https://example.com")
		pc.RecordRun(ToolHTMLCollector, nil, 1)
		pc.RecordRun(ToolHTMLCollector, nil, 1)

		if len(pc.ToolsRun) != 1 {
			t.Errorf("expected 1 tool recorded, got %d: %v", len(pc.ToolsRun), pc.ToolsRun)
		}
		if pc.LoopCount != 2 {
			t.Errorf("loop count should still advance, got %d", pc.LoopCount)
		}
	})
}

// TestQualityForYield tests the yield grading thresholds.
func TestQualityForYield(t *testing.T) {
	t.Parallel()

	tests := []struct {
		yield int
		want  Quality
	}{
		{0, QualityLow},
		{2, QualityLow},
		{3, QualityMedium},
		{9, QualityMedium},
		{10, QualityHigh},
		{100, QualityHigh},
	}

	for _, tt := range tests {
		if got := QualityForYield(tt.yield); got != tt.want {
			t.Errorf("QualityForYield(%d) = %v, want %v", tt.yield, got, tt.want)
		}
	}
}

// TestNewAuditEntry tests audit entry construction.
func TestNewAuditEntry(t *testing.T) {
	t.Parallel()

	entry := NewAuditEntry(PhaseCrawl, "execute-tool", ToolHTMLCollector,
		"https://example.com", "ok", "fresh URL", -3, 50*time.Millisecond)

	if entry.ID == "" {
		t.Error("expected non-empty ID")
	}
	if entry.EvidenceCount != 0 {
		t.Errorf("negative evidence count should clamp to 0, got %d", entry.EvidenceCount)
	}
	if entry.Quality != QualityLow {
		t.Errorf("expected low quality, got %v", entry.Quality)
	}
}

// TestPriorityString tests priority formatting.
func TestPriorityString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		p    Priority
		want string
	}{
		{PriorityLow, "low"},
		{PriorityMedium, "medium"},
		{PriorityHigh, "high"},
		{Priority(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Priority(%d).String() = %q, want %q", tt.p, got, tt.want)
		}
	}
}

// TestDecisionTerminal tests terminal-decision detection.
func TestDecisionTerminal(t *testing.T) {
	t.Parallel()

	if !StopDecision("done").Terminal() {
		t.Error("stop decision should be terminal")
	}
	if (Decision{Tool: ToolHTMLCollector}).Terminal() {
		t.Error("decision with a tool should not be terminal")
	}
}
