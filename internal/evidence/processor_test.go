package evidence

import (
	"reflect"
	"testing"

	"github.com/orgscan/orgscan/internal/model"
)

// TestProcessorDedupe tests content-identity deduplication.
func TestProcessorDedupe(t *testing.T) {
	t.Parallel()

	t.Run("identical values from different sources collapse, keeping higher confidence", func(t *testing.T) {
		t.Parallel()

		low := model.NewEvidenceItem(model.CategoryTechStack, "Kubernetes", "https://a.example/blog", 0.5)
		high := model.NewEvidenceItem(model.CategoryTechStack, "Kubernetes", "https://a.example/careers", 0.9)

		out, errs := NewProcessor().Process([]model.EvidenceItem{low, high})
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if len(out) != 1 {
			t.Fatalf("expected 1 item after dedup, got %d", len(out))
		}
		if out[0].SourceURL != "https://a.example/careers" {
			t.Errorf("expected higher-confidence source retained, got %q", out[0].SourceURL)
		}
	})

	t.Run("same value in different categories stays distinct", func(t *testing.T) {
		t.Parallel()

		a := model.NewEvidenceItem(model.CategoryTechStack, "Stripe", "u1", 0.8)
		b := model.NewEvidenceItem(model.CategoryCompetitor, "Stripe", "u2", 0.8)

		out, _ := NewProcessor().Process([]model.EvidenceItem{a, b})
		if len(out) != 2 {
			t.Errorf("expected 2 items, got %d", len(out))
		}
	})

	t.Run("value normalization folds case and whitespace", func(t *testing.T) {
		t.Parallel()

		a := model.NewEvidenceItem(model.CategoryTechStack, "React", "u1", 0.6)
		b := model.NewEvidenceItem(model.CategoryTechStack, "  react ", "u2", 0.4)

		out, _ := NewProcessor().Process([]model.EvidenceItem{a, b})
		if len(out) != 1 {
			t.Errorf("expected 1 item, got %d", len(out))
		}
	})

	t.Run("dedupe is idempotent", func(t *testing.T) {
		t.Parallel()

		items := []model.EvidenceItem{
			model.NewEvidenceItem(model.CategoryTechStack, "Go", "u1", 0.9),
			model.NewEvidenceItem(model.CategoryTechStack, "Go", "u2", 0.5),
			model.NewEvidenceItem(model.CategoryTeamInfo, "Jane Doe", "u3", 0.7),
			model.NewEvidenceItem(model.CategoryCompanyInfo, "Founded 2015", "u4", 0.6),
		}

		p := NewProcessor()
		once, _ := p.Process(items)
		twice, _ := p.Process(once)

		if !reflect.DeepEqual(once, twice) {
			t.Errorf("processing is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
		}
	})

	t.Run("skips and reports malformed items", func(t *testing.T) {
		t.Parallel()

		bad := model.NewEvidenceItem(model.CategoryTechStack, "   ", "u", 0.5)
		good := model.NewEvidenceItem(model.CategoryTechStack, "Go", "u", 0.5)

		out, errs := NewProcessor().Process([]model.EvidenceItem{bad, good})
		if len(out) != 1 {
			t.Errorf("expected 1 item, got %d", len(out))
		}
		if len(errs) != 1 {
			t.Fatalf("expected 1 aggregation error, got %d", len(errs))
		}
		if _, ok := errs[0].(*AggregationError); !ok {
			t.Errorf("expected *AggregationError, got %T", errs[0])
		}
	})
}

// TestProcessorScoring tests boost application and ordering.
func TestProcessorScoring(t *testing.T) {
	t.Parallel()

	t.Run("high-value categories get the 1.5 boost, capped at 1.0", func(t *testing.T) {
		t.Parallel()

		boosted := model.NewEvidenceItem(model.CategoryTechStack, "Go", "u", 0.6)
		capped := model.NewEvidenceItem(model.CategoryFinancialMetric, "ARR $10M", "u", 0.9)
		plain := model.NewEvidenceItem(model.CategoryCompanyInfo, "HQ in Berlin", "u", 0.6)

		out, _ := NewProcessor().Process([]model.EvidenceItem{boosted, capped, plain})

		scores := make(map[string]float64, len(out))
		for _, item := range out {
			scores[item.Value] = item.Score
		}

		if got := scores["Go"]; got != 0.6*1.5 {
			t.Errorf("expected boosted score 0.9, got %v", got)
		}
		if got := scores["ARR $10M"]; got != 1.0 {
			t.Errorf("expected capped score 1.0, got %v", got)
		}
		if got := scores["HQ in Berlin"]; got != 0.6 {
			t.Errorf("expected unboosted score 0.6, got %v", got)
		}
	})

	t.Run("sorts by score descending", func(t *testing.T) {
		t.Parallel()

		out, _ := NewProcessor().Process([]model.EvidenceItem{
			model.NewEvidenceItem(model.CategoryCompanyInfo, "low", "u", 0.2),
			model.NewEvidenceItem(model.CategoryCompanyInfo, "high", "u", 0.9),
			model.NewEvidenceItem(model.CategoryCompanyInfo, "mid", "u", 0.5),
		})

		for i := 1; i < len(out); i++ {
			if out[i-1].Score < out[i].Score {
				t.Errorf("items not sorted at %d: %v < %v", i, out[i-1].Score, out[i].Score)
			}
		}
	})
}
