package collector

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/orgscan/orgscan/internal/audit"
	"github.com/orgscan/orgscan/internal/capability"
	"github.com/orgscan/orgscan/internal/evidence"
	"github.com/orgscan/orgscan/internal/model"
)

// yieldingCapability produces a fixed number of items on every call and
// counts its invocations.
type yieldingCapability struct {
	name     string
	category string
	perCall  int
	calls    atomic.Int64
}

func (y *yieldingCapability) Name() string { return y.name }

func (y *yieldingCapability) Collect(_ context.Context, url string, _ *model.PageContext) (*capability.Result, error) {
	y.calls.Add(1)
	res := &capability.Result{}
	for i := 0; i < y.perCall; i++ {
		res.Evidence = append(res.Evidence,
			model.NewEvidenceItem(y.category, time.Now().String(), url, 0.8))
	}
	return res, nil
}

func newTargetedState(store *evidence.Store) *runState {
	return &runState{
		request:  model.CollectionRequest{Domain: "acme.test", CompanyName: "Acme Robotics"},
		store:    store,
		auditLog: audit.NewLog(),
	}
}

func TestTargetedPhaseClosesGaps(t *testing.T) {
	t.Parallel()

	store := evidence.NewStore(1000)
	// tech-stack target is 30; a huge per-call yield covers the deficit
	// in one probe, so remediation must stop after the first call.
	tech := &yieldingCapability{
		name:     model.ToolTechAnalyzer,
		category: model.CategoryTechStack,
		perCall:  40,
	}
	exec := capability.NewExecutor(time.Second, nil)
	exec.Register(tech)

	p := &targetedPhase{
		executor: exec,
		provider: &cannedProvider{},
		monitor:  evidence.NewMonitor(),
	}
	if err := p.Do(context.Background(), newTargetedState(store)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := tech.calls.Load(); got != 1 {
		t.Errorf("expected remediation to stop once the deficit was covered, got %d calls", got)
	}
	if store.CountForCategory(model.CategoryTechStack) < 30 {
		t.Errorf("expected the tech-stack gap to be closed, got %d items",
			store.CountForCategory(model.CategoryTechStack))
	}
}

func TestTargetedPhaseExhaustsPlanOnEmptyYield(t *testing.T) {
	t.Parallel()

	store := evidence.NewStore(1000)
	tech := &yieldingCapability{
		name:     model.ToolTechAnalyzer,
		category: model.CategoryTechStack,
		perCall:  0,
	}
	exec := capability.NewExecutor(time.Second, nil)
	exec.Register(tech)

	p := &targetedPhase{
		executor: exec,
		provider: &cannedProvider{},
		monitor:  evidence.NewMonitor(),
	}
	state := newTargetedState(store)
	if err := p.Do(context.Background(), state); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := tech.calls.Load(); got != int64(len(gapProbePaths[model.CategoryTechStack].paths)) {
		t.Errorf("expected every probe path to be attempted, got %d calls", got)
	}
	if state.auditLog.Len() == 0 {
		t.Error("expected audit entries for remediation attempts")
	}
}

func TestTargetedPhaseSkipsLowPriorityGaps(t *testing.T) {
	t.Parallel()

	store := evidence.NewStore(1000)
	// Fill every category to just over half its target so all gaps are
	// low priority.
	for _, cat := range model.TrackedCategories() {
		target := model.GetCategoryInfo(cat).Target
		for i := 0; i < target/2+1; i++ {
			store.Append(model.NewEvidenceItem(cat, time.Now().String(), "https://acme.test", 0.8))
		}
	}

	tech := &yieldingCapability{name: model.ToolTechAnalyzer, category: model.CategoryTechStack, perCall: 5}
	exec := capability.NewExecutor(time.Second, nil)
	exec.Register(tech)

	provider := &cannedProvider{}
	p := &targetedPhase{executor: exec, provider: provider, monitor: evidence.NewMonitor()}
	if err := p.Do(context.Background(), newTargetedState(store)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := tech.calls.Load(); got != 0 {
		t.Errorf("low priority gaps must not be remediated, got %d calls", got)
	}
}

func TestQualityForCoverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pct  float64
		want model.Quality
	}{
		{100, model.QualityHigh},
		{75, model.QualityHigh},
		{50, model.QualityMedium},
		{10, model.QualityLow},
	}
	for _, tt := range tests {
		if got := qualityForCoverage(tt.pct); got != tt.want {
			t.Errorf("qualityForCoverage(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}
