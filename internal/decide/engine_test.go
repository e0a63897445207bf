package decide

import (
	"testing"

	"github.com/orgscan/orgscan/internal/config"
	"github.com/orgscan/orgscan/internal/model"
)

func newTestEngine() *Engine {
	return NewEngine(config.NewConfig())
}

func TestEngineDecide(t *testing.T) {
	t.Parallel()

	t.Run("fresh URL gets basic collection", func(t *testing.T) {
		t.Parallel()

		pc := model.NewPageContext("https://acme.test/about")
		d := newTestEngine().Decide(pc)
		if d.Tool != model.ToolHTMLCollector {
			t.Errorf("expected html-collector, got %q", d.Tool)
		}
		if d.Priority != 10 {
			t.Errorf("expected priority 10, got %d", d.Priority)
		}
	})

	t.Run("javascript shell gets rendered collection", func(t *testing.T) {
		t.Parallel()

		pc := model.NewPageContext("https://acme.test/")
		pc.RecordRun(model.ToolHTMLCollector, map[string]string{"hasJavaScript": "true"}, 0)

		d := newTestEngine().Decide(pc)
		if d.Tool != model.ToolRenderedCollector {
			t.Errorf("expected rendered-collector, got %q", d.Tool)
		}
	})

	t.Run("rendered rule outranks URL rules", func(t *testing.T) {
		t.Parallel()

		pc := model.NewPageContext("https://acme.test/docs/api")
		pc.RecordRun(model.ToolHTMLCollector, map[string]string{"hasJavaScript": "true"}, 0)

		d := newTestEngine().Decide(pc)
		if d.Tool != model.ToolRenderedCollector {
			t.Errorf("expected rendered-collector to win, got %q", d.Tool)
		}
	})

	t.Run("rendered fetch disabled falls through", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.RenderedFetch = false
		pc := model.NewPageContext("https://acme.test/")
		pc.RecordRun(model.ToolHTMLCollector, map[string]string{"hasJavaScript": "true"}, 0)

		d := NewEngine(cfg).Decide(pc)
		if d.Tool == model.ToolRenderedCollector {
			t.Error("rendered-collector must not be selected when disabled")
		}
	})

	t.Run("api documentation URL gets the extractor", func(t *testing.T) {
		t.Parallel()

		pc := model.NewPageContext("https://acme.test/docs/reference")
		pc.RecordRun(model.ToolHTMLCollector, nil, 3)

		d := newTestEngine().Decide(pc)
		if d.Tool != model.ToolAPIExtractor {
			t.Errorf("expected api-extractor, got %q", d.Tool)
		}
	})

	t.Run("app subdomain gets rendered collection", func(t *testing.T) {
		t.Parallel()

		pc := model.NewPageContext("https://app.acme.test/")
		pc.RecordRun(model.ToolHTMLCollector, nil, 2)

		d := newTestEngine().Decide(pc)
		if d.Tool != model.ToolRenderedCollector {
			t.Errorf("expected rendered-collector, got %q", d.Tool)
		}
	})

	t.Run("observed security headers trigger the scanner", func(t *testing.T) {
		t.Parallel()

		pc := model.NewPageContext("https://acme.test/")
		pc.RecordRun(model.ToolHTMLCollector, map[string]string{"securityHeaders": "present"}, 2)

		d := newTestEngine().Decide(pc)
		if d.Tool != model.ToolSecurityScanner {
			t.Errorf("expected security-scanner, got %q", d.Tool)
		}
	})

	t.Run("missing security headers still trigger the scanner", func(t *testing.T) {
		t.Parallel()

		pc := model.NewPageContext("https://acme.test/about")
		pc.RecordRun(model.ToolHTMLCollector, map[string]string{"securityHeaders": "missing"}, 2)

		d := newTestEngine().Decide(pc)
		if d.Tool != model.ToolSecurityScanner {
			t.Errorf("expected security-scanner, got %q", d.Tool)
		}
	})

	t.Run("no header observation skips the scanner", func(t *testing.T) {
		t.Parallel()

		pc := model.NewPageContext("https://acme.test/about")
		pc.RecordRun(model.ToolHTMLCollector, map[string]string{"title": "About"}, 2)

		d := newTestEngine().Decide(pc)
		if d.Tool == model.ToolSecurityScanner {
			t.Error("security-scanner must not be selected without a header observation")
		}
	})

	t.Run("engineering page gets the tech analyzer", func(t *testing.T) {
		t.Parallel()

		pc := model.NewPageContext("https://acme.test/engineering")
		pc.RecordRun(model.ToolHTMLCollector, nil, 4)

		d := newTestEngine().Decide(pc)
		if d.Tool != model.ToolTechAnalyzer {
			t.Errorf("expected tech-analyzer, got %q", d.Tool)
		}
	})

	t.Run("exhausted URL gets a terminal decision", func(t *testing.T) {
		t.Parallel()

		pc := model.NewPageContext("https://acme.test/about")
		pc.RecordRun(model.ToolHTMLCollector, nil, 5)

		d := newTestEngine().Decide(pc)
		if !d.Terminal() {
			t.Errorf("expected terminal decision, got tool %q", d.Tool)
		}
	})

	t.Run("tools never repeat", func(t *testing.T) {
		t.Parallel()

		pc := model.NewPageContext("https://acme.test/engineering")
		e := newTestEngine()
		seen := make(map[string]bool)
		for i := 0; i < 20; i++ {
			d := e.Decide(pc)
			if d.Terminal() {
				return
			}
			if seen[d.Tool] {
				t.Fatalf("tool %q selected twice", d.Tool)
			}
			seen[d.Tool] = true
			pc.RecordRun(d.Tool, nil, 1)
		}
		t.Fatal("decision loop never terminated")
	})

	t.Run("deterministic for identical context", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine()
		pc := model.NewPageContext("https://acme.test/docs")
		pc.RecordRun(model.ToolHTMLCollector, map[string]string{"title": "Docs"}, 3)

		first := e.Decide(pc)
		for i := 0; i < 10; i++ {
			if d := e.Decide(pc); d != first {
				t.Fatalf("decision changed for identical context: %+v vs %+v", d, first)
			}
		}
	})
}

func TestEngineShouldContinue(t *testing.T) {
	t.Parallel()

	proceed := model.Decision{Tool: model.ToolTechAnalyzer, ExpectedEvidence: 12}

	t.Run("loop cap stops regardless of decision", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine()
		pc := model.NewPageContext("https://acme.test/")
		pc.LoopCount = config.DefaultMaxLoops

		ok, reason := e.ShouldContinue(pc, proceed)
		if ok {
			t.Fatal("expected stop at the loop cap")
		}
		if reason == "" {
			t.Error("expected a stop reason")
		}
	})

	t.Run("evidence ceiling stops the loop", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine()
		pc := model.NewPageContext("https://acme.test/")
		pc.EvidenceCount = config.DefaultEvidenceCeiling + 1

		if ok, _ := e.ShouldContinue(pc, proceed); ok {
			t.Fatal("expected stop above the evidence ceiling")
		}
	})

	t.Run("terminal decision stops the loop", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine()
		pc := model.NewPageContext("https://acme.test/")

		if ok, _ := e.ShouldContinue(pc, model.StopDecision("done")); ok {
			t.Fatal("expected stop for terminal decision")
		}
	})

	t.Run("low value decision stops after diminishing returns", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine()
		pc := model.NewPageContext("https://acme.test/")
		pc.EvidenceCount = config.DefaultDiminishingReturns + 1
		lowValue := model.Decision{Tool: model.ToolSecurityScanner, ExpectedEvidence: 2}

		if ok, _ := e.ShouldContinue(pc, lowValue); ok {
			t.Fatal("expected stop for low-value decision past diminishing returns")
		}
	})

	t.Run("low value decision proceeds below diminishing returns", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine()
		pc := model.NewPageContext("https://acme.test/")
		pc.EvidenceCount = 3
		lowValue := model.Decision{Tool: model.ToolSecurityScanner, ExpectedEvidence: 2}

		if ok, _ := e.ShouldContinue(pc, lowValue); !ok {
			t.Fatal("expected loop to proceed below diminishing returns")
		}
	})

	t.Run("normal decision proceeds", func(t *testing.T) {
		t.Parallel()

		e := newTestEngine()
		pc := model.NewPageContext("https://acme.test/")
		pc.LoopCount = 2
		pc.EvidenceCount = 10

		if ok, _ := e.ShouldContinue(pc, proceed); !ok {
			t.Fatal("expected loop to proceed")
		}
	})
}

func TestURLHeuristics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		api  bool
		app  bool
		tech bool
	}{
		{"https://acme.test/docs/reference", true, false, false},
		{"https://api.acme.test/", true, false, false},
		{"https://acme.test/app/settings", false, true, false},
		{"https://app.acme.test/", false, true, false},
		{"https://acme.test/engineering/blog", false, false, true},
		{"https://acme.test/about", false, false, false},
	}

	for _, tt := range tests {
		if got := isAPIDocURL(tt.url); got != tt.api {
			t.Errorf("isAPIDocURL(%q) = %v, want %v", tt.url, got, tt.api)
		}
		if got := isAppURL(tt.url); got != tt.app {
			t.Errorf("isAppURL(%q) = %v, want %v", tt.url, got, tt.app)
		}
		if got := isTechURL(tt.url); got != tt.tech {
			t.Errorf("isTechURL(%q) = %v, want %v", tt.url, got, tt.tech)
		}
	}
}
