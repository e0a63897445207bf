package capability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orgscan/orgscan/internal/model"
)

// fakeCapability is a scriptable capability for executor tests.
type fakeCapability struct {
	name    string
	result  *Result
	err     error
	panics  bool
	blocks  bool
}

func (f *fakeCapability) Name() string { return f.name }

func (f *fakeCapability) Collect(ctx context.Context, _ string, _ *model.PageContext) (*Result, error) {
	if f.panics {
		panic("boom")
	}
	if f.blocks {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.result, f.err
}

func TestExecutorExecute(t *testing.T) {
	t.Parallel()

	t.Run("successful tool run", func(t *testing.T) {
		t.Parallel()

		e := NewExecutor(time.Second, nil)
		e.Register(&fakeCapability{
			name: model.ToolHTMLCollector,
			result: &Result{
				Evidence: []model.EvidenceItem{
					model.NewEvidenceItem(model.CategoryCompanyInfo, "page title: Acme", "https://acme.test", 0.9),
				},
				Characteristics: map[string]string{"hasJavaScript": "true"},
			},
		})

		res := e.Execute(context.Background(), model.ToolHTMLCollector, "https://acme.test", model.NewPageContext("https://acme.test"))
		if !res.Success {
			t.Fatalf("expected success, got error %v", res.Err)
		}
		if len(res.Evidence) != 1 {
			t.Errorf("expected 1 evidence item, got %d", len(res.Evidence))
		}
		if res.Characteristics["hasJavaScript"] != "true" {
			t.Error("characteristics not propagated")
		}
	})

	t.Run("unknown tool fails without panicking", func(t *testing.T) {
		t.Parallel()

		e := NewExecutor(time.Second, nil)
		res := e.Execute(context.Background(), "no-such-tool", "https://acme.test", nil)
		if res.Success {
			t.Fatal("expected failure for unknown tool")
		}
		if !errors.Is(res.Err, ErrUnknownTool) {
			t.Errorf("expected ErrUnknownTool, got %v", res.Err)
		}
	})

	t.Run("capability error becomes a failed result", func(t *testing.T) {
		t.Parallel()

		e := NewExecutor(time.Second, nil)
		e.Register(&fakeCapability{name: model.ToolTechAnalyzer, err: errors.New("fetch failed")})

		res := e.Execute(context.Background(), model.ToolTechAnalyzer, "https://acme.test", nil)
		if res.Success {
			t.Fatal("expected failure")
		}
		var toolErr *ToolExecutionError
		if !errors.As(res.Err, &toolErr) {
			t.Fatalf("expected ToolExecutionError, got %T", res.Err)
		}
		if toolErr.Tool != model.ToolTechAnalyzer {
			t.Errorf("expected tool name in error, got %q", toolErr.Tool)
		}
	})

	t.Run("capability panic becomes a failed result", func(t *testing.T) {
		t.Parallel()

		e := NewExecutor(time.Second, nil)
		e.Register(&fakeCapability{name: model.ToolSecurityScanner, panics: true})

		res := e.Execute(context.Background(), model.ToolSecurityScanner, "https://acme.test", nil)
		if res.Success {
			t.Fatal("expected failure")
		}
		if res.Err == nil {
			t.Fatal("expected an error describing the panic")
		}
	})

	t.Run("blocking capability is cut off by the timeout", func(t *testing.T) {
		t.Parallel()

		e := NewExecutor(50*time.Millisecond, nil)
		e.Register(&fakeCapability{name: model.ToolAPIExtractor, blocks: true})

		start := time.Now()
		res := e.Execute(context.Background(), model.ToolAPIExtractor, "https://acme.test", nil)
		if res.Success {
			t.Fatal("expected failure")
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("timeout not enforced, ran for %v", elapsed)
		}
		if !errors.Is(res.Err, context.DeadlineExceeded) {
			t.Errorf("expected deadline error, got %v", res.Err)
		}
	})

	t.Run("registered reports known tools", func(t *testing.T) {
		t.Parallel()

		e := NewExecutor(time.Second, nil)
		e.Register(&fakeCapability{name: model.ToolFeedCollector})
		if !e.Registered(model.ToolFeedCollector) {
			t.Error("expected feed collector to be registered")
		}
		if e.Registered(model.ToolImageMetadata) {
			t.Error("did not expect image metadata to be registered")
		}
	})
}
