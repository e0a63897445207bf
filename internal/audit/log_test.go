package audit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/orgscan/orgscan/internal/model"
)

func TestLogAppendAndEntries(t *testing.T) {
	t.Parallel()

	l := NewLog()
	l.Record(model.PhaseCrawl, "execute-tool", model.ToolHTMLCollector,
		"https://example.com", "12 items", "high-value page", 12, time.Second)
	l.Record(model.PhaseSearch, "run-query", "",
		"example tech stack", "2 items", "", 2, time.Second)

	if got := l.Len(); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}

	entries := l.Entries()
	if entries[0].Phase != model.PhaseCrawl {
		t.Errorf("expected first entry in crawl phase, got %q", entries[0].Phase)
	}
	if entries[0].Quality != model.QualityHigh {
		t.Errorf("expected high quality for 12 items, got %v", entries[0].Quality)
	}
	if entries[1].Quality != model.QualityLow {
		t.Errorf("expected low quality for 2 items, got %v", entries[1].Quality)
	}
}

func TestLogEntriesReturnsCopy(t *testing.T) {
	t.Parallel()

	l := NewLog()
	l.Record(model.PhaseCrawl, "execute-tool", model.ToolHTMLCollector, "u", "o", "", 1, 0)

	entries := l.Entries()
	entries[0].Phase = "tampered"

	if l.Entries()[0].Phase != model.PhaseCrawl {
		t.Error("mutating the returned slice must not affect the log")
	}
}

func TestLogConcurrentAppend(t *testing.T) {
	t.Parallel()

	l := NewLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Record(model.PhaseCrawl, "execute-tool", model.ToolHTMLCollector,
				fmt.Sprintf("https://example.com/%d", n), "", "", 1, 0)
		}(i)
	}
	wg.Wait()

	if got := l.Len(); got != 50 {
		t.Errorf("expected 50 entries, got %d", got)
	}
}

func TestLogSummaries(t *testing.T) {
	t.Parallel()

	l := NewLog()
	l.Record(model.PhaseCrawl, "execute-tool", model.ToolHTMLCollector, "a", "", "", 5, 0)
	l.Record(model.PhaseCrawl, "execute-tool", model.ToolTechAnalyzer, "a", "", "", 3, 0)
	l.Record(model.PhaseSearch, "run-query", "", "q", "", "", 7, 0)

	byPhase := l.SummarizeByPhase()
	if byPhase[model.PhaseCrawl] != 8 {
		t.Errorf("expected 8 crawl items, got %d", byPhase[model.PhaseCrawl])
	}
	if byPhase[model.PhaseSearch] != 7 {
		t.Errorf("expected 7 search items, got %d", byPhase[model.PhaseSearch])
	}

	byTool := l.SummarizeByTool()
	if byTool[model.ToolHTMLCollector] != 5 {
		t.Errorf("expected 5 items for html collector, got %d", byTool[model.ToolHTMLCollector])
	}
	if _, ok := byTool[""]; ok {
		t.Error("entries without a tool must not appear in the tool summary")
	}
}
