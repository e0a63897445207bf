package crawler

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/orgscan/orgscan/internal/audit"
	"github.com/orgscan/orgscan/internal/capability"
	"github.com/orgscan/orgscan/internal/config"
	"github.com/orgscan/orgscan/internal/decide"
	"github.com/orgscan/orgscan/internal/evidence"
	"github.com/orgscan/orgscan/internal/model"
)

// Crawler runs the adaptive per-URL collection loop over a set of
// discovered URLs. Each URL gets its own page context and its own
// sequential decide-execute loop; URL loops run in parallel up to the
// configured concurrency.
type Crawler struct {
	executor *capability.Executor
	engine   *decide.Engine
	store    *evidence.Store
	auditLog *audit.Log
	cfg      *config.Config
	logger   *slog.Logger
}

// NewCrawler creates a crawler over the shared evidence store and audit log.
func NewCrawler(executor *capability.Executor, engine *decide.Engine, store *evidence.Store, auditLog *audit.Log, cfg *config.Config, logger *slog.Logger) *Crawler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Crawler{
		executor: executor,
		engine:   engine,
		store:    store,
		auditLog: auditLog,
		cfg:      cfg,
		logger:   logger,
	}
}

// Crawl runs the collection loop for every URL. A URL whose loop fails
// is recorded in the audit trail and skipped; Crawl only returns an
// error when the context is canceled.
func (c *Crawler) Crawl(ctx context.Context, urls []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)

	for _, u := range urls {
		u := u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if c.store.Full() {
				return nil
			}
			c.crawlURL(gctx, u)
			return nil
		})
	}

	return g.Wait()
}

// crawlURL runs one URL's decide-execute loop to termination.
func (c *Crawler) crawlURL(ctx context.Context, url string) {
	pc := model.NewPageContext(url)

	for {
		if ctx.Err() != nil || c.store.Full() {
			return
		}

		d := c.engine.Decide(pc)
		ok, stopReason := c.engine.ShouldContinue(pc, d)
		if !ok {
			c.auditLog.Record(model.PhaseCrawl, "stop-url", "", url,
				fmt.Sprintf("%d items after %d iterations", pc.EvidenceCount, pc.LoopCount),
				stopReason, 0, 0)
			return
		}

		res := c.executor.Execute(ctx, d.Tool, url, pc)
		accepted := c.store.Append(annotate(res.Evidence, model.PhaseCrawl, d.Tool)...)
		pc.RecordRun(d.Tool, res.Characteristics, accepted)

		output := fmt.Sprintf("%d items", accepted)
		if !res.Success {
			output = "failed: " + res.Err.Error()
		}
		c.auditLog.Append(model.NewAuditEntry(model.PhaseCrawl, "execute-tool", d.Tool,
			url, output, d.Reasoning, accepted, res.Duration))

		c.logger.Debug("crawl iteration",
			slog.String("url", url),
			slog.String("tool", d.Tool),
			slog.Bool("success", res.Success),
			slog.Int("evidence", accepted),
			slog.Int("loop", pc.LoopCount))
	}
}

// annotate stamps the phase and tool onto evidence items before storage.
func annotate(items []model.EvidenceItem, phase, tool string) []model.EvidenceItem {
	for i := range items {
		items[i].Phase = phase
		if items[i].Tool == "" {
			items[i].Tool = tool
		}
	}
	return items
}
