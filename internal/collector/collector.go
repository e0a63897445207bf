package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/orgscan/orgscan/internal/audit"
	"github.com/orgscan/orgscan/internal/capability"
	"github.com/orgscan/orgscan/internal/config"
	"github.com/orgscan/orgscan/internal/crawler"
	"github.com/orgscan/orgscan/internal/decide"
	"github.com/orgscan/orgscan/internal/evidence"
	"github.com/orgscan/orgscan/internal/fetch"
	"github.com/orgscan/orgscan/internal/model"
	"github.com/orgscan/orgscan/internal/search"
)

// Collector runs end-to-end collection for one organization at a time.
type Collector struct {
	cfg      *config.Config
	logger   *slog.Logger
	fetcher  fetch.Fetcher
	provider search.Provider
}

// Option configures a Collector.
type Option func(*Collector)

// WithFetcher overrides the HTTP fetcher, used by tests.
func WithFetcher(f fetch.Fetcher) Option {
	return func(c *Collector) {
		c.fetcher = f
	}
}

// WithSearchProvider overrides the search backend.
func WithSearchProvider(p search.Provider) Option {
	return func(c *Collector) {
		c.provider = p
	}
}

// New creates a collector. The default fetcher and search provider are
// built lazily per run so each run gets its own rate limiters.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Collector{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes a full collection for the request. It always returns a
// result; when err is non-nil the result carries whatever evidence was
// gathered before the failure, with Error set.
func (c *Collector) Run(ctx context.Context, req model.CollectionRequest) (*model.CollectionResult, error) {
	result := &model.CollectionResult{
		Request:   req,
		StartedAt: time.Now().UTC(),
	}

	if req.Domain == "" {
		return failResult(result, config.ErrMissingDomain)
	}
	if req.CompanyName == "" {
		return failResult(result, config.ErrMissingCompany)
	}

	// Depth presets mutate caps, so each run works on its own copy.
	runCfg := *c.cfg
	runCfg.ApplyDepth(req.Depth)

	fetcher := c.fetcher
	if fetcher == nil {
		fetcher = c.buildFetcher(&runCfg, req.Domain)
	}
	provider := c.provider
	if provider == nil {
		provider = search.NewDuckDuckGo(
			&http.Client{Timeout: runCfg.FetchTimeout},
			search.WithUserAgent(runCfg.UserAgent))
	}

	var rendered *fetch.RenderedFetcher
	if runCfg.RenderedFetch {
		rendered = fetch.NewRenderedFetcher(runCfg.FetchTimeout)
		defer func() {
			if cerr := rendered.Close(); cerr != nil {
				c.logger.Debug("browser close failed", slog.String("error", cerr.Error()))
			}
		}()
	}

	executor := buildExecutor(&runCfg, fetcher, rendered, c.logger)
	engine := decide.NewEngine(&runCfg)
	store := evidence.NewStore(runCfg.MaxTotalEvidence)
	auditLog := audit.NewLog()
	monitor := evidence.NewMonitor(
		evidence.WithTargets(runCfg.CategoryTargets),
		evidence.WithRequired(runCfg.RequiredCategories, runCfg.RequiredMinimum))

	state := &runState{
		request:  req,
		store:    store,
		auditLog: auditLog,
	}

	err := sequence(ctx, c.logger, state,
		&discoveryPhase{discoverer: crawler.NewDiscoverer(fetcher, &runCfg, c.logger)},
		&crawlPhase{crawler: crawler.NewCrawler(executor, engine, store, auditLog, &runCfg, c.logger)},
		&searchPhase{searcher: search.NewSearcher(provider, store, auditLog, &runCfg, c.logger)},
		&targetedPhase{
			executor: executor,
			provider: provider,
			monitor:  monitor,
		},
	)

	processed, aggErrs := evidence.NewProcessor().Process(store.Snapshot())
	for _, aggErr := range aggErrs {
		auditLog.Record(model.PhaseProcess, "aggregation-error", "", req.Domain,
			aggErr.Error(), "", 0, 0)
	}
	auditLog.Record(model.PhaseProcess, "process-evidence", "", req.Domain,
		fmt.Sprintf("%d raw items, %d after processing", store.Len(), len(processed)),
		"", len(processed), 0)

	counts := categoryCounts(processed)
	result.Evidence = processed
	result.Gaps = monitor.AnalyzeGaps(counts)
	result.AuditTrail = auditLog.Entries()
	result.DiscoveredURLs = len(state.urls)
	result.Summary = buildSummary(auditLog, processed, counts)
	result.FinishedAt = time.Now().UTC()

	if err != nil {
		result.Error = err.Error()
		return result, err
	}
	return result, nil
}

// buildFetcher assembles the per-run HTTP fetcher with politeness limits
// and any per-domain headers from the config file.
func (c *Collector) buildFetcher(cfg *config.Config, domain string) fetch.Fetcher {
	opts := []fetch.Option{
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithDelay(cfg.CrawlDelay),
	}
	if cfg.Domains != nil {
		if dc := cfg.Domains.GetDomainConfig(domain); len(dc.Headers) > 0 {
			opts = append(opts, fetch.WithHeaders(dc.Headers))
		}
	}
	return fetch.NewHTTPFetcher(&http.Client{Timeout: cfg.FetchTimeout}, opts...)
}

// buildExecutor registers every available capability.
func buildExecutor(cfg *config.Config, fetcher fetch.Fetcher, rendered *fetch.RenderedFetcher, logger *slog.Logger) *capability.Executor {
	executor := capability.NewExecutor(cfg.ToolTimeout, logger)
	executor.Register(capability.NewHTMLCollector(fetcher))
	executor.Register(capability.NewTechAnalyzer(fetcher))
	executor.Register(capability.NewSecurityScanner(fetcher))
	executor.Register(capability.NewAPIExtractor(fetcher))
	executor.Register(capability.NewImageMetadata(fetcher, &http.Client{Timeout: cfg.FetchTimeout}))
	executor.Register(capability.NewFeedCollector(fetcher))
	if rendered != nil {
		executor.Register(capability.NewRenderedCollector(rendered))
	}
	return executor
}

// failResult finalizes a result for a request that never started.
func failResult(result *model.CollectionResult, err error) (*model.CollectionResult, error) {
	result.Error = err.Error()
	result.FinishedAt = time.Now().UTC()
	return result, err
}

// categoryCounts tallies processed evidence by category.
func categoryCounts(items []model.EvidenceItem) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		counts[it.Type]++
	}
	return counts
}

// discoveryPhase finds the crawlable URL surface of the target domain.
type discoveryPhase struct {
	discoverer *crawler.Discoverer
}

func (p *discoveryPhase) Name() string { return model.PhaseDiscovery }

func (p *discoveryPhase) Do(ctx context.Context, state *runState) error {
	start := time.Now()
	urls, err := p.discoverer.Discover(ctx, state.request.Domain)
	state.urls = urls
	state.auditLog.Record(model.PhaseDiscovery, "discover-urls", "", state.request.Domain,
		fmt.Sprintf("%d URLs", len(urls)), "", 0, time.Since(start))
	return err
}

// crawlPhase runs the adaptive decision loop over the discovered URLs.
type crawlPhase struct {
	crawler *crawler.Crawler
}

func (p *crawlPhase) Name() string { return model.PhaseCrawl }

func (p *crawlPhase) Do(ctx context.Context, state *runState) error {
	return p.crawler.Crawl(ctx, state.urls)
}

// searchPhase runs the agentic keyword-search strategy.
type searchPhase struct {
	searcher *search.Searcher
}

func (p *searchPhase) Name() string { return model.PhaseSearch }

func (p *searchPhase) Do(ctx context.Context, state *runState) error {
	return p.searcher.Run(ctx, state.request)
}
