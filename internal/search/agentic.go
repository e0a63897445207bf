package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/orgscan/orgscan/internal/audit"
	"github.com/orgscan/orgscan/internal/config"
	"github.com/orgscan/orgscan/internal/evidence"
	"github.com/orgscan/orgscan/internal/model"
)

// toolSearch annotates search-phase evidence in per-tool summaries.
const toolSearch = "web-search"

// maxResultsPerQuery bounds one query's contribution.
const maxResultsPerQuery = 8

// phase is one search strategy round: a set of queries whose results all
// map to the same evidence category.
type phase struct {
	name     string
	category string
	queries  []string

	// followUp names the adaptive phase injected when this phase yields
	// less than the minimum. Empty means no follow-up exists.
	followUp string
}

// Searcher runs the multi-phase keyword search strategy against a
// provider, feeding results into the shared evidence store and audit log.
type Searcher struct {
	provider Provider
	store    *evidence.Store
	auditLog *audit.Log
	cfg      *config.Config
	logger   *slog.Logger
}

// NewSearcher creates an agentic searcher.
func NewSearcher(provider Provider, store *evidence.Store, auditLog *audit.Log, cfg *config.Config, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		provider: provider,
		store:    store,
		auditLog: auditLog,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run executes the base strategy phases in order, injecting adaptive
// follow-up phases for underperforming rounds. Query failures are audit
// entries, not run failures; Run only errors on context cancellation.
func (s *Searcher) Run(ctx context.Context, req model.CollectionRequest) error {
	pending := s.basePhases(req)
	injected := 0
	seenPhases := make(map[string]bool)

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.store.Full() {
			return nil
		}

		ph := pending[0]
		pending = pending[1:]
		if seenPhases[ph.name] {
			continue
		}
		seenPhases[ph.name] = true

		yield, err := s.runPhase(ctx, ph, req)
		if err != nil {
			return err
		}

		s.auditLog.Record(model.PhaseSearch, "complete-search-phase", toolSearch,
			ph.name, fmt.Sprintf("%d items from %d queries", yield, len(ph.queries)),
			"", yield, 0)

		// A weak phase earns one adaptive follow-up, budget permitting.
		if yield < s.cfg.MinPhaseYield && ph.followUp != "" && injected < s.cfg.MaxSearchDepth {
			follow, ok := adaptivePhase(ph.followUp, req)
			if ok && !seenPhases[follow.name] {
				injected++
				pending = append([]phase{follow}, pending...)
				s.logger.Info("injecting adaptive search phase",
					slog.String("after", ph.name),
					slog.String("phase", follow.name),
					slog.Int("yield", yield))
			}
		}
	}

	return nil
}

// runPhase executes one phase's queries in parallel and returns the
// number of evidence items accepted into the store.
func (s *Searcher) runPhase(ctx context.Context, ph phase, req model.CollectionRequest) (int, error) {
	var mu sync.Mutex
	yield := 0
	seenURLs := make(map[string]bool)
	companyLower := strings.ToLower(req.CompanyName)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for _, q := range ph.queries {
		q := q
		g.Go(func() error {
			results, err := s.provider.Search(gctx, q, maxResultsPerQuery)
			if err != nil && !errors.Is(err, ErrNoResults) {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.auditLog.Record(model.PhaseSearch, "run-query", toolSearch,
					q, "failed: "+err.Error(), ph.name, 0, 0)
				return nil
			}

			var items []model.EvidenceItem
			for _, r := range results {
				// Results that never mention the organization are
				// engine noise for these query shapes.
				if !strings.Contains(strings.ToLower(r.Title+" "+r.Snippet), companyLower) {
					continue
				}
				mu.Lock()
				dup := seenURLs[r.URL]
				seenURLs[r.URL] = true
				mu.Unlock()
				if dup {
					continue
				}
				item := model.NewEvidenceItem(ph.category, resultValue(r), r.URL, 0.5)
				item.Phase = model.PhaseSearch
				item.Tool = toolSearch
				items = append(items, item)
			}

			accepted := s.store.Append(items...)
			mu.Lock()
			yield += accepted
			mu.Unlock()

			s.auditLog.Record(model.PhaseSearch, "run-query", toolSearch,
				q, fmt.Sprintf("%d results, %d items", len(results), accepted),
				ph.name, accepted, 0)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return yield, err
	}
	return yield, nil
}

// resultValue formats a search hit as an evidence value.
func resultValue(r Result) string {
	v := r.Title
	if r.Snippet != "" {
		snippet := r.Snippet
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		v += " :: " + snippet
	}
	return v
}

// basePhases builds the fixed strategy rounds for a request, extended by
// thesis-specific queries when a known thesis is set.
func (s *Searcher) basePhases(req model.CollectionRequest) []phase {
	name := req.CompanyName
	quoted := `"` + name + `"`

	phases := []phase{
		{
			name:     "initial-discovery",
			category: model.CategoryCompanyInfo,
			queries: []string{
				quoted + " company profile",
				quoted + " " + req.Domain,
				quoted + " headquarters employees",
			},
			followUp: "leadership-search",
		},
		{
			name:     "deep-technical",
			category: model.CategoryTechStack,
			queries: []string{
				quoted + " engineering blog",
				quoted + " technology stack",
				quoted + " API documentation",
				"site:github.com " + quoted,
			},
			followUp: "technical-deep-dive",
		},
		{
			name:     "competitive-analysis",
			category: model.CategoryCompetitor,
			queries: []string{
				quoted + " competitors",
				quoted + " alternatives comparison",
				quoted + " market share",
			},
			followUp: "market-deep-dive",
		},
		{
			name:     "investor-network",
			category: model.CategoryFinancialMetric,
			queries: []string{
				quoted + " funding round",
				quoted + " investors",
				quoted + " revenue valuation",
			},
			followUp: "funding-deep-dive",
		},
	}

	switch req.Thesis {
	case model.ThesisOrganicGrowth:
		phases[2].queries = append(phases[2].queries,
			quoted+" customer growth", quoted+" expansion new markets")
	case model.ThesisBuyAndBuild:
		phases[3].queries = append(phases[3].queries,
			quoted+" acquisition", quoted+" merger consolidation")
	case model.ThesisDigitalTransformation:
		phases[1].queries = append(phases[1].queries,
			quoted+" cloud migration", quoted+" legacy modernization")
	}

	return phases
}

// adaptivePhase builds a follow-up phase by name.
func adaptivePhase(name string, req model.CollectionRequest) (phase, bool) {
	quoted := `"` + req.CompanyName + `"`

	switch name {
	case "leadership-search":
		return phase{
			name:     "leadership-search",
			category: model.CategoryTeamInfo,
			queries: []string{
				quoted + " CEO founder",
				quoted + " leadership team",
				quoted + " site:linkedin.com",
			},
		}, true
	case "technical-deep-dive":
		return phase{
			name:     "technical-deep-dive",
			category: model.CategoryTechStack,
			queries: []string{
				quoted + " built with",
				quoted + " infrastructure architecture",
				quoted + " open source",
			},
		}, true
	case "market-deep-dive":
		return phase{
			name:     "market-deep-dive",
			category: model.CategoryMarketPosition,
			queries: []string{
				quoted + " industry report",
				quoted + " customers case study",
				quoted + " partnership announcement",
			},
		}, true
	case "funding-deep-dive":
		return phase{
			name:     "funding-deep-dive",
			category: model.CategoryFinancialMetric,
			queries: []string{
				quoted + " crunchbase",
				quoted + " annual report financials",
				quoted + " series A B C",
			},
		}, true
	default:
		return phase{}, false
	}
}
