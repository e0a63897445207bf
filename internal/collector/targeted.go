package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orgscan/orgscan/internal/capability"
	"github.com/orgscan/orgscan/internal/evidence"
	"github.com/orgscan/orgscan/internal/model"
	"github.com/orgscan/orgscan/internal/search"
)

// gapProbePaths maps categories to the domain paths re-probed when that
// category is short, paired with the tool that mines them.
var gapProbePaths = map[string]struct {
	tool  string
	paths []string
}{
	model.CategoryTechStack: {
		tool:  model.ToolTechAnalyzer,
		paths: []string{"/technology", "/engineering", "/platform", "/stack", "/"},
	},
	model.CategoryAPIEndpoint: {
		tool:  model.ToolAPIExtractor,
		paths: []string{"/api", "/docs", "/developers", "/reference"},
	},
	model.CategorySecurityPosture: {
		tool:  model.ToolSecurityScanner,
		paths: []string{"/", "/security"},
	},
	model.CategoryCompanyInfo: {
		tool:  model.ToolHTMLCollector,
		paths: []string{"/about", "/contact", "/company"},
	},
	model.CategoryMarketPosition: {
		tool:  model.ToolFeedCollector,
		paths: []string{"/", "/blog", "/news"},
	},
}

// gapQueries maps categories to the follow-up search queries used when
// re-probing the domain cannot close the gap.
func gapQueries(category, company string) []string {
	quoted := `"` + company + `"`
	switch category {
	case model.CategoryTeamInfo:
		return []string{quoted + " founders executives", quoted + " leadership team bios"}
	case model.CategoryFinancialMetric:
		return []string{quoted + " funding valuation", quoted + " revenue growth"}
	case model.CategoryCompetitor:
		return []string{quoted + " versus competitors", quoted + " alternative vendors"}
	case model.CategoryMarketPosition:
		return []string{quoted + " market position analysis"}
	default:
		return nil
	}
}

// targetedPhase closes evidence gaps found after the crawl and search
// passes. Each high or medium priority gap gets a remediation plan:
// re-probe the domain paths likeliest to carry that category, then fall
// back to category-specific search queries. Remediation for a gap stops
// as soon as its deficit is covered.
type targetedPhase struct {
	executor *capability.Executor
	provider search.Provider
	monitor  *evidence.Monitor
}

func (p *targetedPhase) Name() string { return model.PhaseTargeted }

func (p *targetedPhase) Do(ctx context.Context, state *runState) error {
	gaps := p.monitor.AnalyzeGaps(state.store.CategoryCounts())

	for _, gap := range gaps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if gap.Priority == model.PriorityLow || state.store.Full() {
			continue
		}
		p.remediate(ctx, state, gap)
	}

	return nil
}

// remediate runs one gap's plan until the deficit is covered or the plan
// is exhausted.
func (p *targetedPhase) remediate(ctx context.Context, state *runState, gap model.Gap) {
	before := state.store.CountForCategory(gap.Category)
	covered := func() bool {
		return state.store.CountForCategory(gap.Category)-before >= gap.Deficit
	}

	if plan, ok := gapProbePaths[gap.Category]; ok && p.executor.Registered(plan.tool) {
		for _, path := range plan.paths {
			if ctx.Err() != nil || covered() || state.store.Full() {
				break
			}
			url := "https://" + state.request.Domain + path
			res := p.executor.Execute(ctx, plan.tool, url, model.NewPageContext(url))
			accepted := state.store.Append(annotateTargeted(res.Evidence, plan.tool)...)

			output := fmt.Sprintf("%d items", accepted)
			if !res.Success {
				output = "failed: " + res.Err.Error()
			}
			state.auditLog.Append(model.NewAuditEntry(model.PhaseTargeted, "probe-path", plan.tool,
				url, output, "close "+gap.Category+" gap", accepted, res.Duration))
		}
	}

	// Team gaps additionally mine photography credits on people pages.
	if gap.Category == model.CategoryTeamInfo && !covered() &&
		p.executor.Registered(model.ToolImageMetadata) {
		for _, path := range []string{"/team", "/about", "/people"} {
			if ctx.Err() != nil || covered() {
				break
			}
			url := "https://" + state.request.Domain + path
			res := p.executor.Execute(ctx, model.ToolImageMetadata, url, model.NewPageContext(url))
			accepted := state.store.Append(annotateTargeted(res.Evidence, model.ToolImageMetadata)...)
			state.auditLog.Append(model.NewAuditEntry(model.PhaseTargeted, "probe-images", model.ToolImageMetadata,
				url, fmt.Sprintf("%d items", accepted), "close team-info gap", accepted, res.Duration))
		}
	}

	for _, query := range gapQueries(gap.Category, state.request.CompanyName) {
		if ctx.Err() != nil || covered() || state.store.Full() {
			break
		}
		p.searchGap(ctx, state, gap, query)
	}
}

// searchGap runs one remediation query and stores relevant hits under the
// gap's category.
func (p *targetedPhase) searchGap(ctx context.Context, state *runState, gap model.Gap, query string) {
	start := time.Now()
	results, err := p.provider.Search(ctx, query, 8)
	if err != nil && !errors.Is(err, search.ErrNoResults) {
		state.auditLog.Record(model.PhaseTargeted, "gap-query", "", query,
			"failed: "+err.Error(), "close "+gap.Category+" gap", 0, time.Since(start))
		return
	}

	companyLower := strings.ToLower(state.request.CompanyName)
	var items []model.EvidenceItem
	for _, r := range results {
		if !strings.Contains(strings.ToLower(r.Title+" "+r.Snippet), companyLower) {
			continue
		}
		item := model.NewEvidenceItem(gap.Category, r.Title+" :: "+r.Snippet, r.URL, 0.5)
		item.Phase = model.PhaseTargeted
		items = append(items, item)
	}
	accepted := state.store.Append(items...)

	state.auditLog.Record(model.PhaseTargeted, "gap-query", "", query,
		fmt.Sprintf("%d results, %d items", len(results), accepted),
		"close "+gap.Category+" gap", accepted, time.Since(start))
}

// annotateTargeted stamps targeted-phase provenance onto evidence.
func annotateTargeted(items []model.EvidenceItem, tool string) []model.EvidenceItem {
	for i := range items {
		items[i].Phase = model.PhaseTargeted
		if items[i].Tool == "" {
			items[i].Tool = tool
		}
	}
	return items
}
