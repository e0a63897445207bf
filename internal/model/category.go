package model

// Evidence category constants.
// Categories classify evidence items by the aspect of the target
// organization they describe. Every collected item carries exactly one
// category, and coverage is measured per category.
const (
	// CategoryTechStack covers programming languages, frameworks,
	// infrastructure, and other technology choices.
	CategoryTechStack = "tech-stack"

	// CategoryTeamInfo covers leadership, team members, and hiring signals.
	CategoryTeamInfo = "team-info"

	// CategoryFinancialMetric covers revenue, funding, and pricing signals.
	CategoryFinancialMetric = "financial-metric"

	// CategoryAPIEndpoint covers discovered API surfaces and documentation.
	CategoryAPIEndpoint = "api-endpoint"

	// CategorySecurityPosture covers security headers, TLS configuration,
	// and published security practices.
	CategorySecurityPosture = "security-posture"

	// CategoryMarketPosition covers press, news, and product positioning.
	CategoryMarketPosition = "market-position"

	// CategoryCompetitor covers named competitors and comparisons.
	CategoryCompetitor = "competitor"

	// CategoryCompanyInfo covers general facts: founding, location, mission.
	CategoryCompanyInfo = "company-info"
)

// CategoryInfo holds the collection quota and scoring metadata for one
// evidence category.
type CategoryInfo struct {
	// Target is the number of evidence items considered full coverage.
	Target int

	// Weight is the category importance on a 1-3 scale. It feeds gap
	// prioritization: underfilled categories with weight >= 2 escalate
	// to high priority sooner.
	Weight int

	// Boost is the score multiplier applied during evidence processing.
	// High-value categories use 1.5, everything else 1.0.
	Boost float64
}

// categoryInfoMapping maps categories to their quotas, weights, and boosts.
// This centralized mapping is the single source of truth for coverage
// targets across gap analysis, targeted collection, and scoring.
//
// The target counts are collection goals, not guarantees: a small company
// site may never yield 30 tech-stack items, which is exactly what the gap
// analyzer reports.
var categoryInfoMapping = map[string]CategoryInfo{
	CategoryTechStack:       {Target: 30, Weight: 3, Boost: 1.5},
	CategoryTeamInfo:        {Target: 20, Weight: 2, Boost: 1.5},
	CategoryFinancialMetric: {Target: 15, Weight: 3, Boost: 1.5},
	CategoryAPIEndpoint:     {Target: 10, Weight: 2, Boost: 1.0},
	CategorySecurityPosture: {Target: 10, Weight: 2, Boost: 1.0},
	CategoryMarketPosition:  {Target: 15, Weight: 2, Boost: 1.0},
	CategoryCompetitor:      {Target: 10, Weight: 1, Boost: 1.0},
	CategoryCompanyInfo:     {Target: 10, Weight: 1, Boost: 1.0},
}

// GetCategoryInfo returns the metadata for a category.
// Unknown categories get a conservative default: small target, lowest
// weight, no score boost. This keeps ad-hoc categories from search phases
// visible in coverage without letting them dominate gap analysis.
func GetCategoryInfo(category string) CategoryInfo {
	if info, ok := categoryInfoMapping[category]; ok {
		return info
	}
	return CategoryInfo{Target: 5, Weight: 1, Boost: 1.0}
}

// TrackedCategories returns all categories with configured quotas,
// in deterministic (sorted) order.
func TrackedCategories() []string {
	return []string{
		CategoryAPIEndpoint,
		CategoryCompanyInfo,
		CategoryCompetitor,
		CategoryFinancialMetric,
		CategoryMarketPosition,
		CategorySecurityPosture,
		CategoryTeamInfo,
		CategoryTechStack,
	}
}

// IsTracked reports whether the category has a configured quota.
func IsTracked(category string) bool {
	_, ok := categoryInfoMapping[category]
	return ok
}
