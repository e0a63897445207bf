package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/orgscan/orgscan/internal/model"
)

// Default configuration values.
// The decision-loop thresholds (max loops, evidence ceiling, diminishing
// returns, low value) are operational defaults carried from field use, not
// derived constants; they exist as configuration precisely so deployments
// can tune them.
const (
	// DefaultMaxURLs caps URL discovery per domain. 250 covers the
	// marketing/docs surface of most company sites while keeping a full
	// run under a few minutes at the default concurrency.
	DefaultMaxURLs = 250

	// DefaultMaxLoops caps decide-execute iterations per URL. With five
	// distinct capabilities a loop count above the capability count only
	// occurs when characteristics keep changing; 10 leaves room for that
	// without risking livelock.
	DefaultMaxLoops = 10

	// DefaultEvidenceCeiling stops a URL's loop once it has produced this
	// many items. A single page yielding more than 50 items is almost
	// always boilerplate extraction noise.
	DefaultEvidenceCeiling = 50

	// DefaultDiminishingReturns is the per-URL evidence level above which
	// low-expectation tools are no longer worth running.
	DefaultDiminishingReturns = 20

	// DefaultLowValueThreshold is the expected-evidence estimate below
	// which a decision counts as low value for the diminishing-returns
	// stop condition.
	DefaultLowValueThreshold = 5

	// DefaultConcurrency bounds parallel page fetches and URL loops.
	// Five concurrent requests is polite to a single target domain.
	DefaultConcurrency = 5

	// DefaultToolTimeout bounds one tool execution. Tools do at most a
	// handful of HTTP requests; 30 seconds is generous even for the
	// headless-browser collector.
	DefaultToolTimeout = 30 * time.Second

	// DefaultFetchTimeout bounds a single page fetch.
	DefaultFetchTimeout = 20 * time.Second

	// DefaultMaxBodySize limits response bodies to 5MB. Sufficient for
	// any HTML page while preventing memory exhaustion from large
	// downloads.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultCrawlDelay is the minimum spacing between requests to the
	// target domain, enforced by the fetcher's rate limiter.
	DefaultCrawlDelay = 200 * time.Millisecond

	// DefaultMaxSearchDepth bounds adaptive search-phase injection.
	// Each injected phase costs a full round of queries, so the budget
	// is small.
	DefaultMaxSearchDepth = 5

	// DefaultMinPhaseYield is the evidence count below which a search
	// phase triggers an adaptive follow-up phase.
	DefaultMinPhaseYield = 5

	// DefaultMaxTotalEvidence is the global ceiling across the whole run.
	// Together with the URL cap and per-URL loop cap it guarantees
	// termination even without wall-clock cancellation.
	DefaultMaxTotalEvidence = 2000

	// DefaultRequiredMinimum is the floor for required categories: fewer
	// items than this forces a high-priority gap.
	DefaultRequiredMinimum = 5

	// DefaultUserAgent identifies the collector in HTTP requests.
	// A descriptive User-Agent lets site operators identify scanner
	// traffic in their logs.
	DefaultUserAgent = "orgscan/1.0 (+https://github.com/orgscan/orgscan)"

	// AppName is used for XDG directory paths.
	AppName = "orgscan"
)

// Config holds all engine options. Populated from CLI flags and the
// optional configuration file, then passed through the application by
// dependency injection.
//
// Design decision: a single flat struct instead of nested sub-configs.
// The option count is manageable, and flat fields keep flag wiring simple.
type Config struct {
	// MaxURLs caps how many URLs discovery may return per domain.
	MaxURLs int

	// MaxLoops caps decide-execute iterations per URL.
	MaxLoops int

	// EvidenceCeiling stops a URL's loop once it produced this many items.
	EvidenceCeiling int

	// DiminishingReturns is the per-URL evidence level above which
	// low-expectation decisions stop the loop.
	DiminishingReturns int

	// LowValueThreshold is the expected-evidence estimate under which a
	// decision counts as low value.
	LowValueThreshold int

	// Concurrency bounds parallel fetches and URL loops.
	Concurrency int

	// ToolTimeout bounds a single tool execution.
	ToolTimeout time.Duration

	// FetchTimeout bounds a single page fetch.
	FetchTimeout time.Duration

	// MaxBodySize limits response body reads.
	MaxBodySize int64

	// CrawlDelay is the minimum spacing between requests to the target.
	CrawlDelay time.Duration

	// MaxSearchDepth bounds adaptive search-phase injection.
	MaxSearchDepth int

	// MinPhaseYield is the per-phase evidence count under which an
	// adaptive phase is injected.
	MinPhaseYield int

	// MaxTotalEvidence is the global evidence ceiling for the run.
	MaxTotalEvidence int

	// RequiredCategories are categories that must reach RequiredMinimum
	// items; shortfalls become forced high-priority gaps.
	RequiredCategories []string

	// RequiredMinimum is the item floor for required categories.
	RequiredMinimum int

	// CategoryTargets overrides the default per-category quotas.
	// Categories absent from the map keep their defaults.
	CategoryTargets map[string]int

	// UserAgent is sent with every HTTP request.
	UserAgent string

	// RenderedFetch enables the headless-browser collector. Disabled
	// deployments degrade gracefully: the decision engine's rendered-DOM
	// rule is skipped and basic collection runs instead.
	RenderedFetch bool

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// JSONReport and MarkdownReport select the output format. Mutually
	// exclusive; plain text is the default.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// DBDir is the directory for the SQLite collection database.
	// Empty disables persistence.
	DBDir string

	// ConfigFilePath points at the YAML configuration file. Empty means
	// search the standard locations.
	ConfigFilePath string

	// Domains holds per-domain overrides loaded from the config file.
	Domains *File
}

// NewConfig returns a Config with all defaults applied.
func NewConfig() *Config {
	return &Config{
		MaxURLs:            DefaultMaxURLs,
		MaxLoops:           DefaultMaxLoops,
		EvidenceCeiling:    DefaultEvidenceCeiling,
		DiminishingReturns: DefaultDiminishingReturns,
		LowValueThreshold:  DefaultLowValueThreshold,
		Concurrency:        DefaultConcurrency,
		ToolTimeout:        DefaultToolTimeout,
		FetchTimeout:       DefaultFetchTimeout,
		MaxBodySize:        DefaultMaxBodySize,
		CrawlDelay:         DefaultCrawlDelay,
		MaxSearchDepth:     DefaultMaxSearchDepth,
		MinPhaseYield:      DefaultMinPhaseYield,
		MaxTotalEvidence:   DefaultMaxTotalEvidence,
		RequiredMinimum:    DefaultRequiredMinimum,
		UserAgent:          DefaultUserAgent,
		RenderedFetch:      true,
	}
}

// ApplyDepth scales the collection caps for a depth preset.
// Unknown or empty depth keeps the deep (default) preset.
func (c *Config) ApplyDepth(depth string) {
	switch depth {
	case model.DepthShallow:
		c.MaxURLs = 50
		c.MaxLoops = 5
		c.MaxSearchDepth = 2
	case model.DepthComprehensive:
		c.MaxURLs = 400
		c.MaxSearchDepth = 8
		c.MaxTotalEvidence = 4000
	case model.DepthDeep, "":
		// Defaults already match the deep preset.
	}
}

// TargetFor returns the quota for a category, honoring overrides.
func (c *Config) TargetFor(category string) int {
	if t, ok := c.CategoryTargets[category]; ok {
		return t
	}
	return model.GetCategoryInfo(category).Target
}

// Validate checks the configuration for contradictions.
// Returns one of the package sentinel errors on failure.
func (c *Config) Validate() error {
	if c.MaxURLs <= 0 {
		return ErrInvalidMaxURLs
	}
	if c.MaxLoops <= 0 {
		return ErrInvalidMaxLoops
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.ToolTimeout <= 0 || c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// DefaultDBDir returns the XDG data directory for the collection database.
func DefaultDBDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
