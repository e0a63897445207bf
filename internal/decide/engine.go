package decide

import (
	"fmt"
	"strings"

	"github.com/orgscan/orgscan/internal/config"
	"github.com/orgscan/orgscan/internal/model"
)

// Engine selects the next tool for a URL from the page's accumulated
// context. Rules run in fixed precedence order and the first match wins.
//
// Design decision: an ordered rule table instead of scoring across all
// candidates. With a handful of tools, explicit precedence is easier to
// reason about than weight tuning, and a first-match policy makes every
// decision explainable in one sentence for the audit trail.
type Engine struct {
	cfg *config.Config
}

// NewEngine creates a decision engine with the given collection limits.
func NewEngine(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// Decide returns the next tool to run against the URL, or a terminal
// decision when no rule fires. Rule order, highest precedence first:
//
//  1. JavaScript-rendered page or app-like URL not yet rendered:
//     rendered-collector.
//  2. API documentation URL not yet mined: api-extractor.
//  3. Security headers observed but no scan yet: security-scanner.
//  4. Technology page not yet analyzed: tech-analyzer.
//  5. Fresh URL: html-collector.
//  6. Nothing left: stop.
func (e *Engine) Decide(pc *model.PageContext) model.Decision {
	if (pc.Characteristic("hasJavaScript") == "true" || isAppURL(pc.URL)) &&
		!pc.HasRun(model.ToolRenderedCollector) &&
		e.cfg.RenderedFetch {
		return model.Decision{
			Tool:             model.ToolRenderedCollector,
			Reasoning:        "page needs rendered-DOM content; raw HTML is content-free",
			Priority:         9,
			ExpectedEvidence: 15,
		}
	}

	if isAPIDocURL(pc.URL) && !pc.HasRun(model.ToolAPIExtractor) {
		return model.Decision{
			Tool:             model.ToolAPIExtractor,
			Reasoning:        "URL is API documentation; endpoint extraction applies",
			Priority:         8,
			ExpectedEvidence: 10,
		}
	}

	if pc.Characteristic("securityHeaders") != "" && !pc.HasRun(model.ToolSecurityScanner) {
		return model.Decision{
			Tool:             model.ToolSecurityScanner,
			Reasoning:        "headers observed; security posture check applies",
			Priority:         7,
			ExpectedEvidence: 8,
		}
	}

	if isTechURL(pc.URL) && !pc.HasRun(model.ToolTechAnalyzer) {
		return model.Decision{
			Tool:             model.ToolTechAnalyzer,
			Reasoning:        "technology page; stack fingerprinting applies",
			Priority:         8,
			ExpectedEvidence: 12,
		}
	}

	if !pc.HasRun(model.ToolHTMLCollector) {
		return model.Decision{
			Tool:             model.ToolHTMLCollector,
			Reasoning:        "fresh URL; basic collection first",
			Priority:         10,
			ExpectedEvidence: 10,
		}
	}

	return model.StopDecision("no applicable tool remains for this URL")
}

// ShouldContinue reports whether the URL's decide-execute loop should run
// another iteration given the pending decision. Stop conditions, checked
// in order:
//
//   - the loop count reached the cap
//   - the URL produced more evidence than the per-URL ceiling
//   - the decision is terminal
//   - the decision is low value while the URL is already past the
//     diminishing-returns level
func (e *Engine) ShouldContinue(pc *model.PageContext, d model.Decision) (bool, string) {
	if pc.LoopCount >= e.cfg.MaxLoops {
		return false, fmt.Sprintf("loop cap reached (%d iterations)", pc.LoopCount)
	}
	if pc.EvidenceCount > e.cfg.EvidenceCeiling {
		return false, fmt.Sprintf("evidence ceiling exceeded (%d items)", pc.EvidenceCount)
	}
	if d.Terminal() {
		return false, d.Reasoning
	}
	if d.ExpectedEvidence < e.cfg.LowValueThreshold && pc.EvidenceCount > e.cfg.DiminishingReturns {
		return false, fmt.Sprintf("diminishing returns (%d items collected, %d expected)",
			pc.EvidenceCount, d.ExpectedEvidence)
	}
	return true, ""
}

// apiDocMarkers are path fragments that identify developer documentation.
var apiDocMarkers = []string{
	"/api", "/docs", "/developers", "/developer", "/reference",
	"swagger", "graphql", "openapi",
}

// isAPIDocURL reports whether the URL looks like API documentation.
func isAPIDocURL(url string) bool {
	lower := strings.ToLower(url)
	if strings.Contains(hostOf(lower), "api.") || strings.Contains(hostOf(lower), "docs.") {
		return true
	}
	for _, m := range apiDocMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// appMarkers are path fragments and subdomains that identify application
// surfaces likely to need a rendered DOM.
var appMarkers = []string{"/app", "/dashboard", "/portal", "/login", "/signin", "/account"}

// isAppURL reports whether the URL is an application surface (login
// pages, dashboards, app subdomains).
func isAppURL(url string) bool {
	lower := strings.ToLower(url)
	host := hostOf(lower)
	if strings.HasPrefix(host, "app.") || strings.HasPrefix(host, "portal.") {
		return true
	}
	for _, m := range appMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// techMarkers are path fragments that identify technology content.
var techMarkers = []string{"/technology", "/tech", "/stack", "/engineering", "/platform", "/infrastructure"}

// isTechURL reports whether the URL is likely to describe the stack.
func isTechURL(url string) bool {
	lower := strings.ToLower(url)
	for _, m := range techMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// hostOf extracts the host portion of a URL without a full parse. The
// decision engine runs on every loop iteration; string slicing is enough
// for the prefix checks it needs.
func hostOf(url string) string {
	rest := url
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
