package capability

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/orgscan/orgscan/internal/fetch"
	"github.com/orgscan/orgscan/internal/model"
)

// endpointPattern matches REST endpoint paths in documentation text, with
// or without a leading method verb.
var endpointPattern = regexp.MustCompile(`(?:(GET|POST|PUT|PATCH|DELETE)\s+)?(/(?:api|v\d+)/[a-zA-Z0-9_\-/{}.:]+)`)

// apiHostPattern matches absolute URLs on API-looking hosts.
var apiHostPattern = regexp.MustCompile(`https?://(?:api|developers?|docs)\.[a-zA-Z0-9.\-]+[a-zA-Z0-9_\-/{}.]*`)

// specLinkPattern matches links to machine-readable API specifications.
var specLinkPattern = regexp.MustCompile(`(?i)(openapi|swagger)[a-zA-Z0-9_\-/.]*\.(json|ya?ml)`)

// APIExtractor extracts API surface evidence from developer documentation:
// endpoint paths, API hosts, published OpenAPI specs, and GraphQL signals.
// The decision engine selects it for URLs under /api, /docs and
// /developers paths.
type APIExtractor struct {
	fetcher fetch.Fetcher
}

// NewAPIExtractor creates an API extractor using the given fetcher.
func NewAPIExtractor(f fetch.Fetcher) *APIExtractor {
	return &APIExtractor{fetcher: f}
}

// Name returns the dispatch name.
func (a *APIExtractor) Name() string {
	return model.ToolAPIExtractor
}

// Collect fetches the URL and extracts API endpoint evidence.
func (a *APIExtractor) Collect(ctx context.Context, url string, _ *model.PageContext) (*Result, error) {
	page, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	result := &Result{Characteristics: map[string]string{}}
	body := string(page.Body)
	seen := make(map[string]bool)

	add := func(value string, confidence float64) {
		if seen[value] {
			return
		}
		seen[value] = true
		result.Evidence = append(result.Evidence,
			model.NewEvidenceItem(model.CategoryAPIEndpoint, value, url, confidence))
	}

	for _, m := range endpointPattern.FindAllStringSubmatch(body, -1) {
		path := m[2]
		// Asset paths under /api happen; require at least two segments.
		if strings.Count(path, "/") < 2 {
			continue
		}
		if m[1] != "" {
			add("endpoint: "+m[1]+" "+path, 0.8)
		} else {
			add("endpoint: "+path, 0.7)
		}
	}

	for _, m := range apiHostPattern.FindAllString(body, -1) {
		add("api host: "+strings.TrimRight(m, "/."), 0.75)
	}

	for _, m := range specLinkPattern.FindAllString(body, -1) {
		add("api spec: "+m, 0.9)
		result.Characteristics["hasAPISpec"] = "true"
	}

	if strings.Contains(strings.ToLower(body), "graphql") {
		add("graphql api referenced", 0.6)
	}

	// Documentation platforms are evidence of a published developer
	// program even when no endpoint appears in this page.
	if page.IsHTML() {
		if doc, derr := goquery.NewDocumentFromReader(strings.NewReader(body)); derr == nil {
			if gen, ok := doc.Find(`meta[name="generator"]`).Attr("content"); ok {
				g := strings.ToLower(gen)
				if strings.Contains(g, "readme") || strings.Contains(g, "docusaurus") ||
					strings.Contains(g, "mkdocs") || strings.Contains(g, "gitbook") {
					add("documentation platform: "+strings.TrimSpace(gen), 0.7)
				}
			}
		}
	}

	if len(result.Evidence) > 0 {
		result.Characteristics["apiSignals"] = "present"
	}

	return result, nil
}
