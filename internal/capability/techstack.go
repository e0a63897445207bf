package capability

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/orgscan/orgscan/internal/fetch"
	"github.com/orgscan/orgscan/internal/model"
)

// techNameCaser normalizes prose-matched technology names.
var techNameCaser = cases.Title(language.English)

// TechAnalyzer identifies the technologies behind a page from response
// headers, cookies, and HTML fingerprints. It runs after the first
// collection pass, typically against engineering and technology pages
// where the yield is highest.
type TechAnalyzer struct {
	fetcher fetch.Fetcher
}

// NewTechAnalyzer creates a technology analyzer using the given fetcher.
func NewTechAnalyzer(f fetch.Fetcher) *TechAnalyzer {
	return &TechAnalyzer{fetcher: f}
}

// Name returns the dispatch name.
func (t *TechAnalyzer) Name() string {
	return model.ToolTechAnalyzer
}

// headerSignatures maps response headers to the technology they reveal.
// A non-empty pattern must appear in the header value; an empty pattern
// means the header's presence alone is the signal.
var headerSignatures = []struct {
	header  string
	pattern string
	tech    string
}{
	{"Server", "nginx", "nginx"},
	{"Server", "apache", "Apache HTTP Server"},
	{"Server", "cloudflare", "Cloudflare"},
	{"Server", "awselb", "AWS Elastic Load Balancing"},
	{"Server", "vercel", "Vercel"},
	{"Server", "gws", "Google Web Server"},
	{"X-Powered-By", "express", "Express.js"},
	{"X-Powered-By", "php", "PHP"},
	{"X-Powered-By", "asp.net", "ASP.NET"},
	{"X-Powered-By", "next.js", "Next.js"},
	{"Via", "varnish", "Varnish"},
	{"X-Drupal-Cache", "", "Drupal"},
	{"X-Shopify-Stage", "", "Shopify"},
	{"X-Amz-Cf-Id", "", "Amazon CloudFront"},
	{"X-Served-By", "cache", "Fastly"},
	{"CF-Ray", "", "Cloudflare"},
	{"X-Vercel-Id", "", "Vercel"},
	{"Fly-Request-Id", "", "Fly.io"},
}

// bodySignatures maps HTML fingerprints to the technology they reveal.
var bodySignatures = []struct {
	marker string
	tech   string
}{
	{"wp-content/", "WordPress"},
	{"wp-includes/", "WordPress"},
	{"cdn.shopify.com", "Shopify"},
	{"static.squarespace.com", "Squarespace"},
	{"static.wixstatic.com", "Wix"},
	{"hubspot.com", "HubSpot"},
	{"googletagmanager.com", "Google Tag Manager"},
	{"cdn.segment.com", "Segment"},
	{"js.stripe.com", "Stripe"},
	{"js.intercomcdn.com", "Intercom"},
	{"cdn.jsdelivr.net/npm/bootstrap", "Bootstrap"},
	{"unpkg.com/react", "React"},
	{"polyfill.io", "polyfill.io"},
	{"recaptcha", "Google reCAPTCHA"},
}

// techKeywordPattern matches engineering-stack names in visible prose.
// Bounded so "go" or "java" inside other words do not match.
var techKeywordPattern = regexp.MustCompile(`(?i)\b(kubernetes|terraform|postgresql|postgres|mysql|mongodb|redis|kafka|rabbitmq|elasticsearch|graphql|grpc|docker|aws|azure|gcp|google cloud|snowflake|databricks|airflow|spark|react|vue\.js|angular|typescript|golang|rust|python|django|rails|laravel|spring boot|\.net core|flutter|swift|kotlin)\b`)

// Collect fetches the URL and fingerprints its technology stack.
func (t *TechAnalyzer) Collect(ctx context.Context, url string, _ *model.PageContext) (*Result, error) {
	page, err := t.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	result := &Result{Characteristics: map[string]string{}}
	seen := make(map[string]bool)

	add := func(tech, detail string, confidence float64) {
		key := strings.ToLower(tech)
		if seen[key] {
			return
		}
		seen[key] = true
		result.Evidence = append(result.Evidence,
			model.NewEvidenceItem(model.CategoryTechStack, tech+" ("+detail+")", url, confidence))
	}

	for _, sig := range headerSignatures {
		v := page.Header(sig.header)
		if v == "" {
			continue
		}
		if sig.pattern == "" || strings.Contains(strings.ToLower(v), sig.pattern) {
			add(sig.tech, "header "+sig.header, 0.9)
		}
	}

	body := string(page.Body)
	lower := strings.ToLower(body)
	for _, sig := range bodySignatures {
		if strings.Contains(lower, strings.ToLower(sig.marker)) {
			add(sig.tech, "page fingerprint", 0.8)
		}
	}

	// Prose mentions are weaker evidence than fingerprints: an
	// engineering blog naming Kafka is a claim, not an observation.
	if page.IsHTML() {
		for _, m := range techKeywordPattern.FindAllString(body, -1) {
			add(canonicalTechName(m), "mentioned on page", 0.55)
		}
	}

	if len(result.Evidence) > 0 {
		result.Characteristics["techSignals"] = "present"
	}

	return result, nil
}

// canonicalTechName collapses spelling variants of the same technology.
func canonicalTechName(name string) string {
	switch strings.ToLower(name) {
	case "postgres", "postgresql":
		return "PostgreSQL"
	case "golang":
		return "Go"
	case "gcp", "google cloud":
		return "Google Cloud"
	case "aws":
		return "AWS"
	default:
		return techNameCaser.String(strings.ToLower(name))
	}
}
