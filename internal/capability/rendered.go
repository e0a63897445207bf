package capability

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/orgscan/orgscan/internal/fetch"
	"github.com/orgscan/orgscan/internal/model"
)

// RenderedCollector fetches a page through a headless browser and extracts
// evidence from the rendered DOM. The decision engine selects it for pages
// the HTML collector flagged as JavaScript application shells, where the
// raw HTML carries no content worth extracting.
//
// Extraction reuses the HTML collector's selectors: once the DOM has been
// rendered, a single-page application looks like any other document.
type RenderedCollector struct {
	fetcher *fetch.RenderedFetcher
	html    *HTMLCollector
}

// NewRenderedCollector creates a rendered collector around the given
// headless fetcher.
func NewRenderedCollector(f *fetch.RenderedFetcher) *RenderedCollector {
	return &RenderedCollector{
		fetcher: f,
		html:    NewHTMLCollector(nil),
	}
}

// Name returns the dispatch name.
func (r *RenderedCollector) Name() string {
	return model.ToolRenderedCollector
}

// Collect renders the page and extracts evidence from the resulting DOM.
func (r *RenderedCollector) Collect(ctx context.Context, url string, _ *model.PageContext) (*Result, error) {
	page, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page.Body)))
	if err != nil {
		return nil, &ExtractionError{Source: url, Err: err}
	}

	result := &Result{
		Characteristics: map[string]string{
			"rendered": "true",
		},
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		result.Characteristics["title"] = title
		result.Evidence = append(result.Evidence,
			model.NewEvidenceItem(model.CategoryCompanyInfo, "page title: "+title, url, 0.9))
	}

	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		if desc = strings.TrimSpace(desc); desc != "" {
			result.Evidence = append(result.Evidence,
				model.NewEvidenceItem(model.CategoryCompanyInfo, "description: "+desc, url, 0.8))
		}
	}

	result.Evidence = append(result.Evidence, r.html.extractEmails(doc, url)...)
	result.Evidence = append(result.Evidence, r.html.extractTeamMembers(doc, url)...)
	result.Evidence = append(result.Evidence, r.html.extractSocialProfiles(doc, url)...)

	// Frameworks leave fingerprints in the rendered DOM that the raw
	// HTML pass cannot see.
	for marker, framework := range renderedFrameworkMarkers {
		if strings.Contains(string(page.Body), marker) {
			result.Evidence = append(result.Evidence,
				model.NewEvidenceItem(model.CategoryTechStack, "frontend framework: "+framework, url, 0.8))
		}
	}

	return result, nil
}

// renderedFrameworkMarkers maps DOM fingerprints to framework names.
var renderedFrameworkMarkers = map[string]string{
	"data-reactroot": "React",
	"__NEXT_DATA__":  "Next.js",
	"ng-version":     "Angular",
	"data-v-app":     "Vue.js",
	"__NUXT__":       "Nuxt",
	"data-sveltekit": "SvelteKit",
}
