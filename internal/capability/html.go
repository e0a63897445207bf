package capability

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/orgscan/orgscan/internal/fetch"
	"github.com/orgscan/orgscan/internal/model"
)

// emailPattern matches addresses in page text and mailto links. Deliberately
// strict about the TLD so version strings like "node@18.2" do not match.
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// ignoredEmailDomains are address domains that never identify a person at
// the target organization.
var ignoredEmailDomains = map[string]bool{
	"example.com":    true,
	"sentry.io":      true,
	"wixpress.com":   true,
	"sentry-next.io": true,
}

// spaMarkers are substrings whose presence in a small HTML body indicates
// a JavaScript-rendered application shell rather than server-side content.
var spaMarkers = []string{
	`id="root"`,
	`id="app"`,
	`id="__next"`,
	`data-reactroot`,
	`ng-version`,
	`id="___gatsby"`,
}

// HTMLCollector fetches a page over plain HTTP and extracts evidence from
// the raw HTML: titles, descriptions, contact addresses, people named in
// team sections. It is the default first tool for every fresh URL and the
// one that observes the characteristics later decision rounds depend on.
type HTMLCollector struct {
	fetcher fetch.Fetcher
	caser   cases.Caser
}

// NewHTMLCollector creates an HTML collector using the given fetcher.
func NewHTMLCollector(f fetch.Fetcher) *HTMLCollector {
	return &HTMLCollector{
		fetcher: f,
		caser:   cases.Title(language.English),
	}
}

// Name returns the dispatch name.
func (h *HTMLCollector) Name() string {
	return model.ToolHTMLCollector
}

// Collect fetches the URL and extracts evidence from the HTML.
func (h *HTMLCollector) Collect(ctx context.Context, url string, _ *model.PageContext) (*Result, error) {
	page, err := h.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if !page.IsHTML() {
		return &Result{Characteristics: map[string]string{"contentType": page.ContentType}}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page.Body)))
	if err != nil {
		return nil, &ExtractionError{Source: url, Err: err}
	}

	result := &Result{
		Characteristics: h.characteristics(page, doc),
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

	if gen, ok := doc.Find(`meta[name="generator"]`).Attr("content"); ok {
		if gen = strings.TrimSpace(gen); gen != "" {
			result.Evidence = append(result.Evidence,
				model.NewEvidenceItem(model.CategoryTechStack, "generator: "+gen, url, 0.85))
		}
	}

	result.Evidence = append(result.Evidence, h.extractEmails(doc, url)...)
	result.Evidence = append(result.Evidence, h.extractTeamMembers(doc, url)...)
	result.Evidence = append(result.Evidence, h.extractSocialProfiles(doc, url)...)

	return result, nil
}

// characteristics derives the page observations the decision engine reads.
func (h *HTMLCollector) characteristics(page *fetch.Page, doc *goquery.Document) map[string]string {
	ch := map[string]string{
		"contentType": page.ContentType,
		"statusCode":  fmt.Sprintf("%d", page.StatusCode),
	}

	ch["hasJavaScript"] = "false"
	body := string(page.Body)
	if doc.Find("script[src]").Length() >= 3 {
		ch["hasJavaScript"] = "true"
	}
	for _, marker := range spaMarkers {
		if strings.Contains(body, marker) {
			ch["hasJavaScript"] = "true"
			break
		}
	}

	// Sparse visible text with many scripts is the classic SPA shell.
	if text := strings.TrimSpace(doc.Find("body").Text()); len(text) < 200 && doc.Find("script").Length() > 0 {
		ch["hasJavaScript"] = "true"
	}

	ch["securityHeaders"] = "missing"
	for _, name := range []string{"Strict-Transport-Security", "Content-Security-Policy", "X-Frame-Options"} {
		if page.Header(name) != "" {
			ch["securityHeaders"] = "present"
			break
		}
	}

	if server := page.Header("Server"); server != "" {
		ch["server"] = server
	}

	return ch
}

// extractEmails collects contact addresses from mailto links and page text.
func (h *HTMLCollector) extractEmails(doc *goquery.Document, url string) []model.EvidenceItem {
	seen := make(map[string]bool)
	var items []model.EvidenceItem

	add := func(addr string, confidence float64) {
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr == "" || seen[addr] {
			return
		}
		at := strings.LastIndex(addr, "@")
		if at < 0 || ignoredEmailDomains[addr[at+1:]] {
			return
		}
		seen[addr] = true
		items = append(items,
			model.NewEvidenceItem(model.CategoryTeamInfo, "contact email: "+addr, url, confidence))
	}

	doc.Find(`a[href^="mailto:"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		add(addr, 0.85)
	})

	for _, m := range emailPattern.FindAllString(doc.Text(), -1) {
		add(m, 0.7)
	}

	return items
}

// teamSectionSelector matches the containers organizations typically use
// for people listings.
const teamSectionSelector = `section[class*="team"], div[class*="team"], section[id*="team"], div[id*="team"], section[class*="people"], div[class*="leadership"]`

// namePattern is a loose two-to-four word capitalized name. Applied only
// inside team sections, so the false-positive surface is small.
var namePattern = regexp.MustCompile(`^[A-Z][a-z]+(?: [A-Z][a-z'\-]+){1,3}$`)

// uiPhrases are capitalized heading phrases that pass the name pattern
// but never name a person.
var uiPhrases = map[string]bool{
	"Learn More":    true,
	"Read More":     true,
	"Our Team":      true,
	"The Team":      true,
	"Meet The Team": true,
	"Our People":    true,
	"Contact Us":    true,
	"Join Us":       true,
	"View All":      true,
	"See All":       true,
	"Open Roles":    true,
	"Board Of Directors": true,
}

// extractTeamMembers looks for person names in team and leadership sections.
func (h *HTMLCollector) extractTeamMembers(doc *goquery.Document, url string) []model.EvidenceItem {
	seen := make(map[string]bool)
	var items []model.EvidenceItem

	doc.Find(teamSectionSelector).Each(func(_ int, section *goquery.Selection) {
		section.Find("h2, h3, h4, h5, strong, figcaption").Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if !namePattern.MatchString(text) {
				return
			}
			name := h.caser.String(strings.ToLower(text))
			if seen[name] || uiPhrases[name] {
				return
			}
			seen[name] = true
			items = append(items,
				model.NewEvidenceItem(model.CategoryTeamInfo, "team member: "+name, url, 0.6))
		})
	})

	return items
}

// socialHosts maps link hosts to the label used in evidence values.
var socialHosts = map[string]string{
	"linkedin.com":      "linkedin",
	"www.linkedin.com":  "linkedin",
	"github.com":        "github",
	"www.github.com":    "github",
	"twitter.com":       "twitter",
	"x.com":             "twitter",
	"www.crunchbase.com": "crunchbase",
	"crunchbase.com":    "crunchbase",
}

// extractSocialProfiles collects organization profiles on external platforms.
func (h *HTMLCollector) extractSocialProfiles(doc *goquery.Document, url string) []model.EvidenceItem {
	seen := make(map[string]bool)
	var items []model.EvidenceItem

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		for host, label := range socialHosts {
			if !strings.Contains(href, "://"+host+"/") {
				continue
			}
			if seen[href] {
				break
			}
			seen[href] = true
			items = append(items,
				model.NewEvidenceItem(model.CategoryCompanyInfo, label+" profile: "+href, url, 0.75))
			break
		}
	})

	return items
}
