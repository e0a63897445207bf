package capability

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/orgscan/orgscan/internal/fetch"
	"github.com/orgscan/orgscan/internal/model"
)

// feedPaths are the conventional feed locations probed when the target
// URL is not itself a feed.
var feedPaths = []string{
	"/feed",
	"/rss",
	"/feed.xml",
	"/rss.xml",
	"/atom.xml",
	"/blog/feed",
	"/blog/rss",
	"/news/feed",
}

// maxFeedItems caps how many entries one feed contributes. Older entries
// rarely add market evidence beyond what the recent ones establish.
const maxFeedItems = 15

// FeedCollector reads a site's RSS/Atom feeds and converts recent entries
// into market-position evidence: product announcements, press releases,
// partnership news. It only runs during targeted collection, when a
// market-position gap asks for it.
type FeedCollector struct {
	fetcher fetch.Fetcher
	parser  *gofeed.Parser
}

// NewFeedCollector creates a feed collector using the given fetcher.
func NewFeedCollector(f fetch.Fetcher) *FeedCollector {
	return &FeedCollector{
		fetcher: f,
		parser:  gofeed.NewParser(),
	}
}

// Name returns the dispatch name.
func (c *FeedCollector) Name() string {
	return model.ToolFeedCollector
}

// Collect parses the URL as a feed, or discovers and parses the site's
// feeds when the URL serves HTML. The first feed that parses wins; sites
// that expose several conventional paths serve the same entries at each.
func (c *FeedCollector) Collect(ctx context.Context, url string, _ *model.PageContext) (*Result, error) {
	page, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	if items := c.parse(string(page.Body), url); items != nil {
		return &Result{Evidence: items, Characteristics: map[string]string{"hasFeed": "true"}}, nil
	}

	for _, candidate := range c.candidates(page, url) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		fp, ferr := c.fetcher.Fetch(ctx, candidate)
		if ferr != nil {
			continue
		}
		if items := c.parse(string(fp.Body), candidate); items != nil {
			return &Result{Evidence: items, Characteristics: map[string]string{"hasFeed": "true"}}, nil
		}
	}

	return &Result{Characteristics: map[string]string{"hasFeed": "false"}}, nil
}

// candidates lists the feed URLs to probe: alternate links advertised in
// the HTML head first, then the conventional paths.
func (c *FeedCollector) candidates(page *fetch.Page, pageURL string) []string {
	var urls []string
	seen := make(map[string]bool)

	if page.IsHTML() {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page.Body))); err == nil {
			doc.Find(`link[type="application/rss+xml"], link[type="application/atom+xml"]`).Each(func(_ int, s *goquery.Selection) {
				if href, ok := s.Attr("href"); ok {
					u := absoluteURL(pageURL, href)
					if u != "" && !seen[u] {
						seen[u] = true
						urls = append(urls, u)
					}
				}
			})
		}
	}

	root := siteRoot(pageURL)
	for _, p := range feedPaths {
		u := root + p
		if !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	return urls
}

// parse converts feed XML into evidence, or returns nil when the body is
// not a parseable feed.
func (c *FeedCollector) parse(body, feedURL string) []model.EvidenceItem {
	feed, err := c.parser.ParseString(body)
	if err != nil || feed == nil || len(feed.Items) == 0 {
		return nil
	}

	items := make([]model.EvidenceItem, 0, len(feed.Items))
	for i, it := range feed.Items {
		if i >= maxFeedItems {
			break
		}
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		value := "announcement: " + title
		if it.PublishedParsed != nil {
			value += " (" + it.PublishedParsed.Format("2006-01-02") + ")"
		}
		source := feedURL
		if it.Link != "" {
			source = it.Link
		}
		items = append(items, model.NewEvidenceItem(model.CategoryMarketPosition, value, source, 0.7))
	}

	if len(items) == 0 {
		return nil
	}
	return items
}
