package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"golang.org/x/time/rate"
)

// duckDuckGoEndpoint is the HTML (non-JavaScript) results frontend.
const duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes the DuckDuckGo HTML frontend. It needs no API key,
// which keeps the default install runnable without registration.
//
// Design decision: queries go through a shared rate limiter at one
// request per 1.5 seconds. The HTML frontend blocks aggressive clients
// outright; a polite pace yields far more total results than parallel
// queries that get the client banned.
type DuckDuckGo struct {
	client    *http.Client
	endpoint  string
	userAgent string
	limiter   *rate.Limiter
}

// DuckDuckGoOption configures the provider.
type DuckDuckGoOption func(*DuckDuckGo)

// WithEndpoint overrides the results endpoint, used by tests.
func WithEndpoint(endpoint string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.endpoint = endpoint
	}
}

// WithUserAgent sets the User-Agent header for query requests.
func WithUserAgent(ua string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.userAgent = ua
	}
}

// WithQueryInterval sets the minimum spacing between queries.
func WithQueryInterval(every time.Duration) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.limiter = rate.NewLimiter(rate.Every(every), 1)
	}
}

// NewDuckDuckGo creates a provider backed by the given HTTP client.
func NewDuckDuckGo(client *http.Client, opts ...DuckDuckGoOption) *DuckDuckGo {
	if client == nil {
		client = http.DefaultClient
	}
	d := &DuckDuckGo{
		client:   client,
		endpoint: duckDuckGoEndpoint,
		limiter:  rate.NewLimiter(rate.Limit(1.0/1.5), 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search runs one query against the HTML frontend and parses the result
// list.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find(".result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		r := Result{
			Title:   strings.TrimSpace(link.Text()),
			URL:     cleanResultURL(href),
			Snippet: strings.TrimSpace(s.Find(".result__snippet").Text()),
		}
		if r.URL == "" || r.Title == "" {
			return true
		}
		results = append(results, r)
		return len(results) < maxResults
	})

	if len(results) == 0 {
		return nil, ErrNoResults
	}
	return results, nil
}

// cleanResultURL unwraps DuckDuckGo's redirect links (//duckduckgo.com/l/?uddg=<encoded>)
// to the destination URL.
func cleanResultURL(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") && u.Path == "/l/" {
		if dest := u.Query().Get("uddg"); dest != "" {
			return dest
		}
		return ""
	}
	if u.Scheme == "" {
		return ""
	}
	return href
}
