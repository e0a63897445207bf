package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Page is the result of fetching one URL.
type Page struct {
	// URL is the requested URL.
	URL string

	// FinalURL is the URL after redirects. Discovery records this one:
	// the post-redirect location is the page that actually exists.
	FinalURL string

	// StatusCode is the HTTP response status.
	StatusCode int

	// Headers are the response headers.
	Headers http.Header

	// ContentType is the response MIME type without parameters.
	ContentType string

	// Body is the response body, truncated to the configured limit.
	Body []byte
}

// IsHTML reports whether the page looks like an HTML document.
func (p *Page) IsHTML() bool {
	return strings.HasPrefix(p.ContentType, "text/html") ||
		strings.HasPrefix(p.ContentType, "application/xhtml+xml")
}

// Header returns the first value of the named response header.
func (p *Page) Header(name string) string {
	return p.Headers.Get(name)
}

// Fetcher retrieves pages. Implementations must be safe for concurrent use.
type Fetcher interface {
	// Fetch retrieves the URL, following redirects. A non-2xx status is
	// an error (*FetchError) but the page is still returned when a body
	// was read, so callers can inspect headers of error responses.
	Fetch(ctx context.Context, url string) (*Page, error)
}

// HTTPFetcher fetches pages over plain HTTP with redirect following,
// a body size limit, and a shared rate limiter for politeness toward
// the target domain.
type HTTPFetcher struct {
	client      *http.Client
	limiter     *rate.Limiter
	userAgent   string
	maxBodySize int64
	headers     map[string]string
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the response body limit in bytes.
func WithMaxBodySize(n int64) Option {
	return func(f *HTTPFetcher) {
		f.maxBodySize = n
	}
}

// WithDelay spaces requests at least d apart. Zero disables limiting.
//
// Design decision: a rate.Limiter rather than a sleep between requests
// because fetches run concurrently; the limiter serializes the politeness
// budget across all in-flight goroutines.
func WithDelay(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithHeaders sets extra headers sent with every request (per-domain
// configuration overrides).
func WithHeaders(h map[string]string) Option {
	return func(f *HTTPFetcher) {
		f.headers = h
	}
}

// NewHTTPFetcher creates an HTTPFetcher. The client should carry the
// per-request timeout; pass nil to use a default client with a 20s
// timeout.
func NewHTTPFetcher(client *http.Client, opts ...Option) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	f := &HTTPFetcher{
		client:      client,
		userAgent:   "orgscan/1.0",
		maxBodySize: 5 * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: url, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	page := &Page{
		URL:         url,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		Headers:     resp.Header,
		ContentType: contentType(resp.Header.Get("Content-Type")),
		Body:        body,
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return page, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	return page, nil
}

// contentType strips parameters (charset etc.) from a Content-Type value.
func contentType(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(strings.ToLower(v))
}
