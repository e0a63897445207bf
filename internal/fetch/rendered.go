package fetch

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RenderedFetcher retrieves the rendered DOM of a page through a headless
// Chromium instance. It exists for application-style pages whose server
// response is an empty shell filled in by JavaScript.
//
// Design decision: the browser is launched lazily on first use and shared
// across fetches. Launching Chromium costs seconds; collection runs that
// never hit a JavaScript-heavy page never pay it.
type RenderedFetcher struct {
	mu      sync.Mutex
	browser *rod.Browser

	// navTimeout bounds page navigation and load.
	navTimeout time.Duration
}

// NewRenderedFetcher creates a RenderedFetcher. The browser starts on the
// first Fetch call.
func NewRenderedFetcher(navTimeout time.Duration) *RenderedFetcher {
	if navTimeout <= 0 {
		navTimeout = 25 * time.Second
	}
	return &RenderedFetcher{navTimeout: navTimeout}
}

// connect launches and connects the shared browser if needed.
func (r *RenderedFetcher) connect() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	controlURL, err := launcher.New().Headless(true).Launch()
	if err != nil {
		return nil, err
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, err
	}

	r.browser = browser
	return browser, nil
}

// Fetch implements Fetcher by navigating a headless page and returning
// its rendered HTML. Response headers are not available through the
// rendered path, so Headers is empty and ContentType is fixed to
// text/html.
func (r *RenderedFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	browser, err := r.connect()
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer func() { _ = page.Close() }()

	page = page.Context(ctx).Timeout(r.navTimeout)

	if err := page.WaitLoad(); err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	info, err := page.Info()
	finalURL := url
	if err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &Page{
		URL:         url,
		FinalURL:    finalURL,
		StatusCode:  http.StatusOK,
		Headers:     http.Header{},
		ContentType: "text/html",
		Body:        []byte(html),
	}, nil
}

// Close shuts down the shared browser, if one was started.
func (r *RenderedFetcher) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	return err
}
