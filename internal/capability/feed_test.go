package capability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orgscan/orgscan/internal/fetch"
	"github.com/orgscan/orgscan/internal/model"
)

const pressFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Acme News</title>
<link>https://acme.test/news</link>
<item>
  <title>Acme raises Series B</title>
  <link>https://acme.test/news/series-b</link>
  <pubDate>Mon, 02 Jun 2025 09:00:00 GMT</pubDate>
</item>
<item>
  <title>Acme partners with MegaCorp</title>
  <link>https://acme.test/news/megacorp</link>
</item>
</channel>
</rss>`

func TestFeedCollectorDirectFeed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(pressFeedXML))
	}))
	t.Cleanup(srv.Close)

	c := NewFeedCollector(fetch.NewHTTPFetcher(srv.Client()))
	res, err := c.Collect(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Evidence) != 2 {
		t.Fatalf("expected 2 evidence items, got %d", len(res.Evidence))
	}
	item := findEvidence(res.Evidence, model.CategoryMarketPosition, "Series B")
	if item == nil {
		t.Fatal("expected Series B announcement evidence")
	}
	if item.SourceURL != "https://acme.test/news/series-b" {
		t.Errorf("expected the entry link as source, got %q", item.SourceURL)
	}
	if item.Value != "announcement: Acme raises Series B (2025-06-02)" {
		t.Errorf("unexpected value format: %q", item.Value)
	}
	if res.Characteristics["hasFeed"] != "true" {
		t.Error("expected hasFeed=true")
	}
}

func TestFeedCollectorDiscoversFeedFromHTML(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
<link rel="alternate" type="application/rss+xml" href="/news.rss">
</head><body>news</body></html>`))
	})
	mux.HandleFunc("/news.rss", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(pressFeedXML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewFeedCollector(fetch.NewHTTPFetcher(srv.Client()))
	res, err := c.Collect(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Evidence) != 2 {
		t.Fatalf("expected feed discovered via alternate link, got %d items", len(res.Evidence))
	}
}

func TestFeedCollectorNoFeed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>no feeds here</body></html>`))
	}))
	t.Cleanup(srv.Close)

	c := NewFeedCollector(fetch.NewHTTPFetcher(srv.Client()))
	res, err := c.Collect(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Evidence) != 0 {
		t.Errorf("expected no evidence, got %d items", len(res.Evidence))
	}
	if res.Characteristics["hasFeed"] != "false" {
		t.Error("expected hasFeed=false")
	}
}
