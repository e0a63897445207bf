package crawler

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/orgscan/orgscan/internal/config"
	"github.com/orgscan/orgscan/internal/fetch"
)

// importantPaths are conventional high-value paths probed before the
// breadth-first walk. Probing them directly means a sparse homepage
// cannot hide the pages most likely to carry evidence.
var importantPaths = []string{
	"/about",
	"/about-us",
	"/team",
	"/technology",
	"/api",
	"/docs",
	"/careers",
	"/security",
	"/pricing",
	"/blog",
	"/products",
	"/contact",
	"/developers",
	"/engineering",
	"/investors",
	"/press",
	"/news",
}

// Discoverer finds the crawlable URL surface of a target domain.
type Discoverer struct {
	fetcher fetch.Fetcher
	cfg     *config.Config
	logger  *slog.Logger
}

// NewDiscoverer creates a discoverer bounded by the config's URL cap and
// concurrency.
func NewDiscoverer(f fetch.Fetcher, cfg *config.Config, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{fetcher: f, cfg: cfg, logger: logger}
}

// Discover walks the domain breadth-first and returns up to MaxURLs live
// same-domain URLs, seeded from the HTTPS and HTTP roots plus the
// conventional high-value paths. Fetch failures skip the URL; discovery
// only fails when the context is canceled.
//
// Design decision: each BFS wave runs its fetches in parallel under one
// errgroup with the configured limit, but wave boundaries are sequential.
// This keeps frontier ordering deterministic enough that the important
// paths are always attempted before deep links compete for the cap.
func (d *Discoverer) Discover(ctx context.Context, domain string) ([]string, error) {
	maxURLs := d.cfg.MaxURLs
	if d.cfg.Domains != nil {
		if dc := d.cfg.Domains.GetDomainConfig(domain); dc.MaxURLs > 0 {
			maxURLs = dc.MaxURLs
		}
	}

	frontier := d.seeds(domain)

	var mu sync.Mutex
	visited := make(map[string]bool)
	queued := make(map[string]bool)
	var discovered []string

	for _, u := range frontier {
		queued[u] = true
	}

	for len(frontier) > 0 && len(discovered) < maxURLs {
		if err := ctx.Err(); err != nil {
			return discovered, err
		}

		wave := frontier
		frontier = nil

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.cfg.Concurrency)

		for _, rawURL := range wave {
			rawURL := rawURL
			g.Go(func() error {
				mu.Lock()
				if visited[rawURL] || len(discovered) >= maxURLs {
					mu.Unlock()
					return nil
				}
				visited[rawURL] = true
				mu.Unlock()

				page, err := d.fetcher.Fetch(gctx, rawURL)
				if err != nil {
					d.logger.Debug("discovery fetch failed",
						slog.String("url", rawURL),
						slog.String("error", err.Error()))
					return nil
				}

				// Record the final URL so redirected duplicates
				// (http -> https, apex -> www) collapse.
				final := page.FinalURL
				if final == "" {
					final = rawURL
				}

				mu.Lock()
				if !visited[final] {
					visited[final] = true
				}
				if len(discovered) < maxURLs && !containsString(discovered, final) {
					discovered = append(discovered, final)
				}
				mu.Unlock()

				if !page.IsHTML() {
					return nil
				}

				parser, perr := NewLinkParser(final)
				if perr != nil {
					return nil
				}
				links, perr := parser.Parse(bytes.NewReader(page.Body))
				if perr != nil {
					return nil
				}

				mu.Lock()
				for _, link := range links {
					if !sameDomain(link, domain) || visited[link] || queued[link] {
						continue
					}
					if d.ignored(domain, link) {
						continue
					}
					queued[link] = true
					frontier = append(frontier, link)
				}
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return discovered, err
		}
	}

	d.logger.Info("discovery complete",
		slog.String("domain", domain),
		slog.Int("urls", len(discovered)))
	return discovered, nil
}

// seeds builds the initial frontier: both scheme roots plus the
// conventional paths on the HTTPS root.
func (d *Discoverer) seeds(domain string) []string {
	seeds := []string{
		"https://" + domain,
		"http://" + domain,
	}
	for _, p := range importantPaths {
		seeds = append(seeds, "https://"+domain+p)
	}
	if d.cfg.Domains != nil {
		dc := d.cfg.Domains.GetDomainConfig(domain)
		for _, p := range dc.SeedPaths {
			seeds = append(seeds, "https://"+domain+p)
		}
	}
	return seeds
}

// ignored applies per-domain ignore patterns from the config file.
func (d *Discoverer) ignored(domain, link string) bool {
	if d.cfg.Domains == nil {
		return false
	}
	dc := d.cfg.Domains.GetDomainConfig(domain)
	for _, pattern := range dc.IgnorePatterns {
		if strings.Contains(link, pattern) {
			return true
		}
	}
	return false
}

// sameDomain reports whether the URL's host is the domain itself or one
// of its subdomains.
func sameDomain(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	domain = strings.ToLower(domain)
	// The domain may carry an explicit port (common for local targets).
	if strings.ToLower(u.Host) == domain {
		return true
	}
	host := strings.ToLower(u.Hostname())
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
