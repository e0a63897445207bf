// Package capability implements the pluggable collection tools the
// decision engine selects from, and the executor that dispatches them.
//
// Each capability takes a URL plus the page's accumulated context and
// returns typed evidence and page characteristics. Capabilities never
// panic outward and never write to shared state: the executor isolates
// failures and the caller owns the page context and evidence store.
//
// The built-in capabilities are:
//   - html-collector: fetch and extract from raw HTML
//   - rendered-collector: fetch the rendered DOM via headless browser
//   - tech-analyzer: technology-stack heuristics over headers and HTML
//   - security-scanner: security headers and TLS certificate inspection
//   - api-extractor: API endpoint and documentation signals
//   - image-metadata: EXIF metadata from page images
//   - feed-collector: RSS/Atom feeds for press and news evidence
package capability
