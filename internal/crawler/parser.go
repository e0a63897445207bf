package crawler

import (
	"io"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// LinkParser extracts crawlable URLs from HTML content.
//
// Design decision: golang.org/x/net/html rather than regex for the DOM
// walk because it correctly handles the malformed HTML company sites
// actually serve. A small regex pass supplements it for URLs that only
// appear outside attributes (inline CSS, script literals).
type LinkParser struct {
	baseURL *url.URL
}

// literalURLPattern matches absolute URLs in inline scripts and CSS.
var literalURLPattern = regexp.MustCompile(`https?://[a-zA-Z0-9.\-]+(?:/[a-zA-Z0-9._~!$&'()*+,;=:@%\-/]*)?`)

// skippedExtensions are binary or asset paths discovery never queues.
var skippedExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp",
	".css", ".js", ".mjs", ".map",
	".pdf", ".zip", ".gz", ".tar", ".dmg", ".exe", ".msi",
	".woff", ".woff2", ".ttf", ".eot",
	".mp4", ".mp3", ".webm", ".avi", ".mov",
}

// NewLinkParser creates a parser that resolves links against baseURL.
func NewLinkParser(baseURL string) (*LinkParser, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return &LinkParser{baseURL: u}, nil
}

// Parse extracts all crawlable same-site URLs from the HTML content.
// Results are normalized (fragments stripped, trailing slash trimmed)
// and deduplicated, in document order.
func (p *LinkParser) Parse(content io.Reader) ([]string, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string
	add := func(raw string) {
		u := p.normalize(raw)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		links = append(links, u)
	}

	var text strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "a", "area":
				add(getAttr(n, "href"))
			case "iframe", "frame":
				add(getAttr(n, "src"))
			case "link":
				if rel := getAttr(n, "rel"); rel == "canonical" || rel == "alternate" {
					add(getAttr(n, "href"))
				}
			case "script", "style":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					text.WriteString(n.FirstChild.Data)
					text.WriteString(" ")
				}
			}
		case html.TextNode:
			text.WriteString(n.Data)
			text.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, m := range literalURLPattern.FindAllString(text.String(), -1) {
		add(m)
	}

	return links, nil
}

// normalize resolves the raw link against the base URL and returns the
// canonical crawlable form, or "" when the link should not be queued.
func (p *LinkParser) normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") ||
		strings.HasPrefix(raw, "mailto:") ||
		strings.HasPrefix(raw, "tel:") ||
		strings.HasPrefix(raw, "javascript:") ||
		strings.HasPrefix(raw, "data:") {
		return ""
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u := p.baseURL.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}

	lower := strings.ToLower(u.Path)
	for _, ext := range skippedExtensions {
		if strings.HasSuffix(lower, ext) {
			return ""
		}
	}

	u.Fragment = ""
	s := u.String()
	if strings.HasSuffix(s, "/") && u.Path != "/" {
		s = strings.TrimSuffix(s, "/")
	}
	return s
}

// getAttr returns the value of the named attribute, or "".
func getAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
