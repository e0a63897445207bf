package capability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/orgscan/orgscan/internal/fetch"
	"github.com/orgscan/orgscan/internal/model"
)

const teamPageHTML = `<!DOCTYPE html>
<html>
<head>
<title>Acme Robotics - About Us</title>
<meta name="description" content="Acme builds warehouse robots.">
<meta name="generator" content="Hugo 0.120">
</head>
<body>
<section class="team-grid">
  <h3>Jane Smith</h3>
  <p>CEO</p>
  <h3>Carlos Rivera</h3>
  <p>CTO</p>
  <h3>Learn More</h3>
</section>
<a href="mailto:press@acme.test?subject=hi">Press</a>
<p>Reach engineering at eng@acme.test or visit us.</p>
<a href="https://www.linkedin.com/company/acme">LinkedIn</a>
<a href="https://github.com/acme">GitHub</a>
</body>
</html>`

func htmlServer(t *testing.T, body string, headers map[string]string) (*httptest.Server, *HTMLCollector) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, NewHTMLCollector(fetch.NewHTTPFetcher(srv.Client()))
}

func findEvidence(items []model.EvidenceItem, category, substr string) *model.EvidenceItem {
	for i := range items {
		if items[i].Type == category && strings.Contains(items[i].Value, substr) {
			return &items[i]
		}
	}
	return nil
}

func TestHTMLCollectorCollect(t *testing.T) {
	t.Parallel()

	srv, c := htmlServer(t, teamPageHTML, map[string]string{
		"Strict-Transport-Security": "max-age=63072000",
	})

	res, err := c.Collect(context.Background(), srv.URL, model.NewPageContext(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := res.Characteristics["title"]; got != "Acme Robotics - About Us" {
		t.Errorf("unexpected title characteristic: %q", got)
	}
	if res.Characteristics["securityHeaders"] != "present" {
		t.Error("expected securityHeaders=present")
	}

	if findEvidence(res.Evidence, model.CategoryCompanyInfo, "Acme Robotics") == nil {
		t.Error("expected title evidence")
	}
	if findEvidence(res.Evidence, model.CategoryCompanyInfo, "warehouse robots") == nil {
		t.Error("expected description evidence")
	}
	if findEvidence(res.Evidence, model.CategoryTechStack, "Hugo") == nil {
		t.Error("expected generator evidence")
	}
	if findEvidence(res.Evidence, model.CategoryTeamInfo, "press@acme.test") == nil {
		t.Error("expected mailto email evidence")
	}
	if findEvidence(res.Evidence, model.CategoryTeamInfo, "eng@acme.test") == nil {
		t.Error("expected in-text email evidence")
	}
	if findEvidence(res.Evidence, model.CategoryTeamInfo, "Jane Smith") == nil {
		t.Error("expected team member evidence")
	}
	if findEvidence(res.Evidence, model.CategoryTeamInfo, "Learn More") != nil {
		t.Error("section headings that are not names must be skipped")
	}
	if findEvidence(res.Evidence, model.CategoryCompanyInfo, "linkedin") == nil {
		t.Error("expected linkedin profile evidence")
	}
}

func TestHTMLCollectorJavaScriptDetection(t *testing.T) {
	t.Parallel()

	t.Run("spa shell", func(t *testing.T) {
		t.Parallel()

		srv, c := htmlServer(t, `<html><head><title>x</title></head><body><div id="root"></div><script src="/app.js"></script></body></html>`, nil)
		res, err := c.Collect(context.Background(), srv.URL, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Characteristics["hasJavaScript"] != "true" {
			t.Error("expected hasJavaScript=true for SPA shell")
		}
	})

	t.Run("static page", func(t *testing.T) {
		t.Parallel()

		body := `<html><head><title>x</title></head><body>` +
			strings.Repeat("<p>static content with plenty of visible prose here</p>", 10) +
			`</body></html>`
		srv, c := htmlServer(t, body, nil)
		res, err := c.Collect(context.Background(), srv.URL, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Characteristics["hasJavaScript"] != "false" {
			t.Error("expected hasJavaScript=false for static page")
		}
	})
}

func TestHTMLCollectorNonHTML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	c := NewHTMLCollector(fetch.NewHTTPFetcher(srv.Client()))
	res, err := c.Collect(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Evidence) != 0 {
		t.Errorf("expected no evidence from non-HTML response, got %d items", len(res.Evidence))
	}
	if res.Characteristics["contentType"] != "application/json" {
		t.Errorf("expected content type characteristic, got %q", res.Characteristics["contentType"])
	}
}

func TestHTMLCollectorIgnoresNoiseEmails(t *testing.T) {
	t.Parallel()

	srv, c := htmlServer(t, `<html><head><title>x</title></head><body><p>support@example.com</p></body></html>`, nil)
	res, err := c.Collect(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if findEvidence(res.Evidence, model.CategoryTeamInfo, "example.com") != nil {
		t.Error("placeholder domains must not produce evidence")
	}
}
