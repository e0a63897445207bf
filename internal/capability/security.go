package capability

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/orgscan/orgscan/internal/fetch"
	"github.com/orgscan/orgscan/internal/model"
)

// securityHeaders are the response headers whose presence or absence
// grades a site's security posture.
var securityHeaders = []string{
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Frame-Options",
	"X-Content-Type-Options",
	"Referrer-Policy",
	"Permissions-Policy",
}

// SecurityScanner inspects a site's externally observable security
// posture: security response headers and the TLS certificate. It makes
// no intrusive requests; everything it reports is visible to any
// visitor.
type SecurityScanner struct {
	fetcher fetch.Fetcher

	// dialTLS is swapped in tests to avoid real network dials.
	dialTLS func(ctx context.Context, host string) (*tls.ConnectionState, error)
}

// NewSecurityScanner creates a security scanner using the given fetcher.
func NewSecurityScanner(f fetch.Fetcher) *SecurityScanner {
	return &SecurityScanner{
		fetcher: f,
		dialTLS: dialTLS,
	}
}

// Name returns the dispatch name.
func (s *SecurityScanner) Name() string {
	return model.ToolSecurityScanner
}

// Collect fetches the URL, grades its security headers, and inspects the
// TLS certificate for HTTPS targets. A failed TLS dial is itself evidence
// and does not fail the run.
func (s *SecurityScanner) Collect(ctx context.Context, rawURL string, _ *model.PageContext) (*Result, error) {
	page, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	result := &Result{Characteristics: map[string]string{}}

	present := 0
	for _, name := range securityHeaders {
		if v := page.Header(name); v != "" {
			present++
			result.Evidence = append(result.Evidence,
				model.NewEvidenceItem(model.CategorySecurityPosture,
					"security header "+name+" set", rawURL, 0.9))
		} else {
			result.Evidence = append(result.Evidence,
				model.NewEvidenceItem(model.CategorySecurityPosture,
					"security header "+name+" missing", rawURL, 0.9))
		}
	}
	if present > 0 {
		result.Characteristics["securityHeaders"] = "present"
	} else {
		result.Characteristics["securityHeaders"] = "missing"
	}

	if u, err := url.Parse(rawURL); err == nil && u.Scheme == "https" {
		s.inspectTLS(ctx, u, result)
	}

	return result, nil
}

// inspectTLS dials the host and records certificate evidence. Dial
// failures become evidence rather than errors.
func (s *SecurityScanner) inspectTLS(ctx context.Context, u *url.URL, result *Result) {
	state, err := s.dialTLS(ctx, u.Host)
	if err != nil {
		result.Evidence = append(result.Evidence,
			model.NewEvidenceItem(model.CategorySecurityPosture,
				"TLS handshake failed: "+err.Error(), u.String(), 0.7))
		return
	}
	if len(state.PeerCertificates) == 0 {
		return
	}

	cert := state.PeerCertificates[0]
	result.Characteristics["tlsIssuer"] = cert.Issuer.CommonName

	result.Evidence = append(result.Evidence,
		model.NewEvidenceItem(model.CategorySecurityPosture,
			"TLS certificate issued by "+cert.Issuer.CommonName, u.String(), 0.95))

	daysLeft := int(time.Until(cert.NotAfter).Hours() / 24)
	if daysLeft < 30 {
		result.Evidence = append(result.Evidence,
			model.NewEvidenceItem(model.CategorySecurityPosture,
				fmt.Sprintf("TLS certificate expires in %d days", daysLeft), u.String(), 0.95))
	}

	// SAN entries reveal sibling hosts the organization operates.
	for _, name := range cert.DNSNames {
		if strings.HasPrefix(name, "*.") || name == u.Hostname() {
			continue
		}
		result.Evidence = append(result.Evidence,
			model.NewEvidenceItem(model.CategoryCompanyInfo,
				"certificate covers host "+name, u.String(), 0.7))
	}
}

// dialTLS performs a real TLS handshake and returns the connection state.
func dialTLS(ctx context.Context, host string) (*tls.ConnectionState, error) {
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "443")
	}
	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: 10 * time.Second},
	}
	conn, err := dialer.DialContext(ctx, "tcp", host)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	return &state, nil
}
