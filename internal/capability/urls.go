package capability

import "net/url"

// absoluteURL resolves ref against base, returning "" when either side
// fails to parse.
func absoluteURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return b.ResolveReference(r).String()
}

// siteRoot returns the scheme://host prefix of a URL, without a trailing
// slash.
func siteRoot(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}
