package config

// DomainConfig holds per-domain overrides for a single target.
// This allows customizing collection behavior for known domains, e.g.
// authenticated crawling of a staging site or extra seed paths for a
// company with an unusual site layout.
type DomainConfig struct {
	// Headers are custom HTTP headers to include in requests to this
	// domain.
	Headers map[string]string `yaml:"headers,omitempty"`

	// SeedPaths are extra paths enqueued at the start of URL discovery,
	// in addition to the built-in important paths.
	SeedPaths []string `yaml:"seedPaths,omitempty"`

	// MaxURLs overrides the global URL cap for this domain. Zero keeps
	// the global value.
	MaxURLs int `yaml:"maxURLs,omitempty"`

	// IgnorePatterns are URL path globs to skip during discovery.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`
}

// File represents the structure of the .orgscan configuration file.
type File struct {
	// Domains maps target domains to their overrides. Keys are bare
	// domains without a scheme (e.g. "example.com").
	Domains map[string]DomainConfig `yaml:"domains,omitempty"`

	// Defaults applies to every domain unless overridden.
	Defaults DomainConfig `yaml:"defaults,omitempty"`

	// Targets overrides per-category evidence quotas.
	Targets map[string]int `yaml:"targets,omitempty"`

	// Required lists categories that must reach the required minimum.
	Required []string `yaml:"required,omitempty"`
}

// GetDomainConfig returns the configuration for a domain, merging the
// domain-specific entry over the defaults.
func (f *File) GetDomainConfig(domain string) DomainConfig {
	result := f.Defaults

	dc, ok := f.Domains[domain]
	if !ok {
		return result
	}

	if len(dc.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range dc.Headers {
			result.Headers[k] = v
		}
	}
	if len(dc.SeedPaths) > 0 {
		result.SeedPaths = dc.SeedPaths
	}
	if dc.MaxURLs != 0 {
		result.MaxURLs = dc.MaxURLs
	}
	if len(dc.IgnorePatterns) > 0 {
		result.IgnorePatterns = dc.IgnorePatterns
	}

	return result
}
