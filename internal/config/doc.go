// Package config holds the engine configuration: collection limits,
// decision-loop thresholds, concurrency settings, and the YAML
// configuration-file loader with per-domain overrides.
//
// Configuration flows from CLI flags into a single Config struct that is
// passed through the application by dependency injection; there is no
// global configuration state.
package config
