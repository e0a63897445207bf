// Package log provides a redacting slog handler.
//
// Collection runs can carry credentials: per-domain headers from the
// configuration file may include Authorization values, and search provider
// setups may involve API keys. The RedactHandler keeps those out of log
// output regardless of which component logs them.
package log
