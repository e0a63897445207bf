// Package main provides the entry point for the orgscan CLI.
//
// orgscan builds an evidence-backed intelligence profile of an organization
// from its public web presence and search engines. It discovers the site's
// URLs, runs extraction tools per page under an adaptive decision policy,
// fills coverage gaps with targeted probes and queries, and emits a scored,
// audited evidence report.
//
// Usage:
//
//	orgscan collect example.com --company "Example Corp"
//	orgscan history example.com
//
// See --help for all available options.
package main

// main is the entry point for orgscan.
func main() {
	Execute()
}
